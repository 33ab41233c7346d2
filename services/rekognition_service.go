package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionExtractor reads label text with AWS Rekognition DetectText
// instead of the OCR collaborator.
type RekognitionExtractor struct {
	client *rekognition.Client
}

func NewRekognitionExtractor(ctx context.Context, region string) (*RekognitionExtractor, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return &RekognitionExtractor{client: rekognition.NewFromConfig(cfg)}, nil
}

func (r *RekognitionExtractor) Extract(ctx context.Context, imagePath string) ([]string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: data},
	})
	if err != nil {
		return nil, &OCRError{Message: err.Error()}
	}

	var lines []string
	for _, d := range out.TextDetections {
		if d.Type == types.TextTypesLine && d.DetectedText != nil {
			lines = append(lines, *d.DetectedText)
		}
	}
	return SplitIngredientText(strings.Join(lines, " ")), nil
}

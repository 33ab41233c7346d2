package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// TextExtractor pulls ingredient text fragments out of a label image.
type TextExtractor interface {
	Extract(ctx context.Context, imagePath string) ([]string, error)
}

// OCRError is a reachable OCR collaborator reporting failure.
type OCRError struct {
	StatusCode int
	Message    string
}

func (e *OCRError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ocr service error %d: %s", e.StatusCode, e.Message)
	}
	return "ocr service error: " + e.Message
}

// HTTPExtractor streams the image to POST {baseURL}/extract as the
// multipart field "image".
type HTTPExtractor struct {
	baseURL string
	client  *http.Client
}

func NewHTTPExtractor(baseURL string, timeout time.Duration) *HTTPExtractor {
	return &HTTPExtractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type extractResponse struct {
	Success bool     `json:"success"`
	Texts   []string `json:"texts"`
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Detail  string   `json:"detail"`
}

func (r extractResponse) upstreamMessage() string {
	for _, m := range []string{r.Message, r.Error, r.Detail} {
		if strings.TrimSpace(m) != "" {
			return m
		}
	}
	return ""
}

func (e *HTTPExtractor) Extract(ctx context.Context, imagePath string) ([]string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("image", filepath.Base(imagePath))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OCR service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR response: %w", err)
	}

	var out extractResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.upstreamMessage()
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, &OCRError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &OCRError{Message: "invalid OCR response: " + decodeErr.Error()}
	}
	if !out.Success {
		msg := out.upstreamMessage()
		if msg == "" {
			msg = "OCR extraction failed"
		}
		return nil, &OCRError{Message: msg}
	}
	if out.Texts == nil {
		return []string{}, nil
	}
	return out.Texts, nil
}

var (
	percentRe     = regexp.MustCompile(`\d+\.?\d*\s*%`)
	bareDecimalRe = regexp.MustCompile(`(^|[^\w])\d+\.\d+($|[^\w])`)
	ingredientsRe = regexp.MustCompile(`(?i)\bingredients?\b`)
	labelPunct    = strings.NewReplacer("(", "", ")", "", "[", "", "]", "", ":", "", "/", " ", ".", " ")
)

// SplitIngredientText turns raw label text into cleaned, lower-cased
// fragments: split on commas and semicolons, strip percentages, decimals,
// the word "ingredients" and bracket punctuation, drop one-letter leftovers.
func SplitIngredientText(raw string) []string {
	parts := strings.Split(strings.ReplaceAll(raw, ";", ","), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = percentRe.ReplaceAllString(p, "")
		p = bareDecimalRe.ReplaceAllString(p, "$1$2")
		p = ingredientsRe.ReplaceAllString(p, "")
		p = labelPunct.Replace(p)
		p = strings.Join(strings.Fields(strings.ToLower(p)), " ")
		if len(p) > 1 {
			out = append(out, p)
		}
	}
	return out
}

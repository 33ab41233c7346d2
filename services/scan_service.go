package services

import (
	"context"
	"errors"
	"io"
	"syscall"
	"time"

	"scan2know/metrics"
	"scan2know/models"
	"scan2know/utils"

	"github.com/apex/log"
)

const defaultProductName = "Scanned Product"

// ImageArchiver keeps a durable copy of a scanned image.
type ImageArchiver interface {
	Archive(ctx context.Context, userID uint, path string) (string, error)
}

// ScanListener is told about every persisted scan. Implementations handle
// their own errors.
type ScanListener interface {
	OnScan(ctx context.Context, ev *models.ScanEvent)
}

type ScanInput struct {
	UserID      uint
	ProductName string
	Filename    string
	Image       io.Reader
}

type ScanResult struct {
	ScanID         uint                        `json:"scanId"`
	Summary        string                      `json:"summary"`
	Ingredients    []models.IngredientSnapshot `json:"ingredients"`
	SeverityCounts models.SeverityCounts       `json:"severityCounts"`
	OrgansAffected []string                    `json:"organsAffected"`
	OverallRating  models.Severity             `json:"overallRating"`
}

type ScanDeps struct {
	UploadDir      string
	UploadMaxBytes int64
	Extractor      TextExtractor
	Matcher        *Matcher
	Summaries      *SummaryGenerator
	History        HistoryStore
	Archive        ImageArchiver  // optional
	Listeners      []ScanListener // optional
}

// ScanService runs one label image through OCR, matching, rating,
// summarising and persistence.
type ScanService struct {
	deps ScanDeps
}

func NewScanService(deps ScanDeps) *ScanService {
	return &ScanService{deps: deps}
}

// Scan processes one upload. Every error it returns is a *ScanError. The
// uploaded file is removed before Scan returns, whatever the outcome.
func (s *ScanService) Scan(ctx context.Context, in ScanInput) (res *ScanResult, err error) {
	start := time.Now()
	logger := log.WithField("user_id", in.UserID)
	defer func() {
		result := "ok"
		if err != nil {
			result = KindOf(err).String()
			logger.WithError(err).Warn("scan failed")
		}
		metrics.ScanTotal.WithLabelValues(result).Inc()
		metrics.ScanDurationSeconds.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	// intake
	if in.Image == nil {
		return nil, badRequest("No image uploaded")
	}
	img, err := utils.SaveTempImage(s.deps.UploadDir, in.Filename, in.Image, s.deps.UploadMaxBytes)
	if err != nil {
		if errors.Is(err, utils.ErrUnsupportedImage) || errors.Is(err, utils.ErrImageTooLarge) {
			return nil, &ScanError{Kind: KindBadRequest, Message: err.Error(), Err: err}
		}
		return nil, internalError("Failed to store upload", err)
	}
	defer img.Release()
	logger = logger.WithField("path", img.Path)

	if !img.Exists() {
		return nil, badRequest("File not found after upload")
	}

	// ocr_call
	texts, err := s.deps.Extractor.Extract(ctx, img.Path)
	if err != nil {
		return nil, translateOCRError(err)
	}

	// extract_check
	if len(texts) == 0 {
		return nil, badRequest("No text found in image. Please try again with a clearer image.")
	}
	logger.WithField("fragments", len(texts)).Debug("ocr extracted text")

	// match
	matched, err := s.deps.Matcher.Match(ctx, texts)
	if err != nil {
		return nil, internalError("Failed to match ingredients", err)
	}
	if len(matched) == 0 {
		return nil, badRequest("No matching ingredients found in our database. The product may be too new or regional.")
	}
	metrics.MatchedIngredients.Observe(float64(len(matched)))

	// aggregate
	counts := Tally(matched)
	rating := OverallRating(counts)
	organs := OrgansAffected(matched)

	// summarize
	summary := s.deps.Summaries.Generate(ctx, matched)

	// persist
	productName := in.ProductName
	if productName == "" {
		productName = defaultProductName
	}
	ev := &models.ScanEvent{
		UserID:             in.UserID,
		ProductName:        productName,
		ScannedIngredients: texts,
		Ingredients:        matched,
		Summary:            summary,
		SeverityCounts:     counts,
		OverallRating:      rating,
		OrgansAffected:     organs,
		ImageURL:           s.archiveImage(ctx, in.UserID, img.Path),
	}
	if err := s.deps.History.Append(ctx, ev); err != nil {
		return nil, internalError("Failed to save scan history", err)
	}

	logger.WithFields(log.Fields{
		"scan_id":        ev.ID,
		"matched":        len(matched),
		"overall_rating": rating,
	}).Info("scan completed")

	for _, l := range s.deps.Listeners {
		l.OnScan(ctx, ev)
	}

	// respond; cleanup runs on return
	return &ScanResult{
		ScanID:         ev.ID,
		Summary:        summary,
		Ingredients:    matched,
		SeverityCounts: counts,
		OrgansAffected: organs,
		OverallRating:  rating,
	}, nil
}

func (s *ScanService) archiveImage(ctx context.Context, userID uint, path string) string {
	if s.deps.Archive == nil {
		return ""
	}
	url, err := s.deps.Archive.Archive(ctx, userID, path)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("failed to archive scan image")
		return ""
	}
	return url
}

func translateOCRError(err error) *ScanError {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &ScanError{
			Kind:    KindServiceUnavailable,
			Message: "OCR service is not running. Please start the OCR service and try again.",
			Err:     err,
		}
	}
	var ocrErr *OCRError
	if errors.As(err, &ocrErr) && ocrErr.Message != "" {
		return &ScanError{Kind: KindUpstream, Message: ocrErr.Message, Err: err}
	}
	return &ScanError{Kind: KindUpstream, Message: "OCR service request failed", Err: err}
}

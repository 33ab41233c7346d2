package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scan2know/metrics"
	"scan2know/models"

	"github.com/apex/log"
)

// fallbackSentences is how many narrative sentences the local fallback keeps.
const fallbackSentences = 3

// Summarizer turns a long narrative into a short synopsis.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Narrative flattens matched ingredients into one sentence each.
func Narrative(ingredients []models.IngredientSnapshot) string {
	sentences := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		organs := "general health"
		if len(ing.OrgansAffected) > 0 {
			organs = strings.Join(ing.OrgansAffected, ", ")
		}
		alternative := ing.Alternative
		if strings.TrimSpace(alternative) == "" {
			alternative = "natural alternatives"
		}
		sentences = append(sentences, fmt.Sprintf(
			"The %s is %s and will affect the %s, use %s instead of %s",
			ing.Name, ing.HealthEffect, organs, alternative, ing.Name,
		))
	}
	return strings.Join(sentences, ". ")
}

// FallbackSummary keeps the first three non-empty "."-separated segments of
// text, joined with "." and closed with a trailing ".".
func FallbackSummary(text string) string {
	var kept []string
	for _, seg := range strings.Split(text, ".") {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		kept = append(kept, seg)
		if len(kept) == fallbackSentences {
			break
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, ".") + "."
}

// SummaryGenerator never fails: when the summarizer is missing or errors,
// the local fallback is used.
type SummaryGenerator struct {
	summarizer Summarizer
}

func NewSummaryGenerator(s Summarizer) *SummaryGenerator {
	return &SummaryGenerator{summarizer: s}
}

func (g *SummaryGenerator) Generate(ctx context.Context, ingredients []models.IngredientSnapshot) string {
	text := Narrative(ingredients)
	if g.summarizer == nil {
		metrics.SummarizerFallbackTotal.Inc()
		return FallbackSummary(text)
	}

	summary, err := g.summarizer.Summarize(ctx, text)
	if err != nil {
		log.WithError(err).Warn("summarizer unavailable, using local fallback")
		metrics.SummarizerFallbackTotal.Inc()
		return FallbackSummary(text)
	}
	return summary
}

// HTTPSummarizer calls the summarizer collaborator: POST {baseURL}/summarize.
type HTTPSummarizer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSummarizer(baseURL string, timeout time.Duration) *HTTPSummarizer {
	return &HTTPSummarizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	b, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal summarizer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/summarize", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create summarizer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call summarizer: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read summarizer response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("summarizer error %d: %s", resp.StatusCode, string(body))
	}

	var out summarizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse summarizer JSON: %w", err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return "", errors.New("summarizer returned an empty summary")
	}
	return out.Summary, nil
}

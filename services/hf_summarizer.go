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
)

const hfInferenceURL = "https://api-inference.huggingface.co/models/"

// HFSummarizer uses the HuggingFace inference API as the summarizer
// collaborator.
type HFSummarizer struct {
	client  *http.Client
	token   string
	model   string
	baseURL string
}

func NewHFSummarizer(token, model string, timeout time.Duration) *HFSummarizer {
	return &HFSummarizer{
		client:  &http.Client{Timeout: timeout},
		token:   token,
		model:   model,
		baseURL: hfInferenceURL,
	}
}

func (h *HFSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if h.token == "" {
		return "", errors.New("HUGGINGFACE_TOKEN not set")
	}

	body := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"max_length": 130,
			"min_length": 30,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal hf payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.model, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create hf request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", "application/json")
	// cold models return a "loading" error without this
	req.Header.Set("x-wait-for-model", "true")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("hf request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read hf response error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var hfErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBytes, &hfErr) == nil && hfErr.Error != "" {
			return "", fmt.Errorf("hf api error (%d): %s", resp.StatusCode, hfErr.Error)
		}
		return "", fmt.Errorf("hf api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	// summarization models answer [{"summary_text": "..."}]
	var hfOut []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := json.Unmarshal(respBytes, &hfOut); err != nil {
		preview := string(respBytes)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return "", fmt.Errorf("decode hf response error: %v | body: %s", err, preview)
	}
	if len(hfOut) == 0 || strings.TrimSpace(hfOut[0].SummaryText) == "" {
		return "", errors.New("empty summary from hf")
	}
	return strings.TrimSpace(hfOut[0].SummaryText), nil
}

package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tubetracker/internal/tracker"
)

const (
	// MaxTextLength is the number of characters sent per comment.
	MaxTextLength = 500

	defaultBatchSize = 32
)

// HFClient scores texts with a text-classification model served by the
// Hugging Face inference API.
type HFClient struct {
	endpoint  string
	model     string
	token     string
	batchSize int
	client    *http.Client
}

var _ tracker.SentimentScorer = (*HFClient)(nil)

// NewHFClient creates a client for model at endpoint.
func NewHFClient(endpoint, model, token string, timeout time.Duration) (*HFClient, error) {
	if endpoint == "" || model == "" {
		return nil, fmt.Errorf("sentiment endpoint and model are required")
	}
	if token == "" {
		return nil, fmt.Errorf("hugging face api token is not set")
	}
	return &HFClient{
		endpoint:  strings.TrimRight(endpoint, "/"),
		model:     model,
		token:     token,
		batchSize: defaultBatchSize,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

type hfRequest struct {
	Inputs  []string  `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScoreBatch returns one entry per text. Blank texts are not sent and score
// as nil.
func (c *HFClient) ScoreBatch(ctx context.Context, texts []string) ([]*tracker.SentimentResult, error) {
	results := make([]*tracker.SentimentResult, len(texts))

	var (
		inputs  []string
		indices []int
	)
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		inputs = append(inputs, truncate(t, MaxTextLength))
		indices = append(indices, i)
	}

	for start := 0; start < len(inputs); start += c.batchSize {
		end := min(start+c.batchSize, len(inputs))
		labels, err := c.classify(ctx, inputs[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch [%d:%d]: %w", start, end, err)
		}
		for j, top := range labels {
			results[indices[start+j]] = &tracker.SentimentResult{
				Label:     top.Label,
				Score:     top.Score,
				Sentiment: NormalizeLabel(top.Label),
			}
		}
	}
	return results, nil
}

// classify returns the highest-scoring label for each input.
func (c *HFClient) classify(ctx context.Context, inputs []string) ([]hfLabel, error) {
	body, err := json.Marshal(hfRequest{Inputs: inputs, Options: hfOptions{WaitForModel: true}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.endpoint + "/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(respBody))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	tops, err := decodeLabels(raw)
	if err != nil {
		return nil, err
	}
	if len(tops) != len(inputs) {
		return nil, fmt.Errorf("got %d classifications for %d inputs", len(tops), len(inputs))
	}
	return tops, nil
}

// decodeLabels accepts both response shapes the API produces: one list of
// candidate labels per input, or a flat list with one label per input.
func decodeLabels(raw []byte) ([]hfLabel, error) {
	var nested [][]hfLabel
	if err := json.Unmarshal(raw, &nested); err == nil {
		out := make([]hfLabel, len(nested))
		for i, candidates := range nested {
			if len(candidates) == 0 {
				return nil, fmt.Errorf("no labels for input %d", i)
			}
			out[i] = candidates[0]
			for _, l := range candidates[1:] {
				if l.Score > out[i].Score {
					out[i] = l
				}
			}
		}
		return out, nil
	}

	var flat []hfLabel
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return flat, nil
}

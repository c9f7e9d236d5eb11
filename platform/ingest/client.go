package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pdfchat_backend/config"
	"pdfchat_backend/models"
	"pdfchat_backend/pkg/logging"
)

// ErrNotFound means the engine no longer knows the document (deleted
// server-side).
var ErrNotFound = errors.New("document not found in engine")

// Client talks to the ingestion engine's HTTP API. Ingestion itself,
// parsing and indexing all happen inside the engine; this client only
// hands work over and reads status back.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.EngineURL, "/"),
		// no client-wide timeout: the status stream is long-lived and
		// one-shot calls carry their own context deadlines
		http: &http.Client{},
	}
}

type statusResp struct {
	DocID  string `json:"pdf_id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// CheckStatus performs one point-in-time status check for a document.
func (c *Client) CheckStatus(ctx context.Context, docID string) (models.ProcessingStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/processing-status/"+docID, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer closeBody(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("engine status check returned %d", resp.StatusCode)
	}

	var body statusResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode status response: %w", err)
	}
	return models.ProcessingStatus(body.Status), nil
}

// StartProcessing hands the engine one document to ingest. The engine
// fetches the file itself through the presigned URL in the task.
func (c *Client) StartProcessing(ctx context.Context, task *models.IngestTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/process", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("engine rejected processing request: %d", resp.StatusCode)
	}
	return nil
}

// Query forwards a question to the engine's RAG endpoint, scoped to the
// asking user's documents.
func (c *Client) Query(ctx context.Context, query *models.QueryReq) (*models.QueryResp, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine query returned %d", resp.StatusCode)
	}

	var body models.QueryResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return &body, nil
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logging.Logger.Error("fail closing response body", "error", err)
	}
}

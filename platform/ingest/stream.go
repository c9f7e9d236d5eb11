package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"pdfchat_backend/models"
)

// StatusStream is a live SSE subscription to one document's status feed.
// The engine emits one bare status value per event (`data: processing`).
// Recv surfaces each value in arrival order; any transport failure,
// including the server ending the stream, surfaces as a single error.
type StatusStream struct {
	body      io.ReadCloser
	scanner   *bufio.Scanner
	closeOnce sync.Once
	closeErr  error
}

// OpenStatusStream subscribes to the engine's processing-events feed for
// docID. Cancelling ctx closes the underlying connection, which unblocks
// any Recv in progress.
func (c *Client) OpenStatusStream(ctx context.Context, docID string) (*StatusStream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/processing-events/"+docID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		closeBody(resp.Body)
		return nil, fmt.Errorf("engine event stream returned %d", resp.StatusCode)
	}

	return &StatusStream{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
	}, nil
}

// Recv blocks until the next status event arrives. It returns io.EOF when
// the server closes the stream without an event in flight; callers treat
// that, like any other error, as a channel failure.
func (s *StatusStream) Recv() (models.ProcessingStatus, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			// event separator or SSE comment
			continue
		}
		if data, ok := strings.CutPrefix(line, "data:"); ok {
			return models.ProcessingStatus(strings.TrimSpace(data)), nil
		}
		// other SSE fields (event:, id:, retry:) carry nothing we need
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close releases the underlying connection. Safe to call multiple times
// and concurrently with Recv; a Recv blocked on the wire returns an error
// once the body is closed.
func (s *StatusStream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

package network

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTooLarge indicates a download exceeded the caller's byte cap.
var ErrTooLarge = errors.New("response body exceeds size cap")

// DownloadBytes performs a size-bounded GET against url using client.
//
// A declared Content-Length above maxBytes rejects the response before any
// body bytes are read. Responses without a length header are aborted the
// instant the accumulated bytes exceed the cap, discarding partial data.
func DownloadBytes(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	if client == nil {
		client = Client
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("download %s: declared %d bytes: %w", url, resp.ContentLength, ErrTooLarge)
	}

	var buf bytes.Buffer
	// Read one byte past the cap so overflow is detectable.
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if n > maxBytes {
		return nil, fmt.Errorf("download %s: %w", url, ErrTooLarge)
	}

	return buf.Bytes(), nil
}

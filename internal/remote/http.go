package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/atelier-studio/atelier/internal/errors"
	"github.com/atelier-studio/atelier/internal/logger"
)

// HTTPStore talks JSON to the workspace server:
//
//	GET /api/files/{id}  -> Payload
//	PUT /api/files/{id}  <- Payload, -> Ack
type HTTPStore struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// HTTPConfig holds the HTTP store configuration.
type HTTPConfig struct {
	BaseURL   string
	Timeout   time.Duration
	AuthToken string
}

// NewHTTPStore creates a store against the given base URL.
func NewHTTPStore(cfg HTTPConfig) *HTTPStore {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HTTPStore{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:    20,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		authToken: cfg.AuthToken,
	}
}

func (s *HTTPStore) fileURL(fileID string) string {
	return s.baseURL + "/api/files/" + url.PathEscape(fileID)
}

func (s *HTTPStore) applyAuth(req *http.Request) {
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
}

// Fetch retrieves a file payload. A 404 maps to a KindNotFound error so
// callers can distinguish "file gone" from transport failures.
func (s *HTTPStore) Fetch(ctx context.Context, fileID string) (*Payload, error) {
	const op = errors.Op("remote.Fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.fileURL(fileID), nil)
	if err != nil {
		return nil, errors.E(op, errors.KindInvalid, err)
	}
	s.applyAuth(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.E(op, errors.KindNetwork, "file "+fileID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.E(op, errors.KindNotFound, "file "+fileID, fmt.Errorf("server returned 404"))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.E(op, errors.KindPersistence, "file "+fileID,
			fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(body)))
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.E(op, errors.KindPersistence, "file "+fileID, err)
	}

	logger.Debug("Remote: Fetched file=%s (%d bytes)", fileID, len(payload.Content))
	return &payload, nil
}

// Save writes a file payload back. The returned Ack carries the
// server-confirmed save time.
func (s *HTTPStore) Save(ctx context.Context, fileID string, payload *Payload) (Ack, error) {
	const op = errors.Op("remote.Save")

	body, err := json.Marshal(payload)
	if err != nil {
		return Ack{}, errors.E(op, errors.KindInvalid, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.fileURL(fileID), bytes.NewReader(body))
	if err != nil {
		return Ack{}, errors.E(op, errors.KindInvalid, err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.applyAuth(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Ack{}, errors.E(op, errors.KindNetwork, "file "+fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Ack{}, errors.E(op, errors.KindPersistence, "file "+fileID,
			fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody)))
	}

	var ack Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return Ack{}, errors.E(op, errors.KindPersistence, "file "+fileID, err)
	}
	if ack.SavedAt.IsZero() {
		ack.SavedAt = time.Now()
	}

	logger.Debug("Remote: Saved file=%s (%d bytes)", fileID, len(payload.Content))
	return ack, nil
}

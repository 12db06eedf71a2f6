package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RemoteBackend talks to the state service over HTTP
type RemoteBackend struct {
	BaseURL    string
	HTTPClient *http.Client
}

type stateResponse struct {
	Data    json.RawMessage `json:"data"`
	Version int64           `json:"version"`
}

type putRequest struct {
	Data json.RawMessage `json:"data"`
}

type putResponse struct {
	Success bool  `json:"success"`
	Version int64 `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRemoteBackend creates a client for the state service at baseURL
func NewRemoteBackend(baseURL string, timeout time.Duration) *RemoteBackend {
	return &RemoteBackend{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Close drops idle keep-alive connections
func (b *RemoteBackend) Close() error {
	b.HTTPClient.CloseIdleConnections()
	return nil
}

// Get fetches the document stored under key
func (b *RemoteBackend) Get(ctx context.Context, key string) (Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.stateURL(key), nil)
	if err != nil {
		return Record{}, err
	}

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("fetch %s from remote store: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Record{}, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Record{}, ErrNotFound
	default:
		return Record{}, fmt.Errorf("fetch %s from remote store: %s", key, describe(resp.StatusCode, body))
	}

	var payload stateResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Record{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return Record{Data: payload.Data, Version: payload.Version}, nil
}

// Put overwrites key unconditionally
func (b *RemoteBackend) Put(ctx context.Context, key string, data json.RawMessage) (int64, error) {
	return b.put(ctx, key, data, "")
}

// PutIf sends the expected version as If-Match
func (b *RemoteBackend) PutIf(ctx context.Context, key string, data json.RawMessage, version int64) (int64, error) {
	return b.put(ctx, key, data, strconv.Quote(strconv.FormatInt(version, 10)))
}

func (b *RemoteBackend) put(ctx context.Context, key string, data json.RawMessage, ifMatch string) (int64, error) {
	reqBody, err := json.Marshal(putRequest{Data: data})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.stateURL(key), bytes.NewReader(reqBody))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if ifMatch != "" {
		req.Header.Set("If-Match", ifMatch)
	}

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("persist %s to remote store: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict, http.StatusPreconditionFailed:
		return 0, ErrVersionConflict
	default:
		return 0, fmt.Errorf("persist %s to remote store: %s", key, describe(resp.StatusCode, body))
	}

	var payload putResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode put response for %s: %w", key, err)
	}
	return payload.Version, nil
}

func (b *RemoteBackend) stateURL(key string) string {
	return fmt.Sprintf("%s/state?key=%s", b.BaseURL, url.QueryEscape(key))
}

func describe(status int, body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return fmt.Sprintf("%d %s", status, errResp.Error)
	}
	return fmt.Sprintf("%d %s", status, strings.TrimSpace(string(body)))
}

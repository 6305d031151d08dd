// Package openai is a small REST client for the hosted Responses and
// vector-store APIs. Only the endpoints the pipeline needs are implemented;
// every call takes a context and returns typed results or an *APIError.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultBaseURL is the hosted API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// uploadPurpose marks uploaded files for retrieval / vector-store use.
const uploadPurpose = "assistants"

// Client talks to the Responses and vector-store endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client. apiKey must be non-empty.
func New(apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Respond executes one Responses API call. When req.VectorStoreIDs is
// non-empty the file_search tool is attached so the model can ground its
// answer in the stores' documents.
func (c *Client) Respond(ctx context.Context, req RespondRequest) (*Response, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if req.Input == "" {
		return nil, fmt.Errorf("input is required")
	}

	body := respondBody{
		Model:           req.Model,
		Input:           req.Input,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if len(req.VectorStoreIDs) > 0 {
		body.Tools = []tool{{Type: "file_search", VectorStoreIDs: req.VectorStoreIDs}}
	}

	var resp Response
	if err := c.doJSON(ctx, http.MethodPost, "/responses", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListVectorStores returns up to limit stores.
func (c *Client) ListVectorStores(ctx context.Context, limit int) ([]VectorStore, error) {
	var env listEnvelope[VectorStore]
	path := "/vector_stores?" + limitQuery(limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CreateVectorStore creates a named store and returns it.
func (c *Client) CreateVectorStore(ctx context.Context, name string) (*VectorStore, error) {
	if name == "" {
		return nil, fmt.Errorf("store name is required")
	}
	var store VectorStore
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/vector_stores", body, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// ListVectorStoreFiles returns up to limit files attached to a store.
func (c *Client) ListVectorStoreFiles(ctx context.Context, storeID string, limit int) ([]VectorStoreFile, error) {
	if storeID == "" {
		return nil, fmt.Errorf("store id is required")
	}
	var env listEnvelope[VectorStoreFile]
	path := fmt.Sprintf("/vector_stores/%s/files?%s", url.PathEscape(storeID), limitQuery(limit))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// RetrieveFile fetches metadata (filename, byte size) for an uploaded file.
func (c *Client) RetrieveFile(ctx context.Context, fileID string) (*FileMeta, error) {
	if fileID == "" {
		return nil, fmt.Errorf("file id is required")
	}
	var meta FileMeta
	if err := c.doJSON(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID), nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// UploadFile uploads a local file for retrieval use and returns its metadata.
func (c *Client) UploadFile(ctx context.Context, path string) (*FileMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("purpose", uploadPurpose); err != nil {
		return nil, fmt.Errorf("writing purpose field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copying %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finishing multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &buf)
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var meta FileMeta
	if err := c.send(httpReq, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// AttachFile adds an uploaded file to a vector store. The platform chunks
// and embeds it asynchronously.
func (c *Client) AttachFile(ctx context.Context, storeID, fileID string) (*VectorStoreFile, error) {
	if storeID == "" || fileID == "" {
		return nil, fmt.Errorf("store id and file id are required")
	}
	var vf VectorStoreFile
	body := map[string]string{"file_id": fileID}
	path := fmt.Sprintf("/vector_stores/%s/files", url.PathEscape(storeID))
	if err := c.doJSON(ctx, http.MethodPost, path, body, &vf); err != nil {
		return nil, err
	}
	return &vf, nil
}

// DetachFile removes a file from a vector store.
func (c *Client) DetachFile(ctx context.Context, storeID, fileID string) error {
	if storeID == "" || fileID == "" {
		return fmt.Errorf("store id and file id are required")
	}
	path := fmt.Sprintf("/vector_stores/%s/files/%s", url.PathEscape(storeID), url.PathEscape(fileID))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// doJSON issues a JSON request against a path and decodes the response into
// out (which may be nil for delete-style calls).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// send executes the request and decodes either the payload or the platform
// error envelope.
func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug("api call",
		"method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) error {
	var envelope struct {
		Error APIError `json:"error"`
	}
	apiErr := APIError{StatusCode: status, Message: http.StatusText(status)}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr = envelope.Error
		apiErr.StatusCode = status
	}
	return &apiErr
}

func limitQuery(limit int) string {
	if limit <= 0 {
		limit = 20
	}
	return "limit=" + strconv.Itoa(limit)
}

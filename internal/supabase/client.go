// Package supabase is a REST client for the backend-as-a-service layer:
// tabular reads through the PostgREST endpoint and object uploads through
// the storage endpoint. Only the entities the pipeline touches are modeled.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to one Supabase project with its anon key.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the project at baseURL.
func New(baseURL, anonKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" || anonKey == "" {
		return nil, fmt.Errorf("supabase url and anon key are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: time.Minute},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UploadObject stores content under bucket/path with the declared content
// type, overwriting any previous object at that key. Returns the object key.
func (c *Client) UploadObject(ctx context.Context, bucket, path string, content []byte, contentType string) (string, error) {
	if bucket == "" || path == "" {
		return "", fmt.Errorf("bucket and path are required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, url.PathEscape(bucket), escapeObjectPath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	var result struct {
		Key string `json:"Key"`
		// Newer storage versions return lowercase fields.
		ID   string `json:"Id"`
		Path string `json:"path"`
	}
	if err := c.send(req, &result); err != nil {
		return "", err
	}

	key := result.Key
	if key == "" {
		key = result.Path
	}
	if key == "" {
		key = path
	}
	c.logger.Debug("object uploaded", "bucket", bucket, "path", path, "content_type", contentType)
	return key, nil
}

// DeckByTitle returns the deck exactly matching title, or nil when absent.
func (c *Client) DeckByTitle(ctx context.Context, title string) (*Deck, error) {
	var decks []Deck
	query := url.Values{
		"select": {"id,title,items"},
		"title":  {"eq." + title},
	}
	if err := c.get(ctx, "decks", query, &decks); err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return nil, nil
	}
	return &decks[0], nil
}

// QuizByTitle returns the quiz template exactly matching title, or nil.
func (c *Client) QuizByTitle(ctx context.Context, title string) (*Quiz, error) {
	var quizzes []Quiz
	query := url.Values{
		"select": {"id,title,description,items"},
		"title":  {"eq." + title},
	}
	if err := c.get(ctx, "quiz_templates", query, &quizzes); err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, nil
	}
	return &quizzes[0], nil
}

// CardsByIDs reads id/front/back for the given card ids. Ids that are not
// valid UUIDs are dropped before building the filter, so malformed item
// references cannot corrupt the query. Order of the result follows the
// backend, not ids; callers reorder as needed.
func (c *Client) CardsByIDs(ctx context.Context, ids []string) ([]Card, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			c.logger.Warn("skipping malformed card id", "id", id)
			continue
		}
		valid = append(valid, id)
	}
	if len(valid) == 0 {
		return nil, nil
	}
	var cards []Card
	query := url.Values{
		"select": {"id,front,back"},
		"id":     {"in.(" + strings.Join(valid, ",") + ")"},
	}
	if err := c.get(ctx, "cards", query, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CardsByDeckTitle resolves a deck by exact title and returns its cards in
// deck order. Cards referenced but missing from the cards table are skipped.
// A missing deck yields an empty slice, not an error.
func (c *Client) CardsByDeckTitle(ctx context.Context, title string) ([]Card, error) {
	deck, err := c.DeckByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, nil
	}
	return c.orderedCards(ctx, deck.Items)
}

// CardsByQuizTitle resolves a quiz template by exact title and returns its
// cards in template order.
func (c *Client) CardsByQuizTitle(ctx context.Context, title string) ([]Card, error) {
	quiz, err := c.QuizByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, nil
	}
	return c.orderedCards(ctx, quiz.Items)
}

// orderedCards fetches the referenced cards and restores collection order.
func (c *Client) orderedCards(ctx context.Context, items ItemList) ([]Card, error) {
	refs := make([]ItemRef, 0, len(items.Items))
	for _, ref := range items.Items {
		if ref.CardID != "" {
			refs = append(refs, ref)
		}
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Position < refs[j].Position })

	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.CardID
	}

	cards, err := c.CardsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Card, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
	}

	ordered := make([]Card, 0, len(ids))
	for _, id := range ids {
		if card, ok := byID[id]; ok {
			ordered = append(ordered, card)
		}
	}
	return ordered, nil
}

// get issues a PostgREST read for one table.
func (c *Client) get(ctx context.Context, table string, query url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, url.PathEscape(table), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", table, err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")
	return c.send(req, out)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var parsed APIError
		if err := json.Unmarshal(data, &parsed); err == nil && parsed.Message != "" {
			parsed.StatusCode = resp.StatusCode
			apiErr = &parsed
		}
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}

// escapeObjectPath escapes each segment of an object key while keeping the
// separators, so "card-id/front1.jpg" stays a two-segment key.
func escapeObjectPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizit-app/quizit-tools/internal/log"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("test-key", log.NewNop(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNew_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := New("", log.NewNop())
	require.Error(t, err)
}

func TestRespond_AttachesFileSearchTool(t *testing.T) {
	t.Parallel()

	var got respondBody
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Response{ID: "resp_1", ConvText: "answer"})
	}))

	resp, err := c.Respond(context.Background(), RespondRequest{
		Model:           "gpt-5-mini",
		Input:           "where is Haidian?",
		MaxOutputTokens: 8000,
		VectorStoreIDs:  []string{"vs_123"},
	})
	require.NoError(t, err)

	assert.Equal(t, "answer", resp.OutputText())
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "file_search", got.Tools[0].Type)
	assert.Equal(t, []string{"vs_123"}, got.Tools[0].VectorStoreIDs)
	assert.Equal(t, 8000, got.MaxOutputTokens)
}

func TestRespond_NoToolWithoutStores(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got respondBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Empty(t, got.Tools)
		_ = json.NewEncoder(w).Encode(Response{ID: "resp_2"})
	}))

	_, err := c.Respond(context.Background(), RespondRequest{Model: "gpt-5-mini", Input: "hi"})
	require.NoError(t, err)
}

func TestRespond_APIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error","code":"rate_limit_exceeded"}}`))
	}))

	_, err := c.Respond(context.Background(), RespondRequest{Model: "m", Input: "q"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate_limit_exceeded", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "rate limited")
}

func TestOutputText_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp Response
		want string
	}{
		{
			name: "convenience field",
			resp: Response{ConvText: "direct"},
			want: "direct",
		},
		{
			name: "nested output items",
			resp: Response{Output: []OutputItem{
				{Type: "file_search_call"},
				{Type: "message", Content: []ContentPart{
					{Type: "reasoning_summary", Text: "ignored"},
					{Type: "output_text", Text: "from the walk"},
				}},
			}},
			want: "from the walk",
		},
		{
			name: "convenience field wins",
			resp: Response{
				ConvText: "direct",
				Output:   []OutputItem{{Type: "message", Content: []ContentPart{{Type: "output_text", Text: "nested"}}}},
			},
			want: "direct",
		},
		{
			name: "no text anywhere",
			resp: Response{Output: []OutputItem{{Type: "message", Content: []ContentPart{{Type: "refusal", Text: ""}}}}},
			want: "",
		},
		{
			name: "empty response",
			resp: Response{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.resp.OutputText())
		})
	}
}

func TestListVectorStores(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vector_stores", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[{"id":"vs_1","name":"history-kb","created_at":1700000000,"usage_bytes":2048}]}`))
	}))

	stores, err := c.ListVectorStores(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "vs_1", stores[0].ID)
	assert.Equal(t, "history-kb", stores[0].Name)
	assert.EqualValues(t, 2048, stores[0].UsageBytes)
}

func TestCreateVectorStore(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "geo-kb", body["name"])
		_ = json.NewEncoder(w).Encode(VectorStore{ID: "vs_new", Name: "geo-kb"})
	}))

	store, err := c.CreateVectorStore(context.Background(), "geo-kb")
	require.NoError(t, err)
	assert.Equal(t, "vs_new", store.ID)
}

func TestUploadAndAttachFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docPath := filepath.Join(dir, "chapter1.md")
	require.NoError(t, os.WriteFile(docPath, []byte("# chapter"), 0o600))

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "assistants", r.FormValue("purpose"))
			f, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			assert.Equal(t, "chapter1.md", header.Filename)
			_ = json.NewEncoder(w).Encode(FileMeta{ID: "file_1", Filename: "chapter1.md", Bytes: 9})
		case "/vector_stores/vs_1/files":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "file_1", body["file_id"])
			_ = json.NewEncoder(w).Encode(VectorStoreFile{ID: "file_1", Status: "in_progress"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	meta, err := c.UploadFile(context.Background(), docPath)
	require.NoError(t, err)
	assert.Equal(t, "file_1", meta.ID)

	vf, err := c.AttachFile(context.Background(), "vs_1", meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", vf.Status)
}

func TestDetachFile(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/vector_stores/vs_1/files/file_9", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"file_9","deleted":true}`))
	}))

	require.NoError(t, c.DetachFile(context.Background(), "vs_1", "file_9"))
}

func TestRetrieveFile(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/file_2", r.URL.Path)
		_ = json.NewEncoder(w).Encode(FileMeta{ID: "file_2", Filename: "atlas.pdf", Bytes: 1024})
	}))

	meta, err := c.RetrieveFile(context.Background(), "file_2")
	require.NoError(t, err)
	assert.Equal(t, "atlas.pdf", meta.Filename)
}

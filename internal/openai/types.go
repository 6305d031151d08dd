package openai

import (
	"fmt"
	"strings"
)

// RespondRequest describes one Responses API call.
type RespondRequest struct {
	Model           string
	Input           string
	MaxOutputTokens int
	// VectorStoreIDs, when non-empty, attaches the file_search tool scoped
	// to these stores.
	VectorStoreIDs []string
}

// respondBody is the wire form of RespondRequest.
type respondBody struct {
	Model           string `json:"model"`
	Input           string `json:"input"`
	MaxOutputTokens int    `json:"max_output_tokens,omitempty"`
	Tools           []tool `json:"tools,omitempty"`
}

type tool struct {
	Type           string   `json:"type"`
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}

// Response is the typed shape of a Responses API result. The service may
// deliver the answer as a top-level convenience field, as nested output
// items, or not at all; OutputText is the one extraction point over all of
// those shapes.
type Response struct {
	ID       string       `json:"id"`
	Model    string       `json:"model"`
	ConvText string       `json:"output_text,omitempty"`
	Output   []OutputItem `json:"output,omitempty"`
	Status   string       `json:"status,omitempty"`

	IncompleteDetails *IncompleteDetails `json:"incomplete_details,omitempty"`
}

// IncompleteDetails reports why a response stopped early.
type IncompleteDetails struct {
	Reason string `json:"reason,omitempty"`
}

// OutputItem is one entry of the output list, usually a message.
type OutputItem struct {
	Type    string        `json:"type"`
	Role    string        `json:"role,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
}

// ContentPart is one typed fragment of an output item.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// OutputText returns the answer text, walking the nested output structure
// when the convenience field is absent. It returns "" when no text part
// exists anywhere; callers treat that as "no result", not an error.
func (r *Response) OutputText() string {
	if r == nil {
		return ""
	}
	if r.ConvText != "" {
		return r.ConvText
	}
	for _, item := range r.Output {
		for _, part := range item.Content {
			if part.Type == "output_text" && strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

// VectorStore is a hosted collection of embedded documents.
type VectorStore struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedAt  int64  `json:"created_at"`
	UsageBytes int64  `json:"usage_bytes"`
	Status     string `json:"status,omitempty"`
}

// VectorStoreFile is a file attached to a vector store.
type VectorStoreFile struct {
	ID        string `json:"id"`
	Status    string `json:"status,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// FileMeta is the metadata record of an uploaded file.
type FileMeta struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Bytes    int64  `json:"bytes"`
	Purpose  string `json:"purpose,omitempty"`
}

// listEnvelope wraps paginated list endpoints.
type listEnvelope[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
}

// APIError is a non-2xx platform response.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("openai: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("openai: %s (status %d)", e.Message, e.StatusCode)
}

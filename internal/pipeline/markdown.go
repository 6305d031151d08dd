package pipeline

import (
	"encoding/json"
	"strings"
)

// ImageRef is one markdown image occurrence. URL is empty for the bare
// `![alt]` form.
type ImageRef struct {
	Alt string
	URL string
}

// ExtractImages scans text for markdown image syntax in a single pass.
// Both `![alt](url)` and the bare `![alt]` form are recognized. An
// unterminated bracket ends the scan; an unterminated URL keeps the alt and
// resumes after the bracket.
func ExtractImages(text string) []ImageRef {
	var refs []ImageRef
	i := 0
	for i < len(text) {
		bang := strings.Index(text[i:], "![")
		if bang == -1 {
			break
		}
		bang += i

		closeBracket := strings.Index(text[bang+2:], "]")
		if closeBracket == -1 {
			break
		}
		closeBracket += bang + 2

		alt := strings.TrimSpace(text[bang+2 : closeBracket])
		url := ""

		if closeBracket+1 < len(text) && text[closeBracket+1] == '(' {
			closeParen := strings.Index(text[closeBracket+2:], ")")
			if closeParen != -1 {
				closeParen += closeBracket + 2
				url = strings.TrimSpace(text[closeBracket+2 : closeParen])
				i = closeParen + 1
			} else {
				i = closeBracket + 2
			}
		} else {
			i = closeBracket + 1
		}

		refs = append(refs, ImageRef{Alt: alt, URL: url})
	}
	return refs
}

// ExtractFront unwraps a card front and lists its image references.
// A front may be a JSON envelope {"prompt": "..."} or plain markdown; the
// returned prompt is the unwrapped text. References are deduplicated
// preserving first-occurrence order.
func ExtractFront(front string) (string, []ImageRef) {
	prompt := front
	if front == "" {
		return prompt, nil
	}

	var envelope map[string]any
	if err := json.Unmarshal([]byte(front), &envelope); err == nil {
		if p, ok := envelope["prompt"].(string); ok {
			prompt = p
		} else {
			prompt = ""
		}
	}

	if prompt == "" {
		return prompt, nil
	}

	refs := ExtractImages(prompt)
	seen := make(map[ImageRef]struct{}, len(refs))
	deduped := refs[:0]
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		deduped = append(deduped, ref)
	}
	return prompt, deduped
}

// lastLine returns the last non-empty line of text, trimmed. Deck cards put
// the graph keyword on the front's final line.
func lastLine(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

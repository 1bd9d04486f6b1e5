package assembler

import (
	"strings"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// normalizeStep rewrites composite action shapes produced by templates into
// the structured form the step schema expects.
func normalizeStep(step map[string]any) {
	req, ok := step["httpRequest"].(map[string]any)
	if !ok {
		return
	}
	for _, section := range []string{"request", "response"} {
		group, ok := req[section].(map[string]any)
		if !ok {
			continue
		}
		if h, ok := group["headers"].(string); ok {
			if headers := parseHeaders(h); len(headers) > 0 {
				group["headers"] = headers
			} else {
				delete(group, "headers")
			}
		}
		if b, ok := group["body"].(string); ok {
			if body, keep := parseBody(b); keep {
				group["body"] = body
			} else {
				delete(group, "body")
			}
		}
		if len(group) == 0 {
			delete(req, section)
		}
	}
}

// parseHeaders reads "Name: value" lines. Lines without a name or value are
// skipped.
func parseHeaders(s string) map[string]any {
	headers := map[string]any{}
	for _, line := range strings.Split(s, "\n") {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		headers[name] = value
	}
	return headers
}

// parseBody decodes a body that looks like a JSON object or array. Other
// non-empty bodies are kept as text.
func parseBody(s string) (any, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, false
	}
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return s, true
	}
	v, err := domain.ParseDocument([]byte(trimmed))
	if err != nil {
		return s, true
	}
	return v, true
}

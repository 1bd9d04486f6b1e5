package assembler

import (
	"regexp"
	"strconv"
)

var tokenRe = regexp.MustCompile(`\$(\d+)`)

// substitute replaces $<n> tokens in every string of a template with the
// matching capture. It reports false when v is a string that references a
// missing capture. Object fields and array elements that fail are removed
// from their parent instead.
func substitute(v any, captures map[int]string) (any, bool) {
	switch t := v.(type) {
	case string:
		return substituteString(t, captures)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if sub, ok := substitute(val, captures); ok {
				out[k] = sub
			}
		}
		return out, true
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			if sub, ok := substitute(val, captures); ok {
				out = append(out, sub)
			}
		}
		return out, true
	default:
		return v, true
	}
}

func substituteString(s string, captures map[int]string) (string, bool) {
	ok := true
	out := tokenRe.ReplaceAllStringFunc(s, func(tok string) string {
		n, err := strconv.Atoi(tok[1:])
		if err != nil {
			ok = false
			return tok
		}
		c, found := captures[n]
		if !found {
			ok = false
			return tok
		}
		return c
	})
	return out, ok
}

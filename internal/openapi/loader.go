// Package openapi loads API description documents referenced by specs and
// tests, and turns Arazzo workflow descriptions into specs.
package openapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// Loader fetches a description document and returns it fully dereferenced.
type Loader interface {
	Load(ctx context.Context, pathOrURL string) (map[string]any, error)
}

// DefaultLoader reads local files relative to BaseDir and fetches http(s)
// URLs with retries.
type DefaultLoader struct {
	BaseDir string

	client *retryablehttp.Client
}

// LoaderOption configures a DefaultLoader.
type LoaderOption func(*DefaultLoader)

// WithHTTPClient replaces the retrying HTTP client.
func WithHTTPClient(c *retryablehttp.Client) LoaderOption {
	return func(l *DefaultLoader) {
		l.client = c
	}
}

// NewLoader creates a DefaultLoader. Retry attempts are logged at debug level.
func NewLoader(baseDir string, log logrus.FieldLogger, opts ...LoaderOption) *DefaultLoader {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = leveledLogger{log: log}

	l := &DefaultLoader{BaseDir: baseDir, client: client}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Loader.
func (l *DefaultLoader) Load(ctx context.Context, pathOrURL string) (map[string]any, error) {
	loc := l.locate("", pathOrURL)
	d := &derefer{loader: l, ctx: ctx, docs: map[string]any{}}

	root, err := d.document(loc)
	if err != nil {
		return nil, err
	}
	out, err := d.walk(root, loc, nil)
	if err != nil {
		return nil, domain.NewError("load", loc, 0, "failed to dereference description", err)
	}
	obj, ok := out.(map[string]any)
	if !ok {
		return nil, domain.NewError("load", loc, 0, fmt.Sprintf("expected an object, got %T", out), nil)
	}
	return obj, nil
}

// locate resolves ref against the location of the document that holds it.
func (l *DefaultLoader) locate(base, ref string) string {
	if isURL(ref) {
		return ref
	}
	if isURL(base) {
		b, err := url.Parse(base)
		if err == nil {
			if r, err := url.Parse(ref); err == nil {
				return b.ResolveReference(r).String()
			}
		}
		return ref
	}
	if filepath.IsAbs(ref) {
		return ref
	}
	if base == "" {
		return filepath.Join(l.BaseDir, ref)
	}
	return filepath.Join(filepath.Dir(base), ref)
}

func (l *DefaultLoader) read(ctx context.Context, loc string) ([]byte, error) {
	if !isURL(loc) {
		return os.ReadFile(loc)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", loc, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// derefer replaces $ref objects with the values they point to. Documents are
// read once per Load call. A reference that points back into its own
// expansion is left in place.
type derefer struct {
	loader *DefaultLoader
	ctx    context.Context
	docs   map[string]any
}

func (d *derefer) document(loc string) (any, error) {
	if doc, ok := d.docs[loc]; ok {
		return doc, nil
	}
	data, err := d.loader.read(d.ctx, loc)
	if err != nil {
		return nil, domain.NewError("load", loc, 0, "failed to read description", err)
	}
	doc, err := domain.ParseDocument(data)
	if err != nil {
		return nil, domain.NewError("load", loc, 0, "failed to parse description", err)
	}
	d.docs[loc] = doc
	return doc, nil
}

func (d *derefer) walk(v any, loc string, stack []string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t["$ref"].(string); ok {
			return d.follow(t, ref, loc, stack)
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			r, err := d.walk(val, loc, stack)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			r, err := d.walk(val, loc, stack)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

func (d *derefer) follow(node map[string]any, ref, loc string, stack []string) (any, error) {
	file, pointer, _ := strings.Cut(ref, "#")
	target := loc
	if file != "" {
		target = d.loader.locate(loc, file)
	}

	key := target + "#" + pointer
	for _, seen := range stack {
		if seen == key {
			return domain.CloneObject(node), nil
		}
	}

	doc, err := d.document(target)
	if err != nil {
		return nil, err
	}
	val, err := resolvePointer(doc, pointer)
	if err != nil {
		return nil, fmt.Errorf("$ref %q: %w", ref, err)
	}
	return d.walk(val, target, append(stack, key))
}

// resolvePointer evaluates a JSON pointer (RFC 6901) against doc.
func resolvePointer(doc any, pointer string) (any, error) {
	if pointer == "" || pointer == "/" {
		return doc, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, fmt.Errorf("invalid JSON pointer %q", pointer)
	}

	cur := doc
	for _, raw := range strings.Split(pointer[1:], "/") {
		token, err := url.PathUnescape(raw)
		if err != nil {
			token = raw
		}
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")

		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[token]
			if !ok {
				return nil, fmt.Errorf("pointer %q: no property %q", pointer, token)
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("pointer %q: bad index %q", pointer, token)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("pointer %q: cannot descend into %T", pointer, cur)
		}
	}
	return cur, nil
}

// leveledLogger adapts a logrus logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log logrus.FieldLogger
}

func (l leveledLogger) entry(kv []interface{}) logrus.FieldLogger {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return l.log.WithFields(fields)
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.entry(kv).Error(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.entry(kv).Debug(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.entry(kv).Debug(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.entry(kv).Warn(msg) }

package session

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/graphcalc/internal/logging"
)

// ErrMalformed is reported by DecodeStrict for blobs or fields that could
// not be read.
var ErrMalformed = errors.New("session: malformed blob")

// FormatVersion is written into every blob.
const FormatVersion = 1

// maxBlobBytes bounds the inflated size of a blob.
const maxBlobBytes = 1 << 20

type envelope struct {
	Version int `json:"v"`
	*Session
}

// Encode serializes s into a compact URL-safe string: JSON, DEFLATE, then
// unpadded base64url.
func Encode(s *Session) (string, error) {
	raw, err := json.Marshal(envelope{Version: FormatVersion, Session: s})
	if err != nil {
		return "", fmt.Errorf("session: encode: %w", err)
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("session: encode: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("session: encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("session: encode: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reads a blob produced by Encode. It never fails: an unreadable
// blob yields New(), and each unreadable field keeps its default.
func Decode(blob string) *Session {
	s, err := DecodeStrict(blob)
	if err != nil {
		logging.Logger().Debug("session: decoded with defaults", "err", err)
	}
	return s
}

// DecodeStrict is Decode that also reports what was wrong. The returned
// session is always usable, even when err is non-nil.
func DecodeStrict(blob string) (*Session, error) {
	s := New()
	raw, err := inflate(blob)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return s, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var errs []error
	field(fields, "title", &s.Title, &errs)
	field(fields, "theme", &s.Theme, &errs)
	field(fields, "quality", &s.Quality, &errs)
	field(fields, "viewport", &s.Viewport, &errs)
	field(fields, "params", &s.Params, &errs)

	var items []json.RawMessage
	field(fields, "expressions", &items, &errs)
	for i, item := range items {
		e, ok := decodeExpression(item, i, &errs)
		if ok {
			s.Expressions = append(s.Expressions, e)
		}
	}
	items = nil
	field(fields, "statPlots", &items, &errs)
	for i, item := range items {
		p, ok := decodeStatPlot(item, i, &errs)
		if ok {
			s.StatPlots = append(s.StatPlots, p)
		}
	}

	s.Normalize()
	if len(errs) > 0 {
		return s, fmt.Errorf("%w: %w", ErrMalformed, errors.Join(errs...))
	}
	return s, nil
}

func inflate(blob string) ([]byte, error) {
	blob = strings.TrimRight(strings.TrimSpace(blob), "=")
	if blob == "" {
		return nil, errors.New("empty blob")
	}
	compressed, err := base64.RawURLEncoding.DecodeString(blob)
	if err != nil {
		return nil, err
	}
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	raw, err := io.ReadAll(io.LimitReader(r, maxBlobBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxBlobBytes {
		return nil, errors.New("blob too large")
	}
	return raw, nil
}

// field decodes fields[name] into dst. On failure dst is left untouched.
func field[T any](fields map[string]json.RawMessage, name string, dst *T, errs *[]error) {
	m, ok := fields[name]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(m, &v); err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", name, err))
		return
	}
	*dst = v
}

func decodeExpression(item json.RawMessage, i int, errs *[]error) (*Expression, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		*errs = append(*errs, fmt.Errorf("expressions[%d]: %w", i, err))
		return nil, false
	}
	e := defaultExpression()
	prefix := fmt.Sprintf("expressions[%d].", i)
	var local []error
	field(fields, "id", &e.ID, &local)
	field(fields, "source", &e.Source, &local)
	field(fields, "color", &e.Color, &local)
	field(fields, "visible", &e.Visible, &local)
	field(fields, "lineWidth", &e.LineWidth, &local)
	field(fields, "domain", &e.Domain, &local)
	field(fields, "intersect", &e.Intersect, &local)
	for _, err := range local {
		*errs = append(*errs, fmt.Errorf("%s%w", prefix, err))
	}
	return &e, true
}

func decodeStatPlot(item json.RawMessage, i int, errs *[]error) (*StatPlot, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		*errs = append(*errs, fmt.Errorf("statPlots[%d]: %w", i, err))
		return nil, false
	}
	p := &StatPlot{Mode: ModePDF, Visible: true}
	prefix := fmt.Sprintf("statPlots[%d].", i)
	var local []error
	field(fields, "id", &p.ID, &local)
	field(fields, "distribution", &p.Distribution, &local)
	field(fields, "params", &p.Params, &local)
	field(fields, "mode", &p.Mode, &local)
	field(fields, "color", &p.Color, &local)
	field(fields, "visible", &p.Visible, &local)
	for _, err := range local {
		*errs = append(*errs, fmt.Errorf("%s%w", prefix, err))
	}
	if p.Distribution == "" {
		*errs = append(*errs, fmt.Errorf("%sdistribution: missing", prefix))
		return nil, false
	}
	return p, true
}

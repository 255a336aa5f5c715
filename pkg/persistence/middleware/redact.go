package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/ports"
)

// Mask replaces redacted field values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.Storage
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a read-side middleware that masks field values
// whose field names match any of the patterns. Only values read from the
// fields key are touched; the name field is never masked.
//
// The view it produces is meant for inspection. Thawing from it restores the
// mask string instead of the real value.
//
// It panics on an invalid pattern; use ParseRedactMiddleware for patterns
// that come from configuration.
func NewRedactMiddleware(patternStrings []string) Middleware {
	mw, err := ParseRedactMiddleware(patternStrings)
	if err != nil {
		panic(err)
	}
	return mw
}

// ParseRedactMiddleware is NewRedactMiddleware returning an error for a
// pattern that does not compile.
func ParseRedactMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.Storage) ports.Storage {
		return &redactMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactMiddleware) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := m.next.Get(ctx, key)
	if err != nil || len(m.patterns) == 0 || !isFieldsKey(key) {
		return data, err
	}

	var fields map[string]map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		// Let the caller surface the corrupt payload.
		return data, nil
	}
	for _, set := range fields {
		maskMap(set, m.patterns)
	}
	return json.Marshal(fields)
}

func (m *redactMiddleware) Set(ctx context.Context, key string, value []byte) error {
	return m.next.Set(ctx, key, value)
}

func (m *redactMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func isFieldsKey(key string) bool {
	return key == domain.FieldsKey || strings.HasSuffix(key, "/"+domain.FieldsKey)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if k == domain.NameField {
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				break
			}
		}

		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}

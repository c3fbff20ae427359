package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
)

// Mask replaces redacted string values.
const Mask = "***"

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks the values of fields whose names match any pattern before they
// reach the store. Strings become Mask, string lists are masked element by element and
// other values are dropped so the engine default applies on restore. Load is untouched.
func NewPIIMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	// The caller keeps using its snapshot.
	masked := *snap
	masked.Fields = m.mask(snap.Fields)
	return m.next.Save(ctx, sessionID, &masked)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// mask returns a copy of fields with matching keys redacted, nested maps included.
func (m *piiMiddleware) mask(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if !m.matches(k) {
			if sub, ok := v.(map[string]any); ok {
				v = m.mask(sub)
			}
			out[k] = v
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				out[k] = Mask
			} else {
				out[k] = val
			}
		case []string:
			list := make([]string, len(val))
			for i := range list {
				list[i] = Mask
			}
			out[k] = list
		}
	}
	return out
}

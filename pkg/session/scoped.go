package session

import (
	"context"
	"sort"
	"strings"

	"github.com/aretw0/frost/pkg/ports"
)

// KeyPrefix returns the storage prefix used for a session's keys.
func KeyPrefix(sessionID string) string {
	return "session/" + sessionID + "/"
}

// SessionFromKey extracts the session ID from a scoped key.
func SessionFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, "session/")
	if !ok {
		return "", false
	}
	id, _, ok := strings.Cut(rest, "/")
	return id, ok && id != ""
}

type scoped struct {
	next   ports.Storage
	prefix string
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.next.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.next.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, s.prefix+key)
}

// KeyLister is implemented by storage backends that can enumerate keys.
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// List returns the sorted IDs of sessions holding at least one key.
func List(ctx context.Context, lister KeyLister) ([]string, error) {
	keys, err := lister.Keys(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var ids []string
	for _, key := range keys {
		id, ok := SessionFromKey(key)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

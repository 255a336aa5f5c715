package session

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxIDSize is the longest session ID accepted, in bytes.
	DefaultMaxIDSize = 256
	// EnvMaxIDSize is the environment variable to override the default
	EnvMaxIDSize = "FROST_MAX_SESSION_ID"
)

var (
	ErrInvalidID  = errors.New("invalid session ID")
	ErrIDTooLarge = errors.New("session ID exceeds maximum allowed size")
)

// ValidateID rejects session IDs that cannot be used as a key segment:
// empty, too long, invalid UTF-8, containing control characters or the key
// separator, or consisting only of dots.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}

	limit := getMaxIDSize()
	if len(id) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrIDTooLarge, len(id), limit)
	}

	if !utf8.ValidString(id) {
		return fmt.Errorf("%w: invalid UTF-8", ErrInvalidID)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character %U", ErrInvalidID, r)
		}
		if r == '/' || r == '\\' {
			return fmt.Errorf("%w: contains %q", ErrInvalidID, r)
		}
	}

	if strings.Trim(id, ".") == "" {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func getMaxIDSize() int {
	if val := os.Getenv(EnvMaxIDSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxIDSize
}

// Package validate holds the pure input rules applied before any mutation:
// trimming, defaults and pagination bounds.
package validate

import (
	"strconv"
	"strings"

	"github.com/okian/learnmap/internal/domain/model"
)

// Pagination bounds.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Name trims a required name.
func Name(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", model.Validation("Field 'name' is required.")
	}
	return name, nil
}

// Ref trims a reference id. Blank references are treated as absent.
func Ref(raw *string) *string {
	if raw == nil {
		return nil
	}
	id := strings.TrimSpace(*raw)
	if id == "" {
		return nil
	}
	return &id
}

// Difficulty trims a difficulty label and falls back to the default.
func Difficulty(raw *string) string {
	if raw == nil {
		return model.DefaultDifficulty
	}
	if d := strings.TrimSpace(*raw); d != "" {
		return d
	}
	return model.DefaultDifficulty
}

// ParsePage parses raw limit/offset query values. Empty values take the
// defaults; anything that is not an integer fails.
func ParsePage(limitRaw, offsetRaw string) (limit, offset int, err error) {
	limit, offset = DefaultLimit, 0
	if s := strings.TrimSpace(limitRaw); s != "" {
		if limit, err = strconv.Atoi(s); err != nil {
			return 0, 0, model.Validation("limit/offset must be numbers")
		}
	}
	if s := strings.TrimSpace(offsetRaw); s != "" {
		if offset, err = strconv.Atoi(s); err != nil {
			return 0, 0, model.Validation("limit/offset must be numbers")
		}
	}
	return ClampPage(limit, offset)
}

// ClampPage caps limit at MaxLimit and floors offset at zero.
func ClampPage(limit, offset int) (int, int, error) {
	if limit < 0 {
		return 0, 0, model.Validation("limit must not be negative")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset, nil
}

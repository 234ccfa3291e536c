package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID returns a fresh, time-ordered identifier such as "res-01hz3v...".
func NewID(prefix string) string {
	return prefix + "-" + strings.ToLower(ulid.Make().String())
}

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	nonSlugRun = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slug derives a category ID from its display name: lower case, spaces become
// dashes and anything else outside [a-z0-9-] is dropped.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spaceRun.ReplaceAllString(s, "-")
	return nonSlugRun.ReplaceAllString(s, "")
}

// clock and idFunc are swapped in tests.
type (
	clock  func() time.Time
	idFunc func(prefix string) string
)

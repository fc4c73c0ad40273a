package ownership

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/src-d/enry/v2"
)

// ErrInvalidPattern is returned when the exclusion pattern does not compile.
var ErrInvalidPattern = errors.New("invalid exclusion pattern")

// Filter drops paths before they are queued for attribution.
// A nil *Filter excludes nothing.
type Filter struct {
	pattern       *regexp.Regexp
	excludeVendor bool
}

// NewFilter compiles pattern, a regular expression matched against the
// repository-relative path. An empty pattern matches nothing. With
// excludeVendor set, paths enry classifies as vendored are dropped too.
func NewFilter(pattern string, excludeVendor bool) (*Filter, error) {
	f := &Filter{excludeVendor: excludeVendor}

	if pattern == "" {
		return f, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}

	f.pattern = re

	return f, nil
}

// Excludes reports whether path must not be attributed.
func (f *Filter) Excludes(path string) bool {
	if f == nil {
		return false
	}

	if f.pattern != nil && f.pattern.MatchString(path) {
		return true
	}

	return f.excludeVendor && enry.IsVendor(path)
}

// String returns the pattern source.
func (f *Filter) String() string {
	if f == nil || f.pattern == nil {
		return ""
	}

	return f.pattern.String()
}

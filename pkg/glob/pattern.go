// Package glob matches repository-relative file paths against shell-style
// glob patterns. A pattern may carry a leading "!" negation marker; the
// marker is parsed into a structured flag once, and it is the rule
// evaluator that decides what negation means for a group, so Match here
// always reports the plain glob result.
package glob

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/crastos/labeler/pkg/errors"
)

// Pattern is a single glob constraint parsed from config.
type Pattern struct {
	// Glob is the pattern with any negation marker stripped.
	Glob string
	// Negated means a conforming path must NOT match Glob.
	Negated bool
}

// Parse splits the negation marker off a raw config pattern.
func Parse(raw string) Pattern {
	if rest, ok := strings.CutPrefix(raw, "!"); ok {
		return Pattern{Glob: rest, Negated: true}
	}
	return Pattern{Glob: raw}
}

// ParseAll parses a list of raw patterns in order.
func ParseAll(raw []string) []Pattern {
	if len(raw) == 0 {
		return nil
	}
	patterns := make([]Pattern, len(raw))
	for i, r := range raw {
		patterns[i] = Parse(r)
	}
	return patterns
}

// String returns the pattern in its original config spelling.
func (p Pattern) String() string {
	if p.Negated {
		return "!" + p.Glob
	}
	return p.Glob
}

// Match reports whether the glob itself matches path, ignoring negation.
// Supports "*", "**", "?", character classes and "{a,b}" alternatives.
// A malformed glob surfaces here, at match time, as PATTERN_SYNTAX.
func (p Pattern) Match(path string) (bool, error) {
	ok, err := doublestar.Match(p.Glob, path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrPatternSyntax,
			"invalid glob pattern %q", p.String())
	}
	return ok, nil
}

// Conforms reports whether path satisfies this constraint: a match for a
// plain pattern, a non-match for a negated one.
func (p Pattern) Conforms(path string) (bool, error) {
	ok, err := p.Match(path)
	if err != nil {
		return false, err
	}
	return ok != p.Negated, nil
}

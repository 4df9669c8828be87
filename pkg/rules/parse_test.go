package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crastos/labeler/pkg/errors"
	"github.com/crastos/labeler/pkg/glob"
)

func TestParseStringSugar(t *testing.T) {
	rs, err := Parse([]byte(`feature: src/**/*.ts`))
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	rule := rs.Rules()[0]
	assert.Equal(t, "feature", rule.Label)
	require.Len(t, rule.Groups, 1)
	assert.Empty(t, rule.Groups[0].All)
	assert.Equal(t, []glob.Pattern{{Glob: "src/**/*.ts"}}, rule.Groups[0].Any)
}

func TestParseListForms(t *testing.T) {
	config := `
mixed:
  - "*.go"
  - any: ["docs/**", "!docs/internal/**"]
    all: ["!vendor/**"]
`
	rs, err := Parse([]byte(config))
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	groups := rs.Rules()[0].Groups
	require.Len(t, groups, 2)

	// Bare string element is sugar for a one-pattern any group.
	assert.Equal(t, []glob.Pattern{{Glob: "*.go"}}, groups[0].Any)
	assert.Empty(t, groups[0].All)

	assert.Equal(t, []glob.Pattern{
		{Glob: "docs/**"},
		{Glob: "docs/internal/**", Negated: true},
	}, groups[1].Any)
	assert.Equal(t, []glob.Pattern{
		{Glob: "vendor/**", Negated: true},
	}, groups[1].All)
}

func TestParseBareGroupMapping(t *testing.T) {
	config := `
docs:
  all: ["*.md"]
`
	rs, err := Parse([]byte(config))
	require.NoError(t, err)

	groups := rs.Rules()[0].Groups
	require.Len(t, groups, 1)
	assert.Equal(t, []glob.Pattern{{Glob: "*.md"}}, groups[0].All)
	assert.Empty(t, groups[0].Any)
}

func TestParsePreservesOrder(t *testing.T) {
	config := `
zeta: "z/**"
alpha: "a/**"
mid: "m/**"
`
	rs, err := Parse([]byte(config))
	require.NoError(t, err)

	var labels []string
	for _, r := range rs.Rules() {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, labels)
}

func TestParseDuplicateLabelLastWins(t *testing.T) {
	config := `
docs: "docs/**"
feature: "src/**"
docs: "*.md"
`
	rs, err := Parse([]byte(config))
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())

	// Last definition wins but the label keeps its first position.
	first := rs.Rules()[0]
	assert.Equal(t, "docs", first.Label)
	assert.Equal(t, []glob.Pattern{{Glob: "*.md"}}, first.Groups[0].Any)
	assert.Equal(t, "feature", rs.Rules()[1].Label)
}

func TestParseEmptyGroupAccepted(t *testing.T) {
	config := `
odd:
  - {}
`
	rs, err := Parse([]byte(config))
	require.NoError(t, err)
	require.Len(t, rs.Rules()[0].Groups, 1)
	assert.True(t, rs.Rules()[0].Groups[0].Empty())
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		config string
		label  string
	}{
		{"integer value", `x: 5`, "x"},
		{"boolean value", `flagged: true`, "flagged"},
		{"nested list element", "y:\n  - [a, b]", "y"},
		{"non-list any", "z:\n  any: \"*.go\"", "z"},
		{"integer pattern in list", "n:\n  - 7", "n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.config))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigFormat))
			assert.Contains(t, err.Error(), tt.label, "error should name the offending label")
		})
	}
}

func TestParseNonMappingRoot(t *testing.T) {
	_, err := Parse([]byte("- just\n- a list\n"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigFormat))
}

func TestParseEmptyDocument(t *testing.T) {
	for _, config := range []string{"", "# only a comment\n", "---\n"} {
		rs, err := Parse([]byte(config))
		require.NoError(t, err)
		assert.Equal(t, 0, rs.Len())
	}
}

func TestParseAnchors(t *testing.T) {
	config := `
source: &globs "src/**"
mirror: *globs
`
	rs, err := Parse([]byte(config))
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, []glob.Pattern{{Glob: "src/**"}}, rs.Rules()[1].Groups[0].Any)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("x: [unclosed"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigFormat))
}

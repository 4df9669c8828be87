package rules

import (
	"gopkg.in/yaml.v3"

	"github.com/crastos/labeler/pkg/errors"
	"github.com/crastos/labeler/pkg/glob"
	"github.com/crastos/labeler/pkg/logging"
)

// Parse normalizes raw configuration text into a RuleSet.
//
// The document is a mapping from label name to either a single glob
// string, a list of glob strings and/or {any, all} groups, or a bare
// {any, all} group. Key order is preserved; a duplicate label keeps its
// first position and takes its last definition. Pattern syntax is not
// checked here, it surfaces at match time.
func Parse(data []byte) (*RuleSet, error) {
	logger := logging.GetLogger("rules.parse")

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigFormat,
			"configuration is not valid YAML")
	}

	rs := NewRuleSet(nil)
	if doc.Kind == 0 || len(doc.Content) == 0 {
		logger.Warn().Msg("Configuration document is empty")
		return rs, nil
	}

	root := resolve(doc.Content[0])
	if root.Tag == "!!null" {
		logger.Warn().Msg("Configuration document is empty")
		return rs, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrConfigFormat,
			"configuration must be a mapping of label names to rules")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		label := root.Content[i].Value
		groups, err := parseLabelValue(label, resolve(root.Content[i+1]))
		if err != nil {
			return nil, err
		}
		rs.put(LabelRule{Label: label, Groups: groups})
	}

	logger.Debug().Int("labels", rs.Len()).Msg("Parsed label configuration")
	return rs, nil
}

// parseLabelValue normalizes one label's raw value into rule groups.
func parseLabelValue(label string, node *yaml.Node) ([]Group, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag != "!!str" {
			return nil, badLabelValue(label)
		}
		// Bare glob string is sugar for a single any-group.
		return []Group{{Any: []glob.Pattern{glob.Parse(node.Value)}}}, nil

	case yaml.SequenceNode:
		groups := make([]Group, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolve(item)
			switch item.Kind {
			case yaml.ScalarNode:
				if item.Tag != "!!str" {
					return nil, badLabelValue(label)
				}
				groups = append(groups, Group{Any: []glob.Pattern{glob.Parse(item.Value)}})
			case yaml.MappingNode:
				g, err := parseGroup(label, item)
				if err != nil {
					return nil, err
				}
				groups = append(groups, g)
			default:
				return nil, badLabelValue(label)
			}
		}
		return groups, nil

	case yaml.MappingNode:
		g, err := parseGroup(label, node)
		if err != nil {
			return nil, err
		}
		return []Group{g}, nil

	default:
		return nil, badLabelValue(label)
	}
}

// parseGroup decodes one {any, all} mapping. Keys other than any/all are
// ignored; a group that ends up with neither is legal and vacuously true.
func parseGroup(label string, node *yaml.Node) (Group, error) {
	var g Group
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := resolve(node.Content[i+1])
		switch key {
		case "any":
			patterns, err := parsePatternList(label, val)
			if err != nil {
				return Group{}, err
			}
			g.Any = patterns
		case "all":
			patterns, err := parsePatternList(label, val)
			if err != nil {
				return Group{}, err
			}
			g.All = patterns
		}
	}
	return g, nil
}

func parsePatternList(label string, node *yaml.Node) ([]glob.Pattern, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, badLabelValue(label)
	}
	patterns := make([]glob.Pattern, 0, len(node.Content))
	for _, item := range node.Content {
		item = resolve(item)
		if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
			return nil, badLabelValue(label)
		}
		patterns = append(patterns, glob.Parse(item.Value))
	}
	return patterns, nil
}

func badLabelValue(label string) error {
	return errors.Newf(errors.ErrConfigFormat,
		"label %q: rules must be a glob string, a list of globs or {any, all} groups, or a single {any, all} group",
		label)
}

// resolve follows YAML anchors so aliases behave like inline values.
func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// Package reconcile computes the label changes for one pull request:
// which configured labels to add and, in sync mode, which to remove,
// under a truncation budget shared with labels the configuration does
// not manage.
package reconcile

import (
	"github.com/crastos/labeler/pkg/errors"
	"github.com/crastos/labeler/pkg/logging"
	"github.com/crastos/labeler/pkg/rules"
)

// Result is the reconciliation plan. Both slices follow configuration
// order. ToAdd never contains a label already on the pull request,
// ToRemove only labels currently on it, and the two are disjoint.
// Removals are only ever staged in sync mode.
type Result struct {
	ToAdd    []string
	ToRemove []string
}

// Empty reports whether there is nothing to do.
func (r Result) Empty() bool {
	return len(r.ToAdd) == 0 && len(r.ToRemove) == 0
}

// Reconcile decides label changes for one run.
//
// Labels on the pull request with no entry in the rule set are unmanaged:
// they are never added or removed, but they occupy truncation budget.
// Additions are staged in configuration order while the running count of
// staged plus unmanaged labels stays within truncateLimit; a satisfied
// label that finds the budget spent is removed when present (sync mode)
// or counted as overflow. Labels whose rules no longer hold are removed
// in sync mode only.
//
// In non-sync mode an over-budget outcome is fatal: the run reports
// TRUNCATION_EXCEEDED with the exact excess instead of applying a subset.
func Reconcile(current []string, ruleset *rules.RuleSet, files []string, truncateLimit int, syncLabels bool) (Result, error) {
	logger := logging.GetLogger("reconcile")

	if truncateLimit <= 0 {
		return Result{}, errors.Newf(errors.ErrInvalidConfiguration,
			"truncate limit must be positive, got %d", truncateLimit)
	}

	currentSet := make(map[string]bool, len(current))
	for _, label := range current {
		currentSet[label] = true
	}

	unmanaged := 0
	for _, label := range current {
		if !ruleset.Has(label) {
			unmanaged++
		}
	}

	logger.Debug().
		Int("currentLabels", len(current)).
		Int("unmanaged", unmanaged).
		Int("configuredLabels", ruleset.Len()).
		Int("changedFiles", len(files)).
		Bool("syncLabels", syncLabels).
		Int("truncateLimit", truncateLimit).
		Msg("Reconciling labels")

	var result Result
	overflow := 0

	for _, rule := range ruleset.Rules() {
		satisfied, err := rules.Satisfied(files, rule.Groups)
		if err != nil {
			return Result{}, err
		}
		onPR := currentSet[rule.Label]

		switch {
		case satisfied && len(result.ToAdd)+unmanaged <= truncateLimit:
			if !onPR {
				logger.Debug().Str("label", rule.Label).Msg("Staging label for addition")
				result.ToAdd = append(result.ToAdd, rule.Label)
			}
		case satisfied:
			// Budget already spent by earlier rules and unmanaged labels.
			if onPR {
				if syncLabels {
					logger.Debug().Str("label", rule.Label).Msg("Staging over-budget label for removal")
					result.ToRemove = append(result.ToRemove, rule.Label)
				}
			} else {
				overflow++
			}
		default:
			if onPR && syncLabels {
				logger.Debug().Str("label", rule.Label).Msg("Staging stale label for removal")
				result.ToRemove = append(result.ToRemove, rule.Label)
			}
		}
	}

	if !syncLabels {
		total := len(result.ToAdd) + unmanaged + len(result.ToRemove) + overflow
		if total > truncateLimit {
			excess := total - truncateLimit
			return Result{}, errors.Newf(errors.ErrTruncationExceeded,
				"%d labels needed but the limit is %d (%d over); enable sync-labels or remove labels from the pull request manually",
				total, truncateLimit, excess).
				WithDetail("excess", excess)
		}
	}

	if result.Empty() {
		logger.Info().Msg("Labels already up to date, nothing to do")
	} else {
		logger.Info().
			Strs("add", result.ToAdd).
			Strs("remove", result.ToRemove).
			Msg("Computed label changes")
	}

	return result, nil
}

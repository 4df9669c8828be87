// Package cli orchestrates one labeler run: fetch the pull request's
// changed files, current labels and configuration, compute the label
// plan, and apply it.
package cli

import (
	"context"

	"github.com/crastos/labeler/pkg/githubapi"
	"github.com/crastos/labeler/pkg/logging"
	"github.com/crastos/labeler/pkg/reconcile"
	"github.com/crastos/labeler/pkg/rules"
)

// TruncateCeiling is the hard upper bound on the truncation limit,
// matching the number of labels GitHub allows on an issue.
const TruncateCeiling = 100

// Options carries one run's inputs, resolved by the command layer.
type Options struct {
	Token      string
	PR         githubapi.PRContext
	ConfigPath string
	SyncLabels bool
	Truncate   int
	DryRun     bool
}

// Collaborator is the remote surface Run needs; *githubapi.Client
// implements it.
type Collaborator interface {
	ChangedFiles(ctx context.Context, pr githubapi.PRContext) ([]string, error)
	CurrentLabels(ctx context.Context, pr githubapi.PRContext) ([]string, error)
	HeadSHA(ctx context.Context, pr githubapi.PRContext) (string, error)
	FetchConfig(ctx context.Context, pr githubapi.PRContext, path, ref string) ([]byte, error)
	Apply(ctx context.Context, pr githubapi.PRContext, result reconcile.Result) error
}

// Run executes one labeling run and returns the plan that was (or, on
// dry-run, would have been) applied. Any error is fatal for the run; no
// partial changes are applied after a failure in the computation.
func Run(ctx context.Context, client Collaborator, opts Options) (reconcile.Result, error) {
	logger := logging.GetLogger("cli.run")

	truncate := opts.Truncate
	if truncate > TruncateCeiling {
		logger.Warn().
			Int("truncate", truncate).
			Int("ceiling", TruncateCeiling).
			Msg("Truncate limit above ceiling, clamping")
		truncate = TruncateCeiling
	}

	files, err := client.ChangedFiles(ctx, opts.PR)
	if err != nil {
		return reconcile.Result{}, err
	}

	current, err := client.CurrentLabels(ctx, opts.PR)
	if err != nil {
		return reconcile.Result{}, err
	}

	ref, err := client.HeadSHA(ctx, opts.PR)
	if err != nil {
		return reconcile.Result{}, err
	}

	raw, err := client.FetchConfig(ctx, opts.PR, opts.ConfigPath, ref)
	if err != nil {
		return reconcile.Result{}, err
	}

	ruleset, err := rules.Parse(raw)
	if err != nil {
		return reconcile.Result{}, err
	}

	result, err := reconcile.Reconcile(current, ruleset, files, truncate, opts.SyncLabels)
	if err != nil {
		return reconcile.Result{}, err
	}

	if result.Empty() {
		return result, nil
	}

	if opts.DryRun {
		logger.Info().
			Strs("add", result.ToAdd).
			Strs("remove", result.ToRemove).
			Msg("Dry run, not applying label changes")
		return result, nil
	}

	if err := client.Apply(ctx, opts.PR, result); err != nil {
		return reconcile.Result{}, err
	}
	return result, nil
}

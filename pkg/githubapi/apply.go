package githubapi

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/crastos/labeler/pkg/reconcile"
)

// Apply issues the label mutations for a reconciliation result.
//
// Removals go first so that slots are free before the batched addition,
// and they are dispatched concurrently: each removal targets a distinct
// label name, so ordering between them does not matter. Additions are a
// single batched call. Nothing is issued for an empty result.
func (c *Client) Apply(ctx context.Context, pr PRContext, result reconcile.Result) error {
	if result.Empty() {
		return nil
	}

	if len(result.ToRemove) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, label := range result.ToRemove {
			g.Go(func() error {
				return c.RemoveLabel(gctx, pr, label)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	return c.AddLabels(ctx, pr, result.ToAdd)
}

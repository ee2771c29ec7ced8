package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/botlink/internal/log"
	"github.com/san-kum/botlink/internal/world"
)

// Variant is one member of a batch: its own scene and gravity.
type Variant struct {
	Name    string
	Scene   world.Scene
	Gravity world.Vec
}

// RunBatch steps an independent World per variant concurrently. Results are
// in variant order. The first failure cancels the remaining runs.
func RunBatch(ctx context.Context, variants []Variant, cfg Config, logger log.Logger) ([]*Result, error) {
	results := make([]*Result, len(variants))

	g, ctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		g.Go(func() error {
			c := cfg
			c.Gravity = v.Gravity

			stepper := New(world.Build(v.Scene), logger.WithField("variant", v.Name))
			res, err := stepper.Run(ctx, c)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

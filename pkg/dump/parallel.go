package dump

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bisegni/dumpscan/pkg/parser"
	"github.com/bisegni/dumpscan/pkg/schema"
)

// checkEvery is how many rows a worker decodes between context checks.
const checkEvery = 4096

// Visitor consumes the rows of one region. part is the region's index.
type Visitor func(ctx context.Context, part int, it schema.RecordIterator) error

// Scan splits buf on statement boundaries into at most workers regions and
// runs visit on each region concurrently. The buffer is shared read-only.
func Scan(ctx context.Context, buf []byte, table schema.Any, workers int, visit Visitor) ([]parser.Region, error) {
	regions, err := parser.Split(buf, workers)
	if err != nil {
		return nil, err
	}
	group, ctx := errgroup.WithContext(ctx)
	for i, r := range regions {
		group.Go(func() error {
			return visit(ctx, i, table.Records(buf, r))
		})
	}
	return regions, group.Wait()
}

// Count returns the number of rows of table in buf using parallel workers.
func Count(ctx context.Context, buf []byte, table schema.Any, workers int) (int, error) {
	counts := make([]int, max(workers, 1))
	_, err := Scan(ctx, buf, table, workers, func(ctx context.Context, part int, it schema.RecordIterator) error {
		n := 0
		for it.Next() {
			n++
			if n%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		}
		counts[part] = n
		return it.Error()
	})
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, err
}

package statement

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Request describes one statement to build. Updates use Set, inserts use
// Columns and Values.
type Request struct {
	Kind    Kind
	Table   string
	Set     string
	Columns []string
	Values  string
}

// BuildAll builds the requested statements concurrently. The result is in
// request order. The first failure cancels the remaining builds and is
// returned; no statements are returned in that case.
func (b *Builder) BuildAll(ctx context.Context, reqs []Request) ([]*Statement, error) {
	out := make([]*Statement, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stmt, err := b.Build(gctx, req)
			if err != nil {
				return err
			}
			out[i] = stmt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Build builds a single request.
func (b *Builder) Build(ctx context.Context, req Request) (*Statement, error) {
	switch req.Kind {
	case Update:
		return b.BuildUpdate(ctx, req.Table, req.Set)
	case Insert:
		return b.BuildInsert(ctx, req.Table, req.Columns, req.Values)
	default:
		return nil, &BuildError{Kind: req.Kind, Table: req.Table, Err: fmt.Errorf("unknown statement kind %d", int(req.Kind))}
	}
}

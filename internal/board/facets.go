package board

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Facets are the distinct years and locations offered as selector values.
type Facets struct {
	Years     []string
	Locations []string
}

// LoadFacets fetches years and locations concurrently and waits for both.
func LoadFacets(ctx context.Context, src Source) (Facets, error) {
	var f Facets
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		years, err := src.Years(gctx)
		if err != nil {
			return fmt.Errorf("board: years: %w", err)
		}
		f.Years = years
		return nil
	})
	g.Go(func() error {
		locs, err := src.Locations(gctx)
		if err != nil {
			return fmt.Errorf("board: locations: %w", err)
		}
		f.Locations = locs
		return nil
	})
	if err := g.Wait(); err != nil {
		return Facets{}, err
	}
	return f, nil
}

package board

import "context"

// Board drives a Collection synchronously against a Source. The CLI uses it
// for one-shot commands; the dashboard drives the Collection directly.
type Board struct {
	src Source
	col *Collection
}

// New returns a Board with an empty collection.
func New(src Source, pageSize int) *Board {
	return &Board{src: src, col: NewCollection(pageSize)}
}

// Load fetches the current collection (the active search, if any).
func (b *Board) Load(ctx context.Context) error {
	return b.run(ctx, b.col.Reload())
}

// Refresh reloads after a write: the active search plus the full list
// behind it.
func (b *Board) Refresh(ctx context.Context) error {
	var first error
	for _, req := range b.col.Refresh() {
		if err := b.run(ctx, req); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Search fetches the jobs matching sel.
func (b *Board) Search(ctx context.Context, sel Selectors) error {
	return b.run(ctx, b.col.Search(sel))
}

// Reset clears the selectors and fetches the full list.
func (b *Board) Reset(ctx context.Context) error {
	return b.run(ctx, b.col.Reset())
}

// LoadFacets fetches and installs the year and location facets.
func (b *Board) LoadFacets(ctx context.Context) error {
	f, err := LoadFacets(ctx, b.src)
	if err != nil {
		return err
	}
	b.col.SetFacets(f)
	return nil
}

// SelectTab filters the collection by year label.
func (b *Board) SelectTab(label string) { b.col.SelectTab(label) }

// LoadMore reveals the next page.
func (b *Board) LoadMore() { b.col.LoadMore() }

// View returns the current snapshot.
func (b *Board) View() View { return b.col.View() }

// Collection exposes the underlying state.
func (b *Board) Collection() *Collection { return b.col }

func (b *Board) run(ctx context.Context, req Request) error {
	jobs, err := req.Run(ctx, b.src)
	b.col.Apply(req.Ticket, jobs, err)
	return err
}

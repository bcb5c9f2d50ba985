package catalog

import "context"

// ProductRepository defines the catalog lookup used to enrich sales rankings.
// Line items reference products by name, not by identifier, so name is the
// join key here. Lookups return shared.ErrNotFound when no product matches.
type ProductRepository interface {
	FindByName(ctx context.Context, name string) (*Product, error)
}

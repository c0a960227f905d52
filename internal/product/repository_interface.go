package product

import "context"

type Repository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	ListActive(ctx context.Context) ([]Product, error)
}

package competition

import "context"

type Repository interface {
	GetBySlug(ctx context.Context, slug string) (Competition, bool, error)
	ListVisible(ctx context.Context) ([]Competition, error)
}

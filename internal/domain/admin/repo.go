package admin

import "context"

type Repository interface {
	Get(ctx context.Context, property string) (*GlobalProperty, error)
	Upsert(ctx context.Context, gp *GlobalProperty) error
}

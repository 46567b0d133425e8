package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context { return Context{Ctx: ctx} }

// DB returns the transaction when set, otherwise fallback, bound to Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	tx := c.Tx
	if tx == nil {
		tx = fallback
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return tx.WithContext(ctx)
}

package model

import "context"

// Transactor runs fn inside a single store transaction. Every repository
// call made with the context fn receives joins that transaction; an error
// from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

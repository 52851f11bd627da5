// Package store defines the item storage used by the reference server.
package store

import (
	"context"
	"errors"

	"github.com/Makepad-fr/planner/internal/model"
)

var (
	// ErrExists is returned by Append when the name is already listed.
	ErrExists = errors.New("item already exists")
	// ErrNotFound is returned by Delete when the name is not listed.
	ErrNotFound = errors.New("item not found")
)

// Store keeps items in insertion order, keyed by name.
// Implementations are safe for concurrent use.
type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Append(ctx context.Context, name string) (model.Item, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by resource stores when no row matches.
var ErrNotFound = errors.New("item not found")

// Resource is what the generic CRUD layer needs from an entity: an ID slot,
// an owner slot for ownership stamping, and self-validation on create.
type Resource interface {
	SetID(id uuid.UUID)
	SetOwner(owner string)
	Validate() error
}

// Store is the storage capability consumed by the generic CRUD handlers.
// List with an empty owner returns everything. GetByID and Update return
// ErrNotFound when id does not exist.
type Store[T Resource] interface {
	List(ctx context.Context, owner string) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	Create(ctx context.Context, item T) error
	Update(ctx context.Context, id uuid.UUID, item T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func ErrMissingField(field string) error {
	return &ValidationError{Field: field}
}

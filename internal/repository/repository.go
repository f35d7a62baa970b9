package repository

import (
	"context"

	"posadmin/internal/model"
)

// Data access interfaces. SQL only, no business logic. Listing endpoints
// consume ListAll and run the shared query pipeline in the service layer,
// so the repositories stay free of ad-hoc filter branches.

// UserRepository persists administrative accounts.
type UserRepository interface {
	// Create inserts a new user and returns the stored record with its
	// database-assigned identity.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by identity; sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id int) (*model.User, error)

	// ListAll returns every user ordered by identity.
	ListAll(ctx context.Context) ([]model.User, error)

	// Update replaces all mutable fields; sql.ErrNoRows when the row is gone.
	Update(ctx context.Context, u *model.User) error

	// Delete removes a user by identity. Deleting an absent row is not an
	// error; the service resolves existence before calling.
	Delete(ctx context.Context, id int) error
}

// SaleRepository persists sales and their line items.
type SaleRepository interface {
	// Create inserts the sale and its details in one transaction.
	Create(ctx context.Context, s *model.Sale) (*model.Sale, error)

	// FindByID returns a sale with its details; sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id int) (*model.Sale, error)

	// ListAll returns every sale ordered by identity, details omitted.
	ListAll(ctx context.Context) ([]model.Sale, error)

	// UpdateState sets the sale state; sql.ErrNoRows when the row is gone.
	UpdateState(ctx context.Context, id, state int) error
}

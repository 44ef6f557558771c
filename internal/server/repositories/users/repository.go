// Package users is the account store: persistence of models.User with a
// store-enforced unique username.
package users

import (
	"context"

	"github.com/dmitrijs2005/accountd/internal/server/models"
)

// Repository persists accounts.
//
// Create returns common.ErrDuplicateUsername when the username is taken; the
// check is the database UNIQUE constraint, so concurrent registrations of the
// same name cannot both succeed. Lookups and Delete return
// common.ErrorNotFound for unknown accounts. List returns every account in
// id (insertion) order.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id int64) error
}

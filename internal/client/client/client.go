package client

import (
	"context"

	"github.com/dmitrijs2005/accountd/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, username string, password []byte) (*models.User, error)
	Login(ctx context.Context, username string, password []byte) (string, error)
	ListUsers(ctx context.Context, token string) ([]models.User, error)
	DeleteUser(ctx context.Context, token string, id int64) error
	Health(ctx context.Context) error
}

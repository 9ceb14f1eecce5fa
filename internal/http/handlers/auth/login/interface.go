package login

import (
	"context"

	"github.com/magabrotheeeer/user-accounts/internal/models"
)

// Service описывает бизнес-логику входа.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.PublicUser, error)
}

package register

import (
	"context"

	"github.com/magabrotheeeer/user-accounts/internal/models"
)

// Service описывает бизнес-логику регистрации.
type Service interface {
	RegisterUser(ctx context.Context, email, password string) (*models.User, error)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/BrentRieck/Pharm-Tracking/internal/users"
	"github.com/BrentRieck/Pharm-Tracking/pkg/config"
	"github.com/BrentRieck/Pharm-Tracking/pkg/db/models"
	"github.com/BrentRieck/Pharm-Tracking/pkg/enums"
	"github.com/BrentRieck/Pharm-Tracking/pkg/logger"
	"github.com/BrentRieck/Pharm-Tracking/pkg/security"
)

type bootstrapUserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// EnsureAdmin seeds the first admin account from configuration. It is a
// no-op when the bootstrap values are unset or the account already exists,
// so it is safe to run on every startup.
func EnsureAdmin(ctx context.Context, repo bootstrapUserRepo, cfg *config.Config, logg *logger.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
	password := cfg.Admin.Password
	if email == "" || password == "" {
		return nil
	}

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin account: %w", err)
	}

	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         enums.UserRoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	logg.Info(logg.WithField(ctx, "user_id", user.ID.String()), "admin.bootstrapped")
	return nil
}

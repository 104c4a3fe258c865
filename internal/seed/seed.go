package seed

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/config"
)

// CreateDefaultData creates the default admin when no admin exists yet. Nothing is seeded
// without a configured admin password.
func CreateDefaultData(ctx context.Context, cfg *config.Config, svc *services.Services, lgr zerolog.Logger) error {
	if cfg.Seed.AdminPassword == "" {
		lgr.Info().Msg("No seed admin password configured, skipping default admin")
		return nil
	}

	lgr.Info().Str("username", cfg.Seed.AdminUsername).Msg("Checking/Creating default admin...")
	created, err := svc.Admins.EnsureDefault(ctx, services.NewAdmin{
		NewUser: services.NewUser{
			Username: cfg.Seed.AdminUsername,
			Password: cfg.Seed.AdminPassword,
			Profile: models.Profile{
				FirstName: "System",
				LastName:  "Administrator",
				Email:     cfg.Seed.AdminEmail,
			},
		},
		IsAdmin: true,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin")
		return err
	}

	if created {
		lgr.Info().Str("username", cfg.Seed.AdminUsername).Msg("Default admin created")
	} else {
		lgr.Info().Msg("Admin already present, default admin not created")
	}
	return nil
}

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jakubmanczak/quote-engine/pkg/logger"
	"github.com/jakubmanczak/quote-engine/pkg/token"
)

// NewInfradmin returns the reserved infrastructure administrator account:
// the maximum-valued id, clearance 255 and only the wildcard attribute.
func NewInfradmin() User {
	return User{
		ID:         uuid.Max,
		Handle:     "admin",
		Clearance:  255,
		Attributes: Attributes(TheEverythingPermission.Bit()),
	}
}

// GuaranteeInfradmin makes sure the infradmin account exists, provisioning
// it with a one-time short-token password on first startup. The generated
// password is logged once and expected to be changed immediately.
func GuaranteeInfradmin(ctx context.Context, repo *Repository, log *slog.Logger) error {
	existing, err := repo.GetByID(ctx, uuid.Max)
	switch {
	case err == nil:
		log.Info(fmt.Sprintf("Infradmin account (@%s) found.", existing.Handle), logger.Component("user"))
		return nil
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("look up infradmin: %w", err)
	}

	log.Info("No infradmin found.", logger.Component("user"))

	passw, err := token.GenerateShort()
	if err != nil {
		return fmt.Errorf("generate bootstrap password: %w", err)
	}

	if _, err := repo.Create(ctx, NewInfradmin(), passw); err != nil {
		return fmt.Errorf("create infradmin: %w", err)
	}

	log.Info("New infradmin account has been created!", logger.Component("user"))
	log.Info(fmt.Sprintf("Handle: admin; Password: %s", passw), logger.Component("user"))
	log.Info("Please change these credentials as soon as possible.", logger.Component("user"))
	return nil
}

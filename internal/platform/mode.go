package platform

import (
	"context"

	"lightswitch/internal/models"
)

// ModeController reads and applies the global appearance mode.
// Implementations perform a single call each; they never retry.
type ModeController interface {
	Get(ctx context.Context) (models.AppearanceMode, error)
	Set(ctx context.Context, mode models.AppearanceMode) error
}

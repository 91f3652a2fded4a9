// package tasks implements long-running song collection jobs: seeding a store with fake data and bulk importing songs.
package tasks

import (
	"context"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/services"
)

// Accounts creates users for seeding.
type Accounts interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.Profile, error)
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

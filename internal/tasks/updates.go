package tasks

import (
	"fmt"

	"github.com/desertthunder/songbook/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SeedUsers Phase = iota
	SeedSongs
	ImportSongs
)

func (p Phase) String() string {
	switch p {
	case SeedUsers:
		return "seed_users"
	case SeedSongs:
		return "seed_songs"
	case ImportSongs:
		return "import_songs"
	default:
		return ""
	}
}

func seedUserUpdate(step, total int, p *models.Profile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedUsers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Created user %s (ID: %d)", step, total, p.Name, p.ID),
		Data:    p,
	}
}

func seedSongUpdate(step, total int, userID int64, s *models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %d: %s - %s", step, total, userID, s.Artist, s.Title),
		Data:    s,
	}
}

func importStartedUpdate(total int, userID int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportSongs,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d songs for user %d...", total, userID),
	}
}

func importCompletedUpdate(step, total int, s *models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s (ID: %d)", step, total, s.Artist, s.Title, s.ID),
		Data:    s,
	}
}

func importFailedUpdate(step, total int, in models.SongInput, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s - %s: %v", step, total, in.Artist, in.Title, err),
	}
}

// Package drafts defines the interface for character sheet draft persistence
package drafts

//go:generate mockgen -destination=mock/mock_repository.go -package=draftsmock github.com/KirkDiggler/agency-sheet/internal/repositories/drafts Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
)

// DefaultTTL is how long a draft lives when it carries no expiry.
const DefaultTTL = 24 * time.Hour

const (
	errDraftNil     = "draft cannot be nil"
	errDraftIDEmpty = "draft ID cannot be empty"
	errDraftExpired = "draft has already expired"
)

// Repository defines the interface for draft persistence
type Repository interface {
	// Create stores a new draft, replacing any draft with the same ID
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a draft by ID
	// Returns errors.InvalidArgument for empty/invalid IDs
	// Returns errors.NotFound if the draft doesn't exist or has expired
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing draft
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the draft doesn't exist
	// Returns errors.Internal for storage failures
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a draft by ID
	// Returns errors.InvalidArgument for empty/invalid IDs
	// Returns errors.NotFound if the draft doesn't exist
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a draft
type CreateInput struct {
	Draft *agency.Draft
}

// CreateOutput defines the output for creating a draft
type CreateOutput struct {
	Draft *agency.Draft
}

// GetInput defines the input for getting a draft
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a draft
type GetOutput struct {
	Draft *agency.Draft
}

// UpdateInput defines the input for updating a draft
type UpdateInput struct {
	Draft *agency.Draft
}

// UpdateOutput defines the output for updating a draft
type UpdateOutput struct {
	Draft *agency.Draft
}

// DeleteInput defines the input for deleting a draft
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a draft
type DeleteOutput struct{}

// ttlFor returns the remaining lifetime of a draft relative to now.
func ttlFor(d *agency.Draft, now time.Time) (time.Duration, bool) {
	if d.ExpiresAt <= 0 {
		return DefaultTTL, true
	}
	ttl := time.Unix(d.ExpiresAt, 0).Sub(now)
	return ttl, ttl > 0
}

// Expiry returns the absolute expiry of a draft created at now.
func Expiry(now time.Time, ttl time.Duration) int64 {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return now.Add(ttl).Unix()
}

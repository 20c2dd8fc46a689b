// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no profile exists for a uid.
	ErrNotFound = errors.New("profile not found")
)

// Repository is the document store boundary for user profiles and orphaned accounts.
type Repository interface {
	// Put writes the profile document keyed by its uid, replacing any previous one.
	Put(ctx context.Context, p *Profile) error
	FindByUID(ctx context.Context, uid string) (*Profile, error)

	RecordOrphan(ctx context.Context, o *Orphan) error
	ListOrphans(ctx context.Context, limit int) ([]Orphan, error)
	BumpOrphan(ctx context.Context, uid string, lastErr string) error
	ResolveOrphan(ctx context.Context, uid string) error
}

package profile

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository stores profiles as documents keyed by uid.
type FirestoreRepository struct {
	client  *firestore.Client
	users   string
	orphans string
	logger  *zap.Logger
}

var _ Repository = (*FirestoreRepository)(nil)

// NewFirestoreRepository creates a Firestore backed repository.
func NewFirestoreRepository(client *firestore.Client, usersCollection, orphansCollection string, logger *zap.Logger) *FirestoreRepository {
	return &FirestoreRepository{
		client:  client,
		users:   usersCollection,
		orphans: orphansCollection,
		logger:  logger.Named("FirestoreProfiles"),
	}
}

func (r *FirestoreRepository) Put(ctx context.Context, p *Profile) error {
	if p.UID == "" {
		return fmt.Errorf("profile uid must not be empty")
	}
	if _, err := r.client.Collection(r.users).Doc(p.UID).Set(ctx, p); err != nil {
		r.logger.Error("Failed to write profile document", zap.String("uid", p.UID), zap.Error(err))
		return fmt.Errorf("failed to write profile %s: %w", p.UID, err)
	}
	return nil
}

func (r *FirestoreRepository) FindByUID(ctx context.Context, uid string) (*Profile, error) {
	snap, err := r.client.Collection(r.users).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read profile %s: %w", uid, err)
	}
	var p Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", uid, err)
	}
	p.UID = snap.Ref.ID
	return &p, nil
}

func (r *FirestoreRepository) RecordOrphan(ctx context.Context, o *Orphan) error {
	if _, err := r.client.Collection(r.orphans).Doc(o.UID).Set(ctx, o); err != nil {
		return fmt.Errorf("failed to record orphaned account %s: %w", o.UID, err)
	}
	return nil
}

func (r *FirestoreRepository) ListOrphans(ctx context.Context, limit int) ([]Orphan, error) {
	iter := r.client.Collection(r.orphans).OrderBy("recorded_at", firestore.Asc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var out []Orphan
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list orphaned accounts: %w", err)
		}
		var o Orphan
		if err := doc.DataTo(&o); err != nil {
			r.logger.Warn("Skipping undecodable orphan document", zap.String("id", doc.Ref.ID), zap.Error(err))
			continue
		}
		o.UID = doc.Ref.ID
		out = append(out, o)
	}
	return out, nil
}

func (r *FirestoreRepository) BumpOrphan(ctx context.Context, uid string, lastErr string) error {
	_, err := r.client.Collection(r.orphans).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "attempts", Value: firestore.Increment(1)},
		{Path: "last_error", Value: lastErr},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update orphaned account %s: %w", uid, err)
	}
	return nil
}

func (r *FirestoreRepository) ResolveOrphan(ctx context.Context, uid string) error {
	if _, err := r.client.Collection(r.orphans).Doc(uid).Delete(ctx); err != nil {
		return fmt.Errorf("failed to resolve orphaned account %s: %w", uid, err)
	}
	return nil
}

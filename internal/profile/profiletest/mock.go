// Package profiletest provides a testify mock of profile.Repository.
package profiletest

import (
	"context"

	"cookcam_backend/internal/profile"

	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock type for profile.Repository.
type MockRepository struct {
	mock.Mock
}

var _ profile.Repository = (*MockRepository)(nil)

func (m *MockRepository) Put(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) FindByUID(ctx context.Context, uid string) (*profile.Profile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockRepository) RecordOrphan(ctx context.Context, o *profile.Orphan) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockRepository) ListOrphans(ctx context.Context, limit int) ([]profile.Orphan, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]profile.Orphan), args.Error(1)
}

func (m *MockRepository) BumpOrphan(ctx context.Context, uid string, lastErr string) error {
	return m.Called(ctx, uid, lastErr).Error(0)
}

func (m *MockRepository) ResolveOrphan(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

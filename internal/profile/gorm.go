package profile

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a SQL backed repository. Tables are migrated on construction.
func NewGORMRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Profile{}, &Orphan{}); err != nil {
		return nil, fmt.Errorf("failed to migrate profile tables: %w", err)
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) Put(ctx context.Context, p *Profile) error {
	if p.UID == "" {
		return fmt.Errorf("profile uid must not be empty")
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uid"}}, UpdateAll: true}).
		Create(p).Error
	if err != nil {
		return fmt.Errorf("failed to write profile %s: %w", p.UID, err)
	}
	return nil
}

func (r *gormRepository) FindByUID(ctx context.Context, uid string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) RecordOrphan(ctx context.Context, o *Orphan) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uid"}}, UpdateAll: true}).
		Create(o).Error
	if err != nil {
		return fmt.Errorf("failed to record orphaned account %s: %w", o.UID, err)
	}
	return nil
}

func (r *gormRepository) ListOrphans(ctx context.Context, limit int) ([]Orphan, error) {
	var out []Orphan
	err := r.db.WithContext(ctx).Order("recorded_at ASC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orphaned accounts: %w", err)
	}
	return out, nil
}

func (r *gormRepository) BumpOrphan(ctx context.Context, uid string, lastErr string) error {
	res := r.db.WithContext(ctx).Model(&Orphan{}).Where("uid = ?", uid).Updates(map[string]interface{}{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": lastErr,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update orphaned account %s: %w", uid, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) ResolveOrphan(ctx context.Context, uid string) error {
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&Orphan{}).Error; err != nil {
		return fmt.Errorf("failed to resolve orphaned account %s: %w", uid, err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"veginReco/domain"

	"gorm.io/gorm"
)

type AnalysisRepository struct {
	DB *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{DB: db}
}

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}

	return nil
}

// Update writes the lifecycle columns only; user_input is immutable.
func (r *AnalysisRepository) Update(ctx context.Context, a *domain.Analysis) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	a.UpdatedAt = time.Now()
	res := r.DB.WithContext(ctx).
		Model(&domain.Analysis{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"status":     a.Status,
			"result":     a.Result,
			"error":      a.Error,
			"updated_at": a.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update analysis: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAnalysisNotFound
	}

	return nil
}

func (r *AnalysisRepository) FindByIDAndUser(ctx context.Context, id string, userID uint) (*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var a domain.Analysis
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}

	return &a, nil
}

func (r *AnalysisRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.Analysis
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	return rows, nil
}

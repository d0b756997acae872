package postgres

import (
	"context"
	"fmt"

	"veginReco/domain"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

func (r *RecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save recommendation: %w", err)
	}

	return nil
}

// AutoMigrate creates the analysis tables when they are missing.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Analysis{}, &domain.Recommendation{}); err != nil {
		return fmt.Errorf("failed to migrate analysis tables: %w", err)
	}
	return nil
}

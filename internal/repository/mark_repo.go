package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/In1quity/Fountain/internal/models"
)

// MarkRepository defines persistence operations for juror marks. Upsert is
// keyed by (article, juror): a second write by the same juror replaces the
// payload and comment, never creates a second row.
type MarkRepository interface {
	Upsert(ctx context.Context, mark *models.Mark) error
	ListByArticle(ctx context.Context, articleID uint) ([]models.Mark, error)
}

type markRepository struct {
	db *gorm.DB
}

// NewMarkRepository instantiates the repository.
func NewMarkRepository(db *gorm.DB) MarkRepository {
	return &markRepository{db: db}
}

func (r *markRepository) Upsert(ctx context.Context, mark *models.Mark) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}, {Name: "user"}},
			DoUpdates: clause.AssignmentColumns([]string{"marks", "comment", "updated_at"}),
		}).
		Create(mark).Error
}

func (r *markRepository) ListByArticle(ctx context.Context, articleID uint) ([]models.Mark, error) {
	var marks []models.Mark
	if err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&marks).Error; err != nil {
		return nil, err
	}

	return marks, nil
}

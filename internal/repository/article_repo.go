package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/In1quity/Fountain/internal/models"
)

// ArticleRepository defines persistence operations for submitted articles.
// Title uniqueness per editathon is enforced here as a hard constraint: the
// validator's duplicate check alone cannot exclude two concurrent
// submissions of the same title.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByName(ctx context.Context, editathonID uint, name string) (models.Article, error)
	DeleteByIDs(ctx context.Context, editathonID uint, ids []uint) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository instantiates the repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) GetByName(ctx context.Context, editathonID uint, name string) (models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Marks").
		Where("editathon_id = ?", editathonID).
		Where("name = ?", name).
		First(&article).Error
	if err != nil {
		return models.Article{}, err
	}

	return article, nil
}

func (r *articleRepository) DeleteByIDs(ctx context.Context, editathonID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("editathon_id = ?", editathonID).
		Where("id IN ?", ids).
		Delete(&models.Article{}).Error
}

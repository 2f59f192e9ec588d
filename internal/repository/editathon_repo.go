package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/In1quity/Fountain/internal/models"
)

// EditathonRepository defines persistence operations for editathons. The
// persistence layer is expected to load an editathon with its jury, rules,
// articles and marks eagerly available.
type EditathonRepository interface {
	List(ctx context.Context) ([]models.Editathon, error)
	GetByCode(ctx context.Context, code string) (models.Editathon, error)
	Create(ctx context.Context, editathon *models.Editathon) error
	Delete(ctx context.Context, id uint) error
}

type editathonRepository struct {
	db *gorm.DB
}

// NewEditathonRepository instantiates a GORM-backed repository.
func NewEditathonRepository(db *gorm.DB) EditathonRepository {
	return &editathonRepository{db: db}
}

func (r *editathonRepository) List(ctx context.Context) ([]models.Editathon, error) {
	var editathons []models.Editathon
	if err := r.db.WithContext(ctx).Order("finish DESC").Find(&editathons).Error; err != nil {
		return nil, err
	}

	return editathons, nil
}

func (r *editathonRepository) GetByCode(ctx context.Context, code string) (models.Editathon, error) {
	var editathon models.Editathon
	err := r.db.WithContext(ctx).
		Preload("Jury", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Rules").
		Preload("Articles", func(db *gorm.DB) *gorm.DB { return db.Order("date_added DESC") }).
		Preload("Articles.Marks").
		Where("code = ?", code).
		First(&editathon).Error
	if err != nil {
		return models.Editathon{}, err
	}

	return editathon, nil
}

func (r *editathonRepository) Create(ctx context.Context, editathon *models.Editathon) error {
	return r.db.WithContext(ctx).Create(editathon).Error
}

func (r *editathonRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Select("Jury", "Rules", "Articles").Delete(&models.Editathon{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

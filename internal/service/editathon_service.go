package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/In1quity/Fountain/internal/dto"
	"github.com/In1quity/Fountain/internal/repository"
)

// EditathonService exposes read access to editathons.
type EditathonService interface {
	List(ctx context.Context) ([]dto.EditathonSummary, error)
	Get(ctx context.Context, code string) (dto.EditathonDetail, error)
}

type editathonService struct {
	editathons repository.EditathonRepository
	logger     zerolog.Logger
}

// NewEditathonService constructs an EditathonService instance.
func NewEditathonService(editathons repository.EditathonRepository, logger zerolog.Logger) EditathonService {
	return &editathonService{
		editathons: editathons,
		logger:     logger.With().Str("component", "editathon_service").Logger(),
	}
}

func (s *editathonService) List(ctx context.Context) ([]dto.EditathonSummary, error) {
	editathons, err := s.editathons.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewEditathonSummarySlice(editathons), nil
}

func (s *editathonService) Get(ctx context.Context, code string) (dto.EditathonDetail, error) {
	editathon, err := s.editathons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EditathonDetail{}, ErrEditathonNotFound
		}
		return dto.EditathonDetail{}, err
	}

	return dto.NewEditathonDetail(editathon), nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/In1quity/Fountain/internal/dto"
	"github.com/In1quity/Fountain/internal/models"
	"github.com/In1quity/Fountain/internal/repository"
	"github.com/In1quity/Fountain/internal/scoring"
)

// MarkService handles juror marks: the per-(article, juror) upsert, the
// derived aggregate with conflict detection, and the ranked results of an
// editathon.
type MarkService interface {
	SetMark(ctx context.Context, code string, juror string, payload dto.SetMarkRequest) error
	GetAggregate(ctx context.Context, code, title string) (dto.AggregateResponse, error)
	Results(ctx context.Context, code string, limit int) ([]dto.ResultRow, error)
}

type markService struct {
	editathons repository.EditathonRepository
	marks      repository.MarkRepository
	validator  *validator.Validate
	cache      *redis.Client
	cacheTTL   time.Duration
	conflict   scoring.TolerancePolicy
	sanitizer  *bluemonday.Policy
	nats       *nats.Conn
	logger     zerolog.Logger
}

// NewMarkService constructs a MarkService. The conflict tolerance policy is
// pluggable; passing nil selects the overall-score spread.
func NewMarkService(editathons repository.EditathonRepository, marks repository.MarkRepository, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, conflict scoring.TolerancePolicy, natsConn *nats.Conn, logger zerolog.Logger) MarkService {
	if conflict == nil {
		conflict = scoring.OverallSpread
	}

	return &markService{
		editathons: editathons,
		marks:      marks,
		validator:  validate,
		cache:      cache,
		cacheTTL:   cacheTTL,
		conflict:   conflict,
		sanitizer:  bluemonday.StrictPolicy(),
		nats:       natsConn,
		logger:     logger.With().Str("component", "mark_service").Logger(),
	}
}

// SetMark stores or replaces the acting juror's mark for an article. The
// payload is validated against the schema derived from the editathon's marks
// configuration before anything is written.
func (s *markService) SetMark(ctx context.Context, code string, juror string, payload dto.SetMarkRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedMarks, err)
	}

	editathon, err := s.editathons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEditathonNotFound
		}
		return err
	}

	if !editathon.HasJuror(juror) {
		return ErrNotJuror
	}

	article := editathon.FindArticle(payload.Title)
	if article == nil {
		return ErrArticleNotFound
	}

	cfg, err := scoring.ParseConfig(editathon.MarksConfig)
	if err != nil {
		return fmt.Errorf("editathon %q: %w", code, err)
	}

	schema, err := cfg.PayloadSchema()
	if err != nil {
		return fmt.Errorf("editathon %q: %w", code, err)
	}
	if err := scoring.ValidatePayload(schema, payload.Marks); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedMarks, err)
	}

	mark := models.Mark{
		ArticleID: article.ID,
		User:      juror,
		Marks:     datatypes.JSON(payload.Marks),
		Comment:   strings.TrimSpace(s.sanitizer.Sanitize(payload.Comment)),
	}
	if err := s.marks.Upsert(ctx, &mark); err != nil {
		return err
	}

	// Aggregates depend on the full current set of marks, so any cached
	// result for this editathon is stale now.
	s.invalidate(ctx, code)
	s.publishEvent("fountain.mark.set", map[string]interface{}{
		"editathon": code,
		"title":     payload.Title,
		"juror":     juror,
	})

	s.logger.Info().Str("editathon", code).Str("title", payload.Title).Str("juror", juror).Msg("mark stored")
	return nil
}

// GetAggregate computes the current aggregate score and conflict state of an
// article. Conflict state is derived on read, never stored.
func (s *markService) GetAggregate(ctx context.Context, code, title string) (dto.AggregateResponse, error) {
	cacheKey := fmt.Sprintf("fountain:aggregate:%s:%s", code, title)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.AggregateResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read aggregate cache")
		}
	}

	editathon, err := s.editathons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AggregateResponse{}, ErrEditathonNotFound
		}
		return dto.AggregateResponse{}, err
	}

	article := editathon.FindArticle(title)
	if article == nil {
		return dto.AggregateResponse{}, ErrArticleNotFound
	}

	cfg, err := scoring.ParseConfig(editathon.MarksConfig)
	if err != nil {
		return dto.AggregateResponse{}, fmt.Errorf("editathon %q: %w", code, err)
	}

	response, err := s.aggregateArticle(cfg, *article)
	if err != nil {
		return dto.AggregateResponse{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store aggregate cache")
			}
		}
	}

	return response, nil
}

// Results ranks the editathon's articles by their aggregate overall score.
// Unmarked articles sort last.
func (s *markService) Results(ctx context.Context, code string, limit int) ([]dto.ResultRow, error) {
	editathon, err := s.editathons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEditathonNotFound
		}
		return nil, err
	}

	cfg, err := scoring.ParseConfig(editathon.MarksConfig)
	if err != nil {
		return nil, fmt.Errorf("editathon %q: %w", code, err)
	}

	rows := make([]dto.ResultRow, 0, len(editathon.Articles))
	for _, article := range editathon.Articles {
		aggregate, err := s.aggregateArticle(cfg, article)
		if err != nil {
			return nil, err
		}
		rows = append(rows, dto.ResultRow{
			Title:    article.Name,
			User:     article.User,
			Overall:  aggregate.Overall,
			Marked:   len(aggregate.Jurors),
			Conflict: aggregate.Conflict,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Marked == 0 || rows[j].Marked == 0 {
			return rows[i].Marked > rows[j].Marked
		}
		return rows[i].Overall > rows[j].Overall
	})

	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (s *markService) aggregateArticle(cfg scoring.Config, article models.Article) (dto.AggregateResponse, error) {
	aggregate, err := cfg.AggregateMarks(article.Marks)
	if err != nil {
		return dto.AggregateResponse{}, fmt.Errorf("article %q: %w", article.Name, err)
	}

	jurors := make([]dto.JurorScoreView, 0, len(aggregate.Jurors))
	for _, score := range aggregate.Jurors {
		jurors = append(jurors, dto.JurorScoreView{
			Juror:   score.Juror,
			Parts:   score.Parts,
			Overall: score.Overall,
			Comment: score.Comment,
		})
	}

	return dto.AggregateResponse{
		Title:    article.Name,
		Criteria: aggregate.Criteria,
		Overall:  aggregate.Overall,
		Conflict: s.conflict(cfg, aggregate.Jurors),
		Jurors:   jurors,
	}, nil
}

func (s *markService) invalidate(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}

	pattern := fmt.Sprintf("fountain:aggregate:%s:*", code)
	iter := s.cache.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", iter.Val()).Msg("failed to invalidate aggregate cache")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("aggregate cache scan failed")
	}
}

func (s *markService) publishEvent(subject string, payload map[string]interface{}) {
	if s.nats == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.nats.Publish(subject, raw); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}

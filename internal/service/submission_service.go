package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/In1quity/Fountain/internal/dto"
	"github.com/In1quity/Fountain/internal/models"
	"github.com/In1quity/Fountain/internal/observability"
	"github.com/In1quity/Fountain/internal/repository"
	"github.com/In1quity/Fountain/internal/rules"
	"github.com/In1quity/Fountain/internal/wikitext"
	"github.com/In1quity/Fountain/pkg/mediawiki"
)

// Outcome is the final, enumerable result of one submission attempt. Every
// rejection is a stable outcome code; the attempt has no retries.
type Outcome string

const (
	OutcomeAccepted        Outcome = "accepted"
	OutcomeWindowClosed    Outcome = "rejected_window_closed"
	OutcomeDuplicate       Outcome = "rejected_duplicate"
	OutcomePageNotFound    Outcome = "rejected_page_not_found"
	OutcomeDataUnavailable Outcome = "rejected_data_unavailable"
	OutcomeRuleFailed      Outcome = "rejected_rule_failed"
	OutcomeWriteFailed     Outcome = "rejected_write_failed"
)

// editSummary is the fixed change summary used for the template write-back.
const editSummary = "Automatically adding the contest template"

const (
	templateStatusArg  = "status"
	templateStatusDone = "done"
)

// Wiki is the remote wiki contract the submission pipeline needs: the
// loader's fetch surface plus the single write operation.
type Wiki interface {
	rules.Fetcher
	EditPage(ctx context.Context, title, text, summary string) error
}

// SubmissionService runs the article submission pipeline.
type SubmissionService interface {
	Submit(ctx context.Context, code, title, actor string, now time.Time) (dto.SubmitArticleResponse, error)
	RemoveArticles(ctx context.Context, code string, ids []uint, actor string) error
}

type submissionService struct {
	editathons repository.EditathonRepository
	articles   repository.ArticleRepository
	wiki       Wiki
	loader     *rules.Loader
	validator  *validator.Validate
	nats       *nats.Conn
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(editathons repository.EditathonRepository, articles repository.ArticleRepository, wiki Wiki, validate *validator.Validate, natsConn *nats.Conn, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		editathons: editathons,
		articles:   articles,
		wiki:       wiki,
		loader:     rules.NewLoader(wiki),
		validator:  validate,
		nats:       natsConn,
		logger:     logger.With().Str("component", "submission_service").Logger(),
		tracer:     otel.Tracer("github.com/In1quity/Fountain/internal/service/submission"),
	}
}

// Submit validates the titled article against the editathon's blocking rules,
// synchronizes the contest marker on the page, writes it back, and records
// the article locally. The pipeline is linear: each step's failure is final
// for the attempt, and the local record is appended only after the remote
// write succeeded. The current time and the acting user are passed in
// explicitly to keep the pipeline deterministic.
func (s *submissionService) Submit(ctx context.Context, code, title, actor string, now time.Time) (dto.SubmitArticleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit", trace.WithAttributes(
		attribute.String("editathon.code", code),
		attribute.String("article.title", title),
	))
	defer span.End()

	payload := dto.SubmitArticleRequest{Title: title}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmitArticleResponse{}, err
	}

	editathon, err := s.editathons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitArticleResponse{}, ErrEditathonNotFound
		}
		return dto.SubmitArticleResponse{}, err
	}

	// Preconditions are checked before any remote call.
	if !editathon.IsActive(now) {
		return s.reject(span, code, title, OutcomeWindowClosed), nil
	}
	if editathon.FindArticle(title) != nil {
		return s.reject(span, code, title, OutcomeDuplicate), nil
	}

	page, err := s.wiki.GetPage(ctx, title)
	if err != nil {
		if errors.Is(err, mediawiki.ErrPageNotFound) {
			return s.reject(span, code, title, OutcomePageNotFound), nil
		}
		s.logger.Warn().Err(err).Str("title", title).Msg("page fetch failed")
		return s.reject(span, code, title, OutcomeDataUnavailable), nil
	}

	blocking, err := rules.BuildBlocking(editathon.Rules)
	if err != nil {
		return dto.SubmitArticleResponse{}, fmt.Errorf("failed to build rules: %w", err)
	}

	if len(blocking) > 0 {
		data, loadErr := s.loadRuleData(ctx, title, page, blocking)
		if loadErr != nil {
			s.logger.Warn().Err(loadErr).Str("title", title).Msg("rule data load failed")
			return s.reject(span, code, title, OutcomeDataUnavailable), nil
		}

		ruleCtx := rules.Context{User: actor}
		for _, rule := range blocking {
			if !rule.Check(data, ruleCtx) {
				return s.reject(span, code, title, OutcomeRuleFailed), nil
			}
		}
	}

	template := &wikitext.Template{
		Name: editathon.Template,
		Args: []wikitext.Argument{
			{Value: actor},
			{Name: templateStatusArg, Value: templateStatusDone},
		},
	}

	newPage, err := wikitext.Sync(page, template)
	if err != nil {
		// A malformed existing marker is fatal for the attempt: a partial
		// best-effort edit could corrupt the page.
		return dto.SubmitArticleResponse{}, fmt.Errorf("template sync failed for %q: %w", title, err)
	}

	if err := s.wiki.EditPage(ctx, title, newPage, editSummary); err != nil {
		s.logger.Warn().Err(err).Str("title", title).Msg("page write-back failed")
		return s.reject(span, code, title, OutcomeWriteFailed), nil
	}

	article := models.Article{
		EditathonID: editathon.ID,
		Name:        title,
		User:        actor,
		DateAdded:   now,
	}
	if err := s.articles.Create(ctx, &article); err != nil {
		// Losing the storage-level uniqueness race surfaces here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.reject(span, code, title, OutcomeDuplicate), nil
		}
		return dto.SubmitArticleResponse{}, err
	}

	s.publishEvent("fountain.article.added", map[string]interface{}{
		"editathon": code,
		"title":     title,
		"user":      actor,
	})

	span.SetAttributes(attribute.String("submission.outcome", string(OutcomeAccepted)))
	observability.Submissions().WithLabelValues(string(OutcomeAccepted)).Inc()
	s.logger.Info().Str("editathon", code).Str("title", title).Str("user", actor).Msg("article accepted")

	return dto.SubmitArticleResponse{
		Outcome:  string(OutcomeAccepted),
		Warnings: s.collectWarnings(ctx, editathon, title, page, actor),
	}, nil
}

// loadRuleData loads the given rules' requirements. The page text was
// already fetched for the template sync, so that slot is filled from it
// instead of a second remote call.
func (s *submissionService) loadRuleData(ctx context.Context, title, page string, ruleSet []rules.Rule) (*rules.ArticleData, error) {
	reqs := rules.Requirements(ruleSet)
	remote := make([]rules.Requirement, 0, len(reqs))
	needsPageText := false
	for _, req := range reqs {
		if req == rules.ReqPageText {
			needsPageText = true
			continue
		}
		remote = append(remote, req)
	}

	data := &rules.ArticleData{}
	if len(remote) > 0 {
		loaded, err := s.loader.Load(ctx, title, remote)
		if err != nil {
			return nil, err
		}
		data = loaded
	}
	if needsPageText {
		data.PageText = page
	}
	return data, nil
}

// collectWarnings evaluates advisory rules after acceptance. Their data is
// loaded best-effort: a load failure only suppresses the warnings, it never
// affects the outcome.
func (s *submissionService) collectWarnings(ctx context.Context, editathon models.Editathon, title, page, actor string) []string {
	var advisory []rules.Rule
	var kinds []string
	for _, stored := range editathon.Rules {
		if stored.IsBlocking() {
			continue
		}
		rule, err := rules.Build(stored)
		if err != nil {
			s.logger.Warn().Err(err).Str("type", stored.Type).Msg("skipping unbuildable advisory rule")
			continue
		}
		advisory = append(advisory, rule)
		kinds = append(kinds, stored.Type)
	}
	if len(advisory) == 0 {
		return nil
	}

	data, err := s.loadRuleData(ctx, title, page, advisory)
	if err != nil {
		s.logger.Warn().Err(err).Str("title", title).Msg("advisory rule data load failed")
		return nil
	}

	var warnings []string
	ruleCtx := rules.Context{User: actor}
	for i, rule := range advisory {
		if !rule.Check(data, ruleCtx) {
			warnings = append(warnings, kinds[i])
		}
	}
	return warnings
}

// RemoveArticles removes articles from an editathon. Only jury members may
// remove entries.
func (s *submissionService) RemoveArticles(ctx context.Context, code string, ids []uint, actor string) error {
	editathon, err := s.editathons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEditathonNotFound
		}
		return err
	}

	if !editathon.HasJuror(actor) {
		return ErrNotJuror
	}

	if err := s.articles.DeleteByIDs(ctx, editathon.ID, ids); err != nil {
		return err
	}

	s.logger.Info().Str("editathon", code).Str("user", actor).Int("count", len(ids)).Msg("articles removed")
	return nil
}

func (s *submissionService) reject(span trace.Span, code, title string, outcome Outcome) dto.SubmitArticleResponse {
	span.SetAttributes(attribute.String("submission.outcome", string(outcome)))
	observability.Submissions().WithLabelValues(string(outcome)).Inc()
	s.logger.Info().Str("editathon", code).Str("title", title).Str("outcome", string(outcome)).Msg("submission rejected")
	return dto.SubmitArticleResponse{Outcome: string(outcome)}
}

func (s *submissionService) publishEvent(subject string, payload map[string]interface{}) {
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

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/In1quity/Fountain/internal/models"
	"github.com/In1quity/Fountain/pkg/mediawiki"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type editathonRepoStub struct {
	editathon models.Editathon
	err       error
}

func (s *editathonRepoStub) List(ctx context.Context) ([]models.Editathon, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Editathon{s.editathon}, nil
}

func (s *editathonRepoStub) GetByCode(ctx context.Context, code string) (models.Editathon, error) {
	if s.err != nil {
		return models.Editathon{}, s.err
	}
	if code != s.editathon.Code {
		return models.Editathon{}, gorm.ErrRecordNotFound
	}
	return s.editathon, nil
}

func (s *editathonRepoStub) Create(ctx context.Context, editathon *models.Editathon) error {
	s.editathon = *editathon
	return nil
}

func (s *editathonRepoStub) Delete(ctx context.Context, id uint) error { return nil }

type articleRepoStub struct {
	created   []models.Article
	createErr error
	deleted   []uint
}

func (s *articleRepoStub) Create(ctx context.Context, article *models.Article) error {
	if s.createErr != nil {
		return s.createErr
	}
	article.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *article)
	return nil
}

func (s *articleRepoStub) GetByName(ctx context.Context, editathonID uint, name string) (models.Article, error) {
	for _, a := range s.created {
		if a.EditathonID == editathonID && a.Name == name {
			return a, nil
		}
	}
	return models.Article{}, gorm.ErrRecordNotFound
}

func (s *articleRepoStub) DeleteByIDs(ctx context.Context, editathonID uint, ids []uint) error {
	s.deleted = append(s.deleted, ids...)
	return nil
}

type fakeWiki struct {
	pages      map[string]string
	byteLength int64
	categories []string
	revCount   int64
	firstRev   mediawiki.Revision

	pageErr   error
	lengthErr error
	editErr   error

	pageCalls int
	editCalls int
	edited    string
}

func (f *fakeWiki) GetPage(ctx context.Context, title string) (string, error) {
	f.pageCalls++
	if f.pageErr != nil {
		return "", f.pageErr
	}
	text, ok := f.pages[title]
	if !ok {
		return "", mediawiki.ErrPageNotFound
	}
	return text, nil
}

func (f *fakeWiki) GetByteLength(ctx context.Context, title string) (int64, error) {
	if f.lengthErr != nil {
		return 0, f.lengthErr
	}
	return f.byteLength, nil
}

func (f *fakeWiki) GetCategories(ctx context.Context, title string) ([]string, error) {
	return f.categories, nil
}

func (f *fakeWiki) GetRevisionCount(ctx context.Context, title string) (int64, error) {
	return f.revCount, nil
}

func (f *fakeWiki) GetFirstRevision(ctx context.Context, title string) (mediawiki.Revision, error) {
	return f.firstRev, nil
}

func (f *fakeWiki) EditPage(ctx context.Context, title, text, summary string) error {
	f.editCalls++
	if f.editErr != nil {
		return f.editErr
	}
	f.edited = text
	return nil
}

func testEditathon(now time.Time) models.Editathon {
	return models.Editathon{
		ID:       1,
		Code:     "spring-2026",
		Name:     "Spring Editathon",
		Start:    now.Add(-24 * time.Hour),
		Finish:   now.Add(24 * time.Hour),
		Template: "Contest banner",
		Jury: []models.JuryMember{
			{EditathonID: 1, Username: "Judy", Position: 0},
		},
	}
}

func TestSubmitAccepted(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	wiki := &fakeWiki{pages: map[string]string{"Great Article": "Some article text."}, byteLength: 4096}
	articles := &articleRepoStub{}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	editathons.editathon.Rules = []models.Rule{
		{Type: "articleSize", Severity: models.RuleSeverityRequirement, Params: datatypes.JSONMap{"minBytes": float64(1000)}},
	}

	svc := NewSubmissionService(editathons, articles, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Great Article", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomeAccepted), resp.Outcome)
	require.Empty(t, resp.Warnings)

	require.Equal(t, 1, wiki.editCalls)
	require.Contains(t, wiki.edited, "{{Contest banner|Alice|status=done}}")
	require.Contains(t, wiki.edited, "Some article text.")

	require.Len(t, articles.created, 1)
	require.Equal(t, "Great Article", articles.created[0].Name)
	require.Equal(t, "Alice", articles.created[0].User)
	require.Equal(t, now, articles.created[0].DateAdded)
}

func TestSubmitWindowClosed(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	wiki := &fakeWiki{pages: map[string]string{"Great Article": "text"}}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	editathons.editathon.Finish = now.Add(-72 * time.Hour)

	svc := NewSubmissionService(editathons, &articleRepoStub{}, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Great Article", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomeWindowClosed), resp.Outcome)
	require.Zero(t, wiki.pageCalls)
	require.Zero(t, wiki.editCalls)
}

func TestSubmitFinishDayInclusive(t *testing.T) {
	finish := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	now := finish.Add(21 * time.Hour)
	wiki := &fakeWiki{pages: map[string]string{"Great Article": "text"}}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	editathons.editathon.Finish = finish

	svc := NewSubmissionService(editathons, &articleRepoStub{}, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Great Article", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomeAccepted), resp.Outcome)
}

func TestSubmitDuplicate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	wiki := &fakeWiki{pages: map[string]string{"Great Article": "text"}}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	editathons.editathon.Articles = []models.Article{
		{ID: 7, EditathonID: 1, Name: "Great Article", User: "Bob", DateAdded: now.Add(-time.Hour)},
	}
	articles := &articleRepoStub{}

	svc := NewSubmissionService(editathons, articles, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Great Article", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomeDuplicate), resp.Outcome)
	require.Zero(t, wiki.pageCalls)
	require.Zero(t, wiki.editCalls)
	require.Empty(t, articles.created)
}

func TestSubmitPageNotFound(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	wiki := &fakeWiki{pages: map[string]string{}}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}

	svc := NewSubmissionService(editathons, &articleRepoStub{}, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Missing", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomePageNotFound), resp.Outcome)
	require.Zero(t, wiki.editCalls)
}

func TestSubmitRuleFailed(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	wiki := &fakeWiki{pages: map[string]string{"Short": "stub"}, byteLength: 120}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	editathons.editathon.Rules = []models.Rule{
		{Type: "articleSize", Severity: models.RuleSeverityRequirement, Params: datatypes.JSONMap{"minBytes": float64(5000)}},
	}
	articles := &articleRepoStub{}

	svc := NewSubmissionService(editathons, articles, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Short", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomeRuleFailed), resp.Outcome)
	require.Zero(t, wiki.editCalls)
	require.Empty(t, articles.created)
}

func TestSubmitDataUnavailable(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	wiki := &fakeWiki{pages: map[string]string{"Great Article": "text"}, lengthErr: errors.New("api down")}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	editathons.editathon.Rules = []models.Rule{
		{Type: "articleSize", Severity: models.RuleSeverityRequirement, Params: datatypes.JSONMap{"minBytes": float64(1)}},
	}

	svc := NewSubmissionService(editathons, &articleRepoStub{}, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Great Article", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomeDataUnavailable), resp.Outcome)
	require.Zero(t, wiki.editCalls)
}

func TestSubmitWriteFailed(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	wiki := &fakeWiki{pages: map[string]string{"Great Article": "text"}, editErr: errors.New("edit conflict")}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	articles := &articleRepoStub{}

	svc := NewSubmissionService(editathons, articles, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Great Article", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomeWriteFailed), resp.Outcome)
	require.Empty(t, articles.created, "no local record after a failed write-back")
}

func TestSubmitStorageRaceLoserIsDuplicate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	wiki := &fakeWiki{pages: map[string]string{"Great Article": "text"}}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	articles := &articleRepoStub{createErr: gorm.ErrDuplicatedKey}

	svc := NewSubmissionService(editathons, articles, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Great Article", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomeDuplicate), resp.Outcome)
}

func TestSubmitUnknownEditathon(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	editathons := &editathonRepoStub{editathon: testEditathon(now)}

	svc := NewSubmissionService(editathons, &articleRepoStub{}, &fakeWiki{}, validator.New(), nil, testLogger())

	_, err := svc.Submit(context.Background(), "no-such-code", "Great Article", "Alice", now)
	require.ErrorIs(t, err, ErrEditathonNotFound)
}

func TestSubmitAdvisoryRuleYieldsWarning(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	wiki := &fakeWiki{pages: map[string]string{"Great Article": "text"}, byteLength: 100}
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	editathons.editathon.Rules = []models.Rule{
		{Type: "articleSize", Severity: models.RuleSeverityWarning, Params: datatypes.JSONMap{"minBytes": float64(5000)}},
	}
	articles := &articleRepoStub{}

	svc := NewSubmissionService(editathons, articles, wiki, validator.New(), nil, testLogger())

	resp, err := svc.Submit(context.Background(), "spring-2026", "Great Article", "Alice", now)
	require.NoError(t, err)
	require.Equal(t, string(OutcomeAccepted), resp.Outcome)
	require.Equal(t, []string{"articleSize"}, resp.Warnings)
	require.Len(t, articles.created, 1)
}

func TestRemoveArticlesRequiresJuror(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	editathons := &editathonRepoStub{editathon: testEditathon(now)}
	articles := &articleRepoStub{}

	svc := NewSubmissionService(editathons, articles, &fakeWiki{}, validator.New(), nil, testLogger())

	err := svc.RemoveArticles(context.Background(), "spring-2026", []uint{3, 4}, "Alice")
	require.ErrorIs(t, err, ErrNotJuror)
	require.Empty(t, articles.deleted)

	require.NoError(t, svc.RemoveArticles(context.Background(), "spring-2026", []uint{3, 4}, "Judy"))
	require.Equal(t, []uint{3, 4}, articles.deleted)
}

package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/In1quity/Fountain/internal/models"
	"github.com/In1quity/Fountain/pkg/mediawiki"
)

func TestBuildUnknownType(t *testing.T) {
	_, err := Build(models.Rule{Type: "noSuchRule"})
	require.Error(t, err)
}

func TestBuildBlockingSkipsWarnings(t *testing.T) {
	stored := []models.Rule{
		{Type: KindArticleSize, Severity: models.RuleSeverityRequirement, Params: datatypes.JSONMap{"minBytes": float64(1000)}},
		{Type: KindArticleAuthor, Severity: models.RuleSeverityWarning},
	}

	built, err := BuildBlocking(stored)
	require.NoError(t, err)
	require.Len(t, built, 1)
}

func TestRequirementsDeduplicated(t *testing.T) {
	size, err := Build(models.Rule{Type: KindArticleSize, Severity: models.RuleSeverityRequirement, Params: datatypes.JSONMap{"minBytes": float64(1)}})
	require.NoError(t, err)
	created, err := Build(models.Rule{Type: KindArticleCreated, Severity: models.RuleSeverityRequirement, Params: datatypes.JSONMap{"after": "2024-05-01"}})
	require.NoError(t, err)
	author, err := Build(models.Rule{Type: KindArticleAuthor, Severity: models.RuleSeverityRequirement})
	require.NoError(t, err)

	reqs := Requirements([]Rule{size, created, author})
	require.Equal(t, []Requirement{ReqByteLength, ReqFirstRevision}, reqs)
}

func TestArticleSizeRule(t *testing.T) {
	rule, err := newArticleSizeRule(map[string]interface{}{"minBytes": float64(2000)})
	require.NoError(t, err)

	require.False(t, rule.Check(&ArticleData{ByteLength: 1999}, Context{}))
	require.True(t, rule.Check(&ArticleData{ByteLength: 2000}, Context{}))

	_, err = newArticleSizeRule(map[string]interface{}{})
	require.Error(t, err)
	_, err = newArticleSizeRule(map[string]interface{}{"minBytes": "big"})
	require.Error(t, err)
}

func TestArticleCreatedRule(t *testing.T) {
	rule, err := newArticleCreatedRule(map[string]interface{}{"after": "2024-05-01"})
	require.NoError(t, err)

	early := &ArticleData{FirstRevision: mediawiki.Revision{Timestamp: time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC)}}
	onTime := &ArticleData{FirstRevision: mediawiki.Revision{Timestamp: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}}

	require.False(t, rule.Check(early, Context{}))
	require.True(t, rule.Check(onTime, Context{}))
}

func TestArticleAuthorRule(t *testing.T) {
	rule, err := newArticleAuthorRule(nil)
	require.NoError(t, err)

	data := &ArticleData{FirstRevision: mediawiki.Revision{User: "Alice"}}
	require.True(t, rule.Check(data, Context{User: "Alice"}))
	require.False(t, rule.Check(data, Context{User: "Bob"}))
}

func TestCategoryRule(t *testing.T) {
	required, err := newCategoryRule(map[string]interface{}{"name": "Contest 2024"})
	require.NoError(t, err)

	data := &ArticleData{Categories: []string{"contest_2024", "Stubs"}}
	require.True(t, required.Check(data, Context{}))
	require.False(t, required.Check(&ArticleData{Categories: []string{"Stubs"}}, Context{}))

	forbidden, err := newCategoryRule(map[string]interface{}{"name": "Stubs", "required": false})
	require.NoError(t, err)
	require.False(t, forbidden.Check(data, Context{}))
	require.True(t, forbidden.Check(&ArticleData{}, Context{}))
}

func TestRevisionCountRule(t *testing.T) {
	rule, err := newRevisionCountRule(map[string]interface{}{"min": float64(1), "max": float64(10)})
	require.NoError(t, err)

	require.False(t, rule.Check(&ArticleData{RevisionCount: 0}, Context{}))
	require.True(t, rule.Check(&ArticleData{RevisionCount: 5}, Context{}))
	require.False(t, rule.Check(&ArticleData{RevisionCount: 11}, Context{}))

	_, err = newRevisionCountRule(map[string]interface{}{})
	require.Error(t, err)
}

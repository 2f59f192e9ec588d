package rules

import (
	"fmt"
	"time"
)

// Rule kind names as stored in rule definitions.
const (
	KindArticleSize    = "articleSize"
	KindArticleCreated = "articleCreated"
	KindArticleAuthor  = "articleAuthor"
	KindCategory       = "category"
	KindRevisionCount  = "revisionCount"
)

func init() {
	Register(KindArticleSize, newArticleSizeRule)
	Register(KindArticleCreated, newArticleCreatedRule)
	Register(KindArticleAuthor, newArticleAuthorRule)
	Register(KindCategory, newCategoryRule)
	Register(KindRevisionCount, newRevisionCountRule)
}

// articleSizeRule checks the article is at least minBytes long.
type articleSizeRule struct {
	minBytes int64
}

func newArticleSizeRule(params map[string]interface{}) (Rule, error) {
	minBytes, err := paramInt(params, "minBytes")
	if err != nil {
		return nil, err
	}
	if minBytes <= 0 {
		return nil, fmt.Errorf("minBytes must be positive")
	}
	return &articleSizeRule{minBytes: minBytes}, nil
}

func (r *articleSizeRule) Requirements() []Requirement {
	return []Requirement{ReqByteLength}
}

func (r *articleSizeRule) Check(data *ArticleData, _ Context) bool {
	return data.ByteLength >= r.minBytes
}

// articleCreatedRule checks the article was created at or after a cutoff
// instant, typically the contest start.
type articleCreatedRule struct {
	after time.Time
}

func newArticleCreatedRule(params map[string]interface{}) (Rule, error) {
	after, err := paramTime(params, "after")
	if err != nil {
		return nil, err
	}
	return &articleCreatedRule{after: after}, nil
}

func (r *articleCreatedRule) Requirements() []Requirement {
	return []Requirement{ReqFirstRevision}
}

func (r *articleCreatedRule) Check(data *ArticleData, _ Context) bool {
	return !data.FirstRevision.Timestamp.Before(r.after)
}

// articleAuthorRule checks the submitting user is the article's creator.
type articleAuthorRule struct{}

func newArticleAuthorRule(map[string]interface{}) (Rule, error) {
	return &articleAuthorRule{}, nil
}

func (r *articleAuthorRule) Requirements() []Requirement {
	return []Requirement{ReqFirstRevision}
}

func (r *articleAuthorRule) Check(data *ArticleData, ctx Context) bool {
	return data.FirstRevision.User == ctx.User
}

// categoryRule checks the presence or absence of a category.
type categoryRule struct {
	name     string
	required bool
}

func newCategoryRule(params map[string]interface{}) (Rule, error) {
	name, err := paramString(params, "name")
	if err != nil {
		return nil, err
	}
	required := true
	if raw, ok := params["required"]; ok {
		value, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("param required must be a boolean")
		}
		required = value
	}
	return &categoryRule{name: name, required: required}, nil
}

func (r *categoryRule) Requirements() []Requirement {
	return []Requirement{ReqCategoryList}
}

func (r *categoryRule) Check(data *ArticleData, _ Context) bool {
	return data.HasCategory(r.name) == r.required
}

// revisionCountRule bounds the number of revisions the article may have.
// Either bound may be omitted.
type revisionCountRule struct {
	min int64
	max int64
}

func newRevisionCountRule(params map[string]interface{}) (Rule, error) {
	rule := &revisionCountRule{min: 0, max: -1}

	if _, ok := params["min"]; ok {
		min, err := paramInt(params, "min")
		if err != nil {
			return nil, err
		}
		rule.min = min
	}
	if _, ok := params["max"]; ok {
		max, err := paramInt(params, "max")
		if err != nil {
			return nil, err
		}
		rule.max = max
	}
	if rule.min == 0 && rule.max < 0 {
		return nil, fmt.Errorf("at least one of min or max is required")
	}
	return rule, nil
}

func (r *revisionCountRule) Requirements() []Requirement {
	return []Requirement{ReqRevisionCount}
}

func (r *revisionCountRule) Check(data *ArticleData, _ Context) bool {
	if data.RevisionCount < r.min {
		return false
	}
	if r.max >= 0 && data.RevisionCount > r.max {
		return false
	}
	return true
}

func paramInt(params map[string]interface{}, key string) (int64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("param %s is required", key)
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("param %s must be a number", key)
	}
}

func paramString(params map[string]interface{}, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", fmt.Errorf("param %s is required", key)
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", fmt.Errorf("param %s must be a non-empty string", key)
	}
	return value, nil
}

func paramTime(params map[string]interface{}, key string) (time.Time, error) {
	value, err := paramString(params, key)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("param %s must be an RFC3339 or YYYY-MM-DD timestamp", key)
}

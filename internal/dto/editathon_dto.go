package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/In1quity/Fountain/internal/models"
)

// EditathonSummary is returned when listing editathons.
type EditathonSummary struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	Finish      time.Time `json:"finish"`
}

// EditathonDetail is the full editathon view with jury, rules and articles.
type EditathonDetail struct {
	Code        string            `json:"code"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Start       time.Time         `json:"start"`
	Finish      time.Time         `json:"finish"`
	Jury        []string          `json:"jury"`
	Rules       []RuleResponse    `json:"rules"`
	Articles    []ArticleResponse `json:"articles"`
	MarksConfig datatypes.JSON    `json:"marks_config"`
}

// RuleResponse serializes one rule definition.
type RuleResponse struct {
	Type     string            `json:"type"`
	Severity string            `json:"severity"`
	Params   datatypes.JSONMap `json:"params"`
}

// ArticleResponse serializes a submitted article with its marks.
type ArticleResponse struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	User      string         `json:"user"`
	DateAdded time.Time      `json:"date_added"`
	Marks     []MarkResponse `json:"marks"`
}

// MarkResponse serializes one juror's mark.
type MarkResponse struct {
	User    string         `json:"user"`
	Marks   datatypes.JSON `json:"marks"`
	Comment string         `json:"comment"`
}

// NewEditathonSummary converts an Editathon model into a summary DTO.
func NewEditathonSummary(model models.Editathon) EditathonSummary {
	return EditathonSummary{
		Code:        model.Code,
		Name:        model.Name,
		Description: model.Description,
		Start:       model.Start,
		Finish:      model.Finish,
	}
}

// NewEditathonSummarySlice converts a slice of models into summary DTOs.
func NewEditathonSummarySlice(items []models.Editathon) []EditathonSummary {
	summaries := make([]EditathonSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, NewEditathonSummary(item))
	}
	return summaries
}

// NewEditathonDetail converts an eagerly-loaded Editathon into a detail DTO.
func NewEditathonDetail(model models.Editathon) EditathonDetail {
	jury := make([]string, 0, len(model.Jury))
	for _, member := range model.Jury {
		jury = append(jury, member.Username)
	}

	rules := make([]RuleResponse, 0, len(model.Rules))
	for _, rule := range model.Rules {
		rules = append(rules, RuleResponse{
			Type:     rule.Type,
			Severity: rule.Severity,
			Params:   rule.Params,
		})
	}

	articles := make([]ArticleResponse, 0, len(model.Articles))
	for _, article := range model.Articles {
		articles = append(articles, NewArticleResponse(article))
	}

	return EditathonDetail{
		Code:        model.Code,
		Name:        model.Name,
		Description: model.Description,
		Start:       model.Start,
		Finish:      model.Finish,
		Jury:        jury,
		Rules:       rules,
		Articles:    articles,
		MarksConfig: model.MarksConfig,
	}
}

// NewArticleResponse converts an Article model into a DTO.
func NewArticleResponse(model models.Article) ArticleResponse {
	marks := make([]MarkResponse, 0, len(model.Marks))
	for _, mark := range model.Marks {
		marks = append(marks, MarkResponse{
			User:    mark.User,
			Marks:   mark.Marks,
			Comment: mark.Comment,
		})
	}

	return ArticleResponse{
		ID:        model.ID,
		Name:      model.Name,
		User:      model.User,
		DateAdded: model.DateAdded,
		Marks:     marks,
	}
}

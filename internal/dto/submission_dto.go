package dto

import "encoding/json"

// SubmitArticleRequest is the payload for submitting an article to an
// editathon.
type SubmitArticleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=512"`
}

// SubmitArticleResponse reports the outcome of a submission attempt.
type SubmitArticleResponse struct {
	Outcome  string   `json:"outcome"`
	Warnings []string `json:"warnings,omitempty"`
}

// RemoveArticlesRequest lists article ids to remove from an editathon.
type RemoveArticlesRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// SetMarkRequest is the payload a juror sends when marking an article.
type SetMarkRequest struct {
	Title   string          `json:"title" validate:"required,min=1,max=512"`
	Marks   json.RawMessage `json:"marks" validate:"required"`
	Comment string          `json:"comment"`
}

// AggregateResponse is the derived aggregate score of one article with its
// conflict state, recomputed on every read.
type AggregateResponse struct {
	Title    string             `json:"title"`
	Criteria map[string]float64 `json:"criteria"`
	Overall  float64            `json:"overall"`
	Conflict bool               `json:"conflict"`
	Jurors   []JurorScoreView   `json:"jurors"`
}

// JurorScoreView is one juror's decoded score inside an aggregate.
type JurorScoreView struct {
	Juror   string             `json:"juror"`
	Parts   map[string]float64 `json:"parts"`
	Overall float64            `json:"overall"`
	Comment string             `json:"comment,omitempty"`
}

// ResultRow is one entry of an editathon's ranked results.
type ResultRow struct {
	Rank     int     `json:"rank"`
	Title    string  `json:"title"`
	User     string  `json:"user"`
	Overall  float64 `json:"overall"`
	Marked   int     `json:"marked"`
	Conflict bool    `json:"conflict"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Article is a wiki page submitted to an editathon. The (editathon, name) pair
// is unique at the storage level: the precondition check in the submission
// pipeline alone cannot exclude two concurrent submissions of the same title.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EditathonID uint      `gorm:"not null;uniqueIndex:idx_articles_editathon_name" json:"editathon_id"`
	Name        string    `gorm:"size:512;not null;uniqueIndex:idx_articles_editathon_name" json:"name"`
	User        string    `gorm:"size:255;not null" json:"user"`
	DateAdded   time.Time `gorm:"not null" json:"date_added"`
	Marks       []Mark    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"marks"`
}

// Mark holds one juror's structured scores and comment for an article.
// At most one mark exists per (article, juror); a second write by the same
// juror replaces payload and comment.
type Mark struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ArticleID uint           `gorm:"not null;uniqueIndex:idx_marks_article_user" json:"article_id"`
	User      string         `gorm:"size:255;not null;uniqueIndex:idx_marks_article_user" json:"user"`
	Marks     datatypes.JSON `gorm:"type:json" json:"marks"`
	Comment   string         `gorm:"type:text" json:"comment"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MarkOf returns the mark submitted by the given juror, if any.
func (a Article) MarkOf(username string) *Mark {
	for i := range a.Marks {
		if a.Marks[i].User == username {
			return &a.Marks[i]
		}
	}
	return nil
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Editathon represents a time-boxed wiki editing contest identified by a code.
type Editathon struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Start       time.Time      `gorm:"not null" json:"start"`
	Finish      time.Time      `gorm:"not null" json:"finish"`
	Template    string         `gorm:"size:255;not null" json:"template"`
	MarksConfig datatypes.JSON `gorm:"type:json" json:"marks_config"`
	Jury        []JuryMember   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"jury"`
	Rules       []Rule         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"rules"`
	Articles    []Article      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"articles"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// JuryMember is one entry of the ordered jury list of an editathon.
type JuryMember struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	EditathonID uint   `gorm:"index;not null" json:"editathon_id"`
	Username    string `gorm:"size:255;not null" json:"username"`
	Position    int    `gorm:"not null" json:"position"`
}

// IsActive reports whether submissions are accepted at the given instant.
// The finish date is inclusive with whole-day granularity.
func (e Editathon) IsActive(reference time.Time) bool {
	if reference.Before(e.Start) {
		return false
	}
	endOfFinishDay := time.Date(e.Finish.Year(), e.Finish.Month(), e.Finish.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), e.Finish.Location())
	return !reference.After(endOfFinishDay)
}

// HasJuror reports whether the given username belongs to the jury.
func (e Editathon) HasJuror(username string) bool {
	for _, j := range e.Jury {
		if j.Username == username {
			return true
		}
	}
	return false
}

// FindArticle returns the article with the exact given name, if present.
// Names are matched case-sensitively.
func (e Editathon) FindArticle(name string) *Article {
	for i := range e.Articles {
		if e.Articles[i].Name == name {
			return &e.Articles[i]
		}
	}
	return nil
}

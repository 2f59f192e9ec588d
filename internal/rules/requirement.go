package rules

import "github.com/In1quity/Fountain/pkg/mediawiki"

// Requirement tags one kind of remote article data a rule needs. Requirements
// declared by multiple rules are deduplicated before fetching.
type Requirement string

const (
	// ReqPageText is the current wikitext of the article.
	ReqPageText Requirement = "page_text"
	// ReqByteLength is the article's byte length.
	ReqByteLength Requirement = "byte_length"
	// ReqCategoryList is the list of categories the article belongs to.
	ReqCategoryList Requirement = "category_list"
	// ReqRevisionCount is the number of revisions of the article.
	ReqRevisionCount Requirement = "revision_count"
	// ReqFirstRevision is the article's oldest revision (creator and creation time).
	ReqFirstRevision Requirement = "first_revision"
)

// ArticleData is the bag of fetched article data, one slot per requirement
// kind. It is immutable once returned by the loader; only slots whose
// requirement was requested are populated.
type ArticleData struct {
	PageText      string
	ByteLength    int64
	Categories    []string
	RevisionCount int64
	FirstRevision mediawiki.Revision
}

// HasCategory reports whether the article belongs to the named category,
// case-insensitively and treating underscores as spaces.
func (d *ArticleData) HasCategory(name string) bool {
	want := normalizeTitle(name)
	for _, cat := range d.Categories {
		if normalizeTitle(cat) == want {
			return true
		}
	}
	return false
}

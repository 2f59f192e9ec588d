package rules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/In1quity/Fountain/pkg/mediawiki"
)

// Fetcher is the narrow remote-data contract the loader needs. Implemented by
// mediawiki.Client in production and by fakes in tests.
type Fetcher interface {
	GetPage(ctx context.Context, title string) (string, error)
	GetByteLength(ctx context.Context, title string) (int64, error)
	GetCategories(ctx context.Context, title string) ([]string, error)
	GetRevisionCount(ctx context.Context, title string) (int64, error)
	GetFirstRevision(ctx context.Context, title string) (mediawiki.Revision, error)
}

// Loader fetches the article data a rule set requires. Each distinct
// requirement kind is fetched at most once, concurrently. If any fetch fails
// the whole load fails and no partial bag is returned: blocking rules never
// evaluate against incomplete data.
type Loader struct {
	fetcher Fetcher
}

// NewLoader constructs a loader over the given fetcher.
func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// Load fetches all requested requirement kinds for the titled article.
func (l *Loader) Load(ctx context.Context, title string, reqs []Requirement) (*ArticleData, error) {
	seen := map[Requirement]struct{}{}
	distinct := make([]Requirement, 0, len(reqs))
	for _, req := range reqs {
		if _, dup := seen[req]; dup {
			continue
		}
		switch req {
		case ReqPageText, ReqByteLength, ReqCategoryList, ReqRevisionCount, ReqFirstRevision:
		default:
			return nil, fmt.Errorf("unknown data requirement %q", req)
		}
		seen[req] = struct{}{}
		distinct = append(distinct, req)
	}

	data := &ArticleData{}
	g, ctx := errgroup.WithContext(ctx)
	for _, req := range distinct {
		// Each goroutine writes only its own slot of the bag.
		switch req {
		case ReqPageText:
			g.Go(func() error {
				text, err := l.fetcher.GetPage(ctx, title)
				if err != nil {
					return fmt.Errorf("loading page text: %w", err)
				}
				data.PageText = text
				return nil
			})
		case ReqByteLength:
			g.Go(func() error {
				length, err := l.fetcher.GetByteLength(ctx, title)
				if err != nil {
					return fmt.Errorf("loading byte length: %w", err)
				}
				data.ByteLength = length
				return nil
			})
		case ReqCategoryList:
			g.Go(func() error {
				categories, err := l.fetcher.GetCategories(ctx, title)
				if err != nil {
					return fmt.Errorf("loading categories: %w", err)
				}
				data.Categories = categories
				return nil
			})
		case ReqRevisionCount:
			g.Go(func() error {
				count, err := l.fetcher.GetRevisionCount(ctx, title)
				if err != nil {
					return fmt.Errorf("loading revision count: %w", err)
				}
				data.RevisionCount = count
				return nil
			})
		case ReqFirstRevision:
			g.Go(func() error {
				revision, err := l.fetcher.GetFirstRevision(ctx, title)
				if err != nil {
					return fmt.Errorf("loading first revision: %w", err)
				}
				data.FirstRevision = revision
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

package service

import (
	"context"
	"time"

	"github.com/In1quity/Fountain/internal/observability"
	"github.com/In1quity/Fountain/pkg/mediawiki"
)

// instrumentedWiki decorates a Wiki implementation with per-operation latency
// metrics.
type instrumentedWiki struct {
	next Wiki
}

// InstrumentWiki wraps the given Wiki so every remote call is timed.
func InstrumentWiki(next Wiki) Wiki {
	return &instrumentedWiki{next: next}
}

func (w *instrumentedWiki) observe(operation string, start time.Time) {
	observability.WikiRequests().WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (w *instrumentedWiki) GetPage(ctx context.Context, title string) (string, error) {
	defer w.observe("get_page", time.Now())
	return w.next.GetPage(ctx, title)
}

func (w *instrumentedWiki) GetByteLength(ctx context.Context, title string) (int64, error) {
	defer w.observe("get_byte_length", time.Now())
	return w.next.GetByteLength(ctx, title)
}

func (w *instrumentedWiki) GetCategories(ctx context.Context, title string) ([]string, error) {
	defer w.observe("get_categories", time.Now())
	return w.next.GetCategories(ctx, title)
}

func (w *instrumentedWiki) GetRevisionCount(ctx context.Context, title string) (int64, error) {
	defer w.observe("get_revision_count", time.Now())
	return w.next.GetRevisionCount(ctx, title)
}

func (w *instrumentedWiki) GetFirstRevision(ctx context.Context, title string) (mediawiki.Revision, error) {
	defer w.observe("get_first_revision", time.Now())
	return w.next.GetFirstRevision(ctx, title)
}

func (w *instrumentedWiki) EditPage(ctx context.Context, title, text, summary string) error {
	defer w.observe("edit_page", time.Now())
	return w.next.EditPage(ctx, title, text, summary)
}

// Package query turns the stored applications into one redacted listing page.
//
// The pipeline is filter, stable sort, paginate, redact. It is a pure function
// of its inputs: the same records and query always give the same result.
package query

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hirepath/internal/application/models"
	"hirepath/internal/application/redact"
)

// Engine holds the collation locale for name sorting. Collators and casers
// are not safe for concurrent use, so each Query builds its own.
type Engine struct {
	locale language.Tag
}

type Option func(*Engine)

// WithLocale sets the collation locale. An unparseable tag keeps the root
// collation order.
func WithLocale(tag string) Option {
	return func(e *Engine) {
		if t, err := language.Parse(tag); err == nil {
			e.locale = t
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{locale: language.Und}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Query runs the listing pipeline over records, which must be in insertion
// order. records is not modified.
func (e *Engine) Query(records []*models.Application, q models.ListingQuery) models.ListingResult {
	q = q.Normalize()

	matched := e.filter(records, q.Search)
	e.sort(matched, q.Sort)

	total := len(matched)
	result := models.ListingResult{
		Total:      total,
		Page:       q.Page,
		TotalPages: totalPages(total, q.Limit),
		Results:    []models.ApplicationView{},
	}

	start := (q.Page - 1) * q.Limit
	if start >= total {
		return result
	}
	end := min(start+q.Limit, total)
	for _, app := range matched[start:end] {
		result.Results = append(result.Results, redact.View(app))
	}
	return result
}

// filter keeps records whose fullName or email contains term, compared with
// Unicode case folding. The returned slice is always a fresh copy.
func (e *Engine) filter(records []*models.Application, term string) []*models.Application {
	term = strings.TrimSpace(term)
	if term == "" {
		return slices.Clone(records)
	}
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]*models.Application, 0, len(records))
	for _, app := range records {
		if strings.Contains(fold.String(app.FullName), needle) ||
			strings.Contains(fold.String(app.Email), needle) {
			out = append(out, app)
		}
	}
	return out
}

// sort orders records in place. Ties keep insertion order; unknown keys leave
// the slice untouched.
func (e *Engine) sort(records []*models.Application, key models.SortKey) {
	switch key {
	case models.SortNewest:
		slices.SortStableFunc(records, func(a, b *models.Application) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case models.SortOldest:
		slices.SortStableFunc(records, func(a, b *models.Application) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case models.SortName:
		col := collate.New(e.locale)
		slices.SortStableFunc(records, func(a, b *models.Application) int {
			return col.CompareString(a.FullName, b.FullName)
		})
	}
}

func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

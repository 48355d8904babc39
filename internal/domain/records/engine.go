package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meditrack/meditrack/pkg/pagination"
)

// Service is the slice of the backend the list screen needs.
type Service interface {
	List(ctx context.Context) ([]Prescription, error)
	ListByDate(ctx context.Context, start, end string) ([]Prescription, error)
	Delete(ctx context.Context, id int) error
	Archive(ctx context.Context, p Prescription) (*History, error)
}

// Engine drives the prescription list screen: it holds the record set as
// last fetched, applies the free-text search and date-range filters, sorts
// newest-first and pages at a fixed size of 10. The engine keeps no cache
// beyond the current screen; every Refresh replaces the whole set.
type Engine struct {
	svc   Service
	log   zerolog.Logger
	pager pagination.Pager

	prescriptions []Prescription
	search        string
	startDate     string
	endDate       string
}

func NewEngine(svc Service, logger zerolog.Logger) *Engine {
	return &Engine{svc: svc, log: logger, pager: pagination.New()}
}

// Refresh fetches the record set using the current date bounds: when both
// are set the date-filtered endpoint is used, otherwise the full list. The
// result is sorted by prescriptionDate descending and the pager resets to
// the first page.
func (e *Engine) Refresh(ctx context.Context) error {
	var (
		ps  []Prescription
		err error
	)
	if e.startDate != "" && e.endDate != "" {
		ps, err = e.svc.ListByDate(ctx, e.startDate, e.endDate)
	} else {
		ps, err = e.svc.List(ctx)
	}
	if err != nil {
		e.log.Error().Err(err).Msg("fetch prescriptions")
		return err
	}
	SortByDateDesc(ps)
	e.prescriptions = ps
	e.pager.Reset()
	return nil
}

// SetSearch updates the free-text filter. The search is applied client-side
// on top of whatever the last fetch returned; no re-fetch happens.
func (e *Engine) SetSearch(term string) {
	e.search = term
	e.pager.Reset()
}

// SetDateRange stores the bounds and re-fetches only once both are
// non-empty, mirroring the implicit debounce of the list screen. Clearing
// a bound leaves the current set in place.
func (e *Engine) SetDateRange(ctx context.Context, start, end string) error {
	e.startDate, e.endDate = start, end
	if start != "" && end != "" {
		return e.Refresh(ctx)
	}
	e.pager.Reset()
	return nil
}

// Filtered returns the records matching the case-insensitive substring
// search against patientName or diagnosis.
func (e *Engine) Filtered() []Prescription {
	if e.search == "" {
		return e.prescriptions
	}
	needle := strings.ToLower(e.search)
	out := make([]Prescription, 0, len(e.prescriptions))
	for _, p := range e.prescriptions {
		if strings.Contains(strings.ToLower(p.PatientName), needle) ||
			strings.Contains(strings.ToLower(p.Diagnosis), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Page returns the rows of the current page.
func (e *Engine) Page() []Prescription {
	filtered := e.Filtered()
	lo, hi := e.pager.Bounds(len(filtered))
	return filtered[lo:hi]
}

func (e *Engine) CurrentPage() int { return e.pager.Page }

func (e *Engine) TotalPages() int { return e.pager.TotalPages(len(e.Filtered())) }

func (e *Engine) HasNext() bool { return e.pager.HasNext(len(e.Filtered())) }

func (e *Engine) HasPrevious() bool { return e.pager.HasPrevious() }

func (e *Engine) NextPage() { e.pager.Next() }

func (e *Engine) PreviousPage() { e.pager.Previous() }

// GoToPage jumps to a page without clamping; the view layer disables
// navigation at the bounds.
func (e *Engine) GoToPage(n int) { e.pager.Page = n }

// Find returns the in-memory record with the given id.
func (e *Engine) Find(id int) (Prescription, bool) {
	for _, p := range e.prescriptions {
		if p.ID == id {
			return p, true
		}
	}
	return Prescription{}, false
}

// Delete removes the record on the server, then drops it from the
// in-memory set. On failure the set is left untouched so the row stays
// visible for a retry.
func (e *Engine) Delete(ctx context.Context, id int) error {
	if err := e.svc.Delete(ctx, id); err != nil {
		e.log.Error().Err(err).Int("id", id).Msg("delete prescription")
		return err
	}
	e.remove(id)
	return nil
}

// Archive posts the full record to the history collection and removes it
// from the active set only after the server acknowledges the write. The
// two steps are one client-visible action: a failed archive leaves the
// record in place.
func (e *Engine) Archive(ctx context.Context, id int) error {
	p, ok := e.Find(id)
	if !ok {
		return fmt.Errorf("prescription %d not in the current set", id)
	}
	if _, err := e.svc.Archive(ctx, p); err != nil {
		e.log.Error().Err(err).Int("id", id).Msg("archive prescription")
		return err
	}
	e.remove(id)
	return nil
}

func (e *Engine) remove(id int) {
	out := e.prescriptions[:0]
	for _, p := range e.prescriptions {
		if p.ID != id {
			out = append(out, p)
		}
	}
	e.prescriptions = out
}

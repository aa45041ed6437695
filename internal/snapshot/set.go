package snapshot

import (
	"sort"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

// Set is an ordered collection of inventory records grouped by snapshot date.
// A Set is immutable once built.
type Set struct {
	dates  []time.Time
	byDate map[time.Time][]domain.InventoryRecord
}

// NewSet groups records by their calendar date. Record order inside a date is
// the input order.
func NewSet(records []domain.InventoryRecord) *Set {
	s := &Set{byDate: make(map[time.Time][]domain.InventoryRecord)}
	for _, r := range records {
		day := domain.CalendarDay(r.Date)
		r.Date = day
		if _, ok := s.byDate[day]; !ok {
			s.dates = append(s.dates, day)
		}
		s.byDate[day] = append(s.byDate[day], r)
	}
	sort.Slice(s.dates, func(i, j int) bool { return s.dates[i].Before(s.dates[j]) })
	return s
}

// Empty reports whether the set holds no records.
func (s *Set) Empty() bool {
	return s == nil || len(s.dates) == 0
}

// Dates returns the snapshot dates, oldest first.
func (s *Set) Dates() []time.Time {
	if s == nil {
		return nil
	}
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Has reports whether date is one of the snapshot dates.
func (s *Set) Has(date time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.byDate[domain.CalendarDay(date)]
	return ok
}

// CurrentDate returns the most recent snapshot date.
func (s *Set) CurrentDate() (time.Time, bool) {
	if s.Empty() {
		return time.Time{}, false
	}
	return s.dates[len(s.dates)-1], true
}

// Current returns the records of the most recent snapshot.
func (s *Set) Current() []domain.InventoryRecord {
	date, ok := s.CurrentDate()
	if !ok {
		return nil
	}
	return s.byDate[date]
}

// On returns the records observed on date.
func (s *Set) On(date time.Time) []domain.InventoryRecord {
	if s == nil {
		return nil
	}
	return s.byDate[domain.CalendarDay(date)]
}

// All returns every record, grouped by date oldest first.
func (s *Set) All() []domain.InventoryRecord {
	if s == nil {
		return nil
	}
	var out []domain.InventoryRecord
	for _, d := range s.dates {
		out = append(out, s.byDate[d]...)
	}
	return out
}

// Len returns the total number of records.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, rs := range s.byDate {
		n += len(rs)
	}
	return n
}

// DateStrings returns the snapshot dates formatted with domain.DateLayout.
func (s *Set) DateStrings() []string {
	dates := s.Dates()
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(domain.DateLayout)
	}
	return out
}

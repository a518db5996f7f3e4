// Package allocator decides which barber (and, when the customer did not pick
// one, which shop) takes an appointment. It is pure: callers load the
// candidates and persist the outcome.
package allocator

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

type Strategy string

const (
	// StrategyPreferredNow: requested barber was free and got claimed.
	StrategyPreferredNow Strategy = "preferred_now"
	// StrategyPreferredQueued: requested barber was busy, queued after their last job.
	StrategyPreferredQueued Strategy = "preferred_queued"
	StrategyImmediate       Strategy = "immediate"
	StrategyEarliestFree    Strategy = "earliest_free"
)

type Candidate struct {
	BarberID   uuid.UUID
	ShopID     uuid.UUID
	DistanceKm float64
	Available  bool

	// LatestEnd is the expected end of the barber's latest accepted or
	// in-progress appointment on the requested day, nil when there is none.
	LatestEnd *time.Time
}

type Choice struct {
	Candidate
	Start    time.Time
	Strategy Strategy
}

// FreeAt is when the candidate can start new work. A latest end already in
// the past counts as now.
func (c Candidate) FreeAt(now time.Time) time.Time {
	if c.LatestEnd == nil || c.LatestEnd.Before(now) {
		return now
	}
	return *c.LatestEnd
}

// Sort orders candidates nearest shop first, then by shop id and barber id,
// so every selection below has a fixed tie-break.
func Sort(cands []Candidate) {
	slices.SortStableFunc(cands, func(a, b Candidate) int {
		if c := cmp.Compare(a.DistanceKm, b.DistanceKm); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ShopID.String(), b.ShopID.String()); c != 0 {
			return c
		}
		return cmp.Compare(a.BarberID.String(), b.BarberID.String())
	})
}

// Immediate returns the available candidates in selection order. Callers try
// to claim them one by one; the first successful claim wins.
func Immediate(cands []Candidate) []Candidate {
	sorted := slices.Clone(cands)
	Sort(sorted)

	out := make([]Candidate, 0, len(sorted))
	for _, c := range sorted {
		if c.Available {
			out = append(out, c)
		}
	}
	return out
}

// EarliestFree picks the candidate with the smallest free-at time. Ties go to
// the first candidate in Sort order.
func EarliestFree(cands []Candidate, now time.Time) (Choice, bool) {
	if len(cands) == 0 {
		return Choice{}, false
	}

	sorted := slices.Clone(cands)
	Sort(sorted)

	best := sorted[0]
	bestAt := best.FreeAt(now)
	for _, c := range sorted[1:] {
		if at := c.FreeAt(now); at.Before(bestAt) {
			best, bestAt = c, at
		}
	}

	return Choice{Candidate: best, Start: bestAt, Strategy: StrategyEarliestFree}, true
}

// Select applies the two-phase rule without claiming anything: the first
// available candidate starts now, otherwise the earliest free one.
func Select(cands []Candidate, now time.Time) (Choice, bool) {
	if imm := Immediate(cands); len(imm) > 0 {
		return Choice{Candidate: imm[0], Start: now, Strategy: StrategyImmediate}, true
	}
	return EarliestFree(cands, now)
}

// ExpectedEnd is start plus the booked duration and any extra minutes.
func ExpectedEnd(start time.Time, durationMin, extraMin int) time.Time {
	return start.Add(time.Duration(durationMin+extraMin) * time.Minute)
}

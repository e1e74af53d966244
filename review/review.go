// Package review schedules repeat reviews of a facet once a learner has
// met it.
//
// Each facet keeps an estimated memory lifetime in hours. A correct answer
// stretches the lifetime by the time since the facet was last seen, a wrong
// answer cuts it to a third, and the next review moves out by the new
// lifetime.
package review

import (
	"errors"
	"time"
)

// Stages a facet moves through.
const (
	StageNew      = "new"
	StageLearning = "learning"
)

// shortLifetimeHours is the lifetime below which a correct answer restarts
// growth from the observed gap instead of adding to it.
const shortLifetimeHours = 0.35

var (
	// ErrUninitialized is returned when a facet has never been scheduled.
	ErrUninitialized = errors.New("review: facet is not initialized")
	// ErrInvalidScore is returned for fuzzy scores outside [0, 1].
	ErrInvalidScore = errors.New("review: score must be within [0, 1]")
)

// Facet is the review state of one facet.
type Facet struct {
	Name          string    `json:"name"`
	ReviewAt      time.Time `json:"review_at"`
	LastSeen      time.Time `json:"last_seen"`
	LifetimeHours float64   `json:"lifetime_hours"`
	Stage         string    `json:"stage"`
}

// NewFacet returns a facet due now with a one hour lifetime.
func NewFacet(name string, now time.Time) Facet {
	return Facet{
		Name:          name,
		ReviewAt:      now,
		LastSeen:      now,
		LifetimeHours: 1,
		Stage:         StageNew,
	}
}

func (f *Facet) initialized() bool {
	return !f.ReviewAt.IsZero() && !f.LastSeen.IsZero() && f.LifetimeHours >= 0
}

// Due reports whether the facet should be reviewed at now.
func (f *Facet) Due(now time.Time) bool {
	return !now.Before(f.ReviewAt)
}

// UpdateBinary applies a right or wrong answer given at now.
func (f *Facet) UpdateBinary(correct bool, now time.Time) error {
	if !f.initialized() {
		return ErrUninitialized
	}

	seen := hoursSince(f.LastSeen, now)
	switch {
	case !correct:
		f.LifetimeHours /= 3
	case seen > f.LifetimeHours:
		f.LifetimeHours = 3 * seen
	case f.LifetimeHours > shortLifetimeHours:
		f.LifetimeHours += seen
	default:
		f.LifetimeHours = 3 * seen
	}

	f.ReviewAt = f.ReviewAt.Add(hours(hoursSince(f.ReviewAt, now) + f.LifetimeHours))
	f.LastSeen = now
	if f.Stage == StageNew || f.Stage == "" {
		f.Stage = StageLearning
	}
	return nil
}

// UpdateFuzzy applies a partial answer. Score 1 behaves like a correct
// answer and 0 like a wrong one; values in between blend both outcomes.
func (f *Facet) UpdateFuzzy(score float64, now time.Time) error {
	if !(score >= 0 && score <= 1) {
		return ErrInvalidScore
	}

	right, wrong := *f, *f
	if err := right.UpdateBinary(true, now); err != nil {
		return err
	}
	if err := wrong.UpdateBinary(false, now); err != nil {
		return err
	}

	f.LifetimeHours = right.LifetimeHours*score + wrong.LifetimeHours*(1-score)
	gap := right.ReviewAt.Sub(wrong.ReviewAt)
	f.ReviewAt = wrong.ReviewAt.Add(time.Duration(float64(gap) * score))
	f.LastSeen = now
	f.Stage = right.Stage
	return nil
}

// hoursSince returns the hours from t to now, never negative.
func hoursSince(t, now time.Time) float64 {
	return max(now.Sub(t).Hours(), 0)
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

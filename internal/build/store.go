// Package build holds the current slot assignment of a build together with
// the values derived from it. Every mutation recomputes the snapshot, so
// derived values never drift from the slots.
package build

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/rigplanner/internal/compat"
	"github.com/HerbHall/rigplanner/internal/power"
	"github.com/HerbHall/rigplanner/pkg/catalog"
	"github.com/HerbHall/rigplanner/pkg/models"
)

// ErrSlotMismatch is returned when a component is placed in a slot of a
// different kind.
var ErrSlotMismatch = errors.New("component type does not match slot")

// Clock is a source of the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Snapshot is the derived state of a build at one point in time.
type Snapshot struct {
	Slots          models.BuildSlotMap `json:"slots"`
	TotalPrice     float64             `json:"total_price"`
	Watts          float64             `json:"watts"`
	RecommendedPSU float64             `json:"recommended_psu"`
	Headroom       float64             `json:"headroom"`
	Warnings       []string            `json:"warnings"`
	Checks         []compat.Result     `json:"checks"`
	Power          power.Report        `json:"power"`
	Fingerprint    string              `json:"fingerprint"`
}

// Compute derives a snapshot from slots. It is pure: the same slots always
// produce the same snapshot.
func Compute(slots models.BuildSlotMap) Snapshot {
	s := Snapshot{Slots: slots.Clone()}
	for _, kind := range models.SlotKinds() {
		if c := s.Slots.Get(kind); c != nil {
			s.TotalPrice += c.Price
		}
	}
	s.Power = power.NewReport(s.Slots)
	s.Watts = s.Power.Total
	s.RecommendedPSU = s.Power.RecommendedPSU
	s.Headroom = s.Power.Headroom
	s.Checks = compat.Evaluate(s.Slots, s.Watts)
	s.Warnings = []string{}
	for _, r := range s.Checks {
		if r.Status == compat.StatusWarning {
			s.Warnings = append(s.Warnings, r.Detail)
		}
	}
	s.Fingerprint = Fingerprint(s.Slots)
	return s
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp saved builds.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator overrides the ID generator for saved builds.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Store is the mutable build of one session. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	slots models.BuildSlotMap
	snap  Snapshot
	saved []models.SavedBuildSummary

	clock Clock
	newID func() string
}

// NewStore returns an empty build.
func NewStore(opts ...Option) *Store {
	s := &Store{
		slots: models.BuildSlotMap{},
		clock: systemClock{},
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap = Compute(s.slots)
	return s
}

// Snapshot returns the current derived state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.snap)
}

// Select places c in slot kind, replacing any previous occupant.
func (s *Store) Select(kind models.SlotKind, c models.Component) (Snapshot, error) {
	if !kind.IsValid() {
		return Snapshot{}, fmt.Errorf("%w: %q", models.ErrUnknownSlot, kind)
	}
	if c.Type != kind {
		return Snapshot{}, fmt.Errorf("%w: %s is a %s, not a %s", ErrSlotMismatch, c.ID, c.Type, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[kind] = &c
	return s.recompute(), nil
}

// Remove empties slot kind. Removing an empty slot is not an error.
func (s *Store) Remove(kind models.SlotKind) (Snapshot, error) {
	if !kind.IsValid() {
		return Snapshot{}, fmt.Errorf("%w: %q", models.ErrUnknownSlot, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, kind)
	return s.recompute(), nil
}

// Clear empties every slot.
func (s *Store) Clear() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = models.BuildSlotMap{}
	return s.recompute()
}

// ApplyPrebuilt replaces the build with the parts of p, resolved through
// acc. Nothing changes if any part fails to resolve.
func (s *Store) ApplyPrebuilt(ctx context.Context, acc catalog.Accessor, p models.Prebuilt) (Snapshot, error) {
	next := models.BuildSlotMap{}
	for _, kind := range models.SlotKinds() {
		id, ok := p.Parts[kind]
		if !ok || id == "" {
			continue
		}
		c, err := catalog.FindByID(ctx, acc, id)
		if err != nil {
			return Snapshot{}, fmt.Errorf("prebuilt %s: %w", p.Slug, err)
		}
		if c.Type != kind {
			return Snapshot{}, fmt.Errorf("prebuilt %s: %w: %s is a %s, not a %s", p.Slug, ErrSlotMismatch, c.ID, c.Type, kind)
		}
		next[kind] = &c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = next
	return s.recompute(), nil
}

// Save records a summary of the current build in the session list. A blank
// name is replaced by a numbered default.
func (s *Store) Save(name string) models.SavedBuildSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Build %d", len(s.saved)+1)
	}
	summary := models.SavedBuildSummary{
		ID:      s.newID(),
		Name:    name,
		Total:   s.snap.TotalPrice,
		Watts:   s.snap.Watts,
		SavedAt: s.clock.Now(),
	}
	s.saved = append(s.saved, summary)
	return summary
}

// Saved returns the saved builds, oldest first.
func (s *Store) Saved() []models.SavedBuildSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SavedBuildSummary, len(s.saved))
	copy(out, s.saved)
	return out
}

// recompute must be called with mu held.
func (s *Store) recompute() Snapshot {
	s.snap = Compute(s.slots)
	return copySnapshot(s.snap)
}

func copySnapshot(in Snapshot) Snapshot {
	out := in
	out.Slots = in.Slots.Clone()
	out.Warnings = append([]string{}, in.Warnings...)
	out.Checks = append([]compat.Result(nil), in.Checks...)
	out.Power.Lines = append([]power.Line(nil), in.Power.Lines...)
	return out
}

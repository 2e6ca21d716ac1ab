/*
Package session holds the per-browser application state: the saved profile,
the current meal and workout plans, and the append-only progress log. Nothing
here is durable; the store is an in-memory LRU keyed by an opaque session ID,
and every entry disappears on restart or eviction.
*/
package session

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nameeraazam/health-wellness-project/internal/planner"
)

// ProgressEntry is one line of the progress log.
type ProgressEntry struct {
	Date      string `json:"date"`
	Update    string `json:"update"`
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
}

// State is the mutable session container. The core generators never touch it;
// handlers read the profile out and write plans back in. A mutex guards
// access because the HTTP server serves a session's requests on arbitrary
// goroutines, even though each browser effectively serializes its own calls.
type State struct {
	mu          sync.RWMutex
	profile     *planner.Profile
	mealPlan    []planner.MealDay
	workoutPlan []planner.WorkoutDay
	progress    []ProgressEntry
}

// SetProfile stores a validated profile, replacing any previous one.
func (s *State) SetProfile(p planner.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
}

// Profile returns a copy of the stored profile, or false if none was saved.
func (s *State) Profile() (planner.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return planner.Profile{}, false
	}
	return *s.profile, true
}

// SetMealPlan replaces the stored meal plan wholesale. Old and new entries
// are never merged.
func (s *State) SetMealPlan(plan []planner.MealDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mealPlan = plan
}

// MealPlan returns the stored meal plan, or nil if none was generated yet.
func (s *State) MealPlan() []planner.MealDay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mealPlan
}

// SetWorkoutPlan replaces the stored workout plan wholesale.
func (s *State) SetWorkoutPlan(plan []planner.WorkoutDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workoutPlan = plan
}

// WorkoutPlan returns the stored workout plan, or nil if none was generated.
func (s *State) WorkoutPlan() []planner.WorkoutDay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workoutPlan
}

// AddProgress appends one progress entry dated today. The update text must be
// non-empty; that is the only validation the log applies.
func (s *State) AddProgress(update string) (ProgressEntry, error) {
	if update == "" {
		return ProgressEntry{}, fmt.Errorf("progress update must not be empty")
	}

	entry := ProgressEntry{
		Date:      time.Now().Format("2006-01-02"),
		Update:    update,
		Category:  "general",
		Sentiment: "positive",
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, entry)
	return entry, nil
}

// Progress returns a copy of the progress log in insertion order.
func (s *State) Progress() []ProgressEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ProgressEntry, len(s.progress))
	copy(out, s.progress)
	return out
}

// Store maps session IDs to their State. Capacity is bounded with an LRU so
// abandoned sessions cannot grow memory without limit.
type Store struct {
	cache *lru.Cache[string, *State]
}

// NewStore creates a Store holding at most maxSessions session states.
func NewStore(maxSessions int) (*Store, error) {
	cache, err := lru.New[string, *State](maxSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// GetOrCreate returns the State for the given session ID, creating a fresh
// one on first sight (or after eviction, which looks the same to the user:
// an empty session).
func (s *Store) GetOrCreate(sessionID string) *State {
	if state, ok := s.cache.Get(sessionID); ok {
		return state
	}
	state := &State{}
	s.cache.Add(sessionID, state)
	return state
}

// Len reports how many sessions are currently held. Used by the health
// endpoint.
func (s *Store) Len() int {
	return s.cache.Len()
}

package service

import (
	"alcyxob/workout-roulette/internal/domain"
	"math/rand"
	"sync"
)

// WorkoutSelector picks workouts from an in-memory candidate list. Hidden
// workouts are always excluded; visibility is evaluated against the list as
// given, so callers see hides take effect immediately.
//
// The random source is a constructor dependency, never a package global.
// Two selectors built from identically seeded sources pick the same elements
// from the same ordered input, which the tests rely on. *rand.Rand is not
// goroutine-safe, so access to it is serialized; one selector can serve
// concurrent request handlers.
type WorkoutSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewWorkoutSelector creates a selector using the given random source.
func NewWorkoutSelector(rng *rand.Rand) *WorkoutSelector {
	return &WorkoutSelector{rng: rng}
}

// SelectRandom picks one visible workout uniformly at random.
// Returns nil for empty input or when every candidate is hidden.
func (s *WorkoutSelector) SelectRandom(candidates []domain.Workout) *domain.Workout {
	visible := visibleOnly(candidates)
	if len(visible) == 0 {
		return nil
	}
	s.mu.Lock()
	i := s.rng.Intn(len(visible))
	s.mu.Unlock()
	picked := visible[i]
	return &picked
}

// SelectRandomByDifficulty picks one visible workout of the given difficulty
// uniformly at random. Returns nil when no candidate matches.
func (s *WorkoutSelector) SelectRandomByDifficulty(candidates []domain.Workout, difficulty string) *domain.Workout {
	return s.SelectRandom(s.FilterByDifficulty(candidates, difficulty))
}

// FilterByDuration keeps visible workouts with min <= DurationMinutes <= max.
// Nil or empty input yields an empty slice.
func (s *WorkoutSelector) FilterByDuration(candidates []domain.Workout, min, max int) []domain.Workout {
	filtered := make([]domain.Workout, 0, len(candidates))
	for _, w := range candidates {
		if w.IsHidden {
			continue
		}
		if w.DurationMinutes >= min && w.DurationMinutes <= max {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// FilterByDifficulty keeps visible workouts with the given difficulty.
// Nil or empty input yields an empty slice.
func (s *WorkoutSelector) FilterByDifficulty(candidates []domain.Workout, difficulty string) []domain.Workout {
	filtered := make([]domain.Workout, 0, len(candidates))
	for _, w := range candidates {
		if w.IsHidden {
			continue
		}
		if w.Difficulty == difficulty {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

func visibleOnly(candidates []domain.Workout) []domain.Workout {
	visible := make([]domain.Workout, 0, len(candidates))
	for _, w := range candidates {
		if !w.IsHidden {
			visible = append(visible, w)
		}
	}
	return visible
}

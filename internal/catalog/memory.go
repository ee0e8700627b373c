// Package catalog provides exercise catalog implementations.
package catalog

import (
	"strings"
	"sync"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

// Compile-time interface check.
var _ domain.ExerciseCatalog = (*MemoryCatalog)(nil)

// MemoryCatalog holds the exercise library in memory. Safe for concurrent
// reads. Every accessor returns copies; the seeded tables are never handed
// out directly.
type MemoryCatalog struct {
	mu     sync.RWMutex
	order  []domain.MuscleGroup
	groups map[domain.MuscleGroup][]domain.Exercise
	labels map[domain.MuscleGroup]string
	byID   map[string]domain.Exercise
	log    *logger.Logger
}

// NewMemoryCatalog creates a catalog preloaded with the built-in exercise
// library.
func NewMemoryCatalog(log *logger.Logger) *MemoryCatalog {
	c := &MemoryCatalog{
		groups: make(map[domain.MuscleGroup][]domain.Exercise),
		labels: make(map[domain.MuscleGroup]string),
		byID:   make(map[string]domain.Exercise),
		log:    log,
	}
	c.seed()
	return c
}

// ExercisesByGroup returns the exercises of one muscle group as a fresh
// slice. Unknown groups are an error, not an empty result.
func (c *MemoryCatalog) ExercisesByGroup(group domain.MuscleGroup) ([]domain.Exercise, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list, ok := c.groups[group]
	if !ok {
		c.log.Debug("unknown muscle group requested: %s", group)
		return nil, domain.ErrUnknownMuscleGroup
	}

	out := make([]domain.Exercise, len(list))
	copy(out, list)
	return out, nil
}

// MuscleGroups returns all muscle groups in catalog order.
func (c *MemoryCatalog) MuscleGroups() []domain.MuscleGroup {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.MuscleGroup, len(c.order))
	copy(out, c.order)
	return out
}

// ExerciseByID returns the exercise with the given id, if it exists.
func (c *MemoryCatalog) ExerciseByID(id string) (domain.Exercise, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ex, ok := c.byID[id]
	return ex, ok
}

// Label returns the human-readable name of a muscle group.
func (c *MemoryCatalog) Label(group domain.MuscleGroup) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if label, ok := c.labels[group]; ok {
		return label
	}
	return string(group)
}

// Size returns the total number of exercises in the catalog.
func (c *MemoryCatalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Search returns exercises whose id or name contains the query string.
func (c *MemoryCatalog) Search(query string) []domain.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	c.log.Debug("searching exercises for: %s", q)

	var out []domain.Exercise
	for _, group := range c.order {
		for _, ex := range c.groups[group] {
			if strings.Contains(strings.ToLower(ex.Name), q) ||
				strings.Contains(strings.ToLower(ex.ID), q) {
				out = append(out, ex)
			}
		}
	}
	return out
}

// seed populates the catalog with the built-in exercise tables.
func (c *MemoryCatalog) seed() {
	type bucket struct {
		group     domain.MuscleGroup
		label     string
		exercises []domain.Exercise
	}

	buckets := []bucket{
		{domain.GroupChest, "Chest", c.chestExercises()},
		{domain.GroupBack, "Back", c.backExercises()},
		{domain.GroupLegs, "Legs", c.legExercises()},
		{domain.GroupShoulders, "Shoulders", c.shoulderExercises()},
		{domain.GroupArms, "Arms", c.armExercises()},
		{domain.GroupCore, "Core", c.coreExercises()},
	}

	for _, b := range buckets {
		c.order = append(c.order, b.group)
		c.labels[b.group] = b.label
		for i := range b.exercises {
			b.exercises[i].MuscleGroup = b.group
			c.groups[b.group] = append(c.groups[b.group], b.exercises[i])
			c.byID[b.exercises[i].ID] = b.exercises[i]
		}
	}

	c.log.Debug("seeded %d exercises across %d muscle groups", len(c.byID), len(c.order))
}

func (c *MemoryCatalog) chestExercises() []domain.Exercise {
	return []domain.Exercise{
		{ID: "push-up", Name: "Push Up"},
		{ID: "bench-press", Name: "Bench Press"},
		{ID: "incline-press", Name: "Incline Press"},
		{ID: "chest-fly", Name: "Chest Fly"},
		{ID: "chest-dip", Name: "Chest Dip"},
		{ID: "decline-press", Name: "Decline Press"},
		{ID: "cable-crossover", Name: "Cable Crossover"},
		{ID: "diamond-push-up", Name: "Diamond Push Up"},
	}
}

func (c *MemoryCatalog) backExercises() []domain.Exercise {
	return []domain.Exercise{
		{ID: "pull-up", Name: "Pull Up"},
		{ID: "bent-over-row", Name: "Bent Over Row"},
		{ID: "lat-pulldown", Name: "Lat Pulldown"},
		{ID: "deadlift", Name: "Deadlift"},
		{ID: "seated-row", Name: "Seated Row"},
		{ID: "t-bar-row", Name: "T-Bar Row"},
		{ID: "face-pull", Name: "Face Pull"},
		{ID: "superman-hold", Name: "Superman Hold"},
	}
}

func (c *MemoryCatalog) legExercises() []domain.Exercise {
	return []domain.Exercise{
		{ID: "squat", Name: "Squat"},
		{ID: "lunge", Name: "Lunge"},
		{ID: "leg-press", Name: "Leg Press"},
		{ID: "romanian-deadlift", Name: "Romanian Deadlift"},
		{ID: "calf-raise", Name: "Calf Raise"},
		{ID: "bulgarian-split-squat", Name: "Bulgarian Split Squat"},
		{ID: "wall-sit", Name: "Wall Sit"},
		{ID: "step-up", Name: "Step Up"},
	}
}

func (c *MemoryCatalog) shoulderExercises() []domain.Exercise {
	return []domain.Exercise{
		{ID: "overhead-press", Name: "Overhead Press"},
		{ID: "lateral-raise", Name: "Lateral Raise"},
		{ID: "front-raise", Name: "Front Raise"},
		{ID: "arnold-press", Name: "Arnold Press"},
		{ID: "upright-row", Name: "Upright Row"},
		{ID: "reverse-fly", Name: "Reverse Fly"},
		{ID: "shrug", Name: "Shrug"},
		{ID: "pike-push-up", Name: "Pike Push Up"},
	}
}

func (c *MemoryCatalog) armExercises() []domain.Exercise {
	return []domain.Exercise{
		{ID: "bicep-curl", Name: "Bicep Curl"},
		{ID: "tricep-extension", Name: "Tricep Extension"},
		{ID: "hammer-curl", Name: "Hammer Curl"},
		{ID: "tricep-dip", Name: "Tricep Dip"},
		{ID: "preacher-curl", Name: "Preacher Curl"},
		{ID: "skull-crusher", Name: "Skull Crusher"},
		{ID: "concentration-curl", Name: "Concentration Curl"},
		{ID: "close-grip-press", Name: "Close Grip Press"},
	}
}

func (c *MemoryCatalog) coreExercises() []domain.Exercise {
	return []domain.Exercise{
		{ID: "plank", Name: "Plank"},
		{ID: "crunch", Name: "Crunch"},
		{ID: "russian-twist", Name: "Russian Twist"},
		{ID: "leg-raise", Name: "Leg Raise"},
		{ID: "mountain-climber", Name: "Mountain Climber"},
		{ID: "bicycle-crunch", Name: "Bicycle Crunch"},
		{ID: "side-plank", Name: "Side Plank"},
		{ID: "dead-bug", Name: "Dead Bug"},
	}
}

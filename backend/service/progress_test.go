package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatchat/onboarding/backend/model"
)

func TestComputeStepStatesSingleActive(t *testing.T) {
	defs := model.OnboardingSteps()

	for current := 1; current <= len(defs); current++ {
		steps := ComputeStepStates(defs, current, nil)
		require.Len(t, steps, len(defs))

		active := 0
		for _, s := range steps {
			switch {
			case s.ID < current:
				assert.Equal(t, model.StepCompleted, s.Status, "step %d with current %d", s.ID, current)
			case s.ID == current:
				assert.Equal(t, model.StepActive, s.Status)
				active++
			default:
				assert.Equal(t, model.StepLocked, s.Status)
			}
		}
		assert.Equal(t, 1, active, "current %d", current)
	}
}

func TestComputeStepStatesOverrides(t *testing.T) {
	defs := model.OnboardingSteps()

	steps := ComputeStepStates(defs, 2, map[int]model.StepStatus{
		1: model.StepPending, // before current, ignored
		2: model.StepPending, // current, ignored
		3: model.StepPending,
		4: model.StepCompleted, // not a pending override, ignored
	})

	assert.Equal(t, model.StepCompleted, steps[0].Status)
	assert.Equal(t, model.StepActive, steps[1].Status)
	assert.Equal(t, model.StepPending, steps[2].Status)
	assert.Equal(t, model.StepLocked, steps[3].Status)
}

func TestComputeStepStatesOutOfRange(t *testing.T) {
	defs := model.OnboardingSteps()

	steps := ComputeStepStates(defs, 0, nil)
	for _, s := range steps {
		assert.Equal(t, model.StepLocked, s.Status)
	}

	steps = ComputeStepStates(defs, 5, nil)
	for _, s := range steps {
		assert.Equal(t, model.StepCompleted, s.Status)
	}
}

func TestStepInRange(t *testing.T) {
	defs := model.OnboardingSteps()
	for id := 1; id <= len(defs); id++ {
		assert.True(t, StepInRange(defs, id), "step %d", id)
	}
	for _, id := range []int{-3, 0, len(defs) + 1, 9} {
		assert.False(t, StepInRange(defs, id), "step %d", id)
	}
}

func TestNavigable(t *testing.T) {
	steps := ComputeStepStates(model.OnboardingSteps(), 2, map[int]model.StepStatus{3: model.StepPending})

	assert.True(t, Navigable(steps, 1))
	assert.True(t, Navigable(steps, 2))
	assert.True(t, Navigable(steps, 3))
	assert.False(t, Navigable(steps, 4))
	assert.False(t, Navigable(steps, 99))
}

func TestProgressNextPath(t *testing.T) {
	p := NewProgress(model.OnboardingSteps(), 2, nil)
	assert.Equal(t, 50, p.Percent)
	assert.Equal(t, 4, p.Total)

	path, ok := p.NextPath()
	assert.Equal(t, "/contracts", path)
	assert.False(t, ok)

	p = NewProgress(model.OnboardingSteps(), 2, map[int]model.StepStatus{3: model.StepPending})
	path, ok = p.NextPath()
	assert.Equal(t, "/contracts", path)
	assert.True(t, ok)

	p = NewProgress(model.OnboardingSteps(), 4, nil)
	_, ok = p.NextPath()
	assert.False(t, ok)
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okr-dashboard/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestCalculateWeightedProgress(t *testing.T) {
	initiatives := []models.Initiative{
		{Progress: 100, WeightFactor: 1.0},
		{Progress: 0, WeightFactor: 3.0},
	}
	assert.Equal(t, 25, CalculateWeightedProgress(initiatives))

	assert.Equal(t, 0, CalculateWeightedProgress(nil))
	assert.Equal(t, 0, CalculateWeightedProgress([]models.Initiative{{Progress: 80, WeightFactor: 0}}))

	equalWeights := []models.Initiative{
		{Progress: 40, WeightFactor: 1.0},
		{Progress: 60, WeightFactor: 1.0},
	}
	assert.Equal(t, 50, CalculateWeightedProgress(equalWeights))
}

func TestCalculateProgressByMethodManual(t *testing.T) {
	initiative := models.Initiative{ProgressMethod: models.ProgressMethodManual, Progress: 42}
	assert.Equal(t, 42, CalculateProgressByMethod(initiative, nil))

	// Unknown methods fall back to manual.
	initiative.ProgressMethod = "something_else"
	assert.Equal(t, 42, CalculateProgressByMethod(initiative, nil))
}

func TestCalculateProgressByMethodSubtaskBased(t *testing.T) {
	initiative := models.Initiative{ProgressMethod: models.ProgressMethodSubtaskBased, Progress: 99}

	activities := []models.Activity{
		{IsCompleted: true},
		{IsCompleted: true},
		{IsCompleted: false},
		{IsCompleted: false},
	}
	assert.Equal(t, 50, CalculateProgressByMethod(initiative, activities))

	// No activities means no measurable progress, regardless of the
	// manual value.
	assert.Equal(t, 0, CalculateProgressByMethod(initiative, nil))
}

func TestCalculateProgressByMethodHybrid(t *testing.T) {
	initiative := models.Initiative{ProgressMethod: models.ProgressMethodHybrid, Progress: 20}

	activities := []models.Activity{
		{IsCompleted: true, WeightPercentage: floatPtr(50)},
		{IsCompleted: false, WeightPercentage: floatPtr(50)},
	}
	// 0.7*50 + 0.3*20 = 41
	assert.Equal(t, 41, CalculateProgressByMethod(initiative, activities))

	// Hybrid with no activities degrades to the manual value.
	assert.Equal(t, 20, CalculateProgressByMethod(initiative, nil))
}

func TestWeightedSubtaskProgressFallsBackToCountRatio(t *testing.T) {
	activities := []models.Activity{
		{IsCompleted: true},
		{IsCompleted: false},
		{IsCompleted: false},
	}
	assert.Equal(t, 33, weightedSubtaskProgress(activities))

	weighted := []models.Activity{
		{IsCompleted: true, WeightPercentage: floatPtr(80)},
		{IsCompleted: false, WeightPercentage: floatPtr(20)},
	}
	assert.Equal(t, 80, weightedSubtaskProgress(weighted))
}

func TestCalculateEfficiencyRatio(t *testing.T) {
	assert.Equal(t, 1.25, CalculateEfficiencyRatio(100, 80))
	assert.Equal(t, 0.67, CalculateEfficiencyRatio(100, 150))
	assert.Equal(t, 1.0, CalculateEfficiencyRatio(0, 80))
	assert.Equal(t, 1.0, CalculateEfficiencyRatio(100, 0))
}

func TestCalculateBudgetUtilization(t *testing.T) {
	assert.Equal(t, 25.0, CalculateBudgetUtilization(1000, 250))
	assert.Equal(t, 133.33, CalculateBudgetUtilization(300, 400))
	assert.Equal(t, 0.0, CalculateBudgetUtilization(0, 400))
	assert.Equal(t, 0.0, CalculateBudgetUtilization(-10, 400))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -5)
	future := now.AddDate(0, 0, 5)

	assert.True(t, IsOverdue(models.Initiative{TargetDate: &past, Status: models.StatusInProgress}, now))
	assert.False(t, IsOverdue(models.Initiative{TargetDate: &past, Status: models.StatusCompleted}, now))
	assert.False(t, IsOverdue(models.Initiative{TargetDate: &future, Status: models.StatusInProgress}, now))
	assert.False(t, IsOverdue(models.Initiative{Status: models.StatusInProgress}, now))
}

func TestCriticalStrategicInitiatives(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	soon := now.AddDate(0, 0, 10)
	far := now.AddDate(0, 0, 60)
	past := now.AddDate(0, 0, -1)

	critical := models.Initiative{
		Title: "at risk", IsStrategic: true, WeightFactor: 2.5, Progress: 30, TargetDate: &soon,
	}
	initiatives := []models.Initiative{
		critical,
		{IsStrategic: false, WeightFactor: 2.5, Progress: 30, TargetDate: &soon},
		{IsStrategic: true, WeightFactor: 2.0, Progress: 30, TargetDate: &soon},  // weight not above threshold
		{IsStrategic: true, WeightFactor: 2.5, Progress: 50, TargetDate: &soon}, // progress not behind
		{IsStrategic: true, WeightFactor: 2.5, Progress: 30, TargetDate: &far},  // outside the window
		{IsStrategic: true, WeightFactor: 2.5, Progress: 30, TargetDate: &past}, // already overdue
		{IsStrategic: true, WeightFactor: 2.5, Progress: 30},                    // no target date
	}

	result := CriticalStrategicInitiatives(initiatives, now)
	require.Len(t, result, 1)
	assert.Equal(t, "at risk", result[0].Title)
}

func TestValidateKPIData(t *testing.T) {
	clean := models.Initiative{
		ProgressMethod: models.ProgressMethodManual,
		WeightFactor:   1.0,
	}
	assert.Empty(t, ValidateKPIData(clean, nil))

	issues := ValidateKPIData(models.Initiative{
		ProgressMethod: models.ProgressMethodSubtaskBased,
		WeightFactor:   5.0,
	}, nil)
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0], "no activities")
	assert.Contains(t, issues[1], "outside the expected range")

	issues = ValidateKPIData(models.Initiative{
		ProgressMethod: models.ProgressMethodManual,
		WeightFactor:   0.5,
		IsStrategic:    true,
	}, nil)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "below 1.0")

	issues = ValidateKPIData(models.Initiative{
		ProgressMethod: models.ProgressMethodManual,
		WeightFactor:   1.0,
		EstimatedHours: floatPtr(10),
		ActualHours:    25,
	}, nil)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "twice the estimate")
}

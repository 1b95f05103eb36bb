package service

import (
	"fmt"
	"math"
	"time"

	"okr-dashboard/internal/models"
)

// Hybrid progress blends subtask completion with the manually reported
// percentage at a fixed 70/30 ratio.
const (
	hybridSubtaskWeight = 0.7
	hybridManualWeight  = 0.3
)

// criticalWindow is how far ahead the critical-initiative heuristic looks.
const criticalWindow = 30 * 24 * time.Hour

// CalculateWeightedProgress returns the weight-factor-weighted average
// progress across initiatives, rounded to the nearest integer. Returns 0
// for an empty list or when the total weight is zero.
func CalculateWeightedProgress(initiatives []models.Initiative) int {
	var weightedSum, totalWeight float64
	for _, initiative := range initiatives {
		weightedSum += float64(initiative.Progress) * initiative.WeightFactor
		totalWeight += initiative.WeightFactor
	}
	if totalWeight == 0 {
		return 0
	}
	return int(math.Round(weightedSum / totalWeight))
}

// CalculateProgressByMethod computes an initiative's progress according to
// its progress_method. Unknown methods fall back to manual.
func CalculateProgressByMethod(initiative models.Initiative, activities []models.Activity) int {
	switch initiative.ProgressMethod {
	case models.ProgressMethodSubtaskBased:
		return subtaskProgress(activities)
	case models.ProgressMethodHybrid:
		if len(activities) == 0 {
			return initiative.Progress
		}
		blended := hybridSubtaskWeight*float64(weightedSubtaskProgress(activities)) +
			hybridManualWeight*float64(initiative.Progress)
		return int(math.Round(blended))
	default: // manual
		return initiative.Progress
	}
}

// subtaskProgress is the plain completed-count ratio.
func subtaskProgress(activities []models.Activity) int {
	if len(activities) == 0 {
		return 0
	}
	completed := 0
	for _, activity := range activities {
		if activity.IsCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(activities))))
}

// weightedSubtaskProgress honors per-activity weight percentages when any
// are present: completed activities contribute their weight, incomplete
// ones contribute 0. Without weights it falls back to the count ratio.
func weightedSubtaskProgress(activities []models.Activity) int {
	var totalWeight, completedWeight float64
	hasWeights := false
	for _, activity := range activities {
		if activity.WeightPercentage == nil {
			continue
		}
		hasWeights = true
		totalWeight += *activity.WeightPercentage
		if activity.IsCompleted {
			completedWeight += *activity.WeightPercentage
		}
	}
	if !hasWeights || totalWeight == 0 {
		return subtaskProgress(activities)
	}
	return int(math.Round(100 * completedWeight / totalWeight))
}

// CalculateEfficiencyRatio is estimated over actual hours, rounded to two
// decimals. Returns 1 when either side is zero so dashboards never render
// a division artifact.
func CalculateEfficiencyRatio(estimatedHours, actualHours float64) float64 {
	if estimatedHours == 0 || actualHours == 0 {
		return 1
	}
	return math.Round(estimatedHours/actualHours*100) / 100
}

// CalculateBudgetUtilization is actual cost as a percentage of budget,
// rounded to two decimals, 0 when there is no budget.
func CalculateBudgetUtilization(budget, actualCost float64) float64 {
	if budget <= 0 {
		return 0
	}
	return math.Round(actualCost/budget*100*100) / 100
}

// IsOverdue reports whether the initiative's target date has passed without
// the initiative being completed.
func IsOverdue(initiative models.Initiative, now time.Time) bool {
	if initiative.TargetDate == nil || initiative.Status == models.StatusCompleted {
		return false
	}
	return initiative.TargetDate.Before(now)
}

// CriticalStrategicInitiatives filters for the at-risk subset: strategic,
// heavily weighted (>2.0), behind (<50% progress), and due within the next
// 30 days.
func CriticalStrategicInitiatives(initiatives []models.Initiative, now time.Time) []models.Initiative {
	deadline := now.Add(criticalWindow)
	var critical []models.Initiative
	for _, initiative := range initiatives {
		if !initiative.IsStrategic || initiative.WeightFactor <= 2.0 || initiative.Progress >= 50 {
			continue
		}
		if initiative.TargetDate == nil {
			continue
		}
		if initiative.TargetDate.After(now) && !initiative.TargetDate.After(deadline) {
			critical = append(critical, initiative)
		}
	}
	return critical
}

// ValidateKPIData runs advisory consistency checks over an initiative and
// its activities. The returned messages are informational; nothing here
// blocks a write.
func ValidateKPIData(initiative models.Initiative, activities []models.Activity) []string {
	var issues []string

	if initiative.ProgressMethod == models.ProgressMethodSubtaskBased && len(activities) == 0 {
		issues = append(issues, "progress method is subtask_based but the initiative has no activities")
	}
	if initiative.WeightFactor < 0.1 || initiative.WeightFactor > 3.0 {
		issues = append(issues, fmt.Sprintf("weight factor %.2f is outside the expected range [0.1, 3.0]", initiative.WeightFactor))
	}
	if initiative.IsStrategic && initiative.WeightFactor < 1.0 {
		issues = append(issues, fmt.Sprintf("strategic initiative has weight factor %.2f below 1.0", initiative.WeightFactor))
	}
	if initiative.EstimatedHours != nil && *initiative.EstimatedHours > 0 &&
		initiative.ActualHours > 2**initiative.EstimatedHours {
		issues = append(issues, fmt.Sprintf("actual hours (%.1f) exceed twice the estimate (%.1f)", initiative.ActualHours, *initiative.EstimatedHours))
	}

	return issues
}

// Package compliance turns file counts into a 0-100 compliance score.
package compliance

// Score thresholds used for grades and quality labels
const (
	ScoreThresholdExcellent = 90.0
	ScoreThresholdGood      = 75.0
	ScoreThresholdFair      = 50.0
	ScoreThresholdPoor      = 25.0
)

// Score returns the percentage of compliant files. An empty tree scores 100.
// The result is clamped to [0, 100] so a miscount can never push it out of range.
func Score(compliantFiles, totalFiles int) float64 {
	if totalFiles <= 0 {
		return 100.0
	}
	return clamp(100.0 * float64(compliantFiles) / float64(totalFiles))
}

// FromIssueCount recomputes the score after filtering, treating every issue
// as one non-compliant file.
func FromIssueCount(totalFiles, issueCount int) float64 {
	if totalFiles <= 0 {
		return 100.0
	}
	return Score(totalFiles-issueCount, totalFiles)
}

// Grade maps a score to a letter grade
func Grade(score float64) string {
	switch {
	case score >= ScoreThresholdExcellent:
		return "A"
	case score >= ScoreThresholdGood:
		return "B"
	case score >= ScoreThresholdFair:
		return "C"
	case score >= ScoreThresholdPoor:
		return "D"
	default:
		return "F"
	}
}

// Quality maps a score to the label used by the HTML report
func Quality(score float64) string {
	switch {
	case score >= ScoreThresholdExcellent:
		return "excellent"
	case score >= ScoreThresholdGood:
		return "good"
	case score >= ScoreThresholdFair:
		return "fair"
	default:
		return "poor"
	}
}

func clamp(score float64) float64 {
	if score > 100.0 {
		return 100.0
	}
	if score < 0 {
		return 0
	}
	return score
}

package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Code24x7-R/Photobook/internal/models"
)

// CaptionComparison represents field-level comparison results for one photo
type CaptionComparison struct {
	TitleMatch   FieldMatch
	CaptionMatch FieldMatch
	AlbumMatch   FieldMatch
	TagsMatch    FieldMatch

	// Overall scores
	FieldLevelScores map[string]float64
	OverallScore     float64
}

// FieldMatch represents the comparison result for a single field
type FieldMatch struct {
	Expected string
	Actual   string
	Score    float64 // 0.0 to 1.0
	Method   string  // "exact", "fuzzy_high", "overlap", "missing", ...
	Notes    string
}

// CompareCaptions compares a generated enrichment against ground truth
func CompareCaptions(generated, expected models.Enrichment) *CaptionComparison {
	comparison := &CaptionComparison{
		FieldLevelScores: make(map[string]float64),
	}

	// Compare Title
	comparison.TitleMatch = compareField(expected.Title, generated.Title)
	comparison.FieldLevelScores["title"] = comparison.TitleMatch.Score

	// Compare Caption
	comparison.CaptionMatch = compareField(expected.Caption, generated.Caption)
	comparison.FieldLevelScores["caption"] = comparison.CaptionMatch.Score

	// Compare Album
	comparison.AlbumMatch = compareField(expected.Album, generated.Album)
	comparison.FieldLevelScores["album"] = comparison.AlbumMatch.Score

	// Compare Tags
	comparison.TagsMatch = compareTags(expected.Tags, generated.Tags)
	comparison.FieldLevelScores["tags"] = comparison.TagsMatch.Score

	// Calculate overall score (weighted average)
	// Title and Caption are most important
	weights := map[string]float64{
		"title":   0.30,
		"caption": 0.30,
		"album":   0.20,
		"tags":    0.20,
	}

	totalScore := 0.0
	for field, weight := range weights {
		totalScore += comparison.FieldLevelScores[field] * weight
	}
	comparison.OverallScore = totalScore

	return comparison
}

// compareField performs detailed field comparison with fuzzy matching
func compareField(expected, actual string) FieldMatch {
	match := FieldMatch{
		Expected: expected,
		Actual:   actual,
	}

	// Normalize for comparison
	expNorm := normalizeForComparison(expected)
	actNorm := normalizeForComparison(actual)

	// Handle missing fields
	if expected == "" && actual == "" {
		match.Score = 0.5
		match.Method = "both_missing"
		match.Notes = "Both fields are empty"
		return match
	}

	if expected == "" {
		match.Score = 0.0
		match.Method = "expected_missing"
		match.Notes = "Expected value is empty (no ground truth)"
		return match
	}

	if actual == "" {
		match.Score = 0.0
		match.Method = "actual_missing"
		match.Notes = "Generated enrichment missing this field"
		return match
	}

	// Exact match
	if expNorm == actNorm {
		match.Score = 1.0
		match.Method = "exact"
		match.Notes = "Exact match"
		return match
	}

	// Fuzzy match - check for substring containment
	if strings.Contains(actNorm, expNorm) || strings.Contains(expNorm, actNorm) {
		match.Score = 0.8
		match.Method = "substring"
		match.Notes = "Partial match (substring found)"
		return match
	}

	// Levenshtein-based similarity
	similarity := calculateSimilarity(expNorm, actNorm)
	match.Score = similarity
	if similarity > 0.7 {
		match.Method = "fuzzy_high"
		match.Notes = fmt.Sprintf("High similarity (%.2f)", similarity)
	} else if similarity > 0.4 {
		match.Method = "fuzzy_medium"
		match.Notes = fmt.Sprintf("Medium similarity (%.2f)", similarity)
	} else {
		match.Method = "no_match"
		match.Notes = fmt.Sprintf("Low similarity (%.2f)", similarity)
	}

	return match
}

// compareTags scores generated tags against expected tags with set-overlap F1
func compareTags(expected, actual []string) FieldMatch {
	match := FieldMatch{
		Expected: strings.Join(expected, ", "),
		Actual:   strings.Join(actual, ", "),
	}

	if len(expected) == 0 && len(actual) == 0 {
		match.Score = 0.5
		match.Method = "both_missing"
		match.Notes = "Both tag lists are empty"
		return match
	}

	if len(expected) == 0 {
		match.Score = 0.0
		match.Method = "expected_missing"
		match.Notes = "Expected tag list is empty (no ground truth)"
		return match
	}

	if len(actual) == 0 {
		match.Score = 0.0
		match.Method = "actual_missing"
		match.Notes = "Generated enrichment has no tags"
		return match
	}

	expectedSet := make(map[string]bool, len(expected))
	for _, tag := range expected {
		expectedSet[normalizeForComparison(tag)] = true
	}

	actualSet := make(map[string]bool, len(actual))
	overlap := 0
	for _, tag := range actual {
		norm := normalizeForComparison(tag)
		if actualSet[norm] {
			continue
		}
		actualSet[norm] = true
		if expectedSet[norm] {
			overlap++
		}
	}

	if overlap == 0 {
		match.Score = 0.0
		match.Method = "no_match"
		match.Notes = "No overlapping tags"
		return match
	}

	precision := float64(overlap) / float64(len(actualSet))
	recall := float64(overlap) / float64(len(expectedSet))
	f1 := 2 * precision * recall / (precision + recall)

	match.Score = f1
	if f1 == 1.0 {
		match.Method = "exact"
		match.Notes = "Tag sets match"
	} else {
		match.Method = "overlap"
		match.Notes = fmt.Sprintf("Tag overlap F1 %.2f (precision %.2f, recall %.2f)", f1, precision, recall)
	}

	return match
}

// normalizeForComparison normalizes text for comparison
func normalizeForComparison(text string) string {
	// Convert to lowercase
	text = strings.ToLower(text)

	// Remove punctuation
	re := regexp.MustCompile(`[^\w\s]`)
	text = re.ReplaceAllString(text, "")

	// Remove extra whitespace
	text = strings.Join(strings.Fields(text), " ")

	return strings.TrimSpace(text)
}

// calculateSimilarity calculates similarity ratio (0.0 to 1.0) using Levenshtein distance
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	distance := levenshteinDistance(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}

	// Convert distance to similarity (0.0 to 1.0)
	return 1.0 - (float64(distance) / float64(maxLen))
}

// levenshteinDistance calculates the Levenshtein distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	if len(s1) == 0 {
		return len(s2)
	}

	if len(s2) == 0 {
		return len(s1)
	}

	rows := len(s1) + 1
	cols := len(s2) + 1
	matrix := make([][]int, rows)
	for i := range matrix {
		matrix[i] = make([]int, cols)
	}

	for i := 0; i < rows; i++ {
		matrix[i][0] = i
	}
	for j := 0; j < cols; j++ {
		matrix[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			matrix[i][j] = min(deletion, insertion, substitution)
		}
	}

	return matrix[rows-1][cols-1]
}

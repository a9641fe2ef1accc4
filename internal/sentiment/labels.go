// Package sentiment classifies comment text through the Hugging Face
// inference API.
package sentiment

import (
	"strings"

	"tubetracker/internal/tracker"
)

// NormalizeLabel maps a raw classifier label onto positive, neutral or
// negative. Index labels follow the cardiffnlp ordering. Labels that match
// nothing are returned lowercased.
func NormalizeLabel(label string) string {
	lab := strings.ToLower(label)
	switch lab {
	case "label_0":
		return tracker.SentimentNegative
	case "label_1":
		return tracker.SentimentNeutral
	case "label_2":
		return tracker.SentimentPositive
	}
	switch {
	case strings.Contains(lab, "neg"):
		return tracker.SentimentNegative
	case strings.Contains(lab, "pos"):
		return tracker.SentimentPositive
	case strings.Contains(lab, "neutral"):
		return tracker.SentimentNeutral
	}
	return lab
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

package transcode

import (
	"strings"

	"github.com/dukerupert/nursery/internal/domain"
)

// Level buckets a priority score.
type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

// Score weights for each missing field.
const (
	weightDescription = 3
	weightCare        = 2
	weightCategory    = 1
)

// Advisory is the derived data-quality view of a record.
// It is presentation only and never persisted.
type Advisory struct {
	NeedsDescription bool
	NeedsCare        bool
	NeedsCategory    bool
	Score            int
	Level            Level
}

// NeedsAttention reports whether any field is missing.
func (a Advisory) NeedsAttention() bool {
	return a.NeedsDescription || a.NeedsCare || a.NeedsCategory
}

// Assess computes the advisory fields for a record.
func Assess(p domain.ProductRecord) Advisory {
	a := Advisory{
		NeedsDescription: strings.TrimSpace(p.Description) == "",
		NeedsCare:        careMissing(p.Care),
		NeedsCategory:    strings.TrimSpace(p.Category) == "",
	}
	if a.NeedsDescription {
		a.Score += weightDescription
	}
	if a.NeedsCare {
		a.Score += weightCare
	}
	if a.NeedsCategory {
		a.Score += weightCategory
	}
	a.Level = LevelFor(a.Score)
	return a
}

// LevelFor maps a score to its level: HIGH at 5 and above, MEDIUM at 3 and above.
func LevelFor(score int) Level {
	switch {
	case score >= 5:
		return LevelHigh
	case score >= 3:
		return LevelMedium
	default:
		return LevelLow
	}
}

func careMissing(c domain.Care) bool {
	for _, key := range domain.CareKeys {
		if strings.TrimSpace(c.Get(key)) != "" {
			return false
		}
	}
	return true
}

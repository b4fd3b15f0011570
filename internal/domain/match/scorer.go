// Package match scores menu items against a diner's taste profile and
// dietary constraints.
package match

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/findmyfood/internal/domain/diet"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

// Scoring constants.
const (
	MinBase               = 60
	MaxBase               = PerfectMatchThreshold // exclusive: an unboosted item never reaches the threshold
	DefaultFixedBase      = 70
	TasteBoost            = 15
	DietBoost             = 30
	MaxScore              = 100
	PerfectMatchThreshold = 85
)

// Result is the outcome of scoring one item. Reasons are advisory text only.
type Result struct {
	Score   int
	Reasons []string
}

// IsPerfectMatch reports whether a result belongs to the perfect-match surface.
// The score > 0 conjunct keeps a zeroed item out even if the threshold is ever lowered.
func (r Result) IsPerfectMatch() bool {
	return r.Score >= PerfectMatchThreshold && r.Score > 0
}

// Scorer computes match results. It is safe for concurrent use when its BaseScorer is.
type Scorer struct {
	base BaseScorer
}

// NewScorer creates a scorer. A nil base falls back to FixedBase(DefaultFixedBase).
func NewScorer(base BaseScorer) *Scorer {
	if base == nil {
		base = FixedBase(DefaultFixedBase)
	}
	return &Scorer{base: base}
}

// Score rates an item in [0,100]. A disqualified item (failed requirement or
// allergen hit) scores exactly 0 with no reasons; base and boosts never rescue it.
func (s *Scorer) Score(item menu.Item, taste []string, requirements, allergens diet.Set) Result {
	compliant := requirements.IsEmpty() || diet.IsDietCompliant(item, requirements)
	safe := diet.IsAllergenSafe(item, allergens)
	if !compliant || !safe {
		return Result{}
	}

	score := s.base.Base()
	var reasons []string

	if kw, ok := matchTaste(item, taste); ok {
		score += TasteBoost
		reasons = append(reasons, fmt.Sprintf("Matches your taste for %s", kw))
	}

	if !requirements.IsEmpty() {
		score += DietBoost
		reasons = append(reasons, fmt.Sprintf("Fits your %s diet", requirements.First()))
	}

	return Result{Score: clamp(score), Reasons: reasons}
}

// matchTaste returns the first taste keyword occurring in the item's tags, name or description.
func matchTaste(item menu.Item, taste []string) (string, bool) {
	name := strings.ToLower(item.Name)
	desc := strings.ToLower(item.Description)
	for _, kw := range taste {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if strings.Contains(name, k) || strings.Contains(desc, k) {
			return strings.TrimSpace(kw), true
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), k) {
				return strings.TrimSpace(kw), true
			}
		}
	}
	return "", false
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

package activity

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// Recommendation defaults and limits.
const (
	DefaultLevel         = "sedang"
	DefaultPreferredTime = "pagi"
	// Threshold is the score a recommendation must exceed.
	Threshold = 0.3
	// MaxRecommendations caps the ranked list.
	MaxRecommendations = 3
	// GroupSize is the participant count from which an activity counts as a group activity.
	GroupSize = 8
)

// Score weights.
const (
	interestWeight = 0.4
	timeWeight     = 0.2
	groupWeight    = 0.1
)

var levelScores = map[string]map[string]float64{
	"ringan": {"mudah": 0.3, "sedang": 0.15},
	"sedang": {"mudah": 0.2, "sedang": 0.3},
	"aktif":  {"mudah": 0.1, "sedang": 0.2, "sulit": 0.3},
}

// timeWindows holds the inclusive start hours of each part of the day.
var timeWindows = map[string][2]int{
	"pagi":  {7, 10},
	"siang": {10, 14},
	"sore":  {14, 18},
}

// Preferences steer Recommend. Empty Level and PreferredTime take the defaults.
type Preferences struct {
	Interests     []string
	Level         string
	PreferredTime string
	// Solo flips the group bonus to activities below GroupSize.
	Solo bool
}

func (p Preferences) normalized() (Preferences, error) {
	p.Level = strings.ToLower(strings.TrimSpace(p.Level))
	if p.Level == "" {
		p.Level = DefaultLevel
	}
	p.PreferredTime = strings.ToLower(strings.TrimSpace(p.PreferredTime))
	if p.PreferredTime == "" {
		p.PreferredTime = DefaultPreferredTime
	}
	if _, ok := levelScores[p.Level]; !ok {
		return p, domain.InvalidInput("unknown activity level %q", p.Level)
	}
	if _, ok := timeWindows[p.PreferredTime]; !ok {
		return p, domain.InvalidInput("unknown preferred time %q", p.PreferredTime)
	}
	return p, nil
}

// Score rates how well a fits p, from 0 to 1. A matching interest category adds 0.4,
// the difficulty adds up to 0.3 depending on the level, a start inside the preferred
// part of the day adds 0.2 and a group size that suits p adds 0.1.
func Score(a domain.Activity, p Preferences) float64 {
	var score float64
	if categoriesOf(p.Interests)[a.Category] {
		score += interestWeight
	}
	score += levelScores[strings.ToLower(p.Level)][a.Difficulty]
	if hour, ok := startHour(a.Time); ok {
		if w, ok := timeWindows[strings.ToLower(p.PreferredTime)]; ok && hour >= w[0] && hour <= w[1] {
			score += timeWeight
		}
	}
	if (a.Participants >= GroupSize) != p.Solo {
		score += groupWeight
	}
	return min(math.Round(score*100)/100, 1)
}

func startHour(t string) (int, bool) {
	h, _, ok := strings.Cut(strings.TrimSpace(t), ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

// Recommend ranks the catalog by Score using live participant counts. It returns at
// most MaxRecommendations activities scoring above Threshold, best first. Ties keep
// catalog order.
func (e *Engine) Recommend(ctx context.Context, p Preferences) ([]domain.Recommendation, error) {
	p, err := p.normalized()
	if err != nil {
		return nil, err
	}
	var ranked []domain.Recommendation
	for _, a := range e.activities {
		a = e.live(ctx, a)
		if score := Score(a, p); score > Threshold {
			ranked = append(ranked, domain.Recommendation{Activity: a, Score: score})
		}
	}
	slices.SortStableFunc(ranked, func(x, y domain.Recommendation) int {
		return cmp.Compare(y.Score, x.Score)
	})
	if len(ranked) > MaxRecommendations {
		ranked = ranked[:MaxRecommendations]
	}
	e.logger.Debug("ranked activities", "level", p.Level, "time", p.PreferredTime, "count", len(ranked))
	return ranked, nil
}

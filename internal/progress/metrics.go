// Package progress derives display metrics from roster data. Every function
// is pure; nothing here mutates or caches student records.
package progress

import (
	"iter"
	"math"
	"strconv"

	"github.com/abhisek/eduelevate/internal/roster"
)

// Band thresholds on the 0-100 assessment scale.
const (
	MasteryThreshold     = 80.0
	ApproachingThreshold = 60.0
)

// MinTrendPoints is the number of scores needed before a trend is shown.
const MinTrendPoints = 2

// Band classifies a single score.
type Band int

const (
	Intervention Band = iota
	Approaching
	Mastery
)

func (b Band) String() string {
	switch b {
	case Mastery:
		return "mastery"
	case Approaching:
		return "approaching"
	default:
		return "intervention"
	}
}

// MarshalText encodes the band by name, so band-keyed maps read well in JSON.
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Label is the human-readable band name.
func (b Band) Label() string {
	switch b {
	case Mastery:
		return "Mastery"
	case Approaching:
		return "Approaching"
	default:
		return "Needs Intervention"
	}
}

// BandOf maps a score to its band: >= 80 mastery, >= 60 approaching,
// anything lower needs intervention.
func BandOf(score float64) Band {
	switch {
	case score >= MasteryThreshold:
		return Mastery
	case score >= ApproachingThreshold:
		return Approaching
	default:
		return Intervention
	}
}

// TierClass is the colour class of an intervention tier.
type TierClass int

const (
	Green TierClass = iota
	Yellow
	Red
)

func (c TierClass) String() string {
	switch c {
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	default:
		return "green"
	}
}

// TierClassOf maps tier 1 to green, tier 2 to yellow and tier 3 to red.
func TierClassOf(t roster.Tier) TierClass {
	switch t {
	case roster.Tier2:
		return Yellow
	case roster.Tier3:
		return Red
	default:
		return Green
	}
}

// LatestScore returns the most recent score, or false when there is none.
func LatestScore(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	return scores[len(scores)-1], true
}

// LatestBand returns the band of the most recent score.
func LatestBand(scores []float64) (Band, bool) {
	v, ok := LatestScore(scores)
	if !ok {
		return Intervention, false
	}
	return BandOf(v), true
}

// TrendSeries yields (assessment index, score) pairs in chronological order.
// It reports false, with a nil sequence, when fewer than MinTrendPoints
// scores exist.
func TrendSeries(scores []float64) (iter.Seq2[int, float64], bool) {
	if len(scores) < MinTrendPoints {
		return nil, false
	}
	return func(yield func(int, float64) bool) {
		for i, v := range scores {
			if !yield(i, v) {
				return
			}
		}
	}, true
}

// Point is one entry of a materialized trend series.
type Point struct {
	Index int
	Score float64
}

// Label is the axis label shown for the point, counting from 1.
func (p Point) Label() string {
	return "Assessment " + strconv.Itoa(p.Index+1)
}

// Points materializes TrendSeries. It returns nil when data is insufficient.
func Points(scores []float64) []Point {
	seq, ok := TrendSeries(scores)
	if !ok {
		return nil
	}
	out := make([]Point, 0, len(scores))
	for i, v := range seq {
		out = append(out, Point{Index: i, Score: v})
	}
	return out
}

// Delta returns last minus first score when a trend exists.
func Delta(scores []float64) (float64, bool) {
	if len(scores) < MinTrendPoints {
		return 0, false
	}
	return scores[len(scores)-1] - scores[0], true
}

// RosterSummary aggregates the roster for the console view and the growth
// report request.
type RosterSummary struct {
	Total         int                 `json:"total"`
	ByTier        map[roster.Tier]int `json:"byTier"`
	ByBand        map[Band]int        `json:"byBand"`
	NoData        int                 `json:"noData"`
	ELL           int                 `json:"ell"`
	IEP           int                 `json:"iep"`
	BehaviorPlans int                 `json:"behaviorPlans"`
	MeanLatest    float64             `json:"meanLatest"`
	HasMean       bool                `json:"hasMean"`
	Improving     int                 `json:"improving"`
	Declining     int                 `json:"declining"`
}

// Summarize computes a RosterSummary. Students without scores count toward
// NoData and are left out of the band counts and the mean.
func Summarize(students []roster.Student) RosterSummary {
	sum := RosterSummary{
		Total:  len(students),
		ByTier: map[roster.Tier]int{roster.Tier1: 0, roster.Tier2: 0, roster.Tier3: 0},
		ByBand: map[Band]int{Mastery: 0, Approaching: 0, Intervention: 0},
	}
	var total float64
	var scored int
	for _, st := range students {
		sum.ByTier[st.Tier]++
		if st.IsELL {
			sum.ELL++
		}
		if st.HasIEP() {
			sum.IEP++
		}
		if st.HasBehaviorPlan() {
			sum.BehaviorPlans++
		}
		latest, ok := LatestScore(st.Scores)
		if !ok {
			sum.NoData++
			continue
		}
		sum.ByBand[BandOf(latest)]++
		total += latest
		scored++
		if d, ok := Delta(st.Scores); ok {
			switch {
			case d > 0:
				sum.Improving++
			case d < 0:
				sum.Declining++
			}
		}
	}
	if scored > 0 {
		sum.MeanLatest = math.Round(total/float64(scored)*10) / 10
		sum.HasMean = true
	}
	return sum
}

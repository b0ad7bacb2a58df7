package evaluation

import (
	"fmt"
	"math"
	"strings"
)

// gradeEpsilon absorbs float error so that positions sitting exactly on a
// threshold (4.6 on a 1..5 scale is 0.8999999) land on the higher grade.
const gradeEpsilon = 1e-9

var gradeThresholds = []struct {
	position float64
	rating   Rating
}{
	{0.9, RatingS},
	{0.7, RatingA},
	{0.5, RatingB},
	{0.3, RatingC},
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (w Weights) Sum() float64 {
	return w.Results + w.Process + w.Growth
}

// Validate rejects negative weights and triples that do not add up to 100.
func (w Weights) Validate() error {
	if w.Results < 0 || w.Process < 0 || w.Growth < 0 {
		return ErrWeightsSum
	}
	if math.Abs(w.Sum()-100) > 1e-6 {
		return ErrWeightsSum
	}
	return nil
}

func FinalScore(results, process, growth float64, w Weights) float64 {
	return results*w.Results/100 + process*w.Process/100 + growth*w.Growth/100
}

// AchievementRate is actual/target as a percentage. A zero target yields 0.
func AchievementRate(target, actual float64) float64 {
	if target == 0 {
		return 0
	}
	return actual / target * 100
}

// ResultsScore maps an achievement rate onto [lo, hi] in four linear bands
// split at 80, 100 and 120 percent. The result is clamped and rounded to one
// decimal.
func ResultsScore(rate, lo, hi float64) float64 {
	span := hi - lo
	if span <= 0 {
		return round1(lo)
	}
	quarter := span * 0.25
	var score float64
	switch {
	case rate < 80:
		score = lo + (rate/80)*quarter
	case rate < 100:
		score = lo + quarter + ((rate-80)/20)*quarter
	case rate < 120:
		score = lo + 2*quarter + ((rate-100)/20)*quarter
	default:
		score = lo + 3*quarter + math.Min((rate-120)/40, 1)*quarter
	}
	return round1(clamp(score, lo, hi))
}

// GradeFor rates a score by its relative position in [lo, hi]. Thresholds are
// inclusive on the upper side. An empty range rates B.
func GradeFor(score, lo, hi float64) Rating {
	span := hi - lo
	if span == 0 {
		return RatingB
	}
	position := (score - lo) / span
	for _, t := range gradeThresholds {
		if position+gradeEpsilon >= t.position {
			return t.rating
		}
	}
	return RatingD
}

func CountChecks(checks []bool) int {
	n := 0
	for i, checked := range checks {
		if i >= MaxDifficultyFlags {
			break
		}
		if checked {
			n++
		}
	}
	return n
}

func DifficultyClassFor(checked int) DifficultyClass {
	switch {
	case checked >= 4:
		return ClassA
	case checked >= 2:
		return ClassB
	default:
		return ClassC
	}
}

func ValidLevel(level Level) bool {
	_, ok := growthBaseScores[level]
	return ok
}

// ProjectScore looks up the class by level table. Unknown levels score 0.
func ProjectScore(class DifficultyClass, level Level) float64 {
	return projectScores[class][level]
}

// activeProjects returns the named projects among the first MaxProjects.
func activeProjects(projects []Project) []Project {
	if len(projects) > MaxProjects {
		projects = projects[:MaxProjects]
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ProcessScore is the mean project score over named projects, rounded to one
// decimal. No named project yields 0.
func ProcessScore(projects []Project) float64 {
	named := activeProjects(projects)
	if len(named) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range named {
		total += ProjectScore(DifficultyClassFor(CountChecks(p.Checks)), p.Level)
	}
	return round1(total / float64(len(named)))
}

func GrowthScore(level Level, coefficient float64) float64 {
	return math.Min(GrowthScoreCap, round1(growthBaseScores[level]*coefficient))
}

// ScoreContext is everything outside the evaluation record that scoring needs.
type ScoreContext struct {
	ResultsMin        float64
	ResultsMax        float64
	Weights           Weights
	GrowthCoefficient float64
}

// Compute derives all sub-scores, the final score and, once every axis has
// input, the rating. Missing inputs score 0 and leave the record incomplete.
func Compute(in Input, sc ScoreContext) Scores {
	var out Scores

	resultsOK := false
	switch {
	case in.Results.DirectScore != nil:
		out.Results = round1(clamp(*in.Results.DirectScore, sc.ResultsMin, sc.ResultsMax))
		resultsOK = true
	case in.Results.Target != nil && in.Results.Actual != nil && *in.Results.Target != 0:
		rate := round1(AchievementRate(*in.Results.Target, *in.Results.Actual))
		out.AchievementRate = &rate
		out.Results = ResultsScore(rate, sc.ResultsMin, sc.ResultsMax)
		resultsOK = true
	}

	processOK := false
	for _, p := range activeProjects(in.Projects) {
		if ValidLevel(p.Level) {
			processOK = true
			break
		}
	}
	out.Process = ProcessScore(in.Projects)

	growthOK := in.Growth.CategoryID != "" && ValidLevel(in.Growth.Level) && sc.GrowthCoefficient > 0
	if growthOK {
		out.Growth = GrowthScore(in.Growth.Level, sc.GrowthCoefficient)
	}

	final := FinalScore(out.Results, out.Process, out.Growth, sc.Weights)
	out.Final = round2(final)
	out.Complete = resultsOK && processOK && growthOK
	if out.Complete {
		out.Rating = GradeFor(final, sc.ResultsMin, sc.ResultsMax)
	}
	return out
}

// FormatRate renders an achievement rate for display, "-" when there is none.
func FormatRate(rate *float64) string {
	if rate == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *rate)
}

// FormatScore renders a score for display, "-" for incomplete records.
func FormatScore(v float64, complete bool) string {
	if !complete {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

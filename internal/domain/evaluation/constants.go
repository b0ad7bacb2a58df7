package evaluation

const (
	PeriodStatusDraft  = "draft"
	PeriodStatusActive = "active"
	PeriodStatusReview = "review"
	PeriodStatusClosed = "closed"

	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusConfirmed = "confirmed"

	// MaxProjects is the number of process projects an evaluation carries.
	MaxProjects = 3
	// MaxDifficultyFlags is the number of difficulty check boxes per project.
	MaxDifficultyFlags = 6

	GrowthScoreCap = 5.0

	DefaultResultsMin = 1.0
	DefaultResultsMax = 5.0

	// DefaultWeightGrade holds the weights used for grades without a row.
	DefaultWeightGrade = "default"
)

type Level string

const (
	LevelT1 Level = "T1"
	LevelT2 Level = "T2"
	LevelT3 Level = "T3"
	LevelT4 Level = "T4"
)

var Levels = []Level{LevelT1, LevelT2, LevelT3, LevelT4}

type DifficultyClass string

const (
	ClassA DifficultyClass = "A"
	ClassB DifficultyClass = "B"
	ClassC DifficultyClass = "C"
)

type Rating string

const (
	RatingS Rating = "S"
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
	RatingD Rating = "D"
)

// projectScores is the difficulty class by achievement level table for
// process projects.
var projectScores = map[DifficultyClass]map[Level]float64{
	ClassA: {LevelT1: 2.0, LevelT2: 3.0, LevelT3: 4.0, LevelT4: 5.0},
	ClassB: {LevelT1: 1.5, LevelT2: 2.5, LevelT3: 3.5, LevelT4: 4.5},
	ClassC: {LevelT1: 1.0, LevelT2: 2.0, LevelT3: 3.0, LevelT4: 4.0},
}

var growthBaseScores = map[Level]float64{
	LevelT1: 1.0,
	LevelT2: 2.0,
	LevelT3: 3.0,
	LevelT4: 4.0,
}

var PeriodStatuses = []string{PeriodStatusDraft, PeriodStatusActive, PeriodStatusReview, PeriodStatusClosed}

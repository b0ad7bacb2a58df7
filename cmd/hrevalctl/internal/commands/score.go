package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hreval/internal/domain/evaluation"
)

type scoreFlags struct {
	target, actual, direct float64
	resultsMin, resultsMax float64
	weights                string
	projects               []string
	growthLevel            string
	growthCoefficient      float64
}

// newScoreCmd computes an evaluation offline with the same rules the server
// applies when a sheet is saved.
func newScoreCmd() *cobra.Command {
	var f scoreFlags
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute scores and rating for one evaluation",
		Example: `  hrevalctl score --target 100 --actual 110 --project 4:T3 --project 1:T2 \
    --growth-level T2 --growth-coefficient 1.5 --weights 50,30,20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, sc, err := f.build(cmd)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(evaluation.Compute(in, sc))
		},
	}
	fl := cmd.Flags()
	fl.Float64Var(&f.target, "target", 0, "results target")
	fl.Float64Var(&f.actual, "actual", 0, "results actual")
	fl.Float64Var(&f.direct, "direct", 0, "direct results score, overrides target and actual")
	fl.Float64Var(&f.resultsMin, "results-min", 1, "lowest score on the period scale")
	fl.Float64Var(&f.resultsMax, "results-max", 5, "highest score on the period scale")
	fl.StringVar(&f.weights, "weights", "50,30,20", "results,process,growth weights summing to 100")
	fl.StringArrayVar(&f.projects, "project", nil, "project as <checked flags>:<level>, repeatable")
	fl.StringVar(&f.growthLevel, "growth-level", "", "growth level T1..T4")
	fl.Float64Var(&f.growthCoefficient, "growth-coefficient", 1, "growth category coefficient")
	return cmd
}

func (f scoreFlags) build(cmd *cobra.Command) (evaluation.Input, evaluation.ScoreContext, error) {
	var in evaluation.Input
	weights, err := parseWeights(f.weights)
	if err != nil {
		return in, evaluation.ScoreContext{}, err
	}
	if f.resultsMin >= f.resultsMax {
		return in, evaluation.ScoreContext{}, fmt.Errorf("results-min must be below results-max")
	}

	fl := cmd.Flags()
	switch {
	case fl.Changed("direct"):
		in.Results.DirectScore = &f.direct
	case fl.Changed("target") && fl.Changed("actual"):
		in.Results.Target = &f.target
		in.Results.Actual = &f.actual
	}

	for i, raw := range f.projects {
		p, err := parseProject(raw)
		if err != nil {
			return in, evaluation.ScoreContext{}, err
		}
		p.Name = fmt.Sprintf("project %d", i+1)
		in.Projects = append(in.Projects, p)
	}

	if f.growthLevel != "" {
		in.Growth = evaluation.GrowthInput{CategoryID: "cli", Level: evaluation.Level(strings.ToUpper(f.growthLevel))}
	}
	return in, evaluation.ScoreContext{
		ResultsMin:        f.resultsMin,
		ResultsMax:        f.resultsMax,
		Weights:           weights,
		GrowthCoefficient: f.growthCoefficient,
	}, nil
}

func parseWeights(raw string) (evaluation.Weights, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return evaluation.Weights{}, fmt.Errorf("weights: want three comma separated values, got %q", raw)
	}
	var vals [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return evaluation.Weights{}, fmt.Errorf("weights: %w", err)
		}
		vals[i] = v
	}
	w := evaluation.Weights{Results: vals[0], Process: vals[1], Growth: vals[2]}
	if err := w.Validate(); err != nil {
		return evaluation.Weights{}, err
	}
	return w, nil
}

func parseProject(raw string) (evaluation.Project, error) {
	count, level, ok := strings.Cut(raw, ":")
	if !ok {
		return evaluation.Project{}, fmt.Errorf("project %q: want <checked>:<level>", raw)
	}
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || n < 0 || n > evaluation.MaxDifficultyFlags {
		return evaluation.Project{}, fmt.Errorf("project %q: checked must be 0..%d", raw, evaluation.MaxDifficultyFlags)
	}
	lv := evaluation.Level(strings.ToUpper(strings.TrimSpace(level)))
	if !evaluation.ValidLevel(lv) {
		return evaluation.Project{}, fmt.Errorf("project %q: unknown level", raw)
	}
	checks := make([]bool, evaluation.MaxDifficultyFlags)
	for i := range n {
		checks[i] = true
	}
	return evaluation.Project{Checks: checks, Level: lv}, nil
}

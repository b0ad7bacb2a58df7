package evaluation

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"employee_number", "employee_name", "department", "job_grade", "status",
	"achievement_rate", "results_score", "process_score", "growth_score",
	"final_score", "rating", "complete",
}

// WriteCSV writes one line per evaluation. Incomplete records leave the
// final score and rating as "-".
func WriteCSV(w io.Writer, rows []SheetRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		sc := row.Evaluation.Scores
		rating := string(sc.Rating)
		if rating == "" {
			rating = "-"
		}
		record := []string{
			row.EmployeeNumber,
			row.EmployeeName,
			row.DepartmentName,
			row.JobGrade,
			row.Evaluation.Status,
			FormatRate(sc.AchievementRate),
			formatFloat(sc.Results),
			formatFloat(sc.Process),
			formatFloat(sc.Growth),
			FormatScore(sc.Final, sc.Complete),
			rating,
			strconv.FormatBool(sc.Complete),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// VolumeSummaryPeriod holds aggregated working-set volume for one period.
type VolumeSummaryPeriod struct {
	Period            string  `json:"period"`
	WorkingSets       int     `json:"working_sets"`
	TotalReps         int     `json:"total_reps"`
	TonnageKg         float64 `json:"tonnage_kg"`
	Sessions          int     `json:"sessions"`
	Exercises         int     `json:"exercises"`
	AvgSetsPerSession float64 `json:"avg_sets_per_session"`
}

// GetVolumeSummary returns working-set volume per period, newest first.
// Warmup sets are excluded from every total.
func (db *DB) GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]VolumeSummaryPeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, session_date)::date AS period,
		        COUNT(*) FILTER (WHERE NOT is_warmup)::int AS working_sets,
		        COALESCE(SUM(reps) FILTER (WHERE NOT is_warmup), 0)::int AS total_reps,
		        COALESCE(SUM(weight_kg * reps) FILTER (WHERE NOT is_warmup), 0) AS tonnage,
		        COUNT(DISTINCT session_date)::int AS sessions,
		        COUNT(DISTINCT lower(exercise_name))::int AS exercises
		 FROM workout_sets
		 WHERE session_date >= $2 AND session_date < $3 AND user_id = $4
		 GROUP BY period
		 ORDER BY period DESC`,
		truncInterval(bucket), start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying volume summary: %w", err)
	}
	defer rows.Close()

	result := []VolumeSummaryPeriod{}
	for rows.Next() {
		var periodTime time.Time
		var p VolumeSummaryPeriod
		if err := rows.Scan(&periodTime, &p.WorkingSets, &p.TotalReps, &p.TonnageKg, &p.Sessions, &p.Exercises); err != nil {
			return nil, fmt.Errorf("scanning volume summary: %w", err)
		}
		if p.Sessions > 0 {
			p.AvgSetsPerSession = float64(p.WorkingSets) / float64(p.Sessions)
		}
		p.Period = periodTime.Format("2006-01-02")
		result = append(result, p)
	}
	return result, rows.Err()
}

// truncInterval converts bucket names like "week" or "1 month" to the
// interval name date_trunc expects. Anything else is weekly.
func truncInterval(bucket string) string {
	switch strings.TrimSpace(strings.ToLower(bucket)) {
	case "1 month", "month":
		return "month"
	default:
		return "week"
	}
}

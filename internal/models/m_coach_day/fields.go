// Package m_coach_day maps the coach_days lock table. One row per (coach, date)
// is rewritten by every admission on that key, so concurrent admissions
// conflict in Spanner and one of them is retried.
package m_coach_day

const (
	TableName = "coach_days"

	CoachID   = "coach_id"
	Day       = "day"
	Version   = "version"
	UpdatedAt = "updated_at"
)

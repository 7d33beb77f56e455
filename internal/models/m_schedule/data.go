package m_schedule

import "time"

// Data represents the database model for the schedules table.
type Data struct {
	ScheduleID  string    `spanner:"schedule_id"`
	CoachID     string    `spanner:"coach_id"`
	Weekday     int64     `spanner:"weekday"`
	StartMinute int64     `spanner:"start_minute"`
	EndMinute   int64     `spanner:"end_minute"`
	CreatedAt   time.Time `spanner:"created_at"`
}

package m_schedule

// Field name constants for the schedules table.
const (
	TableName = "schedules"

	ScheduleID  = "schedule_id"
	CoachID     = "coach_id"
	Weekday     = "weekday"
	StartMinute = "start_minute"
	EndMinute   = "end_minute"
	CreatedAt   = "created_at"
)

var Columns = []string{ScheduleID, CoachID, Weekday, StartMinute, EndMinute, CreatedAt}

package models

// MeetingWithContext is one course meeting as read from the schedule view.
type MeetingWithContext struct {
	InstanceID      string `db:"instance_id"`
	CoursePrefix    string `db:"course_prefix"`
	CourseNumber    string `db:"course_number"`
	IsUndergraduate bool   `db:"is_undergraduate"`
	Day             Day    `db:"day"`
	StartHour       int    `db:"start_hour"`
	StartMinute     int    `db:"start_minute"`
	EndHour         int    `db:"end_hour"`
	EndMinute       int    `db:"end_minute"`
	RoomName        string `db:"room_name"`
	CampusName      string `db:"campus_name"`
	Year            int    `db:"academic_year"`
	Term            Term   `db:"term"`
}

// ScheduleEntry is a single course session inside a schedule block.
type ScheduleEntry struct {
	InstanceID      string `json:"id"`
	CourseNumber    string `json:"course_number"`
	Room            string `json:"room"`
	Campus          string `json:"campus"`
	IsUndergraduate bool   `json:"is_undergraduate"`
}

// ScheduleBlock groups the sessions of one prefix that share a weekly time slot.
// Times are raw hours and minutes; grid scaling is up to the client.
type ScheduleBlock struct {
	ID           string          `json:"id"`
	CoursePrefix string          `json:"course_prefix"`
	Weekday      Day             `json:"weekday"`
	StartHour    int             `json:"start_hour"`
	StartMinute  int             `json:"start_minute"`
	EndHour      int             `json:"end_hour"`
	EndMinute    int             `json:"end_minute"`
	Duration     int             `json:"duration"`
	Term         Term            `json:"term"`
	Year         int             `json:"year"`
	Courses      []ScheduleEntry `json:"courses"`
}

// ScheduleFilter selects the rows feeding the schedule view.
type ScheduleFilter struct {
	Year   int
	Term   Term
	Prefix string
}

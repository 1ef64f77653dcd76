package scheduler

import (
	"fmt"
	"sort"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

type blockKey struct {
	prefix      string
	day         models.Day
	startHour   int
	startMinute int
	endHour     int
	endMinute   int
	term        models.Term
	year        int
}

// BuildScheduleBlocks merges meetings sharing prefix, weekday and start/end
// time into blocks. Entries keep the order of rows; blocks are sorted by
// weekday, start time, duration, prefix and first course number.
func BuildScheduleBlocks(rows []models.MeetingWithContext) []models.ScheduleBlock {
	index := make(map[blockKey]int, len(rows))
	blocks := make([]models.ScheduleBlock, 0)

	for _, row := range rows {
		key := blockKey{
			prefix:      row.CoursePrefix,
			day:         row.Day,
			startHour:   row.StartHour,
			startMinute: row.StartMinute,
			endHour:     row.EndHour,
			endMinute:   row.EndMinute,
			term:        row.Term,
			year:        row.Year,
		}
		pos, ok := index[key]
		if !ok {
			pos = len(blocks)
			index[key] = pos
			blocks = append(blocks, newBlock(key))
		}
		blocks[pos].Courses = append(blocks[pos].Courses, models.ScheduleEntry{
			InstanceID:      row.InstanceID,
			CourseNumber:    row.CourseNumber,
			Room:            row.RoomName,
			Campus:          row.CampusName,
			IsUndergraduate: row.IsUndergraduate,
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blockLess(blocks[i], blocks[j])
	})
	return blocks
}

func newBlock(key blockKey) models.ScheduleBlock {
	return models.ScheduleBlock{
		ID:           BlockID(key.prefix, key.day, key.startHour, key.startMinute, key.endHour, key.endMinute, key.term, key.year),
		CoursePrefix: key.prefix,
		Weekday:      key.day,
		StartHour:    key.startHour,
		StartMinute:  key.startMinute,
		EndHour:      key.endHour,
		EndMinute:    key.endMinute,
		Duration:     (key.endHour*60 + key.endMinute) - (key.startHour*60 + key.startMinute),
		Term:         key.term,
		Year:         key.year,
	}
}

// BlockID is stable across requests for the same slot so clients can diff.
func BlockID(prefix string, day models.Day, startHour, startMinute, endHour, endMinute int, term models.Term, year int) string {
	return fmt.Sprintf("%s-%s-%02d%02d-%02d%02d-%s-%d", prefix, day, startHour, startMinute, endHour, endMinute, term, year)
}

func blockLess(a, b models.ScheduleBlock) bool {
	if a.Weekday.Index() != b.Weekday.Index() {
		return a.Weekday.Index() < b.Weekday.Index()
	}
	if a.StartHour != b.StartHour {
		return a.StartHour < b.StartHour
	}
	if a.StartMinute != b.StartMinute {
		return a.StartMinute < b.StartMinute
	}
	if a.Duration != b.Duration {
		return a.Duration < b.Duration
	}
	if a.CoursePrefix != b.CoursePrefix {
		return a.CoursePrefix < b.CoursePrefix
	}
	// plain string order: "109A" sorts before "22A"
	return firstCourseNumber(a) < firstCourseNumber(b)
}

func firstCourseNumber(b models.ScheduleBlock) string {
	if len(b.Courses) == 0 {
		return ""
	}
	return b.Courses[0].CourseNumber
}

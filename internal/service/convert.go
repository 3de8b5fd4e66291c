package service

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/uniplan/timetable-api/internal/dto"
	"github.com/uniplan/timetable-api/internal/engine"
	"github.com/uniplan/timetable-api/internal/models"
)

var canonicalDays = map[string]engine.Day{
	models.DaySunday:    engine.Sunday,
	models.DayMonday:    engine.Monday,
	models.DayTuesday:   engine.Tuesday,
	models.DayWednesday: engine.Wednesday,
	models.DayThursday:  engine.Thursday,
}

// dayToEngine resolves any accepted day spelling into an engine day.
func dayToEngine(raw string) (engine.Day, bool) {
	canonical, ok := models.ParseDay(raw)
	if !ok {
		return 0, false
	}
	day, ok := canonicalDays[canonical]
	return day, ok
}

// doctorToEngine decodes a doctor record's JSON availability columns into the
// engine's structured form. A doctor without explicit windows teaches every
// working day within the grid bounds. The unavailable column accepts either
// structured ranges or the legacy free-text notation; conversion happens
// here, never inside the engine.
func doctorToEngine(grid engine.Grid, m models.Doctor, logger *zap.Logger) engine.Doctor {
	doc := engine.Doctor{
		ID:              m.ID,
		Name:            m.FullName,
		WeeklyHours:     m.WeeklyHours,
		AssignedMinutes: m.AssignedMinutes,
		Windows:         make(map[engine.Day]engine.Window),
	}

	var windows []models.DayWindow
	if len(m.Windows) > 0 {
		if err := json.Unmarshal(m.Windows, &windows); err != nil {
			logger.Warn("doctor windows column is malformed, assuming full availability",
				zap.String("doctor", m.ID), zap.Error(err))
			windows = nil
		}
	}
	if len(windows) == 0 {
		for _, day := range grid.Days() {
			doc.Windows[day] = engine.Window{Start: grid.DayStart, End: grid.DayEnd}
		}
	} else {
		for _, w := range windows {
			day, ok := dayToEngine(w.Day)
			if !ok {
				logger.Warn("doctor window names unknown day, skipping",
					zap.String("doctor", m.ID), zap.String("day", w.Day))
				continue
			}
			doc.Windows[day] = engine.Window{Start: w.StartMinutes, End: w.EndMinutes}
		}
	}

	for _, blocked := range decodeBlocked(json.RawMessage(m.Unavailable), m.ID, "doctor", logger) {
		if day, ok := dayToEngine(blocked.Day); ok {
			doc.Unavailable = append(doc.Unavailable, engine.TimeRange{
				Day:   day,
				Start: blocked.StartMinutes,
				End:   blocked.EndMinutes,
			})
		}
	}
	return doc
}

func roomToEngine(m models.Room, logger *zap.Logger) engine.Room {
	room := engine.Room{
		ID:       m.ID,
		Name:     m.Name,
		Capacity: m.Capacity,
		Type:     engine.RoomType(m.Type),
	}
	if m.Type == models.RoomTypeLab {
		for _, blocked := range decodeBlocked(json.RawMessage(m.Blocked), m.ID, "room", logger) {
			if day, ok := dayToEngine(blocked.Day); ok {
				room.Blocked = append(room.Blocked, engine.TimeRange{
					Day:   day,
					Start: blocked.StartMinutes,
					End:   blocked.EndMinutes,
				})
			}
		}
	}
	return room
}

// decodeBlocked accepts a JSON array of structured ranges or a quoted legacy
// free-text string and returns structured ranges either way.
func decodeBlocked(raw json.RawMessage, owner, kind string, logger *zap.Logger) []models.BlockedRange {
	if len(raw) == 0 {
		return nil
	}
	var ranges []models.BlockedRange
	if err := json.Unmarshal(raw, &ranges); err == nil {
		return ranges
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return models.ParseBlockedText(text)
	}
	logger.Warn("blocked ranges column is malformed, ignoring",
		zap.String(kind, owner))
	return nil
}

func courseToEngine(m models.Course) engine.Course {
	lectureType := engine.LectureType(m.LectureType)
	if lectureType != engine.LectureLong {
		lectureType = engine.LectureShort
	}
	return engine.Course{
		ID:          m.ID,
		Name:        m.Name,
		Code:        m.Code,
		WeeklyHours: m.WeeklyHours,
		Type:        lectureType,
		RequiresLab: m.RequiresLab,
	}
}

func sectionToEngine(m models.Section) engine.Section {
	return engine.Section{
		ID:       m.ID,
		Name:     m.Name,
		Students: m.Students,
		CourseID: m.CourseID,
		DoctorID: m.DoctorID,
	}
}

func lectureToModel(lec engine.ScheduledLecture) models.ScheduledLecture {
	return models.ScheduledLecture{
		ID:              lec.ID,
		SectionID:       lec.SectionID,
		CourseID:        lec.CourseID,
		DoctorID:        lec.DoctorID,
		RoomID:          lec.RoomID,
		DayOfWeek:       lec.Day.String(),
		StartMinutes:    lec.Start,
		DurationMinutes: lec.Duration,
		Slots:           lec.Slots,
		LectureIndex:    lec.Index,
	}
}

func lectureFromModel(grid engine.Grid, m models.ScheduledLecture) (engine.ScheduledLecture, bool) {
	day, ok := dayToEngine(m.DayOfWeek)
	if !ok {
		return engine.ScheduledLecture{}, false
	}
	slots := m.Slots
	if slots == 0 {
		slots = grid.SlotsFor(m.DurationMinutes)
	}
	return engine.ScheduledLecture{
		ID:        m.ID,
		SectionID: m.SectionID,
		CourseID:  m.CourseID,
		DoctorID:  m.DoctorID,
		RoomID:    m.RoomID,
		Day:       day,
		Start:     m.StartMinutes,
		Duration:  m.DurationMinutes,
		Slots:     slots,
		Index:     m.LectureIndex,
	}, true
}

// nameIndex resolves entity display names for lecture views.
type nameIndex struct {
	doctors  map[string]string
	rooms    map[string]string
	sections map[string]string
	courses  map[string]models.Course
}

func newNameIndex(doctors []models.Doctor, courses []models.Course, sections []models.Section, rooms []models.Room) nameIndex {
	idx := nameIndex{
		doctors:  make(map[string]string, len(doctors)),
		rooms:    make(map[string]string, len(rooms)),
		sections: make(map[string]string, len(sections)),
		courses:  make(map[string]models.Course, len(courses)),
	}
	for _, d := range doctors {
		idx.doctors[d.ID] = d.FullName
	}
	for _, r := range rooms {
		idx.rooms[r.ID] = r.Name
	}
	for _, s := range sections {
		idx.sections[s.ID] = s.Name
	}
	for _, c := range courses {
		idx.courses[c.ID] = c
	}
	return idx
}

func (idx nameIndex) view(m models.ScheduledLecture) dto.LectureView {
	view := dto.LectureView{
		ID:              m.ID,
		SectionID:       m.SectionID,
		SectionName:     idx.sections[m.SectionID],
		CourseID:        m.CourseID,
		DoctorID:        m.DoctorID,
		DoctorName:      idx.doctors[m.DoctorID],
		RoomID:          m.RoomID,
		RoomName:        idx.rooms[m.RoomID],
		Day:             m.DayOfWeek,
		StartTime:       models.FormatClock(m.StartMinutes),
		StartMinutes:    m.StartMinutes,
		DurationMinutes: m.DurationMinutes,
		LectureIndex:    m.LectureIndex,
	}
	if course, ok := idx.courses[m.CourseID]; ok {
		view.CourseCode = course.Code
		view.CourseName = course.Name
	}
	return view
}

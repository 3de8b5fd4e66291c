package engine

// Decompose expands a section into its schedulable lecture units. The policy
// is fixed for the common hour counts and falls back to a generic loop that
// honours the course's preferred lecture length:
//
//	3 hours -> one long unit + one short unit
//	2 hours -> two short units
//	1 hour  -> one short unit
//	other   -> long units (2 hours each) while the course prefers long and
//	           at least 2 hours remain, short units otherwise
//
// The total unit duration always equals the course's weekly hours mapped onto
// the grid's slot lengths. Unit indexes are 0-based per section.
func Decompose(grid Grid, section Section, course Course) []LectureUnit {
	base := LectureUnit{
		SectionID:   section.ID,
		SectionName: section.Name,
		CourseID:    course.ID,
		CourseCode:  course.Code,
		CourseName:  course.Name,
		DoctorID:    section.DoctorID,
		Students:    section.Students,
		RequiresLab: course.RequiresLab,
	}

	short := func(idx int) LectureUnit {
		unit := base
		unit.Type = LectureShort
		unit.Duration = grid.ShortMinutes()
		unit.Index = idx
		return unit
	}
	long := func(idx int) LectureUnit {
		unit := base
		unit.Type = LectureLong
		unit.Duration = grid.LongMinutes()
		unit.Index = idx
		return unit
	}

	switch course.WeeklyHours {
	case 3:
		return []LectureUnit{long(0), short(1)}
	case 2:
		return []LectureUnit{short(0), short(1)}
	case 1:
		return []LectureUnit{short(0)}
	}

	var units []LectureUnit
	remaining := course.WeeklyHours
	for remaining > 0 {
		if course.Type == LectureLong && remaining >= 2 {
			units = append(units, long(len(units)))
			remaining -= 2
			continue
		}
		units = append(units, short(len(units)))
		remaining--
	}
	return units
}

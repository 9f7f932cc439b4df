package schedule

import (
	"math"
	"time"
)

// Exam sitting anchor dates, approximating the council's sitting windows.
// Not configurable per subject.
const (
	mayJuneMonth = time.May
	mayJuneDay   = 12
	januaryDay   = 10
)

const (
	minRunwayWeeks       = 4
	revisionCarveMinimum = 6
	revisionFraction     = 0.12
	maxRevisionWeeks     = 3
)

// Window is the resolved scheduling runway.
type Window struct {
	ExamDate      *time.Time
	TotalWeeks    int
	RevisionWeeks int
	StudyWeeks    int
}

// ResolveWindow computes the runway between this Monday and the exam date,
// or estimates one from content volume when no exam is set. The clock is an
// explicit parameter so the whole pipeline stays deterministic under test.
func ResolveWindow(timeline ExamTimeline, now time.Time, totalEstimatedMinutes, minutesPerWeek int) Window {
	w := Window{}

	if exam := resolveExamDate(timeline, now); !exam.IsZero() {
		w.ExamDate = &exam
		w.TotalWeeks = int(exam.Sub(mondayOf(now)).Hours() / (24 * 7))
		if w.TotalWeeks < 1 {
			w.TotalWeeks = 1
		}
	} else {
		// No deadline: derive the runway from content volume, padding two
		// weeks for the revision tail.
		w.TotalWeeks = minRunwayWeeks
		if minutesPerWeek > 0 {
			volume := int(math.Round(float64(totalEstimatedMinutes)/float64(minutesPerWeek))) + 2
			if volume > w.TotalWeeks {
				w.TotalWeeks = volume
			}
		}
	}

	if w.TotalWeeks >= revisionCarveMinimum {
		w.RevisionWeeks = int(math.Round(float64(w.TotalWeeks) * revisionFraction))
		if w.RevisionWeeks < 1 {
			w.RevisionWeeks = 1
		}
		if w.RevisionWeeks > maxRevisionWeeks {
			w.RevisionWeeks = maxRevisionWeeks
		}
	}
	w.StudyWeeks = w.TotalWeeks - w.RevisionWeeks

	return w
}

// resolveExamDate maps the timeline to an absolute exam date, rolling over
// to next year when this year's sitting has already passed. Returns the
// zero time for no_exam or unrecognized timelines.
func resolveExamDate(timeline ExamTimeline, now time.Time) time.Time {
	var exam time.Time
	switch timeline {
	case TimelineMayJune:
		exam = time.Date(now.Year(), mayJuneMonth, mayJuneDay, 0, 0, 0, 0, now.Location())
	case TimelineJanuary:
		exam = time.Date(now.Year(), time.January, januaryDay, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
	if exam.Before(now) {
		exam = exam.AddDate(1, 0, 0)
	}
	return exam
}

// mondayOf returns midnight on the Monday of the week containing t.
func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

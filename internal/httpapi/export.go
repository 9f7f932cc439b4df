package httpapi

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/csec-tutor/study-server/internal/schedule"
)

const (
	overviewSheet = "Overview"
	scheduleSheet = "Schedule"
	dateLayout    = "2006-01-02"
)

// buildWorkbook renders a schedule as a two-sheet spreadsheet: a summary
// sheet and one row per daily slot.
func buildWorkbook(sched *schedule.StudySchedule) (*excelize.File, error) {
	book := excelize.NewFile()

	if err := book.SetSheetName(book.GetSheetName(0), overviewSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeOverview(book, sched); err != nil {
		book.Close()
		return nil, err
	}

	if _, err := book.NewSheet(scheduleSheet); err != nil {
		book.Close()
		return nil, fmt.Errorf("create schedule sheet: %w", err)
	}
	if err := writeWeeks(book, sched); err != nil {
		book.Close()
		return nil, err
	}

	return book, nil
}

func writeOverview(book *excelize.File, sched *schedule.StudySchedule) error {
	rows := [][]any{
		{"Subject", sched.Subject},
		{"Total weeks", sched.TotalWeeks},
		{"Revision weeks", sched.RevisionWeeks},
		{"Minutes per week", sched.MinutesPerWeek},
		{"Topics per week", sched.TopicsPerWeek},
		{"Generated", sched.GeneratedAt.Format(dateLayout)},
	}
	if sched.ExamDate != nil {
		rows = append(rows,
			[]any{"Exam date", sched.ExamDate.Format(dateLayout)},
			[]any{"Weeks until exam", sched.WeeksUntilExam},
		)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("overview cell: %w", err)
		}
		if err := book.SetSheetRow(overviewSheet, cell, &row); err != nil {
			return fmt.Errorf("write overview row: %w", err)
		}
	}
	return nil
}

func writeWeeks(book *excelize.File, sched *schedule.StudySchedule) error {
	header := []any{"Week", "Type", "Start", "End", "Day", "Topic", "Activity", "Minutes", "Completed"}
	if err := book.SetSheetRow(scheduleSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rowNum := 2
	for _, week := range sched.Weeks {
		for _, slot := range week.Days {
			row := []any{
				week.Number,
				string(week.Type),
				week.StartDate.Format(dateLayout),
				week.EndDate.Format(dateLayout),
				slot.Day.String(),
				slot.Topic,
				string(slot.Activity),
				slot.Minutes,
				slot.Completed,
			}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return fmt.Errorf("schedule cell: %w", err)
			}
			if err := book.SetSheetRow(scheduleSheet, cell, &row); err != nil {
				return fmt.Errorf("write schedule row: %w", err)
			}
			rowNum++
		}
	}
	return nil
}

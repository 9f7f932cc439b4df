package schedule

import (
	"errors"
	"log/slog"
	"math"
	"time"
)

// Catalog resolves a subject's prerequisite table. Subjects without a table
// return an empty map and degrade to input-order scheduling.
type Catalog interface {
	PrerequisitesFor(subject string) map[string][]string
}

// GeneratorConfig holds dependencies for the schedule generator.
type GeneratorConfig struct {
	Catalog Catalog
	Now     func() time.Time // defaults to time.Now
}

// Generator builds study schedules. It holds no mutable state between
// calls; every generation starts from the caller-supplied inputs.
type Generator struct {
	catalog Catalog
	now     func() time.Time
}

// NewGenerator creates a schedule generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Generator{
		catalog: cfg.Catalog,
		now:     now,
	}
}

// Generate produces a complete study schedule for the given subject, topic
// selection, wizard profile and progress snapshot. The result is a derived
// view: recomputing with the same inputs and the same wall-clock week gives
// the same schedule.
func (g *Generator) Generate(subject string, topics []string, wizard WizardProfile, progress []ProgressRecord) *StudySchedule {
	now := g.now()

	var prereqs map[string][]string
	if g.catalog != nil {
		prereqs = g.catalog.PrerequisitesFor(subject)
	}

	ordered, err := OrderTopics(topics, prereqs)
	var cycleErr *CycleError
	if errors.As(err, &cycleErr) {
		// Mis-authored curriculum data, most likely. The sort already broke
		// the cycle, so keep going with the loose order.
		slog.Warn("prerequisite cycle in subject data",
			"subject", subject,
			"cycle", cycleErr.Cycle,
		)
	}

	completed := make(map[string]ProgressRecord, len(progress))
	for _, p := range progress {
		completed[p.Topic] = p
	}

	scheduled := make([]ScheduledTopic, 0, len(ordered))
	totalEstimated := 0
	for _, topic := range ordered {
		depth := Classify(wizard.TopicConfidence[topic], wizard.TargetGrade)
		rec := completed[topic]
		st := ScheduledTopic{
			Topic:             topic,
			Depth:             depth,
			EstimatedMinutes:  EstimateMinutes(depth),
			CoachingCompleted: rec.CoachingCompleted,
			PracticeCompleted: rec.PracticeCompleted,
			ExamCompleted:     rec.ExamCompleted,
		}
		totalEstimated += st.EstimatedMinutes
		scheduled = append(scheduled, st)
	}

	minutesPerWeek := wizard.StudyMinutesPerSession * wizard.StudyDaysPerWeek
	win := ResolveWindow(wizard.ExamTimeline, now, totalEstimated, minutesPerWeek)
	days := studyDays(wizard.StudyDaysPerWeek)

	buckets := packWeeks(scheduled, win.StudyWeeks, minutesPerWeek)

	firstMonday := mondayOf(now)
	weeks := make([]WeekBlock, 0, len(buckets)+win.RevisionWeeks)
	for _, bucket := range buckets {
		week := newWeekBlock(len(weeks)+1, firstMonday, WeekStudy, bucket, now)
		week.Days = expandWeek(bucket, days, wizard.StudyMinutesPerSession)
		week.TotalMinutes = sumSlotMinutes(week.Days)
		weeks = append(weeks, week)
	}

	weak := weakTopics(scheduled)
	for r := 0; r < win.RevisionWeeks; r++ {
		revTopics := revisionWeekTopics(weak, scheduled, r)
		weekType := WeekRevision
		if win.ExamDate != nil && r == win.RevisionWeeks-1 {
			weekType = WeekExamPrep
		}
		week := newWeekBlock(len(weeks)+1, firstMonday, weekType, revTopics, now)
		week.Days = expandRevisionWeek(revTopics, days, wizard.StudyMinutesPerSession)
		week.TotalMinutes = sumSlotMinutes(week.Days)
		weeks = append(weeks, week)
	}

	// Second pass: revision weeks appended after the study weeks can land on
	// the current calendar week, so the flags are recomputed once every
	// block exists.
	for i := range weeks {
		markWeek(&weeks[i], now)
	}

	sched := &StudySchedule{
		Subject:        subject,
		Weeks:          weeks,
		TotalWeeks:     len(weeks),
		MinutesPerWeek: minutesPerWeek,
		TopicsPerWeek:  topicsPerWeek(len(scheduled), len(buckets)),
		RevisionWeeks:  win.RevisionWeeks,
		ExamDate:       win.ExamDate,
		GeneratedAt:    now,
	}
	if win.ExamDate != nil {
		sched.WeeksUntilExam = win.TotalWeeks
	}

	slog.Info("study schedule generated",
		"subject", subject,
		"topics", len(scheduled),
		"weeks", sched.TotalWeeks,
		"revision_weeks", sched.RevisionWeeks,
	)
	return sched
}

// newWeekBlock builds a week block at the given 1-based position with
// provisional current/past flags.
func newWeekBlock(number int, firstMonday time.Time, weekType WeekType, topics []ScheduledTopic, now time.Time) WeekBlock {
	start := firstMonday.AddDate(0, 0, 7*(number-1))
	week := WeekBlock{
		Number:    number,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 6),
		Type:      weekType,
		Topics:    topics,
	}
	markWeek(&week, now)
	return week
}

// markWeek recomputes a week's current/past flags against the given clock.
func markWeek(w *WeekBlock, now time.Time) {
	endExclusive := w.StartDate.AddDate(0, 0, 7)
	w.IsCurrent = !now.Before(w.StartDate) && now.Before(endExclusive)
	w.IsPast = !now.Before(endExclusive)
}

func sumSlotMinutes(slots []DailySlot) int {
	total := 0
	for _, s := range slots {
		total += s.Minutes
	}
	return total
}

func topicsPerWeek(topics, studyWeeks int) int {
	if studyWeeks == 0 {
		return 0
	}
	return int(math.Ceil(float64(topics) / float64(studyWeeks)))
}

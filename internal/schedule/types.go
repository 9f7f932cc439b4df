// Package schedule generates week-by-week study schedules from a learner's
// topic selection, confidence profile and time budget. The generator is a
// pure computation: it is handed already-fetched inputs and returns a value,
// so it is safe to call concurrently.
package schedule

import "time"

// Confidence is a learner's self-reported mastery of a topic.
type Confidence string

const (
	ConfidenceNoExposure    Confidence = "no_exposure"
	ConfidenceStruggling    Confidence = "struggling"
	ConfidenceSomeKnowledge Confidence = "some_knowledge"
	ConfidenceConfident     Confidence = "confident"
)

// TargetGrade is the learner's goal outcome band.
type TargetGrade string

const (
	Grade1 TargetGrade = "grade_1"
	Grade2 TargetGrade = "grade_2"
	Grade3 TargetGrade = "grade_3"
)

// ExamTimeline is the coarse exam sitting chosen during onboarding.
type ExamTimeline string

const (
	TimelineMayJune ExamTimeline = "may_june"
	TimelineJanuary ExamTimeline = "january"
	TimelineNoExam  ExamTimeline = "no_exam"
)

// DepthTier is the amount of instructional depth budgeted for a topic.
type DepthTier string

const (
	DepthFoundational DepthTier = "foundational"
	DepthStandard     DepthTier = "standard"
	DepthIntensive    DepthTier = "intensive"
)

// WeekType classifies a week block.
type WeekType string

const (
	WeekStudy    WeekType = "study"
	WeekRevision WeekType = "revision"
	WeekExamPrep WeekType = "exam_prep"
)

// Activity is the kind of work a daily slot holds.
type Activity string

const (
	ActivityCoaching Activity = "coaching"
	ActivityPractice Activity = "practice"
	ActivityExam     Activity = "exam"
	ActivityRevision Activity = "revision"
)

// WizardProfile is the onboarding profile supplied by the caller.
type WizardProfile struct {
	TargetGrade            TargetGrade           `json:"target_grade"`
	ProficiencyLevel       string                `json:"proficiency_level"`
	TopicConfidence        map[string]Confidence `json:"topic_confidence"`
	ExamTimeline           ExamTimeline          `json:"exam_timeline"`
	StudyMinutesPerSession int                   `json:"study_minutes_per_session"`
	StudyDaysPerWeek       int                   `json:"study_days_per_week"`
	LearningStyle          string                `json:"learning_style"`
}

// ProgressRecord is the resolved completion state for one topic.
type ProgressRecord struct {
	Topic             string `json:"topic"`
	CoachingCompleted bool   `json:"coaching_completed"`
	PracticeCompleted bool   `json:"practice_completed"`
	ExamCompleted     bool   `json:"exam_completed"`
}

// ScheduledTopic is a topic with its derived depth, time estimate and
// completion state. It is rebuilt on every generation call and never stored.
type ScheduledTopic struct {
	Topic             string    `json:"topic"`
	Depth             DepthTier `json:"depth"`
	EstimatedMinutes  int       `json:"estimated_minutes"`
	CoachingCompleted bool      `json:"coaching_completed"`
	PracticeCompleted bool      `json:"practice_completed"`
	ExamCompleted     bool      `json:"exam_completed"`
}

// DailySlot is one atomic unit of planned work on one study day.
type DailySlot struct {
	Day       time.Weekday `json:"day"`
	Topic     string       `json:"topic"`
	Activity  Activity     `json:"activity"`
	Minutes   int          `json:"minutes"`
	Completed bool         `json:"completed"`
}

// WeekBlock is one Monday-to-Sunday week of the schedule.
type WeekBlock struct {
	Number       int              `json:"number"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      time.Time        `json:"end_date"`
	IsCurrent    bool             `json:"is_current"`
	IsPast       bool             `json:"is_past"`
	Type         WeekType         `json:"type"`
	Topics       []ScheduledTopic `json:"topics"`
	Days         []DailySlot      `json:"days"`
	TotalMinutes int              `json:"total_minutes"`
}

// StudySchedule is the aggregate output of one generation call.
type StudySchedule struct {
	Subject        string      `json:"subject"`
	Weeks          []WeekBlock `json:"weeks"`
	TotalWeeks     int         `json:"total_weeks"`
	MinutesPerWeek int         `json:"minutes_per_week"`
	TopicsPerWeek  int         `json:"topics_per_week"`
	RevisionWeeks  int         `json:"revision_weeks"`
	ExamDate       *time.Time  `json:"exam_date,omitempty"`
	WeeksUntilExam int         `json:"weeks_until_exam"`
	GeneratedAt    time.Time   `json:"generated_at"`
}

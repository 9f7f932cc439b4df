package schedule

import "time"

// dayPreference is the fixed order in which weekdays are handed out when a
// learner picks how many days per week to study.
var dayPreference = []time.Weekday{
	time.Monday,
	time.Wednesday,
	time.Friday,
	time.Tuesday,
	time.Thursday,
	time.Saturday,
	time.Sunday,
}

// studyDays returns the learner's study days, chosen by preference order.
func studyDays(daysPerWeek int) []time.Weekday {
	if daysPerWeek < 0 {
		daysPerWeek = 0
	}
	if daysPerWeek > len(dayPreference) {
		daysPerWeek = len(dayPreference)
	}
	return dayPreference[:daysPerWeek]
}

// expandWeek flattens a study week's topics into daily slots. Each topic
// contributes coaching, practice and exam activities in that order; the
// flat queue is dealt round-robin across the study days, revisiting days
// when the queue is longer than the day list. Slot minutes are capped at
// the session length; the excess is truncated, not carried over.
func expandWeek(topics []ScheduledTopic, days []time.Weekday, minutesPerSession int) []DailySlot {
	if len(days) == 0 {
		return nil
	}

	var slots []DailySlot
	next := 0
	for _, t := range topics {
		stages := []struct {
			activity Activity
			base     int
			done     bool
		}{
			{ActivityCoaching, coachingBaseMinutes, t.CoachingCompleted},
			{ActivityPractice, practiceBaseMinutes, t.PracticeCompleted},
			{ActivityExam, examBaseMinutes, t.ExamCompleted},
		}
		for _, s := range stages {
			minutes := stageMinutes(s.base, t.Depth)
			if minutesPerSession > 0 && minutes > minutesPerSession {
				minutes = minutesPerSession
			}
			slots = append(slots, DailySlot{
				Day:       days[next%len(days)],
				Topic:     t.Topic,
				Activity:  s.activity,
				Minutes:   minutes,
				Completed: s.done,
			})
			next++
		}
	}
	return slots
}

// expandRevisionWeek fills a revision week with one revision slot per study
// day, cycling the available topics.
func expandRevisionWeek(topics []ScheduledTopic, days []time.Weekday, minutesPerSession int) []DailySlot {
	if len(days) == 0 || len(topics) == 0 {
		return nil
	}

	slots := make([]DailySlot, 0, len(days))
	for i, d := range days {
		slots = append(slots, DailySlot{
			Day:      d,
			Topic:    topics[i%len(topics)].Topic,
			Activity: ActivityRevision,
			Minutes:  minutesPerSession,
		})
	}
	return slots
}

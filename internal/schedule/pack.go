package schedule

// Packing tolerances. A week may run 20% over its nominal minute budget
// before it is considered full; the overflow repairs relax even that.
const (
	weekSlackFactor    = 1.2
	lastWeekTopicLimit = 3
	overflowWeekTopics = 2
)

// packWeeks bins the prerequisite-ordered topics into consecutive week
// buckets under the per-week minute budget. Greedy first-fit: a topic joins
// the current week while the bucket is empty or the budget (plus slack)
// still holds. If the week slots run out with topics left, the leftovers
// are squeezed into the last week while it holds fewer than three topics,
// then drained two at a time into synthesized trailing weeks. Every topic
// is placed exactly once.
func packWeeks(ordered []ScheduledTopic, studyWeeks, minutesPerWeek int) [][]ScheduledTopic {
	budget := float64(minutesPerWeek) * weekSlackFactor

	var weeks [][]ScheduledTopic
	idx := 0
	for idx < len(ordered) && len(weeks) < studyWeeks {
		var bucket []ScheduledTopic
		minutes := 0
		for idx < len(ordered) {
			t := ordered[idx]
			if len(bucket) > 0 && float64(minutes+t.EstimatedMinutes) > budget {
				break
			}
			bucket = append(bucket, t)
			minutes += t.EstimatedMinutes
			idx++
		}
		weeks = append(weeks, bucket)
	}

	// Repair 1: squeeze overflow into the last packed week while it holds
	// fewer than three topics, minute budget notwithstanding.
	if n := len(weeks); n > 0 {
		for idx < len(ordered) && len(weeks[n-1]) < lastWeekTopicLimit {
			weeks[n-1] = append(weeks[n-1], ordered[idx])
			idx++
		}
	}

	// Repair 2: drain whatever is left into synthesized trailing weeks,
	// two topics apiece.
	for idx < len(ordered) {
		end := idx + overflowWeekTopics
		if end > len(ordered) {
			end = len(ordered)
		}
		weeks = append(weeks, append([]ScheduledTopic{}, ordered[idx:end]...))
		idx = end
	}

	return weeks
}

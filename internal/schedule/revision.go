package schedule

const (
	revisionSliceSize = 3
	revisionPadLimit  = 2
)

// weakTopics selects the topics that revision weeks cycle through: anything
// with coaching or practice still incomplete, or anything scheduled at
// foundational depth.
func weakTopics(topics []ScheduledTopic) []ScheduledTopic {
	var weak []ScheduledTopic
	for _, t := range topics {
		if !t.CoachingCompleted || !t.PracticeCompleted || t.Depth == DepthFoundational {
			weak = append(weak, t)
		}
	}
	return weak
}

// revisionSlice returns the rotating topic slice for revision week r. Short
// slices are padded by re-appending from the front of the weak list, at
// most two extra, to keep each week near three topics. With no weak topics
// at all the caller falls back to the first topics overall.
func revisionSlice(weak []ScheduledTopic, r int) []ScheduledTopic {
	if len(weak) == 0 {
		return nil
	}

	var out []ScheduledTopic
	start := r * revisionSliceSize
	if start < len(weak) {
		end := start + revisionSliceSize
		if end > len(weak) {
			end = len(weak)
		}
		out = append(out, weak[start:end]...)
	}
	for i := 0; len(out) < revisionSliceSize && i < revisionPadLimit; i++ {
		out = append(out, weak[i%len(weak)])
	}
	return out
}

// revisionWeekTopics resolves the topics for revision week r, falling back
// to the first topics overall when nothing is weak.
func revisionWeekTopics(weak, all []ScheduledTopic, r int) []ScheduledTopic {
	if topics := revisionSlice(weak, r); len(topics) > 0 {
		return topics
	}
	if len(all) > revisionSliceSize {
		return all[:revisionSliceSize]
	}
	return all
}

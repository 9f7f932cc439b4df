package schedule

import (
	"fmt"
	"strings"
)

// CycleError reports a prerequisite cycle found while ordering topics.
// Ordering still succeeds: the back-edge that closes the cycle is dropped,
// so the returned order is a complete permutation of the input.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("prerequisite cycle: %s", strings.Join(e.Cycle, " -> "))
}

// OrderTopics returns the topics sorted so that every topic appears after
// the prerequisites it has within the selection. Edges pointing at topics
// outside the selection are ignored, and topics without prerequisite data
// keep their input order. A non-nil error is always a *CycleError; the
// order it accompanies is still usable.
func OrderTopics(topics []string, prereqs map[string][]string) ([]string, error) {
	selected := make(map[string]bool, len(topics))
	for _, t := range topics {
		selected[t] = true
	}

	visited := make(map[string]bool, len(topics))
	inProgress := make(map[string]bool)
	order := make([]string, 0, len(topics))
	var cycle []string

	var visit func(topic string, path []string)
	visit = func(topic string, path []string) {
		if visited[topic] {
			// A back-edge to an in-progress topic closes a cycle. Record the
			// first one and carry on; the visited guard already broke it.
			if inProgress[topic] && cycle == nil {
				cycle = closeCycle(path, topic)
			}
			return
		}
		visited[topic] = true
		inProgress[topic] = true
		path = append(path, topic)
		for _, p := range prereqs[topic] {
			if selected[p] {
				visit(p, path)
			}
		}
		delete(inProgress, topic)
		order = append(order, topic)
	}

	for _, t := range topics {
		visit(t, nil)
	}

	if cycle != nil {
		return order, &CycleError{Cycle: cycle}
	}
	return order, nil
}

// closeCycle trims the visit path down to the cycle and closes it.
func closeCycle(path []string, repeated string) []string {
	start := 0
	for i, t := range path {
		if t == repeated {
			start = i
			break
		}
	}
	cycle := append([]string{}, path[start:]...)
	return append(cycle, repeated)
}

package schedule

import "math"

// Per-stage base costs in minutes. Every topic is budgeted one coaching,
// one practice and one exam-technique session.
const (
	coachingBaseMinutes = 45
	practiceBaseMinutes = 30
	examBaseMinutes     = 60

	stageBaseTotal = coachingBaseMinutes + practiceBaseMinutes + examBaseMinutes
)

// Classify maps a topic confidence and the learner-wide target grade to a
// depth tier. Unknown or missing confidence is treated as some_knowledge.
func Classify(confidence Confidence, target TargetGrade) DepthTier {
	switch confidence {
	case ConfidenceNoExposure, ConfidenceStruggling:
		if target == Grade3 {
			return DepthStandard
		}
		return DepthFoundational
	case ConfidenceConfident:
		// Learners aiming for the top grade still get full depth on
		// confident topics to cement exam technique.
		if target == Grade1 || target == Grade3 {
			return DepthStandard
		}
		return DepthIntensive
	default:
		return DepthStandard
	}
}

// Multiplier returns the time multiplier for a depth tier.
func (d DepthTier) Multiplier() float64 {
	switch d {
	case DepthFoundational:
		return 1.8
	case DepthIntensive:
		return 0.7
	default:
		return 1.0
	}
}

// EstimateMinutes returns the total budgeted minutes for a topic at the
// given depth. This is a planning budget, never reconciled against actual
// time spent.
func EstimateMinutes(d DepthTier) int {
	return int(math.Round(stageBaseTotal * d.Multiplier()))
}

// stageMinutes returns the budgeted minutes for one stage of a topic.
func stageMinutes(base int, d DepthTier) int {
	return int(math.Round(float64(base) * d.Multiplier()))
}

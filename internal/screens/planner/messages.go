package planner

import "github.com/edumind/edumind/internal/studyplan"

// planReadyMsg is sent when plan generation completes.
type planReadyMsg struct {
	Plan []studyplan.DailyPlan
	Err  error
}

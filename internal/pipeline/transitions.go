package pipeline

import (
	"fmt"
	"slices"

	"market-advisor/internal/types"
)

var transitions = map[types.State][]types.State{
	// Idle skips straight to BuildingReport when market data is supplied.
	types.StateIdle:            {types.StateFetchingData, types.StateBuildingReport, types.StateCancelled},
	types.StateFetchingData:    {types.StateBuildingReport, types.StateCancelled},
	types.StateBuildingReport:  {types.StateComposingPrompt, types.StateCancelled},
	types.StateComposingPrompt: {types.StateAwaitingAdvice, types.StateCancelled},
	types.StateAwaitingAdvice:  {types.StateParsingResult, types.StateFailed, types.StateCancelled},
	types.StateParsingResult:   {types.StateDone, types.StateCancelled},
}

// CanTransition reports whether the run may move from one state to another.
func CanTransition(from, to types.State) bool {
	return slices.Contains(transitions[from], to)
}

// IllegalTransitionError means the orchestrator tried to skip or repeat a stage.
type IllegalTransitionError struct {
	From, To types.State
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

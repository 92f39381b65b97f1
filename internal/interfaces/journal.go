package interfaces

import "market-advisor/internal/types"

// AdviceJournal persists finished pipeline runs.
type AdviceJournal interface {
	Append(result *types.RunResult) error
}

package interfaces

import (
	"context"

	"market-advisor/internal/types"
)

type Pipeline interface {
	Run(ctx context.Context, symbol string) (*types.RunResult, error)
}

package usage

import "github.com/kailas-cloud/findmyfood/internal/usecase/generation"

// BudgetReader provides read-only access to content token budget state.
type BudgetReader interface {
	Snapshot() generation.Snapshot
}

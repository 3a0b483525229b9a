package audit

import (
	"sort"

	"fhescope/internal/model"
)

// Accumulator tallies decoded operations per kind across a run.
type Accumulator struct {
	counts map[string]*model.OperationCount
}

func NewAccumulator() *Accumulator {
	return &Accumulator{counts: make(map[string]*model.OperationCount)}
}

// Add records one decoded operation.
func (a *Accumulator) Add(op model.StoredOperation) {
	count, ok := a.counts[op.OpName]
	if !ok {
		a.counts[op.OpName] = &model.OperationCount{
			ChainID:    op.ChainID,
			OpName:     op.OpName,
			Count:      1,
			FirstBlock: op.BlockNumber,
			LastBlock:  op.BlockNumber,
		}
		return
	}

	count.Count++
	if op.BlockNumber < count.FirstBlock {
		count.FirstBlock = op.BlockNumber
	}
	if op.BlockNumber > count.LastBlock {
		count.LastBlock = op.BlockNumber
	}
}

// Counts returns the accumulated totals ordered by operation name.
func (a *Accumulator) Counts() []model.OperationCount {
	out := make([]model.OperationCount, 0, len(a.counts))
	for _, count := range a.counts {
		out = append(out, *count)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OpName < out[j].OpName
	})
	return out
}

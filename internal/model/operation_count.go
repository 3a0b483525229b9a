package model

// OperationCount aggregates how often an operation kind occurred over a
// block span.
type OperationCount struct {
	ChainID    uint64
	OpName     string
	Count      uint64
	FirstBlock uint64
	LastBlock  uint64
}

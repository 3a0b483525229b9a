package model

import "encoding/json"

// OperationRecord is a decoded FHE operation enriched with chain context,
// as written to the operations JSONL stream.
type OperationRecord struct {
	ChainID      uint64      `json:"chain_id"`
	BlockNumber  uint64      `json:"block_number"`
	BlockHash    string      `json:"block_hash"`
	TxHash       string      `json:"tx_hash,omitempty"`
	LogIndex     uint64      `json:"log_index"`
	Address      string      `json:"address"`
	OpName       string      `json:"op_name"`
	Caller       string      `json:"caller,omitempty"`
	ResultHandle string      `json:"result_handle,omitempty"`
	Timestamp    uint64      `json:"timestamp"`
	Decoded      interface{} `json:"decoded"`
	Raw          *RawLogRef  `json:"raw,omitempty"`
}

// RawLogRef keeps a minimal raw reference for traceability.
type RawLogRef struct {
	Topic0 string `json:"topic0"`
	Data   string `json:"data"`
}

// StoredOperation is the JSON representation used when reading operation
// records back for auditing.
type StoredOperation struct {
	ChainID      uint64          `json:"chain_id"`
	BlockNumber  uint64          `json:"block_number"`
	BlockHash    string          `json:"block_hash"`
	TxHash       string          `json:"tx_hash,omitempty"`
	LogIndex     uint64          `json:"log_index"`
	Address      string          `json:"address"`
	OpName       string          `json:"op_name"`
	Caller       string          `json:"caller,omitempty"`
	ResultHandle string          `json:"result_handle,omitempty"`
	Timestamp    uint64          `json:"timestamp"`
	Decoded      json.RawMessage `json:"decoded"`
	Raw          *RawLogRef      `json:"raw,omitempty"`
}

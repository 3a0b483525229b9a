package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLogRecordJSONRoundTrip(t *testing.T) {
	original := LogRecord{
		ChainID:     8009,
		BlockNumber: 1204,
		BlockHash:   "0x8a1f3c",
		TxHash:      "0x2222222222222222222222222222222222222222222222222222222222222222",
		TxIndex:     4,
		LogIndex:    9,
		Address:     "0x5555555555555555555555555555555555555555",
		Topics: []string{
			"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			"0x0000000000000000000000001111111111111111111111111111111111111111",
		},
		Data:       "0xdeadbeef",
		Removed:    false,
		Timestamp:  1714000000,
		IngestedAt: "2024-04-25T00:00:00Z",
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded LogRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestLogRecordUnmarshalPartial(t *testing.T) {
	// Records produced before timestamps were captured should still load.
	line := []byte(`{"chain_id":8009,"block_number":77,"log_index":0,` +
		`"address":"0x5555555555555555555555555555555555555555",` +
		`"topics":["0xabc"],"data":"0x"}`)

	var record LogRecord
	if err := json.Unmarshal(line, &record); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if record.BlockNumber != 77 || record.Timestamp != 0 || record.TxHash != "" {
		t.Fatalf("partial record mismatch: %+v", record)
	}
}

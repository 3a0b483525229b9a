package fhe

import (
	"bytes"
	"testing"

	"fhescope/internal/model"
)

func TestBuildRecordBinary(t *testing.T) {
	decoder := NewDecoder()
	data := bytes.Join([][]byte{handleWord(1), handleWord(2), tagWord(1), handleWord(3)}, nil)
	record := makeRecord([]string{sigTopic(t, "FheSub"), callerTopic(testCaller)}, data)

	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	out := BuildRecord(record, op)
	if out.OpName != "FheSub" {
		t.Fatalf("op name %s", out.OpName)
	}
	if out.Caller != testCaller.Hex() {
		t.Fatalf("caller %s", out.Caller)
	}
	if out.ResultHandle == "" {
		t.Fatalf("result handle should be set")
	}
	if out.ChainID != record.ChainID || out.BlockNumber != record.BlockNumber || out.LogIndex != record.LogIndex {
		t.Fatalf("chain context mismatch")
	}
	if out.Raw == nil || out.Raw.Topic0 != record.Topics[0] || out.Raw.Data != record.Data {
		t.Fatalf("raw reference mismatch")
	}

	payload, ok := out.Decoded.(model.BinaryOpData)
	if !ok {
		t.Fatalf("expected BinaryOpData, got %T", out.Decoded)
	}
	if payload.ScalarByte != 1 {
		t.Fatalf("scalar byte %d", payload.ScalarByte)
	}
}

func TestBuildRecordUnknown(t *testing.T) {
	decoder := NewDecoder()
	zero := "0x0000000000000000000000000000000000000000000000000000000000000000"
	record := makeRecord([]string{zero}, []byte{0xca, 0xfe})

	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	out := BuildRecord(record, op)
	if out.OpName != "Unknown" {
		t.Fatalf("op name %s", out.OpName)
	}
	if out.Caller != "" || out.ResultHandle != "" {
		t.Fatalf("unknown record should have no caller or result handle")
	}

	payload, ok := out.Decoded.(model.UnknownData)
	if !ok {
		t.Fatalf("expected UnknownData, got %T", out.Decoded)
	}
	if payload.Data != "0xcafe" {
		t.Fatalf("payload data %s", payload.Data)
	}
}

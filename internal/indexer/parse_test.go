package indexer

import "testing"

func TestParseAddresses(t *testing.T) {
	got, err := ParseAddresses([]string{" 0x1111111111111111111111111111111111111111 ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 address, got %d", len(got))
	}

	if _, err := ParseAddresses([]string{"not-an-address"}); err == nil {
		t.Fatalf("expected error for invalid address")
	}
}

func TestParseTopic0(t *testing.T) {
	topic := "0x1111111111111111111111111111111111111111111111111111111111111111"
	got, err := ParseTopic0([]string{topic, " "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Hex() != topic {
		t.Fatalf("topic mismatch: %+v", got)
	}

	if _, err := ParseTopic0([]string{"0x1234"}); err == nil {
		t.Fatalf("expected error for short topic")
	}
}

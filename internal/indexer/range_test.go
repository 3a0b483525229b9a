package indexer

import (
	"reflect"
	"testing"
)

func TestSplitRange(t *testing.T) {
	cases := []struct {
		name      string
		from, to  uint64
		batchSize uint64
		want      []BlockRange
	}{
		{
			name: "even split", from: 0, to: 5999, batchSize: 2000,
			want: []BlockRange{{0, 1999}, {2000, 3999}, {4000, 5999}},
		},
		{
			name: "uneven tail", from: 100, to: 104, batchSize: 2,
			want: []BlockRange{{100, 101}, {102, 103}, {104, 104}},
		},
		{
			name: "single block", from: 7, to: 7, batchSize: 1000,
			want: []BlockRange{{7, 7}},
		},
		{
			name: "batch larger than span", from: 10, to: 12, batchSize: 1 << 32,
			want: []BlockRange{{10, 12}},
		},
	}

	for _, tc := range cases {
		got, err := SplitRange(tc.from, tc.to, tc.batchSize)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: ranges mismatch: %+v != %+v", tc.name, got, tc.want)
		}
	}
}

func TestSplitRangeInvalid(t *testing.T) {
	if _, err := SplitRange(10, 9, 1); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, err := SplitRange(1, 10, 0); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
}

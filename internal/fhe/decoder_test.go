package fhe

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"fhescope/internal/model"
)

var testCaller = common.HexToAddress("0x1111111111111111111111111111111111111111")

func handleWord(fill byte) []byte {
	word := make([]byte, 32)
	for i := range word {
		word[i] = fill
	}
	return word
}

// tagWord left-pads a single byte value, placing it in the last byte.
func tagWord(value byte) []byte {
	word := make([]byte, 32)
	word[31] = value
	return word
}

func uintWord(value uint64) []byte {
	return common.BigToHash(new(big.Int).SetUint64(value)).Bytes()
}

func callerTopic(addr common.Address) string {
	return common.BytesToHash(addr.Bytes()).Hex()
}

func sigTopic(t *testing.T, name string) string {
	t.Helper()
	topic, ok := SignatureOf(name)
	if !ok {
		t.Fatalf("no signature registered for %s", name)
	}
	return topic.Hex()
}

func makeRecord(topics []string, data []byte) model.LogRecord {
	return model.LogRecord{
		ChainID:     31337,
		BlockNumber: 1204,
		BlockHash:   "0xb10c",
		TxHash:      "0x2222222222222222222222222222222222222222222222222222222222222222",
		LogIndex:    3,
		Address:     "0x3333333333333333333333333333333333333333",
		Topics:      topics,
		Data:        hexutil.Encode(data),
	}
}

func TestDecodeBinaryRoundTrip(t *testing.T) {
	decoder := NewDecoder()

	lhs := handleWord(0xa1)
	rhs := handleWord(0xb2)
	result := handleWord(0xc3)
	data := bytes.Join([][]byte{lhs, rhs, tagWord(1), result}, nil)

	for kind, name := range binaryOpNames {
		record := makeRecord([]string{sigTopic(t, name), callerTopic(testCaller)}, data)

		op, err := decoder.Decode(record)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", name, err)
		}

		binary, ok := op.(*BinaryOp)
		if !ok {
			t.Fatalf("%s: expected *BinaryOp, got %T", name, op)
		}
		if binary.Kind != BinaryOpKind(kind) {
			t.Fatalf("%s: kind mismatch: %d", name, binary.Kind)
		}
		if op.Name() != name {
			t.Fatalf("name mismatch: %s != %s", op.Name(), name)
		}
		if binary.Lhs != common.BytesToHash(lhs) || binary.Rhs != common.BytesToHash(rhs) {
			t.Fatalf("%s: operand mismatch", name)
		}
		if binary.ScalarByte != 1 {
			t.Fatalf("%s: scalar byte %d, want 1", name, binary.ScalarByte)
		}
		if binary.Result != common.BytesToHash(result) {
			t.Fatalf("%s: result mismatch", name)
		}
		if handle, ok := op.ResultHandle(); !ok || handle != common.BytesToHash(result) {
			t.Fatalf("%s: result handle accessor mismatch", name)
		}
		if caller, ok := op.Caller(); !ok || caller != testCaller {
			t.Fatalf("%s: caller accessor mismatch", name)
		}
	}
}

func TestDecodeBinaryLengthBoundary(t *testing.T) {
	decoder := NewDecoder()
	topics := []string{sigTopic(t, "FheAdd"), callerTopic(testCaller)}

	if _, err := decoder.Decode(makeRecord(topics, make([]byte, 127))); err == nil {
		t.Fatalf("127-byte payload should fail")
	}
	if _, err := decoder.Decode(makeRecord(topics, make([]byte, 128))); err != nil {
		t.Fatalf("128-byte payload should decode: %v", err)
	}
}

func TestDecodeUnary(t *testing.T) {
	decoder := NewDecoder()
	operand := handleWord(0x0d)
	result := handleWord(0x0e)
	data := bytes.Join([][]byte{operand, result}, nil)

	for _, tc := range []struct {
		name string
		kind UnaryOpKind
	}{
		{"FheNeg", UnaryNeg},
		{"FheNot", UnaryNot},
	} {
		record := makeRecord([]string{sigTopic(t, tc.name), callerTopic(testCaller)}, data)
		op, err := decoder.Decode(record)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", tc.name, err)
		}

		unary, ok := op.(*UnaryOp)
		if !ok {
			t.Fatalf("%s: expected *UnaryOp, got %T", tc.name, op)
		}
		if unary.Kind != tc.kind || op.Name() != tc.name {
			t.Fatalf("%s: kind/name mismatch", tc.name)
		}
		if unary.Operand != common.BytesToHash(operand) || unary.Result != common.BytesToHash(result) {
			t.Fatalf("%s: field mismatch", tc.name)
		}
	}
}

func TestDecodeTrivialEncrypt(t *testing.T) {
	decoder := NewDecoder()
	plaintext, ok := new(big.Int).SetString("340282366920938463463374607431768211457", 10)
	if !ok {
		t.Fatalf("bad plaintext literal")
	}
	result := handleWord(0x77)
	data := bytes.Join([][]byte{common.BigToHash(plaintext).Bytes(), tagWord(5), result}, nil)

	record := makeRecord([]string{sigTopic(t, "TrivialEncrypt"), callerTopic(testCaller)}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	enc, ok := op.(*TrivialEncrypt)
	if !ok {
		t.Fatalf("expected *TrivialEncrypt, got %T", op)
	}
	if enc.Plaintext.Cmp(plaintext) != 0 {
		t.Fatalf("plaintext mismatch: %s", enc.Plaintext)
	}
	if enc.ToType != TypeUint64 {
		t.Fatalf("to type %s, want euint64", enc.ToType)
	}
	if enc.Result != common.BytesToHash(result) {
		t.Fatalf("result mismatch")
	}
}

func TestDecodeCast(t *testing.T) {
	decoder := NewDecoder()
	operand := handleWord(0x42)
	result := handleWord(0x43)
	data := bytes.Join([][]byte{operand, tagWord(0), result}, nil)

	record := makeRecord([]string{sigTopic(t, "Cast"), callerTopic(testCaller)}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	cast, ok := op.(*Cast)
	if !ok {
		t.Fatalf("expected *Cast, got %T", op)
	}
	if cast.Operand != common.BytesToHash(operand) || cast.ToType != TypeBool {
		t.Fatalf("field mismatch")
	}
}

func TestDecodeCastInvalidTypeTag(t *testing.T) {
	decoder := NewDecoder()
	data := bytes.Join([][]byte{handleWord(0x42), tagWord(12), handleWord(0x43)}, nil)

	record := makeRecord([]string{sigTopic(t, "Cast"), callerTopic(testCaller)}, data)
	_, err := decoder.Decode(record)
	if err == nil {
		t.Fatalf("type tag 12 should fail")
	}
	if !strings.Contains(err.Error(), "unrecognized type tag") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeIfThenElse(t *testing.T) {
	decoder := NewDecoder()
	control := handleWord(0x01)
	ifTrue := handleWord(0x02)
	ifFalse := handleWord(0x03)
	result := handleWord(0x04)
	data := bytes.Join([][]byte{control, ifTrue, ifFalse, result}, nil)

	record := makeRecord([]string{sigTopic(t, "FheIfThenElse"), callerTopic(testCaller)}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	ite, ok := op.(*IfThenElse)
	if !ok {
		t.Fatalf("expected *IfThenElse, got %T", op)
	}
	if ite.Control != common.BytesToHash(control) ||
		ite.IfTrue != common.BytesToHash(ifTrue) ||
		ite.IfFalse != common.BytesToHash(ifFalse) ||
		ite.Result != common.BytesToHash(result) {
		t.Fatalf("field mismatch")
	}
}

func TestDecodeVerifyInputWithProof(t *testing.T) {
	decoder := NewDecoder()
	user := common.HexToAddress("0x4444444444444444444444444444444444444444")
	proof := []byte{0xde, 0xad, 0xbe, 0xef, 0x01}

	inputHandle := handleWord(0x10)
	result := handleWord(0x20)
	fixed := bytes.Join([][]byte{
		inputHandle,
		common.BytesToHash(user.Bytes()).Bytes(),
		uintWord(160),
		tagWord(2),
		result,
	}, nil)

	tail := append(uintWord(uint64(len(proof))), proof...)
	data := append(fixed, tail...)

	record := makeRecord([]string{sigTopic(t, "VerifyInput"), callerTopic(testCaller)}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	verify, ok := op.(*VerifyInput)
	if !ok {
		t.Fatalf("expected *VerifyInput, got %T", op)
	}
	if verify.InputHandle != common.BytesToHash(inputHandle) {
		t.Fatalf("input handle mismatch")
	}
	if verify.UserAddress != user {
		t.Fatalf("user address mismatch: %s", verify.UserAddress.Hex())
	}
	if !bytes.Equal(verify.InputProof, proof) {
		t.Fatalf("proof mismatch: %x", verify.InputProof)
	}
	if verify.InputType != TypeUint8 {
		t.Fatalf("input type %s, want euint8", verify.InputType)
	}
	if verify.Result != common.BytesToHash(result) {
		t.Fatalf("result mismatch")
	}
}

func TestDecodeVerifyInputProofOutOfRange(t *testing.T) {
	decoder := NewDecoder()
	user := common.HexToAddress("0x4444444444444444444444444444444444444444")

	data := bytes.Join([][]byte{
		handleWord(0x10),
		common.BytesToHash(user.Bytes()).Bytes(),
		uintWord(4096),
		tagWord(2),
		handleWord(0x20),
	}, nil)

	record := makeRecord([]string{sigTopic(t, "VerifyInput"), callerTopic(testCaller)}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("out-of-range proof offset should still decode: %v", err)
	}

	verify, ok := op.(*VerifyInput)
	if !ok {
		t.Fatalf("expected *VerifyInput, got %T", op)
	}
	if len(verify.InputProof) != 0 {
		t.Fatalf("proof should be empty, got %x", verify.InputProof)
	}
	if verify.UserAddress != user || verify.InputType != TypeUint8 {
		t.Fatalf("fixed fields should survive an out-of-range proof tail")
	}
}

func TestDecodeVerifyInputProofLengthTruncated(t *testing.T) {
	decoder := NewDecoder()

	// Tail declares 64 bytes of proof but only 2 follow.
	fixed := bytes.Join([][]byte{
		handleWord(0x10),
		common.BytesToHash(testCaller.Bytes()).Bytes(),
		uintWord(160),
		tagWord(0),
		handleWord(0x20),
	}, nil)
	tail := append(uintWord(64), 0xaa, 0xbb)
	data := append(fixed, tail...)

	record := makeRecord([]string{sigTopic(t, "VerifyInput"), callerTopic(testCaller)}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("truncated proof tail should still decode: %v", err)
	}
	if proof := op.(*VerifyInput).InputProof; len(proof) != 0 {
		t.Fatalf("proof should be empty, got %x", proof)
	}
}

func TestDecodeRand(t *testing.T) {
	decoder := NewDecoder()

	seedWord := make([]byte, 32)
	for i := 0; i < 16; i++ {
		seedWord[i] = byte(i + 1)
	}
	result := handleWord(0x55)
	data := bytes.Join([][]byte{tagWord(4), seedWord, result}, nil)

	record := makeRecord([]string{sigTopic(t, "FheRand"), callerTopic(testCaller)}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	rand, ok := op.(*Rand)
	if !ok {
		t.Fatalf("expected *Rand, got %T", op)
	}
	if rand.RandType != TypeUint32 {
		t.Fatalf("rand type %s, want euint32", rand.RandType)
	}
	if !bytes.Equal(rand.Seed[:], seedWord[:16]) {
		t.Fatalf("seed mismatch: %x", rand.Seed)
	}
}

func TestDecodeRandBounded(t *testing.T) {
	decoder := NewDecoder()

	bound := new(big.Int).SetUint64(1_000_000)
	seedWord := make([]byte, 32)
	seedWord[0] = 0xfe
	result := handleWord(0x66)
	data := bytes.Join([][]byte{common.BigToHash(bound).Bytes(), tagWord(5), seedWord, result}, nil)

	record := makeRecord([]string{sigTopic(t, "FheRandBounded"), callerTopic(testCaller)}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	bounded, ok := op.(*RandBounded)
	if !ok {
		t.Fatalf("expected *RandBounded, got %T", op)
	}
	if bounded.UpperBound.Cmp(bound) != 0 {
		t.Fatalf("upper bound mismatch: %s", bounded.UpperBound)
	}
	if bounded.RandType != TypeUint64 {
		t.Fatalf("rand type %s, want euint64", bounded.RandType)
	}
	if bounded.Seed[0] != 0xfe {
		t.Fatalf("seed mismatch: %x", bounded.Seed)
	}
}

func TestDecodeUnknownPreservesData(t *testing.T) {
	decoder := NewDecoder()
	data := []byte{0x01, 0x02, 0x03, 0x04}

	zero := common.Hash{}
	record := makeRecord([]string{zero.Hex(), callerTopic(testCaller)}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("unknown topic should not error: %v", err)
	}

	unknown, ok := op.(*Unknown)
	if !ok {
		t.Fatalf("expected *Unknown, got %T", op)
	}
	if unknown.Topic0 != zero {
		t.Fatalf("topic0 mismatch")
	}
	if !bytes.Equal(unknown.Data, data) {
		t.Fatalf("payload should be preserved verbatim: %x", unknown.Data)
	}
	if _, ok := op.ResultHandle(); ok {
		t.Fatalf("unknown operation should have no result handle")
	}
	if _, ok := op.Caller(); ok {
		t.Fatalf("unknown operation should have no caller")
	}
	if op.Name() != "Unknown" {
		t.Fatalf("name %s, want Unknown", op.Name())
	}
}

func TestDecodeCallerFallback(t *testing.T) {
	decoder := NewDecoder()
	data := bytes.Join([][]byte{handleWord(1), handleWord(2), tagWord(0), handleWord(3)}, nil)

	record := makeRecord([]string{sigTopic(t, "FheAdd")}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	caller, ok := op.Caller()
	if !ok {
		t.Fatalf("binary op should expose a caller")
	}
	if caller != (common.Address{}) {
		t.Fatalf("caller should fall back to the zero address, got %s", caller.Hex())
	}
}

func TestDecodeCallerRecovery(t *testing.T) {
	decoder := NewDecoder()
	data := bytes.Join([][]byte{handleWord(1), handleWord(2), tagWord(0), handleWord(3)}, nil)

	topic1 := "0x0000000000000000000000000000000000000000000000000000000000000abc"
	record := makeRecord([]string{sigTopic(t, "FheAdd"), topic1}, data)
	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	caller, _ := op.Caller()
	want := common.HexToAddress("0x0000000000000000000000000000000000000abc")
	if caller != want {
		t.Fatalf("caller %s, want %s", caller.Hex(), want.Hex())
	}
}

func TestDecodeMissingTopics(t *testing.T) {
	decoder := NewDecoder()
	record := makeRecord(nil, []byte{0x01})

	if _, err := decoder.Decode(record); err == nil {
		t.Fatalf("record without topics should fail")
	}
}

func TestDecodeOptionalTxHash(t *testing.T) {
	decoder := NewDecoder()
	data := bytes.Join([][]byte{handleWord(1), handleWord(2), tagWord(0), handleWord(3)}, nil)

	record := makeRecord([]string{sigTopic(t, "FheAdd"), callerTopic(testCaller)}, data)
	record.TxHash = ""

	op, err := decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if op.(*BinaryOp).Meta.TxHash != nil {
		t.Fatalf("tx hash should be nil when the source log omits it")
	}

	record.TxHash = "0x2222222222222222222222222222222222222222222222222222222222222222"
	op, err = decoder.Decode(record)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if op.(*BinaryOp).Meta.TxHash == nil {
		t.Fatalf("tx hash should be carried when present")
	}
}

func TestCanDecode(t *testing.T) {
	decoder := NewDecoder()

	if !decoder.CanDecode(sigTopic(t, "FheMul")) {
		t.Fatalf("FheMul signature should be decodable")
	}
	if decoder.CanDecode((common.Hash{}).Hex()) {
		t.Fatalf("zero topic should not be decodable")
	}
	if decoder.CanDecode("not-hex") {
		t.Fatalf("malformed topic should not be decodable")
	}
}

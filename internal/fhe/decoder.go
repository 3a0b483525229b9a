package fhe

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"fhescope/internal/model"
)

// Word size of the ABI encoding the executor emits.
const wordSize = 32

// Minimum data lengths per event layout, in bytes.
const (
	minBinaryLen         = 4 * wordSize
	minUnaryLen          = 2 * wordSize
	minTrivialEncryptLen = 3 * wordSize
	minCastLen           = 3 * wordSize
	minIfThenElseLen     = 4 * wordSize
	minVerifyInputLen    = 5 * wordSize
	minRandLen           = 3 * wordSize
	minRandBoundedLen    = 4 * wordSize
)

// Decoder turns raw executor logs into typed Operations. It is stateless
// apart from the fixed signature registry and safe for concurrent use.
type Decoder struct{}

// NewDecoder builds a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// CanDecode reports whether topic0 identifies a known FHE event. Unknown
// topics still decode (to Unknown); this is a pre-filter for callers that
// want to drop foreign events entirely.
func (d *Decoder) CanDecode(topic0 string) bool {
	hash, err := parseTopic(topic0)
	if err != nil {
		return false
	}
	return IsKnown(hash)
}

// Decode converts a LogRecord into an Operation. A topic0 that matches no
// known signature yields an Unknown operation, not an error; errors are
// reserved for logs that are structurally unusable (no topics, malformed
// hex, truncated payload, invalid type tag). Each decode is independent:
// one malformed log should be skipped and logged, never halt the stream.
func (d *Decoder) Decode(record model.LogRecord) (Operation, error) {
	if len(record.Topics) == 0 {
		return nil, fmt.Errorf("missing topic0")
	}

	topic0, err := parseTopic(record.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("topic0: %w", err)
	}

	data, err := parseData(record.Data)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	meta, err := buildMetadata(record)
	if err != nil {
		return nil, err
	}

	name, ok := Identify(topic0)
	if !ok {
		return &Unknown{Topic0: topic0, Data: append([]byte(nil), data...)}, nil
	}

	op, err := decodeKnown(name, meta, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return op, nil
}

func decodeKnown(name string, meta EventMetadata, data []byte) (Operation, error) {
	if kind, ok := binaryKindByName[name]; ok {
		return decodeBinary(kind, meta, data)
	}

	switch name {
	case "FheNeg":
		return decodeUnary(UnaryNeg, meta, data)
	case "FheNot":
		return decodeUnary(UnaryNot, meta, data)
	case "TrivialEncrypt":
		return decodeTrivialEncrypt(meta, data)
	case "Cast":
		return decodeCast(meta, data)
	case "FheIfThenElse":
		return decodeIfThenElse(meta, data)
	case "VerifyInput":
		return decodeVerifyInput(meta, data)
	case "FheRand":
		return decodeRand(meta, data)
	case "FheRandBounded":
		return decodeRandBounded(meta, data)
	default:
		return nil, fmt.Errorf("no layout decoder for event %s", name)
	}
}

func decodeBinary(kind BinaryOpKind, meta EventMetadata, data []byte) (Operation, error) {
	if err := requireLen(data, minBinaryLen); err != nil {
		return nil, err
	}
	return &BinaryOp{
		Meta: meta,
		Kind: kind,
		Lhs:  wordHash(data, 0),
		Rhs:  wordHash(data, 1),
		// The scalar flag occupies the last byte of its word, same as
		// the uint8 type tags, even though bytes1 values are normally
		// left-aligned. This matches what the executor emits.
		ScalarByte: lastByte(data, 2),
		Result:     wordHash(data, 3),
	}, nil
}

func decodeUnary(kind UnaryOpKind, meta EventMetadata, data []byte) (Operation, error) {
	if err := requireLen(data, minUnaryLen); err != nil {
		return nil, err
	}
	return &UnaryOp{
		Meta:    meta,
		Kind:    kind,
		Operand: wordHash(data, 0),
		Result:  wordHash(data, 1),
	}, nil
}

func decodeTrivialEncrypt(meta EventMetadata, data []byte) (Operation, error) {
	if err := requireLen(data, minTrivialEncryptLen); err != nil {
		return nil, err
	}
	toType, err := typeTagAt(data, 1)
	if err != nil {
		return nil, err
	}
	return &TrivialEncrypt{
		Meta:      meta,
		Plaintext: new(big.Int).SetBytes(word(data, 0)),
		ToType:    toType,
		Result:    wordHash(data, 2),
	}, nil
}

func decodeCast(meta EventMetadata, data []byte) (Operation, error) {
	if err := requireLen(data, minCastLen); err != nil {
		return nil, err
	}
	toType, err := typeTagAt(data, 1)
	if err != nil {
		return nil, err
	}
	return &Cast{
		Meta:    meta,
		Operand: wordHash(data, 0),
		ToType:  toType,
		Result:  wordHash(data, 2),
	}, nil
}

func decodeIfThenElse(meta EventMetadata, data []byte) (Operation, error) {
	if err := requireLen(data, minIfThenElseLen); err != nil {
		return nil, err
	}
	return &IfThenElse{
		Meta:    meta,
		Control: wordHash(data, 0),
		IfTrue:  wordHash(data, 1),
		IfFalse: wordHash(data, 2),
		Result:  wordHash(data, 3),
	}, nil
}

func decodeVerifyInput(meta EventMetadata, data []byte) (Operation, error) {
	if err := requireLen(data, minVerifyInputLen); err != nil {
		return nil, err
	}
	inputType, err := typeTagAt(data, 3)
	if err != nil {
		return nil, err
	}
	return &VerifyInput{
		Meta:        meta,
		InputHandle: wordHash(data, 0),
		UserAddress: common.BytesToAddress(word(data, 1)),
		InputProof:  tailBytes(data, word(data, 2)),
		InputType:   inputType,
		Result:      wordHash(data, 4),
	}, nil
}

func decodeRand(meta EventMetadata, data []byte) (Operation, error) {
	if err := requireLen(data, minRandLen); err != nil {
		return nil, err
	}
	randType, err := typeTagAt(data, 0)
	if err != nil {
		return nil, err
	}
	return &Rand{
		Meta:     meta,
		RandType: randType,
		Seed:     seedAt(data, 1),
		Result:   wordHash(data, 2),
	}, nil
}

func decodeRandBounded(meta EventMetadata, data []byte) (Operation, error) {
	if err := requireLen(data, minRandBoundedLen); err != nil {
		return nil, err
	}
	randType, err := typeTagAt(data, 1)
	if err != nil {
		return nil, err
	}
	return &RandBounded{
		Meta:       meta,
		UpperBound: new(big.Int).SetBytes(word(data, 0)),
		RandType:   randType,
		Seed:       seedAt(data, 2),
		Result:     wordHash(data, 3),
	}, nil
}

// buildMetadata extracts chain context from the record. The caller is the
// first indexed topic after the signature in every known event shape; when
// it is absent the zero address is used. Real producers always supply it,
// so the fallback should only be reachable on synthetic input.
func buildMetadata(record model.LogRecord) (EventMetadata, error) {
	meta := EventMetadata{
		BlockNumber: record.BlockNumber,
		LogIndex:    record.LogIndex,
	}

	if record.TxHash != "" {
		hash, err := parseTopic(record.TxHash)
		if err != nil {
			return EventMetadata{}, fmt.Errorf("tx hash: %w", err)
		}
		meta.TxHash = &hash
	}

	if len(record.Topics) > 1 {
		topic, err := parseTopic(record.Topics[1])
		if err != nil {
			return EventMetadata{}, fmt.Errorf("caller topic: %w", err)
		}
		meta.Caller = common.BytesToAddress(topic.Bytes())
	}

	return meta, nil
}

// tailBytes reads an ABI dynamic byte region: a 32-byte length word at
// offsetWord's value, followed by that many raw bytes. An offset or length
// outside the buffer degrades to an empty result rather than failing the
// record, since the fixed-width prefix is still valid.
func tailBytes(data []byte, offsetWord []byte) []byte {
	offset := new(big.Int).SetBytes(offsetWord)
	if !offset.IsUint64() {
		return nil
	}
	start := offset.Uint64()
	total := uint64(len(data))
	if start > total || total-start < wordSize {
		return nil
	}

	length := new(big.Int).SetBytes(data[start : start+wordSize])
	if !length.IsUint64() {
		return nil
	}
	n := length.Uint64()
	if n > total-start-wordSize {
		return nil
	}

	return append([]byte(nil), data[start+wordSize:start+wordSize+n]...)
}

func requireLen(data []byte, min int) error {
	if len(data) < min {
		return fmt.Errorf("data too short: have %d bytes, need %d", len(data), min)
	}
	return nil
}

func word(data []byte, i int) []byte {
	return data[i*wordSize : (i+1)*wordSize]
}

func wordHash(data []byte, i int) common.Hash {
	return common.BytesToHash(word(data, i))
}

// lastByte reads the low-order byte of word i. Small unsigned values are
// left-padded, so the value sits in the final byte.
func lastByte(data []byte, i int) byte {
	return data[(i+1)*wordSize-1]
}

func typeTagAt(data []byte, i int) (TypeTag, error) {
	b := lastByte(data, i)
	tag, ok := TypeTagFromByte(b)
	if !ok {
		return 0, fmt.Errorf("unrecognized type tag %d", b)
	}
	return tag, nil
}

func seedAt(data []byte, i int) [16]byte {
	var seed [16]byte
	copy(seed[:], word(data, i)[:16])
	return seed
}

func parseTopic(input string) (common.Hash, error) {
	raw, err := hexutil.Decode(input)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid topic %q: %w", input, err)
	}
	if len(raw) != wordSize {
		return common.Hash{}, fmt.Errorf("topic length %d, want %d", len(raw), wordSize)
	}
	return common.BytesToHash(raw), nil
}

func parseData(input string) ([]byte, error) {
	if input == "" {
		return nil, nil
	}
	raw, err := hexutil.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("invalid data hex: %w", err)
	}
	return raw, nil
}

package fhe

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Handle is an opaque 32-byte reference to a ciphertext or computation
// result on-chain. Equality is byte equality.
type Handle = common.Hash

// EventMetadata carries the chain context every decoded operation shares.
// TxHash is nil when the source log omitted it.
type EventMetadata struct {
	BlockNumber uint64
	TxHash      *common.Hash
	LogIndex    uint64
	Caller      common.Address
}

// Operation is a decoded FHE executor event. Every variant except Unknown
// exposes a result handle and the caller recovered from the log's first
// indexed topic.
type Operation interface {
	// Name returns the canonical event name, e.g. "FheAdd".
	Name() string
	// ResultHandle returns the handle produced by the operation, if any.
	ResultHandle() (Handle, bool)
	// Caller returns the address that invoked the operation, if known.
	Caller() (common.Address, bool)
}

// BinaryOpKind enumerates the two-operand FHE operations.
type BinaryOpKind int

const (
	BinaryAdd BinaryOpKind = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryRem
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	BinaryShl
	BinaryShr
	BinaryRotl
	BinaryRotr
	BinaryEq
	BinaryNe
	BinaryGe
	BinaryGt
	BinaryLe
	BinaryLt
	BinaryMin
	BinaryMax
)

var binaryOpNames = [...]string{
	BinaryAdd:    "FheAdd",
	BinarySub:    "FheSub",
	BinaryMul:    "FheMul",
	BinaryDiv:    "FheDiv",
	BinaryRem:    "FheRem",
	BinaryBitAnd: "FheBitAnd",
	BinaryBitOr:  "FheBitOr",
	BinaryBitXor: "FheBitXor",
	BinaryShl:    "FheShl",
	BinaryShr:    "FheShr",
	BinaryRotl:   "FheRotl",
	BinaryRotr:   "FheRotr",
	BinaryEq:     "FheEq",
	BinaryNe:     "FheNe",
	BinaryGe:     "FheGe",
	BinaryGt:     "FheGt",
	BinaryLe:     "FheLe",
	BinaryLt:     "FheLt",
	BinaryMin:    "FheMin",
	BinaryMax:    "FheMax",
}

// Name returns the canonical event name for the kind.
func (k BinaryOpKind) Name() string {
	return binaryOpNames[k]
}

// binaryKindByName routes an identified event name to its kind.
var binaryKindByName = buildBinaryKindIndex()

func buildBinaryKindIndex() map[string]BinaryOpKind {
	index := make(map[string]BinaryOpKind, len(binaryOpNames))
	for kind, name := range binaryOpNames {
		index[name] = BinaryOpKind(kind)
	}
	return index
}

// UnaryOpKind enumerates the single-operand FHE operations.
type UnaryOpKind int

const (
	UnaryNeg UnaryOpKind = iota
	UnaryNot
)

// Name returns the canonical event name for the kind.
func (k UnaryOpKind) Name() string {
	if k == UnaryNeg {
		return "FheNeg"
	}
	return "FheNot"
}

// BinaryOp is a two-operand operation (add, sub, mul, comparisons, ...).
// ScalarByte is non-zero when rhs is a plaintext scalar rather than a
// ciphertext handle.
type BinaryOp struct {
	Meta       EventMetadata
	Kind       BinaryOpKind
	Lhs        Handle
	Rhs        Handle
	ScalarByte byte
	Result     Handle
}

func (op *BinaryOp) Name() string                   { return op.Kind.Name() }
func (op *BinaryOp) ResultHandle() (Handle, bool)   { return op.Result, true }
func (op *BinaryOp) Caller() (common.Address, bool) { return op.Meta.Caller, true }

// UnaryOp is a single-operand operation (neg, not).
type UnaryOp struct {
	Meta    EventMetadata
	Kind    UnaryOpKind
	Operand Handle
	Result  Handle
}

func (op *UnaryOp) Name() string                   { return op.Kind.Name() }
func (op *UnaryOp) ResultHandle() (Handle, bool)   { return op.Result, true }
func (op *UnaryOp) Caller() (common.Address, bool) { return op.Meta.Caller, true }

// TrivialEncrypt lifts a plaintext value into a ciphertext handle.
type TrivialEncrypt struct {
	Meta      EventMetadata
	Plaintext *big.Int
	ToType    TypeTag
	Result    Handle
}

func (op *TrivialEncrypt) Name() string                   { return "TrivialEncrypt" }
func (op *TrivialEncrypt) ResultHandle() (Handle, bool)   { return op.Result, true }
func (op *TrivialEncrypt) Caller() (common.Address, bool) { return op.Meta.Caller, true }

// Cast converts a ciphertext to another encrypted type.
type Cast struct {
	Meta    EventMetadata
	Operand Handle
	ToType  TypeTag
	Result  Handle
}

func (op *Cast) Name() string                   { return "Cast" }
func (op *Cast) ResultHandle() (Handle, bool)   { return op.Result, true }
func (op *Cast) Caller() (common.Address, bool) { return op.Meta.Caller, true }

// IfThenElse selects between two ciphertexts under an encrypted boolean.
type IfThenElse struct {
	Meta    EventMetadata
	Control Handle
	IfTrue  Handle
	IfFalse Handle
	Result  Handle
}

func (op *IfThenElse) Name() string                   { return "FheIfThenElse" }
func (op *IfThenElse) ResultHandle() (Handle, bool)   { return op.Result, true }
func (op *IfThenElse) Caller() (common.Address, bool) { return op.Meta.Caller, true }

// VerifyInput registers a client-provided encrypted input with its proof.
type VerifyInput struct {
	Meta        EventMetadata
	InputHandle Handle
	UserAddress common.Address
	InputProof  []byte
	InputType   TypeTag
	Result      Handle
}

func (op *VerifyInput) Name() string                   { return "VerifyInput" }
func (op *VerifyInput) ResultHandle() (Handle, bool)   { return op.Result, true }
func (op *VerifyInput) Caller() (common.Address, bool) { return op.Meta.Caller, true }

// Rand generates an encrypted random value.
type Rand struct {
	Meta     EventMetadata
	RandType TypeTag
	Seed     [16]byte
	Result   Handle
}

func (op *Rand) Name() string                   { return "FheRand" }
func (op *Rand) ResultHandle() (Handle, bool)   { return op.Result, true }
func (op *Rand) Caller() (common.Address, bool) { return op.Meta.Caller, true }

// RandBounded generates an encrypted random value below an upper bound.
type RandBounded struct {
	Meta       EventMetadata
	UpperBound *big.Int
	RandType   TypeTag
	Seed       [16]byte
	Result     Handle
}

func (op *RandBounded) Name() string                   { return "FheRandBounded" }
func (op *RandBounded) ResultHandle() (Handle, bool)   { return op.Result, true }
func (op *RandBounded) Caller() (common.Address, bool) { return op.Meta.Caller, true }

// Unknown preserves a log whose topic0 matched no known signature. The
// payload is kept verbatim so newer operation kinds survive a replay
// through an older decoder.
type Unknown struct {
	Topic0 common.Hash
	Data   []byte
}

func (op *Unknown) Name() string                   { return "Unknown" }
func (op *Unknown) ResultHandle() (Handle, bool)   { return Handle{}, false }
func (op *Unknown) Caller() (common.Address, bool) { return common.Address{}, false }

package model

// BinaryOpData is the decoded payload of a two-operand FHE operation.
type BinaryOpData struct {
	Lhs        string `json:"lhs"`
	Rhs        string `json:"rhs"`
	ScalarByte uint8  `json:"scalar_byte"`
	Result     string `json:"result"`
}

// UnaryOpData is the decoded payload of a single-operand FHE operation.
type UnaryOpData struct {
	Operand string `json:"operand"`
	Result  string `json:"result"`
}

// TrivialEncryptData is the decoded TrivialEncrypt payload. Plaintext is a
// decimal string since the value can exceed uint64.
type TrivialEncryptData struct {
	Plaintext string `json:"plaintext"`
	ToType    string `json:"to_type"`
	Result    string `json:"result"`
}

// CastData is the decoded Cast payload.
type CastData struct {
	Operand string `json:"operand"`
	ToType  string `json:"to_type"`
	Result  string `json:"result"`
}

// IfThenElseData is the decoded FheIfThenElse payload.
type IfThenElseData struct {
	Control string `json:"control"`
	IfTrue  string `json:"if_true"`
	IfFalse string `json:"if_false"`
	Result  string `json:"result"`
}

// VerifyInputData is the decoded VerifyInput payload. InputProof is hex
// encoded and may be empty when the proof tail was absent or out of range.
type VerifyInputData struct {
	InputHandle string `json:"input_handle"`
	UserAddress string `json:"user_address"`
	InputProof  string `json:"input_proof,omitempty"`
	InputType   string `json:"input_type"`
	Result      string `json:"result"`
}

// RandData is the decoded FheRand payload.
type RandData struct {
	RandType string `json:"rand_type"`
	Seed     string `json:"seed"`
	Result   string `json:"result"`
}

// RandBoundedData is the decoded FheRandBounded payload. UpperBound is a
// decimal string since the value can exceed uint64.
type RandBoundedData struct {
	UpperBound string `json:"upper_bound"`
	RandType   string `json:"rand_type"`
	Seed       string `json:"seed"`
	Result     string `json:"result"`
}

// UnknownData preserves the raw payload of an unrecognized event.
type UnknownData struct {
	Topic0 string `json:"topic0"`
	Data   string `json:"data"`
}

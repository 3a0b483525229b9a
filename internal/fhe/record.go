package fhe

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"fhescope/internal/model"
)

// BuildRecord projects a decoded Operation onto its JSONL representation,
// carrying the chain context of the source log.
func BuildRecord(record model.LogRecord, op Operation) model.OperationRecord {
	out := model.OperationRecord{
		ChainID:     record.ChainID,
		BlockNumber: record.BlockNumber,
		BlockHash:   record.BlockHash,
		TxHash:      record.TxHash,
		LogIndex:    record.LogIndex,
		Address:     record.Address,
		OpName:      op.Name(),
		Timestamp:   record.Timestamp,
		Decoded:     payloadData(op),
	}

	if caller, ok := op.Caller(); ok {
		out.Caller = caller.Hex()
	}
	if result, ok := op.ResultHandle(); ok {
		out.ResultHandle = result.Hex()
	}
	if len(record.Topics) > 0 {
		out.Raw = &model.RawLogRef{Topic0: record.Topics[0], Data: record.Data}
	}

	return out
}

func payloadData(op Operation) interface{} {
	switch op := op.(type) {
	case *BinaryOp:
		return model.BinaryOpData{
			Lhs:        op.Lhs.Hex(),
			Rhs:        op.Rhs.Hex(),
			ScalarByte: op.ScalarByte,
			Result:     op.Result.Hex(),
		}
	case *UnaryOp:
		return model.UnaryOpData{
			Operand: op.Operand.Hex(),
			Result:  op.Result.Hex(),
		}
	case *TrivialEncrypt:
		return model.TrivialEncryptData{
			Plaintext: op.Plaintext.String(),
			ToType:    op.ToType.Name(),
			Result:    op.Result.Hex(),
		}
	case *Cast:
		return model.CastData{
			Operand: op.Operand.Hex(),
			ToType:  op.ToType.Name(),
			Result:  op.Result.Hex(),
		}
	case *IfThenElse:
		return model.IfThenElseData{
			Control: op.Control.Hex(),
			IfTrue:  op.IfTrue.Hex(),
			IfFalse: op.IfFalse.Hex(),
			Result:  op.Result.Hex(),
		}
	case *VerifyInput:
		data := model.VerifyInputData{
			InputHandle: op.InputHandle.Hex(),
			UserAddress: op.UserAddress.Hex(),
			InputType:   op.InputType.Name(),
			Result:      op.Result.Hex(),
		}
		if len(op.InputProof) > 0 {
			data.InputProof = hexutil.Encode(op.InputProof)
		}
		return data
	case *Rand:
		return model.RandData{
			RandType: op.RandType.Name(),
			Seed:     hexutil.Encode(op.Seed[:]),
			Result:   op.Result.Hex(),
		}
	case *RandBounded:
		return model.RandBoundedData{
			UpperBound: op.UpperBound.String(),
			RandType:   op.RandType.Name(),
			Seed:       hexutil.Encode(op.Seed[:]),
			Result:     op.Result.Hex(),
		}
	case *Unknown:
		return model.UnknownData{
			Topic0: op.Topic0.Hex(),
			Data:   hexutil.Encode(op.Data),
		}
	default:
		return nil
	}
}

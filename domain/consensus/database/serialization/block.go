package serialization

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldBlockHeader       protowire.Number = 1
	fieldBlockTransactions protowire.Number = 2

	fieldTransactionVersion      protowire.Number = 1
	fieldTransactionInputs       protowire.Number = 2
	fieldTransactionOutputs      protowire.Number = 3
	fieldTransactionLockTime     protowire.Number = 4
	fieldTransactionSubnetworkID protowire.Number = 5
	fieldTransactionGas          protowire.Number = 6
	fieldTransactionPayload      protowire.Number = 7

	fieldInputTransactionID   protowire.Number = 1
	fieldInputIndex           protowire.Number = 2
	fieldInputSignatureScript protowire.Number = 3
	fieldInputSequence        protowire.Number = 4

	fieldOutputValue                  protowire.Number = 1
	fieldOutputScriptPublicKeyVersion protowire.Number = 2
	fieldOutputScriptPublicKeyScript  protowire.Number = 3
)

// SerializeBlock serializes the given block, header and transactions
func SerializeBlock(block *externalapi.DomainBlock) []byte {
	b := appendBytesField(nil, fieldBlockHeader, SerializeBlockHeader(block.Header))
	for _, transaction := range block.Transactions {
		b = appendBytesField(b, fieldBlockTransactions, SerializeTransaction(transaction))
	}
	return b
}

// DeserializeBlock deserializes a block written by SerializeBlock
func DeserializeBlock(b []byte) (*externalapi.DomainBlock, error) {
	block := &externalapi.DomainBlock{
		Transactions: []*externalapi.DomainTransaction{},
	}
	err := consumeFields(b, func(field *dbField) error {
		if err := field.expect(protowire.BytesType); err != nil {
			return err
		}
		switch field.number {
		case fieldBlockHeader:
			header, err := DeserializeBlockHeader(field.bytes)
			if err != nil {
				return err
			}
			block.Header = header
		case fieldBlockTransactions:
			transaction, err := DeserializeTransaction(field.bytes)
			if err != nil {
				return err
			}
			block.Transactions = append(block.Transactions, transaction)
		default:
			return unexpectedFieldError("block", field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if block.Header == nil {
		return nil, errors.New("block is missing its header")
	}
	return block, nil
}

// SerializeTransaction serializes the given transaction
func SerializeTransaction(transaction *externalapi.DomainTransaction) []byte {
	b := appendVarintField(nil, fieldTransactionVersion, uint64(transaction.Version))
	for _, input := range transaction.Inputs {
		entry := appendBytesField(nil, fieldInputTransactionID, input.PreviousOutpoint.TransactionID.ByteSlice())
		entry = appendVarintField(entry, fieldInputIndex, uint64(input.PreviousOutpoint.Index))
		entry = appendBytesField(entry, fieldInputSignatureScript, input.SignatureScript)
		entry = appendVarintField(entry, fieldInputSequence, input.Sequence)
		b = appendBytesField(b, fieldTransactionInputs, entry)
	}
	for _, output := range transaction.Outputs {
		entry := appendVarintField(nil, fieldOutputValue, output.Value)
		entry = appendVarintField(entry, fieldOutputScriptPublicKeyVersion, uint64(output.ScriptPublicKey.Version))
		entry = appendBytesField(entry, fieldOutputScriptPublicKeyScript, output.ScriptPublicKey.Script)
		b = appendBytesField(b, fieldTransactionOutputs, entry)
	}
	b = appendVarintField(b, fieldTransactionLockTime, transaction.LockTime)
	b = appendBytesField(b, fieldTransactionSubnetworkID, transaction.SubnetworkID[:])
	b = appendVarintField(b, fieldTransactionGas, transaction.Gas)
	return appendBytesField(b, fieldTransactionPayload, transaction.Payload)
}

// DeserializeTransaction deserializes a transaction written by SerializeTransaction
func DeserializeTransaction(b []byte) (*externalapi.DomainTransaction, error) {
	transaction := &externalapi.DomainTransaction{
		Inputs:  []*externalapi.DomainTransactionInput{},
		Outputs: []*externalapi.DomainTransactionOutput{},
		Payload: []byte{},
	}
	err := consumeFields(b, func(field *dbField) error {
		switch field.number {
		case fieldTransactionVersion:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			if field.varint > uint64(^uint16(0)) {
				return errors.Errorf("transaction version %d overflows uint16", field.varint)
			}
			transaction.Version = uint16(field.varint)
		case fieldTransactionInputs:
			if err := field.expect(protowire.BytesType); err != nil {
				return err
			}
			input, err := deserializeTransactionInput(field.bytes)
			if err != nil {
				return err
			}
			transaction.Inputs = append(transaction.Inputs, input)
		case fieldTransactionOutputs:
			if err := field.expect(protowire.BytesType); err != nil {
				return err
			}
			output, err := deserializeTransactionOutput(field.bytes)
			if err != nil {
				return err
			}
			transaction.Outputs = append(transaction.Outputs, output)
		case fieldTransactionLockTime:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			transaction.LockTime = field.varint
		case fieldTransactionSubnetworkID:
			if err := field.expect(protowire.BytesType); err != nil {
				return err
			}
			if len(field.bytes) != len(transaction.SubnetworkID) {
				return errors.Errorf("subnetwork ID is expected to be %d bytes but got %d",
					len(transaction.SubnetworkID), len(field.bytes))
			}
			copy(transaction.SubnetworkID[:], field.bytes)
		case fieldTransactionGas:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			transaction.Gas = field.varint
		case fieldTransactionPayload:
			if err := field.expect(protowire.BytesType); err != nil {
				return err
			}
			transaction.Payload = append([]byte{}, field.bytes...)
		default:
			return unexpectedFieldError("transaction", field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func deserializeTransactionInput(b []byte) (*externalapi.DomainTransactionInput, error) {
	input := &externalapi.DomainTransactionInput{
		SignatureScript: []byte{},
	}
	var transactionID *externalapi.DomainTransactionID
	var index uint64
	err := consumeFields(b, func(field *dbField) error {
		switch field.number {
		case fieldInputTransactionID:
			if err := field.expect(protowire.BytesType); err != nil {
				return err
			}
			var err error
			transactionID, err = externalapi.NewDomainTransactionIDFromByteSlice(field.bytes)
			if err != nil {
				return err
			}
		case fieldInputIndex:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			index = field.varint
		case fieldInputSignatureScript:
			if err := field.expect(protowire.BytesType); err != nil {
				return err
			}
			input.SignatureScript = append([]byte{}, field.bytes...)
		case fieldInputSequence:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			input.Sequence = field.varint
		default:
			return unexpectedFieldError("transaction input", field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if transactionID == nil {
		return nil, errors.New("transaction input is missing its previous outpoint")
	}
	if index > uint64(^uint32(0)) {
		return nil, errors.Errorf("outpoint index %d overflows uint32", index)
	}
	input.PreviousOutpoint = *externalapi.NewDomainOutpoint(transactionID, uint32(index))
	return input, nil
}

func deserializeTransactionOutput(b []byte) (*externalapi.DomainTransactionOutput, error) {
	output := &externalapi.DomainTransactionOutput{
		ScriptPublicKey: &externalapi.ScriptPublicKey{Script: []byte{}},
	}
	err := consumeFields(b, func(field *dbField) error {
		switch field.number {
		case fieldOutputValue:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			output.Value = field.varint
		case fieldOutputScriptPublicKeyVersion:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			if field.varint > uint64(^uint16(0)) {
				return errors.Errorf("script public key version %d overflows uint16", field.varint)
			}
			output.ScriptPublicKey.Version = uint16(field.varint)
		case fieldOutputScriptPublicKeyScript:
			if err := field.expect(protowire.BytesType); err != nil {
				return err
			}
			output.ScriptPublicKey.Script = append([]byte{}, field.bytes...)
		default:
			return unexpectedFieldError("transaction output", field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

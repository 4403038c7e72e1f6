package utxo

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of a serialized outpoint and UTXO entry pair. The layout is
// protobuf wire compatible, so that it can be read by any protobuf decoder.
const (
	fieldTransactionID          protowire.Number = 1
	fieldIndex                  protowire.Number = 2
	fieldAmount                 protowire.Number = 3
	fieldScriptPublicKeyVersion protowire.Number = 4
	fieldScriptPublicKeyScript  protowire.Number = 5
	fieldBlockBlueScore         protowire.Number = 6
	fieldIsCoinbase             protowire.Number = 7
)

// SerializeUTXO returns the byte-slice representation for given UTXOEntry-outpoint pair.
// The same pair always serializes to the same bytes, which lets the result be
// used as a multiset element.
func SerializeUTXO(entry externalapi.UTXOEntry, outpoint *externalapi.DomainOutpoint) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldTransactionID, protowire.BytesType)
	b = protowire.AppendBytes(b, outpoint.TransactionID.ByteSlice())
	b = protowire.AppendTag(b, fieldIndex, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(outpoint.Index))
	b = appendUTXOEntry(b, entry)
	return b
}

// SerializeUTXOEntry returns the byte-slice representation of a UTXOEntry on its own
func SerializeUTXOEntry(entry externalapi.UTXOEntry) []byte {
	return appendUTXOEntry(nil, entry)
}

func appendUTXOEntry(b []byte, entry externalapi.UTXOEntry) []byte {
	scriptPublicKey := entry.ScriptPublicKey()

	b = protowire.AppendTag(b, fieldAmount, protowire.VarintType)
	b = protowire.AppendVarint(b, entry.Amount())
	b = protowire.AppendTag(b, fieldScriptPublicKeyVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(scriptPublicKey.Version))
	b = protowire.AppendTag(b, fieldScriptPublicKeyScript, protowire.BytesType)
	b = protowire.AppendBytes(b, scriptPublicKey.Script)
	b = protowire.AppendTag(b, fieldBlockBlueScore, protowire.VarintType)
	b = protowire.AppendVarint(b, entry.BlockBlueScore())
	b = protowire.AppendTag(b, fieldIsCoinbase, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(entry.IsCoinbase()))
	return b
}

// DeserializeUTXO deserializes the given byte slice into a UTXOEntry-outpoint pair
func DeserializeUTXO(serializedUTXO []byte) (entry externalapi.UTXOEntry, outpoint *externalapi.DomainOutpoint, err error) {
	return deserialize(serializedUTXO, true)
}

// DeserializeUTXOEntry deserializes a byte slice written by SerializeUTXOEntry
func DeserializeUTXOEntry(serializedEntry []byte) (externalapi.UTXOEntry, error) {
	entry, _, err := deserialize(serializedEntry, false)
	return entry, err
}

func deserialize(b []byte, withOutpoint bool) (externalapi.UTXOEntry, *externalapi.DomainOutpoint, error) {
	var (
		transactionID          *externalapi.DomainTransactionID
		index                  uint64
		amount                 uint64
		scriptPublicKeyVersion uint64
		script                 []byte
		blockBlueScore         uint64
		isCoinbase             bool
	)

	for len(b) > 0 {
		number, wireType, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, nil, errors.Wrap(protowire.ParseError(n), "malformed serialized UTXO")
		}
		b = b[n:]

		switch {
		case number == fieldTransactionID && wireType == protowire.BytesType:
			value, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, nil, errors.Wrap(protowire.ParseError(n), "malformed transaction ID")
			}
			var err error
			transactionID, err = externalapi.NewDomainTransactionIDFromByteSlice(value)
			if err != nil {
				return nil, nil, err
			}
			b = b[n:]
		case number == fieldScriptPublicKeyScript && wireType == protowire.BytesType:
			value, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, nil, errors.Wrap(protowire.ParseError(n), "malformed script public key")
			}
			script = append([]byte{}, value...)
			b = b[n:]
		case wireType == protowire.VarintType:
			value, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, nil, errors.Wrapf(protowire.ParseError(n), "malformed field %d", number)
			}
			switch number {
			case fieldIndex:
				index = value
			case fieldAmount:
				amount = value
			case fieldScriptPublicKeyVersion:
				scriptPublicKeyVersion = value
			case fieldBlockBlueScore:
				blockBlueScore = value
			case fieldIsCoinbase:
				isCoinbase = protowire.DecodeBool(value)
			default:
				return nil, nil, errors.Errorf("unexpected field %d in serialized UTXO", number)
			}
			b = b[n:]
		default:
			return nil, nil, errors.Errorf("unexpected field %d of wire type %d in serialized UTXO",
				number, wireType)
		}
	}

	if index > uint64(^uint32(0)) {
		return nil, nil, errors.Errorf("outpoint index %d overflows uint32", index)
	}
	if scriptPublicKeyVersion > uint64(^uint16(0)) {
		return nil, nil, errors.Errorf("script public key version %d overflows uint16", scriptPublicKeyVersion)
	}

	entry := NewUTXOEntry(amount, &externalapi.ScriptPublicKey{
		Script:  script,
		Version: uint16(scriptPublicKeyVersion),
	}, isCoinbase, blockBlueScore)

	if !withOutpoint {
		return entry, nil, nil
	}
	if transactionID == nil {
		return nil, nil, errors.New("serialized UTXO is missing its transaction ID")
	}
	return entry, externalapi.NewDomainOutpoint(transactionID, uint32(index)), nil
}

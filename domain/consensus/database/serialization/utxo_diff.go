package serialization

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldUTXODiffToAdd    protowire.Number = 1
	fieldUTXODiffToRemove protowire.Number = 2
)

// SerializeUTXODiff serializes the given UTXO diff
func SerializeUTXODiff(diff externalapi.UTXODiff) ([]byte, error) {
	b, err := appendUTXOCollection(nil, fieldUTXODiffToAdd, diff.ToAdd())
	if err != nil {
		return nil, err
	}
	return appendUTXOCollection(b, fieldUTXODiffToRemove, diff.ToRemove())
}

func appendUTXOCollection(b []byte, number protowire.Number, collection externalapi.UTXOCollection) ([]byte, error) {
	iterator := collection.Iterator()
	defer iterator.Close()

	for ok := iterator.First(); ok; ok = iterator.Next() {
		outpoint, entry, err := iterator.Get()
		if err != nil {
			return nil, err
		}
		b = appendBytesField(b, number, utxo.SerializeUTXO(entry, outpoint))
	}
	return b, nil
}

// DeserializeUTXODiff deserializes a UTXO diff written by SerializeUTXODiff
func DeserializeUTXODiff(b []byte) (externalapi.UTXODiff, error) {
	toAdd := make(map[externalapi.DomainOutpoint]externalapi.UTXOEntry)
	toRemove := make(map[externalapi.DomainOutpoint]externalapi.UTXOEntry)

	err := consumeFields(b, func(field *dbField) error {
		if err := field.expect(protowire.BytesType); err != nil {
			return err
		}
		entry, outpoint, err := utxo.DeserializeUTXO(field.bytes)
		if err != nil {
			return err
		}
		switch field.number {
		case fieldUTXODiffToAdd:
			if _, ok := toAdd[*outpoint]; ok {
				return errors.Errorf("outpoint %s appears twice in toAdd", outpoint)
			}
			toAdd[*outpoint] = entry
		case fieldUTXODiffToRemove:
			if _, ok := toRemove[*outpoint]; ok {
				return errors.Errorf("outpoint %s appears twice in toRemove", outpoint)
			}
			toRemove[*outpoint] = entry
		default:
			return unexpectedFieldError("UTXO diff", field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return utxo.NewUTXODiffFromCollections(utxo.NewUTXOCollection(toAdd), utxo.NewUTXOCollection(toRemove))
}

package serialization

import (
	"encoding/binary"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

const outpointSize = externalapi.DomainHashSize + 4

// SerializeOutpoint returns a fixed-size key for the given outpoint:
// the transaction ID followed by the little-endian output index
func SerializeOutpoint(outpoint *externalapi.DomainOutpoint) []byte {
	serialized := make([]byte, outpointSize)
	copy(serialized, outpoint.TransactionID.ByteSlice())
	binary.LittleEndian.PutUint32(serialized[externalapi.DomainHashSize:], outpoint.Index)
	return serialized
}

// DeserializeOutpoint deserializes an outpoint written by SerializeOutpoint
func DeserializeOutpoint(b []byte) (*externalapi.DomainOutpoint, error) {
	if len(b) != outpointSize {
		return nil, errors.Errorf("serialized outpoint has length %d, expected %d", len(b), outpointSize)
	}
	transactionID, err := externalapi.NewDomainTransactionIDFromByteSlice(b[:externalapi.DomainHashSize])
	if err != nil {
		return nil, err
	}
	index := binary.LittleEndian.Uint32(b[externalapi.DomainHashSize:])
	return externalapi.NewDomainOutpoint(transactionID, index), nil
}

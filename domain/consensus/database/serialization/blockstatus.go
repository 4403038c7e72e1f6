package serialization

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// SerializeBlockStatus serializes the given block status
func SerializeBlockStatus(blockStatus externalapi.BlockStatus) []byte {
	return []byte{byte(blockStatus)}
}

// DeserializeBlockStatus deserializes a block status written by SerializeBlockStatus
func DeserializeBlockStatus(b []byte) (externalapi.BlockStatus, error) {
	if len(b) != 1 {
		return 0, errors.Errorf("block status is expected to be 1 byte but got %d", len(b))
	}
	blockStatus := externalapi.BlockStatus(b[0])
	if blockStatus > externalapi.StatusHeaderOnly {
		return 0, errors.Errorf("unknown block status %d", blockStatus)
	}
	return blockStatus, nil
}

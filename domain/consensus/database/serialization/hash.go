package serialization

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

const fieldHashes protowire.Number = 1

// DomainHashToDBKeySuffix returns the bytes that identify the given hash inside a bucket
func DomainHashToDBKeySuffix(hash *externalapi.DomainHash) []byte {
	return hash.ByteSlice()
}

// SerializeHash serializes a single hash
func SerializeHash(hash *externalapi.DomainHash) []byte {
	return appendHashField(nil, fieldHashes, hash)
}

// DeserializeHash deserializes a hash written by SerializeHash
func DeserializeHash(b []byte) (*externalapi.DomainHash, error) {
	hashes, err := DeserializeHashes(b)
	if err != nil {
		return nil, err
	}
	if len(hashes) != 1 {
		return nil, errUnexpectedHashCount(len(hashes))
	}
	return hashes[0], nil
}

// SerializeHashes serializes a list of hashes. It is used for the DAG tips
func SerializeHashes(hashes []*externalapi.DomainHash) []byte {
	return appendHashesField(nil, fieldHashes, hashes)
}

// DeserializeHashes deserializes a list of hashes written by SerializeHashes
func DeserializeHashes(b []byte) ([]*externalapi.DomainHash, error) {
	hashes := []*externalapi.DomainHash{}
	err := consumeFields(b, func(field *dbField) error {
		if field.number != fieldHashes {
			return unexpectedFieldError("hashes", field)
		}
		hash, err := fieldToHash(field)
		if err != nil {
			return err
		}
		hashes = append(hashes, hash)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

package serialization

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const fieldCount protowire.Number = 1

// SerializeCount serializes a store entry count
func SerializeCount(count uint64) []byte {
	return appendVarintField(nil, fieldCount, count)
}

// DeserializeCount deserializes a count written by SerializeCount
func DeserializeCount(b []byte) (uint64, error) {
	var count uint64
	found := false
	err := consumeFields(b, func(field *dbField) error {
		if field.number != fieldCount {
			return unexpectedFieldError("count", field)
		}
		if err := field.expect(protowire.VarintType); err != nil {
			return err
		}
		count = field.varint
		found = true
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errors.New("serialized count is empty")
	}
	return count, nil
}

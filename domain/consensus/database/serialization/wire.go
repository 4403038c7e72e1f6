package serialization

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Every record in the consensus database is encoded with the protobuf wire
// format. Field numbers of a record never change once assigned.

// dbField is a single decoded field of a record
type dbField struct {
	number   protowire.Number
	wireType protowire.Type
	varint   uint64
	fixed32  uint32
	fixed64  uint64
	bytes    []byte
}

func (f *dbField) expect(wireType protowire.Type) error {
	if f.wireType != wireType {
		return errors.Errorf("field %d has wire type %d, expected %d", f.number, f.wireType, wireType)
	}
	return nil
}

// consumeFields decodes the fields of b one by one and passes them to handle
func consumeFields(b []byte, handle func(field *dbField) error) error {
	for len(b) > 0 {
		number, wireType, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "malformed field tag")
		}
		b = b[n:]

		field := &dbField{number: number, wireType: wireType}
		switch wireType {
		case protowire.VarintType:
			field.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			field.fixed32, n = protowire.ConsumeFixed32(b)
		case protowire.Fixed64Type:
			field.fixed64, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			field.bytes, n = protowire.ConsumeBytes(b)
		default:
			return errors.Errorf("unsupported wire type %d of field %d", wireType, number)
		}
		if n < 0 {
			return errors.Wrapf(protowire.ParseError(n), "malformed field %d", number)
		}
		b = b[n:]

		err := handle(field)
		if err != nil {
			return err
		}
	}
	return nil
}

func appendVarintField(b []byte, number protowire.Number, value uint64) []byte {
	b = protowire.AppendTag(b, number, protowire.VarintType)
	return protowire.AppendVarint(b, value)
}

func appendFixed32Field(b []byte, number protowire.Number, value uint32) []byte {
	b = protowire.AppendTag(b, number, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, value)
}

func appendFixed64Field(b []byte, number protowire.Number, value uint64) []byte {
	b = protowire.AppendTag(b, number, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, value)
}

func appendBytesField(b []byte, number protowire.Number, value []byte) []byte {
	b = protowire.AppendTag(b, number, protowire.BytesType)
	return protowire.AppendBytes(b, value)
}

func appendHashField(b []byte, number protowire.Number, hash *externalapi.DomainHash) []byte {
	return appendBytesField(b, number, hash.ByteSlice())
}

func appendHashesField(b []byte, number protowire.Number, hashes []*externalapi.DomainHash) []byte {
	for _, hash := range hashes {
		b = appendHashField(b, number, hash)
	}
	return b
}

func fieldToHash(field *dbField) (*externalapi.DomainHash, error) {
	err := field.expect(protowire.BytesType)
	if err != nil {
		return nil, err
	}
	return externalapi.NewDomainHashFromByteSlice(field.bytes)
}

func unexpectedFieldError(recordName string, field *dbField) error {
	return errors.Errorf("unexpected field %d in %s", field.number, recordName)
}

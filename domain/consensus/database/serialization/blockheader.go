package serialization

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldHeaderVersion            protowire.Number = 1
	fieldHeaderParentHashes       protowire.Number = 2
	fieldHeaderHashMerkleRoot     protowire.Number = 3
	fieldHeaderUTXOCommitment     protowire.Number = 4
	fieldHeaderTimeInMilliseconds protowire.Number = 5
	fieldHeaderBits               protowire.Number = 6
	fieldHeaderNonce              protowire.Number = 7
)

// SerializeBlockHeader serializes the given block header
func SerializeBlockHeader(header *externalapi.DomainBlockHeader) []byte {
	b := appendVarintField(nil, fieldHeaderVersion, uint64(header.Version))
	b = appendHashesField(b, fieldHeaderParentHashes, header.ParentHashes)
	b = appendHashField(b, fieldHeaderHashMerkleRoot, &header.HashMerkleRoot)
	b = appendHashField(b, fieldHeaderUTXOCommitment, &header.UTXOCommitment)
	b = appendVarintField(b, fieldHeaderTimeInMilliseconds, protowire.EncodeZigZag(header.TimeInMilliseconds))
	b = appendFixed32Field(b, fieldHeaderBits, header.Bits)
	return appendFixed64Field(b, fieldHeaderNonce, header.Nonce)
}

// DeserializeBlockHeader deserializes a block header written by SerializeBlockHeader
func DeserializeBlockHeader(b []byte) (*externalapi.DomainBlockHeader, error) {
	header := &externalapi.DomainBlockHeader{
		ParentHashes: []*externalapi.DomainHash{},
	}
	err := consumeFields(b, func(field *dbField) error {
		return deserializeBlockHeaderField(header, field)
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

func deserializeBlockHeaderField(header *externalapi.DomainBlockHeader, field *dbField) error {
	switch field.number {
	case fieldHeaderVersion:
		if err := field.expect(protowire.VarintType); err != nil {
			return err
		}
		if field.varint > uint64(^uint16(0)) {
			return errors.Errorf("block version %d overflows uint16", field.varint)
		}
		header.Version = uint16(field.varint)
	case fieldHeaderParentHashes:
		hash, err := fieldToHash(field)
		if err != nil {
			return err
		}
		header.ParentHashes = append(header.ParentHashes, hash)
	case fieldHeaderHashMerkleRoot:
		hash, err := fieldToHash(field)
		if err != nil {
			return err
		}
		header.HashMerkleRoot = *hash
	case fieldHeaderUTXOCommitment:
		hash, err := fieldToHash(field)
		if err != nil {
			return err
		}
		header.UTXOCommitment = *hash
	case fieldHeaderTimeInMilliseconds:
		if err := field.expect(protowire.VarintType); err != nil {
			return err
		}
		header.TimeInMilliseconds = protowire.DecodeZigZag(field.varint)
	case fieldHeaderBits:
		if err := field.expect(protowire.Fixed32Type); err != nil {
			return err
		}
		header.Bits = field.fixed32
	case fieldHeaderNonce:
		if err := field.expect(protowire.Fixed64Type); err != nil {
			return err
		}
		header.Nonce = field.fixed64
	default:
		return unexpectedFieldError("block header", field)
	}
	return nil
}

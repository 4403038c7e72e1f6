package serialization

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldBlockRelationsParents  protowire.Number = 1
	fieldBlockRelationsChildren protowire.Number = 2
)

// SerializeBlockRelations serializes the given block relations
func SerializeBlockRelations(blockRelations *model.BlockRelations) []byte {
	b := appendHashesField(nil, fieldBlockRelationsParents, blockRelations.Parents)
	return appendHashesField(b, fieldBlockRelationsChildren, blockRelations.Children)
}

// DeserializeBlockRelations deserializes block relations written by SerializeBlockRelations
func DeserializeBlockRelations(b []byte) (*model.BlockRelations, error) {
	blockRelations := &model.BlockRelations{
		Parents:  []*externalapi.DomainHash{},
		Children: []*externalapi.DomainHash{},
	}
	err := consumeFields(b, func(field *dbField) error {
		hash, err := fieldToHash(field)
		if err != nil {
			return err
		}
		switch field.number {
		case fieldBlockRelationsParents:
			blockRelations.Parents = append(blockRelations.Parents, hash)
		case fieldBlockRelationsChildren:
			blockRelations.Children = append(blockRelations.Children, hash)
		default:
			return unexpectedFieldError("block relations", field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blockRelations, nil
}

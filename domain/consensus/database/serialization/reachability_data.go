package serialization

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldReachabilityIntervalStart     protowire.Number = 1
	fieldReachabilityIntervalEnd       protowire.Number = 2
	fieldReachabilityParent            protowire.Number = 3
	fieldReachabilityChildren          protowire.Number = 4
	fieldReachabilityFutureCoveringSet protowire.Number = 5
)

// SerializeReachabilityData serializes the given reachability data
func SerializeReachabilityData(reachabilityData *model.ReachabilityData) []byte {
	treeNode := reachabilityData.TreeNode

	b := appendVarintField(nil, fieldReachabilityIntervalStart, treeNode.Interval.Start)
	b = appendVarintField(b, fieldReachabilityIntervalEnd, treeNode.Interval.End)
	if treeNode.Parent != nil {
		b = appendHashField(b, fieldReachabilityParent, treeNode.Parent)
	}
	b = appendHashesField(b, fieldReachabilityChildren, treeNode.Children)
	return appendHashesField(b, fieldReachabilityFutureCoveringSet, reachabilityData.FutureCoveringSet)
}

// DeserializeReachabilityData deserializes reachability data written by SerializeReachabilityData
func DeserializeReachabilityData(b []byte) (*model.ReachabilityData, error) {
	treeNode := &model.ReachabilityTreeNode{
		Children: []*externalapi.DomainHash{},
		Interval: &model.ReachabilityInterval{},
	}
	reachabilityData := &model.ReachabilityData{
		TreeNode:          treeNode,
		FutureCoveringSet: model.FutureCoveringTreeNodeSet{},
	}

	hasStart, hasEnd := false, false
	err := consumeFields(b, func(field *dbField) error {
		switch field.number {
		case fieldReachabilityIntervalStart:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			treeNode.Interval.Start = field.varint
			hasStart = true
		case fieldReachabilityIntervalEnd:
			if err := field.expect(protowire.VarintType); err != nil {
				return err
			}
			treeNode.Interval.End = field.varint
			hasEnd = true
		case fieldReachabilityParent:
			parent, err := fieldToHash(field)
			if err != nil {
				return err
			}
			treeNode.Parent = parent
		case fieldReachabilityChildren:
			child, err := fieldToHash(field)
			if err != nil {
				return err
			}
			treeNode.Children = append(treeNode.Children, child)
		case fieldReachabilityFutureCoveringSet:
			hash, err := fieldToHash(field)
			if err != nil {
				return err
			}
			reachabilityData.FutureCoveringSet = append(reachabilityData.FutureCoveringSet, hash)
		default:
			return unexpectedFieldError("reachability data", field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !hasStart || !hasEnd {
		return nil, errors.New("reachability data is missing its interval")
	}
	return reachabilityData, nil
}

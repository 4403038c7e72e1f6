package dagtopologymanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// dagTopologyManager exposes methods for querying relationships
// between blocks in the DAG
type dagTopologyManager struct {
	reachabilityManager model.ReachabilityManager
	blockRelationStore  model.BlockRelationStore
	consensusStateStore model.ConsensusStateStore
	databaseContext     model.DBReader
}

// New instantiates a new DAGTopologyManager
func New(
	databaseContext model.DBReader,
	reachabilityManager model.ReachabilityManager,
	blockRelationStore model.BlockRelationStore,
	consensusStateStore model.ConsensusStateStore) model.DAGTopologyManager {

	return &dagTopologyManager{
		databaseContext:     databaseContext,
		reachabilityManager: reachabilityManager,
		blockRelationStore:  blockRelationStore,
		consensusStateStore: consensusStateStore,
	}
}

// Parents returns the DAG parents of the given blockHash
func (dtm *dagTopologyManager) Parents(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	[]*externalapi.DomainHash, error) {

	blockRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	return blockRelations.Parents, nil
}

// Children returns the DAG children of the given blockHash
func (dtm *dagTopologyManager) Children(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	[]*externalapi.DomainHash, error) {

	blockRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	return blockRelations.Children, nil
}

// IsParentOf returns true if blockHashA is a direct DAG parent of blockHashB
func (dtm *dagTopologyManager) IsParentOf(stagingArea *model.StagingArea,
	blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {

	blockRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHashB)
	if err != nil {
		return false, err
	}

	return isHashInSlice(blockHashA, blockRelations.Parents), nil
}

// IsChildOf returns true if blockHashA is a direct DAG child of blockHashB
func (dtm *dagTopologyManager) IsChildOf(stagingArea *model.StagingArea,
	blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {

	blockRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHashB)
	if err != nil {
		return false, err
	}
	return isHashInSlice(blockHashA, blockRelations.Children), nil
}

// IsAncestorOf returns true if blockHashA is a DAG ancestor of blockHashB.
// A block is considered an ancestor of itself.
func (dtm *dagTopologyManager) IsAncestorOf(stagingArea *model.StagingArea,
	blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {

	return dtm.reachabilityManager.IsDAGAncestorOf(stagingArea, blockHashA, blockHashB)
}

// IsAncestorOfAny returns true if `blockHash` is an ancestor of at least one of `potentialDescendants`
func (dtm *dagTopologyManager) IsAncestorOfAny(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	potentialDescendants []*externalapi.DomainHash) (bool, error) {

	for _, potentialDescendant := range potentialDescendants {
		isAncestorOf, err := dtm.IsAncestorOf(stagingArea, blockHash, potentialDescendant)
		if err != nil {
			return false, err
		}

		if isAncestorOf {
			return true, nil
		}
	}

	return false, nil
}

// IsAnyAncestorOf returns true if at least one of `potentialAncestors` is an ancestor of `blockHash`
func (dtm *dagTopologyManager) IsAnyAncestorOf(stagingArea *model.StagingArea,
	potentialAncestors []*externalapi.DomainHash, blockHash *externalapi.DomainHash) (bool, error) {

	for _, potentialAncestor := range potentialAncestors {
		isAncestorOf, err := dtm.IsAncestorOf(stagingArea, potentialAncestor, blockHash)
		if err != nil {
			return false, err
		}

		if isAncestorOf {
			return true, nil
		}
	}

	return false, nil
}

// IsDescendantOf returns true if blockHashA is a DAG descendant of blockHashB
func (dtm *dagTopologyManager) IsDescendantOf(stagingArea *model.StagingArea,
	blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {

	return dtm.IsAncestorOf(stagingArea, blockHashB, blockHashA)
}

// IsInSelectedParentChainOf returns true if blockHashA is in the selected parent chain of blockHashB.
// The reachability tree is exactly the selected parent tree, so tree ancestry answers it.
func (dtm *dagTopologyManager) IsInSelectedParentChainOf(stagingArea *model.StagingArea,
	blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {

	return dtm.reachabilityManager.IsReachabilityTreeAncestorOf(stagingArea, blockHashA, blockHashB)
}

// Tips returns the current virtual parents, the blocks without children
func (dtm *dagTopologyManager) Tips(stagingArea *model.StagingArea) ([]*externalapi.DomainHash, error) {
	return dtm.consensusStateStore.Tips(stagingArea, dtm.databaseContext)
}

// IsTip returns whether the given block has no children yet
func (dtm *dagTopologyManager) IsTip(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	children, err := dtm.Children(stagingArea, blockHash)
	if err != nil {
		return false, err
	}
	return len(children) == 0, nil
}

// SetParents registers the given block with the given parents, and
// registers the block as a child of each of them. Setting the same parents
// for a registered block does nothing.
func (dtm *dagTopologyManager) SetParents(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	parentHashes []*externalapi.DomainHash) error {

	hasRelations, err := dtm.blockRelationStore.Has(dtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if hasRelations {
		currentRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return err
		}
		if !sameHashSet(currentRelations.Parents, parentHashes) {
			return errors.Wrapf(ruleerrors.ErrInvalidDAGStructure,
				"block %s is already registered with different parents", blockHash)
		}
		return nil
	}

	parentRelations := make([]*model.BlockRelations, len(parentHashes))
	for i, parentHash := range parentHashes {
		hasParent, err := dtm.blockRelationStore.Has(dtm.databaseContext, stagingArea, parentHash)
		if err != nil {
			return err
		}
		if !hasParent {
			return errors.Wrapf(ruleerrors.ErrInvalidDAGStructure,
				"parent %s of block %s is unknown", parentHash, blockHash)
		}
		parentRelations[i], err = dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, parentHash)
		if err != nil {
			return err
		}
	}

	for i, parentHash := range parentHashes {
		relations := parentRelations[i]
		relations.Children = append(relations.Children, blockHash)
		dtm.blockRelationStore.StageBlockRelation(stagingArea, parentHash, relations)
	}

	dtm.blockRelationStore.StageBlockRelation(stagingArea, blockHash, &model.BlockRelations{
		Parents:  externalapi.CloneHashes(parentHashes),
		Children: []*externalapi.DomainHash{},
	})
	return nil
}

func isHashInSlice(hash *externalapi.DomainHash, hashes []*externalapi.DomainHash) bool {
	for _, h := range hashes {
		if h.Equal(hash) {
			return true
		}
	}
	return false
}

func sameHashSet(a, b []*externalapi.DomainHash) bool {
	if len(a) != len(b) {
		return false
	}
	for _, hash := range a {
		if !isHashInSlice(hash, b) {
			return false
		}
	}
	return true
}

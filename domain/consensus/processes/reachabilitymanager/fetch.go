package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

func (rt *reachabilityManager) data(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	*model.ReachabilityData, error) {

	hasData, err := rt.reachabilityDataStore.HasReachabilityData(rt.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	if !hasData {
		return nil, errors.Wrapf(ruleerrors.ErrInvalidDAGStructure,
			"block %s is not registered in the reachability tree", blockHash)
	}

	return rt.reachabilityDataStore.ReachabilityData(rt.databaseContext, stagingArea, blockHash)
}

func (rt *reachabilityManager) futureCoveringSet(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	model.FutureCoveringTreeNodeSet, error) {

	data, err := rt.data(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	return data.FutureCoveringSet, nil
}

func (rt *reachabilityManager) interval(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	*model.ReachabilityInterval, error) {

	data, err := rt.data(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	return data.TreeNode.Interval, nil
}

func (rt *reachabilityManager) children(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	[]*externalapi.DomainHash, error) {

	data, err := rt.data(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	return data.TreeNode.Children, nil
}

func (rt *reachabilityManager) parent(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	*externalapi.DomainHash, error) {

	data, err := rt.data(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	return data.TreeNode.Parent, nil
}

func (rt *reachabilityManager) reindexRoot(stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	return rt.reachabilityDataStore.ReachabilityReindexRoot(rt.databaseContext, stagingArea)
}

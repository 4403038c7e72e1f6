package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

// insertToFutureCoveringSet inserts futureBlock into the future covering
// set of node. The set is kept ordered by interval start. If a member of
// the set is already a tree ancestor of futureBlock, nothing is inserted.
func (rt *reachabilityManager) insertToFutureCoveringSet(stagingArea *model.StagingArea,
	node, futureBlock *externalapi.DomainHash) error {

	futureCoveringSet, err := rt.futureCoveringSet(stagingArea, node)
	if err != nil {
		return err
	}

	futureBlockInterval, err := rt.interval(stagingArea, futureBlock)
	if err != nil {
		return err
	}

	index, err := rt.searchByIntervalStart(stagingArea, futureCoveringSet, futureBlockInterval.Start)
	if err != nil {
		return err
	}

	if index > 0 {
		candidate := futureCoveringSet[index-1]
		isCandidateAncestor, err := rt.IsReachabilityTreeAncestorOf(stagingArea, candidate, futureBlock)
		if err != nil {
			return err
		}
		if isCandidateAncestor {
			return nil
		}
	}

	newFutureCoveringSet := make(model.FutureCoveringTreeNodeSet, 0, len(futureCoveringSet)+1)
	newFutureCoveringSet = append(newFutureCoveringSet, futureCoveringSet[:index]...)
	newFutureCoveringSet = append(newFutureCoveringSet, futureBlock)
	newFutureCoveringSet = append(newFutureCoveringSet, futureCoveringSet[index:]...)

	return rt.stageFutureCoveringSet(stagingArea, node, newFutureCoveringSet)
}

// futureCoveringSetHasAncestorOf resolves whether some member of the future
// covering set of node is a reachability tree ancestor of other
func (rt *reachabilityManager) futureCoveringSetHasAncestorOf(stagingArea *model.StagingArea,
	node, other *externalapi.DomainHash) (bool, error) {

	futureCoveringSet, err := rt.futureCoveringSet(stagingArea, node)
	if err != nil {
		return false, err
	}

	_, found, err := rt.findAncestorOfNode(stagingArea, futureCoveringSet, other)
	return found, err
}

package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

func (rt *reachabilityManager) updateReindexRoot(stagingArea *model.StagingArea, selectedTip *externalapi.DomainHash) error {
	originalReindexRoot, err := rt.reindexRoot(stagingArea)
	if err != nil {
		return err
	}

	nextReindexRoot := originalReindexRoot
	for {
		candidateReindexRoot, found, err := rt.maybeMoveReindexRoot(stagingArea, nextReindexRoot, selectedTip)
		if err != nil {
			return err
		}
		if !found {
			break
		}
		nextReindexRoot = candidateReindexRoot
	}

	if !nextReindexRoot.Equal(originalReindexRoot) {
		log.Debugf("Reachability reindex root moved from %s to %s", originalReindexRoot, nextReindexRoot)
		rt.stageReindexRoot(stagingArea, nextReindexRoot)
	}
	return nil
}

// maybeMoveReindexRoot returns the next reindex root on the way from
// reindexRoot to selectedTip, if the reindex root should move at all
func (rt *reachabilityManager) maybeMoveReindexRoot(stagingArea *model.StagingArea,
	reindexRoot, selectedTip *externalapi.DomainHash) (newReindexRoot *externalapi.DomainHash, found bool, err error) {

	if reindexRoot.Equal(selectedTip) {
		return nil, false, nil
	}

	isAncestorOf, err := rt.IsReachabilityTreeAncestorOf(stagingArea, reindexRoot, selectedTip)
	if err != nil {
		return nil, false, err
	}
	if !isAncestorOf {
		// The selected chain moved away from the reindex root. Fall back
		// to their common ancestor.
		commonAncestor, err := rt.findCommonAncestorWithReindexRoot(stagingArea, selectedTip, reindexRoot)
		if err != nil {
			return nil, false, err
		}

		return commonAncestor, true, nil
	}

	reindexRootChosenChild, err := rt.FindNextAncestor(stagingArea, selectedTip, reindexRoot)
	if err != nil {
		return nil, false, err
	}

	selectedTipGHOSTDAGData, err := rt.ghostdagDataStore.Get(rt.databaseContext, stagingArea, selectedTip)
	if err != nil {
		return nil, false, err
	}

	reindexRootChosenChildGHOSTDAGData, err := rt.ghostdagDataStore.Get(rt.databaseContext, stagingArea, reindexRootChosenChild)
	if err != nil {
		return nil, false, err
	}

	if selectedTipGHOSTDAGData.BlueScore()-reindexRootChosenChildGHOSTDAGData.BlueScore() < rt.reindexWindow {
		return nil, false, nil
	}

	err = rt.concentrateIntervalAroundReindexRootChosenChild(stagingArea, reindexRoot, reindexRootChosenChild)
	if err != nil {
		return nil, false, err
	}

	return reindexRootChosenChild, true, nil
}

// concentrateIntervalAroundReindexRootChosenChild packs the siblings of
// the chosen child tightly, leaving them reindexSlack each, and hands all
// the remaining interval of the reindex root to the chosen child
func (rt *reachabilityManager) concentrateIntervalAroundReindexRootChosenChild(stagingArea *model.StagingArea,
	reindexRoot, reindexRootChosenChild *externalapi.DomainHash) error {

	childrenBeforeChosen, childrenAfterChosen, err :=
		rt.splitChildrenAroundChild(stagingArea, reindexRoot, reindexRootChosenChild)
	if err != nil {
		return err
	}

	reindexRootInterval, err := rt.interval(stagingArea, reindexRoot)
	if err != nil {
		return err
	}

	beforeSizes, beforeSubtreeSizeMaps, beforeSizesSum, err :=
		rt.calcReachabilityTreeNodeSizes(stagingArea, childrenBeforeChosen)
	if err != nil {
		return err
	}

	afterSizes, afterSubtreeSizeMaps, afterSizesSum, err :=
		rt.calcReachabilityTreeNodeSizes(stagingArea, childrenAfterChosen)
	if err != nil {
		return err
	}

	// Both sides keep reindexSlack, plus the unused last slot of the root
	requiredSize := beforeSizesSum + afterSizesSum + 2*rt.reindexSlack + 1
	if intervalSize(reindexRootInterval) <= requiredSize {
		return errors.Errorf("reindex root %s with interval %s is too small to concentrate "+
			"around %s", reindexRoot, reindexRootInterval, reindexRootChosenChild)
	}

	if beforeSizesSum > 0 {
		intervalBefore := newReachabilityInterval(
			reindexRootInterval.Start+rt.reindexSlack,
			reindexRootInterval.Start+rt.reindexSlack+beforeSizesSum-1,
		)
		err = rt.propagateChildIntervals(stagingArea, intervalBefore, childrenBeforeChosen,
			beforeSizes, beforeSubtreeSizeMaps)
		if err != nil {
			return err
		}
	}

	if afterSizesSum > 0 {
		intervalAfter := newReachabilityInterval(
			reindexRootInterval.End-rt.reindexSlack-afterSizesSum,
			reindexRootInterval.End-rt.reindexSlack-1,
		)
		err = rt.propagateChildIntervals(stagingArea, intervalAfter, childrenAfterChosen,
			afterSizes, afterSubtreeSizeMaps)
		if err != nil {
			return err
		}
	}

	return rt.expandIntervalInReindexRootChosenChild(stagingArea, reindexRoot, reindexRootChosenChild,
		beforeSizesSum, afterSizesSum)
}

func (rt *reachabilityManager) expandIntervalInReindexRootChosenChild(stagingArea *model.StagingArea,
	reindexRoot, reindexRootChosenChild *externalapi.DomainHash, beforeSizesSum, afterSizesSum uint64) error {

	reindexRootInterval, err := rt.interval(stagingArea, reindexRoot)
	if err != nil {
		return err
	}

	newChosenChildInterval := newReachabilityInterval(
		reindexRootInterval.Start+beforeSizesSum+rt.reindexSlack,
		reindexRootInterval.End-afterSizesSum-rt.reindexSlack-1,
	)

	chosenChildInterval, err := rt.interval(stagingArea, reindexRootChosenChild)
	if err != nil {
		return err
	}

	if !intervalContains(newChosenChildInterval, chosenChildInterval) {
		// The new interval doesn't contain the previous one, so the subtree
		// has to be propagated. Slack is kept on both sides so that the next
		// time the reindex root moves the new interval likely contains the
		// old one.
		innerInterval := newChosenChildInterval
		if intervalSize(newChosenChildInterval) > 2*rt.reindexSlack {
			innerInterval = newReachabilityInterval(
				newChosenChildInterval.Start+rt.reindexSlack,
				newChosenChildInterval.End-rt.reindexSlack,
			)
		}
		err := rt.stageInterval(stagingArea, reindexRootChosenChild, innerInterval)
		if err != nil {
			return err
		}

		err = rt.countSubtreesAndPropagateInterval(stagingArea, reindexRootChosenChild)
		if err != nil {
			return err
		}
	}

	return rt.stageInterval(stagingArea, reindexRootChosenChild, newChosenChildInterval)
}

package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

// reindexIntervalsEarlierThanReindexRoot makes room for a new child of a
// node that is not in the subtree of the reindex root. Space is taken
// from the slack of the reindex root's selected chain instead of
// reindexing the (potentially huge) subtree of the common ancestor.
func (rt *reachabilityManager) reindexIntervalsEarlierThanReindexRoot(stagingArea *model.StagingArea,
	node, reindexRoot *externalapi.DomainHash) error {

	// Find the common ancestor for both node and the reindex root
	commonAncestor, err := rt.findCommonAncestorWithReindexRoot(stagingArea, node, reindexRoot)
	if err != nil {
		return err
	}

	// The chosen child is:
	// a. A reachability tree child of `commonAncestor`
	// b. A reachability tree ancestor of `reindexRoot`
	commonAncestorChosenChild, err := rt.FindNextAncestor(stagingArea, reindexRoot, commonAncestor)
	if err != nil {
		return err
	}

	nodeInterval, err := rt.interval(stagingArea, node)
	if err != nil {
		return err
	}

	commonAncestorChosenChildInterval, err := rt.interval(stagingArea, commonAncestorChosenChild)
	if err != nil {
		return err
	}

	if nodeInterval.End < commonAncestorChosenChildInterval.Start {
		// node is in the subtree before the chosen child
		return rt.reclaimIntervalBefore(stagingArea, commonAncestor, commonAncestorChosenChild, reindexRoot)
	}

	// node is either:
	// * in the subtree after the chosen child
	// * the common ancestor
	// In both cases we reclaim from the "after" subtree. In the
	// latter case this is arbitrary
	return rt.reclaimIntervalAfter(stagingArea, commonAncestor, commonAncestorChosenChild, reindexRoot)
}

// reclaimIntervalBefore frees slackReachabilityIntervalForReclaiming from
// the start of the chain commonAncestorChosenChild -> reindexRoot and
// packs the subtrees before that chain tightly into the freed space.
func (rt *reachabilityManager) reclaimIntervalBefore(stagingArea *model.StagingArea,
	commonAncestor, commonAncestorChosenChild, reindexRoot *externalapi.DomainHash) error {

	current, err := rt.climbToSlack(stagingArea, commonAncestorChosenChild, reindexRoot, rt.hasSlackIntervalBefore)
	if err != nil {
		return err
	}

	if current.Equal(reindexRoot) {
		hasSlack, err := rt.hasSlackIntervalBefore(stagingArea, current)
		if err != nil {
			return err
		}
		if !hasSlack {
			// "Deallocate" an interval from the start of the reindex root by
			// propagating its subtree into a smaller interval. This is the
			// interval that will be used for the new node.
			err = rt.reallocateWithinShrunkInterval(stagingArea, current, slackReachabilityIntervalForReclaiming, 0)
			if err != nil {
				return err
			}
		}
	}

	// Go up the reachability tree towards the common ancestor.
	// On every hop the subtree before the current node is reindexed
	// into an interval that is larger by slackReachabilityIntervalForReclaiming.
	// This makes room for the new node.
	for !current.Equal(commonAncestor) {
		currentInterval, err := rt.interval(stagingArea, current)
		if err != nil {
			return err
		}

		err = rt.stageInterval(stagingArea, current, newReachabilityInterval(
			currentInterval.Start+slackReachabilityIntervalForReclaiming,
			currentInterval.End,
		))
		if err != nil {
			return err
		}

		currentParent, err := rt.parent(stagingArea, current)
		if err != nil {
			return err
		}

		err = rt.reindexIntervalsBeforeNode(stagingArea, currentParent, current)
		if err != nil {
			return err
		}
		current = currentParent
	}

	return nil
}

// reindexIntervalsBeforeNode applies a tight interval to the reachability
// subtree before `node`. Note that `node` itself is unaffected.
func (rt *reachabilityManager) reindexIntervalsBeforeNode(stagingArea *model.StagingArea,
	parent, node *externalapi.DomainHash) error {

	childrenBeforeNode, _, err := rt.splitChildrenAroundChild(stagingArea, parent, node)
	if err != nil {
		return err
	}

	sizes, subtreeSizeMaps, sizesSum, err := rt.calcReachabilityTreeNodeSizes(stagingArea, childrenBeforeNode)
	if err != nil {
		return err
	}
	if sizesSum == 0 {
		return nil
	}

	nodeInterval, err := rt.interval(stagingArea, node)
	if err != nil {
		return err
	}

	newIntervalEnd := nodeInterval.Start - 1
	newInterval := newReachabilityInterval(newIntervalEnd-sizesSum+1, newIntervalEnd)
	return rt.propagateChildIntervals(stagingArea, newInterval, childrenBeforeNode, sizes, subtreeSizeMaps)
}

// reclaimIntervalAfter is the mirror image of reclaimIntervalBefore
func (rt *reachabilityManager) reclaimIntervalAfter(stagingArea *model.StagingArea,
	commonAncestor, commonAncestorChosenChild, reindexRoot *externalapi.DomainHash) error {

	current, err := rt.climbToSlack(stagingArea, commonAncestorChosenChild, reindexRoot, rt.hasSlackIntervalAfter)
	if err != nil {
		return err
	}

	if current.Equal(reindexRoot) {
		hasSlack, err := rt.hasSlackIntervalAfter(stagingArea, current)
		if err != nil {
			return err
		}
		if !hasSlack {
			err = rt.reallocateWithinShrunkInterval(stagingArea, current, 0, slackReachabilityIntervalForReclaiming)
			if err != nil {
				return err
			}
		}
	}

	for !current.Equal(commonAncestor) {
		currentInterval, err := rt.interval(stagingArea, current)
		if err != nil {
			return err
		}

		err = rt.stageInterval(stagingArea, current, newReachabilityInterval(
			currentInterval.Start,
			currentInterval.End-slackReachabilityIntervalForReclaiming,
		))
		if err != nil {
			return err
		}

		currentParent, err := rt.parent(stagingArea, current)
		if err != nil {
			return err
		}

		err = rt.reindexIntervalsAfterNode(stagingArea, currentParent, current)
		if err != nil {
			return err
		}
		current = currentParent
	}

	return nil
}

// reindexIntervalsAfterNode applies a tight interval to the reachability
// subtree after `node`. Note that `node` itself is unaffected.
func (rt *reachabilityManager) reindexIntervalsAfterNode(stagingArea *model.StagingArea,
	parent, node *externalapi.DomainHash) error {

	_, childrenAfterNode, err := rt.splitChildrenAroundChild(stagingArea, parent, node)
	if err != nil {
		return err
	}

	sizes, subtreeSizeMaps, sizesSum, err := rt.calcReachabilityTreeNodeSizes(stagingArea, childrenAfterNode)
	if err != nil {
		return err
	}
	if sizesSum == 0 {
		return nil
	}

	nodeInterval, err := rt.interval(stagingArea, node)
	if err != nil {
		return err
	}

	newIntervalStart := nodeInterval.End + 1
	newInterval := newReachabilityInterval(newIntervalStart, newIntervalStart+sizesSum-1)
	return rt.propagateChildIntervals(stagingArea, newInterval, childrenAfterNode, sizes, subtreeSizeMaps)
}

// climbToSlack walks from node down the tree towards reindexRoot and
// returns the first node for which hasSlack holds, or reindexRoot itself
func (rt *reachabilityManager) climbToSlack(stagingArea *model.StagingArea, node, reindexRoot *externalapi.DomainHash,
	hasSlack func(*model.StagingArea, *externalapi.DomainHash) (bool, error)) (*externalapi.DomainHash, error) {

	current := node
	for {
		currentHasSlack, err := hasSlack(stagingArea, current)
		if err != nil {
			return nil, err
		}

		if currentHasSlack || current.Equal(reindexRoot) {
			return current, nil
		}

		current, err = rt.FindNextAncestor(stagingArea, reindexRoot, current)
		if err != nil {
			return nil, err
		}
	}
}

// reallocateWithinShrunkInterval propagates the subtree of node into its
// interval shrunk by the given amounts from both sides, and then restores
// the node's original interval. The node is left with free slack at the
// shrunk sides.
func (rt *reachabilityManager) reallocateWithinShrunkInterval(stagingArea *model.StagingArea,
	node *externalapi.DomainHash, shrinkStart, shrinkEnd uint64) error {

	originalInterval, err := rt.interval(stagingArea, node)
	if err != nil {
		return err
	}

	err = rt.stageInterval(stagingArea, node, newReachabilityInterval(
		originalInterval.Start+shrinkStart,
		originalInterval.End-shrinkEnd,
	))
	if err != nil {
		return err
	}

	err = rt.countSubtreesAndPropagateInterval(stagingArea, node)
	if err != nil {
		return err
	}

	return rt.stageInterval(stagingArea, node, originalInterval)
}

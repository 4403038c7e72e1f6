package reachabilitymanager

import (
	"math"
	"strings"
	"time"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var (
	// defaultReindexWindow is the default target window size for reachability
	// reindexes. Note that this is not a constant for testing purposes.
	defaultReindexWindow uint64 = 200

	// defaultReindexSlack is default the slack interval given to reachability
	// tree nodes not in the selected parent chain. Note that this is not
	// a constant for testing purposes.
	defaultReindexSlack uint64 = 1 << 12

	// slackReachabilityIntervalForReclaiming is the slack interval to
	// reclaim during reachability reindexes earlier than the reindex root.
	// See reclaimIntervalBeforeChosenChild for further details.
	slackReachabilityIntervalForReclaiming uint64 = 1
)

// newReachabilityTreeData returns the data of the reachability tree root.
// The root interval leaves 0 and MaxUint64 unused so that interval
// arithmetic at the edges never overflows.
func newReachabilityTreeData() *model.ReachabilityData {
	return &model.ReachabilityData{
		TreeNode: &model.ReachabilityTreeNode{
			Children: []*externalapi.DomainHash{},
			Parent:   nil,
			Interval: newReachabilityInterval(1, math.MaxUint64-1),
		},
		FutureCoveringSet: model.FutureCoveringTreeNodeSet{},
	}
}

// newReachabilityLeafData returns the data of a freshly inserted block,
// before it is given its place in the tree
func newReachabilityLeafData() *model.ReachabilityData {
	return &model.ReachabilityData{
		TreeNode: &model.ReachabilityTreeNode{
			Children: []*externalapi.DomainHash{},
			Parent:   nil,
			Interval: newReachabilityInterval(1, 0),
		},
		FutureCoveringSet: model.FutureCoveringTreeNodeSet{},
	}
}

func (rt *reachabilityManager) intervalRangeForChildAllocation(stagingArea *model.StagingArea,
	hash *externalapi.DomainHash) (*model.ReachabilityInterval, error) {

	interval, err := rt.interval(stagingArea, hash)
	if err != nil {
		return nil, err
	}

	// The end of the range is excluded so that a node's interval
	// *strictly* contains the intervals of its children.
	return newReachabilityInterval(interval.Start, interval.End-1), nil
}

func (rt *reachabilityManager) remainingIntervalBefore(stagingArea *model.StagingArea,
	node *externalapi.DomainHash) (*model.ReachabilityInterval, error) {

	childRange, err := rt.intervalRangeForChildAllocation(stagingArea, node)
	if err != nil {
		return nil, err
	}

	children, err := rt.children(stagingArea, node)
	if err != nil {
		return nil, err
	}

	if len(children) == 0 {
		return childRange, nil
	}

	firstChildInterval, err := rt.interval(stagingArea, children[0])
	if err != nil {
		return nil, err
	}

	return newReachabilityInterval(childRange.Start, firstChildInterval.Start-1), nil
}

func (rt *reachabilityManager) remainingIntervalAfter(stagingArea *model.StagingArea,
	node *externalapi.DomainHash) (*model.ReachabilityInterval, error) {

	childRange, err := rt.intervalRangeForChildAllocation(stagingArea, node)
	if err != nil {
		return nil, err
	}

	children, err := rt.children(stagingArea, node)
	if err != nil {
		return nil, err
	}

	if len(children) == 0 {
		return childRange, nil
	}

	lastChildInterval, err := rt.interval(stagingArea, children[len(children)-1])
	if err != nil {
		return nil, err
	}

	return newReachabilityInterval(lastChildInterval.End+1, childRange.End), nil
}

func (rt *reachabilityManager) hasSlackIntervalBefore(stagingArea *model.StagingArea,
	node *externalapi.DomainHash) (bool, error) {

	interval, err := rt.remainingIntervalBefore(stagingArea, node)
	if err != nil {
		return false, err
	}

	return intervalSize(interval) > 0, nil
}

func (rt *reachabilityManager) hasSlackIntervalAfter(stagingArea *model.StagingArea,
	node *externalapi.DomainHash) (bool, error) {

	interval, err := rt.remainingIntervalAfter(stagingArea, node)
	if err != nil {
		return false, err
	}

	return intervalSize(interval) > 0, nil
}

// addChild adds child to this tree node. If this node has no
// remaining interval to allocate, a reindexing is triggered.
func (rt *reachabilityManager) addChild(stagingArea *model.StagingArea, node, child,
	reindexRoot *externalapi.DomainHash) error {

	remaining, err := rt.remainingIntervalAfter(stagingArea, node)
	if err != nil {
		return err
	}

	// Set the parent-child relationship
	err = rt.addChildAndStage(stagingArea, node, child)
	if err != nil {
		return err
	}

	err = rt.stageParent(stagingArea, child, node)
	if err != nil {
		return err
	}

	// Temporarily set the child's interval to be empty, at
	// the start of node's remaining interval. This is done
	// so that child-of-node checks (e.g. FindNextAncestor)
	// will not fail for node.
	err = rt.stageInterval(stagingArea, child, newReachabilityInterval(remaining.Start, remaining.Start-1))
	if err != nil {
		return err
	}

	// Handle node not being a descendant of the reindex root.
	// Note that we check node here instead of child because
	// at this point we don't yet know child's interval.
	isReindexRootAncestorOfNode, err := rt.IsReachabilityTreeAncestorOf(stagingArea, reindexRoot, node)
	if err != nil {
		return err
	}

	if !isReindexRootAncestorOfNode {
		reindexStartTime := time.Now()
		err := rt.reindexIntervalsEarlierThanReindexRoot(stagingArea, node, reindexRoot)
		if err != nil {
			return err
		}
		log.Debugf("Reachability reindex triggered for block %s. This block is not a child "+
			"of the current reindex root %s. Took %dms.",
			node, reindexRoot, time.Since(reindexStartTime).Milliseconds())
		return nil
	}

	// No allocation space left -- reindex
	if intervalSize(remaining) == 0 {
		reindexStartTime := time.Now()
		err := rt.reindexIntervals(stagingArea, node)
		if err != nil {
			return err
		}
		log.Debugf("Reachability reindex triggered for block %s. Took %dms.",
			node, time.Since(reindexStartTime).Milliseconds())
		return nil
	}

	// Allocate from the remaining space
	allocated, _, err := intervalSplitInHalf(remaining)
	if err != nil {
		return err
	}

	return rt.stageInterval(stagingArea, child, allocated)
}

// reindexIntervals traverses the reachability subtree that's
// defined by this node and reallocates reachability interval space
// such that another reindexing is unlikely to occur shortly
// thereafter. It does this by traversing up the reachability
// tree until it finds a node with an interval that's larger than
// its subtree. See propagateInterval for further details.
func (rt *reachabilityManager) reindexIntervals(stagingArea *model.StagingArea, node *externalapi.DomainHash) error {
	current := node

	currentInterval, err := rt.interval(stagingArea, node)
	if err != nil {
		return err
	}

	size := intervalSize(currentInterval)
	subtreeSizeMap := make(map[externalapi.DomainHash]uint64)
	err = rt.countSubtrees(stagingArea, current, subtreeSizeMap)
	if err != nil {
		return err
	}

	// Find the first ancestor that has sufficient interval space
	for size < subtreeSizeMap[*current] {
		currentParent, err := rt.parent(stagingArea, current)
		if err != nil {
			return err
		}

		if currentParent == nil {
			// If we ended up here it means that there are more
			// than 2^64 blocks, which shouldn't ever happen.
			return errors.Errorf("missing tree parent during reindexing. Theoretically, " +
				"this should only ever happen if there are more than 2^64 blocks in the DAG.")
		}
		current = currentParent

		currentInterval, err := rt.interval(stagingArea, current)
		if err != nil {
			return err
		}
		size = intervalSize(currentInterval)

		err = rt.countSubtrees(stagingArea, current, subtreeSizeMap)
		if err != nil {
			return err
		}
	}

	return rt.propagateInterval(stagingArea, current, subtreeSizeMap)
}

// countSubtrees counts the size of each subtree under this node,
// and populates the provided subtreeSizeMap with the results.
// It is equivalent to the following recursive implementation:
//
// func countSubtrees(node) uint64 {
//     subtreeSize := uint64(0)
//     for _, child := range node.children {
//         subtreeSize += countSubtrees(child)
//     }
//     return subtreeSize + 1
// }
//
// The tree is expected to be (linearly) deep, so the recursion is
// replaced by a queue-based BFS that reaches all leaves and then pushes
// the sizes up the parent chains until they are gathered at node.
func (rt *reachabilityManager) countSubtrees(stagingArea *model.StagingArea, node *externalapi.DomainHash,
	subtreeSizeMap map[externalapi.DomainHash]uint64) error {

	queue := []*externalapi.DomainHash{node}
	calculatedChildrenCount := make(map[externalapi.DomainHash]uint64)
	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]
		currentChildren, err := rt.children(stagingArea, current)
		if err != nil {
			return err
		}

		if len(currentChildren) == 0 {
			// We reached a leaf
			subtreeSizeMap[*current] = 1
		} else if _, ok := subtreeSizeMap[*current]; !ok {
			// The subtree size of current is not known yet.
			// Visit its children first.
			queue = append(queue, currentChildren...)
			continue
		}

		// We reached a leaf or a pre-calculated subtree.
		// Push information up
		for !current.Equal(node) {
			current, err = rt.parent(stagingArea, current)
			if err != nil {
				return err
			}

			// Only the tree root has no parent
			if current == nil {
				break
			}

			calculatedChildrenCount[*current]++

			currentChildren, err := rt.children(stagingArea, current)
			if err != nil {
				return err
			}

			if calculatedChildrenCount[*current] != uint64(len(currentChildren)) {
				// Not all subtrees of the current node are ready
				break
			}

			childSubtreeSizeSum := uint64(0)
			for _, child := range currentChildren {
				childSubtreeSizeSum += subtreeSizeMap[*child]
			}
			subtreeSizeMap[*current] = childSubtreeSizeSum + 1
		}
	}

	return nil
}

// propagateInterval propagates the new interval using a BFS traversal.
// Subtree intervals are recursively allocated according to subtree sizes and
// the allocation rule in intervalSplitWithExponentialBias.
func (rt *reachabilityManager) propagateInterval(stagingArea *model.StagingArea, node *externalapi.DomainHash,
	subtreeSizeMap map[externalapi.DomainHash]uint64) error {

	queue := []*externalapi.DomainHash{node}
	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]

		currentChildren, err := rt.children(stagingArea, current)
		if err != nil {
			return err
		}

		if len(currentChildren) == 0 {
			continue
		}

		sizes := make([]uint64, len(currentChildren))
		for i, child := range currentChildren {
			sizes[i] = subtreeSizeMap[*child]
		}

		interval, err := rt.intervalRangeForChildAllocation(stagingArea, current)
		if err != nil {
			return err
		}

		intervals, err := intervalSplitWithExponentialBias(interval, sizes)
		if err != nil {
			return err
		}
		for i, child := range currentChildren {
			err = rt.stageInterval(stagingArea, child, intervals[i])
			if err != nil {
				return err
			}
			queue = append(queue, child)
		}
	}
	return nil
}

func (rt *reachabilityManager) countSubtreesAndPropagateInterval(stagingArea *model.StagingArea,
	node *externalapi.DomainHash) error {

	subtreeSizeMap := make(map[externalapi.DomainHash]uint64)
	err := rt.countSubtrees(stagingArea, node, subtreeSizeMap)
	if err != nil {
		return err
	}

	return rt.propagateInterval(stagingArea, node, subtreeSizeMap)
}

func (rt *reachabilityManager) calcReachabilityTreeNodeSizes(stagingArea *model.StagingArea,
	treeNodes []*externalapi.DomainHash) (
	sizes []uint64, subtreeSizeMaps []map[externalapi.DomainHash]uint64, sum uint64, err error) {

	sizes = make([]uint64, len(treeNodes))
	subtreeSizeMaps = make([]map[externalapi.DomainHash]uint64, len(treeNodes))
	for i, node := range treeNodes {
		subtreeSizeMap := make(map[externalapi.DomainHash]uint64)
		err := rt.countSubtrees(stagingArea, node, subtreeSizeMap)
		if err != nil {
			return nil, nil, 0, err
		}

		subtreeSize := subtreeSizeMap[*node]
		sizes[i] = subtreeSize
		subtreeSizeMaps[i] = subtreeSizeMap
		sum += subtreeSize
	}
	return sizes, subtreeSizeMaps, sum, nil
}

// propagateChildIntervals splits interval exactly between the given
// tree nodes and propagates each part into the node's subtree
func (rt *reachabilityManager) propagateChildIntervals(stagingArea *model.StagingArea,
	interval *model.ReachabilityInterval, treeNodes []*externalapi.DomainHash, sizes []uint64,
	subtreeSizeMaps []map[externalapi.DomainHash]uint64) error {

	intervals, err := intervalSplitExact(interval, sizes)
	if err != nil {
		return err
	}

	for i, node := range treeNodes {
		err := rt.stageInterval(stagingArea, node, intervals[i])
		if err != nil {
			return err
		}

		err = rt.propagateInterval(stagingArea, node, subtreeSizeMaps[i])
		if err != nil {
			return err
		}
	}

	return nil
}

// splitChildrenAroundChild splits the children of node into two slices:
// the children that are before child and the children that are after.
func (rt *reachabilityManager) splitChildrenAroundChild(stagingArea *model.StagingArea, node,
	child *externalapi.DomainHash) (childrenBefore, childrenAfter []*externalapi.DomainHash, err error) {

	nodeChildren, err := rt.children(stagingArea, node)
	if err != nil {
		return nil, nil, err
	}

	for i, candidateChild := range nodeChildren {
		if candidateChild.Equal(child) {
			return nodeChildren[:i], nodeChildren[i+1:], nil
		}
	}
	return nil, nil, errors.Errorf("%s is not a tree child of %s", child, node)
}

// String returns a string representation of the reachability subtree
// under node, one tree level per line with the deepest level first
func (rt *reachabilityManager) String(stagingArea *model.StagingArea, node *externalapi.DomainHash) (string, error) {
	queue := []*externalapi.DomainHash{node}
	nodeInterval, err := rt.interval(stagingArea, node)
	if err != nil {
		return "", err
	}

	lines := []string{nodeInterval.String()}
	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]
		currentChildren, err := rt.children(stagingArea, current)
		if err != nil {
			return "", err
		}

		if len(currentChildren) == 0 {
			continue
		}

		line := ""
		for _, child := range currentChildren {
			childInterval, err := rt.interval(stagingArea, child)
			if err != nil {
				return "", err
			}

			line += childInterval.String()
			queue = append(queue, child)
		}
		lines = append([]string{line}, lines...)
	}
	return strings.Join(lines, "\n"), nil
}

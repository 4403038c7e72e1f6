package consensusstatemanager

import (
	"sort"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// pickVirtualParents returns the parents of the virtual, ordered by the
// GHOSTDAG order from highest to lowest. Tips that cannot serve as a
// selected chain tip are replaced by their own parents, parents already in
// the past of another candidate are dropped, and the result is bounded by
// maxBlockParents.
func (csm *consensusStateManager) pickVirtualParents(stagingArea *model.StagingArea,
	tips []*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	log.Debugf("pickVirtualParents start for tips len: %d", len(tips))
	defer log.Debugf("pickVirtualParents end for tips len: %d", len(tips))

	candidates := make([]*externalapi.DomainHash, 0, len(tips))
	visited := make(map[externalapi.DomainHash]struct{})
	queue := externalapi.CloneHashes(tips)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, ok := visited[*current]; ok {
			continue
		}
		visited[*current] = struct{}{}

		status, err := csm.blockStatusStore.Get(csm.databaseContext, stagingArea, current)
		if err != nil {
			return nil, err
		}
		switch status {
		case externalapi.StatusUTXOValid, externalapi.StatusUTXOPendingVerification:
			candidates = append(candidates, current)
		default:
			log.Tracef("Tip candidate %s has status %s, considering its parents instead", current, status)
			parents, err := csm.dagTopologyManager.Parents(stagingArea, current)
			if err != nil {
				return nil, err
			}
			queue = append(queue, parents...)
		}
	}

	virtualParents := make([]*externalapi.DomainHash, 0, len(candidates))
	for i, candidate := range candidates {
		others := make([]*externalapi.DomainHash, 0, len(candidates)-1)
		others = append(others, candidates[:i]...)
		others = append(others, candidates[i+1:]...)
		isAncestorOfAnotherCandidate, err := csm.dagTopologyManager.IsAncestorOfAny(stagingArea, candidate, others)
		if err != nil {
			return nil, err
		}
		if !isAncestorOfAnotherCandidate {
			virtualParents = append(virtualParents, candidate)
		}
	}
	if len(virtualParents) == 0 {
		return nil, errors.New("no valid virtual parent candidates")
	}

	var sortErr error
	sort.Slice(virtualParents, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		selected, err := csm.ghostdagManager.ChooseSelectedParent(stagingArea, virtualParents[i], virtualParents[j])
		if err != nil {
			sortErr = err
			return false
		}
		return selected.Equal(virtualParents[i]) && !virtualParents[i].Equal(virtualParents[j])
	})
	if sortErr != nil {
		return nil, sortErr
	}

	if len(virtualParents) > csm.maxBlockParents {
		virtualParents = virtualParents[:csm.maxBlockParents]
	}
	log.Debugf("Picked %d virtual parents, selected parent candidate %s", len(virtualParents), virtualParents[0])
	return virtualParents, nil
}

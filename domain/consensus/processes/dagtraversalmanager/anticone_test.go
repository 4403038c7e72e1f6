package dagtraversalmanager_test

import (
	"math/rand"
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/dagtraversalmanager"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
	"github.com/pkg/errors"
)

// TestAnticoneAgainstTraversal compares Anticone with the set of blocks that
// are neither in the past nor in the future of a block, as found by walking
// parents and children directly.
func TestAnticoneAgainstTraversal(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(params, "TestAnticoneAgainstTraversal")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		random := rand.New(rand.NewSource(7))
		blockHashes := []*externalapi.DomainHash{params.GenesisHash}
		for i := 0; i < 30; i++ {
			// Tips never share ancestry, so any subset of them is a valid
			// parent set. An occasional old parent widens the anticones.
			tips, err := tc.Tips()
			if err != nil {
				t.Fatalf("Tips: %+v", err)
			}
			random.Shuffle(len(tips), func(i, j int) { tips[i], tips[j] = tips[j], tips[i] })
			parents := tips[:1]
			if len(tips) > 1 && random.Intn(2) == 0 {
				parents = tips[:2]
			}
			if random.Intn(3) == 0 {
				parents = []*externalapi.DomainHash{blockHashes[random.Intn(len(blockHashes))]}
			}
			blockHash, _, err := tc.AddBlock(parents, nil, nil)
			if err != nil {
				t.Fatalf("AddBlock: %+v", err)
			}
			blockHashes = append(blockHashes, blockHash)
		}

		stagingArea := model.NewStagingArea()
		for _, blockHash := range blockHashes {
			past := walk(t, stagingArea, blockHash, tc.DAGTopologyManager().Parents)
			future := walk(t, stagingArea, blockHash, tc.DAGTopologyManager().Children)
			expected := make(map[externalapi.DomainHash]struct{})
			for _, other := range blockHashes {
				if other.Equal(blockHash) {
					continue
				}
				_, inPast := past[*other]
				_, inFuture := future[*other]
				if !inPast && !inFuture {
					expected[*other] = struct{}{}
				}
			}

			anticone, err := tc.GetAnticone(blockHash)
			if err != nil {
				t.Fatalf("GetAnticone(%s): %+v", blockHash, err)
			}
			if len(anticone) != len(expected) {
				t.Fatalf("Anticone of %s has %d blocks, expected %d", blockHash, len(anticone), len(expected))
			}
			for _, anticoneHash := range anticone {
				if _, ok := expected[*anticoneHash]; !ok {
					t.Fatalf("Block %s is not expected in the anticone of %s", anticoneHash, blockHash)
				}
			}
		}
	})
}

func TestAnticoneTraversalLimit(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(params, "TestAnticoneTraversalLimit")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		// G <- A <- C
		// G <- B <- D
		blockA, _, err := tc.AddBlock([]*externalapi.DomainHash{params.GenesisHash}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		blockB, _, err := tc.AddBlock([]*externalapi.DomainHash{params.GenesisHash}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		_, _, err = tc.AddBlock([]*externalapi.DomainHash{blockA}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		blockD, _, err := tc.AddBlock([]*externalapi.DomainHash{blockB}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}

		newTraversalManager := func(maxAnticoneTraversal uint64) model.DAGTraversalManager {
			return dagtraversalmanager.New(
				tc.DatabaseContext(),
				tc.DAGTopologyManager(),
				tc.GHOSTDAGDataStore(),
				tc.ReachabilityDataStore(),
				tc.ConsensusStateStore(),
				params.GenesisHash,
				maxAnticoneTraversal)
		}

		stagingArea := model.NewStagingArea()
		_, err = newTraversalManager(1).Anticone(stagingArea, blockA)
		if !errors.Is(err, dagtraversalmanager.ErrAnticoneTraversalLimit) {
			t.Fatalf("Expected ErrAnticoneTraversalLimit, got: %+v", err)
		}

		// Zero means unlimited
		anticone, err := newTraversalManager(0).Anticone(stagingArea, blockA)
		if err != nil {
			t.Fatalf("Anticone: %+v", err)
		}
		expected := map[externalapi.DomainHash]struct{}{*blockB: {}, *blockD: {}}
		if len(anticone) != len(expected) {
			t.Fatalf("Anticone of A has %d blocks, expected %d", len(anticone), len(expected))
		}
		for _, anticoneHash := range anticone {
			if _, ok := expected[*anticoneHash]; !ok {
				t.Fatalf("Block %s is not expected in the anticone of A", anticoneHash)
			}
		}
	})
}

func walk(t *testing.T, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	next func(*model.StagingArea, *externalapi.DomainHash) ([]*externalapi.DomainHash, error)) map[externalapi.DomainHash]struct{} {

	reached := make(map[externalapi.DomainHash]struct{})
	queue := []*externalapi.DomainHash{blockHash}
	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]
		neighbors, err := next(stagingArea, current)
		if err != nil {
			t.Fatalf("walk from %s: %+v", current, err)
		}
		for _, neighbor := range neighbors {
			if _, ok := reached[*neighbor]; ok {
				continue
			}
			reached[*neighbor] = struct{}{}
			queue = append(queue, neighbor)
		}
	}
	return reached
}

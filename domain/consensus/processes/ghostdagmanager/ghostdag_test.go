package ghostdagmanager_test

import (
	"math/rand"
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/testapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
)

func TestGHOSTDAGTwoParallelBlocks(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(params, "TestGHOSTDAGTwoParallelBlocks")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		b1, _, err := tc.AddBlock([]*externalapi.DomainHash{params.GenesisHash}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		b2, _, err := tc.AddBlock([]*externalapi.DomainHash{params.GenesisHash}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		if b1.Equal(b2) {
			t.Fatalf("Expected two distinct blocks over genesis")
		}

		tips, err := tc.Tips()
		if err != nil {
			t.Fatalf("Tips: %+v", err)
		}
		if len(tips) != 2 || !containsHash(tips, b1) || !containsHash(tips, b2) {
			t.Fatalf("Expected the tips to be {%s, %s}, but got %s", b1, b2, tips)
		}

		b3, _, err := tc.AddBlock([]*externalapi.DomainHash{b1, b2}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		tips, err = tc.Tips()
		if err != nil {
			t.Fatalf("Tips: %+v", err)
		}
		if !externalapi.HashesEqual(tips, []*externalapi.DomainHash{b3}) {
			t.Fatalf("Expected the tips to be {%s}, but got %s", b3, tips)
		}

		selected, err := tc.GHOSTDAGManager().ChooseSelectedParent(model.NewStagingArea(), b1, b2)
		if err != nil {
			t.Fatalf("ChooseSelectedParent: %+v", err)
		}
		notSelected := b1
		if selected.Equal(b1) {
			notSelected = b2
		}

		selectedChain, err := tc.GetSelectedChain(b3)
		if err != nil {
			t.Fatalf("GetSelectedChain: %+v", err)
		}
		expectedChain := []*externalapi.DomainHash{params.GenesisHash, selected, b3}
		if !externalapi.HashesEqual(selectedChain, expectedChain) {
			t.Fatalf("Expected the selected chain to be %s, but got %s", expectedChain, selectedChain)
		}

		b3GHOSTDAGData, err := tc.GetBlockGHOSTDAGData(b3)
		if err != nil {
			t.Fatalf("GetBlockGHOSTDAGData: %+v", err)
		}
		expectedBlues := []*externalapi.DomainHash{selected, notSelected}
		if !externalapi.HashesEqual(b3GHOSTDAGData.MergeSetBlues(), expectedBlues) {
			t.Fatalf("Expected the merge set blues to be %s, but got %s", expectedBlues, b3GHOSTDAGData.MergeSetBlues())
		}
		if len(b3GHOSTDAGData.MergeSetReds()) != 0 {
			t.Fatalf("Expected no reds, but got %s", b3GHOSTDAGData.MergeSetReds())
		}
		if b3GHOSTDAGData.BlueScore() != 3 {
			t.Fatalf("Expected a blue score of 3, but got %d", b3GHOSTDAGData.BlueScore())
		}
		if b3GHOSTDAGData.Height() != 2 {
			t.Fatalf("Expected a height of 2, but got %d", b3GHOSTDAGData.Height())
		}
	})
}

func TestGHOSTDAGRandomDAG(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		params.K = 2

		factory := consensus.NewFactory()
		tc, teardown, err := factory.NewTestConsensus(params, "TestGHOSTDAGRandomDAG")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		random := rand.New(rand.NewSource(0))
		blockHashes := buildRandomDAG(t, tc, random, 60)

		stagingArea := model.NewStagingArea()
		for _, blockHash := range blockHashes {
			ghostdagData, err := tc.GHOSTDAGDataStore().Get(tc.DatabaseContext(), stagingArea, blockHash)
			if err != nil {
				t.Fatalf("GHOSTDAGDataStore().Get: %+v", err)
			}
			selectedParentGHOSTDAGData, err := tc.GHOSTDAGDataStore().Get(
				tc.DatabaseContext(), stagingArea, ghostdagData.SelectedParent())
			if err != nil {
				t.Fatalf("GHOSTDAGDataStore().Get: %+v", err)
			}
			if ghostdagData.BlueScore() <= selectedParentGHOSTDAGData.BlueScore() {
				t.Fatalf("Block %s has blue score %d, which is not above its selected parent's %d",
					blockHash, ghostdagData.BlueScore(), selectedParentGHOSTDAGData.BlueScore())
			}
			if ghostdagData.BlueWork().Cmp(selectedParentGHOSTDAGData.BlueWork()) <= 0 {
				t.Fatalf("Block %s has blue work that is not above its selected parent's", blockHash)
			}
			if len(ghostdagData.MergeSetBlues()) > int(params.K)+1 {
				t.Fatalf("Block %s has %d merge set blues, more than K+1", blockHash, len(ghostdagData.MergeSetBlues()))
			}
			for blue, anticoneSize := range ghostdagData.BluesAnticoneSizes() {
				if anticoneSize > params.K {
					t.Fatalf("Blue %s has an anticone of size %d in the blue set of %s", &blue, anticoneSize, blockHash)
				}
			}
		}

		// Insert the same DAG into a fresh consensus in a different
		// topological order and expect identical GHOSTDAG data
		other, teardownOther, err := factory.NewTestConsensus(params, "TestGHOSTDAGRandomDAGOther")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardownOther(false)

		blocks := make(map[externalapi.DomainHash]*externalapi.DomainBlock, len(blockHashes))
		for _, blockHash := range blockHashes {
			block, err := tc.GetBlock(blockHash)
			if err != nil {
				t.Fatalf("GetBlock: %+v", err)
			}
			blocks[*blockHash] = block
		}

		inserted := map[externalapi.DomainHash]struct{}{*params.GenesisHash: {}}
		for len(inserted) < len(blockHashes)+1 {
			var ready []*externalapi.DomainHash
			for _, blockHash := range blockHashes {
				if _, ok := inserted[*blockHash]; ok {
					continue
				}
				allParentsInserted := true
				for _, parent := range blocks[*blockHash].Header.ParentHashes {
					if _, ok := inserted[*parent]; !ok {
						allParentsInserted = false
						break
					}
				}
				if allParentsInserted {
					ready = append(ready, blockHash)
				}
			}
			next := ready[random.Intn(len(ready))]
			_, err := other.ValidateAndInsertBlock(blocks[*next])
			if err != nil {
				t.Fatalf("ValidateAndInsertBlock: %+v", err)
			}
			inserted[*next] = struct{}{}
		}

		for _, blockHash := range blockHashes {
			expected, err := tc.GetBlockGHOSTDAGData(blockHash)
			if err != nil {
				t.Fatalf("GetBlockGHOSTDAGData: %+v", err)
			}
			actual, err := other.GetBlockGHOSTDAGData(blockHash)
			if err != nil {
				t.Fatalf("GetBlockGHOSTDAGData: %+v", err)
			}
			if !expected.Equal(actual) {
				t.Fatalf("GHOSTDAG data of %s depends on insertion order", blockHash)
			}
		}

		expectedVirtualSelectedParent, err := tc.GetVirtualSelectedParent()
		if err != nil {
			t.Fatalf("GetVirtualSelectedParent: %+v", err)
		}
		actualVirtualSelectedParent, err := other.GetVirtualSelectedParent()
		if err != nil {
			t.Fatalf("GetVirtualSelectedParent: %+v", err)
		}
		if !expectedVirtualSelectedParent.Equal(actualVirtualSelectedParent) {
			t.Fatalf("Expected the virtual selected parent %s, but got %s",
				expectedVirtualSelectedParent, actualVirtualSelectedParent)
		}
	})
}

// buildRandomDAG adds numberOfBlocks blocks, each pointing at a random
// subset of the current tips, and returns them in insertion order
func buildRandomDAG(t *testing.T, tc testapi.TestConsensus, random *rand.Rand,
	numberOfBlocks int) []*externalapi.DomainHash {

	blockHashes := make([]*externalapi.DomainHash, 0, numberOfBlocks)
	for i := 0; i < numberOfBlocks; i++ {
		tips, err := tc.Tips()
		if err != nil {
			t.Fatalf("Tips: %+v", err)
		}
		random.Shuffle(len(tips), func(i, j int) { tips[i], tips[j] = tips[j], tips[i] })
		maxParents := 3
		if len(tips) < maxParents {
			maxParents = len(tips)
		}
		parents := tips[:1+random.Intn(maxParents)]

		blockHash, _, err := tc.AddBlock(parents, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		blockHashes = append(blockHashes, blockHash)
	}
	return blockHashes
}

func containsHash(hashes []*externalapi.DomainHash, hash *externalapi.DomainHash) bool {
	for _, h := range hashes {
		if h.Equal(hash) {
			return true
		}
	}
	return false
}

package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/kaspanet/ghostdagd/domain/consensus"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/testapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
	"github.com/kaspanet/ghostdagd/domain/pipeline"
	"github.com/pkg/errors"
)

const resultTimeout = 30 * time.Second

type runningPipeline struct {
	*pipeline.Pipeline
	results chan *pipeline.ProcessingResult
	cancel  context.CancelFunc
	done    chan error
}

func startPipeline(t *testing.T, tc testapi.TestConsensus, maxOrphans int) *runningPipeline {
	results := make(chan *pipeline.ProcessingResult, 1000)
	p, err := pipeline.New(tc, maxOrphans, 4, func(result *pipeline.ProcessingResult) {
		results <- result
	})
	if err != nil {
		t.Fatalf("pipeline.New: %+v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx)
	}()
	return &runningPipeline{Pipeline: p, results: results, cancel: cancel, done: done}
}

func (rp *runningPipeline) stop(t *testing.T) {
	rp.cancel()
	err := <-rp.done
	if err != nil {
		t.Fatalf("Run: %+v", err)
	}
}

func (rp *runningPipeline) nextResult(t *testing.T) *pipeline.ProcessingResult {
	select {
	case result := <-rp.results:
		return result
	case <-time.After(resultTimeout):
		t.Fatalf("Timed out waiting for a processing result")
		return nil
	}
}

func (rp *runningPipeline) submit(t *testing.T, block *externalapi.DomainBlock) {
	err := rp.Submit(context.Background(), block)
	if err != nil {
		t.Fatalf("Submit: %+v", err)
	}
}

// mineChain builds a chain of the given length over genesis on a separate
// consensus and returns its blocks, parents first
func mineChain(t *testing.T, params *dagconfig.Params, length int) []*externalapi.DomainBlock {
	miner, teardown, err := consensus.NewFactory().NewTestConsensus(params, "mineChain")
	if err != nil {
		t.Fatalf("Error setting up consensus: %+v", err)
	}
	defer teardown(false)

	blocks := make([]*externalapi.DomainBlock, 0, length)
	parent := params.GenesisHash
	for i := 0; i < length; i++ {
		blockHash, _, err := miner.AddBlock([]*externalapi.DomainHash{parent}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		block, err := miner.GetBlock(blockHash)
		if err != nil {
			t.Fatalf("GetBlock: %+v", err)
		}
		blocks = append(blocks, block)
		parent = blockHash
	}
	return blocks
}

func TestPipelineOutOfOrderBlocks(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(params, "TestPipelineOutOfOrderBlocks")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		const chainLength = 20
		blocks := mineChain(t, params, chainLength)

		rp := startPipeline(t, tc, chainLength)
		defer rp.stop(t)

		// Children first: every block but the first one waits for its parent
		for i := len(blocks) - 1; i >= 0; i-- {
			rp.submit(t, blocks[i])
		}

		accepted := make([]*externalapi.DomainHash, 0, chainLength)
		for len(accepted) < chainLength {
			result := rp.nextResult(t)
			switch result.Status {
			case pipeline.StatusAccepted:
				accepted = append(accepted, result.BlockHash)
			case pipeline.StatusOrphaned:
			default:
				t.Fatalf("Unexpected status %s for block %s: %+v", result.Status, result.BlockHash, result.Err)
			}
		}

		for i, block := range blocks {
			if !accepted[i].Equal(consensushashing.BlockHash(block)) {
				t.Fatalf("Expected block %d of the chain to be accepted in position %d", i, i)
			}
		}
		if rp.DepsManager().Len() != 0 {
			t.Fatalf("Expected an empty orphan pool, got %d orphans", rp.DepsManager().Len())
		}

		virtualSelectedParent, err := tc.GetVirtualSelectedParent()
		if err != nil {
			t.Fatalf("GetVirtualSelectedParent: %+v", err)
		}
		if !virtualSelectedParent.Equal(accepted[chainLength-1]) {
			t.Fatalf("Expected the chain tip to be the virtual selected parent")
		}
	})
}

func TestPipelineRejectedParentKeepsOrphans(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(params, "TestPipelineRejectedParentKeepsOrphans")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		blocks := mineChain(t, params, 2)
		parent, child := blocks[0], blocks[1]

		rp := startPipeline(t, tc, 10)
		defer rp.stop(t)

		rp.submit(t, child)
		result := rp.nextResult(t)
		if result.Status != pipeline.StatusOrphaned {
			t.Fatalf("Expected the child to be orphaned, got %s", result.Status)
		}

		badCoinbase := parent.Transactions[0].Clone()
		badCoinbase.Payload = append(badCoinbase.Payload, 0xff)
		badParent := &externalapi.DomainBlock{
			Header:       parent.Header,
			Transactions: []*externalapi.DomainTransaction{badCoinbase},
		}
		rp.submit(t, badParent)
		result = rp.nextResult(t)
		if result.Status != pipeline.StatusRejected || !errors.Is(result.Err, ruleerrors.ErrBadMerkleRoot) {
			t.Fatalf("Expected the parent to be rejected with ErrBadMerkleRoot, got %s: %+v", result.Status, result.Err)
		}
		if rp.DepsManager().Len() != 1 {
			t.Fatalf("Expected the child to stay in the orphan pool, got %d orphans", rp.DepsManager().Len())
		}

		rp.submit(t, parent)
		for _, expected := range blocks {
			result = rp.nextResult(t)
			if result.Status != pipeline.StatusAccepted {
				t.Fatalf("Expected block %s to be accepted, got %s: %+v", result.BlockHash, result.Status, result.Err)
			}
			if !result.Block.Equal(expected) {
				t.Fatalf("Expected the parent to be accepted before the child")
			}
		}
		if rp.DepsManager().Len() != 0 {
			t.Fatalf("Expected an empty orphan pool, got %d orphans", rp.DepsManager().Len())
		}
	})
}

func TestPipelineEvictsOrphans(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(params, "TestPipelineEvictsOrphans")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		blocks := mineChain(t, params, 4)

		rp := startPipeline(t, tc, 2)
		defer rp.stop(t)

		// One block at a time, so that blocks[3] is the oldest orphan
		// when blocks[1] arrives
		for i := 3; i >= 2; i-- {
			rp.submit(t, blocks[i])
			result := rp.nextResult(t)
			if result.Status != pipeline.StatusOrphaned {
				t.Fatalf("Expected block %d to be orphaned, got %s", i, result.Status)
			}
		}
		rp.submit(t, blocks[1])
		result := rp.nextResult(t)
		if result.Status != pipeline.StatusOrphaned {
			t.Fatalf("Expected block 1 to be orphaned, got %s", result.Status)
		}
		result = rp.nextResult(t)
		if result.Status != pipeline.StatusEvicted {
			t.Fatalf("Expected an eviction, got %s", result.Status)
		}
		evicted := result.BlockHash
		if !evicted.Equal(consensushashing.BlockHash(blocks[3])) {
			t.Fatalf("Expected the oldest orphan to be evicted, got %s", evicted)
		}

		rp.submit(t, blocks[0])
		for i := 0; i < 3; i++ {
			result := rp.nextResult(t)
			if result.Status != pipeline.StatusAccepted || !result.Block.Equal(blocks[i]) {
				t.Fatalf("Expected block %d to be accepted, got %s for %s", i, result.Status, result.BlockHash)
			}
		}

		tips, err := tc.Tips()
		if err != nil {
			t.Fatalf("Tips: %+v", err)
		}
		if len(tips) != 1 || !tips[0].Equal(consensushashing.BlockHash(blocks[2])) {
			t.Fatalf("Expected the evicted block to be missing from the DAG, got tips %s", tips)
		}
	})
}

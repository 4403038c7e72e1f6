// Package pipeline feeds blocks that may arrive in any order into a
// consensus instance. Context-free work runs on a pool of goroutines,
// insertion is funneled through a single goroutine, and blocks whose
// parents are unknown wait in a DepsManager until the parents are accepted.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/merkle"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/kaspanet/ghostdagd/infrastructure/metrics"
	"github.com/pkg/errors"
)

// BlockProcessedHandler is called from the insertion goroutine every time
// the pipeline is done with a block for now. Every submitted block ends
// with exactly one of StatusAccepted, StatusRejected or StatusEvicted,
// possibly preceded by StatusOrphaned.
type BlockProcessedHandler func(result *ProcessingResult)

// ProcessingResult describes what the pipeline did with a block
type ProcessingResult struct {
	Block           *externalapi.DomainBlock
	BlockHash       *externalapi.DomainHash
	Status          ProcessingStatus
	InsertionResult *externalapi.BlockInsertionResult

	// Err is the rule error of rejected and orphaned blocks
	Err error
}

// Pipeline validates and inserts submitted blocks into a consensus
type Pipeline struct {
	consensus        externalapi.Consensus
	depsManager      *DepsManager
	numberOfWorkers  int
	onBlockProcessed BlockProcessedHandler

	incoming chan *externalapi.DomainBlock
	prepared chan *preparedBlock
}

type preparedBlock struct {
	block     *externalapi.DomainBlock
	blockHash *externalapi.DomainHash
	err       error
}

// New returns a Pipeline over the given consensus. onBlockProcessed may
// be nil.
func New(consensus externalapi.Consensus, maxOrphans int, numberOfWorkers int,
	onBlockProcessed BlockProcessedHandler) (*Pipeline, error) {

	if numberOfWorkers < 1 {
		return nil, errors.Errorf("the pipeline needs at least one worker, got %d", numberOfWorkers)
	}
	depsManager, err := NewDepsManager(maxOrphans)
	if err != nil {
		return nil, err
	}
	if onBlockProcessed == nil {
		onBlockProcessed = func(*ProcessingResult) {}
	}

	return &Pipeline{
		consensus:        consensus,
		depsManager:      depsManager,
		numberOfWorkers:  numberOfWorkers,
		onBlockProcessed: onBlockProcessed,
		incoming:         make(chan *externalapi.DomainBlock, numberOfWorkers),
		prepared:         make(chan *preparedBlock, numberOfWorkers),
	}, nil
}

// DepsManager returns the orphan pool of the pipeline
func (p *Pipeline) DepsManager() *DepsManager {
	return p.depsManager
}

// Submit queues block for processing. It blocks until the block is taken
// by a worker or ctx is done.
func (p *Pipeline) Submit(ctx context.Context, block *externalapi.DomainBlock) error {
	select {
	case p.incoming <- block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes submitted blocks until ctx is done, in which case it
// returns nil, or until inserting a block fails with an error that is
// not a rule error, which it returns.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var workersDone sync.WaitGroup
	workersDone.Add(p.numberOfWorkers)
	for i := 0; i < p.numberOfWorkers; i++ {
		spawn(fmt.Sprintf("pipeline.prepareBlocks-%d", i), func() {
			defer workersDone.Done()
			p.prepareBlocks(ctx)
		})
	}

	err := p.insertBlocks(ctx)
	cancel()
	workersDone.Wait()
	return err
}

func (p *Pipeline) prepareBlocks(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case block := <-p.incoming:
			prepared := prepareBlock(block)
			select {
			case p.prepared <- prepared:
			case <-ctx.Done():
				return
			}
		}
	}
}

// prepareBlock does the work that needs neither the DAG nor the lock of
// the consensus: hashing the block and checking its merkle root
func prepareBlock(block *externalapi.DomainBlock) *preparedBlock {
	prepared := &preparedBlock{
		block:     block,
		blockHash: consensushashing.BlockHash(block),
	}
	if len(block.Transactions) == 0 {
		return prepared
	}

	merkleRoot := merkle.CalculateHashMerkleRoot(block.Transactions)
	if !block.Header.HashMerkleRoot.Equal(merkleRoot) {
		prepared.err = errors.Wrapf(ruleerrors.ErrBadMerkleRoot, "block %s declares merkle root %s, "+
			"but its transactions hash to %s", prepared.blockHash, &block.Header.HashMerkleRoot, merkleRoot)
	}
	return prepared
}

func (p *Pipeline) insertBlocks(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case prepared := <-p.prepared:
			err := p.processBlock(prepared)
			if err != nil {
				log.Criticalf("Failed to process block %s: %+v", prepared.blockHash, err)
				return err
			}
		}
	}
}

// processBlock inserts prepared and then, breadth first, every orphan
// that the accepted blocks release
func (p *Pipeline) processBlock(prepared *preparedBlock) error {
	if prepared.err != nil {
		log.Warnf("Rejected block %s: %s", prepared.blockHash, prepared.err)
		p.report(&ProcessingResult{
			Block:     prepared.block,
			BlockHash: prepared.blockHash,
			Status:    StatusRejected,
			Err:       prepared.err,
		})
		return nil
	}

	queue := []*preparedBlock{prepared}
	for len(queue) > 0 {
		var current *preparedBlock
		current, queue = queue[0], queue[1:]

		isAccepted, err := p.insertBlock(current)
		if err != nil {
			return err
		}
		if !isAccepted {
			continue
		}

		for _, orphan := range p.depsManager.ReleaseDependents(current.blockHash) {
			log.Debugf("Block %s is no longer an orphan", orphan.BlockHash)
			queue = append(queue, &preparedBlock{block: orphan.Block, blockHash: orphan.BlockHash})
		}
	}

	metrics.SetOrphanCount(p.depsManager.Len())
	return nil
}

func (p *Pipeline) insertBlock(prepared *preparedBlock) (isAccepted bool, err error) {
	start := time.Now()
	insertionResult, err := p.consensus.ValidateAndInsertBlock(prepared.block)
	if err != nil {
		missingParentsErr := ruleerrors.ErrMissingParents{}
		if errors.As(err, &missingParentsErr) {
			p.addOrphan(prepared, missingParentsErr.MissingParentHashes, err)
			metrics.RecordBlockProcessed(metrics.ResultOrphaned, time.Since(start))
			return false, nil
		}
		if errors.As(err, &ruleerrors.RuleError{}) {
			log.Warnf("Rejected block %s: %s", prepared.blockHash, err)
			metrics.RecordBlockProcessed(metrics.ResultRejected, time.Since(start))
			p.report(&ProcessingResult{
				Block:     prepared.block,
				BlockHash: prepared.blockHash,
				Status:    StatusRejected,
				Err:       err,
			})
			return false, nil
		}
		return false, err
	}
	metrics.RecordBlockProcessed(metrics.ResultAccepted, time.Since(start))
	metrics.RecordChainChanges(insertionResult.VirtualSelectedParentChainChanges)

	virtualInfo, err := p.consensus.GetVirtualInfo()
	if err != nil {
		return false, err
	}
	metrics.SetVirtualBlueScore(virtualInfo.BlueScore)

	log.Debugf("Accepted block %s, virtual blue score is now %d", prepared.blockHash, virtualInfo.BlueScore)
	log.Tracef("Insertion result of block %s: %s", prepared.blockHash, logger.NewLogClosure(func() string {
		return spew.Sdump(insertionResult)
	}))
	p.report(&ProcessingResult{
		Block:           prepared.block,
		BlockHash:       prepared.blockHash,
		Status:          StatusAccepted,
		InsertionResult: insertionResult,
	})
	return true, nil
}

func (p *Pipeline) addOrphan(prepared *preparedBlock, missingParents []*externalapi.DomainHash, err error) {
	log.Debugf("Block %s is missing parents %s, adding it to the orphan pool", prepared.blockHash, missingParents)
	evicted := p.depsManager.AddOrphan(prepared.block, prepared.blockHash, missingParents)
	p.report(&ProcessingResult{
		Block:     prepared.block,
		BlockHash: prepared.blockHash,
		Status:    StatusOrphaned,
		Err:       err,
	})

	for _, orphan := range evicted {
		metrics.RecordOrphanEviction()
		p.report(&ProcessingResult{
			Block:     orphan.Block,
			BlockHash: orphan.BlockHash,
			Status:    StatusEvicted,
		})
	}
}

func (p *Pipeline) report(result *ProcessingResult) {
	p.onBlockProcessed(result)
}

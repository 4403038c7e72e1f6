package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kaspanet/ghostdagd/domain/consensus"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/constants"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/hashes"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/pow"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/transactionhelper"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
	"github.com/kaspanet/ghostdagd/domain/pipeline"
	"github.com/kaspanet/ghostdagd/infrastructure/db/database"
	"github.com/kaspanet/ghostdagd/infrastructure/db/database/ldb"
	"github.com/pkg/errors"
)

const (
	minerDBDirName = "miner"
	nodeDBDirName  = "node"
)

type summary struct {
	mined        int
	accepted     int
	orphaned     int
	rejected     int
	evicted      int
	tips         int
	blueScore    uint64
	selectedTip  *externalapi.DomainHash
	virtualUTXOs int
}

func (s *summary) String() string {
	return fmt.Sprintf("Mined %d blocks: %d accepted, %d orphaned on arrival, %d rejected, %d evicted. "+
		"The node has %d tips, a virtual blue score of %d, selected tip %s and %d virtual UTXOs",
		s.mined, s.accepted, s.orphaned, s.rejected, s.evicted,
		s.tips, s.blueScore, s.selectedTip, s.virtualUTXOs)
}

// resultCounter tallies the results reported by the node's pipeline. It
// never blocks the reporting goroutine.
type resultCounter struct {
	sync.Mutex
	accepted int
	orphaned int
	rejected int
	evicted  int
	notify   chan struct{}
}

func newResultCounter() *resultCounter {
	return &resultCounter{notify: make(chan struct{}, 1)}
}

func (c *resultCounter) handleResult(result *pipeline.ProcessingResult) {
	c.Lock()
	switch result.Status {
	case pipeline.StatusAccepted:
		c.accepted++
	case pipeline.StatusOrphaned:
		c.orphaned++
	case pipeline.StatusRejected:
		c.rejected++
		log.Warnf("Node rejected block %s: %s", result.BlockHash, result.Err)
	case pipeline.StatusEvicted:
		c.evicted++
	}
	c.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *resultCounter) terminal() int {
	c.Lock()
	defer c.Unlock()
	return c.accepted + c.rejected + c.evicted
}

type simulation struct {
	cfg    *configFlags
	params *dagconfig.Params
	random *rand.Rand

	miner        externalapi.Consensus
	node         externalapi.Consensus
	nodePipeline *pipeline.Pipeline
	results      *resultCounter

	nextExtraData uint64
}

// simulate mines a random DAG on a miner consensus and feeds it, shuffled,
// through a pipeline into a node consensus. It fails if the two end up
// with different virtual states.
func simulate(ctx context.Context, cfg *configFlags) (*summary, error) {
	sim := &simulation{
		cfg:     cfg,
		params:  cfg.NetParams(),
		random:  rand.New(rand.NewSource(cfg.Seed)),
		results: newResultCounter(),
	}

	minerDB, err := openDatabase(filepath.Join(cfg.AppDir, minerDBDirName), cfg.DBCache)
	if err != nil {
		return nil, err
	}
	defer closeDatabase(minerDB)
	nodeDB, err := openDatabase(filepath.Join(cfg.AppDir, nodeDBDirName), cfg.DBCache)
	if err != nil {
		return nil, err
	}
	defer closeDatabase(nodeDB)

	factory := consensus.NewFactory()
	sim.miner, err = factory.NewConsensus(sim.params, minerDB)
	if err != nil {
		return nil, err
	}
	sim.node, err = factory.NewConsensus(sim.params, nodeDB)
	if err != nil {
		return nil, err
	}
	sim.nodePipeline, err = pipeline.New(sim.node, sim.params.MaxOrphans, cfg.Workers, sim.results.handleResult)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	pipelineErr := make(chan error, 1)
	pipelineDone := make(chan struct{})
	spawn("simulate-pipeline.Run", func() {
		defer close(pipelineDone)
		pipelineErr <- sim.nodePipeline.Run(runCtx)
		cancel()
	})
	// The databases are closed only once the pipeline stopped using them
	defer func() {
		cancel()
		<-pipelineDone
	}()

	log.Infof("Simulating %d blocks on %s", cfg.Blocks, sim.params.Name)
	mined, err := sim.mineAndRelay(runCtx)
	if err != nil {
		return nil, sim.pipelineError(pipelineErr, err)
	}
	err = sim.waitForResults(runCtx, mined)
	if err != nil {
		return nil, sim.pipelineError(pipelineErr, err)
	}
	cancel()
	err = <-pipelineErr
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}

	return sim.compare(mined)
}

func openDatabase(path string, cacheSizeMiB int) (database.Database, error) {
	err := ldb.RemoveAll(path)
	if err != nil {
		return nil, err
	}
	return ldb.NewLevelDB(path, cacheSizeMiB)
}

func closeDatabase(db database.Database) {
	err := db.Close()
	if err != nil {
		log.Errorf("Error closing the database: %s", err)
	}
}

// pipelineError prefers the error the pipeline failed with over the
// cancellation it caused.
func (sim *simulation) pipelineError(pipelineErr <-chan error, err error) error {
	if !errors.Is(err, context.Canceled) {
		return err
	}
	select {
	case runErr := <-pipelineErr:
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}
	default:
	}
	return err
}

// mineAndRelay mines cfg.Blocks blocks in rounds of sibling blocks built
// over the same virtual, and submits every reorder window of them to the
// node in a random order.
func (sim *simulation) mineAndRelay(ctx context.Context) (int, error) {
	mined := 0
	pending := make([]*externalapi.DomainBlock, 0, sim.cfg.ReorderWindow)
	for mined < sim.cfg.Blocks {
		width := 1 + sim.random.Intn(sim.cfg.MaxParents)
		if width > sim.cfg.Blocks-mined {
			width = sim.cfg.Blocks - mined
		}
		round, err := sim.mineRound(width)
		if err != nil {
			return mined, err
		}
		mined += len(round)

		for _, block := range round {
			pending = append(pending, block)
			if len(pending) == sim.cfg.ReorderWindow {
				err := sim.relay(ctx, pending)
				if err != nil {
					return mined, err
				}
				pending = pending[:0]
			}
		}
		if mined%100 < len(round) {
			log.Debugf("Mined %d blocks", mined)
		}
	}
	return mined, sim.relay(ctx, pending)
}

// mineRound builds width blocks over the current virtual, so that the next
// round's blocks merge all of them, and inserts them into the miner.
func (sim *simulation) mineRound(width int) ([]*externalapi.DomainBlock, error) {
	utxos, err := sim.miner.GetVirtualUTXOs()
	if err != nil {
		return nil, err
	}
	sim.random.Shuffle(len(utxos), func(i, j int) { utxos[i], utxos[j] = utxos[j], utxos[i] })

	blocks := make([]*externalapi.DomainBlock, 0, width)
	for i := 0; i < width; i++ {
		txCount := sim.cfg.Txs
		if txCount > len(utxos) {
			txCount = len(utxos)
		}
		transactions := make([]*externalapi.DomainTransaction, txCount)
		for j := range transactions {
			transactions[j] = spendInFull(utxos[j])
		}
		utxos = utxos[txCount:]

		block, err := sim.miner.BuildBlock(testutils.OpTrueCoinbaseData(sim.extraData()), transactions)
		if err != nil {
			return nil, err
		}
		if !sim.params.SkipProofOfWork {
			pow.SolveBlock(block.Header)
		}
		blocks = append(blocks, block)
	}

	for _, block := range blocks {
		_, err := sim.miner.ValidateAndInsertBlock(block)
		if err != nil {
			return nil, errors.Wrapf(err, "the miner could not insert its own block %s",
				consensushashing.BlockHash(block))
		}
	}
	return blocks, nil
}

func (sim *simulation) extraData() []byte {
	extraData := make([]byte, 8)
	binary.LittleEndian.PutUint64(extraData, sim.nextExtraData)
	sim.nextExtraData++
	return extraData
}

func spendInFull(pair *externalapi.OutpointAndUTXOEntryPair) *externalapi.DomainTransaction {
	input := &externalapi.DomainTransactionInput{
		PreviousOutpoint: *pair.Outpoint,
		SignatureScript:  []byte{},
	}
	output := &externalapi.DomainTransactionOutput{
		Value:           pair.UTXOEntry.Amount(),
		ScriptPublicKey: testutils.OpTrueScript(),
	}
	return transactionhelper.NewNativeTransaction(constants.MaxTransactionVersion,
		[]*externalapi.DomainTransactionInput{input}, []*externalapi.DomainTransactionOutput{output})
}

func (sim *simulation) relay(ctx context.Context, blocks []*externalapi.DomainBlock) error {
	sim.random.Shuffle(len(blocks), func(i, j int) { blocks[i], blocks[j] = blocks[j], blocks[i] })
	for _, block := range blocks {
		err := sim.nodePipeline.Submit(ctx, block)
		if err != nil {
			return err
		}
	}
	return nil
}

func (sim *simulation) waitForResults(ctx context.Context, mined int) error {
	for sim.results.terminal() < mined {
		select {
		case <-sim.results.notify:
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		}
	}
	return nil
}

func (sim *simulation) compare(mined int) (*summary, error) {
	minerInfo, err := sim.miner.GetVirtualInfo()
	if err != nil {
		return nil, err
	}
	nodeInfo, err := sim.node.GetVirtualInfo()
	if err != nil {
		return nil, err
	}
	if !minerInfo.SelectedParent.Equal(nodeInfo.SelectedParent) {
		return nil, errors.Errorf("the node selected tip %s differs from the miner's %s",
			nodeInfo.SelectedParent, minerInfo.SelectedParent)
	}
	if minerInfo.BlueScore != nodeInfo.BlueScore {
		return nil, errors.Errorf("the node virtual blue score %d differs from the miner's %d",
			nodeInfo.BlueScore, minerInfo.BlueScore)
	}

	minerTips, err := sim.miner.Tips()
	if err != nil {
		return nil, err
	}
	nodeTips, err := sim.node.Tips()
	if err != nil {
		return nil, err
	}
	if !externalapi.HashesEqual(sortedHashes(minerTips), sortedHashes(nodeTips)) {
		return nil, errors.Errorf("the node tips %s differ from the miner's %s",
			hashes.ToStrings(nodeTips), hashes.ToStrings(minerTips))
	}

	minerUTXOs, err := sim.miner.GetVirtualUTXOs()
	if err != nil {
		return nil, err
	}
	nodeUTXOs, err := sim.node.GetVirtualUTXOs()
	if err != nil {
		return nil, err
	}
	if len(minerUTXOs) != len(nodeUTXOs) {
		return nil, errors.Errorf("the node has %d virtual UTXOs while the miner has %d",
			len(nodeUTXOs), len(minerUTXOs))
	}

	sim.results.Lock()
	defer sim.results.Unlock()
	return &summary{
		mined:        mined,
		accepted:     sim.results.accepted,
		orphaned:     sim.results.orphaned,
		rejected:     sim.results.rejected,
		evicted:      sim.results.evicted,
		tips:         len(nodeTips),
		blueScore:    nodeInfo.BlueScore,
		selectedTip:  nodeInfo.SelectedParent,
		virtualUTXOs: len(nodeUTXOs),
	}, nil
}

func sortedHashes(blockHashes []*externalapi.DomainHash) []*externalapi.DomainHash {
	sorted := externalapi.CloneHashes(blockHashes)
	sort.Slice(sorted, func(i, j int) bool { return hashes.Less(sorted[i], sorted[j]) })
	return sorted
}

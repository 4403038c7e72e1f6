package consensusstatemanager_test

import (
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/testapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
)

func addChain(t *testing.T, tc testapi.TestConsensus, parent *externalapi.DomainHash, length int) []*externalapi.DomainHash {
	var chain []*externalapi.DomainHash
	for i := 0; i < length; i++ {
		blockHash, _, err := tc.AddBlock([]*externalapi.DomainHash{parent}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		chain = append(chain, blockHash)
		parent = blockHash
	}
	return chain
}

func assertHashes(t *testing.T, name string, actual, expected []*externalapi.DomainHash) {
	if !externalapi.HashesEqual(actual, expected) {
		t.Fatalf("Unexpected %s. Want: %s, got: %s", name, expected, actual)
	}
}

func TestVirtualSelectedParentChainExtension(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		factory := consensus.NewFactory()
		tc, teardown, err := factory.NewTestConsensus(params, "TestVirtualSelectedParentChainExtension")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		parent := params.GenesisHash
		for i := 0; i < 5; i++ {
			blockHash, result, err := tc.AddBlock([]*externalapi.DomainHash{parent}, nil, nil)
			if err != nil {
				t.Fatalf("AddBlock: %+v", err)
			}
			changes := result.VirtualSelectedParentChainChanges
			assertHashes(t, "added chain blocks", changes.Added, []*externalapi.DomainHash{blockHash})
			assertHashes(t, "removed chain blocks", changes.Removed, []*externalapi.DomainHash{})
			parent = blockHash
		}

		virtualInfo, err := tc.GetVirtualInfo()
		if err != nil {
			t.Fatalf("GetVirtualInfo: %+v", err)
		}
		if !virtualInfo.SelectedParent.Equal(parent) {
			t.Fatalf("Expected the virtual selected parent to be %s, but got %s", parent, virtualInfo.SelectedParent)
		}
		assertHashes(t, "virtual parents", virtualInfo.ParentHashes, []*externalapi.DomainHash{parent})
		if virtualInfo.BlueScore != 6 {
			t.Fatalf("Expected the virtual blue score to be 6, but got %d", virtualInfo.BlueScore)
		}

		// Every coinbase of the chain is in the virtual UTXO set
		utxos, err := tc.GetVirtualUTXOs()
		if err != nil {
			t.Fatalf("GetVirtualUTXOs: %+v", err)
		}
		if len(utxos) != 5 {
			t.Fatalf("Expected 5 virtual UTXOs, but got %d", len(utxos))
		}
	})
}

func TestReorg(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		factory := consensus.NewFactory()
		tc, teardown, err := factory.NewTestConsensus(params, "TestReorg")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		chainA := addChain(t, tc, params.GenesisHash, 2)
		chainB := addChain(t, tc, params.GenesisHash, 2)

		virtualSelectedParent, err := tc.GetVirtualSelectedParent()
		if err != nil {
			t.Fatalf("GetVirtualSelectedParent: %+v", err)
		}
		if !virtualSelectedParent.Equal(chainA[1]) && !virtualSelectedParent.Equal(chainB[1]) {
			t.Fatalf("Unexpected virtual selected parent %s", virtualSelectedParent)
		}

		// Extending chain B once more makes it the heaviest for sure
		blockHash, result, err := tc.AddBlock([]*externalapi.DomainHash{chainB[1]}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		chainB = append(chainB, blockHash)
		changes := result.VirtualSelectedParentChainChanges
		if virtualSelectedParent.Equal(chainA[1]) {
			assertHashes(t, "removed chain blocks", changes.Removed, []*externalapi.DomainHash{chainA[1], chainA[0]})
			assertHashes(t, "added chain blocks", changes.Added, chainB)
		} else {
			assertHashes(t, "removed chain blocks", changes.Removed, []*externalapi.DomainHash{})
			assertHashes(t, "added chain blocks", changes.Added, []*externalapi.DomainHash{blockHash})
		}

		selectedChain, err := tc.GetSelectedChain(blockHash)
		if err != nil {
			t.Fatalf("GetSelectedChain: %+v", err)
		}
		assertHashes(t, "selected chain", selectedChain, append([]*externalapi.DomainHash{params.GenesisHash}, chainB...))

		// The virtual merges both chains, so every coinbase of both is in its UTXO set
		utxos, err := tc.GetVirtualUTXOs()
		if err != nil {
			t.Fatalf("GetVirtualUTXOs: %+v", err)
		}
		if len(utxos) != len(chainA)+len(chainB) {
			t.Fatalf("Expected %d virtual UTXOs, but got %d", len(chainA)+len(chainB), len(utxos))
		}
	})
}

func TestBuildOnPendingSideBranch(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		factory := consensus.NewFactory()
		tc, teardown, err := factory.NewTestConsensus(params, "TestBuildOnPendingSideBranch")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		blockStatus := func(blockHash *externalapi.DomainHash) externalapi.BlockStatus {
			status, err := tc.BlockStatusStore().Get(tc.DatabaseContext(), model.NewStagingArea(), blockHash)
			if err != nil {
				t.Fatalf("Error getting the status of %s: %+v", blockHash, err)
			}
			return status
		}

		mainChain := addChain(t, tc, params.GenesisHash, 3)
		sideBlock, _, err := tc.AddBlock([]*externalapi.DomainHash{params.GenesisHash}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		if status := blockStatus(sideBlock); status != externalapi.StatusUTXOPendingVerification {
			t.Fatalf("Expected the side block to be %s, but got %s", externalapi.StatusUTXOPendingVerification, status)
		}

		// Building on a side block that was never verified must work, and
		// must not leave its verification behind
		sideChild, _, err := tc.AddBlock([]*externalapi.DomainHash{sideBlock}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock over the pending side block: %+v", err)
		}
		if status := blockStatus(sideBlock); status != externalapi.StatusUTXOPendingVerification {
			t.Fatalf("Expected the side block to stay %s, but got %s", externalapi.StatusUTXOPendingVerification, status)
		}

		// mainChain's tip has blue score 3. Two more side blocks reach 4.
		sideChain := append([]*externalapi.DomainHash{sideBlock, sideChild}, addChain(t, tc, sideChild, 2)...)
		virtualSelectedParent, err := tc.GetVirtualSelectedParent()
		if err != nil {
			t.Fatalf("GetVirtualSelectedParent: %+v", err)
		}
		if !virtualSelectedParent.Equal(sideChain[len(sideChain)-1]) {
			t.Fatalf("Expected the side chain tip %s to be selected, but got %s",
				sideChain[len(sideChain)-1], virtualSelectedParent)
		}
		for _, blockHash := range sideChain {
			if status := blockStatus(blockHash); status != externalapi.StatusUTXOValid {
				t.Fatalf("Expected side chain block %s to be %s, but got %s", blockHash, externalapi.StatusUTXOValid, status)
			}
		}

		utxos, err := tc.GetVirtualUTXOs()
		if err != nil {
			t.Fatalf("GetVirtualUTXOs: %+v", err)
		}
		if len(utxos) != len(mainChain)+len(sideChain) {
			t.Fatalf("Expected %d virtual UTXOs, but got %d", len(mainChain)+len(sideChain), len(utxos))
		}
	})
}

func TestBadUTXOCommitmentRollback(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		stagingArea := model.NewStagingArea()

		factory := consensus.NewFactory()
		tc, teardown, err := factory.NewTestConsensus(params, "TestBadUTXOCommitmentRollback")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		chain := addChain(t, tc, params.GenesisHash, 2)
		utxosBefore, err := tc.GetVirtualUTXOs()
		if err != nil {
			t.Fatalf("GetVirtualUTXOs: %+v", err)
		}

		invalidBlockHash, result, err := tc.AddUTXOInvalidBlock([]*externalapi.DomainHash{chain[1]})
		if err != nil {
			t.Fatalf("AddUTXOInvalidBlock: %+v", err)
		}
		changes := result.VirtualSelectedParentChainChanges
		assertHashes(t, "added chain blocks", changes.Added, []*externalapi.DomainHash{})
		assertHashes(t, "removed chain blocks", changes.Removed, []*externalapi.DomainHash{})

		status, err := tc.BlockStatusStore().Get(tc.DatabaseContext(), stagingArea, invalidBlockHash)
		if err != nil {
			t.Fatalf("Error getting the status of the invalid block: %+v", err)
		}
		if status != externalapi.StatusDisqualifiedFromChain {
			t.Fatalf("Expected the invalid block to be %s, but got %s", externalapi.StatusDisqualifiedFromChain, status)
		}

		virtualSelectedParent, err := tc.GetVirtualSelectedParent()
		if err != nil {
			t.Fatalf("GetVirtualSelectedParent: %+v", err)
		}
		if !virtualSelectedParent.Equal(chain[1]) {
			t.Fatalf("Expected the virtual selected parent to stay %s, but got %s", chain[1], virtualSelectedParent)
		}

		utxosAfter, err := tc.GetVirtualUTXOs()
		if err != nil {
			t.Fatalf("GetVirtualUTXOs: %+v", err)
		}
		if len(utxosAfter) != len(utxosBefore) {
			t.Fatalf("Expected the virtual UTXO set to keep %d entries, but got %d", len(utxosBefore), len(utxosAfter))
		}

		// A valid sibling of the disqualified block extends the chain normally
		validBlockHash, result, err := tc.AddBlock([]*externalapi.DomainHash{chain[1]}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		assertHashes(t, "added chain blocks", result.VirtualSelectedParentChainChanges.Added,
			[]*externalapi.DomainHash{validBlockHash})
	})
}

func TestSpendCoinbase(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		factory := consensus.NewFactory()
		tc, teardown, err := factory.NewTestConsensus(params, "TestSpendCoinbase")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		fundingBlockHash, _, err := tc.AddBlock([]*externalapi.DomainHash{params.GenesisHash},
			testutils.OpTrueCoinbaseData([]byte("funding")), nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
		fundingBlock, err := tc.GetBlock(fundingBlockHash)
		if err != nil {
			t.Fatalf("GetBlock: %+v", err)
		}
		fundingTransaction := fundingBlock.Transactions[0]
		fundingOutpoint := externalapi.NewDomainOutpoint(consensushashing.TransactionID(fundingTransaction), 0)

		entry, exists, err := tc.GetUTXOEntry(fundingOutpoint)
		if err != nil {
			t.Fatalf("GetUTXOEntry: %+v", err)
		}
		if !exists {
			t.Fatalf("The funding coinbase is expected to be in the virtual UTXO set")
		}
		if !entry.IsCoinbase() || entry.Amount() != params.BaseSubsidy {
			t.Fatalf("Unexpected funding entry: coinbase %t, amount %d", entry.IsCoinbase(), entry.Amount())
		}

		spendingTransaction := testutils.CreateTransaction(fundingTransaction)
		spendingBlockHash, _, err := tc.AddBlock([]*externalapi.DomainHash{fundingBlockHash}, nil,
			[]*externalapi.DomainTransaction{spendingTransaction})
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}

		_, exists, err = tc.GetUTXOEntry(fundingOutpoint)
		if err != nil {
			t.Fatalf("GetUTXOEntry: %+v", err)
		}
		if exists {
			t.Fatalf("The funding coinbase is expected to be spent")
		}

		spendingOutpoint := externalapi.NewDomainOutpoint(consensushashing.TransactionID(spendingTransaction), 0)
		entry, exists, err = tc.GetUTXOEntry(spendingOutpoint)
		if err != nil {
			t.Fatalf("GetUTXOEntry: %+v", err)
		}
		if !exists {
			t.Fatalf("The spending transaction output is expected to be in the virtual UTXO set")
		}
		spendingBlockInfo, err := tc.GetBlockInfo(spendingBlockHash)
		if err != nil {
			t.Fatalf("GetBlockInfo: %+v", err)
		}
		if entry.BlockBlueScore() != spendingBlockInfo.BlueScore+1 {
			t.Fatalf("Expected the entry to carry the blue score of its accepting block %d, but got %d",
				spendingBlockInfo.BlueScore+1, entry.BlockBlueScore())
		}
	})
}

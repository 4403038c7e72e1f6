package consensusstatemanager_test

import (
	"errors"
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
)

func TestDoubleSpends(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		stagingArea := model.NewStagingArea()

		factory := consensus.NewFactory()
		tc, teardown, err := factory.NewTestConsensus(params, "TestDoubleSpends")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		// Mine a chain of two blocks to fund the double spends
		firstBlockHash, _, err := tc.AddBlock([]*externalapi.DomainHash{params.GenesisHash}, nil, nil)
		if err != nil {
			t.Fatalf("Error creating firstBlock: %+v", err)
		}
		fundingBlockHash, _, err := tc.AddBlock([]*externalapi.DomainHash{firstBlockHash}, nil, nil)
		if err != nil {
			t.Fatalf("Error creating fundingBlock: %+v", err)
		}
		fundingBlock, err := tc.GetBlock(fundingBlockHash)
		if err != nil {
			t.Fatalf("Error getting fundingBlock: %+v", err)
		}
		fundingTransaction := fundingBlock.Transactions[0]

		// Two transactions that spend the same output with different IDs
		spendingTransaction1 := testutils.CreateTransaction(fundingTransaction)
		spendingTransaction2 := testutils.CreateTransaction(fundingTransaction)
		spendingTransaction2.Outputs[0].Value--
		if consensushashing.TransactionID(spendingTransaction1).Equal(consensushashing.TransactionID(spendingTransaction2)) {
			t.Fatalf("spendingTransaction1 and spendingTransaction2 ids are equal")
		}

		blockStatus := func(blockHash *externalapi.DomainHash) externalapi.BlockStatus {
			status, err := tc.BlockStatusStore().Get(tc.DatabaseContext(), stagingArea, blockHash)
			if err != nil {
				t.Fatalf("Error getting the status of %s: %+v", blockHash, err)
			}
			return status
		}

		goodBlockHash, _, err := tc.AddBlock([]*externalapi.DomainHash{fundingBlockHash}, nil,
			[]*externalapi.DomainTransaction{spendingTransaction1})
		if err != nil {
			t.Fatalf("Error adding goodBlock: %+v", err)
		}
		if status := blockStatus(goodBlockHash); status != externalapi.StatusUTXOValid {
			t.Fatalf("goodBlock status expected to be '%s', but is '%s'", externalapi.StatusUTXOValid, status)
		}

		// A block that repeats a transaction already in its past is disqualified
		doubleSpendingBlock1Hash, _, err := tc.AddBlock([]*externalapi.DomainHash{goodBlockHash}, nil,
			[]*externalapi.DomainTransaction{spendingTransaction1})
		if err != nil {
			t.Fatalf("Error adding doubleSpendingBlock1: %+v", err)
		}
		if status := blockStatus(doubleSpendingBlock1Hash); status != externalapi.StatusDisqualifiedFromChain {
			t.Fatalf("doubleSpendingBlock1 status expected to be '%s', but is '%s'",
				externalapi.StatusDisqualifiedFromChain, status)
		}

		// A block that spends an output already spent in its past is disqualified
		doubleSpendingBlock2Hash, _, err := tc.AddBlock([]*externalapi.DomainHash{goodBlockHash}, nil,
			[]*externalapi.DomainTransaction{spendingTransaction2})
		if err != nil {
			t.Fatalf("Error adding doubleSpendingBlock2: %+v", err)
		}
		if status := blockStatus(doubleSpendingBlock2Hash); status != externalapi.StatusDisqualifiedFromChain {
			t.Fatalf("doubleSpendingBlock2 status expected to be '%s', but is '%s'",
				externalapi.StatusDisqualifiedFromChain, status)
		}

		// A block that double spends inside itself is rejected outright
		_, _, err = tc.AddBlock([]*externalapi.DomainHash{goodBlockHash}, nil,
			[]*externalapi.DomainTransaction{spendingTransaction1, spendingTransaction2})
		if !errors.Is(err, ruleerrors.ErrDoubleSpendInSameBlock) {
			t.Fatalf("Expected ErrDoubleSpendInSameBlock, but got: %+v", err)
		}

		virtualSelectedParent, err := tc.GetVirtualSelectedParent()
		if err != nil {
			t.Fatalf("GetVirtualSelectedParent: %+v", err)
		}
		if !virtualSelectedParent.Equal(goodBlockHash) {
			t.Fatalf("Expected the virtual selected parent to be %s, but got %s", goodBlockHash, virtualSelectedParent)
		}
	})
}

func TestConflictingTransactionsInAnticone(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		factory := consensus.NewFactory()
		tc, teardown, err := factory.NewTestConsensus(params, "TestConflictingTransactionsInAnticone")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		fundingBlockHash, _, err := tc.AddBlock([]*externalapi.DomainHash{params.GenesisHash}, nil, nil)
		if err != nil {
			t.Fatalf("Error creating fundingBlock: %+v", err)
		}
		fundingBlock, err := tc.GetBlock(fundingBlockHash)
		if err != nil {
			t.Fatalf("Error getting fundingBlock: %+v", err)
		}
		fundingOutpoint := externalapi.NewDomainOutpoint(consensushashing.TransactionID(fundingBlock.Transactions[0]), 0)

		spendingTransaction1 := testutils.CreateTransaction(fundingBlock.Transactions[0])
		spendingTransaction2 := testutils.CreateTransaction(fundingBlock.Transactions[0])
		spendingTransaction2.Outputs[0].Value--

		// Both blocks are valid on their own, and the virtual merges both
		for _, transaction := range []*externalapi.DomainTransaction{spendingTransaction1, spendingTransaction2} {
			_, _, err := tc.AddBlock([]*externalapi.DomainHash{fundingBlockHash}, nil,
				[]*externalapi.DomainTransaction{transaction})
			if err != nil {
				t.Fatalf("Error adding a spending block: %+v", err)
			}
		}

		tips, err := tc.Tips()
		if err != nil {
			t.Fatalf("Tips: %+v", err)
		}
		if len(tips) != 2 {
			t.Fatalf("Expected 2 tips, but got %d", len(tips))
		}

		_, isFundingOutpointUnspent, err := tc.GetUTXOEntry(fundingOutpoint)
		if err != nil {
			t.Fatalf("GetUTXOEntry: %+v", err)
		}
		if isFundingOutpointUnspent {
			t.Fatalf("The funding outpoint is expected to be spent")
		}

		acceptedCount := 0
		for _, transaction := range []*externalapi.DomainTransaction{spendingTransaction1, spendingTransaction2} {
			outpoint := externalapi.NewDomainOutpoint(consensushashing.TransactionID(transaction), 0)
			_, exists, err := tc.GetUTXOEntry(outpoint)
			if err != nil {
				t.Fatalf("GetUTXOEntry: %+v", err)
			}
			if exists {
				acceptedCount++
			}
		}
		if acceptedCount != 1 {
			t.Fatalf("Expected exactly one of the conflicting transactions to be accepted, but %d were", acceptedCount)
		}
	})
}

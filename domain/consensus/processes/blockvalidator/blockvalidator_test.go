package blockvalidator_test

import (
	"testing"

	"github.com/kaspanet/ghostdagd/domain/consensus"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/constants"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/merkle"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/transactionhelper"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
	"github.com/kaspanet/ghostdagd/util/mstime"
	"github.com/pkg/errors"
)

func TestBlockValidation(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		tc, teardown, err := consensus.NewFactory().NewTestConsensus(params, "TestBlockValidation")
		if err != nil {
			t.Fatalf("Error setting up consensus: %+v", err)
		}
		defer teardown(false)

		secondBlockHash, _, err := tc.AddBlock([]*externalapi.DomainHash{params.GenesisHash}, nil, nil)
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}

		spend := func(index uint32, value uint64) *externalapi.DomainTransaction {
			input := &externalapi.DomainTransactionInput{
				PreviousOutpoint: *externalapi.NewDomainOutpoint(
					externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{0x01}), index),
				SignatureScript: []byte{},
			}
			output := &externalapi.DomainTransactionOutput{ScriptPublicKey: testutils.OpTrueScript(), Value: value}
			return transactionhelper.NewNativeTransaction(constants.MaxTransactionVersion,
				[]*externalapi.DomainTransactionInput{input}, []*externalapi.DomainTransactionOutput{output})
		}

		withTransactions := func(block *externalapi.DomainBlock, transactions ...*externalapi.DomainTransaction) {
			block.Transactions = append(block.Transactions[:1:1], transactions...)
			block.Header.HashMerkleRoot = *merkle.CalculateHashMerkleRoot(block.Transactions)
		}

		tests := []struct {
			name          string
			modify        func(block *externalapi.DomainBlock)
			expectedError error
		}{
			{
				name: "unknown version",
				modify: func(block *externalapi.DomainBlock) {
					block.Header.Version = constants.MaxBlockVersion + 1
				},
				expectedError: ruleerrors.ErrBlockVersionIsUnknown,
			},
			{
				name: "no parents",
				modify: func(block *externalapi.DomainBlock) {
					block.Header.ParentHashes = nil
				},
				expectedError: ruleerrors.ErrNoParents,
			},
			{
				name: "too many parents",
				modify: func(block *externalapi.DomainBlock) {
					parents := make([]*externalapi.DomainHash, params.MaxBlockParents+1)
					for i := range parents {
						parents[i] = externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{byte(i)})
					}
					block.Header.ParentHashes = parents
				},
				expectedError: ruleerrors.ErrTooManyParents,
			},
			{
				name: "duplicate parents",
				modify: func(block *externalapi.DomainBlock) {
					block.Header.ParentHashes = []*externalapi.DomainHash{secondBlockHash, secondBlockHash}
				},
				expectedError: ruleerrors.ErrInvalidParentsRelation,
			},
			{
				name: "timestamp in the future",
				modify: func(block *externalapi.DomainBlock) {
					block.Header.TimeInMilliseconds = mstime.NowUnixMilliseconds() +
						int64(params.TimestampDeviationTolerance+1)*params.TargetTimePerBlock.Milliseconds()
				},
				expectedError: ruleerrors.ErrTimeTooMuchInTheFuture,
			},
			{
				name: "target above the maximum",
				modify: func(block *externalapi.DomainBlock) {
					block.Header.Bits = 0x2200ffff
				},
				expectedError: ruleerrors.ErrTargetTooHigh,
			},
			{
				name: "first transaction is not a coinbase",
				modify: func(block *externalapi.DomainBlock) {
					block.Transactions = []*externalapi.DomainTransaction{spend(0, 1)}
				},
				expectedError: ruleerrors.ErrFirstTxNotCoinbase,
			},
			{
				name: "two coinbases",
				modify: func(block *externalapi.DomainBlock) {
					block.Transactions = append(block.Transactions, block.Transactions[0].Clone())
				},
				expectedError: ruleerrors.ErrMultipleCoinbases,
			},
			{
				name: "duplicate transactions",
				modify: func(block *externalapi.DomainBlock) {
					tx := spend(0, 1)
					withTransactions(block, tx, tx)
				},
				expectedError: ruleerrors.ErrDuplicateTx,
			},
			{
				name: "double spend inside the block",
				modify: func(block *externalapi.DomainBlock) {
					withTransactions(block, spend(0, 1), spend(0, 2))
				},
				expectedError: ruleerrors.ErrDoubleSpendInSameBlock,
			},
			{
				name: "transaction without inputs",
				modify: func(block *externalapi.DomainBlock) {
					tx := spend(0, 1)
					tx.Inputs = nil
					withTransactions(block, tx)
				},
				expectedError: ruleerrors.ErrNoTxInputs,
			},
		}

		for _, test := range tests {
			block, err := tc.BuildBlockWithParents([]*externalapi.DomainHash{secondBlockHash}, nil, nil)
			if err != nil {
				t.Fatalf("%s: BuildBlockWithParents: %+v", test.name, err)
			}
			test.modify(block)
			_, err = tc.ValidateAndInsertBlock(block)
			if !errors.Is(err, test.expectedError) {
				t.Errorf("%s: expected %s, but got: %+v", test.name, test.expectedError, err)
			}
		}

		// None of the rejected blocks touched the virtual
		virtualSelectedParent, err := tc.GetVirtualSelectedParent()
		if err != nil {
			t.Fatalf("GetVirtualSelectedParent: %+v", err)
		}
		if !virtualSelectedParent.Equal(secondBlockHash) {
			t.Fatalf("Expected the virtual selected parent to be %s, but got %s", secondBlockHash, virtualSelectedParent)
		}
	})
}

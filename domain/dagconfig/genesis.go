// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/merkle"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/multiset"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/subnetworks"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/transactionhelper"
)

// genesisUTXOCommitment is the commitment to the empty UTXO set, which is the
// past UTXO set of every genesis block.
var genesisUTXOCommitment = multiset.New().Hash()

func newGenesisBlock(payload []byte, timeInMilliseconds int64, bits uint32,
	nonce uint64) *externalapi.DomainBlock {

	coinbaseTx := transactionhelper.NewSubnetworkTransaction(0, []*externalapi.DomainTransactionInput{},
		[]*externalapi.DomainTransactionOutput{}, &subnetworks.SubnetworkIDCoinbase, 0, payload)

	transactions := []*externalapi.DomainTransaction{coinbaseTx}
	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            0,
			ParentHashes:       []*externalapi.DomainHash{},
			HashMerkleRoot:     *merkle.CalculateHashMerkleRoot(transactions),
			UTXOCommitment:     *genesisUTXOCommitment,
			TimeInMilliseconds: timeInMilliseconds,
			Bits:               bits,
			Nonce:              nonce,
		},
		Transactions: transactions,
	}
}

var genesisTxPayload = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Blue score
	0x00, 0x00, // Script version
	0x01,                                                       // Script length
	0x00,                                                       // OP-FALSE
	0x6b, 0x61, 0x73, 0x70, 0x61, 0x2d, 0x6d, 0x61, 0x69, 0x6e, // kaspa-main
}

// genesisBlock defines the genesis block of the block DAG which serves as the
// public transaction ledger for the main network.
var genesisBlock = newGenesisBlock(genesisTxPayload, 0x177a5f1dd32, 0x207fffff, 0x4)

// genesisHash is the hash of the first block in the block DAG for the main
// network (genesis block).
var genesisHash = consensushashing.BlockHash(genesisBlock)

var testnetGenesisTxPayload = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Blue score
	0x00, 0x00, // Script version
	0x01,                                                                         // Script length
	0x00,                                                                         // OP-FALSE
	0x6b, 0x61, 0x73, 0x70, 0x61, 0x2d, 0x74, 0x65, 0x73, 0x74, 0x6e, 0x65, 0x74, // kaspa-testnet
}

// testnetGenesisBlock defines the genesis block of the block DAG which serves as the
// public transaction ledger for testnet.
var testnetGenesisBlock = newGenesisBlock(testnetGenesisTxPayload, 0x177a5f1dd32, 0x1e7fffff, 0x14582)

// testnetGenesisHash is the hash of the first block in the block DAG for testnet
// (genesis block).
var testnetGenesisHash = consensushashing.BlockHash(testnetGenesisBlock)

var simnetGenesisTxPayload = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Blue score
	0x00, 0x00, // Script version
	0x01,                                                                   // Script length
	0x00,                                                                   // OP-FALSE
	0x6b, 0x61, 0x73, 0x70, 0x61, 0x2d, 0x73, 0x69, 0x6d, 0x6e, 0x65, 0x74, // kaspa-simnet
}

// simnetGenesisBlock defines the genesis block of the block DAG which serves as the
// public transaction ledger for the simulation test network.
var simnetGenesisBlock = newGenesisBlock(simnetGenesisTxPayload, 0x177a5f1dd32, 0x207fffff, 0x0)

// simnetGenesisHash is the hash of the first block in the block DAG for
// the simnet (genesis block).
var simnetGenesisHash = consensushashing.BlockHash(simnetGenesisBlock)

var devnetGenesisTxPayload = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Blue score
	0x00, 0x00, // Script version
	0x01,                                                                   // Script length
	0x00,                                                                   // OP-FALSE
	0x6b, 0x61, 0x73, 0x70, 0x61, 0x2d, 0x64, 0x65, 0x76, 0x6e, 0x65, 0x74, // kaspa-devnet
}

// devnetGenesisBlock defines the genesis block of the block DAG which serves as the
// public transaction ledger for the development network.
var devnetGenesisBlock = newGenesisBlock(devnetGenesisTxPayload, 0x177a5f1dd32, 0x1e7fffff, 0x48e5e)

// devnetGenesisHash is the hash of the first block in the block DAG for the development
// network (genesis block).
var devnetGenesisHash = consensushashing.BlockHash(devnetGenesisBlock)

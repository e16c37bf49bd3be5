package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/merkle"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/signature"
)

// Set of errors returned when a block can't be mined or fails validation.
var (
	ErrUnsolvable     = errors.New("difficulty can't be solved by a hash of this length")
	ErrNotSolved      = errors.New("block hash doesn't solve the difficulty")
	ErrLinkBroken     = errors.New("previous block hash doesn't match parent block")
	ErrMerkleMismatch = errors.New("merkle root doesn't match transactions")
	ErrCountMismatch  = errors.New("transaction count doesn't match transactions")
	ErrOutOfOrder     = errors.New("block is out of order")
)

// attemptsReport is how often the mining loop reports progress.
const attemptsReport = 100_000

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64    `json:"number"`          // Position of the block in the chain, genesis is 0.
	TimeStamp     time.Time `json:"timestamp"`       // Time the block was created.
	Nonce         uint64    `json:"nonce"`           // Value identified to solve the hash solution.
	PrevBlockHash string    `json:"prev_block_hash"` // Hash of the previous block's header.
	MerkleRoot    string    `json:"merkle"`          // Merkle tree root hash for the transactions in this block.
	Difficulty    uint      `json:"difficulty"`      // Number of 0's needed to solve the hash solution.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Count  uint
	Trans  []Tx
}

// NewBlock constructs the header of the next block to be mined. The merkle
// root stays empty until the transactions are assigned and committed.
func NewBlock(number uint64, prevBlockHash string, difficulty uint) Block {
	return Block{
		Header: BlockHeader{
			Number:        number,
			TimeStamp:     time.Now().UTC(),
			Nonce:         0,
			PrevBlockHash: prevBlockHash,
			MerkleRoot:    "",
			Difficulty:    difficulty,
		},
	}
}

// AssignTransactions places the reward transaction first followed by the
// pending transactions in the order they were received.
func (b *Block) AssignTransactions(reward Tx, pending []Tx) {
	trans := make([]Tx, 0, len(pending)+1)
	trans = append(trans, reward)
	trans = append(trans, pending...)

	b.Trans = trans
	b.Count = uint(len(trans))
}

// CommitMerkle computes the merkle root over the block's transactions and
// stores it in the header.
func (b *Block) CommitMerkle() error {
	root, err := MerkleRoot(b.Trans)
	if err != nil {
		return err
	}

	b.Header.MerkleRoot = root
	return nil
}

// PerformPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a nonce is being discovered. The
// search starts from the nonce the header carries and only stops when a
// solution is found or the context is cancelled.
func (b *Block) PerformPOW(ctx context.Context, ev func(v string, args ...any)) (string, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("database: PerformPOW: MINING: started: blk[%d]: difficulty[%d]", b.Header.Number, b.Header.Difficulty)
	defer ev("database: PerformPOW: MINING: completed: blk[%d]", b.Header.Number)

	if b.Header.Difficulty > signature.HashLength {
		return "", fmt.Errorf("difficulty %d: %w", b.Header.Difficulty, ErrUnsolvable)
	}

	// Log the transactions that are a part of this potential block.
	for _, tx := range b.Trans {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	var attempts uint64
	for {
		attempts++
		if attempts%attemptsReport == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: PerformPOW: MINING: CANCELLED: attempts[%d]", attempts)
			return "", ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		hash := b.Hash()
		if !isHashSolved(b.Header.Difficulty, hash) {
			b.Header.Nonce++
			continue
		}

		ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.Header.PrevBlockHash, hash, b.Header.Nonce)
		ev("database: PerformPOW: MINING: attempts[%d]", attempts)

		return hash, nil
	}
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {

	// Hashing the block header and not the whole block. The header commits to
	// the transactions through the merkle root.
	return signature.Hash(b.Header)
}

// Clone returns a copy of the block that doesn't share the transaction
// slice with the original.
func (b Block) Clone() Block {
	trans := make([]Tx, len(b.Trans))
	copy(trans, b.Trans)

	b.Trans = trans
	return b
}

// ValidateBlock takes a block and validates it against its parent. The
// genesis block is validated against the zero hash and the parent is ignored.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	prevHash := signature.ZeroHash
	var nextNumber uint64
	if b.Header.Number > 0 {
		prevHash = previousBlock.Hash()
		nextNumber = previousBlock.Header.Number + 1
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Header.Number)

	if b.Header.Number != nextNumber {
		return fmt.Errorf("got %d, exp %d: %w", b.Header.Number, nextNumber, ErrOutOfOrder)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Header.Number)

	if b.Header.PrevBlockHash != prevHash {
		return fmt.Errorf("got %s, exp %s: %w", b.Header.PrevBlockHash, prevHash, ErrLinkBroken)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: transaction count does match transactions", b.Header.Number)

	if b.Count != uint(len(b.Trans)) {
		return fmt.Errorf("got %d, exp %d: %w", b.Count, len(b.Trans), ErrCountMismatch)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: merkle root does match transactions", b.Header.Number)

	root, err := MerkleRoot(b.Trans)
	if err != nil {
		return fmt.Errorf("%s: %w", err, ErrMerkleMismatch)
	}

	if b.Header.MerkleRoot != root {
		return fmt.Errorf("got %s, exp %s: %w", root, b.Header.MerkleRoot, ErrMerkleMismatch)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block hash has been solved", b.Header.Number)

	if hash := b.Hash(); !isHashSolved(b.Header.Difficulty, hash) {
		return fmt.Errorf("%s: %w", hash, ErrNotSolved)
	}

	return nil
}

// MerkleRoot returns the merkle root of the specified transactions. An empty
// set of transactions has no root and is rejected.
func MerkleRoot(trans []Tx) (string, error) {
	tree, err := merkle.NewTree(trans)
	if err != nil {
		return "", err
	}

	return tree.RootHex(), nil
}

// isHashSolved checks the hash to make sure it complies with the POW rules.
// The first difficulty characters of the hash are read as a decimal number
// which must parse and be zero. Any hex letter in that range fails the parse
// so in practice this requires difficulty leading 0's.
func isHashSolved(difficulty uint, hash string) bool {
	if difficulty == 0 {
		return true
	}

	if difficulty > uint(len(hash)) {
		return false
	}

	n, err := strconv.ParseUint(hash[:difficulty], 10, 64)
	if err != nil {
		return false
	}

	return n == 0
}

// =============================================================================

// BlockData represents what is exported and kept in storage for a block.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"header"`
	Count  uint        `json:"count"`
	Trans  []Tx        `json:"trans"`
}

// NewBlockData constructs the value to store or export.
func NewBlockData(block Block) BlockData {
	block = block.Clone()

	return BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Count:  block.Count,
		Trans:  block.Trans,
	}
}

// ToBlock converts a BlockData into a Block.
func ToBlock(blockData BlockData) Block {
	block := Block{
		Header: blockData.Header,
		Count:  blockData.Count,
		Trans:  blockData.Trans,
	}

	return block.Clone()
}

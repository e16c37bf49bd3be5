package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func mine(t *testing.T, number uint64, prevHash string, difficulty uint, pending []database.Tx) (database.Block, string) {
	t.Helper()

	b := database.NewBlock(number, prevHash, difficulty)
	b.AssignTransactions(database.NewRewardTx("Tilt", 50), pending)

	if err := b.CommitMerkle(); err != nil {
		t.Fatalf("\t%s\tShould be able to commit the merkle root: %v", failed, err)
	}

	hash, err := b.PerformPOW(context.Background(), nil)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to mine the block: %v", failed, err)
	}

	return b, hash
}

func Test_POW(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		pending    []database.Tx
	}

	tt := []table{
		{name: "genesis", difficulty: 0},
		{name: "one", difficulty: 1, pending: []database.Tx{database.NewTx("Alice", "Bob", 10)}},
		{name: "two", difficulty: 2, pending: []database.Tx{database.NewTx("Alice", "Bob", 10), database.NewTx("Bob", "Alice", 20)}},
	}

	t.Log("Given the need to mine blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen mining at difficulty %d.", testID, tst.difficulty)
			{
				f := func(t *testing.T) {
					b, hash := mine(t, 0, signature.ZeroHash, tst.difficulty, tst.pending)

					if hash != b.Hash() {
						t.Fatalf("\t%s\tTest %d:\tShould return the hash of the mined header.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould return the hash of the mined header.", success, testID)

					if !strings.HasPrefix(hash, strings.Repeat("0", int(tst.difficulty))) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d leading zeros: %s", failed, testID, tst.difficulty, hash)
					}
					t.Logf("\t%s\tTest %d:\tShould have %d leading zeros.", success, testID, tst.difficulty)

					if b.Count != uint(len(tst.pending)+1) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d transactions, got %d.", failed, testID, len(tst.pending)+1, b.Count)
					}
					t.Logf("\t%s\tTest %d:\tShould have the pending transactions plus the reward.", success, testID)

					if !b.Trans[0].IsReward() || b.Trans[0].Receiver != "Tilt" {
						t.Fatalf("\t%s\tTest %d:\tShould have the reward transaction first: %s", failed, testID, b.Trans[0])
					}
					t.Logf("\t%s\tTest %d:\tShould have the reward transaction first.", success, testID)

					if err := b.ValidateBlock(database.Block{}, nil); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould validate the mined block: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould validate the mined block.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_POWZeroDifficulty(t *testing.T) {
	t.Log("Given the need to accept any hash at difficulty 0.")
	{
		b, _ := mine(t, 0, signature.ZeroHash, 0, nil)

		if b.Header.Nonce != 0 {
			t.Fatalf("\t%s\tShould accept the first nonce, got %d.", failed, b.Header.Nonce)
		}
		t.Logf("\t%s\tShould accept the first nonce.", success)
	}
}

func Test_POWCancel(t *testing.T) {
	t.Log("Given the need to bound the time spent mining.")
	{
		b := database.NewBlock(0, signature.ZeroHash, 64)
		b.AssignTransactions(database.NewRewardTx("Tilt", 50), nil)
		b.CommitMerkle()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := b.PerformPOW(ctx, nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("\t%s\tShould stop mining when the deadline passes, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould stop mining when the deadline passes.", success)
	}
}

func Test_POWUnsolvable(t *testing.T) {
	t.Log("Given the need to refuse a difficulty no hash can meet.")
	{
		b := database.NewBlock(0, signature.ZeroHash, 65)
		b.AssignTransactions(database.NewRewardTx("Tilt", 50), nil)
		b.CommitMerkle()

		_, err := b.PerformPOW(context.Background(), nil)
		if !errors.Is(err, database.ErrUnsolvable) {
			t.Fatalf("\t%s\tShould get ErrUnsolvable, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould get ErrUnsolvable.", success)
	}
}

func Test_ValidateBlock(t *testing.T) {
	type table struct {
		name   string
		tamper func(b *database.Block)
		err    error
	}

	tt := []table{
		{
			name:   "link",
			tamper: func(b *database.Block) { b.Header.PrevBlockHash = signature.ZeroHash },
			err:    database.ErrLinkBroken,
		},
		{
			name:   "count",
			tamper: func(b *database.Block) { b.Count++ },
			err:    database.ErrCountMismatch,
		},
		{
			name:   "merkle",
			tamper: func(b *database.Block) { b.Trans[1].Amount = 1_000 },
			err:    database.ErrMerkleMismatch,
		},
		{
			name:   "number",
			tamper: func(b *database.Block) { b.Header.Number = 5 },
			err:    database.ErrOutOfOrder,
		},
	}

	t.Log("Given the need to detect a tampered block.")
	{
		genesis, genesisHash := mine(t, 0, signature.ZeroHash, 1, nil)

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen the %s is tampered with.", testID, tst.name)
			{
				f := func(t *testing.T) {
					b, _ := mine(t, 1, genesisHash, 0, []database.Tx{database.NewTx("Alice", "Bob", 10)})

					if err := b.ValidateBlock(genesis, nil); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould validate the untouched block: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould validate the untouched block.", success, testID)

					tst.tamper(&b)

					err := b.ValidateBlock(genesis, nil)
					if !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould get %v, got %v.", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get %v.", success, testID, tst.err)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_BlockData(t *testing.T) {
	t.Log("Given the need to export and restore blocks.")
	{
		b, hash := mine(t, 0, signature.ZeroHash, 1, []database.Tx{database.NewTx("Alice", "Bob", 10)})

		bd := database.NewBlockData(b)
		if bd.Hash != hash || bd.Count != 2 || len(bd.Trans) != 2 {
			t.Fatalf("\t%s\tShould export the hash, count and transactions: %+v", failed, bd)
		}
		t.Logf("\t%s\tShould export the hash, count and transactions.", success)

		restored := database.ToBlock(bd)
		if restored.Hash() != hash {
			t.Fatalf("\t%s\tShould restore a block with the same hash.", failed)
		}
		t.Logf("\t%s\tShould restore a block with the same hash.", success)

		bd.Trans[0].Amount = 0
		if b.Trans[0].Amount != 50 {
			t.Fatalf("\t%s\tShould not share transactions with the export.", failed)
		}
		t.Logf("\t%s\tShould not share transactions with the export.", success)
	}
}

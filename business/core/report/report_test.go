package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ardanlabs/blocksandbox/business/core/report"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/signature"
	"github.com/go-playground/assert/v2"
)

func block(t *testing.T) database.Block {
	b := database.NewBlock(0, signature.ZeroHash, 0)
	b.AssignTransactions(database.NewRewardTx("Tilt", 50), []database.Tx{database.NewTx("Alice", "Bob", 10)})
	if err := b.CommitMerkle(); err != nil {
		t.Fatalf("committing merkle root: %v", err)
	}
	b.Header.Nonce = 1234567
	return b
}

func Test_Short(t *testing.T) {
	assert.Equal(t, report.Short("abc"), "abc")
	assert.Equal(t, report.Short(signature.ZeroHash), "000000000000...")
}

func Test_Reward(t *testing.T) {
	assert.Equal(t, report.Reward(block(t)), 50.0)
	assert.Equal(t, report.Reward(database.Block{}), 0.0)

	b := database.Block{Trans: []database.Tx{database.NewTx("Alice", "Bob", 10)}}
	assert.Equal(t, report.Reward(b), 0.0)
}

func Test_Mined(t *testing.T) {
	var buf bytes.Buffer
	b := block(t)

	report.Mined(&buf, b)

	out := buf.String()
	assert.Equal(t, strings.Contains(out, "Hash:         "+b.Hash()), true)
	assert.Equal(t, strings.Contains(out, "Nonce:        1,234,567"), true)
	assert.Equal(t, strings.Contains(out, "Transactions: 2"), true)
	assert.Equal(t, strings.Contains(out, "Reward:       50"), true)
}

func Test_Exports(t *testing.T) {
	var buf bytes.Buffer

	report.Exports(&buf, []string{`{"a":1}`, `{"b":2}`})

	assert.Equal(t, buf.String(), "--- Block #0 ---\n{\"a\":1}\n\n--- Block #1 ---\n{\"b\":2}\n\n")
}

func Test_Table(t *testing.T) {
	var buf bytes.Buffer
	b := block(t)

	err := report.Table(&buf, []database.Block{b})
	assert.Equal(t, err, nil)

	out := buf.String()
	assert.Equal(t, strings.Contains(out, "Prev Hash"), true)
	assert.Equal(t, strings.Contains(out, report.Short(b.Hash())), true)
	assert.Equal(t, strings.Contains(out, "1,234,567"), true)
}

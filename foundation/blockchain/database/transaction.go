package database

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/signature"
	"github.com/goccy/go-json"
)

// RootAccount is the sender recorded on the mining reward transaction.
const RootAccount = "Root"

// =============================================================================

// Tx is the transactional information between two parties. Amounts are
// accepted at face value, nothing is checked against balances. Amounts JSON
// can't represent (NaN and the infinities) are encoded as the strings "NaN",
// "+Inf" and "-Inf".
type Tx struct {
	Sender   string  `json:"sender"`   // Account sending the value.
	Receiver string  `json:"receiver"` // Account receiving the value.
	Amount   float64 `json:"amount"`   // Value transferred.
}

// NewTx constructs a new transaction.
func NewTx(sender string, receiver string, amount float64) Tx {
	return Tx{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}
}

// NewRewardTx constructs the transaction that pays the miner of a block.
func NewRewardTx(minerAddress string, reward float64) Tx {
	return NewTx(RootAccount, minerAddress, reward)
}

// Hash implements the merkle Hashable interface for providing a hash
// of a transaction.
func (tx Tx) Hash() (string, error) {
	return signature.Digest(tx)
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two transactions.
func (tx Tx) Equals(otherTx Tx) bool {
	return tx == otherTx
}

// IsReward reports whether the transaction was minted by the chain.
func (tx Tx) IsReward() bool {
	return tx.Sender == RootAccount
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%g", tx.Sender, tx.Receiver, tx.Amount)
}

// =============================================================================

// plainTx has the fields of Tx without its JSON methods.
type plainTx Tx

// textTx is the encoding of a Tx with an amount JSON can't represent.
type textTx struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Amount   string `json:"amount"`
}

// MarshalJSON implements the json.Marshaler interface.
func (tx Tx) MarshalJSON() ([]byte, error) {
	if !math.IsNaN(tx.Amount) && !math.IsInf(tx.Amount, 0) {
		return json.Marshal(plainTx(tx))
	}

	return json.Marshal(textTx{
		Sender:   tx.Sender,
		Receiver: tx.Receiver,
		Amount:   strconv.FormatFloat(tx.Amount, 'g', -1, 64),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (tx *Tx) UnmarshalJSON(data []byte) error {
	var raw struct {
		Sender   string          `json:"sender"`
		Receiver string          `json:"receiver"`
		Amount   json.RawMessage `json:"amount"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var amount float64
	switch {
	case len(raw.Amount) == 0 || bytes.Equal(raw.Amount, []byte("null")):
	case raw.Amount[0] == '"':
		var text string
		if err := json.Unmarshal(raw.Amount, &text); err != nil {
			return err
		}

		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("amount %q: %w", text, err)
		}
		amount = f

	default:
		if err := json.Unmarshal(raw.Amount, &amount); err != nil {
			return err
		}
	}

	*tx = Tx{
		Sender:   raw.Sender,
		Receiver: raw.Receiver,
		Amount:   amount,
	}

	return nil
}

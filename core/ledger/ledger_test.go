package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/actor"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaller replies with canned JSON per method and records arguments.
type fakeCaller struct {
	replies map[string]string
	args    map[string][]byte
	calls   map[string]int
	err     error
}

func newFakeCaller(replies map[string]string) *fakeCaller {
	return &fakeCaller{replies: replies, args: map[string][]byte{}, calls: map[string]int{}}
}

func (f *fakeCaller) Call(ctx context.Context, canister, method string, arg, out interface{}) error {
	f.calls[method]++
	if f.err != nil {
		return &actor.TransportError{Canister: canister, Method: method, Err: f.err}
	}
	b, err := json.Marshal(arg)
	if err != nil {
		return err
	}
	f.args[method] = b
	return json.Unmarshal([]byte(f.replies[method]), out)
}

func testAccount(t *testing.T, text string) address.Account {
	acc, err := address.ParseAccount(text, nil)
	require.NoError(t, err)
	return acc
}

func TestActorLedgerQueries(t *testing.T) {
	fc := newFakeCaller(map[string]string{"icrc1_fee": "10000", "icrc1_balance_of": "5000000"})
	l := NewActorLedger(fc, "ryjl3-tyaaa-aaaaa-aaaba-cai")

	fee, err := l.Fee(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), fee)

	bal, err := l.BalanceOf(context.Background(), testAccount(t, "ryjl3-tyaaa-aaaaa-aaaba-cai-yvk7a6i.1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5000000), bal)
	assert.JSONEq(t, `{"owner": "ryjl3-tyaaa-aaaaa-aaaba-cai", "subaccount": ["0000000000000000000000000000000000000000000000000000000000000001"]}`,
		string(fc.args["icrc1_balance_of"]))

	_, err = l.BalanceOf(context.Background(), address.Account{})
	assert.Error(t, err)
}

func TestActorLedgerTransfer(t *testing.T) {
	fc := newFakeCaller(map[string]string{"icrc1_transfer": `{"Ok": 42}`})
	l := NewActorLedger(fc, "ledger")
	fee := uint64(10000)
	idx, err := l.Transfer(context.Background(), TransferArgs{
		To:     testAccount(t, "2vxsx-fae"),
		Amount: 100,
		Fee:    &fee,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), idx)
	assert.JSONEq(t, `{
		"from_subaccount": [],
		"to": {"owner": "2vxsx-fae", "subaccount": []},
		"amount": 100,
		"fee": [10000],
		"memo": [],
		"created_at_time": []
	}`, string(fc.args["icrc1_transfer"]))
}

func TestActorLedgerTransferErrors(t *testing.T) {
	cases := []struct {
		reply   string
		variant string
		msg     string
	}{
		{`{"Err": {"InsufficientFunds": {"balance": 7}}}`, InsufficientFunds, "insufficient funds, balance is 7"},
		{`{"Err": {"BadFee": {"expected_fee": 20000}}}`, BadFee, "the fee has changed, expected fee is 20000"},
		{`{"Err": {"Duplicate": {"duplicate_of": 9}}}`, Duplicate, "this transfer was already made in block 9"},
		{`{"Err": "TemporarilyUnavailable"}`, TemporarilyUnavailable, "the ledger is temporarily unavailable, please try again"},
		{`{"Err": {"GenericError": {"error_code": 3, "message": "frozen"}}}`, GenericError, "ledger error 3: frozen"},
	}
	for _, c := range cases {
		fc := newFakeCaller(map[string]string{"icrc1_transfer": c.reply})
		_, err := NewActorLedger(fc, "ledger").Transfer(context.Background(), TransferArgs{To: testAccount(t, "2vxsx-fae"), Amount: 1})
		var te *TransferError
		require.True(t, errors.As(err, &te), c.reply)
		assert.Equal(t, c.variant, te.Variant)
		assert.Equal(t, c.msg, te.Message())
		assert.ErrorIs(t, err, actor.ErrRejected)
	}
}

func TestActorLedgerTransport(t *testing.T) {
	fc := newFakeCaller(nil)
	fc.err = errors.New("connection refused")
	_, err := NewActorLedger(fc, "ledger").Transfer(context.Background(), TransferArgs{To: testAccount(t, "2vxsx-fae"), Amount: 1})
	assert.ErrorIs(t, err, actor.ErrTransport)
	var te *TransferError
	assert.False(t, errors.As(err, &te))
}

func TestCached(t *testing.T) {
	fc := newFakeCaller(map[string]string{
		"icrc1_fee":        "10000",
		"icrc1_balance_of": "77",
		"icrc1_transfer":   `{"Err": {"BadFee": {"expected_fee": 20000}}}`,
	})
	c := NewCached(NewActorLedger(fc, "ledger"), 0, 0)
	ctx := context.Background()
	acc := testAccount(t, "2vxsx-fae")

	for i := 0; i < 3; i++ {
		fee, err := c.Fee(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(10000), fee)
		bal, err := c.BalanceOf(ctx, acc)
		require.NoError(t, err)
		assert.Equal(t, uint64(77), bal)
	}
	assert.Equal(t, 1, fc.calls["icrc1_fee"])
	assert.Equal(t, 1, fc.calls["icrc1_balance_of"])

	_, err := c.Transfer(ctx, TransferArgs{To: acc, Amount: 1})
	assert.Error(t, err)
	_, _ = c.Fee(ctx)
	_, _ = c.BalanceOf(ctx, acc)
	assert.Equal(t, 2, fc.calls["icrc1_fee"])
	assert.Equal(t, 2, fc.calls["icrc1_balance_of"])

	c.Invalidate(acc)
	_, _ = c.BalanceOf(ctx, acc)
	assert.Equal(t, 3, fc.calls["icrc1_balance_of"])
}

package forum

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/actor"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCaller struct {
	reply  string
	method string
	arg    []byte
}

func (r *recordingCaller) Call(ctx context.Context, canister, method string, arg, out interface{}) error {
	r.method = method
	r.arg, _ = json.Marshal(arg)
	return json.Unmarshal([]byte(r.reply), out)
}

func TestVoteOnPost(t *testing.T) {
	rc := &recordingCaller{reply: `{"ok": {"vote_type": "upvote", "weight": 12}}`}
	out, err := NewActorForum(rc, "forum").VoteOnPost(context.Background(), 5, Upvote)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Type: Upvote, Weight: 12}, out)
	assert.Equal(t, "vote_on_post", rc.method)
	assert.JSONEq(t, `{"post_id": 5, "vote_type": {"upvote": true}}`, string(rc.arg))
}

func TestRetractVoteRejected(t *testing.T) {
	rc := &recordingCaller{reply: `{"err": {"NotFound": "no vote"}}`}
	err := NewActorForum(rc, "forum").RetractVote(context.Background(), 5)
	assert.ErrorIs(t, err, actor.ErrRejected)
}

func TestRecordTip(t *testing.T) {
	recipient, err := address.ParseAccount("2vxsx-fae", &address.SubaccountInput{Kind: address.KindHex, Value: "2a"})
	require.NoError(t, err)
	rc := &recordingCaller{reply: `{"ok": 3}`}
	id, err := NewActorForum(rc, "forum").RecordTip(context.Background(), TipRecord{
		PostID:     5,
		Recipient:  recipient,
		Token:      "ryjl3-tyaaa-aaaaa-aaaba-cai",
		Amount:     100,
		BlockIndex: 42,
		RequestID:  "r1",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
	assert.JSONEq(t, `{
		"post_id": 5,
		"recipient_principal": "2vxsx-fae",
		"recipient_subaccount": ["000000000000000000000000000000000000000000000000000000000000002a"],
		"token_ledger_principal": "ryjl3-tyaaa-aaaaa-aaaba-cai",
		"amount": 100,
		"transaction_block_index": [42],
		"request_id": "r1"
	}`, string(rc.arg))
}

func TestVoteTypeValid(t *testing.T) {
	assert.True(t, Upvote.Valid())
	assert.False(t, VoteType("sideways").Valid())
}

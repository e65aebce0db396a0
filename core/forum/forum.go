package forum

import (
	"context"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/actor"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
)

type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

func (v VoteType) Valid() bool {
	return v == Upvote || v == Downvote
}

// Outcome is what the forum recorded for a vote.
type Outcome struct {
	Type   VoteType `json:"vote_type"`
	Weight uint64   `json:"weight"`
}

type TipRecord struct {
	PostID     uint64
	Recipient  address.Account
	Token      string
	Amount     uint64
	BlockIndex uint64
	RequestID  string
}

type Forum interface {
	VoteOnPost(ctx context.Context, postID uint64, vote VoteType) (Outcome, error)
	RetractVote(ctx context.Context, postID uint64) error
	RecordTip(ctx context.Context, tip TipRecord) (uint64, error)
}

type ActorForum struct {
	caller   actor.Caller
	canister string
}

func NewActorForum(caller actor.Caller, canister string) *ActorForum {
	return &ActorForum{caller: caller, canister: canister}
}

func (f *ActorForum) VoteOnPost(ctx context.Context, postID uint64, vote VoteType) (Outcome, error) {
	arg := struct {
		PostID   uint64          `json:"post_id"`
		VoteType map[string]bool `json:"vote_type"`
	}{postID, map[string]bool{string(vote): true}}
	return actor.Update[Outcome](ctx, f.caller, f.canister, "vote_on_post", arg)
}

func (f *ActorForum) RetractVote(ctx context.Context, postID uint64) error {
	arg := struct {
		PostID uint64 `json:"post_id"`
	}{postID}
	_, err := actor.Update[struct{}](ctx, f.caller, f.canister, "retract_vote", arg)
	return err
}

func (f *ActorForum) RecordTip(ctx context.Context, tip TipRecord) (uint64, error) {
	arg := struct {
		PostID     uint64            `json:"post_id"`
		Owner      string            `json:"recipient_principal"`
		Subaccount actor.Opt[string] `json:"recipient_subaccount"`
		Token      string            `json:"token_ledger_principal"`
		Amount     uint64            `json:"amount"`
		BlockIndex actor.Opt[uint64] `json:"transaction_block_index"`
		RequestID  string            `json:"request_id"`
	}{
		PostID:     tip.PostID,
		Owner:      tip.Recipient.Owner.String(),
		Token:      tip.Token,
		Amount:     tip.Amount,
		BlockIndex: actor.Some(tip.BlockIndex),
		RequestID:  tip.RequestID,
	}
	if sub := tip.Recipient.SubaccountBytes(); !sub.IsDefault() {
		arg.Subaccount = actor.Some(sub.String())
	}
	return actor.Update[uint64](ctx, f.caller, f.canister, "create_tip", arg)
}

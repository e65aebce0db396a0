package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/actor"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
)

type Ledger interface {
	Fee(ctx context.Context) (uint64, error)
	BalanceOf(ctx context.Context, acc address.Account) (uint64, error)
	Transfer(ctx context.Context, args TransferArgs) (uint64, error)
}

type TransferArgs struct {
	FromSubaccount *address.Subaccount
	To             address.Account
	Amount         uint64
	Fee            *uint64
	Memo           []byte
	CreatedAtTime  *uint64
}

type wireAccount struct {
	Owner      string            `json:"owner"`
	Subaccount actor.Opt[string] `json:"subaccount"`
}

type wireTransferArgs struct {
	FromSubaccount actor.Opt[string] `json:"from_subaccount"`
	To             wireAccount       `json:"to"`
	Amount         uint64            `json:"amount"`
	Fee            actor.Opt[uint64] `json:"fee"`
	Memo           actor.Opt[[]byte] `json:"memo"`
	CreatedAtTime  actor.Opt[uint64] `json:"created_at_time"`
}

func toWireAccount(acc address.Account) wireAccount {
	w := wireAccount{Owner: acc.Owner.String()}
	if sub := acc.SubaccountBytes(); !sub.IsDefault() {
		w.Subaccount = actor.Some(sub.String())
	}
	return w
}

func toWireSubaccount(sub *address.Subaccount) actor.Opt[string] {
	if sub == nil {
		return actor.None[string]()
	}
	return actor.Some(sub.String())
}

// ActorLedger speaks the ICRC-1 interface of one ledger canister.
type ActorLedger struct {
	caller   actor.Caller
	canister string
}

func NewActorLedger(caller actor.Caller, canister string) *ActorLedger {
	return &ActorLedger{caller: caller, canister: canister}
}

func (l *ActorLedger) Canister() string {
	return l.canister
}

func (l *ActorLedger) Fee(ctx context.Context) (uint64, error) {
	return actor.Query[uint64](ctx, l.caller, l.canister, "icrc1_fee", nil)
}

func (l *ActorLedger) BalanceOf(ctx context.Context, acc address.Account) (uint64, error) {
	if !acc.Valid() {
		return 0, errors.New("balance of invalid account")
	}
	return actor.Query[uint64](ctx, l.caller, l.canister, "icrc1_balance_of", toWireAccount(acc))
}

func (l *ActorLedger) Transfer(ctx context.Context, args TransferArgs) (uint64, error) {
	if !args.To.Valid() {
		return 0, errors.New("transfer to invalid account")
	}
	w := wireTransferArgs{
		FromSubaccount: toWireSubaccount(args.FromSubaccount),
		To:             toWireAccount(args.To),
		Amount:         args.Amount,
		Fee:            actor.OptOf(args.Fee),
		CreatedAtTime:  actor.OptOf(args.CreatedAtTime),
	}
	if len(args.Memo) > 0 {
		w.Memo = actor.Some(args.Memo)
	}
	idx, err := actor.Update[uint64](ctx, l.caller, l.canister, "icrc1_transfer", w)
	if err != nil {
		var rej *actor.RejectionError
		if errors.As(err, &rej) {
			return 0, decodeTransferError(rej)
		}
		return 0, err
	}
	return idx, nil
}

func decodeTransferError(rej *actor.RejectionError) error {
	te := &TransferError{Variant: rej.Variant, rejection: rej}
	var payload map[string]struct {
		ExpectedFee   uint64 `json:"expected_fee"`
		MinBurnAmount uint64 `json:"min_burn_amount"`
		Balance       uint64 `json:"balance"`
		LedgerTime    uint64 `json:"ledger_time"`
		DuplicateOf   uint64 `json:"duplicate_of"`
		ErrorCode     uint64 `json:"error_code"`
		Message       string `json:"message"`
	}
	if err := rej.Decode(&payload); err == nil {
		p := payload[rej.Variant]
		te.ExpectedFee = p.ExpectedFee
		te.MinBurnAmount = p.MinBurnAmount
		te.Balance = p.Balance
		te.LedgerTime = p.LedgerTime
		te.DuplicateOf = p.DuplicateOf
		te.ErrorCode = p.ErrorCode
		te.Detail = p.Message
	}
	return te
}

const (
	BadFee                 = "BadFee"
	BadBurn                = "BadBurn"
	InsufficientFunds      = "InsufficientFunds"
	TooOld                 = "TooOld"
	CreatedInFuture        = "CreatedInFuture"
	Duplicate              = "Duplicate"
	TemporarilyUnavailable = "TemporarilyUnavailable"
	GenericError           = "GenericError"
)

// TransferError is a transfer the ledger refused.
type TransferError struct {
	Variant       string
	ExpectedFee   uint64
	MinBurnAmount uint64
	Balance       uint64
	LedgerTime    uint64
	DuplicateOf   uint64
	ErrorCode     uint64
	Detail        string

	rejection *actor.RejectionError
}

func (e *TransferError) Error() string {
	return "transfer failed: " + e.Message()
}

func (e *TransferError) Unwrap() error {
	if e.rejection == nil {
		return actor.ErrRejected
	}
	return e.rejection
}

// Message is the refusal in terms a user can act on.
func (e *TransferError) Message() string {
	switch e.Variant {
	case BadFee:
		return fmt.Sprintf("the fee has changed, expected fee is %d", e.ExpectedFee)
	case BadBurn:
		return fmt.Sprintf("amount is below the minimum burn of %d", e.MinBurnAmount)
	case InsufficientFunds:
		return fmt.Sprintf("insufficient funds, balance is %d", e.Balance)
	case TooOld:
		return "the transfer is too old, please try again"
	case CreatedInFuture:
		return "the transfer time is ahead of the ledger, check your clock"
	case Duplicate:
		return fmt.Sprintf("this transfer was already made in block %d", e.DuplicateOf)
	case TemporarilyUnavailable:
		return "the ledger is temporarily unavailable, please try again"
	case GenericError:
		return fmt.Sprintf("ledger error %d: %s", e.ErrorCode, e.Detail)
	default:
		return "ledger refused the transfer: " + e.Variant
	}
}

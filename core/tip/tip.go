package tip

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/forum"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/ledger"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/reconciler"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnknownToken        = errors.New("unknown token")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type Request struct {
	PostID         uint64                   `json:"post_id"`
	Token          string                   `json:"token"`
	Recipient      string                   `json:"recipient"`
	Subaccount     *address.SubaccountInput `json:"subaccount,omitempty"`
	Amount         uint64                   `json:"amount"`
	FromSubaccount *address.Subaccount      `json:"-"`
}

type Receipt struct {
	RequestID  string `json:"request_id"`
	PostID     uint64 `json:"post_id"`
	Token      string `json:"token"`
	Recipient  string `json:"recipient"`
	Amount     uint64 `json:"amount"`
	Fee        uint64 `json:"fee"`
	BlockIndex uint64 `json:"block_index"`
	TipID      uint64 `json:"tip_id"`

	// Recorded is false when the transfer went through but the forum did
	// not store the tip.
	Recorded bool `json:"recorded"`
}

type balanceInvalidator interface {
	Invalidate(acc address.Account)
}

type Config struct {
	// Sender owns the paying account; Request.FromSubaccount picks which of
	// its subaccounts pays.
	Sender  address.Account
	Ledgers map[string]ledger.Ledger
	Forum   forum.Forum
	States  *reconciler.Store[Receipt]
	Clock   clock.Clock
	Logger  *zap.Logger
}

type Tipper struct {
	cfg Config
}

func NewTipper(cfg Config) *Tipper {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.States == nil {
		cfg.States = reconciler.New[Receipt](reconciler.Options{Clock: cfg.Clock, Logger: cfg.Logger})
	}
	return &Tipper{cfg: cfg}
}

func key(postID uint64) string {
	return strconv.FormatUint(postID, 10)
}

// Send pays req.Amount to the recipient and records the tip on the post.
// The ledger transfer is attempted once.
func (t *Tipper) Send(ctx context.Context, req Request) (Receipt, error) {
	recipient, err := address.ParseAccount(req.Recipient, req.Subaccount)
	if err != nil {
		return Receipt{}, err
	}
	if req.Amount == 0 {
		return Receipt{}, ErrInvalidAmount
	}
	l, ok := t.cfg.Ledgers[req.Token]
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", ErrUnknownToken, req.Token)
	}
	logger := t.cfg.Logger.With(zap.Uint64("post", req.PostID), zap.String("token", req.Token))
	return t.cfg.States.Run(ctx, key(req.PostID), func(ctx context.Context) (Receipt, error) {
		fee, err := l.Fee(ctx)
		if err != nil {
			return Receipt{}, err
		}
		payer := t.payer(req.FromSubaccount)
		bal, err := l.BalanceOf(ctx, payer)
		if err != nil {
			return Receipt{}, err
		}
		if bal < req.Amount+fee || req.Amount+fee < req.Amount {
			return Receipt{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, req.Amount+fee, bal)
		}
		id := uuid.New()
		now := uint64(t.cfg.Clock.Now().UnixNano())
		idx, err := l.Transfer(ctx, ledger.TransferArgs{
			FromSubaccount: req.FromSubaccount,
			To:             recipient,
			Amount:         req.Amount,
			Fee:            &fee,
			Memo:           id[:],
			CreatedAtTime:  &now,
		})
		if inv, ok := l.(balanceInvalidator); ok {
			inv.Invalidate(payer)
		}
		if err != nil {
			logger.Warn("tip transfer failed", zap.Error(err))
			return Receipt{}, err
		}
		r := Receipt{
			RequestID:  id.String(),
			PostID:     req.PostID,
			Token:      req.Token,
			Recipient:  recipient.String(),
			Amount:     req.Amount,
			Fee:        fee,
			BlockIndex: idx,
		}
		tipID, err := t.cfg.Forum.RecordTip(ctx, forum.TipRecord{
			PostID:     req.PostID,
			Recipient:  recipient,
			Token:      req.Token,
			Amount:     req.Amount,
			BlockIndex: idx,
			RequestID:  r.RequestID,
		})
		if err != nil {
			logger.Warn("tip transferred but not recorded", zap.Uint64("block", idx), zap.Error(err))
			return r, nil
		}
		r.TipID, r.Recorded = tipID, true
		logger.Info("tip sent", zap.Uint64("block", idx), zap.Uint64("amount", req.Amount))
		return r, nil
	})
}

func (t *Tipper) payer(from *address.Subaccount) address.Account {
	if from == nil || from.IsDefault() {
		return address.NewAccount(t.cfg.Sender.Owner, nil)
	}
	return address.NewAccount(t.cfg.Sender.Owner, &address.ResolvedSubaccount{Kind: address.KindHex, Bytes: *from})
}

func (t *Tipper) State(postID uint64) reconciler.State[Receipt] {
	return t.cfg.States.State(key(postID))
}

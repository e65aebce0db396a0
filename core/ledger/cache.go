package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultFeeTTL     = 10 * time.Minute
	DefaultBalanceTTL = 15 * time.Second

	feeKey = "fee"
)

// Cached remembers fee and balance lookups of an underlying ledger. A
// transfer drops the cached balances it touches.
type Cached struct {
	l          Ledger
	c          *cache.Cache
	balanceTTL time.Duration
	feeTTL     time.Duration
}

func NewCached(l Ledger, feeTTL, balanceTTL time.Duration) *Cached {
	if feeTTL <= 0 {
		feeTTL = DefaultFeeTTL
	}
	if balanceTTL <= 0 {
		balanceTTL = DefaultBalanceTTL
	}
	return &Cached{
		l:          l,
		c:          cache.New(balanceTTL, 2*feeTTL),
		balanceTTL: balanceTTL,
		feeTTL:     feeTTL,
	}
}

func balanceKey(acc address.Account) string {
	return "balance:" + acc.String()
}

func (c *Cached) Fee(ctx context.Context) (uint64, error) {
	if v, ok := c.c.Get(feeKey); ok {
		return v.(uint64), nil
	}
	fee, err := c.l.Fee(ctx)
	if err != nil {
		return 0, err
	}
	c.c.Set(feeKey, fee, c.feeTTL)
	return fee, nil
}

func (c *Cached) BalanceOf(ctx context.Context, acc address.Account) (uint64, error) {
	key := balanceKey(acc)
	if v, ok := c.c.Get(key); ok {
		return v.(uint64), nil
	}
	bal, err := c.l.BalanceOf(ctx, acc)
	if err != nil {
		return 0, err
	}
	c.c.Set(key, bal, c.balanceTTL)
	return bal, nil
}

func (c *Cached) Transfer(ctx context.Context, args TransferArgs) (uint64, error) {
	idx, err := c.l.Transfer(ctx, args)
	c.c.Delete(balanceKey(args.To))
	var te *TransferError
	if errors.As(err, &te) && te.Variant == BadFee {
		c.c.Delete(feeKey)
	}
	return idx, err
}

// Invalidate drops the cached balance of acc, e.g. the sender after a
// transfer.
func (c *Cached) Invalidate(acc address.Account) {
	c.c.Delete(balanceKey(acc))
}

package address

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Snassy-icp/app-sneeddao-sub012/crypto/principal"
)

var (
	ErrInvalidFormat        = errors.New("invalid format")
	ErrSubaccountResolution = errors.New("subaccount resolution failed")
)

// Account is a principal with an optional subaccount. A nil subaccount and an
// all-zero one name the same account; see Equal.
type Account struct {
	Owner      principal.Principal
	Subaccount *ResolvedSubaccount
	// Original is the input text when the account was read from the
	// extended form.
	Original string

	hasOwner bool
}

func NewAccount(owner principal.Principal, sub *ResolvedSubaccount) Account {
	return Account{Owner: owner, Subaccount: sub, hasOwner: true}
}

func (a Account) Valid() bool {
	return a.hasOwner
}

// SubaccountBytes returns the effective subaccount, zero when absent.
func (a Account) SubaccountBytes() Subaccount {
	if a.Subaccount == nil {
		return Subaccount{}
	}
	return a.Subaccount.Bytes
}

func (a Account) Normalized() Account {
	if a.Subaccount != nil && a.Subaccount.Bytes.IsDefault() {
		a.Subaccount = nil
	}
	return a
}

func (a Account) Equal(o Account) bool {
	return a.hasOwner == o.hasOwner && a.Owner.Equal(o.Owner) && a.SubaccountBytes() == o.SubaccountBytes()
}

func (a Account) String() string {
	s, err := EncodeExtended(a)
	if err != nil {
		return "<invalid account>"
	}
	return s
}

type accountJSON struct {
	Owner      string        `json:"owner"`
	Subaccount *subaccountJS `json:"subaccount,omitempty"`
	Original   string        `json:"original,omitempty"`
	Text       string        `json:"text"`
}

type subaccountJS struct {
	Kind   Kind   `json:"kind"`
	Source string `json:"source"`
	Hex    string `json:"hex"`
}

func (a Account) MarshalJSON() ([]byte, error) {
	if !a.hasOwner {
		return nil, errors.New("account has no principal")
	}
	v := accountJSON{Owner: a.Owner.String(), Original: a.Original, Text: a.String()}
	if a.Subaccount != nil {
		v.Subaccount = &subaccountJS{Kind: a.Subaccount.Kind, Source: a.Subaccount.Source, Hex: a.Subaccount.Bytes.String()}
	}
	return json.Marshal(v)
}

// ParseAccount reads user input as an account. Text carrying its own
// subaccount always wins over explicit; otherwise explicit, when non-empty,
// is resolved and attached.
func ParseAccount(raw string, explicit *SubaccountInput) (Account, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Account{}, fmt.Errorf("%w: empty account", ErrInvalidFormat)
	}
	if strings.Contains(text, extendedSeparator) {
		if acc, err := DecodeExtended(text); err == nil {
			return acc, nil
		}
	}
	p, err := principal.Parse(text)
	if err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if explicit.Empty() {
		return NewAccount(p, nil), nil
	}
	sub, err := Resolve(*explicit)
	if err != nil {
		return Account{}, err
	}
	return NewAccount(p, &sub), nil
}

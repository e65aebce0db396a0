package address

import (
	"fmt"
	"strings"

	"github.com/Snassy-icp/app-sneeddao-sub012/crypto/principal"
)

type Kind string

const (
	KindHex       Kind = "hex"
	KindBytes     Kind = "bytes"
	KindPrincipal Kind = "principal"
	KindExtended  Kind = "extended-address"
)

// SubaccountInput is a subaccount as typed by a user.
type SubaccountInput struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

func (in *SubaccountInput) Empty() bool {
	return in == nil || strings.TrimSpace(in.Value) == ""
}

type ResolvedSubaccount struct {
	Kind   Kind       `json:"kind"`
	Source string     `json:"source"`
	Bytes  Subaccount `json:"-"`
}

// PrincipalSubaccount is the conventional subaccount owned by p: its length
// followed by its bytes, zero padded.
func PrincipalSubaccount(p principal.Principal) Subaccount {
	var res Subaccount
	raw := p.Bytes()
	res[0] = byte(len(raw))
	copy(res[1:], raw)
	return res
}

func Resolve(in SubaccountInput) (ResolvedSubaccount, error) {
	var (
		sub Subaccount
		err error
	)
	switch in.Kind {
	case KindHex:
		sub, err = HexToFixedBytes(in.Value)
	case KindBytes:
		sub, err = ParseDecimalByteList(in.Value)
	case KindPrincipal:
		var p principal.Principal
		p, err = principal.Parse(strings.TrimSpace(in.Value))
		sub = PrincipalSubaccount(p)
	default:
		return ResolvedSubaccount{}, fmt.Errorf("%w: unknown kind %q", ErrSubaccountResolution, in.Kind)
	}
	if err != nil {
		return ResolvedSubaccount{}, fmt.Errorf("%w: %s: %w", ErrSubaccountResolution, in.Kind, err)
	}
	return ResolvedSubaccount{Kind: in.Kind, Source: in.Value, Bytes: sub}, nil
}

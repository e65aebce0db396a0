package address

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/Snassy-icp/app-sneeddao-sub012/crypto/principal"
)

const (
	extendedSeparator = "."
	checksumSeparator = "-"
	checksumTextLen   = 7
)

var checksumEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func extendedChecksum(owner principal.Principal, sub Subaccount) string {
	var buf [4]byte
	h := crc32.NewIEEE()
	h.Write(owner.Bytes())
	h.Write(sub[:])
	binary.BigEndian.PutUint32(buf[:], h.Sum32())
	return strings.ToLower(checksumEncoding.EncodeToString(buf[:]))
}

// EncodeExtended renders acc in the ICRC-1 textual form. An account on the
// default subaccount renders as its bare principal.
func EncodeExtended(acc Account) (string, error) {
	if !acc.hasOwner {
		return "", errors.New("account has no principal")
	}
	if acc.Subaccount == nil || acc.Subaccount.Bytes.IsDefault() {
		return acc.Owner.String(), nil
	}
	sub := acc.Subaccount.Bytes
	return acc.Owner.String() + checksumSeparator + extendedChecksum(acc.Owner, sub) +
		extendedSeparator + strings.TrimLeft(BytesToHex(sub[:]), "0"), nil
}

// DecodeExtended parses the ICRC-1 textual form. Text without a subaccount
// part is read as a bare principal on the default subaccount.
func DecodeExtended(text string) (Account, error) {
	prefix, suffix, found := strings.Cut(text, extendedSeparator)
	if !found {
		p, err := principal.Parse(text)
		if err != nil {
			return Account{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return NewAccount(p, nil), nil
	}
	if suffix == "" || strings.HasPrefix(suffix, "0") {
		return Account{}, fmt.Errorf("%w: non-canonical subaccount %q", ErrInvalidFormat, suffix)
	}
	if len(suffix) > 2*SubaccountLen || !isLowerHex(suffix) {
		return Account{}, fmt.Errorf("%w: bad subaccount %q", ErrInvalidFormat, suffix)
	}
	i := strings.LastIndex(prefix, checksumSeparator)
	if i < 0 {
		return Account{}, fmt.Errorf("%w: missing checksum", ErrInvalidFormat)
	}
	ptext, checksum := prefix[:i], prefix[i+1:]
	if len(checksum) != checksumTextLen {
		return Account{}, fmt.Errorf("%w: bad checksum length", ErrInvalidFormat)
	}
	p, err := principal.Parse(ptext)
	if err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	sub, err := HexToFixedBytes(suffix)
	if err != nil {
		return Account{}, err
	}
	if sub.IsDefault() {
		return Account{}, fmt.Errorf("%w: default subaccount must not be encoded", ErrInvalidFormat)
	}
	if extendedChecksum(p, sub) != checksum {
		return Account{}, fmt.Errorf("%w: checksum mismatch", ErrInvalidFormat)
	}
	acc := NewAccount(p, &ResolvedSubaccount{Kind: KindExtended, Source: suffix, Bytes: sub})
	acc.Original = text
	return acc, nil
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

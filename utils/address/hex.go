package address

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const SubaccountLen = 32

type Subaccount [SubaccountLen]byte

func (s Subaccount) IsDefault() bool {
	return s == Subaccount{}
}

func (s Subaccount) String() string {
	return BytesToHex(s[:])
}

// HexToFixedBytes reads up to 64 hex digits into a subaccount. An optional 0x
// prefix, whitespace and dashes are ignored. Short input is left-padded with
// zeros, so "1" is the subaccount whose last byte is 1; input longer than 64
// digits is truncated to its first 64.
func HexToFixedBytes(input string) (Subaccount, error) {
	var res Subaccount
	s := strings.TrimSpace(input)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	s = strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return res, fmt.Errorf("%w: empty hex", ErrInvalidFormat)
	}
	if !isHex(s) {
		return res, fmt.Errorf("%w: %q is not hex", ErrInvalidFormat, input)
	}
	if len(s) > 2*SubaccountLen {
		s = s[:2*SubaccountLen]
	}
	if len(s) < 2*SubaccountLen {
		s = strings.Repeat("0", 2*SubaccountLen-len(s)) + s
	}
	if _, err := hex.Decode(res[:], []byte(s)); err != nil {
		return Subaccount{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return res, nil
}

func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// ParseDecimalByteList reads a comma separated list of at most 32 decimal
// bytes. Bytes not given are zero.
func ParseDecimalByteList(input string) (Subaccount, error) {
	var res Subaccount
	parts := strings.Split(input, ",")
	if len(parts) > SubaccountLen {
		return res, fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidFormat, len(parts), SubaccountLen)
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return Subaccount{}, fmt.Errorf("%w: byte %d %q", ErrInvalidFormat, i, p)
		}
		res[i] = byte(v)
	}
	return res, nil
}

func isHex(s string) bool {
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

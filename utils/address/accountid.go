package address

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"strings"
)

const AccountIdentifierLen = 32

var accountIdDomain = []byte("\x0Aaccount-id")

// AccountIdentifier is the hashed account form used by the ICP ledger: a
// big-endian crc32 of the sha224 digest followed by the digest.
type AccountIdentifier [AccountIdentifierLen]byte

func AccountIdentifierOf(a Account) AccountIdentifier {
	var res AccountIdentifier
	sub := a.SubaccountBytes()
	h := sha256.New224()
	h.Write(accountIdDomain)
	h.Write(a.Owner.Bytes())
	h.Write(sub[:])
	digest := h.Sum(nil)
	binary.BigEndian.PutUint32(res[:4], crc32.ChecksumIEEE(digest))
	copy(res[4:], digest)
	return res
}

func ParseAccountIdentifier(text string) (AccountIdentifier, error) {
	var res AccountIdentifier
	s := strings.TrimSpace(text)
	if len(s) != 2*AccountIdentifierLen {
		return res, fmt.Errorf("%w: account identifier must be %d hex chars", ErrInvalidFormat, 2*AccountIdentifierLen)
	}
	if _, err := hex.Decode(res[:], []byte(s)); err != nil {
		return AccountIdentifier{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if binary.BigEndian.Uint32(res[:4]) != crc32.ChecksumIEEE(res[4:]) {
		return AccountIdentifier{}, fmt.Errorf("%w: account identifier checksum mismatch", ErrInvalidFormat)
	}
	return res, nil
}

func (id AccountIdentifier) String() string {
	return hex.EncodeToString(id[:])
}

package principal

import (
	"bytes"
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
)

const (
	MaxLen      = 29
	checksumLen = 4
	groupLen    = 5

	selfAuthenticatingSuffix = 0x02
	anonymousSuffix          = 0x04
)

var ErrInvalidFormat = errors.New("invalid principal")

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is the raw form of a textual identity. The zero value is the
// management canister.
type Principal struct {
	raw string
}

var (
	ManagementCanister = Principal{}
	Anonymous          = Principal{raw: string([]byte{anonymousSuffix})}
)

func FromBytes(b []byte) (Principal, error) {
	if len(b) > MaxLen {
		return Principal{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidFormat, len(b), MaxLen)
	}
	return Principal{raw: string(b)}, nil
}

func MustParse(text string) Principal {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

func Parse(text string) (Principal, error) {
	if text == "" {
		return Principal{}, fmt.Errorf("%w: empty text", ErrInvalidFormat)
	}
	if strings.ToLower(text) != text {
		return Principal{}, fmt.Errorf("%w: text must be lower case", ErrInvalidFormat)
	}
	compact := strings.ReplaceAll(text, "-", "")
	buf, err := encoding.DecodeString(strings.ToUpper(compact))
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(buf) < checksumLen || len(buf) > checksumLen+MaxLen {
		return Principal{}, fmt.Errorf("%w: decoded length %d", ErrInvalidFormat, len(buf))
	}
	raw := buf[checksumLen:]
	if binary.BigEndian.Uint32(buf[:checksumLen]) != crc32.ChecksumIEEE(raw) {
		return Principal{}, fmt.Errorf("%w: checksum mismatch", ErrInvalidFormat)
	}
	p := Principal{raw: string(raw)}
	if p.String() != text {
		return Principal{}, fmt.Errorf("%w: %q is not canonical", ErrInvalidFormat, text)
	}
	return p, nil
}

// SelfAuthenticating derives the principal owned by a DER encoded public key.
func SelfAuthenticating(der []byte) Principal {
	h := sha256.Sum224(der)
	return Principal{raw: string(append(h[:], selfAuthenticatingSuffix))}
}

func (p Principal) String() string {
	raw := []byte(p.raw)
	buf := make([]byte, checksumLen+len(raw))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE(raw))
	copy(buf[checksumLen:], raw)
	s := strings.ToLower(encoding.EncodeToString(buf))
	var sb strings.Builder
	for i := 0; i < len(s); i += groupLen {
		if i > 0 {
			sb.WriteByte('-')
		}
		end := i + groupLen
		if end > len(s) {
			end = len(s)
		}
		sb.WriteString(s[i:end])
	}
	return sb.String()
}

func (p Principal) Bytes() []byte {
	return []byte(p.raw)
}

func (p Principal) Len() int {
	return len(p.raw)
}

func (p Principal) Equal(o Principal) bool {
	return p.raw == o.raw
}

func (p Principal) IsAnonymous() bool {
	return p.raw == Anonymous.raw
}

func (p Principal) IsSelfAuthenticating() bool {
	return len(p.raw) == MaxLen && p.raw[MaxLen-1] == selfAuthenticatingSuffix
}

func (p Principal) Compare(o Principal) int {
	return bytes.Compare([]byte(p.raw), []byte(o.raw))
}

func (p Principal) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Principal) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

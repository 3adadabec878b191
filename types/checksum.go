package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ChecksumLen is the length of a checksum in bytes.
const ChecksumLen = sha256.Size

// Checksum identifies a guest code blob by the SHA-256 hash of its bytes.
type Checksum [ChecksumLen]byte

// ComputeChecksum hashes the given guest code.
func ComputeChecksum(code []byte) Checksum {
	return sha256.Sum256(code)
}

// ParseChecksum decodes a hex encoded checksum.
func ParseChecksum(input string) (Checksum, error) {
	var cs Checksum
	data, err := hex.DecodeString(input)
	if err != nil {
		return cs, fmt.Errorf("invalid checksum: %w", err)
	}
	if len(data) != ChecksumLen {
		return cs, fmt.Errorf("got %d bytes for checksum, want %d", len(data), ChecksumLen)
	}
	copy(cs[:], data)
	return cs, nil
}

func (cs Checksum) String() string {
	return hex.EncodeToString(cs[:])
}

// MarshalJSON implements the json.Marshaler interface for Checksum.
func (cs Checksum) MarshalJSON() ([]byte, error) {
	return json.Marshal(cs.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for Checksum.
func (cs *Checksum) UnmarshalJSON(input []byte) error {
	var hexString string
	if err := json.Unmarshal(input, &hexString); err != nil {
		return err
	}
	parsed, err := ParseChecksum(hexString)
	if err != nil {
		return err
	}
	*cs = parsed
	return nil
}

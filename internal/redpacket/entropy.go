package redpacket

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Entropy supplies a fresh nonce per claim.
//
// A nonce is unknown to the claimant when the claim is submitted, which
// keeps the split unpredictable to them. It is not secure against whoever
// controls the host running the ledger; callers that need stronger
// guarantees must plug in an external beacon.
type Entropy interface {
	Nonce() ([]byte, error)
}

// CryptoNonce reads 32 bytes from crypto/rand per call.
type CryptoNonce struct{}

func (CryptoNonce) Nonce() ([]byte, error) {
	b := make([]byte, 32)

	_, err := rand.Read(b)
	if err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}

	return b, nil
}

// EntropyFunc adapts a plain function to Entropy.
type EntropyFunc func() ([]byte, error)

func (f EntropyFunc) Nonce() ([]byte, error) { return f() }

// Seed mixes the call nonce with the packet state and claimant identity.
func Seed(nonce []byte, packetID uint64, claimant string, remaining, count int64) uint64 {
	buf := make([]byte, 0, len(nonce)+len(claimant)+32)
	buf = append(buf, nonce...)
	buf = binary.BigEndian.AppendUint64(buf, packetID)
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(claimant)))
	buf = append(buf, claimant...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(remaining))
	buf = binary.BigEndian.AppendUint64(buf, uint64(count))

	sum := blake2b.Sum256(buf)

	return binary.BigEndian.Uint64(sum[:8])
}

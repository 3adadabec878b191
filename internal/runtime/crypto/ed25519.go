package crypto

import (
	"crypto/ed25519"
)

const (
	// Ed25519SignatureLen is the length of an ed25519 signature in bytes.
	Ed25519SignatureLen = ed25519.SignatureSize
	// Ed25519PubkeyLen is the length of an ed25519 public key in bytes.
	Ed25519PubkeyLen = ed25519.PublicKeySize
)

// Ed25519Verify reports whether sig is a valid signature of msg by pubkey.
func Ed25519Verify(sig *[Ed25519SignatureLen]byte, msg []byte, pubkey *[Ed25519PubkeyLen]byte) bool {
	return ed25519.Verify(pubkey[:], msg, sig[:])
}

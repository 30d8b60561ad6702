// Package signing implements recoverable ECDSA (secp256k1) verification of
// a meter record's signature.
//
// The check here deliberately recovers the public key and then verifies
// the signature against that same recovered key — it does not check the
// recovered key against any allow-list of known meter identities. That
// degenerates the check to "is this signature recoverable and internally
// consistent", not "did a trusted meter sign this". Kept this way on
// purpose for compatibility with existing signer clients; an identity
// check against a configured allow-list is a separate concern this package
// does not implement.
package signing

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/greenshare/meter-aggregator/internal/hashing"
)

const sigHexLen = 130 // 32 (r) + 32 (s) + 1 (v) bytes, hex-encoded

// Verify reports whether signatureHex is a valid recoverable ECDSA
// signature, over record's canonical encoding, that can be verified
// against its own recovered public key. Every failure mode — malformed
// hex, wrong length, a recovery or verification failure — folds to false;
// none are distinguished.
func Verify(record hashing.Record, signatureHex string) bool {
	sigHash, err := hashing.SigHash(record)
	if err != nil {
		return false
	}

	sig, ok := parseSignature(signatureHex)
	if !ok {
		return false
	}

	pubKey, err := crypto.SigToPub(sigHash[:], sig)
	if err != nil {
		return false
	}

	compressed := crypto.CompressPubkey(pubKey)
	return crypto.VerifySignature(compressed, sigHash[:], sig[:64])
}

// parseSignature decodes the [0x] || r(32) || s(32) || v(1) hex form into
// the 65-byte r||s||v layout crypto.SigToPub expects, normalizing the
// Ethereum legacy v encoding (27/28) down to the raw recovery id (0/1).
func parseSignature(signatureHex string) ([]byte, bool) {
	s := strings.TrimPrefix(signatureHex, "0x")
	if len(s) != sigHexLen {
		return nil, false
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}

	v := raw[64]
	switch {
	case v == 27 || v == 28:
		v -= 27
	case v == 0 || v == 1:
		// already raw
	default:
		return nil, false
	}

	sig := make([]byte, 65)
	copy(sig, raw[:64])
	sig[64] = v
	return sig, true
}

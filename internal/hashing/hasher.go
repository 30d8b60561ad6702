// Package hashing implements the record-level canonical encoding and the
// two digests derived from it: a SHA-256 signature digest and a
// Keccak-256 Merkle-leaf digest. Both operate on the exact same bytes, so
// they agree on what a record "is" even though they serve different
// purposes.
package hashing

import (
	"crypto/sha256"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Record is the minimal shape the Hasher needs. It mirrors
// aggregator.MeterRecord's four fields without importing that package, so
// hashing has no dependency on the aggregator's validation or lifecycle
// concerns.
type Record struct {
	MeterID   string  `json:"meter_id"`
	Timestamp int64   `json:"timestamp"`
	KwhDelta  float64 `json:"kwh_delta"`
	Nonce     string  `json:"nonce"`
}

// canonicalBytes renders the record as compact JSON with keys in the fixed
// order meter_id, timestamp, kwh_delta, nonce. encoding/json already emits
// object fields in struct declaration order and uses Go's shortest
// round-trip float formatting for float64 — callers that sign records
// externally must reproduce that exact formatting, or signatures computed
// against this encoding will not verify.
func canonicalBytes(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// SigHash returns the 32-byte SHA-256 digest of the record's canonical
// encoding. This is the message a SignatureVerifier recovers a public key
// against.
func SigHash(r Record) ([32]byte, error) {
	data, err := canonicalBytes(r)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// RecordHash returns the hex-lowercase, 64-character Keccak-256 digest of
// the record's canonical encoding. This is the value used as a Merkle leaf.
func RecordHash(r Record) (string, error) {
	data, err := canonicalBytes(r)
	if err != nil {
		return "", err
	}
	hash := crypto.Keccak256Hash(data)
	return strings.ToLower(common.Bytes2Hex(hash[:])), nil
}

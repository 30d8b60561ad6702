// Package merkletree builds a binary Merkle tree over hex-encoded leaf
// hashes and produces/verifies inclusion proofs against it.
package merkletree

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrEmptyLeaves is returned when building a tree from zero leaves.
	ErrEmptyLeaves = errors.New("merkletree: cannot build tree from empty leaf list")
	// ErrIndexRange is returned when a proof is requested for an
	// out-of-bounds leaf index.
	ErrIndexRange = errors.New("merkletree: leaf index out of range")
	// ErrDecodeLeaf is returned when a leaf or sibling hash is not valid hex.
	ErrDecodeLeaf = errors.New("merkletree: leaf is not valid hex")
)

// Tree is a binary Merkle tree over hex-encoded leaf hashes, retaining
// every intermediate level so proofs can be generated for any leaf.
type Tree struct {
	leaves []string
	levels [][]string
	root   string
}

// Build constructs a Tree from a non-empty sequence of hex leaf hashes.
// A single leaf is its own root, without further hashing. Odd levels
// duplicate their last element before pairing, per the original scheme
// this service is compatible with.
func Build(leaves []string) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyLeaves
	}

	level := make([]string, len(leaves))
	copy(level, leaves)

	levels := [][]string{level}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		next := make([]string, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			combined, err := hashPair(level[i], level[i+1])
			if err != nil {
				return nil, err
			}
			next = append(next, combined)
		}

		levels = append(levels, next)
		level = next
	}

	return &Tree{
		leaves: append([]string(nil), leaves...),
		levels: levels,
		root:   level[0],
	}, nil
}

// Root returns the tree's root hash.
func (t *Tree) Root() string {
	return t.root
}

// Leaves returns the leaf hashes the tree was built from, in order.
func (t *Tree) Leaves() []string {
	return append([]string(nil), t.leaves...)
}

// Proof returns the ordered sibling hashes needed to reconstruct the
// root from the leaf at index.
func (t *Tree) Proof(index int) ([]string, error) {
	if index < 0 || index >= len(t.leaves) {
		return nil, ErrIndexRange
	}

	var proof []string
	idx := index

	for _, level := range t.levels[:len(t.levels)-1] {
		siblingIdx := idx ^ 1
		if siblingIdx < len(level) {
			proof = append(proof, level[siblingIdx])
		}
		idx /= 2
	}

	return proof, nil
}

// VerifyProof reports whether leaf, combined with proof's sibling
// hashes in order, reduces to root. leafIndex is only consumed to
// track which branch is being climbed; sorted-pair hashing makes the
// result independent of left/right orientation.
func VerifyProof(leaf string, proof []string, root string, leafIndex int) (bool, error) {
	current := leaf
	idx := leafIndex

	for _, sibling := range proof {
		combined, err := hashPair(current, sibling)
		if err != nil {
			return false, err
		}
		current = combined
		idx /= 2
	}

	return current == root, nil
}

// hashPair combines two hex-encoded hashes by decoding each, ordering
// them lexicographically on their hex form, and hashing the
// concatenated bytes with Keccak-256.
func hashPair(a, b string) (string, error) {
	lo, hi := a, b
	if strings.Compare(a, b) > 0 {
		lo, hi = b, a
	}

	loBytes, err := hex.DecodeString(lo)
	if err != nil {
		return "", ErrDecodeLeaf
	}
	hiBytes, err := hex.DecodeString(hi)
	if err != nil {
		return "", ErrDecodeLeaf
	}

	combined := make([]byte, 0, len(loBytes)+len(hiBytes))
	combined = append(combined, loBytes...)
	combined = append(combined, hiBytes...)

	hash := crypto.Keccak256Hash(combined)
	return hex.EncodeToString(hash[:]), nil
}

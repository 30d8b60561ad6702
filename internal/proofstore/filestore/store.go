// Package filestore is the durable source of truth for proof
// persistence: every finalised proof is written as pretty JSON to
// <output_dir>/proof_<proof_id>.json, and the most recent one is mirrored
// to <output_dir>/latest.json.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

// Sink implements aggregator.Sink against a plain filesystem directory.
type Sink struct {
	outputDir string
}

// New returns a Sink rooted at outputDir. The directory is created if it
// does not already exist.
func New(outputDir string) (*Sink, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create output dir: %w", err)
	}
	return &Sink{outputDir: outputDir}, nil
}

// Save writes proof to its own proof_<proof_id>.json file and updates the latest
// pointer. Both writes are write-to-temp-then-rename so a concurrent
// reader of latest.json never observes a partial write.
func (s *Sink) Save(ctx context.Context, proof *aggregator.ProofData) error {
	data, err := json.MarshalIndent(proof, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: marshal proof: %w", err)
	}

	proofPath := filepath.Join(s.outputDir, fmt.Sprintf("proof_%s.json", proof.ProofID))
	if err := writeAtomic(proofPath, data); err != nil {
		return err
	}

	latestPath := filepath.Join(s.outputDir, "latest.json")
	return writeAtomic(latestPath, data)
}

// Latest reads the mirrored latest.json. It returns (nil, nil) if the
// directory holds no proof yet — absence is not an error here, matching
// the no_proofs condition the caller resolves.
func (s *Sink) Latest(ctx context.Context) (*aggregator.ProofData, error) {
	data, err := os.ReadFile(filepath.Join(s.outputDir, "latest.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("filestore: read latest.json: %w", err)
	}

	var proof aggregator.ProofData
	if err := json.Unmarshal(data, &proof); err != nil {
		return nil, fmt.Errorf("filestore: unmarshal latest.json: %w", err)
	}
	return &proof, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("filestore: write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("filestore: rename %s: %w", filepath.Base(tmp), err)
	}
	return nil
}

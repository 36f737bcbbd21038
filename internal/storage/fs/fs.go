// Package fs provides file-backed store implementations. Artifact layout
// under the root directory:
//
//	encoders/<column>_encoder.json
//	models/<failure_type>_classifier.json
//	models/<failure_type>_regressor.json
//	training_history/training_log.csv
//	features/corpus.jsonl
//
// All writes go through a temp file plus rename, so a crash never leaves a
// partially written artifact.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	encodersDir = "encoders"
	modelsDir   = "models"
	historyDir  = "training_history"
	featuresDir = "features"
)

// Store groups the file-backed stores under one root directory.
type Store struct {
	root string
}

// New creates the root layout and returns the store.
func New(root string) (*Store, error) {
	for _, dir := range []string{encodersDir, modelsDir, historyDir, featuresDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
		}
	}
	return &Store{root: root}, nil
}

// Encoders returns the file-backed encoder store.
func (s *Store) Encoders() *EncoderStore {
	return &EncoderStore{dir: filepath.Join(s.root, encodersDir)}
}

// Models returns the file-backed model store.
func (s *Store) Models() *ModelStore {
	return &ModelStore{dir: filepath.Join(s.root, modelsDir)}
}

// History returns the file-backed training history store.
func (s *Store) History() *TrainingHistoryStore {
	return &TrainingHistoryStore{path: filepath.Join(s.root, historyDir, "training_log.csv")}
}

// Features returns the file-backed feature store.
func (s *Store) Features() *FeatureStore {
	return &FeatureStore{path: filepath.Join(s.root, featuresDir, "corpus.jsonl")}
}

// writeAtomic writes data to path via a temp file in the same directory.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

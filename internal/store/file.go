package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/npezzotti/scholarly/internal/types"
)

type FileHubStore struct {
	log  *log.Logger
	path string
}

func NewFileHubStore(logger *log.Logger, dataDir string) (*FileHubStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &FileHubStore{
		log:  logger,
		path: filepath.Join(dataDir, StorageKey+".json"),
	}, nil
}

func (s *FileHubStore) Ping() error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *FileHubStore) Load() []types.Hub {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Printf("read snapshot: %v", err)
		}
		return nil
	}

	var hubs []types.Hub
	if err := json.Unmarshal(data, &hubs); err != nil {
		// an unreadable document is treated as no data
		s.log.Printf("parse snapshot: %v", err)
		return nil
	}

	return hubs
}

func (s *FileHubStore) Save(hubs []types.Hub) error {
	if hubs == nil {
		hubs = []types.Hub{}
	}

	data, err := json.Marshal(hubs)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	// the snapshot is replaced via rename, never written in place
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	return nil
}

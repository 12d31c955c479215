package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainseal/chainseal-go/ledger"
)

// FS is a filesystem-backed checkpoint store.
//
// Each checkpoint lives at root/<agent>/<kind>.json. Writes go through a
// temp file and rename so a crash can never leave a half-written
// checkpoint behind. This implementation is offline and deterministic: it
// never uses the network and never depends on wall-clock time.
type FS struct {
	root string
}

// NewFS constructs a checkpoint store rooted at root. The directory will be
// created if needed.
func NewFS(root string) (*FS, error) {
	if root == "" {
		return nil, errors.New("store: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FS{root: root}, nil
}

type document struct {
	Agent string       `json:"agent"`
	Chain ledger.Kind  `json:"chain"`
	State ledger.State `json:"state"`
}

func (s *FS) pathFor(agent string, kind ledger.Kind) string {
	return filepath.Join(s.root, agent, string(kind)+".json")
}

func (s *FS) Save(ctx context.Context, agent string, kind ledger.Kind, state ledger.State) error {
	if agent == "" {
		return errors.New("store: agent is required")
	}
	if !kind.Valid() {
		return fmt.Errorf("store: unknown chain kind %q", kind)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(document{Agent: agent, Chain: kind, State: state})
	if err != nil {
		return err
	}

	path := s.pathFor(agent, kind)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+string(kind)+"-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (s *FS) Load(ctx context.Context, agent string, kind ledger.Kind) (*ledger.State, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("store: unknown chain kind %q", kind)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.pathFor(agent, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCheckpoint
		}
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store: corrupt checkpoint for %s/%s: %w", agent, kind, err)
	}
	if doc.Agent != agent || doc.Chain != kind {
		return nil, fmt.Errorf("store: checkpoint for %s/%s belongs to %s/%s", agent, kind, doc.Agent, doc.Chain)
	}
	state := doc.State
	return &state, nil
}

func (s *FS) Clear(ctx context.Context, agent string) error {
	if agent == "" {
		return errors.New("store: agent is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.root, agent))
}

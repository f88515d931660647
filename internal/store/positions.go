package store

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"tocview/internal/domain"
)

// Positions remembers where each document was left
type Positions interface {
	Load(path string) (domain.ReadingPosition, bool)
	Save(path string, pos domain.ReadingPosition) error
	Forget(path string) error
}

type positions struct {
	d *diskv.Diskv
}

// DefaultDir returns the cache directory used for reading positions
func DefaultDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tocview", "positions")
}

// Open creates a Positions store rooted at dir
func Open(dir string) (Positions, error) {
	if dir == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &positions{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    shardTransform,
		CacheSizeMax: 256 * 1024,
	})}, nil
}

// Load returns the saved position for path, if any
func (p *positions) Load(path string) (domain.ReadingPosition, bool) {
	var pos domain.ReadingPosition
	val, err := p.d.Read(keyFor(path))
	if err != nil {
		return pos, false
	}
	if err := json.Unmarshal(val, &pos); err != nil {
		return pos, false
	}
	return pos, true
}

// Save stores the position for path
func (p *positions) Save(path string, pos domain.ReadingPosition) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	if err := p.d.Write(keyFor(path), data); err != nil {
		return fmt.Errorf("store: write position: %w", err)
	}
	return nil
}

// Forget drops the saved position for path
func (p *positions) Forget(path string) error {
	key := keyFor(path)
	if !p.d.Has(key) {
		return nil
	}
	return p.d.Erase(key)
}

// keyFor makes a stable key from the absolute document path
func keyFor(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha1.Sum([]byte(filepath.Clean(path)))
	return fmt.Sprintf("%x", sum)
}

// shardTransform spreads keys over two levels of directories
func shardTransform(key string) []string {
	if len(key) < 4 {
		return []string{}
	}
	return []string{key[0:2], key[2:4]}
}

// Package diskv stores each key as a JSON file under a base directory.
package diskv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/julianstephens/daybook/internal/constants"
)

const fileExt = ".json"

type Store struct {
	basePath string
	d        *diskv.Diskv
}

func New(basePath string) *Store {
	return &Store{basePath: basePath}
}

func (s *Store) open() {
	s.d = diskv.New(diskv.Options{
		BasePath:          s.basePath,
		TempDir:           filepath.Join(s.basePath, ".tmp"),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	})
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.basePath, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	s.open()
	return nil
}

func (s *Store) Load() error {
	if _, err := os.Stat(s.basePath); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}
	s.open()
	return nil
}

func (s *Store) Close() error {
	s.d = nil
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.basePath
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if !s.d.Has(key) {
		return "", false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return "", false, err
	}
	return string(val), true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	return s.d.Write(key, []byte(value))
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	for key := range s.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{FileName: key + fileExt}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, fileExt)
}

package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// diskBackend stores each blob as one file under DataDir/blobs.
type diskBackend struct {
	d *diskv.Diskv
}

func newDiskBackend(dataDir string) *diskBackend {
	return &diskBackend{d: diskv.New(diskv.Options{
		BasePath:     filepath.Join(dataDir, "blobs"),
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (b *diskBackend) Read(key string) ([]byte, bool, error) {
	data, err := b.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (b *diskBackend) Write(key string, value []byte) error {
	return b.d.Write(key, value)
}

func (b *diskBackend) Close() error {
	return nil
}

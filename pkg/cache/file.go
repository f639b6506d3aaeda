package cache

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"time"
)

// FileCache implements a file-based cache for single-host usage. Entries are
// raw artifact bytes prefixed with an 8-byte expiry header, so binary
// payloads (PNGs) are stored without encoding overhead.
type FileCache struct {
	dir string
}

// expiryHeaderLen is the length of the per-entry expiry prefix: a big-endian
// unix-nanosecond timestamp, zero meaning no expiry.
const expiryHeaderLen = 8

// NewFileCache creates a file-based cache in the given directory, creating
// it if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a value from the cache. Corrupt or expired entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw) < expiryHeaderLen {
		_ = os.Remove(path)
		return nil, false, nil
	}

	if expiry := binary.BigEndian.Uint64(raw); expiry != 0 && time.Now().UnixNano() > int64(expiry) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return raw[expiryHeaderLen:], true, nil
}

// Set stores a value in the cache. The entry is written to a temporary file
// and renamed into place, so concurrent readers never see partial writes.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var header [expiryHeaderLen]byte
	if ttl > 0 {
		binary.BigEndian.PutUint64(header[:], uint64(time.Now().Add(ttl).UnixNano()))
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(header[:]); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes a value from the cache. Deleting a missing key is not an
// error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error {
	return nil
}

// path maps a cache key to a file path, sharding by the first two hash
// characters to keep directories small.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".bin")
}

var _ Cache = (*FileCache)(nil)

package suggest

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion guards against loading files written by an older layout.
const snapshotVersion = 1

// Snapshot is the on-disk form of a built index. It lets the server answer
// suggestion queries immediately after boot, before the first catalog read,
// and gives the CLI an export format.
type Snapshot struct {
	Version int    `msgpack:"v"`
	BuiltAt int64  `msgpack:"b"` // unix seconds
	Items   []Item `msgpack:"i"`
}

// SaveSnapshot writes the item list to path in msgpack form. The write goes
// through a temp file and rename so readers never observe a partial file.
func SaveSnapshot(path string, items []Item) error {
	snap := Snapshot{Version: snapshotVersion, BuiltAt: time.Now().Unix(), Items: items}
	raw, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadSnapshot reads a snapshot back. Callers decide how stale is too stale
// via BuiltAt.
func LoadSnapshot(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := msgpack.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return Snapshot{}, fmt.Errorf("snapshot version %d not supported", snap.Version)
	}
	return snap, nil
}

package storage

import (
	"fmt"
	"os"
	"time"

	"f2g/internal/providers"

	json "github.com/goccy/go-json"
)

const snapshotVersion = 1

type snapshotFile struct {
	Version int              `json:"version"`
	SavedAt time.Time        `json:"saved_at"`
	Entries map[string]Entry `json:"entries"`
}

// FileManager writes snapshots of an in-memory store to disk and loads
// them back. Stores that persist on their own are left alone.
type FileManager struct {
	store      Snapshotter
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor CompressorInterface, store Store, logger providers.Logger) *FileManager {
	snap, _ := store.(Snapshotter)
	return &FileManager{
		store:      snap,
		compressor: compressor,
		logger:     logger,
	}
}

// Enabled reports whether the store needs file snapshots at all.
func (f *FileManager) Enabled() bool {
	return f.store != nil
}

func (f *FileManager) SaveToFile(fileName string) error {
	if f.store == nil {
		return nil
	}
	jsonData, err := json.Marshal(snapshotFile{
		Version: snapshotVersion,
		SavedAt: time.Now().UTC(),
		Entries: f.store.Snapshot(),
	})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the store from fileName. A missing file is not an
// error; the store simply starts empty.
func (f *FileManager) LoadFromFile(fileName string) error {
	if f.store == nil {
		return nil
	}
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snap snapshotFile
	if err := json.Unmarshal(decompressedData, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		f.logger.Warnf(providers.TypeApp, "Snapshot %s has version %d, expected %d; starting empty", fileName, snap.Version, snapshotVersion)
		return nil
	}
	f.store.Restore(snap.Entries)
	f.logger.Infof(providers.TypeApp, "Restored %d keys saved at %s", len(snap.Entries), snap.SavedAt.Format(time.RFC3339))
	return nil
}

package storage

import (
	"fmt"

	"f2g/internal/providers"
	"f2g/internal/structures"
)

func NewStore(conf *structures.Config, logger providers.Logger) (Store, error) {
	switch conf.Storage.Type {
	case "sqlite":
		s, err := NewSQLiteStore(conf.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Infof(providers.TypeApp, "Using sqlite store at %s", conf.Storage.SQLitePath)
		return s, nil
	case "memory", "":
		logger.Infof(providers.TypeApp, "Using memory store, snapshots at %s", conf.Persistence.FilePath)
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage type %q", conf.Storage.Type)
}

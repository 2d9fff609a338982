package storage

import (
	"errors"
	"fmt"
)

const (
	ReportsDir  = "reports"
	RegistryDir = "registry"
)

var (
	// DefaultDir is the root of the file storage.
	DefaultDir = "file-storage"
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key of a training artifact.
type Key struct {
	Variant string `json:"variant"`
	Run     string `json:"run"`
	Label   string `json:"label"`
}

func (k Key) Path() string {
	return fmt.Sprintf("%s_%s_%s", k.Variant, k.Run, k.Label)
}

type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

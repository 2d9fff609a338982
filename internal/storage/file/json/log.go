package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drakos74/rvm/internal/storage"
)

const (
	filename = "%s.events.log"
)

// Logger appends every stored value as one json line to the log file of the key.
type Logger struct {
	root string
}

// NewLogger creates a new event logger under the given root.
func NewLogger(root string) *Logger {
	if root == "" {
		root = storage.DefaultDir
	}
	return &Logger{root: root}
}

func (l *Logger) filePath(k storage.Key) string {
	return filepath.Join(l.root, storage.RegistryDir, k.Variant, k.Label)
}

func (l *Logger) Store(k storage.Key, value interface{}) error {
	filePath := l.filePath(k)
	if err := dir(filePath); err != nil {
		return err
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value '%+v': %w", value, err)
	}
	f, err := os.OpenFile(filepath.Join(filePath, fmt.Sprintf(filename, k.Run)), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer f.Close()

	if _, err = f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("could not write log file for '%+v': %w", k, err)
	}
	return nil
}

// Load decodes all the events of the key into the given slice pointer.
func (l *Logger) Load(k storage.Key, values interface{}) error {
	fileName := filepath.Join(l.filePath(k), fmt.Sprintf(filename, k.Run))
	b, err := os.ReadFile(fileName)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not find log '%s': %w", fileName, storage.NotFoundErr)
	}
	if err != nil {
		return fmt.Errorf("could not read file '%s': %w", fileName, err)
	}

	lines := bytes.Split(bytes.TrimSpace(b), []byte("\n"))
	array := append([]byte("["), bytes.Join(lines, []byte(","))...)
	array = append(array, ']')
	if err := json.Unmarshal(array, values); err != nil {
		return fmt.Errorf("could not decode events of '%+v': %v: %w", k, err, storage.CouldNotLoadErr)
	}
	return nil
}

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"
)

const filePerms = 0o644

type FilePaths struct {
	Dir         string
	Collections map[Name]string
	Counter     string
}

// FileGateway keeps each collection in its own JSON file and the ticket
// counter in a plain text file. Every write goes through a temp file and a
// rename, so readers never observe a half-written collection.
type FileGateway struct {
	paths  FilePaths
	logger zerolog.Logger

	counterMu sync.Mutex
}

func NewFileGateway(paths FilePaths, logger zerolog.Logger) (*FileGateway, error) {
	for _, name := range Names() {
		if paths.Collections[name] == "" {
			return nil, fmt.Errorf("storage: no file configured for %s", name)
		}
	}
	if paths.Counter == "" {
		return nil, errors.New("storage: no counter file configured")
	}
	return &FileGateway{paths: paths, logger: logger}, nil
}

func (g *FileGateway) Init(ctx context.Context) error {
	if g.paths.Dir != "" {
		if err := os.MkdirAll(g.paths.Dir, 0o755); err != nil {
			return fmt.Errorf("storage: create data dir: %w", err)
		}
	}
	for _, name := range Names() {
		path := g.paths.Collections[name]
		created, err := g.createIfMissing(path, []byte("[]"))
		if err != nil {
			return fmt.Errorf("storage: init %s: %w", name, err)
		}
		if created {
			g.logger.Info().Str("collection", string(name)).Str("path", path).Msg("created empty collection")
		}
	}
	created, err := g.createIfMissing(g.paths.Counter, []byte("0"))
	if err != nil {
		return fmt.Errorf("storage: init counter: %w", err)
	}
	if created {
		g.logger.Info().Str("path", g.paths.Counter).Msg("created ticket counter")
	}
	return nil
}

func (g *FileGateway) Ping(ctx context.Context) error {
	if g.paths.Dir == "" {
		return nil
	}
	info, err := os.Stat(g.paths.Dir)
	if err != nil {
		return fmt.Errorf("storage: data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: %s is not a directory", g.paths.Dir)
	}
	return nil
}

func (g *FileGateway) Load(ctx context.Context, name Name) ([]json.RawMessage, error) {
	if err := name.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", name, err)
	}
	data, err := os.ReadFile(g.paths.Collections[name])
	if errors.Is(err, os.ErrNotExist) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []json.RawMessage{}, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", name, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

func (g *FileGateway) Save(ctx context.Context, name Name, records []json.RawMessage) error {
	if err := name.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", name, err)
	}
	if err := g.write(g.paths.Collections[name], data); err != nil {
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	return nil
}

func (g *FileGateway) NextTicketNumber(ctx context.Context) (int, error) {
	g.counterMu.Lock()
	defer g.counterMu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("storage: next ticket number: %w", err)
	}

	current := 0
	if data, err := os.ReadFile(g.paths.Counter); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil {
			current = n
		} else {
			g.logger.Warn().Str("path", g.paths.Counter).Msg("unparsable ticket counter, restarting from 0")
		}
	}

	next := current + 1
	if err := g.write(g.paths.Counter, []byte(strconv.Itoa(next))); err != nil {
		return 0, fmt.Errorf("storage: save counter: %w", err)
	}
	return next, nil
}

func (g *FileGateway) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	if errors.Is(statErr, os.ErrNotExist) {
		return os.Chmod(path, filePerms)
	}
	return nil
}

func (g *FileGateway) createIfMissing(path string, content []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := g.write(path, content); err != nil {
		return false, err
	}
	return true, nil
}

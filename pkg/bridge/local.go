package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	natomic "github.com/natefinch/atomic"

	ifs "github.com/inkdex/inkdex/pkg/fs"
)

// GeneratedConfigDir is the reserved namespace PutConfig writes under.
const GeneratedConfigDir = ".tina/__generated__"

// Local is a Bridge backed by a plain disk directory. Writes go through
// natefinch/atomic so that a crash mid-write can never leave a document or
// generated config record partially written.
type Local struct {
	root string
	fsys ifs.FS
}

// NewLocal returns a Local bridge rooted at dir, using fsys for reads,
// directory creation and removal; Glob matches against the disk through
// filepath.Glob. fsys must not be nil.
func NewLocal(dir string, fsys ifs.FS) *Local {
	if fsys == nil {
		panic("bridge: NewLocal requires a non-nil fs.FS")
	}
	return &Local{root: dir, fsys: fsys}
}

func (l *Local) abs(path string) string {
	return filepath.Join(l.root, filepath.FromSlash(path))
}

func (l *Local) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := l.fsys.ReadFile(l.abs(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

func (l *Local) Put(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs := l.abs(path)
	if err := l.fsys.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("bridge: create parent dir for %s: %w", path, err)
	}
	if err := natomic.WriteFile(abs, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("bridge: write %s: %w", path, err)
	}
	return nil
}

func (l *Local) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.fsys.Remove(l.abs(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("bridge: delete %s: %w", path, err)
	}
	return nil
}

func (l *Local) Glob(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(l.abs(pattern))
	if err != nil {
		return nil, fmt.Errorf("bridge: glob %s: %w", pattern, err)
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(l.root, m)
		if err != nil {
			return nil, err
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}

func (l *Local) PutConfig(ctx context.Context, name string, data []byte) error {
	return l.Put(ctx, filepath.ToSlash(filepath.Join(GeneratedConfigDir, name)), data)
}

func (l *Local) SupportsBuilding() bool {
	return false
}

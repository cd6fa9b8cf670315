package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// skippedDirectories are never part of a snapshot.
var skippedDirectories = map[string]struct{}{ //nolint:gochecknoglobals // read-only lookup
	".git":         {},
	"node_modules": {},
}

// Snapshot holds the content of every workspace file at a point in time,
// keyed by repo-absolute path.
type Snapshot map[string][]byte

// WorkspaceFiles observes the files of a workspace through a filesystem
// rooted at the repository root. When scoped, only the files directly inside
// the directories of the dependency files are read; otherwise the whole tree
// is walked.
type WorkspaceFiles struct {
	fs   afero.Fs
	dirs []string
}

// NewWorkspaceFiles wraps the given repository filesystem, scoped to the
// directories of dependencyFiles when any are given.
func NewWorkspaceFiles(fs afero.Fs, dependencyFiles ...string) *WorkspaceFiles {
	seen := make(map[string]struct{})
	var dirs []string
	for _, file := range dependencyFiles {
		dir := path.Dir(path.Clean("/" + file))
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return &WorkspaceFiles{fs: fs, dirs: dirs}
}

// Fs returns the underlying filesystem.
func (w *WorkspaceFiles) Fs() afero.Fs {
	return w.fs
}

// Snapshot reads every regular file in scope.
func (w *WorkspaceFiles) Snapshot() (Snapshot, error) {
	if len(w.dirs) > 0 {
		return w.snapshotDirectories()
	}

	snapshot := make(Snapshot)
	err := afero.Walk(w.fs, "/", func(filePath string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			if _, skip := skippedDirectories[info.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		return w.read(snapshot, filePath, info)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot workspace: %w", err)
	}
	return snapshot, nil
}

// snapshotDirectories reads the files directly inside each scoped directory.
// A directory that does not exist contributes nothing.
func (w *WorkspaceFiles) snapshotDirectories() (Snapshot, error) {
	snapshot := make(Snapshot)
	for _, dir := range w.dirs {
		entries, err := afero.ReadDir(w.fs, dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot %q: %w", dir, err)
		}
		for _, info := range entries {
			if info.IsDir() {
				continue
			}
			if readErr := w.read(snapshot, path.Join(dir, info.Name()), info); readErr != nil {
				return nil, fmt.Errorf("failed to snapshot workspace: %w", readErr)
			}
		}
	}
	return snapshot, nil
}

func (w *WorkspaceFiles) read(snapshot Snapshot, filePath string, info os.FileInfo) error {
	if !info.Mode().IsRegular() {
		return nil
	}
	content, err := afero.ReadFile(w.fs, filePath)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", filePath, err)
	}
	snapshot[path.Clean("/"+filePath)] = content
	return nil
}

// Diff returns every file whose content differs from before, sorted by path.
// Files removed since the snapshot are reported with Deleted set.
func (w *WorkspaceFiles) Diff(before Snapshot) ([]entities.DependencyFile, error) {
	after, err := w.Snapshot()
	if err != nil {
		return nil, err
	}

	var changed []entities.DependencyFile
	for filePath, content := range after {
		previous, existed := before[filePath]
		if existed && bytes.Equal(previous, content) {
			continue
		}
		changed = append(changed, newDependencyFile(filePath, content, false))
	}
	for filePath := range before {
		if _, exists := after[filePath]; !exists {
			changed = append(changed, newDependencyFile(filePath, nil, true))
		}
	}

	sort.Slice(changed, func(i, j int) bool {
		return changed[i].Path() < changed[j].Path()
	})
	return changed, nil
}

// Restore puts the workspace back to the snapshot: changed and removed
// files are rewritten and new files are deleted.
func (w *WorkspaceFiles) Restore(before Snapshot) error {
	after, err := w.Snapshot()
	if err != nil {
		return err
	}

	for filePath := range after {
		if _, existed := before[filePath]; !existed {
			if removeErr := w.fs.Remove(filePath); removeErr != nil {
				return fmt.Errorf("failed to remove %q: %w", filePath, removeErr)
			}
		}
	}
	for filePath, content := range before {
		if current, exists := after[filePath]; exists && bytes.Equal(current, content) {
			continue
		}
		if mkdirErr := w.fs.MkdirAll(path.Dir(filePath), dirPermissions); mkdirErr != nil {
			return fmt.Errorf("failed to recreate %q: %w", path.Dir(filePath), mkdirErr)
		}
		if writeErr := afero.WriteFile(w.fs, filePath, content, filePermissions); writeErr != nil {
			return fmt.Errorf("failed to restore %q: %w", filePath, writeErr)
		}
	}
	return nil
}

func newDependencyFile(filePath string, content []byte, deleted bool) entities.DependencyFile {
	return entities.DependencyFile{
		Directory: path.Dir(filePath),
		Name:      path.Base(filePath),
		Content:   string(content),
		Deleted:   deleted,
	}
}

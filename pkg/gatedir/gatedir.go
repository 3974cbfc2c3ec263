// Package gatedir encapsulates all path knowledge for the .modelgate/ project
// directory: the config file, the optional .env file, and the local (gitignored)
// state directory that holds discovery snapshots.
package gatedir

import (
	"fmt"
	"os"
	"path/filepath"
)

const gitignoreContent = "local/\n.env\n"

// Dir is a value object that resolves paths within a .modelgate/ directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Root returns the absolute path to the .modelgate/ directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the YAML config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// TOMLConfigPath returns the path to the TOML config file.
func (d Dir) TOMLConfigPath() string { return filepath.Join(d.root, "config.toml") }

// EnvPath returns the path to the project .env file.
func (d Dir) EnvPath() string { return filepath.Join(d.root, ".env") }

// LocalDir returns the path to the local runtime state directory.
func (d Dir) LocalDir() string { return filepath.Join(d.root, "local") }

// SnapshotPath returns the path to the last discovery snapshot.
func (d Dir) SnapshotPath() string { return filepath.Join(d.root, "local", "models.json") }

// GitignorePath returns the path to the .gitignore file inside .modelgate/.
func (d Dir) GitignorePath() string { return filepath.Join(d.root, ".gitignore") }

// Exists reports whether the root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}

// ResolveConfig returns the config file to use. Priority: explicit path,
// config.yaml, config.toml. It returns "" when none exists.
func (d Dir) ResolveConfig(explicit string) string {
	if explicit != "" {
		return explicit
	}

	for _, p := range []string{d.ConfigPath(), d.TOMLConfigPath()} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// EnsureStructure creates the root, local/ and .gitignore if missing. It is
// idempotent.
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.LocalDir(), 0o750); err != nil {
		return fmt.Errorf("gatedir: create local dir: %w", err)
	}

	if _, err := os.Stat(d.GitignorePath()); err == nil {
		return nil
	}

	if err := os.WriteFile(d.GitignorePath(), []byte(gitignoreContent), 0o600); err != nil {
		return fmt.Errorf("gatedir: gitignore: %w", err)
	}

	return nil
}

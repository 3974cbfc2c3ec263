package gatedir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/germanamz/modelgate/pkg/providers/model"
)

// Snapshot is a saved discovery result keyed by provider name.
type Snapshot map[string][]model.Descriptor

// LoadSnapshot reads the last snapshot. A missing file yields an empty
// snapshot and no error.
func LoadSnapshot(d Dir) (Snapshot, error) {
	data, err := os.ReadFile(d.SnapshotPath())
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gatedir: read snapshot: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("gatedir: parse snapshot: %w", err)
	}

	return s, nil
}

// SaveSnapshot writes s, creating the directory structure if needed.
func SaveSnapshot(d Dir, s Snapshot) error {
	if err := EnsureStructure(d); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("gatedir: encode snapshot: %w", err)
	}

	if err := os.WriteFile(d.SnapshotPath(), append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("gatedir: write snapshot: %w", err)
	}

	return nil
}

// Lines renders s as one "provider/name" line per model, providers sorted by
// name and models in discovery order. It is the text form used for diffs.
func (s Snapshot) Lines() string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		for _, m := range s[name] {
			b.WriteString(name)
			b.WriteByte('/')
			b.WriteString(m.Name)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

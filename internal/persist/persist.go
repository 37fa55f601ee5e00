// Package persist loads and saves the durable user state: the favorites
// list (one catalog key per line) and the notes map (JSON object keyed by
// catalog key). Missing or corrupt files are not fatal; a session simply
// starts empty.
package persist

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/bookscout/internal/fileutil"
	"github.com/lepinkainen/bookscout/internal/store"
)

const (
	favoritesFile = "favorites.txt"
	notesFile     = "notes.json"
)

// Load reads the persisted favorites and notes from dir.
func Load(dir string) ([]string, map[string]store.Note) {
	return loadFavorites(filepath.Join(dir, favoritesFile)),
		loadNotes(filepath.Join(dir, notesFile))
}

// Save writes favorites and notes back to dir in the same shapes Load reads.
func Save(dir string, favorites []string, notes map[string]store.Note) error {
	var lines strings.Builder
	for _, key := range favorites {
		lines.WriteString(key)
		lines.WriteByte('\n')
	}
	if err := fileutil.WriteFile(filepath.Join(dir, favoritesFile), []byte(lines.String()), 0644); err != nil {
		return err
	}

	return fileutil.WriteJSONFile(notes, filepath.Join(dir, notesFile))
}

func loadFavorites(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		slog.Warn("Unable to open favorites file, starting with no favorites", "path", path, "error", err)
		return nil
	}
	defer func() { _ = file.Close() }()

	var favorites []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			favorites = append(favorites, line)
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("Error reading favorites file", "path", path, "error", err)
	}
	return favorites
}

func loadNotes(path string) map[string]store.Note {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Unable to open notes file, starting with no saved notes", "path", path, "error", err)
		return map[string]store.Note{}
	}

	notes := map[string]store.Note{}
	if err := json.Unmarshal(data, &notes); err != nil {
		slog.Warn("Error loading notes file", "path", path, "error", err)
		return map[string]store.Note{}
	}
	return notes
}

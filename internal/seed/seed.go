// Package seed reads the genre catalogue used to bootstrap a database.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed genres.yaml
var defaultGenres []byte

// GenreFile is the YAML layout of a genre seed file.
type GenreFile struct {
	Genres []struct {
		Name string `yaml:"name"`
	} `yaml:"genres"`
}

// DefaultGenres returns the embedded genre list.
func DefaultGenres() ([]string, error) {
	return ParseGenres(defaultGenres)
}

// LoadGenres reads a genre list from path, or the embedded list when path is
// empty.
func LoadGenres(path string) ([]string, error) {
	if path == "" {
		return DefaultGenres()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseGenres(data)
}

// ParseGenres returns the trimmed genre names of a seed file with duplicates
// removed, in file order.
func ParseGenres(data []byte) ([]string, error) {
	var file GenreFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshaling genres: %w", err)
	}

	names := make([]string, 0, len(file.Genres))
	seen := make(map[string]bool, len(file.Genres))
	for i, g := range file.Genres {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return nil, fmt.Errorf("genre %d has no name", i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names, nil
}

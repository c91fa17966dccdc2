package seed

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultGenres(t *testing.T) {
	names, err := DefaultGenres()
	if err != nil {
		t.Fatalf("DefaultGenres() error = %v", err)
	}
	if len(names) < 10 {
		t.Errorf("Expected a useful default list, got %d genres", len(names))
	}
	found := false
	for _, n := range names {
		if n == "Shoegaze" {
			found = true
		}
	}
	if !found {
		t.Error("Expected Shoegaze in the default list")
	}
}

func TestParseGenres(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []string
		wantErr bool
	}{
		{
			name: "trims and dedupes",
			data: "genres:\n  - name: ' Jazz '\n  - name: Blues\n  - name: jazz\n",
			want: []string{"Jazz", "Blues"},
		},
		{
			name: "empty list",
			data: "genres: []\n",
			want: []string{},
		},
		{
			name:    "blank name",
			data:    "genres:\n  - name: ''\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			data:    "genres: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGenres([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGenres() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseGenres() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadGenres(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genres.yaml")
	if err := os.WriteFile(path, []byte("genres:\n  - name: Vaporwave\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := LoadGenres(path)
	if err != nil {
		t.Fatalf("LoadGenres() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Vaporwave"}) {
		t.Errorf("LoadGenres() = %v", got)
	}

	if _, err := LoadGenres(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	defaults, err := LoadGenres("")
	if err != nil || len(defaults) == 0 {
		t.Errorf("LoadGenres(\"\") = %d genres, %v", len(defaults), err)
	}
}

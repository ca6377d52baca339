package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relscore/relscore/internal/pkg/errors"
)

func writeTSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestReadColumnIndex(t *testing.T) {
	path := writeTSV(t, "truth.tsv", "doc\tQ1\tQ2\tQ3\nD1\t1\t0\t-1\n")

	index, width, err := ReadColumnIndex(path)
	if err != nil {
		t.Fatalf("ReadColumnIndex() error = %v", err)
	}

	if width != 4 {
		t.Errorf("width = %d, want 4", width)
	}
	want := ColumnIndex{1: "Q1", 2: "Q2", 3: "Q3"}
	if len(index) != len(want) {
		t.Fatalf("index has %d entries, want %d", len(index), len(want))
	}
	for pos, query := range want {
		if index[pos] != query {
			t.Errorf("index[%d] = %q, want %q", pos, index[pos], query)
		}
	}
	if _, ok := index[0]; ok {
		t.Error("column 0 must never be mapped")
	}
}

func TestReadColumnIndex_DuplicateQueries(t *testing.T) {
	// Duplicate identifiers are allowed; each position keeps its own entry.
	path := writeTSV(t, "truth.tsv", "doc\tQ1\tQ1\n")

	index, _, err := ReadColumnIndex(path)
	if err != nil {
		t.Fatalf("ReadColumnIndex() error = %v", err)
	}
	if index[1] != "Q1" || index[2] != "Q1" {
		t.Errorf("index = %v, want both positions mapped to Q1", index)
	}
}

func TestReadColumnIndex_HeaderOnly(t *testing.T) {
	path := writeTSV(t, "truth.tsv", "doc\tQ1\n")

	index, width, err := ReadColumnIndex(path)
	if err != nil {
		t.Fatalf("ReadColumnIndex() error = %v", err)
	}
	if width != 2 || len(index) != 1 {
		t.Errorf("width = %d, len = %d, want 2 and 1", width, len(index))
	}
}

func TestReadColumnIndex_EmptyFile(t *testing.T) {
	path := writeTSV(t, "empty.tsv", "")

	_, _, err := ReadColumnIndex(path)
	if err == nil {
		t.Fatal("ReadColumnIndex() on empty file should fail")
	}
	if !errors.IsParseError(err) {
		t.Errorf("error = %v, want parse error", err)
	}
}

func TestReadColumnIndex_MissingFile(t *testing.T) {
	if _, _, err := ReadColumnIndex(filepath.Join(t.TempDir(), "nope.tsv")); err == nil {
		t.Error("ReadColumnIndex() on missing file should fail")
	}
}

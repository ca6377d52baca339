package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"scores.tsv", "tsv"},
		{"scores.tsv.gz", "gz"},
		{"/data/submissions/run.42.tsv", "tsv"},
		{"noextension", "noextension"},
		{"archive.tar.gz", "gz"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Extension(tt.path); got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func writePlain(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.tsv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	return path
}

func writeGzip(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.tsv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating file: %v", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatalf("writing gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}
	return path
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	var rows [][]string
	for r.Scan() {
		rows = append(rows, r.Fields())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	return rows
}

func TestOpen_Plain(t *testing.T) {
	path := writePlain(t, "doc\tQ1\tQ2\nD1\t1\t0\n")

	rows := readAll(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][1] != "Q1" {
		t.Errorf("header[1] = %q, want Q1", rows[0][1])
	}
	if rows[1][0] != "D1" || rows[1][2] != "0" {
		t.Errorf("row = %v", rows[1])
	}
}

func TestOpen_Gzip(t *testing.T) {
	path := writeGzip(t, "doc\tQ1\nD1\t1\nD2\t-1\n")

	rows := readAll(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[2][1] != "-1" {
		t.Errorf("rows[2][1] = %q, want -1", rows[2][1])
	}
}

func TestOpen_GzipDetectedBySniff(t *testing.T) {
	// Gzipped content behind a .tsv name must still decompress.
	gzPath := writeGzip(t, "doc\tQ1\nD1\t1\n")
	path := filepath.Join(t.TempDir(), "mislabeled.tsv")
	data, err := os.ReadFile(gzPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	rows := readAll(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestScan_SkipsBlankLines(t *testing.T) {
	path := writePlain(t, "doc\tQ1\n\nD1\t1\n\n")

	rows := readAll(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestScan_StripsCarriageReturn(t *testing.T) {
	path := writePlain(t, "doc\tQ1\r\nD1\t1\r\n")

	rows := readAll(t, path)
	if rows[0][1] != "Q1" {
		t.Errorf("header[1] = %q, want Q1", rows[0][1])
	}
	if rows[1][1] != "1" {
		t.Errorf("row[1] = %q, want 1", rows[1][1])
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.tsv")); err == nil {
		t.Error("Open() on missing file should fail")
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	path := writePlain(t, "")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.Scan() {
		t.Error("Scan() on empty file should return false")
	}
}

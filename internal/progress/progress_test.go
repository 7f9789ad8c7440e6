// internal/progress/progress_test.go
package progress

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.00 TB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateLeft(t *testing.T) {
	if got := TruncateLeft("short.bin", 30); got != "short.bin" {
		t.Errorf("unexpected truncation: %q", got)
	}
	got := TruncateLeft("/very/long/directory/structure/file.bin", 20)
	if len(got) != 20 {
		t.Errorf("expected 20 chars, got %d (%q)", len(got), got)
	}
	if got[:3] != "..." || got[len(got)-8:] != "file.bin" {
		t.Errorf("expected leading ellipsis and kept filename, got %q", got)
	}
	got = TruncateLeft("/dir/an_extremely_long_file_name_indeed.bin", 12)
	if got != "...ndeed.bin" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestBarsDriveBatch(t *testing.T) {
	cb, p := Bars(io.Discard)
	c := mrsh.NewCollection()
	sources := []mrsh.Source{
		mrsh.BytesSource(make([]byte, 100_000), "zeros"),
		mrsh.BytesSource(nil, "empty"),
		{Label: "broken", Open: func() (io.ReadCloser, error) { return nil, errors.New("nope") }},
	}
	err := c.AddAll(context.Background(), sources, cb)
	p.Wait()

	var batchErr *mrsh.BatchError
	if !errors.As(err, &batchErr) || len(batchErr.Failures) != 1 {
		t.Fatalf("expected one failure, got %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 fingerprints, got %d", c.Len())
	}
}

package output

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestNewProgressBar(t *testing.T) {
	bar := NewProgressBar(&bytes.Buffer{}, "reading")

	if bar.title != "reading" {
		t.Errorf("title = %q, want %q", bar.title, "reading")
	}
	if bar.width != 40 {
		t.Errorf("width = %d, want %d", bar.width, 40)
	}
}

func TestProgressBar_Increment(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewProgressBar(buf, "reading")

	bar.SetTotal(100)
	bar.Increment(25)
	bar.Increment(25)

	if bar.current != 50 {
		t.Errorf("current = %d, want %d", bar.current, 50)
	}
	if !strings.Contains(buf.String(), " 50%") {
		t.Errorf("output %q should contain 50%%", buf.String())
	}
}

func TestProgressBar_Finish(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewProgressBar(buf, "reading")

	bar.SetTotal(100)
	bar.Increment(10)
	bar.Finish()

	output := buf.String()
	if !strings.Contains(output, "100%") {
		t.Error("output should contain 100%")
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Finish should end the line")
	}
}

func TestProgressBar_UnknownTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewProgressBar(buf, "stdin")

	bar.Increment(2048)

	if !strings.Contains(buf.String(), "stdin 2.0 KB") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestProgressBar_Reader(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewProgressBar(buf, "reading")
	bar.SetTotal(11)

	data, err := io.ReadAll(bar.Reader(strings.NewReader("hello world")))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("data = %q", data)
	}
	if bar.current != 11 {
		t.Errorf("current = %d, want 11", bar.current)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.input); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

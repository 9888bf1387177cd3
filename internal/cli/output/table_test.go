package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTableFormatter_Table(t *testing.T) {
	table := &Table{}
	table.SetHeaders("KEY", "COUNT")
	table.AddRow("alpha", "10")
	table.AddRow("be", "2")

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got := lines(buf.String())
	want := []string{"KEY    COUNT", "alpha  10", "be     2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	table := Table{Headers: []string{"KEY"}, Rows: [][]string{{"alpha"}}}

	var buf bytes.Buffer
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "alpha" {
		t.Errorf("output = %q, want alpha", got)
	}
}

func TestTableFormatter_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil {
		t.Fatalf("Format(nil) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format(nil) wrote %q", buf.String())
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	rows := []countRow{
		{Key: "alpha", Count: 10, Shard: 2, Took: time.Second},
		{Key: "beta", Count: 7, Shard: 0},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := lines(buf.String())
	if len(out) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(out), buf.String())
	}
	if fields := strings.Fields(out[0]); !reflect.DeepEqual(fields, []string{"KEY", "COUNT"}) {
		t.Errorf("header = %q", fields)
	}
	if fields := strings.Fields(out[1]); !reflect.DeepEqual(fields, []string{"alpha", "10"}) {
		t.Errorf("row = %q", fields)
	}

	buf.Reset()
	if err := (&TableFormatter{Wide: true}).Format(&buf, &rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out = lines(buf.String())
	if fields := strings.Fields(out[0]); !reflect.DeepEqual(fields, []string{"KEY", "COUNT", "SHARD"}) {
		t.Errorf("wide header = %q", fields)
	}
}

func TestTableFormatter_PointerSlice(t *testing.T) {
	rows := []*countRow{{Key: "alpha", Count: 1}, nil}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if n := len(lines(buf.String())); n != 3 {
		t.Errorf("got %d lines, want 3", n)
	}
}

func TestTableFormatter_ScalarSlice(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []string{"a", "b"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := []string{"VALUE", "a", "b"}
	if got := lines(buf.String()); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestTableFormatter_MapIsSorted(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]int{"zeta": 1, "alpha": 2, "mid": 3}
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := lines(buf.String())
	var keys []string
	for _, l := range out[1:] {
		keys = append(keys, strings.Fields(l)[0])
	}
	if !reflect.DeepEqual(keys, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("keys = %q", keys)
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	stats := struct {
		RunID    string        `json:"run_id"`
		Items    uint64        `json:"items"`
		Duration time.Duration `json:"duration"`
		Failed   []string      `json:"failed_keys"`
		hidden   int
	}{RunID: "cmrun-1", Items: 42, Duration: 1500 * time.Microsecond}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, stats); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"run_id", "cmrun-1", "42", "1.5ms", "failed_keys"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("unexported field rendered")
	}
}

func TestTableFormatter_FallbackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, 42); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "42" {
		t.Errorf("output = %q, want 42", got)
	}
}

type named string

func (n named) String() string { return "<" + string(n) + ">" }

func TestFormatValue(t *testing.T) {
	var nilPtr *int
	n := 7
	tests := []struct {
		in   any
		want string
	}{
		{"", "-"},
		{"x", "x"},
		{int64(-3), "-3"},
		{uint32(9), "9"},
		{1.5, "1.50"},
		{true, "true"},
		{[]int{}, "-"},
		{[]int{1, 2}, "[2 items]"},
		{map[string]int{"a": 1}, "{1 keys}"},
		{nilPtr, ""},
		{&n, "7"},
		{named("k"), "<k>"},
		{2 * time.Second, "2s"},
	}

	for _, tt := range tests {
		if got := formatValue(reflect.ValueOf(tt.in)); got != tt.want {
			t.Errorf("formatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := formatValue(reflect.Value{}); got != "" {
		t.Errorf("formatValue(invalid) = %q", got)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Count":      "count",
		"MaxProbe":   "max_probe",
		"ShardIndex": "shard_index",
		"a":          "a",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runApp runs the app with args and returns what it wrote to stdout and
// stderr.
func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	app := App()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	app.Reader = strings.NewReader(stdin)

	err := app.Run(append([]string{"countmesh"}, args...))
	return out.String(), errOut.String(), err
}

// writeTemp writes content to a file in a per-test directory.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

const sampleText = `The quick brown fox jumps over the lazy dog.
The dog sleeps; the fox runs!
`

func writeFileContent(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

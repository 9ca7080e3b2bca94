package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/simgraph/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Report    *app.Report
	// Dir is the temporary directory the model files were written to.
	Dir string
}

// WriteFiles writes files, keyed by relative path, under a fresh temporary
// directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// LoadModel writes the given model files and loads them into a new App with
// debug logging and lenient element matching. Opts adjust the configuration
// before the App is built.
func LoadModel(t *testing.T, files map[string]string, opts ...func(*app.Config)) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	cfg := &app.Config{
		ModelPaths: []string{dir},
		LogLevel:   "debug",
		LogFormat:  "text",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg, err := app.NewConfig(*cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	var (
		testApp  *app.App
		report   *app.Report
		panicErr any
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, cfg)
		report, err = testApp.LoadModel()
	}()
	if panicErr != nil {
		err = fmt.Errorf("model load panicked | %v", panicErr)
	}

	if os.Getenv("SIMGRAPH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       err,
		App:       testApp,
		Report:    report,
		Dir:       dir,
	}
}

// Strict turns on strict element matching.
func Strict(cfg *app.Config) {
	cfg.StrictElementMatch = true
}

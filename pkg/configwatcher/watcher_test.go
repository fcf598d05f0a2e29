package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/config"

	"github.com/stretchr/testify/require"
)

const baseConfig = `
server:
  mode: release
jwt:
  secret: 0123456789abcdef0123456789abcdef
storage:
  type: minio
grading:
  auto_grade_feedback: "%s"
`

func writeConfig(t *testing.T, dir, feedback string) {
	t.Helper()
	body := fmt.Sprintf(baseConfig, feedback)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "first")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, func(cfg *config.Config) { reloaded <- cfg })
	}()

	// give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, dir, "second")

	select {
	case cfg := <-reloaded:
		require.Equal(t, "second", cfg.Grading.AutoGradeFeedback)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vasplink/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFileAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
}

func TestCleanupService_SweepsOnlyItsOwnDirectory(t *testing.T) {
	base := t.TempDir()
	appDir := filepath.Join(base, "vasplink")
	require.NoError(t, os.MkdirAll(appDir, 0o755))

	staleInside := filepath.Join(appDir, "upload_stale.docx")
	freshInside := filepath.Join(appDir, "upload_fresh.docx")
	staleOutside := filepath.Join(base, "someone_elses_file")
	writeFileAged(t, staleInside, 48*time.Hour)
	writeFileAged(t, freshInside, time.Minute)
	writeFileAged(t, staleOutside, 48*time.Hour)

	svc := NewCleanupService(nil, logger.NewNop(), appDir, 24*time.Hour, time.Hour)
	svc.cleanupTempFiles()

	assert.NoFileExists(t, staleInside, "stale file inside the app dir should be removed")
	assert.FileExists(t, freshInside, "fresh file must survive the sweep")
	assert.FileExists(t, staleOutside, "files outside the app dir are not the sweeper's business")
}

func TestCleanupService_MissingDirIsNoop(t *testing.T) {
	svc := NewCleanupService(nil, logger.NewNop(), filepath.Join(t.TempDir(), "absent"), time.Hour, time.Hour)
	svc.cleanupTempFiles()
}

func TestTemplateService_StagesUploadsInConfiguredDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vasplink")
	svc := NewTemplateService(nil, nil, logger.NewNop(), 5<<20, dir)

	path, err := svc.createTempFile(strings.NewReader("body"), "txt")
	require.NoError(t, err)
	defer os.Remove(path)

	assert.Equal(t, dir, filepath.Dir(path))
}

func TestWriteTempFile_UsesGivenDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vasplink")

	path, err := writeTempFile(dir, strings.NewReader("docx bytes"), "*.docx")
	require.NoError(t, err)
	defer os.Remove(path)

	assert.Equal(t, dir, filepath.Dir(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "docx bytes", string(raw))
}

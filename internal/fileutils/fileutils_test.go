package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/edi835-csv/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "missing")))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
	assert.True(t, fileutils.DirectoryExists(dir))
	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
}

func TestReadFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "in.835")
	require.NoError(t, os.WriteFile(testFile, []byte("ISA*00~"), 0600))

	data, err := fileutils.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "ISA*00~", string(data))

	_, err = fileutils.ReadFile(filepath.Join(tmpDir, "missing.835"))
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "in.835")
	require.NoError(t, os.WriteFile(testFile, []byte("x"), 0600))

	f, err := fileutils.OpenFile(testFile)
	require.NoError(t, err)
	assert.NoError(t, f.Close())

	_, err = fileutils.OpenFile(filepath.Join(tmpDir, "missing.835"))
	assert.Error(t, err)
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	f, err := fileutils.CreateFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("data")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.True(t, fileutils.FileExists(path))
}

func TestListFilesWithExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.835", "a.EDI", "c.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub.835"), 0750))

	files, err := fileutils.ListFilesWithExtensions(tmpDir, ".835", ".edi")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "a.EDI"), filepath.Join(tmpDir, "b.835")}, files)

	_, err = fileutils.ListFilesWithExtensions(filepath.Join(tmpDir, "missing"), ".835")
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "remit.csv"), fileutils.OutputPath("/in/remit.835", "out", ".csv"))
	assert.Equal(t, filepath.Join("out", "archive.2023.parquet"), fileutils.OutputPath("archive.2023.edi", "out", ".parquet"))
}

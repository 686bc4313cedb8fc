package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalFileStorage(base)
	require.NoError(t, err)

	path, err := storage.Save(strings.NewReader("contenido"), "7_1700000000.pdf", "documentos")
	require.NoError(t, err)
	assert.Equal(t, "documentos/7_1700000000.pdf", path)

	data, err := os.ReadFile(filepath.Join(base, "documentos", "7_1700000000.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(data))

	require.NoError(t, storage.Delete("/uploads/"+path))
	_, err = os.Stat(filepath.Join(base, path))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не ошибка
	assert.NoError(t, storage.Delete(path))
}

func TestSaveDoesNotOverwrite(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.Save(strings.NewReader("a"), "1_1.png", "documentos")
	require.NoError(t, err)
	_, err = storage.Save(strings.NewReader("b"), "1_1.png", "documentos")
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestDeleteRejectsTraversal(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, storage.Delete("../../etc/passwd"))
}

func TestSaveStripsDirectories(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalFileStorage(base)
	require.NoError(t, err)

	path, err := storage.Save(strings.NewReader("x"), "../../evil.jpg", "documentos")
	require.NoError(t, err)
	assert.Equal(t, "documentos/evil.jpg", path)
}

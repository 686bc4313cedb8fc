// pkg/filestorage/local_filestorage.go

package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type FileStorageInterface interface {
	Save(file io.Reader, fileName string, prefix string) (filePath string, err error)
	Delete(filePath string) error
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

// Save кладет файл в basePath/prefix/fileName и возвращает относительный путь.
func (s *LocalFileStorage) Save(file io.Reader, fileName string, prefix string) (string, error) {
	fileName = filepath.Base(fileName)
	if fileName == "." || fileName == string(filepath.Separator) {
		return "", fmt.Errorf("пустое имя файла")
	}

	fullDirPath := filepath.Join(s.basePath, prefix)
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	fullPath := filepath.Join(fullDirPath, fileName)
	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("не удалось создать файл: %w", err)
	}

	if _, err = io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(fullPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	return filepath.ToSlash(filepath.Join(prefix, fileName)), nil
}

// Delete принимает путь вида "documentos/7_1700000000.pdf" или "/uploads/documentos/...".
func (s *LocalFileStorage) Delete(fileURL string) error {
	relativePath := strings.TrimPrefix(fileURL, "/uploads/")
	cleaned := filepath.Clean(filepath.FromSlash(relativePath))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("недопустимый путь к файлу: %s", fileURL)
	}

	fullPath := filepath.Join(s.basePath, cleaned)

	// Если файла и так нет, считаем операцию успешной.
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(fullPath)
}

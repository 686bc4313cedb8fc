package validation

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"hr-system/config"
	apperrors "hr-system/pkg/errors"
)

// FileExtension возвращает расширение в нижнем регистре без точки.
func FileExtension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// ValidateFile проверяет расширение, размер и реальное содержимое файла.
// contextName - ключ из config.UploadContexts.
func ValidateFile(fileName string, size int64, file io.ReadSeeker, contextName string) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("внутренняя ошибка: неизвестный контекст загрузки '%s'", contextName)
	}

	ext := FileExtension(fileName)
	if !slices.Contains(rules.AllowedExtensions, ext) {
		return apperrors.NewValidationError("недопустимое расширение файла '%s', разрешены: %s", ext, strings.Join(rules.AllowedExtensions, ", "))
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if size > maxSizeBytes {
			return apperrors.NewValidationError("размер файла (%.2f MB) превышает лимит в %d MB", float64(size)/1024/1024, rules.MaxSizeMB)
		}
	}

	mime, err := mimetype.DetectReader(file)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла: %w", err)
	}
	// курсор обратно в начало, файл еще будет сохранен
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("ошибка обработки файла: %w", err)
	}

	allowed := false
	for _, m := range rules.AllowedMimeTypes {
		if mime.Is(m) {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperrors.NewValidationError("недопустимый формат файла: %s", mime.String())
	}

	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"hr-system/config"
	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/filestorage"
	"hr-system/pkg/validation"
)

const (
	personDocumentUpload = "person_document"

	maxStoredNameAttempts = 20
)

type DocumentServiceInterface interface {
	ListDocumentTypes(ctx context.Context) ([]entities.DocumentType, error)
	ListPersonDocuments(ctx context.Context, personID uint64) ([]entities.PersonDocument, error)
	UploadDocument(ctx context.Context, payload dto.UploadDocumentDTO) (*entities.PersonDocument, error)
	DeleteDocument(ctx context.Context, personID, uploadID uint64) error
}

type DocumentService struct {
	documentRepo repositories.DocumentRepositoryInterface
	personRepo   repositories.PersonRepositoryInterface
	fileStorage  filestorage.FileStorageInterface
	logger       *zap.Logger
	now          func() time.Time
}

func NewDocumentService(
	documentRepo repositories.DocumentRepositoryInterface,
	personRepo repositories.PersonRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) DocumentServiceInterface {
	return &DocumentService{
		documentRepo: documentRepo,
		personRepo:   personRepo,
		fileStorage:  fileStorage,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *DocumentService) ListDocumentTypes(ctx context.Context) ([]entities.DocumentType, error) {
	return s.documentRepo.ListTypes(ctx)
}

func (s *DocumentService) ListPersonDocuments(ctx context.Context, personID uint64) ([]entities.PersonDocument, error) {
	if _, err := s.personRepo.FindByID(ctx, nil, personID); err != nil {
		return nil, err
	}
	return s.documentRepo.ListByPerson(ctx, personID)
}

func (s *DocumentService) UploadDocument(ctx context.Context, payload dto.UploadDocumentDTO) (*entities.PersonDocument, error) {
	if _, err := s.personRepo.FindByID(ctx, nil, payload.PersonID); err != nil {
		return nil, err
	}
	docType, err := s.documentRepo.FindType(ctx, payload.DocumentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("Неизвестный тип документа %d", payload.DocumentID)
		}
		return nil, err
	}
	if !docType.Active {
		return nil, apperrors.NewValidationError("Тип документа «%s» больше не используется", docType.Name)
	}

	if err := validation.ValidateFile(payload.FileName, payload.Size, payload.File, personDocumentUpload); err != nil {
		return nil, err
	}

	path, err := s.storeFile(payload)
	if err != nil {
		return nil, err
	}

	doc := entities.PersonDocument{PersonID: payload.PersonID, DocumentID: payload.DocumentID, File: path}
	id, err := s.documentRepo.Create(ctx, nil, doc)
	if err != nil {
		if delErr := s.fileStorage.Delete(path); delErr != nil {
			s.logger.Error("Не удалось удалить файл после ошибки записи", zap.String("path", path), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Документ загружен",
		zap.Uint64("personID", payload.PersonID),
		zap.Uint64("documentID", payload.DocumentID),
		zap.String("path", path),
	)
	return s.documentRepo.FindByID(ctx, id)
}

// storeFile сохраняет файл под именем {personID}_{unix}.{ext}. Если за ту же
// секунду у сотрудника уже есть файл, к имени добавляется _1, _2 и т.д.
func (s *DocumentService) storeFile(payload dto.UploadDocumentDTO) (string, error) {
	ext := validation.FileExtension(payload.FileName)
	base := fmt.Sprintf("%d_%d", payload.PersonID, s.now().Unix())
	prefix := config.UploadContexts[personDocumentUpload].PathPrefix

	for attempt := 0; attempt < maxStoredNameAttempts; attempt++ {
		storedName := base + "." + ext
		if attempt > 0 {
			storedName = fmt.Sprintf("%s_%d.%s", base, attempt, ext)
		}
		path, err := s.fileStorage.Save(payload.File, storedName, prefix)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			s.logger.Error("Не удалось сохранить файл документа", zap.String("file", storedName), zap.Error(err))
			return "", fmt.Errorf("не удалось сохранить файл: %w", err)
		}
	}
	s.logger.Warn("Свободное имя файла не найдено", zap.String("file", base), zap.Int("attempts", maxStoredNameAttempts))
	return "", fmt.Errorf("файл %s уже существует: %w", base, apperrors.ErrConflict)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, personID, uploadID uint64) error {
	doc, err := s.documentRepo.FindByID(ctx, uploadID)
	if err != nil {
		return err
	}
	if doc.PersonID != personID {
		return fmt.Errorf("документ %d у сотрудника %d: %w", uploadID, personID, apperrors.ErrNotFound)
	}

	if err := s.fileStorage.Delete(doc.File); err != nil {
		s.logger.Error("Не удалось удалить файл документа", zap.String("path", doc.File), zap.Error(err))
		return fmt.Errorf("не удалось удалить файл: %w", err)
	}
	if err := s.documentRepo.Delete(ctx, nil, uploadID); err != nil {
		return err
	}

	s.logger.Info("Документ удалён", zap.Uint64("personID", personID), zap.Uint64("uploadID", uploadID))
	return nil
}

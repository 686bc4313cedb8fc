package dto

import "io"

// UploadDocumentDTO собирается контроллером из multipart-формы.
type UploadDocumentDTO struct {
	PersonID   uint64
	DocumentID uint64
	FileName   string
	Size       int64
	File       io.ReadSeeker
}

package entities

import "time"

// DocumentType - справочник типов документов (documento).
type DocumentType struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PersonDocument - загруженный файл сотрудника (carga_documento_persona).
type PersonDocument struct {
	ID           uint64    `json:"id"`
	PersonID     uint64    `json:"person_id"`
	DocumentID   uint64    `json:"document_id"`
	DocumentName string    `json:"document_name"`
	File         string    `json:"file"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Valid        bool      `json:"valid"`
}

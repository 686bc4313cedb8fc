package config

type UploadConfig struct {
	AllowedExtensions []string
	AllowedMimeTypes  []string
	MaxSizeMB         int64
	PathPrefix        string
}

var UploadContexts = map[string]UploadConfig{
	// Документы сотрудника: сканы и фотографии
	"person_document": {
		AllowedExtensions: []string{"pdf", "png", "jpg", "jpeg"},
		AllowedMimeTypes:  []string{"application/pdf", "image/png", "image/jpeg"},
		MaxSizeMB:         20,
		PathPrefix:        "documentos",
	},
}

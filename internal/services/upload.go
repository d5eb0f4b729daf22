package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

// UploadService reads resume uploads into memory. Nothing is written to disk;
// the extracted text lives only in the session.
type UploadService interface {
	ReadFile(file *multipart.FileHeader) (*Upload, error)
	MaxFileSize() int64
}

type uploadService struct {
	maxFileSize int64
}

func NewUploadService(maxFileSize int64) UploadService {
	return &uploadService{maxFileSize: maxFileSize}
}

func (s *uploadService) MaxFileSize() int64 {
	return s.maxFileSize
}

func (s *uploadService) ReadFile(file *multipart.FileHeader) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedResumeExtensions[ext] {
		return nil, fmt.Errorf("invalid file extension: %q", ext)
	}

	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, fmt.Errorf("file too large. Max size: %d bytes", s.maxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &Upload{
		Filename: filepath.Base(file.Filename),
		MimeType: DetectMimeType(file.Filename, data),
		Data:     data,
	}, nil
}

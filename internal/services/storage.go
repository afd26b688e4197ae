package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService keeps uploaded resumes on disk until the worker pool has stored their analysis.
type StorageService interface {
	SaveFile(data []byte, originalName string) (storedName string, path string, err error)
	ReadFile(storedName string) ([]byte, error)
	GetFilePath(storedName string) string
	DeleteFile(storedName string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

// EnsureUploadDir implements StorageService.
func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile implements StorageService. The stored name is random; only the extension of
// originalName survives.
func (s *storageService) SaveFile(data []byte, originalName string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".pdf"
	}

	uniqueFilename := fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
	filePath := s.GetFilePath(uniqueFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

// ReadFile implements StorageService.
func (s *storageService) ReadFile(storedName string) ([]byte, error) {
	data, err := os.ReadFile(s.GetFilePath(storedName))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// GetFilePath implements StorageService.
func (s *storageService) GetFilePath(storedName string) string {
	return filepath.Join(s.uploadPath, filepath.Base(storedName))
}

// DeleteFile implements StorageService.
func (s *storageService) DeleteFile(storedName string) error {
	if err := os.Remove(s.GetFilePath(storedName)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

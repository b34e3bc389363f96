package storage

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"gitlab.com/transcodeuz/subtitle-translator/config"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/logger"
)

type fileStorage struct {
	log logger.Logger
	cfg *config.Config
}

// FileOperationsI - local filesystem operations scoped to one run
type FileOperationsI interface {
	CreateRunFolder(key string) (string, error)
	RunFilePath(key string, filename string) string
	ScratchInputPath(ext string) string
	DownloadWithWget(url, filePath string) error
	WriteTextFile(content string, filename string) error
	RemoveFromDir(filePath string) error
	RemoveFile(filePath string) error
}

func NewFileStorage(cfg *config.Config, log logger.Logger) FileOperationsI {
	for _, dir := range []string{cfg.TempFolderPath, cfg.TempInputPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Error("Error while creating the temp directory", logger.Error(err))
		}
	}

	return &fileStorage{
		cfg: cfg,
		log: log,
	}
}

// CreateRunFolder makes the per-run artifact folder under the temp root and
// returns its path.
func (f *fileStorage) CreateRunFolder(key string) (string, error) {
	folder := filepath.Join(f.cfg.TempFolderPath, key)
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, 0755); err != nil {
			f.log.Error("Error while creating the directory", logger.Error(err))
			return "", err
		}
	}

	return folder, nil
}

func (f *fileStorage) RunFilePath(key string, filename string) string {
	return filepath.Join(f.cfg.TempFolderPath, key, filename)
}

// ScratchInputPath returns a unique path under the temp input folder so
// concurrent runs never collide.
func (f *fileStorage) ScratchInputPath(ext string) string {
	return filepath.Join(f.cfg.TempInputPath, uuid.NewString()+ext)
}

func (f *fileStorage) DownloadWithWget(url, filePath string) error {
	_, err := exec.Command("wget", "-O", filePath, url).CombinedOutput()
	if err != nil {
		return fmt.Errorf("error running wget: %s", err)
	}

	return nil
}

// WriteTextFile persists UTF-8 text as-is, no byte-order mark.
func (f *fileStorage) WriteTextFile(content string, filename string) error {
	return os.WriteFile(filename, []byte(content), 0644)
}

func (f *fileStorage) RemoveFromDir(filePath string) error {
	f.log.Info("Removing from directory", logger.String("info", filePath))
	if len(filePath) > 0 {
		if filePath[len(filePath)-1] == '/' {
			filePath = string(filePath[:len(filePath)-1])
		}
	}

	return os.RemoveAll(filePath)
}

func (f *fileStorage) RemoveFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	return os.Remove(filePath)
}

package storage

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"

	"gitlab.com/transcodeuz/subtitle-translator/config"
	"gitlab.com/transcodeuz/subtitle-translator/models"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/logger"
)

type fileWalkMinio chan string

func (f fileWalkMinio) Walk(path string, info os.FileInfo, err error) error {
	if err != nil {
		return err
	}
	if !info.IsDir() {
		f <- path
	}
	return nil
}

type MinioStorage struct {
	cfg         *config.Config
	log         logger.Logger
	minioClient *minio.Client
}

// NewMinioStorage ...
func NewMinioStorage(cfg *config.Config, log logger.Logger, minioClient *minio.Client) *MinioStorage {
	return &MinioStorage{
		cfg:         cfg,
		log:         log,
		minioClient: minioClient,
	}
}

// UploadFilesToCloud pushes every artifact in the run folder (subtitle,
// rendered video, thumbnail) under the job's output key.
func (s *MinioStorage) UploadFilesToCloud(pathArg string, job *models.Job) error {
	s.log.Info("[UPLOADING] to minio", logger.String("filepath", pathArg), logger.String("key", job.OutputKey))

	walker := make(fileWalkMinio)
	go func() {
		defer close(walker)

		if err := filepath.Walk(pathArg, walker.Walk); err != nil {
			s.log.Error("Walk failed:", logger.Error(err))
			return
		}
	}()

	for path := range walker {
		rel, err := filepath.Rel(pathArg, path)
		if err != nil {
			s.log.Error("Unable to get relative path:", logger.Error(err))
			return err
		}

		contentType, err := getFileContentType(path)
		if err != nil {
			return err
		}
		_, err = s.minioClient.FPutObject(context.Background(), job.CdnBucket, filepath.Join(job.OutputPath, job.OutputKey, rel), path, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			s.log.Error("Failed to upload", logger.Error(err))
			return err
		}
	}

	return nil
}

func getFileContentType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Only the first 512 bytes are used to sniff the content type.
	buffer := make([]byte, 512)

	_, err = f.Read(buffer)
	if err != nil {
		return "", err
	}

	contentType := http.DetectContentType(buffer)

	return contentType, nil
}

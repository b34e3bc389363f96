package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"gitlab.com/transcodeuz/subtitle-translator/config"
	"gitlab.com/transcodeuz/subtitle-translator/models"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/logger"
)

type fileWalk chan string

func (f fileWalk) Walk(path string, info os.FileInfo, err error) error {
	if err != nil {
		return err
	}
	if !info.IsDir() {
		f <- path
	}
	return nil
}

type S3Storage struct {
	cfg     *config.Config
	log     logger.Logger
	session *session.Session
}

// NewS3Storage ...
func NewS3Storage(cfg *config.Config, log logger.Logger, session *session.Session) *S3Storage {
	return &S3Storage{
		cfg:     cfg,
		log:     log,
		session: session,
	}
}

// UploadFilesToCloud pushes every artifact in the run folder under the job's
// output key, retrying each object a few times before giving up.
func (s *S3Storage) UploadFilesToCloud(pathArg string, job *models.Job) error {
	s.log.Info("[UPLOADING] to s3", logger.String("filepath", pathArg), logger.String("key", job.OutputKey))

	walker := make(fileWalk)
	go func() {
		defer close(walker)

		if err := filepath.Walk(pathArg, walker.Walk); err != nil {
			s.log.Error("Walk failed:", logger.Error(err))
			return
		}
	}()

	uploader := s3manager.NewUploader(s.session)
	for path := range walker {
		rel, err := filepath.Rel(pathArg, path)
		if err != nil {
			s.log.Error("Unable to get relative path: "+pathArg, logger.Error(err))
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			s.log.Error("Error while opening file", logger.Error(err))
			return err
		}

		key := filepath.Join(job.OutputPath, job.OutputKey, rel)
		_, err = uploader.Upload(&s3manager.UploadInput{
			Bucket: aws.String(job.CdnBucket),
			Key:    aws.String(key),
			Body:   file,
		})
		if err != nil {
			retryCount := 5
			for i := 0; i < retryCount; i++ {
				if _, seekErr := file.Seek(0, 0); seekErr != nil {
					break
				}
				_, err = uploader.Upload(&s3manager.UploadInput{
					Bucket: aws.String(job.CdnBucket),
					Key:    aws.String(key),
					Body:   file,
				})
				if err == nil {
					break
				}
				time.Sleep(5 * time.Second)
			}
		}
		file.Close()

		if err != nil {
			s.log.Error("Error while uploading to amazon s3", logger.Error(err))
			return err
		}
	}

	return nil
}

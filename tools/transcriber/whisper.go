package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/transcodeuz/subtitle-translator/config"
	"gitlab.com/transcodeuz/subtitle-translator/models"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/logger"
)

// Whisper talks to a whisper ASR web service over HTTP
type Whisper struct {
	cfg    *config.Config
	log    logger.Logger
	client *http.Client
}

// NewWhisper - returns the whisper transcription client. No client-level
// timeout: transcription runs as long as the job's context allows.
func NewWhisper(cfg *config.Config, log logger.Logger) Transcriber {
	return &Whisper{
		cfg:    cfg,
		log:    log,
		client: &http.Client{},
	}
}

type whisperResponse struct {
	Text     string                     `json:"text"`
	Segments []models.TranscriptSegment `json:"segments"`
}

func (w *Whisper) Transcribe(ctx context.Context, path string, language string) ([]models.TranscriptSegment, error) {
	w.log.Info("Transcribing", logger.String("input", path), logger.String("language", language))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening media file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio_file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("error reading media file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("task", "transcribe")
	query.Set("language", language)
	query.Set("output", "json")
	query.Set("model", w.cfg.WhisperModel)

	endpoint := strings.TrimRight(w.cfg.WhisperURL, "/") + "/asr?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := w.client.Do(req)
	if err != nil {
		w.log.Error("Error while calling whisper service", logger.Error(err))
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		w.log.Error(
			"Whisper service returned non-200",
			logger.Int("status", res.StatusCode),
			logger.String("body", string(detail)),
		)
		return nil, fmt.Errorf("whisper service returned status %d", res.StatusCode)
	}

	var payload whisperResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("error decoding whisper response: %w", err)
	}

	w.log.Info("Transcription finished", logger.Int("segments", len(payload.Segments)))
	return payload.Segments, nil
}

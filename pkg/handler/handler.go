package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/streadway/amqp"

	"gitlab.com/transcodeuz/subtitle-translator/config"
	"gitlab.com/transcodeuz/subtitle-translator/models"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/logger"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/rabbitmq"
	"gitlab.com/transcodeuz/subtitle-translator/tools/renderer"
	"gitlab.com/transcodeuz/subtitle-translator/tools/storage"
	"gitlab.com/transcodeuz/subtitle-translator/tools/subtitle"
	"gitlab.com/transcodeuz/subtitle-translator/tools/transcriber"
	"gitlab.com/transcodeuz/subtitle-translator/tools/translator"
)

// Job is the structure which added to the queue
type Job struct {
	data amqp.Delivery
}

// Publisher pushes staged job updates to the write queue
type Publisher interface {
	PublishJobUpdate(req *models.JobUpdate) error
}

// Options ...
type Options struct {
	Config       *config.Config
	Log          logger.Logger
	LocalStorage storage.FileOperationsI
	Transcriber  transcriber.Transcriber
	Translator   subtitle.Translator
	Renderer     renderer.Renderer
	RabbitMQ     *rabbitmq.RabbitMQ
	Publisher    Publisher
}

// MainI - interface containing main functions for handler
type MainI interface {
	ListenNotifications(ctx context.Context) error
	Process(ctx context.Context, job *models.Job)
}

type handlerObj struct {
	cfg          *config.Config
	log          logger.Logger
	localStorage storage.FileOperationsI
	transcriber  transcriber.Transcriber
	translator   subtitle.Translator
	renderer     renderer.Renderer
	rabbitMQ     *rabbitmq.RabbitMQ
	publisher    Publisher
	jobQueue     chan Job
}

// NewHandler - returns the handler object
func NewHandler(args Options) MainI {
	publisher := args.Publisher
	if publisher == nil && args.RabbitMQ != nil {
		publisher = args.RabbitMQ
	}

	return &handlerObj{
		cfg:          args.Config,
		log:          args.Log,
		localStorage: args.LocalStorage,
		transcriber:  args.Transcriber,
		translator:   args.Translator,
		renderer:     args.Renderer,
		rabbitMQ:     args.RabbitMQ,
		publisher:    publisher,
		jobQueue:     make(chan Job, args.Config.PipelineWorkers),
	}
}

func (h *handlerObj) ListenNotifications(ctx context.Context) error {
	for i := 0; i < h.cfg.PipelineWorkers; i++ {
		go h.PipelineWorker(ctx, i)
	}

	h.log.Info("Started listening for notifications")

	for {
		msgs, err := h.rabbitMQ.Channel.Consume(
			h.rabbitMQ.Queues[h.cfg.ListenQueue].Name,
			"",
			false,
			false,
			false,
			false,
			nil,
		)

		if err != nil {
			h.log.Error("Error while consuming messages", logger.Error(err))
			err = h.rabbitMQ.Reconnect()
			if err != nil {
				panic("couldn't reconnect to rabbitmq")
			} else {
				time.Sleep(time.Second * 5)
				continue
			}
		}

		for data := range msgs {
			h.jobQueue <- Job{data: data}
			data.Ack(false)
		}
		time.Sleep(time.Second * 5)
	}
}

func (h *handlerObj) PipelineWorker(ctx context.Context, id int) {
	workerId := "worker[" + strconv.Itoa(id) + "] PIPELINE"
	h.log.Info(workerId, logger.String("action", "[STARTING]"))

	for job := range h.jobQueue {
		msg := &models.Job{}
		err := json.Unmarshal(job.data.Body, &msg)
		if err != nil {
			h.log.Error("[-] UNMARSHAL", logger.Error(err))
			continue
		}

		h.log.Info(workerId, logger.String("action", "[GET]"), logger.String("message[key]", msg.OutputKey))
		h.Process(ctx, msg)
	}
}

// Process runs one job through the pipeline. Updates are published after
// every stage; the subtitle-stage update is the partial result that exposes
// the cheaper artifact before the render begins, and the last update is
// marked Final. A render failure downgrades the run, it never revokes the
// subtitle artifact.
func (h *handlerObj) Process(ctx context.Context, job *models.Job) {
	update := &models.JobUpdate{
		Id:        job.Id,
		Stage:     h.cfg.Stages.Validation,
		Status:    h.cfg.Status.Pending,
		ErrorCode: Success,
	}
	h.publish(update)

	if strings.TrimSpace(job.InputURI) == "" {
		h.fail(update, InvalidRequest, "No input file or URL was provided")
		return
	}
	if job.OutputKey == "" {
		h.fail(update, InvalidRequest, "No output key was provided")
		return
	}
	if h.cfg.PapagoClientID == "" || h.cfg.PapagoSecret == "" {
		h.fail(update, InvalidRequest, "Translation credentials are not configured")
		return
	}

	input := job.InputURI
	downloaded := false
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		scratch := h.localStorage.ScratchInputPath(filepath.Ext(job.InputURI))
		if err := h.localStorage.DownloadWithWget(input, scratch); err != nil {
			h.fail(update, InternalServerError, "Error while downloading input: "+err.Error())
			h.log.Error("[-] DOWNLOAD INPUT", logger.Error(err), logger.String("INPUT", job.InputURI))
			return
		}
		h.log.Info("[+] DOWNLOAD INPUT", logger.String("INFO", scratch))
		input = scratch
		downloaded = true
	}
	defer func() {
		if downloaded {
			if err := h.localStorage.RemoveFile(input); err != nil {
				h.log.Error("Error while removing downloaded input", logger.Error(err))
			}
		}
	}()

	update.Status = h.cfg.Status.Success
	h.publish(update)

	// transcription
	update.Stage = h.cfg.Stages.Transcription
	update.Status = h.cfg.Status.Pending
	h.publish(update)

	start := time.Now()
	segments, err := h.transcriber.Transcribe(ctx, input, h.cfg.SourceLanguage)
	if err != nil {
		h.fail(update, InternalServerError, "Error while transcribing: "+err.Error())
		h.log.Error("[-] TRANSCRIBE", logger.Error(err))
		return
	}
	update.TranscriptionDuration = int(time.Since(start).Milliseconds())

	if len(segments) == 0 {
		update.Status = h.cfg.Status.Success
		update.ErrorCode = NoSpeech
		update.FailDescription = "No speech detected in the audio"
		update.Final = true
		h.publish(update)
		h.log.Info("[+] TRANSCRIBE", logger.String("INFO", "no speech detected"))
		return
	}

	update.VideoDuration = h.renderer.GetMediaDuration(ctx, input)
	update.Status = h.cfg.Status.Success
	h.publish(update)
	h.log.Info("[+] TRANSCRIBE", logger.Int("segments", len(segments)))

	// subtitle track
	update.Stage = h.cfg.Stages.Subtitle
	update.Status = h.cfg.Status.Pending
	h.publish(update)

	start = time.Now()
	folder, err := h.localStorage.CreateRunFolder(job.OutputKey)
	if err != nil {
		h.fail(update, InternalServerError, "Error while creating run directory: "+err.Error())
		return
	}

	srtContent := subtitle.NormalizeSRT(subtitle.BuildSRT(ctx, segments, h.translator))
	srtFile := filepath.Join(folder, job.OutputKey+".srt")
	if err := h.localStorage.WriteTextFile(srtContent, srtFile); err != nil {
		h.fail(update, InternalServerError, "Error while writing subtitle file: "+err.Error())
		return
	}

	update.SubtitleDuration = int(time.Since(start).Milliseconds())
	update.SubtitleFile = srtFile
	update.SourcePreview = joinSegmentTexts(segments)
	update.Status = h.cfg.Status.Success

	// partial result: the subtitle artifact is retrievable from here on,
	// whatever happens to the video
	h.publish(update)
	h.log.Info("[+] SUBTITLE READY", logger.String("file", srtFile))

	if preview, err := h.translator.Translate(ctx, update.SourcePreview); err != nil {
		update.TranslatedPreview = translator.ErrorText(err)
	} else {
		update.TranslatedPreview = preview
	}

	// burn-in, video inputs only
	if h.isVideo(job.InputURI) {
		h.renderVideo(ctx, job, input, folder, segments, update)
	}

	// upload
	if job.CdnType != "" {
		h.uploadArtifacts(job, folder, update)
	}

	update.Final = true
	h.publish(update)
}

func (h *handlerObj) renderVideo(ctx context.Context, job *models.Job, input, folder string, segments []models.TranscriptSegment, update *models.JobUpdate) {
	update.Stage = h.cfg.Stages.Render
	update.Status = h.cfg.Status.Pending
	h.publish(update)

	start := time.Now()

	width, height, err := h.renderer.GetVideoWidthHeight(ctx, input)
	if err != nil {
		// unknown geometry is fine, the track falls back to the renderer's
		// default canvas
		h.log.Warn("Could not probe source resolution", logger.Error(err))
		width, height = 0, 0
	}

	assContent := subtitle.BuildASS(ctx, segments, h.translator, width, height)
	videoFile := filepath.Join(folder, job.OutputKey+".mp4")

	if err := h.renderer.BurnSubtitles(ctx, input, assContent, videoFile); err != nil {
		update.RenderDuration = int(time.Since(start).Milliseconds())
		update.Status = h.cfg.Status.Fail
		update.ErrorCode = RenderFailed
		update.FailDescription = "Video rendering failed: " + err.Error()
		update.TranslatedPreview += fmt.Sprintf("\n\n[Video processing warning: %s]", err)
		h.publish(update)
		h.log.Error("[-] RENDER", logger.Error(err))

		// the run carries on without the video artifact
		update.Status = h.cfg.Status.Success
		return
	}

	update.RenderDuration = int(time.Since(start).Milliseconds())
	update.VideoFile = videoFile
	update.Status = h.cfg.Status.Success
	h.publish(update)
	h.log.Info("[+] RENDER", logger.String("file", videoFile))

	thumbFile := filepath.Join(folder, job.OutputKey+".jpg")
	if err := h.renderer.GetThumb(ctx, videoFile, thumbFile); err == nil {
		update.ThumbFile = thumbFile
	}
}

func (h *handlerObj) uploadArtifacts(job *models.Job, folder string, update *models.JobUpdate) {
	update.Stage = h.cfg.Stages.Upload
	update.Status = h.cfg.Status.Pending
	h.publish(update)

	start := time.Now()
	cloud, err := storage.NewCloudStorage(h.cfg, &models.CloudStorageConfig{
		Endpoint:  job.CdnUrl,
		AccessKey: job.CdnAccessKey,
		SecretKey: job.CdnSecretKey,
		Type:      job.CdnType,
		Region:    job.CdnRegion,
	}, h.log)
	if err != nil {
		update.Status = h.cfg.Status.Fail
		update.ErrorCode = InvalidRequest
		update.FailDescription = "Error while connecting to cloud storage: " + err.Error()
		h.log.Error("[-] STORAGE: couldn't connect", logger.Error(err))
		return
	}

	switch job.CdnType {
	case "minio":
		err = cloud.Minio().UploadFilesToCloud(folder, job)
	case "s3":
		err = cloud.S3().UploadFilesToCloud(folder, job)
	default:
		err = fmt.Errorf("invalid cdn storage type: %s", job.CdnType)
	}

	if err != nil {
		update.Status = h.cfg.Status.Fail
		update.ErrorCode = InternalServerError
		update.FailDescription = "Error while uploading to cloud: " + err.Error()
		h.log.Error("[-] STORAGE: couldn't upload", logger.Error(err))
		return
	}

	update.UploadDuration = int(time.Since(start).Milliseconds())
	update.Status = h.cfg.Status.Success
	h.log.Info("[UPLOADED] SUCCESS", logger.String("info", folder))

	if err := h.localStorage.RemoveFromDir(folder); err != nil {
		h.log.Error("[-] STORAGE: couldn't delete folder from server", logger.Error(err))
	}
}

func (h *handlerObj) isVideo(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range h.cfg.VideoExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (h *handlerObj) publish(update *models.JobUpdate) {
	if err := h.publisher.PublishJobUpdate(update); err != nil {
		h.log.Error("Error while publishing the job update", logger.Error(err))
	}
}

func (h *handlerObj) fail(update *models.JobUpdate, code, desc string) {
	update.Status = h.cfg.Status.Fail
	update.ErrorCode = code
	update.FailDescription = desc
	update.Final = true
	h.publish(update)
}

func joinSegmentTexts(segments []models.TranscriptSegment) string {
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		texts = append(texts, strings.TrimSpace(seg.Text))
	}
	return strings.Join(texts, "\n")
}

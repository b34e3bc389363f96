package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	LogLevel         string
	RabbitMqHost     string
	RabbitMqPort     string
	RabbitMqUser     string
	RabbitMqPassword string
	ListenQueue      string
	WriteQueue       string
	PipelineWorkers  int
	UploadWorkers    int
	TempFolderPath   string
	TempInputPath    string
	FFmpeg           string
	FFprobe          string
	WhisperURL       string
	WhisperModel     string
	SourceLanguage   string
	TargetLanguage   string
	PapagoURL        string
	PapagoClientID   string
	PapagoSecret     string
	TranslateTimeout time.Duration
	ProbeTimeout     time.Duration
	RenderTimeout    time.Duration
	VideoExtensions  []string
	Stages           struct {
		Validation    string
		Transcription string
		Subtitle      string
		Render        string
		Upload        string
	}
	Status struct {
		Pending string
		Success string
		Fail    string
	}
}

func Load() Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Could not load the .env file")
	}

	c := Config{}
	c.LogLevel = cast.ToString(getOrReturnDefault("LOG_LEVEL", "debug"))

	c.TempFolderPath = cast.ToString(getOrReturnDefault("TEMP_FOLDER_PATH", "subtitle"))
	c.TempInputPath = cast.ToString(getOrReturnDefault("TEMP_INPUT_PATH", "subtitle-input"))

	c.RabbitMqHost = cast.ToString(getOrReturnDefault("RABBITMQ_HOST", "localhost"))
	c.RabbitMqPort = cast.ToString(getOrReturnDefault("RABBITMQ_PORT", "5672"))
	c.RabbitMqUser = cast.ToString(getOrReturnDefault("RABBITMQ_USER", "user"))
	c.RabbitMqPassword = cast.ToString(getOrReturnDefault("RABBITMQ_PASSWORD", "secret"))

	c.ListenQueue = cast.ToString(getOrReturnDefault("LISTEN_QUEUE", "subtitle_jobs"))
	c.WriteQueue = cast.ToString(getOrReturnDefault("WRITE_QUEUE", "subtitle_job_status"))

	c.PipelineWorkers = cast.ToInt(getOrReturnDefault("PIPELINE_WORKERS", 1))
	c.UploadWorkers = cast.ToInt(getOrReturnDefault("UPLOAD_WORKERS", 1))

	c.FFmpeg = cast.ToString(getOrReturnDefault("FFMPEG", "ffmpeg"))
	c.FFprobe = cast.ToString(getOrReturnDefault("FFPROBE", "ffprobe"))

	c.WhisperURL = cast.ToString(getOrReturnDefault("WHISPER_URL", "http://localhost:9000"))
	c.WhisperModel = cast.ToString(getOrReturnDefault("WHISPER_MODEL", "large-v3"))
	c.SourceLanguage = cast.ToString(getOrReturnDefault("SOURCE_LANGUAGE", "ko"))
	c.TargetLanguage = cast.ToString(getOrReturnDefault("TARGET_LANGUAGE", "en"))

	c.PapagoURL = cast.ToString(getOrReturnDefault("PAPAGO_URL", "https://papago.apigw.ntruss.com/nmt/v1/translation"))
	c.PapagoClientID = cast.ToString(getOrReturnDefault("PAPAGO_CLIENT_ID", ""))
	c.PapagoSecret = cast.ToString(getOrReturnDefault("PAPAGO_CLIENT_SECRET", ""))

	c.TranslateTimeout = time.Duration(cast.ToInt(getOrReturnDefault("TRANSLATE_TIMEOUT_SECONDS", 30))) * time.Second
	c.ProbeTimeout = time.Duration(cast.ToInt(getOrReturnDefault("PROBE_TIMEOUT_SECONDS", 15))) * time.Second
	c.RenderTimeout = time.Duration(cast.ToInt(getOrReturnDefault("RENDER_TIMEOUT_SECONDS", 300))) * time.Second

	c.VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

	c.Stages = struct {
		Validation    string
		Transcription string
		Subtitle      string
		Render        string
		Upload        string
	}{
		Validation:    "validation",
		Transcription: "transcription",
		Subtitle:      "subtitle",
		Render:        "render",
		Upload:        "upload",
	}

	c.Status = struct {
		Pending string
		Success string
		Fail    string
	}{
		Pending: "pending",
		Success: "success",
		Fail:    "fail",
	}

	return c
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	_, exists := os.LookupEnv(key)
	if exists {
		return os.Getenv(key)
	}

	return defaultValue
}

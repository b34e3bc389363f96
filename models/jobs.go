package models

// Job is a single translation request consumed from the listen queue
type Job struct {
	Id           string `json:"id"`
	InputURI     string `json:"input_uri"`
	OutputKey    string `json:"output_key"`
	OutputPath   string `json:"output_path"`
	CdnUrl       string `json:"cdn_url"`
	CdnAccessKey string `json:"cdn_access_key"`
	CdnSecretKey string `json:"cdn_secret_key"`
	CdnRegion    string `json:"cdn_region"`
	CdnBucket    string `json:"cdn_bucket"`
	CdnType      string `json:"cdn_type"`
}

// TranscriptSegment is one time-bounded unit of transcribed speech
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// JobUpdate is published to the write queue after every stage. A run emits
// it more than once: a partial update carries the subtitle file as soon as it
// exists, the final update supersedes it with the remaining artifacts. The
// final update never clears a subtitle file reported by a partial one.
type JobUpdate struct {
	Id                    string  `json:"id"`
	Stage                 string  `json:"stage"`
	Status                string  `json:"status"`
	Final                 bool    `json:"final"`
	SubtitleFile          string  `json:"subtitle_file"`
	VideoFile             string  `json:"video_file"`
	ThumbFile             string  `json:"thumb_file"`
	SourcePreview         string  `json:"source_preview"`
	TranslatedPreview     string  `json:"translated_preview"`
	VideoDuration         float64 `json:"video_duration"`
	TranscriptionDuration int     `json:"transcription_duration"` // milliseconds
	SubtitleDuration      int     `json:"subtitle_duration"`      // milliseconds
	RenderDuration        int     `json:"render_duration"`        // milliseconds
	UploadDuration        int     `json:"upload_duration"`        // milliseconds
	FailDescription       string  `json:"fail_description"`
	ErrorCode             string  `json:"error_code"`
}

type CloudStorageConfig struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Type      string `json:"type"`
	Region    string `json:"region"`
}

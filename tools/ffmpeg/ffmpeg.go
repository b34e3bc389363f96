package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gitlab.com/transcodeuz/subtitle-translator/config"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/logger"
	"gitlab.com/transcodeuz/subtitle-translator/tools/renderer"
)

// FFmpeg is the structure for a tool that probes media and burns subtitles
type FFmpeg struct {
	cfg *config.Config
	log logger.Logger
}

// NewFFmpeg returns the pointer for ffmpeg structure
func NewFFmpeg(cfg *config.Config, log logger.Logger) renderer.Renderer {
	return &FFmpeg{
		cfg: cfg,
		log: log,
	}
}

// GetVideoWidthHeight - returns the source resolution, probing the first
// video stream. Any probe failure is reported as an error for the caller to
// tolerate.
func (f *FFmpeg) GetVideoWidthHeight(ctx context.Context, input string) (int, int, error) {
	commands := videoResolution.ReplaceArguments([]Args{
		{
			Index: 8,
			Value: input,
		},
	})
	f.log.Debug("commands in GetVideoWidthHeight: ", logger.Any("commands: ", commands))

	probeCtx, cancel := context.WithTimeout(ctx, f.cfg.ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, f.cfg.FFprobe, commands...).CombinedOutput()
	if err != nil {
		return 0, 0, err
	}

	m := make(map[string]string)
	for _, value := range strings.Split(string(out), "\n") {
		measure := strings.Split(value, "=")
		if len(measure) < 2 {
			continue
		}

		m[strings.TrimSpace(measure[0])] = strings.TrimSpace(measure[1])
	}

	width, _ := strconv.Atoi(m["width"])
	height, _ := strconv.Atoi(m["height"])
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("unknown resolution: %s", out)
	}

	return width, height, nil
}

// GetMediaDuration - returns the duration of the given media input in
// seconds, or 0 when it cannot be determined.
func (f *FFmpeg) GetMediaDuration(ctx context.Context, input string) float64 {
	commands := mediaDuration.ReplaceArguments([]Args{
		{
			Index: 1,
			Value: input,
		},
	})
	f.log.Debug("commands in GetMediaDuration: ", logger.Any("commands: ", commands))

	probeCtx, cancel := context.WithTimeout(ctx, f.cfg.ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, f.cfg.FFprobe, commands...).CombinedOutput()
	if err != nil {
		f.log.Error("out error in GetMediaDuration", logger.Error(err))
		return 0
	}

	splitStrings := strings.Split(strings.TrimSpace(string(out)), ",")
	duration, err := strconv.ParseFloat(splitStrings[len(splitStrings)-1], 64)
	if err != nil {
		f.log.Error("Error while converting the duration output", logger.Error(err))
		return 0
	}

	return duration
}

// GetThumb - returns the snapshot
func (f *FFmpeg) GetThumb(ctx context.Context, input string, output string) error {
	commands := thumb.ReplaceArguments([]Args{
		{
			Index: 1,
			Value: input,
		},
		{
			Index: 9,
			Value: output,
		},
	})

	probeCtx, cancel := context.WithTimeout(ctx, f.cfg.ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, f.cfg.FFmpeg, commands...).CombinedOutput()
	if err != nil {
		f.log.Error("out error in GetThumb", logger.Error(err), logger.String("out", string(out)))
		return err
	}

	return nil
}

// BurnSubtitles composites the styled track onto the source video. The track
// content is written to a scratch file that is removed on every path; output
// must exist and be non-empty for the render to count as a success.
func (f *FFmpeg) BurnSubtitles(ctx context.Context, input string, subtitleContent string, output string) error {
	scratch := filepath.Join(f.cfg.TempInputPath, "subs_"+uuid.NewString()+".ass")
	if err := os.WriteFile(scratch, []byte(subtitleContent), 0644); err != nil {
		return &renderer.RenderError{Err: fmt.Errorf("error writing subtitle scratch file: %w", err)}
	}
	defer func() {
		if err := os.Remove(scratch); err != nil {
			f.log.Error("Error while removing subtitle scratch file", logger.Error(err))
		}
	}()

	filter := fmt.Sprintf(
		"subtitles=%s:charenc=UTF-8:force_style='FontName=Arial,PrimaryColour=&HFFFFFF,OutlineColour=&H000000,BackColour=&H80000000,BorderStyle=1,Outline=2,Shadow=1'",
		escapeFilterPath(scratch),
	)

	commands := burnSubtitles.ReplaceArguments([]Args{
		{Index: 1, Value: input},
		{Index: 3, Value: filter},
		{Index: 13, Value: output},
	})
	f.log.Info("Started burning subtitles", logger.String("input", input), logger.String("output", output))
	f.log.Debug("commands in BurnSubtitles: ", logger.Any("commands: ", commands))

	renderCtx, cancel := context.WithTimeout(ctx, f.cfg.RenderTimeout)
	defer cancel()

	start := time.Now()
	out, err := exec.CommandContext(renderCtx, f.cfg.FFmpeg, commands...).CombinedOutput()
	f.log.Info("RENDER INFO", logger.Any("time", fmt.Sprintf("[%s]", time.Since(start).String())))

	if renderCtx.Err() == context.DeadlineExceeded {
		return &renderer.RenderError{Err: errors.New("render timed out"), Output: tail(out)}
	}
	if err != nil {
		f.log.Error("Error while executing the render command", logger.Error(err))
		return &renderer.RenderError{Err: err, Output: tail(out)}
	}

	info, err := os.Stat(output)
	if err != nil {
		return &renderer.RenderError{Err: fmt.Errorf("output file missing: %w", err)}
	}
	if info.Size() == 0 {
		return &renderer.RenderError{Err: errors.New("output file is empty")}
	}

	f.log.Info("Finished burning subtitles", logger.String("output", output))
	return nil
}

// escapeFilterPath escapes the characters the subtitles filter treats
// specially in its file argument.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `\\`)
	path = strings.ReplaceAll(path, `:`, `\:`)
	path = strings.ReplaceAll(path, `'`, `\'`)

	return path
}

// tail keeps the last part of the tool's combined output; ffmpeg prints the
// relevant diagnostic at the end of a long banner.
func tail(out []byte) string {
	const max = 1024
	s := strings.TrimSpace(string(out))
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}

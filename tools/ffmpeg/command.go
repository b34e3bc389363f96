package ffmpeg

// Command is an argument template for the external media tool
type Command struct {
	command []string
}

// Args is the argument to replace in the command list at the given index
type Args struct {
	Index int
	Value string
}

// ReplaceArguments - replaces the given arguments with default arguments in the given index
func (f *Command) ReplaceArguments(args []Args) []string {
	out := make([]string, len(f.command))
	copy(out, f.command)

	for _, arg := range args {
		out[arg.Index] = arg.Value
	}

	return out
}

var videoResolution = Command{
	command: []string{
		"-v",
		"error",
		"-select_streams",
		"v:0",
		"-show_entries",
		"stream=width,height",
		"-of",
		"default=nw=1",
		"input",
	},
}

var mediaDuration = Command{
	command: []string{
		"-i",
		"filename.mp4",
		"-show_entries",
		"format=duration",
		"-v",
		"quiet",
		"-of",
		"csv",
	},
}

var thumb = Command{
	command: []string{
		"-i",
		"filename.mp4",
		"-ss",
		"1",
		"-vf",
		"thumbnail,scale=640:-1",
		"-frames:v",
		"1",
		"-y",
		"filename.jpg",
	},
}

var burnSubtitles = Command{
	command: []string{
		"-i",            // 0
		"input.mp4",     // 1
		"-vf",           // 2
		"subtitles=...", // 3
		"-c:v",          // 4
		"libx264",       // 5
		"-crf",          // 6
		"23",            // 7
		"-preset",       // 8
		"veryfast",      // 9
		"-c:a",          // 10
		"aac",           // 11
		"-y",            // 12
		"output.mp4",    // 13
	},
}

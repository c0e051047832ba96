package format

import (
	"github.com/Le1b1/intro-outro-generator/pkg/types"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// QuickTime keeps the template's alpha channel with the Animation codec.
type QuickTime struct{}

func init() {
	Register(&QuickTime{})
}

func (f *QuickTime) GetName() types.OutputFormat {
	return types.OutputFormatQuickTime
}

func (f *QuickTime) GetExtension() string {
	return ".mov"
}

func (f *QuickTime) GetVideoCodec() string {
	return "qtrle"
}

func (f *QuickTime) GetAudioCodec() string {
	return ""
}

func (f *QuickTime) GetOutputKwargs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"c:v":      f.GetVideoCodec(),
		"movflags": "faststart",
		"shortest": "",
		"f":        "mov",
	}
}

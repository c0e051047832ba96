package format

import (
	"github.com/Le1b1/intro-outro-generator/pkg/types"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type MPEGTS struct{}

func init() {
	Register(&MPEGTS{})
}

func (f *MPEGTS) GetName() types.OutputFormat {
	return types.OutputFormatMPEGTS
}

func (f *MPEGTS) GetExtension() string {
	return ".ts"
}

func (f *MPEGTS) GetVideoCodec() string {
	return "mpeg2video"
}

func (f *MPEGTS) GetAudioCodec() string {
	return "mp2"
}

func (f *MPEGTS) GetOutputKwargs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		// first video and first audio stream of the template
		"map":      []string{"0:0", "0:1"},
		"c:v":      f.GetVideoCodec(),
		"q:v":      2,
		"aspect":   "16:9",
		"c:a":      f.GetAudioCodec(),
		"b:a":      "384k",
		"shortest": "",
		"f":        "mpegts",
	}
}

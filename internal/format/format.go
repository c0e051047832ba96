package format

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Le1b1/intro-outro-generator/pkg/types"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Format defines the container/codec pairing an intro or outro is rendered to
type Format interface {
	// GetName returns the format name
	GetName() types.OutputFormat

	// GetExtension returns the output file extension including the dot
	GetExtension() string

	// GetVideoCodec returns the ffmpeg video encoder
	GetVideoCodec() string

	// GetAudioCodec returns the ffmpeg audio encoder, empty if audio is not re-encoded
	GetAudioCodec() string

	// GetOutputKwargs returns the output options passed to ffmpeg
	GetOutputKwargs() ffmpeg.KwArgs
}

var formats = make(map[types.OutputFormat]Format)

// Register adds a format to the registry
func Register(f Format) {
	formats[f.GetName()] = f
}

// Get returns a format by name
func Get(name types.OutputFormat) (Format, error) {
	f, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
	return f, nil
}

// ForTemplate picks the output format from the template file's extension.
// A .mov template renders to QuickTime, everything else to MPEG-TS.
func ForTemplate(templatePath string) Format {
	if strings.EqualFold(filepath.Ext(templatePath), ".mov") {
		return formats[types.OutputFormatQuickTime]
	}
	return formats[types.OutputFormatMPEGTS]
}

// GetSupportedFormats returns a sorted list of supported format names
func GetSupportedFormats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// Extensions returns the extensions of every registered format, sorted
func Extensions() []string {
	exts := make([]string, 0, len(formats))
	for _, f := range formats {
		exts = append(exts, f.GetExtension())
	}
	sort.Strings(exts)
	return exts
}

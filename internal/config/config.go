package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// GeneratorOptions defines the command line options of a render run
type GeneratorOptions struct {
	ProjectDir string
	Debug      bool
	IDs        []string
	Rooms      []string
	Skip       []string
	Force      bool
	Verbose    bool
}

// StyleSpec holds the drawtext parameters for one overlay text field.
// The string fields are handed to ffmpeg untouched and may be expressions.
type StyleSpec struct {
	In        string
	Out       string
	Font      string
	FontSize  string
	FontColor string
	X         string
	Y         string

	// Measurement parameters for line wrapping
	FitSize  float64
	FitWidth int
}

// Caption is the fixed text overlay. Text is trusted ffmpeg filter syntax.
type Caption struct {
	StyleSpec
	Text string
}

// Config is the parsed config.ini of a project
type Config struct {
	Template string
	Schedule string
	Title    StyleSpec
	Speaker  StyleSpec
	Caption  Caption
}

const (
	FileName = "config.ini"

	// Wrapping defaults used when fitsize/fitwidth are absent
	DefaultTitleFitSize   = 80
	DefaultSpeakerFitSize = 50
	DefaultFitWidth       = 1080
)

var styleKeys = []string{"in", "out", "font", "fontsize", "fontcolor", "x", "y"}

// Error reports a problem that must abort the run before any talk is processed
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return e.Msg
}

// Errorf builds a configuration error
func Errorf(format string, args ...interface{}) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// IsError reports whether err is, or wraps, a configuration error
func IsError(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr)
}

// Load reads config.ini from the project directory
func Load(projectDir string) (*Config, error) {
	path := filepath.Join(projectDir, FileName)
	if _, err := os.Stat(path); err != nil {
		return nil, Errorf("%s file in Project Path is missing", FileName)
	}

	// Colors like #ffffff and quoted captions must survive verbatim
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
		InsensitiveKeys:         true,
	}, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	return parse(f)
}

func parse(f *ini.File) (*Config, error) {
	var missing []string
	get := func(section, key string) string {
		sec, err := f.GetSection(section)
		if err != nil || !sec.HasKey(key) {
			missing = append(missing, section+"."+key)
			return ""
		}
		return sec.Key(key).String()
	}

	cfg := &Config{
		Template: get("default", "template"),
	}
	if sec, err := f.GetSection("default"); err == nil {
		cfg.Schedule = sec.Key("schedule").String()
	}

	style := func(section string, fitSize float64) StyleSpec {
		vals := make(map[string]string, len(styleKeys))
		for _, k := range styleKeys {
			vals[k] = get(section, k)
		}
		spec := StyleSpec{
			In:        vals["in"],
			Out:       vals["out"],
			Font:      vals["font"],
			FontSize:  vals["fontsize"],
			FontColor: vals["fontcolor"],
			X:         vals["x"],
			Y:         vals["y"],
			FitSize:   fitSize,
			FitWidth:  DefaultFitWidth,
		}
		if sec, err := f.GetSection(section); err == nil {
			spec.FitSize = sec.Key("fitsize").MustFloat64(fitSize)
			spec.FitWidth = sec.Key("fitwidth").MustInt(DefaultFitWidth)
		}
		return spec
	}

	cfg.Title = style("title", DefaultTitleFitSize)
	cfg.Speaker = style("speaker", DefaultSpeakerFitSize)
	cfg.Caption = Caption{
		StyleSpec: style("text", 0),
		Text:      get("text", "text"),
	}

	if len(missing) > 0 {
		return nil, Errorf("%s is missing required keys: %s", FileName, strings.Join(missing, ", "))
	}
	if cfg.Title.FitSize <= 0 || cfg.Speaker.FitSize <= 0 {
		return nil, Errorf("fitsize must be positive")
	}
	if cfg.Title.FitWidth <= 0 || cfg.Speaker.FitWidth <= 0 {
		return nil, Errorf("fitwidth must be positive")
	}

	return cfg, nil
}

// Resolve returns path relative to the project directory unless it is absolute
func Resolve(projectDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectDir, path)
}

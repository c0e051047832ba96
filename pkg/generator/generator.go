// Package generator renders intro and outro segments for every talk of a
// conference schedule.
package generator

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Le1b1/intro-outro-generator/internal/config"
	"github.com/Le1b1/intro-outro-generator/internal/ffmpeg"
	"github.com/Le1b1/intro-outro-generator/internal/format"
	"github.com/Le1b1/intro-outro-generator/internal/processor"
	"github.com/Le1b1/intro-outro-generator/internal/schedule"
	"github.com/Le1b1/intro-outro-generator/internal/textfit"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Options are the options of a render run
type Options = config.GeneratorOptions

// FFmpegEnv names the environment variable overriding the ffmpeg binary
const FFmpegEnv = "FFMPEG_BIN"

// GetSupportedFormats returns the output formats a template can select
func GetSupportedFormats() []string {
	return format.GetSupportedFormats()
}

// Run loads the project configuration and renders every selected talk.
// Configuration problems are reported as *config.Error before any talk is
// touched; an ffmpeg failure stops the run.
func Run(opts *Options) error {
	if opts.ProjectDir == "" {
		return config.Errorf("The Project Path is a required argument")
	}
	opts.ProjectDir = filepath.Clean(opts.ProjectDir)

	if err := godotenv.Load(filepath.Join(opts.ProjectDir, ".env")); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to load .env")
	}

	cfg, err := config.Load(opts.ProjectDir)
	if err != nil {
		return err
	}

	if !opts.Debug && cfg.Schedule == "" {
		return config.Errorf("Either specify --debug or supply a schedule in %s", config.FileName)
	}

	fonts, err := LoadFonts(opts.ProjectDir, cfg)
	if err != nil {
		return err
	}

	proc := ffmpeg.NewProcessor(opts.Verbose, os.Getenv(FFmpegEnv))

	if opts.Verbose {
		inspectTemplate(proc, config.Resolve(opts.ProjectDir, cfg.Template), cfg)
	}

	var provider schedule.Provider
	if opts.Debug {
		provider = schedule.Debug()
	} else {
		provider = schedule.NewFrab(scheduleSource(opts.ProjectDir, cfg.Schedule))
	}

	talks, err := provider.Talks()
	if err != nil {
		return err
	}

	if opts.Verbose {
		log.Printf("Loaded %d talks, rendering to %s\n", len(talks), format.ForTemplate(cfg.Template).GetName())
	}

	runner := processor.NewRunner(opts, cfg, fonts, proc, log.New(os.Stdout, "", 0))
	return runner.Process(talks)
}

// LoadFonts loads the title and speaker fonts used for line wrapping
func LoadFonts(projectDir string, cfg *config.Config) (processor.Fonts, error) {
	title, err := textfit.LoadFont(config.Resolve(projectDir, cfg.Title.Font))
	if err != nil {
		return processor.Fonts{}, config.Errorf("title font: %v", err)
	}
	speaker, err := textfit.LoadFont(config.Resolve(projectDir, cfg.Speaker.Font))
	if err != nil {
		return processor.Fonts{}, config.Errorf("speaker font: %v", err)
	}

	return processor.Fonts{
		Title:   title,
		Speaker: speaker,
		Caption: config.Resolve(projectDir, cfg.Caption.Font),
	}, nil
}

func scheduleSource(projectDir, source string) string {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source
	}
	return config.Resolve(projectDir, source)
}

// inspectTemplate reports the template's frame count and warns about
// visibility windows ending after the last frame
func inspectTemplate(proc *ffmpeg.Processor, template string, cfg *config.Config) {
	metadata, err := proc.GetVideoMetadata(template)
	if err != nil {
		log.Printf("Warning: could not probe template %s: %v", template, err)
		return
	}

	log.Printf("Template: %dx%d %s, %.2fs, %d frames\n",
		metadata.Width, metadata.Height, metadata.Codec, metadata.Duration, metadata.Frames)

	styles := map[string]config.StyleSpec{
		"title":   cfg.Title,
		"speaker": cfg.Speaker,
		"text":    cfg.Caption.StyleSpec,
	}
	for _, name := range []string{"title", "speaker", "text"} {
		out, err := strconv.Atoi(styles[name].Out)
		if err != nil || metadata.Frames == 0 {
			continue
		}
		if out >= metadata.Frames {
			log.Printf("Warning: [%s] out=%d is past the template's last frame %d", name, out, metadata.Frames-1)
		}
	}
}

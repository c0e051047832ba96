package processor

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Le1b1/intro-outro-generator/internal/config"
	"github.com/Le1b1/intro-outro-generator/internal/ffmpeg"
	"github.com/Le1b1/intro-outro-generator/internal/format"
	"github.com/Le1b1/intro-outro-generator/internal/textfit"
	"github.com/Le1b1/intro-outro-generator/pkg/types"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Encoder renders one job. *ffmpeg.Processor is the production implementation.
type Encoder interface {
	Encode(job *ffmpeg.EncodeJob) error
	Command(job *ffmpeg.EncodeJob) string
}

// Fonts are the loaded overlay fonts. The caption is never measured, so only
// its path is kept.
type Fonts struct {
	Title   *textfit.Font
	Speaker *textfit.Font
	Caption string
}

// Runner renders one intro/outro per talk, strictly one after another
type Runner struct {
	opts    *config.GeneratorOptions
	cfg     *config.Config
	fonts   Fonts
	format  format.Format
	encoder Encoder
	logger  *log.Logger
}

// NewRunner creates a job runner. The configuration and fonts are shared
// read-only by every talk of the run.
func NewRunner(opts *config.GeneratorOptions, cfg *config.Config, fonts Fonts, encoder Encoder, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(os.Stdout, "", 0)
	}
	return &Runner{
		opts:    opts,
		cfg:     cfg,
		fonts:   fonts,
		format:  format.ForTemplate(cfg.Template),
		encoder: encoder,
		logger:  logger,
	}
}

// Process enqueues every talk that passes the id and room filters. The first
// encoder failure aborts the batch.
func (r *Runner) Process(talks []types.Talk) error {
	count := len(talks)
	if len(r.opts.IDs) > 0 {
		count = len(r.opts.IDs)
	}
	if count == 1 {
		r.logger.Printf("enqueuing %d job", count)
	} else {
		r.logger.Printf("enqueuing %d jobs", count)
	}

	for _, talk := range talks {
		if len(r.opts.IDs) > 0 && !slices.Contains(r.opts.IDs, talk.ID) {
			continue
		}

		if len(r.opts.Rooms) > 0 && !slices.Contains(r.opts.Rooms, talk.Room) {
			r.logger.Printf("skipping room %s (%s)", talk.Room, talk.Title)
			continue
		}

		r.notice(talk, "enqueued as "+talk.ID)

		jobID, err := r.EnqueueJob(talk)
		if err != nil {
			return err
		}
		if jobID == "" {
			r.notice(talk, "job was not enqueued successfully, skipping postprocessing")
			continue
		}
	}

	r.logger.Printf("all done")
	return nil
}

// EnqueueJob renders the intro/outro for talk and returns its job id. An empty
// id with a nil error means the talk was skipped.
func (r *Runner) EnqueueJob(talk types.Talk) (string, error) {
	if slices.Contains(r.opts.Skip, talk.ID) {
		r.notice(talk, "skipping "+talk.ID)
		return "", nil
	}
	if !r.opts.Force && r.rendered(talk) {
		r.notice(talk, "file exist, skipping "+talk.ID)
		return "", nil
	}

	job, err := r.BuildJob(talk)
	if err != nil {
		return "", err
	}

	if r.opts.Debug {
		r.logger.Println(r.encoder.Command(job))
	}

	if err := r.encoder.Encode(job); err != nil {
		return "", errors.Wrapf(err, "failed to render %s", talk.Describe())
	}

	return talk.ID, nil
}

// BuildJob fits the talk's title and speakers and assembles the encoder job
func (r *Runner) BuildJob(talk types.Talk) (*ffmpeg.EncodeJob, error) {
	title := strings.NewReplacer(`"`, "", "'", "").Replace(talk.Title)
	speaker := strings.ReplaceAll(talk.PersonNames(), `"`, "")

	titleLines, err := textfit.Fit(title, r.fonts.Title, r.cfg.Title.FitSize, r.cfg.Title.FitWidth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fit title")
	}
	speakerLines, err := textfit.Fit(speaker, r.fonts.Speaker, r.cfg.Speaker.FitSize, r.cfg.Speaker.FitWidth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fit speaker")
	}

	if r.opts.Debug {
		r.logger.Println("Title: ", textfit.Join(titleLines))
		r.logger.Println("Speaker: ", textfit.Join(speakerLines))
	}

	fonts := ffmpeg.FontFiles{
		Title:   r.fonts.Title.Path(),
		Speaker: r.fonts.Speaker.Path(),
		Caption: r.fonts.Caption,
	}

	return &ffmpeg.EncodeJob{
		Input:  config.Resolve(r.opts.ProjectDir, r.cfg.Template),
		Output: r.OutputPath(talk),
		Filter: ffmpeg.BuildFilterGraph(r.cfg, fonts, titleLines, speakerLines),
		Format: r.format,
	}, nil
}

// OutputPath returns where the talk's rendering is written
func (r *Runner) OutputPath(talk types.Talk) string {
	return filepath.Join(r.opts.ProjectDir, talk.ID+r.format.GetExtension())
}

// rendered reports whether an output in any supported format already exists
func (r *Runner) rendered(talk types.Talk) bool {
	for _, ext := range format.Extensions() {
		if _, err := os.Stat(filepath.Join(r.opts.ProjectDir, talk.ID+ext)); err == nil {
			return true
		}
	}
	return false
}

func (r *Runner) notice(talk types.Talk, message string) {
	r.logger.Printf("%s – %s", talk.Describe(), message)
}

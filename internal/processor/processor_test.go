package processor

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Le1b1/intro-outro-generator/internal/config"
	"github.com/Le1b1/intro-outro-generator/internal/ffmpeg"
	"github.com/Le1b1/intro-outro-generator/internal/textfit"
	"github.com/Le1b1/intro-outro-generator/pkg/types"
	"golang.org/x/image/font/gofont/goregular"
)

type fakeEncoder struct {
	jobs []*ffmpeg.EncodeJob
	err  error
}

func (f *fakeEncoder) Encode(job *ffmpeg.EncodeJob) error {
	f.jobs = append(f.jobs, job)
	return f.err
}

func (f *fakeEncoder) Command(job *ffmpeg.EncodeJob) string {
	return "ffmpeg -i " + job.Input + " " + job.Output
}

type fixture struct {
	dir     string
	out     *bytes.Buffer
	encoder *fakeEncoder
	opts    *config.GeneratorOptions
	cfg     *config.Config
	fonts   Fonts
}

func newFixture(t *testing.T, template string) *fixture {
	t.Helper()
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "Go-Regular.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	f, err := textfit.LoadFont(fontPath)
	if err != nil {
		t.Fatalf("LoadFont error: %v", err)
	}

	style := config.StyleSpec{In: "0", Out: "100", FontSize: "60", FontColor: "white", X: "10", Y: "10"}
	title, speaker := style, style
	title.FitSize, title.FitWidth = 80, 1080
	speaker.FitSize, speaker.FitWidth = 50, 1080

	return &fixture{
		dir:     dir,
		out:     &bytes.Buffer{},
		encoder: &fakeEncoder{},
		opts:    &config.GeneratorOptions{ProjectDir: dir},
		cfg: &config.Config{
			Template: template,
			Title:    title,
			Speaker:  speaker,
			Caption:  config.Caption{StyleSpec: style, Text: "'CC BY 4.0'"},
		},
		fonts: Fonts{Title: f, Speaker: f, Caption: fontPath},
	}
}

func (f *fixture) runner() *Runner {
	return NewRunner(f.opts, f.cfg, f.fonts, f.encoder, log.New(f.out, "", 0))
}

func (f *fixture) touch(t *testing.T, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(f.dir, name), nil, 0644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
}

var walletFail = types.Talk{
	ID:      "9563",
	Title:   "Hacking the most popular cryptocurrency hardware wallets",
	Persons: []string{"Thomas Roth", "Dmitry Nedospasov", "Josh Datko"},
	Room:    "Adams",
}

func TestEnqueueJob(t *testing.T) {
	f := newFixture(t, "intro.ts")

	id, err := f.runner().EnqueueJob(walletFail)
	if err != nil {
		t.Fatalf("EnqueueJob error: %v", err)
	}
	if id != "9563" {
		t.Fatalf("EnqueueJob id = %q; want 9563", id)
	}
	if len(f.encoder.jobs) != 1 {
		t.Fatalf("encoder called %d times; want 1", len(f.encoder.jobs))
	}

	job := f.encoder.jobs[0]
	if job.Input != filepath.Join(f.dir, "intro.ts") || job.Output != filepath.Join(f.dir, "9563.ts") {
		t.Fatalf("unexpected paths: %s -> %s", job.Input, job.Output)
	}
	if job.Format.GetName() != types.OutputFormatMPEGTS {
		t.Fatalf("format = %s; want mpegts", job.Format.GetName())
	}
	if len(job.Filter) != 3 {
		t.Fatalf("filter graph has %d operations; want 3", len(job.Filter))
	}
	if !strings.Contains(job.Filter[0].Text, "\n") {
		t.Fatalf("title %q was not wrapped", job.Filter[0].Text)
	}
	if job.Filter[2].Text != "'CC BY 4.0'" || !job.Filter[2].Literal {
		t.Fatalf("unexpected caption: %+v", job.Filter[2])
	}
}

func TestEnqueueJobQuickTime(t *testing.T) {
	f := newFixture(t, "outro.mov")

	if _, err := f.runner().EnqueueJob(walletFail); err != nil {
		t.Fatalf("EnqueueJob error: %v", err)
	}
	if got := f.encoder.jobs[0].Output; got != filepath.Join(f.dir, "9563.mov") {
		t.Fatalf("output = %s; want 9563.mov", got)
	}
}

func TestEnqueueJobSkipList(t *testing.T) {
	f := newFixture(t, "intro.ts")
	f.opts.Skip = []string{"1", "9563"}

	id, err := f.runner().EnqueueJob(walletFail)
	if err != nil || id != "" {
		t.Fatalf("EnqueueJob = %q, %v; want skip", id, err)
	}
	if len(f.encoder.jobs) != 0 {
		t.Fatalf("encoder called for a skipped talk")
	}
	if !strings.Contains(f.out.String(), "#9563: "+walletFail.Title+" – skipping 9563") {
		t.Fatalf("missing skip notice in %q", f.out.String())
	}
}

func TestEnqueueJobExistingOutput(t *testing.T) {
	for _, existing := range []string{"9563.ts", "9563.mov"} {
		t.Run(existing, func(t *testing.T) {
			f := newFixture(t, "intro.ts")
			f.touch(t, existing)

			id, err := f.runner().EnqueueJob(walletFail)
			if err != nil || id != "" {
				t.Fatalf("EnqueueJob = %q, %v; want skip", id, err)
			}
			if len(f.encoder.jobs) != 0 {
				t.Fatalf("encoder called although %s exists", existing)
			}
			if !strings.Contains(f.out.String(), "file exist, skipping 9563") {
				t.Fatalf("missing notice in %q", f.out.String())
			}

			f.opts.Force = true
			id, err = f.runner().EnqueueJob(walletFail)
			if err != nil || id != "9563" {
				t.Fatalf("forced EnqueueJob = %q, %v", id, err)
			}
			if len(f.encoder.jobs) != 1 {
				t.Fatalf("encoder called %d times with force; want 1", len(f.encoder.jobs))
			}
		})
	}
}

func TestEnqueueJobEncoderFailure(t *testing.T) {
	f := newFixture(t, "intro.ts")
	f.encoder.err = errors.New("exit status 1")

	id, err := f.runner().EnqueueJob(walletFail)
	if err == nil || id != "" {
		t.Fatalf("EnqueueJob = %q, %v; want error", id, err)
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Fatalf("error %q does not carry the encoder failure", err)
	}
}

func TestBuildJobStripsQuotes(t *testing.T) {
	f := newFixture(t, "intro.ts")
	f.cfg.Title.FitWidth, f.cfg.Speaker.FitWidth = 3840, 3840
	talk := types.Talk{
		ID:      "1",
		Title:   `The "best" talk's title`,
		Persons: []string{`Ada "Countess" Lovelace`, "Conan O'Brien"},
	}

	job, err := f.runner().BuildJob(talk)
	if err != nil {
		t.Fatalf("BuildJob error: %v", err)
	}
	if got := job.Filter[0].Text; got != "The best talks title" {
		t.Fatalf("title = %q", got)
	}
	if got := job.Filter[1].Text; got != "Ada Countess Lovelace, Conan O'Brien" {
		t.Fatalf("speaker = %q", got)
	}
}

func TestDebugOutput(t *testing.T) {
	f := newFixture(t, "intro.ts")
	f.opts.Debug = true

	if _, err := f.runner().EnqueueJob(types.Talk{ID: "debug", Title: "wallet.fail", Persons: []string{"Josh Datko"}}); err != nil {
		t.Fatalf("EnqueueJob error: %v", err)
	}
	out := f.out.String()
	for _, want := range []string{"Title:  wallet.fail", "Speaker:  Josh Datko", "ffmpeg -i " + filepath.Join(f.dir, "intro.ts")} {
		if !strings.Contains(out, want) {
			t.Fatalf("debug output %q missing %q", out, want)
		}
	}
}

func TestProcess(t *testing.T) {
	talks := []types.Talk{
		{ID: "1", Title: "One", Room: "Adams"},
		{ID: "2", Title: "Two", Room: "Borg"},
		{ID: "3", Title: "Three", Room: "Adams"},
		{ID: "4", Title: "Four", Room: "Adams"},
	}

	cases := []struct {
		name     string
		ids      []string
		rooms    []string
		skip     []string
		wantJobs []string
		wantLogs []string
	}{
		{
			name:     "all",
			wantJobs: []string{"1", "2", "3", "4"},
			wantLogs: []string{"enqueuing 4 jobs", "#1: One – enqueued as 1", "all done"},
		},
		{
			name:     "ids",
			ids:      []string{"3"},
			wantJobs: []string{"3"},
			wantLogs: []string{"enqueuing 1 job\n"},
		},
		{
			name:     "rooms",
			rooms:    []string{"Borg"},
			wantJobs: []string{"2"},
			wantLogs: []string{"skipping room Adams (One)"},
		},
		{
			name:     "skip",
			skip:     []string{"4"},
			wantJobs: []string{"1", "2", "3"},
			wantLogs: []string{"#4: Four – job was not enqueued successfully, skipping postprocessing"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t, "intro.ts")
			f.opts.IDs, f.opts.Rooms, f.opts.Skip = c.ids, c.rooms, c.skip

			if err := f.runner().Process(talks); err != nil {
				t.Fatalf("Process error: %v", err)
			}

			var got []string
			for _, job := range f.encoder.jobs {
				got = append(got, strings.TrimSuffix(filepath.Base(job.Output), ".ts"))
			}
			if strings.Join(got, ",") != strings.Join(c.wantJobs, ",") {
				t.Fatalf("rendered %v; want %v", got, c.wantJobs)
			}
			for _, want := range c.wantLogs {
				if !strings.Contains(f.out.String(), want) {
					t.Fatalf("output %q missing %q", f.out.String(), want)
				}
			}
		})
	}
}

func TestProcessAbortsOnEncoderFailure(t *testing.T) {
	f := newFixture(t, "intro.ts")
	f.encoder.err = errors.New("exit status 1")

	err := f.runner().Process([]types.Talk{{ID: "1", Title: "One"}, {ID: "2", Title: "Two"}})
	if err == nil {
		t.Fatalf("Process succeeded; want encoder failure")
	}
	if len(f.encoder.jobs) != 1 {
		t.Fatalf("encoder called %d times; the batch should stop after the first failure", len(f.encoder.jobs))
	}
	if strings.Contains(f.out.String(), "all done") {
		t.Fatalf("failed batch reported completion")
	}
}

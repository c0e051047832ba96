package ffmpeg

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/Le1b1/intro-outro-generator/internal/format"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DefaultBinary is used when no ffmpeg path is configured
const DefaultBinary = "ffmpeg"

// EncodeJob is one ffmpeg invocation rendering the overlays onto the template
type EncodeJob struct {
	Input  string
	Output string
	Filter FilterGraph
	Format format.Format
}

// VideoMetadata contains metadata about a video file
type VideoMetadata struct {
	Duration  float64
	Width     int
	Height    int
	Codec     string
	FrameRate float64
	Frames    int
}

// Processor wraps FFmpeg functionality
type Processor struct {
	verbose bool
	binary  string
}

// NewProcessor creates a new FFmpeg processor. An empty binary selects DefaultBinary.
func NewProcessor(verbose bool, binary string) *Processor {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Processor{
		verbose: verbose,
		binary:  binary,
	}
}

func (p *Processor) stream(job *EncodeJob) *ffmpeg.Stream {
	outputKwargs := ffmpeg.KwArgs{
		"vf": job.Filter.String(),
	}
	for k, v := range job.Format.GetOutputKwargs() {
		outputKwargs[k] = v
	}

	stream := ffmpeg.Input(job.Input).
		Output(job.Output, outputKwargs).
		OverWriteOutput().
		SetFfmpegPath(p.binary)
	if p.verbose {
		stream = stream.ErrorToStdOut()
	}
	return stream
}

// Args returns the ffmpeg argument list for job, without the binary
func (p *Processor) Args(job *EncodeJob) []string {
	return p.stream(job).GetArgs()
}

// Command renders the invocation as a copy-pasteable shell line
func (p *Processor) Command(job *EncodeJob) string {
	args := p.Args(job)
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, shellQuote(p.binary))
	for _, a := range args {
		quoted = append(quoted, shellQuote(a))
	}
	return strings.Join(quoted, " ")
}

// Encode runs ffmpeg for job and blocks until it exits. A non-zero exit is
// returned as an error.
func (p *Processor) Encode(job *EncodeJob) error {
	if p.verbose {
		log.Printf("Encoding %s -> %s (%s)\n", job.Input, job.Output, job.Format.GetName())
		log.Printf("Filter graph: %s\n", job.Filter)
	}

	if err := p.stream(job).Run(); err != nil {
		return errors.Wrapf(err, "ffmpeg failed for %s", job.Output)
	}
	return nil
}

// GetVideoMetadata retrieves metadata about a video file
func (p *Processor) GetVideoMetadata(inputPath string) (*VideoMetadata, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, errors.Wrap(err, "error probing video")
	}
	return parseMetadata(probe)
}

func parseMetadata(probe string) (*VideoMetadata, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, fmt.Errorf("no streams found in video")
	}

	var videoStream map[string]interface{}
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		if codecType, _ := s["codec_type"].(string); codecType == "video" {
			videoStream = s
			break
		}
	}

	if videoStream == nil {
		return nil, fmt.Errorf("no video stream found")
	}

	metadata := &VideoMetadata{}
	if w, ok := videoStream["width"].(float64); ok {
		metadata.Width = int(w)
	}
	if h, ok := videoStream["height"].(float64); ok {
		metadata.Height = int(h)
	}
	metadata.Codec, _ = videoStream["codec_name"].(string)

	if rFrameRate, ok := videoStream["r_frame_rate"].(string); ok {
		metadata.FrameRate = parseRate(rFrameRate)
	}

	// First try video stream duration
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
			metadata.Duration = d
		}
	}

	// If stream duration is not available, try format duration
	if metadata.Duration == 0 {
		if formatData, ok := data["format"].(map[string]interface{}); ok {
			if durationStr, ok := formatData["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					metadata.Duration = d
				}
			}
		}
	}

	if nbFrames, ok := videoStream["nb_frames"].(string); ok {
		if frames, err := strconv.Atoi(strings.TrimSpace(nbFrames)); err == nil {
			metadata.Frames = frames
		}
	}

	// Containers like MPEG-TS carry no frame count
	if metadata.Frames == 0 && metadata.FrameRate > 0 {
		metadata.Frames = int(metadata.Duration * metadata.FrameRate)
	}
	if metadata.Duration == 0 && metadata.Frames > 0 && metadata.FrameRate > 0 {
		metadata.Duration = float64(metadata.Frames) / metadata.FrameRate
	}

	if metadata.Duration == 0 {
		return nil, fmt.Errorf("could not determine video duration")
	}

	return metadata, nil
}

func parseRate(rate string) float64 {
	nums := strings.Split(rate, "/")
	if len(nums) != 2 {
		r, _ := strconv.ParseFloat(rate, 64)
		return r
	}
	num, err1 := strconv.ParseFloat(nums[0], 64)
	den, err2 := strconv.ParseFloat(nums[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:=+,@%", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/Le1b1/intro-outro-generator/internal/config"
	"github.com/Le1b1/intro-outro-generator/internal/textfit"
)

// DrawText is one drawtext operation of the overlay filter graph
type DrawText struct {
	Start     string
	End       string
	FontFile  string
	FontSize  string
	FontColor string
	X         string
	Y         string
	Text      string

	// Literal inserts Text as is instead of quoting it
	Literal bool
}

// FontFiles are the resolved font paths of the three overlays
type FontFiles struct {
	Title   string
	Speaker string
	Caption string
}

// FilterGraph is the ordered list of drawtext operations for one talk
type FilterGraph []DrawText

// NewDrawText builds a quoted drawtext operation for a style and its text
func NewDrawText(style config.StyleSpec, fontFile, text string) DrawText {
	return DrawText{
		Start:     style.In,
		End:       style.Out,
		FontFile:  fontFile,
		FontSize:  style.FontSize,
		FontColor: style.FontColor,
		X:         style.X,
		Y:         style.Y,
		Text:      text,
	}
}

// BuildFilterGraph returns the title, speaker and caption operations in that order.
// Title and speaker lines come from the text fitter; the caption is taken from
// the configuration unchanged.
func BuildFilterGraph(cfg *config.Config, fonts FontFiles, titleLines, speakerLines []string) FilterGraph {
	caption := NewDrawText(cfg.Caption.StyleSpec, fonts.Caption, cfg.Caption.Text)
	caption.Literal = true

	return FilterGraph{
		NewDrawText(cfg.Title, fonts.Title, textfit.Join(titleLines)),
		NewDrawText(cfg.Speaker, fonts.Speaker, textfit.Join(speakerLines)),
		caption,
	}
}

// String renders the operation in ffmpeg filter syntax.
//
// This is the only place configuration values enter the filter graph. Frame
// numbers, font path, size, color and position are written without escaping
// so existing configurations may keep using ffmpeg expressions; a value that
// breaks the filter syntax makes the ffmpeg run fail. Only a non-literal Text
// is quoted.
func (d DrawText) String() string {
	text := d.Text
	if !d.Literal {
		text = quoteText(text)
	}
	return fmt.Sprintf("drawtext=enable='between(n,%s,%s)':fontfile=%s:fontsize=%s:fontcolor=%s:x=%s:y=%s:text=%s",
		d.Start, d.End, d.FontFile, d.FontSize, d.FontColor, d.X, d.Y, text)
}

// String joins the operations into a single filter chain
func (g FilterGraph) String() string {
	ops := make([]string, 0, len(g))
	for _, d := range g {
		ops = append(ops, d.String())
	}
	return strings.Join(ops, ",")
}

func quoteText(text string) string {
	return "'" + strings.ReplaceAll(text, "'", `'\''`) + "'"
}

// Package textfit wraps display strings into lines that fit a pixel budget
// for a given font and size.
package textfit

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Margin is subtracted from both sides of the available width
const Margin = 6

// DPI at which point sizes map one to one onto pixels
const DPI = 72

// Font is a parsed TrueType/OpenType font. It is safe to share between
// fitting calls; every measurement uses its own face.
type Font struct {
	path string
	font *opentype.Font
}

// LoadFont reads and parses the font file at path
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read font file")
	}
	f, err := ParseFont(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse font %s", path)
	}
	f.path = path
	return f, nil
}

// ParseFont parses font data held in memory
func ParseFont(data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Font{font: f}, nil
}

// Path returns the file the font was loaded from, empty for in-memory fonts
func (f *Font) Path() string {
	return f.path
}

// Face returns a face of the font at the given point size
func (f *Font) Face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create font face")
	}
	return face, nil
}

// Fit wraps text for font f at size so that lines stay within maxWidth
// minus Margin on each side.
func Fit(text string, f *Font, size float64, maxWidth int) ([]string, error) {
	face, err := f.Face(size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	return FitFace(face, text, maxWidth), nil
}

// FitFace greedily wraps text using face for measurement.
//
// The candidate measured before a word is appended is the accumulated line,
// which still carries its trailing space, joined to the word with another
// space. Rendered output therefore always has some slack against the budget.
// A word that is wider than the budget on its own is never split.
func FitFace(face font.Face, text string, maxWidth int) []string {
	budget := maxWidth - 2*Margin

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		if line != "" && Width(face, line+" "+word) > budget {
			lines = append(lines, strings.TrimSpace(line))
			line = ""
		}
		line += word + " "
	}

	return append(lines, strings.TrimSpace(line))
}

// Width returns the advance width of s in whole pixels, rounded up
func Width(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// Join turns fitted lines into an overlay payload
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}

// Package markdown renders build summaries for a terminal.
package markdown

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
)

const defaultWidth = 100

// Renderer is a markdown renderer using Glamour.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    uint
	profile  termenv.Profile
}

// NewRenderer creates a new markdown renderer with the given options.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		width:   defaultWidth,
		profile: termenv.ColorProfile(),
	}
	for _, opt := range opts {
		opt(r)
	}

	style := glamour.WithStylesFromJSONBytes(DefaultStyle)
	if r.profile == termenv.Ascii {
		// The JSON style sets bold attributes that glamour emits regardless of profile.
		style = glamour.WithStyles(plainStyle())
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(int(r.width)),
		style,
		glamour.WithColorProfile(r.profile),
	)
	if err != nil {
		return nil, err
	}

	r.renderer = renderer
	return r, nil
}

// plainStyle is glamour's ASCII style without the markdown emphasis markers.
func plainStyle() ansi.StyleConfig {
	s := styles.ASCIIStyleConfig
	s.Strong = ansi.StylePrimitive{}
	s.Emph = ansi.StylePrimitive{}
	return s
}

// Render renders markdown content to ANSI styled text.
func (r *Renderer) Render(content string) (string, error) {
	return r.renderer.Render(content)
}

// Option is a function that configures the renderer.
type Option func(*Renderer)

// WithWidth sets the word wrap width for the renderer.
func WithWidth(width uint) Option {
	return func(r *Renderer) {
		r.width = width
	}
}

// WithColorProfile sets the color profile for the renderer.
func WithColorProfile(profile termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = profile
	}
}

// Package tui renders platform content for terminals.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWidth = 80

// Style names accepted by NewRenderer. They follow the Light/Dark theme setting.
const (
	StyleAuto  = "auto"
	StyleLight = "light"
	StyleDark  = "dark"
	StylePlain = "notty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of f, or a default when it cannot be measured.
func Width(f *os.File) int {
	if !IsTerminal(f) {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// StyleFor maps a theme preference ("Light", "Dark", "") to a renderer style.
func StyleFor(theme string) string {
	switch strings.ToLower(theme) {
	case StyleLight, "terang":
		return StyleLight
	case StyleDark, "gelap":
		return StyleDark
	}
	return StyleAuto
}

// NewRenderer returns a markdown renderer for the given style and wrap width.
func NewRenderer(style string, width int) (func(string) (string, error), error) {
	if width <= 0 {
		width = defaultWidth
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", StyleAuto:
		opts = append(opts, glamour.WithAutoStyle())
	case StylePlain:
		opts = append(opts, glamour.WithStyles(plainStyle()), glamour.WithColorProfile(termenv.Ascii))
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// plainStyle is glamour's notty style without the emphasis markers it keeps around
// bold, italic and struck-through text.
func plainStyle() ansi.StyleConfig {
	cfg := styles.NoTTYStyleConfig
	cfg.Strong.BlockPrefix, cfg.Strong.BlockSuffix = "", ""
	cfg.Emph.BlockPrefix, cfg.Emph.BlockSuffix = "", ""
	cfg.Strikethrough.BlockPrefix, cfg.Strikethrough.BlockSuffix = "", ""
	return cfg
}

// RendererFor picks a renderer for out: styled markdown on terminals, plain text otherwise.
func RendererFor(out *os.File, theme string) (func(string) (string, error), error) {
	if !IsTerminal(out) {
		return NewRenderer(StylePlain, defaultWidth)
	}
	return NewRenderer(StyleFor(theme), Width(out))
}

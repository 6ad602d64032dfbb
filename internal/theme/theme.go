package theme

import (
	"fmt"
	"sort"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "dark"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Name string

	Title             *lipgloss.Style
	Header            *lipgloss.Style
	Item              *lipgloss.Style
	ItemIndicator     *lipgloss.Style
	SelectedItem      *lipgloss.Style
	SelectedIndicator *lipgloss.Style
	Attached          *lipgloss.Style
	Muted             *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Confirm           *lipgloss.Style
	Footer            *lipgloss.Style
	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	PreviewBorder     *lipgloss.Style
	PreviewTitle      *lipgloss.Style
	PreviewBody       *lipgloss.Style
	PreviewError      *lipgloss.Style
}

// flavors maps configurable theme names to catppuccin palettes. "dark" and
// "light" are aliases for mocha and latte.
var flavors = map[string]catppuccin.Flavor{
	"dark":      catppuccin.Mocha,
	"light":     catppuccin.Latte,
	"mocha":     catppuccin.Mocha,
	"macchiato": catppuccin.Macchiato,
	"frappe":    catppuccin.Frappe,
	"latte":     catppuccin.Latte,
}

// Names lists the accepted theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(flavors))
	for name := range flavors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	_, ok := flavors[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// ForTheme builds the style set for a named theme. An empty name selects
// DefaultName.
func ForTheme(name string) (*Styles, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultName
	}
	flavor, ok := flavors[key]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	styles := fromFlavor(flavor)
	styles.Name = key
	return styles, nil
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	styles, _ := ForTheme(DefaultName)
	return styles
}

func fromFlavor(f catppuccin.Flavor) *Styles {
	c := func(col catppuccin.Color) lipgloss.Color { return lipgloss.Color(col.Hex) }
	return &Styles{
		Title: ptr(
			lipgloss.NewStyle().Foreground(c(f.Mauve())).Bold(true),
		),
		Header: ptr(
			lipgloss.NewStyle().Foreground(c(f.Subtext0())).Bold(true),
		),
		Item: ptr(
			lipgloss.NewStyle().Foreground(c(f.Text())),
		),
		ItemIndicator: ptr(
			lipgloss.NewStyle().Foreground(c(f.Surface2())),
		),
		SelectedItem: ptr(
			lipgloss.NewStyle().Foreground(c(f.Text())).Background(c(f.Surface1())).Bold(true),
		),
		SelectedIndicator: ptr(
			lipgloss.NewStyle().Foreground(c(f.Mauve())).Background(c(f.Surface1())),
		),
		Attached: ptr(
			lipgloss.NewStyle().Foreground(c(f.Green())),
		),
		Muted: ptr(
			lipgloss.NewStyle().Foreground(c(f.Overlay0())),
		),
		Error: ptr(
			lipgloss.NewStyle().Foreground(c(f.Red())).Bold(true),
		),
		Info: ptr(
			lipgloss.NewStyle().Foreground(c(f.Sky())),
		),
		Confirm: ptr(
			lipgloss.NewStyle().Foreground(c(f.Peach())).Bold(true),
		),
		Footer: ptr(
			lipgloss.NewStyle().Foreground(c(f.Overlay1())),
		),
		Filter: ptr(
			lipgloss.NewStyle().Foreground(c(f.Text())),
		),
		FilterPrompt: ptr(
			lipgloss.NewStyle().Foreground(c(f.Green())).Bold(true),
		),
		FilterPlaceholder: ptr(
			lipgloss.NewStyle().Foreground(c(f.Overlay0())),
		),
		PreviewBorder: ptr(
			lipgloss.NewStyle().Foreground(c(f.Surface2())),
		),
		PreviewTitle: ptr(
			lipgloss.NewStyle().Foreground(c(f.Lavender())).Bold(true),
		),
		PreviewBody: ptr(
			lipgloss.NewStyle().Foreground(c(f.Subtext1())),
		),
		PreviewError: ptr(
			lipgloss.NewStyle().Foreground(c(f.Red())).Bold(true),
		),
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}

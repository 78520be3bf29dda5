package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/endlesspixel/launcher/internal/changelog"
	"github.com/endlesspixel/launcher/internal/picker"
	"github.com/endlesspixel/launcher/internal/release"
	"github.com/endlesspixel/launcher/internal/store"
)

// Refresher replaces the release catalog with the remote list
type Refresher interface {
	Refresh(ctx context.Context) ([]release.Entry, error)
}

// TLSToggle switches certificate verification for later refreshes
type TLSToggle interface {
	Insecure() bool
	SetInsecure(insecure bool)
}

// History reports the last successful refresh
type History interface {
	LastSuccess() (*store.Attempt, error)
}

// Options wires the model to the launcher's services
type Options struct {
	Context          context.Context
	Repository       string
	InstalledVersion string
	Catalog          picker.Catalog
	Refresher        Refresher
	TLS              TLSToggle
	History          History
}

// listWidth is the width of the version list column, borders excluded
const listWidth = 32

// Model represents the application state
type Model struct {
	ctx       context.Context
	refresher Refresher
	tls       TLSToggle
	history   History

	picker   *picker.View
	layout   *layout
	viewport viewport.Model
	spinner  spinner.Model

	repo      string
	installed string

	// State
	ready       bool
	quitting    bool
	refreshing  bool
	width       int
	height      int
	notice      string
	lastSuccess *store.Attempt
	lastErr     error
	watchErr    error

	// Styles
	styles Styles
}

// layout is shared by model copies so the renderer sees the current width
type layout struct {
	changelogWidth int
}

// Styles contains the Lipgloss styles for the UI
type Styles struct {
	Border       lipgloss.Style
	Header       lipgloss.Style
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Muted        lipgloss.Style
	Error        lipgloss.Style
	Notice       lipgloss.Style
	TLSVerified  lipgloss.Style
	TLSInsecure  lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	Spinner      lipgloss.Style
}

// DefaultStyles returns the default UI styles
func DefaultStyles() Styles {
	var styles Styles

	// Color palette
	primaryColor := lipgloss.Color("86")    // Green
	secondaryColor := lipgloss.Color("239") // Grey
	errorColor := lipgloss.Color("196")     // Red
	warnColor := lipgloss.Color("208")      // Orange

	styles.Border = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondaryColor)

	styles.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor).
		Padding(0, 1)

	styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	styles.Subtitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("243"))

	styles.Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	styles.Error = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	styles.Notice = lipgloss.NewStyle().
		Foreground(warnColor).
		Bold(true)

	styles.TLSVerified = lipgloss.NewStyle().
		Foreground(primaryColor)

	styles.TLSInsecure = lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(errorColor).
		Bold(true).
		Padding(0, 1)

	styles.ListItem = lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	styles.ListSelected = lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true)

	styles.Spinner = lipgloss.NewStyle().
		Foreground(primaryColor)

	return styles
}

// NewModel creates a new Model. The first refresh starts from Init.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	styles := DefaultStyles()
	l := &layout{}

	view := picker.New(opts.Catalog, picker.WithRenderer(func(markdown string) string {
		return changelog.Terminal(markdown, l.changelogWidth)
	}))

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return Model{
		ctx:        ctx,
		refresher:  opts.Refresher,
		tls:        opts.TLS,
		history:    opts.History,
		picker:     view,
		layout:     l,
		spinner:    s,
		repo:       opts.Repository,
		installed:  opts.InstalledVersion,
		refreshing: true,
		styles:     styles,
	}
}

// Init starts the first refresh
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd())
}

// refreshCmd runs one refresh off the UI goroutine
func (m Model) refreshCmd() tea.Cmd {
	ctx, refresher := m.ctx, m.refresher
	return func() tea.Msg {
		entries, err := refresher.Refresh(ctx)
		return RefreshDoneMsg{Entries: entries, Err: err, At: timeNow()}
	}
}

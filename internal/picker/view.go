// Package picker projects the release catalog into a selectable list and
// renders the selected release's changelog. It has no UI dependency; any
// presentation layer binds to it through labels, Output and listeners.
package picker

import (
	"strings"
	"sync"

	"github.com/endlesspixel/launcher/internal/changelog"
	"github.com/endlesspixel/launcher/internal/release"
)

const (
	// DefaultNotFound is shown when the selected tag is not in the catalog.
	DefaultNotFound = "no changelog found for this version"
	// DefaultEmpty is shown when a release has no description.
	DefaultEmpty = "no changelog available"
)

// Catalog is the read side of release.Catalog the view needs.
type Catalog interface {
	Lookup(tag string) (release.Entry, bool)
	OnChanged(l release.Listener)
}

// Renderer converts a Markdown changelog into display output.
type Renderer func(markdown string) string

// Label is one row of the version list.
type Label struct {
	Text string
	Tag  string
}

// Selection is the current choice. Index is -1 and Valid is false before the
// first non-empty populate.
type Selection struct {
	Index int
	Tag   string
	Valid bool
}

// SelectionListener is notified whenever the selection or its output changes.
type SelectionListener func(sel Selection, output string)

// View is the version selection view.
type View struct {
	catalog  Catalog
	render   Renderer
	notFound string
	empty    string

	mu        sync.Mutex
	labels    []Label
	selection Selection
	output    string
	listeners []SelectionListener
}

// Option configures a View.
type Option func(*View)

// WithRenderer replaces the default HTML renderer.
func WithRenderer(r Renderer) Option {
	return func(v *View) { v.render = r }
}

// WithPlaceholders overrides the not-found and empty-changelog texts.
func WithPlaceholders(notFound, empty string) Option {
	return func(v *View) {
		v.notFound = notFound
		v.empty = empty
	}
}

// New creates a view over catalog. Nothing is selected until Populate.
func New(catalog Catalog, opts ...Option) *View {
	v := &View{
		catalog:   catalog,
		render:    changelog.HTML,
		notFound:  DefaultNotFound,
		empty:     DefaultEmpty,
		selection: Selection{Index: -1},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Bind repopulates the view on every catalog replacement.
func (v *View) Bind() {
	v.catalog.OnChanged(func(entries []release.Entry) {
		v.Populate(entries)
	})
}

// OnSelectionChanged registers a listener.
func (v *View) OnSelectionChanged(l SelectionListener) {
	v.mu.Lock()
	v.listeners = append(v.listeners, l)
	v.mu.Unlock()
}

// Populate rebuilds the list and selects the first entry, or clears the
// selection when entries is empty.
func (v *View) Populate(entries []release.Entry) {
	labels := make([]Label, len(entries))
	for i, e := range entries {
		labels[i] = Label{Text: e.Label(), Tag: e.Tag}
	}

	v.mu.Lock()
	v.labels = labels
	if len(labels) == 0 {
		v.selection = Selection{Index: -1}
		v.output = v.empty
		v.mu.Unlock()
		v.notify()
		return
	}
	v.selection = Selection{Index: 0, Tag: labels[0].Tag, Valid: true}
	v.mu.Unlock()

	v.Render(labels[0].Tag)
}

// Select handles a selection change from the presentation layer. Indexes
// outside the list are ignored.
func (v *View) Select(index int) {
	v.mu.Lock()
	if index < 0 || index >= len(v.labels) {
		v.mu.Unlock()
		return
	}
	tag := v.labels[index].Tag
	v.selection = Selection{Index: index, Tag: tag, Valid: true}
	v.mu.Unlock()

	v.Render(tag)
}

// Render updates the output for tag without touching the catalog.
func (v *View) Render(tag string) {
	out := v.renderTag(tag)

	v.mu.Lock()
	v.output = out
	v.mu.Unlock()
	v.notify()
}

// ShowError replaces the output with diagnostic text for a failed refresh.
// The list and selection keep their last good values.
func (v *View) ShowError(err error) {
	if err == nil {
		return
	}
	v.mu.Lock()
	v.output = release.Describe(err)
	v.mu.Unlock()
	v.notify()
}

func (v *View) renderTag(tag string) (out string) {
	entry, ok := v.catalog.Lookup(tag)
	if !ok {
		return v.notFound
	}
	if strings.TrimSpace(entry.Description) == "" {
		return v.empty
	}

	defer func() {
		if r := recover(); r != nil {
			out = entry.Description
		}
	}()
	return v.render(entry.Description)
}

// Labels returns the current list rows.
func (v *View) Labels() []Label {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Label, len(v.labels))
	copy(out, v.labels)
	return out
}

// Selection returns the current selection.
func (v *View) Selection() Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selection
}

// Output returns the rendered changelog pane content.
func (v *View) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.output
}

func (v *View) notify() {
	v.mu.Lock()
	sel, out := v.selection, v.output
	listeners := append([]SelectionListener(nil), v.listeners...)
	v.mu.Unlock()

	for _, l := range listeners {
		l(sel, out)
	}
}

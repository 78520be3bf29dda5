package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/endlesspixel/launcher/internal/release"
)

// timeNow can be replaced in tests
var timeNow = time.Now

// chrome is the number of rows used by the header, footer and borders
const chrome = 6

// Update handles incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case spinner.TickMsg:
		if !m.refreshing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RefreshDoneMsg:
		m.refreshing = false
		if msg.Err != nil {
			m.lastErr = msg.Err
			m.picker.ShowError(msg.Err)
		} else {
			m.lastErr = nil
			m.picker.Populate(msg.Entries)
			m.notice = updateNotice(msg.Entries, m.installed)
		}
		m.loadLastSuccess()
		m.syncViewport()
		return m, nil

	case TrustStoreChangedMsg:
		return m.startRefresh()

	case WatcherFailedMsg:
		m.watchErr = msg.Err
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		m.moveSelection(-1)
		return m, nil

	case "down", "j":
		m.moveSelection(1)
		return m, nil

	case "pgup":
		m.viewport.ViewUp()
		return m, nil

	case "pgdown":
		m.viewport.ViewDown()
		return m, nil

	case "r":
		return m.startRefresh()

	case "x":
		if m.tls == nil {
			return m, nil
		}
		m.tls.SetInsecure(!m.tls.Insecure())
		return m.startRefresh()
	}

	return m, nil
}

// startRefresh begins a refresh unless one is already running
func (m Model) startRefresh() (tea.Model, tea.Cmd) {
	if m.refreshing || m.refresher == nil {
		return m, nil
	}
	m.refreshing = true
	return m, tea.Batch(m.spinner.Tick, m.refreshCmd())
}

func (m *Model) moveSelection(delta int) {
	sel := m.picker.Selection()
	if !sel.Valid {
		return
	}
	before := sel.Index
	m.picker.Select(sel.Index + delta)
	if m.picker.Selection().Index != before {
		m.syncViewport()
	}
}

func (m Model) resize(width, height int) Model {
	m.width = width
	m.height = height

	// list column + two borders on each pane
	w := width - listWidth - 4
	if w < 10 {
		w = 10
	}
	h := height - chrome
	if h < 3 {
		h = 3
	}
	m.layout.changelogWidth = w

	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}

	// Re-render at the new width
	if sel := m.picker.Selection(); sel.Valid && m.lastErr == nil {
		m.picker.Render(sel.Tag)
	}
	m.syncViewport()
	return m
}

func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.picker.Output())
	m.viewport.GotoTop()
}

func (m *Model) loadLastSuccess() {
	if m.history == nil {
		return
	}
	last, err := m.history.LastSuccess()
	if err != nil {
		return
	}
	m.lastSuccess = last
}

// updateNotice describes the newest stable release above installed, if any
func updateNotice(entries []release.Entry, installed string) string {
	newer := release.NewerThan(entries, installed)
	if len(newer) == 0 {
		return ""
	}
	latest, ok := release.LatestStable(newer)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Update available: %s → %s", installed, latest.Tag)
}

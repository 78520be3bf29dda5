package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/endlesspixel/launcher/internal/release"
)

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	// Show loading until the terminal size is known
	if !m.ready {
		return m.renderLoading()
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), m.renderChangelog()))
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title row and the update notice row
func (m Model) renderHeader() string {
	left := m.styles.Title.Render("EndlessPixel Launcher")
	middle := m.styles.Subtitle.Render(m.repo)

	var tls string
	if m.tls != nil && m.tls.Insecure() {
		tls = m.styles.TLSInsecure.Render("TLS verification OFF")
	} else {
		tls = m.styles.TLSVerified.Render("TLS verified")
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", middle, "  ", tls)
	if m.refreshing {
		headerRow = lipgloss.JoinHorizontal(lipgloss.Top, headerRow, "  ", m.spinner.View(), m.styles.Muted.Render(" refreshing"))
	}

	notice := ""
	if m.notice != "" {
		notice = m.styles.Notice.Render(m.notice)
	}
	return headerRow + "\n" + notice
}

// renderList renders the version list, scrolled to keep the selection visible
func (m Model) renderList() string {
	height := m.viewport.Height
	labels := m.picker.Labels()
	sel := m.picker.Selection()

	var lines []string
	if len(labels) == 0 {
		text := "no releases"
		if m.refreshing {
			text = "loading…"
		}
		lines = append(lines, m.styles.Muted.Render(text))
	}

	start := 0
	if sel.Valid && sel.Index >= height {
		start = sel.Index - height + 1
	}
	for i := start; i < len(labels) && i < start+height; i++ {
		text := runewidth.Truncate(labels[i].Text, listWidth-2, "…")
		if sel.Valid && i == sel.Index {
			lines = append(lines, m.styles.ListSelected.Render("▶ "+text))
		} else {
			lines = append(lines, m.styles.ListItem.Render("  "+text))
		}
	}

	return m.styles.Border.
		Width(listWidth).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

// renderChangelog renders the changelog viewport
func (m Model) renderChangelog() string {
	return m.styles.Border.Render(m.viewport.View())
}

// renderFooter renders the refresh status and help text
func (m Model) renderFooter() string {
	var status []string

	if m.lastSuccess != nil {
		status = append(status, fmt.Sprintf("Last refresh: %s (%d releases)",
			m.lastSuccess.StartedAt.Format("2006-01-02 15:04"),
			m.lastSuccess.ReleaseCount))
	} else {
		status = append(status, "Last refresh: never")
	}

	line := m.styles.Muted.Render(strings.Join(status, " | "))
	if m.lastErr != nil {
		line += m.styles.Muted.Render(" | ") + m.styles.Error.Render(release.KindOf(m.lastErr).String())
	}
	if m.watchErr != nil {
		line += m.styles.Muted.Render(" | ") + m.styles.Error.Render("trust store watch stopped")
	}

	help := m.styles.Muted.Render("↑/↓: select | pgup/pgdn: scroll | r: refresh | x: toggle TLS verify | q: quit")
	return line + "\n" + help
}

// renderLoading renders the loading screen
func (m Model) renderLoading() string {
	loadingText := m.styles.Header.Render("Loading releases...")
	return m.styles.Border.Render(loadingText)
}

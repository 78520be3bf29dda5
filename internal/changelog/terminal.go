package changelog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Styles controls terminal rendering.
type Styles struct {
	Heading       lipgloss.Style
	Code          lipgloss.Style
	CodeSpan      lipgloss.Style
	Bold          lipgloss.Style
	Italic        lipgloss.Style
	Strikethrough lipgloss.Style
	Link          lipgloss.Style
	Quote         lipgloss.Style
	TableHeader   lipgloss.Style
	Rule          lipgloss.Style
}

// DefaultStyles returns the launcher's changelog palette.
func DefaultStyles() Styles {
	accent := lipgloss.Color("39") // Blue, close to the launcher title bar
	return Styles{
		Heading:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		Code:          lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		CodeSpan:      lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
		Bold:          lipgloss.NewStyle().Bold(true),
		Italic:        lipgloss.NewStyle().Italic(true),
		Strikethrough: lipgloss.NewStyle().Strikethrough(true),
		Link:          lipgloss.NewStyle().Underline(true).Foreground(accent),
		Quote:         lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		TableHeader:   lipgloss.NewStyle().Bold(true),
		Rule:          lipgloss.NewStyle().Foreground(lipgloss.Color("239")),
	}
}

// Terminal renders Markdown as styled text. Paragraphs wrap at width when
// width is positive.
func Terminal(source string, width int) string {
	return TerminalWithStyles(source, width, DefaultStyles())
}

// TerminalWithStyles is Terminal with a custom palette.
func TerminalWithStyles(source string, width int, styles Styles) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = source
		}
	}()

	src := []byte(source)
	doc := markdown.Parser().Parse(text.NewReader(src))
	r := &termRenderer{src: src, width: width, styles: styles}
	return strings.TrimRight(strings.Join(r.children(doc), "\n"), "\n")
}

type termRenderer struct {
	src    []byte
	width  int
	styles Styles
}

// children renders each block child, separated by blank lines.
func (r *termRenderer) children(n ast.Node) []string {
	var lines []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		block := r.block(c)
		if len(block) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	return lines
}

func (r *termRenderer) block(n ast.Node) []string {
	switch n := n.(type) {
	case *ast.Heading:
		return []string{r.styles.Heading.Render(r.inline(n))}

	case *ast.Paragraph, *ast.TextBlock:
		return r.wrap(r.inline(n))

	case *ast.List:
		return r.list(n)

	case *ast.FencedCodeBlock:
		return r.code(n)

	case *ast.CodeBlock:
		return r.code(n)

	case *ast.Blockquote:
		inner := r.children(n)
		for i, l := range inner {
			inner[i] = r.styles.Quote.Render("│ ") + l
		}
		return inner

	case *ast.ThematicBreak:
		w := r.width
		if w <= 0 || w > 40 {
			w = 40
		}
		return []string{r.styles.Rule.Render(strings.Repeat("─", w))}

	case *ast.HTMLBlock:
		return r.rawLines(n)

	case *east.Table:
		return r.table(n)

	default:
		return r.children(n)
	}
}

func (r *termRenderer) list(n *ast.List) []string {
	var lines []string
	i := 0
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n.Start+i)
		}
		pad := strings.Repeat(" ", runewidth.StringWidth(marker))

		var body []string
		if n.IsTight {
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				body = append(body, r.block(c)...)
			}
		} else {
			body = r.children(item)
		}
		if len(body) == 0 {
			body = []string{""}
		}
		for j, l := range body {
			if j == 0 {
				lines = append(lines, marker+l)
			} else {
				lines = append(lines, pad+l)
			}
		}
		i++
	}
	return lines
}

func (r *termRenderer) code(n ast.Node) []string {
	raw := r.rawLines(n)
	for i, l := range raw {
		raw[i] = "    " + r.styles.Code.Render(l)
	}
	return raw
}

func (r *termRenderer) rawLines(n ast.Node) []string {
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(r.src)), "\r\n"))
	}
	return out
}

func (r *termRenderer) table(n *east.Table) []string {
	var rows [][]string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.ReplaceAll(r.plain(cell), "\n", " "))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	widths := make([]int, cols)
	for _, row := range rows {
		for i, c := range row {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	format := func(row []string) string {
		parts := make([]string, cols)
		for i := 0; i < cols; i++ {
			c := ""
			if i < len(row) {
				c = row[i]
			}
			parts[i] = runewidth.FillRight(c, widths[i])
		}
		return strings.TrimRight(strings.Join(parts, " │ "), " ")
	}

	lines := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		if i == 0 {
			lines = append(lines, r.styles.TableHeader.Render(format(row)))
			seps := make([]string, cols)
			for j, w := range widths {
				seps[j] = strings.Repeat("─", w)
			}
			lines = append(lines, strings.Join(seps, "─┼─"))
			continue
		}
		lines = append(lines, format(row))
	}
	return lines
}

func (r *termRenderer) wrap(s string) []string {
	if r.width > 0 {
		s = ansi.Wrap(s, r.width, "")
	}
	return strings.Split(s, "\n")
}

// inline renders inline children with styling.
func (r *termRenderer) inline(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(r.src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.CodeSpan:
			b.WriteString(r.styles.CodeSpan.Render(r.plain(c)))
		case *ast.Emphasis:
			if c.Level >= 2 {
				b.WriteString(r.styles.Bold.Render(r.inline(c)))
			} else {
				b.WriteString(r.styles.Italic.Render(r.inline(c)))
			}
		case *east.Strikethrough:
			b.WriteString(r.styles.Strikethrough.Render(r.inline(c)))
		case *ast.Link:
			label := r.inline(c)
			dest := string(c.Destination)
			b.WriteString(r.styles.Link.Render(label))
			if dest != "" && dest != label {
				b.WriteString(" (" + dest + ")")
			}
		case *ast.AutoLink:
			b.WriteString(r.styles.Link.Render(string(c.URL(r.src))))
		case *ast.Image:
			b.WriteString(r.inline(c))
		case *east.TaskCheckBox:
			if c.IsChecked {
				b.WriteString("[x] ")
			} else {
				b.WriteString("[ ] ")
			}
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				b.Write(seg.Value(r.src))
			}
		default:
			b.WriteString(r.inline(c))
		}
	}
	return b.String()
}

// plain collects the unstyled text of an inline subtree.
func (r *termRenderer) plain(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(r.src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

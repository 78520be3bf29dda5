package changelog

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestHTMLHeadingAndList(t *testing.T) {
	got := HTML("# Notes\n- a\n- b")

	for _, want := range []string{"<h1>Notes</h1>", "<ul>", "<li>a</li>", "<li>b</li>", "</ul>"} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML() = %q, missing %q", got, want)
		}
	}
	if strings.Count(got, "<li>") != 2 {
		t.Errorf("HTML() should contain exactly two list items, got %q", got)
	}
}

func TestHTMLFencedCode(t *testing.T) {
	got := HTML("```go\nfmt.Println(\"<hi>\")\n```")
	if !strings.Contains(got, `<pre><code class="language-go">`) {
		t.Errorf("HTML() = %q, want a fenced code block", got)
	}
	if !strings.Contains(got, "&lt;hi&gt;") {
		t.Errorf("HTML() should escape code content, got %q", got)
	}
}

func TestHTMLTable(t *testing.T) {
	got := HTML("| mod | version |\n| --- | --- |\n| JEI | 15.2 |")
	for _, want := range []string{"<table>", "<th>mod</th>", "<td>JEI</td>", "<td>15.2</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML() = %q, missing %q", got, want)
		}
	}
}

func TestHTMLSoftBreaksArePreserved(t *testing.T) {
	got := HTML("line one\nline two")
	if !strings.Contains(got, "<br") {
		t.Errorf("HTML() = %q, soft break should become <br>", got)
	}
}

func TestHTMLRawHTMLOmitted(t *testing.T) {
	got := HTML("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("HTML() = %q, raw HTML should not pass through", got)
	}
}

func TestRenderersAreTotal(t *testing.T) {
	inputs := []string{
		"",
		"```\nunterminated fence",
		"| a | b |\n| --- |\n| 1 | 2 | 3 |",
		"|||\n|-|",
		"* * *\n>>>>> deep\n- [ ] task\n- [x] done",
		"[broken](",
		"<div>unclosed",
		"\x00\xff\xfe invalid utf8",
		strings.Repeat("> ", 500) + "deep quote",
		strings.Repeat("- ", 200) + "deep list",
		"# 更新日志\n- 修复了崩溃",
	}

	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("renderer panicked on %q: %v", in, r)
				}
			}()
			_ = HTML(in)
			_ = Terminal(in, 40)
			_ = Terminal(in, 0)
		}()
	}
}

func TestTerminalHeadingAndList(t *testing.T) {
	got := Terminal("# Notes\n- a\n- b", 0)
	lines := strings.Split(got, "\n")

	if len(lines) < 4 {
		t.Fatalf("Terminal() = %q, want heading, blank line and two items", got)
	}
	if !strings.Contains(lines[0], "Notes") {
		t.Errorf("first line = %q, want heading", lines[0])
	}
	if !strings.Contains(got, "• a") || !strings.Contains(got, "• b") {
		t.Errorf("Terminal() = %q, want bullet items", got)
	}
}

func TestTerminalOrderedList(t *testing.T) {
	got := Terminal("3. three\n4. four", 0)
	if !strings.Contains(got, "3. three") || !strings.Contains(got, "4. four") {
		t.Errorf("Terminal() = %q, want numbered items", got)
	}
}

func TestTerminalCodeBlock(t *testing.T) {
	got := Terminal("```\n-Xmx4096m\n```", 0)
	if !strings.Contains(got, "    -Xmx4096m") {
		t.Errorf("Terminal() = %q, want indented code", got)
	}
}

func TestTerminalSoftBreak(t *testing.T) {
	got := Terminal("line one\nline two", 0)
	if got != "line one\nline two" {
		t.Errorf("Terminal() = %q, want soft break preserved", got)
	}
}

func TestTerminalTableAlignsWideCharacters(t *testing.T) {
	got := Terminal("| 模组 | v |\n| --- | --- |\n| JEI | 1 |\n| 机械动力 | 2 |", 0)
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("Terminal() = %q, want 4 table lines", got)
	}

	sep := strings.Index(lines[2], "│")
	if sep < 0 {
		t.Fatalf("row %q has no column separator", lines[2])
	}
	want := runewidth.StringWidth(lines[2][:sep])
	for _, l := range []string{lines[0], lines[3]} {
		i := strings.Index(l, "│")
		if i < 0 {
			t.Fatalf("row %q has no column separator", l)
		}
		if w := runewidth.StringWidth(l[:i]); w != want {
			t.Errorf("row %q separator at width %d, want %d", l, w, want)
		}
	}
}

func TestTerminalWrap(t *testing.T) {
	got := Terminal("one two three four five six seven eight nine ten", 12)
	for _, l := range strings.Split(got, "\n") {
		if runewidth.StringWidth(l) > 12 {
			t.Errorf("line %q exceeds width 12", l)
		}
	}
}

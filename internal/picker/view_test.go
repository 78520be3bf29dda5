package picker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/endlesspixel/launcher/internal/release"
)

// boundView returns a view bound to a catalog whose source yields each batch
// in order, one per Refresh.
func boundView(t *testing.T, batches ...[]release.Entry) (*View, *release.Catalog) {
	t.Helper()
	ctrl := gomock.NewController(t)
	src := release.NewMockSource(ctrl)

	calls := make([]*gomock.Call, 0, len(batches))
	for _, b := range batches {
		calls = append(calls, src.EXPECT().Fetch(gomock.Any()).Return(b, nil))
	}
	gomock.InOrder(calls...)

	cat := release.NewCatalog(src)
	v := New(cat)
	v.Bind()
	return v, cat
}

func refresh(t *testing.T, cat *release.Catalog) {
	t.Helper()
	if _, err := cat.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
}

func TestInitialSelectionIsNone(t *testing.T) {
	v, _ := boundView(t)
	sel := v.Selection()
	if sel.Valid || sel.Index != -1 || sel.Tag != "" {
		t.Errorf("Selection() = %+v, want none", sel)
	}
	if len(v.Labels()) != 0 {
		t.Errorf("Labels() = %v, want empty", v.Labels())
	}
}

func TestPopulateSingleRelease(t *testing.T) {
	v, cat := boundView(t, []release.Entry{
		{Tag: "v1.0", DisplayName: "Release 1.0", Description: "# Notes\n- a\n- b"},
	})
	refresh(t, cat)

	if cat.Len() != 1 {
		t.Fatalf("catalog has %d entries, want 1", cat.Len())
	}
	sel := v.Selection()
	if !sel.Valid || sel.Tag != "v1.0" || sel.Index != 0 {
		t.Errorf("Selection() = %+v, want v1.0 at 0", sel)
	}

	labels := v.Labels()
	if len(labels) != 1 || labels[0].Text != "Release 1.0 (v1.0)" || labels[0].Tag != "v1.0" {
		t.Errorf("Labels() = %+v", labels)
	}

	out := v.Output()
	if !strings.Contains(out, "<h1>Notes</h1>") {
		t.Errorf("Output() = %q, want heading Notes", out)
	}
	if strings.Count(out, "<li>") != 2 {
		t.Errorf("Output() = %q, want a two-item list", out)
	}
}

func TestPopulateEmptyCatalog(t *testing.T) {
	v, cat := boundView(t, []release.Entry{})
	refresh(t, cat)

	if cat.Len() != 0 {
		t.Errorf("catalog has %d entries, want 0", cat.Len())
	}
	if v.Selection().Valid {
		t.Errorf("Selection() = %+v, want none", v.Selection())
	}
	if v.Output() != DefaultEmpty {
		t.Errorf("Output() = %q, want %q", v.Output(), DefaultEmpty)
	}
}

func TestPopulateSelectsFirstOfN(t *testing.T) {
	entries := []release.Entry{
		{Tag: "v3", DisplayName: "Three", Description: "third"},
		{Tag: "v2", DisplayName: "Two", Description: "second"},
		{Tag: "v1", DisplayName: "One", Description: "first"},
	}
	v, cat := boundView(t, entries)
	refresh(t, cat)

	labels := v.Labels()
	if len(labels) != len(entries) {
		t.Fatalf("Labels() has %d rows, want %d", len(labels), len(entries))
	}
	for i, e := range entries {
		if labels[i].Tag != e.Tag {
			t.Errorf("Labels()[%d].Tag = %q, want %q", i, labels[i].Tag, e.Tag)
		}
	}
	if v.Selection().Tag != "v3" {
		t.Errorf("Selection().Tag = %q, want v3", v.Selection().Tag)
	}
}

func TestRenderPlaceholders(t *testing.T) {
	v, cat := boundView(t, []release.Entry{
		{Tag: "v2", DisplayName: "v2", Description: "   \n\t"},
		{Tag: "v1", DisplayName: "v1", Description: ""},
	})
	refresh(t, cat)

	if v.Output() != DefaultEmpty {
		t.Errorf("blank description Output() = %q, want %q", v.Output(), DefaultEmpty)
	}

	v.Select(1)
	if v.Output() != DefaultEmpty {
		t.Errorf("empty description Output() = %q, want %q", v.Output(), DefaultEmpty)
	}

	v.Render("v404")
	if v.Output() != DefaultNotFound {
		t.Errorf("unknown tag Output() = %q, want %q", v.Output(), DefaultNotFound)
	}
}

func TestCustomPlaceholders(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := release.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return([]release.Entry{{Tag: "v1", DisplayName: "v1"}}, nil)

	cat := release.NewCatalog(src)
	v := New(cat, WithPlaceholders("missing", "empty"))
	v.Bind()
	refresh(t, cat)

	if v.Output() != "empty" {
		t.Errorf("Output() = %q, want custom empty placeholder", v.Output())
	}
	v.Render("nope")
	if v.Output() != "missing" {
		t.Errorf("Output() = %q, want custom not-found placeholder", v.Output())
	}
}

func TestSelectOutOfRangeIsNoop(t *testing.T) {
	v, cat := boundView(t, []release.Entry{
		{Tag: "v2", DisplayName: "v2", Description: "two"},
		{Tag: "v1", DisplayName: "v1", Description: "one"},
	})
	refresh(t, cat)

	v.Select(1)
	before, out := v.Selection(), v.Output()

	for _, idx := range []int{-1, -100, 2, 99} {
		v.Select(idx)
		if v.Selection() != before {
			t.Errorf("Select(%d) changed selection to %+v", idx, v.Selection())
		}
		if v.Output() != out {
			t.Errorf("Select(%d) changed output to %q", idx, v.Output())
		}
	}
}

func TestSelectRendersEntry(t *testing.T) {
	v, cat := boundView(t, []release.Entry{
		{Tag: "v2", DisplayName: "v2", Description: "**two**"},
		{Tag: "v1", DisplayName: "v1", Description: "*one*"},
	})
	refresh(t, cat)

	v.Select(1)
	if sel := v.Selection(); sel.Tag != "v1" || sel.Index != 1 {
		t.Errorf("Selection() = %+v, want v1 at 1", sel)
	}
	if !strings.Contains(v.Output(), "<em>one</em>") {
		t.Errorf("Output() = %q, want rendered v1 changelog", v.Output())
	}
}

func TestReplacementResetsSelection(t *testing.T) {
	v, cat := boundView(t,
		[]release.Entry{
			{Tag: "v2", DisplayName: "v2", Description: "two"},
			{Tag: "v1", DisplayName: "v1", Description: "one"},
		},
		[]release.Entry{
			{Tag: "v3", DisplayName: "v3", Description: "three"},
			{Tag: "v2", DisplayName: "v2", Description: "two"},
		},
		[]release.Entry{},
	)

	refresh(t, cat)
	v.Select(1)
	if v.Selection().Tag != "v1" {
		t.Fatalf("Selection().Tag = %q, want v1", v.Selection().Tag)
	}

	refresh(t, cat)
	if sel := v.Selection(); sel.Tag != "v3" || sel.Index != 0 {
		t.Errorf("after replacement Selection() = %+v, want v3 at 0", sel)
	}
	if !strings.Contains(v.Output(), "three") {
		t.Errorf("Output() = %q, want v3 changelog", v.Output())
	}

	refresh(t, cat)
	if v.Selection().Valid {
		t.Errorf("after empty replacement Selection() = %+v, want none", v.Selection())
	}
	if v.Output() != DefaultEmpty {
		t.Errorf("Output() = %q, want %q", v.Output(), DefaultEmpty)
	}
}

func TestShowErrorKeepsSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := release.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Fetch(gomock.Any()).Return([]release.Entry{{Tag: "v1", DisplayName: "v1", Description: "one"}}, nil),
		src.EXPECT().Fetch(gomock.Any()).Return(nil, &release.Error{Kind: release.KindRemote, Message: "unexpected status 500", StatusCode: 500}),
	)

	cat := release.NewCatalog(src)
	v := New(cat)
	v.Bind()
	refresh(t, cat)

	_, err := cat.Refresh(context.Background())
	if !errors.Is(err, release.KindRemote) {
		t.Fatalf("Refresh() error = %v, want RemoteError", err)
	}
	v.ShowError(err)

	if v.Selection().Tag != "v1" {
		t.Errorf("Selection().Tag = %q, want v1", v.Selection().Tag)
	}
	if !strings.Contains(v.Output(), "status 500") {
		t.Errorf("Output() = %q, want diagnostic text", v.Output())
	}

	v.ShowError(nil)
	if !strings.Contains(v.Output(), "status 500") {
		t.Error("ShowError(nil) should not change output")
	}
}

func TestRendererPanicFallsBackToLiteral(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := release.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return([]release.Entry{{Tag: "v1", DisplayName: "v1", Description: "raw *text*"}}, nil)

	cat := release.NewCatalog(src)
	v := New(cat, WithRenderer(func(string) string { panic("renderer bug") }))
	v.Bind()
	refresh(t, cat)

	if v.Output() != "raw *text*" {
		t.Errorf("Output() = %q, want literal description", v.Output())
	}
}

func TestSelectionListener(t *testing.T) {
	v, cat := boundView(t, []release.Entry{
		{Tag: "v2", DisplayName: "v2", Description: "two"},
		{Tag: "v1", DisplayName: "v1", Description: "one"},
	})

	var got []Selection
	v.OnSelectionChanged(func(sel Selection, output string) {
		got = append(got, sel)
		if output == "" {
			t.Error("listener received empty output")
		}
	})

	refresh(t, cat)
	v.Select(1)
	v.Select(7)

	if len(got) != 2 {
		t.Fatalf("listener called %d times, want 2", len(got))
	}
	if got[0].Tag != "v2" || got[1].Tag != "v1" {
		t.Errorf("listener saw %+v", got)
	}
}

package statsui

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/chatcloud/internal/aggregate"
	"github.com/verte-zerg/chatcloud/internal/datebin"
	"github.com/verte-zerg/chatcloud/internal/model"
)

func sampleRecords() []*model.ChatRecord {
	return []*model.ChatRecord{
		{
			Stream: model.StreamInfo{VodID: 1, CreatedAt: "2024-01-01T12:00:00Z"},
			Chats: map[string]*model.UserChat{
				"A": {NMessages: 2, Terms: map[string]int{"hi": 2}},
				"B": {NMessages: 1, Terms: map[string]int{"hi": 1, "bye": 1}},
			},
		},
		{
			Stream: model.StreamInfo{VodID: 2, CreatedAt: "2024-01-02T12:00:00Z"},
			Chats: map[string]*model.UserChat{
				"A":        {NMessages: 3, Terms: map[string]int{"bye": 3}},
				"nightbot": {NMessages: 9, Terms: map[string]int{"!cmd": 1}},
			},
		},
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(Config{
		Channel: "test",
		Records: sampleRecords(),
		Binner:  datebin.New(time.UTC),
		Options: model.ViewOptions{
			NTerms:      10,
			ScaleFactor: 1,
			ByCount:     true,
			TrendScale:  true,
		},
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.Options().Palette != "nuuk" {
		t.Fatalf("expected default palette, got %q", m.Options().Palette)
	}
	if m.Dataset().NDates() != 2 {
		t.Fatalf("expected 2 dates, got %d", m.Dataset().NDates())
	}
	if view := m.View(); !strings.Contains(view, "Term Trends") {
		t.Fatalf("expected tabs in view")
	}
}

func TestNewModelRejectsBadOptions(t *testing.T) {
	if _, err := NewModel(Config{Options: model.ViewOptions{Palette: "nope"}}); err == nil {
		t.Fatalf("expected palette error")
	}
	if _, err := NewModel(Config{Options: model.ViewOptions{Streams: "x9"}}); err == nil {
		t.Fatalf("expected selector error")
	}
}

func TestTermRowsFollowRanking(t *testing.T) {
	m := newTestModel(t)
	rows := m.termTable.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "bye" || rows[0][1] != "4" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
}

func TestToggleKeys(t *testing.T) {
	m := newTestModel(t)
	m.Update(runeKey("p"))
	m.Update(runeKey("b"))
	m.Update(runeKey("s"))
	opts := m.Options()
	if !opts.ToPercent || !opts.KeepBots || opts.ByCount {
		t.Fatalf("unexpected options after toggles: %+v", opts)
	}
	m.Update(runeKey("w"))
	if !m.Options().WeightedTrend {
		t.Fatalf("expected weighted trend on")
	}
}

func TestEnterSelectsTerm(t *testing.T) {
	m := newTestModel(t)
	for m.activeTab != tabTerms {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !reflect.DeepEqual(m.Options().Terms, []string{"bye"}) {
		t.Fatalf("expected bye selected, got %v", m.Options().Terms)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.Options().Terms) != 0 {
		t.Fatalf("expected selection cleared, got %v", m.Options().Terms)
	}
}

func TestRenderCloud(t *testing.T) {
	m := newTestModel(t)
	out := m.renderCloud(80)
	for _, term := range []string{"bye", "hi"} {
		if !strings.Contains(out, term) {
			t.Fatalf("expected %q in cloud: %s", term, out)
		}
	}
	if strings.Contains(out, "!cmd") {
		t.Fatalf("expected bot terms to be left out: %s", out)
	}

	m.excluded = map[string]struct{}{"bye": {}, "hi": {}}
	if out := m.renderCloud(80); out != "No terms found." {
		t.Fatalf("expected empty cloud, got %s", out)
	}
}

func TestDefaultUsersSkipBots(t *testing.T) {
	m := newTestModel(t)
	if got := m.defaultUsers(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("unexpected users %v", got)
	}
	m.opts.KeepBots = true
	if got := m.defaultUsers(); got[0] != "nightbot" {
		t.Fatalf("expected nightbot first, got %v", got)
	}
}

func TestRenderDetails(t *testing.T) {
	m := newTestModel(t)
	out := m.renderDetails(80)
	for _, want := range []string{"Dates", "24/01/01", "24/01/02"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in details: %s", want, out)
		}
	}
}

func TestApplyFilter(t *testing.T) {
	m := newTestModel(t)
	m.startFilter()
	m.filterInputs[inputStreams].SetValue("n1")
	m.filterInputs[inputUsers].SetValue("A, A B")
	m.filterInputs[inputNTerms].SetValue("3")
	m.filterInputs[inputPalette].SetValue("imola")
	m.filterInputs[inputWindow].SetValue("5")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	opts := m.Options()
	if opts.Streams != "n1" || opts.NTerms != 3 || opts.Palette != "imola" || m.window != 5 {
		t.Fatalf("unexpected options %+v window=%d", opts, m.window)
	}
	if !reflect.DeepEqual(opts.Users, []string{"A", "B"}) {
		t.Fatalf("unexpected users %v", opts.Users)
	}
	if m.Dataset().NDates() != 1 {
		t.Fatalf("expected one date after reaggregation, got %d", m.Dataset().NDates())
	}
}

func TestApplyFilterRejectsBadInput(t *testing.T) {
	cases := map[int]string{
		inputStreams: "x",
		inputNTerms:  "0",
		inputPalette: "nope",
		inputWindow:  "-1",
	}
	for idx, value := range cases {
		m := newTestModel(t)
		m.startFilter()
		m.filterInputs[idx].SetValue(value)
		if err := m.applyFilter(); err == nil {
			t.Fatalf("expected error for input %d = %q", idx, value)
		}
		if m.Options().Palette != "nuuk" || m.Options().Streams != "" {
			t.Fatalf("options changed after rejected input: %+v", m.Options())
		}
	}
}

func TestRangeUsesBinnerZone(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("minus5", -5*3600)
	t.Cleanup(func() { time.Local = prev })

	records := append(sampleRecords(), &model.ChatRecord{
		Stream: model.StreamInfo{VodID: 3, CreatedAt: "2024-01-02T04:30:00Z"},
		Chats:  map[string]*model.UserChat{"C": {NMessages: 1, Terms: map[string]int{"yo": 1}}},
	})
	m, err := NewModel(Config{
		Records: records,
		Binner:  datebin.New(time.UTC),
		Options: model.ViewOptions{NTerms: 10, ScaleFactor: 1, Streams: "20240102,20240102"},
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	if keys := m.Dataset().DateKeys(); len(keys) != 1 || keys[0] != "24/01/02" {
		t.Fatalf("expected only 24/01/02, got %v", keys)
	}
	if _, ok := m.Dataset().Users["C"]; !ok {
		t.Fatalf("expected the early stream to be kept")
	}

	m.startFilter()
	m.filterInputs[inputStreams].SetValue("20240101,20240101")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := m.Dataset().Users["C"]; ok {
		t.Fatalf("stream from 24/01/02 should be dropped")
	}
}

func TestToggleWeightedKeepsError(t *testing.T) {
	m := newTestModel(t)
	m.opts.Streams = "bad"
	m.Update(runeKey("w"))
	if m.errMsg == "" {
		t.Fatalf("expected reaggregate error to be shown")
	}
	if !strings.Contains(m.View(), m.errMsg) {
		t.Fatalf("expected error in footer")
	}
}

func TestSuggestions(t *testing.T) {
	m := newTestModel(t)
	m.startFilter()
	m.setFilterIndex(inputTerms)
	m.filterInputs[inputTerms].SetValue("hi, by")
	if got := m.suggestions(); !reflect.DeepEqual(got, []string{"bye"}) {
		t.Fatalf("unexpected suggestions %v", got)
	}
	m.setFilterIndex(inputNTerms)
	if got := m.suggestions(); got != nil {
		t.Fatalf("expected no suggestions, got %v", got)
	}
}

func TestSeriesCache(t *testing.T) {
	m := newTestModel(t)
	m.series.Purge()
	sel := aggregate.Selection{Terms: []string{"hi"}}
	first := m.seriesFor(sel)
	second := m.seriesFor(sel)
	if m.series.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", m.series.Len())
	}
	if !reflect.DeepEqual(first.Terms["hi"], model.Vector{3, 0}) || !reflect.DeepEqual(first, second) {
		t.Fatalf("unexpected series %+v", first)
	}
	m.opts.ToPercent = true
	if pct := m.seriesFor(sel); pct.Terms["hi"][0] != 75 {
		t.Fatalf("expected 75%%, got %v", pct.Terms["hi"])
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(" a,b  a ,c "); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected list %v", got)
	}
	if splitList(" , ") != nil {
		t.Fatalf("expected nil for empty list")
	}
}

func TestWindowSteps(t *testing.T) {
	if nextWindow(1) != 5 || nextWindow(5) != 10 || nextWindow(7) != 10 {
		t.Fatalf("unexpected next window")
	}
	if prevWindow(5) != 1 || prevWindow(10) != 5 || prevWindow(7) != 5 {
		t.Fatalf("unexpected prev window")
	}
}

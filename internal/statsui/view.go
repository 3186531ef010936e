package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/chatcloud/internal/aggregate"
	"github.com/verte-zerg/chatcloud/internal/model"
	"github.com/verte-zerg/chatcloud/internal/rank"
	"github.com/verte-zerg/chatcloud/internal/stats"
	"github.com/verte-zerg/chatcloud/internal/wordlist"
)

func (m *Model) termFilter() wordlist.FilterFunc {
	return wordlist.TermFilter(m.excluded, m.opts.KeepAts)
}

func (m *Model) botFilter() func(string) bool {
	if m.opts.KeepBots {
		return nil
	}
	return m.bots.Known
}

// cloudTerms ranks the word-cloud terms for the current options.
func (m *Model) cloudTerms() []rank.WeightedTerm {
	counts := aggregate.TermCounts(m.ds, aggregate.CloudFilter{
		Users:    m.opts.Users,
		KeepBots: m.opts.KeepBots,
		KeepAts:  m.opts.KeepAts,
		Keep:     m.termFilter(),
	})
	return rank.Cloud(counts, m.ds.TermStats, rank.CloudOptions{
		Policy:      model.ByWeight,
		NTerms:      m.opts.NTerms,
		ScaleFactor: m.opts.ScaleFactor,
		TrendScale:  m.opts.TrendScale,
		PaletteLen:  len(m.pal),
		Reverse:     m.opts.ReversePalette,
	})
}

func (m *Model) renderCloud(width int) string {
	terms := m.cloudTerms()
	if len(terms) == 0 {
		return "No terms found."
	}
	heading := fmt.Sprintf("%d terms from %s streams", len(terms), humanize.Comma(int64(len(m.ds.Records))))
	if len(m.opts.Users) > 0 {
		heading += " by " + strings.Join(m.opts.Users, ", ")
	}
	boldCut := max(1, len(terms)/10)

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for i, term := range terms {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.pal.Color(term.Color)))
		if i < boldCut {
			style = style.Bold(true)
		}
		w := lipgloss.Width(term.Name)
		if lineWidth > 0 && lineWidth+2+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteString("  ")
			lineWidth += 2
		}
		line.WriteString(style.Render(term.Name))
		lineWidth += w
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return titleStyle.Render(heading) + "\n\n" + strings.Join(lines, "\n")
}

// defaultTerms picks the series shown when no terms are selected.
func (m *Model) defaultTerms() []string {
	keep := m.termFilter()
	var out []string
	for _, term := range rank.RankTerms(m.ds, m.opts.Policy()) {
		if len(out) == defaultSeries {
			break
		}
		if keep(term) {
			out = append(out, term)
		}
	}
	return out
}

func (m *Model) defaultUsers() []string {
	users := rank.RankUsers(m.ds, m.botFilter())
	if len(users) > defaultSeries {
		users = users[:defaultSeries]
	}
	return users
}

func (m *Model) renderTermTrends(width int) string {
	names := m.opts.Terms
	if len(names) == 0 {
		names = m.defaultTerms()
	}
	series := m.seriesFor(aggregate.Selection{Users: m.opts.Users, Terms: names})
	title := "Term Trends"
	if len(m.opts.Users) > 0 {
		title += " for " + strings.Join(m.opts.Users, ", ")
	}
	return m.renderTrends(title, names, series.Terms, width)
}

func (m *Model) renderUserTrends(width int) string {
	names := m.opts.Users
	if len(names) == 0 {
		names = m.defaultUsers()
	}
	series := m.seriesFor(aggregate.Selection{Users: names, Terms: m.opts.Terms})
	title := "User Messages Over Time"
	if len(m.opts.Terms) > 0 {
		title = "User Trends for " + strings.Join(m.opts.Terms, ", ")
	}
	return m.renderTrends(title, names, series.Users, width)
}

func (m *Model) renderTrends(title string, names []string, vectors map[string]model.Vector, width int) string {
	values := make(map[string][]float64, len(vectors))
	for name, v := range vectors {
		values[name] = v
	}
	var buf bytes.Buffer
	err := stats.RenderTrends(&buf, m.ds.DateKeys(), names, values, stats.TrendOptions{
		Title:      title,
		Window:     m.window,
		TotalWidth: width,
		Height:     plotHeight,
		UseColor:   true,
		Percent:    m.opts.ToPercent,
	})
	if err != nil {
		return fmt.Sprintf("Failed to render trends: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderDetails(int) string {
	var buf bytes.Buffer
	terms := m.opts.Terms
	if len(terms) == 0 {
		terms = m.defaultTerms()
	}
	users := m.opts.Users
	if len(users) == 0 {
		users = m.defaultUsers()
	}
	right := map[int]bool{1: true}
	for _, d := range rank.Details(m.ds, rank.DetailQuery{Names: terms}) {
		_ = stats.RenderTable(&buf, stats.Table{
			Title:      titleStyle.Render(d.Name),
			Headers:    []string{"Users", "Uses"},
			Rows:       entryRows(d.Entries),
			RightAlign: right,
		})
	}
	for _, d := range rank.Details(m.ds, rank.DetailQuery{ByUser: true, Names: users}) {
		_ = stats.RenderTable(&buf, stats.Table{
			Title:      titleStyle.Render(d.Name),
			Headers:    []string{"Words", "Uses"},
			Rows:       entryRows(d.Entries),
			RightAlign: right,
		})
	}
	_ = stats.RenderTable(&buf, stats.Table{
		Title:      titleStyle.Render("Dates"),
		Headers:    []string{"Date", "Streams", "Messages", "Words"},
		Rows:       dateRows(m.ds.Dates),
		RightAlign: map[int]bool{1: true, 2: true, 3: true},
	})
	if n := len(m.ds.Warnings); n > 0 {
		fmt.Fprintf(&buf, "%d streams skipped (unreadable start time)\n", n)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func entryRows(entries []rank.Entry) [][]string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Name, humanize.Comma(int64(e.Count))}
	}
	return rows
}

func dateRows(dates []*model.DateEntry) [][]string {
	rows := make([][]string, len(dates))
	for i, d := range dates {
		rows[i] = []string{
			d.Key,
			humanize.Comma(int64(len(d.Records))),
			humanize.Comma(int64(d.Messages)),
			humanize.Comma(int64(d.Words)),
		}
	}
	return rows
}

func termColumns() []table.Column {
	return []table.Column{
		{Title: "Term", Width: 20},
		{Title: "Count", Width: 9},
		{Title: "Trend", Width: 7},
		{Title: "Users", Width: 7},
		{Title: "Over time", Width: 20},
	}
}

func termRows(ds *model.Dataset, ranked []string) []table.Row {
	rows := make([]table.Row, 0, len(ranked))
	for _, term := range ranked {
		st := ds.TermStats[term]
		rows = append(rows, table.Row{
			term,
			humanize.Comma(int64(st.Count)),
			fmt.Sprintf("%+.2f", st.Cor),
			humanize.Comma(int64(len(ds.TermUsers[term]))),
			stats.Sparkline(ds.Terms[term]),
		})
	}
	return rows
}

func buildTermTable(rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(termColumns()),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(termTableStyles())
	return t
}

func termTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

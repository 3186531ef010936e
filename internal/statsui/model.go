// Package statsui provides the Bubble Tea chat browser.
package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/chatcloud/internal/aggregate"
	"github.com/verte-zerg/chatcloud/internal/bots"
	"github.com/verte-zerg/chatcloud/internal/datebin"
	"github.com/verte-zerg/chatcloud/internal/model"
	"github.com/verte-zerg/chatcloud/internal/palette"
	"github.com/verte-zerg/chatcloud/internal/rank"
	"github.com/verte-zerg/chatcloud/internal/wordlist"
)

const (
	tabCloud = iota
	tabTermTrends
	tabUserTrends
	tabTerms
	tabDetails
)

const (
	plotHeight     = 10
	defaultSeries  = 5
	defaultWindow  = 1
	seriesCacheLen = 64
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Config is what the browser needs to start.
type Config struct {
	Channel  string
	Records  []*model.ChatRecord
	Options  model.ViewOptions
	Binner   *datebin.Binner
	Excluded wordlist.Set
}

// Model implements the Bubble Tea chat browser.
type Model struct {
	channel  string
	records  []*model.ChatRecord
	binner   *datebin.Binner
	excluded wordlist.Set
	opts     model.ViewOptions

	ds     *model.Dataset
	bots   *bots.Classifier
	pal    palette.Palette
	series *seriesCache
	window int
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	termTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs the browser over a loaded channel archive. The records
// are aggregated immediately; a selector or palette error is returned before
// any UI is built.
func NewModel(cfg Config) (*Model, error) {
	binner := cfg.Binner
	if binner == nil {
		binner = datebin.New(nil)
	}
	cache, err := newSeriesCache(seriesCacheLen)
	if err != nil {
		return nil, err
	}
	m := &Model{
		channel:  cfg.Channel,
		records:  cfg.Records,
		binner:   binner,
		excluded: cfg.Excluded,
		opts:     cfg.Options,
		bots:     bots.New(),
		series:   cache,
		window:   defaultWindow,
		tabs:     []string{"Cloud", "Term Trends", "User Trends", "Terms", "Details"},
	}
	if err := m.setPalette(cfg.Options.Palette); err != nil {
		return nil, err
	}
	if err := m.reaggregate(); err != nil {
		return nil, err
	}
	m.initInputs()
	m.termTable = buildTermTable(nil, 0, 1)
	m.initViewports()
	m.refresh()
	return m, nil
}

// Dataset returns the dataset currently shown.
func (m *Model) Dataset() *model.Dataset {
	return m.ds
}

// Options returns the current view options.
func (m *Model) Options() model.ViewOptions {
	return m.opts
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabTerms {
			m.termTable.Focus()
		} else {
			m.termTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startFilter()
		case "p":
			m.opts.ToPercent = !m.opts.ToPercent
			m.refresh()
			return m, nil
		case "b":
			m.opts.KeepBots = !m.opts.KeepBots
			m.refresh()
			return m, nil
		case "@":
			m.opts.KeepAts = !m.opts.KeepAts
			m.refresh()
			return m, nil
		case "s":
			m.opts.ByCount = !m.opts.ByCount
			m.refresh()
			return m, nil
		case "t":
			m.opts.TrendScale = !m.opts.TrendScale
			m.refresh()
			return m, nil
		case "r":
			m.opts.ReversePalette = !m.opts.ReversePalette
			m.refresh()
			return m, nil
		case "w":
			m.opts.WeightedTrend = !m.opts.WeightedTrend
			err := m.reaggregate()
			m.refresh()
			if err != nil {
				m.errMsg = err.Error()
			}
			return m, nil
		case "=":
			m.window = nextWindow(m.window)
			m.renderTabContents()
			return m, nil
		case "-":
			m.window = prevWindow(m.window)
			m.renderTabContents()
			return m, nil
		case "c":
			m.opts.Terms = nil
			m.opts.Users = nil
			m.refresh()
			return m, nil
		case "enter":
			if m.activeTab == tabTerms {
				m.toggleSelectedTerm()
				m.refresh()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabTerms {
				m.termTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTerms {
				m.termTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabTerms {
				var cmd tea.Cmd
				m.termTable, cmd = m.termTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) setPalette(name string) error {
	if name == "" {
		name = palette.Default
	}
	pal, err := palette.Get(name)
	if err != nil {
		return err
	}
	m.opts.Palette = name
	m.pal = pal
	return nil
}

// reaggregate rebuilds the dataset for the current streams selector. A new
// classifier is used per rebuild so bot detections do not leak between
// stream selections.
func (m *Model) reaggregate() error {
	sel, err := aggregate.ParseSelector(m.opts.Streams, m.binner.Location())
	if err != nil {
		return err
	}
	m.bots = bots.New()
	m.ds = aggregate.Aggregate(m.records, aggregate.Options{
		Selector:      sel,
		Classifier:    m.bots,
		Binner:        m.binner,
		WeightedTrend: m.opts.WeightedTrend,
	})
	m.series.Purge()
	return nil
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.termTable.SetWidth(m.width)
	m.termTable.SetHeight(max(1, vpHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabTerms {
		m.termTable.Focus()
	} else {
		m.termTable.Blur()
	}
}

func (m *Model) toggleSelectedTerm() {
	row := m.termTable.SelectedRow()
	if len(row) == 0 {
		return
	}
	term := row[0]
	for i, t := range m.opts.Terms {
		if t == term {
			m.opts.Terms = append(m.opts.Terms[:i:i], m.opts.Terms[i+1:]...)
			return
		}
	}
	m.opts.Terms = append(m.opts.Terms, term)
}

// refresh recomputes everything that depends on the options.
func (m *Model) refresh() {
	m.errMsg = ""
	cursor := m.termTable.Cursor()
	m.termTable.SetRows(termRows(m.ds, rank.RankTerms(m.ds, m.opts.Policy())))
	if cursor < len(m.termTable.Rows()) {
		m.termTable.SetCursor(cursor)
	}
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabCloud].SetContent(m.renderCloud(width))
	m.viewports[tabTermTrends].SetContent(m.renderTermTrends(width))
	m.viewports[tabUserTrends].SetContent(m.renderUserTrends(width))
	m.viewports[tabDetails].SetContent(m.renderDetails(width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderSummary() string {
	streams := m.opts.Streams
	if streams == "" {
		streams = "all"
	}
	summary := fmt.Sprintf("%s  streams=%s (%d dates)  sort=%s  percent=%s  bots=%s  @=%s  weighted=%s  window=%d",
		m.channel, streams, m.ds.NDates(), m.opts.Policy(),
		onOff(m.opts.ToPercent), onOff(m.opts.KeepBots), onOff(m.opts.KeepAts), onOff(m.opts.WeightedTrend), m.window)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Settings: /  Toggles: p b @ s t r w  Smooth: -/=  Clear: c  Quit: q"
	if m.activeTab == tabTerms {
		help = "Nav: left/right  Select term: enter  Settings: /  Toggles: p b @ s t r w  Clear: c  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabTerms {
		if len(m.termTable.Rows()) == 0 {
			return fitLines("No terms found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.termTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Package statsui provides the Bubble Tea engagement browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/engagecharts/internal/model"
	"github.com/verte-zerg/engagecharts/internal/stats"
)

const (
	tabBoxplot = iota
	tabBars
	tabDaily
)

const (
	plotHeight = 10
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
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Loader reads a fresh dataset on every reload.
type Loader func(ctx context.Context) (model.Dataset, error)

// Model implements the Bubble Tea engagement browser.
type Model struct {
	ctx   context.Context
	load  Loader
	order stats.KeyOrder

	dataset model.Dataset
	filter  stats.Filter
	report  stats.Report
	errMsg  string

	tabs      []string
	activeTab int
	boxTable  table.Model
	barTable  table.Model
	daily     viewport.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
}

// NewModel constructs the browser over an already loaded dataset. Reloads
// call load with ctx.
func NewModel(ctx context.Context, ds model.Dataset, load Loader, order stats.KeyOrder) *Model {
	m := &Model{
		ctx:   ctx,
		load:  load,
		order: order,
		tabs:  []string{"Boxplot", "Bars", "Daily"},
		daily: viewport.New(0, 0),
	}
	m.boxTable = newTable(boxColumns())
	m.barTable = newTable(barColumns())
	m.initInputs()
	m.dataset = ds
	m.refreshReport()
	return m
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
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.reload()
			m.updateLayout()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			m.gotoEdge(true)
			return m, nil
		case "G", "end":
			m.gotoEdge(false)
			return m, nil
		default:
			var cmd tea.Cmd
			switch m.activeTab {
			case tabBoxplot:
				m.boxTable, cmd = m.boxTable.Update(msg)
			case tabBars:
				m.barTable, cmd = m.barTable.Update(msg)
			default:
				m.daily, cmd = m.daily.Update(msg)
			}
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

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Platform: "),
		newFilterInput("Post type: "),
		newFilterInput("Age group: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	m.filterInputs[0].SetValue(m.filter.Platform)
	m.filterInputs[1].SetValue(m.filter.PostType)
	m.filterInputs[2].SetValue(m.filter.AgeGroup)
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
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.daily.Width = m.width
	m.daily.Height = bodyHeight
	sizeTable(&m.boxTable, m.width, bodyHeight)
	sizeTable(&m.barTable, m.width, bodyHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.focusActiveTable()
}

func (m *Model) focusActiveTable() {
	m.boxTable.Blur()
	m.barTable.Blur()
	switch m.activeTab {
	case tabBoxplot:
		m.boxTable.Focus()
	case tabBars:
		m.barTable.Focus()
	}
}

func (m *Model) gotoEdge(top bool) {
	switch m.activeTab {
	case tabBoxplot:
		if top {
			m.boxTable.GotoTop()
		} else {
			m.boxTable.GotoBottom()
		}
	case tabBars:
		if top {
			m.barTable.GotoTop()
		} else {
			m.barTable.GotoBottom()
		}
	default:
		if top {
			m.daily.GotoTop()
		} else {
			m.daily.GotoBottom()
		}
	}
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
	summary := padLines(m.renderSourceSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderSourceSummary() string {
	source := m.dataset.Source
	if source == "" {
		source = "-"
	}
	summary := fmt.Sprintf("Source: %s  records=%d  unusable=%d  filter: %s",
		source, m.report.Records, len(m.report.Coercion), m.filter)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Filter: /  Reload: r  Quit: q")
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

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (substring match, empty matches all)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	switch m.activeTab {
	case tabBoxplot:
		if len(m.report.Summaries) == 0 {
			return fitLines("No age groups found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.boxTable.View()), m.width, height)
	case tabBars:
		if len(m.report.Means) == 0 {
			return fitLines("No platforms found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.barTable.View()), m.width, height)
	}
	return fitLines(m.daily.View(), m.width, height)
}

func (m *Model) reload() {
	ds, err := m.load(m.ctx)
	if err != nil {
		log.Error().Err(err).Msg("reload failed")
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.dataset = ds
	m.refreshReport()
}

func (m *Model) refreshReport() {
	filtered := m.dataset
	filtered.Records = m.filter.Apply(m.dataset.Records)
	m.report = stats.BuildReport(filtered, m.order)
	m.boxTable.SetRows(boxRows(m.report.Summaries))
	m.barTable.SetRows(barRows(m.report.Means))
	m.focusActiveTable()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.daily.SetContent(renderDaily(m.report, width))
}

func renderDaily(report stats.Report, width int) string {
	if len(report.Daily) == 0 {
		return "No dated posts found."
	}
	var buf bytes.Buffer
	if err := stats.RenderDailyCurve(&buf, report.Daily, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render daily curve: %v", err)
	}
	buf.WriteString("\n")
	if err := stats.RenderDailyMeans(&buf, report.Daily); err != nil {
		return fmt.Sprintf("Failed to render daily means: %v", err)
	}
	if len(report.DroppedDates) > 0 {
		buf.WriteString(headerStyle.Render(fmt.Sprintf("Dropped dates: %s", strings.Join(report.DroppedDates, ", "))))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func boxColumns() []table.Column {
	return []table.Column{
		{Title: "Age Group", Width: 12},
		{Title: "N", Width: 6},
		{Title: "Min", Width: 10},
		{Title: "Q1", Width: 10},
		{Title: "Median", Width: 10},
		{Title: "Q3", Width: 10},
		{Title: "Max", Width: 10},
	}
}

func boxRows(summaries []model.GroupSummary) []table.Row {
	rows := make([]table.Row, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, table.Row{
			s.Key,
			fmt.Sprintf("%d", s.Count),
			stats.FormatValue(s.Min),
			stats.FormatValue(s.Q1),
			stats.FormatValue(s.Median),
			stats.FormatValue(s.Q3),
			stats.FormatValue(s.Max),
		})
	}
	return rows
}

func barColumns() []table.Column {
	return []table.Column{
		{Title: "Platform", Width: 14},
		{Title: "Post Type", Width: 12},
		{Title: "N", Width: 6},
		{Title: "Avg Likes", Width: 12},
	}
}

func barRows(means []model.PlatformTypeMean) []table.Row {
	rows := make([]table.Row, 0, len(means))
	for _, mean := range means {
		rows = append(rows, table.Row{
			mean.Platform,
			mean.PostType,
			fmt.Sprintf("%d", mean.Count),
			stats.FormatValue(mean.AvgLikes),
		})
	}
	return rows
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func sizeTable(t *table.Model, width, height int) {
	t.SetWidth(width)
	t.SetHeight(maxInt(1, height-1))
	// the header border height depends on the style, so correct once
	// against the rendered view
	if diff := height - lipgloss.Height(t.View()); diff != 0 {
		t.SetHeight(maxInt(1, t.Height()+diff))
	}
}

func tableStyles() table.Styles {
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

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		return m, nil
	case tea.KeyEnter:
		m.filter = stats.Filter{
			Platform: strings.TrimSpace(m.filterInputs[0].Value()),
			PostType: strings.TrimSpace(m.filterInputs[1].Value()),
			AgeGroup: strings.TrimSpace(m.filterInputs[2].Value()),
		}
		m.filterMode = false
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
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

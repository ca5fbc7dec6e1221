package tui

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/greenops"
	"github.com/rshade/ecofocus/internal/recommend"
	listview "github.com/rshade/ecofocus/internal/tui/list"
)

// RecommendationSortField represents the field to sort recommendations by.
type RecommendationSortField int

const (
	// SortByPriority orders by priority, then by impact magnitude.
	SortByPriority RecommendationSortField = iota
	// SortByImpact orders by impact magnitude, largest first.
	SortByImpact
	// SortByCategory orders by category name, then by priority.
	SortByCategory

	numRecommendationSortFields = 3
)

// String names the sort field for the status bar.
func (f RecommendationSortField) String() string {
	switch f {
	case SortByPriority:
		return "priority"
	case SortByImpact:
		return "impact"
	case SortByCategory:
		return "category"
	default:
		return "unknown"
	}
}

const (
	recSummaryHeight = 8

	recColWidthCategory   = 15
	recColWidthPriority   = 3
	recColWidthImpact     = 10
	recColWidthDifficulty = 6
	recColWidthText       = 52
)

// RecommendationsSummary aggregates the recommendations being shown.
type RecommendationsSummary struct {
	TotalCount      int
	TotalReduction  int
	CountByCategory map[calculator.Category]int
}

// NewRecommendationsSummary totals recs. Reductions are summed as magnitudes.
func NewRecommendationsSummary(recs []recommend.Recommendation) *RecommendationsSummary {
	s := &RecommendationsSummary{
		TotalCount:      len(recs),
		CountByCategory: make(map[calculator.Category]int),
	}
	for _, r := range recs {
		s.TotalReduction += r.AbsImpact()
		s.CountByCategory[r.Category]++
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func recRow(category, priority, impact, difficulty, text string) string {
	return fmt.Sprintf("%-*s  %*s  %*s  %-*s  %s",
		recColWidthCategory, category,
		recColWidthPriority, priority,
		recColWidthImpact, impact,
		recColWidthDifficulty, difficulty,
		text,
	)
}

// renderRecommendation formats one list row.
func renderRecommendation(rec recommend.Recommendation, selected bool) string {
	row := recRow(
		string(rec.Category),
		fmt.Sprintf("%d", rec.Priority),
		greenops.FormatNumber(int64(rec.ImpactEstimate)),
		string(rec.Difficulty),
		truncate(rec.Text, recColWidthText),
	)
	if selected {
		return SelectedStyle.Render(row)
	}
	return row
}

type recommendationsLoadedMsg struct {
	recommendations []recommend.Recommendation
	err             error
}

// RecommendationFetcher produces the recommendations to browse.
type RecommendationFetcher func(ctx context.Context) ([]recommend.Recommendation, error)

// RecommendationsViewModel is the Bubble Tea model of the recommendations browser.
type RecommendationsViewModel struct {
	state              ViewState
	allRecommendations []recommend.Recommendation
	recommendations    []recommend.Recommendation

	virtualList *listview.VirtualListModel[recommend.Recommendation]
	textInput   textinput.Model

	width      int
	height     int
	sortBy     RecommendationSortField
	showFilter bool

	loading  *LoadingState
	fetchCmd tea.Cmd

	summary *RecommendationsSummary
	err     error
}

// NewRecommendationsViewModel returns a model showing recs.
func NewRecommendationsViewModel(recs []recommend.Recommendation) *RecommendationsViewModel {
	m := &RecommendationsViewModel{
		state:     ViewStateList,
		textInput: newRecTextInput(),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.setRecommendations(recs)
	return m
}

// NewRecommendationsViewModelWithLoading returns a model that shows a spinner
// until fetcher returns.
func NewRecommendationsViewModelWithLoading(
	ctx context.Context,
	fetcher RecommendationFetcher,
) *RecommendationsViewModel {
	return &RecommendationsViewModel{
		state:     ViewStateLoading,
		loading:   NewLoadingState(),
		textInput: newRecTextInput(),
		summary:   NewRecommendationsSummary(nil),
		width:     defaultWidth,
		height:    defaultHeight,
		fetchCmd: func() tea.Msg {
			recs, err := fetcher(ctx)
			return recommendationsLoadedMsg{recommendations: recs, err: err}
		},
	}
}

func newRecTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "category, text or difficulty..."
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	return ti
}

func (m *RecommendationsViewModel) setRecommendations(recs []recommend.Recommendation) {
	m.allRecommendations = slices.Clone(recs)
	m.applyFilter()
}

// State returns the current view state.
func (m *RecommendationsViewModel) State() ViewState { return m.state }

// SortField returns the active sort field.
func (m *RecommendationsViewModel) SortField() RecommendationSortField { return m.sortBy }

// Visible returns the filtered and sorted recommendations.
func (m *RecommendationsViewModel) Visible() []recommend.Recommendation { return m.recommendations }

// Err returns the fetch error, if any.
func (m *RecommendationsViewModel) Err() error { return m.err }

// Init starts the spinner and the fetch when loading.
func (m *RecommendationsViewModel) Init() tea.Cmd {
	if m.state == ViewStateLoading {
		return tea.Batch(m.loading.Init(), m.fetchCmd)
	}
	return nil
}

// Update handles messages and updates the model state.
func (m *RecommendationsViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.rebuildList()
		return m, nil
	}

	if loaded, ok := msg.(recommendationsLoadedMsg); ok {
		if loaded.err != nil {
			m.err = loaded.err
			m.state = ViewStateError
			return m, tea.Quit
		}
		m.state = ViewStateList
		m.setRecommendations(loaded.recommendations)
		return m, nil
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateLoading:
		return m, m.loading.Update(msg)
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateQuitting, ViewStateError:
		return m.handleQuitUpdate(msg)
	default:
		return m, nil
	}
}

func (m *RecommendationsViewModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.applyFilter()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *RecommendationsViewModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEnter:
			if len(m.recommendations) > 0 {
				m.state = ViewStateDetail
			}
			return m, nil
		case keySlash:
			m.showFilter = true
			return m, m.textInput.Focus()
		case keyS:
			m.cycleSort()
			return m, nil
		case keyEsc:
			if m.textInput.Value() != "" {
				m.textInput.SetValue("")
				m.applyFilter()
			}
			return m, nil
		}
	}

	if m.virtualList != nil {
		updated, cmd := m.virtualList.Update(msg)
		if vl, ok := updated.(*listview.VirtualListModel[recommend.Recommendation]); ok {
			m.virtualList = vl
		}
		return m, cmd
	}
	return m, nil
}

func (m *RecommendationsViewModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc, keyEnter:
			m.state = ViewStateList
			return m, nil
		}
	}
	return m, nil
}

func (m *RecommendationsViewModel) handleQuitUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}
	return m, nil
}

func matches(r recommend.Recommendation, query string) bool {
	for _, field := range []string{string(r.Category), r.Text, string(r.Difficulty), string(r.Level)} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// applyFilter keeps the recommendations matching the filter text.
func (m *RecommendationsViewModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.textInput.Value()))
	if query == "" {
		m.recommendations = slices.Clone(m.allRecommendations)
	} else {
		m.recommendations = []recommend.Recommendation{}
		for _, r := range m.allRecommendations {
			if matches(r, query) {
				m.recommendations = append(m.recommendations, r)
			}
		}
	}
	m.summary = NewRecommendationsSummary(m.recommendations)
	m.applySort()
	m.rebuildList()
}

func (m *RecommendationsViewModel) cycleSort() {
	m.sortBy = (m.sortBy + 1) % numRecommendationSortFields
	m.applySort()
	m.rebuildList()
}

func (m *RecommendationsViewModel) applySort() {
	byPriority := func(a, b recommend.Recommendation) int {
		return cmp.Or(cmp.Compare(a.Priority, b.Priority), cmp.Compare(b.AbsImpact(), a.AbsImpact()))
	}
	slices.SortStableFunc(m.recommendations, func(a, b recommend.Recommendation) int {
		switch m.sortBy {
		case SortByImpact:
			return cmp.Compare(b.AbsImpact(), a.AbsImpact())
		case SortByCategory:
			return cmp.Or(cmp.Compare(a.Category, b.Category), byPriority(a, b))
		default:
			return byPriority(a, b)
		}
	})
}

func (m *RecommendationsViewModel) rebuildList() {
	availableHeight := max(m.height-recSummaryHeight-borderPadding, minHeight)
	m.virtualList = listview.NewVirtualListModel(
		m.recommendations,
		availableHeight,
		m.width,
		renderRecommendation,
	)
}

// View renders the current view.
func (m *RecommendationsViewModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return fmt.Sprintf("Error: %v\n", m.err)
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateDetail:
		if rec := m.virtualList.GetSelectedItem(); rec != nil {
			return RenderRecommendationDetail(*rec, m.width)
		}
		return errSelectedOutOfBounds
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m *RecommendationsViewModel) renderListView() string {
	header := HeaderStyle.Render(recRow("Category", "P", "kg CO2/yr", "Effort", "Recommendation"))

	body := m.virtualList.View()
	if len(m.recommendations) == 0 {
		body = LabelStyle.Render("No recommendations match the filter.")
	}

	status := HelpStyle.Render(fmt.Sprintf("sort: %s", m.sortBy))
	if q := m.textInput.Value(); q != "" && !m.showFilter {
		status += HelpStyle.Render(fmt.Sprintf("  filter: %q", q))
	}

	sections := []string{RenderRecommendationsSummaryTUI(m.summary), header, body, status}
	if m.showFilter {
		sections = append(sections, LabelStyle.Render("Filter: ")+m.textInput.View())
	}
	sections = append(sections,
		HelpStyle.Render("[/] Filter  [s] Sort  [↑↓/jk] Navigate  [Enter] Details  [q] Quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderRecommendationsSummaryTUI renders the summary block above the list.
func RenderRecommendationsSummaryTUI(summary *RecommendationsSummary) string {
	if summary == nil || summary.TotalCount == 0 {
		return TitleStyle.Render("RECOMMENDATIONS") + "\nNo recommendations available.\n"
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("RECOMMENDATIONS") + "\n")
	fmt.Fprintf(&sb, "Total: %d recommendations\n", summary.TotalCount)
	fmt.Fprintf(&sb, "Potential reduction: %s\n",
		greenops.FormatEmissions(float64(summary.TotalReduction)))

	cats := make([]calculator.Category, 0, len(summary.CountByCategory))
	for c := range summary.CountByCategory {
		cats = append(cats, c)
	}
	slices.Sort(cats)
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, fmt.Sprintf("%s: %d", c, summary.CountByCategory[c]))
	}
	sb.WriteString(LabelStyle.Render(strings.Join(parts, "  ")) + "\n")
	return sb.String()
}

// RenderRecommendationDetail renders a single recommendation with its
// annual equivalency and, for actions that need an investment, the payback.
func RenderRecommendationDetail(rec recommend.Recommendation, width int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", LevelStyle(rec.Level).Render(rec.Text))
	fmt.Fprintf(&sb, "%s %s\n", LabelStyle.Render("Category:  "), rec.Category)
	fmt.Fprintf(&sb, "%s %s\n", LabelStyle.Render("Level:     "), rec.Level)
	fmt.Fprintf(&sb, "%s %d\n", LabelStyle.Render("Priority:  "), rec.Priority)
	fmt.Fprintf(&sb, "%s %s\n", LabelStyle.Render("Difficulty:"), rec.Difficulty)
	fmt.Fprintf(&sb, "%s %s kg CO2/yr\n", LabelStyle.Render("Impact:    "),
		greenops.FormatNumber(int64(rec.ImpactEstimate)))
	fmt.Fprintf(&sb, "%s %s\n", LabelStyle.Render("Current:   "),
		greenops.FormatEmissions(rec.CurrentEmissions))

	if eq := greenops.Reduction(rec.ImpactEstimate); !eq.IsEmpty {
		fmt.Fprintf(&sb, "\n%s\n", InfoStyle.Render(eq.DisplayText))
	}
	if inv := recommend.ROI([]recommend.Recommendation{rec}, 0); len(inv) == 1 {
		fmt.Fprintf(&sb, "%s\n", WarningStyle.Render(fmt.Sprintf(
			"Upfront $%s, saves $%.0f/yr, payback %.1f years",
			greenops.FormatNumber(int64(inv[0].UpfrontCost)), inv[0].AnnualSavings, inv[0].PaybackYears)))
	}

	box := DetailBoxStyle
	if width > borderPadding*2 {
		box = box.Width(width - borderPadding*2)
	}
	return box.Render(sb.String()) + "\n" + HelpStyle.Render("[Esc] Back to list  [q] Quit")
}

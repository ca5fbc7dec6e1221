package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/recommend"
)

func sampleRecs() []recommend.Recommendation {
	return []recommend.Recommendation{
		{
			Category: calculator.Transportation, Level: recommend.LevelHigh, Priority: 1,
			Text: "Consider switching to an electric or hybrid vehicle", ActionID: recommend.SwitchToElectric,
			ImpactEstimate: -2000, Difficulty: recommend.DifficultyHigh, CurrentEmissions: 12,
		},
		{
			Category: calculator.Energy, Level: recommend.LevelMedium, Priority: 2,
			Text: "Switch to LED lighting", ActionID: recommend.LEDLighting,
			ImpactEstimate: -300, Difficulty: recommend.DifficultyLow, CurrentEmissions: 6,
		},
		{
			Category: calculator.Food, Level: recommend.LevelHigh, Priority: 1,
			Text: "Reduce red meat consumption", ImpactEstimate: -2500,
			Difficulty: recommend.DifficultyMedium, CurrentEmissions: 9,
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func texts(recs []recommend.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Text
	}
	return out
}

func TestRecommendationsViewModel_DefaultSortIsPriorityThenImpact(t *testing.T) {
	m := NewRecommendationsViewModel(sampleRecs())
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, []string{
		"Reduce red meat consumption",
		"Consider switching to an electric or hybrid vehicle",
		"Switch to LED lighting",
	}, texts(m.Visible()))
}

func TestRecommendationsViewModel_SortCycle(t *testing.T) {
	m := NewRecommendationsViewModel(sampleRecs())

	m.Update(key("s"))
	assert.Equal(t, SortByImpact, m.SortField())
	assert.Equal(t, "Reduce red meat consumption", m.Visible()[0].Text)
	assert.Equal(t, "Switch to LED lighting", m.Visible()[2].Text)

	m.Update(key("s"))
	assert.Equal(t, SortByCategory, m.SortField())
	assert.Equal(t, []calculator.Category{calculator.Energy, calculator.Food, calculator.Transportation},
		[]calculator.Category{m.Visible()[0].Category, m.Visible()[1].Category, m.Visible()[2].Category})

	m.Update(key("s"))
	assert.Equal(t, SortByPriority, m.SortField())
}

func TestRecommendationsViewModel_Filter(t *testing.T) {
	m := NewRecommendationsViewModel(sampleRecs())

	m.Update(key("/"))
	for _, r := range "led" {
		m.Update(key(string(r)))
	}
	m.Update(key("enter"))

	require.Len(t, m.Visible(), 1)
	assert.Equal(t, "Switch to LED lighting", m.Visible()[0].Text)
	assert.Contains(t, m.View(), `filter: "led"`)

	m.Update(key("esc"))
	assert.Len(t, m.Visible(), 3)
}

func TestRecommendationsViewModel_FilterNoMatch(t *testing.T) {
	m := NewRecommendationsViewModel(sampleRecs())
	m.Update(key("/"))
	for _, r := range "zzz" {
		m.Update(key(string(r)))
	}
	m.Update(key("enter"))

	assert.Empty(t, m.Visible())
	assert.Contains(t, m.View(), "No recommendations match the filter.")
	m.Update(key("enter"))
	assert.Equal(t, ViewStateList, m.State(), "enter on an empty list stays on the list")
}

func TestRecommendationsViewModel_Detail(t *testing.T) {
	m := NewRecommendationsViewModel(sampleRecs())
	m.Update(key("down"))
	m.Update(key("enter"))
	require.Equal(t, ViewStateDetail, m.State())

	view := m.View()
	assert.Contains(t, view, "Consider switching to an electric or hybrid vehicle")
	assert.Contains(t, view, "-2,000 kg CO2/yr")
	assert.Contains(t, view, "payback")

	m.Update(key("esc"))
	assert.Equal(t, ViewStateList, m.State())
}

func TestRecommendationsViewModel_Quit(t *testing.T) {
	m := NewRecommendationsViewModel(sampleRecs())
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.Empty(t, m.View())
}

func TestRecommendationsViewModel_Loading(t *testing.T) {
	fetch := func(context.Context) ([]recommend.Recommendation, error) { return sampleRecs(), nil }
	m := NewRecommendationsViewModelWithLoading(context.Background(), fetch)
	assert.Equal(t, ViewStateLoading, m.State())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Analyzing your footprint")

	msg := m.fetchCmd()
	m.Update(msg)
	assert.Equal(t, ViewStateList, m.State())
	assert.Len(t, m.Visible(), 3)
}

func TestRecommendationsViewModel_LoadingError(t *testing.T) {
	boom := errors.New("no history")
	fetch := func(context.Context) ([]recommend.Recommendation, error) { return nil, boom }
	m := NewRecommendationsViewModelWithLoading(context.Background(), fetch)

	m.Update(m.fetchCmd())
	assert.Equal(t, ViewStateError, m.State())
	assert.ErrorIs(t, m.Err(), boom)
	assert.Contains(t, m.View(), "no history")
}

func TestRenderRecommendationsSummaryTUI(t *testing.T) {
	out := RenderRecommendationsSummaryTUI(NewRecommendationsSummary(sampleRecs()))
	assert.Contains(t, out, "Total: 3 recommendations")
	assert.Contains(t, out, "4.80 tons CO₂")
	assert.True(t, strings.Contains(out, "energy: 1") && strings.Contains(out, "food: 1"))

	assert.Contains(t, RenderRecommendationsSummaryTUI(NewRecommendationsSummary(nil)), "No recommendations available.")
}

func TestWindowResize(t *testing.T) {
	m := NewRecommendationsViewModel(sampleRecs())
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	assert.Equal(t, 40-recSummaryHeight-borderPadding, m.virtualList.Height())
}

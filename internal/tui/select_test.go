package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/athenaeum/internal/models"
)

func testCandidates() []models.BookMetadata {
	return []models.BookMetadata{
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: "science fiction"},
		{Title: "Dune Messiah", Author: "Frank Herbert", Year: "1969"},
	}
}

// driveProgram replaces the real terminal run with a scripted key sequence.
func driveProgram(t *testing.T, keys ...string) func() {
	t.Helper()
	original := runProgram
	runProgram = func(m tea.Model) (tea.Model, error) {
		current := m
		for _, key := range keys {
			var msg tea.Msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			switch key {
			case "enter":
				msg = tea.KeyMsg{Type: tea.KeyEnter}
			case "down":
				msg = tea.KeyMsg{Type: tea.KeyDown}
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			}
			current, _ = current.Update(msg)
		}
		return current, nil
	}
	return func() { runProgram = original }
}

func TestSelectFirstCandidate(t *testing.T) {
	defer driveProgram(t, "enter")()

	result, err := Select("dune", testCandidates())
	require.NoError(t, err)

	assert.Equal(t, ActionSelected, result.Action)
	require.NotNil(t, result.Selection)
	assert.Equal(t, "Dune", result.Selection.Title)
}

func TestSelectNavigatesDown(t *testing.T) {
	defer driveProgram(t, "down", "enter")()

	result, err := Select("dune", testCandidates())
	require.NoError(t, err)

	assert.Equal(t, ActionSelected, result.Action)
	require.NotNil(t, result.Selection)
	assert.Equal(t, "Dune Messiah", result.Selection.Title)
}

func TestSelectSkip(t *testing.T) {
	defer driveProgram(t, "s")()

	result, err := Select("dune", testCandidates())
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, result.Action)
	assert.Zero(t, result.Selection)
}

func TestSelectStop(t *testing.T) {
	defer driveProgram(t, "q")()

	result, err := Select("dune", testCandidates())
	require.NoError(t, err)
	assert.Equal(t, ActionStopped, result.Action)
}

func TestSelectNoUsableCandidates(t *testing.T) {
	result, err := Select("dune", []models.BookMetadata{{Author: "no title"}})
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, result.Action)
}

func TestBookItemTitle(t *testing.T) {
	withYear := bookItem{models.BookMetadata{Title: "Dune", Year: "1965"}}
	assert.Equal(t, "Dune (1965)", withYear.Title())

	withoutYear := bookItem{models.BookMetadata{Title: "Dune"}}
	assert.Equal(t, "Dune", withoutYear.Title())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "a very long...", truncate("a very long description here", 14))
	assert.Equal(t, "collapses whitespace", truncate("collapses   \n whitespace", 40))
}

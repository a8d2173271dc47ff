package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkellner/heapkit/cmd/heapexplorer/logger"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// If help is showing, any bound key dismisses it
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil

		case key.Matches(msg, m.keys.Step):
			m = m.stepForward()
			m.syncViewport()
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m = m.stepBack()
			m.syncViewport()
			return m, nil

		case key.Matches(msg, m.keys.JumpStart):
			m = m.jumpTo(0)
			m.syncViewport()
			return m, nil

		case key.Matches(msg, m.keys.JumpEnd):
			logger.Debug("replaying to end", "ops", len(m.ops))
			m = m.jumpTo(len(m.ops))
			m.syncViewport()
			return m, nil

		case key.Matches(msg, m.keys.Check):
			m = m.runCheck()
			return m, nil
		}

		// Everything else scrolls the block map
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := msg.Height - headerHeight - statusHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.syncViewport()
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dkellner/heapkit/internal/trace"
)

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderStatus(),
	)
}

// syncViewport re-renders the block map into the viewport.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderBlocks())
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("heapexplorer") + "  " + m.tracePath

	var next string
	if m.pos < len(m.ops) {
		next = "next: " + opString(m.ops[m.pos])
	} else {
		next = "trace complete"
	}
	progress := fmt.Sprintf("op %d/%d   %s", m.pos, len(m.ops), opStyle.Render(next))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		progress,
		sepStyle.Render(strings.Repeat("─", m.width)),
	)
}

func (m Model) renderBlocks() string {
	blocks := m.h.Blocks()
	if len(blocks) == 0 {
		return sepStyle.Render("  (empty heap)")
	}

	var sb strings.Builder
	for _, b := range blocks {
		bar := strings.Repeat("█", barWidth(b.Size))
		line := fmt.Sprintf("  0x%06x  %9s  ", b.Off, humanize.IBytes(uint64(b.Size)))
		if b.Allocated {
			line += allocStyle.Render(bar + " alloc")
		} else {
			line += freeStyle.Render(bar + " free")
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// barWidth scales a block size to a bar length, log-ish so a huge block
// doesn't wash out the map.
func barWidth(size int32) int {
	w := 1
	for s := size; s > 32; s >>= 1 {
		w++
	}
	if w > 24 {
		w = 24
	}
	return w
}

func (m Model) renderStatus() string {
	stats := m.h.Stats()
	left := fmt.Sprintf(
		"in use: %s   heap: %s   live ids: %d",
		humanize.IBytes(uint64(stats.InUse)),
		humanize.IBytes(uint64(m.h.HeapSize())),
		len(m.live),
	)
	line := statusStyle.Render(left)
	if m.statusMessage != "" {
		line += "   " + messageStyle.Render(m.statusMessage)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		sepStyle.Render(strings.Repeat("─", m.width)),
		line,
	)
}

func (m Model) renderHelpOverlay() string {
	help := `heapexplorer

  →/l/space  execute next operation
  ←/h        step back one operation
  ↑/k ↓/j    scroll the block map
  g / G      jump to start / end of trace
  c          run a heap consistency check
  ?          close this help
  q          quit`
	box := helpStyle.Render(help)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func opString(op trace.Op) string {
	switch op.Kind {
	case trace.KindAlloc:
		return fmt.Sprintf("alloc id=%d size=%d", op.ID, op.Size)
	case trace.KindFree:
		return fmt.Sprintf("free id=%d", op.ID)
	case trace.KindRealloc:
		return fmt.Sprintf("realloc id=%d size=%d", op.ID, op.Size)
	case trace.KindCalloc:
		return fmt.Sprintf("calloc id=%d count=%d size=%d", op.ID, op.Count, op.Size)
	}
	return fmt.Sprintf("unknown op %q", op.Kind)
}

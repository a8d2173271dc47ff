package main

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkellner/heapkit/heap"
	"github.com/dkellner/heapkit/heap/alloc"
	"github.com/dkellner/heapkit/internal/trace"
)

// Layout constants
const (
	headerHeight = 3 // Title line, op preview, separator
	statusHeight = 2 // Separator plus status line
)

// Model is the main application model
type Model struct {
	tracePath string
	ops       []trace.Op

	r    *heap.Region
	h    *alloc.Heap
	live map[int]alloc.Ref
	pos  int // operations executed so far

	keys     KeyMap
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	// Diagnostics from the last consistency check. Pointer-shared so the
	// heap's writer survives bubbletea's model copies.
	diag *bytes.Buffer

	// Help overlay
	showHelp bool

	// Status message for temporary feedback
	statusMessage string

	err error
}

// NewModel parses the trace and bootstraps a fresh heap at op 0.
func NewModel(tracePath string) (Model, error) {
	ops, err := trace.ParseFile(tracePath)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		tracePath: tracePath,
		ops:       ops,
		keys:      DefaultKeyMap(),
		diag:      &bytes.Buffer{},
	}
	if err := m.rebuild(0); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Close releases the heap's backing region.
func (m Model) Close() error {
	if m.r == nil {
		return nil
	}
	return m.r.Close()
}

// rebuild discards the heap and replays the first n operations against a
// fresh one. Stepping backward is a rebuild: the allocator has no undo.
func (m *Model) rebuild(n int) error {
	if m.r != nil {
		m.r.Close()
	}
	r, err := heap.NewRegion(0)
	if err != nil {
		return err
	}
	h, err := alloc.New(r, &alloc.Config{Diag: m.diag})
	if err != nil {
		r.Close()
		return err
	}
	m.r, m.h = r, h
	m.live = make(map[int]alloc.Ref)
	m.pos = 0
	for m.pos < n {
		if err := m.applyNext(); err != nil {
			return err
		}
	}
	return nil
}

// applyNext executes the operation at the current position.
func (m *Model) applyNext() error {
	op := m.ops[m.pos]
	switch op.Kind {
	case trace.KindAlloc:
		ref, _, err := m.h.Alloc(op.Size)
		if err != nil {
			return fmt.Errorf("op %d: alloc %d: %w", m.pos, op.Size, err)
		}
		m.live[op.ID] = ref
	case trace.KindCalloc:
		ref, _, err := m.h.Calloc(op.Count, op.Size)
		if err != nil {
			return fmt.Errorf("op %d: calloc %dx%d: %w", m.pos, op.Count, op.Size, err)
		}
		m.live[op.ID] = ref
	case trace.KindRealloc:
		ref, _, err := m.h.Realloc(m.live[op.ID], op.Size)
		if err != nil {
			return fmt.Errorf("op %d: realloc %d: %w", m.pos, op.Size, err)
		}
		if ref == alloc.NilRef {
			delete(m.live, op.ID)
		} else {
			m.live[op.ID] = ref
		}
	case trace.KindFree:
		if err := m.h.Free(m.live[op.ID]); err != nil {
			return fmt.Errorf("op %d: free id %d: %w", m.pos, op.ID, err)
		}
		delete(m.live, op.ID)
	}
	m.pos++
	return nil
}

// stepForward executes the next operation, if any.
func (m Model) stepForward() Model {
	if m.pos >= len(m.ops) {
		m.statusMessage = "end of trace"
		return m
	}
	if err := m.applyNext(); err != nil {
		m.err = err
		return m
	}
	m.statusMessage = ""
	return m
}

// stepBack rewinds one operation by replaying the prefix.
func (m Model) stepBack() Model {
	if m.pos == 0 {
		m.statusMessage = "start of trace"
		return m
	}
	if err := m.rebuild(m.pos - 1); err != nil {
		m.err = err
		return m
	}
	m.statusMessage = ""
	return m
}

// jumpTo replays the trace up to op n.
func (m Model) jumpTo(n int) Model {
	if n > len(m.ops) {
		n = len(m.ops)
	}
	if err := m.rebuild(n); err != nil {
		m.err = err
		return m
	}
	m.statusMessage = ""
	return m
}

// runCheck audits the heap and surfaces the verdict in the status bar.
func (m Model) runCheck() Model {
	m.diag.Reset()
	if m.h.CheckHeap("explorer") {
		m.statusMessage = "heap check passed"
	} else {
		m.statusMessage = "heap check FAILED: " + firstLine(m.diag.String())
	}
	return m
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}

// Package trace parses and replays allocation traces: sequences of
// alloc/free/realloc operations that drive a heap the way a real client
// would. The text format is one operation per line:
//
//	a <id> <size>         allocate <size> bytes as <id>
//	r <id> <size>         reallocate <id> to <size> bytes
//	f <id>                free <id>
//	c <id> <count> <size> zeroed allocation of count*size bytes as <id>
//
// Lines starting with '#' are comments. Leading lines consisting of a single
// integer are tolerated and skipped (legacy driver headers carry the
// suggested heap size and op counts that way).
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Kind identifies a trace operation.
type Kind byte

const (
	KindAlloc   Kind = 'a'
	KindFree    Kind = 'f'
	KindRealloc Kind = 'r'
	KindCalloc  Kind = 'c'
)

// Op is one parsed trace operation.
type Op struct {
	Kind  Kind
	ID    int
	Size  int32
	Count int32 // calloc only
}

// Parse reads a trace from r.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) == 1 {
			// Legacy driver header line: a bare integer.
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue
			}
			return nil, fmt.Errorf("trace: line %d: malformed operation %q", line, text)
		}

		op, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", line, err)
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	return ops, nil
}

// ParseFile reads a trace from disk.
func ParseFile(path string) ([]Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func parseOp(fields []string) (Op, error) {
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("unknown operation %q", fields[0])
	}
	kind := Kind(fields[0][0])

	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 {
		return Op{}, fmt.Errorf("bad id %q", fields[1])
	}
	op := Op{Kind: kind, ID: id}

	argc := map[Kind]int{KindAlloc: 3, KindFree: 2, KindRealloc: 3, KindCalloc: 4}[kind]
	if argc == 0 {
		return Op{}, fmt.Errorf("unknown operation %q", fields[0])
	}
	if len(fields) != argc {
		return Op{}, fmt.Errorf("%c wants %d fields, got %d", kind, argc, len(fields))
	}

	switch kind {
	case KindAlloc, KindRealloc:
		size, err := parseSize(fields[2])
		if err != nil {
			return Op{}, err
		}
		op.Size = size
	case KindCalloc:
		count, err := parseSize(fields[2])
		if err != nil {
			return Op{}, err
		}
		size, err := parseSize(fields[3])
		if err != nil {
			return Op{}, err
		}
		op.Count, op.Size = count, size
	}
	return op, nil
}

func parseSize(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("bad size %q", s)
	}
	return int32(v), nil
}

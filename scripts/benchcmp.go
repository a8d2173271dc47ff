// Command benchcmp compares two `go test -bench` output files, typically a
// baseline run and a run with allocator changes, and prints a markdown
// report of the deltas.
//
// Usage:
//
//	go test -bench . -benchmem ./heap/alloc > old.txt
//	# ... change the allocator ...
//	go test -bench . -benchmem ./heap/alloc > new.txt
//	go run scripts/benchcmp.go -old old.txt -new new.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// benchResult is one parsed benchmark line.
type benchResult struct {
	Name        string
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

var (
	oldFile = flag.String("old", "", "Baseline benchmark output")
	newFile = flag.String("new", "", "Benchmark output to compare against the baseline")
	output  = flag.String("output", "", "Output markdown file (stdout if not specified)")
)

// BenchmarkAllocFixed-8    10000    1245 ns/op    128 B/op    2 allocs/op
var benchLine = regexp.MustCompile(
	`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+(\d+)\s+allocs/op)?`,
)

func main() {
	flag.Parse()
	if *oldFile == "" || *newFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: benchcmp -old old.txt -new new.txt")
		os.Exit(1)
	}

	oldResults, err := parseFile(*oldFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	newResults, err := parseFile(*newFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report := buildReport(oldResults, newResults)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(report), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(report)
}

func parseFile(path string) (map[string]benchResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	results := make(map[string]benchResult)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := benchLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		r := benchResult{Name: trimProcs(m[1])}
		r.Iterations, _ = strconv.Atoi(m[2])
		r.NsPerOp, _ = strconv.ParseFloat(m[3], 64)
		if m[4] != "" {
			b, _ := strconv.ParseFloat(m[4], 64)
			r.BytesPerOp = int64(b)
		}
		if m[5] != "" {
			r.AllocsPerOp, _ = strconv.ParseInt(m[5], 10, 64)
		}
		results[r.Name] = r
	}
	return results, scanner.Err()
}

// trimProcs drops the -N GOMAXPROCS suffix so runs from different machines
// still line up.
func trimProcs(name string) string {
	if i := strings.LastIndex(name, "-"); i > 0 {
		if _, err := strconv.Atoi(name[i+1:]); err == nil {
			return name[:i]
		}
	}
	return name
}

func buildReport(oldResults, newResults map[string]benchResult) string {
	names := make([]string, 0, len(oldResults))
	for name := range oldResults {
		if _, ok := newResults[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("# Benchmark comparison\n\n")
	sb.WriteString("| Benchmark | Old ns/op | New ns/op | Delta | Old B/op | New B/op |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, name := range names {
		o, n := oldResults[name], newResults[name]
		delta := "n/a"
		if o.NsPerOp > 0 {
			delta = fmt.Sprintf("%+.1f%%", (n.NsPerOp-o.NsPerOp)/o.NsPerOp*100)
		}
		fmt.Fprintf(&sb, "| %s | %.1f | %.1f | %s | %d | %d |\n",
			strings.TrimPrefix(name, "Benchmark"), o.NsPerOp, n.NsPerOp, delta, o.BytesPerOp, n.BytesPerOp)
	}

	var missing []string
	for name := range newResults {
		if _, ok := oldResults[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		sb.WriteString("\nNew benchmarks with no baseline:\n")
		for _, name := range missing {
			fmt.Fprintf(&sb, "  - %s\n", name)
		}
	}
	return sb.String()
}

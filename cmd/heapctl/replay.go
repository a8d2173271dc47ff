package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkellner/heapkit/heap"
	"github.com/dkellner/heapkit/heap/alloc"
	"github.com/dkellner/heapkit/internal/trace"
)

var (
	replayMaxBytes   int64
	replayChunk      int32
	replayCheckEvery int
	replayVerify     bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().Int64Var(&replayMaxBytes, "max-bytes", 0, "Region size cap in bytes (0 = default)")
	cmd.Flags().Int32Var(&replayChunk, "chunk", 0, "Heap extension granularity in bytes (0 = default)")
	cmd.Flags().IntVar(&replayCheckEvery, "check-every", 0, "Run a consistency check every N ops (0 = off)")
	cmd.Flags().BoolVar(&replayVerify, "verify", false, "Check heap consistency around every operation")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>...",
		Short: "Replay allocation traces against a fresh heap",
		Long: `The replay command parses one or more allocation trace files and
replays each against a freshly bootstrapped heap, reporting operation
counts, peak payload, final heap size, and space utilization.

Trace format (one op per line, '#' starts a comment):
  a <id> <size>          allocate
  f <id>                 free
  r <id> <size>          reallocate
  c <id> <count> <size>  allocate zeroed array

Example:
  heapctl replay short1.rep
  heapctl replay --check-every 64 churn.rep
  heapctl replay --json *.rep`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

// replayReport is the JSON shape for a single trace run.
type replayReport struct {
	Trace       string
	Ops         int
	PeakPayload int64
	HeapSize    int64
	Utilization float64
	Stats       alloc.Stats
}

func runReplay(paths []string) error {
	var reports []replayReport
	for _, path := range paths {
		rep, err := replayOne(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		reports = append(reports, rep)
	}

	if jsonOut {
		if len(reports) == 1 {
			return printJSON(reports[0])
		}
		return printJSON(reports)
	}

	pr := message.NewPrinter(language.English)
	for _, rep := range reports {
		printInfo("Trace: %s\n", rep.Trace)
		printInfo("  Ops:          %s\n", pr.Sprintf("%d", rep.Ops))
		printInfo("  Peak payload: %s\n", humanize.IBytes(uint64(rep.PeakPayload)))
		printInfo("  Heap size:    %s\n", humanize.IBytes(uint64(rep.HeapSize)))
		printInfo("  Utilization:  %.1f%%\n", rep.Utilization*100)
		if verbose {
			printVerbose("%s\n", rep.Stats.String())
		}
		printInfo("\n")
	}
	return nil
}

func replayOne(path string) (replayReport, error) {
	printVerbose("Parsing trace: %s\n", path)
	ops, err := trace.ParseFile(path)
	if err != nil {
		return replayReport{}, err
	}

	r, err := heap.NewRegion(replayMaxBytes)
	if err != nil {
		return replayReport{}, err
	}
	defer r.Close()

	h, err := alloc.New(r, &alloc.Config{
		ChunkSize: replayChunk,
		Verify:    replayVerify,
	})
	if err != nil {
		return replayReport{}, err
	}

	res, err := trace.Run(h, ops, replayCheckEvery)
	if err != nil {
		return replayReport{}, err
	}
	return replayReport{
		Trace:       path,
		Ops:         res.Ops,
		PeakPayload: res.PeakPayload,
		HeapSize:    int64(res.HeapSize),
		Utilization: res.Utilization,
		Stats:       res.Stats,
	}, nil
}

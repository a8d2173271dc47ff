package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dkellner/heapkit/heap/alloc"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Print the allocator's size-class table",
		Long: `The classes command prints the segregated free-list layout: one row
per size class with the inclusive block-size range it serves.

Example:
  heapctl classes
  heapctl classes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
}

func runClasses() error {
	classes := alloc.SizeClasses()

	if jsonOut {
		return printJSON(classes)
	}

	printInfo("Size classes (block sizes, inclusive):\n")
	for _, c := range classes {
		if c.Max == 0 {
			printInfo("  %2d: > %s\n", c.Index, humanize.IBytes(uint64(c.Min-1)))
			continue
		}
		printInfo("  %2d: %6d .. %6d  (up to %s)\n", c.Index, c.Min, c.Max, humanize.IBytes(uint64(c.Max)))
	}
	return nil
}

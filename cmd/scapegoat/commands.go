package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/npillmayer/scapegoat"
	"github.com/npillmayer/scapegoat/metrics"
	"github.com/npillmayer/scapegoat/printer"
	"github.com/npillmayer/scapegoat/textfile"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

// edits are modifications applied to a tree after loading it.
type edits struct {
	inserts []string
	removes []int
}

func (e *edits) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&e.inserts, "insert", nil, "insert a record 'key,value' after loading (repeatable)")
	cmd.Flags().IntSliceVar(&e.removes, "remove", nil, "remove a key after loading (repeatable)")
}

func (e *edits) empty() bool {
	return len(e.inserts) == 0 && len(e.removes) == 0
}

// apply performs all insertions, then all removals.
func (e *edits) apply(tree *scapegoat.Tree[int, string]) error {
	for _, rec := range e.inserts {
		entry, err := textfile.ParseRecord(rec, textfile.IntString)
		if err != nil {
			return errors.Wrap(err, "--insert")
		}
		tree.Insert(entry.Key, entry.Value)
	}
	for _, key := range e.removes {
		if err := tree.Remove(key); err != nil {
			return errors.Wrapf(err, "--remove %d", key)
		}
	}
	return nil
}

func (a *app) loadTree(name string) (*scapegoat.Tree[int, string], error) {
	return textfile.LoadTree(name, a.v.GetFloat64(keyAlpha), textfile.IntString)
}

// --- print -----------------------------------------------------------------

func (a *app) printCmd() *cobra.Command {
	var e edits
	var hide bool
	cmd := &cobra.Command{
		Use:   "print FILE",
		Short: "Print the levels of a tree loaded from FILE",
		Long: `Print the levels of a tree loaded from FILE, from the root downwards.
If records are inserted or removed, the tree is printed a second time after
the modifications.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlag(keyFormat, cmd.Flags().Lookup(keyFormat)); err != nil {
				return err
			}
			tree, err := a.loadTree(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			format := a.v.GetString(keyFormat)
			if err = printTree(tree, out, format, hide); err != nil || e.empty() {
				return err
			}
			if err = e.apply(tree); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printTree(tree, out, format, hide)
		},
	}
	cmd.Flags().String(keyFormat, defaultFormat, "output format (plain, console, html, dot)")
	cmd.Flags().BoolVar(&hide, "hide-tombstones", false, "print removed entries as (null, null), without their subtrees")
	e.addFlags(cmd)
	return cmd
}

func printTree(tree *scapegoat.Tree[int, string], w io.Writer, format string, hide bool) error {
	config := &printer.Config{HideTombstones: hide}
	switch format {
	case "plain":
		return printer.Output(tree, w, config, printer.Plain{})
	case "console":
		config = printer.ConfigFromTerminal()
		config.HideTombstones = hide
		return printer.Output(tree, w, config, printer.NewConsole(nil))
	case "html":
		h := printer.NewHTML()
		if err := printer.Output(tree, w, config, h); err != nil {
			return err
		}
		return h.Err
	case "dot":
		return scapegoat.Dot(tree, w)
	}
	return errors.Newf("unknown output format %q", format)
}

// --- sorted ----------------------------------------------------------------

func (a *app) sortedCmd() *cobra.Command {
	var e edits
	cmd := &cobra.Command{
		Use:   "sorted FILE",
		Short: "List the records of FILE in key order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.loadTree(args[0])
			if err != nil {
				return err
			}
			if err = e.apply(tree); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for k, v := range tree.All() {
				fmt.Fprintf(out, "%d,%s\n", k, v)
			}
			return nil
		},
	}
	e.addFlags(cmd)
	return cmd
}

// --- stats -----------------------------------------------------------------

func (a *app) statsCmd() *cobra.Command {
	var e edits
	var prom bool
	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Show shape and operation counters of a tree loaded from FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.loadTree(args[0])
			if err != nil {
				return err
			}
			if err = e.apply(tree); err != nil {
				return err
			}
			if err = tree.Check(); err != nil {
				return err
			}
			if prom {
				return writePrometheus(cmd.OutOrStdout(), tree)
			}
			writeStats(cmd.OutOrStdout(), tree)
			return nil
		},
	}
	cmd.Flags().BoolVar(&prom, "prometheus", false, "write statistics in Prometheus text exposition format")
	e.addFlags(cmd)
	return cmd
}

func writeStats(w io.Writer, tree *scapegoat.Tree[int, string]) {
	s := tree.Stats()
	count := func(n uint64) string {
		return humanize.Comma(int64(n))
	}
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Property", "Value"})
	tbl.Append([]string{"alpha", strconv.FormatFloat(tree.Alpha(), 'g', -1, 64)})
	tbl.Append([]string{"entries", humanize.Comma(int64(tree.Len()))})
	tbl.Append([]string{"height", strconv.Itoa(tree.Height())})
	tbl.Append([]string{"tombstones", strconv.Itoa(s.Tombstones)})
	tbl.Append([]string{"inserts", count(s.Inserts)})
	tbl.Append([]string{"updates", count(s.Updates)})
	tbl.Append([]string{"removes", count(s.Removes)})
	tbl.Append([]string{"rebuilds", count(s.Rebuilds)})
	tbl.Append([]string{"rebuilt entries", count(s.RebuiltEntries)})
	tbl.Append([]string{"reclaimed tombstones", count(s.ReclaimedTombstones)})
	tbl.Render()
}

// writePrometheus dumps the metrics of a tree in the Prometheus text format,
// suitable for the node exporter's textfile collector.
func writePrometheus(w io.Writer, tree *scapegoat.Tree[int, string]) error {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(metrics.NewCollector("scapegoat", tree)); err != nil {
		return errors.Wrap(err, "register collector")
	}
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}

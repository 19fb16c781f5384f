package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRoutesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Load the network and print the resolved path of every stream.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, report, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STREAM\tPCP\tTYPE\tSOURCE\tDESTINATION\tHOPS\tPATH")
			for _, s := range n.Streams() {
				hops := "-"
				if s.Path.Found() {
					hops = fmt.Sprint(len(s.Path) - 1)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
					s.Name, s.Priority, s.Type, s.Source.Name(), s.Destination.Name(), hops, s.Path)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n%d nodes, %d links, %d streams (%d resolved, %d unresolved)\n",
				n.NodeCount(), n.LinkCount(), n.StreamCount(), len(report.Resolved), len(report.Unresolved))
			for _, name := range report.Replaced {
				fmt.Fprintf(out, "replaced: %s\n", name)
			}
			for _, e := range report.Skipped {
				fmt.Fprintf(out, "skipped: %v\n", e)
			}
			return nil
		},
	}
}

func newPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path FROM TO",
		Short: "Print a fewest-hop path between two nodes.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			p, err := n.ShortestPath(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func newTreeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree ROOT",
		Short: "Print the breadth-first spanning tree rooted at a node.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			edges, err := n.SpanningTree(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range edges {
				fmt.Fprintf(out, "%s -> %s\n", e.Parent, e.Child)
			}
			return nil
		},
	}
}

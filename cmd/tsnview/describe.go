package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"tsnview/internal/network"

	"github.com/spf13/cobra"
)

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "describe NODE",
		Short: "Show what a switch forwards or what an end station received.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			node, ok := n.Node(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", network.ErrNodeNotFound, args[0])
			}
			desc := n.DescribeNode(node)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(desc)
			}

			fmt.Fprintln(out, node)
			for _, t := range desc.Traffic {
				fmt.Fprintf(out, "  %s from %s: size %d, deadline %d\n", t.Stream, t.Previous, t.Size, t.Deadline)
			}
			for _, a := range desc.Arrivals {
				fmt.Fprintf(out, "  %s from %s: size %d\n", a.Stream, a.Source, a.Size)
			}
			if through := n.StreamsThroughNode(node.Name()); len(through) > 0 {
				fmt.Fprintf(out, "streams: %s\n", strings.Join(through, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the description as JSON")
	return cmd
}

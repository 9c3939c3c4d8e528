package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lediona/nmslib/dataset"
	"github.com/lediona/nmslib/space"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-serialize a dataset; compression is chosen by the output suffix (.gz, .lz4)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTyped(
				func() error { return convertAs[float32](args[0], args[1]) },
				func() error { return convertAs[float64](args[0], args[1]) },
			)
		},
	}
}

func convertAs[F space.Float](in, out string) error {
	s, err := newSpace[F]()
	if err != nil {
		return err
	}
	logger := newCLILogger()

	objs, externIDs, err := dataset.Load(s, in,
		dataset.WithMaxObjects(flagMaxObjects),
		dataset.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if err := dataset.Write(s, objs, externIDs, out, dataset.WithLogger(logger)); err != nil {
		return err
	}
	color.Green("wrote %d records to %s", len(objs), out)
	return nil
}

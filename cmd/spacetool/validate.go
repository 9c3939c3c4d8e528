package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lediona/nmslib/dataset"
	"github.com/lediona/nmslib/space"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Read a whole dataset, checking every record against the space's format invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTyped(
				func() error { return validateAs[float32](args[0]) },
				func() error { return validateAs[float64](args[0]) },
			)
		},
	}
}

func validateAs[F space.Float](path string) error {
	s, err := newSpace[F]()
	if err != nil {
		return err
	}

	objs, _, err := dataset.Load(s, path,
		dataset.WithMaxObjects(flagMaxObjects),
		dataset.WithLogger(newCLILogger()),
	)
	if err != nil {
		color.Red("FAIL %s", path)
		return err
	}

	dim := 0
	if len(objs) > 0 {
		dim = s.GetElemQty(objs[0])
	}
	color.Green("OK   %s", path)
	fmt.Printf("space:   %s\n", s)
	fmt.Printf("records: %d\n", len(objs))
	if dim > 0 {
		fmt.Printf("dim:     %d\n", dim)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lediona/nmslib/object"
	"github.com/lediona/nmslib/space"
)

func newHeadCmd() *cobra.Command {
	count := 10
	cmd := &cobra.Command{
		Use:   "head <file>",
		Short: "Print the first raw records of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTyped(
				func() error { return headAs[float32](args[0], count) },
				func() error { return headAs[float64](args[0], count) },
			)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "c", 10, "number of records to print")
	return cmd
}

func headAs[F space.Float](path string, count int) (err error) {
	s, err := newSpace[F]()
	if err != nil {
		return err
	}

	rs, err := s.OpenReadFileHeader(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rs.Close(); err == nil {
			err = cerr
		}
	}()

	for i := 0; i < count; i++ {
		raw, label, externID, ok, rerr := s.ReadNextObjStr(rs)
		if rerr != nil {
			return rerr
		}
		if !ok {
			break
		}
		switch {
		case externID != "":
			fmt.Printf("%6d  id=%s  %s\n", rs.LineNum(), externID, raw)
		case label != object.Unlabeled:
			fmt.Printf("%6d  label=%d  %s\n", rs.LineNum(), label, raw)
		default:
			fmt.Printf("%6d  %s\n", rs.LineNum(), raw)
		}
	}
	return nil
}

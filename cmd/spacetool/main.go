// Command spacetool validates, converts and inspects dataset files through
// the space abstraction layer.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lediona/nmslib"
	"github.com/lediona/nmslib/space"
)

var (
	flagSpace      string
	flagDistType   string
	flagMetric     string
	flagStorage    string
	flagMaxObjects int
	flagVerbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "spacetool",
		Short:         "Inspect and convert nearest-neighbor dataset files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flagSpace, "space", "s", "wordembed", "space family: wordembed or sparse")
	root.PersistentFlags().StringVarP(&flagDistType, "dist-type", "t", "float", "distance value type: float or double")
	root.PersistentFlags().StringVarP(&flagMetric, "metric", "m", "l2", "distance mode: l2 or cosine")
	root.PersistentFlags().StringVar(&flagStorage, "storage", "interleaved", "sparse payload layout: interleaved or packed")
	root.PersistentFlags().IntVarP(&flagMaxObjects, "max-objects", "n", 0, "cap on records processed (0 = all)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newHeadCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCLILogger() *nmslib.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return nmslib.NewTextLogger(level)
}

// runTyped dispatches on the --dist-type flag, instantiating the requested
// generic specialization.
func runTyped(do32 func() error, do64 func() error) error {
	switch flagDistType {
	case "float":
		return do32()
	case "double":
		return do64()
	default:
		return fmt.Errorf("unknown dist-type %q (want float or double)", flagDistType)
	}
}

// newSpace builds the space selected by the persistent flags.
func newSpace[F space.Float]() (space.Space[F], error) {
	switch flagSpace {
	case "wordembed":
		var dist space.EmbedDistance
		switch flagMetric {
		case "l2":
			dist = space.EmbedDistL2
		case "cosine":
			dist = space.EmbedDistCosine
		default:
			return nil, fmt.Errorf("unknown metric %q (want l2 or cosine)", flagMetric)
		}
		return space.NewWordEmbed[F](dist)
	case "sparse":
		var dist space.SparseDistance
		switch flagMetric {
		case "l2":
			dist = space.SparseDistL2
		case "cosine":
			dist = space.SparseDistCosine
		default:
			return nil, fmt.Errorf("unknown metric %q (want l2 or cosine)", flagMetric)
		}
		var storage space.SparseStorage
		switch flagStorage {
		case "interleaved":
			storage = space.StorageInterleaved
		case "packed":
			storage = space.StoragePacked
		default:
			return nil, fmt.Errorf("unknown storage %q (want interleaved or packed)", flagStorage)
		}
		return space.NewSparseVector[F](dist, space.WithStorage(storage))
	default:
		return nil, fmt.Errorf("unknown space %q (want wordembed or sparse)", flagSpace)
	}
}

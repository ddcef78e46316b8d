package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"morphogrid/internal/imgio"
	"morphogrid/pkg/chamfer"
	"morphogrid/pkg/config"
	"morphogrid/pkg/distmap"
	"morphogrid/pkg/grid"
	"morphogrid/pkg/label"
	"morphogrid/pkg/regions"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing input slice images")
	op := flag.String("op", "distmap", "Operation to run: label, distmap or geodesic")
	markerDir := flag.String("marker", "", "Directory containing marker slices (geodesic only)")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	preset := flag.String("preset", "", "Chamfer preset label, e.g. \"Borgefors (3,4,5)\"")
	conn := flag.Int("conn", 0, "Labeling connectivity: 6 or 26")
	bitDepth := flag.Int("depth", 0, "Output bit depth: 8, 16 or 32")
	normalize := flag.Bool("normalize", true, "Express distances in voxel units")
	threshold := flag.Float64("threshold", -1, "Foreground threshold for binarization")
	outputDir := flag.String("output", "", "Directory to write result slices to")
	flag.Parse()

	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration, then let explicitly set flags win over it.
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "preset":
			cfg.Processing.Preset = *preset
		case "conn":
			cfg.Processing.Connectivity = *conn
		case "depth":
			cfg.Processing.BitDepth = *bitDepth
		case "normalize":
			cfg.Processing.Normalize = *normalize
		case "threshold":
			cfg.Processing.Threshold = *threshold
		case "output":
			cfg.Output.Dir = *outputDir
		}
	})

	stack, err := imgio.LoadStack(*inputDir)
	if err != nil {
		log.Fatalf("Failed to load input slices: %v", err)
	}
	if cfg.Output.Verbose {
		fmt.Printf("Loaded %d slices with dimensions %dx%d\n", stack.D, stack.W, stack.H)
	}
	bin := regions.Binarize3D(stack, cfg.Processing.Threshold)

	startTime := time.Now()
	switch cfg.Processing.BitDepth {
	case 8:
		err = run[uint8](*op, *markerDir, bin, cfg)
	case 16:
		err = run[uint16](*op, *markerDir, bin, cfg)
	case 32:
		err = run[float32](*op, *markerDir, bin, cfg)
	default:
		err = fmt.Errorf("unsupported bit depth %d (want 8, 16 or 32)", cfg.Processing.BitDepth)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", *op, err)
	}
	if cfg.Output.Verbose {
		fmt.Printf("Completed %s in %.2f seconds\n", *op, time.Since(startTime).Seconds())
		fmt.Printf("Results saved to: %s\n", cfg.Output.Dir)
	}
}

// run executes the selected operation with the configured output width.
func run[T grid.Num](op, markerDir string, bin *grid.Binary3D, cfg *config.Config) error {
	switch op {
	case "label":
		field, count, err := label.FloodFill3D[T](bin, label.Connectivity(cfg.Processing.Connectivity), label.Options{})
		if err != nil {
			return err
		}
		if cfg.Output.Verbose {
			fmt.Printf("Found %d connected regions\n", count)
		}
		return imgio.SaveStack(field, cfg.Output.Dir, cfg.Output.Format)

	case "distmap":
		mask, err := chamfer.PresetByLabel(cfg.Processing.Preset)
		if err != nil {
			return err
		}
		field, err := distmap.DistanceMap3D[T](bin, mask, transformOptions(cfg))
		if err != nil {
			return err
		}
		printStats(distmap.Summary3D(field), cfg)
		return imgio.SaveStack(field, cfg.Output.Dir, cfg.Output.Format)

	case "geodesic":
		if markerDir == "" {
			return fmt.Errorf("geodesic requires -marker")
		}
		markerStack, err := imgio.LoadStack(markerDir)
		if err != nil {
			return err
		}
		marker := regions.Binarize3D(markerStack, cfg.Processing.Threshold)
		mask, err := chamfer.PresetByLabel(cfg.Processing.Preset)
		if err != nil {
			return err
		}
		field, err := distmap.GeodesicMap3D[T](marker, bin, mask, transformOptions(cfg))
		if err != nil {
			return err
		}
		printStats(distmap.Summary3D(field), cfg)
		return imgio.SaveStack(field, cfg.Output.Dir, cfg.Output.Format)

	default:
		return fmt.Errorf("unknown operation %q (want label, distmap or geodesic)", op)
	}
}

func transformOptions(cfg *config.Config) distmap.Options {
	opts := distmap.Options{Normalize: cfg.Processing.Normalize}
	if cfg.Output.Verbose {
		lastPct := -1
		opts.Progress = func(done, total int) {
			if pct := done * 100 / total; pct != lastPct {
				lastPct = pct
				fmt.Printf("\rSweeping: %d%%", pct)
				if done == total {
					fmt.Println()
				}
			}
		}
	}
	return opts
}

func printStats(s distmap.Stats, cfg *config.Config) {
	if !cfg.Output.Verbose {
		return
	}
	fmt.Printf("Distance field: min=%.2f max=%.2f mean=%.2f stddev=%.2f\n",
		s.Min, s.Max, s.Mean, s.StdDev)
	if s.Unreached > 0 {
		fmt.Printf("Unreached cells: %d\n", s.Unreached)
	}
}

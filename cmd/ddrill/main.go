package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/deepdrill/drill/internal/config"
	"github.com/deepdrill/drill/internal/derrors"
	"github.com/deepdrill/drill/internal/driller"
	"github.com/deepdrill/drill/internal/drillmap"
	"github.com/deepdrill/drill/internal/fingerprint"
	"github.com/deepdrill/drill/internal/progress"
	"github.com/deepdrill/drill/measureutil"
)

func usage() {
	fmt.Println(`usage: ddrill <drill|info> [options]

Subcommands:
  drill    Compute a drill map and write it to disk
           Flags:
             -config <path>    JSON options document (flags override it)
             -real   <dec>     center real part       (default: 0)
             -imag   <dec>     center imaginary part  (default: 0)
             -zoom   <dec>     magnification          (default: 1)
             -depth  <int>     max iterations         (default: 1000)
             -width  <int>     map width              (default: 1920)
             -height <int>     map height             (default: 1080)
             -seed   <int>     reference-selection seed
             -o      <path>    output map path        (default: out.map)
             -v                verbose progress on stdout

  info     Print the dimensions and channel contents of a saved map
           Flags:
             -m <path>         map path (required)`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	var err error
	switch os.Args[1] {
	case "drill":
		err = runDrill(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		if errors.Is(err, derrors.ErrExitRequest) {
			return
		}
		if errors.Is(err, derrors.ErrUserInterrupt) {
			fmt.Println("\x1b[35mUser Interrupt\x1b[0m")
			os.Exit(1)
		}
		fmt.Printf("\x1b[31mError:\x1b[0m %v\n", err)
		os.Exit(1)
	}
}

func runDrill(args []string) error {
	def := config.Default()
	fs := flag.NewFlagSet("drill", flag.ExitOnError)
	cfgPath := fs.String("config", "", "JSON options document")
	re := fs.String("real", def.LocationReal, "center real part")
	im := fs.String("imag", def.LocationImag, "center imaginary part")
	zoom := fs.String("zoom", def.LocationZoom, "magnification")
	depth := fs.Int("depth", def.LocationDepth, "max iterations")
	width := fs.Int("width", def.ImageWidth, "map width")
	height := fs.Int("height", def.ImageHeight, "map height")
	seed := fs.Int64("seed", def.Seed, "reference-selection seed")
	out := fs.String("o", "out.map", "output map path")
	verbose := fs.Bool("v", false, "verbose progress")
	fs.Parse(args)

	opts := def
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return err
		}
		opts = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "real":
			opts.LocationReal = *re
		case "imag":
			opts.LocationImag = *im
		case "zoom":
			opts.LocationZoom = *zoom
		case "depth":
			opts.LocationDepth = *depth
		case "width":
			opts.ImageWidth = *width
		case "height":
			opts.ImageHeight = *height
		case "seed":
			opts.Seed = *seed
		}
	})
	if err := opts.Validate(); err != nil {
		return err
	}

	// Precision must be in place before the location strings are parsed.
	if err := opts.ApplyPrecision(); err != nil {
		return err
	}
	center, err := opts.Center()
	if err != nil {
		return err
	}
	delta, err := opts.PixelDelta()
	if err != nil {
		return err
	}
	m, err := drillmap.New(opts.ImageWidth, opts.ImageHeight, center, delta)
	if err != nil {
		return err
	}

	envDebug := os.Getenv("DEEPDRILL_DEBUG") == "1"
	sink := progress.Sink(progress.Discard)
	if *verbose || envDebug {
		sink = progress.NewLogSink(os.Stdout)
		if opts.PeriodCheckEnable {
			fmt.Printf("periodcheck.tolerance = %g\n", opts.PeriodCheckTolerance)
		}
		if opts.AttractorCheckEnable {
			fmt.Printf("attractorcheck.tolerance = %g\n", opts.AttractorCheckTolerance)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := driller.New(opts, m, sink).Drill(ctx); err != nil {
		return err
	}
	if err := m.Save(*out, nil); err != nil {
		return err
	}

	counters := measureutil.SnapshotAndReset()
	fmt.Printf("wrote %s (%dx%d) in %s\n", *out, m.Width, m.Height, time.Since(start).Round(time.Millisecond))
	fmt.Printf("fingerprint %s\n", fingerprint.Of(opts))
	if *verbose || envDebug {
		fmt.Printf("rounds=%d iterations=%d glitches=%d\n",
			counters["drill.rounds"], counters["drill.iterations"], counters["drill.glitches"])
	}
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	path := fs.String("m", "", "map path")
	fs.Parse(args)
	if *path == "" {
		fs.Usage()
		return derrors.ErrExitRequest
	}
	m, err := drillmap.Load(*path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %dx%d\n", *path, m.Width, m.Height)
	fmt.Printf("  iterations:  %v\n", m.HasIterations())
	fmt.Printf("  lognorms:    %v\n", m.HasLogNorms())
	fmt.Printf("  derivatives: %v\n", m.HasDerivatives())
	fmt.Printf("  normals:     %v\n", m.HasNormals())
	return nil
}

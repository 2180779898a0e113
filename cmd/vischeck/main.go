/*
NAME
  main.go

DESCRIPTION
  main.go is the vischeck command-line front end: it reads a raw RGB
  image from stdin, optionally Daltonizes it, simulates a dichromat
  viewer and/or a given viewing distance/display, and writes the result
  to stdout.

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command vischeck simulates color-vision deficiency and applies the
// Daltonize correction to a raw RGB image read from stdin.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/vischeck/color"
	"github.com/ausocean/vischeck/dichromacy"
	"github.com/ausocean/vischeck/pipeline"
)

func main() {
	var (
		verbose   = flag.Bool("v", false, "print diagnostics to stderr")
		apply     = flag.Bool("a", false, "apply Daltonize correction")
		lmStretch = flag.Float64("s", 50, "Daltonize lmStretch parameter")
		lumScale  = flag.Float64("l", 50, "Daltonize lumScale parameter")
		sScale    = flag.Float64("y", 50, "Daltonize sScale parameter")
		binFlag   = flag.Bool("b", false, "binary data (default)")
		hexFlag   = flag.Bool("x", false, "two-hex-digit-per-byte data")
		tblFlag   = flag.Bool("c", false, "one hex triple per pixel, per line")
		dims      = flag.String("m", "1,1", "x,y pixels in the raw RGB image")
		sensor    = flag.String("t", "normal", "normal|deuteranope|protanope|tritanope")
		simDisp   = flag.String("S", "CRT", "simulated display: CRT, or a profile file path")
		viewDisp  = flag.String("V", "CRT", "viewing display: CRT, or a profile file path")
		viewDist  = flag.Float64("d", 0, "simulated viewing distance, in inches")
		dpi       = flag.Float64("r", 90, "dots-per-inch of the simulated display")
		weights   = flag.String("W", "", "kernel weights: lum1,lum2,lum3,lm1,lm2,lm3,s1,s2,s3 (default when -W, -D and -C are all unset: Poirson & Wandell)")
		sds       = flag.String("D", "", "kernel widths (SDs), same layout as -W (default when -W, -D and -C are all unset: Poirson & Wandell)")
		kscale    = flag.String("C", "", "kernel scale: lum,lm,s (default: 1,1,1)")
	)
	flag.Usage = printHelp
	flag.Parse()

	logLevel := int8(logging.Info)
	if *verbose {
		logLevel = logging.Debug
	}
	log := logging.New(logLevel, os.Stderr, false)

	if err := run(log, runArgs{
		verbose: *verbose, apply: *apply,
		lmStretch: *lmStretch, lumScale: *lumScale, sScale: *sScale,
		binFlag: *binFlag, hexFlag: *hexFlag, tblFlag: *tblFlag,
		dims: *dims, sensor: *sensor,
		simDisp: *simDisp, viewDisp: *viewDisp,
		viewDist: *viewDist, dpi: *dpi,
		weights: *weights, sds: *sds, kscale: *kscale,
	}); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

type runArgs struct {
	verbose, apply                    bool
	lmStretch, lumScale, sScale        float64
	binFlag, hexFlag, tblFlag          bool
	dims, sensor, simDisp, viewDisp    string
	viewDist, dpi                      float64
	weights, sds, kscale               string
}

func run(log logging.Logger, a runArgs) error {
	w, h, err := parseDims(a.dims)
	if err != nil {
		return fmt.Errorf("invalid -m dimensions: %w", err)
	}

	viewer, err := parseSensor(a.sensor)
	if err != nil {
		return fmt.Errorf("invalid -t sensor type: %w", err)
	}

	simProfile, err := loadProfile(a.simDisp)
	if err != nil {
		return fmt.Errorf("could not load simulated display %q: %w", a.simDisp, err)
	}
	viewProfile, err := loadProfile(a.viewDisp)
	if err != nil {
		return fmt.Errorf("could not load viewing display %q: %w", a.viewDisp, err)
	}

	format, err := inputFormat(a.binFlag, a.hexFlag, a.tblFlag)
	if err != nil {
		return err
	}

	data, err := readImage(os.Stdin, w, h, format)
	if err != nil {
		return fmt.Errorf("could not read input image: %w", err)
	}

	weights, sds, scales, hasKernel, err := parseKernelFlags(a.weights, a.sds, a.kscale)
	if err != nil {
		return fmt.Errorf("invalid kernel flags: %w", err)
	}

	if a.apply {
		data, err = pipeline.Correct(pipeline.CorrectParams{
			Data: data, W: w, H: h,
			SimDisplay: simProfile, ViewDisplay: viewProfile,
			LumScale: a.lumScale, SScale: a.sScale, LMStretch: a.lmStretch,
			Log: log,
		})
		if err != nil {
			return fmt.Errorf("daltonize correction failed: %w", err)
		}
	}

	data, err = pipeline.Simulate(pipeline.SimulateParams{
		Data: data, W: w, H: h,
		ViewDist: a.viewDist, DPI: a.dpi,
		Sensor:     viewer,
		SimDisplay: simProfile, ViewDisplay: viewProfile,
		KernelWeights: weights, KernelSDs: sds, KernelScales: scales,
		HasKernel: hasKernel,
		Log:       log,
	})
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if err := writeImage(os.Stdout, data, w, h, format); err != nil {
		return fmt.Errorf("could not write output image: %w", err)
	}
	return nil
}

func parseSensor(s string) (dichromacy.Viewer, error) {
	switch s {
	case "normal":
		return dichromacy.Normal, nil
	case "deuteranope":
		return dichromacy.Deutan, nil
	case "protanope":
		return dichromacy.Protan, nil
	case "tritanope":
		return dichromacy.Tritan, nil
	default:
		return 0, fmt.Errorf("unknown sensor type %q", s)
	}
}

func loadProfile(name string) (*color.Profile, error) {
	if name == "CRT" {
		return color.FromName(name)
	}
	return color.FromFile(name)
}

func printHelp() {
	fmt.Fprintln(os.Stderr, `vischeck [options]

Takes a raw RGB image on stdin, processes it, and writes the result to
stdout.

  -h         help- print this help message
  -v         verbose- print diagnostics on stderr
  -a         apply Daltonize correction
  -s N       Daltonize lmStretch parameter (default 50)
  -l N       Daltonize lumScale parameter (default 50)
  -y N       Daltonize sScale parameter (default 50)
  -b|-x|-c   data format: binary, hex, or color-table (default binary)
  -m x,y     pixel dimensions of the raw RGB image (default 1,1)
  -t TYPE    normal, deuteranope, protanope, tritanope (default normal)
  -S,-V NAME simulated/viewing display: CRT, or a profile file path
  -d N       simulated viewing distance, in inches (default 0)
  -r N       dots-per-inch of the simulated display (default 90)
  -W W1,...  kernel weights: lum1,lum2,lum3,lm1,lm2,lm3,s1,s2,s3
  -D D1,...  kernel widths (SDs), same layout as -W
  -C C1,C2,C3 kernel scale: lum,lm,s (default 1,1,1)`)
}

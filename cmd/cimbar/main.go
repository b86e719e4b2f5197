/*
NAME
  main.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// cimbar is a command-line encoder/decoder for the cimbar colour-icon-
// matrix barcode format, using flag parsing plus a lumberjack-backed
// logging.Logger, scaled down for a one-shot batch tool rather than a
// long-running daemon.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/cimbar/bitstream"
	"github.com/ausocean/cimbar/config"
	"github.com/ausocean/cimbar/deskew"
	"github.com/ausocean/cimbar/grade"
	"github.com/ausocean/cimbar/pipeline"
	"github.com/ausocean/cimbar/rs"
	"github.com/ausocean/utils/logging"
)

const pkg = "cimbar: "

// Logging configuration, matching cmd/rv's constants scaled to a CLI
// tool (stderr instead of a netlogger, no cloud log forwarding).
const (
	logPath      = "cimbar.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 7 // days
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "encode":
		runEncode(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	case "grade":
		runGrade(os.Args[2:])
	case "version":
		fmt.Println("cimbar v0.1.0")
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cimbar <encode|decode|grade|version> [flags]")
}

func newLogger(verbose bool) logging.Logger {
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	verbosity := logging.Info
	if verbose {
		verbosity = logging.Debug
	}
	return logging.New(verbosity, io.MultiWriter(fileLog, os.Stderr), true)
}

func namedProfile(name string) (config.Profile, error) {
	switch name {
	case "4c", "":
		return config.Default4Color, nil
	case "16c":
		return config.Default16Color, nil
	case "16c-noecc":
		return config.Default16ColorNoECC, nil
	default:
		return config.Profile{}, fmt.Errorf("unknown config preset %q", name)
	}
}

func runEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	var (
		out       = fs.String("out", "cimbar-%d.png", "output file pattern (%d replaced with frame index)")
		in        = fs.String("in", "", "input file (default: stdin)")
		profile   = fs.String("config", "4c", "config preset: 4c, 16c, 16c-noecc")
		dark      = fs.Bool("dark", false, "use the dark (white-ink) palette")
		compress  = fs.Bool("compress", false, "zstd-compress the payload before encoding")
		fountain  = fs.Bool("fountain", false, "use rateless fountain coding instead of a fixed frame count")
		frames    = fs.Int("frames", 0, "fountain frame count override (0: derive from chunk count)")
		verbose   = fs.Bool("verbose", false, "enable debug logging")
	)
	fs.Parse(args)

	log := newLogger(*verbose)

	p, err := namedProfile(*profile)
	if err != nil {
		log.Fatal(pkg+"bad config preset", "error", err.Error())
	}
	p.Dark = *dark
	if err := p.Validate(); err != nil {
		log.Fatal(pkg+"invalid profile", "error", err.Error())
	}

	var r io.Reader = os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			log.Fatal(pkg+"could not open input", "error", err.Error())
		}
		defer f.Close()
		r = f
	}

	images, err := pipeline.Encode(r, p, pipeline.EncodeOptions{
		Compress: *compress,
		Fountain: *fountain,
		Frames:   *frames,
		Logger:   log,
	})
	if err != nil {
		log.Fatal(pkg+"encode failed", "error", err.Error())
	}

	for i, img := range images {
		name := fmt.Sprintf(*out, i)
		if err := savePNG(name, img); err != nil {
			log.Fatal(pkg+"could not write frame", "file", name, "error", err.Error())
		}
		log.Info("wrote frame", "file", name)
	}
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var (
		out          = fs.String("out", "", "output file (default: stdout)")
		profile      = fs.String("config", "4c", "config preset: 4c, 16c, 16c-noecc")
		dark         = fs.Bool("dark", false, "use the dark (white-ink) palette")
		compress     = fs.Bool("compress", false, "payload was zstd-compressed at encode time")
		fountainMode = fs.Bool("fountain", false, "payload was fountain-coded at encode time")
		deskewLevel  = fs.Int("deskew", int(deskew.LevelPerspective), "deskew level: 0 none, 1 perspective, 2 perspective+radial")
		preprocess   = fs.Int("preprocess", -1, "preprocess mode: -1 auto, 0 off, 1 forced unsharp mask")
		colorCorrect = fs.Int("color-correct", int(config.ColorCorrectWhiteBalance), "colour-correction mode: 0 none, 1 white-balance, 2 two-pass, 3 split white-balance, 4 split two-pass")
		dropFailed   = fs.Bool("drop-failed-blocks", false, "drop uncorrectable RS blocks instead of zero-filling them")
		verbose      = fs.Bool("verbose", false, "enable debug logging")
	)
	fs.Parse(args)

	log := newLogger(*verbose)

	p, err := namedProfile(*profile)
	if err != nil {
		log.Fatal(pkg+"bad config preset", "error", err.Error())
	}
	p.Dark = *dark
	if err := p.Validate(); err != nil {
		log.Fatal(pkg+"invalid profile", "error", err.Error())
	}

	if fs.NArg() == 0 {
		log.Fatal(pkg + "decode requires at least one image file argument")
	}

	var images []image.Image
	for _, name := range fs.Args() {
		img, err := loadPNG(name)
		if err != nil {
			log.Fatal(pkg+"could not read frame", "file", name, "error", err.Error())
		}
		images = append(images, img)
	}

	policy := rs.ZeroBlock
	if *dropFailed {
		policy = rs.DropBlock
	}

	payload, report, err := pipeline.Decode(images, p, pipeline.DecodeOptions{
		Compress:     *compress,
		Fountain:     *fountainMode,
		Deskew:       deskew.Level(*deskewLevel),
		Preprocess:   *preprocess,
		ColorCorrect: config.ColorCorrection(*colorCorrect),
		RSFailure:    policy,
		Logger:       log,
	})
	if err != nil {
		log.Fatal(pkg+"decode failed", "error", err.Error())
	}
	if !report.FountainComplete {
		log.Warning(pkg+"fountain decode incomplete, more frames needed", "frames", len(images))
		os.Exit(1)
	}
	log.Info("decode complete", "rs_errors", report.RSErrors, "rs_dropped", report.RSDropped, "bytes", len(payload))

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal(pkg+"could not create output", "error", err.Error())
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(payload); err != nil {
		log.Fatal(pkg+"could not write output", "error", err.Error())
	}
}

// runGrade compares two raw value streams bit-by-bit and reports where
// a decode run diverged from a known-good baseline: how many symbols
// came out wrong, and whether the errors cluster around particular
// symbol or colour values.
func runGrade(args []string) {
	fs := flag.NewFlagSet("grade", flag.ExitOnError)
	var (
		bits       = fs.Int("bits", 4, "bits per value in both streams")
		chartSym   = fs.String("chart-symbol", "", "write a by-symbol bit-error bar chart to this path")
		chartColor = fs.String("chart-color", "", "write a by-colour bit-error bar chart to this path")
	)
	fs.Parse(args)

	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: cimbar grade [flags] <baseline-file> <actual-file>")
		os.Exit(2)
	}

	expected, err := readValues(fs.Arg(0), *bits)
	if err != nil {
		fmt.Fprintln(os.Stderr, pkg+"reading baseline: "+err.Error())
		os.Exit(1)
	}
	actual, err := readValues(fs.Arg(1), *bits)
	if err != nil {
		fmt.Fprintln(os.Stderr, pkg+"reading actual: "+err.Error())
		os.Exit(1)
	}
	if len(actual) < len(expected) {
		expected = expected[:len(actual)]
	} else if len(expected) < len(actual) {
		actual = actual[:len(expected)]
	}

	report := grade.GradeStream(*bits, expected, actual).Report()
	fmt.Printf("error bits:    %d\n", report.ErrorBits)
	fmt.Printf("error tiles:   %d\n", report.ErrorTiles)
	fmt.Printf("values graded: %d\n", len(expected))

	if *chartSym != "" {
		if err := grade.SaveSymbolErrorChart(report, *chartSym); err != nil {
			fmt.Fprintln(os.Stderr, pkg+"writing symbol chart: "+err.Error())
			os.Exit(1)
		}
	}
	if *chartColor != "" {
		if err := grade.SaveColorErrorChart(report, *chartColor); err != nil {
			fmt.Fprintln(os.Stderr, pkg+"writing colour chart: "+err.Error())
			os.Exit(1)
		}
	}
}

// readValues reads name as a packed bitsPerOp-wide value stream,
// sized to the file's byte length so a short final value isn't
// fabricated from trailing zero padding.
func readValues(name string, bitsPerOp int) ([]uint32, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	n := int(info.Size()*8) / bitsPerOp
	br := bitstream.NewReader(f, bitsPerOp)
	out := make([]uint32, n)
	for i := range out {
		out[i] = br.Read(0)
	}
	return out, nil
}

func savePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func loadPNG(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

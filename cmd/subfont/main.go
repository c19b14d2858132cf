package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"seehuhn.de/go/subfont"
	"seehuhn.de/go/subfont/charset"
)

func main() {
	profile := flag.String("profile", "", "language profile, e.g. zh-Hans, zh-Hant or ja")
	text := flag.String("text", "", "keep the code points used in this text")
	rangeFile := flag.String("ranges", "", "file with unicode ranges, one per line")
	allowEmpty := flag.Bool("allow-empty", false, "allow output fonts with no covered code points")
	split := flag.Int("split", 0, "split into chunks of this many code points")
	family := flag.String("family", "", "font-family name for the generated CSS")
	cssFile := flag.String("css", "", "write @font-face rules to this file (with -split)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Printf("Usage: %s [options] input.ttf output.woff2\n", os.Args[0])
		fmt.Printf("       %s -split N [options] input.ttf outdir/basename\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputFile := flag.Arg(0)
	outputFile := flag.Arg(1)

	cfg, err := subfont.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading language profiles: %v\n", err)
		os.Exit(1)
	}
	cfg.AllowEmpty = *allowEmpty

	spec, err := makeSpec(*profile, *text, *rangeFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *split > 0 {
		runSplit(ctx, cfg, spec, inputFile, outputFile, *split, *family, *cssFile)
		return
	}

	if spec == nil {
		fmt.Fprintln(os.Stderr, "Error: one of -profile, -text or -ranges is required")
		os.Exit(1)
	}
	res, err := subfont.Convert(ctx, inputFile, spec, outputFile, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting font: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d of %d glyphs kept, %d -> %d bytes\n",
		outputFile, res.GlyphsAfter, res.GlyphsBefore,
		res.BytesBefore, res.BytesAfter)
}

// makeSpec turns the command line options into a UnicodeSpec.  The
// result is nil if no selection option is given.
func makeSpec(profile, text, rangeFile string) (subfont.UnicodeSpec, error) {
	numSet := 0
	for _, s := range []string{profile, text, rangeFile} {
		if s != "" {
			numSet++
		}
	}
	if numSet > 1 {
		return nil, fmt.Errorf("-profile, -text and -ranges are mutually exclusive")
	}

	switch {
	case profile != "":
		return subfont.Profile(profile), nil
	case text != "":
		return subfont.Text(text), nil
	case rangeFile != "":
		fd, err := os.Open(rangeFile)
		if err != nil {
			return nil, err
		}
		defer fd.Close()
		set, warnings, err := charset.Read(fd)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s:%s\n", rangeFile, w)
		}
		return subfont.Ranges{Set: set}, nil
	}
	return nil, nil
}

func runSplit(ctx context.Context, cfg *subfont.Config, spec subfont.UnicodeSpec, inputFile, outputBase string, chunkSize int, family, cssFile string) {
	outDir := filepath.Dir(outputBase)
	baseName := filepath.Base(outputBase)
	baseName = strings.TrimSuffix(baseName, ".woff2")

	chunks, err := subfont.Split(ctx, inputFile, outDir, baseName, spec, chunkSize, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error splitting font: %v\n", err)
		os.Exit(1)
	}
	for _, chunk := range chunks {
		fmt.Printf("%s: %d glyphs, %d bytes\n",
			chunk.Path, chunk.Result.GlyphsAfter, chunk.Result.BytesAfter)
	}

	if cssFile != "" {
		if family == "" {
			family = baseName
		}
		fd, err := os.Create(cssFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CSS file: %v\n", err)
			os.Exit(1)
		}
		err = subfont.WriteCSS(fd, family, chunks)
		if err2 := fd.Close(); err == nil {
			err = err2
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSS file: %v\n", err)
			os.Exit(1)
		}
	}
}

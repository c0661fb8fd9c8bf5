// octquant reduces an image to at most 256 colors. The result is written as
// png, gif, bmp, tiff or spix, or drawn as a sixel preview when stdout is a
// terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-sixel"
	"golang.org/x/exp/slog"
	"golang.org/x/image/draw"
	"golang.org/x/term"

	"git.sr.ht/~rockorager/octquant/log"
	"git.sr.ht/~rockorager/octquant/octreequant"
	"git.sr.ht/~rockorager/octquant/pix"
)

const formatSixel = "sixel"

type config struct {
	method  string
	colors  int
	level   int
	dither  bool
	format  string
	output  string
	palette string
	metric  string
	verbose bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.method, "method", "octree", "quantizer: octree, population, fixed, few or cmap")
	flag.IntVar(&cfg.colors, "colors", 256, "maximum palette size for the octree quantizer")
	flag.IntVar(&cfg.level, "level", 0, "octcube level for population, few and cmap")
	flag.BoolVar(&cfg.dither, "dither", false, "diffuse quantization error")
	flag.StringVar(&cfg.format, "format", "", "output format: png, gif, bmp, tiff, spix or sixel")
	flag.StringVar(&cfg.output, "o", "", "output file (default stdout)")
	flag.StringVar(&cfg.palette, "palette", "", "image whose colors are used by -method cmap")
	flag.StringVar(&cfg.metric, "metric", "euclidean", "color distance for -method cmap: euclidean or manhattan")
	flag.BoolVar(&cfg.verbose, "v", false, "log debug output")
	flag.BoolVar(&cfg.verbose, "verbose", false, "log debug output")
	flag.Parse()

	level := log.LevelInfo
	slogLevel := slog.LevelInfo
	if cfg.verbose {
		level = log.LevelDebug
		slogLevel = slog.LevelDebug
	}
	log.SetLevel(level)
	log.SetHandler(tint.NewHandler(os.Stderr, &tint.Options{
		AddSource:  cfg.verbose,
		Level:      slogLevel,
		TimeFormat: "15:04:05.000",
	}))

	if len(flag.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "usage: octquant [flags] input")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(cfg, flag.Arg(0)); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(cfg config, input string) error {
	src, err := readImage(input)
	if err != nil {
		return err
	}

	format := cfg.format
	if format == "" {
		switch {
		case cfg.output != "":
			format = pix.FormatFromPath(cfg.output)
		case term.IsTerminal(int(os.Stdout.Fd())):
			format = formatSixel
		default:
			format = pix.FormatPNG
		}
	}
	if format == formatSixel {
		maxW, maxH, err := terminalPixels(os.Stdout)
		if err != nil {
			log.Debug("no terminal pixel size: %v", err)
		}
		if src, err = shrink(src, maxW, maxH); err != nil {
			return err
		}
	}

	out, err := quantize(cfg, src)
	if err != nil {
		return err
	}
	if cfg.output == "" {
		return encode(os.Stdout, out, format)
	}
	f, err := os.Create(cfg.output)
	if err != nil {
		return err
	}
	return encodeAndClose(f, out, format)
}

// encodeAndClose writes p to wc and closes it. A failed close is reported
// when the write itself succeeded.
func encodeAndClose(wc io.WriteCloser, p *pix.Pix, format string) (err error) {
	defer func() {
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}()
	return encode(wc, p, format)
}

func encode(w io.Writer, p *pix.Pix, format string) error {
	if format == formatSixel {
		return preview(w, p)
	}
	return pix.Write(w, p, format)
}

// readImage decodes a file, or stdin for "-", and returns it at 32 bpp
func readImage(path string) (*pix.Pix, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	p, format, err := pix.Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("read %s: %dx%d %d bpp", format, p.Width(), p.Height(), p.Depth())
	if p.Depth() != 32 {
		return p.ToRGB()
	}
	return p, nil
}

func quantize(cfg config, p *pix.Pix) (*pix.Pix, error) {
	switch cfg.method {
	case "octree":
		return octreequant.OctreeColorQuant(p, cfg.colors, cfg.dither)
	case "population":
		return octreequant.OctreeQuantByPopulation(p, cfg.level, cfg.dither)
	case "fixed":
		return octreequant.FixedOctcubeQuant256(p, cfg.dither)
	case "few":
		level := cfg.level
		if level == 0 {
			level = 4
		}
		return octreequant.FixedOctcubeQuantCmap(p, level)
	case "cmap":
		cm, err := paletteColormap(cfg.palette)
		if err != nil {
			return nil, err
		}
		metric := octreequant.EuclideanDistance
		switch cfg.metric {
		case "euclidean":
		case "manhattan":
			metric = octreequant.ManhattanDistance
		default:
			return nil, fmt.Errorf("unknown metric %q", cfg.metric)
		}
		level := cfg.level
		if level == 0 {
			level = 5
		}
		return octreequant.OctcubeQuantFromCmap(p, cm, 2, level, metric)
	default:
		return nil, fmt.Errorf("unknown method %q", cfg.method)
	}
}

// paletteColormap takes the colormap of a paletted image, quantizing it first
// when it has none
func paletteColormap(path string) (*pix.Colormap, error) {
	if path == "" {
		return nil, fmt.Errorf("-method cmap needs -palette")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, _, err := pix.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cm := p.Colormap(); cm != nil {
		return cm, nil
	}
	if p.Depth() != 32 {
		if p, err = p.ToRGB(); err != nil {
			return nil, err
		}
	}
	q, err := octreequant.OctreeColorQuant(p, octreequant.MaxColors, false)
	if err != nil {
		return nil, err
	}
	return q.Colormap(), nil
}

// shrink resamples a 32 bpp image down to fit maxW x maxH pixels. Images
// that already fit are returned as is.
func shrink(p *pix.Pix, maxW, maxH int) (*pix.Pix, error) {
	scale := fitScale(p.Width(), p.Height(), maxW, maxH)
	if scale >= 1 {
		return p, nil
	}
	w := int(float64(p.Width())*scale + 0.5)
	h := int(float64(p.Height())*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	log.Debug("scaling %dx%d to %dx%d for the terminal", p.Width(), p.Height(), w, h)
	return p.ScaleToSize(w, h, draw.ApproxBiLinear)
}

// preview draws a colormapped image as sixels
func preview(w io.Writer, p *pix.Pix) error {
	img, err := p.Paletted()
	if err != nil {
		return err
	}
	return sixel.NewEncoder(w).Encode(img)
}

// fitScale is the largest factor, at most 1, that fits w x h into
// maxW x maxH. An unknown size (zero) does not constrain.
func fitScale(w, h, maxW, maxH int) float64 {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		if s := float64(maxH) / float64(h); s < scale {
			scale = s
		}
	}
	return scale
}

// Command blueprint extracts structured models from floor plan images and
// renders models back to images.
//
//	blueprint extract -in plan.png -out plan.json [-debug dir] [-config c.json]
//	blueprint render  -in plan.json -out plan.png|plan.svg [-width W -height H]
//	blueprint clean   -in plan.png -out clean.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/blueprint-tools/internal/blueprint"
	"github.com/ironsheep/blueprint-tools/internal/config"
	"github.com/ironsheep/blueprint-tools/internal/imaging"
	"github.com/ironsheep/blueprint-tools/internal/logging"
	"github.com/ironsheep/blueprint-tools/internal/render"
)

// Version information - set by ldflags during build
var Version = "dev"

const usage = `blueprint - floor plan extraction and rendering

Usage:
  blueprint extract -in plan.png -out plan.json [-debug dir] [-config c.json]
  blueprint render  -in plan.json -out plan.png [-width W -height H] [-config c.json]
  blueprint clean   -in plan.png -out clean.png [-config c.json]
  blueprint version

Environment variables:
  BLUEPRINT_LOG_LEVEL=debug|info|warn|error    Log level (default info)
`

var errUsage = errors.New("invalid usage")

func main() {
	logger := logging.FromEnv(slog.LevelInfo)
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "extract":
		return runExtract(args[1:], logger)
	case "render":
		return runRender(args[1:], logger)
	case "clean":
		return runClean(args[1:], logger)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "blueprint %s\n", Version)
		return nil
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// commonFlags registers the flags shared by every subcommand.
type commonFlags struct {
	in, out, config string
}

func newFlagSet(name string, c *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.in, "in", "", "input path")
	fs.StringVar(&c.out, "out", "", "output path")
	fs.StringVar(&c.config, "config", "", "pipeline configuration JSON")
	return fs
}

func (c *commonFlags) check() error {
	if c.in == "" || c.out == "" {
		return fmt.Errorf("%w: -in and -out are required", errUsage)
	}
	return nil
}

func (c *commonFlags) loadConfig() (*config.Config, error) {
	if c.config == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(c.config)
}

func runExtract(args []string, logger *slog.Logger) error {
	var c commonFlags
	var debugDir string
	fs := newFlagSet("extract", &c)
	fs.StringVar(&debugDir, "debug", "", "directory for intermediate images")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := c.check(); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	img, err := imaging.LoadFile(c.in)
	if err != nil {
		return err
	}
	ex := blueprint.NewExtractor(cfg)

	var model *blueprint.Model
	if debugDir != "" {
		var trace *blueprint.Trace
		if model, trace, err = ex.ExtractWithTrace(img); err != nil {
			return err
		}
		render.AnnotateTrace(trace, img, model)
		if err := trace.WriteDir(debugDir); err != nil {
			return err
		}
		logger.Debug("wrote debug trace", "dir", debugDir)
	} else if model, err = ex.Extract(img); err != nil {
		return err
	}

	if err := blueprint.Save(c.out, model); err != nil {
		return err
	}
	logger.Info("extracted model",
		"in", c.in,
		"out", c.out,
		"walls", len(model.Walls),
		"segments", len(model.Segments),
		"rooms", len(model.Rooms),
	)
	return nil
}

func runRender(args []string, logger *slog.Logger) error {
	var c commonFlags
	var width, height int
	fs := newFlagSet("render", &c)
	fs.IntVar(&width, "width", 0, "canvas width")
	fs.IntVar(&height, "height", 0, "canvas height")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := c.check(); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	model, err := blueprint.LoadFile(c.in)
	if err != nil {
		return err
	}
	var size *render.Size
	if width > 0 && height > 0 {
		size = &render.Size{Width: width, Height: height}
	}

	if dir := filepath.Dir(c.out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if strings.EqualFold(filepath.Ext(c.out), ".svg") {
		f, err := os.Create(c.out)
		if err != nil {
			return err
		}
		if err := render.WriteSVG(f, model, size, cfg.Render); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else {
		img, err := render.Render(model, size, cfg.Render)
		if err != nil {
			return err
		}
		if err := imaging.Save(c.out, img); err != nil {
			return err
		}
	}

	s := render.CanvasSize(model, size, cfg.Render)
	logger.Info("rendered model", "in", c.in, "out", c.out, "width", s.Width, "height", s.Height)
	return nil
}

func runClean(args []string, logger *slog.Logger) error {
	var c commonFlags
	fs := newFlagSet("clean", &c)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := c.check(); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	img, err := imaging.LoadFile(c.in)
	if err != nil {
		return err
	}
	report := blueprint.NewExtractor(cfg).RemoveText(img)
	if err := imaging.Save(c.out, report.Cleaned); err != nil {
		return err
	}
	logger.Info("removed text",
		"in", c.in,
		"out", c.out,
		"text_boxes", len(report.TextBoxes),
		"dimension_boxes", len(report.DimensionBoxes),
	)
	return nil
}

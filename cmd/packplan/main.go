// Command packplan estimates storage units for a selection file and can write
// a packing manifest without running the HTTP service.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hemingto/boombox-11.0-sub001/internal/catalog"
	"github.com/hemingto/boombox-11.0-sub001/internal/config"
	"github.com/hemingto/boombox-11.0-sub001/internal/export"
	"github.com/hemingto/boombox-11.0-sub001/internal/logging"
	"github.com/hemingto/boombox-11.0-sub001/internal/packing"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "packplan: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	app := kingpin.New("packplan", "Estimate storage units for a selection of household items")
	selectionFile := app.Arg("selection", "YAML or JSON selection file").Required().ExistingFile()
	catalogFile := app.Flag("catalog", "YAML item catalog (defaults to the built-in catalog)").String()
	containerStr := app.Flag("container", "Container interior as WIDTHxDEPTHxHEIGHT inches").Default("96x72x96").String()
	fillFactor := app.Flag("fill-factor", "Usable fraction of container volume").Default("0.85").Float64()
	out := app.Flag("out", "Write a manifest to this path (.xlsx or .pdf)").String()
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").String()

	if _, err := app.Parse(args); err != nil {
		return err
	}

	logger, err := logging.New(config.LogConfig{Level: *logLevel})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	container, err := config.ParseContainer(*containerStr)
	if err != nil {
		return fmt.Errorf("container: %w", err)
	}

	cat, err := openCatalog(*catalogFile)
	if err != nil {
		return err
	}

	sel, err := readSelection(*selectionFile)
	if err != nil {
		return err
	}

	engine, err := packing.New(cat, container, packing.WithFillFactor(*fillFactor), packing.WithLogger(logger))
	if err != nil {
		return err
	}

	est, err := engine.Estimate(sel)
	if err != nil {
		for _, item := range packing.OversizedItems(err) {
			fmt.Fprintf(stdout, "too large: %s (%gx%gx%g)\n", item.Key, item.Width, item.Depth, item.Height)
		}
		return err
	}

	printSummary(stdout, est)

	if *out != "" {
		if err := writeManifest(*out, est); err != nil {
			return err
		}
		logger.Info("manifest written", zap.String("path", *out))
		fmt.Fprintf(stdout, "manifest: %s\n", *out)
	}
	return nil
}

func openCatalog(path string) (*catalog.MemoryCatalog, error) {
	if path == "" {
		return catalog.NewDefault(), nil
	}
	items, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return catalog.New(items)
}

func readSelection(path string) (packing.Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return packing.Selection{}, fmt.Errorf("read selection: %w", err)
	}

	var sel packing.Selection
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return packing.Selection{}, fmt.Errorf("parse selection: %w", err)
	}
	return sel, nil
}

func printSummary(w io.Writer, est packing.Estimate) {
	fmt.Fprintf(w, "container:        %gx%gx%g in (%.0f cu ft, fill factor %.2f)\n",
		est.Container.Width, est.Container.Depth, est.Container.Height, est.Container.CubicFeet(), est.FillFactor)
	fmt.Fprintf(w, "total volume:     %.2f cu ft\n", est.TotalCubicFeet)
	fmt.Fprintf(w, "units recommended: %d\n", est.UnitsRecommended)
	fmt.Fprintf(w, "containers packed: %d (last %.1f%% full)\n", est.ContainerCount, est.LastContainerFillPercent)
	fmt.Fprintf(w, "items placed:     %d\n", len(est.PackedItems))
	for _, warning := range est.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning.Message)
	}
}

func writeManifest(path string, est packing.Estimate) error {
	var render func(io.Writer, packing.Estimate) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		render = export.WriteXLSX
	case ".pdf":
		render = export.WritePDF
	default:
		return fmt.Errorf("manifest %s: extension must be .xlsx or .pdf", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := render(f, est); err != nil {
		_ = f.Close()
		return fmt.Errorf("render manifest: %w", err)
	}
	return f.Close()
}

// Command apply runs a layer-stack JSON file over a PNG image using the CPU
// filter registry, without a server or renderer. It exercises the same code
// path the engine falls back to when no renderer is attached.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/lumafx/lumafx/internal/infra"
	"github.com/lumafx/lumafx/internal/raster"
	"github.com/lumafx/lumafx/internal/stack"
)

func main() {
	var (
		inPath     = flag.String("in", "", "input PNG path")
		outPath    = flag.String("out", "", "output PNG path")
		layersPath = flag.String("layers", "", "layer stack JSON path")
	)
	flag.Parse()

	logger := infra.NewLogger("development")
	if *inPath == "" || *outPath == "" || *layersPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	layers := loadLayers(logger, *layersPath)

	data, err := os.ReadFile(*inPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("read input image")
	}
	img, err := raster.DecodePNG(data)
	if err != nil {
		logger.Fatal().Err(err).Msg("decode input image")
	}

	result := stack.Apply(img, layers)

	out, err := os.Create(*outPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("create output file")
	}
	defer out.Close()
	if err := raster.EncodePNG(out, result); err != nil {
		logger.Fatal().Err(err).Msg("encode output image")
	}
	logger.Info().
		Str("in", *inPath).
		Str("out", *outPath).
		Int("layers", len(layers)).
		Msg("stack applied")
}

func loadLayers(logger zerolog.Logger, path string) []stack.Layer {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal().Err(err).Msg("read layer stack")
	}
	var layers []stack.Layer
	if err := json.Unmarshal(data, &layers); err != nil {
		logger.Fatal().Err(err).Msg("parse layer stack")
	}
	return layers
}

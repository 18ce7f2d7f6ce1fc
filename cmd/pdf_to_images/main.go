// pdf_to_images reads a PDF from stdin and writes a JSON array of
// JPEG-rendered pages (base64) to stdout. An optional positional argument
// selects pages: a single 1-based number or a JSON array of them. With
// --save (or --output DIR) each page is also written to disk. Oversized
// documents and unreadable input yield an empty array.
package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/formkit-tools/pdfformkit/internal/config"
	"github.com/formkit-tools/pdfformkit/internal/render"
)

func main() {
	save := pflag.Bool("save", false, "Save rendered pages as files")
	output := pflag.String("output", "", "Output directory for saved pages (implies --save)")

	cfg, err := config.Load()
	if err != nil {
		pflag.Usage()
		os.Exit(1)
	}
	log := cfg.NewLogger()

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.WithError(err).Error("reading stdin failed")
		data = nil
	}
	log.WithField("bytes", len(data)).Debug("received PDF data")

	var pages []int
	if pflag.NArg() > 0 {
		pages, err = render.ParsePagesArg(pflag.Arg(0))
		if err != nil {
			log.WithError(err).Warn("ignoring invalid pages argument")
		}
	}

	converter := &render.Converter{
		Opts: render.Options{
			PageCeiling: cfg.PageCeiling,
			MaxPages:    cfg.MaxConvertPages,
			DPI:         cfg.RenderDPI,
			Quality:     cfg.JPEGQuality,
		},
		Log: log,
	}
	images := converter.Convert(data, pages)

	if *save || *output != "" {
		dir := cfg.OutputDir
		if *output != "" {
			dir = *output
		}
		if err := render.SaveAll(images, dir, log); err != nil {
			log.WithError(err).Error("saving images failed")
		}
	}

	if err := json.NewEncoder(os.Stdout).Encode(images); err != nil {
		log.WithError(err).Error("encoding result failed")
	}
}

// pdf_discover_fields reads a PDF from stdin and writes a JSON array of its
// form fields, in reading order with 1-based ids, to stdout. An unreadable
// document yields an empty array, never a non-zero exit: callers always get
// parseable output.
package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/formkit-tools/pdfformkit/internal/config"
	"github.com/formkit-tools/pdfformkit/internal/fields"
)

func main() {
	page := pflag.Int("page", 0, "Extract fields from this 1-based page only (default: all pages)")
	noLabels := pflag.Bool("no-labels", false, "Skip label detection from page text")

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

	discoverer := &fields.Discoverer{Log: log, DetectLabels: !*noLabels}
	result := discoverer.Discover(data, *page)

	if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
		log.WithError(err).Error("encoding result failed")
	}
}

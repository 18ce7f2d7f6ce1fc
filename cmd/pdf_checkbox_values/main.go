// pdf_checkbox_values reads a PDF from stdin and writes a JSON object
// mapping every checkbox field name to its export values ("Off" first) and
// current state. Failures yield an empty object.
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

	discoverer := &fields.Discoverer{Log: log}
	result := discoverer.DiscoverCheckboxes(data)

	if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
		log.WithError(err).Error("encoding result failed")
	}
}

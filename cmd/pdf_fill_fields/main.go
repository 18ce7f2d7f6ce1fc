// pdf_fill_fields reads a PDF from stdin and a JSON object of field values
// as its first argument, writes the filled document to stdout and a
// per-field verification report to stderr. If filling fails for any reason
// the original bytes pass through unmodified.
package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
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
	log.WithField("bytes", len(data)).Debug("received PDF data")

	values := map[string]string{}
	if pflag.NArg() > 0 {
		values, err = fields.ParseValueMap([]byte(pflag.Arg(0)))
		if err != nil {
			log.WithError(err).Error("invalid field values argument")
			passThrough(data)
			return
		}
	}
	log.WithField("fields", len(values)).Debug("attempting to fill form fields")

	filler := &fields.Filler{Log: log}
	filled, count, err := filler.Fill(data, values)
	if err != nil {
		log.WithError(err).Error("filling failed, returning original PDF")
		passThrough(data)
		return
	}
	log.WithField("count", count).Info("filled form fields")

	verify(filled, values, log)

	if _, err := os.Stdout.Write(filled); err != nil {
		log.WithError(err).Error("writing result failed")
	}
}

// verify re-reads the filled document and reports expected vs. actual for
// every requested field.
func verify(filled []byte, values map[string]string, log *logrus.Logger) {
	for _, f := range fields.Verify(filled, log) {
		expected, ok := values[f.Name]
		if !ok {
			continue
		}
		entry := log.WithFields(logrus.Fields{"field": f.Name, "value": f.Value})
		if f.Value == expected {
			entry.Info("verified")
		} else {
			entry.WithField("expected", expected).Warn("mismatch")
		}
	}
}

func passThrough(data []byte) {
	_, _ = os.Stdout.Write(data)
}

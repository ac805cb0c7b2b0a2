package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/igelhaus/qubiq/extractor"
	"github.com/igelhaus/qubiq/logging"
	"github.com/igelhaus/qubiq/text"
)

var extractFlags = struct {
	logLevel string
	language string
	files    []string
	mbf      int
	mbs      float64
	mser     float64
	mled     int
	mred     int
	qdt      float64
}{}

var rootCmd = &cobra.Command{
	Use:           "extract-terms",
	Short:         "Extract candidate multi-word terms from a text corpus",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runExtract,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&extractFlags.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	f.StringVar(&extractFlags.language, "language", "en", "2-letter ISO locale code")
	f.StringArrayVar(&extractFlags.files, "file", nil, "input file (repeatable; reads stdin if omitted)")
	f.IntVar(&extractFlags.mbf, "mbf", extractor.DefaultMinBigramFrequency, "minimum bigram frequency")
	f.Float64Var(&extractFlags.mbs, "mbs", extractor.DefaultMinBigramScore, "minimum bigram score")
	f.Float64Var(&extractFlags.mser, "mser", extractor.DefaultMaxSourceExtractionRate, "maximum source extraction rate")
	f.IntVar(&extractFlags.mled, "mled", extractor.DefaultMaxLeftExpansionDistance, "maximum left expansion distance")
	f.IntVar(&extractFlags.mred, "mred", extractor.DefaultMaxRightExpansionDistance, "maximum right expansion distance")
	f.Float64Var(&extractFlags.qdt, "qdt", extractor.DefaultQualityDecreaseThreshold, "quality decrease threshold")
}

func Execute() error {
	return rootCmd.Execute()
}

func runExtract(cmd *cobra.Command, args []string) error {
	if !logging.SetLevelByName(extractFlags.logLevel) {
		return fmt.Errorf("unrecognized --log-level %q", extractFlags.logLevel)
	}

	tx, err := text.New(text.WithLocale(extractFlags.language))
	if err != nil {
		return err
	}

	if len(extractFlags.files) == 0 {
		if err := appendReaderSource(tx, os.Stdin); err != nil {
			return err
		}
	} else {
		for _, path := range extractFlags.files {
			if err := tx.AppendFile(path); err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
		}
	}

	cfg := extractor.Config{
		MinBigramFrequency:       extractFlags.mbf,
		MinBigramScore:           extractFlags.mbs,
		MaxSourceExtractionRate:  extractFlags.mser,
		MaxLeftExpansionDistance: extractFlags.mled,
		MaxRightExpansionDistance: extractFlags.mred,
		QualityDecreaseThreshold: extractFlags.qdt,
		Filter:                   extractor.NewEnglishFilter(),
	}

	ex := extractor.New(tx, cfg)
	if _, err := ex.Extract(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, term := range ex.SortedByScore() {
		fmt.Fprintf(w, "%s\t%.6f\n", term.Image(), term.Score())
	}
	return nil
}

func appendReaderSource(tx *text.Text, r *os.File) error {
	buf, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return tx.Append(string(buf))
}

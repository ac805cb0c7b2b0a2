package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/igelhaus/qubiq/extractor"
)

const sampleCorpus = `A database connection string is a special format string is ` +
	`passed to the database driver each time a database connection is performed. ` +
	`It is very important to specify correct setting in the database connection ` +
	`string since default connection parameters will generally not work.`

func resetExtractFlags() {
	extractFlags.logLevel = "info"
	extractFlags.language = "en"
	extractFlags.files = nil
	extractFlags.mbf = extractor.DefaultMinBigramFrequency
	extractFlags.mbs = extractor.DefaultMinBigramScore
	extractFlags.mser = extractor.DefaultMaxSourceExtractionRate
	extractFlags.mled = extractor.DefaultMaxLeftExpansionDistance
	extractFlags.mred = extractor.DefaultMaxRightExpansionDistance
	extractFlags.qdt = extractor.DefaultQualityDecreaseThreshold
}

func runExtractForTest(out *bytes.Buffer) error {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return runExtract(cmd, nil)
}

func TestRunExtractWritesScoredTerms(t *testing.T) {
	resetExtractFlags()

	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(path, []byte(sampleCorpus), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	extractFlags.files = []string{path}

	var out bytes.Buffer
	if err := runExtractForTest(&out); err != nil {
		t.Fatalf("runExtract() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatalf("runExtract() produced no output")
	}
	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			t.Errorf("line %q does not have exactly one tab-separated score field", line)
		}
	}
}

func TestRunExtractRejectsUnknownLogLevel(t *testing.T) {
	resetExtractFlags()
	extractFlags.logLevel = "bogus"

	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(path, []byte(sampleCorpus), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	extractFlags.files = []string{path}

	var out bytes.Buffer
	if err := runExtractForTest(&out); err == nil {
		t.Fatalf("runExtract() error = nil, want an error for an unrecognized log level")
	}
}

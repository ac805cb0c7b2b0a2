package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/igelhaus/qubiq/fst"
	"github.com/igelhaus/qubiq/logging"
	"github.com/igelhaus/qubiq/opcore"
)

var buildFlags = struct {
	in       string
	out      string
	selfTest bool
}{}

var rootCmd = &cobra.Command{
	Use:           "build-transducer",
	Short:         "Build a minimal transducer from a sorted key/value dictionary",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runBuild,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&buildFlags.in, "in", "src-transducer", "input dictionary path (sorted key\\tvalue lines)")
	f.StringVar(&buildFlags.out, "out", "src-transducer-qutd", "output QUTD path")
	f.BoolVar(&buildFlags.selfTest, "self-test", false, "verify every input key looks up after the build")
}

func Execute() error {
	return rootCmd.Execute()
}

func runBuild(cmd *cobra.Command, args []string) error {
	mgr := fst.NewTransducerManager()

	onBuildProgress := func(done, total int64) {
		fmt.Fprintf(os.Stderr, "building... %d bytes read\n", done)
	}
	onSaveProgress := func(done, total int64) {
		fmt.Fprintf(os.Stderr, "saving... %d/%d states\n", done, total)
	}

	buildResult := <-opcore.RunAsync(context.Background(), func(ctx context.Context) error {
		return mgr.BuildFromFile(buildFlags.in, fst.DefaultBuildOptions(), onBuildProgress)
	}, opcore.Callbacks{})
	if !buildResult.Success {
		return fmt.Errorf("build: %s", buildResult.Message)
	}
	fmt.Fprintln(os.Stderr, "successfully built")

	var selfTestErr error
	if buildFlags.selfTest {
		mismatches, err := selfTest(mgr.Transducer(), buildFlags.in)
		if err != nil {
			return err
		}
		if len(mismatches) > 0 {
			for _, m := range mismatches {
				fmt.Fprintf(os.Stderr, "self-test mismatch: key=%q reachedPos=%d\n", m.key, m.reachedPos)
			}
			selfTestErr = fmt.Errorf("self-test failed: %d of the input keys did not look up", len(mismatches))
		} else {
			fmt.Fprintln(os.Stderr, "successfully self-tested")
		}
	}

	saveResult := <-opcore.RunAsync(context.Background(), func(ctx context.Context) error {
		return mgr.SaveToFile(buildFlags.out, onSaveProgress)
	}, opcore.Callbacks{})
	if !saveResult.Success {
		return fmt.Errorf("save: %s", saveResult.Message)
	}

	logging.Logger().InfoFields("transducer saved", logging.String("out", buildFlags.out))
	return selfTestErr
}

type selfTestMismatch struct {
	key        string
	reachedPos int
}

func selfTest(tr *fst.Transducer, path string) ([]selfTestMismatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var mismatches []selfTestMismatch

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		key, _, ok := strings.Cut(line, "\t")
		if !ok {
			key = line
		}

		out, trace := tr.SearchTrace(key)
		if out == nil {
			mismatches = append(mismatches, selfTestMismatch{key: key, reachedPos: trace.ReachedPos})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return mismatches, nil
}

package opcore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunAsyncSuccessSendsOneResult(t *testing.T) {
	var finished Result
	var gotFinished bool

	ch := RunAsync(context.Background(), func(ctx context.Context) error {
		return nil
	}, Callbacks{
		OnFinished: func(r Result) { finished = r; gotFinished = true },
	})

	select {
	case r := <-ch:
		if !r.Success {
			t.Errorf("Result.Success = false, want true")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for result")
	}

	if !gotFinished {
		t.Fatalf("OnFinished never called")
	}
	if !finished.Success {
		t.Errorf("OnFinished Result.Success = false, want true")
	}
}

func TestRunAsyncFailurePropagatesMessage(t *testing.T) {
	wantErr := errors.New("boom")
	ch := RunAsync(context.Background(), func(ctx context.Context) error {
		return wantErr
	}, Callbacks{})

	r := <-ch
	if r.Success {
		t.Errorf("Result.Success = true, want false")
	}
	if r.Message != wantErr.Error() {
		t.Errorf("Result.Message = %q, want %q", r.Message, wantErr.Error())
	}
}

func TestCallbacksProgressFieldsArePlainFunctions(t *testing.T) {
	var gotDone, gotTotal int64

	ch := RunAsync(context.Background(), func(ctx context.Context) error {
		return nil
	}, Callbacks{})
	<-ch

	// Progress callbacks are invoked by op itself, not by RunAsync; verify
	// the Callbacks fields are plain pass-through function values an op can
	// call directly.
	cb := Callbacks{OnBuildProgress: func(done, total int64) { gotDone, gotTotal = done, total }}
	cb.OnBuildProgress(10, 100)
	if gotDone != 10 || gotTotal != 100 {
		t.Errorf("OnBuildProgress forwarded (%d, %d), want (10, 100)", gotDone, gotTotal)
	}
}

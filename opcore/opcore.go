// Package opcore adapts the synchronous core (text indexing, extraction,
// transducer build/save/load) to a worker-goroutine model: a long-running
// operation runs off the caller's goroutine and reports progress and a
// terminal result through plain callbacks, following spec.md §5's
// description of the original worker-thread wrapper around build/save/load.
package opcore

import "context"

// Result is the terminal outcome of an asynchronous operation.
type Result struct {
	Success bool
	Message string
}

// Callbacks groups the progress and terminal notifications an operation may
// emit. Every field is optional. RunAsync itself invokes only OnFinished;
// the progress fields are plain function values for an op to call.
type Callbacks struct {
	OnBuildProgress func(bytesRead, bytesTotal int64)
	OnSaveProgress  func(statesDone, statesTotal int64)
	OnLoadProgress  func(statesDone, statesTotal int64)
	OnFinished      func(Result)
}

// RunAsync runs op on a dedicated goroutine and reports its outcome on the
// returned channel, which receives exactly one Result before being closed;
// the channel is buffered, so the send never blocks. cb.OnFinished, if set,
// is called with the same Result just before the send. RunAsync does not
// call the progress fields of cb: op reports progress through the functions
// it captures, and those run synchronously on op's goroutine — op and its
// callers are responsible for making them safe to call from there. ctx is
// passed to op unchanged; RunAsync does not cancel or abort op.
func RunAsync(ctx context.Context, op func(context.Context) error, cb Callbacks) <-chan Result {
	out := make(chan Result, 1)

	go func() {
		err := op(ctx)

		var result Result
		if err != nil {
			result = Result{Success: false, Message: err.Error()}
		} else {
			result = Result{Success: true, Message: ""}
		}

		if cb.OnFinished != nil {
			cb.OnFinished(result)
		}

		out <- result
		close(out)
	}()

	return out
}

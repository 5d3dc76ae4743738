package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/storey/pkg/plan"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs longer than the engine's limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to an evaluation overtaken by a newer one.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	specs  []plan.FloorSpec
	errors []EvalError
	err    error
}

// await waits for the result of evaluation gen. A result that arrives after
// a newer evaluation started is discarded. On timeout the goroutine keeps
// running; whatever it sends later lands in the buffered channel unread.
func (e *Engine) await(ch <-chan evalResult, gen uint64) ([]plan.FloorSpec, []EvalError, error) {
	limit := e.Timeout
	if limit <= 0 {
		limit = EvalTimeout
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if e.current() != gen {
			return nil, nil, ErrSuperseded
		}
		return res.specs, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}

func (e *Engine) current() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/trycatch"
	"github.com/deepnoodle-ai/trycatch/errz"
)

// exceptions defined by the demo
const (
	excDemo trycatch.ID = trycatch.NextFree + iota
	excOther
)

type scenario struct {
	name string
	run  func(e *trycatch.Engine, w io.Writer) bool
}

var errScenarios = errors.New("one or more scenarios failed")

func newDemoCmd(a *app) *cobra.Command {
	var overflow bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the exception handling scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDemo(overflow)
		},
	}
	cmd.Flags().BoolVar(&overflow, "overflow", false,
		"finish by nesting one region too many, which terminates the process")
	return cmd
}

// newEngine builds an engine from the configuration. When the fault bridge
// is enabled it is registered on the calling goroutine; the returned func
// undoes that.
func (a *app) newEngine() (*trycatch.Engine, func(), error) {
	logger := a.cfg.Logger(a.stderr)
	e, err := trycatch.New(a.cfg.EngineOptions(logger)...)
	if err != nil {
		return nil, nil, err
	}
	if !a.cfg.FaultBridge {
		return e, func() {}, nil
	}
	return e, e.RegisterFaultHandler(), nil
}

func (a *app) runDemo(overflow bool) error {
	failed := 0
	for _, s := range a.scenarios() {
		e, restore, err := a.newEngine()
		if err != nil {
			return err
		}
		ok := s.run(e, a.stdout)
		restore()
		if ok && e.Depth() != 0 {
			ok = false
		}
		status := green("OK")
		if !ok {
			status = red("NOK")
			failed++
		}
		fmt.Fprintf(a.stdout, "%s: %s\n", s.name, status)
	}
	if overflow {
		e, restore, err := a.newEngine()
		if err != nil {
			return err
		}
		defer restore()
		fmt.Fprintf(a.stdout, "overflow: nesting %d regions\n", e.Capacity()+1)
		nest(e, e.Capacity()+1, func() {})
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d", errScenarios, failed)
	}
	return nil
}

// nest runs body inside n nested regions.
func nest(e *trycatch.Engine, n int, body func()) {
	if n == 0 {
		body()
		return
	}
	e.Try(func() { nest(e, n-1, body) }).End()
}

func (a *app) scenarios() []scenario {
	list := []scenario{
		{"catch", func(e *trycatch.Engine, w io.Writer) bool {
			caught := 0
			e.Try(func() {
				e.Raise(excDemo)
			}).Catch(excDemo, func(trycatch.ID) {
				caught++
			}).End()
			return caught == 1
		}},
		{"catch across call", func(e *trycatch.Engine, w io.Writer) bool {
			caught := false
			raiser := func() { e.Raise(excDemo) }
			e.Try(raiser).Catch(excDemo, func(trycatch.ID) { caught = true }).End()
			return caught
		}},
		{"propagate outward", func(e *trycatch.Engine, w io.Writer) bool {
			var got trycatch.ID
			e.Try(func() {
				e.Try(func() {
					e.Try(func() {
						e.Raise(excDemo)
					}).Catch(excOther, func(trycatch.ID) {}).End()
				}).End()
			}).Catch(excDemo, func(id trycatch.ID) { got = id }).End()
			return got == excDemo
		}},
		{"unhandled outside region", func(e *trycatch.Engine, w io.Writer) bool {
			continued := false
			e.Raise(excDemo)
			continued = true
			return continued
		}},
		{"unhandled after forward", func(e *trycatch.Engine, w io.Writer) bool {
			after := false
			e.Try(func() {
				e.Raise(excOther)
			}).Catch(excDemo, func(trycatch.ID) {}).End()
			after = true
			return after
		}},
		{"nest to capacity", func(e *trycatch.Engine, w io.Writer) bool {
			ran := false
			nest(e, e.Capacity(), func() { ran = true })
			return ran
		}},
		{"not a number", func(e *trycatch.Engine, w io.Writer) bool {
			caught := false
			e.Try(func() {
				e.CheckFloat(math.Sqrt(-1))
			}).Catch(trycatch.NaN, func(trycatch.ID) { caught = true }).End()
			return caught
		}},
		{"io error", func(e *trycatch.Engine, w io.Writer) bool {
			caught := false
			d := errz.New(errz.WithOutput(io.Discard), errz.WithRaiser(e))
			e.Try(func() {
				d.OpenIn(filepath.Join("does", "not", "exist"))
			}).Catch(trycatch.IOError, func(trycatch.ID) { caught = true }).End()
			return caught
		}},
		{"error report", func(e *trycatch.Engine, w io.Writer) bool {
			d := errz.New(errz.WithOutput(w))
			d.Set(errz.KindInvalidArg, false, "demo: invalid arg").Report()
			return d.Kind == errz.KindUnknown && d.Fatal
		}},
	}
	if a.cfg.FaultBridge {
		list = append(list, scenario{"fault", func(e *trycatch.Engine, w io.Writer) bool {
			caught := false
			e.Try(func() {
				var p *int
				*p = 1
			}).Catch(trycatch.Fault, func(trycatch.ID) { caught = true }).End()
			return caught
		}})
	}
	return list
}

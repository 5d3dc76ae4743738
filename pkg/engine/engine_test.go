package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/chazu/storey/pkg/plan"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	for _, src := range []string{"", "   \n\t  \n  "} {
		specs, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("unexpected eval errors: %v", evalErrs)
		}
		if specs == nil || len(specs) != 0 {
			t.Errorf("expected empty non-nil specs, got %#v", specs)
		}
	}
}

func TestEvaluatePlainExpression(t *testing.T) {
	eng := NewEngine()

	specs, evalErrs, err := eng.Evaluate("(def x 10)\n(+ x 20)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(specs) != 0 {
		t.Errorf("expected no floors, got %d", len(specs))
	}
}

const houseScript = `
; A two storey house with a flat roof.
(defaults :scale 0.01 :depth 30 :extrude ["walls"] :slab "floor")

(level "Ground" :svg "ground.svg")
(level "First" :svg "first.svg" :offset (vec2 0.5 -1) :extrude [:walls :stairs])
(level "Roof" :svg "roof.svg" :extrude [] :slab nil :depth 5)
`

func TestEvaluateHouse(t *testing.T) {
	eng := NewEngine()

	specs, evalErrs, err := eng.Evaluate(houseScript)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}

	want := []plan.FloorSpec{
		{
			Name: "Ground", Source: "ground.svg", Scale: 0.01, ExtrudeDepth: 30,
			ExtrudedSections: []string{"walls"}, FloorLayer: "floor",
		},
		{
			Name: "First", Source: "first.svg", Scale: 0.01, ExtrudeDepth: 30,
			Offset:           plan.Offset{X: 0.5, Y: -1},
			ExtrudedSections: []string{"walls", "stairs"}, FloorLayer: "floor",
		},
		{
			Name: "Roof", Source: "roof.svg", Scale: 0.01, ExtrudeDepth: 5,
			ExtrudedSections: []string{},
		},
	}
	if !reflect.DeepEqual(specs, want) {
		t.Errorf("specs mismatch:\n got %#v\nwant %#v", specs, want)
	}
}

func TestEvaluateDefaultsDoNotAlias(t *testing.T) {
	eng := NewEngine()

	specs, evalErrs, err := eng.Evaluate(`
(defaults :scale 1 :extrude ["walls"])
(level "A" :svg "a.svg")
(level "B" :svg "b.svg")
`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("unexpected errors: %v %v", err, evalErrs)
	}
	specs[0].ExtrudedSections[0] = "changed"
	if specs[1].ExtrudedSections[0] != "walls" {
		t.Errorf("floors share their section list")
	}
}

func TestEvaluateVariables(t *testing.T) {
	eng := NewEngine()

	specs, evalErrs, err := eng.Evaluate(`
(def storey-depth 28)
(level "Only" :svg "only.svg" :depth storey-depth :slab :floor)
`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("unexpected errors: %v %v", err, evalErrs)
	}
	if len(specs) != 1 {
		t.Fatalf("expected 1 floor, got %d", len(specs))
	}
	if specs[0].ExtrudeDepth != 28 || specs[0].FloorLayer != "floor" || specs[0].Scale != 1 {
		t.Errorf("unexpected spec %#v", specs[0])
	}
}

func TestEvaluateScriptErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"duplicate name", `(level "A" :svg "a.svg") (level "A" :svg "b.svg")`, "duplicate"},
		{"unknown keyword", `(level "A" :svg "a.svg" :height 3)`, "height"},
		{"bad offset", `(level "A" :svg "a.svg" :offset 3)`, "vec2"},
		{"bad depth", `(level "A" :svg "a.svg" :depth "deep")`, "depth"},
		{"missing name", `(level :svg "a.svg")`, "name"},
		{"bad vec2 arity", `(vec2 1)`, "vec2"},
		{"invalid scale", `(level "A" :svg "a.svg" :scale 0)`, "scale"},
		{"missing source", `(level "A")`, "source"},
		{"positional defaults", `(defaults 3)`, "keyword"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewEngine()
			specs, evalErrs, err := eng.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if specs != nil {
				t.Fatalf("expected nil specs, got %#v", specs)
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected eval errors")
			}
			found := false
			for _, e := range evalErrs {
				if strings.Contains(e.Message, tt.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", evalErrs, tt.wantMsg)
			}
		})
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	specs, evalErrs, err := eng.Evaluate("(level \"A\" :svg \"a.svg\")\n(level \"B\"")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if specs != nil {
		t.Fatal("expected nil specs on syntax error")
	}
	if len(evalErrs) == 0 || evalErrs[0].Message == "" {
		t.Fatalf("expected a populated eval error, got %v", evalErrs)
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	specs, evalErrs, err := eng.Evaluate("(level \"A\" :svg \"a.svg\" :depth undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if specs != nil {
		t.Fatal("expected nil specs on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()

	first, _, err := eng.Evaluate(houseScript)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, evalErrs, err := eng.Evaluate(houseScript)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: %v %v", i, err, evalErrs)
		}
		if !reflect.DeepEqual(first, again) {
			t.Errorf("iteration %d: result changed", i)
		}
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	if s := e.Error(); !strings.Contains(s, "line 5") || !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() = %q", s)
	}
	e2 := EvalError{Message: "no location"}
	if s := e2.Error(); strings.Contains(s, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// await is exercised directly with a channel that never delivers;
	// zygomys has no convenient way to hang on purpose.
	eng := &Engine{Timeout: 50 * time.Millisecond, generation: 1}
	ch := make(chan evalResult)

	done := make(chan error, 1)
	go func() {
		_, _, err := eng.await(ch, 1)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("expected timeout error, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	eng := &Engine{generation: 2}

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, _, err := eng.await(ch, 1)
	if !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"line format lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short line format", "line 3: bad form", 3, "bad form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }

package engine

import (
	"reflect"
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"simple keyword", `(level "A" :svg "a.svg")`, `(level "A" "__kw_svg" "a.svg")`},
		{"multiple keywords", `(defaults :scale 0.01 :depth 30)`, `(defaults "__kw_scale" 0.01 "__kw_depth" 30)`},
		{"keyword in string preserved", `"thing with :keyword inside"`, `"thing with :keyword inside"`},
		{"escaped quote in string", `"say \":hi\"" :x`, `"say \":hi\"" "__kw_x"`},
		{"backtick string preserved", "`raw :kw a-b`", "`raw :kw a-b`"},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(level-count)`, `(level_count)`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"negative number preserved", `(vec2 0 -1)`, `(vec2 0 -1)`},
		{"double semicolon comment", `;; comment with :keyword`, `// comment with :keyword`},
		{"single semicolon comment", "; simple comment\n(+ 1 2)", "// simple comment\n(+ 1 2)"},
		{"hyphen in keyword preserved", `:first-floor`, `"__kw_first-floor"`},
		{"array of keywords", `[:walls :doors]`, `["__kw_walls" "__kw_doors"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	svg := &zygo.SexpStr{S: "a.svg"}
	args := []zygo.Sexp{
		&zygo.SexpStr{S: "Ground"},
		&zygo.SexpStr{S: kwPrefix + "svg"}, svg,
		&zygo.SexpStr{S: kwPrefix + "flag"},
	}
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		t.Fatalf("positional = %d, want 1", len(pa.positional))
	}
	if pa.kw["svg"] != svg {
		t.Errorf("svg keyword not bound to its value")
	}
	if pa.kw["flag"] != zygo.SexpNull {
		t.Errorf("trailing keyword should map to null")
	}
	if k := pa.unknown("svg"); k != "flag" {
		t.Errorf("unknown = %q, want flag", k)
	}
	if k := pa.unknown("svg", "flag"); k != "" {
		t.Errorf("unknown = %q, want none", k)
	}
}

func TestToNames(t *testing.T) {
	arr := &zygo.SexpArray{Val: []zygo.Sexp{
		&zygo.SexpStr{S: "walls"},
		&zygo.SexpStr{S: kwPrefix + "doors"},
	}}
	got, err := toNames(arr)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"walls", "doors"}) {
		t.Errorf("toNames = %v", got)
	}

	single, err := toNames(&zygo.SexpStr{S: "walls"})
	if err != nil || !reflect.DeepEqual(single, []string{"walls"}) {
		t.Errorf("single name: %v %v", single, err)
	}

	if _, err := toNames(&zygo.SexpInt{Val: 3}); err == nil {
		t.Error("expected error for a number")
	}
}

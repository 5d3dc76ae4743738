package engine

import (
	"fmt"
	"slices"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/storey/pkg/plan"
)

// sexpVec2 carries a planar offset between builtins.
type sexpVec2 struct {
	off plan.Offset
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.off.X, v.off.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpFloor is the value of a level form.
type sexpFloor struct {
	name  string
	index int
}

func (f *sexpFloor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(level %q #%d)", f.name, f.index)
}
func (f *sexpFloor) Type() *zygo.RegisteredType { return nil }

// building accumulates floor declarations during one evaluation.
type building struct {
	defaults plan.FloorSpec
	floors   []plan.FloorSpec
}

func newBuilding() *building {
	return &building{defaults: plan.FloorSpec{Scale: 1}}
}

// applyFloorArgs sets the fields named by keyword arguments on spec.
func applyFloorArgs(form string, spec *plan.FloorSpec, pa kwArgs) error {
	for _, key := range []string{"svg", "source"} {
		if v, ok := pa.kw[key]; ok {
			s, err := toString(v)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", form, key, err)
			}
			spec.Source = s
		}
	}
	if v, ok := pa.kw["scale"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("%s: scale: %w", form, err)
		}
		spec.Scale = f
	}
	if v, ok := pa.kw["depth"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("%s: depth: %w", form, err)
		}
		spec.ExtrudeDepth = f
	}
	if v, ok := pa.kw["offset"]; ok {
		vec, ok := v.(*sexpVec2)
		if !ok {
			return fmt.Errorf("%s: offset: expected (vec2 x y), got %T (%s)", form, v, v.SexpString(nil))
		}
		spec.Offset = vec.off
	}
	if v, ok := pa.kw["extrude"]; ok {
		names, err := toNames(v)
		if err != nil {
			return fmt.Errorf("%s: extrude: %w", form, err)
		}
		spec.ExtrudedSections = names
	}
	if v, ok := pa.kw["slab"]; ok {
		if v == zygo.SexpNull {
			spec.FloorLayer = ""
		} else {
			s, err := toName(v)
			if err != nil {
				return fmt.Errorf("%s: slab: %w", form, err)
			}
			spec.FloorLayer = s
		}
	}
	return nil
}

// registerBuiltins installs the building forms into env. Source must have
// been through preprocessSource so keywords are recognisable.
func registerBuiltins(env *zygo.Zlisp, b *building) {

	// (vec2 1.5 -2)
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{off: plan.Offset{X: x, Y: y}}, nil
	})

	// (defaults :scale 0.01 :depth 30 :extrude [:walls] :slab :floor)
	// Applies to floors declared after it.
	env.AddFunction("defaults", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("defaults takes keyword arguments only")
		}
		if k := pa.unknown("scale", "depth", "offset", "extrude", "slab"); k != "" {
			return zygo.SexpNull, fmt.Errorf("defaults: unknown keyword :%s", k)
		}
		return zygo.SexpNull, applyFloorArgs("defaults", &b.defaults, pa)
	})

	// (level "Ground" :svg "ground.svg" :offset (vec2 0 0) :extrude ["walls"]
	//        :slab "floor" :depth 30 :scale 0.01)
	env.AddFunction("level", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("level requires exactly one name argument")
		}
		floorName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("level: name: %w", err)
		}
		if k := pa.unknown("svg", "source", "scale", "depth", "offset", "extrude", "slab"); k != "" {
			return zygo.SexpNull, fmt.Errorf("floor %q: unknown keyword :%s", floorName, k)
		}
		if slices.ContainsFunc(b.floors, func(f plan.FloorSpec) bool { return f.Name == floorName }) {
			return zygo.SexpNull, fmt.Errorf("level: duplicate floor name %q", floorName)
		}

		spec := b.defaults
		spec.Name = floorName
		spec.ExtrudedSections = slices.Clone(b.defaults.ExtrudedSections)
		if err := applyFloorArgs(fmt.Sprintf("floor %q", floorName), &spec, pa); err != nil {
			return zygo.SexpNull, err
		}
		b.floors = append(b.floors, spec)
		return &sexpFloor{name: floorName, index: len(b.floors) - 1}, nil
	})

	// (level-count)
	env.AddFunction("level_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(len(b.floors))}, nil
	})
}

package viz

import (
	"fmt"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/sph"
)

// Field is one editable number shown in the inspector.
type Field struct {
	Name  string
	Value *float64
}

// Components is implemented by vector types that expose their numeric
// components for in-place editing.
type Components interface {
	Components() []*float64
}

// Inspectable is anything that can list its editable fields.
type Inspectable interface {
	Fields() []Field
}

// VecFields lists v's components as name[0], name[1], ...
func VecFields[P Components](name string, v P) []Field {
	comps := v.Components()
	fields := make([]Field, len(comps))
	for i, c := range comps {
		fields[i] = Field{Name: fmt.Sprintf("%s[%d]", name, i), Value: c}
	}
	return fields
}

// RangeFields lists the components of r.Min, then r.Max.
func RangeFields[V base.Vector[V], P interface {
	*V
	Components
}](name string, r *base.Range[V]) []Field {
	fields := VecFields(name+".min", P(&r.Min))
	return append(fields, VecFields(name+".max", P(&r.Max))...)
}

// ParameterFields lists every tunable scalar of p, then gravity and the
// domain.
func ParameterFields(p *sph.Parameters) []Field {
	var fields []Field
	for _, nv := range p.Tunable() {
		fields = append(fields, Field{Name: nv.Name, Value: nv.Value})
	}
	fields = append(fields, VecFields("gravity", &p.Gravity)...)
	return append(fields, RangeFields("domain", &p.Domain)...)
}

// paramInspector adapts a parameter set to Inspectable.
type paramInspector struct{ p *sph.Parameters }

func (pi paramInspector) Fields() []Field { return ParameterFields(pi.p) }

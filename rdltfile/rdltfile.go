// Package rdltfile loads RDLT descriptions from JSON or YAML and validates
// them into model values the converter can consume.
package rdltfile

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// VertexInput is the wire shape of one vertex.
type VertexInput struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Type  string `json:"type" yaml:"type" validate:"required,oneof=b e c"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	M     int    `json:"M,omitempty" yaml:"M,omitempty" validate:"min=0,max=1"`
}

// EdgeInput is the wire shape of one edge. C defaults to ε and L to 1.
type EdgeInput struct {
	From string `json:"from" yaml:"from" validate:"required"`
	To   string `json:"to" yaml:"to" validate:"required"`
	C    string `json:"C,omitempty" yaml:"C,omitempty"`
	L    int    `json:"L,omitempty" yaml:"L,omitempty" validate:"min=0"`
}

// Input is the wire shape of a whole diagram.
type Input struct {
	Vertices []VertexInput `json:"vertices" yaml:"vertices" validate:"dive"`
	Edges    []EdgeInput   `json:"edges" yaml:"edges" validate:"dive"`
}

var kinds = map[string]rdlt.Kind{
	"b": rdlt.Boundary,
	"e": rdlt.Entity,
	"c": rdlt.Controller,
}

// ToRDLT validates the input and builds the immutable model value.
func (in *Input) ToRDLT() (*rdlt.RDLT, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", rdlt.ErrInvalidConstraint, err)
	}
	r := rdlt.New()
	for _, v := range in.Vertices {
		if err := r.AddVertex(&rdlt.Vertex{
			ID:          v.ID,
			Kind:        kinds[v.Type],
			Label:       v.Label,
			ResetCenter: v.M == 1,
		}); err != nil {
			return nil, err
		}
	}
	for _, e := range in.Edges {
		from := r.Vertex(e.From)
		to := r.Vertex(e.To)
		if from == nil {
			return nil, fmt.Errorf("%w: %s", rdlt.ErrUnknownVertex, e.From)
		}
		if to == nil {
			return nil, fmt.Errorf("%w: %s", rdlt.ErrUnknownVertex, e.To)
		}
		if from.Kind.Object() && to.Kind.Object() {
			return nil, fmt.Errorf("%w: edge %s -> %s connects two objects",
				rdlt.ErrInvalidTopology, e.From, e.To)
		}
		c := e.C
		if c == "" {
			c = rdlt.Epsilon
		}
		l := e.L
		if l == 0 {
			l = 1
		}
		if err := r.AddEdge(&rdlt.Edge{From: e.From, To: e.To, C: c, L: l}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// JSON loads diagrams from JSON.
type JSON struct{}

func (JSON) Load(r io.Reader) (*rdlt.RDLT, error) {
	dec := json.NewDecoder(r)
	var in Input
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", rdlt.ErrInvalidConstraint, err)
	}
	return in.ToRDLT()
}

// YAML loads diagrams from YAML.
type YAML struct{}

func (YAML) Load(r io.Reader) (*rdlt.RDLT, error) {
	dec := yaml.NewDecoder(r)
	var in Input
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", rdlt.ErrInvalidConstraint, err)
	}
	return in.ToRDLT()
}

// LoadString parses a JSON diagram from a string, the shape carried by the
// HTTP boundary.
func LoadString(s string) (*rdlt.RDLT, error) {
	return JSON{}.Load(strings.NewReader(s))
}

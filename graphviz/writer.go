// Package graphviz renders RDLTs and mapped Petri nets as graphviz figures.
package graphviz

import (
	"fmt"
	"io"

	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

type Font string

const (
	Helvetica Font = "Helvetica"
	SansSerif Font = "sans-serif"
)

type RankDir string

const (
	LeftToRight RankDir = "LR"
	TopToBottom RankDir = "TB"
)

type Format string

const (
	DOT Format = "dot"
	SVG Format = "svg"
	PNG Format = "png"
)

func (f Format) graphviz() graphviz.Format {
	switch f {
	case SVG:
		return graphviz.SVG
	case PNG:
		return graphviz.PNG
	default:
		return graphviz.XDOT
	}
}

type Config struct {
	Name string
	Font
	RankDir
	Format
}

func (c *Config) defaults() {
	if c.Name == "" {
		c.Name = "rdlt"
	}
	if c.Font == "" {
		c.Font = Helvetica
	}
	if c.RankDir == "" {
		c.RankDir = LeftToRight
	}
	if c.Format == "" {
		c.Format = DOT
	}
}

// RDLTWriter draws a diagram: boxes for boundary objects, ellipses for
// entities, plain text for controllers, dashed arcs for abstract edges.
type RDLTWriter struct {
	*Config
	g       *cgraph.Graph
	mapping map[string]*cgraph.Node
}

func NewRDLTWriter(config *Config) *RDLTWriter {
	config.defaults()
	return &RDLTWriter{
		Config:  config,
		mapping: make(map[string]*cgraph.Node),
	}
}

func (w *RDLTWriter) writeVertex(v *rdlt.Vertex) error {
	node, err := w.g.CreateNode(v.ID)
	if err != nil {
		return err
	}
	switch v.Kind {
	case rdlt.Boundary:
		node.SetShape(cgraph.BoxShape)
	case rdlt.Entity:
		node.SetShape(cgraph.EllipseShape)
	default:
		node.SetShape(cgraph.PlainTextShape)
	}
	label := v.ID
	if v.Label != "" {
		label = fmt.Sprintf("%s\n%s", v.ID, v.Label)
	}
	if v.ResetCenter || v.Center {
		node.SetPenWidth(2)
	}
	node.SetLabel(label)
	node.Set("fontname", string(w.Font))
	w.mapping[v.ID] = node
	return nil
}

func (w *RDLTWriter) writeEdge(i int, e *rdlt.Edge) error {
	name := fmt.Sprintf("e%d", i)
	edge, err := w.g.CreateEdge(name, w.mapping[e.From], w.mapping[e.To])
	if err != nil {
		return err
	}
	edge.SetLabel(fmt.Sprintf("%s: %d", e.C, e.L))
	if e.Kind == rdlt.AbstractEdge {
		edge.SetStyle(cgraph.DashedEdgeStyle)
	}
	return nil
}

func (w *RDLTWriter) Flush(out io.Writer, r *rdlt.RDLT) error {
	gv := graphviz.New()
	defer func() {
		_ = gv.Close()
	}()
	g, err := gv.Graph()
	if err != nil {
		return err
	}
	g.SetRankDir(cgraph.RankDir(w.RankDir))
	w.g = g
	for _, v := range r.Vertices {
		if err := w.writeVertex(v); err != nil {
			return err
		}
	}
	for i, e := range r.Edges {
		if err := w.writeEdge(i, e); err != nil {
			return err
		}
	}
	return gv.Render(g, w.Format.graphviz(), out)
}

// NetWriter draws a mapped net: circles for places labelled with their
// token count, boxes for transitions; reset arcs are drawn dotted.
type NetWriter struct {
	*Config
	g       *cgraph.Graph
	mapping map[string]*cgraph.Node
}

func NewNetWriter(config *Config) *NetWriter {
	config.defaults()
	return &NetWriter{
		Config:  config,
		mapping: make(map[string]*cgraph.Node),
	}
}

func (w *NetWriter) writePlace(p *petrinet.Place) error {
	node, err := w.g.CreateNode(p.ID)
	if err != nil {
		return err
	}
	node.SetShape(cgraph.CircleShape)
	label := p.ID
	if p.Tokens > 0 {
		label = fmt.Sprintf("%s\n%d", p.ID, p.Tokens)
	}
	node.SetLabel(label)
	node.Set("fontname", string(w.Font))
	switch p.Role {
	case petrinet.GlobalSource, petrinet.GlobalSink:
		node.SetPenWidth(2)
	case petrinet.Auxiliary:
		node.SetStyle(cgraph.DashedNodeStyle)
	}
	w.mapping[p.ID] = node
	return nil
}

func (w *NetWriter) writeTransition(t *petrinet.Transition) error {
	node, err := w.g.CreateNode(t.ID)
	if err != nil {
		return err
	}
	node.SetShape(cgraph.BoxShape)
	node.SetLabel(t.ID)
	node.Set("fontname", string(w.Font))
	w.mapping[t.ID] = node
	return nil
}

func (w *NetWriter) writeArc(i int, a *petrinet.Arc) error {
	name := fmt.Sprintf("a%d", i)
	edge, err := w.g.CreateEdge(name, w.mapping[a.From], w.mapping[a.To])
	if err != nil {
		return err
	}
	if a.Type == petrinet.ResetArc {
		edge.SetStyle(cgraph.DottedEdgeStyle)
	}
	if a.Weight > 1 {
		edge.SetLabel(fmt.Sprintf("%d", a.Weight))
	}
	return nil
}

func (w *NetWriter) Flush(out io.Writer, n *petrinet.Net) error {
	gv := graphviz.New()
	defer func() {
		_ = gv.Close()
	}()
	g, err := gv.Graph()
	if err != nil {
		return err
	}
	g.SetRankDir(cgraph.RankDir(w.RankDir))
	w.g = g
	for _, p := range n.Places {
		if err := w.writePlace(p); err != nil {
			return err
		}
	}
	for _, t := range n.Transitions {
		if err := w.writeTransition(t); err != nil {
			return err
		}
	}
	for i, a := range n.Arcs {
		if err := w.writeArc(i, a); err != nil {
			return err
		}
	}
	return gv.Render(g, w.Format.graphviz(), out)
}

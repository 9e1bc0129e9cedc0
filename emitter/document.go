// Package emitter builds the animation document from a finished Scene
// and Timeline and serializes it as indented XML, using
// github.com/beevik/etree for tree construction.
package emitter

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/anim-dsl/animdsl/interp"
)

// DefaultWidth and DefaultHeight are the viewbox dimensions when no
// override is configured.
const (
	DefaultWidth  = 500
	DefaultHeight = 500
)

// Document wraps the etree tree with the few named elements later
// stages need to keep appending to.
type Document struct {
	tree       *etree.Document
	svg        *etree.Element
	objects    *etree.Element
	timeline   *etree.Element
	prevCtrlID string
}

// NewDocument creates the document skeleton: the svg root, the
// "objects" group, and the empty "timeline" group.
func NewDocument(width, height int) *Document {
	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := tree.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", width, height))

	objects := svg.CreateElement("g")
	objects.CreateAttr("id", "objects")

	timeline := svg.CreateElement("g")
	timeline.CreateAttr("id", "timeline")

	return &Document{tree: tree, svg: svg, objects: objects, timeline: timeline}
}

// WriteIndent serializes the document as indented XML.
func (d *Document) WriteIndent(w io.Writer) error {
	d.tree.Indent(2)
	_, err := d.tree.WriteTo(w)
	return err
}

func elementTag(kind interp.ObjectKind) string {
	if kind == interp.KindRect {
		return "rect"
	}
	return "circle"
}

func axisAttrNames(kind interp.ObjectKind) (x, y string) {
	if kind == interp.KindRect {
		return "x", "y"
	}
	return "cx", "cy"
}

// AddObject renders obj's static shape into the "objects" group,
// initially invisible.
func (d *Document) AddObject(obj *interp.Object) *etree.Element {
	el := d.objects.CreateElement(elementTag(obj.Shape.Kind))
	el.CreateAttr("id", obj.Name)
	el.CreateAttr("opacity", "0")
	el.CreateAttr("fill", "#"+obj.Shape.Fill)

	xAttr, yAttr := axisAttrNames(obj.Shape.Kind)
	el.CreateAttr(xAttr, obj.Pos.X.String())
	el.CreateAttr(yAttr, obj.Pos.Y.String())
	if obj.Shape.Kind == interp.KindRect {
		el.CreateAttr("width", obj.Shape.Width.String())
		el.CreateAttr("height", obj.Shape.Height.String())
	} else {
		el.CreateAttr("r", obj.Shape.Radius.String())
	}
	return el
}

// AddSegment appends one "timeline" child group for seg: a zero-
// displacement control <animate> chaining begin from the previous
// segment's control, one <set> per object toggling opacity, and one
// <animate> per moving axis.
func (d *Document) AddSegment(seg interp.Segment) *etree.Element {
	group := d.timeline.CreateElement("g")
	group.CreateAttr("id", fmt.Sprintf("seg%d", seg.Index))

	ctrlID := fmt.Sprintf("seg%d-control", seg.Index)
	ctrl := group.CreateElement("animate")
	ctrl.CreateAttr("id", ctrlID)
	ctrl.CreateAttr("attributeName", "opacity")
	ctrl.CreateAttr("from", "1")
	ctrl.CreateAttr("to", "1")
	ctrl.CreateAttr("dur", seg.Duration.String()+"s")
	if d.prevCtrlID == "" {
		ctrl.CreateAttr("begin", "0s")
	} else {
		ctrl.CreateAttr("begin", d.prevCtrlID+".end")
	}
	d.prevCtrlID = ctrlID

	for _, e := range seg.Entries {
		opacity := "0"
		if e.Visible {
			opacity = "1"
		}
		d.AddSet(group, "#"+e.Object.Name, "opacity", opacity, ctrlID+".begin")

		if e.Moving == nil {
			continue
		}
		xAttr, yAttr := axisAttrNames(e.Object.Shape.Kind)
		if !e.Moving.X.IsZero() {
			d.AddAnimate(group, "#"+e.Object.Name, xAttr, e.Moving.X.String(), seg.Duration.String()+"s", ctrlID+".begin")
		}
		if !e.Moving.Y.IsZero() {
			d.AddAnimate(group, "#"+e.Object.Name, yAttr, e.Moving.Y.String(), seg.Duration.String()+"s", ctrlID+".begin")
		}
	}
	return group
}

// --- supplemented element vocabulary ---
//
// The DSL itself only ever exercises rect/circle/animate/set/group
// (rotation and scaling are explicit non-goals), but the underlying
// element tree accommodates the fuller vocabulary the original
// generator supported, so a future extension has a tree shape to grow
// into without a rewrite.

// AddGroup appends a named <g> child under parent.
func (d *Document) AddGroup(parent *etree.Element, id string) *etree.Element {
	g := parent.CreateElement("g")
	if id != "" {
		g.CreateAttr("id", id)
	}
	return g
}

// AddText appends a <text> element with the given body.
func (d *Document) AddText(parent *etree.Element, x, y, body string) *etree.Element {
	el := parent.CreateElement("text")
	el.CreateAttr("x", x)
	el.CreateAttr("y", y)
	el.SetText(body)
	return el
}

// AddPath appends a <path> element described by an SVG path data string.
func (d *Document) AddPath(parent *etree.Element, dataAttr string) *etree.Element {
	el := parent.CreateElement("path")
	el.CreateAttr("d", dataAttr)
	return el
}

// AddMPath appends an <mpath> reference to a path element, for use
// inside an <animateMotion>.
func (d *Document) AddMPath(parent *etree.Element, href string) *etree.Element {
	el := parent.CreateElement("mpath")
	el.CreateAttr("href", href)
	return el
}

// AddAnimate appends a by-delta <animate> targeting href's attrName.
func (d *Document) AddAnimate(parent *etree.Element, href, attrName, by, dur, begin string) *etree.Element {
	el := parent.CreateElement("animate")
	el.CreateAttr("href", href)
	el.CreateAttr("attributeName", attrName)
	el.CreateAttr("by", by)
	el.CreateAttr("dur", dur)
	el.CreateAttr("begin", begin)
	return el
}

// AddAnimateMotion appends an <animateMotion> along an explicit path.
func (d *Document) AddAnimateMotion(parent *etree.Element, href, dur, begin string) *etree.Element {
	el := parent.CreateElement("animateMotion")
	el.CreateAttr("href", href)
	el.CreateAttr("dur", dur)
	el.CreateAttr("begin", begin)
	return el
}

// AddAnimateTransform appends an <animateTransform> (rotation, scale).
func (d *Document) AddAnimateTransform(parent *etree.Element, href, kind, from, to, dur, begin string) *etree.Element {
	el := parent.CreateElement("animateTransform")
	el.CreateAttr("href", href)
	el.CreateAttr("type", kind)
	el.CreateAttr("from", from)
	el.CreateAttr("to", to)
	el.CreateAttr("dur", dur)
	el.CreateAttr("begin", begin)
	return el
}

// AddSet appends a <set>: href's attrName jumps to val at begin.
func (d *Document) AddSet(parent *etree.Element, href, attrName, val, begin string) *etree.Element {
	el := parent.CreateElement("set")
	el.CreateAttr("href", href)
	el.CreateAttr("attributeName", attrName)
	el.CreateAttr("to", val)
	el.CreateAttr("begin", begin)
	return el
}

// Build assembles a complete Document from a finished Scene and
// Timeline. Segment 0 is the implicit zero-duration boot segment
// created at interpreter init and carries no animation of its own, so
// it is not emitted.
func Build(scene *interp.Scene, timeline *interp.Timeline) *Document {
	doc := NewDocument(DefaultWidth, DefaultHeight)
	for _, obj := range scene.Objects() {
		doc.AddObject(obj)
	}
	for _, seg := range timeline.Segments {
		if seg.Index == 0 {
			continue
		}
		doc.AddSegment(seg)
	}
	return doc
}

package infograph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// WriteDOT renders the graph as a Graphviz document.
//
// Nodes with children become clusters holding an invisible anchor node, edges
// to such nodes are clipped at the cluster border.
func (g *InfoGraph) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	d := &dotWriter{w: bw, g: g}

	d.line(0, "digraph G {")
	d.line(1, "compound=true")
	if g.Direction == GraphDirHorizontal {
		d.line(1, "rankdir=LR")
	} else {
		d.line(1, "rankdir=TB")
	}
	d.line(1, `node [shape=box style="rounded,filled" fillcolor=white]`)
	d.line(1, "edge [minlen=%d]", g.GraphvizAttrs.EdgeMinlenDefault)

	d.hierarchy(1, g.Hierarchy)

	for pair := g.Edges.Oldest(); pair != nil; pair = pair.Next() {
		d.edge(pair.Key, pair.Value[0], pair.Value[1])
	}

	d.line(0, "}")
	if d.err != nil {
		return d.err
	}
	return bw.Flush()
}

// DOT returns the Graphviz document as a string
func (g *InfoGraph) DOT() (string, error) {
	var b strings.Builder
	if err := g.WriteDOT(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

type dotWriter struct {
	w   *bufio.Writer
	g   *InfoGraph
	err error
}

func (d *dotWriter) line(indent int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, strings.Repeat("  ", indent)+format+"\n", args...)
}

func (d *dotWriter) hierarchy(indent int, h *NodeHierarchy) {
	h.Each(func(id NodeID, children *NodeHierarchy) {
		label := d.label(id)
		attrs := d.styleAttrs(id.String())
		if children.Len() == 0 {
			d.line(indent, `"%s" [label="%s"%s]`, id, label, attrs)
			return
		}
		d.line(indent, `subgraph "%s" {`, clusterID(id))
		d.line(indent+1, `label="%s"`, label)
		d.line(indent+1, `style="rounded%s"`, d.clusterStyle(id.String()))
		d.line(indent+1, `"%s" [label="" shape=point style=invis width=0 height=0]`, id)
		d.hierarchy(indent+1, children)
		d.line(indent, "}")
	})
}

func (d *dotWriter) edge(id EdgeID, from, to NodeID) {
	attrs := []string{fmt.Sprintf(`id="%s"`, id)}
	if d.isCluster(from) {
		attrs = append(attrs, fmt.Sprintf(`ltail="%s"`, clusterID(from)))
	}
	if d.isCluster(to) {
		attrs = append(attrs, fmt.Sprintf(`lhead="%s"`, clusterID(to)))
	}
	if d.g.EdgeDir(id) == EdgeDirBack {
		attrs = append(attrs, "dir=back")
	}
	if p, ok := d.g.Theme.Style(id.String()); ok {
		if color, ok := p.Get(ThemeAttrShapeColor); ok {
			attrs = append(attrs, fmt.Sprintf(`color="%s"`, color))
		}
		if _, ok := p.Get(ThemeAttrStrokeStyle); ok {
			attrs = append(attrs, "style=dashed")
		}
	}
	d.line(1, `"%s" -> "%s" [%s]`, from, to, strings.Join(attrs, " "))
}

func (d *dotWriter) label(id NodeID) string {
	name, ok := d.g.NodeName(id)
	if !ok {
		name = id.String()
	}
	return dotEscaper.Replace(name)
}

func (d *dotWriter) styleAttrs(id string) string {
	p, ok := d.g.Theme.Style(id)
	if !ok {
		return ""
	}
	var attrs []string
	if color, ok := p.Get(ThemeAttrShapeColor); ok {
		attrs = append(attrs, fmt.Sprintf(`color="%s"`, color))
	}
	if style, ok := p.Get(ThemeAttrStrokeStyle); ok && (style == "dotted" || style == "dashed") {
		attrs = append(attrs, fmt.Sprintf(`style="rounded,filled,%s"`, style))
	}
	if len(attrs) == 0 {
		return ""
	}
	return " " + strings.Join(attrs, " ")
}

func (d *dotWriter) clusterStyle(id string) string {
	p, ok := d.g.Theme.Style(id)
	if !ok {
		return ""
	}
	if style, ok := p.Get(ThemeAttrStrokeStyle); ok && (style == "dotted" || style == "dashed") {
		return "," + style
	}
	return ""
}

func (d *dotWriter) isCluster(id NodeID) bool {
	children, ok := d.find(d.g.Hierarchy, id)
	return ok && children.Len() > 0
}

func (d *dotWriter) find(h *NodeHierarchy, id NodeID) (*NodeHierarchy, bool) {
	if children, ok := h.Get(id); ok {
		return children, true
	}
	var (
		found *NodeHierarchy
		ok    bool
	)
	h.Each(func(_ NodeID, children *NodeHierarchy) {
		if !ok {
			found, ok = d.find(children, id)
		}
	})
	return found, ok
}

func clusterID(id NodeID) string {
	return "cluster_" + id.String()
}

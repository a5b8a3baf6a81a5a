package graph

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

// keys declared on every document, in (id, for, name, type) order
var graphMLKeys = [][4]string{
	{"name", "node", "name", "string"},
	{"type", "node", "type_label", "string"},
	{"center", "node", "is_center", "boolean"},
	{"label", "edge", "label", "string"},
}

// GraphMLDocument converts the graph into a directed GraphML document
func GraphMLDocument(g Graph) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("graphml")
	root.CreateAttr("xmlns", graphMLNamespace)
	for _, k := range graphMLKeys {
		key := root.CreateElement("key")
		key.CreateAttr("id", k[0])
		key.CreateAttr("for", k[1])
		key.CreateAttr("attr.name", k[2])
		key.CreateAttr("attr.type", k[3])
	}

	graph := root.CreateElement("graph")
	graph.CreateAttr("id", "relationships")
	graph.CreateAttr("edgedefault", "directed")

	for _, n := range g.Nodes {
		node := graph.CreateElement("node")
		node.CreateAttr("id", "n"+n.ID)
		addData(node, "name", n.Name)
		addData(node, "type", n.TypeLabel)
		addData(node, "center", strconv.FormatBool(n.IsCenter))
	}
	for i, e := range g.Edges {
		edge := graph.CreateElement("edge")
		edge.CreateAttr("id", fmt.Sprintf("e%d", i))
		edge.CreateAttr("source", "n"+e.SourceID)
		edge.CreateAttr("target", "n"+e.TargetID)
		addData(edge, "label", e.Label)
	}

	doc.Indent(2)
	return doc
}

// WriteGraphML writes the graph as GraphML
func WriteGraphML(w io.Writer, g Graph) error {
	if _, err := GraphMLDocument(g).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write graphml: %w", err)
	}
	return nil
}

func addData(parent *etree.Element, key, value string) {
	data := parent.CreateElement("data")
	data.CreateAttr("key", key)
	data.SetText(value)
}

// Package export serializes graph and profile state into interchange
// formats.
//
// Supported formats: a generic JSON node/edge structure, GraphML (XML
// graph interchange), DOT (graph description language), and a flat CSV
// edge list. Requests for anything else fail with ErrUnsupportedFormat
// naming the requested value rather than silently defaulting.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/orreryworks/orrery/pkg/features"
	"github.com/orreryworks/orrery/pkg/graph"
)

// ErrUnsupportedFormat indicates an export format this package does not
// produce.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format identifies a serialization format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatGraphML Format = "graphml"
	FormatDOT     Format = "dot"
	FormatCSV     Format = "csv"
)

// Node is one project in the normalized export graph.
type Node struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Category   string   `json:"category"`
	Complexity float64  `json:"complexity"`
	Tags       []string `json:"tags,omitempty"`
}

// Edge is one undirected connection in the normalized export graph.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Graph is the normalized export object all formats serialize from.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// FromConnectionGraph normalizes the live adjacency structure.
//
// Every registered project becomes a node (labels fall back to the id
// when the titles map has no entry). Each undirected pair appears once,
// restricted to weights >= threshold; pass the graph's own threshold to
// export it as-is, or a higher one to thin the edge set. Nodes and
// edges are sorted for deterministic output.
func FromConnectionGraph(g *graph.Graph, profiles map[string]*features.Profile, titles map[string]string, threshold float64) Graph {
	ids := g.IDs()

	out := Graph{Nodes: make([]Node, 0, len(ids))}
	for _, id := range ids {
		node := Node{ID: id, Label: id}
		if title, ok := titles[id]; ok && title != "" {
			node.Label = title
		}
		if p := profiles[id]; p != nil {
			node.Category = p.Category
			node.Complexity = p.Complexity
			node.Tags = p.Tags
		}
		out.Nodes = append(out.Nodes, node)
	}

	seen := make(map[[2]string]bool)
	for _, id := range ids {
		for _, e := range g.Neighbors(id) {
			if e.Strength < threshold {
				continue
			}
			a, b := id, e.ID
			if b < a {
				a, b = b, a
			}
			key := [2]string{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Edges = append(out.Edges, Edge{Source: a, Target: b, Weight: e.Strength})
		}
	}

	sort.Slice(out.Edges, func(i, j int) bool {
		if out.Edges[i].Source != out.Edges[j].Source {
			return out.Edges[i].Source < out.Edges[j].Source
		}
		return out.Edges[i].Target < out.Edges[j].Target
	})
	return out
}

// Marshal serializes the graph in the requested format.
func Marshal(g Graph, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(g)
	case FormatGraphML:
		return marshalGraphML(g)
	case FormatDOT:
		return marshalDOT(g)
	case FormatCSV:
		return marshalCSV(g)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

// ParseJSON decodes a graph previously produced by the JSON format.
// Round-tripping preserves the node id set and edge set exactly.
func ParseJSON(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("decoding graph JSON: %w", err)
	}
	return g, nil
}

func marshalJSON(g Graph) ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding graph JSON: %w", err)
	}
	return data, nil
}

// GraphML document structure, undirected.
type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	Xmlns   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

func marshalGraphML(g Graph) ([]byte, error) {
	doc := graphmlDoc{
		Xmlns: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphmlKey{
			{ID: "label", For: "node", AttrName: "label", AttrType: "string"},
			{ID: "category", For: "node", AttrName: "category", AttrType: "string"},
			{ID: "complexity", For: "node", AttrName: "complexity", AttrType: "double"},
			{ID: "weight", For: "edge", AttrName: "weight", AttrType: "double"},
		},
		Graph: graphmlGraph{ID: "orrery", EdgeDefault: "undirected"},
	}

	for _, n := range g.Nodes {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: n.ID,
			Data: []graphmlData{
				{Key: "label", Value: n.Label},
				{Key: "category", Value: n.Category},
				{Key: "complexity", Value: formatWeight(n.Complexity)},
			},
		})
	}
	for _, e := range g.Edges {
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			Source: e.Source,
			Target: e.Target,
			Data:   []graphmlData{{Key: "weight", Value: formatWeight(e.Weight)}},
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding GraphML: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

func marshalDOT(g Graph) ([]byte, error) {
	var b strings.Builder
	b.WriteString("graph orrery {\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %q [label=%q, category=%q];\n", n.ID, n.Label, n.Category)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %q -- %q [weight=%s];\n", e.Source, e.Target, formatWeight(e.Weight))
	}
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func marshalCSV(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"source", "target", "weight"}); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, e := range g.Edges {
		if err := w.Write([]string{e.Source, e.Target, formatWeight(e.Weight)}); err != nil {
			return nil, fmt.Errorf("writing CSV edge: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// formatWeight renders scores with stable 4-decimal precision.
func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

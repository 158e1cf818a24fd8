// Package viz emits the exchange graph for human inspection: participants
// as nodes, one directed labelled edge per item hand-over.
//
// The core artifact is the structured node/edge list (Graph); RenderHTML
// wraps it into a single HTML document whose embedded script renders the
// graph with vis-network. The graph data is embedded in the page as JSON;
// the vis-network library itself is not embedded and is loaded from
// unpkg.com when the page opens.
package viz

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"sort"
	"strings"

	"github.com/katalvlaran/mathtrade/core"
)

// ErrNilInstance indicates a nil instance was passed to BuildGraph.
var ErrNilInstance = errors.New("viz: nil instance")

// Node is one participant.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
}

// Edge is one item hand-over: From hands the item to To.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label"`
	Title  string `json:"title"`
	Arrows string `json:"arrows"`
}

// Graph is the renderer-independent exchange graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// BuildGraph lists every participant (traders or not) as a node, sorted by
// display name, and one edge per exchange following the item: the received
// item travels from its previous owner to the exchange's giver.
func BuildGraph(in *core.Instance, exchanges []core.Exchange) (Graph, error) {
	if in == nil {
		return Graph{}, ErrNilInstance
	}

	var g Graph
	names := make([]string, 0, len(in.Users))
	for _, p := range in.Users {
		names = append(names, p.DisplayName())
	}
	sort.Strings(names)
	for _, name := range names {
		g.Nodes = append(g.Nodes, Node{ID: name, Label: name, Title: name})
	}

	for _, ex := range exchanges {
		item := in.ItemName(ex.ReceivedItem)
		g.Edges = append(g.Edges, Edge{
			From:   ex.Receiver,
			To:     ex.Giver,
			Label:  item,
			Title:  fmt.Sprintf("%s hands %q to %s", ex.Receiver, item, ex.Giver),
			Arrows: "to",
		})
	}

	return g, nil
}

// pageTemplate is the self-contained document: data inline, renderer pulled
// in by the embedded bootstrap (same presentation the interactive viewer
// used: directed dot nodes, barnesHut physics, mid-edge labels).
var pageTemplate = template.Must(template.New("viz").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"></script>
<style>
  html, body { margin: 0; height: 100%; background: #ffffff; }
  #trade-graph { width: 100%; height: 750px; }
</style>
</head>
<body>
<div id="trade-graph"></div>
<script>
  const data = {{.Data}};
  const container = document.getElementById("trade-graph");
  const options = {
    nodes: {
      shape: "dot",
      size: 16,
      font: { size: 16, strokeWidth: 2 },
      color: "#1f78b4",
      shadow: { enabled: true, color: "#000000", size: 10, x: 5, y: 5 }
    },
    edges: {
      arrows: { to: { enabled: true, scaleFactor: 1, type: "arrow" } },
      color: { color: "#848484", highlight: "#848484", inherit: false, opacity: 1 },
      font: { size: 12, align: "middle", color: "#000000" },
      smooth: { enabled: true, type: "continuous" }
    },
    physics: {
      enabled: true,
      barnesHut: {
        gravitationalConstant: -30000,
        centralGravity: 0.3,
        springLength: 95,
        springConstant: 0.04,
        damping: 0.09,
        avoidOverlap: 0
      },
      minVelocity: 0.75
    }
  };
  new vis.Network(container, data, options);
</script>
</body>
</html>
`))

// RenderHTML renders g into the self-contained document.
func RenderHTML(g Graph, title string) (string, error) {
	blob, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("viz: encode graph: %w", err)
	}

	var b strings.Builder
	err = pageTemplate.Execute(&b, struct {
		Title string
		Data  template.JS
	}{Title: title, Data: template.JS(blob)})
	if err != nil {
		return "", fmt.Errorf("viz: render: %w", err)
	}

	return b.String(), nil
}

// SaveHTML renders g and writes the document to path, 0644.
func SaveHTML(g Graph, title, path string) error {
	doc, err := RenderHTML(g, title)
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(doc), 0o644)
}

// exports info graphs into neo4j
package graphdb

import (
	"github.com/foomo/itemmodel/pkg/infograph"
)

// Statement a cypher query and its parameters
type Statement struct {
	Query  string
	Params map[string]any
}

const (
	cypherDeleteFlow = `MATCH (n {flow: $flow}) WHERE n:Location OR n:Item DETACH DELETE n`

	cypherNodes = `UNWIND $nodes AS node
MERGE (n:Location {flow: $flow, id: node.id})
SET n.name = node.name, n.depth = node.depth`

	cypherContains = `UNWIND $contains AS rel
MATCH (p:Location {flow: $flow, id: rel.parent})
MATCH (c:Location {flow: $flow, id: rel.child})
MERGE (p)-[:CONTAINS]->(c)`

	cypherEdges = `UNWIND $edges AS edge
MATCH (a:Location {flow: $flow, id: edge.from})
MATCH (b:Location {flow: $flow, id: edge.to})
MERGE (a)-[r:INTERACTS {id: edge.id}]->(b)
SET r.dir = edge.dir`

	cypherItems = `UNWIND $items AS it
MERGE (i:Item {flow: $flow, id: it.id})
WITH i, it
UNWIND it.touches AS touched
MATCH (n:Location {flow: $flow, id: touched})
MERGE (i)-[:TOUCHES]->(n)`
)

// Statements replaces everything stored for flowID with the nodes, containment,
// interaction edges and items of g
func Statements(flowID string, g *infograph.InfoGraph) []Statement {
	var (
		nodes    []any
		contains []any
		edges    []any
		items    []any
	)

	var walk func(parent infograph.NodeID, depth int, h *infograph.NodeHierarchy)
	walk = func(parent infograph.NodeID, depth int, h *infograph.NodeHierarchy) {
		h.Each(func(id infograph.NodeID, children *infograph.NodeHierarchy) {
			name, _ := g.NodeName(id)
			nodes = append(nodes, map[string]any{"id": id.String(), "name": name, "depth": depth})
			if parent != "" {
				contains = append(contains, map[string]any{"parent": parent.String(), "child": id.String()})
			}
			walk(id, depth+1, children)
		})
	}
	walk("", 0, g.Hierarchy)

	for pair := g.Edges.Oldest(); pair != nil; pair = pair.Next() {
		edges = append(edges, map[string]any{
			"id":   pair.Key.String(),
			"from": pair.Value[0].String(),
			"to":   pair.Value[1].String(),
			"dir":  string(g.EdgeDir(pair.Key)),
		})
	}

	for pair := g.TagItems.Oldest(); pair != nil; pair = pair.Next() {
		touches := make([]any, 0, len(pair.Value))
		for _, id := range pair.Value {
			touches = append(touches, id)
		}
		items = append(items, map[string]any{"id": pair.Key.String(), "touches": touches})
	}

	statements := []Statement{{Query: cypherDeleteFlow, Params: map[string]any{"flow": flowID}}}
	for _, s := range []struct {
		query string
		name  string
		rows  []any
	}{
		{cypherNodes, "nodes", nodes},
		{cypherContains, "contains", contains},
		{cypherEdges, "edges", edges},
		{cypherItems, "items", items},
	} {
		if len(s.rows) == 0 {
			continue
		}
		statements = append(statements, Statement{
			Query:  s.query,
			Params: map[string]any{"flow": flowID, s.name: s.rows},
		})
	}
	return statements
}

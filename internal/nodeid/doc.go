// internal/nodeid/doc.go

/*
Package nodeid generates and checks the identifiers of model nodes and
edges.

Node ids have the form `<prefix>-<suffix>`, where the prefix comes from
the node kind (node.IDPrefix) and the suffix is a random UUID, e.g.
`generator-6f1c...`. Ids loaded from model files may use any suffix as long
as every character is in the allowed set.

Edge ids follow the editor's convention
`reactflow__edge-<source><sourceHandle>-<target><targetHandle>` so that ids
produced here and ids produced by the browser agree.
*/
package nodeid

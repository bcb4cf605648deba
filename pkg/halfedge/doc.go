// Package halfedge provides read-only traversal of polygon meshes viewed as
// halfedge graphs, with vertex positions held in external point maps.
//
// Every edge is split into two opposite halfedges. A halfedge points at its
// target vertex and belongs to the face on its left, or to no face at all
// (NullFace) when it lies on the mesh border. Consumers depend on the Graph
// interface; Mesh is the array-backed implementation built from indexed
// polygon soups by Build.
package halfedge

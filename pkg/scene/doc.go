// Package scene defines the immutable design graph produced by evaluating a
// facet script: solids, polyhedra, hulls, transforms and subdivision steps
// wired into a DAG whose named surfaces are rendered as halfedge meshes.
//
// A Scene is never mutated once evaluation returns. Each evaluation builds a
// new one.
package scene

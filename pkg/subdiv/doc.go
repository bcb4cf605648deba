// Package subdiv computes the refined points of four classic subdivision
// schemes and drives whole-mesh refinement with them.
//
// The masks (CatmullClarkMask, DooSabinMask, LoopMask, Sqrt3Mask) are bound
// to a halfedge graph and a vertex-point reader and evaluate one stencil per
// call. They only read; a refinement pass must write its results into a
// separate mesh, which is what CatmullClark, Loop, DooSabin and Sqrt3 do.
//
// Masks hold no ownership of the mesh they read. Stencil calls on the same
// mesh may run concurrently as long as nothing mutates the mesh or its
// points meanwhile.
package subdiv

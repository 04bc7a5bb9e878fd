// Package quadtree implements the Barnes-Hut spatial tree.
//
// A [Tree] is rebuilt from scratch every step with [Tree.Build]. Nodes live
// in a flat arena and reference their children by index; the arena and the
// particle index buffer are reused between builds, so releasing the previous
// step's tree costs nothing.
//
// Node states form a small tagged union:
//
//   - [Empty]: no particles, zero mass, center of mass never read
//   - [Leaf]: one particle, or a bucket of several once MaxDepth is reached
//   - [Internal]: four children tiling the bounds as TL, TR, BL, BR
//
// Containment is half-open ([x0, x1) x [y0, y1)), so a particle sitting
// exactly on the right or bottom edge of the root is dropped unless
// [Options.ClosedBoundary] is set.
//
// # Force Evaluation
//
// [Tree.Accumulate] walks the tree for one particle. The opening test uses
// the Manhattan distance to a node's center of mass while the pull itself
// uses the Euclidean distance:
//
//	acc, visits := tree.Accumulate(i, theta, nil)
//
// The tree is read-only during evaluation; any number of goroutines may call
// Accumulate concurrently.
package quadtree

// Package geom represents bounded and half-infinite 2D domains as ordered
// wall sequences and resolves particle moves against them:
//
//   - [Vec]: 2D point/displacement arithmetic
//   - [Wall]: oriented boundary element with outward normal and specular
//     reflection
//   - [Domain]: wall collection with containment and first-crossing queries
//
// Constructors validate the boundary up front (zero-length walls,
// self-intersection) and fail fatally, since a malformed domain corrupts
// every estimate computed from particle trajectories.
//
// Half-planes and quarter-planes are modeled as degenerate polygons whose
// walls are infinite lines, so every domain shape goes through the same
// intersection and reflection code path.
package geom

// Package walk implements the stochastic particle stepper at the heart of
// the Monte Carlo PDE solver.
//
// Each particle follows the SDE dX = mu(X) dt + sqrt(2 D(X)) dW inside a
// reflecting domain. One call to [Stepper.Step] proposes an
// Euler-Maruyama increment and resolves wall crossings by specular
// reflection of the unspent displacement, conserving total path length,
// until the increment is fully consumed or the reflection budget runs
// out. Budget exhaustion triggers a bounded number of fresh redraws
// before the particle is marked failed; both bounds are explicit fields
// on the stepper so the recovery policy is deterministic under a fixed
// seed.
//
// Steppers hold no per-particle state and may be shared across
// goroutines as long as each particle and RNG stays with one goroutine.
package walk

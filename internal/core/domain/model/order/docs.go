// Package order contains the Order aggregate and its lifecycle state machine.
// The aggregate is the single source of truth for "what state is this order in":
// every status change flows through TransitionTo, which enforces the allowed
// transition graph and bumps the optimistic-concurrency version.
package order

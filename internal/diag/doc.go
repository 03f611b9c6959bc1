// Package diag defines the diagnostics model shared by every phase of
// the formula frontend: stable codes with fixed deconfliction
// priorities, a collecting Bag that resolves same-span conflicts, and a
// fluent builder for emitting rich diagnostics with labels, notes, and
// fix actions.
package diag

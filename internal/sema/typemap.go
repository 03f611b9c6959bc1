// Package sema implements semantic analysis over parsed formula
// expressions: type inference with generic binding, and shape-first
// call validation that reports through the diagnostics pipeline.
package sema

import (
	"formula/internal/ast"
	"formula/internal/types"
)

// TypeMap records the inferred type of every visited expression node.
// Nodes are keyed by identity, so the map is only meaningful for the
// tree it was built from.
type TypeMap struct {
	inner map[ast.Expr]types.Ty
}

// NewTypeMap returns an empty map.
func NewTypeMap() *TypeMap {
	return &TypeMap{inner: make(map[ast.Expr]types.Ty)}
}

// Insert stores the inferred type of a node.
func (m *TypeMap) Insert(node ast.Expr, ty types.Ty) {
	m.inner[node] = ty
}

// Get returns the recorded type of a node, or Unknown when the node
// was never visited.
func (m *TypeMap) Get(node ast.Expr) types.Ty {
	if ty, ok := m.inner[node]; ok {
		return ty
	}
	return types.Unknown
}

// Len returns the number of recorded nodes.
func (m *TypeMap) Len() int { return len(m.inner) }

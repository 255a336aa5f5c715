/*
Package tree implements the per-request component tree.

Nodes live in an arena owned by a Tree and are addressed by opaque ID handles.
Parent and child links are handles into the arena, never owning pointers, so a
tree holds no reference cycles. Every node wraps a Widget; widgets that also
implement Stateful carry a serializable state record and are the unit of
persistence.

Names are mutable labels unique among the current siblings of a node. Paths are
computed on demand by walking current names, so a rename is visible immediately
and never rewrites anything recorded earlier.
*/
package tree

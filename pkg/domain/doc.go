/*
Package domain contains the core domain models of the frost persistence protocol.

It defines the wire shape of a frozen payload, the per-node field sets, the error
taxonomy and the lifecycle events emitted around freeze and thaw. This package is
kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Payload: the {Branches, Fields} pair written once by Freeze and consumed once by Thaw.
  - Branch: a pre-order list of BranchEntry triples describing one stateful subtree.
  - Fields: the serializable state of a single stateful node, keyed by field name.
  - LifecycleHooks: callbacks for observability (logging, metrics).
*/
package domain

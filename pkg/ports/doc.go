/*
Package ports defines the driven ports (interfaces) of the frost engine.

These interfaces decouple the persistence protocol from concrete backends, so
the same freeze/thaw code runs against a session map, a file directory or Redis.

# Key Interfaces

  - Storage: opaque get/set/delete store holding the frozen payload.
  - DistributedLocker: distributed locking for concurrent access to one session.
  - ClassRegistry: resolves a class tag back to a fresh widget during thaw.
*/
package ports

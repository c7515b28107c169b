/*
Package ports defines the driven ports (interfaces) for the Wayfinder engine.

These interfaces decouple the matching engine from concrete graph storage,
result caching and coordination backends.

# Key Interfaces

  - Graph: Read-only access to the host graph (nodes, edges, ordered incidences).
  - GraphLoader: Builds a Graph from an external source (e.g., a Loam repository).
  - ResultStore: Persists serialized query results (e.g., Memory or Redis).
  - DistributedLocker: Serializes expensive computations across replicas.
*/
package ports

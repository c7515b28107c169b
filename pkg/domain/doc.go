/*
Package domain contains the core domain models of the Wayfinder engine.

It defines the read-only host graph vocabulary (nodes, edges, incidences), the
error taxonomy shared by every layer and the lifecycle hooks used for
observability. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Node / Edge: Elements of the host graph, addressed by dense integer ids.
  - Incidence: One end of an edge seen from a node (edge, direction, other end).
  - LifecycleHooks: Callbacks fired while a path system or slice is being built.
*/
package domain

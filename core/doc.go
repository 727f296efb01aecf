// Package core contains the shared contracts of the intentmesh runtime:
// the closed intent vocabulary, request context and conversation message
// types, the Response envelope returned by handlers and the engine, the
// collaborator interfaces (handler, memory store, context builder, domain
// services) and the turn limiter used by agentic handlers.
//
// The package has no dependencies inside the module so every other package
// can import it without cycles.
package core

// Package handler implements the read-only HTTP query API of tsnview.
//
// NetworkHandler answers every request from the network currently published
// by the service. Before the first successful load all endpoints reply 503;
// unknown node and stream names reply 404.
//
// # Endpoints
//
//	GET /api/nodes                   node listing
//	GET /api/nodes/{name}            traffic (switch) or arrivals (end station)
//	GET /api/nodes/{name}/streams    streams whose path crosses the node
//	GET /api/links                   link listing
//	GET /api/streams                 streams with resolved paths
//	GET /api/streams/{name}          one stream
//	GET /api/streams/{name}/path     resolved path, "No Path Found" when unresolved
//	GET /api/route?from=&to=         ad-hoc fewest-hop route
//	GET /api/tree?root=              breadth-first spanning tree
//	GET /api/snapshot?format=        full snapshot (json or yaml)
//
// Errors are returned as JSON with {error, details}.
package handler

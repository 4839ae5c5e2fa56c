// Package routing patches the routing section of V2Ray-style client
// configuration files.
//
// A [Document] keeps every top-level key in its original order and leaves
// values it does not touch as raw JSON, so a read-modify-write cycle only
// changes the `routing` section. A [Patcher] makes sure the first rule whose
// outbound tag is "direct" carries the full set of address ranges.
package routing

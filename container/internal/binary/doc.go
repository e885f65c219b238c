// Package binary provides low-level reading and writing primitives for the
// container layout: position-tracked buffer access and the fixed-width
// big-endian integer encoding the format uses throughout.
package binary

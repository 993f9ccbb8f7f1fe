// Package types defines the Store interface, entity types, patch types,
// and standard error values for the appdeck app-builder backend.
package types

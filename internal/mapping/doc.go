// Package mapping converts between persisted entities and transport DTOs.
//
// Every function here is pure: no validation, no I/O, and a nil nested
// relationship maps to a nil nested value in both directions.
package mapping

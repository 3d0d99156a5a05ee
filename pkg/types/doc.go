// Package types defines the address book entities (Name, Phone, Birthday,
// Record), the Store interface that persists them, the Config that selects a
// store, and the standard error values shared across packages.
package types

// Package services contains stateless domain services that coordinate
// between aggregates without owning state themselves.
package services

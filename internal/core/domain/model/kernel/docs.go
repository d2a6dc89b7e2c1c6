// Package kernel contains the shared value objects of the domain model:
// identifiers and money. These types are immutable, validated on construction,
// and safe for concurrent use.
package kernel

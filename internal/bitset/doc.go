// Package bitset provides a fixed-width occupancy bitset that remembers
// which bits were set, so clearing costs O(set bits) instead of O(width).
//
// Used internally by the dense row engine to track touched columns.
package bitset

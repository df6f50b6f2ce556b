// Package resource bounds the memory, worker and IO budget of multiplies
// and matrix transfers.
//
// A nil *Controller is valid and means "unlimited" for memory and IO.
package resource

// Package queue provides the fixed-capacity cursor heap used by the heap row
// engine.
package queue

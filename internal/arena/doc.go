// Package arena provides the two scratch arenas the stack row engine
// ping-pongs runs between.
//
// A Run names its arena explicitly. Every merge reads its deeper input from
// one arena and writes into the other, so a run's storage can only be
// reused by the merge that consumes it.
//
// # Memory Accounting
//
// When a MemoryAcquirer is supplied, the arena reserves its footprint up
// front and gives it back on Free.
package arena

// Package fs abstracts the file operations behind atomic writes so tests can
// inject failures.
//
// Production code uses Default ([LocalFS]). Tests wrap it in [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: 1024})
package fs

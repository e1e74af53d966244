// Package fs is the file system seam under blobstore.LocalStore.
//
// LocalFS forwards to the os package. FaultyFS wraps another FileSystem and
// fails writes, syncs, closes or renames of matching files, so tests can
// check that an interrupted write never leaves a partial deck or a
// half-written CURRENT pointer behind:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("CURRENT", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
//	st := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
package fs

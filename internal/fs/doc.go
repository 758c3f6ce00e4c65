// Package fs is the file system seam used by dump and load.
//
// Production code goes through [Default], a thin [LocalFS] over package os.
// Tests swap in [FaultyFS] to make opens, reads, writes, syncs or closes fail
// at a chosen point:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("dict.da", fs.Fault{FailAfterBytes: 1024})
//
// Operations take no context.Context. Local file calls are short and cannot
// be interrupted at the syscall level; remote storage lives in blobstore.
package fs

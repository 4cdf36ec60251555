// Package fs is the file system seam of the file backend and LocalStore.
//
// Production code writes through Default. Tests wrap it in a FaultyFS to
// fail a save at a chosen step and check that the previous dump survives:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("forms.tsv", fs.Fault{FailOnRename: true})
//	backend := file.New(path, file.WithFileSystem(ffs))
package fs

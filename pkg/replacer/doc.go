// Package replacer writes resolved updates back into a version catalog.
//
// [Plan] turns the updates of one catalog into a minimal list of
// [Replacement] values, one per version literal. Dependencies that share a
// version reference collapse into a single edit of the versions table.
//
// [Replacer.Apply] streams the original file into a temporary file next to
// it, substituting only the recorded literals, and swaps the result into
// place:
//
//	catalog -> backup      (rename)
//	temp    -> catalog     (rename; on failure the backup is restored)
//	backup  -> removed
//
// Every byte outside a replaced literal is copied unchanged, so comments,
// formatting and key order survive. When there is nothing to replace the
// file is not touched and no temporary files are created.
package replacer

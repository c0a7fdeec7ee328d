package deck

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// SourceDiff returns a compact patch between two revisions of a deck
// file, for debug logging when the watcher triggers a reload. Returns
// "" when the contents are identical.
func SourceDiff(before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(before), string(after), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(string(before), diffs)
	return dmp.PatchToText(patches)
}

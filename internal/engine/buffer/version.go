package buffer

import "sync/atomic"

// Version is one link in a buffer's history.
// The changes that turn a version into its successor are recorded on the
// older version, so translation walks the chain forward from any snapshot.
type Version struct {
	owner  *Buffer
	id     RevisionID
	number int

	// changes and next are written once, when the successor is created.
	// next is published atomically after changes is set.
	changes []Change
	next    atomic.Pointer[Version]
}

func newVersion(owner *Buffer, number int) *Version {
	return &Version{
		owner:  owner,
		id:     NewRevisionID(),
		number: number,
	}
}

// ID returns the revision ID of this version.
func (v *Version) ID() RevisionID {
	return v.id
}

// Number returns the position of this version in its buffer's history,
// starting at zero.
func (v *Version) Number() int {
	return v.number
}

// Next returns the successor version, or nil if this is the latest.
func (v *Version) Next() *Version {
	return v.next.Load()
}

// Changes returns the changes leading to the successor version.
// It is empty for the latest version.
func (v *Version) Changes() []Change {
	if v.next.Load() == nil {
		return nil
	}
	return v.changes
}

// link records changes and publishes next as the successor.
func (v *Version) link(changes []Change, next *Version) {
	v.changes = changes
	v.next.Store(next)
}

// changesBetween collects the changes from v up to (not including) target.
// target must be v itself or a later version of the same buffer.
func (v *Version) changesBetween(target *Version) []Change {
	var result []Change
	for cur := v; cur != target; cur = cur.Next() {
		if cur == nil {
			panic("buffer: target version is not reachable")
		}
		result = append(result, cur.changes...)
	}
	return result
}

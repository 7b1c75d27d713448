// Package bufqueue implements reference-counted byte buffers and a FIFO
// queue of them that hands out exact-length ranges without copying when
// the range lies inside a single buffer.
package bufqueue

import "sync/atomic"

// Buffer is a reference-counted byte range.
//
// A plain buffer owns its storage and calls its release callback once its
// count drops to zero. A sub-buffer views part of another buffer's storage
// and holds one reference on the buffer that owns that storage, so the
// storage stays alive until every view is gone.
//
// The count is atomic; the bytes themselves are not synchronized.
type Buffer struct {
	data    []byte
	parent  *Buffer
	release func()
	refs    atomic.Int32
}

// New wraps data in a buffer with one reference. release, if non-nil, is
// called exactly once when the last reference is dropped.
func New(data []byte, release func()) *Buffer {
	b := &Buffer{data: data, release: release}
	b.refs.Store(1)
	return b
}

// Alloc returns a zero-filled buffer of n bytes with one reference.
func Alloc(n int) *Buffer {
	return New(make([]byte, n), nil)
}

// Bytes returns the buffer's contents. The slice aliases the storage.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Refs returns the current reference count.
func (b *Buffer) Refs() int { return int(b.refs.Load()) }

// Ref adds a reference and returns b.
func (b *Buffer) Ref() *Buffer {
	b.refs.Add(1)
	return b
}

// Unref drops a reference. When the count reaches zero a sub-buffer drops
// its reference on the owner, and an owning buffer runs its release callback.
func (b *Buffer) Unref() {
	n := b.refs.Add(-1)
	switch {
	case n > 0:
		return
	case n < 0:
		panic("bufqueue: buffer released more times than referenced")
	}

	if b.parent != nil {
		parent := b.parent
		b.parent = nil
		b.data = nil
		parent.Unref()
		return
	}

	b.data = nil
	if b.release != nil {
		release := b.release
		b.release = nil
		release()
	}
}

// Sub returns a view of length bytes starting at offset without copying.
// The view references the buffer that owns the storage, skipping
// intermediate views. The caller keeps its own reference on b.
func (b *Buffer) Sub(offset, length int) *Buffer {
	owner := b
	if b.parent != nil {
		owner = b.parent
	}
	owner.Ref()

	sub := &Buffer{
		data:   b.data[offset : offset+length : offset+length],
		parent: owner,
	}
	sub.refs.Store(1)
	return sub
}

// IsSub reports whether b is a view into another buffer.
func (b *Buffer) IsSub() bool { return b.parent != nil }

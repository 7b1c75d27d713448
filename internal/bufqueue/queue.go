package bufqueue

// Queue is an ordered sequence of buffers. Depth is always the sum of the
// lengths of the queued buffers. Offset counts every byte ever pulled since
// creation or the last Flush and is diagnostic only.
//
// A Queue is not safe for concurrent use.
type Queue struct {
	buffers []*Buffer
	head    int // bytes already consumed from buffers[0]
	depth   int
	offset  int64
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends b, taking over the caller's reference.
func (q *Queue) Push(b *Buffer) {
	q.buffers = append(q.buffers, b)
	q.depth += b.Len()
}

// Pull removes exactly length bytes from the front of the queue. It returns
// false without changing the queue if fewer bytes are queued.
//
// When the front buffer alone is long enough the result is a zero-copy
// view (or the front buffer itself on an exact fit of an untouched
// buffer). Otherwise the bytes are copied into a new buffer from as many
// front buffers as needed. The caller owns one reference on the result.
func (q *Queue) Pull(length int) (*Buffer, bool) {
	if length < 0 || q.depth < length {
		return nil, false
	}
	if length == 0 {
		return Alloc(0), true
	}

	front := q.buffers[0]
	remaining := front.Len() - q.head
	if remaining < length {
		out := Alloc(length)
		q.read(out.Bytes())
		return out, true
	}

	var out *Buffer
	if remaining == length && q.head == 0 {
		out = front
		q.popFront()
	} else {
		out = front.Sub(q.head, length)
		q.advance(length)
	}
	q.depth -= length
	q.offset += int64(length)
	return out, true
}

// Read copies exactly len(dst) bytes from the front of the queue into dst
// and removes them. It allocates nothing. It returns false without
// changing the queue if fewer bytes are queued.
func (q *Queue) Read(dst []byte) bool {
	if q.depth < len(dst) {
		return false
	}
	q.read(dst)
	return true
}

// read copies len(dst) queued bytes into dst, dropping exhausted buffers.
func (q *Queue) read(dst []byte) {
	for copied := 0; copied < len(dst); {
		n := copy(dst[copied:], q.buffers[0].Bytes()[q.head:])
		copied += n
		q.advance(n)
	}
	q.depth -= len(dst)
	q.offset += int64(len(dst))
}

// advance consumes n bytes of the front buffer, which must hold them.
func (q *Queue) advance(n int) {
	q.head += n
	if front := q.buffers[0]; q.head == front.Len() {
		q.popFront()
		front.Unref()
	}
}

// Peek returns the first length bytes without removing them. It returns
// false if fewer bytes are queued. The caller owns one reference on the
// result.
func (q *Queue) Peek(length int) (*Buffer, bool) {
	if length < 0 || q.depth < length {
		return nil, false
	}
	if length == 0 {
		return Alloc(0), true
	}

	if front := q.buffers[0]; front.Len()-q.head >= length {
		return front.Sub(q.head, length), true
	}

	out := Alloc(length)
	dst := out.Bytes()
	copied := copy(dst, q.buffers[0].Bytes()[q.head:])
	for _, b := range q.buffers[1:] {
		if copied == length {
			break
		}
		copied += copy(dst[copied:], b.Bytes())
	}
	return out, true
}

// Flush drops every queued buffer and resets depth and offset.
func (q *Queue) Flush() {
	for i, b := range q.buffers {
		b.Unref()
		q.buffers[i] = nil
	}
	q.buffers = q.buffers[:0]
	q.head = 0
	q.depth = 0
	q.offset = 0
}

// Depth returns the number of queued bytes.
func (q *Queue) Depth() int { return q.depth }

// Offset returns the number of bytes pulled so far.
func (q *Queue) Offset() int64 { return q.offset }

// Len returns the number of queued buffers.
func (q *Queue) Len() int { return len(q.buffers) }

func (q *Queue) popFront() {
	q.buffers[0] = nil
	if len(q.buffers) == 1 {
		q.buffers = q.buffers[:0]
	} else {
		q.buffers = q.buffers[1:]
	}
	q.head = 0
}

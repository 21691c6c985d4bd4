package coretls

import (
	"bytes"
	"crypto/hmac"
)

// addrNull is the "no such node" sentinel, preserved from the 32-bit
// byte-slab design (ADDR_NULL == 0xFFFFFFFF) even though this
// implementation indexes a typed Go slice rather than a raw byte slab
// (see DESIGN.md: spec.md 9's own design note says the wire-like
// 100-byte layout "need not be preserved").
const addrNull = ^uint32(0)

type cacheEntry struct {
	maskedID [sessionIDMaxLen]byte
	session  SessionParameters
	prev     uint32
	next     uint32
	left     uint32
	right    uint32
	used     bool
}

// SessionCache is a fixed-capacity LRU cache of resumable sessions,
// indexed by a binary tree keyed on an HMAC-masked session ID so that
// an attacker who controls session IDs cannot degrade lookups to
// O(n). Grounded line-for-line on original_source/src/ssl/ssl_lru.c.
//
// A SessionCache is not safe for concurrent use; spec.md 5 treats one
// server instance as owning its cache exclusively.
type SessionCache struct {
	entries  []cacheEntry
	capacity int
	storePtr uint32 // high-water mark, monotonic until first eviction
	head     uint32
	tail     uint32
	root     uint32

	initDone bool
	indexKey [32]byte
	hashAlg  HashAlg
}

// NewSessionCache creates a cache with room for capacity sessions. The
// capacity stands in for the host-supplied byte slab of spec.md 3
// (capacity*100 bytes there); here it is simply a number of entries.
func NewSessionCache(capacity int) *SessionCache {
	if capacity < 1 {
		capacity = 1
	}
	return &SessionCache{
		entries:  make([]cacheEntry, capacity),
		capacity: capacity,
		head:     addrNull,
		tail:     addrNull,
		root:     addrNull,
	}
}

// maskID replaces the session ID with an HMAC over it, so tree
// insertion order is unpredictable to an adversary choosing IDs. It
// requires Save to have already initialized c.indexKey/c.hashAlg.
func (c *SessionCache) maskID(id []byte) [sessionIDMaxLen]byte {
	var out [sessionIDMaxLen]byte
	mac := hmac.New(c.hashAlg.New, c.indexKey[:])
	mac.Write(id)
	sum := mac.Sum(nil)
	n := copy(out[:], sum)
	// If the hash output is shorter than the session ID field (e.g.
	// SHA-1's 20 bytes vs. a 32-byte field), extend it by HMACing the
	// previous output again under the same key.
	for n < len(out) {
		mac.Reset()
		mac.Write(sum)
		sum = mac.Sum(nil)
		n += copy(out[n:], sum)
	}
	return out
}

func (c *SessionCache) get(x uint32) *cacheEntry { return &c.entries[x] }

// findNode returns the entry address holding maskedID (found == true),
// or addrNull. parent and isLeft name the tree link that leads to the
// match or to its insertion point: the parent's left or right child
// field, or the root itself when parent is addrNull.
func (c *SessionCache) findNode(maskedID [sessionIDMaxLen]byte) (addr uint32, parent uint32, isLeft bool, found bool) {
	x := c.root
	parent = addrNull
	for x != addrNull {
		e := c.get(x)
		cmp := bytes.Compare(maskedID[:], e.maskedID[:])
		switch {
		case cmp < 0:
			parent, isLeft = x, true
			x = e.left
		case cmp == 0:
			return x, parent, isLeft, true
		default:
			parent, isLeft = x, false
			x = e.right
		}
	}
	return addrNull, parent, isLeft, false
}

func (c *SessionCache) setChild(parent uint32, isLeft bool, child uint32) {
	if parent == addrNull {
		c.root = child
		return
	}
	if isLeft {
		c.get(parent).left = child
	} else {
		c.get(parent).right = child
	}
}

// removeNode detaches x from the tree. If x has at most one child, that
// child (or null) simply takes x's place. Otherwise its in-order
// predecessor — the rightmost descendant of its left subtree — is
// promoted into x's place. The two-child case matches BearSSL's
// find_replacement_node/remove_node; in the one-child case the child
// itself replaces x, not the extreme node of its subtree.
func (c *SessionCache) removeNode(x uint32) {
	_, parent, isLeft, _ := c.findNode(c.get(x).maskedID)
	e := c.get(x)
	left, right := e.left, e.right

	switch {
	case left == addrNull:
		c.setChild(parent, isLeft, right)
		return
	case right == addrNull:
		c.setChild(parent, isLeft, left)
		return
	}

	predParent, predIsLeft := x, true
	pred := left
	for c.get(pred).right != addrNull {
		predParent, predIsLeft = pred, false
		pred = c.get(pred).right
	}

	if predParent != x {
		// pred has no right child by construction; its left child (if
		// any) fills the slot pred is about to vacate.
		c.setChild(predParent, predIsLeft, c.get(pred).left)
		c.get(pred).left = left
	}
	c.get(pred).right = right
	c.setChild(parent, isLeft, pred)
}

// listUnlink removes x from the LRU doubly-linked list without
// touching the tree.
func (c *SessionCache) listUnlink(x uint32) {
	e := c.get(x)
	if e.prev != addrNull {
		c.get(e.prev).next = e.next
	} else {
		c.head = e.next
	}
	if e.next != addrNull {
		c.get(e.next).prev = e.prev
	} else {
		c.tail = e.prev
	}
}

// listPushFront inserts x at the head of the LRU list.
func (c *SessionCache) listPushFront(x uint32) {
	e := c.get(x)
	e.prev = addrNull
	e.next = c.head
	if c.head != addrNull {
		c.get(c.head).prev = x
	}
	c.head = x
	if c.tail == addrNull {
		c.tail = x
	}
}

// Save inserts a session into the cache, seeding the masking key from
// rng on first use. Saving the same (already-present) masked ID is a
// silent no-op, treated as a vanishingly unlikely HMAC collision
// rather than a cache-poisoning vector. Saving into a zero-capacity
// cache is also a silent no-op.
func (c *SessionCache) Save(rng *drbg, hashAlg HashAlg, s *SessionParameters) {
	if c.capacity < 1 || len(s.SessionID) == 0 || len(s.SessionID) > sessionIDMaxLen {
		return
	}
	if !c.initDone {
		if err := rng.Generate(c.indexKey[:]); err != nil {
			return
		}
		c.hashAlg = hashAlg
		c.initDone = true
	}

	masked := c.maskID(s.SessionID)
	if _, _, _, found := c.findNode(masked); found {
		logCache("session id collision on save, dropping", "masked", masked[:4])
		return
	}

	var x uint32
	if int(c.storePtr) < c.capacity {
		x = c.storePtr
		c.storePtr++
	} else {
		x = c.tail
		c.listUnlink(x)
		c.removeNode(x)
	}

	_, parent, isLeft, _ := c.findNode(masked)
	e := c.get(x)
	*e = cacheEntry{
		maskedID: masked,
		session:  *s.Clone(),
		left:     addrNull,
		right:    addrNull,
		used:     true,
	}
	c.setChild(parent, isLeft, x)
	c.listPushFront(x)
	logCache("saved session", "entries", c.Len())
}

// Load looks up a session by ID and, on hit, moves it to the front of
// the LRU list (marking it most-recently-used) before returning a copy.
func (c *SessionCache) Load(id []byte) (*SessionParameters, bool) {
	if !c.initDone || len(id) == 0 {
		return nil, false
	}
	masked := c.maskID(id)
	x, _, _, found := c.findNode(masked)
	if !found {
		return nil, false
	}

	if x != c.head {
		c.listUnlink(x)
		c.listPushFront(x)
	}
	return c.get(x).session.Clone(), true
}

// Len reports the number of sessions currently stored.
func (c *SessionCache) Len() int {
	n := 0
	for x := c.head; x != addrNull; x = c.get(x).next {
		n++
	}
	return n
}

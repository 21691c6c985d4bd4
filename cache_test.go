package coretls

import "testing"

func sessionWithID(id byte) *SessionParameters {
	s := &SessionParameters{
		SessionID:   []byte{id, id, id, id},
		Version:     0x0303,
		CipherSuite: TLS_RSA_WITH_AES_128_GCM_SHA256,
	}
	s.MasterSecret[0] = id
	return s
}

func TestCacheSaveLoadIdempotence(t *testing.T) {
	c := NewSessionCache(8)
	rng := newDRBG(HashSHA256)
	requireNil(t, rng.Seed(make([]byte, 32)))

	s := sessionWithID(0xAA)
	c.Save(rng, HashSHA256, s)

	got, ok := c.Load(s.SessionID)
	requireTrue(t, ok, "expected saved session to be found")
	if got.MasterSecret != s.MasterSecret {
		t.Fatal("loaded master secret does not match saved session")
	}
}

func TestCacheMissOnUnknownID(t *testing.T) {
	c := NewSessionCache(4)
	rng := newDRBG(HashSHA256)
	requireNil(t, rng.Seed(make([]byte, 32)))
	c.Save(rng, HashSHA256, sessionWithID(0x01))

	_, ok := c.Load([]byte{0x99, 0x99, 0x99, 0x99})
	requireTrue(t, !ok, "expected a miss for a never-saved session ID")
}

// TestCacheLRUEvictionOrder is testable property #5 from spec.md 8:
// a slab of 3 entries, save A, B, C; load B; save D evicts A (the
// least recently used), not B (reloaded) or C (saved after B).
func TestCacheLRUEvictionOrder(t *testing.T) {
	c := NewSessionCache(3)
	rng := newDRBG(HashSHA256)
	requireNil(t, rng.Seed(make([]byte, 32)))

	a := sessionWithID(0xA1)
	b := sessionWithID(0xB2)
	cc := sessionWithID(0xC3)
	d := sessionWithID(0xD4)

	c.Save(rng, HashSHA256, a)
	c.Save(rng, HashSHA256, b)
	c.Save(rng, HashSHA256, cc)

	_, ok := c.Load(b.SessionID)
	requireTrue(t, ok, "b should be present before eviction")

	c.Save(rng, HashSHA256, d)

	_, ok = c.Load(a.SessionID)
	requireTrue(t, !ok, "a should have been evicted (least recently used)")

	_, ok = c.Load(cc.SessionID)
	requireTrue(t, ok, "c should still be present")
	_, ok = c.Load(b.SessionID)
	requireTrue(t, ok, "b should still be present (reloaded before eviction)")
	_, ok = c.Load(d.SessionID)
	requireTrue(t, ok, "d should be present (just saved)")
}

func TestCacheLenTracksLiveEntries(t *testing.T) {
	c := NewSessionCache(4)
	rng := newDRBG(HashSHA256)
	requireNil(t, rng.Seed(make([]byte, 32)))

	for i := byte(1); i <= 4; i++ {
		c.Save(rng, HashSHA256, sessionWithID(i))
	}
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}

	c.Save(rng, HashSHA256, sessionWithID(5))
	if c.Len() != 4 {
		t.Fatalf("Len() after eviction = %d, want capacity 4", c.Len())
	}
}

// TestCacheTreeBalanceUnderAdversary is a loose check of testable
// property #6: sequential, attacker-chosen-looking session IDs should
// not collapse the tree into a linear chain, because insertion order
// is randomized by the keyed mask rather than the raw ID.
func TestCacheTreeBalanceUnderAdversary(t *testing.T) {
	const n = 200
	c := NewSessionCache(n)
	rng := newDRBG(HashSHA256)
	requireNil(t, rng.Seed(make([]byte, 32)))

	for i := 0; i < n; i++ {
		id := make([]byte, 4)
		id[0], id[1], id[2], id[3] = byte(i), byte(i>>8), byte(i>>16), byte(i>>24)
		s := &SessionParameters{SessionID: id, Version: 0x0303, CipherSuite: TLS_RSA_WITH_AES_128_GCM_SHA256}
		c.Save(rng, HashSHA256, s)
	}

	// A linear chain would put the root's longest path at n-1; a
	// balanced-by-masking tree should be nowhere close.
	depth := treeDepth(c, c.root)
	if depth > 4*lg2(n) {
		t.Fatalf("tree depth %d suspiciously large for %d sequential IDs (masking may not be randomizing insertion order)", depth, n)
	}
}

func treeDepth(c *SessionCache, x uint32) int {
	if x == addrNull {
		return 0
	}
	e := c.get(x)
	l := treeDepth(c, e.left)
	r := treeDepth(c, e.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func lg2(n int) int {
	d := 0
	for n > 1 {
		n >>= 1
		d++
	}
	if d < 1 {
		d = 1
	}
	return d
}

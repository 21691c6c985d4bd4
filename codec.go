package coretls

// RecordType is the TLS record content type, per RFC 5246 6.2.1.
type RecordType uint8

const (
	RecordTypeChangeCipherSpec RecordType = 20
	RecordTypeAlert            RecordType = 21
	RecordTypeHandshake        RecordType = 22
	RecordTypeApplicationData  RecordType = 23
)

func (t RecordType) valid() bool {
	switch t {
	case RecordTypeChangeCipherSpec, RecordTypeAlert, RecordTypeHandshake, RecordTypeApplicationData:
		return true
	default:
		return false
	}
}

const recordHeaderLen = 5

// InboundCodec is the capability set an active "read direction" cipher
// state exposes to the engine. Implementations are: codecNull,
// codecCBC (in its inbound configuration), codecAEAD (ditto).
type InboundCodec interface {
	// checkLength reports whether a ciphertext body of this length is
	// acceptable for this codec (before any MAC/tag is checked).
	checkLength(recordLen int) bool

	// decrypt transforms buf[:*n] in place from ciphertext to
	// plaintext for the given record type/version; on success the
	// plaintext is left in buf[:*n] with *n updated to its length. Any
	// MAC/padding/tag failure returns a non-nil error that carries no
	// information distinguishing its cause, and decrypt must take
	// processor time independent of *where* the corruption was, so it
	// resists Lucky-13-style timing analysis.
	decrypt(recordType RecordType, version uint16, buf []byte, n *int) error

	// sequence reports the current 64-bit sequence number (for tests
	// and diagnostics).
	sequence() uint64
}

// OutboundCodec is the capability set an active "write direction"
// cipher state exposes to the engine.
type OutboundCodec interface {
	// maxPlaintext narrows [start,end) (a window of free buffer space)
	// to the largest plaintext range this codec can seal into a single
	// record (leaving room for header, IV, MAC, padding, tag, and a
	// possible 1/n-1 split).
	maxPlaintext(start, end int) (int, int)

	// encrypt writes a complete record (5-byte header included) for
	// plaintext into dst, returning the number of bytes written. dst
	// must have room for recordHeaderLen+len(plaintext)+maxRecordOverhead
	// bytes, and may receive two concatenated records when a 1/n-1
	// split occurs.
	encrypt(recordType RecordType, version uint16, dst []byte, plaintext []byte) (int, error)

	sequence() uint64
}

// incrementSequence advances seq, returning ErrTooLarge instead of
// wrapping — spec.md's Open Question (b) is resolved by checking at
// the same point (before incrementing) in every codec family.
func incrementSequence(seq *uint64) error {
	if *seq == ^uint64(0) {
		return ErrTooLarge
	}
	*seq++
	return nil
}

package coretls

// codecNull is the identity codec used before the first
// ChangeCipherSpec on each direction: header only, plaintext passes
// through unchanged. Grounded on mint's newCipherStateNull /
// DefaultRecordLayer behavior when cipherState.cipher == nil.
type codecNull struct {
	seq uint64
}

func (c *codecNull) checkLength(recordLen int) bool {
	return recordLen <= maxPlaintextLen
}

func (c *codecNull) decrypt(recordType RecordType, version uint16, buf []byte, n *int) error {
	return incrementSequence(&c.seq)
}

func (c *codecNull) sequence() uint64 { return c.seq }

func (c *codecNull) maxPlaintext(start, end int) (int, int) {
	if end-start > maxPlaintextLen {
		end = start + maxPlaintextLen
	}
	return start + recordHeaderLen, end
}

func (c *codecNull) encrypt(recordType RecordType, version uint16, dst []byte, plaintext []byte) (int, error) {
	if len(plaintext) > maxPlaintextLen {
		return 0, ErrTooLarge
	}
	if err := incrementSequence(&c.seq); err != nil {
		return 0, err
	}
	total := recordHeaderLen + len(plaintext)
	if len(dst) < total {
		return 0, ErrBadParam
	}
	writeRecordHeader(dst, recordType, version, len(plaintext))
	copy(dst[recordHeaderLen:], plaintext)
	return total, nil
}

func writeRecordHeader(dst []byte, recordType RecordType, version uint16, bodyLen int) {
	dst[0] = byte(recordType)
	dst[1] = byte(version >> 8)
	dst[2] = byte(version)
	dst[3] = byte(bodyLen >> 8)
	dst[4] = byte(bodyLen)
}

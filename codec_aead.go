package coretls

import (
	"crypto/cipher"
	"encoding/binary"
)

// codecAEAD implements both AEAD suites this engine supports: AES-GCM
// (RFC 5288, 4-byte static IV + 8-byte explicit per-record nonce) and
// ChaCha20-Poly1305 (RFC 7905, fully implicit 12-byte nonce formed by
// XORing the sequence number into a static IV). factory.ExplicitNonceLen
// distinguishes the two; both share this struct because Go's
// cipher.AEAD interface already unifies them, the same way mint's own
// cipherState holds a single cipher.AEAD field regardless of which
// concrete AEAD backs it (record-layer.go).
type codecAEAD struct {
	seq     uint64
	aead    cipher.AEAD
	fixedIV []byte // 4 bytes for GCM, factory.NonceLen() bytes for ChaCha20; concatenated/XORed with seq per record
	factory AEADFactory
}

func newCodecAEAD(factory AEADFactory, aead cipher.AEAD, fixedIV []byte) *codecAEAD {
	return &codecAEAD{aead: aead, fixedIV: append([]byte(nil), fixedIV...), factory: factory}
}

func (c *codecAEAD) sequence() uint64 { return c.seq }

// nonce computes the 12-byte per-record nonce for seq: the explicit
// bytes (if any) are the big-endian sequence number itself, written
// over the low-order bytes of a copy of fixedIV (GCM's RFC 5288
// "salt || explicit nonce" shape collapses to this when fixedIV is
// exactly 4 bytes and NonceLen-ExplicitNonceLen==4); with
// ExplicitNonceLen==0 (ChaCha20-Poly1305) every nonce byte comes from
// XORing the sequence number into fixedIV, per RFC 7905.
func (c *codecAEAD) nonce(seq uint64) ([]byte, []byte) {
	nonce := make([]byte, c.factory.NonceLen())
	copy(nonce, c.fixedIV)

	explicit := c.factory.ExplicitNonceLen()
	if explicit == 0 {
		var seqBytes [8]byte
		binary.BigEndian.PutUint64(seqBytes[:], seq)
		off := len(nonce) - 8
		for i := 0; i < 8; i++ {
			nonce[off+i] ^= seqBytes[i]
		}
		logCrypto("aead", "computed implicit nonce", "seq", seq)
		return nonce, nil
	}

	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	copy(nonce[len(nonce)-8:], seqBytes[:])
	logCrypto("aead", "computed explicit nonce", "seq", seq)
	return nonce, seqBytes[:]
}

func aeadAssociatedData(seq uint64, recordType RecordType, version uint16, length int) []byte {
	var ad [13]byte
	binary.BigEndian.PutUint64(ad[0:8], seq)
	ad[8] = byte(recordType)
	ad[9] = byte(version >> 8)
	ad[10] = byte(version)
	binary.BigEndian.PutUint16(ad[11:13], uint16(length))
	return ad[:]
}

func (c *codecAEAD) checkLength(n int) bool {
	overhead := c.factory.ExplicitNonceLen() + c.aead.Overhead()
	return n >= overhead && n <= maxCiphertextLen
}

func (c *codecAEAD) decrypt(recordType RecordType, version uint16, buf []byte, n *int) error {
	total := *n
	lengthOK := c.checkLength(total)

	seq := c.seq
	if err := incrementSequence(&c.seq); err != nil {
		return err
	}
	if !lengthOK {
		return ErrBadMAC
	}

	data := buf[:total]
	explicit := c.factory.ExplicitNonceLen()
	var nonce []byte
	if explicit > 0 {
		// RFC 5288: the explicit nonce travels on the wire; the
		// receiver reconstructs fixed_iv || explicit directly rather
		// than recomputing it, since the wire bytes are authoritative.
		nonce = make([]byte, len(c.fixedIV)+explicit)
		copy(nonce, c.fixedIV)
		copy(nonce[len(c.fixedIV):], data[:explicit])
		data = data[explicit:]
	} else {
		nonce, _ = c.nonce(seq)
	}

	ciphertextLen := len(data) - c.aead.Overhead()
	associated := aeadAssociatedData(seq, recordType, version, ciphertextLen)

	plaintext, err := c.aead.Open(data[:0], nonce, data, associated)
	if err != nil {
		return ErrBadMAC
	}
	*n = len(plaintext)
	copy(buf, plaintext)
	return nil
}

func (c *codecAEAD) maxPlaintext(start, end int) (int, int) {
	overhead := recordHeaderLen + c.factory.ExplicitNonceLen() + c.aead.Overhead()
	avail := end - start - overhead
	if avail > maxPlaintextLen {
		avail = maxPlaintextLen
	}
	if avail < 0 {
		avail = 0
	}
	return start, start + avail
}

func (c *codecAEAD) encrypt(recordType RecordType, version uint16, dst []byte, plaintext []byte) (int, error) {
	if len(plaintext) > maxPlaintextLen {
		return 0, ErrTooLarge
	}
	seq := c.seq
	if err := incrementSequence(&c.seq); err != nil {
		return 0, err
	}

	nonce, explicitNonce := c.nonce(seq)
	associated := aeadAssociatedData(seq, recordType, version, len(plaintext))

	explicit := c.factory.ExplicitNonceLen()
	total := explicit + len(plaintext) + c.aead.Overhead()
	if len(dst) < recordHeaderLen+total {
		return 0, ErrBadParam
	}

	body := dst[recordHeaderLen:]
	off := 0
	if explicit > 0 {
		copy(body[:explicit], explicitNonce)
		off = explicit
	}
	c.aead.Seal(body[off:off], nonce, plaintext, associated)

	writeRecordHeader(dst, recordType, version, total)
	return recordHeaderLen + total, nil
}

package coretls

import (
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
)

// codecCBC is the CBC+HMAC codec (spec.md 4.1). A single struct serves
// both directions; the engine holds one inbound and one outbound
// instance. explicitIV distinguishes TLS 1.1+ (IV transmitted in each
// record) from TLS 1.0 (IV inherited as the previous record's last
// ciphertext block, carried in iv between calls).
//
// The 16-byte iv scratch is allocated regardless of the cipher's real
// block size (spec.md 9 Open Question (a)); only its first blockSize
// bytes are used. codec_cbc_test.go runs 3DES's 8-byte block through
// the explicit-IV path only, where the scratch is not used.
type codecCBC struct {
	seq uint64

	block     cipher.Block
	blockSize int
	hashAlg   HashAlg
	macKey    []byte
	macLen    int

	explicitIV bool
	iv         [16]byte // TLS 1.0 running IV; unused when explicitIV

	// randSource fills b with fresh random bytes, used for the
	// explicit IV (TLS 1.1+). Engine wires this to its DRBG.
	randSource func(b []byte) error
}

func newCodecCBC(block cipher.Block, blockSize int, hashAlg HashAlg, macKey []byte, explicitIV bool, randSource func([]byte) error) *codecCBC {
	return &codecCBC{
		block:      block,
		blockSize:  blockSize,
		hashAlg:    hashAlg,
		macKey:     macKey,
		macLen:     hashAlg.Size(),
		explicitIV: explicitIV,
		randSource: randSource,
	}
}

func (c *codecCBC) sequence() uint64 { return c.seq }

func (c *codecCBC) checkLength(n int) bool {
	ivLen := 0
	if c.explicitIV {
		ivLen = c.blockSize
	}
	minLen := ivLen + c.blockSize + c.macLen + 1
	if n < minLen || n > maxCiphertextLen {
		return false
	}
	body := n - ivLen
	return body%c.blockSize == 0
}

func macHeader(seq uint64, recordType RecordType, version uint16, contentLen int) []byte {
	var h [13]byte
	binary.BigEndian.PutUint64(h[0:8], seq)
	h[8] = byte(recordType)
	h[9] = byte(version >> 8)
	h[10] = byte(version)
	binary.BigEndian.PutUint16(h[11:13], uint16(contentLen))
	return h[:]
}

// extractCBCPadding reads the claimed padding length from the final
// byte of data and verifies every byte in the claimed padding region
// equals that length. It always runs the same number of comparisons
// (min(256, len(data)-1)) regardless of the claimed length or where a
// mismatch occurs, so that decrypt's wall-clock does not depend on
// whether, or where, the padding is wrong — the constant-time
// discipline spec.md 4.1/7 requires against Lucky-13-style attacks.
// Returns the claimed length and a 1/0 "looked valid" flag.
func extractCBCPadding(data []byte) (padLen byte, good int) {
	if len(data) == 0 {
		return 0, 0
	}
	padLen = data[len(data)-1]
	good = subtle.ConstantTimeLessOrEq(int(padLen)+1, len(data))

	maxCheck := 256
	if maxCheck > len(data)-1 {
		maxCheck = len(data) - 1
	}
	for i := 0; i < maxCheck; i++ {
		b := data[len(data)-1-i]
		inRange := subtle.ConstantTimeLessOrEq(i, int(padLen))
		eq := subtle.ConstantTimeByteEq(b, padLen)
		bad := inRange * (1 - eq)
		good *= (1 - bad)
	}
	return padLen, good
}

func (c *codecCBC) decrypt(recordType RecordType, version uint16, buf []byte, n *int) error {
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
	var iv []byte
	if c.explicitIV {
		iv = data[:c.blockSize]
		data = data[c.blockSize:]
	} else {
		iv = c.iv[:c.blockSize]
	}

	var nextRunningIV [16]byte
	if !c.explicitIV {
		copy(nextRunningIV[:c.blockSize], data[len(data)-c.blockSize:])
	}

	mode := cipher.NewCBCDecrypter(c.block, iv)
	mode.CryptBlocks(data, data)

	if !c.explicitIV {
		c.iv = nextRunningIV
	}

	padLen, padGood := extractCBCPadding(data)
	maxContentLen := len(data) - c.macLen - 1
	if maxContentLen < 0 {
		maxContentLen = 0
		padGood = 0
	}

	contentLen := maxContentLen - int(padLen)
	inBounds := subtle.ConstantTimeLessOrEq(0, contentLen)
	if contentLen < 0 {
		contentLen = 0
	}

	mac := newHMAC(c.hashAlg, c.macKey)
	mac.Write(macHeader(seq, recordType, version, contentLen))
	mac.Write(data[:contentLen])
	computedMAC := mac.Sum(nil)

	if extra := maxContentLen - contentLen; extra > 0 {
		// Equalize HMAC workload across every possible padding length on
		// a throwaway hasher, so the real content length is never
		// observable by timing; it must not feed into computedMAC.
		dummy := newHMAC(c.hashAlg, c.macKey)
		dummy.Write(make([]byte, extra))
	}

	gotMAC := data[contentLen : contentLen+c.macLen]
	macGood := subtle.ConstantTimeCompare(computedMAC, gotMAC)

	good := padGood * macGood * inBounds
	if good != 1 {
		return ErrBadMAC
	}

	*n = contentLen
	copy(buf, data[:contentLen])
	return nil
}

func (c *codecCBC) maxPlaintext(start, end int) (int, int) {
	overhead := recordHeaderLen + c.macLen + c.blockSize /* worst-case padding */ + 1
	if c.explicitIV {
		overhead += c.blockSize
	} else {
		// Reserve room for a second, 1/n-1-split record.
		overhead += recordHeaderLen + c.macLen + c.blockSize + 1
	}
	avail := end - start - overhead
	if avail > maxPlaintextLen {
		avail = maxPlaintextLen
	}
	if avail < 0 {
		avail = 0
	}
	return start, start + avail
}

func (c *codecCBC) encrypt(recordType RecordType, version uint16, dst []byte, plaintext []byte) (int, error) {
	if !c.explicitIV && recordType == RecordTypeApplicationData && len(plaintext) > 1 {
		n1, err := c.encryptOne(recordType, version, dst, plaintext[:1])
		if err != nil {
			return 0, err
		}
		n2, err := c.encryptOne(recordType, version, dst[n1:], plaintext[1:])
		if err != nil {
			return 0, err
		}
		return n1 + n2, nil
	}
	return c.encryptOne(recordType, version, dst, plaintext)
}

func (c *codecCBC) encryptOne(recordType RecordType, version uint16, dst []byte, plaintext []byte) (int, error) {
	if len(plaintext) > maxPlaintextLen {
		return 0, ErrTooLarge
	}
	seq := c.seq
	if err := incrementSequence(&c.seq); err != nil {
		return 0, err
	}

	mac := newHMAC(c.hashAlg, c.macKey)
	mac.Write(macHeader(seq, recordType, version, len(plaintext)))
	mac.Write(plaintext)
	tag := mac.Sum(nil)

	unpadded := len(plaintext) + len(tag)
	padLen := (c.blockSize - (unpadded+1)%c.blockSize) % c.blockSize
	total := unpadded + padLen + 1

	headerOff := recordHeaderLen
	var iv []byte
	ivLen := 0
	if c.explicitIV {
		ivLen = c.blockSize
		if len(dst) < headerOff+ivLen+total {
			return 0, ErrBadParam
		}
		iv = dst[headerOff : headerOff+ivLen]
		if err := c.randSource(iv); err != nil {
			return 0, err
		}
		headerOff += ivLen
	} else {
		if len(dst) < headerOff+total {
			return 0, ErrBadParam
		}
		iv = c.iv[:c.blockSize]
	}

	body := dst[headerOff : headerOff+total]
	copy(body, plaintext)
	copy(body[len(plaintext):], tag)
	for i := len(plaintext) + len(tag); i < total; i++ {
		body[i] = byte(padLen)
	}

	mode := cipher.NewCBCEncrypter(c.block, iv)
	mode.CryptBlocks(body, body)

	if !c.explicitIV {
		copy(c.iv[:c.blockSize], body[len(body)-c.blockSize:])
	}

	writeRecordHeader(dst, recordType, version, ivLen+total)
	return recordHeaderLen + ivLen + total, nil
}

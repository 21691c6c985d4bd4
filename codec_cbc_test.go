package coretls

import (
	"crypto/aes"
	"crypto/des"
	"testing"
	"time"
)

func newCBCPair(t *testing.T, explicitIV bool) (*codecCBC, *codecCBC) {
	t.Helper()
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
	}
	block, err := aes.NewCipher(key)
	requireNil(t, err)
	macKey := make([]byte, HashSHA1.Size())

	rng := newDRBG(HashSHA256)
	requireNil(t, rng.Seed(make([]byte, 32)))

	out := newCodecCBC(block, aes.BlockSize, HashSHA1, macKey, explicitIV, rng.Generate)
	in := newCodecCBC(block, aes.BlockSize, HashSHA1, macKey, explicitIV, rng.Generate)
	return out, in
}

func TestCodecCBCRoundTripExplicitIV(t *testing.T) {
	out, in := newCBCPair(t, true)

	plaintext := []byte("a TLS 1.2 application data record")
	dst := make([]byte, recordHeaderLen+len(plaintext)+maxRecordOverhead)
	n, err := out.encrypt(RecordTypeApplicationData, 0x0303, dst, plaintext)
	requireNil(t, err)

	body := append([]byte(nil), dst[recordHeaderLen:n]...)
	m := len(body)
	requireNil(t, in.decrypt(RecordTypeApplicationData, 0x0303, body, &m))
	requireEqual(t, body[:m], plaintext)
}

func TestCodecCBCRoundTripRunningIV(t *testing.T) {
	// TLS 1.0: explicitIV=false, IV inherited from the previous
	// record's final ciphertext block.
	out, in := newCBCPair(t, false)

	for _, msg := range [][]byte{[]byte("first record"), []byte("second record, different length")} {
		dst := make([]byte, recordHeaderLen+len(msg)+maxRecordOverhead)
		n, err := out.encryptOne(RecordTypeHandshake, 0x0301, dst, msg)
		requireNil(t, err)

		body := append([]byte(nil), dst[recordHeaderLen:n]...)
		m := len(body)
		requireNil(t, in.decrypt(RecordTypeHandshake, 0x0301, body, &m))
		requireEqual(t, body[:m], msg)
	}
}

func TestCodecCBCBadMACRejected(t *testing.T) {
	out, in := newCBCPair(t, true)

	plaintext := []byte("tamper with me")
	dst := make([]byte, recordHeaderLen+len(plaintext)+maxRecordOverhead)
	n, err := out.encrypt(RecordTypeApplicationData, 0x0303, dst, plaintext)
	requireNil(t, err)

	body := append([]byte(nil), dst[recordHeaderLen:n]...)
	body[len(body)-1] ^= 0xFF // flip the last ciphertext byte

	m := len(body)
	requireErr(t, in.decrypt(RecordTypeApplicationData, 0x0303, body, &m), ErrBadMAC)
}

// TestCodecCBCConstantTimeFailure is testable property #2 from
// spec.md 8: corrupting byte 0 vs. the last byte of a fixed-length
// ciphertext must both fail with BAD_MAC. The two wall-clock totals are
// compared, but since CI wall-clock is noisy an early/late ratio
// outside [0.5,2.0] is only logged as a warning and does not fail the
// test; it does not certify side-channel resistance.
func TestCodecCBCConstantTimeFailure(t *testing.T) {
	out, in := newCBCPair(t, true)

	plaintext := make([]byte, 1024)
	dst := make([]byte, recordHeaderLen+len(plaintext)+maxRecordOverhead)
	n, err := out.encrypt(RecordTypeApplicationData, 0x0303, dst, plaintext)
	requireNil(t, err)
	good := append([]byte(nil), dst[recordHeaderLen:n]...)

	const trials = 2000
	timeTrial := func(corruptAt int) time.Duration {
		start := time.Now()
		for i := 0; i < trials; i++ {
			body := append([]byte(nil), good...)
			body[corruptAt] ^= 0xFF
			m := len(body)
			c2 := *in
			if err := c2.decrypt(RecordTypeApplicationData, 0x0303, body, &m); err != ErrBadMAC {
				t.Fatalf("expected ErrBadMAC on corrupted ciphertext, got %v", err)
			}
		}
		return time.Since(start)
	}

	tEarly := timeTrial(0)
	tLate := timeTrial(len(good) - 1)

	ratio := float64(tEarly) / float64(tLate)
	if ratio < 0.5 || ratio > 2.0 {
		t.Logf("warning: early/late corruption timing ratio %.2f outside [0.5,2.0] (noisy environment, not necessarily a regression)", ratio)
	}
}

func TestCodecCBC3DESEightByteBlock(t *testing.T) {
	// spec.md 9 Open Question (a): an 8-byte-block cipher end to end.
	// This uses the explicit-IV path, so the codec's 16-byte running-IV
	// scratch is not involved.
	key := make([]byte, 24)
	for i := range key {
		key[i] = byte(i + 1)
	}
	block, err := des.NewTripleDESCipher(key)
	requireNil(t, err)
	macKey := make([]byte, HashSHA1.Size())
	rng := newDRBG(HashSHA256)
	requireNil(t, rng.Seed(make([]byte, 32)))

	out := newCodecCBC(block, des.BlockSize, HashSHA1, macKey, true, rng.Generate)
	in := newCodecCBC(block, des.BlockSize, HashSHA1, macKey, true, rng.Generate)

	plaintext := []byte("legacy 3DES suite")
	dst := make([]byte, recordHeaderLen+len(plaintext)+maxRecordOverhead)
	n, err := out.encrypt(RecordTypeApplicationData, 0x0301, dst, plaintext)
	requireNil(t, err)

	body := append([]byte(nil), dst[recordHeaderLen:n]...)
	m := len(body)
	requireNil(t, in.decrypt(RecordTypeApplicationData, 0x0301, body, &m))
	requireEqual(t, body[:m], plaintext)
}

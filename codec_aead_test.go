package coretls

import (
	"testing"

	"golang.org/x/crypto/chacha20poly1305"
)

func newGCMPair(t *testing.T) (*codecAEAD, *codecAEAD) {
	t.Helper()
	key := make([]byte, 16)
	fixedIV := make([]byte, 4)

	aeadOut, err := AEADAESGCM.New(key)
	requireNil(t, err)
	aeadIn, err := AEADAESGCM.New(key)
	requireNil(t, err)
	return newCodecAEAD(AEADAESGCM, aeadOut, fixedIV), newCodecAEAD(AEADAESGCM, aeadIn, fixedIV)
}

func TestCodecAEADGCMRoundTrip(t *testing.T) {
	out, in := newGCMPair(t)

	plaintext := []byte("application data over AES-GCM")
	dst := make([]byte, recordHeaderLen+len(plaintext)+maxRecordOverhead)
	n, err := out.encrypt(RecordTypeApplicationData, 0x0303, dst, plaintext)
	requireNil(t, err)

	body := append([]byte(nil), dst[recordHeaderLen:n]...)
	m := len(body)
	requireNil(t, in.decrypt(RecordTypeApplicationData, 0x0303, body, &m))
	requireEqual(t, body[:m], plaintext)
}

// TestCodecAEADGCMExplicitNonceSequence is testable property #3 from
// spec.md 8: successive records carry the sequence number, big-endian,
// as their 8-byte explicit nonce.
func TestCodecAEADGCMExplicitNonceSequence(t *testing.T) {
	out, _ := newGCMPair(t)

	payloads := [][]byte{[]byte("A"), []byte("BB"), []byte("CCC")}
	want := [][]byte{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 2},
	}

	for i, p := range payloads {
		dst := make([]byte, recordHeaderLen+len(p)+maxRecordOverhead)
		n, err := out.encrypt(RecordTypeApplicationData, 0x0303, dst, p)
		requireNil(t, err)
		explicitNonce := dst[recordHeaderLen : recordHeaderLen+8]
		requireEqual(t, explicitNonce, want[i])
		_ = n
	}
}

func TestCodecAEADChaCha20Poly1305RoundTrip(t *testing.T) {
	key := make([]byte, chacha20poly1305.KeySize)
	aeadOut, err := AEADChaCha20Poly1305.New(key)
	requireNil(t, err)
	aeadIn, err := AEADChaCha20Poly1305.New(key)
	requireNil(t, err)
	fixedIV := make([]byte, chacha20poly1305.NonceSize)

	out := newCodecAEAD(AEADChaCha20Poly1305, aeadOut, fixedIV)
	in := newCodecAEAD(AEADChaCha20Poly1305, aeadIn, fixedIV)

	plaintext := []byte("application data over ChaCha20-Poly1305")
	dst := make([]byte, recordHeaderLen+len(plaintext)+maxRecordOverhead)
	n, err := out.encrypt(RecordTypeApplicationData, 0x0303, dst, plaintext)
	requireNil(t, err)

	body := append([]byte(nil), dst[recordHeaderLen:n]...)
	m := len(body)
	requireNil(t, in.decrypt(RecordTypeApplicationData, 0x0303, body, &m))
	requireEqual(t, body[:m], plaintext)

	// No explicit nonce bytes travel on the wire for this suite.
	if len(body) != len(plaintext)+aeadOut.Overhead() {
		t.Fatalf("ciphertext length %d, want %d (no explicit nonce expected)", len(body), len(plaintext)+aeadOut.Overhead())
	}
}

func TestCodecAEADBadTagRejected(t *testing.T) {
	out, in := newGCMPair(t)

	plaintext := []byte("tamper with the tag")
	dst := make([]byte, recordHeaderLen+len(plaintext)+maxRecordOverhead)
	n, err := out.encrypt(RecordTypeApplicationData, 0x0303, dst, plaintext)
	requireNil(t, err)

	body := append([]byte(nil), dst[recordHeaderLen:n]...)
	body[len(body)-1] ^= 0xFF

	m := len(body)
	requireErr(t, in.decrypt(RecordTypeApplicationData, 0x0303, body, &m), ErrBadMAC)
}

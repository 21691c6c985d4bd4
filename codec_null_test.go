package coretls

import "testing"

func TestCodecNullRoundTrip(t *testing.T) {
	out := &codecNull{}
	in := &codecNull{}

	plaintext := []byte("hello")
	dst := make([]byte, recordHeaderLen+len(plaintext))
	n, err := out.encrypt(RecordTypeApplicationData, 0x0303, dst, plaintext)
	requireNil(t, err)
	if n != len(dst) {
		t.Fatalf("encrypt wrote %d bytes, want %d", n, len(dst))
	}

	body := append([]byte(nil), dst[recordHeaderLen:]...)
	m := len(body)
	requireNil(t, in.decrypt(RecordTypeApplicationData, 0x0303, body, &m))
	requireEqual(t, body[:m], plaintext)

	if out.sequence() != 1 || in.sequence() != 1 {
		t.Fatal("sequence numbers should advance in lockstep across encrypt/decrypt")
	}
}

func TestCodecNullRejectsOversizedPlaintext(t *testing.T) {
	c := &codecNull{}
	dst := make([]byte, recordHeaderLen+maxPlaintextLen+1)
	_, err := c.encrypt(RecordTypeApplicationData, 0x0303, dst, make([]byte, maxPlaintextLen+1))
	requireErr(t, err, ErrTooLarge)
}

func TestCodecNullSequenceOverflow(t *testing.T) {
	c := &codecNull{seq: ^uint64(0)}
	n := 0
	err := c.decrypt(RecordTypeApplicationData, 0x0303, nil, &n)
	requireErr(t, err, ErrTooLarge)
}

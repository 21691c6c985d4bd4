package coretls

import "testing"

func TestSessionCloneIsIndependent(t *testing.T) {
	s := &SessionParameters{
		SessionID:   []byte{1, 2, 3, 4},
		Version:     0x0303,
		CipherSuite: TLS_RSA_WITH_AES_128_GCM_SHA256,
	}
	for i := range s.MasterSecret {
		s.MasterSecret[i] = byte(i)
	}

	clone := s.Clone()
	clone.SessionID[0] = 0xFF
	clone.MasterSecret[0] = 0xFF

	if s.SessionID[0] == 0xFF {
		t.Fatal("mutating the clone's session ID affected the original")
	}
	if s.MasterSecret[0] == 0xFF {
		t.Fatal("mutating the clone's master secret affected the original")
	}
}

package coretls

import "testing"

func TestTupleDecomposesKnownSuites(t *testing.T) {
	cases := []struct {
		suite CipherSuite
		sym   Symmetric
		mac   MACAlg
	}{
		{TLS_RSA_WITH_AES_128_CBC_SHA, SymmetricAES128CBC, MACSHA1},
		{TLS_RSA_WITH_AES_128_GCM_SHA256, SymmetricAES128GCM, MACAead},
		{TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256, SymmetricChaCha20, MACAead},
	}
	for _, c := range cases {
		tuple, ok := Tuple(c.suite)
		requireTrue(t, ok, "suite not found in table")
		if tuple.Symmetric != c.sym {
			t.Fatalf("suite %04x: symmetric = %v, want %v", uint16(c.suite), tuple.Symmetric, c.sym)
		}
		if tuple.MAC != c.mac {
			t.Fatalf("suite %04x: mac = %v, want %v", uint16(c.suite), tuple.MAC, c.mac)
		}
	}
}

func TestTupleUnknownSuite(t *testing.T) {
	_, ok := Tuple(CipherSuite(0xFFFF))
	requireTrue(t, !ok, "expected unknown suite to miss")
}

func TestAEADFlagMatchesSymmetric(t *testing.T) {
	tuple, ok := Tuple(TLS_RSA_WITH_AES_256_GCM_SHA384)
	requireTrue(t, ok, "suite not found")
	requireTrue(t, tuple.AEAD(), "AES-256-GCM suite should report AEAD()==true")

	tuple, ok = Tuple(TLS_RSA_WITH_AES_128_CBC_SHA)
	requireTrue(t, ok, "suite not found")
	requireTrue(t, !tuple.AEAD(), "CBC suite should report AEAD()==false")
}

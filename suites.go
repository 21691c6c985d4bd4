package coretls

// CipherSuite is the 16-bit IANA cipher suite identifier as carried on
// the wire in ClientHello/ServerHello.
type CipherSuite uint16

// A subset of the IANA TLS cipher suite registry. It covers the RSA,
// ECDHE_RSA and ECDHE_ECDSA key exchanges and every Symmetric value;
// no suite here uses the ECDH_RSA or ECDH_ECDSA key exchange or the
// SHA-384 MAC.
const (
	TLS_RSA_WITH_3DES_EDE_CBC_SHA         CipherSuite = 0x000A
	TLS_RSA_WITH_AES_128_CBC_SHA          CipherSuite = 0x002F
	TLS_RSA_WITH_AES_256_CBC_SHA          CipherSuite = 0x0035
	TLS_RSA_WITH_AES_128_CBC_SHA256       CipherSuite = 0x003C
	TLS_RSA_WITH_AES_128_GCM_SHA256       CipherSuite = 0x009C
	TLS_RSA_WITH_AES_256_GCM_SHA384       CipherSuite = 0x009D
	TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA    CipherSuite = 0xC013
	TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA    CipherSuite = 0xC014
	TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256 CipherSuite = 0xC02F
	TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384 CipherSuite = 0xC030
	TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256 CipherSuite = 0xC02B
	TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384 CipherSuite = 0xC02C
	TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256 CipherSuite = 0xCCA8
	TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256 CipherSuite = 0xCCA9
)

// KeyExchange identifies the key exchange method field of a suite tuple.
type KeyExchange uint8

const (
	KeyExchangeRSA         KeyExchange = 0
	KeyExchangeECDHE_RSA   KeyExchange = 1
	KeyExchangeECDHE_ECDSA KeyExchange = 2
	KeyExchangeECDH_RSA    KeyExchange = 3
	KeyExchangeECDH_ECDSA  KeyExchange = 4
)

// Symmetric identifies the bulk encryption field of a suite tuple.
type Symmetric uint8

const (
	Symmetric3DESCBC   Symmetric = 0
	SymmetricAES128CBC Symmetric = 1
	SymmetricAES256CBC Symmetric = 2
	SymmetricAES128GCM Symmetric = 3
	SymmetricAES256GCM Symmetric = 4
	SymmetricChaCha20  Symmetric = 5
)

// MACAlg identifies the MAC field of a suite tuple. AEAD suites carry no
// separate MAC and report MACAead.
type MACAlg uint8

const (
	MACAead   MACAlg = 0
	MACSHA1   MACAlg = 1
	MACSHA256 MACAlg = 2
	MACSHA384 MACAlg = 3
)

// PrfHash identifies the PRF hash field of a suite tuple.
type PrfHash uint8

const (
	PrfSHA256 PrfHash = 0
	PrfSHA384 PrfHash = 1
)

// SuiteTuple is the fast-introspection decomposition of a cipher suite
// into its four constituent fields, as named in spec.md 6.
type SuiteTuple struct {
	KeyExchange KeyExchange
	Symmetric   Symmetric
	MAC         MACAlg
	PRF         PrfHash
}

// AEAD reports whether this suite's Symmetric field is an AEAD cipher,
// in which case MAC is meaningless (always MACAead).
func (t SuiteTuple) AEAD() bool {
	return t.Symmetric == SymmetricAES128GCM || t.Symmetric == SymmetricAES256GCM || t.Symmetric == SymmetricChaCha20
}

var suiteTable = map[CipherSuite]SuiteTuple{
	TLS_RSA_WITH_3DES_EDE_CBC_SHA:         {KeyExchangeRSA, Symmetric3DESCBC, MACSHA1, PrfSHA256},
	TLS_RSA_WITH_AES_128_CBC_SHA:          {KeyExchangeRSA, SymmetricAES128CBC, MACSHA1, PrfSHA256},
	TLS_RSA_WITH_AES_256_CBC_SHA:          {KeyExchangeRSA, SymmetricAES256CBC, MACSHA1, PrfSHA256},
	TLS_RSA_WITH_AES_128_CBC_SHA256:       {KeyExchangeRSA, SymmetricAES128CBC, MACSHA256, PrfSHA256},
	TLS_RSA_WITH_AES_128_GCM_SHA256:       {KeyExchangeRSA, SymmetricAES128GCM, MACAead, PrfSHA256},
	TLS_RSA_WITH_AES_256_GCM_SHA384:       {KeyExchangeRSA, SymmetricAES256GCM, MACAead, PrfSHA384},
	TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA:    {KeyExchangeECDHE_RSA, SymmetricAES128CBC, MACSHA1, PrfSHA256},
	TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA:    {KeyExchangeECDHE_RSA, SymmetricAES256CBC, MACSHA1, PrfSHA256},
	TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256: {KeyExchangeECDHE_RSA, SymmetricAES128GCM, MACAead, PrfSHA256},
	TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384: {KeyExchangeECDHE_RSA, SymmetricAES256GCM, MACAead, PrfSHA384},
	TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256:       {KeyExchangeECDHE_ECDSA, SymmetricAES128GCM, MACAead, PrfSHA256},
	TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384:       {KeyExchangeECDHE_ECDSA, SymmetricAES256GCM, MACAead, PrfSHA384},
	TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256:   {KeyExchangeECDHE_RSA, SymmetricChaCha20, MACAead, PrfSHA256},
	TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256: {KeyExchangeECDHE_ECDSA, SymmetricChaCha20, MACAead, PrfSHA256},
}

// Tuple decomposes a cipher suite into its four fields. ok is false for
// an identifier not in the engine's known table.
func Tuple(cs CipherSuite) (t SuiteTuple, ok bool) {
	t, ok = suiteTable[cs]
	return
}

package coretls

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/chacha20poly1305"
)

// The primitives in this file are the concrete edge of the abstract
// interfaces spec.md places out of scope ("primitive cryptography:
// AES, DES, SHA-1/2, HMAC, GHASH, PRF... referenced via abstract
// primitive interfaces"). The engine core only ever talks to these
// interfaces; a host embedding a hardware HSM or a constant-time
// bitsliced AES can substitute its own implementation without
// touching engine.go or the codecs.

// HashAlg is a hash algorithm the engine can use for HMAC/PRF/DRBG.
type HashAlg interface {
	New() hash.Hash
	Size() int
}

type stdHash struct {
	newFn func() hash.Hash
	size  int
}

func (h stdHash) New() hash.Hash { return h.newFn() }
func (h stdHash) Size() int      { return h.size }

var (
	// HashSHA1 is the legacy TLS 1.0/1.1 MAC hash.
	HashSHA1 HashAlg = &stdHash{sha1.New, sha1.Size}
	// HashSHA256 backs TLS 1.2's default PRF and SHA-256 MAC suites.
	HashSHA256 HashAlg = &stdHash{sha256.New, sha256.Size}
	// HashSHA384 backs the SHA-384 PRF/MAC suites.
	HashSHA384 HashAlg = &stdHash{sha512.New384, sha512.Size384}
)

// BlockCipher constructs a block cipher keyed for CBC mode.
type BlockCipher interface {
	// New returns a cipher.Block for the given key. BlockSize reports
	// the cipher's block size without requiring a key.
	New(key []byte) (cipher.Block, error)
	BlockSize() int
}

type stdBlockCipher struct {
	newFn     func(key []byte) (cipher.Block, error)
	blockSize int
}

func (b stdBlockCipher) New(key []byte) (cipher.Block, error) { return b.newFn(key) }
func (b stdBlockCipher) BlockSize() int                       { return b.blockSize }

var (
	// Block3DES is the legacy 8-byte-block cipher (BR_SSLENC_3DES_CBC).
	Block3DES BlockCipher = stdBlockCipher{des.NewTripleDESCipher, des.BlockSize}
	// BlockAES is the 16-byte-block cipher used by both AES-128 and
	// AES-256 CBC suites (key length alone selects the variant).
	BlockAES BlockCipher = stdBlockCipher{aes.NewCipher, aes.BlockSize}
)

// AEADFactory constructs an AEAD cipher from a key, for suites whose
// Symmetric field reports AEAD() == true.
type AEADFactory interface {
	New(key []byte) (cipher.AEAD, error)
	// NonceLen is the length of the per-record nonce this AEAD expects,
	// e.g. 12 for both GCM and ChaCha20-Poly1305.
	NonceLen() int
	// ExplicitNonceLen is how many of those nonce bytes are carried
	// in the clear on the wire (8 for GCM's RFC 5288 explicit nonce,
	// 0 for ChaCha20-Poly1305's fully-implicit RFC 7905 nonce).
	ExplicitNonceLen() int
}

type aesGCMFactory struct{}

func (aesGCMFactory) New(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
func (aesGCMFactory) NonceLen() int         { return 12 }
func (aesGCMFactory) ExplicitNonceLen() int { return 8 }

type chacha20poly1305Factory struct{}

func (chacha20poly1305Factory) New(key []byte) (cipher.AEAD, error) {
	return chacha20poly1305.New(key)
}
func (chacha20poly1305Factory) NonceLen() int         { return chacha20poly1305.NonceSize }
func (chacha20poly1305Factory) ExplicitNonceLen() int { return 0 }

var (
	// AEADAESGCM is the RFC 5288 AES-GCM factory (8-byte explicit nonce).
	AEADAESGCM AEADFactory = aesGCMFactory{}
	// AEADChaCha20Poly1305 is the RFC 7905 factory (implicit nonce).
	AEADChaCha20Poly1305 AEADFactory = chacha20poly1305Factory{}
)

// AEADFactoryFor returns the default AEAD factory for a suite's
// Symmetric field, or nil if the field does not name an AEAD cipher.
func AEADFactoryFor(s Symmetric) AEADFactory {
	switch s {
	case SymmetricAES128GCM, SymmetricAES256GCM:
		return AEADAESGCM
	case SymmetricChaCha20:
		return AEADChaCha20Poly1305
	default:
		return nil
	}
}

// BlockCipherFor returns the default block cipher for a suite's
// Symmetric field, or nil if the field does not name a CBC cipher.
func BlockCipherFor(s Symmetric) BlockCipher {
	switch s {
	case Symmetric3DESCBC:
		return Block3DES
	case SymmetricAES128CBC, SymmetricAES256CBC:
		return BlockAES
	default:
		return nil
	}
}

// HashFor returns the default hash algorithm for a suite's MAC field,
// or nil for MACAead.
func HashFor(m MACAlg) HashAlg {
	switch m {
	case MACSHA1:
		return HashSHA1
	case MACSHA256:
		return HashSHA256
	case MACSHA384:
		return HashSHA384
	default:
		return nil
	}
}

// newHMAC is a small convenience wrapper so callers throughout the
// package don't each re-import crypto/hmac.
func newHMAC(h HashAlg, key []byte) hash.Hash {
	return hmac.New(h.New, key)
}

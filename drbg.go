package coretls

import (
	"crypto/rand"
)

// drbg is an HMAC-DRBG (NIST SP 800-90A), the engine-owned random
// source spec.md 2's "Entropy/RNG wiring" row names. The session
// cache draws its HMAC masking key from exactly this generator (see
// cache.go), mirroring the source engine pulling br_hmac_drbg_generate
// off the server context's own rng.
type drbg struct {
	hashAlg HashAlg
	k       []byte
	v       []byte
	seeded  bool
}

func newDRBG(h HashAlg) *drbg {
	return &drbg{hashAlg: h}
}

// Seed initializes or reseeds the generator from caller-supplied
// entropy, extended with OS randomness if the caller provides fewer
// than the hash's output-length worth of bytes. The first call
// instantiates the state; later calls mix the new material into the
// existing state.
func (d *drbg) Seed(entropy []byte) error {
	size := d.hashAlg.Size()
	material := make([]byte, 0, size*2)
	material = append(material, entropy...)
	if len(material) < size {
		pad := make([]byte, size-len(material))
		if _, err := rand.Read(pad); err != nil {
			return ErrNoRandom
		}
		material = append(material, pad...)
	}

	if !d.seeded {
		d.k = make([]byte, size)
		d.v = make([]byte, size)
		for i := range d.v {
			d.v[i] = 0x01
		}
	}

	d.update(material)
	d.seeded = true
	return nil
}

func (d *drbg) hmac(key, data []byte) []byte {
	mac := newHMAC(d.hashAlg, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func (d *drbg) update(providedData []byte) {
	input := append(append([]byte{}, d.v...), 0x00)
	input = append(input, providedData...)
	d.k = d.hmac(d.k, input)
	d.v = d.hmac(d.k, d.v)

	if len(providedData) == 0 {
		return
	}

	input = append(append([]byte{}, d.v...), 0x01)
	input = append(input, providedData...)
	d.k = d.hmac(d.k, input)
	d.v = d.hmac(d.k, d.v)
}

// Generate fills out with pseudo-random bytes. It returns ErrNoRandom
// if Seed has not been called yet.
func (d *drbg) Generate(out []byte) error {
	if !d.seeded {
		return ErrNoRandom
	}

	filled := 0
	for filled < len(out) {
		d.v = d.hmac(d.k, d.v)
		n := copy(out[filled:], d.v)
		filled += n
	}
	d.update(nil)
	return nil
}

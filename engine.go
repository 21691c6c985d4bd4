package coretls

import (
	"crypto/cipher"
	"crypto/sha256"
	"hash"
)

// State is the bitmask spec.md 4.2 describes only as an ordered rule
// set; named bits mirror the source engine's BR_SSL_CLOSED /
// BR_SSL_SENDREC / BR_SSL_RECVREC / BR_SSL_SENDAPP / BR_SSL_RECVAPP
// constants.
type State uint

const (
	StateSendApp State = 1 << iota
	StateRecvApp
	StateSendRec
	StateRecvRec
	StateClosed
)

// RenegStatus tracks spec.md 4.2's secure-renegotiation indication.
type RenegStatus uint8

const (
	RenegUnknown RenegStatus = iota
	RenegUnsupported
	RenegSupported
)

// maxRecordOverhead generously bounds header + explicit IV/nonce + MAC
// or tag + worst-case CBC padding, for sizing a single record's
// destination buffer regardless of which codec seals it.
const maxRecordOverhead = 512

// EngineConfig configures a new Engine. Following mint's field-
// assignment style (no builder, no file-based loader — spec.md's
// Non-goals put config loading above this layer), it is a plain
// struct the caller fills in directly.
type EngineConfig struct {
	VersionMin uint16
	VersionMax uint16

	CipherSuites []CipherSuite
	ServerName   string

	NoRenegotiation bool

	// Cache, when set, backs SaveSession/ResumeSession. The engine
	// never creates one implicitly; a server wires the same *SessionCache
	// into every Engine it owns.
	Cache *SessionCache

	// HashFactory/BlockCipherFactory/AEADFactoryFunc let a host swap in
	// its own primitive implementations (spec.md 1: "referenced via
	// abstract primitive interfaces"). A nil field falls back to
	// primitives.go's stdlib-backed default.
	HashFactory        func(MACAlg) HashAlg
	BlockCipherFactory func(Symmetric) BlockCipher
	AEADFactoryFunc    func(Symmetric) AEADFactory
}

func (c *EngineConfig) hashFor(m MACAlg) HashAlg {
	if c.HashFactory != nil {
		return c.HashFactory(m)
	}
	return HashFor(m)
}

func (c *EngineConfig) blockCipherFor(s Symmetric) BlockCipher {
	if c.BlockCipherFactory != nil {
		return c.BlockCipherFactory(s)
	}
	return BlockCipherFor(s)
}

func (c *EngineConfig) aeadFactoryFor(s Symmetric) AEADFactory {
	if c.AEADFactoryFunc != nil {
		return c.AEADFactoryFunc(s)
	}
	return AEADFactoryFor(s)
}

// byteQueue is an append-only FIFO that exposes the engine's buf()/
// ack() pull shape over a single growing slice. It generalizes
// spec.md 3's host-buffer cursor triples (ixa<=ixb<=ixc) and mint's
// frameReader-style incremental accumulation (record-layer.go's
// needed()/addChunk()/process()) into one shape reused for all four
// streams, rather than fixed-capacity arithmetic over a host-owned
// array (see DESIGN.md).
type byteQueue struct {
	data []byte
	off  int
}

func (q *byteQueue) buf() []byte   { return q.data[q.off:] }
func (q *byteQueue) len() int      { return len(q.data) - q.off }
func (q *byteQueue) push(b []byte) { q.data = append(q.data, b...) }

func (q *byteQueue) ack(n int) {
	if n <= 0 {
		return
	}
	q.off += n
	if q.off >= len(q.data) {
		q.data = q.data[:0]
		q.off = 0
		return
	}
	if q.off > 4096 {
		copy(q.data, q.data[q.off:])
		q.data = q.data[:len(q.data)-q.off]
		q.off = 0
	}
}

// Engine is the record-layer state machine of spec.md 2-5: a single-
// threaded, cooperatively driven scheduler owning no network
// connection, advancing only when a host calls one of its *Buf/*Ack
// accessors, Flush, Close, or Renegotiate. Zero value is not usable;
// build one with NewEngine.
type Engine struct {
	cfg EngineConfig
	err Err

	isClient bool

	versionIn uint16 // 0 until the first record is seen
	version   uint16 // record-layer version in use

	inCodec  InboundCodec
	outCodec OutboundCodec

	pendingInCodec  InboundCodec
	pendingOutCodec OutboundCodec
	ccsQueued       bool

	appDataAllowed bool

	rng *drbg

	clientRandom [32]byte
	serverRandom [32]byte
	session      *SessionParameters

	reneg         RenegStatus
	savedFinished [24]byte

	shutdownRecv     bool
	shutdownSent     bool
	closing          bool
	closeAlertSealed bool

	cb          HandshakeCallback
	hsIn        byteQueue
	hsOut       byteQueue
	hsOutScratch []byte

	transcript hash.Hash

	recvHeader    [recordHeaderLen]byte
	recvHeaderLen int
	recvType      RecordType
	recvVersion   uint16
	recvBody      []byte
	recvBodyLen   int
	recvScratch   []byte

	sendAppScratch []byte

	appOut byteQueue
	appIn  byteQueue
	sendQ  byteQueue

	pendingAlert *Alert
}

// NewEngine builds an Engine in its initial (pre-handshake) state:
// both directions run the null codec, and the DRBG is auto-seeded from
// OS randomness so a host need not call SeedEntropy before the first
// session-cache save or CBC explicit-IV record.
func NewEngine(cfg EngineConfig, isClient bool) *Engine {
	e := &Engine{cfg: cfg, isClient: isClient, reneg: RenegUnknown}
	e.inCodec = &codecNull{}
	e.outCodec = &codecNull{}
	e.rng = newDRBG(HashSHA256)
	_ = e.rng.Seed(nil)
	e.transcript = sha256.New()
	e.version = cfg.VersionMax
	return e
}

// Reset clears all per-connection state so the engine can be reused
// after a sticky error, per spec.md 7's "requires an explicit reset to
// resume". Configuration and the DRBG's accumulated entropy survive.
func (e *Engine) Reset() {
	cfg, isClient, rng := e.cfg, e.isClient, e.rng
	*e = Engine{cfg: cfg, isClient: isClient, reneg: RenegUnknown, rng: rng}
	e.inCodec = &codecNull{}
	e.outCodec = &codecNull{}
	e.transcript = sha256.New()
	e.version = cfg.VersionMax
}

// LastError reports the latched error code (spec.md 7's last_error()).
func (e *Engine) LastError() Err { return e.err }

// State reports the engine's current observable state as a bitmask;
// SendRec/SendApp and RecvRec/RecvApp are kept mutually exclusive
// exactly as spec.md 4.2 requires, since each pair shares one
// underlying window.
func (e *Engine) State() State {
	if e.err != ErrOK || (e.shutdownSent && e.shutdownRecv) {
		return StateClosed
	}
	var s State
	if e.sendQ.len() > 0 {
		s |= StateSendRec
	} else if e.appDataAllowed && !e.closing {
		s |= StateSendApp
	}
	if e.appOut.len() > 0 {
		s |= StateRecvApp
	} else if !e.shutdownRecv {
		s |= StateRecvRec
	}
	return s
}

// SeedEntropy mixes host-supplied entropy into the engine's DRBG
// (spec.md 2's "Entropy/RNG wiring", extended with OS randomness by
// drbg.Seed if the caller provides fewer bytes than the hash's output
// length, 32 for the engine's SHA-256 DRBG).
func (e *Engine) SeedEntropy(entropy []byte) error {
	return e.rng.Seed(entropy)
}

// NewOutboundCBC builds a CBC+HMAC outbound codec whose explicit-IV
// generation (TLS 1.1+) draws from this engine's own DRBG, the same
// generator the session cache masks session IDs with.
func (e *Engine) NewOutboundCBC(block cipher.Block, blockSize int, hashAlg HashAlg, macKey []byte, explicitIV bool) *codecCBC {
	return newCodecCBC(block, blockSize, hashAlg, macKey, explicitIV, e.rng.Generate)
}

// SetHandshakeCallback installs the out-of-scope handshake message
// processor (spec.md 1).
func (e *Engine) SetHandshakeCallback(cb HandshakeCallback) { e.cb = cb }

// InstallPendingInboundCodec stages a freshly keyed codec to take over
// the inbound direction at the next ChangeCipherSpec, per spec.md
// 4.2's cipher-switch protocol. The handshake callback calls this once
// it has derived keys.
func (e *Engine) InstallPendingInboundCodec(c InboundCodec) { e.pendingInCodec = c }

// InstallPendingOutboundCodec stages a freshly keyed codec for the
// outbound direction, activated as soon as SendChangeCipherSpec's CCS
// record has been sealed.
func (e *Engine) InstallPendingOutboundCodec(c OutboundCodec) { e.pendingOutCodec = c }

// SendChangeCipherSpec queues the outbound CCS record that, once
// sealed, swaps in the codec installed via InstallPendingOutboundCodec.
// Returns ErrBadState if no codec is staged.
func (e *Engine) SendChangeCipherSpec() error {
	if e.pendingOutCodec == nil {
		return e.fail(ErrBadState)
	}
	e.ccsQueued = true
	return nil
}

// SetNegotiatedVersion records the version the handshake settled on;
// it becomes the record-layer version stamped on every subsequent
// outbound record.
func (e *Engine) SetNegotiatedVersion(v uint16) { e.version = v }

// NegotiatedVersion reports the version in effect for outbound records.
func (e *Engine) NegotiatedVersion() uint16 { return e.version }

// MarkHandshakeComplete flips application_data, per spec.md 3's
// invariant that it is 1 only once the initial handshake has finished.
// The handshake callback calls this instead of returning StatusDone
// when it needs to announce completion out of band (e.g. immediately
// after sending its own Finished, before the peer's has arrived).
func (e *Engine) MarkHandshakeComplete() { e.appDataAllowed = true }

// SetRenegotiationSupported records whether the peer's initial
// ClientHello carried the renegotiation_info extension or SCSV
// (spec.md 4.2).
func (e *Engine) SetRenegotiationSupported(supported bool) {
	if supported {
		e.reneg = RenegSupported
	} else {
		e.reneg = RenegUnsupported
	}
}

// SavedFinished exposes the 24-byte (client||server) Finished storage
// spec.md 3 requires for secure renegotiation bookkeeping.
func (e *Engine) SavedFinished() *[24]byte { return &e.savedFinished }

// ClientRandom and ServerRandom expose the 32-byte random values
// spec.md 3 lists in the engine context.
func (e *Engine) ClientRandom() *[32]byte { return &e.clientRandom }
func (e *Engine) ServerRandom() *[32]byte { return &e.serverRandom }

// Transcript is the running hash over every handshake byte sent or
// received (spec.md 3's "multi-hasher"), used by the handshake
// processor to compute Finished/PRF inputs.
func (e *Engine) Transcript() hash.Hash { return e.transcript }

// SetSession attaches the session parameters negotiated or resumed for
// this connection.
func (e *Engine) SetSession(s *SessionParameters) { e.session = s }

// Session returns a copy of the current session parameters, or nil.
func (e *Engine) Session() *SessionParameters {
	if e.session == nil {
		return nil
	}
	return e.session.Clone()
}

// SaveSession stores the engine's current session into the configured
// cache, a no-op if no cache or no session is set.
func (e *Engine) SaveSession(hashAlg HashAlg) {
	if e.cfg.Cache == nil || e.session == nil {
		return
	}
	e.cfg.Cache.Save(e.rng, hashAlg, e.session)
}

// ResumeSession looks a session up in the configured cache by ID.
func (e *Engine) ResumeSession(id []byte) (*SessionParameters, bool) {
	if e.cfg.Cache == nil {
		return nil, false
	}
	return e.cfg.Cache.Load(id)
}

// alertCodeForErr maps local errors the engine itself detects to the
// fatal alert spec.md 7 says must accompany them on the wire. Errors
// with no natural alert (e.g. ErrIO, a host-side fault) are reported
// silently.
func alertCodeForErr(code Err) (uint8, bool) {
	switch code {
	case ErrBadMAC:
		return AlertBadRecordMAC, true
	case ErrBadVersion, ErrUnsupportedVersion:
		return 70, true // protocol_version, RFC 5246 7.2.2
	case ErrUnknownType, ErrUnexpected, ErrBadCCS, ErrBadAlert, ErrBadHandshake:
		return AlertUnexpectedMessage, true
	case ErrBadSecReneg:
		return AlertHandshakeFailure, true
	default:
		return 0, false
	}
}

// fail latches a locally detected error and, when spec.md 7 calls for
// one, queues the matching fatal alert ahead of everything else
// pending to send. Only the first call after a clean state has any
// effect, per the sticky-error contract.
func (e *Engine) fail(code Err) Err {
	if e.err != ErrOK {
		return e.err
	}
	e.err = code
	e.closing = true
	if ac, ok := alertCodeForErr(code); ok {
		e.pendingAlert = &Alert{Level: AlertLevelFatal, Code: ac}
	}
	return e.err
}

// failRemote latches an error reported by the peer (a received fatal
// alert); unlike fail, it never queues an outbound alert of our own.
func (e *Engine) failRemote(code Err) Err {
	if e.err == ErrOK {
		e.err = code
		e.closing = true
	}
	return e.err
}

func errFromEncrypt(err error) Err {
	if e, ok := err.(Err); ok {
		return e
	}
	return ErrBadParam
}

// --- sendapp: host -> engine plaintext ---------------------------------

// SendAppBuf returns free space the host may fill with outgoing
// plaintext, or nil if the engine cannot currently accept it (sticky
// error, handshake not complete, or closing).
func (e *Engine) SendAppBuf() []byte {
	if e.err != ErrOK || !e.appDataAllowed || e.closing {
		return nil
	}
	if cap(e.sendAppScratch) == 0 {
		e.sendAppScratch = make([]byte, maxPlaintextLen)
	}
	return e.sendAppScratch
}

// SendAppAck commits n bytes the host wrote into the SendAppBuf window.
func (e *Engine) SendAppAck(n int) error {
	if n < 0 || n > len(e.sendAppScratch) {
		return ErrBadParam
	}
	if n == 0 {
		return nil
	}
	e.appIn.push(e.sendAppScratch[:n])
	return nil
}

// --- recvapp: engine -> host decrypted application bytes ---------------

// RecvAppBuf returns decrypted application bytes awaiting consumption.
func (e *Engine) RecvAppBuf() []byte {
	if e.err != ErrOK {
		return nil
	}
	return e.appOut.buf()
}

// RecvAppAck marks n bytes of RecvAppBuf's window as consumed.
func (e *Engine) RecvAppAck(n int) error {
	if n < 0 || n > e.appOut.len() {
		return ErrBadParam
	}
	e.appOut.ack(n)
	return nil
}

// --- sendrec: engine -> host record bytes to transmit -------------------

// SendRecBuf assembles as many complete records as are currently
// available (sealing queued alerts, CCS, handshake, and app-data bytes
// in that priority order) and returns the result.
func (e *Engine) SendRecBuf() []byte {
	if e.err != ErrOK && e.pendingAlert == nil {
		return e.sendQ.buf()
	}
	e.assembleOutgoing()
	return e.sendQ.buf()
}

// SendRecAck marks n bytes of SendRecBuf's window as drained to
// transport. Once the close_notify record has fully drained this way,
// the engine considers its own half of closure complete.
func (e *Engine) SendRecAck(n int) error {
	if n < 0 || n > e.sendQ.len() {
		return ErrBadParam
	}
	e.sendQ.ack(n)
	if e.closing && e.closeAlertSealed && e.sendQ.len() == 0 {
		e.shutdownSent = true
	}
	return nil
}

// --- recvrec: host -> engine incoming record bytes ----------------------

// RecvRecBuf returns a window the host may fill with bytes freshly
// read off the transport.
func (e *Engine) RecvRecBuf() []byte {
	if e.err != ErrOK || e.shutdownRecv {
		return nil
	}
	if cap(e.recvScratch) == 0 {
		e.recvScratch = make([]byte, maxCiphertextLen)
	}
	return e.recvScratch
}

// RecvRecAck feeds n bytes the host wrote into RecvRecBuf's window
// through record assembly, dispatching any complete records found.
func (e *Engine) RecvRecAck(n int) error {
	if n < 0 || n > len(e.recvScratch) {
		return ErrBadParam
	}
	if n == 0 {
		return nil
	}
	return e.feedRecv(e.recvScratch[:n])
}

// --- incoming record assembly --------------------------------------------

func (e *Engine) feedRecv(b []byte) error {
	for len(b) > 0 {
		if e.recvHeaderLen < recordHeaderLen {
			n := copy(e.recvHeader[e.recvHeaderLen:], b)
			e.recvHeaderLen += n
			b = b[n:]
			if e.recvHeaderLen < recordHeaderLen {
				return nil
			}
			if err := e.parseHeader(); err != nil {
				return err
			}
		}

		need := e.recvBodyLen - len(e.recvBody)
		take := need
		if take > len(b) {
			take = len(b)
		}
		e.recvBody = append(e.recvBody, b[:take]...)
		b = b[take:]
		if len(e.recvBody) < e.recvBodyLen {
			return nil
		}

		if err := e.processRecord(); err != nil {
			return err
		}
		e.recvHeaderLen = 0
		e.recvBody = e.recvBody[:0]
	}
	return nil
}

func (e *Engine) parseHeader() error {
	t := RecordType(e.recvHeader[0])
	if !t.valid() {
		return e.fail(ErrUnknownType)
	}
	v := uint16(e.recvHeader[1])<<8 | uint16(e.recvHeader[2])
	if e.versionIn == 0 {
		e.versionIn = v
	} else if v != e.versionIn {
		return e.fail(ErrBadVersion)
	}
	length := int(e.recvHeader[3])<<8 | int(e.recvHeader[4])
	if length > maxRecordBodyLen || !e.inCodec.checkLength(length) {
		return e.fail(ErrBadLength)
	}
	e.recvType = t
	e.recvVersion = v
	e.recvBodyLen = length
	if cap(e.recvBody) < length {
		e.recvBody = make([]byte, 0, length)
	} else {
		e.recvBody = e.recvBody[:0]
	}
	return nil
}

func (e *Engine) processRecord() error {
	n := len(e.recvBody)
	if err := e.inCodec.decrypt(e.recvType, e.recvVersion, e.recvBody, &n); err != nil {
		return e.fail(ErrBadMAC)
	}
	plain := e.recvBody[:n]
	switch e.recvType {
	case RecordTypeChangeCipherSpec:
		return e.handleCCS(plain)
	case RecordTypeAlert:
		return e.handleAlert(plain)
	case RecordTypeHandshake:
		return e.handleHandshake(plain)
	case RecordTypeApplicationData:
		return e.handleAppData(plain)
	default:
		return e.fail(ErrUnknownType)
	}
}

func (e *Engine) handleCCS(body []byte) error {
	if len(body) != 1 || body[0] != 1 {
		return e.fail(ErrBadCCS)
	}
	if e.pendingInCodec == nil {
		return e.fail(ErrBadState)
	}
	e.inCodec = e.pendingInCodec
	e.pendingInCodec = nil
	logIO("recv", "activated pending inbound codec")
	return nil
}

func (e *Engine) handleAlert(body []byte) error {
	if len(body) == 0 || len(body)%2 != 0 {
		return e.fail(ErrBadAlert)
	}
	for i := 0; i < len(body); i += 2 {
		a := Alert{Level: body[i], Code: body[i+1]}
		if a.Code == AlertCloseNotify {
			e.shutdownRecv = true
			e.beginClose()
			return nil
		}
		if a.fatal() {
			return e.failRemote(ErrRecvFatalAlertBase + Err(a.Code))
		}
	}
	return nil
}

func (e *Engine) handleHandshake(body []byte) error {
	if e.reneg == RenegUnknown && e.appDataAllowed {
		// A post-handshake handshake record with no recorded
		// renegotiation_info indication is refused outright, per
		// spec.md 4.2's BAD_SECRENEG rule.
		return e.fail(ErrBadSecReneg)
	}
	if e.reneg == RenegUnsupported && e.appDataAllowed {
		return e.fail(ErrBadSecReneg)
	}
	e.hsIn.push(body)
	e.transcript.Write(body)
	return e.runHandshake(ActionIO)
}

func (e *Engine) handleAppData(body []byte) error {
	if !e.appDataAllowed {
		return e.fail(ErrUnexpected)
	}
	e.appOut.push(body)
	return nil
}

// runHandshake drives the handshake callback until it suspends,
// completes, or fails, per spec.md 9's "global run-to-completion
// coroutine... abstractly a callback that can suspend and resume".
func (e *Engine) runHandshake(action Action) error {
	if e.cb == nil {
		return nil
	}
	for {
		if cap(e.hsOutScratch) == 0 {
			e.hsOutScratch = make([]byte, 4096)
		}
		consumed, written, status := e.cb.Advance(action, e.hsIn.buf(), e.hsOutScratch)
		if consumed < 0 || consumed > e.hsIn.len() || written < 0 || written > len(e.hsOutScratch) {
			return e.fail(ErrBadHandshake)
		}
		e.hsIn.ack(consumed)
		if written > 0 {
			e.transcript.Write(e.hsOutScratch[:written])
			e.hsOut.push(e.hsOutScratch[:written])
		}

		switch status.Kind {
		case StatusFail:
			return e.fail(status.Err)
		case StatusDone:
			e.appDataAllowed = true
			return nil
		case StatusNeedMoreOut:
			return nil
		case StatusNeedMoreIn:
			if consumed == 0 && written == 0 {
				return nil
			}
		}
	}
}

// --- outgoing record assembly ---------------------------------------------

// assembleOutgoing seals everything currently ready to send into
// sendQ: a queued alert first, then a queued CCS, then handshake-out
// bytes, then application data — matching spec.md 4.2's emission
// order (control records before app data; handshake bytes are sealed
// as they are produced, CCS/alert take priority at the boundary).
func (e *Engine) assembleOutgoing() {
	for {
		if e.pendingAlert != nil {
			a := *e.pendingAlert
			e.pendingAlert = nil
			e.sealRecord(RecordTypeAlert, []byte{a.Level, a.Code})
			if e.err != ErrOK {
				return
			}
			if e.closing {
				e.closeAlertSealed = true
			}
			continue
		}
		if e.ccsQueued {
			e.sealRecord(RecordTypeChangeCipherSpec, []byte{1})
			if e.err == ErrOK {
				e.outCodec = e.pendingOutCodec
				e.pendingOutCodec = nil
				e.ccsQueued = false
				logIO("send", "activated pending outbound codec")
			} else {
				return
			}
			continue
		}
		if e.hsOut.len() > 0 {
			if !e.sealChunk(RecordTypeHandshake, &e.hsOut) {
				return
			}
			continue
		}
		if e.appIn.len() > 0 && e.appDataAllowed && !e.closing {
			if !e.sealChunk(RecordTypeApplicationData, &e.appIn) {
				return
			}
			continue
		}
		return
	}
}

// sealChunk seals as much of q's pending bytes as the outbound
// codec's maxPlaintext allows into one record, acking what it sealed.
// Returns false if nothing could be sealed (empty queue, codec
// refuses, or a fault occurred) so the caller's loop can stop.
func (e *Engine) sealChunk(t RecordType, q *byteQueue) bool {
	chunk := q.buf()
	if len(chunk) == 0 {
		return false
	}
	_, end := e.outCodec.maxPlaintext(0, maxPlaintextLen+maxRecordOverhead)
	max := end
	if max > len(chunk) {
		max = len(chunk)
	}
	if max <= 0 {
		return false
	}
	e.sealRecord(t, chunk[:max])
	if e.err != ErrOK {
		return false
	}
	q.ack(max)
	return true
}

func (e *Engine) sealRecord(t RecordType, plaintext []byte) {
	dst := make([]byte, recordHeaderLen+len(plaintext)+maxRecordOverhead)
	n, err := e.outCodec.encrypt(t, e.version, dst, plaintext)
	if err != nil {
		e.fail(errFromEncrypt(err))
		return
	}
	e.sendQ.push(dst[:n])
	logIO("send", "sealed record", "type", t, "n", n)
}

// Flush seals any pending plaintext into a record; if force and
// nothing was pending, it emits a zero-length record, per spec.md
// 4.2's "or (when force) emits an empty record".
func (e *Engine) Flush(force bool) error {
	if e.err != ErrOK {
		return e.err
	}
	before := e.sendQ.len()
	e.assembleOutgoing()
	if e.err == ErrOK && force && e.sendQ.len() == before {
		e.sealRecord(RecordTypeApplicationData, nil)
	}
	if e.err != ErrOK {
		return e.err
	}
	return nil
}

// beginClose queues our own close_notify the first time either the
// host calls Close or the peer's close_notify arrives.
func (e *Engine) beginClose() {
	if e.closing {
		return
	}
	e.closing = true
	e.pendingAlert = &Alert{Level: AlertLevelWarning, Code: AlertCloseNotify}
}

// Close schedules a close_notify alert; per spec.md 4.2, once that
// alert's record has drained into SendRecBuf, further SendAppBuf calls
// return nil.
func (e *Engine) Close() error {
	if e.err != ErrOK {
		return e.err
	}
	e.beginClose()
	e.assembleOutgoing()
	if e.err != ErrOK {
		return e.err
	}
	return nil
}

// Renegotiate requests a fresh handshake; honoured only when the peer
// indicated secure-renegotiation support and NoRenegotiation is unset,
// per spec.md 4.2.
func (e *Engine) Renegotiate() error {
	if e.err != ErrOK {
		return e.err
	}
	if e.reneg != RenegSupported || e.cfg.NoRenegotiation {
		return e.fail(ErrBadSecReneg)
	}
	return e.runHandshake(ActionRenegotiate)
}

package coretls

// sessionIDMaxLen is the maximum length of a TLS session ID, per
// RFC 5246 7.4.1.2.
const sessionIDMaxLen = 32

// masterSecretLen is the fixed length of the TLS master secret.
const masterSecretLen = 48

// SessionParameters is the resumable-session tuple spec.md 3 names:
// (session_id, version, cipher_suite, master_secret). The master
// secret is sensitive and callers should not retain copies beyond the
// lifetime of the handshake that produced or consumed it, unless
// explicitly exporting a session for external storage.
type SessionParameters struct {
	SessionID    []byte // <= sessionIDMaxLen bytes
	Version      uint16
	CipherSuite  CipherSuite
	MasterSecret [masterSecretLen]byte
}

// Clone returns a deep copy, so a cache can safely hand back
// independent storage to callers that might mutate or zero it.
func (s *SessionParameters) Clone() *SessionParameters {
	out := &SessionParameters{
		Version:     s.Version,
		CipherSuite: s.CipherSuite,
	}
	out.SessionID = append([]byte(nil), s.SessionID...)
	out.MasterSecret = s.MasterSecret
	return out
}

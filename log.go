package coretls

import "go.uber.org/zap"

// pkgLogger is the package-wide sink for engine trace logging. It
// defaults to a no-op logger so an embedding host sees silence unless
// it opts in with SetLogger, mirroring the teacher engine's own
// default of "nothing is logged unless a sink is installed".
var pkgLogger = zap.NewNop().Sugar()

// SetLogger installs the structured logger engines use for trace-level
// diagnostics (records sealed for sending, cipher switches, AEAD nonce
// computation, cache saves and save-time collisions). Received records,
// decrypt failures and cache evictions are not logged. Pass nil to
// silence logging again.
func SetLogger(l *zap.Logger) {
	if l == nil {
		pkgLogger = zap.NewNop().Sugar()
		return
	}
	pkgLogger = l.Sugar()
}

func logIO(label, msg string, kv ...interface{}) {
	pkgLogger.Debugw(msg, append([]interface{}{"logtype", "io", "label", label}, kv...)...)
}

func logCrypto(label, msg string, kv ...interface{}) {
	pkgLogger.Debugw(msg, append([]interface{}{"logtype", "crypto", "label", label}, kv...)...)
}

func logCache(msg string, kv ...interface{}) {
	pkgLogger.Debugw(msg, append([]interface{}{"logtype", "cache"}, kv...)...)
}

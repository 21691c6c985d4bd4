package coretls

// Buffer size constants, named after the engine this design is grounded
// on (BR_SSL_BUFSIZE_*). They size a host's input/output buffers so that
// a single maximum-size record always fits regardless of active suite.
const (
	// InputBufferSize is the optimal size for a host's receive buffer:
	// a full 2^14-byte record plus the largest possible per-record
	// expansion: 5-byte header, 16-byte explicit IV, 48-byte MAC and
	// up to 256 bytes of CBC padding (5+16+48+256 = 325).
	InputBufferSize = 16384 + 325

	// OutputBufferSize is the optimal size for a host's send buffer.
	OutputBufferSize = 16384 + 85

	// MonoBufferSize is the buffer size for a half-duplex engine that
	// shares one buffer between input and output.
	MonoBufferSize = InputBufferSize

	// BidiBufferSize is the buffer size for a full-duplex engine with
	// independent input and output buffers.
	BidiBufferSize = InputBufferSize + OutputBufferSize
)

// Record size envelopes, per RFC 5246 6.2.1-6.2.3.
const (
	maxPlaintextLen  = 1 << 14        // 16384
	maxCompressedLen = (1 << 14) + 1024
	maxCiphertextLen = (1 << 14) + 2048

	// maxRecordBodyLen bounds what the engine will accept as a record
	// body length on the wire, before any codec-specific check.
	maxRecordBodyLen = (1 << 14) + 2048
)

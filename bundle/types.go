package bundle

// RecordKind distinguishes readable source modules from opaque compiled
// payloads.
type RecordKind int

const (
	KindSource RecordKind = iota
	KindBytecode
)

func (k RecordKind) String() string {
	if k == KindBytecode {
		return "bytecode"
	}
	return "source"
}

// Record is one recovered module: the unit of script source (or compiled
// payload) keyed by its original source path.
type Record struct {
	// Path is the module's original source path, the unique registry key.
	Path string

	// Deps holds the module's declared dependency paths, deduplicated,
	// in declaration order.
	Deps []string

	// Body is the verbatim factory body for source modules, or the raw
	// compiled payload for bytecode modules. No text transformation is
	// applied either way.
	Body []byte

	Kind RecordKind

	// Truncated marks a module whose body ran past end-of-input. The partial
	// body is still emitted.
	Truncated bool
}

// Segment is one tagged scan result: a recognized registration call site or
// an unrecognized span of residual text. Representing both keeps partial
// recognition from aborting a scan.
type Segment struct {
	// Module is non-nil for a recognized call site.
	Module *Record

	// Span holds the raw residual bytes for an unrecognized segment.
	Span []byte
}

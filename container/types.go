package container

import (
	"path"
	"strings"
)

// PackageKind distinguishes the primary container from auxiliary ones.
type PackageKind int

const (
	KindMain PackageKind = iota
	KindSubpackage
)

func (k PackageKind) String() string {
	if k == KindMain {
		return "main"
	}
	return "subpackage"
}

// ContentKind is the inferred content category of an entry, used to route
// entries through the pipeline: script entries go to the bundle splitter,
// everything else straight to the tree writer.
type ContentKind int

const (
	ContentBinary ContentKind = iota // opaque asset, copied verbatim
	ContentMarkup
	ContentStyle
	ContentScript
	ContentConfig
)

func (k ContentKind) String() string {
	switch k {
	case ContentMarkup:
		return "markup"
	case ContentStyle:
		return "style"
	case ContentScript:
		return "script"
	case ContentConfig:
		return "config"
	default:
		return "binary"
	}
}

var kindByExt = map[string]ContentKind{
	".html": ContentMarkup,
	".htm":  ContentMarkup,
	".xml":  ContentMarkup,
	".wxml": ContentMarkup,
	".axml": ContentMarkup,
	".swan": ContentMarkup,
	".ttml": ContentMarkup,
	".css":  ContentStyle,
	".wxss": ContentStyle,
	".acss": ContentStyle,
	".ttss": ContentStyle,
	".js":   ContentScript,
	".mjs":  ContentScript,
	".json": ContentConfig,
}

// KindOf infers the content kind of a relative path from its extension.
// Unknown extensions are treated as opaque binary assets.
func KindOf(relPath string) ContentKind {
	ext := strings.ToLower(path.Ext(relPath))
	if k, ok := kindByExt[ext]; ok {
		return k
	}
	return ContentBinary
}

// FileEntry is one named byte range in a container's data section.
type FileEntry struct {
	// Path is the forward-slash normalized relative path, without a leading
	// slash.
	Path string

	// Offset and Length locate the entry's bytes relative to the start of
	// the data section, exactly as declared in the index table.
	Offset uint32
	Length uint32

	// Kind is inferred from the path extension.
	Kind ContentKind
}

// Manifest is the parsed view of one container: its ordered entries plus the
// data section they index into. AppID and Kind are assigned by the
// orchestrator, which knows the surrounding context; the bytes alone do not
// carry them.
type Manifest struct {
	AppID   string
	Kind    PackageKind
	Entries []FileEntry

	data []byte
}

// Bytes returns the raw bytes of an entry. The slice aliases the manifest's
// data section; callers that mutate it must copy first.
func (m *Manifest) Bytes(e FileEntry) []byte {
	return m.data[e.Offset : e.Offset+e.Length]
}

// normalizePath converts an index-table name to the canonical relative form:
// forward slashes, no leading slash.
func normalizePath(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.TrimPrefix(name, "/")
}

package bundle

import (
	"bytes"
	"encoding/binary"
	"strings"

	apkgerr "github.com/packlens/apkg/errors"
)

// defineWord is the registration function name the module loader uses.
var defineWord = []byte("define")

// bytecodeMarker opens a compiled-payload slot: where a factory function
// would appear, the packer instead emits this marker byte, a big-endian u32
// length, and the raw compiled bytes.
const bytecodeMarker = 0x00

// Scan performs one linear pass over a bundle blob and returns its tagged
// segments in order: recognized registration call sites interleaved with the
// unrecognized residue between them. A span that merely resembles a call
// site but does not parse stays residue; partial recognition never aborts
// the scan.
func Scan(blob []byte) []Segment {
	var segs []Segment
	i := 0
	residueStart := 0

	for i < len(blob) {
		rel := bytes.Index(blob[i:], defineWord)
		if rel < 0 {
			break
		}
		pos := i + rel
		if !wordBoundary(blob, pos) {
			i = pos + len(defineWord)
			continue
		}
		rec, end, ok := parseCallSite(blob, pos)
		if !ok {
			i = pos + len(defineWord)
			continue
		}
		if pos > residueStart {
			segs = append(segs, Segment{Span: blob[residueStart:pos]})
		}
		segs = append(segs, Segment{Module: rec})
		i = end
		residueStart = end
	}

	if residueStart < len(blob) {
		segs = append(segs, Segment{Span: blob[residueStart:]})
	}
	return segs
}

// Split splits a bundled script entry into per-path module records.
//
// Residual bootstrap text between call sites is loader boilerplate and is
// discarded. If no call site was recognized at all, the whole blob is
// returned as a single fallback record under the entry's own path and a
// recoverable warning is reported, so an unexpected bundle shape never
// silently loses data.
func Split(entryPath string, blob []byte) ([]*Record, error) {
	var records []*Record
	for _, seg := range Scan(blob) {
		if seg.Module != nil {
			records = append(records, seg.Module)
		}
	}
	if len(records) == 0 {
		fallback := &Record{
			Path: entryPath,
			Kind: KindSource,
			Body: blob,
		}
		return []*Record{fallback}, apkgerr.Recoverable(apkgerr.PhaseSplit, entryPath,
			"no registration call sites recognized, emitting blob verbatim")
	}
	return records, nil
}

// wordBoundary reports whether the match at pos is the bare identifier
// "define" rather than part of a longer name or a property access.
func wordBoundary(blob []byte, pos int) bool {
	if pos > 0 {
		p := blob[pos-1]
		if isWordByte(p) || p == '.' {
			return false
		}
	}
	next := pos + len(defineWord)
	return next >= len(blob) || !isWordByte(blob[next])
}

// parseCallSite attempts to read one full registration call starting at the
// "define" identifier: a string-literal module path, an optional
// array-of-string-literals dependency list, and a factory body (function
// literal or length-prefixed compiled payload).
func parseCallSite(blob []byte, pos int) (rec *Record, end int, ok bool) {
	i := skipSpace(blob, pos+len(defineWord))
	if i >= len(blob) || blob[i] != '(' {
		return nil, 0, false
	}
	i = skipSpace(blob, i+1)

	path, i, ok := parseStringLit(blob, i)
	if !ok || path == "" {
		return nil, 0, false
	}
	i = skipSpace(blob, i)
	if i >= len(blob) || blob[i] != ',' {
		return nil, 0, false
	}
	i = skipSpace(blob, i+1)

	var deps []string
	if i < len(blob) && blob[i] == '[' {
		deps, i, ok = parseDepList(blob, i)
		if !ok {
			return nil, 0, false
		}
		i = skipSpace(blob, i)
		if i >= len(blob) || blob[i] != ',' {
			return nil, 0, false
		}
		i = skipSpace(blob, i+1)
	}

	rec = &Record{
		Path: strings.TrimPrefix(path, "/"),
		Deps: deps,
		Kind: KindSource,
	}

	if i < len(blob) && blob[i] == bytecodeMarker {
		return parseBytecodeSlot(blob, i, rec)
	}

	body, i, truncated, ok := parseFactory(blob, i)
	if !ok {
		return nil, 0, false
	}
	rec.Body = body
	rec.Truncated = truncated
	if truncated {
		return rec, len(blob), true
	}
	return rec, skipCallClose(blob, i), true
}

// parseBytecodeSlot reads a length-prefixed compiled payload. The bytes are
// kept verbatim; recovering source from compiled form is out of scope.
func parseBytecodeSlot(blob []byte, i int, rec *Record) (*Record, int, bool) {
	rec.Kind = KindBytecode
	if i+5 > len(blob) {
		return nil, 0, false
	}
	length := binary.BigEndian.Uint32(blob[i+1 : i+5])
	start := i + 5
	if uint64(start)+uint64(length) > uint64(len(blob)) {
		rec.Body = blob[start:]
		rec.Truncated = true
		return rec, len(blob), true
	}
	rec.Body = blob[start : start+int(length)]
	return rec, skipCallClose(blob, start+int(length)), true
}

// parseFactory locates a function literal's body and extracts it verbatim.
func parseFactory(blob []byte, i int) (body []byte, end int, truncated, ok bool) {
	if !bytes.HasPrefix(blob[i:], []byte("function")) {
		return nil, 0, false, false
	}
	// Walk the head (optional name, parameter list) to the opening brace.
	j := i + len("function")
	for j < len(blob) && blob[j] != '{' {
		c := blob[j]
		if !isWordByte(c) && !isSpaceByte(c) && c != '(' && c != ')' && c != ',' && c != '*' {
			return nil, 0, false, false
		}
		j++
	}
	if j >= len(blob) {
		return nil, 0, false, false
	}

	bodyEnd, terminated := bodySpan(blob, j)
	if !terminated {
		return blob[j+1:], len(blob), true, true
	}
	return blob[j+1 : bodyEnd-1], bodyEnd, false, true
}

// parseDepList reads an array of string literals starting at '['.
func parseDepList(blob []byte, i int) (deps []string, end int, ok bool) {
	seen := map[string]bool{}
	i = skipSpace(blob, i+1)
	for i < len(blob) && blob[i] != ']' {
		dep, next, ok := parseStringLit(blob, i)
		if !ok {
			return nil, 0, false
		}
		if !seen[dep] {
			seen[dep] = true
			deps = append(deps, strings.TrimPrefix(dep, "/"))
		}
		i = skipSpace(blob, next)
		if i < len(blob) && blob[i] == ',' {
			i = skipSpace(blob, i+1)
		}
	}
	if i >= len(blob) {
		return nil, 0, false
	}
	return deps, i + 1, true
}

// parseStringLit reads a single- or double-quoted string literal and returns
// its unescaped value.
func parseStringLit(blob []byte, i int) (val string, end int, ok bool) {
	if i >= len(blob) || (blob[i] != '"' && blob[i] != '\'') {
		return "", 0, false
	}
	quote := blob[i]
	var b strings.Builder
	i++
	for i < len(blob) {
		c := blob[i]
		switch c {
		case '\\':
			if i+1 >= len(blob) {
				return "", 0, false
			}
			b.WriteByte(unescapeByte(blob[i+1]))
			i += 2
		case quote:
			return b.String(), i + 1, true
		case '\n':
			return "", 0, false
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, false
}

func unescapeByte(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

// skipCallClose consumes the call's closing parenthesis and statement
// terminator when present, so residue spans stay clean.
func skipCallClose(blob []byte, i int) int {
	i = skipSpace(blob, i)
	if i < len(blob) && blob[i] == ')' {
		i = skipSpace(blob, i+1)
	}
	if i < len(blob) && blob[i] == ';' {
		i++
	}
	return i
}

func skipSpace(blob []byte, i int) int {
	for i < len(blob) && isSpaceByte(blob[i]) {
		i++
	}
	return i
}

package container

import (
	"github.com/packlens/apkg/container/internal/binary"
)

// Encode builds a container from named file contents, the exact inverse of
// Parse. It exists for round-trip tests and fixture synthesis; the extraction
// pipeline never re-packs.
//
// Entries are laid out in the order given, each payload appended to the data
// section at the next free offset.
func Encode(files []EncodedFile) []byte {
	index := binary.NewWriter()
	data := binary.NewWriter()

	for _, f := range files {
		index.WriteName(f.Path)
		index.WriteU32(uint32(data.Len()))
		index.WriteU32(uint32(len(f.Data)))
		data.WriteBytes(f.Data)
	}

	out := binary.NewWriter()
	out.Byte(Magic)
	out.WriteU32(uint32(index.Len()))
	out.WriteU32(uint32(data.Len()))
	out.WriteU32(uint32(len(files)))
	out.WriteBytes(index.Bytes())
	out.Byte(Trailer)
	out.WriteBytes(data.Bytes())
	return out.Bytes()
}

// EncodedFile is one named payload for Encode.
type EncodedFile struct {
	Path string
	Data []byte
}

package container

import (
	"github.com/packlens/apkg/container/internal/binary"
	apkgerr "github.com/packlens/apkg/errors"
)

// Parse parses a plaintext container into a manifest of named byte ranges.
//
// Layout: fixed header (magic byte, big-endian u32 index-table length,
// big-endian u32 data-section length, big-endian u32 entry count), entryCount
// index records (u32 name length, name, u32 offset, u32 length), one trailer
// byte, then the concatenated data section. Index offsets are relative to the
// data-section base, not to the start of the file.
//
// Overlapping data ranges between entries are tolerated: packers deduplicate
// identical payloads by pointing several names at one range.
func Parse(data []byte) (*Manifest, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadByte()
	if err != nil {
		return nil, apkgerr.Wrap(apkgerr.PhaseParse, apkgerr.KindFormat, err, "read header")
	}
	if magic != Magic {
		return nil, apkgerr.Format("bad magic marker 0x%02x, want 0x%02x", magic, Magic)
	}

	indexLen, err := r.ReadU32()
	if err != nil {
		return nil, apkgerr.Wrap(apkgerr.PhaseParse, apkgerr.KindFormat, err, "read index length")
	}
	dataLen, err := r.ReadU32()
	if err != nil {
		return nil, apkgerr.Wrap(apkgerr.PhaseParse, apkgerr.KindFormat, err, "read data length")
	}
	entryCount, err := r.ReadU32()
	if err != nil {
		return nil, apkgerr.Wrap(apkgerr.PhaseParse, apkgerr.KindFormat, err, "read entry count")
	}
	if entryCount > MaxEntryCount {
		return nil, apkgerr.Format("entry count %d exceeds limit %d", entryCount, MaxEntryCount)
	}

	dataBase := uint64(HeaderSize) + uint64(indexLen) + 1
	if dataBase+uint64(dataLen) > uint64(len(data)) {
		return nil, apkgerr.Format("declared sections [index %d, data %d] exceed file size %d",
			indexLen, dataLen, len(data))
	}

	entries := make([]FileEntry, 0, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		name, err := r.ReadName()
		if err != nil {
			return nil, apkgerr.Wrap(apkgerr.PhaseParse, apkgerr.KindFormat, err, "read entry name")
		}
		offset, err := r.ReadU32()
		if err != nil {
			return nil, apkgerr.New(apkgerr.PhaseParse, apkgerr.KindFormat).
				Entry(name).Cause(err).Detail("read entry offset").Build()
		}
		length, err := r.ReadU32()
		if err != nil {
			return nil, apkgerr.New(apkgerr.PhaseParse, apkgerr.KindFormat).
				Entry(name).Cause(err).Detail("read entry length").Build()
		}
		if uint64(offset)+uint64(length) > uint64(dataLen) {
			return nil, apkgerr.OutOfBounds(apkgerr.PhaseParse, name, offset, length, dataLen)
		}

		rel := normalizePath(name)
		entries = append(entries, FileEntry{
			Path:   rel,
			Offset: offset,
			Length: length,
			Kind:   KindOf(rel),
		})
	}

	if r.Position() != HeaderSize+int(indexLen) {
		return nil, apkgerr.Format("index table is %d bytes, header declares %d",
			r.Position()-HeaderSize, indexLen)
	}
	trailer, err := r.ReadByte()
	if err != nil {
		return nil, apkgerr.Wrap(apkgerr.PhaseParse, apkgerr.KindFormat, err, "read trailer marker")
	}
	if trailer != Trailer {
		return nil, apkgerr.Format("bad trailer marker 0x%02x, want 0x%02x", trailer, Trailer)
	}

	return &Manifest{
		Entries: entries,
		data:    data[dataBase : dataBase+uint64(dataLen)],
	}, nil
}

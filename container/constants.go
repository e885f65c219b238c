package container

// Container layout constants. The layout is externally fixed: archives are
// produced by a packer this tool does not control, so the values here must
// match the on-disk format byte for byte.
const (
	// Magic is the leading marker byte of a plaintext container.
	Magic byte = 0xBE

	// Trailer is the marker byte closing the index table.
	Trailer byte = 0xED

	// HeaderSize is the fixed header: magic byte, index length, data length,
	// entry count.
	HeaderSize = 1 + 4 + 4 + 4

	// Ext is the file extension of distributed container files.
	Ext = ".apkg"

	// MaxEntryCount caps the declared entry count. A corrupt count field must
	// not drive an unbounded index allocation.
	MaxEntryCount = 1 << 16
)

// Package container parses the binary container format that distributed
// application packages ship in.
//
// A container is a flat archive: a fixed header, an index table of named byte
// ranges, a trailer marker, and one concatenated data section. All multi-byte
// integers are big-endian and offsets are relative to the data-section base;
// the format is externally fixed, so parsing reproduces it exactly rather
// than tolerating variations.
//
// Parsing:
//
//	data, _ := os.ReadFile("__APP__.apkg")
//	m, err := container.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range m.Entries {
//	    fmt.Println(e.Path, e.Kind, len(m.Bytes(e)))
//	}
//
// Encrypted containers must be decrypted first (see the crypt package);
// Parse rejects them with a format error because the leading magic marker
// does not match.
package container

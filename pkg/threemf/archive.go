package threemf

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
)

const (
	localHeaderSig   = 0x04034b50
	centralHeaderSig = 0x02014b50
	eocdSig          = 0x06054b50

	localHeaderLen   = 30
	centralHeaderLen = 46
	eocdLen          = 22
	maxCommentLen    = 65535

	methodStore   = 0
	methodDeflate = 8
)

// Entry describes one file in the archive's central directory
type Entry struct {
	Name              string
	Method            uint16
	CompressedSize    uint32
	UncompressedSize  uint32
	LocalHeaderOffset uint32
}

// Archive is a read-only index over an in-memory ZIP archive.
// Only stored and deflated entries can be extracted; ZIP64 is not supported.
type Archive struct {
	data    []byte
	entries []Entry
	index   map[string]int
}

// OpenArchive validates the container structure and indexes its central directory
func OpenArchive(data []byte) (*Archive, error) {
	if len(data) < 4 || binary.LittleEndian.Uint32(data) != localHeaderSig {
		return nil, invalidContainer("missing local file header signature")
	}

	eocd := findEOCD(data)
	if eocd < 0 {
		return nil, invalidContainer("end of central directory not found")
	}

	count := int(binary.LittleEndian.Uint16(data[eocd+10:]))
	cdSize := int(binary.LittleEndian.Uint32(data[eocd+12:]))
	cdOffset := int(binary.LittleEndian.Uint32(data[eocd+16:]))
	if cdOffset+cdSize > eocd {
		return nil, invalidContainer("central directory at %d+%d overlaps end record at %d", cdOffset, cdSize, eocd)
	}

	a := &Archive{
		data:    data,
		entries: make([]Entry, 0, count),
		index:   make(map[string]int, count),
	}

	p := cdOffset
	end := cdOffset + cdSize
	for i := 0; i < count; i++ {
		if p+centralHeaderLen > end {
			return nil, invalidContainer("central directory entry %d truncated", i)
		}
		h := data[p:]
		if binary.LittleEndian.Uint32(h) != centralHeaderSig {
			return nil, invalidContainer("bad central directory signature at offset %d", p)
		}

		nameLen := int(binary.LittleEndian.Uint16(h[28:]))
		extraLen := int(binary.LittleEndian.Uint16(h[30:]))
		commentLen := int(binary.LittleEndian.Uint16(h[32:]))
		next := p + centralHeaderLen + nameLen + extraLen + commentLen
		if next > end {
			return nil, invalidContainer("central directory entry %d exceeds directory", i)
		}

		e := Entry{
			Name:              string(h[centralHeaderLen : centralHeaderLen+nameLen]),
			Method:            binary.LittleEndian.Uint16(h[10:]),
			CompressedSize:    binary.LittleEndian.Uint32(h[20:]),
			UncompressedSize:  binary.LittleEndian.Uint32(h[24:]),
			LocalHeaderOffset: binary.LittleEndian.Uint32(h[42:]),
		}
		a.index[e.Name] = len(a.entries)
		a.entries = append(a.entries, e)
		p = next
	}

	return a, nil
}

// findEOCD scans backward for the end of central directory record. The record
// may be followed by a comment of up to 64 KiB.
func findEOCD(data []byte) int {
	if len(data) < eocdLen {
		return -1
	}
	lowest := len(data) - eocdLen - maxCommentLen
	if lowest < 0 {
		lowest = 0
	}
	for i := len(data) - eocdLen; i >= lowest; i-- {
		if binary.LittleEndian.Uint32(data[i:]) == eocdSig {
			return i
		}
	}
	return -1
}

// Entries returns a copy of the central directory in archive order
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Has reports whether an entry with the given name exists.
// A leading slash, as used by 3MF part names, is ignored.
func (a *Archive) Has(name string) bool {
	_, ok := a.index[cleanPath(name)]
	return ok
}

// Find returns the first entry whose name ends with suffix (case-insensitive)
func (a *Archive) Find(suffix string) (string, bool) {
	suffix = strings.ToLower(suffix)
	for _, e := range a.entries {
		if strings.HasSuffix(strings.ToLower(e.Name), suffix) {
			return e.Name, true
		}
	}
	return "", false
}

// Extract returns the uncompressed content of the named entry. Stored
// entries alias the archive buffer and must not be modified.
func (a *Archive) Extract(name string) ([]byte, error) {
	i, ok := a.index[cleanPath(name)]
	if !ok {
		return nil, invalidContainer("entry %q not found", name)
	}
	e := a.entries[i]

	off := int(e.LocalHeaderOffset)
	if off+localHeaderLen > len(a.data) {
		return nil, invalidContainer("local header of %q out of bounds", e.Name)
	}
	h := a.data[off:]
	if binary.LittleEndian.Uint32(h) != localHeaderSig {
		return nil, invalidContainer("bad local header signature for %q", e.Name)
	}
	start := off + localHeaderLen + int(binary.LittleEndian.Uint16(h[26:])) + int(binary.LittleEndian.Uint16(h[28:]))
	end := start + int(e.CompressedSize)
	if end > len(a.data) {
		return nil, invalidContainer("content of %q exceeds archive", e.Name)
	}
	raw := a.data[start:end]

	switch e.Method {
	case methodStore:
		if e.CompressedSize != e.UncompressedSize {
			return nil, invalidContainer("stored entry %q has mismatched sizes", e.Name)
		}
		return raw, nil

	case methodDeflate:
		r := flate.NewReader(bytes.NewReader(raw))
		defer r.Close()

		// the buffer grows with the inflated data, the declared size only bounds it
		declared := int64(e.UncompressedSize)
		out, err := io.ReadAll(io.LimitReader(r, declared+1))
		if err != nil {
			return nil, invalidContainer("inflating %q: %v", e.Name, err)
		}
		if int64(len(out)) > declared {
			return nil, invalidContainer("entry %q inflates beyond declared size %d", e.Name, e.UncompressedSize)
		}
		if int64(len(out)) < declared {
			return nil, invalidContainer("entry %q inflates to %d bytes, declared %d", e.Name, len(out), e.UncompressedSize)
		}
		return out, nil

	default:
		return nil, invalidContainer("entry %q uses unsupported compression method %d", e.Name, e.Method)
	}
}

func cleanPath(name string) string {
	return strings.TrimPrefix(name, "/")
}

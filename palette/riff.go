package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadFrom reads every palette chunk of a RIFF PAL stream, in file order.
func ReadFrom(r io.Reader) ([]Table, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	return readTables(rd, string(formType[:]))
}

func readTables(r *riff.Reader, ident string) ([]Table, error) {
	var res []Table

	for {
		id, size, data, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, len(res), err)
		}

		if id == riff.LIST {
			listType, list, lerr := riff.NewListReader(size, data)
			if lerr != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, len(res), lerr)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, len(res), string(listType[:]))
			}

			listRes, lerr := readTables(list, fmt.Sprintf("%s%d.%s", ident, len(res), listType[:]))
			res = append(res, listRes...)
			if lerr != nil {
				return res, lerr
			}
			continue
		} else if id != dataType {
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, len(res), id)
		}

		t, err := readTable(data, fmt.Sprintf("%s%d", ident, len(res)))
		if err != nil {
			return res, err
		}

		res = append(res, t)
	}

	return res, nil
}

func readTable(r io.Reader, ident string) (Table, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read header of chunk %s: %w", ident, err)
	}

	if ver := binary.LittleEndian.Uint16(hdr[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, ver)
	}

	count := binary.LittleEndian.Uint16(hdr[2:])
	res := make(Table, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return res[:i], fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, count, ident, err)
		}

		// peFlags is ignored
		res[i] = Color{R: entry[0], G: entry[1], B: entry[2]}
	}

	return res, nil
}

// WriteTo writes tables as a RIFF PAL stream with one data chunk per table.
func WriteTo(w io.Writer, tables []Table) (int64, error) {
	n := 4
	for _, t := range tables {
		n += 4 + 4 + 4 + len(t)*4 // chunk id + chunk size + palVersion + palNumEntries + 4 bytes/color
	}

	hdr := append(riffType[:], binary.LittleEndian.AppendUint32(nil, uint32(n))...)
	hdr = append(hdr, palType[:]...)

	count, err := writeBytes(w, hdr)
	if err != nil {
		return count, fmt.Errorf("could not write RIFF header: %w", err)
	}

	for i, t := range tables {
		cn, err := writeTable(w, t)
		count += cn
		if err != nil {
			return count, fmt.Errorf("could not write chunk %d: %w", i, err)
		}
	}

	return count, nil
}

func writeTable(w io.Writer, t Table) (int64, error) {
	buf := make([]byte, 0, 12+len(t)*4)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+len(t)*4))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(t)))
	for _, c := range t {
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	return writeBytes(w, buf)
}

func writeBytes(w io.Writer, b []byte) (int64, error) {
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	} else if n != len(b) {
		return int64(n), fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return int64(n), nil
}

package cellstore

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/bsm/hexkit/hexjson"
	"github.com/golang/snappy"
	"github.com/paulmach/orb/geojson"
	h3 "github.com/uber/h3-go/v4"
)

// Reader represents a cellstore reader
type Reader struct {
	r io.ReaderAt

	index       []blockInfo
	indexOffset int64
}

// NewReader opens a reader.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	if size < 16 {
		return nil, errBadMagic
	}

	tmp := make([]byte, 16+binary.MaxVarintLen64)

	// read footer
	footerOffset := size - 16
	if _, err := r.ReadAt(tmp[:16], footerOffset); err != nil {
		return nil, err
	}

	// parse footer
	if !bytes.Equal(tmp[8:16], magic) {
		return nil, errBadMagic
	}
	indexOffset := int64(binary.LittleEndian.Uint64(tmp[:8]))

	// read index
	var index []blockInfo
	var info blockInfo

	for pos := indexOffset; pos < footerOffset; {
		tmp = tmp[:2*binary.MaxVarintLen64]
		if x := footerOffset - pos; x < int64(len(tmp)) {
			tmp = tmp[:int(x)]
		}

		if _, err := r.ReadAt(tmp, pos); err != nil && err != io.EOF {
			return nil, err
		}

		u1, n1 := binary.Uvarint(tmp[0:])
		if n1 < 1 {
			return nil, fmt.Errorf("cellstore: bad block index at %d", pos)
		}
		u2, n2 := binary.Uvarint(tmp[n1:])
		if n2 < 1 {
			return nil, fmt.Errorf("cellstore: bad block index at %d", pos)
		}
		pos += int64(n1 + n2)

		info.MaxCell += h3.Cell(u1)
		info.Offset += int64(u2)
		index = append(index, info)
	}

	return &Reader{
		r: r,

		index:       index,
		indexOffset: indexOffset,
	}, nil
}

// NumBlocks returns the number of stored blocks.
func (r *Reader) NumBlocks() int {
	return len(r.index)
}

// FindBlock returns an iterator over the block which may contain the cell.
// The iterator is exhausted immediately if no such block exists.
func (r *Reader) FindBlock(cell h3.Cell) (*Iterator, error) {
	if !cell.IsValid() {
		return nil, errInvalidCell
	}

	blockNum := sort.Search(len(r.index), func(i int) bool {
		return r.index[i].MaxCell >= cell
	})
	if blockNum >= len(r.index) {
		return &Iterator{parent: r, blockNum: blockNum}, nil
	}
	return r.readBlock(blockNum)
}

// Get returns the properties stored for the cell. It returns nil properties
// if the cell is absent.
func (r *Reader) Get(cell h3.Cell) (geojson.Properties, error) {
	it, err := r.FindBlock(cell)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	if !it.Seek(cell) || it.Cell() != cell {
		return nil, it.Err()
	}
	return it.Properties()
}

// PropertyFunc returns a lookup function which can be passed to
// hexjson.CellsToFeatureCollection. Absent cells have empty properties.
func (r *Reader) PropertyFunc() hexjson.PropertyFunc {
	return func(cell h3.Cell) (geojson.Properties, error) {
		props, err := r.Get(cell)
		if err != nil {
			return nil, err
		}
		if props == nil {
			props = geojson.Properties{}
		}
		return props, nil
	}
}

func (r *Reader) readBlock(blockNum int) (*Iterator, error) {
	min := r.index[blockNum].Offset
	max := r.indexOffset
	if next := blockNum + 1; next < len(r.index) {
		max = r.index[next].Offset
	}
	if max <= min {
		return nil, fmt.Errorf("cellstore: bad block #%d", blockNum)
	}

	raw := fetchBuffer(int(max - min))
	if _, err := r.r.ReadAt(raw, min); err != nil {
		releaseBuffer(raw)
		return nil, err
	}

	var buf []byte
	switch maxPos := len(raw) - 1; raw[maxPos] {
	case blockNoCompression:
		buf = raw[:maxPos]
	case blockSnappyCompression:
		defer releaseBuffer(raw)

		sz, err := snappy.DecodedLen(raw[:maxPos])
		if err != nil {
			return nil, err
		}

		pln := fetchBuffer(sz)
		res, err := snappy.Decode(pln, raw[:maxPos])
		if err != nil {
			releaseBuffer(pln)
			return nil, err
		}
		buf = res
	default:
		releaseBuffer(raw)
		return nil, errInvalidCompression
	}

	// parse section index
	if len(buf) < 4 {
		releaseBuffer(buf)
		return nil, fmt.Errorf("cellstore: bad block #%d", blockNum)
	}
	eoi := len(buf) - 4
	numSections := int(binary.LittleEndian.Uint32(buf[eoi:]))
	soi := eoi - 4*numSections
	if soi < 0 {
		releaseBuffer(buf)
		return nil, fmt.Errorf("cellstore: bad block #%d", blockNum)
	}

	index := make([]int, 0, numSections)
	for pos := soi; pos < eoi; pos += 4 {
		index = append(index, int(binary.LittleEndian.Uint32(buf[pos:])))
	}

	return &Iterator{
		parent:     r,
		blockNum:   blockNum,
		sectionNum: -1,
		index:      index,
		buf:        buf[:soi],
	}, nil
}

func decodeProperties(data []byte) (geojson.Properties, error) {
	var props geojson.Properties
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("cellstore: decode properties: %w", err)
	}
	if props == nil {
		props = geojson.Properties{}
	}
	return props, nil
}

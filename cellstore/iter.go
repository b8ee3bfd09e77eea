package cellstore

import (
	"encoding/binary"
	"sort"

	"github.com/paulmach/orb/geojson"
	h3 "github.com/uber/h3-go/v4"
)

// Iterator is a block iterator returned by the Reader
type Iterator struct {
	parent     *Reader
	blockNum   int   // block number
	sectionNum int   // section number
	index      []int // section index

	buf    []byte // block buffer
	bufOff int    // number of buffer bytes read

	cell  h3.Cell
	value []byte
	err   error
}

// Next advances the cursor to the next entry
func (i *Iterator) Next() bool {
	if i.err != nil {
		return false
	}

	// increment section and read cell
	if i.bufOff+1 > len(i.buf) {
		return false
	}
	if nsn := i.sectionNum + 1; nsn < len(i.index) && i.index[nsn] == i.bufOff {
		i.cell = 0
		i.sectionNum++
	}
	key, n := binary.Uvarint(i.buf[i.bufOff:])
	i.bufOff += n
	i.cell += h3.Cell(key)

	// read value length
	if i.bufOff+1 > len(i.buf) {
		return false
	}
	vln, n := binary.Uvarint(i.buf[i.bufOff:])
	i.bufOff += n

	// read value
	if i.bufOff+int(vln) > len(i.buf) {
		return false
	}
	i.value = i.buf[i.bufOff : i.bufOff+int(vln)]
	i.bufOff += int(vln)

	return true
}

// SeekSection positions the cursor at the start of the last section whose
// first cell is <= cell.
func (i *Iterator) SeekSection(cell h3.Cell) bool {
	if len(i.index) == 0 {
		return false
	}

	pos := sort.Search(len(i.index), func(n int) bool {
		first, _ := binary.Uvarint(i.buf[i.index[n]:])
		return h3.Cell(first) > cell
	}) - 1
	if pos < 0 {
		pos = 0
	}

	i.cell = 0
	i.bufOff = i.index[pos]
	i.sectionNum = pos
	return true
}

// Seek advances the cursor to the first entry with a cell >= the given one.
func (i *Iterator) Seek(cell h3.Cell) bool {
	if !i.SeekSection(cell) {
		return false
	}

	for i.Next() {
		if i.cell >= cell {
			return true
		}
	}
	return false
}

// NextBlock jumps to the next block, returns true if successful.
func (i *Iterator) NextBlock() bool {
	return i.advanceBlock(i.blockNum + 1)
}

// PrevBlock jumps to the previous block, returns true if successful.
func (i *Iterator) PrevBlock() bool {
	return i.advanceBlock(i.blockNum - 1)
}

func (i *Iterator) advanceBlock(blockNum int) bool {
	if i.err != nil {
		return false
	}

	if blockNum < 0 || blockNum >= len(i.parent.index) {
		return false
	}

	j, err := i.parent.readBlock(blockNum)
	if err != nil {
		i.err = err
		return false
	}

	i.Release()
	*i = *j
	return true
}

// Cell returns the cell of the current entry.
func (i *Iterator) Cell() h3.Cell {
	return i.cell
}

// Value returns the raw value of the current entry. Please note that values
// are temporary buffers and must be copied if used beyond the next Next() or
// Release() function call.
func (i *Iterator) Value() []byte {
	return i.value
}

// Properties decodes the value of the current entry.
func (i *Iterator) Properties() (geojson.Properties, error) {
	return decodeProperties(i.value)
}

// Err returns iterator errors
func (i *Iterator) Err() error {
	return i.err
}

// Release releases the iterator. It must not be used once this method is called.
func (i *Iterator) Release() {
	releaseBuffer(i.buf)
	i.buf = nil
}

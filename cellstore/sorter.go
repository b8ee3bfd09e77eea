package cellstore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bsm/extsort"
	"github.com/paulmach/orb/geojson"
	h3 "github.com/uber/h3-go/v4"
)

// SorterOptions define Sorter specific options.
type SorterOptions struct {
	// An optional temporary directory. Default: os.TempDir()
	TempDir string
}

func (o *SorterOptions) norm() *SorterOptions {
	var oo SorterOptions
	if o != nil {
		oo = *o
	}
	return &oo
}

// Sorter allows to pre-sort entries to avoid out-of-order appends to Writer instances.
type Sorter struct {
	x   *extsort.Sorter
	t   []byte
	seq uint64
}

// NewSorter creates a sorter.
func NewSorter(o *SorterOptions) *Sorter {
	o = o.norm()
	return &Sorter{
		x: extsort.New(&extsort.Options{WorkDir: o.TempDir}),
	}
}

// Append appends the properties of a cell to the sorter. Cells may be
// appended in any order and more than once.
func (s *Sorter) Append(cell h3.Cell, props geojson.Properties) error {
	if !cell.IsValid() {
		return errInvalidCell
	}
	if props == nil {
		props = geojson.Properties{}
	}

	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("cellstore: encode properties of %s: %w", cell, err)
	}

	if sz := 16 + len(data); sz <= cap(s.t) {
		s.t = s.t[:sz]
	} else {
		s.t = make([]byte, sz)
	}

	// cell, then insertion sequence to keep duplicates in append order
	binary.BigEndian.PutUint64(s.t[0:], uint64(cell))
	binary.BigEndian.PutUint64(s.t[8:], s.seq)
	copy(s.t[16:], data)
	s.seq++

	return s.x.Append(s.t)
}

// Sort sorts appended values and returns an iterator.
func (s *Sorter) Sort() (*SorterIterator, error) {
	iter, err := s.x.Sort()
	if err != nil {
		return nil, err
	}
	return &SorterIterator{it: iter}, nil
}

// WriteTo sorts all appended entries and writes them to w. Of duplicate
// cells, only the last appended properties are retained. It does not close
// w.
func (s *Sorter) WriteTo(w *Writer) error {
	iter, err := s.Sort()
	if err != nil {
		return err
	}
	defer iter.Close()

	for {
		cell, values, err := iter.NextEntry()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		if err := w.appendRaw(cell, values[len(values)-1]); err != nil {
			return err
		}
	}
}

// Close closes the sorter and releases all resources.
func (s *Sorter) Close() error {
	return s.x.Close()
}

// SorterIterator iterates over sorted results
type SorterIterator struct {
	it *extsort.Iterator

	current  [][]byte
	nextCell h3.Cell
	next     [][]byte
}

// NextEntry reads the next cell and all raw values appended for it, in
// append order. This function will return io.EOF if no more entries can be
// read.
func (i *SorterIterator) NextEntry() (h3.Cell, [][]byte, error) {
	currentCell := i.nextCell
	for i.it.Next() {
		rawdata := i.it.Data()
		i.nextCell = h3.Cell(binary.BigEndian.Uint64(rawdata))

		if currentCell != 0 && currentCell != i.nextCell {
			i.next = i.push(i.next, rawdata[16:])
			break
		}
		currentCell = i.nextCell
		i.current = i.push(i.current, rawdata[16:])
	}

	if err := i.it.Err(); err != nil {
		return 0, nil, err
	}

	if size := len(i.current); size != 0 {
		i.current, i.next = i.next, i.current[:0]
		return currentCell, i.next[:size], nil
	}

	return 0, nil, io.EOF
}

// Close closes iterator and releases resources.
func (i *SorterIterator) Close() error {
	return i.it.Close()
}

func (i *SorterIterator) push(chunks [][]byte, chunk []byte) [][]byte {
	if pos := len(chunks); pos < cap(chunks) {
		chunks = chunks[:pos+1]
		chunks[pos] = append(chunks[pos][:0], chunk...)
	} else {
		cloned := make([]byte, len(chunk))
		copy(cloned, chunk)
		chunks = append(chunks, cloned)
	}
	return chunks
}

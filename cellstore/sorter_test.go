package cellstore

import (
	"bytes"
	"io"

	"github.com/paulmach/orb/geojson"
	h3 "github.com/uber/h3-go/v4"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Sorter", func() {
	var subject *Sorter
	var cells []h3.Cell

	BeforeEach(func() {
		subject = NewSorter(nil)
		cells = seedCells(1)
	})

	AfterEach(func() {
		_ = subject.Close()
	})

	It("should close", func() {
		Expect(subject.Close()).To(Succeed())
	})

	It("should reject invalid cells", func() {
		Expect(subject.Append(h3.Cell(1), nil)).To(MatchError(errInvalidCell))
	})

	It("should append/sort/iterate", func() {
		Expect(subject.Append(cells[2], geojson.Properties{"n": "data1"})).To(Succeed())
		Expect(subject.Append(cells[3], geojson.Properties{"n": "data2"})).To(Succeed())
		Expect(subject.Append(cells[2], geojson.Properties{"n": "data3"})).To(Succeed())
		Expect(subject.Append(cells[1], geojson.Properties{"n": "data4"})).To(Succeed())
		Expect(subject.Append(cells[4], geojson.Properties{"n": "data5"})).To(Succeed())
		Expect(subject.Append(cells[2], geojson.Properties{"n": "data6"})).To(Succeed())

		iter, err := subject.Sort()
		Expect(err).NotTo(HaveOccurred())
		defer iter.Close()

		cell, data, err := iter.NextEntry()
		Expect(err).NotTo(HaveOccurred())
		Expect(cell).To(Equal(cells[1]))
		Expect(data).To(Equal([][]byte{[]byte(`{"n":"data4"}`)}))

		cell, data, err = iter.NextEntry()
		Expect(err).NotTo(HaveOccurred())
		Expect(cell).To(Equal(cells[2]))
		Expect(data).To(Equal([][]byte{[]byte(`{"n":"data1"}`), []byte(`{"n":"data3"}`), []byte(`{"n":"data6"}`)}))

		cell, data, err = iter.NextEntry()
		Expect(err).NotTo(HaveOccurred())
		Expect(cell).To(Equal(cells[3]))
		Expect(data).To(Equal([][]byte{[]byte(`{"n":"data2"}`)}))

		cell, data, err = iter.NextEntry()
		Expect(err).NotTo(HaveOccurred())
		Expect(cell).To(Equal(cells[4]))
		Expect(data).To(Equal([][]byte{[]byte(`{"n":"data5"}`)}))

		_, _, err = iter.NextEntry()
		Expect(err).To(Equal(io.EOF))
	})

	It("should write to stores", func() {
		for i := len(cells) - 1; i >= 0; i-- {
			Expect(subject.Append(cells[i], geojson.Properties{"v": "first"})).To(Succeed())
		}
		Expect(subject.Append(cells[3], geojson.Properties{"v": "last"})).To(Succeed())

		buf := new(bytes.Buffer)
		w := NewWriter(buf, nil)
		Expect(subject.WriteTo(w)).To(Succeed())
		Expect(w.Close()).To(Succeed())

		r, err := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		Expect(err).NotTo(HaveOccurred())
		for i, cell := range cells {
			exp := geojson.Properties{"v": "first"}
			if i == 3 {
				exp = geojson.Properties{"v": "last"}
			}
			Expect(r.Get(cell)).To(Equal(exp), "for %s", cell)
		}
	})
})

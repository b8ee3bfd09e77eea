package cellstore

import (
	h3 "github.com/uber/h3-go/v4"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reader.Nearby", func() {
	var subject *Reader
	var ring1, ring2 []h3.Cell

	BeforeEach(func() {
		disk1, err := h3.GridDisk(seedOrigin, 1)
		Expect(err).NotTo(HaveOccurred())

		seen := make(map[h3.Cell]bool)
		for _, c := range disk1 {
			seen[c] = true
			if c != seedOrigin {
				ring1 = append(ring1, c)
			}
		}
		for _, c := range seedCells(2) {
			if !seen[c] {
				ring2 = append(ring2, c)
			}
		}
		sortCells(ring1)

		// store the origin's neighbours and the second ring, not the origin
		stored := append(append([]h3.Cell{}, ring1...), ring2...)
		sortCells(stored)
		subject = seedReader(stored, &Options{BlockSize: KiB, SectionSize: 2})
	})

	AfterEach(func() {
		ring1, ring2 = nil, nil
	})

	It("should find nearby entries", func() {
		entries, err := subject.Nearby(seedOrigin, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(6))

		for i, e := range entries {
			Expect(e.Cell).To(Equal(ring1[i]))
			Expect(e.Distance).To(Equal(1))
			Expect(e.Properties).To(Equal(seedProps(e.Cell)))
		}
	})

	It("should order by distance", func() {
		entries, err := subject.Nearby(seedOrigin, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(18))

		for i, e := range entries {
			if i < 6 {
				Expect(e.Distance).To(Equal(1))
			} else {
				Expect(e.Distance).To(Equal(2))
				Expect(ring2).To(ContainElement(e.Cell))
			}
		}
	})

	It("should group entries by ring", func() {
		entries, err := subject.Nearby(seedOrigin, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(18))

		sorted2 := append([]h3.Cell{}, ring2...)
		sortCells(sorted2)

		var got1, got2 []h3.Cell
		for _, e := range entries {
			switch e.Distance {
			case 1:
				got1 = append(got1, e.Cell)
			case 2:
				got2 = append(got2, e.Cell)
			}
		}
		Expect(got1).To(Equal(ring1))
		Expect(got2).To(Equal(sorted2))
	})

	It("should include the origin", func() {
		entries, err := subject.Nearby(ring1[0], 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Cell).To(Equal(ring1[0]))
		Expect(entries[0].Distance).To(Equal(0))

		entries, err = subject.Nearby(seedOrigin, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("should validate", func() {
		_, err := subject.Nearby(h3.Cell(1), 1)
		Expect(err).To(MatchError(errInvalidCell))

		_, err = subject.Nearby(seedOrigin, -1)
		Expect(err).To(MatchError("cellstore: invalid grid distance -1"))
	})
})

package osmx

import (
	"strings"

	"github.com/bsm/hexkit/hexjson"
	osm "github.com/glaslos/go-osm"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Map", func() {
	var subject *Map

	It("should require at least one relation to wrap", func() {
		_, err := WrapMap(new(osm.Map))
		Expect(err).To(MatchError(`osmx: map contains no relations`))
	})

	It("should require at least one relation with ways", func() {
		_, err := WrapMap(&osm.Map{
			Relations: []osm.Relation{
				{Members: []osm.Member{{Type: "notway"}}},
				{Members: []osm.Member{{Type: "alsonotway"}}},
			},
		})
		Expect(err).To(MatchError(`osmx: map contains no valid relations`))
	})

	It("should pick the first relation with ways", func() {
		var err error
		subject, err = WrapMap(&osm.Map{
			Relations: []osm.Relation{
				{Members: []osm.Member{{Type: "notway"}}},
				{Members: []osm.Member{{Type: "way", Ref: 1}}},
				{Members: []osm.Member{{Type: "way", Ref: 2}}},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(subject.Rel()).To(Equal(&osm.Relation{
			Members: []osm.Member{{Type: "way", Ref: 1}},
		}))
	})

	It("should return tags", func() {
		subject = &Map{
			rel: osm.Relation{
				Tags: []osm.Tag{
					{Key: "ISO3166-1:alpha2", Value: "AB"},
					{Key: "ISO3166-1:alpha3", Value: "ABC"},
				},
			},
		}
		Expect(subject.Tag("ISO3166-1:alpha2")).To(Equal("AB"))
		Expect(subject.Tag("ISO3166-1:alpha3")).To(Equal("ABC"))
		Expect(subject.Tag("notfound")).To(Equal(""))
	})

	Describe("decoded", func() {
		BeforeEach(func() {
			var err error
			subject, err = Decode(strings.NewReader(coloradoXML))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should decode", func() {
			Expect(subject.Nodes).To(HaveLen(11))
			Expect(subject.Ways).To(HaveLen(4))
			Expect(subject.Rel().ID).To(Equal(int64(42)))
			Expect(subject.Tag("name")).To(Equal("Colorado"))
		})

		It("should find nodes and ways", func() {
			nd, err := subject.FindNode(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(nd.Lat).To(Equal(37.0))
			Expect(nd.Lng).To(Equal(-102.0))

			_, err = subject.FindNode(99)
			Expect(err).To(MatchError(`osmx: node #99 not found`))

			way, err := subject.FindWay(103)
			Expect(err).NotTo(HaveOccurred())
			Expect(way.Nds).To(HaveLen(5))

			_, err = subject.FindWay(99)
			Expect(err).To(MatchError(`osmx: way #99 not found`))
		})

		It("should build features", func() {
			f, err := subject.Feature()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.ID).To(Equal(int64(42)))
			Expect(f.Properties).To(Equal(geojson.Properties{
				"name":        "Colorado",
				"ISO3166-2":   "US-CO",
				"boundary":    "administrative",
				"admin_level": "4",
			}))
			Expect(f.Geometry).To(Equal(orb.MultiPolygon{
				{
					{{-109, 41}, {-109, 37}, {-102, 37}, {-102, 41}, {-109, 41}},
					{{-108, 40}, {-107, 40}, {-107, 39}, {-108, 39}, {-108, 40}},
				},
				{
					{{-100, 45}, {-99, 44}, {-99, 45}, {-100, 45}},
				},
			}))
		})

		It("should feed the cell conversion", func() {
			f, err := subject.Feature()
			Expect(err).NotTo(HaveOccurred())

			cells, err := hexjson.FeatureToCells(f, 2, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cells).NotTo(BeEmpty())
		})
	})

	It("should build polygons", func() {
		var err error
		subject, err = Decode(strings.NewReader(strings.Replace(coloradoXML, `<member type="way" ref="104" role="outer"/>`, ``, 1)))
		Expect(err).NotTo(HaveOccurred())

		f, err := subject.Feature()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Geometry).To(Equal(orb.Polygon{
			{{-109, 41}, {-109, 37}, {-102, 37}, {-102, 41}, {-109, 41}},
			{{-108, 40}, {-107, 40}, {-107, 39}, {-108, 39}, {-108, 40}},
		}))
	})

	It("should reject orphan holes", func() {
		var err error
		subject, err = Decode(strings.NewReader(strings.Replace(coloradoXML, `<member type="way" ref="102" role="outer"/>`, ``, 1)))
		Expect(err).NotTo(HaveOccurred())

		// way 101 is force-closed into a triangle which excludes the hole
		_, err = subject.Feature()
		Expect(err).To(MatchError(ContainSubstring(`osmx: relation #42: geo: hole is not contained by any outer loop`)))
	})

	It("should reject missing ways", func() {
		var err error
		subject, err = Decode(strings.NewReader(strings.Replace(coloradoXML, `ref="104" role="outer"`, `ref="105" role="outer"`, 1)))
		Expect(err).NotTo(HaveOccurred())

		_, err = subject.Feature()
		Expect(err).To(MatchError(`osmx: way #105 not found`))
	})
})

// Colorado with a hole plus a disjoint island.
const coloradoXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="41" lon="-109"/>
  <node id="2" lat="41" lon="-102"/>
  <node id="3" lat="37" lon="-102"/>
  <node id="4" lat="37" lon="-109"/>
  <node id="5" lat="40" lon="-108"/>
  <node id="6" lat="40" lon="-107"/>
  <node id="7" lat="39" lon="-107"/>
  <node id="8" lat="39" lon="-108"/>
  <node id="9" lat="45" lon="-100"/>
  <node id="10" lat="45" lon="-99"/>
  <node id="11" lat="44" lon="-99"/>
  <way id="101"><nd ref="1"/><nd ref="2"/><nd ref="3"/></way>
  <way id="102"><nd ref="3"/><nd ref="4"/><nd ref="1"/></way>
  <way id="103"><nd ref="5"/><nd ref="6"/><nd ref="7"/><nd ref="8"/><nd ref="5"/></way>
  <way id="104"><nd ref="9"/><nd ref="10"/><nd ref="11"/><nd ref="9"/></way>
  <relation id="42">
    <member type="way" ref="101" role="outer"/>
    <member type="way" ref="102" role="outer"/>
    <member type="way" ref="103" role="inner"/>
    <member type="way" ref="104" role="outer"/>
    <member type="node" ref="1" role="admin_centre"/>
    <tag k="name" v="Colorado"/>
    <tag k="ISO3166-2" v="US-CO"/>
    <tag k="boundary" v="administrative"/>
    <tag k="admin_level" v="4"/>
  </relation>
</osm>
`

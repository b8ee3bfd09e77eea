package hexjson

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

const (
	typeFeature           = "Feature"
	typeFeatureCollection = "FeatureCollection"
)

// Kind tags the variant held by an Object.
type Kind uint8

// Kind values.
const (
	KindFeature Kind = iota + 1
	KindFeatureCollection
)

func (k Kind) String() string {
	switch k {
	case KindFeature:
		return typeFeature
	case KindFeatureCollection:
		return typeFeatureCollection
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Object is either a single Feature or a FeatureCollection.
type Object struct {
	Kind       Kind
	Feature    *geojson.Feature
	Collection *geojson.FeatureCollection
}

// FeatureObject wraps a feature.
func FeatureObject(f *geojson.Feature) Object {
	return Object{Kind: KindFeature, Feature: f}
}

// CollectionObject wraps a feature collection.
func CollectionObject(fc *geojson.FeatureCollection) Object {
	return Object{Kind: KindFeatureCollection, Collection: fc}
}

// Decode decodes a GeoJSON Feature or FeatureCollection.
func Decode(data []byte) (Object, error) {
	var hdr struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &hdr); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}

	switch hdr.Type {
	case typeFeature:
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Object{}, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
		}
		return FeatureObject(f), nil
	case typeFeatureCollection:
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Object{}, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
		}
		return CollectionObject(fc), nil
	}
	return Object{}, fmt.Errorf("%w: unhandled type %q", ErrUnsupportedInput, hdr.Type)
}

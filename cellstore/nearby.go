package cellstore

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb/geojson"
	h3 "github.com/uber/h3-go/v4"
)

// NearbyEntry is a stored cell within grid distance of an origin.
type NearbyEntry struct {
	Cell       h3.Cell
	Distance   int // grid distance to the origin
	Properties geojson.Properties
}

// Nearby returns all stored entries within k grid steps of the origin,
// closest first. Entries at equal distance are ordered by cell.
func (r *Reader) Nearby(origin h3.Cell, k int) ([]NearbyEntry, error) {
	if !origin.IsValid() {
		return nil, errInvalidCell
	}
	if k < 0 {
		return nil, fmt.Errorf("cellstore: invalid grid distance %d", k)
	}

	rings, err := h3.GridDiskDistances(origin, k)
	if err != nil {
		return nil, fmt.Errorf("cellstore: grid disk around %s: %w", origin, err)
	}

	var res []NearbyEntry
	for dist, ring := range rings {
		sort.Slice(ring, func(i, j int) bool { return ring[i] < ring[j] })

		for _, cell := range ring {
			if cell == 0 { // unused slot near pentagons
				continue
			}

			props, err := r.Get(cell)
			if err != nil {
				return nil, err
			}
			if props != nil {
				res = append(res, NearbyEntry{Cell: cell, Distance: dist, Properties: props})
			}
		}
	}
	return res, nil
}

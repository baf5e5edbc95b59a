package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/civicpulse/backend/internal/domain/entities"
)

// BoundingBox is a south-west / north-east coordinate rectangle.
type BoundingBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// POISource fetches candidate points of interest from an external map dataset.
type POISource interface {
	FetchPOIs(ctx context.Context, bbox BoundingBox) ([]*entities.PointOfInterest, error)
}

// ParseBoundingBox parses "south,west,north,east" in decimal degrees.
func ParseBoundingBox(raw string) (BoundingBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("bounding box %q: want south,west,north,east", raw)
	}
	var values [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("bounding box %q: %w", raw, err)
		}
		values[i] = v
	}
	bbox := BoundingBox{South: values[0], West: values[1], North: values[2], East: values[3]}
	if bbox.South < -90 || bbox.North > 90 || bbox.West < -180 || bbox.East > 180 {
		return BoundingBox{}, fmt.Errorf("bounding box %q: coordinates out of range", raw)
	}
	return bbox, nil
}

package main

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"gaiaeye/provider"
)

const earthRadiusMeters = 6371010.0

// areaHectares computes the spherical area of a lat/lng bounding box.
// s2 returns steradians; scale by the squared Earth radius.
func areaHectares(b provider.BBox) float64 {
	lo := s2.LatLngFromDegrees(b.South, b.West)
	hi := s2.LatLngFromDegrees(b.North, b.East)
	rect := s2.Rect{
		Lat: r1.Interval{Lo: lo.Lat.Radians(), Hi: hi.Lat.Radians()},
		Lng: s1.Interval{Lo: lo.Lng.Radians(), Hi: hi.Lng.Radians()},
	}
	return rect.Area() * earthRadiusMeters * earthRadiusMeters / 10_000
}

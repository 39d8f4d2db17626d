package geo

import "math"

const (
	earthRadiusMeters = 6371000
	metersPerDegree   = earthRadiusMeters * math.Pi / 180
)

type Point struct {
	Lat float64
	Lng float64
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Box is a latitude/longitude rectangle.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns a rectangle containing every point within radius
// meters of center. It is wider than the circle, so callers still filter
// with Distance. Near the poles the longitude span covers the whole range.
func BoundingBox(center Point, radius float64) Box {
	dLat := radius / metersPerDegree
	box := Box{
		MinLat: math.Max(center.Lat-dLat, -90),
		MaxLat: math.Min(center.Lat+dLat, 90),
		MinLng: -180,
		MaxLng: 180,
	}

	cos := math.Cos(radians(center.Lat))
	if cos < 1e-6 {
		return box
	}
	dLng := dLat / cos
	if dLng >= 180 {
		return box
	}
	box.MinLng = center.Lng - dLng
	box.MaxLng = center.Lng + dLng
	return box
}

// Wraps reports whether the box crosses the antimeridian.
func (b Box) Wraps() bool {
	return b.MinLng < -180 || b.MaxLng > 180
}

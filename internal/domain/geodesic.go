package domain

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Project returns the point reached by travelling distanceNM along the great
// circle leaving origin on bearingDeg (true). The bearing is folded into
// [0,360) and the result longitude into (-180,180]. Callers validate that the
// distance is non-negative.
func Project(origin GeoPoint, bearingDeg, distanceNM float64) GeoPoint {
	if distanceNM == 0 {
		return origin
	}

	bearing := math.Mod(bearingDeg, 360)
	if bearing < 0 {
		bearing += 360
	}

	lat1 := origin.Latitude * degToRad
	lon1 := origin.Longitude * degToRad
	brg := bearing * degToRad
	d := distanceNM / EarthRadiusNM

	// lat2 = asin(sin(lat1)*cos(d) + cos(lat1)*sin(d)*cos(brg))
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(brg))

	// lon2 = lon1 + atan2(sin(brg)*sin(d)*cos(lat1), cos(d)-sin(lat1)*sin(lat2))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)

	return GeoPoint{
		Latitude:  lat2 * radToDeg,
		Longitude: normalizeLongitude(lon2 * radToDeg),
	}
}

// normalizeLongitude folds lon into (-180,180].
func normalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon <= 0 {
		lon += 360
	}
	return lon - 180
}

package spatial

import "math"

// EarthRadiusMeters - средний радиус Земли (IUGG)
const EarthRadiusMeters = 6371008.8

// Haversine возвращает расстояние по большому кругу между двумя точками в метрах
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	dφ := (lat2 - lat1) * math.Pi / 180
	dλ := (lng2 - lng1) * math.Pi / 180

	sinφ := math.Sin(dφ / 2)
	sinλ := math.Sin(dλ / 2)
	a := sinφ*sinφ + math.Cos(φ1)*math.Cos(φ2)*sinλ*sinλ
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

func inLngRange(lng, minLng, maxLng float64) bool {
	if minLng <= maxLng {
		return lng >= minLng && lng <= maxLng
	}
	// прямоугольник пересекает антимеридиан
	return lng >= minLng || lng <= maxLng
}

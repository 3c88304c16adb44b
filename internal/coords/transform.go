package coords

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// LocalSiderealTime returns the local mean sidereal time in radians at unix
// time t for an observer at longitude lonDeg (east positive).
func LocalSiderealTime(t float64, lonDeg float64) float64 {
	sec := math.Floor(t)
	ut := time.Unix(int64(sec), int64((t-sec)*1e9)).UTC()

	jd := satellite.JDay(ut.Year(), int(ut.Month()), ut.Day(), ut.Hour(), ut.Minute(), ut.Second())
	jd += float64(ut.Nanosecond()) / 1e9 / 86400

	return Wrap(satellite.ThetaG_JD(jd) + lonDeg*math.Pi/180)
}

// RaDecToAzEl converts equatorial to horizontal coordinates given the local
// sidereal time and observer latitude. Azimuth is measured from north
// through east.
func RaDecToAzEl(ra, dec, lst, lat float64) (az, el float64) {
	ha := lst - ra
	sinDec, cosDec := math.Sincos(dec)
	sinLat, cosLat := math.Sincos(lat)
	sinHA, cosHA := math.Sincos(ha)

	el = math.Asin(clamp(sinDec*sinLat + cosDec*cosLat*cosHA))
	az = math.Atan2(-cosDec*sinHA, sinDec*cosLat-cosDec*sinLat*cosHA)
	return Wrap(az), el
}

// AzElToRaDec is the inverse of RaDecToAzEl.
func AzElToRaDec(az, el, lst, lat float64) (ra, dec float64) {
	sinEl, cosEl := math.Sincos(el)
	sinLat, cosLat := math.Sincos(lat)
	sinAz, cosAz := math.Sincos(az)

	dec = math.Asin(clamp(sinEl*sinLat + cosEl*cosLat*cosAz))
	ha := math.Atan2(-sinAz*cosEl, sinEl*cosLat-cosEl*sinLat*cosAz)
	return Wrap(lst - ha), dec
}

// DxDyToPhiTheta places a focal-plane offset (dx, dy), in tangent-plane
// radians, on the sphere around the center (phi0, theta0). theta is a
// latitude-like angle (elevation or declination).
func DxDyToPhiTheta(dx, dy, phi0, theta0 float64) (phi, theta float64) {
	rho := math.Hypot(dx, dy)
	if rho == 0 {
		return phi0, theta0
	}
	c := math.Atan(rho)
	sinC, cosC := math.Sincos(c)
	sinT0, cosT0 := math.Sincos(theta0)

	theta = math.Asin(clamp(cosC*sinT0 + dy*sinC*cosT0/rho))
	phi = phi0 + math.Atan2(dx*sinC, rho*cosT0*cosC-dy*sinT0*sinC)
	return Wrap(phi), theta
}

// PhiThetaToDxDy projects (phi, theta) onto the tangent plane at (phi0, theta0).
func PhiThetaToDxDy(phi, theta, phi0, theta0 float64) (dx, dy float64) {
	sinT, cosT := math.Sincos(theta)
	sinT0, cosT0 := math.Sincos(theta0)
	sinD, cosD := math.Sincos(phi - phi0)

	cosC := sinT0*sinT + cosT0*cosT*cosD
	dx = cosT * sinD / cosC
	dy = (cosT0*sinT - sinT0*cosT*cosD) / cosC
	return dx, dy
}

// OffsetSeries applies one detector offset to a boresight time series.
func OffsetSeries(dx, dy float64, phi0, theta0 []float64) (phi, theta []float64) {
	phi = make([]float64, len(phi0))
	theta = make([]float64, len(phi0))
	for j := range phi0 {
		phi[j], theta[j] = DxDyToPhiTheta(dx, dy, phi0[j], theta0[j])
	}
	return phi, theta
}

// AngularSeparation is the great-circle distance between two points.
func AngularSeparation(phi1, theta1, phi2, theta2 float64) float64 {
	sinDT := math.Sin((theta2 - theta1) / 2)
	sinDP := math.Sin((phi2 - phi1) / 2)
	h := sinDT*sinDT + math.Cos(theta1)*math.Cos(theta2)*sinDP*sinDP
	return 2 * math.Asin(math.Sqrt(clamp(h)))
}

func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

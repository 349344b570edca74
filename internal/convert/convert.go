// Package convert holds pure unit conversions for sensor readings.
// No state, no hardware, no timing constraints.
package convert

import "math"

// CToF converts degrees Celsius to Fahrenheit.
func CToF(c float64) float64 {
	return c*1.8 + 32
}

// FToC converts degrees Fahrenheit to Celsius.
func FToC(f float64) float64 {
	return (f - 32) * 0.55555
}

// HeatIndex returns the perceived temperature in Fahrenheit for the given
// air temperature (Fahrenheit) and relative humidity (percent), using the
// NWS combination of Steadman's simple formula and the Rothfusz regression:
// http://www.wpc.ncep.noaa.gov/html/heatindex_equation.shtml
//
// The simple average is used on its own when it comes out at 79 or below;
// above that the full regression applies, with correction terms for very
// dry (<13%) or very humid (>85%) air within their temperature bands.
func HeatIndex(temperature, humidity float64) float64 {
	hi := 0.5 * (temperature + 61.0 + ((temperature - 68.0) * 1.2) + (humidity * 0.094))

	if hi > 79 {
		hi = -42.379 +
			2.04901523*temperature +
			10.14333127*humidity +
			-0.22475541*temperature*humidity +
			-0.00683783*math.Pow(temperature, 2) +
			-0.05481717*math.Pow(humidity, 2) +
			0.00122874*math.Pow(temperature, 2)*humidity +
			0.00085282*temperature*math.Pow(humidity, 2) +
			-0.00000199*math.Pow(temperature, 2)*math.Pow(humidity, 2)

		if humidity < 13 && temperature >= 80.0 && temperature <= 112.0 {
			hi -= ((13.0 - humidity) * 0.25) * math.Sqrt((17.0-math.Abs(temperature-95.0))*0.05882)
		} else if humidity > 85.0 && temperature >= 80.0 && temperature <= 87.0 {
			hi += ((humidity - 85.0) * 0.1) * ((87.0 - temperature) * 0.2)
		}
	}

	return hi
}

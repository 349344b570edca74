package convert

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func TestCToF(t *testing.T) {
	tests := []struct {
		c    float64
		want float64
	}{
		{0, 32},
		{20, 68},
		{100, 212},
		{-40, -40},
	}
	for _, tc := range tests {
		if got := CToF(tc.c); math.Abs(got-tc.want) > tolerance {
			t.Errorf("CToF(%v) = %v, want %v", tc.c, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	// FToC uses the 0.55555 truncation, so the round trip is approximate.
	for _, c := range []float64{-10, 0, 20, 37.5, 50} {
		got := FToC(CToF(c))
		if math.Abs(got-c) > 0.01 {
			t.Errorf("FToC(CToF(%v)) = %v, want ~%v", c, got, c)
		}
	}
}

// rothfusz is the uncorrected regression, duplicated here to check which
// branch HeatIndex took.
func rothfusz(temp, hum float64) float64 {
	return -42.379 +
		2.04901523*temp +
		10.14333127*hum +
		-0.22475541*temp*hum +
		-0.00683783*temp*temp +
		-0.05481717*hum*hum +
		0.00122874*temp*temp*hum +
		0.00085282*temp*hum*hum +
		-0.00000199*temp*temp*hum*hum
}

func TestHeatIndexSimpleFormulaBelow79(t *testing.T) {
	// At 70F the averaged Steadman formula stays at or below 79 for any
	// humidity, so it is returned without the regression.
	for _, hum := range []float64{0, 10, 50, 90, 100} {
		want := 0.5 * (70 + 61.0 + ((70 - 68.0) * 1.2) + (hum * 0.094))
		if want > 79 {
			t.Fatalf("test premise broken: simple formula %v exceeds 79", want)
		}
		got := HeatIndex(70, hum)
		if math.Abs(got-want) > tolerance {
			t.Errorf("HeatIndex(70, %v) = %v, want simple formula %v", hum, got, want)
		}
	}
}

func TestHeatIndexLowHumidityCorrection(t *testing.T) {
	// 81F at 10% humidity: regression applies and the dry-air correction
	// subtracts from it.
	temp, hum := 81.0, 10.0
	want := rothfusz(temp, hum) - ((13.0-hum)*0.25)*math.Sqrt((17.0-math.Abs(temp-95.0))*0.05882)
	got := HeatIndex(temp, hum)
	if math.Abs(got-want) > tolerance {
		t.Errorf("HeatIndex(%v, %v) = %v, want %v", temp, hum, got, want)
	}
	if got >= rothfusz(temp, hum) {
		t.Error("dry-air correction should lower the heat index")
	}
}

func TestHeatIndexHighHumidityCorrection(t *testing.T) {
	// 85F at 90% humidity: regression applies and the humid-air correction
	// adds to it.
	temp, hum := 85.0, 90.0
	want := rothfusz(temp, hum) + ((hum-85.0)*0.1)*((87.0-temp)*0.2)
	got := HeatIndex(temp, hum)
	if math.Abs(got-want) > tolerance {
		t.Errorf("HeatIndex(%v, %v) = %v, want %v", temp, hum, got, want)
	}
	if got <= rothfusz(temp, hum) {
		t.Error("humid-air correction should raise the heat index")
	}
}

func TestHeatIndexNoCorrectionMidRange(t *testing.T) {
	// Inside the regression but outside both correction bands.
	temp, hum := 90.0, 50.0
	want := rothfusz(temp, hum)
	got := HeatIndex(temp, hum)
	if math.Abs(got-want) > tolerance {
		t.Errorf("HeatIndex(%v, %v) = %v, want uncorrected %v", temp, hum, got, want)
	}
}

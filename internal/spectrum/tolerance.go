package spectrum

// Tolerance expresses an acceptable measured-vs-theoretical deviation,
// either as a relative ppm value or an absolute Th (m/z unit) value (spec
// §6's consumed Tolerance.within/.value interface).
type Tolerance struct {
	Value float64
	PPM   bool // true: Value is parts-per-million; false: Value is absolute Th
}

// Within reports whether measured lies within t of theoretical.
func (t Tolerance) Within(measured, theoretical float64) bool {
	diff := measured - theoretical
	if diff < 0 {
		diff = -diff
	}
	if t.PPM {
		return diff <= theoretical*t.Value*1e-6
	}
	return diff <= t.Value
}

package axis

// Unit normalisation thresholds. Values already in the target unit are left
// untouched, so every conversion is idempotent.
const (
	gigahertzThreshold = 50
	kilohertzThreshold = 100
	milliwattThreshold = 0.001
)

// ToMillitesla converts a quantity in gauss to millitesla.
func ToMillitesla(q Quantity) Quantity {
	if q.Unit != "G" {
		return q
	}
	return Quantity{Value: q.Value / 10, Unit: "mT"}
}

// ToGigahertz converts a frequency in Hz to GHz when its value exceeds the
// threshold that separates raw Hz readings from values already in GHz.
func ToGigahertz(q Quantity) Quantity {
	if q.Unit != "Hz" || q.Value <= gigahertzThreshold {
		return q
	}
	return Quantity{Value: q.Value / 1e9, Unit: "GHz"}
}

// ToKilohertz converts a frequency in Hz to kHz above the threshold.
func ToKilohertz(q Quantity) Quantity {
	if q.Unit != "Hz" || q.Value <= kilohertzThreshold {
		return q
	}
	return Quantity{Value: q.Value / 1e3, Unit: "kHz"}
}

// ToMilliwatt converts a power in W to mW below the threshold.
func ToMilliwatt(q Quantity) Quantity {
	if q.Unit != "W" || q.Value >= milliwattThreshold {
		return q
	}
	return Quantity{Value: q.Value * 1e3, Unit: "mW"}
}

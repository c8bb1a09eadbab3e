package matching

// Quality is the advisory label shown next to a composite score. It is pure
// presentation - the ranking never consults it.
type Quality string

const (
	// QualityExcellent - composite 80 and above
	QualityExcellent Quality = "Excellent"

	// QualityGood - composite 60 to 79
	QualityGood Quality = "Good"

	// QualityFair - composite 40 to 59
	QualityFair Quality = "Fair"

	// QualityLow - composite below 40
	QualityLow Quality = "Low"
)

// QualityFor maps a composite score to its advisory label.
func QualityFor(composite float64) Quality {
	switch {
	case composite >= 80:
		return QualityExcellent
	case composite >= 60:
		return QualityGood
	case composite >= 40:
		return QualityFair
	default:
		return QualityLow
	}
}

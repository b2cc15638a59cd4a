package domain

// Zone is the coarse health classification of on-hand stock relative to the
// buffer thresholds.
type Zone string

const (
	ZoneRed    Zone = "red"
	ZoneYellow Zone = "yellow"
	ZoneGreen  Zone = "green"
)

// ClassifyZone maps an on-hand quantity onto the red/yellow/green bands.
// The three zones partition the on-hand axis with no gaps:
// on_hand <= red -> red; red < on_hand <= yellow -> yellow; else green.
// Classification deliberately uses on-hand alone, not the full stock
// position; penetration is the one that folds in inbound and reservations.
func ClassifyZone(onHand, redThreshold, yellowThreshold float64) Zone {
	switch {
	case onHand <= redThreshold:
		return ZoneRed
	case onHand <= yellowThreshold:
		return ZoneYellow
	default:
		return ZoneGreen
	}
}

package score

// Band names the quality tier of a final score.
type Band string

const (
	BandElite  Band = "elite"
	BandStrong Band = "strong"
	BandDecent Band = "decent"
	BandLow    Band = "low"
)

const (
	eliteMin  = 80
	strongMin = 60
	decentMin = 40
)

// Bands lists every band, best first.
func Bands() []Band {
	return []Band{BandElite, BandStrong, BandDecent, BandLow}
}

// BandFor maps a final score to its band.
func BandFor(final int) Band {
	switch {
	case final >= eliteMin:
		return BandElite
	case final >= strongMin:
		return BandStrong
	case final >= decentMin:
		return BandDecent
	default:
		return BandLow
	}
}

// Label returns the display name for the band.
func (b Band) Label() string {
	switch b {
	case BandElite:
		return "Elite"
	case BandStrong:
		return "Strong"
	case BandDecent:
		return "Decent"
	default:
		return "Low"
	}
}

// Description returns a short display blurb. Presentation only, not part of
// the scoring contract.
func (b Band) Description() string {
	switch b {
	case BandElite:
		return "top-shelf value, stack it if you can"
	case BandStrong:
		return "well worth activating"
	case BandDecent:
		return "useful on spend you already planned"
	default:
		return "marginal, activate only in passing"
	}
}

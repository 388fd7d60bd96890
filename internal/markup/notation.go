package markup

import "strings"

// SubscriptCO2 is the marked form of the CO2 token.
const SubscriptCO2 = "CO<sub>2</sub>"

// notationReplacer scans left to right in a single pass. None of the
// replacement values contain any of the keys, so applying it to its own
// output is a no-op.
var notationReplacer = strings.NewReplacer(
	"CO2", SubscriptCO2,
	"CO₂", SubscriptCO2,
	"CH4", "CH<sub>4</sub>",
	"CH₄", "CH<sub>4</sub>",
	"H2O", "H<sub>2</sub>O",
	"H₂O", "H<sub>2</sub>O",
	"H2S", "H<sub>2</sub>S",
	"H₂S", "H<sub>2</sub>S",
)

// Normalize replaces every case-sensitive occurrence of a known chemical
// formula with its subscript markup. Already-normalized text is returned
// unchanged.
func Normalize(text string) string {
	return notationReplacer.Replace(text)
}

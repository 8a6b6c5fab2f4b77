// Package normalizer implements BPM<->NPM conversion and the EMA update
// rule shared by the legacy signature path and the compound path.
package normalizer

// BPMToNPM converts beats-per-minute to notes-per-minute given the
// rhythm's notes-per-beat scalar.
func BPMToNPM(bpm int, notesPerBeat int) int {
	return bpm * notesPerBeat
}

// EMA applies the exponential moving average update. The first observation
// becomes the EMA value outright — current == 0 must never bias the first
// reading toward zero.
func EMA(current float64, newValue float64, alpha float64) float64 {
	if current == 0 {
		return newValue
	}
	return alpha*newValue + (1-alpha)*current
}

package alignment

// Result is the duration/sentence pairing handed to the assembler.
type Result struct {
	Durations []float64
	Sentences []string
	Truncated bool
}

// Reconcile trims durations and sentences to the number of visuals that were
// produced, keeping the prefix. It assumes failed visuals sit at the end of
// the sequence; when an earlier scene was dropped every later subtitle is
// paired with the wrong visual. Inputs are never modified.
//
// When visualCount is not smaller than the durations, the sequences are
// returned as copies and the assembler decides whether the counts agree.
func Reconcile(durations []float64, sentences []string, visualCount int) Result {
	if visualCount < 0 {
		visualCount = 0
	}
	res := Result{
		Durations: append([]float64(nil), durations...),
		Sentences: append([]string(nil), sentences...),
	}
	if visualCount < len(res.Durations) {
		res.Durations = res.Durations[:visualCount]
		res.Truncated = true
	}
	if visualCount < len(res.Sentences) {
		res.Sentences = res.Sentences[:visualCount]
		res.Truncated = true
	}
	return res
}

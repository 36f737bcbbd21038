package modelbank

import (
	"sort"

	"maintlab/internal/domain"
)

// sortCorpus returns the corpus ordered by (machine_id, timestamp) ASC
// without touching the caller's slice. Label windows assume this ordering.
func sortCorpus(corpus []*domain.FeatureVector) []*domain.FeatureVector {
	sorted := make([]*domain.FeatureVector, len(corpus))
	copy(sorted, corpus)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MachineID != sorted[j].MachineID {
			return sorted[i].MachineID < sorted[j].MachineID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// machineSequences groups corpus row indices by machine, preserving the
// chronological order within each machine.
func machineSequences(corpus []*domain.FeatureVector) [][]int {
	var seqs [][]int
	var current []int
	for i, v := range corpus {
		if i > 0 && v.MachineID != corpus[i-1].MachineID {
			seqs = append(seqs, current)
			current = nil
		}
		current = append(current, i)
	}
	if len(current) > 0 {
		seqs = append(seqs, current)
	}
	return seqs
}

// classifierLabels builds the binary target for one failure type:
// label[i] = 1 iff any reading in the forward window [i, i+lookahead) of the
// same machine's sequence is annotated with that type.
func classifierLabels(corpus []*domain.FeatureVector, ft domain.FailureType, lookahead int) []int {
	labels := make([]int, len(corpus))
	for _, seq := range machineSequences(corpus) {
		for pos, i := range seq {
			end := pos + lookahead
			if end > len(seq) {
				end = len(seq)
			}
			for _, j := range seq[pos:end] {
				if corpus[j].HardwareFailureType == string(ft) {
					labels[i] = 1
					break
				}
			}
		}
	}
	return labels
}

// regressionTargets builds the continuous target for one failure type:
// minutes from reading i to the machine's next reading annotated with that
// type, clipped to the horizon when none remains in the sequence.
func regressionTargets(corpus []*domain.FeatureVector, ft domain.FailureType, horizonMinutes float64) []float64 {
	targets := make([]float64, len(corpus))
	for _, seq := range machineSequences(corpus) {
		for pos, i := range seq {
			targets[i] = horizonMinutes
			for _, j := range seq[pos+1:] {
				if corpus[j].HardwareFailureType == string(ft) {
					minutes := corpus[j].Timestamp.Sub(corpus[i].Timestamp).Minutes()
					if minutes < horizonMinutes {
						targets[i] = minutes
					}
					break
				}
			}
		}
	}
	return targets
}

// singleClass reports whether a binary label vector holds only one class.
func singleClass(labels []int) bool {
	if len(labels) == 0 {
		return true
	}
	first := labels[0]
	for _, l := range labels[1:] {
		if l != first {
			return false
		}
	}
	return true
}

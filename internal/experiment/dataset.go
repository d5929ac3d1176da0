package experiment

import "math/rand"

// Dataset holds pre-generated training batches. Steps cycle through
// the batches so a run can be longer than the dataset.
type Dataset struct {
	Inputs  [][]float64
	Targets [][]float64
}

// Batch returns the flattened input and target slices for a step.
func (d *Dataset) Batch(step int) ([]float64, []float64) {
	i := step % len(d.Inputs)
	return d.Inputs[i], d.Targets[i]
}

// GenerateSynthetic builds a deterministic regression dataset: inputs
// are drawn from the seeded generator and each target is a fixed
// function of its input row, so every schedule trains on identical
// data.
func GenerateSynthetic(seed int64, batches, batchSize, inputSize, outputSize int) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	inputs := make([][]float64, batches)
	targets := make([][]float64, batches)

	for b := 0; b < batches; b++ {
		in := make([]float64, batchSize*inputSize)
		for i := range in {
			in[i] = rng.Float64()
		}

		out := make([]float64, batchSize*outputSize)
		for row := 0; row < batchSize; row++ {
			mean := 0.0
			for j := 0; j < inputSize; j++ {
				mean += in[row*inputSize+j]
			}
			mean /= float64(inputSize)

			for k := 0; k < outputSize; k++ {
				out[row*outputSize+k] = mean * float64(k+1) / float64(outputSize)
			}
		}

		inputs[b] = in
		targets[b] = out
	}

	return &Dataset{Inputs: inputs, Targets: targets}
}

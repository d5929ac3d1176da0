// Package model implements the small regression network the experiment
// runner trains while sweeping learning rate schedules.
package model

import (
	"encoding/gob"
	"fmt"
	"os"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// MLP is a two layer fully connected regression network with a mean
// squared error training graph. The learning rate is supplied per step
// by the caller, so the network itself carries no schedule state.
type MLP struct {
	g *gorgonia.ExprGraph

	input  *gorgonia.Node
	target *gorgonia.Node

	w1 *gorgonia.Node
	b1 *gorgonia.Node
	w2 *gorgonia.Node
	b2 *gorgonia.Node

	output *gorgonia.Node
	loss   *gorgonia.Node

	vm gorgonia.VM

	inputSize  int
	hiddenSize int
	outputSize int
	batchSize  int
}

// NewMLP creates a network for the given sizes and builds the full
// training graph including gradients.
func NewMLP(inputSize, hiddenSize, outputSize, batchSize int) (*MLP, error) {
	if inputSize <= 0 || hiddenSize <= 0 || outputSize <= 0 || batchSize <= 0 {
		return nil, fmt.Errorf("model: sizes must be positive (input %d, hidden %d, output %d, batch %d)",
			inputSize, hiddenSize, outputSize, batchSize)
	}

	g := gorgonia.NewGraph()

	input := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(batchSize, inputSize), gorgonia.WithName("input"))
	target := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(batchSize, outputSize), gorgonia.WithName("target"))

	w1 := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(inputSize, hiddenSize), gorgonia.WithName("w1"), gorgonia.WithInit(gorgonia.GlorotU(1.0)))
	b1 := gorgonia.NewVector(g, tensor.Float64, gorgonia.WithShape(hiddenSize), gorgonia.WithName("b1"), gorgonia.WithInit(gorgonia.Zeroes()))
	w2 := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(hiddenSize, outputSize), gorgonia.WithName("w2"), gorgonia.WithInit(gorgonia.GlorotU(1.0)))
	b2 := gorgonia.NewVector(g, tensor.Float64, gorgonia.WithShape(outputSize), gorgonia.WithName("b2"), gorgonia.WithInit(gorgonia.Zeroes()))

	// Hidden layer: ReLU(input*w1 + b1)
	hidden := gorgonia.Must(gorgonia.Mul(input, w1))
	hidden = gorgonia.Must(gorgonia.BroadcastAdd(hidden, b1, nil, []byte{0}))
	hidden = gorgonia.Must(gorgonia.Rectify(hidden))

	// Output layer: hidden*w2 + b2
	output := gorgonia.Must(gorgonia.Mul(hidden, w2))
	output = gorgonia.Must(gorgonia.BroadcastAdd(output, b2, nil, []byte{0}))

	// Mean squared error
	diff := gorgonia.Must(gorgonia.Sub(output, target))
	loss := gorgonia.Must(gorgonia.Mean(gorgonia.Must(gorgonia.Square(diff))))

	if _, err := gorgonia.Grad(loss, w1, b1, w2, b2); err != nil {
		return nil, fmt.Errorf("failed to compute gradients: %w", err)
	}

	vm := gorgonia.NewTapeMachine(g)

	return &MLP{
		g:          g,
		input:      input,
		target:     target,
		w1:         w1,
		b1:         b1,
		w2:         w2,
		b2:         b2,
		output:     output,
		loss:       loss,
		vm:         vm,
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		outputSize: outputSize,
		batchSize:  batchSize,
	}, nil
}

// Learnables returns all learnable parameters
func (m *MLP) Learnables() gorgonia.Nodes {
	return gorgonia.Nodes{m.w1, m.b1, m.w2, m.b2}
}

// Step runs one forward/backward pass over a batch and updates the
// weights at the given learning rate. It returns the batch loss.
// The solver is rebuilt every call so an externally scheduled rate
// takes effect immediately.
func (m *MLP) Step(inputs, targets []float64, learningRate float64) (float64, error) {
	if len(inputs) != m.batchSize*m.inputSize {
		return 0, fmt.Errorf("invalid input size: expected %d, got %d", m.batchSize*m.inputSize, len(inputs))
	}
	if len(targets) != m.batchSize*m.outputSize {
		return 0, fmt.Errorf("invalid target size: expected %d, got %d", m.batchSize*m.outputSize, len(targets))
	}

	inputTensor := tensor.New(
		tensor.WithShape(m.batchSize, m.inputSize),
		tensor.WithBacking(inputs),
	)
	targetTensor := tensor.New(
		tensor.WithShape(m.batchSize, m.outputSize),
		tensor.WithBacking(targets),
	)

	if err := gorgonia.Let(m.input, inputTensor); err != nil {
		return 0, fmt.Errorf("failed to set input: %w", err)
	}
	if err := gorgonia.Let(m.target, targetTensor); err != nil {
		return 0, fmt.Errorf("failed to set target: %w", err)
	}

	if err := m.vm.RunAll(); err != nil {
		return 0, fmt.Errorf("failed to run forward/backward: %w", err)
	}

	lossValue := m.loss.Value()
	if lossValue == nil {
		return 0, fmt.Errorf("loss value is nil")
	}

	var batchLoss float64
	switch v := lossValue.Data().(type) {
	case float64:
		batchLoss = v
	case []float64:
		if len(v) == 0 {
			return 0, fmt.Errorf("loss value array is empty")
		}
		batchLoss = v[0]
	default:
		return 0, fmt.Errorf("unexpected loss value type: %T", v)
	}

	solver := gorgonia.NewVanillaSolver(
		gorgonia.WithLearnRate(learningRate),
		gorgonia.WithBatchSize(float64(m.batchSize)),
	)

	learnables := m.Learnables()
	valueGrads := make([]gorgonia.ValueGrad, len(learnables))
	for i, n := range learnables {
		valueGrads[i] = n
	}
	if err := solver.Step(valueGrads); err != nil {
		return 0, fmt.Errorf("failed to update weights: %w", err)
	}

	m.vm.Reset()

	return batchLoss, nil
}

// Save saves the model weights to a file
func (m *MLP) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := gob.NewEncoder(f)

	for _, w := range m.Learnables() {
		val := w.Value()
		if val == nil {
			continue
		}

		data := val.Data().([]float64)
		shape := val.Shape()

		if err := encoder.Encode(shape); err != nil {
			return fmt.Errorf("failed to encode %s shape: %w", w.Name(), err)
		}
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode %s data: %w", w.Name(), err)
		}
	}

	return nil
}

// Load loads the model weights from a file
func (m *MLP) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	decoder := gob.NewDecoder(f)

	for _, w := range m.Learnables() {
		var shape tensor.Shape
		var data []float64

		if err := decoder.Decode(&shape); err != nil {
			return fmt.Errorf("failed to decode shape: %w", err)
		}
		if err := decoder.Decode(&data); err != nil {
			return fmt.Errorf("failed to decode data: %w", err)
		}

		t := tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data))
		if err := gorgonia.Let(w, t); err != nil {
			return fmt.Errorf("failed to set weight: %w", err)
		}
	}

	return nil
}

// Close cleans up resources
func (m *MLP) Close() error {
	m.vm.Close()
	return nil
}

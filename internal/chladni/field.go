package chladni

// Field owns a particle buffer and steps it once per frame.
type Field struct {
	positions []float64
	params    Params
	rng       Source
	dirty     bool
}

// NewField allocates count particles scattered uniformly over [-1, 1]² with z = 0.
func NewField(count int, p Params, rng Source) (*Field, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f := &Field{
		positions: make([]float64, count*Stride),
		params:    p,
		rng:       rng,
		dirty:     true,
	}
	f.scatter(0, count)
	return f, nil
}

func (f *Field) scatter(from, to int) {
	for i := from; i < to; i++ {
		j := i * Stride
		f.positions[j] = f.rng.Float64()*2 - 1
		f.positions[j+1] = f.rng.Float64()*2 - 1
		f.positions[j+2] = 0
	}
}

// Step runs one frame of Update over the buffer and marks it dirty.
func (f *Field) Step(modes []Mode) {
	Update(f.positions, modes, f.params, f.rng)
	f.dirty = true
}

// Resize replaces the buffer with one of count particles. Particles that
// exist in both buffers keep their exact values; new ones are scattered.
func (f *Field) Resize(count int) error {
	if count <= 0 {
		return ErrInvalidCount
	}
	old := f.Len()
	if count == old {
		return nil
	}
	next := make([]float64, count*Stride)
	keep := min(old, count)
	copy(next, f.positions[:keep*Stride])
	f.positions = next
	f.scatter(keep, count)
	f.dirty = true
	return nil
}

// Reset scatters every particle again.
func (f *Field) Reset() {
	f.scatter(0, f.Len())
	f.dirty = true
}

// Positions returns the live buffer. Callers may read it between steps.
func (f *Field) Positions() []float64 { return f.positions }

func (f *Field) Len() int { return len(f.positions) / Stride }

func (f *Field) Particle(i int) (x, y, z float64) {
	j := i * Stride
	return f.positions[j], f.positions[j+1], f.positions[j+2]
}

func (f *Field) Params() Params { return f.params }

func (f *Field) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.params = p
	return nil
}

// Dirty reports whether the buffer changed since the last MarkClean.
func (f *Field) Dirty() bool { return f.dirty }

func (f *Field) MarkClean() { f.dirty = false }

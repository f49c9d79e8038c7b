package meshop

import "github.com/pkg/errors"

var (
	// ErrInputMissing is returned when a required input slot is absent or has
	// the wrong type.
	ErrInputMissing = errors.New("input missing")

	// ErrPartialMutation is returned when an operator fails after it started
	// editing the mesh.
	ErrPartialMutation = errors.New("partial mutation")

	// ErrAlreadyExecuted is returned by a second call to Execute.
	ErrAlreadyExecuted = errors.New("operator already executed")

	// ErrDegenerateGeometry is returned when the inputs or the mesh describe
	// geometry that cannot be processed, such as a zero plane normal.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// An Operator is a single edit to a Mesh.
//
// Callers fill the input store, call Execute exactly once, and then read the
// output store. Operators are not safe for concurrent use, and no two
// operators may edit the same mesh at once.
type Operator interface {
	Name() string
	Inputs() *SlotStore
	Outputs() *SlotStore
	Execute(m Mesh) error
}

// Run executes op on m and returns its outputs.
func Run(op Operator, m Mesh) (*SlotStore, error) {
	if err := op.Execute(m); err != nil {
		return nil, err
	}
	return op.Outputs(), nil
}

// operatorState implements the slot plumbing shared by all operators.
type operatorState struct {
	inputs   SlotStore
	outputs  SlotStore
	executed bool
}

func (o *operatorState) Inputs() *SlotStore {
	return &o.inputs
}

func (o *operatorState) Outputs() *SlotStore {
	return &o.outputs
}

func (o *operatorState) begin(name string) error {
	if o.executed {
		return errors.Wrap(ErrAlreadyExecuted, name)
	}
	o.executed = true
	return nil
}

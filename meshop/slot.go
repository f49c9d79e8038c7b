package meshop

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

type SlotType int

const (
	BoolSlot SlotType = iota
	FloatSlot
	IntSlot
	Vec3Slot
	ElementMapSlot
	VertexSliceSlot
	EdgeSliceSlot
	FaceSliceSlot
)

func (s SlotType) String() string {
	switch s {
	case BoolSlot:
		return "bool"
	case FloatSlot:
		return "float"
	case IntSlot:
		return "int"
	case Vec3Slot:
		return "vec3"
	case ElementMapSlot:
		return "element map"
	case VertexSliceSlot:
		return "vertex slice"
	case EdgeSliceSlot:
		return "edge slice"
	case FaceSliceSlot:
		return "face slice"
	}
	panic("unknown slot type")
}

// A SlotValue is one of the closed set of values that can be stored in a
// Slot. The only implementations are the *Value types in this package.
type SlotValue interface {
	SlotType() SlotType

	slotValue()
}

type BoolValue bool

type FloatValue float64

type IntValue int

type Vec3Value model3d.Coord3D

// An ElementMapValue maps elements to elements, for example an old vertex to
// the vertex that replaced it.
type ElementMapValue map[ElementRef]ElementRef

type VertexSliceValue []VertexRef

type EdgeSliceValue []EdgeRef

type FaceSliceValue []FaceRef

func (BoolValue) SlotType() SlotType        { return BoolSlot }
func (FloatValue) SlotType() SlotType       { return FloatSlot }
func (IntValue) SlotType() SlotType         { return IntSlot }
func (Vec3Value) SlotType() SlotType        { return Vec3Slot }
func (ElementMapValue) SlotType() SlotType  { return ElementMapSlot }
func (VertexSliceValue) SlotType() SlotType { return VertexSliceSlot }
func (EdgeSliceValue) SlotType() SlotType   { return EdgeSliceSlot }
func (FaceSliceValue) SlotType() SlotType   { return FaceSliceSlot }

func (BoolValue) slotValue()        {}
func (FloatValue) slotValue()       {}
func (IntValue) slotValue()         {}
func (Vec3Value) slotValue()        {}
func (ElementMapValue) slotValue()  {}
func (VertexSliceValue) slotValue() {}
func (EdgeSliceValue) slotValue()   {}
func (FaceSliceValue) slotValue()   {}

// Coord converts the value to a model3d coordinate.
func (v Vec3Value) Coord() model3d.Coord3D {
	return model3d.Coord3D(v)
}

// A Slot is a named parameter passed into or out of an Operator.
type Slot struct {
	Name  string
	Value SlotValue
}

// A SlotStore is an ordered collection of uniquely named slots.
//
// The zero value is an empty store.
type SlotStore struct {
	slots []Slot
	index map[string]int
}

func NewSlotStore() *SlotStore {
	return &SlotStore{}
}

// Set adds a slot with the given name.
//
// If a slot with the name already exists, the store is left unchanged and
// false is returned: the first write to a name wins.
func (s *SlotStore) Set(name string, value SlotValue) bool {
	if value == nil {
		panic("cannot store nil slot value")
	}
	if s.index == nil {
		s.index = map[string]int{}
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = len(s.slots)
	s.slots = append(s.slots, Slot{Name: name, Value: value})
	return true
}

// Exists checks if a slot with the name is present, regardless of its type.
func (s *SlotStore) Exists(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Lookup gets the untyped value of a slot.
func (s *SlotStore) Lookup(name string) (SlotValue, bool) {
	idx, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.slots[idx].Value, true
}

// Len returns the number of slots.
func (s *SlotStore) Len() int {
	return len(s.slots)
}

// Names returns the slot names in insertion order.
func (s *SlotStore) Names() []string {
	res := make([]string, len(s.slots))
	for i, slot := range s.slots {
		res[i] = slot.Name
	}
	return res
}

// Iterate calls f for every slot in insertion order.
func (s *SlotStore) Iterate(f func(slot Slot)) {
	for _, slot := range s.slots {
		f(slot)
	}
}

// Get reads a slot of type T.
//
// The second return value is false if the slot does not exist or holds a
// different type.
func Get[T SlotValue](s *SlotStore, name string) (T, bool) {
	var zero T
	value, ok := s.Lookup(name)
	if !ok {
		return zero, false
	}
	res, ok := value.(T)
	if !ok {
		return zero, false
	}
	return res, true
}

// Require reads a slot of type T, failing with ErrInputMissing if it is
// absent or holds a different type.
func Require[T SlotValue](s *SlotStore, name string) (T, error) {
	var zero T
	value, ok := s.Lookup(name)
	if !ok {
		return zero, errors.Wrapf(ErrInputMissing, "slot %q is not set", name)
	}
	res, ok := value.(T)
	if !ok {
		return zero, errors.Wrapf(ErrInputMissing, "slot %q has type %s but %s is required",
			name, value.SlotType(), zero.SlotType())
	}
	return res, nil
}

// Optional is like Require, but returns defaultValue if the slot is absent.
func Optional[T SlotValue](s *SlotStore, name string, defaultValue T) (T, error) {
	if !s.Exists(name) {
		return defaultValue, nil
	}
	return Require[T](s, name)
}

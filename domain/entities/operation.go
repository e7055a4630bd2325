package entities

import "fmt"

// OperationKind is one member of the fixed family generated per field.
type OperationKind string

const (
	OpVisible   OperationKind = "visible"
	OpInvisible OperationKind = "invisible"
	OpClickable OperationKind = "clickable"
	OpHas       OperationKind = "has"
	OpHasNo     OperationKind = "has_no"
	OpFetch     OperationKind = "fetch"
)

// Predicate reports whether the operation answers yes or no.
func (o OperationKind) Predicate() bool {
	return o == OpHas || o == OpHasNo
}

// OperationsFor lists the operations generated for a field of the given kind.
// Plural kinds get no clickability wait.
func OperationsFor(kind DescriptorKind) []OperationKind {
	ops := []OperationKind{OpVisible, OpInvisible}
	if !kind.Plural() {
		ops = append(ops, OpClickable)
	}
	return append(ops, OpHas, OpHasNo, OpFetch)
}

// MethodName returns the conventional name of a generated operation.
func MethodName(field string, op OperationKind, kind DescriptorKind) string {
	switch op {
	case OpVisible:
		return fmt.Sprintf("wait_until_%s_visible", field)
	case OpInvisible:
		return fmt.Sprintf("wait_until_%s_invisible", field)
	case OpClickable:
		return fmt.Sprintf("wait_until_%s_to_be_clickable", field)
	case OpHas:
		return fmt.Sprintf("has_%s", field)
	case OpHasNo:
		return fmt.Sprintf("has_no_%s", field)
	case OpFetch:
		if kind.Plural() {
			return fmt.Sprintf("%s_elements", field)
		}
		return fmt.Sprintf("%s_element", field)
	}
	return ""
}

// Method describes one generated operation.
type Method struct {
	Name  string         `json:"name"`
	Field string         `json:"field"`
	Op    OperationKind  `json:"op"`
	Kind  DescriptorKind `json:"kind"`
}

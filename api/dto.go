package api

import "github.com/kbukum/opgate/catalog"

// OperatorDTO describes one catalog entry.
type OperatorDTO struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Mode  string `json:"mode"`
}

func toOperatorDTO(d catalog.Descriptor) OperatorDTO {
	return OperatorDTO{
		Name:  d.Name,
		Label: d.Label,
		Kind:  d.Kind().String(),
		Mode:  d.Mode().String(),
	}
}

// SelectRequest changes the active operator.
type SelectRequest struct {
	Operator string `json:"operator" validate:"required,max=64"`
}

// SubmitRequest pushes one value into the event source.
type SubmitRequest struct {
	Value *float64 `json:"value" validate:"required"`
}

// SubmitResponse acknowledges a submitted value. Its log records, if any,
// arrive on the log stream.
type SubmitResponse struct {
	Value    float64 `json:"value"`
	Operator string  `json:"operator"`
}

// StatusResponse reports the event source state.
type StatusResponse struct {
	Completed bool `json:"completed"`
}

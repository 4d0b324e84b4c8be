package validator

// Validator validates request and domain structs.
type Validator interface {
	// Validate returns nil or an error describing every failed field.
	Validate(data any) error
}

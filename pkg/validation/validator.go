package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// ErrNilInput is returned when a nil node, edge or position is validated
	ErrNilInput = errors.New("input cannot be nil")
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Float64 {
			return false
		}
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
}

// positionRequest carries a dragged coordinate through the struct validator
type positionRequest struct {
	NodeID string  `validate:"required"`
	X      float64 `validate:"finite"`
	Y      float64 `validate:"finite"`
}

// ValidateNode checks the structural requirements of a decoded node.
// Unknown types and statuses are not errors; they are normalised downstream.
func ValidateNode(node *mapmodel.Node) error {
	if node == nil {
		return ErrNilInput
	}
	if err := validate.Struct(node); err != nil {
		return formatValidationError(err)
	}
	if node.Position != nil {
		if err := checkFinite("Position", node.Position.X, node.Position.Y); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEdge checks the structural requirements of a decoded edge.
// Endpoint resolution is the graph model's job, not this one.
func ValidateEdge(edge *mapmodel.Edge) error {
	if edge == nil {
		return ErrNilInput
	}
	if err := validate.Struct(edge); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidatePosition checks a position supplied by a drag for a node
func ValidatePosition(nodeID string, pos mapmodel.Position) error {
	req := positionRequest{NodeID: nodeID, X: pos.X, Y: pos.Y}
	if err := validate.Struct(&req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func checkFinite(field string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: coordinates must be finite", field)
		}
	}
	return nil
}

// formatValidationError converts validator errors to a short message naming
// the first failing field
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "max":
			return fmt.Errorf("%s: must not exceed %s characters", field, e.Param())
		case "finite":
			return fmt.Errorf("%s: coordinates must be finite", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

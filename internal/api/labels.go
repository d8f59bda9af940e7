package api

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hy4ri/tuidoist/internal/colors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("todoist_color", func(fl validator.FieldLevel) bool {
		return colors.IsKnown(fl.Field().String())
	})
	return v
}

// GetLabels returns all personal labels.
func (c *Client) GetLabels(ctx context.Context) ([]Label, error) {
	labels, err := getAll[Label](ctx, c, "/labels", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get labels: %w", err)
	}
	return labels, nil
}

// CreateLabel creates a new personal label.
// An empty color defaults to charcoal.
func (c *Client) CreateLabel(ctx context.Context, req CreateLabelRequest) (*Label, error) {
	if req.Color == "" {
		req.Color = colors.Default
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid label: %w", err)
	}

	var label Label
	if err := c.Post(ctx, "/labels", req, &label); err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	return &label, nil
}

package types

import (
	"github.com/go-playground/validator/v10"

	"github.com/argus-quant/hftsim/pkg/errors"
)

// Order is a request to trade. Orders are ephemeral: they are consumed
// synchronously by the fill engine within the same call and never queued.
type Order struct {
	Side  Side    `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	Price float64 `yaml:"price" json:"price" validate:"required,gt=0"`
	Size  float64 `yaml:"size" json:"size" validate:"required,gt=0"`
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	return nil
}

// Fill is the immediate, full execution of an accepted order. Fills are
// append-only; open lots and closed trades are derived from the fill log.
type Fill struct {
	ID        string  `yaml:"id" json:"id" csv:"id"`
	Side      Side    `yaml:"side" json:"side" csv:"side"`
	Price     float64 `yaml:"price" json:"price" csv:"price"`
	Size      float64 `yaml:"size" json:"size" csv:"size"`
	Fee       float64 `yaml:"fee" json:"fee" csv:"fee"`
	Timestamp int64   `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
}

// Package strategy contains the tick-driven trading strategies and the
// registry that maps strategy names to factories.
//
// Each strategy owns its indicator state plus one account.Account; all
// accounting goes through the account's SubmitOrder and CheckDrawdownHalt.
package strategy

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/argus-quant/hftsim/internal/account"
	"github.com/argus-quant/hftsim/internal/types"
)

// Strategy consumes one tick at a time and may submit zero or more orders
// per tick through its account.
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() string
	// OnTick processes a single tick. Rejected orders are not errors; an
	// error here is a contract violation and aborts the run.
	OnTick(tick types.Tick) error
	// Account exposes the accounting state owned by this instance.
	Account() *account.Account
}

// Run drives a strategy over an entire tick sequence in order, one OnTick
// per tick, with no buffering or lookahead. A zero-length sequence is a
// no-op. Open lots left at the end of the sequence stay open.
func Run(s Strategy, ticks []types.Tick) error {
	for _, tick := range ticks {
		if err := s.OnTick(tick); err != nil {
			return err
		}
	}

	return nil
}

// generateConfigSchemaJSON reflects a strategy config struct into an
// indented draft-07 JSON schema document.
func generateConfigSchemaJSON(title string, cfg any) (string, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(types.Side("")) {
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{types.SideBuy, types.SideSell},
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(cfg)
	schema.Title = title
	schema.Description = "Configuration schema for the " + title + " strategy"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

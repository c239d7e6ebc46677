package campaign

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
)

// ruleConfigSchemaJSON is the closed set of conditions a merchant can
// compose. Anything outside it is rejected; evaluation of these
// conditions happens in Campaign.CheckConditions.
const ruleConfigSchemaJSON = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"min_order_amount": {
			"type": "number",
			"minimum": 0
		},
		"first_order_only": {
			"type": "boolean"
		},
		"weekdays": {
			"type": "array",
			"items": {"type": "integer", "minimum": 0, "maximum": 6},
			"uniqueItems": true,
			"minItems": 1,
			"maxItems": 7
		},
		"payment_method": {
			"type": "array",
			"items": {"type": "string", "enum": ["cash", "credit_card", "debit_card", "pix"]},
			"uniqueItems": true,
			"minItems": 1
		},
		"category_ids": {
			"type": "array",
			"items": {"type": "string", "format": "uuid"},
			"uniqueItems": true,
			"minItems": 1
		}
	}
}`

var ruleConfigSchema = mustCompileRuleConfigSchema()

func mustCompileRuleConfigSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	const url = "https://roksell.local/schemas/campaign-rule-config.schema.json"
	if err := c.AddResource(url, strings.NewReader(ruleConfigSchemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile(url)
}

// RuleConfig holds the decoded campaign conditions. All fields are
// optional; absent fields impose no restriction.
type RuleConfig struct {
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	FirstOrderOnly *bool            `json:"first_order_only,omitempty"`
	Weekdays       []int            `json:"weekdays,omitempty"` // time.Weekday values, Sunday = 0
	PaymentMethods []string         `json:"payment_method,omitempty"`
	CategoryIDs    []uuid.UUID      `json:"category_ids,omitempty"`
}

// IsEmpty reports whether the config imposes no conditions
func (r *RuleConfig) IsEmpty() bool {
	return r == nil ||
		(r.MinOrderAmount == nil && r.FirstOrderOnly == nil &&
			len(r.Weekdays) == 0 && len(r.PaymentMethods) == 0 && len(r.CategoryIDs) == 0)
}

// ParseRuleConfig validates raw JSON against the rule schema and decodes it
func ParseRuleConfig(raw []byte) (*RuleConfig, error) {
	var value any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&value); err != nil {
		return nil, shared.NewDomainError("INVALID_RULE_CONFIG", "Rule config must be valid JSON")
	}

	if err := ruleConfigSchema.Validate(value); err != nil {
		return nil, shared.NewDomainError("INVALID_RULE_CONFIG", "Rule config does not match the allowed conditions")
	}

	var rules RuleConfig
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, shared.NewDomainError("INVALID_RULE_CONFIG", "Rule config must be valid JSON")
	}

	return &rules, nil
}

package sku

import (
	"fmt"
	"strconv"
	"strings"

	"denimops/internal/common"
)

// Components is the decoded form of a five-field SKU,
// canonically written STYLE-WAIST-SHAPE-INSEAM-WASH (e.g. ST-32-S-30-RAW).
type Components struct {
	Style  string `json:"style"`
	Waist  int    `json:"waist"`
	Shape  string `json:"shape"`
	Inseam int    `json:"inseam"`
	Wash   string `json:"wash"`
}

const (
	MinWaist  = 20
	MaxWaist  = 50
	MinInseam = 26
	MaxInseam = 36

	styleLen = 2
	shapeLen = 1
	washLen  = 3

	fieldCount = 5
)

// Parse decodes a canonical SKU string. Malformed input fails with
// INVALID_SKU; fields are never defaulted or coerced.
func Parse(s string) (Components, error) {
	parts := strings.Split(s, "-")
	if len(parts) != fieldCount {
		return Components{}, common.NewDomainError(common.CodeInvalidSKU,
			"sku %q must have %d fields separated by '-'", s, fieldCount)
	}
	for i, p := range parts {
		if p == "" {
			return Components{}, common.NewDomainError(common.CodeInvalidSKU,
				"sku %q has an empty field at position %d", s, i+1)
		}
	}

	waist, err := strconv.Atoi(parts[1])
	if err != nil {
		return Components{}, common.NewDomainError(common.CodeInvalidSKU,
			"sku %q waist %q is not an integer", s, parts[1])
	}
	inseam, err := strconv.Atoi(parts[3])
	if err != nil {
		return Components{}, common.NewDomainError(common.CodeInvalidSKU,
			"sku %q inseam %q is not an integer", s, parts[3])
	}

	c := Components{
		Style:  parts[0],
		Waist:  waist,
		Shape:  parts[2],
		Inseam: inseam,
		Wash:   parts[4],
	}
	if err := Validate(c); err != nil {
		return Components{}, err
	}
	return c, nil
}

// Build is the inverse of Parse. Components are re-validated before
// formatting so a programmatically constructed invalid SKU is rejected here
// rather than persisted.
func Build(c Components) (string, error) {
	if err := Validate(c); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s-%d-%s", c.Style, c.Waist, c.Shape, c.Inseam, c.Wash), nil
}

// Validate checks the per-field constraints of the SKU grammar.
func Validate(c Components) error {
	if len(c.Style) != styleLen {
		return common.NewDomainError(common.CodeInvalidSKU,
			"style %q must be exactly %d characters", c.Style, styleLen)
	}
	if c.Waist < MinWaist || c.Waist > MaxWaist {
		return common.NewDomainError(common.CodeInvalidSKU,
			"waist %d must be between %d and %d", c.Waist, MinWaist, MaxWaist)
	}
	if len(c.Shape) != shapeLen {
		return common.NewDomainError(common.CodeInvalidSKU,
			"shape %q must be exactly %d character", c.Shape, shapeLen)
	}
	if c.Inseam < MinInseam || c.Inseam > MaxInseam {
		return common.NewDomainError(common.CodeInvalidSKU,
			"inseam %d must be between %d and %d", c.Inseam, MinInseam, MaxInseam)
	}
	if len(c.Wash) != washLen {
		return common.NewDomainError(common.CodeInvalidSKU,
			"wash %q must be exactly %d characters", c.Wash, washLen)
	}
	return nil
}

package sku

import (
	"denimops/internal/common"
)

// Wash codes. RAW and BRW are produceable source states; the rest are
// finished treatments that cannot be converted further.
const (
	WashRaw    = "RAW"
	WashStone  = "STA"
	WashIndigo = "IND"
	WashBlack  = "BLK"
	WashBrown  = "BRW"
	WashOnyx   = "ONX"
	WashJet    = "JAG"
)

// washTargets maps a source wash to the set of washes it can be finished
// into. Terminal washes map only to themselves.
var washTargets = map[string][]string{
	WashRaw:    {WashRaw, WashStone, WashIndigo, WashBlack, WashBrown},
	WashBrown:  {WashBrown, WashOnyx, WashJet},
	WashStone:  {WashStone},
	WashIndigo: {WashIndigo},
	WashBlack:  {WashBlack},
	WashOnyx:   {WashOnyx},
	WashJet:    {WashJet},
}

// universalOrder fixes the search order for UniversalWash so the most
// unfinished source wins when several sources can reach a target.
var universalOrder = []string{WashRaw, WashBrown, WashStone, WashIndigo, WashBlack, WashOnyx, WashJet}

// IsWashCompatible reports whether a garment in the source wash can be
// finished into the target wash. An unrecognized source wash is an error,
// not a silent false: it means the inventory carries a wash code the
// compatibility map does not know about.
func IsWashCompatible(source, target string) (bool, error) {
	if source == target {
		return true, nil
	}
	targets, ok := washTargets[source]
	if !ok {
		return false, common.NewDomainError(common.CodeIncompatibleWash,
			"unrecognized wash code %q", source)
	}
	for _, t := range targets {
		if t == target {
			return true, nil
		}
	}
	return false, nil
}

// UniversalWash returns the most unfinished source wash that can still be
// finished into target.
func UniversalWash(target string) (string, error) {
	for _, source := range universalOrder {
		for _, t := range washTargets[source] {
			if t == target {
				return source, nil
			}
		}
	}
	return "", common.NewDomainError(common.CodeUniversalSKUError,
		"no source wash can be finished into %q", target)
}

// UniversalSKU returns the maximally flexible SKU for a target: style,
// waist, and shape are fixed by the pattern, the inseam is raised to the
// longest producible length, and the wash is rolled back to its universal
// source. A longer unfinished garment can always be cut down and finished
// into the shorter target; never the reverse.
func UniversalSKU(c Components) (Components, error) {
	if err := Validate(c); err != nil {
		return Components{}, err
	}
	wash, err := UniversalWash(c.Wash)
	if err != nil {
		return Components{}, err
	}
	return Components{
		Style:  c.Style,
		Waist:  c.Waist,
		Shape:  c.Shape,
		Inseam: MaxInseam,
		Wash:   wash,
	}, nil
}

// ConvertToRawSKU is the string-level form of UniversalSKU, used when
// grouping waitlist demand by the raw production SKU.
func ConvertToRawSKU(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	u, err := UniversalSKU(c)
	if err != nil {
		return "", err
	}
	return Build(u)
}

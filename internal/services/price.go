package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToDecimal128 converts a request price to its stored form.
func ToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("price %s: %w", d, err)
	}
	return v, nil
}

// FromDecimal128 converts a stored price back. Malformed values read as zero.
func FromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatINR renders a price with Indian digit grouping (1,00,000) and at
// most two fraction digits.
func FormatINR(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().Round(2).String()

	intPart, frac, _ := strings.Cut(s, ".")
	grouped := groupIndian(intPart)
	if frac != "" {
		grouped += "." + frac
	}
	if neg {
		return "-" + grouped
	}
	return grouped
}

// groupIndian puts a comma before the last three digits and then after
// every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

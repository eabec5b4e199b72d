package models

import (
	"fmt"
	"regexp"
	"strings"
)

// BuyerDetails holds the billing details collected during checkout
type BuyerDetails struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// Email validation regex, local@domain.tld
var buyerEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate checks the buyer details field by field. The first failing field
// aborts validation with its own message so checkout can point at the exact
// problem instead of a generic one.
func (b *BuyerDetails) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("please enter your name")
	}

	if !buyerEmailRegex.MatchString(strings.TrimSpace(b.Email)) {
		return fmt.Errorf("please enter a valid email address")
	}

	if len(digitsOnly(b.Phone)) < 6 {
		return fmt.Errorf("please enter a valid phone number")
	}

	if strings.TrimSpace(b.AddressLine1) == "" {
		return fmt.Errorf("please enter your address")
	}

	if strings.TrimSpace(b.City) == "" {
		return fmt.Errorf("please enter your city")
	}

	if strings.TrimSpace(b.State) == "" {
		return fmt.Errorf("please enter your state")
	}

	if len(strings.TrimSpace(b.Pincode)) < 4 {
		return fmt.Errorf("please enter a valid pincode")
	}

	return nil
}

// digitsOnly strips everything except digits so formatted phone numbers
// ("+91 98765-43210") validate by digit count
func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

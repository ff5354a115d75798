// internal/domain/models.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Manufacturer string

const (
	BMW         Manufacturer = "BMW"
	Mercedes    Manufacturer = "MERCEDES"
	Audi        Manufacturer = "AUDI"
	Ferrari     Manufacturer = "FERRARI"
	Lamborghini Manufacturer = "LAMBORGHINI"
	LandRover   Manufacturer = "LAND_ROVER"
)

var Manufacturers = []Manufacturer{BMW, Mercedes, Audi, Ferrari, Lamborghini, LandRover}

// ParseManufacturer accepts "land rover", "Land_Rover", "bmw" and so on.
func ParseManufacturer(s string) (Manufacturer, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	for _, m := range Manufacturers {
		if string(m) == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown manufacturer %q", s)
}

// Category is the car body type.
type Category string

const (
	Sedan  Category = "SEDAN"
	SAV    Category = "SAV"
	Luxury Category = "LUXURY"
)

var Categories = []Category{Sedan, SAV, Luxury}

func ParseCategory(s string) (Category, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// AccountKind tags a payment account for display.
type AccountKind string

const (
	Bank    AccountKind = "Bank"
	Paypal  AccountKind = "Paypal"
	Bitcoin AccountKind = "Bitcoin"
)

var AccountKinds = []AccountKind{Bank, Paypal, Bitcoin}

func ParseAccountKind(s string) (AccountKind, error) {
	for _, k := range AccountKinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown account kind %q", s)
}

// Car is the purchasable item handed out by the catalog.
type Car struct {
	Manufacturer Manufacturer    `json:"manufacturer"`
	Model        string          `json:"model"`
	Year         int             `json:"year"`
	Category     Category        `json:"category"`
	ListPrice    decimal.Decimal `json:"price"`
}

func (c *Car) Price() decimal.Decimal {
	return c.ListPrice
}

func (c *Car) SetPrice(price decimal.Decimal) {
	c.ListPrice = price
}

func (c *Car) Describe() string {
	return string(c.Manufacturer) + " " + c.Model
}

func (c *Car) String() string {
	return fmt.Sprintf("%s %s(%s) manufactured in %d", c.Manufacturer, c.Model, c.Category, c.Year)
}

// CashbackProfile is a named cashback rate in basis points (1200 = 12%).
type CashbackProfile struct {
	Name    string `json:"name"`
	RateBps int    `json:"rate_bps"`
}

// NormalizeProfileName lowercases a profile name and collapses whitespace runs,
// so " Summer  Promo" and "summer promo" are the same profile everywhere.
func NormalizeProfileName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

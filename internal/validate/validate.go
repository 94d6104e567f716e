package validate

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidUsername  = errors.New("invalid username: use 3-20 letters, digits or underscores")
	ErrInvalidPassword  = errors.New("invalid password: must be at least 6 characters")
	ErrEmptyShopName    = errors.New("shop name required")
	ErrEmptyName        = errors.New("name required")
	ErrEmptyProductName = errors.New("product name required")
	ErrInvalidStock     = errors.New("stock must be a non-negative integer")
	ErrInvalidPrice     = errors.New("price must be a positive number")
	ErrEmptySizes       = errors.New("at least one size must be provided")
	ErrInvalidSizes     = errors.New("sizes must be comma-separated integers")
)

const minPasswordLen = 6

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

func IsValidUsername(s string) bool {
	return s != "" && usernameRe.MatchString(s)
}

func IsValidPassword(s string) bool {
	return len(s) >= minPasswordLen
}

// ParseStock parses a stock count typed into a form.
func ParseStock(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, ErrInvalidStock
	}
	return n, nil
}

func ParsePrice(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !ValidPrice(p) {
		return 0, ErrInvalidPrice
	}
	return p, nil
}

// ParseSizes splits "6, 7,,8" into [6 7 8]. Blank tokens are skipped; order and
// duplicates are kept.
func ParseSizes(s string) ([]int, error) {
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, ErrInvalidSizes
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, ErrEmptySizes
	}
	return out, nil
}

func ValidPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

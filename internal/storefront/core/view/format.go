package view

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// MaxTitleLength is the card title cap, counted in characters.
	MaxTitleLength = 50
	Ellipsis       = "..."
	StarSlots      = 5
)

// FormatCategoryName turns "smart-home" into "Smart Home". Only hyphens
// separate words; everything after the first character of a word is kept
// as is.
func FormatCategoryName(category string) string {
	words := strings.Split(category, "-")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// TruncateTitle cuts titles longer than MaxTitleLength characters and appends
// an ellipsis. The cut is not word aware.
func TruncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	runes := []rune(title)
	return string(runes[:MaxTitleLength]) + Ellipsis
}

// FormatPrice renders an amount as dollars with exactly two fraction digits.
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

type StarKind string

const (
	StarFull  StarKind = "full"
	StarHalf  StarKind = "half"
	StarEmpty StarKind = "empty"
)

type StarRating struct {
	Full  int
	Half  bool
	Empty int
	Label string
	Slots []StarKind
}

// Stars projects a 0 to 5 rate onto five slots: floor(rate) full stars, a half
// star when the fractional part is at least .5, empty stars for the rest.
func Stars(rate float64) StarRating {
	clamped := math.Max(0, math.Min(float64(StarSlots), rate))
	full := int(math.Floor(clamped))
	half := clamped-float64(full) >= 0.5

	r := StarRating{
		Full:  full,
		Half:  half,
		Empty: StarSlots - full,
		Label: strconv.FormatFloat(rate, 'f', 1, 64),
		Slots: make([]StarKind, 0, StarSlots),
	}
	if half {
		r.Empty--
	}

	for i := 0; i < r.Full; i++ {
		r.Slots = append(r.Slots, StarFull)
	}
	if r.Half {
		r.Slots = append(r.Slots, StarHalf)
	}
	for i := 0; i < r.Empty; i++ {
		r.Slots = append(r.Slots, StarEmpty)
	}
	return r
}

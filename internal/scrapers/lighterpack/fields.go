package lighterpack

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ulhiking-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const (
	unitSelectSelector     = "div.lpUnitSelect"
	selectedOptionSelector = "option[selected]"
)

// fieldSpec describes how a single Item field is found and converted. `set`
// receives the first text leaf of the first node matching `selector` inside
// the item, it is never called when there is no such node or text.
type fieldSpec struct {
	name     string
	selector string
	set      func(item *goquery.Selection, raw string, out *Item) error
}

var itemFields = []fieldSpec{
	{name: "name", selector: "span.lpName", set: setName},
	{name: "description", selector: "span.lpDescription", set: setDescription},
	{name: "price", selector: "span.lpPriceCell.lpNumber", set: setPrice},
	{name: "weight_g", selector: "span.lpWeight", set: setWeight},
	{name: "quantity", selector: "span.lpQtyCell.lpNumber", set: setQuantity},
}

// fieldText returns the first text leaf of the first descendant of sel
// matching selector, false means the field is absent from the markup.
func fieldText(sel *goquery.Selection, selector string) (string, bool) {
	match := sel.Find(selector).First()
	if match.Length() == 0 {
		return "", false
	}
	text, ok := htmlutil.FirstText(match.Nodes[0])
	if !ok {
		return "", false
	}
	return htmlutil.CleanText(text), true
}

func malformed(field, raw string, cause error) *FieldError {
	return &FieldError{
		Field: field,
		Raw:   raw,
		Err:   fmt.Errorf("%w: %w", ErrMalformedFieldValue, cause),
	}
}

var (
	errNegative  = fmt.Errorf("value is negative")
	errNotFinite = fmt.Errorf("value is not a finite number")
)

func parseNumber(field, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, malformed(field, raw, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, malformed(field, raw, errNotFinite)
	}
	if value < 0 {
		return 0, malformed(field, raw, errNegative)
	}
	return value, nil
}

func setName(_ *goquery.Selection, raw string, out *Item) error {
	out.Name = &raw
	return nil
}

func setDescription(_ *goquery.Selection, raw string, out *Item) error {
	out.Description = &raw
	return nil
}

// ParsePrice converts price text such as "$12.50" or "3 €" into a decimal.
func ParsePrice(raw string) (decimal.Decimal, error) {
	trimmed := strings.Trim(raw, "$£€ \t\n")
	price, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, malformed("price", raw, err)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, malformed("price", raw, errNegative)
	}
	return price, nil
}

func setPrice(_ *goquery.Selection, raw string, out *Item) error {
	price, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	out.Price = &price
	return nil
}

func setQuantity(_ *goquery.Selection, raw string, out *Item) error {
	qty, err := parseNumber("quantity", raw)
	if err != nil {
		return err
	}
	out.Quantity = &qty
	return nil
}

// unitLabel reads the unit the item's weight is displayed in from the
// selected option of its unit dropdown, when nothing is marked selected the
// first option is what a browser would show.
func unitLabel(item *goquery.Selection) (string, bool) {
	unitSelect := item.Find(unitSelectSelector).First()
	if unitSelect.Length() == 0 {
		return "", false
	}
	option := unitSelect.Find(selectedOptionSelector).First()
	if option.Length() == 0 {
		option = unitSelect.Find("option").First()
	}
	if option.Length() == 0 {
		return "", false
	}
	return htmlutil.FirstText(option.Nodes[0])
}

func setWeight(item *goquery.Selection, raw string, out *Item) error {
	weight, err := parseNumber("weight_g", raw)
	if err != nil {
		return err
	}
	unit, ok := unitLabel(item)
	if !ok {
		return nil
	}
	grams, err := ToGrams(weight, unit)
	if err != nil {
		return &FieldError{Field: "weight_g", Raw: raw + " " + unit, Err: err}
	}
	out.WeightGrams = &grams
	return nil
}

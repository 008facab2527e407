package lighterpack

import (
	"fmt"
	"io"

	"ulhiking-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const (
	categorySelector      = "ul.lpItems.lpDataTable"
	categoryNameSelector  = "h2.lpCategoryName"
	categoryItemsSelector = "li[class^=lpItem]"
)

// Item is a single gear list entry, a nil field means it was missing from the
// page or its value could not be read.
type Item struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	WeightGrams *float64         `json:"weight_g"`
	Quantity    *float64         `json:"quantity"`
}

// Category is a labelled group of items in page order, Label is empty when
// the page has no heading for it.
type Category struct {
	Label string
	Items []Item
}

// GearList is every category on a gear list page, in page order.
type GearList struct {
	Categories []Category
}

// Row is an Item tagged with the label of the category it belongs to.
type Row struct {
	Category string `json:"category"`
	Item
}

// Rows flattens the gear list into one row per item.
func (g GearList) Rows() []Row {
	var rows []Row
	for _, c := range g.Categories {
		for _, item := range c.Items {
			rows = append(rows, Row{Category: c.Label, Item: item})
		}
	}
	return rows
}

// ItemCount is the number of items across all categories.
func (g GearList) ItemCount() int {
	n := 0
	for _, c := range g.Categories {
		n += len(c.Items)
	}
	return n
}

// ParseItem reads every field of an item node. A field that is absent is left
// nil, a field whose value cannot be converted is also left nil and its
// *FieldError is returned so the caller can surface it. The item is always usable.
func ParseItem(sel *goquery.Selection) (Item, []error) {
	var item Item
	var issues []error
	for _, field := range itemFields {
		raw, ok := fieldText(sel, field.selector)
		if !ok {
			continue
		}
		err := field.set(sel, raw, &item)
		if err != nil {
			issues = append(issues, err)
		}
	}
	return item, issues
}

// ParseCategory reads the label and items of a category section.
func ParseCategory(sel *goquery.Selection) (Category, []error) {
	category := Category{Items: []Item{}}

	heading := sel.Find(categoryNameSelector).First()
	if heading.Length() > 0 {
		label, _ := htmlutil.FirstText(heading.Nodes[0])
		category.Label = htmlutil.CleanText(label)
	}

	var issues []error
	sel.Find(categoryItemsSelector).Each(func(i int, itemSel *goquery.Selection) {
		item, itemIssues := ParseItem(itemSel)
		for _, issue := range itemIssues {
			issues = append(issues, fmt.Errorf("category %q item %d: %w", category.Label, i, issue))
		}
		category.Items = append(category.Items, item)
	})

	return category, issues
}

// ParseDocument reads every category section of a gear list page. A page
// without any category section yields an empty GearList.
func ParseDocument(doc *goquery.Document) (GearList, []error) {
	list := GearList{Categories: []Category{}}
	var issues []error
	doc.Find(categorySelector).Each(func(_ int, sel *goquery.Selection) {
		category, categoryIssues := ParseCategory(sel)
		issues = append(issues, categoryIssues...)
		list.Categories = append(list.Categories, category)
	})
	return list, issues
}

// Parse reads a gear list page from r, the error is only non-nil when the
// markup itself cannot be read.
func Parse(r io.Reader) (GearList, []error, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return GearList{}, nil, fmt.Errorf("parse html: %w", err)
	}
	list, issues := ParseDocument(doc)
	return list, issues, nil
}

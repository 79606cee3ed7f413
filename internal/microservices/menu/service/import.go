package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"

	"restaurant-ordering/internal/domain"
)

const importImage = "blank.png"

var importColumns = []string{"category", "item_name", "price", "description"}

// ImportCSV replaces the whole menu with the rows of r. The first row is the
// header; description is optional.
func (ms *MenuService) ImportCSV(ctx context.Context, r io.Reader) (domain.Menu, error) {
	items, categories, err := ms.parseCSV(r)
	if err != nil {
		return domain.Menu{}, err
	}
	m, err := ms.repo.Update(ctx, func(m *domain.Menu) error {
		m.Items = items
		m.Categories = categories
		return nil
	})
	if err != nil {
		return domain.Menu{}, err
	}
	ms.log.Info("menu_imported", map[string]any{"items": len(items), "categories": len(categories)})
	return m, nil
}

func (ms *MenuService) parseCSV(r io.Reader) ([]domain.MenuItem, []domain.Category, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, errors.NewNotValid(nil, "csv is empty")
	}
	if err != nil {
		return nil, nil, errors.NewNotValid(err, "read csv header")
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range importColumns[:3] {
		if _, ok := col[name]; !ok {
			return nil, nil, errors.NewNotValid(nil, fmt.Sprintf("csv is missing column %q", name))
		}
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		items      = []domain.MenuItem{}
		categories = []domain.Category{}
		byName     = map[string]int{}
		perCat     = map[string]int{}
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.NewNotValid(err, fmt.Sprintf("read csv line %d", line))
		}

		catName := strings.ToLower(field(rec, "category"))
		name := field(rec, "item_name")
		if catName == "" || name == "" {
			return nil, nil, errors.NewNotValid(nil, fmt.Sprintf("line %d: category and item_name are required", line))
		}
		price, err := decimal.NewFromString(field(rec, "price"))
		if err != nil || price.IsNegative() {
			return nil, nil, errors.NewNotValid(nil, fmt.Sprintf("line %d: invalid price %q", line, field(rec, "price")))
		}

		ci, ok := byName[catName]
		if !ok {
			ci = len(categories)
			byName[catName] = ci
			categories = append(categories, domain.Category{ID: ms.newID(), Name: catName, Order: domain.Ordinal(ci)})
		}
		cat := categories[ci]

		items = append(items, domain.MenuItem{
			ID:            ms.newID(),
			Name:          name,
			Price:         price,
			Category:      cat.Name,
			CategoryID:    cat.ID,
			Description:   field(rec, "description"),
			Image:         importImage,
			IsAvailable:   true,
			ItemOrder:     domain.Ordinal(perCat[catName]),
			CategoryOrder: cat.Order,
		})
		perCat[catName]++
	}
	return items, categories, nil
}

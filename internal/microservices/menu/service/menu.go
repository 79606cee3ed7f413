package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/validate"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/repository"
)

// DeletePolicy decides what happens to the items of a deleted category.
type DeletePolicy string

const (
	PolicyReject  DeletePolicy = "reject"
	PolicyCascade DeletePolicy = "cascade"
)

// Recomputer refreshes the bestseller ranking after items leave the menu.
type Recomputer interface {
	Refresh(ctx context.Context) error
}

type MenuServiceInterface interface {
	Get(ctx context.Context) (domain.Menu, error)
	Replace(ctx context.Context, req domain.ReplaceMenuRequest) (domain.Menu, error)
	ReplaceAll(ctx context.Context, m domain.Menu) (domain.Menu, error)

	AddItem(ctx context.Context, in domain.MenuItemInput) (domain.MenuItem, error)
	UpdateItem(ctx context.Context, id string, p domain.MenuItemPatch) (domain.MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
	ReorderItems(ctx context.Context, req domain.ReorderItemsRequest) (domain.Menu, error)

	AddCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error)
	UpdateCategory(ctx context.Context, id string, p domain.CategoryPatch) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ReorderCategories(ctx context.Context, req domain.ReorderCategoriesRequest) (domain.Menu, error)

	ImportCSV(ctx context.Context, r io.Reader) (domain.Menu, error)
}

type MenuService struct {
	repo        repository.MenuRepositoryInterface
	policy      DeletePolicy
	bestsellers Recomputer
	newID       func() string
	log         *logger.Logger
}

// NewMenuService builds the menu service. rc may be nil, in which case
// deletions leave the stored bestsellers alone.
func NewMenuService(repo repository.MenuRepositoryInterface, policy DeletePolicy, rc Recomputer) MenuServiceInterface {
	if policy == "" {
		policy = PolicyReject
	}
	return &MenuService{repo: repo, policy: policy, bestsellers: rc, newID: uuid.NewString, log: logger.New("menu-service")}
}

func (ms *MenuService) Get(ctx context.Context) (domain.Menu, error) {
	return ms.repo.Load(ctx)
}

// Replace swaps in the parts of the menu present in req.
func (ms *MenuService) Replace(ctx context.Context, req domain.ReplaceMenuRequest) (domain.Menu, error) {
	if err := checkPrices(req.Items); err != nil {
		return domain.Menu{}, err
	}
	m, err := ms.repo.Update(ctx, func(m *domain.Menu) error {
		if req.Items != nil {
			m.Items = req.Items
		}
		if req.Categories != nil {
			m.Categories = req.Categories
		}
		m.LinkCategories()
		return nil
	})
	if err != nil {
		return domain.Menu{}, err
	}
	ms.log.Info("menu_replaced", map[string]any{"items": len(m.Items), "categories": len(m.Categories)})
	return m, nil
}

func (ms *MenuService) ReplaceAll(ctx context.Context, menu domain.Menu) (domain.Menu, error) {
	if menu.Items == nil {
		return domain.Menu{}, errors.NewNotValid(nil, "invalid menu data format: items are required")
	}
	return ms.Replace(ctx, domain.ReplaceMenuRequest{Items: menu.Items, Categories: menu.Categories})
}

func (ms *MenuService) AddItem(ctx context.Context, in domain.MenuItemInput) (domain.MenuItem, error) {
	if err := validate.Struct(in); err != nil {
		return domain.MenuItem{}, err
	}
	if in.Price.IsNegative() {
		return domain.MenuItem{}, errors.NewNotValid(nil, "price must not be negative")
	}

	var added domain.MenuItem
	_, err := ms.repo.Update(ctx, func(m *domain.Menu) error {
		ci := m.CategoryByName(in.Category)
		if ci < 0 {
			return errors.NotFoundf("category %q", in.Category)
		}
		cat := m.Categories[ci]

		count := 0
		for i := range m.Items {
			if m.Items[i].InCategory(cat) {
				count++
			}
		}
		added = domain.MenuItem{
			ID:            ms.newID(),
			Name:          strings.TrimSpace(in.Name),
			Price:         in.Price,
			Category:      cat.Name,
			CategoryID:    cat.ID,
			Description:   in.Description,
			Image:         in.Image,
			IsAvailable:   in.IsAvailable == nil || *in.IsAvailable,
			ItemOrder:     domain.Ordinal(count),
			CategoryOrder: cat.Order,
		}
		m.Items = append(m.Items, added)
		return nil
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	ms.log.Info("menu_item_added", map[string]any{"item_id": added.ID, "category": added.Category})
	return added, nil
}

func (ms *MenuService) UpdateItem(ctx context.Context, id string, p domain.MenuItemPatch) (domain.MenuItem, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return domain.MenuItem{}, errors.NewNotValid(nil, "name must not be empty")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return domain.MenuItem{}, errors.NewNotValid(nil, "price must not be negative")
	}

	var updated domain.MenuItem
	_, err := ms.repo.Update(ctx, func(m *domain.Menu) error {
		idx := m.ItemByID(id)
		if idx < 0 {
			return errors.NotFoundf("menu item %q", id)
		}
		it := &m.Items[idx]
		if p.Category != nil && *p.Category != it.Category {
			ci := m.CategoryByName(*p.Category)
			if ci < 0 {
				return errors.NotFoundf("category %q", *p.Category)
			}
			it.Category = m.Categories[ci].Name
			it.CategoryID = m.Categories[ci].ID
			it.CategoryOrder = m.Categories[ci].Order
		}
		if p.Name != nil {
			it.Name = strings.TrimSpace(*p.Name)
		}
		if p.Price != nil {
			it.Price = *p.Price
		}
		if p.Description != nil {
			it.Description = *p.Description
		}
		if p.Image != nil {
			it.Image = *p.Image
		}
		if p.IsAvailable != nil {
			it.IsAvailable = *p.IsAvailable
		}
		if p.ItemOrder != nil {
			it.ItemOrder = domain.Ordinal(*p.ItemOrder)
		}
		updated = *it
		return nil
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	ms.log.Info("menu_item_updated", map[string]any{"item_id": id})
	return updated, nil
}

func (ms *MenuService) DeleteItem(ctx context.Context, id string) error {
	_, err := ms.repo.Update(ctx, func(m *domain.Menu) error {
		idx := m.ItemByID(id)
		if idx < 0 {
			return errors.NotFoundf("menu item %q", id)
		}
		m.Items = append(m.Items[:idx], m.Items[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	ms.log.Info("menu_item_deleted", map[string]any{"item_id": id})
	ms.refresh(ctx, map[string]any{"item_id": id})
	return nil
}

// ReorderItems sets itemOrder of the listed items to their position in
// req.IDs. Items of the category left out of the list keep their relative
// order after the listed ones.
func (ms *MenuService) ReorderItems(ctx context.Context, req domain.ReorderItemsRequest) (domain.Menu, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Menu{}, err
	}
	if err := uniqueIDs(req.IDs); err != nil {
		return domain.Menu{}, err
	}
	return ms.repo.Update(ctx, func(m *domain.Menu) error {
		ci := m.CategoryByName(req.Category)
		if ci < 0 {
			return errors.NotFoundf("category %q", req.Category)
		}
		cat := m.Categories[ci]

		pos := make(map[string]int, len(req.IDs))
		for i, id := range req.IDs {
			pos[id] = i
		}
		for _, id := range req.IDs {
			idx := m.ItemByID(id)
			if idx < 0 || !m.Items[idx].InCategory(cat) {
				return errors.NewNotValid(nil, fmt.Sprintf("item %q is not in category %q", id, cat.Name))
			}
		}

		rest := make([]*domain.MenuItem, 0)
		for i := range m.Items {
			it := &m.Items[i]
			if !it.InCategory(cat) {
				continue
			}
			if p, ok := pos[it.ID]; ok {
				it.ItemOrder = domain.Ordinal(p)
			} else {
				rest = append(rest, it)
			}
		}
		sortByItemOrder(rest)
		for i, it := range rest {
			it.ItemOrder = domain.Ordinal(len(req.IDs) + i)
		}
		return nil
	})
}

func (ms *MenuService) AddCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error) {
	if err := validate.Struct(in); err != nil {
		return domain.Category{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Category{}, errors.NewNotValid(nil, "name is required")
	}

	var added domain.Category
	_, err := ms.repo.Update(ctx, func(m *domain.Menu) error {
		if m.CategoryByName(name) >= 0 {
			return errors.AlreadyExistsf("category %q", name)
		}
		added = domain.Category{ID: ms.newID(), Name: name, Order: domain.Ordinal(len(m.Categories))}
		m.Categories = append(m.Categories, added)
		// items saved before the category existed pick up its id here
		m.LinkCategories()
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	ms.log.Info("category_added", map[string]any{"category_id": added.ID, "name": added.Name})
	return added, nil
}

// UpdateCategory renames or reorders a category and rewrites the copies of
// its name and order carried by its items.
func (ms *MenuService) UpdateCategory(ctx context.Context, id string, p domain.CategoryPatch) (domain.Category, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return domain.Category{}, errors.NewNotValid(nil, "name must not be empty")
	}

	var updated domain.Category
	_, err := ms.repo.Update(ctx, func(m *domain.Menu) error {
		ci := m.CategoryByID(id)
		if ci < 0 {
			return errors.NotFoundf("category %q", id)
		}
		old := m.Categories[ci]
		cat := &m.Categories[ci]
		if p.Name != nil {
			name := strings.TrimSpace(*p.Name)
			if other := m.CategoryByName(name); other >= 0 && other != ci {
				return errors.AlreadyExistsf("category %q", name)
			}
			cat.Name = name
		}
		if p.Order != nil {
			cat.Order = domain.Ordinal(*p.Order)
		}

		for i := range m.Items {
			it := &m.Items[i]
			owned := it.CategoryID == id
			if it.CategoryID == "" {
				owned = it.Category == old.Name || (p.OldCategoryName != "" && it.Category == p.OldCategoryName)
			}
			if !owned {
				continue
			}
			it.CategoryID = cat.ID
			it.Category = cat.Name
			it.CategoryOrder = cat.Order
		}
		updated = *cat
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	ms.log.Info("category_updated", map[string]any{"category_id": id, "name": updated.Name})
	return updated, nil
}

func (ms *MenuService) DeleteCategory(ctx context.Context, id string) error {
	removed := 0
	_, err := ms.repo.Update(ctx, func(m *domain.Menu) error {
		ci := m.CategoryByID(id)
		if ci < 0 {
			return errors.NotFoundf("category %q", id)
		}
		cat := m.Categories[ci]

		kept := m.Items[:0:0]
		for _, it := range m.Items {
			if it.InCategory(cat) {
				removed++
				continue
			}
			kept = append(kept, it)
		}
		if removed > 0 && ms.policy == PolicyReject {
			return errors.Annotatef(domain.ErrCategoryInUse, "category %q has %d item(s)", cat.Name, removed)
		}
		m.Items = kept
		m.Categories = append(m.Categories[:ci], m.Categories[ci+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	ms.log.Info("category_deleted", map[string]any{"category_id": id, "items_removed": removed})
	if removed > 0 {
		ms.refresh(ctx, map[string]any{"category_id": id})
	}
	return nil
}

// refresh recomputes the bestsellers once items are gone. The deletion is
// already stored, so a failure is only logged.
func (ms *MenuService) refresh(ctx context.Context, fields map[string]any) {
	if ms.bestsellers == nil {
		return
	}
	if err := ms.bestsellers.Refresh(ctx); err != nil {
		ms.log.Error("bestseller_refresh_failed", err, fields)
	}
}

// ReorderCategories gives the listed categories order = position and
// appends the unlisted ones after them.
func (ms *MenuService) ReorderCategories(ctx context.Context, req domain.ReorderCategoriesRequest) (domain.Menu, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Menu{}, err
	}
	if err := uniqueIDs(req.IDs); err != nil {
		return domain.Menu{}, err
	}
	return ms.repo.Update(ctx, func(m *domain.Menu) error {
		ordered := make([]domain.Category, 0, len(m.Categories))
		listed := make(map[string]bool, len(req.IDs))
		for _, id := range req.IDs {
			ci := m.CategoryByID(id)
			if ci < 0 {
				return errors.NewNotValid(nil, fmt.Sprintf("unknown category %q", id))
			}
			listed[id] = true
			ordered = append(ordered, m.Categories[ci])
		}
		for _, c := range m.Categories {
			if !listed[c.ID] {
				ordered = append(ordered, c)
			}
		}
		for i := range ordered {
			ordered[i].Order = domain.Ordinal(i)
		}
		m.Categories = ordered
		m.LinkCategories()
		return nil
	})
}

func checkPrices(items []domain.MenuItem) error {
	for _, it := range items {
		if it.Price.IsNegative() {
			return errors.NewNotValid(nil, fmt.Sprintf("price of %q must not be negative", it.Name))
		}
	}
	return nil
}

func uniqueIDs(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return errors.NewNotValid(nil, fmt.Sprintf("duplicate id %q", id))
		}
		seen[id] = true
	}
	return nil
}

func sortByItemOrder(items []*domain.MenuItem) {
	sort.SliceStable(items, func(a, b int) bool { return items[a].ItemOrder < items[b].ItemOrder })
}

package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

var _ store.Store = (*Client)(nil)

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

// === Columns ===

func (c *Client) ListColumns(ctx context.Context) ([]model.Column, error) {
	var out struct {
		Columns []model.Column `json:"columns"`
	}
	if err := c.get(ctx, "/api/columns", nil, &out); err != nil {
		return nil, err
	}
	return out.Columns, nil
}

func (c *Client) CreateColumn(ctx context.Context, col model.Column) (model.Column, error) {
	var out model.Column
	err := c.do(ctx, http.MethodPost, "/api/columns", col, &out)
	return out, err
}

func (c *Client) UpdateColumn(ctx context.Context, id string, patch model.ColumnPatch) (model.Column, error) {
	var out model.Column
	err := c.do(ctx, http.MethodPatch, idPath("/api/columns", id), patch, &out)
	return out, err
}

func (c *Client) DeleteColumn(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/columns", id), nil, nil)
}

// === Categories ===

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out struct {
		Categories []model.Category `json:"categories"`
	}
	if err := c.get(ctx, "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat model.Category) (model.Category, error) {
	var out model.Category
	err := c.do(ctx, http.MethodPost, "/api/categories", cat, &out)
	return out, err
}

func (c *Client) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (model.Category, error) {
	var out model.Category
	err := c.do(ctx, http.MethodPatch, idPath("/api/categories", id), patch, &out)
	return out, err
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/categories", id), nil, nil)
}

// === Cards ===

func (c *Client) ListCards(ctx context.Context, filter store.CardFilter) ([]model.Card, error) {
	q := url.Values{}
	if filter.Archived != nil {
		q.Set("archived", strconv.FormatBool(*filter.Archived))
	}
	var out struct {
		Cards []model.Card `json:"cards"`
	}
	if err := c.get(ctx, "/api/cards", q, &out); err != nil {
		return nil, err
	}
	return out.Cards, nil
}

func (c *Client) CreateCard(ctx context.Context, card model.Card) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodPost, "/api/cards", card, &out)
	return out, err
}

func (c *Client) UpdateCard(ctx context.Context, id string, patch model.CardPatch) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodPatch, idPath("/api/cards", id), patch, &out)
	return out, err
}

func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/cards", id), nil, nil)
}

// === Settings ===

func (c *Client) GetDashboardSettings(ctx context.Context) (model.DashboardSettings, error) {
	var out model.DashboardSettings
	err := c.get(ctx, "/api/settings/dashboard", nil, &out)
	return out, err
}

func (c *Client) UpdateDashboardSettings(ctx context.Context, s model.DashboardSettings) (model.DashboardSettings, error) {
	var out model.DashboardSettings
	err := c.do(ctx, http.MethodPut, "/api/settings/dashboard", s, &out)
	return out, err
}

func (c *Client) ListColumnSettings(ctx context.Context) ([]model.ColumnSettings, error) {
	var out struct {
		ColumnSettings []model.ColumnSettings `json:"column_settings"`
	}
	if err := c.get(ctx, "/api/settings/columns", nil, &out); err != nil {
		return nil, err
	}
	return out.ColumnSettings, nil
}

func (c *Client) UpsertColumnSettings(ctx context.Context, s model.ColumnSettings) (model.ColumnSettings, error) {
	var out model.ColumnSettings
	err := c.do(ctx, http.MethodPut, idPath("/api/settings/columns", s.ColumnID), s, &out)
	return out, err
}

func (c *Client) DeleteColumnSettings(ctx context.Context, columnID string) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/settings/columns", columnID), nil, nil)
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/storefrontlabs/productsearch/internal/domain"
	apperrors "github.com/storefrontlabs/productsearch/pkg/errors"
	"github.com/storefrontlabs/productsearch/pkg/httpclient"
)

// Client talks to the upstream product API. All calls go through the
// circuit-breaker wrapped HTTP client.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
}

// NewClient creates a catalog API client. baseURL must not end with a slash.
func NewClient(baseURL string, http *httpclient.CircuitBreakerClient) *Client {
	return &Client{baseURL: baseURL, http: http}
}

// productDTO mirrors the upstream product payload.
type productDTO struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Stock       *int     `json:"stock"`
	Rating      float64  `json:"rating"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images"`
	Reviews     []struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	} `json:"reviews"`
}

func (d productDTO) toDomain() domain.Product {
	return domain.Product{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Brand:       d.Brand,
		Price:       d.Price,
		Stock:       d.Stock,
		Rating:      domain.Rating{Rate: d.Rating, Count: len(d.Reviews)},
		Image:       d.Thumbnail,
		Images:      d.Images,
	}
}

type pageDTO struct {
	Products []productDTO `json:"products"`
	Total    int          `json:"total"`
	Skip     int          `json:"skip"`
	Limit    int          `json:"limit"`
}

// FetchPage retrieves one window of the catalog. It returns the
// products in the window and the upstream's total catalog size.
func (c *Client) FetchPage(ctx context.Context, limit, skip int) ([]domain.Product, int, error) {
	u := fmt.Sprintf("%s/products?limit=%d&skip=%d", c.baseURL, limit, skip)
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "fetch product page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, 0, httpclient.ParseResponseError(resp, "products")
	}

	var page pageDTO
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, 0, apperrors.Wrap(err, "decode product page")
	}

	products := make([]domain.Product, 0, len(page.Products))
	for _, dto := range page.Products {
		products = append(products, dto.toDomain())
	}
	return products, page.Total, nil
}

// FetchByID retrieves a single product.
func (c *Client) FetchByID(ctx context.Context, id int) (domain.Product, error) {
	u := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return domain.Product{}, apperrors.Wrap(err, "fetch product")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return domain.Product{}, httpclient.ParseResponseError(resp, "product")
	}

	var dto productDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return domain.Product{}, apperrors.Wrap(err, "decode product")
	}
	return dto.toDomain(), nil
}

// FetchByCategory retrieves all products in a category.
func (c *Client) FetchByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	u := fmt.Sprintf("%s/products/category/%s", c.baseURL, url.PathEscape(category))
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, apperrors.Wrap(err, "fetch category products")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, httpclient.ParseResponseError(resp, "category")
	}

	var page pageDTO
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, apperrors.Wrap(err, "decode category products")
	}

	products := make([]domain.Product, 0, len(page.Products))
	for _, dto := range page.Products {
		products = append(products, dto.toDomain())
	}
	return products, nil
}

// FetchCategories retrieves the list of category names.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	u := c.baseURL + "/products/category-list"
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, apperrors.Wrap(err, "fetch categories")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, httpclient.ParseResponseError(resp, "categories")
	}

	var categories []string
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		return nil, apperrors.Wrap(err, "decode categories")
	}
	return categories, nil
}

// Ping checks whether the upstream API answers. Used by readiness.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.FetchPage(ctx, 1, 0)
	return err
}

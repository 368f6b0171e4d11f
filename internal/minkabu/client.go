package minkabu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/camuig/shuumulator/internal/logger"
)

// The element carrying the current price in its data attributes.
const priceSelector = "#stock-for-securities-company"

var ErrPriceNotFound = errors.New("price not found on stock page")

// Quote is the current price and display name scraped from a stock page.
type Quote struct {
	Code  string
	Name  string
	Price decimal.Decimal
}

type Client struct {
	client  *resty.Client
	baseURL string
	logger  *logger.Logger
}

func NewClient(baseURL, userAgent string, timeout time.Duration, log *logger.Logger) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}
}

func (c *Client) StockURL(code string) string {
	return fmt.Sprintf("%s/stock/%s", c.baseURL, code)
}

// Quote fetches the stock page for code and extracts the current price.
func (c *Client) Quote(ctx context.Context, code string) (Quote, error) {
	url := c.StockURL(code)

	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return Quote{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Quote{}, fmt.Errorf("fetch %s: HTTP status %d", url, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return Quote{}, fmt.Errorf("parse %s: %w", url, err)
	}

	q, err := ParseQuote(doc)
	if err != nil {
		return Quote{}, fmt.Errorf("%s: %w", url, err)
	}
	q.Code = code

	c.logger.Debug("quote fetched", "code", code, "name", q.Name, "price", q.Price.String())
	return q, nil
}

// ParseQuote reads data-price and data-short-name from the price element.
func ParseQuote(doc *goquery.Document) (Quote, error) {
	sel := doc.Find(priceSelector).First()
	if sel.Length() == 0 {
		return Quote{}, ErrPriceNotFound
	}

	raw, ok := sel.Attr("data-price")
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if !ok || raw == "" {
		return Quote{}, ErrPriceNotFound
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return Quote{}, fmt.Errorf("parse price %q: %w", raw, err)
	}
	if !price.IsPositive() {
		return Quote{}, fmt.Errorf("non-positive price %q", raw)
	}

	name, _ := sel.Attr("data-short-name")
	return Quote{Name: strings.TrimSpace(name), Price: price}, nil
}

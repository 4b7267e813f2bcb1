package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/polarbookshop/orderservice/internal/domain"
)

const defaultRequestTimeout = 10 * time.Second

// Client обращается к сервису каталога книг по HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *log.Entry
}

// bookPayload описывает формат ответа каталога.
type bookPayload struct {
	ISBN   string  `json:"isbn"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Price  float64 `json:"price"`
}

// NewClient создаёт HTTP-клиент каталога.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultRequestTimeout},
		logger:  log.WithField("component", "catalog-client"),
	}
}

// GetBookByISBN запрашивает метаданные книги. Возвращает nil, если книги нет
// в каталоге (HTTP 404): это валидный исход, ведущий к отклонению заказа.
func (c *Client) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	endpoint := fmt.Sprintf("%s/books/%s", c.baseURL, url.PathEscape(isbn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do catalog request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload bookPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode catalog response: %w", err)
		}
		return &domain.Book{
			ISBN:   payload.ISBN,
			Title:  payload.Title,
			Author: payload.Author,
			Price:  payload.Price,
		}, nil
	case http.StatusNotFound:
		c.logger.WithField("isbn", isbn).Debug("book not found in catalog")
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected catalog status: %d", resp.StatusCode)
	}
}

var _ domain.BookCatalog = (*Client)(nil)

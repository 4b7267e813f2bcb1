package catalog

import (
	"context"
	"sync"

	"github.com/polarbookshop/orderservice/internal/domain"
)

// MockCatalog — конфигурируемая заглушка BookCatalog для тестов и локального запуска.
type MockCatalog struct {
	mu sync.RWMutex

	books map[string]domain.Book
	err   error

	LookupCalls int
}

// NewMockCatalog возвращает пустой mock: любой ISBN считается отсутствующим.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{books: make(map[string]domain.Book)}
}

// AddBook регистрирует книгу в заглушке.
func (m *MockCatalog) AddBook(book domain.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ISBN] = book
}

// SetError заставляет последующие lookup завершаться указанной ошибкой.
func (m *MockCatalog) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetBookByISBN возвращает зарегистрированную книгу или nil и считает вызовы.
func (m *MockCatalog) GetBookByISBN(_ context.Context, isbn string) (*domain.Book, error) {
	m.mu.Lock()
	m.LookupCalls++
	err := m.err
	book, ok := m.books[isbn]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &book, nil
}

var _ domain.BookCatalog = (*MockCatalog)(nil)

package domain

import "context"

// BookCatalog описывает взаимодействие с внешним каталогом книг.
type BookCatalog interface {
	// GetBookByISBN возвращает метаданные книги или nil, если книги нет в каталоге.
	// Отсутствие книги — валидный исход, а не ошибка.
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)
}

// EventPublisher публикует уведомления о принятых заказах.
type EventPublisher interface {
	// PublishOrderAccepted отправляет событие о принятом заказе.
	// Вызывается строго после успешной записи заказа в хранилище.
	PublishOrderAccepted(orderID string) error
}

package domain

import "errors"

var (
	// Ошибка отсутствующего ISBN книги.
	ErrISBNRequired = errors.New("book isbn is required")
	// Ошибка при некорректном количестве (< 1).
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// Ошибка, если имя и цена книги заполнены не парой.
	ErrBookDetailsInconsistent = errors.New("book name and price must be set together")
	// Ошибка отсутствия метаданных книги у принятого заказа.
	ErrBookDetailsMissing = errors.New("accepted order must carry book name and price")
	// Ошибка наличия метаданных книги у отклонённого заказа.
	ErrRejectedWithDetails = errors.New("rejected order must not carry book details")
	// Ошибка неизвестного статуса заказа.
	ErrStatusUnknown = errors.New("unknown order status")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}

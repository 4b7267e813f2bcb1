package domain

import "time"

// OrderStatus описывает жизненный цикл заказа на книгу.
type OrderStatus string

const (
	// OrderStatusAccepted — книга найдена в каталоге, заказ принят.
	OrderStatusAccepted OrderStatus = "ACCEPTED"
	// OrderStatusRejected — книги нет в каталоге, заказ отклонён. Терминальный статус.
	OrderStatusRejected OrderStatus = "REJECTED"
	// OrderStatusDispatched — принятый заказ передан в доставку.
	OrderStatusDispatched OrderStatus = "DISPATCHED"
)

// Order агрегирует решение по заказу книги и его текущий статус.
// BookName и BookPrice заполняются только для принятых заказов:
// для отклонённого заказа каталог не вернул метаданных.
type Order struct {
	ID             string
	BookISBN       string
	BookName       *string
	BookPrice      *float64
	Quantity       int32
	Status         OrderStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
	CreatedBy      string
	LastModifiedBy string
}

// Book описывает метаданные книги, полученные из каталога.
type Book struct {
	ISBN   string
	Title  string
	Author string
	Price  float64
}

// Label возвращает человекочитаемое описание книги для заказа.
func (b Book) Label() string {
	return b.Title + " - " + b.Author
}

// BuildAcceptedOrder конструирует принятый заказ по метаданным каталога.
func BuildAcceptedOrder(book Book, quantity int32, requester string) Order {
	name := book.Label()
	price := book.Price
	return Order{
		BookISBN:       book.ISBN,
		BookName:       &name,
		BookPrice:      &price,
		Quantity:       quantity,
		Status:         OrderStatusAccepted,
		CreatedBy:      requester,
		LastModifiedBy: requester,
	}
}

// BuildRejectedOrder конструирует отклонённый заказ: книги нет в каталоге,
// метаданные отсутствуют.
func BuildRejectedOrder(isbn string, quantity int32, requester string) Order {
	return Order{
		BookISBN:       isbn,
		Quantity:       quantity,
		Status:         OrderStatusRejected,
		CreatedBy:      requester,
		LastModifiedBy: requester,
	}
}

// BuildDispatchedOrder возвращает копию заказа со статусом DISPATCHED.
// Все остальные поля переносятся без изменений.
func BuildDispatchedOrder(existing Order) Order {
	existing.Status = OrderStatusDispatched
	return existing
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.BookISBN == "" {
		errs = append(errs, ErrISBNRequired)
	}
	if o.Quantity < 1 {
		errs = append(errs, ErrQuantityInvalid)
	}

	switch o.Status {
	case OrderStatusAccepted, OrderStatusDispatched:
		if o.BookName == nil || o.BookPrice == nil {
			errs = append(errs, ErrBookDetailsMissing)
		}
	case OrderStatusRejected:
		if o.BookName != nil || o.BookPrice != nil {
			errs = append(errs, ErrRejectedWithDetails)
		}
	default:
		errs = append(errs, ErrStatusUnknown)
	}

	// Имя и цена книги заполняются строго парой.
	if (o.BookName == nil) != (o.BookPrice == nil) {
		errs = append(errs, ErrBookDetailsInconsistent)
	}

	return errs
}

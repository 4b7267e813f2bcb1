package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ: хранилище присваивает ID, версию и отметки времени.
	Create(order Order) (Order, error)
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// List возвращает все заказы.
	List() ([]Order, error)
	// ListByCreatedBy возвращает заказы, созданные указанным пользователем.
	ListByCreatedBy(createdBy string) ([]Order, error)
	// Save применяет обновление с учётом optimistic locking: версия заказа
	// должна совпадать с текущей в хранилище, иначе ErrOrderVersionConflict.
	// Возвращает сохранённую запись с новой версией и updated_at.
	Save(order Order) (Order, error)
}

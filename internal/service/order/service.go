package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/polarbookshop/orderservice/internal/domain"
	"github.com/polarbookshop/orderservice/internal/metrics"
)

// Service реализует жизненный цикл заказа: решение о приёме по данным каталога,
// публикацию события о принятом заказе и переход в доставку по входящим уведомлениям.
type Service struct {
	repo      domain.OrderRepository
	catalog   domain.BookCatalog
	publisher domain.EventPublisher // опциональный: nil отключает события
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewService создаёт рабочий экземпляр движка заказов.
func NewService(
	repo domain.OrderRepository,
	catalog domain.BookCatalog,
	publisher domain.EventPublisher,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics.NewOrderMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт движок без метрик (для тестов).
func NewServiceWithoutMetrics(
	repo domain.OrderRepository,
	catalog domain.BookCatalog,
	publisher domain.EventPublisher,
	logger *log.Entry,
) *Service {
	svc := NewService(repo, catalog, publisher, logger)
	svc.metrics = nil
	return svc
}

// SubmitOrder принимает заявку на покупку книги и синхронно возвращает решение.
// Заказ рождается сразу в терминальном для приёма статусе: ACCEPTED, если
// каталог вернул метаданные книги, иначе REJECTED. Событие о принятом заказе
// публикуется строго после успешной записи в хранилище.
func (s *Service) SubmitOrder(ctx context.Context, isbn string, quantity int32, requester string) (domain.Order, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordSubmitDuration(time.Since(start))
		}
	}()

	if isbn == "" {
		return domain.Order{}, domain.ErrISBNRequired
	}
	if quantity < 1 {
		return domain.Order{}, domain.ErrQuantityInvalid
	}

	order := s.decideOrder(ctx, isbn, quantity, requester)

	saved, err := s.repo.Create(order)
	if err != nil {
		s.logger.WithError(err).WithField("isbn", isbn).Error("failed to persist order")
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderSubmitted(string(saved.Status))
	}

	s.publishOrderAccepted(saved)

	return saved, nil
}

// decideOrder выполняет lookup каталога и конструирует заказ в одном из двух статусов.
func (s *Service) decideOrder(ctx context.Context, isbn string, quantity int32, requester string) domain.Order {
	book, err := s.catalog.GetBookByISBN(ctx, isbn)
	if err != nil {
		// Недоступный каталог приравниваем к отсутствию книги: заказ
		// отклоняется, клиент может повторить заявку позже.
		s.logger.WithError(err).WithField("isbn", isbn).Warn("catalog lookup failed, rejecting order")
		return domain.BuildRejectedOrder(isbn, quantity, requester)
	}
	if book == nil {
		return domain.BuildRejectedOrder(isbn, quantity, requester)
	}
	return domain.BuildAcceptedOrder(*book, quantity, requester)
}

// publishOrderAccepted отправляет событие о принятом заказе после записи в хранилище.
// Публикация best-effort: её сбой логируется и не откатывает сохранённый заказ,
// downstream обязан переживать потерю или дублирование уведомления.
func (s *Service) publishOrderAccepted(order domain.Order) {
	if order.Status != domain.OrderStatusAccepted {
		return
	}
	if s.publisher == nil {
		s.logger.WithField("order_id", order.ID).Debug("event publisher is not configured, skipping accepted event")
		return
	}

	s.logger.WithField("order_id", order.ID).Info("sending order accepted event")
	if err := s.publisher.PublishOrderAccepted(order.ID); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to publish order accepted event")
		if s.metrics != nil {
			s.metrics.RecordAcceptedEventFailed()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.RecordAcceptedEventPublished()
	}
}

// HandleOrderDispatched обрабатывает одно уведомление о доставке.
// Доставка уведомлений at-least-once и без порядка, поэтому обработчик
// идемпотентен: повторное уведомление для уже доставленного заказа — no-op.
func (s *Service) HandleOrderDispatched(ctx context.Context, orderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	order, err := s.repo.Get(orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			// Заказ неизвестен этому инстансу (replay или eventual consistency) —
			// уведомление отбрасывается без ошибки.
			s.logger.WithField("order_id", orderID).Debug("dispatch notification for unknown order, dropping")
			if s.metrics != nil {
				s.metrics.RecordDispatchDropped()
			}
			return nil
		}
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	return s.applyDispatch(order, true)
}

func (s *Service) applyDispatch(order domain.Order, retryOnConflict bool) error {
	if order.Status == domain.OrderStatusDispatched {
		s.logger.WithField("order_id", order.ID).Debug("order already dispatched, dropping notification")
		if s.metrics != nil {
			s.metrics.RecordDispatchDropped()
		}
		return nil
	}
	if order.Status == domain.OrderStatusRejected {
		// Контракт нарушен выше по течению: доменных правил против перехода
		// нет, переводим заказ и фиксируем аномалию в логах.
		s.logger.WithField("order_id", order.ID).Warn("dispatch notification for rejected order")
	}

	updated, err := s.repo.Save(domain.BuildDispatchedOrder(order))
	if err != nil {
		if domain.IsVersionConflict(err) {
			if s.metrics != nil {
				s.metrics.RecordDispatchConflict()
			}
			if !retryOnConflict {
				return fmt.Errorf("dispatch order %s: %w", order.ID, err)
			}

			// Конкурентное обновление между load и save: перечитываем свежую
			// версию и повторяем один раз.
			s.logger.WithField("order_id", order.ID).Warn("version conflict on dispatch update, retrying")
			fresh, loadErr := s.repo.Get(order.ID)
			if loadErr != nil {
				return fmt.Errorf("reload order %s after conflict: %w", order.ID, loadErr)
			}
			return s.applyDispatch(fresh, false)
		}
		return fmt.Errorf("save dispatched order %s: %w", order.ID, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id": updated.ID,
		"version":  updated.Version,
	}).Info("order dispatched")
	if s.metrics != nil {
		s.metrics.RecordDispatchProcessed()
	}

	return nil
}

// ListOrders возвращает все заказы.
func (s *Service) ListOrders(_ context.Context) ([]domain.Order, error) {
	orders, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListOrdersByUser возвращает заказы, созданные указанным пользователем.
func (s *Service) ListOrdersByUser(_ context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.ListByCreatedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	return orders, nil
}

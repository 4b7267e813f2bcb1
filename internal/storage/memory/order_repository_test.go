package memory_test

import (
	"errors"
	"testing"

	"github.com/polarbookshop/orderservice/internal/domain"
	"github.com/polarbookshop/orderservice/internal/storage/memory"
)

func newOrder(requester string) domain.Order {
	book := domain.Book{ISBN: "1234567890", Title: "Title", Author: "Author", Price: 9.90}
	return domain.BuildAcceptedOrder(book, 3, requester)
}

func TestOrderRepository_CreateAssignsIdentity(t *testing.T) {
	repo := memory.NewOrderRepository()

	created, err := repo.Create(newOrder("bjorn"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1, got %d", created.Version)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	stored, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.BookISBN != created.BookISBN {
		t.Fatalf("expected isbn %s, got %s", created.BookISBN, stored.BookISBN)
	}
}

func TestOrderRepository_GetUnknown(t *testing.T) {
	repo := memory.NewOrderRepository()

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListByCreatedBy(t *testing.T) {
	repo := memory.NewOrderRepository()

	if _, err := repo.Create(newOrder("bjorn")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.Create(newOrder("isabelle")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	orders, err := repo.ListByCreatedBy("bjorn")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].CreatedBy != "bjorn" {
		t.Fatalf("expected bjorn's order, got %s", orders[0].CreatedBy)
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
}

func TestOrderRepository_SaveIncrementsVersion(t *testing.T) {
	repo := memory.NewOrderRepository()

	created, err := repo.Create(newOrder("bjorn"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := repo.Save(domain.BuildDispatchedOrder(created))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if updated.Status != domain.OrderStatusDispatched {
		t.Fatalf("expected DISPATCHED, got %s", updated.Status)
	}
	if updated.Version != created.Version+1 {
		t.Fatalf("expected version increment, got %d", updated.Version)
	}
}

func TestOrderRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewOrderRepository()

	created, err := repo.Create(newOrder("bjorn"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stale := created
	stale.Version = 42
	if _, err := repo.Save(stale); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestOrderRepository_SaveUnknown(t *testing.T) {
	repo := memory.NewOrderRepository()

	order := newOrder("bjorn")
	order.ID = "missing"
	order.Version = 1
	if _, err := repo.Save(order); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

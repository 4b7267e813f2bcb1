package domain_test

import (
	"errors"
	"testing"

	"github.com/polarbookshop/orderservice/internal/domain"
)

func TestBuildAcceptedOrder(t *testing.T) {
	book := domain.Book{ISBN: "1234567890", Title: "Title", Author: "Author", Price: 9.90}

	order := domain.BuildAcceptedOrder(book, 3, "bjorn")

	if order.Status != domain.OrderStatusAccepted {
		t.Fatalf("expected status ACCEPTED, got %s", order.Status)
	}
	if order.BookISBN != "1234567890" {
		t.Fatalf("expected isbn 1234567890, got %s", order.BookISBN)
	}
	if order.BookName == nil || *order.BookName != "Title - Author" {
		t.Fatalf("expected book name 'Title - Author', got %v", order.BookName)
	}
	if order.BookPrice == nil || *order.BookPrice != 9.90 {
		t.Fatalf("expected book price 9.90, got %v", order.BookPrice)
	}
	if order.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", order.Quantity)
	}
	if order.CreatedBy != "bjorn" || order.LastModifiedBy != "bjorn" {
		t.Fatalf("expected requester bjorn, got %s/%s", order.CreatedBy, order.LastModifiedBy)
	}
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected valid order, got %v", errs)
	}
}

func TestBuildRejectedOrder(t *testing.T) {
	order := domain.BuildRejectedOrder("1234567890", 3, "bjorn")

	if order.Status != domain.OrderStatusRejected {
		t.Fatalf("expected status REJECTED, got %s", order.Status)
	}
	if order.BookName != nil || order.BookPrice != nil {
		t.Fatal("rejected order must not carry book details")
	}
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected valid order, got %v", errs)
	}
}

func TestBuildDispatchedOrderPreservesFields(t *testing.T) {
	book := domain.Book{ISBN: "1234567890", Title: "Title", Author: "Author", Price: 9.90}
	accepted := domain.BuildAcceptedOrder(book, 3, "bjorn")
	accepted.ID = "order-1"
	accepted.Version = 1

	dispatched := domain.BuildDispatchedOrder(accepted)

	if dispatched.Status != domain.OrderStatusDispatched {
		t.Fatalf("expected status DISPATCHED, got %s", dispatched.Status)
	}
	if dispatched.ID != accepted.ID {
		t.Fatalf("expected id %s, got %s", accepted.ID, dispatched.ID)
	}
	if dispatched.BookISBN != accepted.BookISBN || dispatched.Quantity != accepted.Quantity {
		t.Fatal("dispatch must preserve order fields")
	}
	if dispatched.BookName == nil || *dispatched.BookName != *accepted.BookName {
		t.Fatal("dispatch must preserve book name")
	}
	if dispatched.BookPrice == nil || *dispatched.BookPrice != *accepted.BookPrice {
		t.Fatal("dispatch must preserve book price")
	}
	if dispatched.Version != accepted.Version {
		t.Fatalf("builder must not touch version, got %d", dispatched.Version)
	}
}

func TestValidateInvariants(t *testing.T) {
	name := "Title - Author"
	price := 9.90

	tests := []struct {
		name    string
		order   domain.Order
		wantErr error
	}{
		{
			name:    "empty isbn",
			order:   domain.Order{Quantity: 1, Status: domain.OrderStatusRejected},
			wantErr: domain.ErrISBNRequired,
		},
		{
			name:    "zero quantity",
			order:   domain.Order{BookISBN: "1234567890", Status: domain.OrderStatusRejected},
			wantErr: domain.ErrQuantityInvalid,
		},
		{
			name:    "accepted without details",
			order:   domain.Order{BookISBN: "1234567890", Quantity: 1, Status: domain.OrderStatusAccepted},
			wantErr: domain.ErrBookDetailsMissing,
		},
		{
			name: "rejected with details",
			order: domain.Order{
				BookISBN: "1234567890", Quantity: 1, Status: domain.OrderStatusRejected,
				BookName: &name, BookPrice: &price,
			},
			wantErr: domain.ErrRejectedWithDetails,
		},
		{
			name: "details not in pair",
			order: domain.Order{
				BookISBN: "1234567890", Quantity: 1, Status: domain.OrderStatusAccepted,
				BookName: &name,
			},
			wantErr: domain.ErrBookDetailsInconsistent,
		},
		{
			name:    "unknown status",
			order:   domain.Order{BookISBN: "1234567890", Quantity: 1, Status: "SHIPPED"},
			wantErr: domain.ErrStatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.order.ValidateInvariants()
			if len(errs) == 0 {
				t.Fatal("expected invariant violation")
			}
			found := false
			for _, err := range errs {
				if errors.Is(err, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %v in %v", tt.wantErr, errs)
			}
		})
	}
}

func TestIsVersionConflict(t *testing.T) {
	if !domain.IsVersionConflict(domain.ErrOrderVersionConflict) {
		t.Fatal("expected version conflict to be detected")
	}
	if domain.IsVersionConflict(domain.ErrOrderNotFound) {
		t.Fatal("not found must not be a version conflict")
	}
}

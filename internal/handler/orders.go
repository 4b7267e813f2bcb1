package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/polarbookshop/orderservice/internal/domain"
	"github.com/polarbookshop/orderservice/internal/mw"
	"github.com/polarbookshop/orderservice/internal/service/order"
)

// maxOrderQuantity — верхняя граница количества книг в одной заявке.
const maxOrderQuantity = 5

type orderRequest struct {
	ISBN     string `json:"isbn"`
	Quantity int32  `json:"quantity"`
}

type orderResponse struct {
	ID               string    `json:"id"`
	BookISBN         string    `json:"bookIsbn"`
	BookName         *string   `json:"bookName,omitempty"`
	BookPrice        *float64  `json:"bookPrice,omitempty"`
	Quantity         int32     `json:"quantity"`
	Status           string    `json:"status"`
	CreatedDate      time.Time `json:"createdDate"`
	LastModifiedDate time.Time `json:"lastModifiedDate"`
	CreatedBy        string    `json:"createdBy,omitempty"`
	LastModifiedBy   string    `json:"lastModifiedBy,omitempty"`
	Version          int64     `json:"version"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:               o.ID,
		BookISBN:         o.BookISBN,
		BookName:         o.BookName,
		BookPrice:        o.BookPrice,
		Quantity:         o.Quantity,
		Status:           string(o.Status),
		CreatedDate:      o.CreatedAt,
		LastModifiedDate: o.UpdatedAt,
		CreatedBy:        o.CreatedBy,
		LastModifiedBy:   o.LastModifiedBy,
		Version:          o.Version,
	}
}

// SubmitOrderHandler принимает заявку на покупку книги.
func SubmitOrderHandler(svc *order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req orderRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.ISBN == "" {
			http.Error(w, "the book ISBN must be defined", http.StatusBadRequest)
			return
		}
		if req.Quantity < 1 {
			http.Error(w, "you must order at least 1 item", http.StatusBadRequest)
			return
		}
		if req.Quantity > maxOrderQuantity {
			http.Error(w, "you cannot order more than 5 items", http.StatusBadRequest)
			return
		}

		submitted, err := svc.SubmitOrder(r.Context(), req.ISBN, req.Quantity, userID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrISBNRequired), errors.Is(err, domain.ErrQuantityInvalid):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				log.WithError(err).Error("order submission failed")
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(toOrderResponse(submitted)); err != nil {
			log.WithError(err).Error("failed to encode order response")
		}
	}
}

// ListOrdersHandler возвращает заказы аутентифицированного пользователя.
func ListOrdersHandler(svc *order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := svc.ListOrdersByUser(r.Context(), userID)
		if err != nil {
			log.WithError(err).Error("failed to list orders")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		response := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			response = append(response, toOrderResponse(o))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.WithError(err).Error("failed to encode orders response")
		}
	}
}

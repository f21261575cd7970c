package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/responses"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/validators"
	ordersvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/orders"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
)

// MyOrders returns the authenticated customer's purchase history.
func MyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListCustomerOrders(r.Context(), customerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderListResponse(list))
	}
}

// MyOrderDetail returns one of the customer's own orders with its lines.
func MyOrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.CustomerID != customerID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order, true))
	}
}

// AdminListOrders returns one page of all orders, newest first. Staff only.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderListResponse(list))
	}
}

// AdminGetOrder returns any order with lines. Staff only.
func AdminGetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order, true))
	}
}

// AdminUpdateOrder applies correction edits to order totals. Staff only.
func AdminUpdateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateOrder(r.Context(), id, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// AdminDeleteOrder removes an order and its lines. Staff only.
func AdminDeleteOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminListOrderLines returns the lines of one order. Staff only.
func AdminListOrderLines(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.ListOrderLines(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orderLineResponse, 0, len(lines))
		for i := range lines {
			items = append(items, newOrderLineResponse(&lines[i]))
		}
		responses.WriteSuccess(w, map[string]any{"lines": items})
	}
}

// AdminUpdateOrderLine applies correction edits to one line. Staff only.
func AdminUpdateOrderLine(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		lineID, err := pathUUID(r, "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderLineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateLine(r.Context(), lineID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// AdminDeleteOrderLine removes one line. Staff only.
func AdminDeleteOrderLine(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		lineID, err := pathUUID(r, "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteLine(r.Context(), lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type updateOrderRequest struct {
	TotalQuantity *int    `json:"total_quantity,omitempty" validate:"omitempty,min=0"`
	TotalAmount   *string `json:"total_amount,omitempty"`
}

func (r updateOrderRequest) toInput() (ordersvc.UpdateOrderInput, error) {
	input := ordersvc.UpdateOrderInput{TotalQuantity: r.TotalQuantity}
	if r.TotalAmount != nil {
		amount, err := decimal.NewFromString(*r.TotalAmount)
		if err != nil {
			return ordersvc.UpdateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid total amount")
		}
		input.TotalAmount = &amount
	}
	return input, nil
}

type updateOrderLineRequest struct {
	Quantity  *int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
	UnitPrice *string `json:"unit_price,omitempty"`
	Total     *string `json:"total,omitempty"`
}

func (r updateOrderLineRequest) toInput() (ordersvc.UpdateLineInput, error) {
	input := ordersvc.UpdateLineInput{Quantity: r.Quantity}
	if r.UnitPrice != nil {
		price, err := decimal.NewFromString(*r.UnitPrice)
		if err != nil {
			return ordersvc.UpdateLineInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit price")
		}
		input.UnitPrice = &price
	}
	if r.Total != nil {
		total, err := decimal.NewFromString(*r.Total)
		if err != nil {
			return ordersvc.UpdateLineInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid total")
		}
		input.Total = &total
	}
	return input, nil
}

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	TrackingCode  string              `json:"tracking_code"`
	TotalQuantity int                 `json:"total_quantity"`
	TotalAmount   string              `json:"total_amount"`
	Lines         []orderLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type orderLineResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Total       string    `json:"total"`
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

func newOrderResponse(order *models.Order, withLines bool) orderResponse {
	if order == nil {
		return orderResponse{}
	}
	resp := orderResponse{
		ID:            order.ID,
		CustomerID:    order.CustomerID,
		TrackingCode:  ordersvc.TrackingCode(order.ID),
		TotalQuantity: order.TotalQuantity,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		CreatedAt:     order.CreatedAt,
	}
	if withLines {
		resp.Lines = make([]orderLineResponse, 0, len(order.Lines))
		for i := range order.Lines {
			resp.Lines = append(resp.Lines, newOrderLineResponse(&order.Lines[i]))
		}
	}
	return resp
}

func newOrderLineResponse(line *models.OrderLine) orderLineResponse {
	if line == nil {
		return orderLineResponse{}
	}
	resp := orderLineResponse{
		ID:        line.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice.StringFixed(2),
		Total:     line.Total.StringFixed(2),
	}
	if line.Product != nil {
		resp.ProductName = line.Product.Name
	}
	return resp
}

func newOrderListResponse(list *ordersvc.OrderList) orderListResponse {
	if list == nil {
		return orderListResponse{Orders: []orderResponse{}}
	}
	orders := make([]orderResponse, 0, len(list.Orders))
	for i := range list.Orders {
		orders = append(orders, newOrderResponse(&list.Orders[i], false))
	}
	return orderListResponse{Orders: orders, NextCursor: list.NextCursor}
}

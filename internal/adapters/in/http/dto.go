package http

import (
	"time"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/queries"
	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
)

type CreateOrderRequest struct {
	CustomerName    string  `json:"customer_name"`
	Phone           string  `json:"phone"`
	Email           *string `json:"email"`
	DeliveryAddress string  `json:"delivery_address"`
	City            string  `json:"city"`
	Quantity        int     `json:"quantity"`
	FrontImage      string  `json:"front_image"`
	BackImage       *string `json:"back_image"`
	DocumentPath    *string `json:"document_path"`
	Notes           *string `json:"notes"`
}

type QuoteResponse struct {
	Quantity    int    `json:"quantity"`
	Tier        string `json:"tier"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
	DeliveryFee int64  `json:"delivery_fee"`
	Total       int64  `json:"total"`
}

func toQuote(q order.Quote) QuoteResponse {
	return QuoteResponse{
		Quantity:    q.Quantity,
		Tier:        q.Tier,
		UnitPrice:   q.UnitPrice,
		Subtotal:    q.Subtotal,
		DeliveryFee: q.DeliveryFee,
		Total:       q.Total,
	}
}

type CreateOrderResponse struct {
	OrderID     string        `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	Status      string        `json:"status"`
	Quote       QuoteResponse `json:"quote"`
}

type OrderItemResponse struct {
	ID           string  `json:"id"`
	Quantity     int     `json:"quantity"`
	UnitPrice    int64   `json:"unit_price"`
	TotalPrice   int64   `json:"total_price"`
	FrontImage   string  `json:"front_image"`
	BackImage    *string `json:"back_image"`
	DocumentPath *string `json:"document_path"`
	Status       string  `json:"status"`
	PrintedCount int     `json:"printed_count"`
}

type OrderResponse struct {
	ID               string              `json:"id"`
	OrderNumber      string              `json:"order_number"`
	CustomerName     string              `json:"customer_name"`
	CustomerPhone    string              `json:"customer_phone"`
	CustomerEmail    *string             `json:"customer_email"`
	DeliveryAddress  string              `json:"delivery_address"`
	City             string              `json:"city"`
	Subtotal         int64               `json:"subtotal"`
	DeliveryFee      int64               `json:"delivery_fee"`
	Discount         int64               `json:"discount"`
	Total            int64               `json:"total"`
	Status           string              `json:"status"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentMethod    *string             `json:"payment_method"`
	PaymentReference *string             `json:"payment_reference"`
	TrackingNumber   *string             `json:"tracking_number"`
	DeliveryNotes    *string             `json:"delivery_notes"`
	CreatedAt        time.Time           `json:"created_at"`
	PaidAt           *time.Time          `json:"paid_at"`
	PrintedAt        *time.Time          `json:"printed_at"`
	ShippedAt        *time.Time          `json:"shipped_at"`
	DeliveredAt      *time.Time          `json:"delivered_at"`
	Items            []OrderItemResponse `json:"items"`
}

func toOrder(v queries.GetOrderQueryResponse) OrderResponse {
	res := OrderResponse{
		ID:               v.ID.String(),
		OrderNumber:      v.Number,
		CustomerName:     v.CustomerName,
		CustomerPhone:    v.CustomerPhone,
		CustomerEmail:    v.CustomerEmail,
		DeliveryAddress:  v.DeliveryAddress,
		City:             v.City,
		Subtotal:         v.Subtotal,
		DeliveryFee:      v.DeliveryFee,
		Discount:         v.Discount,
		Total:            v.Total,
		Status:           v.Status,
		PaymentStatus:    v.PaymentStatus,
		PaymentMethod:    v.PaymentMethod,
		PaymentReference: v.PaymentReference,
		TrackingNumber:   v.TrackingNumber,
		DeliveryNotes:    v.DeliveryNotes,
		CreatedAt:        v.CreatedAt,
		PaidAt:           v.PaidAt,
		PrintedAt:        v.PrintedAt,
		ShippedAt:        v.ShippedAt,
		DeliveredAt:      v.DeliveredAt,
		Items:            make([]OrderItemResponse, len(v.Items)),
	}
	for i, it := range v.Items {
		res.Items[i] = OrderItemResponse{
			ID:           it.ID.String(),
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TotalPrice:   it.TotalPrice,
			FrontImage:   it.FrontImage,
			BackImage:    it.BackImage,
			DocumentPath: it.DocumentPath,
			Status:       it.Status,
			PrintedCount: it.PrintedCount,
		}
	}
	return res
}

type UpdateOrderStatusRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
	DeliveryNotes  *string `json:"delivery_notes"`
}

type PricingResponse struct {
	Tiers        []TierResponse    `json:"tiers"`
	DeliveryFees []CityFeeResponse `json:"delivery_fees"`
	Quote        *QuoteResponse    `json:"quote,omitempty"`
}

type TierResponse struct {
	Name      string `json:"name"`
	MinQty    int    `json:"min_qty"`
	MaxQty    int    `json:"max_qty"`
	UnitPrice int64  `json:"unit_price"`
}

type CityFeeResponse struct {
	City string `json:"city"`
	Fee  int64  `json:"fee"`
}

func toPricing(v queries.GetPricingQueryResponse) PricingResponse {
	res := PricingResponse{
		Tiers:        make([]TierResponse, len(v.Tiers)),
		DeliveryFees: make([]CityFeeResponse, len(v.DeliveryFees)),
	}
	for i, t := range v.Tiers {
		res.Tiers[i] = TierResponse{Name: t.Name, MinQty: t.MinQty, MaxQty: t.MaxQty, UnitPrice: t.UnitPrice}
	}
	for i, f := range v.DeliveryFees {
		res.DeliveryFees[i] = CityFeeResponse{City: f.City, Fee: f.Fee}
	}
	if v.Quote != nil {
		q := toQuote(*v.Quote)
		res.Quote = &q
	}
	return res
}

type InitiatePaymentRequest struct {
	OrderNumber string `json:"order_number"`
	Phone       string `json:"phone"`
}

type InitiatePaymentResponse struct {
	CheckoutRequestID string  `json:"checkout_request_id"`
	MerchantRequestID string  `json:"merchant_request_id,omitempty"`
	Status            string  `json:"status"`
	Receipt           *string `json:"receipt,omitempty"`
	OrderStatus       string  `json:"order_status"`
	Message           string  `json:"message"`
}

func toInitiatePayment(r commands.InitiatePaymentResult) InitiatePaymentResponse {
	res := InitiatePaymentResponse{
		CheckoutRequestID: r.CheckoutRequestID,
		MerchantRequestID: r.MerchantRequestID,
		Status:            r.Status.String(),
		Receipt:           r.Receipt,
		OrderStatus:       r.OrderStatus.String(),
		Message:           "Check your phone and enter your M-Pesa PIN",
	}
	if r.Receipt != nil {
		res.Message = "Payment confirmed"
	}
	return res
}

type PaymentStatusResponse struct {
	CheckoutRequestID string  `json:"checkout_request_id"`
	Status            string  `json:"status"`
	Receipt           *string `json:"receipt"`
	FailureReason     *string `json:"failure_reason"`
}

type PaymentResponse struct {
	ID                string     `json:"id"`
	CheckoutRequestID string     `json:"checkout_request_id"`
	Method            string     `json:"method"`
	Amount            int64      `json:"amount"`
	Status            string     `json:"status"`
	Receipt           *string    `json:"receipt"`
	FailureReason     *string    `json:"failure_reason"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at"`
}

type OrderPaymentsResponse struct {
	OrderNumber   string            `json:"order_number"`
	PaymentStatus string            `json:"payment_status"`
	Total         int64             `json:"total"`
	Payments      []PaymentResponse `json:"payments"`
}

func toOrderPayments(v queries.GetOrderPaymentsQueryResponse) OrderPaymentsResponse {
	res := OrderPaymentsResponse{
		OrderNumber:   v.OrderNumber,
		PaymentStatus: v.PaymentStatus,
		Total:         v.Total,
		Payments:      make([]PaymentResponse, len(v.Payments)),
	}
	for i, p := range v.Payments {
		res.Payments[i] = PaymentResponse{
			ID:                p.ID.String(),
			CheckoutRequestID: p.CheckoutRequestID,
			Method:            p.Method,
			Amount:            p.Amount,
			Status:            p.Status,
			Receipt:           p.Receipt,
			FailureReason:     p.FailureReason,
			CreatedAt:         p.CreatedAt,
			CompletedAt:       p.CompletedAt,
		}
	}
	return res
}

type PrintJobResponse struct {
	ID          string     `json:"id"`
	JobHandle   string     `json:"job_handle"`
	Backend     string     `json:"backend"`
	Copies      int        `json:"copies"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type DispatchPrintResponse struct {
	OrderStatus string             `json:"order_status"`
	Jobs        []PrintJobResponse `json:"jobs"`
}

func toDispatch(r commands.DispatchPrintResult) DispatchPrintResponse {
	res := DispatchPrintResponse{OrderStatus: r.OrderStatus.String(), Jobs: make([]PrintJobResponse, len(r.Jobs))}
	for i, j := range r.Jobs {
		res.Jobs[i] = PrintJobResponse{
			ID:          j.ID().String(),
			JobHandle:   j.Handle(),
			Backend:     j.Backend(),
			Copies:      j.Copies(),
			Status:      j.Status().String(),
			StartedAt:   j.StartedAt(),
			CompletedAt: j.CompletedAt(),
		}
	}
	return res
}

type PrintQueueEntryResponse struct {
	JobID        string    `json:"job_id"`
	OrderNumber  string    `json:"order_number"`
	CustomerName string    `json:"customer_name"`
	JobHandle    string    `json:"job_handle"`
	Backend      string    `json:"backend"`
	Copies       int       `json:"copies"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
}

func toPrintQueue(entries []queries.PrintQueueEntry) []PrintQueueEntryResponse {
	res := make([]PrintQueueEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = PrintQueueEntryResponse{
			JobID:        e.JobID.String(),
			OrderNumber:  e.OrderNumber,
			CustomerName: e.CustomerName,
			JobHandle:    e.JobHandle,
			Backend:      e.Backend,
			Copies:       e.Copies,
			Status:       e.Status,
			StartedAt:    e.StartedAt,
		}
	}
	return res
}

type AssignDeliveryRequest struct {
	DriverID      string  `json:"driver_id"`
	PickupAddress *string `json:"pickup_address"`
	Notes         *string `json:"notes"`
}

type AssignDeliveryResponse struct {
	DeliveryID  string `json:"delivery_id"`
	OrderNumber string `json:"order_number"`
}

type DeliveryResponse struct {
	ID             string     `json:"id"`
	OrderNumber    string     `json:"order_number"`
	Status         string     `json:"status"`
	DriverID       *string    `json:"driver_id"`
	DriverName     *string    `json:"driver_name"`
	CustomerName   string     `json:"customer_name"`
	CustomerPhone  string     `json:"customer_phone"`
	DropoffAddress string     `json:"dropoff_address"`
	City           string     `json:"city"`
	DropoffLat     *float64   `json:"dropoff_lat"`
	DropoffLng     *float64   `json:"dropoff_lng"`
	Quantity       int        `json:"quantity"`
	Total          int64      `json:"total"`
	AssignedAt     time.Time  `json:"assigned_at"`
	StartedAt      *time.Time `json:"started_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`
}

type DeliveryDetailResponse struct {
	DeliveryResponse
	PickupAddress *string    `json:"pickup_address"`
	Notes         *string    `json:"notes"`
	ProofPhoto    *string    `json:"proof_photo"`
	Signature     *string    `json:"signature"`
	LastLat       *float64   `json:"last_lat"`
	LastLng       *float64   `json:"last_lng"`
	LastFixAt     *time.Time `json:"last_fix_at"`
}

func toDelivery(v queries.DeliveryView) DeliveryResponse {
	res := DeliveryResponse{
		ID:             v.ID.String(),
		OrderNumber:    v.OrderNumber,
		Status:         v.Status,
		DriverName:     v.DriverName,
		CustomerName:   v.CustomerName,
		CustomerPhone:  v.CustomerPhone,
		DropoffAddress: v.DropoffAddress,
		City:           v.City,
		DropoffLat:     v.DropoffLat,
		DropoffLng:     v.DropoffLng,
		Quantity:       v.Quantity,
		Total:          v.Total,
		AssignedAt:     v.AssignedAt,
		StartedAt:      v.StartedAt,
		DeliveredAt:    v.DeliveredAt,
	}
	if v.DriverID != nil {
		id := v.DriverID.String()
		res.DriverID = &id
	}
	return res
}

func toDeliveries(views []queries.DeliveryView) []DeliveryResponse {
	res := make([]DeliveryResponse, len(views))
	for i, v := range views {
		res[i] = toDelivery(v)
	}
	return res
}

func toDeliveryDetail(v queries.DeliveryDetail) DeliveryDetailResponse {
	return DeliveryDetailResponse{
		DeliveryResponse: toDelivery(v.DeliveryView),
		PickupAddress:    v.PickupAddress,
		Notes:            v.Notes,
		ProofPhoto:       v.ProofPhoto,
		Signature:        v.Signature,
		LastLat:          v.LastLat,
		LastLng:          v.LastLng,
		LastFixAt:        v.LastFixAt,
	}
}

type CompleteDeliveryRequest struct {
	Notes     *string `json:"notes"`
	Photo     *string `json:"photo"`
	Signature *string `json:"signature"`
}

type LocationRequest struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Accuracy *float64 `json:"accuracy"`
	Speed    *float64 `json:"speed"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string         `json:"token"`
	Driver DriverResponse `json:"driver"`
}

type CreateDriverRequest struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Password     string  `json:"password"`
	VehicleType  *string `json:"vehicle_type"`
	VehiclePlate *string `json:"vehicle_plate"`
}

type UpdateDriverRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Password     *string `json:"password"`
	VehicleType  *string `json:"vehicle_type"`
	VehiclePlate *string `json:"vehicle_plate"`
	IsActive     *bool   `json:"is_active"`
}

type DriverResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	VehicleType    *string    `json:"vehicle_type"`
	VehiclePlate   *string    `json:"vehicle_plate"`
	IsActive       bool       `json:"is_active"`
	CurrentLat     *float64   `json:"current_lat"`
	CurrentLng     *float64   `json:"current_lng"`
	LastFixAt      *time.Time `json:"last_location_update"`
	OpenDeliveries *int       `json:"open_deliveries,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func fromDriver(d *delivery.Driver) DriverResponse {
	res := DriverResponse{
		ID:           d.ID().String(),
		Name:         d.Name(),
		Phone:        d.Phone().String(),
		VehicleType:  d.VehicleType(),
		VehiclePlate: d.VehiclePlate(),
		IsActive:     d.IsActive(),
		LastFixAt:    d.LastFixAt(),
		CreatedAt:    d.CreatedAt(),
	}
	if p := d.LastPosition(); p != nil {
		lat, lng := p.Lat(), p.Lng()
		res.CurrentLat, res.CurrentLng = &lat, &lng
	}
	return res
}

func toDriver(v queries.DriverView) DriverResponse {
	open := v.OpenDeliveries
	return DriverResponse{
		ID:             v.ID.String(),
		Name:           v.Name,
		Phone:          v.Phone,
		VehicleType:    v.VehicleType,
		VehiclePlate:   v.VehiclePlate,
		IsActive:       v.IsActive,
		CurrentLat:     v.LastLat,
		CurrentLng:     v.LastLng,
		LastFixAt:      v.LastFixAt,
		OpenDeliveries: &open,
		CreatedAt:      v.CreatedAt,
	}
}

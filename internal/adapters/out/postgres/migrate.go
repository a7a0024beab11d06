package postgres

import (
	"gorm.io/gorm"

	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/deliveryrepo"
	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/driverrepo"
	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/orderrepo"
	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/paymentrepo"
	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/printjobrepo"
)

// At most one completed payment may exist per order.
const oneCompletedPaymentPerOrder = `CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_one_completed_per_order
ON payments (order_id) WHERE status = 'completed'`

// Tables lists every table Migrate manages, in truncation-safe order.
var Tables = []string{
	"location_history",
	"deliveries",
	"drivers",
	"print_jobs",
	"payments",
	"order_items",
	"orders",
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&paymentrepo.PaymentDTO{},
		&printjobrepo.PrintJobDTO{},
		&driverrepo.DriverDTO{},
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.LocationHistoryDTO{},
	)
	if err != nil {
		return err
	}
	return db.Exec(oneCompletedPaymentPerOrder).Error
}

package storage

// Collection keys
const (
	KeyMerchants    = "gt_db_merchants"
	KeyProducts     = "gt_db_products"
	KeyTransactions = "gt_db_transactions"
	KeyCustomers    = "gt_db_customers"
	KeyTickets      = "gt_db_tickets"
	KeyOperators    = "gt_db_operators"
)

// Keys lists every collection in seeding order
var Keys = []string{
	KeyMerchants,
	KeyProducts,
	KeyCustomers,
	KeyTickets,
	KeyTransactions,
	KeyOperators,
}

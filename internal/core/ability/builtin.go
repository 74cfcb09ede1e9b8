package ability

import (
	"context"
	"sort"
)

// Builtin is the metadata for every ability the intent catalogue targets
func Builtin() []Meta {
	return []Meta{
		// orders
		{ID: "afw/orders/list", Label: "List orders", Category: "orders", ReadOnly: true},
		{ID: "afw/orders/get", Label: "Get order", Category: "orders", ReadOnly: true},
		{ID: "afw/orders/search", Label: "Search orders", Category: "orders", ReadOnly: true},
		{ID: "afw/orders/notes", Label: "Order notes", Category: "orders", ReadOnly: true},
		{ID: "afw/orders/update-status", Label: "Update order status", Category: "orders"},
		{ID: "afw/orders/add-note", Label: "Add order note", Category: "orders"},
		{ID: "afw/orders/refund", Label: "Refund order", Category: "orders", Destructive: true},
		{ID: "afw/orders/cancel", Label: "Cancel order", Category: "orders", Destructive: true},
		{ID: "afw/orders/delete", Label: "Delete order", Category: "orders", Destructive: true},
		{ID: "afw/orders/refunds", Label: "List refunds", Category: "orders", ReadOnly: true},
		{ID: "afw/orders/export", Label: "Export orders", Category: "orders", ReadOnly: true},
		{ID: "afw/orders/resend-email", Label: "Resend order email", Category: "orders"},

		// products
		{ID: "afw/products/list", Label: "List products", Category: "products", ReadOnly: true},
		{ID: "afw/products/get", Label: "Get product", Category: "products", ReadOnly: true},
		{ID: "afw/products/search", Label: "Search products", Category: "products", ReadOnly: true},
		{ID: "afw/products/low-stock", Label: "Low stock products", Category: "products", ReadOnly: true},
		{ID: "afw/products/out-of-stock", Label: "Out of stock products", Category: "products", ReadOnly: true},
		{ID: "afw/products/top-sellers", Label: "Top sellers", Category: "products", ReadOnly: true},
		{ID: "afw/products/create", Label: "Create product", Category: "products"},
		{ID: "afw/products/update-stock", Label: "Update stock", Category: "products"},
		{ID: "afw/products/update-price", Label: "Update price", Category: "products"},
		{ID: "afw/products/delete", Label: "Delete product", Category: "products", Destructive: true},
		{ID: "afw/products/categories", Label: "Product categories", Category: "products", ReadOnly: true},
		{ID: "afw/products/create-category", Label: "Create category", Category: "products"},
		{ID: "afw/products/variations", Label: "Product variations", Category: "products", ReadOnly: true},
		{ID: "afw/products/duplicate", Label: "Duplicate product", Category: "products"},

		// customers
		{ID: "afw/customers/get", Label: "Get customer", Category: "customers", ReadOnly: true},
		{ID: "afw/customers/list", Label: "List customers", Category: "customers", ReadOnly: true},
		{ID: "afw/customers/top", Label: "Top customers", Category: "customers", ReadOnly: true},
		{ID: "afw/customers/delete", Label: "Delete customer", Category: "customers", Destructive: true},

		// coupons
		{ID: "afw/coupons/list", Label: "List coupons", Category: "coupons", ReadOnly: true},
		{ID: "afw/coupons/get", Label: "Get coupon", Category: "coupons", ReadOnly: true},
		{ID: "afw/coupons/create", Label: "Create coupon", Category: "coupons"},
		{ID: "afw/coupons/delete", Label: "Delete coupon", Category: "coupons", Destructive: true},
		{ID: "afw/coupons/update", Label: "Update coupon", Category: "coupons"},

		// reports and store
		{ID: "afw/reports/sales", Label: "Sales report", Category: "reports", ReadOnly: true},
		{ID: "afw/reports/orders", Label: "Orders summary", Category: "reports", ReadOnly: true},
		{ID: "afw/reports/average-order-value", Label: "Average order value", Category: "reports", ReadOnly: true},
		{ID: "afw/reports/abandoned-carts", Label: "Abandoned carts", Category: "reports", ReadOnly: true},
		{ID: "afw/reports/inventory-value", Label: "Inventory value", Category: "reports", ReadOnly: true},
		{ID: "afw/store/settings", Label: "Store settings", Category: "store", ReadOnly: true},
		{ID: "afw/store/shipping-zones", Label: "Shipping zones", Category: "store", ReadOnly: true},
		{ID: "afw/store/payment-gateways", Label: "Payment gateways", Category: "store", ReadOnly: true},
		{ID: "afw/store/tax-rates", Label: "Tax rates", Category: "store", ReadOnly: true},
		{ID: "afw/store/shipping-classes", Label: "Shipping classes", Category: "store", ReadOnly: true},
		{ID: "afw/store/webhooks", Label: "Webhooks", Category: "store", ReadOnly: true},
		{ID: "afw/reviews/list", Label: "List reviews", Category: "reviews", ReadOnly: true},
		{ID: "afw/reviews/approve", Label: "Approve review", Category: "reviews"},
		{ID: "afw/reviews/spam", Label: "Mark review as spam", Category: "reviews"},

		// customer self service
		{ID: "afw/customer/order-status", Label: "Order status", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/orders", Label: "My orders", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/cancel-order", Label: "Cancel my order", Category: "customer", Destructive: true},
		{ID: "afw/customer/product-info", Label: "Product info", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/shipping-info", Label: "Shipping info", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/return-policy", Label: "Return policy", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/coupon-check", Label: "Check coupon", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/contact", Label: "Contact support", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/update-address", Label: "Change my address", Category: "customer"},
		{ID: "afw/customer/payment-options", Label: "Payment options", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/store-hours", Label: "Opening hours", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/size-guide", Label: "Size guide", Category: "customer", ReadOnly: true},
		{ID: "afw/customer/newsletter", Label: "Newsletter subscription", Category: "customer"},

		// assistant
		{ID: HelpID, Label: "Help", Category: "assistant", ReadOnly: true},
	}
}

// HelpID is the ability answered locally with the list of capabilities
const HelpID = "afw/assistant/help"

// HelpFunc lists ability labels grouped by category
// a "scope" param of customer limits the listing to the customer category
func HelpFunc(c *Catalog) Func {
	return func(_ context.Context, params map[string]any) (any, error) {
		only, _ := params["scope"].(string)
		groups := map[string][]string{}
		for _, m := range c.List() {
			if m.ID == HelpID {
				continue
			}
			if only == "customer" && m.Category != "customer" {
				continue
			}
			groups[m.Category] = append(groups[m.Category], m.Label)
		}
		cats := make([]string, 0, len(groups))
		for k := range groups {
			cats = append(cats, k)
		}
		sort.Strings(cats)

		type section struct {
			Category string   `json:"category"`
			Can      []string `json:"can"`
		}
		out := make([]section, 0, len(cats))
		for _, k := range cats {
			out = append(out, section{Category: k, Can: groups[k]})
		}
		return map[string]any{"sections": out}, nil
	}
}

// NewBuiltinCatalog returns a Catalog with builtin metadata, the local help ability
// and exec for everything else
func NewBuiltinCatalog(exec Executor) *Catalog {
	opts := []CatalogOption{WithMetas(Builtin()...)}
	if exec != nil {
		opts = append(opts, WithExecutor(exec))
	}
	c := NewCatalog(opts...)
	help, _ := c.Describe(HelpID)
	_ = c.Register(help, HelpFunc(c))
	return c
}

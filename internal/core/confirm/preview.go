package confirm

import (
	"fmt"
	"strconv"
	"strings"

	"assistify/internal/core/ability"
)

// Previewer renders a human readable summary of a pending action
type Previewer func(meta ability.Meta, params map[string]any) string

var previews = map[string]Previewer{
	"afw/orders/refund": func(_ ability.Meta, p map[string]any) string {
		if amt, ok := num(p["amount"]); ok {
			return fmt.Sprintf("Refund $%.2f from Order #%s", amt, str(p["order_id"]))
		}
		return fmt.Sprintf("Refund full amount from Order #%s", str(p["order_id"]))
	},
	"afw/orders/cancel": func(_ ability.Meta, p map[string]any) string {
		return "Cancel Order #" + str(p["order_id"])
	},
	"afw/customer/cancel-order": func(_ ability.Meta, p map[string]any) string {
		return "Cancel your Order #" + str(p["order_id"])
	},
	"afw/orders/delete": func(_ ability.Meta, p map[string]any) string {
		return "Permanently delete Order #" + str(p["order_id"])
	},
	"afw/orders/update-status": func(_ ability.Meta, p map[string]any) string {
		if s := str(p["status"]); s != "?" {
			return fmt.Sprintf("Change Order #%s status to %s", str(p["order_id"]), s)
		}
		return "Change status of Order #" + str(p["order_id"])
	},
	"afw/orders/add-note": func(_ ability.Meta, p map[string]any) string {
		return "Add a note to Order #" + str(p["order_id"])
	},
	"afw/products/create": func(_ ability.Meta, p map[string]any) string {
		name := str(p["name"])
		if price, ok := num(p["price"]); ok {
			return fmt.Sprintf("Create product %q priced $%.2f", name, price)
		}
		return fmt.Sprintf("Create product %q", name)
	},
	"afw/products/update-stock": func(_ ability.Meta, p map[string]any) string {
		return fmt.Sprintf("Set stock of Product #%s to %s", str(p["product_id"]), str(p["quantity"]))
	},
	"afw/products/update-price": func(_ ability.Meta, p map[string]any) string {
		if price, ok := num(p["price"]); ok {
			return fmt.Sprintf("Set price of Product #%s to $%.2f", str(p["product_id"]), price)
		}
		return "Change price of Product #" + str(p["product_id"])
	},
	"afw/products/delete": func(_ ability.Meta, p map[string]any) string {
		return "Permanently delete Product #" + str(p["product_id"])
	},
	"afw/coupons/create": func(_ ability.Meta, p map[string]any) string {
		return "Create coupon " + str(p["code"])
	},
	"afw/coupons/delete": func(_ ability.Meta, p map[string]any) string {
		return "Permanently delete coupon " + str(p["code"])
	},
	"afw/customers/delete": func(_ ability.Meta, p map[string]any) string {
		return "Permanently delete Customer #" + str(p["customer_id"])
	},
	"afw/reviews/approve": func(_ ability.Meta, p map[string]any) string {
		return "Approve Review #" + str(p["review_id"])
	},
	"afw/reviews/spam": func(_ ability.Meta, p map[string]any) string {
		return "Mark Review #" + str(p["review_id"]) + " as spam"
	},
	"afw/orders/resend-email": func(_ ability.Meta, p map[string]any) string {
		return "Resend the email for Order #" + str(p["order_id"])
	},
	"afw/customer/update-address": func(_ ability.Meta, p map[string]any) string {
		return "Change the shipping address on your Order #" + str(p["order_id"])
	},
	"afw/products/create-category": func(_ ability.Meta, p map[string]any) string {
		return fmt.Sprintf("Create category %q", str(p["name"]))
	},
}

// identifiers are tried in order for the fallback preview
var identifiers = []struct{ key, format string }{
	{"order_id", "Order #%s"},
	{"product_id", "Product #%s"},
	{"customer_id", "Customer #%s"},
	{"review_id", "Review #%s"},
	{"code", "coupon %s"},
	{"sku", "SKU %s"},
}

// Preview renders the summary for abilityID
func Preview(meta ability.Meta, params map[string]any) string {
	if fn, ok := previews[meta.ID]; ok {
		return fn(meta, params)
	}
	label := meta.Label
	if label == "" {
		label = meta.ID
	}
	for _, id := range identifiers {
		if v, ok := params[id.key]; ok {
			return label + ": " + fmt.Sprintf(id.format, str(v))
		}
	}
	return label
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return "?"
	case string:
		if strings.TrimSpace(x) == "" {
			return "?"
		}
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func num(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

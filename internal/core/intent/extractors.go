package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// extractor regexes are case-insensitive; they read the original text

var (
	reOrderID    = regexp.MustCompile(`(?i)\border\s*(?:number|num|no\.?|id)?\s*[:#]?\s*(\d{1,12})\b`)
	reHashID     = regexp.MustCompile(`#\s*(\d{1,12})\b`)
	reProductID  = regexp.MustCompile(`(?i)\b(?:product|item)\s*(?:id)?\s*[:#]?\s*(\d{1,12})\b`)
	reCustomerID = regexp.MustCompile(`(?i)\b(?:customer|user|client)\s*(?:id)?\s*[:#]?\s*(\d{1,12})\b`)
	reReviewID   = regexp.MustCompile(`(?i)\b(?:review|comment)\s*(?:id)?\s*[:#]?\s*(\d{1,12})\b`)
	reSKU        = regexp.MustCompile(`(?i)\bsku\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9_-]*)`)
	reEmail      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	reOrderStatus = regexp.MustCompile(`(?i)\b(pending(?: payment)?|processing|on[\s-]?hold|completed?|cancell?ed|refunded|failed|draft)\b`)
	reStockStatus = regexp.MustCompile(`(?i)\b(out of stock|in stock|on backorder|backorder(?:ed)?)\b`)

	reMoney       = regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)
	reMoneySuffix = regexp.MustCompile(`(?i)\b(\d+(?:\.\d{1,2})?)\s*(?:dollars|usd|eur|euros?|gbp)\b`)
	rePrice       = regexp.MustCompile(`(?i)\bprice\s*(?:to|of|at|=|:)?\s*\$?\s*(\d+(?:\.\d{1,2})?)`)
	rePercent     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:%|percent\b)`)
	reQuantity    = regexp.MustCompile(`(?i)\b(?:stock|quantity|qty|inventory)\s*(?:level)?\s*(?:to|of|at|=|:)?\s*(\d{1,9})\b`)
	reSetTo       = regexp.MustCompile(`(?i)\bset\b.*?\bto\s+(\d{1,9})\b`)
	reLimit       = regexp.MustCompile(`(?i)\b(?:top|last|first|latest|recent|best)\s+(\d{1,4})\b(\s+(?:days?|weeks?|months?|years?)\b)?`)
	reThreshold   = regexp.MustCompile(`(?i)(?:\bbelow|\bunder|\bless than|\bfewer than|<)\s*(\d{1,9})\b`)

	reCouponCode = regexp.MustCompile(`(?i)\b(?:coupon|promo|discount code|voucher|code)\s*(?:code)?\s*(?:called|named)?\s*[:#]?\s*["']?([A-Za-z0-9][A-Za-z0-9_-]{2,31})`)
	reQuoted     = regexp.MustCompile(`"([^"]{1,120})"|'([^']{1,120})'|“([^”]{1,120})”`)
	reCalled     = regexp.MustCompile(`(?i)\b(?:called|named|titled)\s+([^,.!?$]+?)(?:\s+(?:for|at|with|priced|costing)\b|[,.!?$]|$)`)
	reSearch     = regexp.MustCompile(`(?i)\b(?:search(?:ing)?|find|look(?:ing)?\s+(?:up|for)|lookup)\s+(?:(?:the|all|my)\s+)?(?:(?:products?|orders?|customers?|items?)\s+)?(?:for\s+|named\s+|called\s+|matching\s+|with\s+)?["']?([^"'?!.]+)`)
	reAbout      = regexp.MustCompile(`(?i)\b(?:about|info(?:rmation)? on|details (?:on|for)|tell me about)\s+(?:the\s+)?["']?([^"'?!.]+)`)
	reNote       = regexp.MustCompile(`(?i)\b(?:note|comment)\b[^:"']*?[:\-]\s*(.+)$`)
	reReason     = regexp.MustCompile(`(?i)\b(?:because|reason\s*:?|due to)\s+(.+?)\s*[.!]?$`)
	reLastNDays  = regexp.MustCompile(`(?i)\b(?:last|past|previous)\s+(\d{1,3})\s+days?\b`)
	reRating     = regexp.MustCompile(`(?i)\b([1-5])\s*(?:-|\s)?stars?\b`)
)

// couponStopwords are words that follow "coupon" in prose but are never codes
var couponStopwords = map[string]struct{}{
	"for": {}, "with": {}, "that": {}, "the": {}, "code": {}, "codes": {}, "called": {}, "named": {},
	"and": {}, "list": {}, "usage": {}, "details": {}, "info": {}, "off": {}, "from": {}, "this": {},
	"which": {}, "worth": {}, "amount": {},
}

// searchTrailers are trimmed from the end of captured search terms
var searchTrailers = []string{" please", " for me", " in the store", " in stock", " products", " product"}

// OrderID finds an order number following "order" or a bare "#1234"
func OrderID(text string) Params {
	if n, ok := firstInt(reOrderID, text); ok {
		return Params{"order_id": n}
	}
	if n, ok := firstInt(reHashID, text); ok {
		return Params{"order_id": n}
	}
	return nil
}

// ProductID finds a numeric product id
func ProductID(text string) Params {
	if n, ok := firstInt(reProductID, text); ok {
		return Params{"product_id": n}
	}
	return nil
}

// CustomerID finds a numeric customer id
func CustomerID(text string) Params {
	if n, ok := firstInt(reCustomerID, text); ok {
		return Params{"customer_id": n}
	}
	return nil
}

// ReviewID finds a numeric review id
func ReviewID(text string) Params {
	if n, ok := firstInt(reReviewID, text); ok {
		return Params{"review_id": n}
	}
	return nil
}

// SKU captures a product sku as typed
func SKU(text string) Params {
	if m := reSKU.FindStringSubmatch(text); m != nil {
		return Params{"sku": m[1]}
	}
	return nil
}

// Email captures the first email address, lower-cased
func Email(text string) Params {
	if m := reEmail.FindString(text); m != "" {
		return Params{"email": strings.ToLower(m)}
	}
	return nil
}

// OrderStatus maps the first status word to its canonical slug
func OrderStatus(text string) Params {
	m := reOrderStatus.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	w := strings.ToLower(m[1])
	var slug string
	switch {
	case strings.HasPrefix(w, "pending"):
		slug = "pending"
	case strings.HasPrefix(w, "on"):
		slug = "on-hold"
	case strings.HasPrefix(w, "complete"):
		slug = "completed"
	case strings.HasPrefix(w, "cancel"):
		slug = "cancelled"
	case w == "draft":
		slug = "checkout-draft"
	default:
		slug = w
	}
	return Params{"status": slug}
}

// StockStatus maps stock phrases to stock status slugs
func StockStatus(text string) Params {
	m := reStockStatus.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	switch w := strings.ToLower(m[1]); {
	case w == "out of stock":
		return Params{"stock_status": "outofstock"}
	case w == "in stock":
		return Params{"stock_status": "instock"}
	default:
		return Params{"stock_status": "onbackorder"}
	}
}

// Amount finds a currency amount such as "$42.00" or "15 dollars"
func Amount(text string) Params {
	if v, ok := money(text); ok {
		return Params{"amount": v}
	}
	return nil
}

// Price finds a price after "price", falling back to any currency amount
func Price(text string) Params {
	if m := rePrice.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return Params{"price": v}
		}
	}
	if v, ok := money(text); ok {
		return Params{"price": v}
	}
	return nil
}

// Discount reads a coupon discount as a percentage or a fixed amount
func Discount(text string) Params {
	if m := rePercent.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 && v <= 100 {
			return Params{"discount_type": "percent", "amount": v}
		}
	}
	if v, ok := money(text); ok {
		return Params{"discount_type": "fixed_cart", "amount": v}
	}
	return nil
}

// Quantity reads a stock quantity such as "stock to 25" or "set ... to 25"
func Quantity(text string) Params {
	if n, ok := firstInt(reQuantity, text); ok {
		return Params{"quantity": n}
	}
	if n, ok := firstInt(reSetTo, text); ok {
		return Params{"quantity": n}
	}
	return nil
}

// Limit reads "top 5" or "last 10" style list sizes, ignoring "last 7 days"
func Limit(text string) Params {
	for _, m := range reLimit.FindAllStringSubmatch(text, -1) {
		if m[2] != "" {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if n > 100 {
			n = 100
		}
		return Params{"limit": n}
	}
	return nil
}

// Threshold reads "below 5" style stock thresholds
func Threshold(text string) Params {
	if n, ok := firstInt(reThreshold, text); ok {
		return Params{"threshold": n}
	}
	return nil
}

// CouponCode captures a coupon code keeping its original case
func CouponCode(text string) Params {
	for _, m := range reCouponCode.FindAllStringSubmatch(text, -1) {
		code := m[1]
		if _, stop := couponStopwords[strings.ToLower(code)]; stop {
			continue
		}
		return Params{"code": code}
	}
	return nil
}

// SearchTerm captures the free text after "search for", "find" and similar
func SearchTerm(text string) Params {
	m := reSearch.FindStringSubmatch(text)
	if m == nil {
		m = reAbout.FindStringSubmatch(text)
	}
	if m == nil {
		return nil
	}
	term := strings.TrimSpace(m[1])
	lower := strings.ToLower(term)
	for _, tr := range searchTrailers {
		if strings.HasSuffix(lower, tr) {
			term = strings.TrimSpace(term[:len(term)-len(tr)])
			lower = strings.ToLower(term)
		}
	}
	if term == "" {
		return nil
	}
	return Params{"search": term}
}

// ProductName captures a quoted or "called X" product name
func ProductName(text string) Params {
	if name := quoted(text); name != "" {
		return Params{"name": name}
	}
	if m := reCalled.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return Params{"name": name}
		}
	}
	return nil
}

// Note captures text after "note:" or a quoted note
func Note(text string) Params {
	if m := reNote.FindStringSubmatch(text); m != nil {
		if n := strings.Trim(strings.TrimSpace(m[1]), `"'`); n != "" {
			return Params{"note": n}
		}
	}
	if q := quoted(text); q != "" {
		return Params{"note": q}
	}
	return nil
}

// Reason captures the explanation after "because" or "reason:"
func Reason(text string) Params {
	if m := reReason.FindStringSubmatch(text); m != nil {
		if r := strings.TrimSpace(m[1]); r != "" {
			return Params{"reason": r}
		}
	}
	return nil
}

// Rating reads "5 stars" style review ratings
func Rating(text string) Params {
	if n, ok := firstInt(reRating, text); ok {
		return Params{"rating": n}
	}
	return nil
}

// DateRange resolves relative periods against now into date_from and date_to
// dates are calendar days in now's location formatted as YYYY-MM-DD
func DateRange(now Clock) Extractor {
	return func(text string) Params {
		if now == nil {
			return nil
		}
		t := now()
		today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		lower := strings.ToLower(text)

		span := func(period string, from, to time.Time) Params {
			return Params{
				"period":    period,
				"date_from": from.Format(time.DateOnly),
				"date_to":   to.Format(time.DateOnly),
			}
		}

		if m := reLastNDays.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return span("last_"+m[1]+"_days", today.AddDate(0, 0, -(n-1)), today)
			}
		}

		// longest phrases first so "last month" wins over "month"
		switch {
		case strings.Contains(lower, "yesterday"):
			d := today.AddDate(0, 0, -1)
			return span("yesterday", d, d)
		case strings.Contains(lower, "tomorrow"):
			d := today.AddDate(0, 0, 1)
			return span("tomorrow", d, d)
		case strings.Contains(lower, "today"), strings.Contains(lower, "tonight"):
			return span("today", today, today)
		case strings.Contains(lower, "last week"), strings.Contains(lower, "previous week"):
			start := weekStart(today).AddDate(0, 0, -7)
			return span("last_week", start, start.AddDate(0, 0, 6))
		case strings.Contains(lower, "this week"):
			return span("this_week", weekStart(today), today)
		case strings.Contains(lower, "last month"), strings.Contains(lower, "previous month"):
			first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
			prev := first.AddDate(0, -1, 0)
			return span("last_month", prev, first.AddDate(0, 0, -1))
		case strings.Contains(lower, "this month"):
			first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
			return span("this_month", first, today)
		case strings.Contains(lower, "last year"):
			first := time.Date(today.Year()-1, 1, 1, 0, 0, 0, 0, today.Location())
			return span("last_year", first, time.Date(today.Year()-1, 12, 31, 0, 0, 0, 0, today.Location()))
		case strings.Contains(lower, "this year"):
			first := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
			return span("this_year", first, today)
		}
		return nil
	}
}

// Chain runs extractors in order; earlier extractors win on key conflicts
func Chain(exs ...Extractor) Extractor {
	switch len(exs) {
	case 0:
		return nil
	case 1:
		return exs[0]
	}
	return func(text string) Params {
		var out Params
		for _, ex := range exs {
			if ex == nil {
				continue
			}
			out = out.Merge(ex(text))
		}
		return out
	}
}

// extractorFactories is the closed set of extractors rule files may name
var extractorFactories = map[string]func(Clock) Extractor{
	"order_id":     static(OrderID),
	"product_id":   static(ProductID),
	"customer_id":  static(CustomerID),
	"review_id":    static(ReviewID),
	"sku":          static(SKU),
	"email":        static(Email),
	"order_status": static(OrderStatus),
	"stock_status": static(StockStatus),
	"amount":       static(Amount),
	"price":        static(Price),
	"discount":     static(Discount),
	"quantity":     static(Quantity),
	"limit":        static(Limit),
	"threshold":    static(Threshold),
	"coupon_code":  static(CouponCode),
	"search_term":  static(SearchTerm),
	"product_name": static(ProductName),
	"note":         static(Note),
	"reason":       static(Reason),
	"rating":       static(Rating),
	"date_range":   DateRange,
}

// ExtractorNames lists the extractor names rule files may use, sorted
func ExtractorNames() []string {
	out := make([]string, 0, len(extractorFactories))
	for k := range extractorFactories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func static(fn Extractor) func(Clock) Extractor {
	return func(Clock) Extractor { return fn }
}

func firstInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func money(text string) (float64, bool) {
	if m := reMoney.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			return v, true
		}
	}
	if m := reMoneySuffix.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func quoted(text string) string {
	m := reQuoted.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g = strings.TrimSpace(g); g != "" {
			return g
		}
	}
	return ""
}

// weekStart returns the Monday of d's week
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

package classifier

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"assistify/internal/core/intent"

	"github.com/stretchr/testify/require"
)

func rx(s string) *regexp.Regexp { return regexp.MustCompile(s) }

func TestClassify_NoOverlapIsEmpty(t *testing.T) {
	c := New(intent.MustTable(
		intent.Pattern{Name: "refund", AbilityID: "afw/orders/refund", Keywords: []string{"refund"}},
		intent.Pattern{Name: "stock", AbilityID: "afw/products/low-stock", Regexes: []*regexp.Regexp{rx(`\blow\s+stock\b`)}},
	))

	require.Empty(t, c.Classify("what a lovely day"))
	require.Empty(t, c.Classify(""))
	_, ok := c.BestMatch("nothing relevant")
	require.False(t, ok)
}

func TestClassify_KeywordAndRegexWeights(t *testing.T) {
	c := New(intent.MustTable(intent.Pattern{
		Name:      "get_order",
		AbilityID: "afw/orders/get",
		Keywords:  []string{"order details"},
		Regexes:   []*regexp.Regexp{rx(`\border\s*#?\s*\d+`)},
	}))

	m, ok := c.BestMatch("Order Details please")
	require.True(t, ok)
	require.Equal(t, 1, m.Score)
	require.Equal(t, []string{"order details"}, m.Keywords)

	m, ok = c.BestMatch("what about order #12")
	require.True(t, ok)
	require.Equal(t, 3, m.Score)
	require.Len(t, m.Regexes, 1)

	m, _ = c.BestMatch("order details for order 12")
	require.Equal(t, 4, m.Score)
}

func TestClassify_KeywordCountsOncePerPattern(t *testing.T) {
	c := New(intent.MustTable(intent.Pattern{
		Name: "refund", AbilityID: "r", Keywords: []string{"refund", "refund order"},
	}))
	m, ok := c.BestMatch("refund refund refund order")
	require.True(t, ok)
	require.Equal(t, 2, m.Score)
}

func TestClassify_ScoreBeatsPriority(t *testing.T) {
	c := New(intent.MustTable(
		intent.Pattern{
			Name: "low_priority_high_score", AbilityID: "a", Priority: 1,
			Keywords: []string{"alpha", "beta"}, Regexes: []*regexp.Regexp{rx(`gamma`)},
		},
		intent.Pattern{
			Name: "high_priority_low_score", AbilityID: "b", Priority: 9,
			Regexes: []*regexp.Regexp{rx(`alpha`)},
		},
	))

	ms := c.Classify("alpha beta gamma")
	require.Len(t, ms, 2)
	require.Equal(t, "low_priority_high_score", ms[0].Intent)
	require.Equal(t, 5, ms[0].Score)
	require.Equal(t, "high_priority_low_score", ms[1].Intent)
	require.Equal(t, 3, ms[1].Score)
}

func TestClassify_PriorityBreaksScoreTies(t *testing.T) {
	c := New(intent.MustTable(
		intent.Pattern{Name: "first", AbilityID: "a", Priority: 2, Keywords: []string{"stock"}},
		intent.Pattern{Name: "second", AbilityID: "b", Priority: 7, Keywords: []string{"stock"}},
		intent.Pattern{Name: "third", AbilityID: "c", Priority: 2, Keywords: []string{"stock"}},
	))

	ms := c.Classify("stock")
	require.Len(t, ms, 3)
	require.Equal(t, "second", ms[0].Intent)
	// equal score and priority keep registration order
	require.Equal(t, "first", ms[1].Intent)
	require.Equal(t, "third", ms[2].Intent)
}

func TestClassify_ExtractorSeesOriginalCase(t *testing.T) {
	var seen string
	c := New(intent.MustTable(intent.Pattern{
		Name: "coupon", AbilityID: "afw/coupons/get", Keywords: []string{"coupon"},
		Extract: func(text string) intent.Params {
			seen = text
			return intent.CouponCode(text)
		},
	}))

	m, ok := c.BestMatch("  Show COUPON SummerSale ")
	require.True(t, ok)
	require.Equal(t, "Show COUPON SummerSale", seen)
	require.Equal(t, intent.Params{"code": "SummerSale"}, m.Params)
}

func TestClassify_ScopeOption(t *testing.T) {
	tbl := intent.MustTable(
		intent.Pattern{Name: "admin_refund", AbilityID: "a", Scope: intent.ScopeAdmin, Keywords: []string{"refund"}},
		intent.Pattern{Name: "return_policy", AbilityID: "b", Scope: intent.ScopeCustomer, Keywords: []string{"refund"}},
	)

	admin := New(tbl, WithScope(intent.ScopeAdmin))
	ms := admin.Classify("refund")
	require.Len(t, ms, 1)
	require.Equal(t, "admin_refund", ms[0].Intent)

	all := New(tbl)
	require.Len(t, all.Classify("refund"), 2)
	require.Equal(t, 1, admin.Table().Len())
}

func TestExplain(t *testing.T) {
	c := New(intent.MustTable(intent.Pattern{Name: "help", AbilityID: "h", Keywords: []string{"help"}}))
	ex := c.Explain("  HELP  ")
	require.Equal(t, "HELP", ex.Message)
	require.Equal(t, "help", ex.Folded)
	require.Len(t, ex.Matches, 1)
}

func TestClassify_Concurrent(t *testing.T) {
	c := New(intent.MustLoad(time.Now))
	done := make(chan struct{})
	for range 16 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 50 {
				if _, ok := c.BestMatch("refund order #1042"); !ok {
					t.Errorf("expected a match")
					return
				}
			}
		}()
	}
	for range 16 {
		<-done
	}
}

func TestBuiltin_Routing(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }
	tbl := intent.MustLoad(now)
	admin := New(tbl, WithScope(intent.ScopeAdmin))
	customer := New(tbl, WithScope(intent.ScopeCustomer))

	cases := []struct {
		c       *Classifier
		message string
		intent  string
		ability string
		params  intent.Params
	}{
		{admin, "refund order #1042", "refund_order", "afw/orders/refund", intent.Params{"order_id": 1042}},
		{admin, "show low stock products", "low_stock", "afw/products/low-stock", nil},
		{admin, "cancel order #77", "cancel_order", "afw/orders/cancel", intent.Params{"order_id": 77}},
		{admin, "delete coupon SUMMER20", "delete_coupon", "afw/coupons/delete", intent.Params{"code": "SUMMER20"}},
		{admin, "resend the invoice for order #1042", "resend_order_email", "afw/orders/resend-email", intent.Params{"order_id": 1042}},
		{admin, "mark review 19 as spam", "spam_review", "afw/reviews/spam", intent.Params{"review_id": 19}},
		{customer, "change my address for order #1042", "customer_update_address", "afw/customer/update-address", intent.Params{"order_id": 1042}},
		{customer, "where is my order #1042", "customer_order_status", "afw/customer/order-status", intent.Params{"order_id": 1042}},
	}
	for _, tc := range cases {
		m, ok := tc.c.BestMatch(tc.message)
		require.True(t, ok, tc.message)
		require.Equal(t, tc.intent, m.Intent, tc.message)
		require.Equal(t, tc.ability, m.AbilityID, tc.message)
		require.Equal(t, tc.params, m.Params, tc.message)
	}

	refund, _ := admin.BestMatch("refund order #1042")
	require.True(t, refund.IsAction)
	require.GreaterOrEqual(t, refund.Score, 5)
}

func TestLint_BuiltinExamplesRouteHome(t *testing.T) {
	require.Empty(t, Lint(intent.MustLoad(nil)))
}

func TestClassify_HundredsOfCompetingPatterns(t *testing.T) {
	var extra []intent.Pattern
	for i := range 300 {
		noun := fmt.Sprintf("widget%03d", i)
		extra = append(extra, intent.Pattern{
			Name: "list_" + noun, AbilityID: "afw/widgets/" + noun, Scope: intent.ScopeAdmin,
			Keywords: []string{noun, "widgets"},
			Regexes:  []*regexp.Regexp{rx(`\bshow\s+` + noun + `\b`)},
			Examples: []string{"show " + noun + " widgets"},
		})
	}
	tbl, err := intent.MustLoad(nil).Extend(extra...)
	require.NoError(t, err)
	require.Greater(t, tbl.Len(), 350)
	require.Empty(t, Lint(tbl))

	admin := New(tbl, WithScope(intent.ScopeAdmin))
	ms := admin.Classify("show widget042 widgets")
	require.Len(t, ms, 300, "every widget pattern competes on the shared keyword")
	require.Equal(t, "list_widget042", ms[0].Intent)
	require.Equal(t, 5, ms[0].Score)
	require.Equal(t, 1, ms[1].Score)

	m, ok := admin.BestMatch("refund order #1042")
	require.True(t, ok)
	require.Equal(t, "refund_order", m.Intent)
}

func TestLint_ReportsMisroutedExample(t *testing.T) {
	tbl := intent.MustTable(
		intent.Pattern{Name: "get_order", AbilityID: "afw/orders/get", Scope: intent.ScopeAdmin,
			Regexes: []*regexp.Regexp{rx(`\border\s*#?\d+`)}, Examples: []string{"order #5"}},
		intent.Pattern{Name: "refund_order", AbilityID: "afw/orders/refund", Scope: intent.ScopeAdmin,
			Keywords: []string{"refund"}, Examples: []string{"refund order #5"}},
	)
	got := Lint(tbl)
	require.Equal(t, []Misroute{{Pattern: "refund_order", Example: "refund order #5", Scope: intent.ScopeAdmin, Got: "get_order"}}, got)
}

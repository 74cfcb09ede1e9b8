package raw

import "testing"

func TestConf(t *testing.T) {
	c := New().Prefix("LOG_")
	t.Setenv("LOG_FORMAT", " json ")
	t.Setenv("LOG_CALLER", "YES")
	t.Setenv("LOG_COLOR", "off")

	if c != Conf("LOG_") {
		t.Fatalf("prefix %q want %q", c, "LOG_")
	}
	if got := c.Get("FORMAT", "console"); got != "json" {
		t.Fatalf("FORMAT %q want json", got)
	}
	if got := c.Get("MISSING", "console"); got != "console" {
		t.Fatalf("MISSING %q want default", got)
	}

	if !c.GetBool("CALLER", false) {
		t.Fatal("CALLER=YES should be true")
	}
	if !c.GetBool("MISSING", true) {
		t.Fatal("missing bool should fall back to default")
	}
	if c.GetBool("COLOR", true) {
		t.Fatal("COLOR=off should be false")
	}
}

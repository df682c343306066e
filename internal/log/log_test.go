package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"dressmarket/internal/domain"
	applog "dressmarket/internal/log"
)

// capture redirects the process logger and returns the last JSON object
// written during fn. The stdlib prefix is skipped up to the first brace.
func capture(t *testing.T, fn func()) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	stdlog.SetOutput(&buf)
	defer stdlog.SetOutput(os.Stderr)

	fn()

	line := strings.TrimSpace(buf.String())
	i := strings.IndexByte(line, '{')
	if i < 0 {
		t.Fatalf("no JSON line written: %q", line)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(line[i:]), &out); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	return out
}

func TestAuditLineCarriesShopperIdentity(t *testing.T) {
	app := fiber.New()
	app.Get("/cart", func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-1")
		c.Locals("user", &domain.User{ID: "u-asha", Role: "CUSTOMER"})
		applog.Audit(c, "cart.add", map[string]any{"dress_id": "drs-001"})
		return c.SendString("ok")
	})

	got := capture(t, func() {
		req := httptest.NewRequest("GET", "/cart", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "sess-1"})
		if _, err := app.Test(req, -1); err != nil {
			t.Fatal(err)
		}
	})

	for k, want := range map[string]string{
		"level": "audit", "event": "cart.add", "req_id": "req-1",
		"sid": "sess-1", "user_id": "u-asha", "role": "CUSTOMER",
	} {
		if got[k] != want {
			t.Fatalf("%s = %v, want %q (line %v)", k, got[k], want, got)
		}
	}
	fields, _ := got["fields"].(map[string]any)
	if fields["dress_id"] != "drs-001" {
		t.Fatalf("fields missing dress_id: %v", got)
	}
}

func TestErrorLineWithoutRequest(t *testing.T) {
	got := capture(t, func() {
		applog.Error(nil, "index.rebuild", errors.New("disk full"), nil)
	})
	if got["level"] != "error" || got["event"] != "index.rebuild" || got["err"] != "disk full" {
		t.Fatalf("unexpected line: %v", got)
	}
	if _, has := got["sid"]; has {
		t.Fatalf("no session fields expected off-request: %v", got)
	}
}

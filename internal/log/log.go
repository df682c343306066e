// Package log writes one JSON line per event. Request lines are enriched
// from the fiber ctx with the shopper's session cookie and, when the route
// resolved one, the signed-in user, so cart and inventory events can be
// correlated without joining access logs.
package log

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"dressmarket/internal/domain"
)

type entry struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	Event  string         `json:"event"`
	ReqID  string         `json:"req_id,omitempty"`
	SID    string         `json:"sid,omitempty"`
	UserID string         `json:"user_id,omitempty"`
	Role   string         `json:"role,omitempty"`
	IP     string         `json:"ip,omitempty"`
	Method string         `json:"method,omitempty"`
	Path   string         `json:"path,omitempty"`
	Status int            `json:"status,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

func write(level string, c *fiber.Ctx, event string, err error, fields map[string]any) {
	e := entry{
		TS:     time.Now().UTC().Format(time.RFC3339),
		Level:  level,
		Event:  event,
		Fields: fields,
	}
	if c != nil {
		e.IP = c.IP()
		e.Method = c.Method()
		e.Path = c.Path()
		e.Status = c.Response().StatusCode()
		e.SID = c.Cookies("sid")
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e.ReqID = rid
		}
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			e.UserID = u.ID
			e.Role = u.Role
		}
	}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

// Info records normal request milestones.
func Info(c *fiber.Ctx, event string, fields map[string]any) { write("info", c, event, nil, fields) }

// Audit records account, cart, and inventory mutations.
func Audit(c *fiber.Ctx, event string, fields map[string]any) {
	write("audit", c, event, nil, fields)
}

// Security records denials and rejected input.
func Security(c *fiber.Ctx, event string, fields map[string]any) {
	write("warn", c, event, nil, fields)
}

func Error(c *fiber.Ctx, event string, err error, fields map[string]any) {
	write("error", c, event, err, fields)
}

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// readCalculateRequest extracts the food name and raw quantity from a
// calculate request. The body is read once and decoded as JSON when possible,
// falling back to form encoding. Both the Portuguese and English field names
// are accepted, and the quantity may be a string or a number. Returns
// ok=false when either field is missing or empty.
func readCalculateRequest(c *gin.Context) (food, quantity string, ok bool) {
	fields := map[string]string{}

	raw, err := io.ReadAll(c.Request.Body)
	if err == nil && len(raw) > 0 {
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()

		var body map[string]any
		if decoder.Decode(&body) == nil {
			for key, value := range body {
				fields[key] = stringifyValue(value)
			}
		} else if values, err := url.ParseQuery(string(raw)); err == nil {
			for key, vs := range values {
				if len(vs) > 0 {
					fields[key] = vs[0]
				}
			}
		}
	}

	food = firstNonEmpty(fields, "alimento", "food")
	quantity = firstNonEmpty(fields, "quantidade", "quantity")

	return food, quantity, food != "" && quantity != ""
}

// stringifyValue renders a JSON field value as the string the quantity parser
// expects. Numbers keep the exact digits the client sent.
func stringifyValue(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func firstNonEmpty(fields map[string]string, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(fields[key]); value != "" {
			return value
		}
	}
	return ""
}

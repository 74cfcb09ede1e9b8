//go:build swag

package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"assistify/internal/modkit/httpkit"
	"assistify/internal/platform/config"
	perr "assistify/internal/platform/errors"

	docs "assistify/internal/services/api/docs"
)

var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// defaultResponses are attached to every operation that does not declare them
var defaultResponses = map[int]struct {
	code    perr.ErrorCode
	message string
}{
	http.StatusBadRequest:          {perr.ErrorCodeValidation, "message is a required field"},
	http.StatusUnprocessableEntity: {perr.ErrorCodeInvalidArgument, "session_id is required to request actions anonymously"},
	http.StatusInternalServerError: {perr.ErrorCodeUnknown, "panic recovered"},
}

// serveDocJSON serves the generated spec lifted to OAS 3.0 with the shared error envelope
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		normalizeVersion(spec)
		if _, ok := spec["servers"]; !ok {
			spec["servers"] = []any{map[string]any{"url": httpkit.APIV1}}
		}
		if v := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}
		addErrorSchema(spec)
		addDefaultResponses(spec)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// normalizeVersion lifts swagger 2 and lowers 3.1, the bundled UI renders 3.0 only
func normalizeVersion(spec map[string]any) {
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
		spec["openapi"] = "3.0.3"
		return
	}
	v, ok := spec["openapi"].(string)
	if !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
}

func child(parent map[string]any, key string) map[string]any {
	m, ok := parent[key].(map[string]any)
	if !ok {
		m = map[string]any{}
		parent[key] = m
	}
	return m
}

func addErrorSchema(spec map[string]any) {
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	str := map[string]any{"type": "string"}
	num := map[string]any{"type": "integer", "format": "int32"}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Error envelope shared by every endpoint",
		"properties": map[string]any{
			"status_code": num,
			"status":      str,
			"code":        num,
			"error":       str,
			"field":       str,
			"request_id":  str,
		},
		"required": []any{"status_code", "status"},
	}
}

func addDefaultResponses(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps := child(op, "responses")
			for status, d := range defaultResponses {
				key := strconv.Itoa(status)
				if _, exists := resps[key]; exists {
					continue
				}
				resps[key] = map[string]any{
					"description": http.StatusText(status),
					"content": map[string]any{
						"application/json": map[string]any{
							"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
							"example": map[string]any{
								"status_code": status,
								"status":      http.StatusText(status),
								"code":        int(d.code),
								"error":       d.message,
							},
						},
					},
				}
			}
		}
	}
}

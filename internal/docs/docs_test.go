package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}

	var parsed struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("doc is not valid JSON: %v", err)
	}
	if parsed.BasePath != "/api" {
		t.Errorf("expected basePath /api, got %q", parsed.BasePath)
	}
	for _, path := range []string{"/health", "/v1/quote/{symbol}", "/v1/portfolio", "/v1/history"} {
		if _, ok := parsed.Paths[path]["get"]; !ok {
			t.Errorf("missing GET %s", path)
		}
	}
}

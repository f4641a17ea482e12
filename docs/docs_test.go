package docs

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRenders(t *testing.T) {
	SwaggerInfo.Host = "localhost:8080"
	SwaggerInfo.Schemes = []string{"http"}

	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Host  string                    `json:"host"`
		Info  struct{ Title string }    `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "localhost:8080", parsed.Host)
	assert.Equal(t, "XD Container API", parsed.Info.Title)
	assert.Contains(t, parsed.Paths, "/documents/{id}/resources/{uid}")
	assert.Contains(t, parsed.Paths["/documents"], "post")
}

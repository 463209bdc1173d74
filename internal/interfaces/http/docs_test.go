package http_test

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/docs"
	apphttp "github.com/jhoicas/invoicing-api/internal/interfaces/http"
)

var fiberParam = regexp.MustCompile(`:(\w+)`)

// Cada ruta de la tabla debe estar documentada con el mismo método; si falla,
// falta un bloque godoc o hay que correr swag init.
func TestDocs_CubreTodasLasRutas(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	for _, r := range apphttp.Routes(apphttp.RouterDeps{}) {
		path := fiberParam.ReplaceAllString(r.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "ruta sin documentar: %s", path) {
			continue
		}
		_, ok = ops[strings.ToLower(r.Method)]
		assert.True(t, ok, "método sin documentar: %s %s", r.Method, path)
	}
}

func TestDocs_RutasDeAdminPidenToken(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Security []map[string][]string `json:"security"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	for _, r := range apphttp.Routes(apphttp.RouterDeps{}) {
		path := fiberParam.ReplaceAllString(r.Path, "{$1}")
		op, ok := doc.Paths[path][strings.ToLower(r.Method)]
		if !ok {
			continue
		}
		if r.Public {
			assert.Empty(t, op.Security, "%s %s es pública", r.Method, path)
		} else {
			assert.NotEmpty(t, op.Security, "%s %s requiere BearerAuth", r.Method, path)
		}
	}
}

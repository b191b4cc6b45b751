// Package docs embeds the OpenAPI description served at /swagger.
package docs

import (
	_ "embed"
	"sync"

	"github.com/ghodss/yaml"
	"github.com/swaggo/swag"
)

//go:embed swagger.yaml
var SwaggerYAML []byte

type swaggerDoc string

func (s swaggerDoc) ReadDoc() string { return string(s) }

var (
	registerOnce sync.Once
	registerErr  error
)

// Register converts the embedded YAML to JSON and registers it with swag under
// the default instance name, where the Swagger UI handler looks it up.
func Register() error {
	registerOnce.Do(func() {
		doc, err := yaml.YAMLToJSON(SwaggerYAML)
		if err != nil {
			registerErr = err
			return
		}
		swag.Register(swag.Name, swaggerDoc(doc))
	})
	return registerErr
}

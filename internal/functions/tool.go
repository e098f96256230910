// Package functions holds the demo tools the server offers the model.
// Each is a plain Go func whose parameter schema is inferred from its
// argument struct.
package functions

import (
	"github.com/m2tx/contentkit/content"
)

// Tool groups the demo functions. The docs search is included when docs is
// not nil.
func Tool(docs *DocumentIndex) (*content.Tool, error) {
	builders := []func() (*content.CallableFunctionDeclaration, error){
		WeatherDeclaration,
		CompaniesDeclaration,
		CollaboratorsDeclaration,
	}
	if docs != nil {
		builders = append(builders, docs.SearchDeclaration)
	}

	decls := make([]any, 0, len(builders))
	for _, build := range builders {
		d, err := build()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return content.NewTool(decls...)
}

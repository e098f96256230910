package functions

import (
	"context"

	"github.com/m2tx/contentkit/content"
)

type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Collaborator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var (
	companies = []Company{
		{ID: "1", Name: "Empresa A"},
		{ID: "2", Name: "Empresa B"},
	}

	collaborators = map[string][]Collaborator{
		"1": {
			{ID: "1", Name: "Fulano da Silva"},
			{ID: "2", Name: "Beltrano da Silva"},
		},
		"2": {
			{ID: "3", Name: "Ciclano da Silva"},
			{ID: "4", Name: "Fulana da Costa"},
			{ID: "5", Name: "Beltrana da Silva"},
		},
	}
)

// GetCompanies lists the companies the user can access.
func GetCompanies(ctx context.Context) map[string]any {
	return map[string]any{"companies": companies}
}

type CollaboratorsArgs struct {
	CompanyID string `json:"company_id" description:"O ID da empresa"`
}

// GetCollaborators lists a company's collaborators. Unknown companies have
// none.
func GetCollaborators(ctx context.Context, args CollaboratorsArgs) map[string]any {
	found, ok := collaborators[args.CompanyID]
	if !ok {
		found = []Collaborator{}
	}
	return map[string]any{"collaborators": found}
}

func CompaniesDeclaration() (*content.CallableFunctionDeclaration, error) {
	return content.NewCallableFunctionDeclaration("get_companies", "Busca as empresas que tenho acesso.", GetCompanies)
}

func CollaboratorsDeclaration() (*content.CallableFunctionDeclaration, error) {
	return content.NewCallableFunctionDeclaration("get_collaborators", "Busca os colaboradores da empresa.", GetCollaborators)
}

package api

import (
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"

	"github.com/prompt-general/vectorpress/internal/content"
	"github.com/prompt-general/vectorpress/internal/store"
)

// buildSchema assembles the GraphQL schema. Resolvers close over the
// content service; per-request state (identity) travels in the typed
// request context.
func (g *Gateway) buildSchema() (graphql.Schema, error) {
	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	articleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Article",
		Fields: graphql.Fields{
			"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"title":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"content": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"category": &graphql.Field{
				Type: categoryType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					switch a := p.Source.(type) {
					case store.Article:
						return a.Category, nil
					case *store.Article:
						return a.Category, nil
					}
					return nil, nil
				},
			},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"role":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"listArticles": &graphql.Field{
				Type: graphql.NewList(articleType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return g.content.ListArticles(p.Context)
				},
			},
			"getArticle": &graphql.Field{
				Type: articleType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					article, err := g.content.GetArticle(p.Context, uint(id))
					if err != nil {
						return nil, err
					}
					if article == nil {
						return nil, nil
					}
					return article, nil
				},
			},
			"listCategories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return g.content.ListCategories(p.Context)
				},
			},
			"protectedInfo": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user := identityFrom(p.Context)
					if user == nil {
						return nil, content.ErrUnauthenticated
					}
					return fmt.Sprintf("Protected data for %s", user.Username), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createArticle": &graphql.Field{
				Type: articleType,
				Args: graphql.FieldConfigArgument{
					"title":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"content":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"categoryId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if identityFrom(p.Context) == nil {
						return nil, content.ErrUnauthenticated
					}
					title, _ := p.Args["title"].(string)
					body, _ := p.Args["content"].(string)
					categoryID, _ := p.Args["categoryId"].(int)
					return g.content.CreateArticle(p.Context, title, body, uint(categoryID))
				},
			},
			"createCategory": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if identityFrom(p.Context) == nil {
						return nil, content.ErrUnauthenticated
					}
					name, _ := p.Args["name"].(string)
					return g.content.CreateCategory(p.Context, name)
				},
			},
			"registerUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					username, _ := p.Args["username"].(string)
					password, _ := p.Args["password"].(string)
					return g.content.RegisterUser(p.Context, username, password)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// handleGraphQL executes a single GraphQL operation. Resolver errors are
// reported in the response body per the GraphQL convention; transport-level
// failures get plain HTTP statuses.
func (g *Gateway) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         g.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	if result.HasErrors() {
		for _, gqlErr := range result.Errors {
			if errors.Is(gqlErr.OriginalError(), content.ErrUnauthenticated) {
				continue
			}
			g.log.WithField("error", gqlErr.Message).Warn("graphql operation failed")
		}
	}

	writeJSON(w, http.StatusOK, result)
}

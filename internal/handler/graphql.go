package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/djungler/filmkatalog/internal/model"
	"github.com/djungler/filmkatalog/internal/repository"
	"github.com/djungler/filmkatalog/internal/service"
)

// GraphQLHandler serves POST /graphql with the film schema: queries
// filme(titel) and film(id), mutations createFilm, updateFilm and deleteFilm.
type GraphQLHandler struct {
	schema graphql.Schema
	Log    *zap.SugaredLogger
}

func NewGraphQLHandler(svc *service.FilmService, log *zap.SugaredLogger) (*GraphQLHandler, error) {
	schema, err := buildFilmSchema(svc)
	if err != nil {
		return nil, err
	}
	return &GraphQLHandler{schema: schema, Log: log}, nil
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Execute runs one GraphQL request. Resolver failures land in the errors
// array of the response with a 200 status, per the usual GraphQL convention.
func (h *GraphQLHandler) Execute(c echo.Context) error {
	var req graphqlRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request().Context(),
	})
	return c.JSON(http.StatusOK, result)
}

// ----- schema -----

func buildFilmSchema(svc *service.FilmService) (graphql.Schema, error) {
	spracheEnum := graphql.NewEnum(graphql.EnumConfig{
		Name:        "Sprache",
		Description: "Sprache eines Films",
		Values: graphql.EnumValueConfigMap{
			"DEUTSCH":      &graphql.EnumValueConfig{Value: model.SpracheDeutsch},
			"ENGLISCH":     &graphql.EnumValueConfig{Value: model.SpracheEnglisch},
			"FRANZOESISCH": &graphql.EnumValueConfig{Value: model.SpracheFranzoesisch},
		},
	})

	filmType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Film",
		Description: "Datenschema eines Films",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return filmFrom(p).ID, nil
				},
			},
			"version": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(filmFrom(p).Version), nil
				},
			},
			"titel": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return filmFrom(p).Titel, nil
				},
			},
			"regisseur": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return flexString(filmFrom(p).Regisseur)
				},
			},
			"datum": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return filmFrom(p).Datum, nil
				},
			},
			"kategorien": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return filmFrom(p).Kategorien, nil
				},
			},
			"sprache": &graphql.Field{
				Type: spracheEnum,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return filmFrom(p).Sprache, nil
				},
			},
			"hauptdarsteller": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return flexString(filmFrom(p).Hauptdarsteller)
				},
			},
			"dauer": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return filmFrom(p).Dauer, nil
				},
			},
			"homepage": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return filmFrom(p).Homepage, nil
				},
			},
		},
	})

	filmArgs := graphql.FieldConfigArgument{
		"titel":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"regisseur":       &graphql.ArgumentConfig{Type: graphql.String},
		"datum":           &graphql.ArgumentConfig{Type: graphql.String},
		"kategorien":      &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
		"sprache":         &graphql.ArgumentConfig{Type: spracheEnum},
		"hauptdarsteller": &graphql.ArgumentConfig{Type: graphql.String},
		"dauer":           &graphql.ArgumentConfig{Type: graphql.Int},
		"homepage":        &graphql.ArgumentConfig{Type: graphql.String},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"filme": &graphql.Field{
				Type: graphql.NewList(filmType),
				Args: graphql.FieldConfigArgument{
					"titel": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					titel, _ := p.Args["titel"].(string)
					return svc.Find(p.Context, repository.FilmQuery{Titel: titel})
				},
			},
			"film": &graphql.Field{
				Type: filmType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					film, err := svc.FindByID(p.Context, id)
					if errors.Is(err, service.ErrNotExists) {
						return nil, nil
					}
					return film, err
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createFilm": &graphql.Field{
				Type: filmType,
				Args: filmArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Create(p.Context, draftFromArgs(p.Args))
				},
			},
			"updateFilm": &graphql.Field{
				Type: filmType,
				Args: withIDAndVersion(filmArgs),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					version := ""
					if v, ok := p.Args["version"].(int); ok {
						version = strconv.Itoa(v)
					}
					return svc.Update(p.Context, id, version, draftFromArgs(p.Args))
				},
			},
			"deleteFilm": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return svc.Delete(p.Context, id)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType, Mutation: mutationType})
}

// filmFrom unwraps the resolver source; the service hands back both values
// and pointers depending on the operation.
func filmFrom(p graphql.ResolveParams) *model.Film {
	switch f := p.Source.(type) {
	case *model.Film:
		return f
	case model.Film:
		return &f
	}
	return &model.Film{}
}

// flexString renders the unstructured director/actor data as a string:
// plain strings pass through, anything else is serialized as JSON.
func flexString(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, nil
	}
	return string(b), nil
}

func draftFromArgs(args map[string]interface{}) *model.Film {
	film := &model.Film{}
	if v, ok := args["titel"].(string); ok {
		film.Titel = v
	}
	if v, ok := args["regisseur"]; ok {
		film.Regisseur = v
	}
	if v, ok := args["datum"].(string); ok {
		film.Datum = v
	}
	if v, ok := args["kategorien"].([]interface{}); ok {
		for _, k := range v {
			if s, ok := k.(string); ok {
				film.Kategorien = append(film.Kategorien, s)
			}
		}
	}
	if v, ok := args["sprache"].(string); ok {
		film.Sprache = v
	}
	if v, ok := args["hauptdarsteller"]; ok {
		film.Hauptdarsteller = v
	}
	if v, ok := args["dauer"].(int); ok {
		film.Dauer = v
	}
	if v, ok := args["homepage"].(string); ok {
		film.Homepage = v
	}
	return film
}

// withIDAndVersion extends the create arguments with the identity pair used
// by updateFilm.
func withIDAndVersion(base graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"id":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		"version": &graphql.ArgumentConfig{Type: graphql.Int},
	}
	for name, cfg := range base {
		args[name] = cfg
	}
	return args
}

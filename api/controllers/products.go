package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/responses"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/validators"
	catalogsvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/catalog"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/enums"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
)

// ListProducts returns one catalog page, optionally filtered by genre, kind,
// artist or new-release flag.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductListResponse(list))
	}
}

// ListNewReleases is the storefront landing rail: newest listings flagged as
// new releases.
func ListNewReleases(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isNew := true
		list, err := svc.ListProducts(r.Context(), params, catalogsvc.ProductFilters{IsNew: &isNew})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductListResponse(list))
	}
}

// GetProduct returns one product detail.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// CreateProduct lists a new product under an artist. Staff only.
func CreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(product))
	}
}

// UpdateProduct applies partial edits to a listing. Staff only.
func UpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateProduct(r.Context(), id, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// DeleteProduct removes a listing. Staff only.
func DeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	ArtistID    uuid.UUID `json:"artist_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Genre       string    `json:"genre" validate:"required"`
	Kind        string    `json:"kind" validate:"required"`
	Description string    `json:"description,omitempty"`
	Stock       int       `json:"stock" validate:"min=0"`
	Price       string    `json:"price" validate:"required"`
	IsNew       bool      `json:"is_new,omitempty"`
	Image       *string   `json:"image,omitempty"`
}

func (r createProductRequest) toInput() (catalogsvc.CreateProductInput, error) {
	genre, err := enums.ParseGenre(strings.TrimSpace(r.Genre))
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid genre")
	}
	kind, err := enums.ParseProductKind(strings.TrimSpace(r.Kind))
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}

	return catalogsvc.CreateProductInput{
		ArtistID:    r.ArtistID,
		Name:        strings.TrimSpace(r.Name),
		Genre:       string(genre),
		Kind:        string(kind),
		Description: strings.TrimSpace(r.Description),
		Stock:       r.Stock,
		Price:       price,
		IsNew:       r.IsNew,
		Image:       r.Image,
	}, nil
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Kind        *string `json:"kind,omitempty"`
	Description *string `json:"description,omitempty"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
	Price       *string `json:"price,omitempty"`
	IsNew       *bool   `json:"is_new,omitempty"`
	Image       *string `json:"image,omitempty"`
}

func (r updateProductRequest) toInput() (catalogsvc.UpdateProductInput, error) {
	input := catalogsvc.UpdateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Stock:       r.Stock,
		IsNew:       r.IsNew,
		Image:       r.Image,
	}

	if r.Genre != nil {
		genre, err := enums.ParseGenre(strings.TrimSpace(*r.Genre))
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid genre")
		}
		value := string(genre)
		input.Genre = &value
	}
	if r.Kind != nil {
		kind, err := enums.ParseProductKind(strings.TrimSpace(*r.Kind))
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind")
		}
		value := string(kind)
		input.Kind = &value
	}
	if r.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*r.Price))
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}

	return input, nil
}

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	ArtistID    uuid.UUID `json:"artist_id"`
	ArtistName  string    `json:"artist_name,omitempty"`
	Name        string    `json:"name"`
	Genre       string    `json:"genre"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	Price       string    `json:"price"`
	IsNew       bool      `json:"is_new"`
	Image       *string   `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type productListResponse struct {
	Products   []productResponse `json:"products"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}

func newProductResponse(product *models.Product) productResponse {
	if product == nil {
		return productResponse{}
	}
	resp := productResponse{
		ID:          product.ID,
		ArtistID:    product.ArtistID,
		Name:        product.Name,
		Genre:       string(product.Genre),
		Kind:        string(product.Kind),
		Description: product.Description,
		Stock:       product.Stock,
		Price:       product.Price.StringFixed(2),
		IsNew:       product.IsNew,
		Image:       product.Image,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Artist != nil {
		resp.ArtistName = product.Artist.Name
	}
	return resp
}

func newProductListResponse(list *catalogsvc.ProductList) productListResponse {
	if list == nil {
		return productListResponse{Products: []productResponse{}}
	}
	products := make([]productResponse, 0, len(list.Products))
	for i := range list.Products {
		products = append(products, newProductResponse(&list.Products[i]))
	}
	return productListResponse{Products: products, NextCursor: list.NextCursor}
}

func parseProductFilters(r *http.Request) (catalogsvc.ProductFilters, error) {
	filters := catalogsvc.ProductFilters{}

	artistID, err := validators.ParseQueryUUID(r, "artist_id")
	if err != nil {
		return filters, err
	}
	filters.ArtistID = artistID

	if raw := strings.TrimSpace(r.URL.Query().Get("genre")); raw != "" {
		genre, err := enums.ParseGenre(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid genre")
		}
		value := string(genre)
		filters.Genre = &value
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
		kind, err := enums.ParseProductKind(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind")
		}
		value := string(kind)
		filters.Kind = &value
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("is_new")); raw != "" {
		isNew := raw == "true" || raw == "1"
		filters.IsNew = &isNew
	}

	return filters, nil
}

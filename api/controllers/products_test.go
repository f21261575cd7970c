package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogsvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/catalog"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/enums"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

type stubCatalogService struct {
	artist   *models.Artist
	product  *models.Product
	products *catalogsvc.ProductList
	err      error

	lastFilters catalogsvc.ProductFilters
	lastCreate  catalogsvc.CreateProductInput
}

func (s *stubCatalogService) CreateArtist(context.Context, catalogsvc.CreateArtistInput) (*models.Artist, error) {
	return s.artist, s.err
}

func (s *stubCatalogService) GetArtist(context.Context, uuid.UUID) (*models.Artist, error) {
	return s.artist, s.err
}

func (s *stubCatalogService) ListArtists(context.Context, pagination.Params) (*catalogsvc.ArtistList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &catalogsvc.ArtistList{}, nil
}

func (s *stubCatalogService) UpdateArtist(context.Context, uuid.UUID, catalogsvc.UpdateArtistInput) error {
	return s.err
}

func (s *stubCatalogService) DeleteArtist(context.Context, uuid.UUID) error {
	return s.err
}

func (s *stubCatalogService) CreateProduct(_ context.Context, input catalogsvc.CreateProductInput) (*models.Product, error) {
	s.lastCreate = input
	return s.product, s.err
}

func (s *stubCatalogService) GetProduct(context.Context, uuid.UUID) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) FindProductByName(context.Context, string, *string) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) ListProducts(_ context.Context, _ pagination.Params, filters catalogsvc.ProductFilters) (*catalogsvc.ProductList, error) {
	s.lastFilters = filters
	return s.products, s.err
}

func (s *stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalogsvc.UpdateProductInput) error {
	return s.err
}

func (s *stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	return s.err
}

func sampleProduct() *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		ArtistID: uuid.New(),
		Name:     "Kind of Blue",
		Genre:    enums.GenreJazz,
		Kind:     enums.ProductKindVinyl,
		Stock:    5,
		Price:    decimal.RequireFromString("29.99"),
		IsNew:    true,
		Artist:   &models.Artist{Name: "Miles Davis"},
	}
}

func TestListProductsAppliesFilters(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{products: &catalogsvc.ProductList{Products: []models.Product{*sampleProduct()}}}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?genre=jazz&kind=vinyl&is_new=true", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastFilters.Genre == nil || *svc.lastFilters.Genre != string(enums.GenreJazz) {
		t.Fatalf("expected jazz filter, got %v", svc.lastFilters.Genre)
	}
	if svc.lastFilters.Kind == nil || *svc.lastFilters.Kind != string(enums.ProductKindVinyl) {
		t.Fatalf("expected vinyl filter, got %v", svc.lastFilters.Kind)
	}
	if svc.lastFilters.IsNew == nil || !*svc.lastFilters.IsNew {
		t.Fatal("expected is_new filter set")
	}

	var envelope struct {
		Data productListResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(envelope.Data.Products))
	}
	if envelope.Data.Products[0].ArtistName != "Miles Davis" {
		t.Fatalf("expected artist name in listing, got %q", envelope.Data.Products[0].ArtistName)
	}
	if envelope.Data.Products[0].Price != "29.99" {
		t.Fatalf("expected fixed-point price, got %q", envelope.Data.Products[0].Price)
	}
}

func TestListProductsRejectsUnknownGenre(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?genre=polka", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListNewReleasesForcesFlag(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{products: &catalogsvc.ProductList{}}
	handler := ListNewReleases(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/new-releases", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastFilters.IsNew == nil || !*svc.lastFilters.IsNew {
		t.Fatal("expected new-release filter forced on")
	}
}

func TestCreateProductParsesPriceAndEnums(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{product: sampleProduct()}
	handler := CreateProduct(svc, nil)

	artistID := uuid.New()
	body := `{"artist_id":"` + artistID.String() + `","name":"Kind of Blue","genre":"jazz","kind":"vinyl","stock":5,"price":"29.99"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastCreate.ArtistID != artistID {
		t.Fatalf("unexpected artist id: %s", svc.lastCreate.ArtistID)
	}
	if !svc.lastCreate.Price.Equal(decimal.RequireFromString("29.99")) {
		t.Fatalf("unexpected price: %s", svc.lastCreate.Price)
	}
	if svc.lastCreate.Genre != string(enums.GenreJazz) {
		t.Fatalf("unexpected genre: %s", svc.lastCreate.Genre)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := GetProduct(svc, nil)

	req := requestWithPathParam(http.MethodGet, "/api/v1/products/"+uuid.NewString(), "productID", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

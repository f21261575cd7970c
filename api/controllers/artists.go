package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/responses"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/validators"
	catalogsvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/catalog"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
)

// ListArtists returns one page of the artist roster.
func ListArtists(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		list, err := svc.ListArtists(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		artists := make([]artistResponse, 0, len(list.Artists))
		for i := range list.Artists {
			artists = append(artists, newArtistResponse(&list.Artists[i]))
		}
		responses.WriteSuccess(w, artistListResponse{Artists: artists, NextCursor: list.NextCursor})
	}
}

// GetArtist returns one artist profile.
func GetArtist(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "artistID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		artist, err := svc.GetArtist(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newArtistResponse(artist))
	}
}

// CreateArtist registers a new artist. Staff only.
func CreateArtist(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createArtistRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		artist, err := svc.CreateArtist(r.Context(), catalogsvc.CreateArtistInput{
			Name:        body.Name,
			Description: body.Description,
			Photo:       body.Photo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newArtistResponse(artist))
	}
}

// UpdateArtist applies partial edits to an artist profile. Staff only.
func UpdateArtist(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "artistID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateArtistRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateArtist(r.Context(), id, catalogsvc.UpdateArtistInput{
			Name:        body.Name,
			Description: body.Description,
			Photo:       body.Photo,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// DeleteArtist removes an artist and cascades to their products. Staff only.
func DeleteArtist(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "artistID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteArtist(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createArtistRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

type updateArtistRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

type artistResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Photo       *string   `json:"photo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type artistListResponse struct {
	Artists    []artistResponse `json:"artists"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

func newArtistResponse(artist *models.Artist) artistResponse {
	if artist == nil {
		return artistResponse{}
	}
	return artistResponse{
		ID:          artist.ID,
		Name:        artist.Name,
		Description: artist.Description,
		Photo:       artist.Photo,
		CreatedAt:   artist.CreatedAt,
		UpdatedAt:   artist.UpdatedAt,
	}
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
	}
	return id, nil
}

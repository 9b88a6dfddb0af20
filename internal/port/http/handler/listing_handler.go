package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/http/middleware"
	"github.com/agrolease/agrolease-backend/internal/port/storage"
	"github.com/agrolease/agrolease-backend/internal/usecase"
)

const (
	maxImagesPerUpload = 10
	imagesFormField    = "images"
)

// ListingHandler serves one listing kind. The same handler type backs both
// the land and equipment routes; the KindSpec decides collection, filters and
// validation.
type ListingHandler struct {
	uc            *usecase.ListingUseCase
	media         storage.MediaStorage
	spec          entity.KindSpec
	maxUploadSize int64
	maxFileSize   int64
	logger        *zap.Logger
}

func NewListingHandler(
	uc *usecase.ListingUseCase,
	media storage.MediaStorage,
	spec entity.KindSpec,
	maxUploadSize, maxFileSize int64,
	logger *zap.Logger,
) *ListingHandler {
	return &ListingHandler{
		uc:            uc,
		media:         media,
		spec:          spec,
		maxUploadSize: maxUploadSize,
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

// List is the public browse endpoint. Only available listings are returned.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := usecase.BuildListQuery(h.spec, r.URL.Query())
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	out, err := h.uc.List(r.Context(), h.spec, query)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// AdminList is the admin browse endpoint: no availability forcing, optional
// isAvailable filter.
func (h *ListingHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	query, err := usecase.BuildAdminListQuery(h.spec, r.URL.Query())
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	out, err := h.uc.List(r.Context(), h.spec, query)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.uc.Get(r.Context(), h.spec, chi.URLParam(r, "id"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
		return
	}
	items, err := h.uc.ListMine(r.Context(), h.spec, actor)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
		return
	}

	var (
		listing *entity.Listing
		uploads []storage.UploadResult
		err     error
	)
	if isMultipart(r) {
		listing, uploads, err = h.parseMultipartCreate(r)
	} else {
		listing, err = parseJSONCreate(r)
	}
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	created, err := h.uc.Create(r.Context(), h.spec, actor, listing, uploads)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
		return
	}

	var (
		input   usecase.UpdateListingInput
		uploads []storage.UploadResult
		err     error
	)
	if isMultipart(r) {
		input, uploads, err = h.parseMultipartUpdate(r)
	} else {
		input, err = parseJSONUpdate(r)
	}
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	updated, err := h.uc.Update(r.Context(), h.spec, actor, chi.URLParam(r, "id"), input, uploads)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
		return
	}
	if err := h.uc.Delete(r.Context(), h.spec, actor, chi.URLParam(r, "id")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("%s deleted successfully", h.spec.Kind)})
}

func (h *ListingHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
		return
	}
	listing, err := h.uc.DeleteImage(r.Context(), h.spec, actor, chi.URLParam(r, "id"), chi.URLParam(r, "imageId"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
		return
	}

	var body struct {
		IsAvailable *bool `json:"isAvailable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsAvailable == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "isAvailable is required"})
		return
	}

	listing, err := h.uc.SetAvailability(r.Context(), h.spec, actor, chi.URLParam(r, "id"), *body.IsAvailable)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// uploadFiles validates and stores the attached files. If any file fails to
// upload, the ones stored so far are deleted again before the error is
// returned.
func (h *ListingHandler) uploadFiles(r *http.Request, files []*multipart.FileHeader) ([]storage.UploadResult, error) {
	if len(files) > maxImagesPerUpload {
		return nil, fmt.Errorf("%w: at most %d images per request", usecase.ErrValidation, maxImagesPerUpload)
	}
	for _, fh := range files {
		if fh.Size > h.maxFileSize {
			return nil, fmt.Errorf("%w: file %s exceeds %d bytes", usecase.ErrValidation, fh.Filename, h.maxFileSize)
		}
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			return nil, fmt.Errorf("%w: file %s is not an image", usecase.ErrValidation, fh.Filename)
		}
	}

	uploads := make([]storage.UploadResult, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			h.rollbackUploads(r, uploads)
			return nil, fmt.Errorf("%w: failed to read file %s", usecase.ErrValidation, fh.Filename)
		}
		result, err := h.media.Upload(r.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
		if err != nil {
			h.logger.Error("Failed to upload media asset", zap.String("file", fh.Filename), zap.Error(err))
			h.rollbackUploads(r, uploads)
			return nil, ErrMediaUpstream
		}
		uploads = append(uploads, result)
	}
	return uploads, nil
}

func (h *ListingHandler) rollbackUploads(r *http.Request, uploads []storage.UploadResult) {
	if len(uploads) == 0 {
		return
	}
	keys := make([]string, 0, len(uploads))
	for _, up := range uploads {
		keys = append(keys, up.ObjectKey)
	}
	if err := h.media.DeleteMany(r.Context(), keys); err != nil {
		h.logger.Warn("Failed to roll back partial upload", zap.Strings("object_keys", keys), zap.Error(err))
	}
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

type listingPayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    struct {
		LGA         string              `json:"lga"`
		Area        string              `json:"area"`
		Coordinates *entity.Coordinates `json:"coordinates"`
	} `json:"location"`

	Size          float64  `json:"size"`
	LeaseDuration string   `json:"leaseDuration"`
	Amenities     []string `json:"amenities"`

	Category     string `json:"category"`
	Condition    string `json:"condition"`
	RentalPeriod string `json:"rentalPeriod"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
}

func (p listingPayload) toListing() *entity.Listing {
	return &entity.Listing{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Location: entity.Location{
			LGA:         p.Location.LGA,
			Area:        p.Location.Area,
			Coordinates: p.Location.Coordinates,
		},
		SizeAcres:     p.Size,
		LeaseDuration: entity.LeaseDuration(p.LeaseDuration),
		Amenities:     p.Amenities,
		Category:      entity.EquipmentCategory(p.Category),
		Condition:     entity.EquipmentCondition(p.Condition),
		RentalPeriod:  entity.RentalPeriod(p.RentalPeriod),
		Brand:         p.Brand,
		Model:         p.Model,
		Year:          p.Year,
	}
}

func parseJSONCreate(r *http.Request) (*entity.Listing, error) {
	var payload listingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: invalid request body", usecase.ErrValidation)
	}
	return payload.toListing(), nil
}

// parseMultipartCreate reads listing fields from flat form values and stores
// the attached files. Nested location fields come in as lga/area/lat/lng.
func (h *ListingHandler) parseMultipartCreate(r *http.Request) (*entity.Listing, []storage.UploadResult, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid multipart body", usecase.ErrValidation)
	}

	var payload listingPayload
	form := r.MultipartForm.Value
	payload.Title = formValue(form, "title")
	payload.Description = formValue(form, "description")
	payload.Location.LGA = formValue(form, "lga")
	payload.Location.Area = formValue(form, "area")
	payload.LeaseDuration = formValue(form, "leaseDuration")
	payload.Category = formValue(form, "category")
	payload.Condition = formValue(form, "condition")
	payload.RentalPeriod = formValue(form, "rentalPeriod")
	payload.Brand = formValue(form, "brand")
	payload.Model = formValue(form, "model")
	payload.Amenities = formList(form, "amenities")

	var err error
	if payload.Price, err = formFloat(form, "price"); err != nil {
		return nil, nil, err
	}
	if payload.Size, err = formFloat(form, "size"); err != nil {
		return nil, nil, err
	}
	if payload.Year, err = formInt(form, "year"); err != nil {
		return nil, nil, err
	}
	if coords, err := formCoordinates(form); err != nil {
		return nil, nil, err
	} else if coords != nil {
		payload.Location.Coordinates = coords
	}

	uploads, err := h.uploadFiles(r, r.MultipartForm.File[imagesFormField])
	if err != nil {
		return nil, nil, err
	}
	return payload.toListing(), uploads, nil
}

type updateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Location    *struct {
		LGA         *string             `json:"lga"`
		Area        *string             `json:"area"`
		Coordinates *entity.Coordinates `json:"coordinates"`
	} `json:"location"`
	IsAvailable *bool    `json:"isAvailable"`
	Amenities   []string `json:"amenities"`

	Size          *float64 `json:"size"`
	LeaseDuration *string  `json:"leaseDuration"`

	Category     *string `json:"category"`
	Condition    *string `json:"condition"`
	RentalPeriod *string `json:"rentalPeriod"`
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
}

func (req updateListingRequest) toInput() usecase.UpdateListingInput {
	input := usecase.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
		Amenities:   req.Amenities,
		SizeAcres:   req.Size,
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
	}
	if req.Location != nil {
		input.LGA = req.Location.LGA
		input.Area = req.Location.Area
		input.Coordinates = req.Location.Coordinates
	}
	if req.LeaseDuration != nil {
		v := entity.LeaseDuration(*req.LeaseDuration)
		input.LeaseDuration = &v
	}
	if req.Category != nil {
		v := entity.EquipmentCategory(*req.Category)
		input.Category = &v
	}
	if req.Condition != nil {
		v := entity.EquipmentCondition(*req.Condition)
		input.Condition = &v
	}
	if req.RentalPeriod != nil {
		v := entity.RentalPeriod(*req.RentalPeriod)
		input.RentalPeriod = &v
	}
	return input
}

func parseJSONUpdate(r *http.Request) (usecase.UpdateListingInput, error) {
	var req updateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return usecase.UpdateListingInput{}, fmt.Errorf("%w: invalid request body", usecase.ErrValidation)
	}
	return req.toInput(), nil
}

// parseMultipartUpdate treats only the form keys actually present as changes,
// so partial updates over multipart behave the same as over JSON.
func (h *ListingHandler) parseMultipartUpdate(r *http.Request) (usecase.UpdateListingInput, []storage.UploadResult, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return usecase.UpdateListingInput{}, nil, fmt.Errorf("%w: invalid multipart body", usecase.ErrValidation)
	}

	var req updateListingRequest
	form := r.MultipartForm.Value
	req.Title = formPtr(form, "title")
	req.Description = formPtr(form, "description")
	req.Brand = formPtr(form, "brand")
	req.Model = formPtr(form, "model")
	req.LeaseDuration = formPtr(form, "leaseDuration")
	req.Category = formPtr(form, "category")
	req.Condition = formPtr(form, "condition")
	req.RentalPeriod = formPtr(form, "rentalPeriod")
	if _, ok := form["amenities"]; ok {
		req.Amenities = formList(form, "amenities")
	}

	var err error
	if req.Price, err = formFloatPtr(form, "price"); err != nil {
		return usecase.UpdateListingInput{}, nil, err
	}
	if req.Size, err = formFloatPtr(form, "size"); err != nil {
		return usecase.UpdateListingInput{}, nil, err
	}
	if req.Year, err = formIntPtr(form, "year"); err != nil {
		return usecase.UpdateListingInput{}, nil, err
	}
	if raw := formPtr(form, "isAvailable"); raw != nil {
		available, parseErr := strconv.ParseBool(*raw)
		if parseErr != nil {
			return usecase.UpdateListingInput{}, nil, fmt.Errorf("%w: invalid isAvailable %q", usecase.ErrValidation, *raw)
		}
		req.IsAvailable = &available
	}

	input := req.toInput()
	input.LGA = formPtr(form, "lga")
	input.Area = formPtr(form, "area")
	if coords, coordErr := formCoordinates(form); coordErr != nil {
		return usecase.UpdateListingInput{}, nil, coordErr
	} else if coords != nil {
		input.Coordinates = coords
	}

	uploads, err := h.uploadFiles(r, r.MultipartForm.File[imagesFormField])
	if err != nil {
		return usecase.UpdateListingInput{}, nil, err
	}
	return input, uploads, nil
}

func formValue(form map[string][]string, key string) string {
	if vs, ok := form[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func formPtr(form map[string][]string, key string) *string {
	if vs, ok := form[key]; ok && len(vs) > 0 {
		v := vs[0]
		return &v
	}
	return nil
}

// formList accepts either repeated keys or one comma-separated value.
func formList(form map[string][]string, key string) []string {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	if len(vs) == 1 && strings.Contains(vs[0], ",") {
		parts := strings.Split(vs[0], ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return vs
}

func formFloat(form map[string][]string, key string) (float64, error) {
	raw := formValue(form, key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrValidation, key, raw)
	}
	return v, nil
}

func formFloatPtr(form map[string][]string, key string) (*float64, error) {
	raw := formPtr(form, key)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q", usecase.ErrValidation, key, *raw)
	}
	return &v, nil
}

func formInt(form map[string][]string, key string) (int, error) {
	raw := formValue(form, key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrValidation, key, raw)
	}
	return v, nil
}

func formIntPtr(form map[string][]string, key string) (*int, error) {
	raw := formPtr(form, key)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q", usecase.ErrValidation, key, *raw)
	}
	return &v, nil
}

func formCoordinates(form map[string][]string) (*entity.Coordinates, error) {
	latRaw, lngRaw := formPtr(form, "lat"), formPtr(form, "lng")
	if latRaw == nil && lngRaw == nil {
		return nil, nil
	}
	if latRaw == nil || lngRaw == nil {
		return nil, fmt.Errorf("%w: lat and lng must be provided together", usecase.ErrValidation)
	}
	lat, err := strconv.ParseFloat(*latRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid lat %q", usecase.ErrValidation, *latRaw)
	}
	lng, err := strconv.ParseFloat(*lngRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid lng %q", usecase.ErrValidation, *lngRaw)
	}
	return &entity.Coordinates{Lat: lat, Lng: lng}, nil
}

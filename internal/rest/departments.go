package rest

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/calderonweb/espacio-api/listings/application"
	"github.com/calderonweb/espacio-api/listings/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// DepartmentsHandler maps the /api/departments surface onto the listing
// service and shapes its results into JSON responses.
type DepartmentsHandler struct {
	service   *application.ListingService
	store     domain.ImageStore
	uploadDir string
}

func NewDepartmentsHandler(service *application.ListingService, store domain.ImageStore, uploadDir string) *DepartmentsHandler {
	return &DepartmentsHandler{
		service:   service,
		store:     store,
		uploadDir: uploadDir,
	}
}

// departmentResponse is a Listing shaped for the wire, with the image
// reference resolved to a public URL.
type departmentResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Contact     string  `json:"contact"`
	Price       float64 `json:"price"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   float64 `json:"bathrooms"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

func (h *DepartmentsHandler) toResponse(c *gin.Context, l *domain.Listing) departmentResponse {
	return departmentResponse{
		ID:          l.ID,
		Title:       l.Title,
		Location:    l.Location,
		Contact:     l.Contact,
		Price:       l.Price,
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		Description: l.Description,
		Image:       h.store.PublicURL(l.Image, requestBaseURL(c.Request)),
	}
}

// GET /api/departments?query=<substring>
func (h *DepartmentsHandler) ListDepartments(c *gin.Context) {
	listings, err := h.service.List(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]departmentResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, h.toResponse(c, l))
	}

	c.JSON(http.StatusOK, resp)
}

// POST /api/departments (multipart form)
func (h *DepartmentsHandler) CreateDepartment(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid form data"})
		return
	}

	image, err := imageUpload(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"errors":  gin.H{"image": "failed to read image upload"},
		})
		return
	}

	req := application.CreateRequest{
		Fields: listingForm(form.Value),
		Image:  image,
	}

	listing, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toResponse(c, listing))
}

// PUT /api/departments/:id (multipart form, all fields optional)
func (h *DepartmentsHandler) UpdateDepartment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "department not found"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid form data"})
		return
	}

	image, err := imageUpload(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"errors":  gin.H{"image": "failed to read image upload"},
		})
		return
	}

	_, imageSubmitted := form.Value["image"]
	req := application.UpdateRequest{
		Fields:         listingForm(form.Value),
		Image:          image,
		ImageSubmitted: imageSubmitted,
		ImageUnchanged: formField(form.Value, "image_url_unchanged").Value == "true",
	}

	listing, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponse(c, listing))
}

// DELETE /api/departments/:id
func (h *DepartmentsHandler) DeleteDepartment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "department not found"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "department deleted"})
}

// GET /uploads/:filename
func (h *DepartmentsHandler) ServeUpload(c *gin.Context) {
	name := filepath.Base(c.Param("filename"))
	path := filepath.Join(h.uploadDir, name)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"message": "file not found"})
		return
	}

	c.File(path)
}

// GET /
func (h *DepartmentsHandler) Home(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, "<h1>Departments API is running</h1><p>Visit /api/departments to browse listings.</p>")
}

func (h *DepartmentsHandler) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "department not found"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

// listingForm builds the field set from multipart values, keeping the
// absent-vs-empty distinction per field.
func listingForm(values map[string][]string) application.ListingForm {
	return application.ListingForm{
		Title:       formField(values, "title"),
		Location:    formField(values, "location"),
		Contact:     formField(values, "contact"),
		Price:       formField(values, "price"),
		Bedrooms:    formField(values, "bedrooms"),
		Bathrooms:   formField(values, "bathrooms"),
		Description: formField(values, "description"),
	}
}

func formField(values map[string][]string, name string) application.Field {
	vals, ok := values[name]
	if !ok || len(vals) == 0 {
		return application.Field{}
	}
	return application.Field{Value: vals[0], Present: true}
}

// imageUpload reads the image file part, if one was submitted with a filename.
func imageUpload(form *multipart.Form) (*application.ImageUpload, error) {
	files := form.File["image"]
	if len(files) == 0 || files[0].Filename == "" {
		return nil, nil
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &application.ImageUpload{
		Filename: files[0].Filename,
		Content:  content,
	}, nil
}

// requestBaseURL mirrors what the client used to reach us, so stored image
// names resolve to URLs on the same host.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/"
}

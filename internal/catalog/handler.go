// AngelaMos | 2026
// handler.go

package catalog

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/autosalon/internal/core"
	"github.com/carterperez-dev/autosalon/internal/flash"
	"github.com/carterperez-dev/autosalon/internal/web"
)

const (
	featuredCars    = 6
	multipartMemory = 8 << 20
)

type PhotoSaver interface {
	Save(title, filename string, src io.Reader) (string, error)
}

type Handler struct {
	service   *Service
	photos    PhotoSaver
	web       *web.Renderer
	validator *validator.Validate
	maxUpload int64
}

func NewHandler(
	service *Service,
	photos PhotoSaver,
	renderer *web.Renderer,
	maxUpload int64,
) *Handler {
	return &Handler{
		service:   service,
		photos:    photos,
		web:       renderer,
		validator: core.NewValidator(),
		maxUpload: maxUpload,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/catalog", h.Catalog)
	r.Get("/car/{carID}", h.Detail)
}

// RegisterAdminRoutes mounts car management. The caller applies RequireAdmin.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/manage/car/add", h.AddForm)
	r.Post("/manage/car/add", h.Add)
	r.Get("/manage/car/edit/{carID}", h.EditForm)
	r.Post("/manage/car/edit/{carID}", h.Edit)
	r.Get("/manage/car/delete/{carID}", h.ToggleConfirm)
	r.Post("/manage/car/delete/{carID}", h.Toggle)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	cars, err := h.service.ListActive(r.Context())
	if err != nil {
		h.web.ServerError(w, r, err)
		return
	}

	if len(cars) > featuredCars {
		cars = cars[len(cars)-featuredCars:]
	}

	h.web.Render(w, r, http.StatusOK, "home", web.Page{
		Title: "Autosalon",
		Data:  cars,
	})
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	cars, err := h.service.ListActive(r.Context())
	if err != nil {
		h.web.ServerError(w, r, err)
		return
	}

	h.web.Render(w, r, http.StatusOK, "catalog", web.Page{
		Title: "Catalog",
		Data:  cars,
	})
}

// Detail shows soft-deleted cars with a "not available" notice rather than
// a 404, so links from old orders keep working.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	car, ok := h.loadCar(w, r)
	if !ok {
		return
	}

	h.web.Render(w, r, http.StatusOK, "car_detail", web.Page{
		Title: car.Configuration,
		Data:  car,
	})
}

type carFormPage struct {
	Car           *Car
	Transmissions []Choice
	Drives        []Choice
	Fuels         []Choice
}

func (h *Handler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderCarForm(w, r, http.StatusOK, nil, CarForm{}, nil)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	form, errs, err := h.readCarForm(w, r)
	if err != nil {
		h.web.BadRequest(w, r, "Invalid form submission")
		return
	}

	photo := ""
	if len(errs) == 0 {
		photo = h.storePhoto(r, form.Configuration, true, errs)
	}
	if len(errs) > 0 {
		h.renderCarForm(w, r, http.StatusUnprocessableEntity, nil, form, errs)
		return
	}

	car, err := h.service.Create(r.Context(), form, photo)
	if err != nil {
		h.web.Fail(w, r, err)
		return
	}

	h.web.Flash(w, r, flash.LevelSuccess,
		fmt.Sprintf("Car %q added.", car.Configuration))
	h.web.Redirect(w, r, "/admin_page")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	car, ok := h.loadCar(w, r)
	if !ok {
		return
	}

	h.renderCarForm(w, r, http.StatusOK, car, CarFormFrom(car), nil)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	car, ok := h.loadCar(w, r)
	if !ok {
		return
	}

	form, errs, err := h.readCarForm(w, r)
	if err != nil {
		h.web.BadRequest(w, r, "Invalid form submission")
		return
	}

	photo := ""
	if len(errs) == 0 {
		photo = h.storePhoto(r, form.Configuration, false, errs)
	}
	if len(errs) > 0 {
		h.renderCarForm(w, r, http.StatusUnprocessableEntity, car, form, errs)
		return
	}

	if _, err := h.service.Update(r.Context(), car.ID, form, photo); err != nil {
		h.web.Fail(w, r, err)
		return
	}

	h.web.Flash(w, r, flash.LevelSuccess,
		fmt.Sprintf("Car %q updated.", form.Configuration))
	h.web.Redirect(w, r, "/admin_page")
}

// readCarForm parses the multipart body and runs field validation. The
// returned map is never nil.
func (h *Handler) readCarForm(
	w http.ResponseWriter,
	r *http.Request,
) (CarForm, map[string]string, error) {
	var form CarForm
	errs := make(map[string]string)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil &&
		!errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errs["photo"] = "The file is too large"
			return form, errs, nil
		}
		return form, nil, err
	}

	// a missing number would otherwise decode as zero
	for _, key := range requiredNumbers {
		if strings.TrimSpace(r.PostFormValue(key)) == "" {
			errs[key] = "This field is required."
		}
	}

	if err := web.DecodeForm(r, &form); err != nil {
		fields := core.AsValidationError(err)
		if fields == nil {
			return form, nil, err
		}
		mergeErrors(errs, fields)
	}
	form.Normalize()

	if err := h.validator.Struct(form); err != nil {
		mergeErrors(errs, core.FieldErrors(err))
	}

	if msg, ok := form.CheckPrice(); !ok {
		if _, exists := errs["price"]; !exists {
			errs["price"] = msg
		}
	}

	return form, errs, nil
}

// storePhoto saves the uploaded photo, recording problems in errs. It
// returns "" when nothing was saved.
func (h *Handler) storePhoto(
	r *http.Request,
	title string,
	required bool,
	errs map[string]string,
) string {
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		if required {
			errs["photo"] = "Upload a photo of the car"
		}
		return ""
	}
	if err != nil {
		errs["photo"] = "The photo could not be read"
		return ""
	}
	defer file.Close() //nolint:errcheck // read-only multipart file

	photo, err := h.photos.Save(title, header.Filename, file)
	if err != nil {
		if errors.Is(err, ErrUnsupportedPhoto) {
			errs["photo"] = "Upload a JPEG, PNG or WebP image"
			return ""
		}
		errs["photo"] = "The photo could not be saved"
		core.SetSpanError(r.Context(), err)
		return ""
	}

	return photo
}

func (h *Handler) renderCarForm(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	car *Car,
	form CarForm,
	errs map[string]string,
) {
	title := "Add car"
	if car != nil {
		title = "Edit car"
	}

	h.web.Render(w, r, status, "admin_car_form", web.Page{
		Title:  title,
		Form:   form,
		Errors: errs,
		Data: carFormPage{
			Car:           car,
			Transmissions: TransmissionChoices,
			Drives:        DriveChoices,
			Fuels:         FuelChoices,
		},
	})
}

// ToggleConfirm asks to delete an active car or restore a deleted one.
func (h *Handler) ToggleConfirm(w http.ResponseWriter, r *http.Request) {
	car, ok := h.loadCar(w, r)
	if !ok {
		return
	}

	action := "delete"
	if car.IsDeleted {
		action = "restore"
	}

	h.web.Render(w, r, http.StatusOK, "admin_confirm_delete", web.Page{
		Title: "Confirm",
		Data: web.Confirm{
			Action: action,
			Object: fmt.Sprintf("car %q", car.Configuration),
			Cancel: "/admin_page",
		},
	})
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "carID")
	if err != nil {
		h.web.NotFound(w, r)
		return
	}

	car, err := h.service.ToggleDeleted(r.Context(), id)
	if err != nil {
		h.web.Fail(w, r, err)
		return
	}

	msg := fmt.Sprintf("Car %q restored.", car.Configuration)
	if car.IsDeleted {
		msg = fmt.Sprintf("Car %q marked as deleted.", car.Configuration)
	}
	h.web.Flash(w, r, flash.LevelSuccess, msg)
	h.web.Redirect(w, r, "/admin_page")
}

func (h *Handler) loadCar(w http.ResponseWriter, r *http.Request) (*Car, bool) {
	id, err := web.PathID(r, "carID")
	if err != nil {
		h.web.NotFound(w, r)
		return nil, false
	}

	car, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.web.Fail(w, r, err)
		return nil, false
	}

	return car, true
}

var requiredNumbers = []string{"price", "power", "mileage"}

func mergeErrors(dst, src map[string]string) {
	for k, v := range src {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
}

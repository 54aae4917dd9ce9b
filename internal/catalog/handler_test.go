// AngelaMos | 2026
// handler_test.go

package catalog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/autosalon/internal/web"
)

type recordingPhotos struct {
	saved []string
}

func (p *recordingPhotos) Save(title, filename string, src io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, src); err != nil {
		return "", err
	}
	if filename == "virus.exe" {
		return "", ErrUnsupportedPhoto
	}
	p.saved = append(p.saved, filename)
	return "cars/" + filename, nil
}

func newTestHandler(t *testing.T, repo *memoryRepo) (http.Handler, *recordingPhotos) {
	t.Helper()

	renderer, err := web.NewRenderer(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), "/media")
	require.NoError(t, err)

	photos := &recordingPhotos{}
	h := NewHandler(NewService(repo), photos, renderer, 1<<20)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	h.RegisterAdminRoutes(r)
	return r, photos
}

func multipartCar(t *testing.T, fields map[string]string, photo string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photo != "" {
		fw, err := mw.CreateFormFile("photo", photo)
		require.NoError(t, err)
		_, err = fw.Write(pngHeader)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/manage/car/add", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func carFields() map[string]string {
	return map[string]string{
		"configuration": "Kia K5 2.5 GT-Line",
		"price":         "3100000.00",
		"power":         "194",
		"mileage":       "15",
		"transmission":  "auto",
		"color":         "Red",
		"drive":         "front",
		"fuel_type":     "petrol",
	}
}

func TestAddCar(t *testing.T) {
	repo := newMemoryRepo()
	h, photos := newTestHandler(t, repo)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartCar(t, carFields(), "k5.png"))

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/admin_page", rec.Header().Get("Location"))
	assert.Equal(t, []string{"k5.png"}, photos.saved)

	car, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Kia K5 2.5 GT-Line", car.Configuration)
	assert.Equal(t, "3100000.00", car.Price.StringFixed(2))
	assert.Equal(t, "cars/k5.png", car.Photo)
}

func TestAddCarRequiresPhoto(t *testing.T) {
	repo := newMemoryRepo()
	h, _ := newTestHandler(t, repo)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartCar(t, carFields(), ""))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload a photo of the car")
	assert.Empty(t, repo.cars)
}

func TestAddCarRejectsBadInput(t *testing.T) {
	repo := newMemoryRepo()
	h, photos := newTestHandler(t, repo)

	fields := carFields()
	fields["price"] = "-10"
	fields["drive"] = "sideways"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartCar(t, fields, "k5.png"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Price cannot be negative")
	assert.Contains(t, body, "Select a valid choice.")
	assert.Empty(t, photos.saved, "nothing is written when the form is invalid")
	assert.Empty(t, repo.cars)
}

func TestAddCarRequiresNumbers(t *testing.T) {
	repo := newMemoryRepo()
	h, photos := newTestHandler(t, repo)

	fields := carFields()
	delete(fields, "price")
	delete(fields, "power")
	fields["mileage"] = " "

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartCar(t, fields, "k5.png"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 3, strings.Count(rec.Body.String(), "This field is required."))
	assert.Empty(t, photos.saved)
	assert.Empty(t, repo.cars)
}

func TestAddCarRejectsUnsupportedPhoto(t *testing.T) {
	repo := newMemoryRepo()
	h, _ := newTestHandler(t, repo)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartCar(t, carFields(), "virus.exe"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload a JPEG, PNG or WebP image")
}

func TestDetailAndToggle(t *testing.T) {
	repo := newMemoryRepo(Car{ID: 3, Configuration: "Lada Niva"})
	h, _ := newTestHandler(t, repo)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/car/404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/manage/car/delete/3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "delete")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/manage/car/delete/3", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, repo.cars[3].IsDeleted)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/car/3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This car is not available.")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	assert.NotContains(t, rec.Body.String(), "Lada Niva")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/manage/car/delete/3", nil))
	assert.Contains(t, rec.Body.String(), "restore")
}

func TestHomeShowsLatestSix(t *testing.T) {
	cars := make([]Car, 0, 8)
	for i := int64(1); i <= 8; i++ {
		cars = append(cars, Car{ID: i, Configuration: "Model " + string(rune('A'+i-1))})
	}
	h, _ := newTestHandler(t, newMemoryRepo(cars...))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.NotContains(t, body, "Model A<")
	assert.NotContains(t, body, "Model B<")
	assert.Contains(t, body, "Model C<")
	assert.Contains(t, body, "Model H<")
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"RealEstateAPI/config"
	"RealEstateAPI/models"
	"RealEstateAPI/routes"
	"RealEstateAPI/utils"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

// setupServer builds an echo instance over a fresh in-memory database
// with a default admin (token id 1) and one regular user (token id 2).
func setupServer(t *testing.T) (*echo.Echo, *sqlx.DB, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := config.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	db.MustExec(`INSERT INTO admins (username, password, created_at) VALUES ('admin', ?, 0)`, hash)
	db.MustExec(`INSERT INTO users (name, email, role, status, created_at) VALUES ('Administrator', 'admin@example.com', 'admin', 'active', 0)`)
	db.MustExec(`INSERT INTO users (name, email, role, status, created_at) VALUES ('Basic User', 'basic@example.com', 'user', 'active', 0)`)

	uploadDir := t.TempDir()
	e := echo.New()
	routes.RegisterRoutes(e, db, uploadDir)
	return e, db, uploadDir
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT(1, "admin")
	if err != nil {
		t.Fatalf("generating admin token: %v", err)
	}
	return token
}

func userToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT(2, "basic")
	if err != nil {
		t.Fatalf("generating user token: %v", err)
	}
	return token
}

func doJSON(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func propertyForm(fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()
	return body, w.FormDataContentType()
}

func residentialFields() map[string]string {
	return map[string]string{
		"type":          "residential",
		"listing_type":  "sale",
		"name":          "Casa X",
		"location":      "Calle 123",
		"property_type": "house",
		"price":         "100000",
		"surface":       "200",
		"construction":  "150",
		"description":   "A nice house",
	}
}

func createProperty(t *testing.T, e *echo.Echo, fields map[string]string) int64 {
	t.Helper()
	body, contentType := propertyForm(fields)
	req := httptest.NewRequest(http.MethodPost, "/api/properties", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create property: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	return resp.ID
}

func TestLogin(t *testing.T) {
	e, _, _ := setupServer(t)

	t.Run("valid credentials", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
			Username: "admin", Password: "admin123",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}
		var resp models.LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
			t.Fatalf("no token in response: %s", rec.Body.String())
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
			Username: "admin", Password: "wrong",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", rec.Code)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
			Username: "nobody", Password: "admin123",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", rec.Code)
		}
	})
}

func TestPropertyRoundTrip(t *testing.T) {
	e, _, _ := setupServer(t)

	id := createProperty(t, e, residentialFields())

	rec := doJSON(e, http.MethodGet, fmt.Sprintf("/api/properties/%d", id), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	var got models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding property: %v", err)
	}
	if got.Name != "Casa X" || got.Price != 100000 || got.Surface != 200 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Status != models.StatusActive {
		t.Errorf("status not defaulted to active: %q", got.Status)
	}
	if got.CreatedAt == 0 || got.CreatedAt != got.UpdatedAt {
		t.Errorf("creation timestamps wrong: %d / %d", got.CreatedAt, got.UpdatedAt)
	}

	update := models.PropertyInput{
		Type: "residential", ListingType: "sale", Name: "Casa X Renovada",
		Location: "Calle 123", PropertyType: "house", Price: 120000,
		Surface: 200, Construction: got.Construction, Description: "A nice house, renovated",
		Status: models.StatusSold,
	}
	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/properties/%d", id), adminToken(t), update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", rec.Code, rec.Body.String())
	}
	var updateResp struct {
		Property models.Property `json:"property"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &updateResp); err != nil {
		t.Fatalf("decoding update response: %v", err)
	}
	if updateResp.Property.Name != "Casa X Renovada" || updateResp.Property.Status != models.StatusSold {
		t.Errorf("update not applied: %+v", updateResp.Property)
	}
	if updateResp.Property.UpdatedAt < got.UpdatedAt {
		t.Errorf("updated_at went backwards")
	}

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/properties/%d", id), adminToken(t), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/properties/%d", id), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", rec.Code)
	}
}

func TestPropertyValidationErrors(t *testing.T) {
	e, _, _ := setupServer(t)

	t.Run("residential without construction", func(t *testing.T) {
		fields := residentialFields()
		delete(fields, "construction")
		body, contentType := propertyForm(fields)
		req := httptest.NewRequest(http.MethodPost, "/api/properties", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400; body %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "construction") {
			t.Errorf("error does not name the violated rule: %s", rec.Body.String())
		}
	})

	t.Run("industrial without technical sheet", func(t *testing.T) {
		fields := residentialFields()
		fields["type"] = "industrial"
		body, contentType := propertyForm(fields)
		req := httptest.NewRequest(http.MethodPost, "/api/properties", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "technical_sheet") {
			t.Errorf("error does not name the violated rule: %s", rec.Body.String())
		}
	})

	t.Run("negative price on update", func(t *testing.T) {
		id := createProperty(t, e, residentialFields())
		construction := 150.0
		update := models.PropertyInput{
			Type: "residential", ListingType: "sale", Name: "Casa X",
			Location: "Calle 123", PropertyType: "house", Price: -1,
			Surface: 200, Construction: &construction, Description: "A nice house",
		}
		rec := doJSON(e, http.MethodPut, fmt.Sprintf("/api/properties/%d", id), adminToken(t), update)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestPropertyPartialUpdate(t *testing.T) {
	e, _, _ := setupServer(t)

	t.Run("status only", func(t *testing.T) {
		id := createProperty(t, e, residentialFields())

		rec := doJSON(e, http.MethodPut, fmt.Sprintf("/api/properties/%d", id), adminToken(t),
			map[string]string{"status": "sold"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Property models.Property `json:"property"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding update response: %v", err)
		}
		if resp.Property.Status != models.StatusSold {
			t.Errorf("status not applied: %q", resp.Property.Status)
		}
		if resp.Property.Name != "Casa X" || resp.Property.Price != 100000 {
			t.Errorf("omitted fields did not keep their values: %+v", resp.Property)
		}
	})

	t.Run("commercial price without local size", func(t *testing.T) {
		fields := residentialFields()
		fields["type"] = "commercial"
		fields["local_size"] = "120m2"
		id := createProperty(t, e, fields)

		rec := doJSON(e, http.MethodPut, fmt.Sprintf("/api/properties/%d", id), adminToken(t),
			map[string]float64{"price": 600000})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Property models.Property `json:"property"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding update response: %v", err)
		}
		if resp.Property.Price != 600000 || resp.Property.Type != models.TypeCommercial {
			t.Errorf("partial update wrong: %+v", resp.Property)
		}
	})

	t.Run("invalid field still rejected", func(t *testing.T) {
		id := createProperty(t, e, residentialFields())

		rec := doJSON(e, http.MethodPut, fmt.Sprintf("/api/properties/%d", id), adminToken(t),
			map[string]float64{"price": -1})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestPropertyNotFound(t *testing.T) {
	e, _, _ := setupServer(t)
	token := adminToken(t)

	if rec := doJSON(e, http.MethodGet, "/api/properties/999", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get: status %d, want 404", rec.Code)
	}

	construction := 150.0
	update := models.PropertyInput{
		Type: "residential", ListingType: "sale", Name: "Ghost",
		Location: "Nowhere 1", PropertyType: "house", Price: 1,
		Surface: 1, Construction: &construction, Description: "Does not exist",
	}
	if rec := doJSON(e, http.MethodPut, "/api/properties/999", token, update); rec.Code != http.StatusNotFound {
		t.Errorf("put: status %d, want 404", rec.Code)
	}
	if rec := doJSON(e, http.MethodDelete, "/api/properties/999", token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("delete: status %d, want 404", rec.Code)
	}
}

func TestCreateFailureRemovesStoredImages(t *testing.T) {
	e, db, uploadDir := setupServer(t)

	// With the image table gone the insert transaction fails after the
	// upload files have already been written.
	db.MustExec(`DROP TABLE property_images`)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range residentialFields() {
		w.WriteField(k, v)
	}
	part, err := w.CreateFormFile("images", "casa.jpg")
	if err != nil {
		t.Fatalf("building form file: %v", err)
	}
	part.Write([]byte("not really a jpeg"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/properties", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500; body %s", rec.Code, rec.Body.String())
	}

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		t.Fatalf("reading upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("upload dir not cleaned up, %d file(s) left", len(entries))
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM properties`); err != nil {
		t.Fatalf("counting properties: %v", err)
	}
	if count != 0 {
		t.Errorf("property row survived the failed create")
	}
}

func TestPropertyListPublicAndFiltered(t *testing.T) {
	e, _, _ := setupServer(t)

	createProperty(t, e, residentialFields())
	commercial := residentialFields()
	commercial["type"] = "commercial"
	commercial["local_size"] = "120m2"
	commercial["name"] = "Local Centro"
	commercial["price"] = "500000"
	createProperty(t, e, commercial)

	rec := doJSON(e, http.MethodGet, "/api/properties", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var all []models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(all))
	}

	rec = doJSON(e, http.MethodGet, "/api/properties?type=commercial", "", nil)
	var filtered []models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &filtered); err != nil {
		t.Fatalf("decoding filtered list: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "Local Centro" {
		t.Errorf("type filter wrong: %+v", filtered)
	}
}

func TestAuthorizationRequired(t *testing.T) {
	e, _, _ := setupServer(t)

	t.Run("no token", func(t *testing.T) {
		rec := doJSON(e, http.MethodDelete, "/api/properties/1", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", rec.Code)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		rec := doJSON(e, http.MethodDelete, "/api/properties/1", "garbage", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", rec.Code)
		}
	})

	t.Run("non-admin on admin route", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/users", userToken(t), nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status %d, want 403", rec.Code)
		}
	})
}

func TestUserEndpoints(t *testing.T) {
	e, _, _ := setupServer(t)
	token := adminToken(t)

	rec := doJSON(e, http.MethodPost, "/api/users", token, models.UserInput{
		Name: "Carla", Email: "carla@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	var carla models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &carla); err != nil {
		t.Fatalf("decoding user: %v", err)
	}

	rec = doJSON(e, http.MethodPost, "/api/users", token, models.UserInput{
		Name: "Carla Clone", Email: "carla@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate email: status %d, want 400", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/users/%d", carla.ID), token, models.UserInput{
		Name: "Carla", Email: "basic@example.com", Role: "user", Status: "active",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("colliding email: status %d, want 400", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/users/%d", carla.ID), token, models.UserInput{
		Name: "Carla Prime", Email: "carla@example.com", Role: "user", Status: "active",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("self-email update: status %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/users", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var users []models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decoding users: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("expected 3 users, got %d", len(users))
	}

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/users/%d", carla.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete: status %d", rec.Code)
	}
	rec = doJSON(e, http.MethodDelete, "/api/users/999", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing: status %d, want 404", rec.Code)
	}
}

func TestUserPartialUpdate(t *testing.T) {
	e, _, _ := setupServer(t)
	token := adminToken(t)

	// A rename that does not resend role or status must not strip the
	// admin of either.
	rec := doJSON(e, http.MethodPut, "/api/users/1", token,
		map[string]string{"name": "Root Admin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename: status %d, body %s", rec.Code, rec.Body.String())
	}
	var updated models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decoding user: %v", err)
	}
	if updated.Name != "Root Admin" {
		t.Errorf("name not applied: %q", updated.Name)
	}
	if updated.Role != models.RoleAdmin || updated.Status != models.UserActive {
		t.Errorf("omitted fields blanked: role %q status %q", updated.Role, updated.Status)
	}

	rec = doJSON(e, http.MethodGet, "/api/users", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin lost access after rename: status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, "/api/users/1", token,
		map[string]string{"role": "superuser"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown role: status %d, want 400", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, "/api/users/1", token,
		map[string]string{"name": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: status %d, want 400", rec.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	e, db, _ := setupServer(t)
	token := adminToken(t)

	db.MustExec(`INSERT INTO settings (key, value, category, updated_at) VALUES ('site_name', 'Old', 'general', 0)`)

	rec := doJSON(e, http.MethodGet, "/api/settings", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, "/api/settings/site_name", token, models.UpdateSettingRequest{Value: "New"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", rec.Code, rec.Body.String())
	}
	var setting models.Setting
	if err := json.Unmarshal(rec.Body.Bytes(), &setting); err != nil || setting.Value != "New" {
		t.Errorf("value not updated: %s", rec.Body.String())
	}

	rec = doJSON(e, http.MethodPut, "/api/settings/unknown_key", token, models.UpdateSettingRequest{Value: "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown key: status %d, want 404", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	e, _, _ := setupServer(t)

	createProperty(t, e, residentialFields())

	rec := doJSON(e, http.MethodGet, "/api/stats", adminToken(t), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status %d, body %s", rec.Code, rec.Body.String())
	}
	var report models.StatsReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.TotalProperties != 1 || report.ActiveProperties != 1 {
		t.Errorf("report not derived from live rows: %+v", report)
	}
}

func TestContactEndpoint(t *testing.T) {
	e, _, _ := setupServer(t)
	t.Setenv("SMTP_HOST", "")

	rec := doJSON(e, http.MethodPost, "/api/contact", "", models.ContactRequest{
		Name: "Visitor", Email: "visitor@example.com", Message: "Interested in Casa X",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("contact: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, "/api/contact", "", models.ContactRequest{Name: "No Message"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("incomplete contact: status %d, want 400", rec.Code)
	}
}

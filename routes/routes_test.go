package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"openform/handlers"
	"openform/models"
	"openform/routes"
	"openform/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const adminToken = "test-admin-token"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Form{}, &models.Field{}, &models.Submission{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cache := services.NewDefinitionCache(nil)
	formService := services.NewFormService(db, cache)
	fieldService := services.NewFieldService(db, cache)
	submissionService := services.NewSubmissionService(db)

	router := gin.New()
	routes.SetupRoutes(
		router,
		handlers.NewFormHandler(formService),
		handlers.NewFieldHandler(fieldService),
		handlers.NewPublicHandler(formService),
		handlers.NewSubmissionHandler(submissionService),
		adminToken,
	)
	return router
}

type envelope struct {
	Status     bool                 `json:"status"`
	Message    string               `json:"message"`
	Data       json.RawMessage      `json:"data"`
	Errors     map[string]string    `json:"errors"`
	Pagination *handlers.Pagination `json:"pagination"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, authed bool) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response envelope %q: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func createTestForm(t *testing.T, router *gin.Engine) uint {
	t.Helper()
	code, env := doJSON(t, router, http.MethodPost, "/forms", map[string]interface{}{
		"title": "Signup form",
	}, false)
	if code != http.StatusCreated {
		t.Fatalf("create form: expected 201, got %d (%s)", code, env.Message)
	}
	var form models.Form
	if err := json.Unmarshal(env.Data, &form); err != nil {
		t.Fatalf("failed to decode form: %v", err)
	}
	return form.ID
}

func addField(t *testing.T, router *gin.Engine, formID uint, body map[string]interface{}) {
	t.Helper()
	code, env := doJSON(t, router, http.MethodPost, fmt.Sprintf("/forms/%d/fields", formID), body, false)
	if code != http.StatusCreated {
		t.Fatalf("create field: expected 201, got %d (%s)", code, env.Message)
	}
}

func TestSubmissionFlow(t *testing.T) {
	router := newTestRouter(t)
	formID := createTestForm(t, router)

	addField(t, router, formID, map[string]interface{}{
		"label": "Email", "name": "email", "type": "email", "required": true,
	})
	addField(t, router, formID, map[string]interface{}{
		"label": "Age", "name": "age", "type": "number",
		"validation": map[string]interface{}{"min": 18, "max": 65},
	})

	submitPath := fmt.Sprintf("/forms/%d/submit", formID)

	t.Run("RequiresAuth", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodPost, submitPath, map[string]interface{}{
			"answers": map[string]interface{}{"email": "a@b.com"},
		}, false)
		if code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", code)
		}
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodPost, submitPath, map[string]interface{}{
			"answers": map[string]interface{}{"email": "a@b.com", "age": 70},
		}, true)
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", code)
		}
		if env.Status || env.Message != "Validation failed" {
			t.Fatalf("unexpected envelope: %+v", env)
		}
		if env.Errors["age"] != "Maximum value is 65." {
			t.Fatalf("unexpected errors: %v", env.Errors)
		}
	})

	t.Run("Success", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodPost, submitPath, map[string]interface{}{
			"answers": map[string]interface{}{"email": "a@b.com", "age": 40},
		}, true)
		if code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", code, env.Message)
		}
		if !env.Status || env.Message != "Form submitted successfully" {
			t.Fatalf("unexpected envelope: %+v", env)
		}
	})

	t.Run("ListSubmissions", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodGet, fmt.Sprintf("/forms/%d/listSubmissions?page=1&limit=10", formID), nil, true)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if env.Pagination == nil || env.Pagination.Total != 1 || env.Pagination.TotalPages != 1 {
			t.Fatalf("unexpected pagination: %+v", env.Pagination)
		}

		var submissions []models.Submission
		if err := json.Unmarshal(env.Data, &submissions); err != nil {
			t.Fatalf("failed to decode submissions: %v", err)
		}
		if len(submissions) != 1 {
			t.Fatalf("expected 1 submission, got %d", len(submissions))
		}
		if age, ok := submissions[0].Answers["age"].(float64); !ok || age != 40 {
			t.Fatalf("age must be stored as a number, got %v", submissions[0].Answers["age"])
		}
	})

	t.Run("DeleteFormBlocked", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/admin/forms?formId=%d", formID), nil, true)
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", code)
		}
		if env.Message != "Cannot delete form because submissions exist. Consider archiving instead." {
			t.Fatalf("unexpected message: %q", env.Message)
		}
	})
}

func TestPublicSurface(t *testing.T) {
	router := newTestRouter(t)
	formID := createTestForm(t, router)
	addField(t, router, formID, map[string]interface{}{
		"label": "Color", "name": "color", "type": "select",
		"options": []map[string]interface{}{{"value": "red", "label": "Red"}},
	})

	t.Run("ListForms", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodGet, "/users/forms", nil, false)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var forms []services.PublicForm
		if err := json.Unmarshal(env.Data, &forms); err != nil {
			t.Fatalf("failed to decode forms: %v", err)
		}
		if len(forms) != 1 || forms[0].Title != "Signup form" {
			t.Fatalf("unexpected listing: %+v", forms)
		}
	})

	t.Run("GetDefinition", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodGet, fmt.Sprintf("/user/forms/%d", formID), nil, false)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var def services.FormDefinition
		if err := json.Unmarshal(env.Data, &def); err != nil {
			t.Fatalf("failed to decode definition: %v", err)
		}
		if def.Form.ID != formID || len(def.Fields) != 1 || def.Fields[0].Name != "color" {
			t.Fatalf("unexpected definition: %+v", def)
		}
	})

	t.Run("ArchivedIsNotFound", func(t *testing.T) {
		archived := true
		code, _ := doJSON(t, router, http.MethodPut, fmt.Sprintf("/admin/forms?formId=%d", formID),
			services.UpdateFormRequest{IsArchive: &archived}, true)
		if code != http.StatusOK {
			t.Fatalf("archive update failed with %d", code)
		}

		code, _ = doJSON(t, router, http.MethodGet, fmt.Sprintf("/user/forms/%d", formID), nil, false)
		if code != http.StatusNotFound {
			t.Fatalf("expected 404 for archived form, got %d", code)
		}

		code, env := doJSON(t, router, http.MethodGet, "/users/forms", nil, false)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var forms []services.PublicForm
		if err := json.Unmarshal(env.Data, &forms); err != nil {
			t.Fatalf("failed to decode forms: %v", err)
		}
		if len(forms) != 0 {
			t.Fatalf("archived forms must not be listed publicly: %+v", forms)
		}
	})
}

func TestFieldEndpoints(t *testing.T) {
	router := newTestRouter(t)
	formID := createTestForm(t, router)

	t.Run("ChoiceWithoutOptions", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodPost, fmt.Sprintf("/forms/%d/fields", formID), map[string]interface{}{
			"label": "Color", "name": "color", "type": "radio",
		}, false)
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", code)
		}
		if env.Message != "Options are required for radio/select/checkbox fields" {
			t.Fatalf("unexpected message: %q", env.Message)
		}
	})

	t.Run("DuplicateName", func(t *testing.T) {
		addField(t, router, formID, map[string]interface{}{"label": "Email", "name": "email", "type": "email"})
		code, env := doJSON(t, router, http.MethodPost, fmt.Sprintf("/forms/%d/fields", formID), map[string]interface{}{
			"label": "Email again", "name": "email", "type": "email",
		}, false)
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", code)
		}
		if env.Message != `Field name "email" already exists in this form. Please choose a different name.` {
			t.Fatalf("unexpected message: %q", env.Message)
		}
	})

	t.Run("ReorderThenList", func(t *testing.T) {
		addField(t, router, formID, map[string]interface{}{"label": "B", "name": "b", "type": "text"})

		code, env := doJSON(t, router, http.MethodGet, fmt.Sprintf("/admin/formsFields?formId=%d", formID), nil, true)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var fields []models.Field
		if err := json.Unmarshal(env.Data, &fields); err != nil {
			t.Fatalf("failed to decode fields: %v", err)
		}
		if len(fields) != 2 || fields[0].Name != "email" {
			t.Fatalf("unexpected fields: %+v", fields)
		}

		code, _ = doJSON(t, router, http.MethodPut, fmt.Sprintf("/admin/forms/%d/fields/reorder", formID), map[string]interface{}{
			"fieldsOrder": []map[string]interface{}{
				{"fieldId": fields[0].ID, "order": 2},
				{"fieldId": fields[1].ID, "order": 1},
			},
		}, true)
		if code != http.StatusOK {
			t.Fatalf("reorder failed with %d", code)
		}

		code, env = doJSON(t, router, http.MethodGet, fmt.Sprintf("/admin/formsFields?formId=%d", formID), nil, true)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if err := json.Unmarshal(env.Data, &fields); err != nil {
			t.Fatalf("failed to decode fields: %v", err)
		}
		if fields[0].Name != "b" || fields[1].Name != "email" {
			t.Fatalf("expected b before email after reorder, got %+v", fields)
		}
	})

	t.Run("ReorderAcceptsZeroOrder", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodGet, fmt.Sprintf("/admin/formsFields?formId=%d", formID), nil, true)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var fields []models.Field
		if err := json.Unmarshal(env.Data, &fields); err != nil {
			t.Fatalf("failed to decode fields: %v", err)
		}

		code, env = doJSON(t, router, http.MethodPut, fmt.Sprintf("/admin/forms/%d/fields/reorder", formID), map[string]interface{}{
			"fieldsOrder": []map[string]interface{}{
				{"fieldId": fields[len(fields)-1].ID, "order": 0},
			},
		}, true)
		if code != http.StatusOK {
			t.Fatalf("an explicit zero order must be accepted, got %d (%s)", code, env.Message)
		}

		code, env = doJSON(t, router, http.MethodGet, fmt.Sprintf("/admin/formsFields?formId=%d", formID), nil, true)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var reordered []models.Field
		if err := json.Unmarshal(env.Data, &reordered); err != nil {
			t.Fatalf("failed to decode fields: %v", err)
		}
		if reordered[0].ID != fields[len(fields)-1].ID || reordered[0].Order != 0 {
			t.Fatalf("field with order 0 must sort first, got %+v", reordered)
		}
	})

	t.Run("AdminRoutesRequireAuth", func(t *testing.T) {
		for _, target := range []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/admin/forms"},
			{http.MethodGet, fmt.Sprintf("/admin/formsFields?formId=%d", formID)},
			{http.MethodDelete, "/admin/fields/1"},
		} {
			code, _ := doJSON(t, router, target.method, target.path, nil, false)
			if code != http.StatusUnauthorized {
				t.Fatalf("%s %s: expected 401, got %d", target.method, target.path, code)
			}
		}
	})
}

package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sagrapp/backend/config"
	"sagrapp/backend/gamification"
	"sagrapp/backend/utils"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := utils.OpenTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:   "testsecret",
		TokenTTL:    time.Hour,
		CORSOrigins: "*",
		StreakMode:  gamification.StreakCalendar,
		Location:    time.UTC,
		AdminEmails: []string{"admin@example.com"},
	}
	log := utils.NopLogger()

	app := NewApp(cfg, log)
	SetupRoutes(app, db, cfg, log)
	return &testServer{t: t, app: app}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var result map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &result), string(raw))
	}
	return resp.StatusCode, result
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	status, result := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     email,
		"password":  "password123",
		"full_name": "Test User",
	})
	require.Equal(s.t, fiber.StatusCreated, status, result)
	return dataOf(s.t, result)["token"].(string)
}

func (s *testServer) userID(token string) string {
	s.t.Helper()
	status, result := s.do(http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(s.t, fiber.StatusOK, status, result)
	return dataOf(s.t, result)["user"].(map[string]interface{})["id"].(string)
}

func dataOf(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", result)
	return data
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	status, result := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "not-an-email",
		"password":  "password123",
		"full_name": "Ana",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, result["details"], "email")

	token := s.register("ana@example.com")

	status, _ = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "ana@example.com",
		"password":  "password123",
		"full_name": "Ana",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, result = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, dataOf(t, result)["token"])

	status, result = s.do(http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	profile := dataOf(t, result)
	assert.Equal(t, "ana@example.com", profile["user"].(map[string]interface{})["email"])
	assert.Equal(t, false, profile["is_admin"])
	assert.Equal(t, float64(100), profile["level"].(map[string]interface{})["next_threshold"])

	status, _ = s.do(http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = s.do(http.MethodGet, "/api/user/profile", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = s.do(http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLearningFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.register("admin@example.com")
	userToken := s.register("ana@example.com")

	status, _ := s.do(http.MethodPost, "/api/admin/courses", userToken, map[string]interface{}{"title": "Nope"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, result := s.do(http.MethodPost, "/api/admin/courses", adminToken, map[string]interface{}{
		"title":        "Gospel of Mark",
		"order_index":  1,
		"lesson_count": []map[string]int{{"count": 7}},
	})
	require.Equal(t, fiber.StatusCreated, status, result)
	courseID := dataOf(t, result)["id"].(string)

	status, result = s.do(http.MethodPost, "/api/admin/lessons", adminToken, map[string]interface{}{
		"course_id": courseID,
		"title":     "The Sower",
	})
	require.Equal(t, fiber.StatusCreated, status, result)
	lessonID := dataOf(t, result)["id"].(string)

	status, result = s.do(http.MethodPost, "/api/admin/questions", adminToken, map[string]interface{}{
		"lesson_id":      lessonID,
		"text":           "Where did the good seed fall?",
		"type":           "multiple_choice",
		"options":        []string{"Path", "Good soil"},
		"correct_answer": "Good soil",
	})
	require.Equal(t, fiber.StatusCreated, status, result)
	questionID := dataOf(t, result)["id"].(string)

	status, result = s.do(http.MethodPost, "/api/admin/activities", adminToken, map[string]interface{}{
		"lesson_id":     lessonID,
		"activity_type": "reflection",
		"prompt":        "What kind of soil are you?",
	})
	require.Equal(t, fiber.StatusCreated, status, result)

	status, result = s.do(http.MethodGet, "/api/courses", userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	courses := result["data"].([]interface{})
	require.Len(t, courses, 1)
	assert.Equal(t, float64(1), courses[0].(map[string]interface{})["lesson_count"])

	status, result = s.do(http.MethodGet, "/api/lessons/"+lessonID, userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	lesson := dataOf(t, result)
	questions := lesson["questions"].([]interface{})
	require.Len(t, questions, 1)
	assert.Equal(t, "Good soil", questions[0].(map[string]interface{})["correct_answer"])
	assert.NotNil(t, lesson["spiritual_activity"])

	status, result = s.do(http.MethodPost, "/api/lessons/"+lessonID+"/complete", userToken, map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questionID, "user_answer": " good SOIL "},
		},
		"spiritual_response": "Rocky, some days",
	})
	require.Equal(t, fiber.StatusOK, status, result)
	completion := dataOf(t, result)
	assert.Equal(t, float64(10), completion["xp_earned"])
	assert.Equal(t, float64(1), completion["streak_days"])

	status, result = s.do(http.MethodGet, "/api/progress/dashboard", userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	dashboard := dataOf(t, result)
	assert.Equal(t, float64(1), dashboard["lessons_completed"])
	assert.Equal(t, float64(10), dashboard["total_xp_earned"])
	first := dashboard["courses"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(100), first["percent_complete"])

	status, result = s.do(http.MethodGet, "/api/courses/"+courseID, userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(100), dataOf(t, result)["percent_complete"])

	status, result = s.do(http.MethodPost, "/api/progress/streak", userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, dataOf(t, result)["changed"])

	status, result = s.do(http.MethodGet, "/api/progress", userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, result["data"], 1)
}

func TestAdminUsers(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.register("admin@example.com")
	s.register("ana@example.com")
	s.register("luis@example.com")

	status, result := s.do(http.MethodGet, "/api/admin/users?page=1&pageSize=2", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	meta := result["meta"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(2), meta["total_pages"])
	assert.Len(t, result["data"], 2)

	status, result = s.do(http.MethodGet, "/api/admin/users/stats", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(3), dataOf(t, result)["total_users"])
}

func TestAdminRoleGrantAndRevoke(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.register("admin@example.com")
	anaToken := s.register("ana@example.com")
	adminID := s.userID(adminToken)
	anaID := s.userID(anaToken)

	status, _ := s.do(http.MethodGet, "/api/admin/users", anaToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(http.MethodPost, "/api/admin/users/"+anaID+"/admin", adminToken, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, _ = s.do(http.MethodGet, "/api/admin/users", anaToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, result := s.do(http.MethodDelete, "/api/admin/users/"+adminID+"/admin", adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, utils.CodeInvalidInput, result["code"])

	status, _ = s.do(http.MethodDelete, "/api/admin/users/"+anaID+"/admin", adminToken, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, result = s.do(http.MethodDelete, "/api/admin/users/"+anaID+"/admin", adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, utils.CodeNotFound, result["code"])

	status, _ = s.do(http.MethodGet, "/api/admin/users", anaToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(http.MethodDelete, "/api/admin/users/"+adminID+"/admin", anaToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(http.MethodGet, "/api/admin/users", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)
	token := s.register("ana@example.com")

	status, _ := s.do(http.MethodGet, "/api/lessons/not-a-uuid", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, result := s.do(http.MethodGet, "/api/lessons/7c2e1b7e-8f4a-4b8e-9a51-3a0d2b6c9e11", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, utils.CodeNotFound, result["code"])

	status, _ = s.do(http.MethodPost, "/api/progress", token, map[string]interface{}{"completed": true})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

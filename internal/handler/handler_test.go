package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"foodgram/backend/internal/config"
	"foodgram/backend/internal/database/dbtest"
	"foodgram/backend/internal/media"
	"foodgram/backend/internal/models"
	"foodgram/backend/internal/shortlink"
	"foodgram/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	testSecret = "handler-test-secret"
	testPublic = "http://foodgram.test"
	pixelPNG   = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
)

type server struct {
	t         *testing.T
	db        *gorm.DB
	router    *gin.Engine
	mediaRoot string
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	original := config.AppConfig
	config.AppConfig = &config.Config{JWTSecret: testSecret, TokenTTL: time.Hour, PublicURL: testPublic}
	t.Cleanup(func() { config.AppConfig = original })

	db := dbtest.New(t)
	dbtest.UseGlobal(t, db)

	links, err := shortlink.New("", 6)
	if err != nil {
		t.Fatalf("shortlink.New() error = %v", err)
	}
	mediaRoot := t.TempDir()
	Configure(Dependencies{Media: media.NewLocalStore(mediaRoot, "/media"), Links: links})

	return &server{t: t, db: db, router: NewRouter(RouterOptions{}), mediaRoot: mediaRoot}
}

// storedFile reports whether the media file behind ref is on disk.
func (s *server) storedFile(ref string) bool {
	s.t.Helper()
	path := filepath.Join(s.mediaRoot, filepath.FromSlash(strings.TrimPrefix(ref, "/media/")))
	_, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		s.t.Fatalf("stat %s: %v", path, err)
	}
	return err == nil
}

func (s *server) token(user models.User) string {
	s.t.Helper()
	token, _, err := jwt.GenerateToken(testSecret, user.ID, time.Hour)
	if err != nil {
		s.t.Fatalf("GenerateToken() error = %v", err)
	}
	return token
}

func (s *server) admin(username string) models.User {
	s.t.Helper()
	user := dbtest.CreateUser(s.t, s.db, username)
	if err := s.db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
		s.t.Fatalf("promote %s: %v", username, err)
	}
	user.Role = models.RoleAdmin
	return user
}

// do sends body as JSON with an optional "Token <jwt>" header.
func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, want, w.Body.String())
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestPing(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/ping", "", nil)
	expectStatus(t, w, http.StatusOK)
}

func TestRoutesWithoutCapabilityAnswer405(t *testing.T) {
	s := newServer(t)
	user := dbtest.CreateUser(t, s.db, "cook")
	token := s.token(user)

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			w := s.do(method, "/api/users/1", token, map[string]string{"first_name": "x"})
			expectStatus(t, w, http.StatusMethodNotAllowed)
		})
	}
}

func TestEveryRouteHasCapabilityOrIsClosed(t *testing.T) {
	for _, route := range Routes() {
		_, ok := capabilities[permission{route.Entity, route.Operation}]
		if ok == (route.Handler == nil) {
			t.Errorf("%s %s: capability present = %v but handler nil = %v", route.Method, route.Path, ok, route.Handler == nil)
		}
	}
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/mock"
	"github.com/stfnfhrmnn/vocabsync/internal/service"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/models"
)

func newTestHandler(authSvc service.AuthService, syncSvc service.SyncService) *Handler {
	return NewHandler(&service.Services{
		AuthService: authSvc,
		SyncService: syncSvc,
	}, logger.Nop())
}

func userBody(t *testing.T, u models.User) string {
	t.Helper()
	b, err := json.Marshal(u)
	require.NoError(t, err)
	return string(b)
}

var validUser = models.User{
	Login:    "alice",
	Password: "s3cret",
}

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	authSvc := mock.NewMockAuthService(ctrl)

	registered := models.User{ID: 7, Login: "alice"}
	authSvc.EXPECT().RegisterUser(gomock.Any(), validUser).Return(registered, nil)
	authSvc.EXPECT().CreateToken(gomock.Any(), registered).
		Return(models.Token{SignedString: "signed-jwt", UserID: 7}, nil)

	h := newTestHandler(authSvc, nil)
	router := h.Init()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(userBody(t, validUser)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bearer signed-jwt", rr.Header().Get("Authorization"))
}

func TestRegister_LoginTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	authSvc := mock.NewMockAuthService(ctrl)

	authSvc.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).
		Return(models.User{}, store.ErrLoginAlreadyExists)

	h := newTestHandler(authSvc, nil)
	router := h.Init()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(userBody(t, validUser)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Empty(t, rr.Header().Get("Authorization"))
}

func TestRegister_InvalidJSON(t *testing.T) {
	h := newTestHandler(nil, nil)
	router := h.Init()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not-json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_EmptyFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	authSvc := mock.NewMockAuthService(ctrl)

	authSvc.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).
		Return(models.User{}, service.ErrInvalidDataProvided)

	h := newTestHandler(authSvc, nil)
	router := h.Init()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"login":""}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	authSvc := mock.NewMockAuthService(ctrl)

	found := models.User{ID: 7, Login: "alice"}
	authSvc.EXPECT().Login(gomock.Any(), validUser).Return(found, nil)
	authSvc.EXPECT().CreateToken(gomock.Any(), found).
		Return(models.Token{SignedString: "signed-jwt", UserID: 7}, nil)

	h := newTestHandler(authSvc, nil)
	router := h.Init()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(userBody(t, validUser)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bearer signed-jwt", rr.Header().Get("Authorization"))
}

func TestLogin_WrongCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	authSvc := mock.NewMockAuthService(ctrl)

	authSvc.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.User{}, service.ErrInvalidCredentials)

	h := newTestHandler(authSvc, nil)
	router := h.Init()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(userBody(t, validUser)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Header().Get("Authorization"))
}

func TestLogin_TokenCreationFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	authSvc := mock.NewMockAuthService(ctrl)

	authSvc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.User{ID: 7}, nil)
	authSvc.EXPECT().CreateToken(gomock.Any(), gomock.Any()).
		Return(models.Token{}, service.ErrTokenCreationFailed)

	h := newTestHandler(authSvc, nil)
	router := h.Init()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(userBody(t, validUser)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

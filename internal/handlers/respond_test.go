package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"vasplink/internal/render"
	"vasplink/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func doRespond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	respondError(c, err)
	return recorder
}

func TestRespondError_RenderFailureSurfacesEngineMessage(t *testing.T) {
	err := fmt.Errorf("%w: %v", services.ErrRender, render.ErrMalformedLoop)
	recorder := doRespond(err)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "malformed transaction block")
}

func TestRespondError_SentinelMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: bad format", services.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: .pdf files are not supported", services.ErrInvalidFileType), http.StatusBadRequest},
		{services.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{services.ErrDefaultTemplate, http.StatusConflict},
		{services.ErrEmailTaken, http.StatusConflict},
		{services.ErrInvalidLogin, http.StatusUnauthorized},
		{services.ErrInvalidToken, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, doRespond(tc.err).Code, "error %v", tc.err)
	}
}

func TestRespondError_UnknownErrorStaysGeneric(t *testing.T) {
	recorder := doRespond(fmt.Errorf("dsn parse failed: secret detail"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "secret detail")
}

package workorders

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"frota/pkg/apperrors"
	"frota/pkg/models"
)

func handlerContext(t *testing.T, f *serviceFixture, method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(method, "/work-orders/42", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	if f != nil {
		c.Set("actor", f.actor)
	}

	return c, recorder
}

func TestGetWorkOrderHandlerNotFound(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{})
	handler := NewOrderHandler(f.service)

	f.orders.On("GetWorkOrder", 42).Return(nil, apperrors.NewNotFound("work_order", 42))

	c, recorder := handlerContext(t, f, http.MethodGet, "")
	handler.GetWorkOrder(c)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetWorkOrderHandlerMissingActor(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{})
	handler := NewOrderHandler(f.service)

	c, recorder := handlerContext(t, nil, http.MethodGet, "")
	handler.GetWorkOrder(c)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestTransitionHandlerUnknownStatus(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{})
	handler := NewOrderHandler(f.service)

	c, recorder := handlerContext(t, f, http.MethodPatch, `{"status":"exploded"}`)
	handler.TransitionWorkOrder(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestTransitionHandlerTerminalOrder(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{})
	handler := NewOrderHandler(f.service)

	f.orders.On("GetWorkOrder", 42).Return(f.order(models.OrderCompleted), nil)

	c, recorder := handlerContext(t, f, http.MethodPatch, `{"status":"diagnosis"}`)
	handler.TransitionWorkOrder(c)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestTransitionHandlerConflict(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{})
	handler := NewOrderHandler(f.service)

	f.orders.On("GetWorkOrder", 42).Return(f.order(models.OrderInProgress), nil)
	f.orders.On("UpdateStatus", mock.Anything, 42, models.OrderInProgress, models.OrderDiagnosis, mock.Anything, mock.Anything).Return(int64(0), nil)

	c, recorder := handlerContext(t, f, http.MethodPatch, `{"status":"diagnosis"}`)
	handler.TransitionWorkOrder(c)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

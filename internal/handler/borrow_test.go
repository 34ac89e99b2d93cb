package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avdeyev/bookhub/config"
	"github.com/avdeyev/bookhub/internal/errs"
	"github.com/avdeyev/bookhub/internal/handler"
	"github.com/avdeyev/bookhub/internal/model"
	"github.com/avdeyev/bookhub/pkg/auth"
	"github.com/avdeyev/bookhub/pkg/validate"

	service_mocks "github.com/avdeyev/bookhub/internal/handler/mocks"
)

// withTestUser stands in for the jwt middleware.
func withTestUser(user auth.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.SetAuthContext(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func TestHandler_CreateBorrow(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowService)

	borrowReq := model.CreateBorrowRequest{
		BookID:     1,
		BorrowDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	body := `{"bookId":1,"borrowDate":"2024-01-01T00:00:00Z","returnDate":"2024-01-15T00:00:00Z"}`

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: body,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Borrow(gomock.Any(), 7, borrowReq).
					Return(model.Borrow{
						ID:         1,
						UserID:     7,
						BookID:     1,
						BorrowDate: borrowReq.BorrowDate,
						ReturnDate: borrowReq.ReturnDate,
						BorrowKey:  "k3y0fTenCh",
						Status:     model.StatusPending,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":1,"userId":7,"bookId":1,"borrowDate":"2024-01-01T00:00:00Z","returnDate":"2024-01-15T00:00:00Z","borrowKey":"k3y0fTenCh","status":"pending"}`,
			},
		},
		{
			name: "err. book not found",
			body: body,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Borrow(gomock.Any(), 7, borrowReq).
					Return(model.Borrow{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name: "err. no copies",
			body: body,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Borrow(gomock.Any(), 7, borrowReq).
					Return(model.Borrow{}, errs.ErrNoCopies)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"no copies available"}`,
			},
		},
		{
			name:         "err. missing bookId",
			body:         `{"borrowDate":"2024-01-01T00:00:00Z","returnDate":"2024-01-15T00:00:00Z"}`,
			mockBehavior: func(r *service_mocks.MockBorrowService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. internal",
			body: body,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Borrow(gomock.Any(), 7, borrowReq).
					Return(model.Borrow{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			borrowSvc := service_mocks.NewMockBorrowService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, borrowSvc, nil, config.Cloudinary{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/borrows", h.CreateBorrow, withTestUser(auth.User{ID: 7, Username: "reader"}))

			tt.mockBehavior(borrowSvc)

			r := httptest.NewRequest(http.MethodPost, "/borrows", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_ReturnBorrow(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowService)

	var tests = []struct {
		name         string
		id           string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			id:   "1",
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Return(gomock.Any(), 1).
					Return(nil)
			},
			response: response{
				expectedCode: http.StatusNoContent,
			},
		},
		{
			name: "err. not found",
			id:   "42",
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Return(gomock.Any(), 42).
					Return(errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name: "err. already returned",
			id:   "1",
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Return(gomock.Any(), 1).
					Return(errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"borrow already returned"}`,
			},
		},
		{
			name:         "err. invalid id",
			id:           "abc",
			mockBehavior: func(r *service_mocks.MockBorrowService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid borrow id"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			borrowSvc := service_mocks.NewMockBorrowService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, borrowSvc, nil, config.Cloudinary{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/borrows/:id/return", h.ReturnBorrow, withTestUser(auth.User{ID: 7, Username: "reader"}))

			tt.mockBehavior(borrowSvc)

			r := httptest.NewRequest(http.MethodPost, "/borrows/"+tt.id+"/return", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

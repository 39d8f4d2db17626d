package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/deal"
	"github.com/thikabizhub/bizhub-backend/internal/domain/report"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/middleware"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/jwt"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

const testBusinessID = "0b8f6a8e-4f43-4f7e-9d7c-6a4f0d1c2b3a"

type stubBusinessService struct {
	business.BusinessService

	listed   []business.ListBusinessesRequest
	listErr  error
	nearby   []business.NearbyRequest
	viewer   *business.Actor
	uploaded []byte
	ctype    string
}

func (s *stubBusinessService) List(ctx context.Context, req business.ListBusinessesRequest) (pagination.Page[business.BusinessResponse], error) {
	s.listed = append(s.listed, req)
	if s.listErr != nil {
		return pagination.Page[business.BusinessResponse]{}, s.listErr
	}
	return pagination.Page[business.BusinessResponse]{Items: []business.BusinessResponse{}}, nil
}

func (s *stubBusinessService) Nearby(ctx context.Context, req business.NearbyRequest) ([]business.NearbyBusinessResponse, error) {
	s.nearby = append(s.nearby, req)
	return []business.NearbyBusinessResponse{}, nil
}

func (s *stubBusinessService) Get(ctx context.Context, id string, viewer *business.Actor) (business.BusinessResponse, error) {
	s.viewer = viewer
	if id != testBusinessID {
		return business.BusinessResponse{}, business.ErrBusinessNotFound
	}
	return business.BusinessResponse{ID: id}, nil
}

func (s *stubBusinessService) UploadImage(ctx context.Context, actor business.Actor, id string, r io.Reader, contentType string) (business.BusinessResponse, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return business.BusinessResponse{}, err
	}
	s.uploaded = data
	s.ctype = contentType
	return business.BusinessResponse{ID: id}, nil
}

type stubDealService struct{ deal.DealService }

func (stubDealService) ListActive(ctx context.Context) ([]deal.DealResponse, error) {
	return []deal.DealResponse{}, nil
}

type stubReportService struct {
	report.ReportService
	lastReq pagination.Request
}

func (s *stubReportService) List(ctx context.Context, req pagination.Request) (pagination.Page[report.ReportResponse], error) {
	s.lastReq = req
	return pagination.Page[report.ReportResponse]{Items: []report.ReportResponse{}}, nil
}

type testServer struct {
	handler    http.Handler
	jwt        *jwt.JWTService
	businesses *stubBusinessService
	reports    *stubReportService
}

func newTestServer() testServer {
	j := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour)
	businesses := &stubBusinessService{}
	reports := &stubReportService{}

	h := NewRouter(RouterConfig{
		Env:            "test",
		Version:        "test",
		AllowedOrigins: []string{"http://frontend.test"},
		JWTService:     j,
		RateLimiter:    middleware.NewRateLimiter(100, 100),
		Auth:           NewAuthHandler(j, &fakeAuthService{}, "http://frontend.test", false),
		Business:       NewBusinessHandler(businesses),
		Deal:           NewDealHandler(stubDealService{}),
		Report:         NewReportHandler(reports),
		User:           NewUserHandler(nil, businesses),
		Review:         NewReviewHandler(nil, nil),
		Proof:          NewProofHandler(nil),
		Analytics:      NewAnalyticsHandler(nil),
		Invite:         NewInviteHandler(nil),
		Referral:       NewReferralHandler(nil),
		Notification:   NewNotificationHandler(nil, j),
	})
	return testServer{handler: h, jwt: j, businesses: businesses, reports: reports}
}

func (s testServer) token(t *testing.T, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(jwt.Claims{UserID: "u-" + string(role), Email: "x@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func (s testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Ops(t *testing.T) {
	s := newTestServer()

	assert.Equal(t, http.StatusOK, s.do(httptest.NewRequest(http.MethodGet, "/", nil), "").Code)
	assert.Equal(t, http.StatusOK, s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil), "").Code)
}

func TestRouter_Access(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name   string
		method string
		path   string
		role   user.Role
		want   int
	}{
		{"public deals", http.MethodGet, "/api/v1/deals", "", http.StatusOK},
		{"admin route without token", http.MethodGet, "/api/v1/admin/reports", "", http.StatusUnauthorized},
		{"admin route as user", http.MethodGet, "/api/v1/admin/reports", user.RoleUser, http.StatusForbidden},
		{"admin route as admin", http.MethodGet, "/api/v1/admin/reports", user.RoleAdmin, http.StatusOK},
		{"user directory as user", http.MethodGet, "/api/v1/users", user.RoleUser, http.StatusForbidden},
		{"stream without sse token", http.MethodGet, "/api/v1/notifications/stream", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := ""
			if tt.role != "" {
				token = s.token(t, tt.role)
			}
			rec := s.do(httptest.NewRequest(tt.method, tt.path, nil), token)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_ReportStatusFilter(t *testing.T) {
	s := newTestServer()
	admin := s.token(t, user.RoleAdmin)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports?status=pending&page_size=5", nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, s.reports.lastReq.PageSize)
	assert.Equal(t, []pagination.Filter{pagination.Eq("status", "pending")}, s.reports.lastReq.Filters)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports?status=archived", nil), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBusinessHandler_ListQuery(t *testing.T) {
	s := newTestServer()

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/businesses?category=food&county=Kiambu&search=Ma&page_size=3", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, s.businesses.listed, 1)

	got := s.businesses.listed[0]
	assert.Equal(t, "food", got.Category)
	assert.Equal(t, "Kiambu", got.County)
	assert.Equal(t, "Ma", got.Search)
	assert.Equal(t, 3, got.Page.PageSize)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/businesses?page_size=0", nil), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBusinessHandler_ListRejectsBadPaginationInput(t *testing.T) {
	foreign := pagination.Cursor{Value: "not-a-time", ID: "42"}.Encode()

	tests := []struct {
		name  string
		query string
		err   error
	}{
		{"unknown order field", "order_by=bogus", fmt.Errorf("%w: %s", pagination.ErrUnknownField, "bogus")},
		{"cursor from another column", "after=" + foreign, pagination.ErrInvalidCursor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			s.businesses.listErr = tt.err

			rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/businesses?"+tt.query, nil), "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"BAD_REQUEST"`)
		})
	}
}

func TestBusinessHandler_Nearby(t *testing.T) {
	s := newTestServer()

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/nearby?lat=-1.03&lng=37.07&radius_km=10", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, s.businesses.nearby, 1)
	assert.Equal(t, -1.03, s.businesses.nearby[0].Latitude)
	assert.Equal(t, 10.0, s.businesses.nearby[0].RadiusKm)
	assert.Equal(t, business.DefaultNearbyLimit, s.businesses.nearby[0].Limit)

	for _, target := range []string{
		"/api/v1/businesses/nearby",
		"/api/v1/businesses/nearby?lat=abc&lng=37",
		"/api/v1/businesses/nearby?lat=-1&lng=37&radius_km=500",
	} {
		rec = s.do(httptest.NewRequest(http.MethodGet, target, nil), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Len(t, s.businesses.nearby, 1)
}

func TestBusinessHandler_GetViewer(t *testing.T) {
	s := newTestServer()

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/"+testBusinessID, nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, s.businesses.viewer)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/"+testBusinessID, nil), s.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, s.businesses.viewer)
	assert.True(t, s.businesses.viewer.IsAdmin)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/not-a-uuid", nil), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/1b8f6a8e-4f43-4f7e-9d7c-6a4f0d1c2b3a", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBusinessHandler_UploadImage(t *testing.T) {
	s := newTestServer()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="image"; filename="shop.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/businesses/"+testBusinessID+"/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := s.do(req, s.token(t, user.RoleUser))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []byte("png-bytes"), s.businesses.uploaded)
	assert.Equal(t, "image/png", s.businesses.ctype)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/businesses/"+testBusinessID+"/images", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec = s.do(req, s.token(t, user.RoleUser))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

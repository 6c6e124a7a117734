package tournament_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	"github.com/Jakababa94/kenya-liga-hub/internal/tournament"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	filter tournament.ListFilter
	caller *auth.User
}

func (s *stubService) List(_ context.Context, f tournament.ListFilter) ([]*tournament.Tournament, error) {
	s.filter = f
	return []*tournament.Tournament{{ID: "t-1", Name: "Nairobi Super Cup"}}, nil
}

func (s *stubService) Mine(_ context.Context, caller *auth.User) ([]*tournament.Tournament, error) {
	s.caller = caller
	return []*tournament.Tournament{{ID: "t-3", OrganizerID: caller.ID}}, nil
}

func (s *stubService) Get(_ context.Context, id string) (*tournament.Tournament, error) {
	return nil, tournament.ErrTournamentNotFound
}

func (s *stubService) Create(_ context.Context, caller *auth.User, req tournament.CreateTournamentRequest) (*tournament.Tournament, error) {
	s.caller = caller
	return &tournament.Tournament{ID: "t-2", Name: req.Name, Status: "draft"}, nil
}

func (s *stubService) UpdateStatus(_ context.Context, _ *auth.User, id string, req tournament.UpdateStatusRequest) (*tournament.Tournament, error) {
	return &tournament.Tournament{ID: id, Status: req.Status}, nil
}

var _ = Describe("Handler", func() {
	var (
		svc     *stubService
		handler *tournament.Handler
	)

	BeforeEach(func() {
		svc = &stubService{}
		handler = tournament.NewHandler(svc)
	})

	It("parses list filters from the query string", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tournaments?status=registration_open,published&category=u21&q=cup", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(svc.filter.Statuses).To(Equal([]string{"registration_open", "published"}))
		Expect(svc.filter.Category).To(Equal("u21"))
		Expect(svc.filter.Query).To(Equal("cup"))

		var body []map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(HaveLen(1))
	})

	It("maps missing tournaments to 404", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tournaments/nope", nil)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("creates with the authenticated caller", func() {
		body := `{"name":"Mombasa Beach Cup","region":"coast","venue":"Nyali","category":"open"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tournaments", strings.NewReader(body))
		req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: "organizer-1"}))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(svc.caller.ID).To(Equal("organizer-1"))
	})

	It("lists the caller's own tournaments", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tournaments/mine", nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: "organizer-1"}))
		rec := httptest.NewRecorder()

		handler.Mine(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(svc.caller.ID).To(Equal("organizer-1"))
		Expect(rec.Body.String()).To(ContainSubstring(`"t-3"`))
	})

	It("rejects malformed bodies", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tournaments", strings.NewReader(`{"name":`))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})

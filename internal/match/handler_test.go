package match_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	"github.com/Jakababa94/kenya-liga-hub/internal/match"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	match.ServiceAPI
	caller    *auth.User
	matchID   string
	statID    string
	updateReq match.UpdateMatchRequest
}

func (s *stubService) Update(_ context.Context, caller *auth.User, id string, req match.UpdateMatchRequest) (*match.Match, error) {
	s.caller, s.matchID, s.updateReq = caller, id, req
	return &match.Match{ID: id, HomeScore: *req.HomeScore}, nil
}

func (s *stubService) DeleteStatistic(_ context.Context, caller *auth.User, matchID, statisticID string) error {
	s.caller, s.matchID, s.statID = caller, matchID, statisticID
	return nil
}

func (s *stubService) UserStats(_ context.Context, caller *auth.User) (*match.UserStats, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	return &match.UserStats{TotalTeams: 1}, nil
}

func (s *stubService) Standings(_ context.Context, _ string) ([]match.Standing, error) {
	return nil, match.ErrTournamentNotFound
}

var _ = Describe("Handler", func() {
	var (
		svc     *stubService
		handler *match.Handler
		router  *chi.Mux
	)

	BeforeEach(func() {
		svc = &stubService{}
		handler = match.NewHandler(svc)
		router = chi.NewRouter()
		router.Patch("/matches/{id}", handler.Update)
		router.Delete("/matches/{id}/statistics/{statID}", handler.DeleteStatistic)
		router.Get("/tournaments/{id}/standings", handler.Standings)
		router.Get("/users/me/stats", handler.UserStats)
	})

	serve := func(method, path, body string, caller *auth.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if caller != nil {
			req = req.WithContext(auth.ContextWithUser(req.Context(), caller))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("passes score updates through with the caller", func() {
		rec := serve(http.MethodPatch, "/matches/m-1", `{"home_score":3}`, &auth.User{ID: "ref"})

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(svc.caller.ID).To(Equal("ref"))
		Expect(svc.matchID).To(Equal("m-1"))
		Expect(*svc.updateReq.HomeScore).To(Equal(3))
		Expect(rec.Body.String()).To(ContainSubstring(`"home_score":3`))
	})

	It("rejects malformed bodies", func() {
		rec := serve(http.MethodPatch, "/matches/m-1", `{"home_score":`, &auth.User{ID: "ref"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(svc.caller).To(BeNil())
	})

	It("answers 204 after deleting a statistic", func() {
		rec := serve(http.MethodDelete, "/matches/m-1/statistics/s-1", "", &auth.User{ID: "ref"})

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(svc.matchID).To(Equal("m-1"))
		Expect(svc.statID).To(Equal("s-1"))
	})

	It("maps unknown tournaments to 404 on standings", func() {
		rec := serve(http.MethodGet, "/tournaments/t-9/standings", "", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("requires a caller for personal stats", func() {
		Expect(serve(http.MethodGet, "/users/me/stats", "", nil).Code).To(Equal(http.StatusUnauthorized))
		Expect(serve(http.MethodGet, "/users/me/stats", "", &auth.User{ID: "u-1"}).Code).To(Equal(http.StatusOK))
	})
})

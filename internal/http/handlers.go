package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	synccmd "github.com/goliatone/go-content-sync/internal/commands/sync"
	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/locale"
	"github.com/goliatone/go-content-sync/internal/repository"
	goerrors "github.com/goliatone/go-errors"
)

type serviceView struct {
	content.Service
	Excerpt string `json:"excerpt"`
	URL     string `json:"url,omitempty"`
}

type subscribeRequest struct {
	Email string `json:"email"`
}

type refreshRequest struct {
	Tags    []string `json:"tags"`
	Warm    bool     `json:"warm"`
	Locales []string `json:"locales"`
}

func (api *SiteAPI) locale(r *http.Request) string {
	return content.LocaleFrom(r.Context(), api.scheme.Primary)
}

func (api *SiteAPI) listSlides(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, envelope{Data: api.content.ListSlides(r.Context())})
}

func (api *SiteAPI) listTeam(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, envelope{Data: api.content.ListTeamMembers(r.Context())})
}

func (api *SiteAPI) listTestimonials(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, envelope{Data: api.content.ListTestimonials(r.Context())})
}

func (api *SiteAPI) listServices(w http.ResponseWriter, r *http.Request) {
	loc := api.locale(r)
	query := r.URL.Query()
	page, hasPage := queryInt(r, "page")
	pageSize, hasSize := queryInt(r, "pageSize")
	category := strings.TrimSpace(query.Get("category"))

	if !hasPage && !hasSize && category == "" {
		items := api.content.ListServices(r.Context())
		respond(w, r, http.StatusOK, envelope{Data: api.serviceViews(loc, items)})
		return
	}

	result := api.content.ListServicesPaged(r.Context(), repository.ServiceQuery{
		Page:     page,
		PageSize: pageSize,
		Category: category,
		Sort:     query.Get("sort"),
	})
	respond(w, r, http.StatusOK, envelope{
		Data: api.serviceViews(loc, result.Items),
		Meta: map[string]any{"pagination": result.Pagination},
	})
}

func (api *SiteAPI) getService(w http.ResponseWriter, r *http.Request) {
	loc := api.locale(r)
	svc := api.content.GetServiceBySlug(r.Context(), chi.URLParam(r, "slug"))
	if svc == nil {
		body := errorResponse{
			Error:   string(content.NotFound),
			Message: content.Message(content.NotFound, loc),
		}
		if link := api.link(loc, locale.RouteServices, nil); link != "" {
			body.Links = map[string]any{"services": link}
		}
		respond(w, r, http.StatusNotFound, body)
		return
	}
	respond(w, r, http.StatusOK, envelope{Data: api.serviceView(loc, *svc)})
}

func (api *SiteAPI) getNavigation(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, envelope{Data: api.content.GetNavigation(r.Context(), api.locale(r))})
}

func (api *SiteAPI) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	result := api.content.Subscribe(r.Context(), req.Email)
	respond(w, r, subscribeStatus(result), result)
}

func subscribeStatus(result content.SubscriptionResult) int {
	if result.Success {
		return http.StatusCreated
	}
	switch result.Kind {
	case content.ValidationFailure:
		return http.StatusBadRequest
	case content.DuplicateEntry:
		return http.StatusConflict
	case content.ServerFailure:
		return http.StatusBadGateway
	case content.TransportFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (api *SiteAPI) refreshCache(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil && err != errEmptyBody {
		respondError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	cmd := synccmd.RefreshContentCommand{Tags: req.Tags, Warm: req.Warm, Locales: req.Locales}
	if err := api.refresh.Execute(r.Context(), cmd); err != nil {
		if goerrors.IsCategory(err, goerrors.CategoryValidation) {
			respondError(w, r, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		respondError(w, r, http.StatusInternalServerError, "refresh_failed", err.Error())
		return
	}
	tags := make([]string, 0, len(cmd.ParsedTags()))
	for _, tag := range cmd.ParsedTags() {
		tags = append(tags, string(tag))
	}
	respond(w, r, http.StatusAccepted, envelope{Data: map[string]any{"tags": tags, "warm": cmd.Warm}})
}

func (api *SiteAPI) serviceViews(loc string, items []content.Service) []serviceView {
	out := make([]serviceView, 0, len(items))
	for _, item := range items {
		out = append(out, api.serviceView(loc, item))
	}
	return out
}

func (api *SiteAPI) serviceView(loc string, svc content.Service) serviceView {
	locales := content.Locales{Primary: api.scheme.Primary, Alternate: api.scheme.Alternate}
	text := locales.PickRich(loc, svc.Description, svc.DescriptionAlt).PlainText()
	return serviceView{
		Service: svc,
		Excerpt: content.Excerpt(text, content.DefaultExcerptLength),
		URL:     api.link(loc, locale.RouteService, map[string]any{"slug": svc.Slug}),
	}
}

func (api *SiteAPI) link(loc, route string, params map[string]any) string {
	if api.links == nil {
		return ""
	}
	link, err := api.links.Link(loc, route, params, nil)
	if err != nil {
		api.logger.Debug("http.link.failed", "route", route, "locale", loc, "error", err)
		return ""
	}
	return link
}

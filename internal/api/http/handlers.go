package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"restaurant-finder/internal/client"
	"restaurant-finder/internal/domain"
	"restaurant-finder/internal/notify"
	"restaurant-finder/internal/pages"
	"restaurant-finder/internal/search"
	"restaurant-finder/internal/service"
	"restaurant-finder/internal/session"
	"restaurant-finder/internal/share"

	"github.com/gorilla/mux"
)

type Handler struct {
	Session     *session.Controller
	Search      *search.Controller
	Listing     *pages.Listing
	Detail      *pages.Detail
	Restaurants service.RestaurantServiceInterface
	Notes       *notify.Notifier
	QR          share.QRGenerator
}

func NewHandler(
	sess *session.Controller,
	filters *search.Controller,
	listing *pages.Listing,
	detail *pages.Detail,
	restSvc service.RestaurantServiceInterface,
	notes *notify.Notifier,
	qr share.QRGenerator,
) *Handler {
	return &Handler{
		Session:     sess,
		Search:      filters,
		Listing:     listing,
		Detail:      detail,
		Restaurants: restSvc,
		Notes:       notes,
		QR:          qr,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	owner := domain.RoleBusinessOwner

	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/login", h.login).Methods("POST")
	r.HandleFunc("/register", h.register).Methods("POST")
	r.HandleFunc("/logout", h.logout).Methods("POST")
	r.HandleFunc("/session", h.getSession).Methods("GET")
	r.HandleFunc("/notifications", h.getNotifications).Methods("GET")

	r.HandleFunc("/filters", h.guard(nil, h.getFilters)).Methods("GET")
	r.HandleFunc("/filters/name", h.guard(nil, h.setName)).Methods("PUT")
	r.HandleFunc("/filters/categories", h.guard(nil, h.addCategory)).Methods("POST")
	r.HandleFunc("/filters/categories/{name}", h.guard(nil, h.removeCategory)).Methods("DELETE")
	r.HandleFunc("/filters/price", h.guard(nil, h.setPrice)).Methods("PUT")
	r.HandleFunc("/filters/price", h.guard(nil, h.clearPrice)).Methods("DELETE")
	r.HandleFunc("/filters/rating", h.guard(nil, h.setRating)).Methods("PUT")
	r.HandleFunc("/filters/rating", h.guard(nil, h.clearRating)).Methods("DELETE")
	r.HandleFunc("/filters/reset", h.guard(nil, h.resetFilters)).Methods("POST")
	r.HandleFunc("/categories", h.guard(nil, h.getCategories)).Methods("GET")

	r.HandleFunc("/restaurants", h.guard(nil, h.getRestaurants)).Methods("GET")
	r.HandleFunc("/restaurants/retry", h.guard(nil, h.retryRestaurants)).Methods("POST")
	r.HandleFunc("/restaurants/{id:[0-9]+}", h.guard(nil, h.getRestaurant)).Methods("GET")
	r.HandleFunc("/restaurants/{id:[0-9]+}/reviews", h.guard(nil, h.submitReview)).Methods("POST")
	r.HandleFunc("/restaurants/{id:[0-9]+}/qrcode", h.getQRCode).Methods("GET")

	r.HandleFunc("/owner/restaurants", h.guard(&owner, h.createRestaurant)).Methods("POST")
	r.HandleFunc("/owner/restaurants/{id:[0-9]+}", h.guard(&owner, h.updateRestaurant)).Methods("PUT")
}

// guard redirects to the login page, or home on a role mismatch, before the
// wrapped handler runs.
func (h *Handler) guard(required *domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision := h.Session.Guard(required)
		if !decision.Allowed {
			http.Redirect(w, r, decision.Redirect, http.StatusFound)
			return
		}
		next(w, r)
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "restaurant-finder",
		"ready":     h.Session.Ready(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Session.Login(r.Context(), req.Username, req.Password); err != nil {
		h.fail(w, err, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Session.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		h.fail(w, err, "Registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, h.Session.Snapshot())
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout(r.Context())
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Notes.Drain())
}

type filtersView struct {
	Filters          domain.SearchFilters `json:"filters"`
	Query            string               `json:"query"`
	HasActiveFilters bool                 `json:"hasActiveFilters"`
	PriceLabel       string               `json:"priceLabel"`
	Changed          *bool                `json:"changed,omitempty"`
}

func (h *Handler) filtersResponse(w http.ResponseWriter, status int, changed *bool) {
	f := h.Search.Filters()
	writeJSON(w, status, filtersView{
		Filters:          f,
		Query:            search.QueryString(f),
		HasActiveFilters: h.Search.HasActiveFilters(),
		PriceLabel:       f.PriceTier.Label(),
		Changed:          changed,
	})
}

func (h *Handler) getFilters(w http.ResponseWriter, r *http.Request) {
	h.filtersResponse(w, http.StatusOK, nil)
}

func (h *Handler) setName(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Search.SetName(body.Name)
	h.filtersResponse(w, http.StatusAccepted, nil)
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	added := h.Search.AddCategory(body.Name)
	h.filtersResponse(w, http.StatusOK, &added)
}

func (h *Handler) removeCategory(w http.ResponseWriter, r *http.Request) {
	removed := h.Search.RemoveCategory(mux.Vars(r)["name"])
	h.filtersResponse(w, http.StatusOK, &removed)
}

func (h *Handler) setPrice(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PriceRange string `json:"priceRange"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tier, err := domain.ParsePriceTier(body.PriceRange)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	changed, _ := h.Search.SetPriceTier(tier)
	h.filtersResponse(w, http.StatusOK, &changed)
}

func (h *Handler) clearPrice(w http.ResponseWriter, r *http.Request) {
	changed := h.Search.ClearPriceTier()
	h.filtersResponse(w, http.StatusOK, &changed)
}

func (h *Handler) setRating(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rating json.Number `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rating, err := domain.ParseMinRating(body.Rating.String())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	changed, _ := h.Search.SetMinRating(rating)
	h.filtersResponse(w, http.StatusOK, &changed)
}

func (h *Handler) clearRating(w http.ResponseWriter, r *http.Request) {
	changed := h.Search.ClearMinRating()
	h.filtersResponse(w, http.StatusOK, &changed)
}

func (h *Handler) resetFilters(w http.ResponseWriter, r *http.Request) {
	h.Search.Reset()
	h.filtersResponse(w, http.StatusOK, nil)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	if err := h.Search.LoadCategories(r.Context()); err != nil {
		h.fail(w, err, "Failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, h.Search.AvailableCategories())
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	if err := h.Listing.EnsureLoaded(r.Context(), h.Search.Filters()); err != nil {
		h.Notes.Report(err, "Failed to fetch restaurants")
	}
	writeJSON(w, http.StatusOK, h.Listing.State())
}

func (h *Handler) retryRestaurants(w http.ResponseWriter, r *http.Request) {
	if err := h.Listing.Retry(r.Context()); err != nil {
		h.Notes.Report(err, "Failed to fetch restaurants")
	}
	writeJSON(w, http.StatusOK, h.Listing.State())
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Detail.Load(r.Context(), id); err != nil {
		h.fail(w, err, "Failed to fetch restaurant details")
		return
	}
	writeJSON(w, http.StatusOK, h.Detail.State())
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var form pages.ReviewForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Reviews go to the open restaurant page only; anything else is a
	// precondition miss and does not touch the page state.
	if h.Detail.State().RestaurantID != id {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.Detail.SetForm(form)

	review, err := h.Detail.SubmitReview(r.Context(), form.Rating, form.Comment)
	switch {
	case errors.Is(err, pages.ErrPrecondition):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		h.fail(w, err, "Failed to submit review")
		return
	}

	h.Notes.Success("Review submitted successfully!")
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) getQRCode(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	png, err := h.QR.Generate(id)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var req domain.RestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rest, err := h.Restaurants.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err, "Failed to register restaurant")
		return
	}
	h.Notes.Success("Restaurant registered successfully")
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req domain.RestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rest, err := h.Restaurants.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err, "Failed to update restaurant")
		return
	}
	h.Notes.Success("Restaurant updated successfully")
	writeJSON(w, http.StatusOK, rest)
}

// fail queues a toast for err and answers with the matching status.
func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	h.Notes.Report(err, fallback)

	message := err.Error()
	if errors.Is(err, client.ErrNetwork) {
		message = fallback
	}
	writeJSON(w, statusFor(err), map[string]string{"error": message})
}

func statusFor(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status >= 400:
		return apiErr.Status
	case errors.Is(err, client.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, pages.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidRestaurantID),
		errors.Is(err, domain.ErrUnknownRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

// Package handlers implements the HTTP surface of the profile service.
//
// Every failure after the payload boundary answers 401 with a FAILED
// envelope; storage errors are logged and never returned to the caller.
package handlers

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/samandartukhtayev/user-profile-service/config"
	"github.com/samandartukhtayev/user-profile-service/idgen"
	"github.com/samandartukhtayev/user-profile-service/models"
	"github.com/samandartukhtayev/user-profile-service/response"
)

// Response headers carrying the identifiers minted by create
const (
	HeaderUserID        = "X-User-Id"
	HeaderTimeUUIDOrder = "X-Time-Uuid-Order"
)

// HeaderRequestID carries the id the request is logged under
const HeaderRequestID = "X-Request-Id"

// DefaultBodyLimit is the request body ceiling in bytes
const DefaultBodyLimit = config.DefaultBodyLimitBytes

const (
	msgCreated = "User profile created successfully"
	msgRead    = "success"
	msgUpdated = "User profile updated successfully"
	msgDeleted = "Successfully deleted profile"

	reasonCreateFailed     = "We could not create your profile please try again later"
	reasonReadFailed       = "We could not get your profile right now"
	reasonUpdateFailed     = "Could not update profile"
	reasonDeleteFailed     = "Could not delete user profile"
	reasonInvalidUserID    = "Invalid user id format"
	reasonInvalidTimeOrder = "Invalid time_uuid_order format"
)

const (
	opCreate = "create"
	opRead   = "read"
	opUpdate = "update"
	opDelete = "delete"

	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeInvalid  = "invalid"
	outcomeFailed   = "failed"
)

// ProfileStore executes profile queries
type ProfileStore interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	Find(ctx context.Context, userID uuid.UUID, email string) ([]models.UserProfile, error)
	Update(ctx context.Context, userID, timeUUIDOrder uuid.UUID, age int8, fullName string) error
	Delete(ctx context.Context, userID, timeUUIDOrder uuid.UUID) error
}

// Handler serves the four profile operations
type Handler struct {
	store     ProfileStore
	ids       idgen.Source
	bodyLimit int64
	requests  metric.Int64Counter
}

// Option configures a Handler
type Option func(*Handler)

// WithBodyLimit overrides DefaultBodyLimit
func WithBodyLimit(n int64) Option {
	return func(h *Handler) { h.bodyLimit = n }
}

// WithIDSource replaces the identifier source, mainly for tests
func WithIDSource(ids idgen.Source) Option {
	return func(h *Handler) { h.ids = ids }
}

// New creates a Handler over store. Request counts are recorded on the
// global OpenTelemetry meter provider.
func New(store ProfileStore, opts ...Option) (*Handler, error) {
	counter, err := otel.Meter("github.com/samandartukhtayev/user-profile-service/handlers").Int64Counter(
		"profile.requests",
		metric.WithDescription("Profile API requests by operation and outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request counter")
	}

	h := &Handler{
		store:     store,
		ids:       idgen.UUIDSource{},
		bodyLimit: DefaultBodyLimit,
		requests:  counter,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *Handler) record(ctx context.Context, op, outcome string) {
	h.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

// decode runs the payload boundary and writes the 415/400 envelope itself
// when it fails.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, op string, dst validation.Validatable) bool {
	rejected, err := decodeJSON(w, r, h.bodyLimit, dst)
	if rejected == nil {
		return true
	}
	log := loggerFrom(r.Context())
	log.WithError(err).WithField("operation", op).Info("rejected request payload")
	h.record(r.Context(), op, outcomeRejected)
	response.WriteError(log, w, rejected)
	return false
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op, outcome, reason string) {
	h.record(r.Context(), op, outcome)
	response.WriteError(loggerFrom(r.Context()), w,
		response.NewError(http.StatusUnauthorized, response.InputError(reason)))
}

// parseKey parses the two primary key strings, naming the first invalid one
func parseKey(userID, timeUUIDOrder string) (uuid.UUID, uuid.UUID, string) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, reasonInvalidUserID
	}
	order, err := uuid.Parse(timeUUIDOrder)
	if err != nil {
		return uuid.Nil, uuid.Nil, reasonInvalidTimeOrder
	}
	return uid, order, ""
}

// CreateUser handles POST /create_user. Both identifiers are minted here and
// any comment in the request is dropped.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !h.decode(w, r, opCreate, &req) {
		return
	}
	log := loggerFrom(r.Context())

	profile := models.NewUserProfile(h.ids.NewUserID(), h.ids.NewOrderID(), *req.EmailAddress, *req.FullName, *req.Age)
	if err := h.store.Create(r.Context(), profile); err != nil {
		log.WithError(err).WithField("operation", opCreate).Error("could not create user profile")
		h.fail(w, r, opCreate, outcomeFailed, reasonCreateFailed)
		return
	}

	w.Header().Set(HeaderUserID, profile.UserID.String())
	w.Header().Set(HeaderTimeUUIDOrder, profile.TimeUUIDOrder.String())
	h.record(r.Context(), opCreate, outcomeSuccess)
	response.WriteSuccess(log, w, response.NewSuccess[struct{}](msgCreated, nil))
}

// ReadUserProfile handles POST /get_user_profile. No matching row is a
// success with an empty data array.
func (h *Handler) ReadUserProfile(w http.ResponseWriter, r *http.Request) {
	var req readUserProfileRequest
	if !h.decode(w, r, opRead, &req) {
		return
	}
	log := loggerFrom(r.Context())

	profiles, err := h.store.Find(r.Context(), *req.UserID, *req.EmailAddress)
	if err != nil {
		log.WithError(err).WithField("operation", opRead).Error("could not read user profile")
		h.fail(w, r, opRead, outcomeFailed, reasonReadFailed)
		return
	}
	if profiles == nil {
		profiles = []models.UserProfile{}
	}

	h.record(r.Context(), opRead, outcomeSuccess)
	response.WriteSuccess(log, w, response.NewSuccess(msgRead, &profiles))
}

// UpdateUserProfile handles POST /update_user_profile
func (h *Handler) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	var req updateUserProfileRequest
	if !h.decode(w, r, opUpdate, &req) {
		return
	}
	log := loggerFrom(r.Context())

	userID, order, reason := parseKey(*req.UserID, *req.TimeUUIDOrder)
	if reason != "" {
		h.fail(w, r, opUpdate, outcomeInvalid, reason)
		return
	}

	if err := h.store.Update(r.Context(), userID, order, *req.Age, *req.FullName); err != nil {
		log.WithError(err).WithField("operation", opUpdate).Error("could not update user profile")
		h.fail(w, r, opUpdate, outcomeFailed, reasonUpdateFailed)
		return
	}

	h.record(r.Context(), opUpdate, outcomeSuccess)
	response.WriteSuccess(log, w, response.NewSuccess[struct{}](msgUpdated, nil))
}

// DeleteUserProfile handles POST /delete_user
func (h *Handler) DeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	var req deleteUserProfileRequest
	if !h.decode(w, r, opDelete, &req) {
		return
	}
	log := loggerFrom(r.Context())

	userID, order, reason := parseKey(*req.UserID, *req.TimeUUIDOrder)
	if reason != "" {
		h.fail(w, r, opDelete, outcomeInvalid, reason)
		return
	}

	if err := h.store.Delete(r.Context(), userID, order); err != nil {
		log.WithError(err).WithField("operation", opDelete).Error("could not delete user profile")
		h.fail(w, r, opDelete, outcomeFailed, reasonDeleteFailed)
		return
	}

	h.record(r.Context(), opDelete, outcomeSuccess)
	response.WriteSuccess(log, w, response.NewSuccess[struct{}](msgDeleted, nil))
}

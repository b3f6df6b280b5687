package employeehandler

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"emprecords/internal/domain/employee"
	"emprecords/internal/transport/http/api"
	"emprecords/internal/transport/http/middleware"
	"emprecords/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
	Logger  *zap.Logger
}

func NewHandler(service *employee.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employee", func(r chi.Router) {
		r.Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleReadEmployee)
			r.Put("/", h.handleUpdateEmployee)
			r.Get("/direct-reports", h.handleReadReportingStructure)
			r.Post("/compensation", h.handleCreateCompensation)
			r.Get("/compensation", h.handleReadCompensation)
			r.Get("/compensation/statement", h.handleCompensationStatement)
		})
	})
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employee.Employee
	if !shared.DecodeJSON(w, r, h.Logger, &payload, requestID) {
		return
	}

	created, err := h.Service.CreateEmployee(r.Context(), payload)
	if err != nil {
		shared.FailFromError(w, r, h.Logger, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleReadEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	emp, err := h.Service.ReadEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.FailFromError(w, r, h.Logger, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employee.Employee
	if !shared.DecodeJSON(w, r, h.Logger, &payload, requestID) {
		return
	}
	// The path decides which employee is replaced, whatever the body says.
	payload.ID = chi.URLParam(r, "employeeID")

	updated, err := h.Service.UpdateEmployee(r.Context(), payload)
	if err != nil {
		shared.FailFromError(w, r, h.Logger, err, requestID)
		return
	}
	api.Success(w, updated, requestID)
}

func (h *Handler) handleReadReportingStructure(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	structure, err := h.Service.ReadEmployeeReportingStructure(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.FailFromError(w, r, h.Logger, err, requestID)
		return
	}
	api.Success(w, structure, requestID)
}

func (h *Handler) handleCreateCompensation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employee.Compensation
	if !shared.DecodeJSON(w, r, h.Logger, &payload, requestID) {
		return
	}
	if payload.Employee != nil {
		payload.Employee.ID = chi.URLParam(r, "employeeID")
	}

	created, err := h.Service.CreateEmployeeCompensation(r.Context(), payload)
	if err != nil {
		shared.FailFromError(w, r, h.Logger, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleReadCompensation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	comp, err := h.Service.ReadEmployeeCompensation(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.FailFromError(w, r, h.Logger, err, requestID)
		return
	}
	api.Success(w, comp, requestID)
}

func (h *Handler) handleCompensationStatement(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var buf bytes.Buffer
	if err := h.Service.WriteCompensationStatement(r.Context(), employeeID, &buf); err != nil {
		shared.FailFromError(w, r, h.Logger, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=compensation-"+employeeID+".pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Warn("write statement failed", zap.String("employeeId", employeeID), zap.Error(err))
	}
}

package controllers

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockscan/stockscan-backend/api/responses"
	"github.com/stockscan/stockscan-backend/api/validators"
	"github.com/stockscan/stockscan-backend/internal/scan"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
	"github.com/stockscan/stockscan-backend/pkg/logger"
)

// StartScanSession opens a fresh scan session, replacing any active one.
func StartScanSession(mgr *scan.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scan manager unavailable"))
			return
		}

		session, err := mgr.StartSession(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session.Snapshot())
	}
}

// GetScanSession reports the current session state and countdown.
func GetScanSession(mgr *scan.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session.Snapshot())
	}
}

// SubmitScanFrame decodes the request body as an image and runs
// detection against the active session.
func SubmitScanFrame(mgr *scan.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		frame, _, err := image.Decode(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "frame is not a decodable image"))
			return
		}

		view, err := session.SubmitFrame(r.Context(), frame)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// EnterManualMode switches the session to typed-code entry, releasing
// any held capture.
func EnterManualMode(mgr *scan.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session.EnterManual())
	}
}

// SubmitManualCode accepts a typed code while the session is in
// manual entry.
func SubmitManualCode(mgr *scan.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload manualCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := session.SubmitManual(payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type manualCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// RestartScanSession rearms a timed-out session for another countdown.
func RestartScanSession(mgr *scan.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.Restart(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session.Snapshot())
	}
}

// TakeScanResult hands the matched code to the caller exactly once.
func TakeScanResult(mgr *scan.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code, ok := session.TakeResult()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "no undelivered result"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"code": code})
	}
}

// CloseScanSession tears the session down and releases its capture.
func CloseScanSession(mgr *scan.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scan manager unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "sessionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id"))
			return
		}

		if err := mgr.Teardown(id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func resolveSession(mgr *scan.Manager, r *http.Request) (*scan.Session, error) {
	if mgr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "scan manager unavailable")
	}

	id, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id")
	}

	return mgr.Get(id)
}

package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/shift-scheduler/internal/core/employee"
	"github.com/ogurasousui/shift-scheduler/internal/core/shift"
)

// ShiftHandler はシフト API の HTTP ハンドラーです。
type ShiftHandler struct {
	svc      shift.UseCase
	validate *requestValidator
	logger   *slog.Logger
}

// NewShiftHandler は ShiftHandler を生成します。
func NewShiftHandler(svc shift.UseCase, logger *slog.Logger) (*ShiftHandler, error) {
	validate, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ShiftHandler{svc: svc, validate: validate, logger: logger}, nil
}

// Routes は /shift 配下のルートを登録します。
func (h *ShiftHandler) Routes(r chi.Router) {
	r.Get("/", h.ListShifts)
	r.Post("/", h.CreateShift)
	r.Get("/{id:[0-9]+}", h.GetShift)
	r.Put("/{shiftID:[0-9]+}/assign/{employeeID:[0-9]+}", h.AssignEmployee)
}

type createShiftRequest struct {
	Start *Timestamp `json:"start" validate:"required"`
	End   *Timestamp `json:"end" validate:"required"`
}

type shiftResponse struct {
	ID              int64     `json:"id"`
	EmployeeID      *int64    `json:"employee_id"`
	Start           Timestamp `json:"start"`
	End             Timestamp `json:"end"`
	EmployeeDisplay string    `json:"employee_display,omitempty"`
}

func toShiftResponse(s *shift.Shift) shiftResponse {
	return shiftResponse{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Start:      Timestamp{s.Start},
		End:        Timestamp{s.End},
	}
}

// GetShift は GET /shift/{id} を処理します。割り当て済みの場合は社員の表示文字列を含めます。
func (h *ShiftHandler) GetShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, r, h.logger, shift.ErrShiftNotFound)
		return
	}

	view, err := h.svc.GetShiftView(r.Context(), shift.GetShiftInput{ID: id})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	resp := toShiftResponse(view.Shift)
	resp.EmployeeDisplay = view.EmployeeDisplay
	writeJSON(w, r, h.logger, http.StatusOK, resp)
}

// ListShifts は GET /shift を処理します。
func (h *ShiftHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.svc.ListShifts(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	resp := make([]shiftResponse, 0, len(shifts))
	for _, s := range shifts {
		resp = append(resp, toShiftResponse(s))
	}
	writeJSON(w, r, h.logger, http.StatusOK, resp)
}

// CreateShift は POST /shift を処理します。リクエスト中の id と社員は受け付けません。
func (h *ShiftHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req createShiftRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, h.logger, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	created, err := h.svc.CreateShift(r.Context(), shift.CreateShiftInput{
		Start: req.Start.Time,
		End:   req.End.Time,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/shift/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, r, h.logger, http.StatusCreated, toShiftResponse(created))
}

// AssignEmployee は PUT /shift/{shiftID}/assign/{employeeID} を処理します。
func (h *ShiftHandler) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := pathID(r, "shiftID")
	if !ok {
		respondError(w, r, h.logger, shift.ErrShiftNotFound)
		return
	}
	employeeID, ok := pathID(r, "employeeID")
	if !ok {
		respondError(w, r, h.logger, employee.ErrEmployeeNotFound)
		return
	}

	err := h.svc.AssignEmployee(r.Context(), shift.AssignEmployeeInput{
		ShiftID:    shiftID,
		EmployeeID: employeeID,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// pathID はパスパラメーターを int64 として取り出します。範囲外の値は false です。
func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

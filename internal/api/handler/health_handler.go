package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	if store == nil {
		panic("store cannot be nil")
	}
	return &HealthHandler{
		store: store,
	}
}

// @Summary health check
// @Tags health
// @Produce json
// @Success 200 {object} api.Response{data=map[string]string} "success"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeError(w, er.New(er.InternalErrorCode, err.Error()))
		return
	}
	api.SuccessJSON(w, map[string]string{"status": "ok"}, nil)
}

package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"mulchworks/internal/app/pileaction"
	"mulchworks/internal/app/pileevents"
	"mulchworks/internal/app/pilestatus"
	"mulchworks/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	ActionUC pileaction.UseCase
	StatusUC pilestatus.UseCase
	EventsUC pileevents.UseCase
	KPI      kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	pile := s.Group("/api/pile")
	pile.POST("/deposit", h.deposit)
	pile.POST("/turn", h.turn)
	pile.POST("/water", h.water)
	pile.POST("/dry", h.dry)
	pile.POST("/harvest", h.harvest)
	pile.POST("/tick", h.tick)
	pile.GET("/status", h.status)
	pile.GET("/events", h.events)

	s.GET("/ops/kpi", h.kpi)
}

type depositRequest struct {
	PileID     string `json:"pile_id"`
	GreenCount int    `json:"green_count"`
	BrownCount int    `json:"brown_count"`
}

type amountRequest struct {
	PileID string  `json:"pile_id"`
	Amount float64 `json:"amount"`
}

type pileRequest struct {
	PileID string `json:"pile_id"`
}

func (h Handler) deposit(c context.Context, ctx *app.RequestContext) {
	var body depositRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ActionUC.Deposit(c, pileaction.DepositRequest{
		PileID:     body.PileID,
		GreenCount: body.GreenCount,
		BrownCount: body.BrownCount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) turn(c context.Context, ctx *app.RequestContext) {
	var body pileRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ActionUC.Turn(c, pileaction.PileRequest{PileID: body.PileID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) water(c context.Context, ctx *app.RequestContext) {
	h.adjustMoisture(c, ctx, h.ActionUC.Water)
}

func (h Handler) dry(c context.Context, ctx *app.RequestContext) {
	h.adjustMoisture(c, ctx, h.ActionUC.Dry)
}

func (h Handler) adjustMoisture(c context.Context, ctx *app.RequestContext, apply func(context.Context, pileaction.AmountRequest) (pileaction.Response, error)) {
	var body amountRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := apply(c, pileaction.AmountRequest{
		PileID: body.PileID,
		Amount: body.Amount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) harvest(c context.Context, ctx *app.RequestContext) {
	var body pileRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ActionUC.Harvest(c, pileaction.PileRequest{PileID: body.PileID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) tick(c context.Context, ctx *app.RequestContext) {
	var body pileRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ActionUC.Tick(c, pileaction.PileRequest{PileID: body.PileID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	pileID := string(ctx.Query("pile_id"))

	resp, err := h.StatusUC.Execute(c, pilestatus.Request{PileID: pileID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) events(c context.Context, ctx *app.RequestContext) {
	pileID := string(ctx.Query("pile_id"))
	limit := 0
	if raw := string(ctx.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := h.EventsUC.Execute(c, pileevents.Request{PileID: pileID, Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, pileaction.ErrTurnCooldownActive):
		details := map[string]any{}
		var cooldownErr *pileaction.TurnCooldownActiveError
		if errors.As(err, &cooldownErr) && cooldownErr != nil {
			details["remaining_hours"] = cooldownErr.RemainingHours
		}
		if len(details) == 0 {
			details = nil
		}
		writeErrorDetails(ctx, consts.StatusConflict, "turn_cooldown_active", err.Error(), details)
	case errors.Is(err, pileaction.ErrPileFull):
		writeErrorBody(ctx, consts.StatusConflict, "pile_full", err.Error())
	case errors.Is(err, pileaction.ErrPileNotActive):
		writeErrorBody(ctx, consts.StatusConflict, "pile_not_active", err.Error())
	case errors.Is(err, pileaction.ErrNothingToHarvest):
		writeErrorBody(ctx, consts.StatusConflict, "nothing_to_harvest", err.Error())
	case errors.Is(err, pileaction.ErrInvalidRequest),
		errors.Is(err, pilestatus.ErrInvalidRequest),
		errors.Is(err, pileevents.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	writeErrorDetails(ctx, status, code, message, nil)
}

func writeErrorDetails(ctx *app.RequestContext, status int, code, message string, details map[string]any) {
	body := map[string]any{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	ctx.JSON(status, map[string]any{"error": body})
}

package httpadapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mulchworks/internal/app/pileaction"
	"mulchworks/internal/app/pileevents"
	"mulchworks/internal/app/pilestatus"
	"mulchworks/internal/app/ports"
	memoryrepo "mulchworks/internal/adapter/repo/memory"
	"mulchworks/internal/domain/climate"
	"mulchworks/internal/domain/compost"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type fakeClimate struct {
	snap ports.ClimateSnapshot
}

func (f *fakeClimate) SnapshotForPile(context.Context, string) (ports.ClimateSnapshot, error) {
	return f.snap, nil
}

func newTestHandler() (Handler, *fakeClimate) {
	store := memoryrepo.NewStore()
	clim := &fakeClimate{snap: ports.ClimateSnapshot{
		Hours:  100,
		Season: climate.SeasonSpring,
		Sample: compost.ClimateSample{TemperatureC: 20},
	}}
	tuning := compost.DefaultTuning()
	return Handler{
		ActionUC: pileaction.UseCase{
			TxManager: memoryrepo.NewTxManager(store),
			Piles:     memoryrepo.NewPileRepo(store),
			Events:    memoryrepo.NewEventRepo(store),
			Climate:   clim,
			Tuning:    tuning,
			Now:       func() time.Time { return time.Unix(1700000000, 0).UTC() },
		},
		StatusUC: pilestatus.UseCase{
			Piles:   memoryrepo.NewPileRepo(store),
			Climate: clim,
			Tuning:  tuning,
		},
		EventsUC: pileevents.UseCase{
			Events: memoryrepo.NewEventRepo(store),
		},
	}, clim
}

func TestDeposit_CreatesPile(t *testing.T) {
	h, _ := newTestHandler()
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"pile_id":"p1","green_count":10,"brown_count":5}`))

	h.deposit(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("status = %d, want %d: %s", got, consts.StatusOK, ctx.Response.Body())
	}
	var resp pileaction.Response
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.View.PileID != "p1" {
		t.Fatalf("pile_id = %q, want %q", resp.View.PileID, "p1")
	}
	if resp.View.GreenCount != 10 || resp.View.BrownCount != 5 {
		t.Fatalf("counts = %d/%d, want 10/5", resp.View.GreenCount, resp.View.BrownCount)
	}
	if resp.View.Phase != "active" {
		t.Fatalf("phase = %q, want active", resp.View.Phase)
	}
}

func TestDeposit_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler()
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{`))

	h.deposit(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusBadRequest {
		t.Fatalf("status = %d, want %d", got, consts.StatusBadRequest)
	}
	if code := errorCode(t, ctx.Response.Body()); code != "invalid_json" {
		t.Fatalf("code = %q, want invalid_json", code)
	}
}

func TestStatus_UnknownPile(t *testing.T) {
	h, _ := newTestHandler()
	ctx := &app.RequestContext{}
	ctx.QueryArgs().Set("pile_id", "nope")

	h.status(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusNotFound {
		t.Fatalf("status = %d, want %d", got, consts.StatusNotFound)
	}
	if code := errorCode(t, ctx.Response.Body()); code != "not_found" {
		t.Fatalf("code = %q, want not_found", code)
	}
}

func TestTurn_CooldownDetails(t *testing.T) {
	h, clim := newTestHandler()

	depositCtx := &app.RequestContext{}
	depositCtx.Request.SetBody([]byte(`{"pile_id":"p1","green_count":10,"brown_count":5}`))
	h.deposit(context.Background(), depositCtx)
	if depositCtx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("deposit failed: %s", depositCtx.Response.Body())
	}

	clim.snap.Hours = 105

	firstTurn := &app.RequestContext{}
	firstTurn.Request.SetBody([]byte(`{"pile_id":"p1"}`))
	h.turn(context.Background(), firstTurn)
	if firstTurn.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("first turn failed: %s", firstTurn.Response.Body())
	}

	secondTurn := &app.RequestContext{}
	secondTurn.Request.SetBody([]byte(`{"pile_id":"p1"}`))
	h.turn(context.Background(), secondTurn)
	if got := secondTurn.Response.StatusCode(); got != consts.StatusConflict {
		t.Fatalf("status = %d, want %d: %s", got, consts.StatusConflict, secondTurn.Response.Body())
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				RemainingHours float64 `json:"remaining_hours"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(secondTurn.Response.Body(), &envelope); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if envelope.Error.Code != "turn_cooldown_active" {
		t.Fatalf("code = %q, want turn_cooldown_active", envelope.Error.Code)
	}
	if envelope.Error.Details.RemainingHours <= 0 {
		t.Fatalf("remaining_hours = %v, want > 0", envelope.Error.Details.RemainingHours)
	}
}

func TestHarvest_NotFinished(t *testing.T) {
	h, _ := newTestHandler()

	depositCtx := &app.RequestContext{}
	depositCtx.Request.SetBody([]byte(`{"pile_id":"p1","green_count":1,"brown_count":1}`))
	h.deposit(context.Background(), depositCtx)

	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"pile_id":"p1"}`))
	h.harvest(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusConflict {
		t.Fatalf("status = %d, want %d", got, consts.StatusConflict)
	}
	if code := errorCode(t, ctx.Response.Body()); code != "nothing_to_harvest" {
		t.Fatalf("code = %q, want nothing_to_harvest", code)
	}
}

func TestEvents_ListsHistoryNewestFirst(t *testing.T) {
	h, _ := newTestHandler()

	depositCtx := &app.RequestContext{}
	depositCtx.Request.SetBody([]byte(`{"pile_id":"p1","green_count":10,"brown_count":5}`))
	h.deposit(context.Background(), depositCtx)
	if depositCtx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("deposit failed: %s", depositCtx.Response.Body())
	}

	ctx := &app.RequestContext{}
	ctx.QueryArgs().Set("pile_id", "p1")
	h.events(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("status = %d, want %d: %s", got, consts.StatusOK, ctx.Response.Body())
	}
	var resp pileevents.Response
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(resp.Events))
	}
	if resp.Events[0].Type != "material_deposited" || resp.Events[1].Type != "pile_started" {
		t.Fatalf("event order = %q/%q, want material_deposited then pile_started",
			resp.Events[0].Type, resp.Events[1].Type)
	}
}

func TestEvents_RespectsLimit(t *testing.T) {
	h, _ := newTestHandler()

	depositCtx := &app.RequestContext{}
	depositCtx.Request.SetBody([]byte(`{"pile_id":"p1","green_count":10,"brown_count":5}`))
	h.deposit(context.Background(), depositCtx)

	ctx := &app.RequestContext{}
	ctx.QueryArgs().Set("pile_id", "p1")
	ctx.QueryArgs().Set("limit", "1")
	h.events(context.Background(), ctx)

	var resp pileevents.Response
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(resp.Events))
	}
}

func TestEvents_UnknownPile(t *testing.T) {
	h, _ := newTestHandler()
	ctx := &app.RequestContext{}
	ctx.QueryArgs().Set("pile_id", "nope")

	h.events(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusNotFound {
		t.Fatalf("status = %d, want %d", got, consts.StatusNotFound)
	}
}

func TestEvents_BadLimit(t *testing.T) {
	h, _ := newTestHandler()
	ctx := &app.RequestContext{}
	ctx.QueryArgs().Set("pile_id", "p1")
	ctx.QueryArgs().Set("limit", "many")

	h.events(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusBadRequest {
		t.Fatalf("status = %d, want %d", got, consts.StatusBadRequest)
	}
	if code := errorCode(t, ctx.Response.Body()); code != "bad_request" {
		t.Fatalf("code = %q, want bad_request", code)
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	h.kpi(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusNotFound {
		t.Fatalf("status = %d, want %d", got, consts.StatusNotFound)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"pile full", pileaction.ErrPileFull, consts.StatusConflict, "pile_full"},
		{"not active", pileaction.ErrPileNotActive, consts.StatusConflict, "pile_not_active"},
		{"invalid request", pileaction.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{"status invalid request", pilestatus.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{"not found", ports.ErrNotFound, consts.StatusNotFound, "not_found"},
		{"conflict", ports.ErrConflict, consts.StatusConflict, "conflict"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &app.RequestContext{}
			writeError(ctx, tc.err)
			if got := ctx.Response.StatusCode(); got != tc.wantStatus {
				t.Fatalf("status = %d, want %d", got, tc.wantStatus)
			}
			if code := errorCode(t, ctx.Response.Body()); code != tc.wantCode {
				t.Fatalf("code = %q, want %q", code, tc.wantCode)
			}
		})
	}
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	ctx := &app.RequestContext{}
	var out pileRequest
	if err := decodeJSON(ctx, &out); err != nil {
		t.Fatalf("decodeJSON on empty body: %v", err)
	}
	if out.PileID != "" {
		t.Fatalf("expected zero request, got %+v", out)
	}
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal error body %q: %v", body, err)
	}
	return envelope.Error.Code
}

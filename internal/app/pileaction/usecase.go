package pileaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mulchworks/internal/app/pileview"
	"mulchworks/internal/app/ports"
	"mulchworks/internal/domain/compost"
)

var (
	ErrInvalidRequest     = errors.New("invalid pile command request")
	ErrPileFull           = errors.New("pile is at capacity")
	ErrPileNotActive      = errors.New("pile is not active")
	ErrTurnCooldownActive = errors.New("turn cooldown active")
	ErrNothingToHarvest   = errors.New("pile is not finished")
)

type TurnCooldownActiveError struct {
	RemainingHours float64
}

func (e *TurnCooldownActiveError) Error() string {
	return fmt.Sprintf("turn cooldown active: %.1fh remaining", e.RemainingHours)
}

func (e *TurnCooldownActiveError) Unwrap() error {
	return ErrTurnCooldownActive
}

// UseCase applies player commands to a pile and advances its simulation.
// Every command settles the pile to the current game hour first, so command
// effects always land on up-to-date state.
type UseCase struct {
	TxManager ports.TxManager
	Piles     ports.PileRepository
	Events    ports.EventRepository
	Climate   ports.ClimateProvider
	Metrics   ports.CommandMetrics
	Tuning    compost.Tuning
	Now       func() time.Time
}

// pile bundles one loaded record with its rebuilt engine for the duration of
// a command.
type pile struct {
	record     ports.PileRecord
	engine     *compost.Engine
	snap       ports.ClimateSnapshot
	events     []compost.DomainEvent
	stateReset bool
	isNew      bool
}

func (u UseCase) Deposit(ctx context.Context, req DepositRequest) (Response, error) {
	req.PileID = strings.TrimSpace(req.PileID)
	if req.PileID == "" || req.GreenCount < 0 || req.BrownCount < 0 || req.GreenCount+req.BrownCount == 0 {
		return u.rejected("deposit", ErrInvalidRequest)
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.loadPile(txCtx, req.PileID, true)
		if err != nil {
			return err
		}
		u.advance(&p)

		total := p.record.GreenCount + p.record.BrownCount + req.GreenCount + req.BrownCount
		if total > p.engine.Tuning().PileCapacity {
			return ErrPileFull
		}
		p.record.GreenCount += req.GreenCount
		p.record.BrownCount += req.BrownCount

		if p.engine.Phase() == compost.PhaseInactive {
			p.engine.Start(p.snap.Hours)
			p.appendEvent(u.now(), "pile_started", map[string]any{"hours": p.snap.Hours})
		}
		p.appendEvent(u.now(), "material_deposited", map[string]any{
			"green": req.GreenCount,
			"brown": req.BrownCount,
			"total": total,
		})

		out, err = u.save(txCtx, p)
		return err
	})
	return u.settle("deposit", out, err)
}

func (u UseCase) Tick(ctx context.Context, req PileRequest) (Response, error) {
	req.PileID = strings.TrimSpace(req.PileID)
	if req.PileID == "" {
		return u.rejected("tick", ErrInvalidRequest)
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.loadPile(txCtx, req.PileID, false)
		if err != nil {
			return err
		}
		u.advance(&p)
		out, err = u.save(txCtx, p)
		return err
	})
	return u.settle("tick", out, err)
}

func (u UseCase) Turn(ctx context.Context, req PileRequest) (Response, error) {
	req.PileID = strings.TrimSpace(req.PileID)
	if req.PileID == "" {
		return u.rejected("turn", ErrInvalidRequest)
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.loadPile(txCtx, req.PileID, false)
		if err != nil {
			return err
		}
		u.advance(&p)

		if p.engine.Phase() != compost.PhaseActive {
			return ErrPileNotActive
		}
		// The engine only answers the cooldown question; enforcement is here.
		if !p.engine.CanTurn(p.snap.Hours) {
			return &TurnCooldownActiveError{RemainingHours: p.engine.TurnCooldownRemaining(p.snap.Hours)}
		}

		wasFinished := p.engine.IsFinished()
		p.engine.Turn(p.snap.Hours, p.engine.Tuning().TurnSpeedupHours)
		p.appendEvent(u.now(), "pile_turned", map[string]any{
			"speedup_hours": p.engine.Tuning().TurnSpeedupHours,
			"aeration":      p.engine.AerationLevel(),
		})
		if !wasFinished && p.engine.IsFinished() {
			p.appendEvent(u.now(), "compost_finished", nil)
		}

		out, err = u.save(txCtx, p)
		return err
	})
	return u.settle("turn", out, err)
}

func (u UseCase) Water(ctx context.Context, req AmountRequest) (Response, error) {
	return u.adjustMoisture(ctx, req, "water")
}

func (u UseCase) Dry(ctx context.Context, req AmountRequest) (Response, error) {
	return u.adjustMoisture(ctx, req, "dry")
}

func (u UseCase) adjustMoisture(ctx context.Context, req AmountRequest, command string) (Response, error) {
	req.PileID = strings.TrimSpace(req.PileID)
	if req.PileID == "" || req.Amount <= 0 || req.Amount > 1 {
		return u.rejected(command, ErrInvalidRequest)
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.loadPile(txCtx, req.PileID, false)
		if err != nil {
			return err
		}
		u.advance(&p)

		if p.engine.Phase() != compost.PhaseActive {
			return ErrPileNotActive
		}
		if command == "water" {
			p.engine.AddWater(req.Amount)
			p.appendEvent(u.now(), "pile_watered", map[string]any{"amount": req.Amount, "moisture": p.engine.MoistureLevel()})
		} else {
			p.engine.AddDryMaterial(req.Amount)
			p.appendEvent(u.now(), "dry_material_added", map[string]any{"amount": req.Amount, "moisture": p.engine.MoistureLevel()})
		}

		out, err = u.save(txCtx, p)
		return err
	})
	return u.settle(command, out, err)
}

func (u UseCase) Harvest(ctx context.Context, req PileRequest) (Response, error) {
	req.PileID = strings.TrimSpace(req.PileID)
	if req.PileID == "" {
		return u.rejected("harvest", ErrInvalidRequest)
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.loadPile(txCtx, req.PileID, false)
		if err != nil {
			return err
		}
		u.advance(&p)

		if !p.engine.IsFinished() {
			return ErrNothingToHarvest
		}
		units := p.record.GreenCount + p.record.BrownCount
		p.engine.Harvest()
		p.record.GreenCount = 0
		p.record.BrownCount = 0
		p.appendEvent(u.now(), "compost_harvested", map[string]any{"units": units})

		out, err = u.save(txCtx, p)
		if err != nil {
			return err
		}
		out.HarvestedUnits = units
		return nil
	})
	return u.settle("harvest", out, err)
}

func (u UseCase) loadPile(ctx context.Context, pileID string, createIfMissing bool) (pile, error) {
	snap, err := u.Climate.SnapshotForPile(ctx, pileID)
	if err != nil {
		return pile{}, err
	}

	record, err := u.Piles.GetByPileID(ctx, pileID)
	if err != nil {
		if !createIfMissing || !errors.Is(err, ports.ErrNotFound) {
			return pile{}, err
		}
		record = ports.PileRecord{PileID: pileID}
	}

	engine := compost.NewEngine(u.Tuning)
	p := pile{
		record: record,
		engine: engine,
		snap:   snap,
		isNew:  record.Version == 0,
	}
	if engine.RestoreFromSnapshot(record.State) {
		// Incompatible legacy save: the pile is wiped rather than partially
		// migrated, and the caller learns about it through the event stream.
		p.stateReset = true
		p.record.GreenCount = 0
		p.record.BrownCount = 0
		p.appendEvent(u.now(), "pile_state_reset", map[string]any{"reason": "legacy_save"})
	}
	return p, nil
}

// advance settles the pile's continuous simulation to the current game hour.
func (u UseCase) advance(p *pile) {
	wasFinished := p.engine.IsFinished()
	p.engine.Update(p.snap.Hours, compost.UpdateInput{
		Climate:     p.snap.Sample,
		RainExposed: p.snap.RainExposed,
		GreenCount:  p.record.GreenCount,
		BrownCount:  p.record.BrownCount,
	})
	if !wasFinished && p.engine.IsFinished() {
		p.appendEvent(u.now(), "compost_finished", nil)
	}
}

func (u UseCase) save(ctx context.Context, p pile) (Response, error) {
	expected := p.record.Version
	p.record.State = p.engine.Snapshot()
	p.record.Version++
	p.record.UpdatedAt = u.now()
	if err := u.Piles.SaveWithVersion(ctx, p.record, expected); err != nil {
		return Response{}, err
	}
	if len(p.events) > 0 {
		if err := u.Events.Append(ctx, p.record.PileID, p.events); err != nil {
			return Response{}, err
		}
	}
	return Response{
		View:       pileview.Derive(p.record.PileID, p.engine, p.record.GreenCount, p.record.BrownCount, p.snap),
		Events:     p.events,
		StateReset: p.stateReset,
	}, nil
}

func (p *pile) appendEvent(at time.Time, eventType string, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["pile_id"] = p.record.PileID
	p.events = append(p.events, compost.DomainEvent{Type: eventType, OccurredAt: at, Payload: payload})
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u UseCase) rejected(command string, err error) (Response, error) {
	if u.Metrics != nil {
		u.Metrics.RecordRejected(command)
	}
	return Response{}, err
}

// settle records the command outcome and passes the result through.
func (u UseCase) settle(command string, out Response, err error) (Response, error) {
	if u.Metrics == nil {
		return out, err
	}
	switch {
	case err == nil:
		u.Metrics.RecordApplied(command)
	case errors.Is(err, ErrPileFull),
		errors.Is(err, ErrPileNotActive),
		errors.Is(err, ErrTurnCooldownActive),
		errors.Is(err, ErrNothingToHarvest),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ports.ErrNotFound):
		u.Metrics.RecordRejected(command)
	default:
		u.Metrics.RecordFailure()
	}
	if err != nil {
		return Response{}, err
	}
	return out, nil
}

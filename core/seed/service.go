package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/wanyama/core"
)

type (
	// Store is the primitive per-collection surface the reconciler needs.
	// Each call is document-atomic; no transaction spans a seeding pass.
	Store interface {
		Count(ctx context.Context, collection string) (int64, error)
		DeleteAll(ctx context.Context, collection string) (int64, error)
		// InsertIfAbsent creates the record unless one with the same
		// identifier exists, in which case the existing record is left
		// untouched. Reports whether an insert happened.
		InsertIfAbsent(ctx context.Context, collection, id string, rec Record) (bool, error)
	}

	Service struct {
		store    Store
		fsys     fs.FS // snapshot files
		validate *validator.Validate
		logger   core.Logger
		sources  []Source
		reset    bool
	}
)

func NewService(store Store, fsys fs.FS, validate *validator.Validate, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		store:    store,
		fsys:     fsys,
		validate: validate,
		logger:   logger,
		sources:  Sources(),
		reset:    conf.SeedReset,
	}
}

// Bootstrap seeds every source sequentially, in declared order. One
// source's failure never prevents the next from being attempted, and no
// failure of any kind escapes: the host process always finishes starting
// up, with or without seeded data. One-shot; re-triggered only by a
// process restart.
func (svc *Service) Bootstrap(ctx context.Context) Report {
	var report Report
	for _, src := range svc.sources {
		outcome := svc.runSource(ctx, src)
		svc.logOutcome(outcome)
		report.Outcomes = append(report.Outcomes, outcome)
	}
	svc.logger.Info(fmt.Sprintf(
		"bootstrap done: %d seeded, %d skipped, %d errored (of %d sources)",
		report.Seeded(), report.Skipped(), report.Errored(), len(report.Outcomes),
	))
	return report
}

func (svc *Service) runSource(ctx context.Context, src Source) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Source: src.Name, Status: StatusError, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	records, err := LoadSnapshot(svc.fsys, src.File)
	if err != nil {
		switch errors.Cause(err) {
		case errSourceNotFound, errSourceEmpty:
			return Outcome{Source: src.Name, Status: StatusSkipped, Reason: err.Error()}
		default:
			return Outcome{Source: src.Name, Status: StatusError, Reason: err.Error()}
		}
	}
	return svc.reconcile(ctx, src, records)
}

// reconcile pushes records into the collection:
// - already populated and no reset requested: skip, zero writes;
// - reset requested: destroy everything first (irrecoverable);
// - then insert-if-absent per record, keyed solely on the identifier.
// Per-record failures are logged and counted but never abort the source.
func (svc *Service) reconcile(ctx context.Context, src Source, records []Record) Outcome {
	count, err := svc.store.Count(ctx, src.Name)
	if err != nil {
		return Outcome{Source: src.Name, Status: StatusError, Reason: err.Error()}
	}

	var deleted int64
	if count > 0 {
		if !svc.reset {
			return Outcome{
				Source:  src.Name,
				Status:  StatusSkipped,
				Reason:  fmt.Sprintf("%d records already present", count),
				Existed: count,
			}
		}
		if deleted, err = svc.store.DeleteAll(ctx, src.Name); err != nil {
			return Outcome{Source: src.Name, Status: StatusError, Reason: err.Error()}
		}
		svc.logger.Warn(fmt.Sprintf("%s: force-reset destroyed %d records", src.Name, deleted))
	}

	outcome := Outcome{Source: src.Name, Status: StatusSuccess, Deleted: deleted}
	for i, raw := range records {
		rec := NormalizeRecord(raw)
		id := rec.EnsureID()

		if err := svc.checkRecord(src, rec); err != nil {
			outcome.Failed++
			svc.logger.Error(fmt.Sprintf("%s: record %d (%s) rejected", src.Name, i, id), err)
			continue
		}
		inserted, err := svc.store.InsertIfAbsent(ctx, src.Name, id, rec)
		if err != nil {
			outcome.Failed++
			svc.logger.Error(fmt.Sprintf("%s: record %d (%s) write failed", src.Name, i, id), err)
			continue
		}
		if inserted {
			outcome.Inserted++
		} else {
			outcome.AlreadyPresent++
		}
	}
	if outcome.Failed > 0 {
		outcome.Reason = fmt.Sprintf("%d record(s) failed", outcome.Failed)
	}
	return outcome
}

// checkRecord converts the normalized record to the source's typed model
// and validates it. This is the only place loose snapshot data meets the
// typed world.
func (svc *Service) checkRecord(src Source, rec Record) error {
	if src.Model == nil || svc.validate == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	model := src.Model()
	if err := json.Unmarshal(data, model); err != nil {
		return errors.Wrap(err, "decoding record")
	}
	if err := svc.validate.Struct(model); err != nil {
		return core.TranslateValidationError(err)
	}
	return nil
}

func (svc *Service) logOutcome(o Outcome) {
	switch o.Status {
	case StatusSkipped:
		svc.logger.Info(fmt.Sprintf("%s: skipped (%s)", o.Source, o.Reason))
	case StatusError:
		svc.logger.Error(fmt.Sprintf("%s: errored (%s)", o.Source, o.Reason))
	default:
		msg := fmt.Sprintf("%s: seeded %d record(s), %d already present", o.Source, o.Inserted, o.AlreadyPresent)
		if o.Failed > 0 {
			msg += fmt.Sprintf(", %d failed", o.Failed)
		}
		svc.logger.Info(msg)
	}
}

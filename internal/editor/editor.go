// Package editor implements the create/edit form state machine.
//
// The editor is Idle until New or Edit opens a draft. Submit validates the
// draft locally; only a valid draft reaches the repository. A successful
// save closes the draft, a failed one keeps it so the user can retry.
package editor

import (
	"context"
	"errors"
	"sync"

	"assets-manager/internal/asset"
)

var (
	// ErrNoDraft is returned by operations that need an open draft.
	ErrNoDraft = errors.New("no draft open")
	// ErrBusy is returned when the current draft is already being submitted.
	ErrBusy = errors.New("submit already in progress")
)

type State int

const (
	Idle State = iota
	Creating
	Editing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// Saver persists a validated record.
type Saver interface {
	Create(ctx context.Context, r asset.Record) (asset.Record, error)
	Update(ctx context.Context, id int64, r asset.Record) (asset.Record, error)
}

type Editor struct {
	repo Saver

	mu    sync.Mutex
	state State
	draft asset.Input
	id    *int64
	errs  asset.FieldErrors

	// gen changes whenever the draft is opened or closed. A submit only
	// applies its outcome when gen is unchanged since it started.
	gen        uint64
	pending    bool
	pendingGen uint64
}

func New(repo Saver) *Editor {
	return &Editor{repo: repo}
}

// New opens an empty draft for a record to be created.
func (e *Editor) New() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open(Creating, asset.Input{}, nil)
}

// Edit opens a draft holding a copy of r.
func (e *Editor) Edit(r asset.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var id *int64
	if r.ID != nil {
		id = asset.Int64Ptr(*r.ID)
	}
	e.open(Editing, r.Input(), id)
}

// Cancel discards the draft.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open(Idle, asset.Input{}, nil)
}

func (e *Editor) open(s State, in asset.Input, id *int64) {
	e.gen++
	e.state = s
	e.draft = cloneInput(in)
	e.id = id
	e.errs = nil
}

// SetDraft replaces the draft content.
func (e *Editor) SetDraft(in asset.Input) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Idle {
		return ErrNoDraft
	}
	e.draft = cloneInput(in)
	return nil
}

// Draft returns a copy of the draft; ok is false when Idle.
func (e *Editor) Draft() (in asset.Input, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Idle {
		return asset.Input{}, false
	}
	return cloneInput(e.draft), true
}

// ID is the id of the record being edited, nil while creating.
func (e *Editor) ID() *int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.id == nil {
		return nil
	}
	return asset.Int64Ptr(*e.id)
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// FieldErrors returns the errors of the last rejected submit.
func (e *Editor) FieldErrors() asset.FieldErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.errs == nil {
		return nil
	}
	out := make(asset.FieldErrors, len(e.errs))
	for k, v := range e.errs {
		out[k] = v
	}
	return out
}

// Busy reports whether the open draft is being submitted.
func (e *Editor) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending && e.pendingGen == e.gen
}

// Submit validates the draft and saves it. An invalid draft returns
// asset.FieldErrors without calling the repository. A repository failure
// is returned as is and the draft stays open.
//
// If the draft was replaced or closed while the call was in flight, the
// outcome is returned to the caller but the editor state is left alone.
func (e *Editor) Submit(ctx context.Context) (asset.Record, error) {
	e.mu.Lock()
	if e.state == Idle {
		e.mu.Unlock()
		return asset.Record{}, ErrNoDraft
	}
	if e.pending && e.pendingGen == e.gen {
		e.mu.Unlock()
		return asset.Record{}, ErrBusy
	}
	rec, fieldErrs := asset.Validate(e.draft)
	if fieldErrs != nil {
		e.errs = fieldErrs
		e.mu.Unlock()
		return asset.Record{}, fieldErrs
	}
	e.errs = nil
	gen := e.gen
	e.pending, e.pendingGen = true, gen
	var id *int64
	if e.id != nil {
		id = asset.Int64Ptr(*e.id)
	}
	e.mu.Unlock()

	var (
		saved asset.Record
		err   error
	)
	if id == nil {
		saved, err = e.repo.Create(ctx, rec)
	} else {
		saved, err = e.repo.Update(ctx, *id, rec)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pendingGen == gen {
		e.pending = false
	}
	if err != nil {
		return asset.Record{}, err
	}
	if e.gen == gen {
		e.open(Idle, asset.Input{}, nil)
	}
	return saved, nil
}

func cloneInput(in asset.Input) asset.Input {
	if in.AcquisitionDate != nil {
		in.AcquisitionDate = asset.StringPtr(*in.AcquisitionDate)
	}
	return in
}

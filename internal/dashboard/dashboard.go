// Package dashboard owns the asset list, the editor and the transient
// feedback banner, and coordinates them around repository calls.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"assets-manager/internal/asset"
	"assets-manager/internal/client"
	"assets-manager/internal/editor"

	"go.uber.org/zap"
)

// DefaultFeedbackTTL is how long a feedback banner stays up.
const DefaultFeedbackTTL = 3 * time.Second

type Option func(*Dashboard)

func WithFeedbackTTL(d time.Duration) Option {
	return func(db *Dashboard) {
		if d > 0 {
			db.ttl = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(db *Dashboard) {
		if l != nil {
			db.log = l
		}
	}
}

type Dashboard struct {
	repo   client.Repository
	editor *editor.Editor
	ttl    time.Duration
	log    *zap.Logger

	mu       sync.Mutex
	mounted  bool
	closed   bool
	assets   []asset.Record
	seq      uint64 // last refresh started
	applied  uint64 // last refresh whose result was kept
	feedback Feedback
	fbSeq    uint64
	timer    *time.Timer
	subs     map[int]func(Event)
	nextSub  int
}

func New(repo client.Repository, opts ...Option) *Dashboard {
	d := &Dashboard{
		repo:   repo,
		editor: editor.New(repo),
		ttl:    DefaultFeedbackTTL,
		log:    zap.NewNop(),
		assets: []asset.Record{},
		subs:   map[int]func(Event){},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mount loads the list the first time it is called; later calls do nothing.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	if d.mounted {
		d.mu.Unlock()
		return nil
	}
	d.mounted = true
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// Refresh re-fetches the whole list. A failure raises error feedback and
// leaves the previous list in place.
func (d *Dashboard) Refresh(ctx context.Context) error {
	if err := d.refresh(ctx); err != nil {
		d.setFeedback(FeedbackError, MsgLoadFailed)
		return err
	}
	return nil
}

// refresh replaces the list unless a newer refresh already landed.
func (d *Dashboard) refresh(ctx context.Context) error {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	list, err := d.repo.List(ctx)
	if err != nil {
		d.log.Warn("list assets failed", zap.Error(err))
		return err
	}

	d.mu.Lock()
	if seq < d.applied {
		d.mu.Unlock()
		d.log.Debug("dropping stale list response", zap.Uint64("seq", seq))
		return nil
	}
	d.applied = seq
	d.assets = cloneAll(list)
	d.mu.Unlock()

	d.emit(Event{Kind: ListChanged})
	return nil
}

// Assets returns a copy of the current list.
func (d *Dashboard) Assets() []asset.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneAll(d.assets)
}

func (d *Dashboard) New() {
	d.editor.New()
	d.emit(Event{Kind: EditorChanged})
}

func (d *Dashboard) Edit(r asset.Record) {
	d.editor.Edit(r)
	d.emit(Event{Kind: EditorChanged})
}

// EditByID opens the record with the given id from the current list.
func (d *Dashboard) EditByID(id int64) bool {
	for _, r := range d.Assets() {
		if r.Persisted() && *r.ID == id {
			d.Edit(r)
			return true
		}
	}
	return false
}

func (d *Dashboard) Cancel() {
	d.editor.Cancel()
	d.emit(Event{Kind: EditorChanged})
}

func (d *Dashboard) SetDraft(in asset.Input) error {
	if err := d.editor.SetDraft(in); err != nil {
		return err
	}
	d.emit(Event{Kind: EditorChanged})
	return nil
}

func (d *Dashboard) Draft() (asset.Input, bool)     { return d.editor.Draft() }
func (d *Dashboard) FieldErrors() asset.FieldErrors { return d.editor.FieldErrors() }
func (d *Dashboard) EditorState() editor.State      { return d.editor.State() }

// Submit saves the open draft. Validation errors come back as
// asset.FieldErrors and leave the feedback untouched. A repository failure
// raises error feedback and keeps the draft. On success the list is
// re-fetched; a failed re-fetch is returned but the save still stands.
func (d *Dashboard) Submit(ctx context.Context) error {
	creating := d.editor.ID() == nil

	_, err := d.editor.Submit(ctx)
	var fieldErrs asset.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		d.emit(Event{Kind: EditorChanged})
		return err
	case errors.Is(err, editor.ErrNoDraft), errors.Is(err, editor.ErrBusy):
		return err
	case err != nil:
		d.log.Warn("save asset failed", zap.Error(err))
		d.setFeedback(FeedbackError, MsgSaveFailed)
		return err
	}

	if creating {
		d.setFeedback(FeedbackSuccess, MsgCreated)
	} else {
		d.setFeedback(FeedbackSuccess, MsgUpdated)
	}
	d.emit(Event{Kind: EditorChanged})
	return d.refresh(ctx)
}

// Delete removes the record and then re-fetches the list whatever the
// outcome. A record that is already gone counts as deleted.
func (d *Dashboard) Delete(ctx context.Context, id int64) error {
	err := d.repo.Delete(ctx, id)
	if errors.Is(err, client.ErrNotFound) {
		d.log.Info("asset already deleted", zap.Int64("id", id))
		err = nil
	}
	if err != nil {
		d.log.Warn("delete asset failed", zap.Int64("id", id), zap.Error(err))
		d.setFeedback(FeedbackError, MsgDeleteFailed)
	} else {
		d.setFeedback(FeedbackSuccess, MsgDeleted)
	}

	if rerr := d.refresh(ctx); rerr != nil && err == nil {
		return rerr
	}
	return err
}

// Close stops the feedback timer. The dashboard must not be used afterwards.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func cloneAll(in []asset.Record) []asset.Record {
	out := make([]asset.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

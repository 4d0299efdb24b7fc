package dashboard

import "time"

type FeedbackKind int

const (
	FeedbackNone FeedbackKind = iota
	FeedbackSuccess
	FeedbackError
)

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackSuccess:
		return "success"
	case FeedbackError:
		return "error"
	default:
		return "none"
	}
}

const (
	MsgCreated      = "Ativo criado com sucesso"
	MsgUpdated      = "Ativo atualizado com sucesso"
	MsgSaveFailed   = "Erro ao salvar ativo"
	MsgDeleted      = "Ativo removido com sucesso"
	MsgDeleteFailed = "Erro ao remover ativo"
	MsgLoadFailed   = "Erro ao carregar ativos"
)

// Feedback is the transient banner shown after an operation.
type Feedback struct {
	Kind    FeedbackKind
	Message string
}

func (d *Dashboard) Feedback() Feedback {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.feedback
}

// Dismiss clears the banner now.
func (d *Dashboard) Dismiss() {
	d.mu.Lock()
	if d.feedback.Kind == FeedbackNone {
		d.mu.Unlock()
		return
	}
	d.fbSeq++
	d.feedback = Feedback{}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.emit(Event{Kind: FeedbackChanged})
}

// setFeedback shows a banner that clears itself after the TTL. Each banner
// owns its timer; an older timer never clears a newer banner.
func (d *Dashboard) setFeedback(kind FeedbackKind, msg string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.fbSeq++
	seq := d.fbSeq
	d.feedback = Feedback{Kind: kind, Message: msg}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.ttl, func() { d.expire(seq) })
	d.mu.Unlock()
	d.emit(Event{Kind: FeedbackChanged})
}

func (d *Dashboard) expire(seq uint64) {
	d.mu.Lock()
	if d.closed || d.fbSeq != seq {
		d.mu.Unlock()
		return
	}
	d.feedback = Feedback{}
	d.timer = nil
	d.mu.Unlock()
	d.emit(Event{Kind: FeedbackChanged})
}

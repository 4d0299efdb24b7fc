package dashboard

type EventKind int

const (
	ListChanged EventKind = iota + 1
	FeedbackChanged
	EditorChanged
)

type Event struct {
	Kind EventKind
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. fn runs on the goroutine that made the change, outside
// the dashboard lock, so it may call back into the dashboard.
func (d *Dashboard) Subscribe(fn func(Event)) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subs, id)
	}
}

func (d *Dashboard) emit(e Event) {
	d.mu.Lock()
	subs := make([]func(Event), 0, len(d.subs))
	for _, fn := range d.subs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

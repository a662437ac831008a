package panel

// TabChanged is emitted when the user selects a group tab
type TabChanged struct {
	GroupID string
}

// ScrollSettled is emitted when the page scroller comes to rest on a page
type ScrollSettled struct {
	Category int
	Index    int
}

type subscription[E any] struct {
	id int
	fn func(E)
}

type observerList[E any] struct {
	next int
	subs []subscription[E]
}

func (l *observerList[E]) add(fn func(E)) func() {
	l.next++
	id := l.next
	l.subs = append(l.subs, subscription[E]{id: id, fn: fn})
	return func() {
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

func (l *observerList[E]) emit(e E) {
	// Observers may unsubscribe while being notified
	subs := append([]subscription[E](nil), l.subs...)
	for _, s := range subs {
		s.fn(e)
	}
}

// Events holds one typed observer list per event kind
type Events struct {
	tabChanged    observerList[TabChanged]
	scrollSettled observerList[ScrollSettled]
}

// OnTabChanged registers fn and returns a function that removes it
func (e *Events) OnTabChanged(fn func(TabChanged)) func() {
	return e.tabChanged.add(fn)
}

// OnScrollSettled registers fn and returns a function that removes it
func (e *Events) OnScrollSettled(fn func(ScrollSettled)) func() {
	return e.scrollSettled.add(fn)
}

// EmitTabChanged notifies every TabChanged observer in registration order
func (e *Events) EmitTabChanged(ev TabChanged) {
	e.tabChanged.emit(ev)
}

// EmitScrollSettled notifies every ScrollSettled observer in registration order
func (e *Events) EmitScrollSettled(ev ScrollSettled) {
	e.scrollSettled.emit(ev)
}

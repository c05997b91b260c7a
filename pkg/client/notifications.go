package client

import (
	"fmt"
	"sync"

	"github.com/mkovalev/hatparty/pkg/game"
)

// Following are the notification types. Add new types at the bottom of this
// list, then add a notifyX() to NotificationManager and initialize a new
// container in NewNotificationManager().

const onPhaseChangedNtfnType = "onPhaseChanged"

// OnPhaseChangedNtfn is the handler for phase transitions; it receives the
// snapshot materialized after the event was applied.
type OnPhaseChangedNtfn func(game.Snapshot)

func (_ OnPhaseChangedNtfn) typ() string { return onPhaseChangedNtfnType }

const onTurnChangedNtfnType = "onTurnChanged"

// OnTurnChangedNtfn is the handler for turn changes within a phase.
type OnTurnChangedNtfn func(game.Snapshot)

func (_ OnTurnChangedNtfn) typ() string { return onTurnChangedNtfnType }

const onPlayersUpdatedNtfnType = "onPlayersUpdated"

// OnPlayersUpdatedNtfn is the handler for participant list replacements.
type OnPlayersUpdatedNtfn func([]game.Player)

func (_ OnPlayersUpdatedNtfn) typ() string { return onPlayersUpdatedNtfnType }

const onWordRevealedNtfnType = "onWordRevealed"

// OnWordRevealedNtfn is the handler for the secret word becoming visible to
// the local explainer.
type OnWordRevealedNtfn func(string)

func (_ OnWordRevealedNtfn) typ() string { return onWordRevealedNtfnType }

const onTimerTickNtfnType = "onTimerTick"

// OnTimerTickNtfn is the handler for countdown updates.
type OnTimerTickNtfn func(secondsRemaining int)

func (_ OnTimerTickNtfn) typ() string { return onTimerTickNtfnType }

const onTurnTimeUpNtfnType = "onTurnTimeUp"

// OnTurnTimeUpNtfn is the handler for the server calling time on a turn.
type OnTurnTimeUpNtfn func()

func (_ OnTurnTimeUpNtfn) typ() string { return onTurnTimeUpNtfnType }

const onWaitingStatusNtfnType = "onWaitingStatus"

// OnWaitingStatusNtfn is the handler for word-submission progress updates.
type OnWaitingStatusNtfn func(game.WaitingStatus)

func (_ OnWaitingStatusNtfn) typ() string { return onWaitingStatusNtfnType }

const onRoleInfoNtfnType = "onRoleInfo"

// OnRoleInfoNtfn is the handler for the server reporting whether the local
// user created the room.
type OnRoleInfoNtfn func(isCreator bool)

func (_ OnRoleInfoNtfn) typ() string { return onRoleInfoNtfnType }

const onRoomClosedNtfnType = "onRoomClosed"

// OnRoomClosedNtfn is the handler for the room going away.
type OnRoomClosedNtfn func()

func (_ OnRoomClosedNtfn) typ() string { return onRoomClosedNtfnType }

const onServerErrorNtfnType = "onServerError"

// OnServerErrorNtfn is the handler for error_message events.
type OnServerErrorNtfn func(msg string)

func (_ OnServerErrorNtfn) typ() string { return onServerErrorNtfnType }

// The following is used only in tests.

const onTestNtfnType = "testNtfnType"

type onTestNtfn func()

func (_ onTestNtfn) typ() string { return onTestNtfnType }

// Following is the generic notification code.

type NotificationRegistration struct {
	unreg func() bool
}

func (reg NotificationRegistration) Unregister() bool {
	return reg.unreg()
}

type NotificationHandler interface {
	typ() string
}

type handler[T any] struct {
	handler T
	async   bool
}

type handlersFor[T any] struct {
	mtx      sync.Mutex
	next     uint
	handlers map[uint]handler[T]
}

func (hn *handlersFor[T]) register(h T, async bool) NotificationRegistration {
	var id uint

	hn.mtx.Lock()
	id, hn.next = hn.next, hn.next+1
	if hn.handlers == nil {
		hn.handlers = make(map[uint]handler[T])
	}
	hn.handlers[id] = handler[T]{handler: h, async: async}
	registered := true
	hn.mtx.Unlock()

	return NotificationRegistration{
		unreg: func() bool {
			hn.mtx.Lock()
			res := registered
			if registered {
				delete(hn.handlers, id)
				registered = false
			}
			hn.mtx.Unlock()
			return res
		},
	}
}

func (hn *handlersFor[T]) visit(f func(T)) {
	hn.mtx.Lock()
	for _, h := range hn.handlers {
		if h.async {
			go f(h.handler)
		} else {
			f(h.handler)
		}
	}
	hn.mtx.Unlock()
}

func (hn *handlersFor[T]) Register(v interface{}, async bool) NotificationRegistration {
	if h, ok := v.(T); !ok {
		panic("wrong type")
	} else {
		return hn.register(h, async)
	}
}

func (hn *handlersFor[T]) AnyRegistered() bool {
	hn.mtx.Lock()
	res := len(hn.handlers) > 0
	hn.mtx.Unlock()
	return res
}

type handlersRegistry interface {
	Register(v interface{}, async bool) NotificationRegistration
	AnyRegistered() bool
}

// NotificationManager fans session events out to registered callbacks.
type NotificationManager struct {
	handlers map[string]handlersRegistry
}

func (nmgr *NotificationManager) register(handler NotificationHandler, async bool) NotificationRegistration {
	handlers := nmgr.handlers[handler.typ()]
	if handlers == nil {
		panic(fmt.Sprintf("forgot to init the handler type %T "+
			"in NewNotificationManager", handler))
	}

	return handlers.Register(handler, async)
}

// Register registers a callback notification function that is called
// asynchronously to the event (i.e. in a separate goroutine).
func (nmgr *NotificationManager) Register(handler NotificationHandler) NotificationRegistration {
	return nmgr.register(handler, true)
}

// RegisterSync registers a callback notification function that is called
// synchronously to the event. This callback SHOULD return as soon as
// possible, otherwise event processing will stall behind it. Mostly
// intended for tests and callers that need strict ordering of sequential
// events.
func (nmgr *NotificationManager) RegisterSync(handler NotificationHandler) NotificationRegistration {
	return nmgr.register(handler, false)
}

// AnyRegistered returns true if there are any handlers registered for the
// given handler type.
func (nmgr *NotificationManager) AnyRegistered(handler NotificationHandler) bool {
	return nmgr.handlers[handler.typ()].AnyRegistered()
}

// Following are the notifyX() calls (one for each type of notification).

func (nmgr *NotificationManager) notifyTest() {
	nmgr.handlers[onTestNtfnType].(*handlersFor[onTestNtfn]).
		visit(func(h onTestNtfn) { h() })
}

func (nmgr *NotificationManager) notifyPhaseChanged(snap game.Snapshot) {
	nmgr.handlers[onPhaseChangedNtfnType].(*handlersFor[OnPhaseChangedNtfn]).
		visit(func(h OnPhaseChangedNtfn) { h(snap) })
}

func (nmgr *NotificationManager) notifyTurnChanged(snap game.Snapshot) {
	nmgr.handlers[onTurnChangedNtfnType].(*handlersFor[OnTurnChangedNtfn]).
		visit(func(h OnTurnChangedNtfn) { h(snap) })
}

func (nmgr *NotificationManager) notifyPlayersUpdated(players []game.Player) {
	nmgr.handlers[onPlayersUpdatedNtfnType].(*handlersFor[OnPlayersUpdatedNtfn]).
		visit(func(h OnPlayersUpdatedNtfn) { h(players) })
}

func (nmgr *NotificationManager) notifyWordRevealed(word string) {
	nmgr.handlers[onWordRevealedNtfnType].(*handlersFor[OnWordRevealedNtfn]).
		visit(func(h OnWordRevealedNtfn) { h(word) })
}

func (nmgr *NotificationManager) notifyTimerTick(seconds int) {
	nmgr.handlers[onTimerTickNtfnType].(*handlersFor[OnTimerTickNtfn]).
		visit(func(h OnTimerTickNtfn) { h(seconds) })
}

func (nmgr *NotificationManager) notifyTurnTimeUp() {
	nmgr.handlers[onTurnTimeUpNtfnType].(*handlersFor[OnTurnTimeUpNtfn]).
		visit(func(h OnTurnTimeUpNtfn) { h() })
}

func (nmgr *NotificationManager) notifyWaitingStatus(ws game.WaitingStatus) {
	nmgr.handlers[onWaitingStatusNtfnType].(*handlersFor[OnWaitingStatusNtfn]).
		visit(func(h OnWaitingStatusNtfn) { h(ws) })
}

func (nmgr *NotificationManager) notifyRoleInfo(isCreator bool) {
	nmgr.handlers[onRoleInfoNtfnType].(*handlersFor[OnRoleInfoNtfn]).
		visit(func(h OnRoleInfoNtfn) { h(isCreator) })
}

func (nmgr *NotificationManager) notifyRoomClosed() {
	nmgr.handlers[onRoomClosedNtfnType].(*handlersFor[OnRoomClosedNtfn]).
		visit(func(h OnRoomClosedNtfn) { h() })
}

func (nmgr *NotificationManager) notifyServerError(msg string) {
	nmgr.handlers[onServerErrorNtfnType].(*handlersFor[OnServerErrorNtfn]).
		visit(func(h OnServerErrorNtfn) { h(msg) })
}

// NewNotificationManager creates a manager with every handler container
// initialized.
func NewNotificationManager() *NotificationManager {
	return &NotificationManager{
		handlers: map[string]handlersRegistry{
			onTestNtfnType:           &handlersFor[onTestNtfn]{},
			onPhaseChangedNtfnType:   &handlersFor[OnPhaseChangedNtfn]{},
			onTurnChangedNtfnType:    &handlersFor[OnTurnChangedNtfn]{},
			onPlayersUpdatedNtfnType: &handlersFor[OnPlayersUpdatedNtfn]{},
			onWordRevealedNtfnType:   &handlersFor[OnWordRevealedNtfn]{},
			onTimerTickNtfnType:      &handlersFor[OnTimerTickNtfn]{},
			onTurnTimeUpNtfnType:     &handlersFor[OnTurnTimeUpNtfn]{},
			onWaitingStatusNtfnType:  &handlersFor[OnWaitingStatusNtfn]{},
			onRoleInfoNtfnType:       &handlersFor[OnRoleInfoNtfn]{},
			onRoomClosedNtfnType:     &handlersFor[OnRoomClosedNtfn]{},
			onServerErrorNtfnType:    &handlersFor[OnServerErrorNtfn]{},
		},
	}
}

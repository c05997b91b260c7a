package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/decred/slog"
	"github.com/jonboulle/clockwork"

	"github.com/mkovalev/hatparty/pkg/game"
	"github.com/mkovalev/hatparty/pkg/transport"
	"github.com/mkovalev/hatparty/pkg/wire"
)

// Message types for UI communication.
type (
	// SnapshotMsg is the refreshed session view after an accepted event.
	SnapshotMsg game.Snapshot

	// TimerTickMsg carries the remaining seconds after a countdown update.
	TimerTickMsg int

	// ServerErrorMsg surfaces an error_message event.
	ServerErrorMsg string

	// RoomClosedMsg signals that the room is gone.
	RoomClosedMsg struct{}

	// DisconnectedMsg signals that the event channel closed for good.
	DisconnectedMsg struct{}
)

// GameClient ties the event channel to the session core and exposes the
// outbound command surface. All inbound events are applied on a single
// goroutine in delivery order; the timer's tick callbacks are the only
// other stimulus source, which is why every boundary handler in the core
// stops the timer itself.
type GameClient struct {
	sync.RWMutex
	ID     int
	RoomID string

	channel transport.Channel
	machine *game.Machine
	timer   *game.Reconciler
	pairing *game.PairingDraft
	teams   *game.TeamDraft
	words   *game.WordsDraft

	cfg       *AppConfig
	ntfns     *NotificationManager
	log       slog.Logger
	isCreator bool

	UpdatesCh chan tea.Msg
	ErrorsCh  chan error

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewGameClient wires a client over an already-dialed channel and starts
// the event loop. The caller owns the channel's lifetime through Close.
func NewGameClient(ctx context.Context, cfg *AppConfig, ch transport.Channel, log slog.Logger, clock clockwork.Clock) (*GameClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	timer := game.NewReconciler(clock, log)
	gc := &GameClient{
		ID:         cfg.UserID,
		RoomID:     cfg.RoomID,
		channel:    ch,
		machine:    game.NewMachine(cfg.UserID, timer, log),
		timer:      timer,
		pairing:    game.NewPairingDraft(nil, rand.New(rand.NewSource(time.Now().UnixNano()))),
		teams:      game.NewTeamDraft(),
		words:      game.NewWordsDraft(1),
		cfg:        cfg,
		ntfns:      cfg.Notifications,
		log:        log,
		UpdatesCh:  make(chan tea.Msg, 100),
		ErrorsCh:   make(chan error, 10),
		ctx:        ctx,
		cancelFunc: cancel,
	}

	timer.OnTick(func(seconds int) {
		gc.ntfns.notifyTimerTick(seconds)
		gc.pushUpdate(TimerTickMsg(seconds))
	})
	// The only self-initiated outbound side effect of the core: natural
	// expiry reports end_turn, at most once per countdown.
	timer.OnExpire(func() {
		if err := gc.channel.Send(wire.Command{Type: wire.CmdEndTurn}); err != nil {
			gc.reportErr(fmt.Errorf("end_turn: %w", err))
		}
	})

	go gc.run()

	if err := gc.CheckRole(); err != nil {
		gc.log.Warnf("check_role failed: %v", err)
	}

	return gc, nil
}

// Notifications returns the notification manager.
func (gc *GameClient) Notifications() *NotificationManager { return gc.ntfns }

// Snapshot returns the current read-only session view.
func (gc *GameClient) Snapshot() game.Snapshot { return gc.machine.Snapshot() }

// IsCreator reports whether the server confirmed the local user as the
// room's creator.
func (gc *GameClient) IsCreator() bool {
	gc.RLock()
	defer gc.RUnlock()
	return gc.isCreator
}

// Close stops the event loop and tears down the channel.
func (gc *GameClient) Close() error {
	gc.cancelFunc()
	return gc.channel.Close()
}

func (gc *GameClient) run() {
	for {
		select {
		case <-gc.ctx.Done():
			gc.timer.Stop()
			return
		case ev, ok := <-gc.channel.Events():
			if !ok {
				gc.handleDisconnect()
				return
			}
			gc.handleEvent(ev)
		}
	}
}

func (gc *GameClient) handleEvent(ev wire.Event) {
	switch ev.Type {
	case wire.EventRoleInfo:
		var p wire.RoleInfoPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			gc.log.Warnf("role_info: %v", err)
			return
		}
		gc.Lock()
		gc.isCreator = p.IsCreator
		gc.Unlock()
		gc.ntfns.notifyRoleInfo(p.IsCreator)
		return

	case wire.EventErrorMessage:
		var msg string
		if err := json.Unmarshal(ev.Data, &msg); err != nil {
			msg = string(ev.Data)
		}
		gc.log.Warnf("server error: %s", msg)
		gc.ntfns.notifyServerError(msg)
		gc.pushUpdate(ServerErrorMsg(msg))
		return

	case wire.EventRoomClosed, wire.EventRoomNotFound:
		gc.ntfns.notifyRoomClosed()
		gc.pushUpdate(RoomClosedMsg{})
		return

	case wire.EventJoined, wire.EventLeftRoomSuccess, wire.EventActiveRoomInfo:
		gc.log.Debugf("room event %q", ev.Type)
		return
	}

	prevPhase := gc.machine.Phase()
	if err := gc.machine.HandleEvent(ev); err != nil {
		gc.log.Warnf("event %q not applied: %v", ev.Type, err)
		gc.reportErr(err)
		return
	}

	snap := gc.machine.Snapshot()
	if snap.Phase != prevPhase {
		gc.enterPhase(snap)
		gc.ntfns.notifyPhaseChanged(snap)
	}

	switch ev.Type {
	case wire.EventTurnChanged:
		gc.ntfns.notifyTurnChanged(snap)
	case wire.EventPlayersList:
		gc.ntfns.notifyPlayersUpdated(snap.Players)
	case wire.EventRevealWord:
		if snap.Turn.CurrentWord != "" {
			gc.ntfns.notifyWordRevealed(snap.Turn.CurrentWord)
		}
	case wire.EventWaitingForPlayers:
		gc.ntfns.notifyWaitingStatus(snap.Waiting)
	case wire.EventTurnTimeUp:
		gc.ntfns.notifyTurnTimeUp()
	}

	gc.pushUpdate(SnapshotMsg(snap))
}

// enterPhase resets the transient drafts that belong to the phase being
// entered, so nothing assembled for a previous round leaks forward.
func (gc *GameClient) enterPhase(snap game.Snapshot) {
	switch snap.Phase {
	case game.PhaseEnterWords:
		gc.Lock()
		gc.words = game.NewWordsDraft(snap.Round.WordsPerPlayer)
		gc.Unlock()
	case game.PhasePrepareRound:
		gc.pairing.Reset(snap.Players)
		gc.teams.Reset()
	}
}

// handleDisconnect runs once the channel closes permanently: the countdown
// stops and in-flight drafts are discarded, per the session teardown rules.
func (gc *GameClient) handleDisconnect() {
	gc.log.Infof("event channel closed")
	gc.timer.Stop()
	gc.pairing.Reset(nil)
	gc.teams.Reset()
	gc.pushUpdate(DisconnectedMsg{})
}

func (gc *GameClient) pushUpdate(msg tea.Msg) {
	select {
	case gc.UpdatesCh <- msg:
	case <-gc.ctx.Done():
	default:
		// Channel is full, drop the update.
		gc.log.Warnf("updates channel full, dropping update")
	}
}

func (gc *GameClient) reportErr(err error) {
	select {
	case gc.ErrorsCh <- err:
	default:
		gc.log.Warnf("errors channel full, dropping: %v", err)
	}
}

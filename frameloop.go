package simcore

import (
	"github.com/pkg/errors"
)

// MaxRollbackFrames bounds how far a netplay rollback may reach back,
// carried over from the teacher's parser.go constant of the same name and
// meaning (the deepest a confirmed-input correction may reach).
const MaxRollbackFrames = 7

// FrameLoopEvent tags the events a FrameLoop publishes to subscribers,
// mirroring parser.go's ParserEvent enum (Started/Frame/FinalizedFrame/
// RollbackFrame/Ended) repurposed for local simulation instead of a
// replay event stream.
type FrameLoopEvent int

const (
	EventStarted FrameLoopEvent = iota
	EventStepped
	EventRolledBack
	EventEnded
)

// FrameLoopHandler receives FrameLoop events via an unbounded channel,
// following the teacher's AddHandler/Trigger idiom (parser.go).
type FrameLoopHandler struct {
	event FrameLoopEvent
	send  chan<- *FrameLoopMessage
}

// FrameLoopMessage is the payload delivered to a FrameLoopHandler.
type FrameLoopMessage struct {
	Event    FrameLoopEvent
	Frame    int
	Snapshot RenderSnapshot
	Result   *GameResult
}

// GameResult is produced when the frame loop's win condition is met
// (spec.md §4.5 step 6).
type GameResult struct {
	Frame   int
	Winner  int // -1 if a draw/no winner
	Kills   map[int]int
}

// frameSnapshot is one history entry: a deep-enough copy of every player
// plus the stage, used for rollback/replay (spec.md §3 invariant (h),
// §9: "clones the full player vector and stage per tick").
type frameSnapshot struct {
	players []Player
	stage   Stage
	inputs  []Control
}

// FrameLoop is the rollback-capable frame loop (spec.md §4.5). It owns all
// player/stage state; consumers only ever receive read-only snapshots.
type FrameLoop struct {
	Package *Package
	Fighters map[string]*Fighter
	Stage   *Stage
	Rules   Rules

	Players []*Player

	InitSeed     int64
	CurrentFrame int

	history []frameSnapshot
	trail   [][]PlayerRenderState

	handlers []FrameLoopHandler

	ended  bool
	result *GameResult
}

// NewFrameLoop constructs a FrameLoop for a match: one fighter per player
// (by package key), a chosen stage, and a deterministic seed (spec.md §5:
// "re-seeded from (init_seed, current_frame) each tick").
func NewFrameLoop(pkg *Package, stageKey string, fighterKeys []string, initSeed int64) (*FrameLoop, error) {
	stage, ok := pkg.Stages[stageKey]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStageKey, "frameloop: stage %q", stageKey)
	}

	fl := &FrameLoop{
		Package:  pkg,
		Fighters: pkg.Fighters,
		Stage:    stage,
		Rules:    pkg.Rules,
		InitSeed: initSeed,
	}

	for i, key := range fighterKeys {
		f, ok := pkg.Fighters[key]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownFighterKey, "frameloop: fighter %q", key)
		}
		spawn := stage.SpawnPoints[i%len(stage.SpawnPoints)]
		p := NewPlayer(key, i, spawn, f)
		p.Stocks = pkg.Rules.StockCount
		fl.Players = append(fl.Players, p)
	}

	fl.trigger(EventStarted, nil)
	return fl, nil
}

// AddHandler registers a channel to receive events of the given kind,
// mirroring parser.go's AddHandler.
func (fl *FrameLoop) AddHandler(event FrameLoopEvent) <-chan *FrameLoopMessage {
	send, recv := MakeUnboundedChannel[FrameLoopMessage]()
	fl.handlers = append(fl.handlers, FrameLoopHandler{event: event, send: send})
	return recv
}

func (fl *FrameLoop) trigger(event FrameLoopEvent, msg *FrameLoopMessage) {
	if msg == nil {
		msg = &FrameLoopMessage{Event: event, Frame: fl.CurrentFrame}
	}
	for _, h := range fl.handlers {
		if h.event == event {
			h.send <- msg
		}
	}
}

// Step advances the simulation by exactly one tick (spec.md §4.5 steps
// 1-6): push history, truncate any redo lane, increment current_frame,
// seed the RNG, run the three passes, then evaluate end-of-game.
func (fl *FrameLoop) Step(inputs []Control) (*GameResult, error) {
	if fl.ended {
		return fl.result, nil
	}
	if len(inputs) != len(fl.Players) {
		return nil, errors.New("frameloop: input count does not match player count")
	}

	fl.pushHistory(inputs)
	fl.history = fl.history[:fl.CurrentFrame+1]
	fl.CurrentFrame++

	rng := newRNGForFrame(fl.InitSeed, fl.CurrentFrame)

	fl.actionPass(inputs)
	fl.physicsPass(rng)
	fl.collisionPass()

	snap := BuildRenderSnapshot(fl.CurrentFrame, fl.Players, fl.Stage, fl.trail, fl.Rules.TimeLimit-fl.CurrentFrame)
	fl.trail = snap.Trail
	fl.trigger(EventStepped, &FrameLoopMessage{Event: EventStepped, Frame: fl.CurrentFrame, Snapshot: snap})

	if result := fl.evaluateEndOfGame(); result != nil {
		fl.ended = true
		fl.result = result
		fl.trigger(EventEnded, &FrameLoopMessage{Event: EventEnded, Frame: fl.CurrentFrame, Result: result})
		return result, nil
	}
	return nil, nil
}

func (fl *FrameLoop) pushHistory(inputs []Control) {
	snapshot := frameSnapshot{stage: *fl.Stage, inputs: inputs}
	for _, p := range fl.Players {
		snapshot.players = append(snapshot.players, p.Clone())
	}
	if fl.CurrentFrame < len(fl.history) {
		fl.history[fl.CurrentFrame] = snapshot
	} else {
		fl.history = append(fl.history, snapshot)
	}
}

// actionPass clones-by-index semantics: each player reads only its own
// controller history, so per-player order matters only for tie-breaking
// (spec.md §5: lower index wins simultaneous contested actions).
func (fl *FrameLoop) actionPass(inputs []Control) {
	for i, p := range fl.Players {
		f := fl.Fighters[p.FighterKey]
		if f == nil {
			continue
		}
		p.clampToFighter(f)
		resetHitlistIfForced(p, f)

		// Rebuild this player's last sampleHistoryLen samples from the
		// recorded inputs; the newest history entry holds this tick's inputs.
		hist := &ControllerHistory{}
		start := len(fl.history) - sampleHistoryLen
		if start < 0 {
			start = 0
		}
		for _, snap := range fl.history[start:] {
			hist.Push(snap.inputs[i])
		}
		p.StickSnapshot = Vector2{X: inputs[i].StickX, Y: inputs[i].StickY}

		inputStep(p, f, hist, i)
	}
}

func (fl *FrameLoop) physicsPass(rng *rngState) {
	for i, p := range fl.Players {
		f := fl.Fighters[p.FighterKey]
		if f == nil {
			continue
		}
		physicsStep(p, f, fl.Stage, fl.Players, i, fl.CurrentFrame, rng)
	}
}

func (fl *FrameLoop) collisionPass() {
	results := ResolveCollisions(fl.Players, fl.Fighters)
	for i, p := range fl.Players {
		f := fl.Fighters[p.FighterKey]
		if f == nil {
			continue
		}
		for _, res := range results[i] {
			if res.Kind != ResultHitDef {
				continue
			}
			attacker := fl.Players[res.OtherPlayer]
			hurt := hurtPropertiesFor(p, f)
			inCrouch := p.Action == Crouch
			hr := ResolveHitDef(attacker, p, res.OtherPlayer, res.Hitbox, hurt, f.Weight, inCrouch)
			applyHitResult(p, hr)
		}
	}
}

// applyHitResult transitions the defender into hitstun (spec.md §4.4: "if
// D is not grabbed or kb_vel > 50: set D airborne, choose DamageFly if
// kb_vel > 80 else Damage, reset hit-stun").
func applyHitResult(p *Player, hr HitResult) {
	if _, grabbed := p.Location.(GrabbedByPlayer); grabbed && hr.KBVel <= 50 {
		return
	}
	if hr.SetAirborne {
		p.Location = Airborne{X: p.BPS.X, Y: p.BPS.Y}
	}
	action := Damage
	if hr.FlyVariant {
		action = DamageFly
	}
	p.SetAction(action)
	p.Hitstun(hr.HitstunFrames)
}

func hurtPropertiesFor(p *Player, f *Fighter) HurtProperties {
	_, def := f.ActionDef(p.Action)
	if p.Frame < 0 || p.Frame >= len(def.Frames) {
		return HurtProperties{DamageMult: 1}
	}
	for _, cb := range def.Frames[p.Frame].Colboxes {
		if cb.Role == RoleHurt {
			return cb.Hurt
		}
	}
	return HurtProperties{DamageMult: 1}
}

// evaluateEndOfGame checks time-limit and last-player-standing conditions
// (spec.md §4.5 step 6), deciding kills from the Open Question resolution
// recorded in DESIGN.md.
func (fl *FrameLoop) evaluateEndOfGame() *GameResult {
	if fl.Rules.Goal == GoalTime && fl.CurrentFrame >= fl.Rules.TimeLimit {
		return fl.buildResult(fl.leaderByDamage())
	}

	alive := -1
	aliveCount := 0
	for i, p := range fl.Players {
		if p.Action != Eliminated {
			aliveCount++
			alive = i
		}
	}
	if aliveCount <= 1 && len(fl.Players) > 1 {
		return fl.buildResult(alive)
	}
	return nil
}

func (fl *FrameLoop) leaderByDamage() int {
	best, bestDamage := -1, -1.0
	for i, p := range fl.Players {
		if best == -1 || p.Damage < bestDamage {
			best, bestDamage = i, p.Damage
		}
	}
	return best
}

func (fl *FrameLoop) buildResult(winner int) *GameResult {
	kills := map[int]int{}
	for _, p := range fl.Players {
		for _, d := range p.Result.Deaths {
			if d.HitBy != nil {
				kills[*d.HitBy]++
			}
		}
	}
	return &GameResult{Frame: fl.CurrentFrame, Winner: winner, Kills: kills}
}

// RollbackTo restores players/stage from history[frame] and decrements
// current_frame to frame, mirroring spec.md §4.5's replay-backward.
func (fl *FrameLoop) RollbackTo(frame int) error {
	if frame < 0 || frame >= len(fl.history) {
		return errors.Errorf("frameloop: rollback target %d out of history range [0,%d)", frame, len(fl.history))
	}
	snap := fl.history[frame]
	*fl.Stage = snap.stage
	for i := range fl.Players {
		*fl.Players[i] = snap.players[i].Clone()
	}
	fl.CurrentFrame = frame
	fl.ended = false
	fl.result = nil
	fl.trigger(EventRolledBack, nil)
	return nil
}

// ReplayForward re-steps from the current frame using recorded inputs up
// to targetFrame (spec.md §4.5's replay-forward / §8 property 3: replay
// equivalence).
func (fl *FrameLoop) ReplayForward(targetFrame int) error {
	for fl.CurrentFrame < targetFrame && fl.CurrentFrame < len(fl.history)-1 {
		next := fl.history[fl.CurrentFrame+1]
		if _, err := fl.Step(next.inputs); err != nil {
			return err
		}
	}
	return nil
}

// netplayRollback tracks, per player index, how long and how often a
// netplay peer's confirmed inputs have diverged from local prediction --
// the same bookkeeping shape as parser.go's Rollbacks/
// checkIfRollbackFrame, repurposed here to decide how far StepMultiple
// must re-simulate instead of detecting rollback frames inside a replay
// stream.
type netplayRollback struct {
	length map[int]int
	count  map[int]int
}

func newNetplayRollback() *netplayRollback {
	return &netplayRollback{length: map[int]int{}, count: map[int]int{}}
}

func (nr *netplayRollback) observe(playerIndex int, framesBehind int) {
	if framesBehind <= 0 {
		return
	}
	if framesBehind > nr.length[playerIndex] {
		nr.length[playerIndex] = framesBehind
	}
	nr.count[playerIndex]++
}

// SkipFrame reports whether the netplay layer should skip stepping this
// tick because local simulation is ahead of the confirmed input boundary
// (spec.md §4.5 netplay adaptation).
func (fl *FrameLoop) SkipFrame(confirmedFrame int) bool {
	return fl.CurrentFrame > confirmedFrame
}

// StepMultiple steps n times with the supplied confirmed inputs, first
// truncating history to the confirmed-input boundary and re-stepping from
// there (spec.md §4.5 netplay adaptation), bounded by MaxRollbackFrames.
func (fl *FrameLoop) StepMultiple(confirmedFrame int, inputsByFrame map[int][]Control, nr *netplayRollback) error {
	behind := fl.CurrentFrame - confirmedFrame
	if behind > 0 {
		if behind > MaxRollbackFrames {
			return errors.Errorf("frameloop: netplay correction of %d frames exceeds MaxRollbackFrames", behind)
		}
		for i := range fl.Players {
			nr.observe(i, behind)
		}
		if err := fl.RollbackTo(confirmedFrame); err != nil {
			return err
		}
	}
	for frame := fl.CurrentFrame + 1; frame <= confirmedFrame+1; frame++ {
		inputs, ok := inputsByFrame[frame]
		if !ok {
			break
		}
		if _, err := fl.Step(inputs); err != nil {
			return err
		}
	}
	return nil
}

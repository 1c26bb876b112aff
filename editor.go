package simcore

// EditorOverlay mutates Package/Stage data while the simulation is paused,
// grounded on original_source/src/package.rs's editor mutation methods
// (add_fighter_frame, delete_fighter_frame, append/delete/move colboxes)
// and re-expressed with the teacher's drain-queue delivery idiom (spec.md
// §4.6).
type EditorOverlay struct {
	pkg   *Package
	stage *Stage
}

// NewEditorOverlay binds an overlay to the package/stage a paused match is
// currently editing.
func NewEditorOverlay(pkg *Package, stage *Stage) *EditorOverlay {
	return &EditorOverlay{pkg: pkg, stage: stage}
}

// InsertFighterFrame inserts frame at index within fighter's action list
// for action, pushing an InsertFighterFrame PackageUpdate (package.rs's
// add_fighter_frame).
func (e *EditorOverlay) InsertFighterFrame(fighterKey string, action Action, index int, frame ActionFrame) error {
	f, ok := e.pkg.Fighters[fighterKey]
	if !ok {
		return wrapf(ErrUnknownFighterKey, "editor: insert frame: fighter %q", fighterKey)
	}
	def := f.Actions[action]
	if index < 0 || index > len(def.Frames) {
		index = len(def.Frames)
	}
	def.Frames = append(def.Frames[:index], append([]ActionFrame{frame}, def.Frames[index:]...)...)
	f.Actions[action] = def

	e.pkg.pushUpdate(PackageUpdate{
		Kind: UpdateInsertFighterFrame, Fighter: fighterKey, Action: action,
		FrameIndex: index, Frame: frame,
	})
	return nil
}

// DeleteFighterFrame removes the frame at index, clamping any player
// currently sitting on or past the removed index (spec.md §9: "clamp the
// player's frame index before the next tick"), and pushes a
// DeleteFighterFrame PackageUpdate (package.rs's delete_fighter_frame).
func (e *EditorOverlay) DeleteFighterFrame(fighterKey string, action Action, index int, affected []*Player) error {
	f, ok := e.pkg.Fighters[fighterKey]
	if !ok {
		return wrapf(ErrUnknownFighterKey, "editor: delete frame: fighter %q", fighterKey)
	}
	def := f.Actions[action]
	if index < 0 || index >= len(def.Frames) {
		return wrapf(ErrFrameOutOfRange, "editor: delete frame: index %d", index)
	}
	def.Frames = append(def.Frames[:index], def.Frames[index+1:]...)
	f.Actions[action] = def

	for _, p := range affected {
		if p.FighterKey != fighterKey || p.Action != action {
			continue
		}
		p.clampToFighter(f)
	}

	e.pkg.pushUpdate(PackageUpdate{Kind: UpdateDeleteFighterFrame, Fighter: fighterKey, Action: action, FrameIndex: index})
	return nil
}

// AppendColbox appends a colbox to the given fighter/action/frame.
func (e *EditorOverlay) AppendColbox(fighterKey string, action Action, frameIndex int, cb CollisionBox) error {
	f, ok := e.pkg.Fighters[fighterKey]
	if !ok {
		return wrapf(ErrUnknownFighterKey, "editor: append colbox: fighter %q", fighterKey)
	}
	def := f.Actions[action]
	if frameIndex < 0 || frameIndex >= len(def.Frames) {
		return wrapf(ErrFrameOutOfRange, "editor: append colbox: frame %d", frameIndex)
	}
	frame := def.Frames[frameIndex]
	frame.Colboxes = append(frame.Colboxes, cb)
	def.Frames[frameIndex] = frame
	f.Actions[action] = def

	e.pkg.pushUpdate(PackageUpdate{Kind: UpdateInsertFighterFrame, Fighter: fighterKey, Action: action, FrameIndex: frameIndex, Frame: frame})
	return nil
}

// DeleteColboxes removes the colboxes at the given indices (highest index
// first, so earlier removals don't shift later ones) from one frame.
func (e *EditorOverlay) DeleteColboxes(fighterKey string, action Action, frameIndex int, colboxIndices []int) error {
	f, ok := e.pkg.Fighters[fighterKey]
	if !ok {
		return wrapf(ErrUnknownFighterKey, "editor: delete colboxes: fighter %q", fighterKey)
	}
	def := f.Actions[action]
	if frameIndex < 0 || frameIndex >= len(def.Frames) {
		return wrapf(ErrFrameOutOfRange, "editor: delete colboxes: frame %d", frameIndex)
	}
	frame := def.Frames[frameIndex]

	sorted := append([]int(nil), colboxIndices...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for _, idx := range sorted {
		if idx < 0 || idx >= len(frame.Colboxes) {
			continue
		}
		frame.Colboxes = append(frame.Colboxes[:idx], frame.Colboxes[idx+1:]...)
	}
	def.Frames[frameIndex] = frame
	f.Actions[action] = def

	e.pkg.pushUpdate(PackageUpdate{Kind: UpdateInsertFighterFrame, Fighter: fighterKey, Action: action, FrameIndex: frameIndex, Frame: frame})
	return nil
}

// MoveColboxes translates the colboxes at the given indices by delta.
func (e *EditorOverlay) MoveColboxes(fighterKey string, action Action, frameIndex int, colboxIndices []int, delta Vector2) error {
	f, ok := e.pkg.Fighters[fighterKey]
	if !ok {
		return wrapf(ErrUnknownFighterKey, "editor: move colboxes: fighter %q", fighterKey)
	}
	def := f.Actions[action]
	if frameIndex < 0 || frameIndex >= len(def.Frames) {
		return wrapf(ErrFrameOutOfRange, "editor: move colboxes: frame %d", frameIndex)
	}
	frame := def.Frames[frameIndex]
	for _, idx := range colboxIndices {
		if idx < 0 || idx >= len(frame.Colboxes) {
			continue
		}
		frame.Colboxes[idx].Point = frame.Colboxes[idx].Point.Add(delta)
	}
	def.Frames[frameIndex] = frame
	f.Actions[action] = def

	e.pkg.pushUpdate(PackageUpdate{Kind: UpdateInsertFighterFrame, Fighter: fighterKey, Action: action, FrameIndex: frameIndex, Frame: frame})
	return nil
}

// InsertSurface adds a surface to the bound stage and pushes an
// InsertStage PackageUpdate (package.rs's stage-edit analogue).
func (e *EditorOverlay) InsertSurface(key string, s Surface) {
	e.stage.Surfaces = append(e.stage.Surfaces, s)
	e.pkg.pushUpdate(PackageUpdate{Kind: UpdateInsertStage, StageIndex: len(e.stage.Surfaces) - 1, StageKey: key, Stage: e.stage})
}

// DeleteSurface removes a surface, resolving any player location that
// referenced it (Stage.PlatformDeleted, spec.md §3 Lifecycles), and pushes
// a DeleteStage PackageUpdate.
func (e *EditorOverlay) DeleteSurface(key string, index int, affected []*Player) error {
	if index < 0 || index >= len(e.stage.Surfaces) {
		return wrapf(ErrFrameOutOfRange, "editor: delete surface: index %d", index)
	}
	e.stage.PlatformDeleted(index, affected)
	e.pkg.pushUpdate(PackageUpdate{Kind: UpdateDeleteStage, StageIndex: index, StageKey: key})
	return nil
}

// JoinSurfaceEndpoints merges the endpoints of two selected surfaces to
// their shared centroid (spec.md §4.6: "split or join selected surface
// endpoints at their centroid"). Splitting is the inverse operation,
// performed by the caller moving one endpoint away and calling
// MoveColboxes-equivalent stage-point edits; join is the one the core
// needs to keep the connected-floor graph consistent after a drag.
func (e *EditorOverlay) JoinSurfaceEndpoints(indexA, indexB int, aEndIsP2, bEndIsP1 bool) {
	a := &e.stage.Surfaces[indexA]
	b := &e.stage.Surfaces[indexB]

	var pa, pb *Vector2
	if aEndIsP2 {
		pa = &a.Line.P2
	} else {
		pa = &a.Line.P1
	}
	if bEndIsP1 {
		pb = &b.Line.P1
	} else {
		pb = &b.Line.P2
	}

	centroid := pa.Add(*pb).Scale(0.5)
	*pa = centroid
	*pb = centroid
}

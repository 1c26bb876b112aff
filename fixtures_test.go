package simcore

// testFighter returns a base fighter with every action populated with at
// least one frame, so the action machine and physics step never run off
// the end of an empty frame list during tests.
func testFighter() *Fighter {
	f := NewBaseFighter("test")
	for a := Action(0); a < actionCount; a++ {
		n := 1
		switch a {
		case JumpSquat:
			n = 3
		case Jab, Fsmash, Nair, Fair, Bair, Uair, Dair:
			n = 4
		case Dash:
			n = 10
		}
		f.Actions[a] = ActionDef{Frames: make([]ActionFrame, n)}
	}
	return f
}

// testStage returns the spec's canonical single-floor fixture stage.
func testStage() *Stage {
	return NewBaseStage()
}

// neutralControl returns an all-neutral, plugged-in controller sample.
func neutralControl() Control {
	return Control{PluggedIn: true}
}

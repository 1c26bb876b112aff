package simcore

// CollisionResultKind tags a CollisionResult variant (spec.md §4.3).
type CollisionResultKind int

const (
	ResultHitAtk CollisionResultKind = iota
	ResultHitDef
	ResultHitShieldAtk
	ResultHitShieldDef
)

// CollisionResult is one outcome of the collision resolver, keyed by
// player index by the caller (spec.md §4.3).
type CollisionResult struct {
	Kind CollisionResultKind

	OtherPlayer int // defender (from attacker's result) or attacker (from defender's result)
	Hitbox      Hitbox
	WorldPoint  Vector2

	Powershield bool
}

// powershieldWindow is the number of frames after a Shield/ShieldOn entry
// during which a connection counts as a powershield (spec.md §4.3 /
// glossary).
const powershieldWindow = 2

// ResolveCollisions runs once globally after every player has been
// advanced by the action+physics passes (spec.md §4.3). It returns, for
// each player index, the ordered list of CollisionResults that player is
// party to. Pairing order is (attacker ascending, defender ascending),
// matching spec.md §5's fixed ordering.
func ResolveCollisions(players []*Player, fighters map[string]*Fighter) map[int][]CollisionResult {
	out := make(map[int][]CollisionResult)

	for a := range players {
		attacker := players[a]
		af := fighters[attacker.FighterKey]
		if af == nil {
			continue
		}
		attHitboxes := currentFrameColboxes(attacker, af, RoleHit)
		if len(attHitboxes) == 0 {
			continue
		}

		for d := range players {
			if a == d {
				continue
			}
			defender := players[d]
			if onHitlist(attacker.Hitlist, d) || onHitlist(defender.Hitlist, a) {
				continue
			}
			df := fighters[defender.FighterKey]
			if df == nil {
				continue
			}
			defHurtboxes := currentFrameColboxes(defender, df, RoleHurt)

			for _, hb := range attHitboxes {
				hbWorld := transformColbox(hb, attacker)
				connected := false
				for _, hurt := range defHurtboxes {
					hurtWorld := transformColbox(hurt, defender)
					if !circleOverlap(hbWorld.Point, hbWorld.Radius, hurtWorld.Point, hurtWorld.Radius) {
						continue
					}
					connected = true

					if defenderShielding(defender) && withinShield(defender, hbWorld.Point) {
						ps := withinPowershieldWindow(defender)
						out[a] = append(out[a], CollisionResult{Kind: ResultHitShieldAtk, OtherPlayer: d, Hitbox: hb.Hit, WorldPoint: hbWorld.Point, Powershield: ps})
						out[d] = append(out[d], CollisionResult{Kind: ResultHitShieldDef, OtherPlayer: a, Hitbox: hb.Hit, WorldPoint: hbWorld.Point, Powershield: ps})
					} else {
						out[a] = append(out[a], CollisionResult{Kind: ResultHitAtk, OtherPlayer: d, Hitbox: hb.Hit, WorldPoint: hbWorld.Point})
						out[d] = append(out[d], CollisionResult{Kind: ResultHitDef, OtherPlayer: a, Hitbox: hb.Hit, WorldPoint: hurtWorld.Point})
					}
					break
				}
				if connected {
					attacker.Hitlist = append(attacker.Hitlist, d)
				}
			}
		}
	}
	return out
}

// currentFrameColboxes returns p's current-frame colboxes matching role.
func currentFrameColboxes(p *Player, f *Fighter, role CollisionBoxRole) []CollisionBox {
	_, def := f.ActionDef(p.Action)
	if p.Frame < 0 || p.Frame >= len(def.Frames) {
		return nil
	}
	frame := def.Frames[p.Frame]
	var out []CollisionBox
	for _, cb := range frame.Colboxes {
		if cb.Role == role {
			out = append(out, cb)
		}
	}
	return out
}

// transformColbox transforms a colbox by the player's facing and bps
// offset, per spec.md §4.3's pairing rule.
func transformColbox(cb CollisionBox, p *Player) CollisionBox {
	pt := Vector2{X: relativeF(cb.Point.X, p.FaceRight), Y: cb.Point.Y}
	cb.Point = p.BPS.Add(pt)
	return cb
}

func onHitlist(list []int, idx int) bool {
	for _, v := range list {
		if v == idx {
			return true
		}
	}
	return false
}

func defenderShielding(p *Player) bool {
	return p.Action == Shield || p.Action == ShieldOn || p.Action == PowerShield
}

func withinShield(p *Player, worldPoint Vector2) bool {
	shieldPos := p.BPS.Add(p.ShieldOffset)
	return circleOverlap(worldPoint, 0, shieldPos, p.ShieldAnalog)
}

func withinPowershieldWindow(p *Player) bool {
	return p.Action == PowerShield || p.FrameNoRestart <= powershieldWindow
}

// resetHitlistIfForced clears a.Hitlist at the start of a frame when the
// current ActionFrame's force_hitlist_reset flag is set (spec.md §4.3).
func resetHitlistIfForced(p *Player, f *Fighter) {
	_, def := f.ActionDef(p.Action)
	if p.Frame < 0 || p.Frame >= len(def.Frames) {
		return
	}
	if def.Frames[p.Frame].ForceHitlistReset {
		p.Hitlist = nil
	}
}

package simcore

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/blang/semver/v4"
)

// Goal selects the match win condition (original_source/src/rules.rs).
type Goal int

const (
	GoalTraining Goal = iota
	GoalTime
	GoalStock
)

// Rules is the match-configuration model (original_source/src/rules.rs),
// a SPEC_FULL.md supplement feeding the frame loop's win-condition check.
type Rules struct {
	Title        string
	Goal         Goal
	StockCount   int
	TimeLimit    int // frames
	BestOf       int
	Teams        bool
	Pause        bool
	FriendlyFire bool
}

// DefaultRules mirrors rules.rs's Default impl.
func DefaultRules() Rules {
	return Rules{
		Title:      "Default Rules",
		Goal:       GoalStock,
		StockCount: 4,
		TimeLimit:  480,
		BestOf:     3,
		Teams:      false,
		Pause:      true,
	}
}

// PackageMeta is package_meta.json's content (spec.md §6).
type PackageMeta struct {
	EngineVersion semver.Version `json:"engine_version"`
	SaveVersion   uint64         `json:"save_version"`
	Title         string         `json:"title"`
	Source        string         `json:"source"`
	Hash          string         `json:"hash"`
	FighterKeys   []string       `json:"fighter_keys"`
	StageKeys     []string       `json:"stage_keys"`
	ReadOnly      bool           `json:"read_only"`
}

// PackageUpdateKind tags a PackageUpdate variant (spec.md §3/§6).
type PackageUpdateKind int

const (
	UpdateFullPackage PackageUpdateKind = iota
	UpdateInsertFighterFrame
	UpdateDeleteFighterFrame
	UpdateInsertStage
	UpdateDeleteStage
)

// PackageUpdate is one incremental change a downstream render cache must
// apply (spec.md §6). Only the fields relevant to Kind are populated.
type PackageUpdate struct {
	Kind PackageUpdateKind

	Fighter    string
	Action     Action
	FrameIndex int
	Frame      ActionFrame

	StageIndex int
	StageKey   string
	Stage      *Stage
}

// Package is the catalog of Fighters/Stages/Rules (spec.md §3), owned by
// the game object during a match; only the paused editor writes to it
// (spec.md §5).
type Package struct {
	Path string
	Meta PackageMeta
	Rules Rules

	Fighters map[string]*Fighter
	Stages   map[string]*Stage

	pendingUpdates []PackageUpdate
}

// GenerateBase returns a new Package with one base fighter and stage,
// mirroring package.rs::generate_base.
func GenerateBase() *Package {
	p := &Package{
		Meta: PackageMeta{
			EngineVersion: semver.MustParse("0.1.0"),
			SaveVersion:   0,
			Title:         "Untitled Package",
			FighterKeys:   []string{"base"},
			StageKeys:     []string{"base"},
		},
		Rules:    DefaultRules(),
		Fighters: map[string]*Fighter{"base": NewBaseFighter("base")},
		Stages:   map[string]*Stage{"base": NewBaseStage()},
	}
	p.Meta.Hash = p.computeHash()
	return p
}

// Open loads a package from disk at path (package.rs::open/load): reads
// package_meta.json, rules.json, and every Fighters/<key>.json and
// Stages/<key>.json named by the meta's key lists. A missing referenced
// key at load time is a hard failure (spec.md §7).
func Open(path string) (*Package, error) {
	p := &Package{Path: path, Fighters: map[string]*Fighter{}, Stages: map[string]*Stage{}}

	if err := loadJSON(filepath.Join(path, "package_meta.json"), &p.Meta); err != nil {
		return nil, wrapf(err, "package: load meta at %s", path)
	}
	if err := loadJSON(filepath.Join(path, "rules.json"), &p.Rules); err != nil {
		return nil, wrapf(err, "package: load rules at %s", path)
	}

	for _, key := range p.Meta.FighterKeys {
		var f Fighter
		fp := filepath.Join(path, "Fighters", key+".json")
		if err := loadJSON(fp, &f); err != nil {
			return nil, wrapf(ErrUnknownFighterKey, "package: fighter %q: %v", key, err)
		}
		p.Fighters[key] = &f
	}
	for _, key := range p.Meta.StageKeys {
		var s Stage
		sp := filepath.Join(path, "Stages", key+".json")
		if err := loadJSON(sp, &s); err != nil {
			return nil, wrapf(ErrUnknownStageKey, "package: stage %q: %v", key, err)
		}
		p.Stages[key] = &s
	}
	return p, nil
}

// Save persists the package to disk, incrementing SaveVersion and
// recomputing the hash (spec.md §6), mirroring package.rs::save.
func (p *Package) Save() error {
	if err := os.MkdirAll(filepath.Join(p.Path, "Fighters"), 0o755); err != nil {
		return wrapf(err, "package: mkdir Fighters")
	}
	if err := os.MkdirAll(filepath.Join(p.Path, "Stages"), 0o755); err != nil {
		return wrapf(err, "package: mkdir Stages")
	}

	p.Meta.SaveVersion++
	p.Meta.Hash = p.computeHash()

	if err := saveJSON(filepath.Join(p.Path, "package_meta.json"), p.Meta); err != nil {
		return wrapf(err, "package: save meta")
	}
	if err := saveJSON(filepath.Join(p.Path, "rules.json"), p.Rules); err != nil {
		return wrapf(err, "package: save rules")
	}
	for _, key := range p.Meta.FighterKeys {
		f, ok := p.Fighters[key]
		if !ok {
			return wrapf(ErrUnknownFighterKey, "package: save: missing fighter %q", key)
		}
		if err := saveJSON(filepath.Join(p.Path, "Fighters", key+".json"), f); err != nil {
			return wrapf(err, "package: save fighter %q", key)
		}
	}
	for _, key := range p.Meta.StageKeys {
		s, ok := p.Stages[key]
		if !ok {
			return wrapf(ErrUnknownStageKey, "package: save: missing stage %q", key)
		}
		if err := saveJSON(filepath.Join(p.Path, "Stages", key+".json"), s); err != nil {
			return wrapf(err, "package: save stage %q", key)
		}
	}
	return nil
}

// computeHash is SHA-256 over the canonical serialization of rules +
// stages (stage_keys order) + fighters (fighter_keys order), per spec.md
// §6. Using keys already ordered on PackageMeta gives a stable,
// round-trip-invariant hash (testable property 10).
func (p *Package) computeHash() string {
	h := sha256.New()

	rulesJSON, _ := json.Marshal(p.Rules)
	h.Write(rulesJSON)

	keys := append([]string(nil), p.Meta.StageKeys...)
	sort.Strings(keys)
	for _, key := range p.Meta.StageKeys {
		if s, ok := p.Stages[key]; ok {
			b, _ := json.Marshal(s)
			h.Write(b)
		}
	}
	for _, key := range p.Meta.FighterKeys {
		if f, ok := p.Fighters[key]; ok {
			b, _ := json.Marshal(f)
			h.Write(b)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Updates drains and returns the pending PackageUpdate queue (spec.md §3:
// "emits a lazy queue of update events"), mirroring package.rs::updates.
func (p *Package) Updates() []PackageUpdate {
	u := p.pendingUpdates
	p.pendingUpdates = nil
	return u
}

func (p *Package) pushUpdate(u PackageUpdate) {
	p.pendingUpdates = append(p.pendingUpdates, u)
}

func loadJSON(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func saveJSON(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

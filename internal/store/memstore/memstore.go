// Package memstore is an in-memory store.Repository implementation. It
// backs the test suite; cmd/server and cmd/fretloopctl always use the
// Postgres store.
package memstore

import (
	"sort"
	"sync"
	"time"

	"fretloop-scheduler/internal/compoundid"
	"fretloop-scheduler/internal/models"
	"fretloop-scheduler/internal/store"
)

// tierGateDimension maps a dimension tier to the name of the dimension
// whose unlock timestamp gates entry into it, mirroring the fixed ladder
// in config.DimensionTierConfig (note-pattern tier 1, articulation tier 2).
var tierGateDimension = map[int]string{
	1: "note-pattern",
	2: "articulation",
}

// Store is a mutex-guarded, single-user in-memory Repository.
type Store struct {
	mu sync.Mutex

	practice []models.PracticeEntry
	nextID   int64

	sigStats map[string]*models.SignatureStats

	session int

	compoundStats map[string]*models.CompoundStats

	unlocks map[string]models.DimensionUnlock

	proficient map[string]map[string]bool

	streak models.StreakInfo

	achievements map[string]time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		sigStats:      map[string]*models.SignatureStats{},
		compoundStats: map[string]*models.CompoundStats{},
		unlocks:       map[string]models.DimensionUnlock{},
		proficient:    map[string]map[string]bool{},
		achievements:  map[string]time.Time{},
	}
}

var _ store.Repository = (*Store)(nil)

// -- Practice log -----------------------------------------------------

func (s *Store) LogPractice(in store.PracticeLogInput) (models.PracticeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry := models.PracticeEntry{
		ID:            s.nextID,
		LoggedAt:      time.Now(),
		Scale:         in.Compound.Scale,
		Position:      in.Compound.Position,
		Rhythm:        in.Compound.Rhythm,
		RhythmPattern: in.Compound.RhythmPattern,
		Key:           in.Key,
		BPM:           in.BPM,
		NPM:           in.NPM,
		Reasoning:     in.Reasoning,
	}
	if in.Compound.HasNotePattern {
		entry.NotePattern = in.Compound.NotePattern
	}
	if in.Compound.HasArticulation {
		entry.Articulation = in.Compound.Articulation
	}
	s.practice = append(s.practice, entry)
	return entry, nil
}

func (s *Store) GetLastPractice() (*models.PracticeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.practice) == 0 {
		return nil, nil
	}
	last := s.practice[len(s.practice)-1]
	return &last, nil
}

func (s *Store) GetRecentPractice(limit int) ([]models.PracticeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.practice)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.PracticeEntry, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.practice[n-1-i]
	}
	return out, nil
}

func (s *Store) GetAllPractice() ([]models.PracticeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PracticeEntry, len(s.practice))
	copy(out, s.practice)
	return out, nil
}

func (s *Store) GetPracticeByID(id int64) (*models.PracticeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.practice {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdatePractice(id int64, in store.PracticeLogInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.practice {
		if e.ID == id {
			e.Scale = in.Compound.Scale
			e.Position = in.Compound.Position
			e.Rhythm = in.Compound.Rhythm
			e.RhythmPattern = in.Compound.RhythmPattern
			if in.Compound.HasNotePattern {
				e.NotePattern = in.Compound.NotePattern
			}
			if in.Compound.HasArticulation {
				e.Articulation = in.Compound.Articulation
			}
			e.Key = in.Key
			e.BPM = in.BPM
			e.NPM = in.NPM
			e.Reasoning = in.Reasoning
			s.practice[i] = e
			return nil
		}
	}
	return store.MissingPrereq("practice entry not found")
}

func (s *Store) DeletePractice(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.practice {
		if e.ID == id {
			s.practice = append(s.practice[:i], s.practice[i+1:]...)
			return nil
		}
	}
	return store.MissingPrereq("practice entry not found")
}

func (s *Store) HasAnyPractice() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.practice) > 0, nil
}

func (s *Store) GetTotalPracticeCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.practice), nil
}

// -- Legacy signature stats --------------------------------------------

func (s *Store) GetStats(sigID string) (*models.SignatureStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sigStats[sigID]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) GetAllStats() ([]models.SignatureStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SignatureStats, 0, len(s.sigStats))
	for _, st := range s.sigStats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SigID < out[j].SigID })
	return out, nil
}

func (s *Store) UpdateStats(sigID string, npm int, alpha float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sigStats[sigID]
	if !ok {
		st = &models.SignatureStats{SigID: sigID}
		s.sigStats[sigID] = st
	}
	st.Attempts++
	if npm > st.BestNPM {
		st.BestNPM = npm
	}
	if st.Attempts == 1 {
		st.EMANPM = float64(npm)
	} else {
		st.EMANPM = alpha*float64(npm) + (1-alpha)*st.EMANPM
	}
	st.LastNPM = npm
	st.LastSeen = time.Now()
	return nil
}

func (s *Store) UpdateProgression(sigID string, npm, expansionNPM, masteryNPM, masteryStreak int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sigStats[sigID]
	if !ok {
		st = &models.SignatureStats{SigID: sigID}
		s.sigStats[sigID] = st
	}
	if npm >= expansionNPM {
		st.HasExpanded = true
	}
	if npm >= masteryNPM {
		st.MasteryStreak++
	} else {
		st.MasteryStreak = 0
	}
	if st.MasteryStreak >= masteryStreak {
		st.IsMastered = true
	}
	return nil
}

// -- Session ------------------------------------------------------------

func (s *Store) GetCurrentSession() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

func (s *Store) IncrementSession() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session++
	return s.session, nil
}

// -- Compound stats -------------------------------------------------------

func (s *Store) GetCompoundStats(compoundID string) (*models.CompoundStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.compoundStats[compoundID]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) GetOrCreateCompoundStats(compoundID string) (models.CompoundStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.compoundStats[compoundID]
	if !ok {
		st = &models.CompoundStats{CompoundID: compoundID}
		s.compoundStats[compoundID] = st
	}
	return *st, nil
}

func (s *Store) UpdateCompoundStats(compoundID string, npm, bpm, session int, alpha float64, expansionNPM, masteryNPM, masteryStreak, strugglingNPM int) (models.CompoundStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.compoundStats[compoundID]
	if !ok {
		st = &models.CompoundStats{CompoundID: compoundID}
		s.compoundStats[compoundID] = st
	}

	st.Attempts++
	if npm > st.BestNPM {
		st.BestNPM = npm
	}
	if st.Attempts == 1 {
		st.EMANPM = float64(npm)
		first := session
		st.FirstPracticedSession = &first
	} else {
		st.EMANPM = alpha*float64(npm) + (1-alpha)*st.EMANPM
	}
	st.LastNPM = npm
	st.LastBPM = bpm
	sessionCopy := session
	st.LastPracticedSession = &sessionCopy

	if npm >= expansionNPM {
		st.HasExpanded = true
	}
	if npm >= masteryNPM {
		st.MasteryStreak++
	} else {
		st.MasteryStreak = 0
	}
	if st.MasteryStreak >= masteryStreak {
		st.IsMastered = true
	}
	if npm < strugglingNPM {
		st.StrugglingStreak++
	} else {
		st.StrugglingStreak = 0
	}

	return *st, nil
}

func (s *Store) GetAllCompoundStats() ([]models.CompoundStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CompoundStats, 0, len(s.compoundStats))
	for _, st := range s.compoundStats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompoundID < out[j].CompoundID })
	return out, nil
}

func (s *Store) GetRelatedCompounds(c models.Compound) ([]models.CompoundStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CompoundStats
	for id, st := range s.compoundStats {
		other, err := compoundid.Parse(id)
		if err != nil {
			continue
		}
		if compoundid.CountDimensionChanges(c, other) == 1 {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompoundID < out[j].CompoundID })
	return out, nil
}

func (s *Store) SetCompoundExpanded(compoundID string, expanded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.compoundStats[compoundID]
	if !ok {
		st = &models.CompoundStats{CompoundID: compoundID}
		s.compoundStats[compoundID] = st
	}
	st.HasExpanded = expanded
	return nil
}

// -- Dimension unlocks ----------------------------------------------------

func (s *Store) IsDimensionUnlocked(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.unlocks[name]
	return ok, nil
}

func (s *Store) UnlockDimension(name string, session int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.unlocks[name]; ok {
		return nil
	}
	s.unlocks[name] = models.DimensionUnlock{Dimension: name, UnlockedSession: session}
	return nil
}

func (s *Store) GetUnlockedDimensions() ([]models.DimensionUnlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DimensionUnlock, 0, len(s.unlocks))
	for _, u := range s.unlocks {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnlockedSession < out[j].UnlockedSession })
	return out, nil
}

func (s *Store) CountExpandedCompoundsInTier(tier int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lower := 0
	if tier > 0 {
		gate, ok := tierGateDimension[tier]
		if !ok {
			return 0, nil
		}
		u, ok := s.unlocks[gate]
		if !ok {
			// This tier has not been entered yet: nothing can belong to it.
			return 0, nil
		}
		lower = u.UnlockedSession
	}

	upper := -1
	if gate, ok := tierGateDimension[tier+1]; ok {
		if u, ok := s.unlocks[gate]; ok {
			upper = u.UnlockedSession
		}
	}

	count := 0
	for _, st := range s.compoundStats {
		if !st.HasExpanded || st.FirstPracticedSession == nil {
			continue
		}
		fp := *st.FirstPracticedSession
		if fp < lower {
			continue
		}
		if upper != -1 && fp >= upper {
			continue
		}
		count++
	}
	return count, nil
}

// -- Recalculation ---------------------------------------------------------

func (s *Store) RecalculateAllStats(alpha float64, expansionNPM, masteryNPM, masteryStreak, strugglingNPM int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byCompound := map[string][]models.PracticeEntry{}
	for _, e := range s.practice {
		id := compoundid.ID(e.Compound())
		byCompound[id] = append(byCompound[id], e)
	}

	s.compoundStats = map[string]*models.CompoundStats{}
	for id, entries := range byCompound {
		st := &models.CompoundStats{CompoundID: id}
		for i, e := range entries {
			st.Attempts++
			if e.NPM > st.BestNPM {
				st.BestNPM = e.NPM
			}
			if i == 0 {
				st.EMANPM = float64(e.NPM)
			} else {
				st.EMANPM = alpha*float64(e.NPM) + (1-alpha)*st.EMANPM
			}
			st.LastNPM = e.NPM
			st.LastBPM = e.BPM
			if e.NPM >= expansionNPM {
				st.HasExpanded = true
			}
			if e.NPM >= masteryNPM {
				st.MasteryStreak++
			} else {
				st.MasteryStreak = 0
			}
			if st.MasteryStreak >= masteryStreak {
				st.IsMastered = true
			}
			if e.NPM < strugglingNPM {
				st.StrugglingStreak++
			} else {
				st.StrugglingStreak = 0
			}
		}
		s.compoundStats[id] = st
	}
	return nil
}

// -- Proficiencies ----------------------------------------------------------

func (s *Store) SetProficient(dimension, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.proficient[dimension]
	if !ok {
		m = map[string]bool{}
		s.proficient[dimension] = m
	}
	m[value] = true
	return nil
}

func (s *Store) RemoveProficient(dimension, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.proficient[dimension]; ok {
		delete(m, value)
	}
	return nil
}

func (s *Store) IsProficient(dimension, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proficient[dimension][value], nil
}

func (s *Store) GetProficiencies(dimension string) ([]models.Proficiency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Proficiency
	for v := range s.proficient[dimension] {
		out = append(out, models.Proficiency{Dimension: dimension, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

func (s *Store) GetAllProficiencies() ([]models.Proficiency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Proficiency
	for dim, values := range s.proficient {
		for v := range values {
			out = append(out, models.Proficiency{Dimension: dim, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dimension != out[j].Dimension {
			return out[i].Dimension < out[j].Dimension
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

// -- Struggling ------------------------------------------------------------

func (s *Store) GetStrugglingCompounds(threshold int) ([]models.CompoundStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CompoundStats
	for _, st := range s.compoundStats {
		if st.StrugglingStreak >= threshold {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompoundID < out[j].CompoundID })
	return out, nil
}

func (s *Store) GetStrugglingProficiencies(threshold int) ([]models.Proficiency, error) {
	// Struggling is a compound-level signal; proficiencies carry no
	// independent struggling state, so this always reports empty.
	return nil, nil
}

// -- Streak -----------------------------------------------------------------

func (s *Store) GetStreakInfo() (models.StreakInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak, nil
}

func (s *Store) UpdateStreakData(current, longest int, lastDate string, freezes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streak.CurrentStreak = current
	s.streak.LongestStreak = longest
	s.streak.LastPracticeDate = lastDate
	s.streak.StreakFreezes = freezes
	return nil
}

func (s *Store) AddStreakFreezes(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streak.StreakFreezes += n
	return nil
}

// -- Achievements -------------------------------------------------------

func (s *Store) EarnAchievement(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.achievements[id]; ok {
		return false, nil
	}
	s.achievements[id] = time.Now()
	return true, nil
}

func (s *Store) HasAchievement(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.achievements[id]
	return ok, nil
}

func (s *Store) GetEarnedAchievementIDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.achievements))
	for id := range s.achievements {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// -- Aggregate helpers ----------------------------------------------------

func (s *Store) GetMaxNPMAcrossCompounds() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, st := range s.compoundStats {
		if st.BestNPM > max {
			max = st.BestNPM
		}
	}
	return max, nil
}

func (s *Store) CountMasteredCompounds() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, st := range s.compoundStats {
		if st.IsMastered {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountExpandedCompounds() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, st := range s.compoundStats {
		if st.HasExpanded {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetMasteredPositions() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	for id, st := range s.compoundStats {
		if !st.IsMastered {
			continue
		}
		c, err := compoundid.Parse(id)
		if err != nil {
			continue
		}
		seen[c.Position] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) GetDistinctPracticedValues(dimension string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	for _, e := range s.practice {
		c := e.Compound()
		if v, ok := c.Value(dimension); ok {
			seen[v.Name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

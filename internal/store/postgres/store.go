package postgres

import (
	"database/sql"
	"fmt"

	"fretloop-scheduler/internal/compoundid"
	"fretloop-scheduler/internal/models"
	"fretloop-scheduler/internal/store"
)

var _ store.Repository = (*Store)(nil)

func nullStr(s string, has bool) sql.NullString {
	if !has || s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// -- Practice log -----------------------------------------------------

func (s *Store) LogPractice(in store.PracticeLogInput) (models.PracticeEntry, error) {
	var e models.PracticeEntry
	err := s.db.QueryRow(`
		INSERT INTO practice_entries
			(scale, position, rhythm, rhythm_pattern, note_pattern, articulation, key, bpm, npm, reasoning)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, logged_at, scale, position, rhythm, rhythm_pattern,
			COALESCE(note_pattern, ''), COALESCE(articulation, ''), key, bpm, npm, COALESCE(reasoning, '')
	`,
		in.Compound.Scale, in.Compound.Position, in.Compound.Rhythm, in.Compound.RhythmPattern,
		nullStr(in.Compound.NotePattern, in.Compound.HasNotePattern),
		nullStr(in.Compound.Articulation, in.Compound.HasArticulation),
		in.Key, in.BPM, in.NPM, in.Reasoning,
	).Scan(&e.ID, &e.LoggedAt, &e.Scale, &e.Position, &e.Rhythm, &e.RhythmPattern,
		&e.NotePattern, &e.Articulation, &e.Key, &e.BPM, &e.NPM, &e.Reasoning)
	if err != nil {
		return models.PracticeEntry{}, store.Fault("log practice", err)
	}
	return e, nil
}

const practiceSelectCols = `id, logged_at, scale, position, rhythm, rhythm_pattern,
	COALESCE(note_pattern, ''), COALESCE(articulation, ''), key, bpm, npm, COALESCE(reasoning, '')`

func scanPractice(row interface {
	Scan(dest ...interface{}) error
}) (*models.PracticeEntry, error) {
	var e models.PracticeEntry
	err := row.Scan(&e.ID, &e.LoggedAt, &e.Scale, &e.Position, &e.Rhythm, &e.RhythmPattern,
		&e.NotePattern, &e.Articulation, &e.Key, &e.BPM, &e.NPM, &e.Reasoning)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) GetLastPractice() (*models.PracticeEntry, error) {
	row := s.db.QueryRow(`SELECT ` + practiceSelectCols + ` FROM practice_entries ORDER BY id DESC LIMIT 1`)
	e, err := scanPractice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, store.Fault("get last practice", err)
	}
	return e, nil
}

func (s *Store) GetRecentPractice(limit int) ([]models.PracticeEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT `+practiceSelectCols+` FROM practice_entries ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, store.Fault("get recent practice", err)
	}
	defer rows.Close()

	var out []models.PracticeEntry
	for rows.Next() {
		e, err := scanPractice(rows)
		if err != nil {
			return nil, store.Fault("scan practice row", err)
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *Store) GetAllPractice() ([]models.PracticeEntry, error) {
	rows, err := s.db.Query(`SELECT ` + practiceSelectCols + ` FROM practice_entries ORDER BY id ASC`)
	if err != nil {
		return nil, store.Fault("get all practice", err)
	}
	defer rows.Close()

	var out []models.PracticeEntry
	for rows.Next() {
		e, err := scanPractice(rows)
		if err != nil {
			return nil, store.Fault("scan practice row", err)
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *Store) GetPracticeByID(id int64) (*models.PracticeEntry, error) {
	row := s.db.QueryRow(`SELECT `+practiceSelectCols+` FROM practice_entries WHERE id = $1`, id)
	e, err := scanPractice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, store.Fault("get practice by id", err)
	}
	return e, nil
}

func (s *Store) UpdatePractice(id int64, in store.PracticeLogInput) error {
	res, err := s.db.Exec(`
		UPDATE practice_entries
		SET scale = $1, position = $2, rhythm = $3, rhythm_pattern = $4,
			note_pattern = $5, articulation = $6, key = $7, bpm = $8, npm = $9, reasoning = $10
		WHERE id = $11
	`,
		in.Compound.Scale, in.Compound.Position, in.Compound.Rhythm, in.Compound.RhythmPattern,
		nullStr(in.Compound.NotePattern, in.Compound.HasNotePattern),
		nullStr(in.Compound.Articulation, in.Compound.HasArticulation),
		in.Key, in.BPM, in.NPM, in.Reasoning, id,
	)
	if err != nil {
		return store.Fault("update practice", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.MissingPrereq("practice entry not found")
	}
	return nil
}

func (s *Store) DeletePractice(id int64) error {
	res, err := s.db.Exec(`DELETE FROM practice_entries WHERE id = $1`, id)
	if err != nil {
		return store.Fault("delete practice", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.MissingPrereq("practice entry not found")
	}
	return nil
}

func (s *Store) HasAnyPractice() (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM practice_entries)`).Scan(&exists)
	if err != nil {
		return false, store.Fault("has any practice", err)
	}
	return exists, nil
}

func (s *Store) GetTotalPracticeCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM practice_entries`).Scan(&n)
	if err != nil {
		return 0, store.Fault("count practice", err)
	}
	return n, nil
}

// -- Legacy signature stats --------------------------------------------

func (s *Store) GetStats(sigID string) (*models.SignatureStats, error) {
	var st models.SignatureStats
	err := s.db.QueryRow(`
		SELECT sig_id, attempts, best_npm, ema_npm, last_npm, has_expanded, mastery_streak, is_mastered, struggling_streak, last_seen
		FROM signature_stats WHERE sig_id = $1
	`, sigID).Scan(&st.SigID, &st.Attempts, &st.BestNPM, &st.EMANPM, &st.LastNPM,
		&st.HasExpanded, &st.MasteryStreak, &st.IsMastered, &st.StrugglingStreak, &st.LastSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, store.Fault("get signature stats", err)
	}
	return &st, nil
}

func (s *Store) GetAllStats() ([]models.SignatureStats, error) {
	rows, err := s.db.Query(`
		SELECT sig_id, attempts, best_npm, ema_npm, last_npm, has_expanded, mastery_streak, is_mastered, struggling_streak, last_seen
		FROM signature_stats ORDER BY sig_id
	`)
	if err != nil {
		return nil, store.Fault("get all signature stats", err)
	}
	defer rows.Close()

	var out []models.SignatureStats
	for rows.Next() {
		var st models.SignatureStats
		if err := rows.Scan(&st.SigID, &st.Attempts, &st.BestNPM, &st.EMANPM, &st.LastNPM,
			&st.HasExpanded, &st.MasteryStreak, &st.IsMastered, &st.StrugglingStreak, &st.LastSeen); err != nil {
			return nil, store.Fault("scan signature stats", err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *Store) UpdateStats(sigID string, npm int, alpha float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return store.Fault("begin update stats tx", err)
	}
	defer tx.Rollback()

	var attempts int
	var ema float64
	err = tx.QueryRow(`SELECT attempts, ema_npm FROM signature_stats WHERE sig_id = $1 FOR UPDATE`, sigID).Scan(&attempts, &ema)
	if err == sql.ErrNoRows {
		_, err = tx.Exec(`
			INSERT INTO signature_stats (sig_id, attempts, best_npm, ema_npm, last_npm, last_seen)
			VALUES ($1, 1, $2, $2, $2, NOW())
		`, sigID, npm)
		if err != nil {
			return store.Fault("insert signature stats", err)
		}
		return tx.Commit()
	}
	if err != nil {
		return store.Fault("lock signature stats", err)
	}

	newEMA := alpha*float64(npm) + (1-alpha)*ema
	_, err = tx.Exec(`
		UPDATE signature_stats
		SET attempts = attempts + 1,
			best_npm = GREATEST(best_npm, $1),
			ema_npm = $2,
			last_npm = $1,
			last_seen = NOW()
		WHERE sig_id = $3
	`, npm, newEMA, sigID)
	if err != nil {
		return store.Fault("update signature stats", err)
	}
	return tx.Commit()
}

func (s *Store) UpdateProgression(sigID string, npm, expansionNPM, masteryNPM, masteryStreak int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return store.Fault("begin update progression tx", err)
	}
	defer tx.Rollback()

	var streak int
	err = tx.QueryRow(`SELECT mastery_streak FROM signature_stats WHERE sig_id = $1 FOR UPDATE`, sigID).Scan(&streak)
	if err != nil && err != sql.ErrNoRows {
		return store.Fault("lock signature stats for progression", err)
	}

	if npm >= masteryNPM {
		streak++
	} else {
		streak = 0
	}

	_, err = tx.Exec(`
		UPDATE signature_stats
		SET has_expanded = has_expanded OR $1,
			mastery_streak = $2,
			is_mastered = is_mastered OR $2 >= $3
		WHERE sig_id = $4
	`, npm >= expansionNPM, streak, masteryStreak, sigID)
	if err != nil {
		return store.Fault("update signature progression", err)
	}
	return tx.Commit()
}

// -- Session ------------------------------------------------------------

func (s *Store) GetCurrentSession() (int, error) {
	var session int
	err := s.db.QueryRow(`SELECT session FROM session_counters WHERE id = 1`).Scan(&session)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, store.Fault("get current session", err)
	}
	return session, nil
}

func (s *Store) IncrementSession() (int, error) {
	var session int
	err := s.db.QueryRow(`
		INSERT INTO session_counters (id, session) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET session = session_counters.session + 1
		RETURNING session
	`).Scan(&session)
	if err != nil {
		return 0, store.Fault("increment session", err)
	}
	return session, nil
}

// -- Compound stats -------------------------------------------------------

func scanCompoundStats(row interface {
	Scan(dest ...interface{}) error
}) (*models.CompoundStats, error) {
	var st models.CompoundStats
	var lastSession, firstSession sql.NullInt64
	err := row.Scan(&st.CompoundID, &st.Attempts, &st.BestNPM, &st.EMANPM, &st.LastNPM, &st.LastBPM,
		&st.HasExpanded, &st.MasteryStreak, &st.IsMastered, &st.StrugglingStreak, &lastSession, &firstSession)
	if err != nil {
		return nil, err
	}
	if lastSession.Valid {
		v := int(lastSession.Int64)
		st.LastPracticedSession = &v
	}
	if firstSession.Valid {
		v := int(firstSession.Int64)
		st.FirstPracticedSession = &v
	}
	return &st, nil
}

const compoundStatsCols = `compound_id, attempts, best_npm, ema_npm, last_npm, last_bpm,
	has_expanded, mastery_streak, is_mastered, struggling_streak, last_practiced_session, first_practiced_session`

func (s *Store) GetCompoundStats(compoundID string) (*models.CompoundStats, error) {
	row := s.db.QueryRow(`SELECT `+compoundStatsCols+` FROM compound_stats WHERE compound_id = $1`, compoundID)
	st, err := scanCompoundStats(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, store.Fault("get compound stats", err)
	}
	return st, nil
}

func (s *Store) GetOrCreateCompoundStats(compoundID string) (models.CompoundStats, error) {
	existing, err := s.GetCompoundStats(compoundID)
	if err != nil {
		return models.CompoundStats{}, err
	}
	if existing != nil {
		return *existing, nil
	}
	_, err = s.db.Exec(`INSERT INTO compound_stats (compound_id) VALUES ($1) ON CONFLICT (compound_id) DO NOTHING`, compoundID)
	if err != nil {
		return models.CompoundStats{}, store.Fault("create compound stats", err)
	}
	return models.CompoundStats{CompoundID: compoundID}, nil
}

func (s *Store) UpdateCompoundStats(compoundID string, npm, bpm, session int, alpha float64, expansionNPM, masteryNPM, masteryStreak, strugglingNPM int) (models.CompoundStats, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.CompoundStats{}, store.Fault("begin update compound stats tx", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+compoundStatsCols+` FROM compound_stats WHERE compound_id = $1 FOR UPDATE`, compoundID)
	existing, err := scanCompoundStats(row)
	isFirst := false
	if err == sql.ErrNoRows {
		isFirst = true
		existing = &models.CompoundStats{CompoundID: compoundID}
	} else if err != nil {
		return models.CompoundStats{}, store.Fault("lock compound stats", err)
	}

	existing.Attempts++
	if npm > existing.BestNPM {
		existing.BestNPM = npm
	}
	if isFirst {
		existing.EMANPM = float64(npm)
		first := session
		existing.FirstPracticedSession = &first
	} else {
		existing.EMANPM = alpha*float64(npm) + (1-alpha)*existing.EMANPM
	}
	existing.LastNPM = npm
	existing.LastBPM = bpm
	lastSession := session
	existing.LastPracticedSession = &lastSession

	if npm >= expansionNPM {
		existing.HasExpanded = true
	}
	if npm >= masteryNPM {
		existing.MasteryStreak++
	} else {
		existing.MasteryStreak = 0
	}
	if existing.MasteryStreak >= masteryStreak {
		existing.IsMastered = true
	}
	if npm < strugglingNPM {
		existing.StrugglingStreak++
	} else {
		existing.StrugglingStreak = 0
	}

	_, err = tx.Exec(`
		INSERT INTO compound_stats
			(compound_id, attempts, best_npm, ema_npm, last_npm, last_bpm, has_expanded, mastery_streak, is_mastered, struggling_streak, last_practiced_session, first_practiced_session)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (compound_id) DO UPDATE SET
			attempts = EXCLUDED.attempts, best_npm = EXCLUDED.best_npm, ema_npm = EXCLUDED.ema_npm,
			last_npm = EXCLUDED.last_npm, last_bpm = EXCLUDED.last_bpm, has_expanded = EXCLUDED.has_expanded,
			mastery_streak = EXCLUDED.mastery_streak, is_mastered = EXCLUDED.is_mastered,
			struggling_streak = EXCLUDED.struggling_streak, last_practiced_session = EXCLUDED.last_practiced_session,
			first_practiced_session = COALESCE(compound_stats.first_practiced_session, EXCLUDED.first_practiced_session)
	`, existing.CompoundID, existing.Attempts, existing.BestNPM, existing.EMANPM, existing.LastNPM, existing.LastBPM,
		existing.HasExpanded, existing.MasteryStreak, existing.IsMastered, existing.StrugglingStreak,
		existing.LastPracticedSession, existing.FirstPracticedSession)
	if err != nil {
		return models.CompoundStats{}, store.Fault("upsert compound stats", err)
	}

	if err := tx.Commit(); err != nil {
		return models.CompoundStats{}, store.Fault("commit compound stats", err)
	}
	return *existing, nil
}

func (s *Store) GetAllCompoundStats() ([]models.CompoundStats, error) {
	rows, err := s.db.Query(`SELECT ` + compoundStatsCols + ` FROM compound_stats ORDER BY compound_id`)
	if err != nil {
		return nil, store.Fault("get all compound stats", err)
	}
	defer rows.Close()

	var out []models.CompoundStats
	for rows.Next() {
		st, err := scanCompoundStats(rows)
		if err != nil {
			return nil, store.Fault("scan compound stats", err)
		}
		out = append(out, *st)
	}
	return out, nil
}

func (s *Store) GetRelatedCompounds(c models.Compound) ([]models.CompoundStats, error) {
	all, err := s.GetAllCompoundStats()
	if err != nil {
		return nil, err
	}
	var out []models.CompoundStats
	for _, st := range all {
		other, err := compoundid.Parse(st.CompoundID)
		if err != nil {
			continue
		}
		if compoundid.CountDimensionChanges(c, other) == 1 {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Store) SetCompoundExpanded(compoundID string, expanded bool) error {
	_, err := s.db.Exec(`
		INSERT INTO compound_stats (compound_id, has_expanded) VALUES ($1, $2)
		ON CONFLICT (compound_id) DO UPDATE SET has_expanded = $2
	`, compoundID, expanded)
	if err != nil {
		return store.Fault("set compound expanded", err)
	}
	return nil
}

// -- Dimension unlocks ----------------------------------------------------

func (s *Store) IsDimensionUnlocked(name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM dimension_unlocks WHERE dimension = $1)`, name).Scan(&exists)
	if err != nil {
		return false, store.Fault("check dimension unlock", err)
	}
	return exists, nil
}

func (s *Store) UnlockDimension(name string, session int) error {
	_, err := s.db.Exec(`
		INSERT INTO dimension_unlocks (dimension, unlocked_session) VALUES ($1, $2)
		ON CONFLICT (dimension) DO NOTHING
	`, name, session)
	if err != nil {
		return store.Fault("unlock dimension", err)
	}
	return nil
}

func (s *Store) GetUnlockedDimensions() ([]models.DimensionUnlock, error) {
	rows, err := s.db.Query(`SELECT dimension, unlocked_session FROM dimension_unlocks ORDER BY unlocked_session`)
	if err != nil {
		return nil, store.Fault("get unlocked dimensions", err)
	}
	defer rows.Close()

	var out []models.DimensionUnlock
	for rows.Next() {
		var u models.DimensionUnlock
		if err := rows.Scan(&u.Dimension, &u.UnlockedSession); err != nil {
			return nil, store.Fault("scan dimension unlock", err)
		}
		out = append(out, u)
	}
	return out, nil
}

var tierGateDimension = map[int]string{
	1: "note-pattern",
	2: "articulation",
}

func (s *Store) lookupUnlockSession(dim string) (int, bool, error) {
	var session int
	err := s.db.QueryRow(`SELECT unlocked_session FROM dimension_unlocks WHERE dimension = $1`, dim).Scan(&session)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, store.Fault("read dimension unlock", err)
	}
	return session, true, nil
}

func (s *Store) CountExpandedCompoundsInTier(tier int) (int, error) {
	lower := 0
	if tier > 0 {
		gate, ok := tierGateDimension[tier]
		if !ok {
			return 0, nil
		}
		session, unlocked, err := s.lookupUnlockSession(gate)
		if err != nil {
			return 0, err
		}
		if !unlocked {
			// This tier has not been entered yet: nothing can belong to it.
			return 0, nil
		}
		lower = session
	}

	upper := -1
	if gate, ok := tierGateDimension[tier+1]; ok {
		session, unlocked, err := s.lookupUnlockSession(gate)
		if err != nil {
			return 0, err
		}
		if unlocked {
			upper = session
		}
	}

	var n int
	var err error
	if upper == -1 {
		err = s.db.QueryRow(`
			SELECT COUNT(*) FROM compound_stats
			WHERE has_expanded AND first_practiced_session IS NOT NULL AND first_practiced_session >= $1
		`, lower).Scan(&n)
	} else {
		err = s.db.QueryRow(`
			SELECT COUNT(*) FROM compound_stats
			WHERE has_expanded AND first_practiced_session IS NOT NULL
				AND first_practiced_session >= $1 AND first_practiced_session < $2
		`, lower, upper).Scan(&n)
	}
	if err != nil {
		return 0, store.Fault("count expanded compounds in tier", err)
	}
	return n, nil
}

// -- Recalculation ---------------------------------------------------------

func (s *Store) RecalculateAllStats(alpha float64, expansionNPM, masteryNPM, masteryStreak, strugglingNPM int) error {
	entries, err := s.GetAllPractice()
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return store.Fault("begin recalculate tx", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM compound_stats`); err != nil {
		return store.Fault("clear compound stats", err)
	}

	acc := map[string]*models.CompoundStats{}
	for _, e := range entries {
		id := compoundid.ID(e.Compound())
		st, ok := acc[id]
		if !ok {
			st = &models.CompoundStats{CompoundID: id}
			acc[id] = st
		}
		st.Attempts++
		if e.NPM > st.BestNPM {
			st.BestNPM = e.NPM
		}
		if st.Attempts == 1 {
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

	for id, st := range acc {
		_, err := tx.Exec(`
			INSERT INTO compound_stats
				(compound_id, attempts, best_npm, ema_npm, last_npm, last_bpm, has_expanded, mastery_streak, is_mastered, struggling_streak)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, id, st.Attempts, st.BestNPM, st.EMANPM, st.LastNPM, st.LastBPM, st.HasExpanded, st.MasteryStreak, st.IsMastered, st.StrugglingStreak)
		if err != nil {
			return store.Fault(fmt.Sprintf("insert recalculated stats for %s", id), err)
		}
	}

	return tx.Commit()
}

// -- Proficiencies ----------------------------------------------------------

func (s *Store) SetProficient(dimension, value string) error {
	_, err := s.db.Exec(`INSERT INTO proficiencies (dimension, value) VALUES ($1, $2) ON CONFLICT DO NOTHING`, dimension, value)
	if err != nil {
		return store.Fault("set proficient", err)
	}
	return nil
}

func (s *Store) RemoveProficient(dimension, value string) error {
	_, err := s.db.Exec(`DELETE FROM proficiencies WHERE dimension = $1 AND value = $2`, dimension, value)
	if err != nil {
		return store.Fault("remove proficient", err)
	}
	return nil
}

func (s *Store) IsProficient(dimension, value string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM proficiencies WHERE dimension = $1 AND value = $2)`, dimension, value).Scan(&exists)
	if err != nil {
		return false, store.Fault("check proficient", err)
	}
	return exists, nil
}

func (s *Store) GetProficiencies(dimension string) ([]models.Proficiency, error) {
	rows, err := s.db.Query(`SELECT dimension, value FROM proficiencies WHERE dimension = $1 ORDER BY value`, dimension)
	if err != nil {
		return nil, store.Fault("get proficiencies", err)
	}
	defer rows.Close()
	var out []models.Proficiency
	for rows.Next() {
		var p models.Proficiency
		if err := rows.Scan(&p.Dimension, &p.Value); err != nil {
			return nil, store.Fault("scan proficiency", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetAllProficiencies() ([]models.Proficiency, error) {
	rows, err := s.db.Query(`SELECT dimension, value FROM proficiencies ORDER BY dimension, value`)
	if err != nil {
		return nil, store.Fault("get all proficiencies", err)
	}
	defer rows.Close()
	var out []models.Proficiency
	for rows.Next() {
		var p models.Proficiency
		if err := rows.Scan(&p.Dimension, &p.Value); err != nil {
			return nil, store.Fault("scan proficiency", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// -- Struggling ------------------------------------------------------------

func (s *Store) GetStrugglingCompounds(threshold int) ([]models.CompoundStats, error) {
	rows, err := s.db.Query(`SELECT `+compoundStatsCols+` FROM compound_stats WHERE struggling_streak >= $1 ORDER BY compound_id`, threshold)
	if err != nil {
		return nil, store.Fault("get struggling compounds", err)
	}
	defer rows.Close()
	var out []models.CompoundStats
	for rows.Next() {
		st, err := scanCompoundStats(rows)
		if err != nil {
			return nil, store.Fault("scan struggling compound", err)
		}
		out = append(out, *st)
	}
	return out, nil
}

func (s *Store) GetStrugglingProficiencies(threshold int) ([]models.Proficiency, error) {
	return nil, nil
}

// -- Streak -----------------------------------------------------------------

func (s *Store) GetStreakInfo() (models.StreakInfo, error) {
	var info models.StreakInfo
	var lastDate sql.NullString
	err := s.db.QueryRow(`SELECT current_streak, longest_streak, last_practice_date, streak_freezes FROM streak_info WHERE id = 1`).
		Scan(&info.CurrentStreak, &info.LongestStreak, &lastDate, &info.StreakFreezes)
	if err == sql.ErrNoRows {
		return models.StreakInfo{}, nil
	}
	if err != nil {
		return models.StreakInfo{}, store.Fault("get streak info", err)
	}
	info.LastPracticeDate = lastDate.String
	return info, nil
}

func (s *Store) UpdateStreakData(current, longest int, lastDate string, freezes int) error {
	_, err := s.db.Exec(`
		INSERT INTO streak_info (id, current_streak, longest_streak, last_practice_date, streak_freezes)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			current_streak = $1, longest_streak = $2, last_practice_date = $3, streak_freezes = $4
	`, current, longest, lastDate, freezes)
	if err != nil {
		return store.Fault("update streak data", err)
	}
	return nil
}

func (s *Store) AddStreakFreezes(n int) error {
	_, err := s.db.Exec(`
		INSERT INTO streak_info (id, streak_freezes) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET streak_freezes = streak_info.streak_freezes + $1
	`, n)
	if err != nil {
		return store.Fault("add streak freezes", err)
	}
	return nil
}

// -- Achievements -------------------------------------------------------

func (s *Store) EarnAchievement(id string) (bool, error) {
	res, err := s.db.Exec(`INSERT INTO achievements_earned (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id)
	if err != nil {
		return false, store.Fault("earn achievement", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) HasAchievement(id string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM achievements_earned WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, store.Fault("has achievement", err)
	}
	return exists, nil
}

func (s *Store) GetEarnedAchievementIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM achievements_earned ORDER BY earned_at`)
	if err != nil {
		return nil, store.Fault("get earned achievements", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, store.Fault("scan achievement id", err)
		}
		out = append(out, id)
	}
	return out, nil
}

// -- Aggregate helpers ----------------------------------------------------

func (s *Store) GetMaxNPMAcrossCompounds() (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(best_npm) FROM compound_stats`).Scan(&max)
	if err != nil {
		return 0, store.Fault("get max npm", err)
	}
	return int(max.Int64), nil
}

func (s *Store) CountMasteredCompounds() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM compound_stats WHERE is_mastered`).Scan(&n)
	if err != nil {
		return 0, store.Fault("count mastered compounds", err)
	}
	return n, nil
}

func (s *Store) CountExpandedCompounds() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM compound_stats WHERE has_expanded`).Scan(&n)
	if err != nil {
		return 0, store.Fault("count expanded compounds", err)
	}
	return n, nil
}

func (s *Store) GetMasteredPositions() ([]string, error) {
	rows, err := s.db.Query(`SELECT compound_id FROM compound_stats WHERE is_mastered`)
	if err != nil {
		return nil, store.Fault("get mastered positions", err)
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, store.Fault("scan mastered compound id", err)
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
	return out, nil
}

func (s *Store) GetDistinctPracticedValues(dimension string) ([]string, error) {
	entries, err := s.GetAllPractice()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, e := range entries {
		c := e.Compound()
		if v, ok := c.Value(dimension); ok {
			seen[v.Name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	return out, nil
}

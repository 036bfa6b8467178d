package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hoshinonyaruko/sky-node-escape/structs"
	_ "github.com/mattn/go-sqlite3"
)

const createStatsTableSQL = `
CREATE TABLE IF NOT EXISTS Stats (
    Key TEXT PRIMARY KEY,
    Value INTEGER NOT NULL DEFAULT 0
);
`

const (
	keyHighScore = "highscore"
	keyGames     = "games"
)

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("executing SQL statement %q: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	return executeSQL(db, createStatsTableSQL)
}

// InitDB opens the database file and makes sure the schema exists.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func readCounter(db *sql.DB, key string) (int, error) {
	var v int
	err := db.QueryRow("SELECT Value FROM Stats WHERE Key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

// LoadStats reads both counters. Missing rows read as zero.
func LoadStats(db *sql.DB) (structs.Stats, error) {
	var st structs.Stats
	var err error
	if st.HighScore, err = readCounter(db, keyHighScore); err != nil {
		return structs.Stats{}, err
	}
	if st.GamesPlayed, err = readCounter(db, keyGames); err != nil {
		return structs.Stats{}, err
	}
	return st, nil
}

// SaveStats writes both counters in one transaction.
func SaveStats(db *sql.DB, st structs.Stats) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	for key, value := range map[string]int{keyHighScore: st.HighScore, keyGames: st.GamesPlayed} {
		_, err = tx.Exec("INSERT OR REPLACE INTO Stats (Key, Value) VALUES (?, ?)", key, value)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("write %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// Store adapts a database handle to the game's stats store.
type Store struct {
	DB *sql.DB
}

func (s *Store) Load() (structs.Stats, error) {
	return LoadStats(s.DB)
}

func (s *Store) Save(st structs.Stats) error {
	return SaveStats(s.DB, st)
}

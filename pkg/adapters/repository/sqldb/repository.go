package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"                                // PostgreSQL driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLRepository struct {
	db *sqlx.DB
}

// DriverFor picks the database/sql driver from the connection URL
func DriverFor(dbURL string) string {
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return "postgres"
	case strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://"):
		return "libsql"
	}
	return "sqlite"
}

func NewSQLRepository(ctx context.Context, dbURL string) (*SQLRepository, error) {
	driver := DriverFor(dbURL)
	db, err := sqlx.Open(driver, dbURL)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one writer at a time, concurrent writers would fail with SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLRepository{db: db}, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS influencers (
		id TEXT PRIMARY KEY,
		sort_order BIGINT NOT NULL,
		name TEXT NOT NULL,
		nickname TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		socials TEXT NOT NULL DEFAULT '{}',
		followers BIGINT NOT NULL DEFAULT 0,
		likes BIGINT NOT NULL DEFAULT 0,
		posts BIGINT NOT NULL DEFAULT 0,
		reach DOUBLE PRECISION NOT NULL DEFAULT 0,
		instagram_cost DOUBLE PRECISION,
		tiktok_cost DOUBLE PRECISION,
		facebook_cost DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS influencer_clicks (
		influencer_id TEXT NOT NULL,
		network TEXT NOT NULL,
		count BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (influencer_id, network)
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		sort_order BIGINT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		socials TEXT NOT NULL DEFAULT '[]',
		influencer_ids TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS publications (
		id TEXT PRIMARY KEY,
		sort_order BIGINT NOT NULL,
		url TEXT NOT NULL,
		likes BIGINT NOT NULL DEFAULT 0,
		comments BIGINT NOT NULL DEFAULT 0,
		shares BIGINT NOT NULL DEFAULT 0,
		influencer_id TEXT NOT NULL DEFAULT '',
		campaign_id TEXT NOT NULL DEFAULT '',
		refreshed_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_publications_campaign_influencer ON publications(campaign_id, influencer_id)`,
}

func migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStore, op, err)
}

// nextPosition returns a position that sorts before every existing row.
// New records are listed first.
func nextPosition(ctx context.Context, tx *sqlx.Tx, table string) (int64, error) {
	var pos int64
	err := tx.GetContext(ctx, &pos, `SELECT COALESCE(MIN(sort_order), 0) - 1 FROM `+table)
	return pos, err
}

// --- Influencers ---

const influencerColumns = `id, sort_order, name, nickname, email, phone, category, image_url, socials,
	followers, likes, posts, reach, instagram_cost, tiktok_cost, facebook_cost`

func (r *SQLRepository) ListInfluencers(ctx context.Context) ([]domain.Influencer, error) {
	var rows []influencerRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+influencerColumns+` FROM influencers ORDER BY sort_order ASC`); err != nil {
		return nil, storeErr("list influencers", err)
	}

	var clicks []clickRow
	if err := r.db.SelectContext(ctx, &clicks, `SELECT influencer_id, network, count FROM influencer_clicks`); err != nil {
		return nil, storeErr("list clicks", err)
	}
	byInfluencer := make(map[string]map[string]int64)
	for _, c := range clicks {
		if byInfluencer[c.InfluencerID] == nil {
			byInfluencer[c.InfluencerID] = map[string]int64{}
		}
		byInfluencer[c.InfluencerID][c.Network] = c.Count
	}

	influencers := make([]domain.Influencer, 0, len(rows))
	for _, row := range rows {
		inf, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		if m, ok := byInfluencer[inf.ID]; ok {
			inf.Clicks = m
		}
		influencers = append(influencers, inf)
	}
	return influencers, nil
}

func (r *SQLRepository) GetInfluencer(ctx context.Context, id string) (*domain.Influencer, error) {
	return r.getInfluencer(ctx, r.db, id)
}

func (r *SQLRepository) getInfluencer(ctx context.Context, q sqlx.QueryerContext, id string) (*domain.Influencer, error) {
	var row influencerRow
	err := sqlx.GetContext(ctx, q, &row, r.db.Rebind(`SELECT `+influencerColumns+` FROM influencers WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get influencer", err)
	}

	var clicks []clickRow
	if err := sqlx.SelectContext(ctx, q, &clicks, r.db.Rebind(`SELECT influencer_id, network, count FROM influencer_clicks WHERE influencer_id = ?`), id); err != nil {
		return nil, storeErr("get clicks", err)
	}

	inf, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	for _, c := range clicks {
		inf.Clicks[c.Network] = c.Count
	}
	return &inf, nil
}

func (r *SQLRepository) CreateInfluencer(ctx context.Context, influencer *domain.Influencer) error {
	row, err := toInfluencerRow(influencer)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("begin", err)
	}
	defer tx.Rollback()

	if row.Position, err = nextPosition(ctx, tx, "influencers"); err != nil {
		return storeErr("position", err)
	}
	if err := insertInfluencer(ctx, tx, row); err != nil {
		return err
	}
	if err := replaceClicks(ctx, tx, influencer.ID, influencer.Clicks); err != nil {
		return err
	}
	return tx.Commit()
}

func insertInfluencer(ctx context.Context, tx *sqlx.Tx, row influencerRow) error {
	query := tx.Rebind(`INSERT INTO influencers (` + influencerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := tx.ExecContext(ctx, query,
		row.ID, row.Position, row.Name, row.Nickname, row.Email, row.Phone, row.Category, row.ImageURL, row.Socials,
		row.Followers, row.Likes, row.Posts, row.Reach, row.InstagramCost, row.TikTokCost, row.FacebookCost,
	)
	if err != nil {
		return storeErr("insert influencer", err)
	}
	return nil
}

func replaceClicks(ctx context.Context, tx *sqlx.Tx, id string, clicks map[string]int64) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM influencer_clicks WHERE influencer_id = ?`), id); err != nil {
		return storeErr("reset clicks", err)
	}
	for network, count := range clicks {
		_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO influencer_clicks (influencer_id, network, count) VALUES (?, ?, ?)`),
			id, network, count)
		if err != nil {
			return storeErr("insert clicks", err)
		}
	}
	return nil
}

func (r *SQLRepository) UpdateInfluencer(ctx context.Context, influencer *domain.Influencer, clicks map[string]int64) error {
	row, err := toInfluencerRow(influencer)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("begin", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`UPDATE influencers SET name = ?, nickname = ?, email = ?, phone = ?, category = ?,
		image_url = ?, socials = ?, followers = ?, likes = ?, posts = ?, reach = ?,
		instagram_cost = ?, tiktok_cost = ?, facebook_cost = ? WHERE id = ?`)
	res, err := tx.ExecContext(ctx, query,
		row.Name, row.Nickname, row.Email, row.Phone, row.Category,
		row.ImageURL, row.Socials, row.Followers, row.Likes, row.Posts, row.Reach,
		row.InstagramCost, row.TikTokCost, row.FacebookCost, row.ID,
	)
	if err != nil {
		return storeErr("update influencer", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	upsert := tx.Rebind(`INSERT INTO influencer_clicks (influencer_id, network, count) VALUES (?, ?, ?)
		ON CONFLICT (influencer_id, network) DO UPDATE SET count = excluded.count`)
	for network, count := range clicks {
		if _, err := tx.ExecContext(ctx, upsert, influencer.ID, network, count); err != nil {
			return storeErr("set clicks", err)
		}
	}

	stored, err := r.getInfluencer(ctx, tx, influencer.ID)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr("commit", err)
	}
	influencer.Clicks = stored.Clicks
	return nil
}

func (r *SQLRepository) IncrementClick(ctx context.Context, id, network string) (*domain.Influencer, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM influencers WHERE id = ?`), id)
	if err != nil {
		return nil, storeErr("lookup influencer", err)
	}
	if exists == 0 {
		return nil, nil
	}

	// Atomic upsert, works on SQLite and PostgreSQL
	query := tx.Rebind(`INSERT INTO influencer_clicks (influencer_id, network, count) VALUES (?, ?, 1)
		ON CONFLICT (influencer_id, network) DO UPDATE SET count = influencer_clicks.count + 1`)
	if _, err := tx.ExecContext(ctx, query, id, network); err != nil {
		return nil, storeErr("increment click", err)
	}

	inf, err := r.getInfluencer(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit", err)
	}
	return inf, nil
}

// --- Campaigns ---

const campaignColumns = `id, sort_order, name, description, start_date, end_date, socials, influencer_ids`

func (r *SQLRepository) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	var rows []campaignRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+campaignColumns+` FROM campaigns ORDER BY sort_order ASC`); err != nil {
		return nil, storeErr("list campaigns", err)
	}
	campaigns := make([]domain.Campaign, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

func (r *SQLRepository) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	var row campaignRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get campaign", err)
	}
	c, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepository) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	campaign.Normalize()
	row, err := toCampaignRow(campaign)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("begin", err)
	}
	defer tx.Rollback()

	if row.Position, err = nextPosition(ctx, tx, "campaigns"); err != nil {
		return storeErr("position", err)
	}
	if err := insertCampaign(ctx, tx, row); err != nil {
		return err
	}
	return tx.Commit()
}

func insertCampaign(ctx context.Context, tx *sqlx.Tx, row campaignRow) error {
	query := tx.Rebind(`INSERT INTO campaigns (` + campaignColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := tx.ExecContext(ctx, query,
		row.ID, row.Position, row.Name, row.Description, row.StartDate, row.EndDate, row.Socials, row.InfluencerIDs)
	if err != nil {
		return storeErr("insert campaign", err)
	}
	return nil
}

func (r *SQLRepository) UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	campaign.Normalize()
	row, err := toCampaignRow(campaign)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`UPDATE campaigns SET name = ?, description = ?, start_date = ?, end_date = ?,
		socials = ?, influencer_ids = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		row.Name, row.Description, row.StartDate, row.EndDate, row.Socials, row.InfluencerIDs, row.ID)
	if err != nil {
		return storeErr("update campaign", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --- Publications ---

const publicationColumns = `id, sort_order, url, likes, comments, shares, influencer_id, campaign_id, refreshed_at`

func (r *SQLRepository) ListPublications(ctx context.Context) ([]domain.Publication, error) {
	var rows []publicationRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+publicationColumns+` FROM publications ORDER BY sort_order ASC`); err != nil {
		return nil, storeErr("list publications", err)
	}
	pubs := make([]domain.Publication, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}
	return pubs, nil
}

func (r *SQLRepository) GetPublication(ctx context.Context, id string) (*domain.Publication, error) {
	var row publicationRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+publicationColumns+` FROM publications WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get publication", err)
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) CreatePublication(ctx context.Context, publication *domain.Publication) error {
	row := toPublicationRow(publication)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("begin", err)
	}
	defer tx.Rollback()

	if row.Position, err = nextPosition(ctx, tx, "publications"); err != nil {
		return storeErr("position", err)
	}
	if err := insertPublication(ctx, tx, row); err != nil {
		return err
	}
	return tx.Commit()
}

func insertPublication(ctx context.Context, tx *sqlx.Tx, row publicationRow) error {
	query := tx.Rebind(`INSERT INTO publications (` + publicationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := tx.ExecContext(ctx, query,
		row.ID, row.Position, row.URL, row.Likes, row.Comments, row.Shares, row.InfluencerID, row.CampaignID, row.RefreshedAt)
	if err != nil {
		return storeErr("insert publication", err)
	}
	return nil
}

func (r *SQLRepository) UpdatePublication(ctx context.Context, publication *domain.Publication) error {
	row := toPublicationRow(publication)
	query := r.db.Rebind(`UPDATE publications SET url = ?, likes = ?, comments = ?, shares = ?,
		influencer_id = ?, campaign_id = ?, refreshed_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		row.URL, row.Likes, row.Comments, row.Shares, row.InfluencerID, row.CampaignID, row.RefreshedAt, row.ID)
	if err != nil {
		return storeErr("update publication", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --- Migration ---

// Restore replaces every table with the snapshot, keeping snapshot order
func (r *SQLRepository) Restore(ctx context.Context, snap domain.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("begin", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"influencer_clicks", "influencers", "campaigns", "publications"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return storeErr("truncate "+table, err)
		}
	}

	for i := range snap.Influencers {
		row, err := toInfluencerRow(&snap.Influencers[i])
		if err != nil {
			return err
		}
		row.Position = int64(i)
		if err := insertInfluencer(ctx, tx, row); err != nil {
			return err
		}
		if err := replaceClicks(ctx, tx, row.ID, snap.Influencers[i].Clicks); err != nil {
			return err
		}
	}
	for i := range snap.Campaigns {
		snap.Campaigns[i].Normalize()
		row, err := toCampaignRow(&snap.Campaigns[i])
		if err != nil {
			return err
		}
		row.Position = int64(i)
		if err := insertCampaign(ctx, tx, row); err != nil {
			return err
		}
	}
	for i := range snap.Publications {
		row := toPublicationRow(&snap.Publications[i])
		row.Position = int64(i)
		if err := insertPublication(ctx, tx, row); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Ensure interface compliance
var _ ports.Store = (*SQLRepository)(nil)

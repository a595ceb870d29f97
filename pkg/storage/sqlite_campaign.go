package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lanyardapp/lanyard/pkg/campaign"
	"github.com/lanyardapp/lanyard/pkg/domain/types"
)

// CampaignRepository persists campaigns and their recipient tracking records
// in SQLite.
type CampaignRepository struct {
	db *sql.DB
}

// SaveCampaign persists a campaign, updating it if the ID already exists.
func (r *CampaignRepository) SaveCampaign(c *campaign.Campaign) error {
	if c == nil {
		return fmt.Errorf("cannot save nil campaign")
	}

	var filter sql.NullString
	if c.Filter != "" {
		filter.Valid = true
		filter.String = c.Filter
	}

	query := `
		INSERT INTO campaigns (id, event_id, name, subject, filter, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			subject = excluded.subject,
			filter = excluded.filter,
			status = excluded.status
	`

	_, err := r.db.Exec(query,
		c.ID.String(),
		c.EventID.String(),
		c.Name,
		c.Subject,
		filter,
		string(c.Status),
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}

	return nil
}

// LoadCampaign retrieves a campaign by ID, recompiling its audience filter.
func (r *CampaignRepository) LoadCampaign(id types.CampaignID) (*campaign.Campaign, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("campaign ID cannot be empty")
	}

	var c campaign.Campaign
	var filter sql.NullString

	err := r.db.QueryRow(
		"SELECT id, event_id, name, subject, filter, status, created_at FROM campaigns WHERE id = ?",
		id.String(),
	).Scan(&c.ID, &c.EventID, &c.Name, &c.Subject, &filter, &c.Status, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("campaign not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}

	c.Filter = filter.String
	if err := c.CompileFilter(); err != nil {
		return nil, err
	}

	return &c, nil
}

// ListByEvent returns all campaigns of an event, newest first.
func (r *CampaignRepository) ListByEvent(eventID types.EventID) ([]*campaign.Campaign, error) {
	rows, err := r.db.Query(
		"SELECT id, event_id, name, subject, filter, status, created_at FROM campaigns WHERE event_id = ? ORDER BY created_at DESC",
		eventID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	campaigns := make([]*campaign.Campaign, 0)
	for rows.Next() {
		var c campaign.Campaign
		var filter sql.NullString
		if err := rows.Scan(&c.ID, &c.EventID, &c.Name, &c.Subject, &filter, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		c.Filter = filter.String
		if err := c.CompileFilter(); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaigns: %w", err)
	}

	return campaigns, nil
}

// SaveRecipients persists recipient records, updating existing ones.
func (r *CampaignRepository) SaveRecipients(recipients []*campaign.Recipient) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO campaign_recipients (
			campaign_id, participant_id, email, status, sent_at, opened_at, clicked_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(campaign_id, participant_id) DO UPDATE SET
			status = excluded.status,
			sent_at = excluded.sent_at,
			opened_at = excluded.opened_at,
			clicked_at = excluded.clicked_at
	`

	for _, rec := range recipients {
		if rec == nil {
			continue
		}
		_, err := tx.Exec(query,
			rec.CampaignID.String(),
			rec.ParticipantID.String(),
			rec.Email,
			string(rec.Status),
			nullTime(rec.SentAt),
			nullTime(rec.OpenedAt),
			nullTime(rec.ClickedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to save recipient %s: %w", rec.ParticipantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListRecipients returns a campaign's recipient records.
func (r *CampaignRepository) ListRecipients(campaignID types.CampaignID) ([]*campaign.Recipient, error) {
	rows, err := r.db.Query(
		"SELECT campaign_id, participant_id, email, status, sent_at, opened_at, clicked_at FROM campaign_recipients WHERE campaign_id = ?",
		campaignID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	recipients := make([]*campaign.Recipient, 0)
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipients: %w", err)
	}

	return recipients, nil
}

// FindRecipient returns one recipient record, or campaign.ErrRecipientNotFound.
func (r *CampaignRepository) FindRecipient(campaignID types.CampaignID, participantID types.ParticipantID) (*campaign.Recipient, error) {
	rec, err := scanRecipient(r.db.QueryRow(
		"SELECT campaign_id, participant_id, email, status, sent_at, opened_at, clicked_at FROM campaign_recipients WHERE campaign_id = ? AND participant_id = ?",
		campaignID.String(), participantID.String(),
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s in campaign %s", campaign.ErrRecipientNotFound, participantID, campaignID)
	}
	return rec, err
}

func scanRecipient(row rowScanner) (*campaign.Recipient, error) {
	var rec campaign.Recipient
	var sentAt, openedAt, clickedAt sql.NullTime

	err := row.Scan(
		&rec.CampaignID,
		&rec.ParticipantID,
		&rec.Email,
		&rec.Status,
		&sentAt,
		&openedAt,
		&clickedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipient: %w", err)
	}

	if sentAt.Valid {
		rec.SentAt = sentAt.Time
	}
	if openedAt.Valid {
		rec.OpenedAt = openedAt.Time
	}
	if clickedAt.Valid {
		rec.ClickedAt = clickedAt.Time
	}

	return &rec, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Valid: true, Time: t}
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"venturebridge/internal/domain"
)

type meetingRepository struct {
	DB *sql.DB
}

func NewMeetingRepository(db *sql.DB) domain.MeetingRepository {
	return &meetingRepository{DB: db}
}

func (r *meetingRepository) Create(ctx context.Context, m *domain.Meeting) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO meetings (organizer_id, title, description, start_time, end_time, status, room_id, room_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		m.OrganizerID, m.Title, m.Description, m.StartTime, m.EndTime, m.Status,
		m.RoomID, m.RoomURL, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return err
	}

	participantQuery := `
		INSERT INTO meeting_participants (meeting_id, user_id, status)
		VALUES ($1, $2, $3)
	`
	for _, p := range m.Participants {
		if _, err := tx.ExecContext(ctx, participantQuery, m.ID, p.UserID, p.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *meetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	query := `
		SELECT id, organizer_id, title, description, start_time, end_time, status, room_id, room_url, created_at, updated_at
		FROM meetings
		WHERE id = $1
	`
	m := &domain.Meeting{}
	var roomID, roomURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.OrganizerID, &m.Title, &m.Description, &m.StartTime, &m.EndTime,
		&m.Status, &roomID, &roomURL, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if roomID.Valid {
		m.RoomID = &roomID.String
	}
	if roomURL.Valid {
		m.RoomURL = &roomURL.String
	}
	if err := r.loadParticipants(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *meetingRepository) loadParticipants(ctx context.Context, m *domain.Meeting) error {
	query := `
		SELECT user_id, status
		FROM meeting_participants
		WHERE meeting_id = $1
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	m.Participants = make([]domain.Participant, 0, 2)
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.UserID, &p.Status); err != nil {
			return err
		}
		m.Participants = append(m.Participants, p)
	}
	return rows.Err()
}

func (r *meetingRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	query := `
		SELECT DISTINCT m.id, m.organizer_id, m.title, m.description, m.start_time, m.end_time, m.status, m.room_id, m.room_url, m.created_at, m.updated_at
		FROM meetings m
		JOIN meeting_participants mp ON mp.meeting_id = m.id
		WHERE m.organizer_id = $1 OR mp.user_id = $1
		ORDER BY m.start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	meetings := make([]*domain.Meeting, 0)
	for rows.Next() {
		m := &domain.Meeting{}
		var roomID, roomURL sql.NullString
		if err := rows.Scan(&m.ID, &m.OrganizerID, &m.Title, &m.Description, &m.StartTime, &m.EndTime, &m.Status, &roomID, &roomURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if roomID.Valid {
			m.RoomID = &roomID.String
		}
		if roomURL.Valid {
			m.RoomURL = &roomURL.String
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range meetings {
		if err := r.loadParticipants(ctx, m); err != nil {
			return nil, err
		}
	}
	return meetings, nil
}

func (r *meetingRepository) CountOverlapping(ctx context.Context, userIDs []string, start, end time.Time) (int, error) {
	// Half-open interval semantics: back-to-back meetings do not overlap.
	query := `
		SELECT COUNT(DISTINCT m.id)
		FROM meetings m
		JOIN meeting_participants mp ON mp.meeting_id = m.id
		WHERE mp.user_id = ANY($1)
		  AND m.start_time < $3
		  AND m.end_time > $2
	`
	var count int
	err := r.DB.QueryRowContext(ctx, query, pq.Array(userIDs), start, end).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *meetingRepository) UpdateStatus(ctx context.Context, id string, status domain.MeetingStatus) error {
	query := `
		UPDATE meetings SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *meetingRepository) AssignRoom(ctx context.Context, id, roomID, roomURL string) error {
	// Only fills room columns that are still null; an assigned room never changes.
	query := `
		UPDATE meetings
		SET room_id = COALESCE(room_id, $1), room_url = COALESCE(room_url, $2), updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.DB.ExecContext(ctx, query, roomID, roomURL, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *meetingRepository) UpdateParticipantStatus(ctx context.Context, meetingID, userID string, status domain.ParticipantStatus) error {
	query := `
		UPDATE meeting_participants SET status = $1
		WHERE meeting_id = $2 AND user_id = $3
	`
	result, err := r.DB.ExecContext(ctx, query, status, meetingID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

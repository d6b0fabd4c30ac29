package database

import (
	"context"
	"fmt"
)

// GetFreeScansUsed returns the free-scan counter for a user, creating a
// zero-valued row on first read. INSERT IGNORE gives first-read-wins
// semantics under concurrent first reads.
func (d *Database) GetFreeScansUsed(ctx context.Context, userID string) (int, error) {
	_, err := d.db.ExecContext(ctx,
		"INSERT IGNORE INTO user_scans (user_id, free_scans_used) VALUES (?, 0)",
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize scan counter: %w", err)
	}

	var used int
	err = d.db.QueryRowContext(ctx,
		"SELECT free_scans_used FROM user_scans WHERE user_id = ?",
		userID,
	).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("failed to read scan counter: %w", err)
	}

	return used, nil
}

// IncrementFreeScans bumps the counter by one as a single atomic server-side
// statement. Callers must never read-modify-write the counter; concurrent
// increments must not be lost.
func (d *Database) IncrementFreeScans(ctx context.Context, userID string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO user_scans (user_id, free_scans_used) VALUES (?, 1)
		ON DUPLICATE KEY UPDATE free_scans_used = free_scans_used + 1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment scan counter: %w", err)
	}
	return nil
}

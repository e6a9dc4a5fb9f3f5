package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iman-school/caseload/database"
)

// BackupSlotKey is where the daily copy of a slot is written
func BackupSlotKey(slot string) string {
	return slot + ".backup"
}

// BackupSlot copies the persisted student collection to its backup slot.
// Runs daily so a bad write or a lost slot can be recovered by hand.
func (m *CronManager) BackupSlot() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	data, err := m.storage.Read(ctx, m.slot)
	if errors.Is(err, database.ErrSlotNotFound) {
		m.logJobComplete(jobBackupSlot, "Nothing to back up")
		return
	}
	if err != nil {
		m.logJobError(jobBackupSlot, fmt.Errorf("failed to read slot %s: %w", m.slot, err))
		return
	}

	key := BackupSlotKey(m.slot)
	if err := m.storage.Write(ctx, key, data); err != nil {
		m.logJobError(jobBackupSlot, fmt.Errorf("failed to write backup %s: %w", key, err))
		return
	}

	m.logJobComplete(jobBackupSlot, fmt.Sprintf("Copied %d bytes to %s", len(data), key))
}

// ProbeGenerator checks that the text generation endpoint is reachable
func (m *CronManager) ProbeGenerator() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := m.now()
	if err := m.generator.HealthCheck(ctx); err != nil {
		m.logJobError(jobProbeGenerator, err)
		return
	}
	m.logJobComplete(jobProbeGenerator, fmt.Sprintf("Generator healthy in %s", m.now().Sub(start).Round(time.Millisecond)))
}

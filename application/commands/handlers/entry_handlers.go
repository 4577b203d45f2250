package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"thoughtgraph/application/commands"
	"thoughtgraph/application/commands/bus"
	"thoughtgraph/application/ports"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/events"
	pkgerrors "thoughtgraph/pkg/errors"
)

// Clock returns the current time; tests substitute a fixed one
type Clock func() time.Time

// EntryHandlers handles every entry command. Successful changes are saved
// and their domain events published.
type EntryHandlers struct {
	repo       ports.EntryRepository
	dispatcher *events.Dispatcher
	clock      Clock
	logger     *zap.Logger
}

// NewEntryHandlers creates the entry command handlers
func NewEntryHandlers(
	repo ports.EntryRepository,
	dispatcher *events.Dispatcher,
	clock Clock,
	logger *zap.Logger,
) *EntryHandlers {
	if clock == nil {
		clock = time.Now
	}
	return &EntryHandlers{
		repo:       repo,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     logger,
	}
}

// Register wires every entry command into the bus
func (h *EntryHandlers) Register(b *bus.CommandBus) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandlerFunc
	}{
		{commands.CreateEntryCommand{}, h.handleCreate},
		{commands.UpdateEntryCommand{}, h.handleUpdate},
		{commands.ArchiveEntryCommand{}, h.handleArchive},
		{commands.PurgeArchivedCommand{}, h.handlePurge},
	}

	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *EntryHandlers) handleCreate(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.CreateEntryCommand)
	if !ok {
		return fmt.Errorf("invalid command type %T", c)
	}

	id, err := valueobjects.NewEntryIDFromString(cmd.EntryID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	entry, err := entities.NewEntry(id, cmd.Text, cmd.Tags, h.clock())
	if err != nil {
		return err
	}

	return h.save(ctx, entry)
}

func (h *EntryHandlers) handleUpdate(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.UpdateEntryCommand)
	if !ok {
		return fmt.Errorf("invalid command type %T", c)
	}

	entry, err := h.load(ctx, cmd.EntryID)
	if err != nil {
		return err
	}
	if entry.IsArchived() {
		return pkgerrors.NewConflictError("archived entries cannot be edited")
	}

	if err := entry.UpdateText(cmd.Text, h.clock()); err != nil {
		return err
	}

	return h.save(ctx, entry)
}

func (h *EntryHandlers) handleArchive(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.ArchiveEntryCommand)
	if !ok {
		return fmt.Errorf("invalid command type %T", c)
	}

	entry, err := h.load(ctx, cmd.EntryID)
	if err != nil {
		return err
	}

	entry.Archive(h.clock())
	return h.save(ctx, entry)
}

func (h *EntryHandlers) handlePurge(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.PurgeArchivedCommand)
	if !ok {
		return fmt.Errorf("invalid command type %T", c)
	}

	all, err := h.repo.List(ctx)
	if err != nil {
		return err
	}

	deleted := make([]string, 0)
	for _, entry := range all {
		if !entry.IsArchived() {
			continue
		}
		if !cmd.DryRun {
			if err := h.repo.Delete(ctx, entry.ID()); err != nil {
				return err
			}
		}
		deleted = append(deleted, entry.ID().String())
	}

	h.logger.Info("Purged archived entries",
		zap.Int("count", len(deleted)),
		zap.Bool("dryRun", cmd.DryRun),
	)

	if cmd.Result != nil {
		cmd.Result.Deleted = deleted
	}
	return nil
}

func (h *EntryHandlers) load(ctx context.Context, rawID string) (*entities.Entry, error) {
	id, err := valueobjects.NewEntryIDFromString(rawID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	return h.repo.GetByID(ctx, id)
}

func (h *EntryHandlers) save(ctx context.Context, entry *entities.Entry) error {
	if err := h.repo.Save(ctx, entry); err != nil {
		return err
	}

	if h.dispatcher != nil {
		h.dispatcher.Publish(entry.GetUncommittedEvents()...)
	}
	entry.MarkEventsAsCommitted()
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"user-reminders/internal/events"
	"user-reminders/internal/model"
	"user-reminders/internal/repository"
)

// Actor identifies the caller of a service operation: either a
// directly-authenticated user id, or a display name carried by an
// automation-driven call and resolved against the known users.
type Actor struct {
	UserID   string
	UserName string
}

// CreateInput carries the fields for a new reminder. UID is optional
// and generated when absent; Due is a raw date string normalized during
// creation, empty defaulting to 09:00 tomorrow.
type CreateInput struct {
	UID     string
	ListID  string
	Summary string
	Due     string
}

// ItemPatch is a partial update: zero-valued fields keep the stored
// value.
type ItemPatch struct {
	UID       string
	Summary   string
	Due       string
	LastFired *time.Time
}

// ReminderService owns the reminder collection: validated CRUD scoped
// by list and user, with whole-document read-merge-write persistence.
// Mutations are serialized with a mutex; the document policy itself is
// kept deliberately simple and can lose updates across processes.
type ReminderService struct {
	store  *repository.ReminderStore
	users  *repository.UserRepository
	bus    *events.Bus
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewReminderService(store *repository.ReminderStore, users *repository.UserRepository, bus *events.Bus, logger *slog.Logger) *ReminderService {
	return &ReminderService{
		store:  store,
		users:  users,
		bus:    bus,
		logger: logger.With("component", "reminder_service"),
		now:    time.Now,
	}
}

// ResolveActor maps the call context to a known user: the direct user
// id when present, otherwise a display-name lookup for automation
// calls.
func (s *ReminderService) ResolveActor(ctx context.Context, actor Actor) (*model.User, error) {
	if actor.UserID != "" {
		user, err := s.users.FindByID(ctx, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown user %q", ErrUnauthorized, actor.UserID)
		}
		return user, nil
	}
	if actor.UserName != "" {
		user, err := s.users.FindByName(ctx, actor.UserName)
		if err == nil {
			return user, nil
		}
		// Automation surfaces are loose about display-name casing, so
		// fall back to a case-insensitive scan.
		all, listErr := s.users.ListAll(ctx)
		if listErr == nil {
			for i := range all {
				if strings.EqualFold(all[i].Name, actor.UserName) {
					return &all[i], nil
				}
			}
		}
		return nil, fmt.Errorf("%w: unknown user name %q", ErrUnauthorized, actor.UserName)
	}
	return nil, fmt.Errorf("%w: call carries no user", ErrUnauthorized)
}

// Create validates and persists a new reminder owned by the acting
// user, then notifies list subscribers.
func (s *ReminderService) Create(ctx context.Context, actor Actor, input CreateInput) (model.Reminder, error) {
	if input.ListID == "" {
		return model.Reminder{}, fmt.Errorf("%w: reminder needs a list id", ErrValidation)
	}

	user, err := s.authorize(ctx, actor, input.ListID)
	if err != nil {
		return model.Reminder{}, err
	}

	due, err := NormalizeDue(s.now(), input.Due)
	if err != nil {
		return model.Reminder{}, err
	}

	uid := input.UID
	if uid == "" {
		uid = strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return model.Reminder{}, err
	}
	if _, exists := records[uid]; exists {
		return model.Reminder{}, fmt.Errorf("%w: uid %q already exists", ErrIntegrity, uid)
	}

	item := model.Reminder{
		UID:     uid,
		ListID:  input.ListID,
		Summary: input.Summary,
		Due:     due,
		UserID:  user.ID,
	}
	records[uid] = item.Record()

	if err := s.store.Save(ctx, records); err != nil {
		return model.Reminder{}, err
	}
	s.notifyListUpdated(ctx, input.ListID)
	return item, nil
}

// Update merges the patch over the stored reminder. A missing reminder
// is a logged no-op; the due date is re-normalized; last_fired only
// ever advances.
func (s *ReminderService) Update(ctx context.Context, actor Actor, listID string, patch ItemPatch) error {
	user, err := s.authorize(ctx, actor, listID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	reminders := s.decodeAll(records)

	found, err := findInList(reminders, listID, user.ID, patch.UID)
	if err != nil {
		return err
	}
	if found == nil {
		s.logger.Warn("update for unknown reminder", "uid", patch.UID, "list_id", listID)
		return nil
	}

	stored := records[patch.UID]

	summary := patch.Summary
	if summary == "" {
		summary = stored.Summary
	}

	dueStr := patch.Due
	if dueStr == "" {
		dueStr = stored.Due
	}
	due, err := NormalizeDue(s.now(), dueStr)
	if err != nil {
		return err
	}

	lastFired := found.LastFired
	if patch.LastFired != nil && (lastFired == nil || patch.LastFired.After(*lastFired)) {
		lastFired = patch.LastFired
	}

	item := model.Reminder{
		UID:       patch.UID,
		ListID:    listID,
		Summary:   summary,
		Due:       due,
		UserID:    stored.UserID,
		LastFired: lastFired,
	}
	records[patch.UID] = item.Record()

	if err := s.store.Save(ctx, records); err != nil {
		return err
	}
	s.notifyListUpdated(ctx, listID)
	return nil
}

// Remove hard-deletes the given uids from the list. Unknown uids and
// reminders owned by other users are skipped with a log line.
func (s *ReminderService) Remove(ctx context.Context, actor Actor, listID string, uids []string) error {
	user, err := s.authorize(ctx, actor, listID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	reminders := s.decodeAll(records)

	for _, uid := range uids {
		found, err := findInList(reminders, listID, user.ID, uid)
		if errors.Is(err, ErrIntegrity) {
			return err
		}
		if err != nil || found == nil {
			s.logger.Warn("skipping remove", "uid", uid, "list_id", listID)
			continue
		}
		delete(records, uid)
	}

	if err := s.store.Save(ctx, records); err != nil {
		return err
	}
	s.notifyListUpdated(ctx, listID)
	return nil
}

// Get returns the acting user's reminders in the list. With uids it
// returns the found subset preserving input order and skipping misses;
// without, every reminder the user owns in the list.
func (s *ReminderService) Get(ctx context.Context, actor Actor, listID string, uids []string) ([]model.Reminder, error) {
	user, err := s.ResolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	reminders := s.decodeAll(records)

	var result []model.Reminder
	if len(uids) > 0 {
		for _, uid := range uids {
			found, err := findInList(reminders, listID, user.ID, uid)
			if err != nil {
				return nil, err
			}
			if found == nil {
				continue
			}
			result = append(result, *found)
		}
		return result, nil
	}

	for _, r := range reminders {
		if r.ListID == listID && r.UserID == user.ID {
			result = append(result, r)
		}
	}
	return result, nil
}

// FindOne returns the reminder with the given uid, nil when absent.
// Fails with ErrIntegrity on duplicate uids within the list and
// ErrNotOwned when the reminder belongs to a different user.
func (s *ReminderService) FindOne(ctx context.Context, actor Actor, listID, uid string) (*model.Reminder, error) {
	user, err := s.ResolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return findInList(s.decodeAll(records), listID, user.ID, uid)
}

// MatchBySummary returns the first of the acting user's reminders whose
// summary contains text, case-insensitively. A linear scan in
// collection order; first match wins.
func (s *ReminderService) MatchBySummary(ctx context.Context, actor Actor, listID, text string) (*model.Reminder, error) {
	reminders, err := s.Get(ctx, actor, listID, nil)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(text)
	for i := range reminders {
		if strings.Contains(strings.ToLower(reminders[i].Summary), needle) {
			return &reminders[i], nil
		}
	}
	return nil, nil
}

// authorize resolves the acting user and checks they own the list.
func (s *ReminderService) authorize(ctx context.Context, actor Actor, listID string) (*model.User, error) {
	user, err := s.ResolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.FindByListID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("%w: list %q", ErrNotFound, listID)
	}
	if user.ID != owner.ID {
		return nil, fmt.Errorf("%w: user %q, list %q", ErrUnauthorized, user.ID, listID)
	}
	return user, nil
}

// decodeAll converts the raw record map into typed reminders in uid
// order. Records that fail to decode are dropped with a log line, never
// failing the bulk load.
func (s *ReminderService) decodeAll(records map[string]model.ReminderRecord) []model.Reminder {
	uids := make([]string, 0, len(records))
	for uid := range records {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	reminders := make([]model.Reminder, 0, len(records))
	for _, uid := range uids {
		item, err := decodeRecord(records[uid], s.now().Location())
		if err != nil {
			s.logger.Error("dropping unreadable reminder", "uid", uid, "error", err)
			continue
		}
		reminders = append(reminders, item)
	}
	return reminders
}

func (s *ReminderService) notifyListUpdated(ctx context.Context, listID string) {
	s.bus.Emit(ctx, events.ReminderListUpdated, events.Payload{"list_id": listID})
}

// findInList locates uid within the list. Missing is a nil result, a
// duplicate uid is an integrity failure, another user's reminder is an
// ownership failure.
func findInList(reminders []model.Reminder, listID, actorID, uid string) (*model.Reminder, error) {
	var matches []model.Reminder
	for _, r := range reminders {
		if r.ListID == listID && r.UID == uid {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("%w: uid %q appears %d times in list %q", ErrIntegrity, uid, len(matches), listID)
	}
	if matches[0].UserID != actorID {
		return nil, fmt.Errorf("%w: uid %q", ErrNotOwned, uid)
	}
	return &matches[0], nil
}

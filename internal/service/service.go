// Package service coordinates validation, the repository and change
// notifications for the armory, results and profile features.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/armory"
	"github.com/starford/balestra/internal/bout"
	"github.com/starford/balestra/internal/models"
	"github.com/starford/balestra/internal/profile"
	"github.com/starford/balestra/internal/store"
)

// Change kinds passed to the OnChange callback.
const (
	BoutCreated      = "bout.created"
	BoutDeleted      = "bout.deleted"
	EquipmentCreated = "equipment.created"
	EquipmentUpdated = "equipment.updated"
	EquipmentDeleted = "equipment.deleted"
	ProfileUpdated   = "profile.updated"
	DataReloaded     = "data.reloaded"
)

// ChangeFunc is called after every successful mutation with the change kind
// and the affected record ID (empty for whole-data changes).
type ChangeFunc func(kind, id string)

// Service is the application's use-case layer.
type Service struct {
	repo     store.Repository
	catalog  armory.Catalog
	now      func() time.Time
	newID    func() string
	onChange ChangeFunc
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs overrides the identifier generator.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithOnChange registers the change callback.
func WithOnChange(fn ChangeFunc) Option {
	return func(s *Service) { s.onChange = fn }
}

// New creates a Service over repo using catalog as the category table.
func New(repo store.Repository, catalog armory.Catalog, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange replaces the change callback. It must be set before the service
// is shared between goroutines.
func (s *Service) OnChange(fn ChangeFunc) { s.onChange = fn }

func (s *Service) notify(kind, id string) {
	if s.onChange != nil {
		s.onChange(kind, id)
	}
}

// Catalog returns the category table.
func (s *Service) Catalog() armory.Catalog { return s.catalog }

// ArmoryView is the armory page: per-category states and headline totals.
type ArmoryView struct {
	Categories []armory.DisplayState `json:"categories"`
	Summary    armory.Summary        `json:"summary"`
}

// Armory builds the armory view. The summary always covers the whole
// inventory; query and mode only narrow the categories.
func (s *Service) Armory(ctx context.Context, query string, mode armory.FilterMode) (ArmoryView, error) {
	if mode == "" {
		mode = armory.FilterAll
	}
	if !mode.IsValid() {
		return ArmoryView{}, apperr.NewValidationError("filter", "must be one of: all, equipped, maintenance")
	}
	items, err := s.repo.ListEquipment(ctx)
	if err != nil {
		return ArmoryView{}, err
	}
	states := armory.DisplayStates(s.catalog, items)
	return ArmoryView{
		Categories: armory.Filter(states, query, mode),
		Summary:    armory.Summarize(s.catalog, items),
	}, nil
}

// ListEquipment returns every item.
func (s *Service) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	return s.repo.ListEquipment(ctx)
}

// GetEquipment returns one item.
func (s *Service) GetEquipment(ctx context.Context, id string) (models.Equipment, error) {
	return s.repo.GetEquipment(ctx, id)
}

// CreateEquipment validates form and stores a new item.
func (s *Service) CreateEquipment(ctx context.Context, form armory.EquipmentForm) (models.Equipment, error) {
	item, err := armory.ValidateEquipment(s.catalog, form)
	if err != nil {
		return models.Equipment{}, err
	}
	now := s.now()
	item.ID = s.newID()
	item.MaintenanceReminders = []models.MaintenanceReminder{}
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := s.repo.CreateEquipment(ctx, item, s.exclusive(item.Category)); err != nil {
		return models.Equipment{}, err
	}
	s.notify(EquipmentCreated, item.ID)
	return s.repo.GetEquipment(ctx, item.ID)
}

// UpdateEquipment validates form and overwrites the item's editable fields.
func (s *Service) UpdateEquipment(ctx context.Context, id string, form armory.EquipmentForm) (models.Equipment, error) {
	existing, err := s.repo.GetEquipment(ctx, id)
	if err != nil {
		return models.Equipment{}, err
	}
	item, err := armory.ValidateEquipment(s.catalog, form)
	if err != nil {
		return models.Equipment{}, err
	}
	now := s.now()
	item.ID = id
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = now
	if err := s.repo.UpdateEquipment(ctx, item); err != nil {
		return models.Equipment{}, err
	}
	if form.IsEquipped != existing.IsEquipped || (form.IsEquipped && item.Category != existing.Category) {
		if err := s.repo.SetEquipped(ctx, id, form.IsEquipped, s.exclusive(item.Category), now); err != nil {
			return models.Equipment{}, err
		}
	}
	s.notify(EquipmentUpdated, id)
	return s.repo.GetEquipment(ctx, id)
}

// DeleteEquipment removes an item and its reminders.
func (s *Service) DeleteEquipment(ctx context.Context, id string) error {
	if err := s.repo.DeleteEquipment(ctx, id); err != nil {
		return err
	}
	s.notify(EquipmentDeleted, id)
	return nil
}

// SetEquipped equips or unequips an item. Equipping an item of a category
// that allows a single equipped item unequips the others.
func (s *Service) SetEquipped(ctx context.Context, id string, equipped bool) (models.Equipment, error) {
	item, err := s.repo.GetEquipment(ctx, id)
	if err != nil {
		return models.Equipment{}, err
	}
	if err := s.repo.SetEquipped(ctx, id, equipped, s.exclusive(item.Category), s.now()); err != nil {
		return models.Equipment{}, err
	}
	s.notify(EquipmentUpdated, id)
	return s.repo.GetEquipment(ctx, id)
}

func (s *Service) exclusive(key models.CategoryKey) bool {
	cat, ok := s.catalog.Lookup(key)
	return ok && !cat.AllowMultiple
}

// AddReminder validates form and attaches a new reminder to an item.
func (s *Service) AddReminder(ctx context.Context, equipmentID string, form armory.ReminderForm) (models.MaintenanceReminder, error) {
	r, err := armory.ValidateReminder(form)
	if err != nil {
		return models.MaintenanceReminder{}, err
	}
	r.ID = s.newID()
	r.EquipmentID = equipmentID
	if err := s.repo.AddReminder(ctx, r, s.now()); err != nil {
		return models.MaintenanceReminder{}, err
	}
	s.notify(EquipmentUpdated, equipmentID)
	return r, nil
}

// CompleteReminder marks a reminder as done and returns the updated item.
func (s *Service) CompleteReminder(ctx context.Context, equipmentID, reminderID string) (models.Equipment, error) {
	if err := s.repo.CompleteReminder(ctx, equipmentID, reminderID, s.now()); err != nil {
		return models.Equipment{}, err
	}
	s.notify(EquipmentUpdated, equipmentID)
	return s.repo.GetEquipment(ctx, equipmentID)
}

// RecordBout validates form, derives the result and stores the bout.
func (s *Service) RecordBout(ctx context.Context, form bout.Form) (models.Bout, error) {
	in, err := bout.Validate(form)
	if err != nil {
		return models.Bout{}, err
	}
	b := models.NewBout(s.newID(), in, s.now())
	if err := s.repo.CreateBout(ctx, b); err != nil {
		return models.Bout{}, err
	}
	s.notify(BoutCreated, b.ID)
	return b, nil
}

// ListBouts returns the bouts matching q, newest first.
func (s *Service) ListBouts(ctx context.Context, q bout.Query) ([]models.Bout, error) {
	if q.Weapon != "" && !q.Weapon.IsValid() {
		return nil, apperr.NewValidationError("weapon", "must be one of: foil, epee, sabre")
	}
	if q.Type != "" && !q.Type.IsValid() {
		return nil, apperr.NewValidationError("type", "must be one of: practice, lesson, tournament, open-bouting")
	}
	bouts, err := s.repo.ListBouts(ctx)
	if err != nil {
		return nil, err
	}
	return bout.Filter(bouts, q), nil
}

// GetBout returns one bout.
func (s *Service) GetBout(ctx context.Context, id string) (models.Bout, error) {
	return s.repo.GetBout(ctx, id)
}

// BoutStats summarizes every recorded bout.
func (s *Service) BoutStats(ctx context.Context) (bout.Stats, error) {
	bouts, err := s.repo.ListBouts(ctx)
	if err != nil {
		return bout.Stats{}, err
	}
	return bout.Summarize(bouts), nil
}

// DeleteBout removes a bout.
func (s *Service) DeleteBout(ctx context.Context, id string) error {
	if err := s.repo.DeleteBout(ctx, id); err != nil {
		return err
	}
	s.notify(BoutDeleted, id)
	return nil
}

// Profile returns the fencer profile.
func (s *Service) Profile(ctx context.Context) (models.Profile, error) {
	return s.repo.GetProfile(ctx)
}

// UpdateProfile validates form and saves it as the profile.
func (s *Service) UpdateProfile(ctx context.Context, form profile.Form) (models.Profile, error) {
	p, err := profile.Validate(form)
	if err != nil {
		return models.Profile{}, err
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	existing, err := s.repo.GetProfile(ctx)
	switch {
	case err == nil:
		p.CreatedAt = existing.CreatedAt
	case !errors.Is(err, apperr.ErrNotFound):
		return models.Profile{}, err
	}
	if err := s.repo.PutProfile(ctx, p); err != nil {
		return models.Profile{}, err
	}
	s.notify(ProfileUpdated, "")
	return p, nil
}

// Export returns the whole data set.
func (s *Service) Export(ctx context.Context) (models.Snapshot, error) {
	return s.repo.Snapshot(ctx)
}

// Import checks snap and replaces all stored data with it. Missing
// identifiers and timestamps are filled in and the win flags are derived
// again from the scores.
func (s *Service) Import(ctx context.Context, snap models.Snapshot) error {
	snap, err := s.normalize(snap)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceAll(ctx, snap); err != nil {
		return fmt.Errorf("service: import: %w", err)
	}
	s.notify(DataReloaded, "")
	return nil
}

func (s *Service) normalize(snap models.Snapshot) (models.Snapshot, error) {
	now := s.now()
	verr := &apperr.ValidationError{}
	// collect records the field errors of err under prefix. It reports
	// whether err was a validation error.
	collect := func(prefix string, err error) bool {
		fields := apperr.Fields(err)
		for _, fe := range fields {
			verr.Errors = append(verr.Errors, apperr.FieldError{Field: prefix + "." + fe.Field, Message: fe.Message})
		}
		return fields != nil
	}
	stamp := func(created, updated *time.Time) {
		if created.IsZero() {
			*created = now
		}
		if updated.IsZero() {
			*updated = *created
		}
	}

	out := models.Snapshot{
		Equipment: make([]models.Equipment, 0, len(snap.Equipment)),
		Bouts:     make([]models.Bout, 0, len(snap.Bouts)),
	}
	if snap.Profile != nil {
		p, err := profile.Validate(profileForm(*snap.Profile))
		if err != nil && !collect("profile", err) {
			return models.Snapshot{}, err
		}
		p.CreatedAt, p.UpdatedAt = snap.Profile.CreatedAt, snap.Profile.UpdatedAt
		stamp(&p.CreatedAt, &p.UpdatedAt)
		out.Profile = &p
	}

	for i, e := range snap.Equipment {
		prefix := fmt.Sprintf("equipment[%d]", i)
		item, err := armory.ValidateEquipment(s.catalog, equipmentForm(e))
		if err != nil && !collect(prefix, err) {
			return models.Snapshot{}, err
		}
		item.ID, item.CreatedAt, item.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
		if item.ID == "" {
			item.ID = s.newID()
		}
		stamp(&item.CreatedAt, &item.UpdatedAt)

		item.MaintenanceReminders = make([]models.MaintenanceReminder, 0, len(e.MaintenanceReminders))
		for j, r := range e.MaintenanceReminders {
			rem, err := armory.ValidateReminder(reminderForm(r))
			if err != nil && !collect(fmt.Sprintf("%s.maintenanceReminders[%d]", prefix, j), err) {
				return models.Snapshot{}, err
			}
			rem.ID, rem.Completed, rem.EquipmentID = r.ID, r.Completed, item.ID
			if rem.ID == "" {
				rem.ID = s.newID()
			}
			item.MaintenanceReminders = append(item.MaintenanceReminders, rem)
		}
		out.Equipment = append(out.Equipment, item)
	}

	for i, b := range snap.Bouts {
		in, err := bout.Validate(boutForm(b))
		if err != nil && !collect(fmt.Sprintf("bouts[%d]", i), err) {
			return models.Snapshot{}, err
		}
		nb := models.NewBout(b.ID, in, b.CreatedAt)
		nb.UpdatedAt = b.UpdatedAt
		if nb.ID == "" {
			nb.ID = s.newID()
		}
		stamp(&nb.CreatedAt, &nb.UpdatedAt)
		out.Bouts = append(out.Bouts, nb)
	}

	if len(verr.Errors) > 0 {
		return models.Snapshot{}, verr
	}
	return out, nil
}

// The form builders below let imported records pass through the same
// validators as records submitted one at a time.

func profileForm(p models.Profile) profile.Form {
	return profile.Form{
		Name:          p.Name,
		Email:         p.Email,
		WeaponPrimary: string(p.WeaponPrimary),
		Division:      p.Division,
		Club:          p.Club,
		Coach:         p.Coach,
	}
}

func equipmentForm(e models.Equipment) armory.EquipmentForm {
	f := armory.EquipmentForm{
		Type:       string(e.Category),
		Subtype:    e.Subtype,
		Brand:      e.Brand,
		Model:      e.Model,
		Cost:       e.Cost,
		Status:     string(e.Status),
		Notes:      e.Notes,
		Weapon:     string(e.Weapon),
		IsEquipped: e.IsEquipped,
	}
	if e.PurchaseDate != nil {
		f.PurchaseDate = formDate(*e.PurchaseDate)
	}
	return f
}

func reminderForm(r models.MaintenanceReminder) armory.ReminderForm {
	return armory.ReminderForm{Type: r.Type, Description: r.Description, DueDate: formDate(r.DueDate)}
}

func boutForm(b models.Bout) bout.Form {
	userScore, opponentScore := b.UserScore, b.OpponentScore
	return bout.Form{
		OpponentName:     b.OpponentName,
		OpponentNickname: b.OpponentNickname,
		OpponentWeapon:   string(b.OpponentWeapon),
		OpponentRanking:  b.OpponentRanking,
		OpponentDivision: b.OpponentDivision,
		Date:             formDate(b.Date),
		Location:         b.Location,
		TournamentName:   b.TournamentName,
		Weapon:           string(b.Weapon),
		UserScore:        &userScore,
		OpponentScore:    &opponentScore,
		Notes:            b.Notes,
		Type:             string(b.Type),
		EquipmentUsed:    b.EquipmentUsed,
	}
}

// formDate renders t for a form; the zero time is a missing date.
func formDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

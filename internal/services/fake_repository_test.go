package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/cache"
	"github.com/result-academic/records-service/internal/events"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
	"github.com/result-academic/records-service/internal/validator"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	users        map[uint]models.User
	roles        map[uint]models.Role
	permissions  map[uint]models.Permission
	departments  map[uint]models.Department
	publications map[uint]models.Publication
	awards       map[uint]models.Award
	recognitions map[uint]models.Recognition
	events       map[uint]models.Event

	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:        make(map[uint]models.User),
		roles:        make(map[uint]models.Role),
		permissions:  make(map[uint]models.Permission),
		departments:  make(map[uint]models.Department),
		publications: make(map[uint]models.Publication),
		awards:       make(map[uint]models.Award),
		recognitions: make(map[uint]models.Recognition),
		events:       make(map[uint]models.Event),
	}
}

func (f *fakeRepository) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) User() repositories.UserRepository               { return &fakeUserRepo{f} }
func (f *fakeRepository) Role() repositories.RoleRepository               { return &fakeRoleRepo{f} }
func (f *fakeRepository) Department() repositories.DepartmentRepository   { return &fakeDepartmentRepo{f} }
func (f *fakeRepository) Publication() repositories.PublicationRepository { return &fakePublicationRepo{f} }
func (f *fakeRepository) Award() repositories.AwardRepository             { return &fakeAwardRepo{f} }
func (f *fakeRepository) Recognition() repositories.RecognitionRepository { return &fakeRecognitionRepo{f} }
func (f *fakeRepository) Event() repositories.EventRepository             { return &fakeEventRepo{f} }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// applyWindow cuts the offset/limit window out of n elements. A zero limit
// means no pagination, matching the repository behavior.
func applyWindow(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

// ===== USERS =====

type fakeUserRepo struct{ f *fakeRepository }

func (r *fakeUserRepo) withPreloads(u models.User) *models.User {
	out := u
	if role, ok := r.f.roles[u.RoleID]; ok {
		role := role
		out.Role = &role
	}
	if u.DepartmentID != nil {
		if dept, ok := r.f.departments[*u.DepartmentID]; ok {
			dept := dept
			out.Department = &dept
		}
	}
	return &out
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = r.f.id()
	r.f.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *user
	stored.Role = nil
	stored.Department = nil
	r.f.users[user.ID] = stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withPreloads(u), nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.f.users {
		if u.Email == email {
			return r.withPreloads(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []uint) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, ok := r.f.users[id]; ok {
			out = append(out, r.withPreloads(u))
		}
	}
	return out, nil
}

func (r *fakeUserRepo) sorted() []models.User {
	out := make([]models.User, 0, len(r.f.users))
	for _, u := range r.f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var matched []models.User
	for _, u := range r.sorted() {
		if filters.EnabledOnly && !u.IsEnabled {
			continue
		}
		matched = append(matched, u)
	}
	start, end := applyWindow(len(matched), filters.Limit, filters.Offset)
	out := make([]*models.User, 0, end-start)
	for _, u := range matched[start:end] {
		out = append(out, r.withPreloads(u))
	}
	return out, int64(len(matched)), nil
}

func (r *fakeUserRepo) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	q := strings.ToLower(query)
	var matched []models.User
	for _, u := range r.sorted() {
		if filters.EnabledOnly && !u.IsEnabled {
			continue
		}
		if !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		matched = append(matched, u)
	}
	start, end := applyWindow(len(matched), filters.Limit, filters.Offset)
	out := make([]*models.User, 0, end-start)
	for _, u := range matched[start:end] {
		out = append(out, r.withPreloads(u))
	}
	return out, int64(len(matched)), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	for _, u := range r.f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByCI(ctx context.Context, ci string, excludeID uint) (bool, error) {
	for _, u := range r.f.users {
		if u.CI == ci && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CountEnabledWithRole(ctx context.Context, roleName string) (int64, error) {
	var count int64
	for _, u := range r.f.users {
		if !u.IsEnabled {
			continue
		}
		if role, ok := r.f.roles[u.RoleID]; ok && role.Name == roleName {
			count++
		}
	}
	return count, nil
}

// ===== ROLES =====

type fakeRoleRepo struct{ f *fakeRepository }

func (r *fakeRoleRepo) Create(ctx context.Context, role *models.Role) error {
	role.ID = r.f.id()
	r.f.roles[role.ID] = *role
	return nil
}

func (r *fakeRoleRepo) Delete(ctx context.Context, id uint) error {
	delete(r.f.roles, id)
	return nil
}

func (r *fakeRoleRepo) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	role, ok := r.f.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := role
	return &out, nil
}

func (r *fakeRoleRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	for _, role := range r.f.roles {
		if role.Name == name {
			out := role
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) List(ctx context.Context) ([]*models.Role, error) {
	out := make([]*models.Role, 0, len(r.f.roles))
	for _, role := range r.f.roles {
		role := role
		out = append(out, &role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRoleRepo) PermissionNames(ctx context.Context, roleID uint) ([]string, error) {
	role, ok := r.f.roles[roleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role.PermissionNames(), nil
}

func (r *fakeRoleRepo) ListPermissions(ctx context.Context) ([]*models.Permission, error) {
	out := make([]*models.Permission, 0, len(r.f.permissions))
	for _, p := range r.f.permissions {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRoleRepo) EnsurePermissions(ctx context.Context, names []string) ([]models.Permission, error) {
	out := make([]models.Permission, 0, len(names))
	for _, name := range names {
		var found *models.Permission
		for _, p := range r.f.permissions {
			if p.Name == name {
				p := p
				found = &p
				break
			}
		}
		if found == nil {
			p := models.Permission{ID: r.f.id(), Name: name}
			r.f.permissions[p.ID] = p
			found = &p
		}
		out = append(out, *found)
	}
	return out, nil
}

func (r *fakeRoleRepo) SyncPermissions(ctx context.Context, roleID uint, permissions []models.Permission) error {
	role, ok := r.f.roles[roleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	role.Permissions = permissions
	r.f.roles[roleID] = role
	return nil
}

func (r *fakeRoleRepo) ReassignUsers(ctx context.Context, fromRoleID, toRoleID uint) (int64, error) {
	var moved int64
	for id, u := range r.f.users {
		if u.RoleID == fromRoleID {
			u.RoleID = toRoleID
			r.f.users[id] = u
			moved++
		}
	}
	return moved, nil
}

// ===== DEPARTMENTS =====

type fakeDepartmentRepo struct{ f *fakeRepository }

func (r *fakeDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	department.ID = r.f.id()
	r.f.departments[department.ID] = *department
	return nil
}

func (r *fakeDepartmentRepo) Update(ctx context.Context, department *models.Department) error {
	if _, ok := r.f.departments[department.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *department
	stored.Head = nil
	r.f.departments[department.ID] = stored
	return nil
}

func (r *fakeDepartmentRepo) Delete(ctx context.Context, id uint) error {
	delete(r.f.departments, id)
	return nil
}

func (r *fakeDepartmentRepo) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	dept, ok := r.f.departments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := dept
	return &out, nil
}

func (r *fakeDepartmentRepo) List(ctx context.Context, filters repositories.DepartmentFilters) ([]*models.Department, int64, error) {
	out := make([]*models.Department, 0, len(r.f.departments))
	for _, dept := range r.f.departments {
		dept := dept
		dept.MemberCount, _ = r.CountMembers(ctx, dept.ID)
		out = append(out, &dept)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeDepartmentRepo) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	for _, dept := range r.f.departments {
		if dept.Name == name && dept.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDepartmentRepo) CountMembers(ctx context.Context, id uint) (int64, error) {
	var count int64
	for _, u := range r.f.users {
		if u.DepartmentID != nil && *u.DepartmentID == id {
			count++
		}
	}
	return count, nil
}

// ===== PUBLICATIONS =====

type fakePublicationRepo struct{ f *fakeRepository }

func (r *fakePublicationRepo) Create(ctx context.Context, publication *models.Publication) error {
	publication.ID = r.f.id()
	r.f.publications[publication.ID] = *publication
	return nil
}

func (r *fakePublicationRepo) Update(ctx context.Context, publication *models.Publication) error {
	stored, ok := r.f.publications[publication.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name = publication.Name
	stored.Type = publication.Type
	stored.Date = publication.Date
	stored.Description = publication.Description
	r.f.publications[publication.ID] = stored
	return nil
}

func (r *fakePublicationRepo) Delete(ctx context.Context, id uint) error {
	delete(r.f.publications, id)
	return nil
}

func (r *fakePublicationRepo) GetByID(ctx context.Context, id uint) (*models.Publication, error) {
	p, ok := r.f.publications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := p
	return &out, nil
}

func (r *fakePublicationRepo) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Publication, int64, error) {
	var matched []models.Publication
	ids := make([]uint, 0, len(r.f.publications))
	for id := range r.f.publications {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		p := r.f.publications[id]
		if filters.Scope.Allows(p.Authors) {
			matched = append(matched, p)
		}
	}
	start, end := applyWindow(len(matched), filters.Limit, filters.Offset)
	out := make([]*models.Publication, 0, end-start)
	for _, p := range matched[start:end] {
		p := p
		out = append(out, &p)
	}
	return out, int64(len(matched)), nil
}

func (r *fakePublicationRepo) ReplaceDetail(ctx context.Context, publication *models.Publication) error {
	stored, ok := r.f.publications[publication.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Magazine = nil
	stored.Book = nil
	stored.Chapter = nil
	switch publication.Type {
	case models.PublicationJournal:
		stored.Magazine = publication.Magazine
	case models.PublicationBook:
		stored.Book = publication.Book
	case models.PublicationBookChapter:
		stored.Chapter = publication.Chapter
	}
	r.f.publications[publication.ID] = stored
	return nil
}

func (r *fakePublicationRepo) ReplaceAuthors(ctx context.Context, publication *models.Publication, authors []models.User) error {
	stored, ok := r.f.publications[publication.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Authors = authors
	r.f.publications[publication.ID] = stored
	publication.Authors = authors
	return nil
}

func (r *fakePublicationRepo) RemoveAuthor(ctx context.Context, publicationID, userID uint) error {
	stored, ok := r.f.publications[publicationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := stored.Authors[:0:0]
	for _, a := range stored.Authors {
		if a.ID != userID {
			kept = append(kept, a)
		}
	}
	stored.Authors = kept
	r.f.publications[publicationID] = stored
	return nil
}

func (r *fakePublicationRepo) CountAuthors(ctx context.Context, publicationID uint) (int64, error) {
	stored, ok := r.f.publications[publicationID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return int64(len(stored.Authors)), nil
}

// ===== AWARDS =====

type fakeAwardRepo struct{ f *fakeRepository }

func (r *fakeAwardRepo) Create(ctx context.Context, award *models.Award) error {
	award.ID = r.f.id()
	r.f.awards[award.ID] = *award
	return nil
}

func (r *fakeAwardRepo) Update(ctx context.Context, award *models.Award) error {
	stored, ok := r.f.awards[award.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name = award.Name
	stored.Type = award.Type
	stored.Date = award.Date
	stored.Description = award.Description
	r.f.awards[award.ID] = stored
	return nil
}

func (r *fakeAwardRepo) Delete(ctx context.Context, id uint) error {
	delete(r.f.awards, id)
	return nil
}

func (r *fakeAwardRepo) GetByID(ctx context.Context, id uint) (*models.Award, error) {
	a, ok := r.f.awards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := a
	return &out, nil
}

func (r *fakeAwardRepo) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Award, int64, error) {
	var matched []models.Award
	ids := make([]uint, 0, len(r.f.awards))
	for id := range r.f.awards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		a := r.f.awards[id]
		if filters.Scope.Allows(a.Authors) {
			matched = append(matched, a)
		}
	}
	start, end := applyWindow(len(matched), filters.Limit, filters.Offset)
	out := make([]*models.Award, 0, end-start)
	for _, a := range matched[start:end] {
		a := a
		out = append(out, &a)
	}
	return out, int64(len(matched)), nil
}

func (r *fakeAwardRepo) ReplaceAuthors(ctx context.Context, award *models.Award, authors []models.User) error {
	stored, ok := r.f.awards[award.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Authors = authors
	r.f.awards[award.ID] = stored
	award.Authors = authors
	return nil
}

func (r *fakeAwardRepo) RemoveAuthor(ctx context.Context, awardID, userID uint) error {
	stored, ok := r.f.awards[awardID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := stored.Authors[:0:0]
	for _, a := range stored.Authors {
		if a.ID != userID {
			kept = append(kept, a)
		}
	}
	stored.Authors = kept
	r.f.awards[awardID] = stored
	return nil
}

func (r *fakeAwardRepo) CountAuthors(ctx context.Context, awardID uint) (int64, error) {
	stored, ok := r.f.awards[awardID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return int64(len(stored.Authors)), nil
}

// ===== RECOGNITIONS =====

type fakeRecognitionRepo struct{ f *fakeRepository }

func (r *fakeRecognitionRepo) Create(ctx context.Context, recognition *models.Recognition) error {
	recognition.ID = r.f.id()
	r.f.recognitions[recognition.ID] = *recognition
	return nil
}

func (r *fakeRecognitionRepo) Update(ctx context.Context, recognition *models.Recognition) error {
	stored, ok := r.f.recognitions[recognition.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name = recognition.Name
	stored.Type = recognition.Type
	stored.Date = recognition.Date
	stored.Description = recognition.Description
	r.f.recognitions[recognition.ID] = stored
	return nil
}

func (r *fakeRecognitionRepo) Delete(ctx context.Context, id uint) error {
	delete(r.f.recognitions, id)
	return nil
}

func (r *fakeRecognitionRepo) GetByID(ctx context.Context, id uint) (*models.Recognition, error) {
	rec, ok := r.f.recognitions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := rec
	return &out, nil
}

func (r *fakeRecognitionRepo) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Recognition, int64, error) {
	var matched []models.Recognition
	ids := make([]uint, 0, len(r.f.recognitions))
	for id := range r.f.recognitions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		rec := r.f.recognitions[id]
		if filters.Scope.Allows(rec.Authors) {
			matched = append(matched, rec)
		}
	}
	start, end := applyWindow(len(matched), filters.Limit, filters.Offset)
	out := make([]*models.Recognition, 0, end-start)
	for _, rec := range matched[start:end] {
		rec := rec
		out = append(out, &rec)
	}
	return out, int64(len(matched)), nil
}

func (r *fakeRecognitionRepo) ReplaceAuthors(ctx context.Context, recognition *models.Recognition, authors []models.User) error {
	stored, ok := r.f.recognitions[recognition.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Authors = authors
	r.f.recognitions[recognition.ID] = stored
	recognition.Authors = authors
	return nil
}

func (r *fakeRecognitionRepo) RemoveAuthor(ctx context.Context, recognitionID, userID uint) error {
	stored, ok := r.f.recognitions[recognitionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := stored.Authors[:0:0]
	for _, a := range stored.Authors {
		if a.ID != userID {
			kept = append(kept, a)
		}
	}
	stored.Authors = kept
	r.f.recognitions[recognitionID] = stored
	return nil
}

func (r *fakeRecognitionRepo) CountAuthors(ctx context.Context, recognitionID uint) (int64, error) {
	stored, ok := r.f.recognitions[recognitionID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return int64(len(stored.Authors)), nil
}

// ===== EVENTS =====

type fakeEventRepo struct{ f *fakeRepository }

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = r.f.id()
	r.f.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	stored, ok := r.f.events[event.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name = event.Name
	stored.Category = event.Category
	stored.Date = event.Date
	stored.Description = event.Description
	r.f.events[event.ID] = stored
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id uint) error {
	delete(r.f.events, id)
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	e, ok := r.f.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := e
	return &out, nil
}

func (r *fakeEventRepo) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Event, int64, error) {
	var matched []models.Event
	ids := make([]uint, 0, len(r.f.events))
	for id := range r.f.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		e := r.f.events[id]
		if filters.Scope.Allows(e.Authors) {
			matched = append(matched, e)
		}
	}
	start, end := applyWindow(len(matched), filters.Limit, filters.Offset)
	out := make([]*models.Event, 0, end-start)
	for _, e := range matched[start:end] {
		e := e
		out = append(out, &e)
	}
	return out, int64(len(matched)), nil
}

func (r *fakeEventRepo) ReplaceAuthors(ctx context.Context, event *models.Event, authors []models.User) error {
	stored, ok := r.f.events[event.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Authors = authors
	r.f.events[event.ID] = stored
	event.Authors = authors
	return nil
}

func (r *fakeEventRepo) RemoveAuthor(ctx context.Context, eventID, userID uint) error {
	stored, ok := r.f.events[eventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := stored.Authors[:0:0]
	for _, a := range stored.Authors {
		if a.ID != userID {
			kept = append(kept, a)
		}
	}
	stored.Authors = kept
	r.f.events[eventID] = stored
	return nil
}

func (r *fakeEventRepo) CountAuthors(ctx context.Context, eventID uint) (int64, error) {
	stored, ok := r.f.events[eventID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return int64(len(stored.Authors)), nil
}

// ===== FIXTURE =====

// fixture wires the fake repository with the resolver, validator and a mock
// publisher, and seeds the built-in roles.
type fixture struct {
	repo      *fakeRepository
	resolver  *authz.Resolver
	publisher *events.MockEventPublisher
	validator *validator.Validator
	logger    *slog.Logger

	userSeq int
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	fx := &fixture{
		repo:      newFakeRepository(),
		publisher: events.NewMockEventPublisher(logger),
		validator: validator.New(),
		logger:    logger,
	}
	fx.resolver = authz.NewResolver(fx.repo.Role(), cache.NewCacheHelper(nil, ""), logger)

	fx.addRole(models.RoleAdmin,
		authz.PermViewAllResults, authz.PermCreateResult, authz.PermEditAnyResult,
		authz.PermDeleteAnyResult, authz.PermManageUsers, authz.PermAssignRoles,
		authz.PermViewAllUsers, authz.PermCreateDepartment, authz.PermEditDepartment,
		authz.PermDeleteDepartment, authz.PermViewAllDepartments,
		authz.PermManageRolesPermissions, authz.PermAdminSystem)
	fx.addRole(models.RoleDirective,
		authz.PermViewAllResults, authz.PermCreateResult, authz.PermEditAnyResult,
		authz.PermViewAllUsers, authz.PermViewAllDepartments)
	fx.addRole(models.RoleHeadOfDepartment,
		authz.PermViewDepartmentResults, authz.PermCreateResult,
		authz.PermEditDepartmentResults, authz.PermViewAllDepartments)
	fx.addRole(models.RoleProfessor,
		authz.PermViewOwnResults, authz.PermCreateResult)

	return fx
}

func (fx *fixture) addRole(name string, permissions ...string) *models.Role {
	ctx := context.Background()
	ensured, _ := fx.repo.Role().EnsurePermissions(ctx, permissions)
	role := &models.Role{Name: name, Permissions: ensured}
	if err := fx.repo.Role().Create(ctx, role); err != nil {
		panic(err)
	}
	return role
}

func (fx *fixture) addDepartment(name string) *models.Department {
	dept := &models.Department{Name: name}
	if err := fx.repo.Department().Create(context.Background(), dept); err != nil {
		panic(err)
	}
	return dept
}

// addUser creates an enabled user with a unique email and ci.
func (fx *fixture) addUser(name, roleName string, departmentID *uint) *models.User {
	fx.userSeq++
	role, err := fx.repo.Role().GetByName(context.Background(), roleName)
	if err != nil {
		panic(fmt.Sprintf("role %s not seeded", roleName))
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("abc123!@"), bcrypt.MinCost)
	user := &models.User{
		Name:              name,
		Email:             fmt.Sprintf("user%d@example.com", fx.userSeq),
		CI:                fmt.Sprintf("%011d", 85000000000+fx.userSeq),
		Password:          string(hash),
		RoleID:            role.ID,
		DepartmentID:      departmentID,
		ProfessionalLevel: models.LevelMaster,
		IsEnabled:         true,
	}
	if err := fx.repo.User().Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

func (fx *fixture) disableUser(id uint) {
	u := fx.repo.users[id]
	u.IsEnabled = false
	fx.repo.users[id] = u
}

func (fx *fixture) addAward(name string, authors ...*models.User) *models.Award {
	award := &models.Award{
		Name: name,
		Type: "nacional",
		Date: datatypes.Date(mustParseDate("2024-01-15")),
	}
	if err := fx.repo.Award().Create(context.Background(), award); err != nil {
		panic(err)
	}
	users := make([]models.User, len(authors))
	for i, a := range authors {
		users[i] = *a
	}
	if err := fx.repo.Award().ReplaceAuthors(context.Background(), award, users); err != nil {
		panic(err)
	}
	return award
}

func mustParseDate(value string) time.Time {
	parsed, err := time.Parse(validator.DateFormat, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

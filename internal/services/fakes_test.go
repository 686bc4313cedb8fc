package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hr-system/internal/entities"
	"hr-system/internal/orgchart"
	"hr-system/internal/repositories"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/types"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

// memStore - общая память для поддельных репозиториев.
type memStore struct {
	nextID       uint64
	persons      map[uint64]*entities.Person
	positions    map[uint64]*entities.Position
	departments  map[uint64]*entities.Department
	assignments  []*entities.PositionAssignment
	edges        []*entities.ReportsToEdge
	terminations []entities.Termination
	users        map[uint64]*entities.User
	userRoles    map[uint64][]uint64
	userRoutes   map[uint64][]uint64
}

func newMemStore() *memStore {
	return &memStore{
		nextID:      100,
		persons:     map[uint64]*entities.Person{},
		positions:   map[uint64]*entities.Position{},
		departments: map[uint64]*entities.Department{},
		users:       map[uint64]*entities.User{},
		userRoles:   map[uint64][]uint64{},
		userRoutes:  map[uint64][]uint64{},
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addDepartment(id uint64, name string) {
	m.departments[id] = &entities.Department{ID: id, Name: name, Active: true}
}

func (m *memStore) addPosition(id uint64, name string, departmentID uint64, level int) {
	m.positions[id] = &entities.Position{ID: id, Name: name, DepartmentID: departmentID, Level: level, Active: true}
}

// addPerson заводит сотрудника с должностью (positionID == 0 - без должности).
func (m *memStore) addPerson(id uint64, given, surname string, positionID uint64, since time.Time) {
	m.persons[id] = &entities.Person{ID: id, GivenName: given, SurnamePaternal: surname, Status: constants.PersonStatusActive}
	if positionID != 0 {
		m.assignments = append(m.assignments, &entities.PositionAssignment{
			ID: m.id(), PersonID: id, PositionID: positionID, StartDate: since, Active: true,
		})
	}
}

func (m *memStore) addEdge(personID, managerID uint64, start time.Time) {
	m.edges = append(m.edges, &entities.ReportsToEdge{ID: m.id(), PersonID: personID, ManagerID: managerID, EffectiveStart: start})
}

func (m *memStore) activeAssignment(personID uint64) *entities.PositionAssignment {
	for _, a := range m.assignments {
		if a.PersonID == personID && a.Active {
			return a
		}
	}
	return nil
}

// assignmentAt - назначение, интервал [StartDate, EndDate) которого содержит asOf.
func (m *memStore) assignmentAt(personID uint64, asOf time.Time) *entities.PositionAssignment {
	for _, a := range m.assignments {
		if a.PersonID != personID || asOf.Before(a.StartDate) {
			continue
		}
		if a.EndDate == nil || asOf.Before(*a.EndDate) {
			return a
		}
	}
	return nil
}

func (m *memStore) terminatedBy(personID uint64, asOf time.Time) bool {
	for _, t := range m.terminations {
		if t.PersonID == personID && !asOf.Before(t.Date) {
			return true
		}
	}
	return false
}

func (m *memStore) listItem(id uint64) (entities.PersonListItem, bool) {
	return m.listItemWith(id, m.activeAssignment(id))
}

func (m *memStore) listItemAt(id uint64, asOf time.Time) (entities.PersonListItem, bool) {
	return m.listItemWith(id, m.assignmentAt(id, asOf))
}

func (m *memStore) listItemWith(id uint64, a *entities.PositionAssignment) (entities.PersonListItem, bool) {
	p, ok := m.persons[id]
	if !ok {
		return entities.PersonListItem{}, false
	}
	item := entities.PersonListItem{Person: *p}
	if a != nil {
		pos := m.positions[a.PositionID]
		item.PositionID = null.Uint64From(pos.ID)
		item.PositionName = null.StringFrom(pos.Name)
		item.PositionLevel = null.IntFrom(pos.Level)
		item.DepartmentID = null.Uint64From(pos.DepartmentID)
		if d, ok := m.departments[pos.DepartmentID]; ok {
			item.DepartmentName = null.StringFrom(d.Name)
		}
	}
	return item, true
}

func (m *memStore) openEdges(personID uint64) []*entities.ReportsToEdge {
	var out []*entities.ReportsToEdge
	for _, e := range m.edges {
		if e.PersonID == personID && e.IsOpen() {
			out = append(out, e)
		}
	}
	return out
}

// passTx выполняет функцию без настоящей транзакции.
type passTx struct{}

func (passTx) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// ---- сотрудники

type fakePersonRepo struct{ m *memStore }

func (r fakePersonRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Person, error) {
	p, ok := r.m.persons[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r fakePersonRepo) FindListItem(_ context.Context, id uint64) (*entities.PersonListItem, error) {
	item, ok := r.m.listItem(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

func (r fakePersonRepo) GetAll(_ context.Context, _ types.Filter) ([]entities.PersonListItem, uint64, error) {
	ids := make([]uint64, 0, len(r.m.persons))
	for id := range r.m.persons {
		ids = append(ids, id)
	}
	items := make([]entities.PersonListItem, 0, len(ids))
	for _, id := range ids {
		item, _ := r.m.listItem(id)
		items = append(items, item)
	}
	return items, uint64(len(items)), nil
}

func (r fakePersonRepo) FindListItemsAt(_ context.Context, _ pgx.Tx, ids []uint64, asOf time.Time) ([]entities.PersonListItem, error) {
	out := make([]entities.PersonListItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.m.listItemAt(id, asOf); ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r fakePersonRepo) ListWithPositionAt(_ context.Context, _ pgx.Tx, departmentID *uint64, asOf time.Time) ([]entities.PersonListItem, error) {
	var out []entities.PersonListItem
	for id := range r.m.persons {
		item, _ := r.m.listItemAt(id, asOf)
		if r.m.terminatedBy(id, asOf) || !item.PositionID.Valid {
			continue
		}
		if departmentID != nil && item.DepartmentID.Uint64 != *departmentID {
			continue
		}
		out = append(out, item)
	}
	sortByLevel(out)
	return out, nil
}

func (r fakePersonRepo) ListActiveWithPosition(_ context.Context, _ pgx.Tx, departmentID *uint64) ([]entities.PersonListItem, error) {
	var out []entities.PersonListItem
	for id := range r.m.persons {
		item, _ := r.m.listItem(id)
		if item.IsTerminated() || !item.PositionID.Valid {
			continue
		}
		if departmentID != nil && item.DepartmentID.Uint64 != *departmentID {
			continue
		}
		out = append(out, item)
	}
	sortByLevel(out)
	return out, nil
}

func sortByLevel(items []entities.PersonListItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].PositionLevel.Int != items[j].PositionLevel.Int {
			return items[i].PositionLevel.Int > items[j].PositionLevel.Int
		}
		return items[i].SurnamePaternal < items[j].SurnamePaternal
	})
}

func (r fakePersonRepo) Create(_ context.Context, _ pgx.Tx, p entities.Person) (uint64, error) {
	p.ID = r.m.id()
	p.Status = constants.PersonStatusActive
	r.m.persons[p.ID] = &p
	return p.ID, nil
}

func (r fakePersonRepo) Update(_ context.Context, _ pgx.Tx, id uint64, p entities.Person) error {
	current, ok := r.m.persons[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.ID, p.Status = id, current.Status
	r.m.persons[id] = &p
	return nil
}

func (r fakePersonRepo) SetStatus(_ context.Context, _ pgx.Tx, id uint64, status constants.PersonStatus) error {
	p, ok := r.m.persons[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r fakePersonRepo) CreateTermination(_ context.Context, _ pgx.Tx, t entities.Termination) (uint64, error) {
	t.ID = r.m.id()
	r.m.terminations = append(r.m.terminations, t)
	return t.ID, nil
}

func (r fakePersonRepo) FindTermination(_ context.Context, personID uint64) (*entities.Termination, error) {
	for i := len(r.m.terminations) - 1; i >= 0; i-- {
		if r.m.terminations[i].PersonID == personID {
			t := r.m.terminations[i]
			return &t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// ---- справочники

type fakePositionRepo struct{ m *memStore }

func (r fakePositionRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Position, error) {
	p, ok := r.m.positions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r fakePositionRepo) GetAll(ctx context.Context, _ types.Filter) ([]entities.Position, uint64, error) {
	var out []entities.Position
	for _, p := range r.m.positions {
		out = append(out, *p)
	}
	return out, uint64(len(out)), nil
}

func (r fakePositionRepo) ListActive(_ context.Context) ([]entities.Position, error) {
	var out []entities.Position
	for _, p := range r.m.positions {
		if p.Active {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level > out[j].Level })
	return out, nil
}

func (r fakePositionRepo) Create(_ context.Context, _ pgx.Tx, p entities.Position) (uint64, error) {
	p.ID = r.m.id()
	r.m.positions[p.ID] = &p
	return p.ID, nil
}

func (r fakePositionRepo) Update(_ context.Context, _ pgx.Tx, id uint64, p entities.Position) error {
	if _, ok := r.m.positions[id]; !ok {
		return apperrors.ErrNotFound
	}
	p.ID = id
	r.m.positions[id] = &p
	return nil
}

func (r fakePositionRepo) SetActive(_ context.Context, _ pgx.Tx, id uint64, active bool) error {
	p, ok := r.m.positions[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Active = active
	return nil
}

type fakeDepartmentRepo struct{ m *memStore }

func (r fakeDepartmentRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Department, error) {
	d, ok := r.m.departments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r fakeDepartmentRepo) GetAll(_ context.Context, _ types.Filter) ([]entities.Department, uint64, error) {
	var out []entities.Department
	for _, d := range r.m.departments {
		out = append(out, *d)
	}
	return out, uint64(len(out)), nil
}

func (r fakeDepartmentRepo) ListActive(_ context.Context) ([]entities.Department, error) {
	var out []entities.Department
	for _, d := range r.m.departments {
		if d.Active {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r fakeDepartmentRepo) Create(_ context.Context, _ pgx.Tx, d entities.Department) (uint64, error) {
	d.ID = r.m.id()
	r.m.departments[d.ID] = &d
	return d.ID, nil
}

func (r fakeDepartmentRepo) Update(_ context.Context, _ pgx.Tx, id uint64, d entities.Department) error {
	if _, ok := r.m.departments[id]; !ok {
		return apperrors.ErrNotFound
	}
	d.ID = id
	r.m.departments[id] = &d
	return nil
}

func (r fakeDepartmentRepo) SetActive(_ context.Context, _ pgx.Tx, id uint64, active bool) error {
	d, ok := r.m.departments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	d.Active = active
	return nil
}

// ---- назначения

type fakeAssignmentRepo struct{ m *memStore }

func (r fakeAssignmentRepo) FindActive(_ context.Context, _ pgx.Tx, personID uint64) (*entities.PositionAssignment, error) {
	a := r.m.activeAssignment(personID)
	if a == nil {
		return nil, apperrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r fakeAssignmentRepo) Replace(_ context.Context, _ pgx.Tx, personID uint64, positionID *uint64, date time.Time) error {
	if a := r.m.activeAssignment(personID); a != nil {
		a.Active = false
		end := date
		a.EndDate = &end
	}
	if positionID != nil {
		r.m.assignments = append(r.m.assignments, &entities.PositionAssignment{
			ID: r.m.id(), PersonID: personID, PositionID: *positionID, StartDate: date, Active: true,
		})
	}
	return nil
}

func (r fakeAssignmentRepo) History(_ context.Context, personID uint64) ([]entities.PositionAssignment, error) {
	var out []entities.PositionAssignment
	for i := len(r.m.assignments) - 1; i >= 0; i-- {
		if a := r.m.assignments[i]; a.PersonID == personID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeEdgeRepo struct{ m *memStore }

func (r fakeEdgeRepo) withName(e *entities.ReportsToEdge) entities.ReportsToEdge {
	cp := *e
	if p, ok := r.m.persons[e.ManagerID]; ok {
		cp.ManagerName = p.FullName()
	}
	return cp
}

func (r fakeEdgeRepo) FindOpenEdge(_ context.Context, _ pgx.Tx, personID uint64) (*entities.ReportsToEdge, error) {
	open := r.m.openEdges(personID)
	if len(open) == 0 {
		return nil, apperrors.ErrNotFound
	}
	e := r.withName(open[0])
	return &e, nil
}

func (r fakeEdgeRepo) FindEdgeAt(_ context.Context, _ pgx.Tx, personID uint64, asOf time.Time) (*entities.ReportsToEdge, error) {
	for _, e := range r.m.edges {
		if e.PersonID == personID && e.ValidAt(asOf) {
			found := r.withName(e)
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r fakeEdgeRepo) FindReportsAt(_ context.Context, _ pgx.Tx, managerID uint64, asOf time.Time) ([]entities.ReportsToEdge, error) {
	var out []entities.ReportsToEdge
	for _, e := range r.m.edges {
		if e.ManagerID == managerID && e.ValidAt(asOf) {
			out = append(out, r.withName(e))
		}
	}
	return out, nil
}

func (r fakeEdgeRepo) ListEdgesAt(_ context.Context, _ pgx.Tx, asOf time.Time) ([]entities.ReportsToEdge, error) {
	var out []entities.ReportsToEdge
	for _, e := range r.m.edges {
		if e.ValidAt(asOf) {
			out = append(out, r.withName(e))
		}
	}
	return out, nil
}

func (r fakeEdgeRepo) CloseEdge(_ context.Context, _ pgx.Tx, edgeID uint64, end time.Time) error {
	for _, e := range r.m.edges {
		if e.ID == edgeID && e.IsOpen() {
			closed := end
			e.EffectiveEnd = &closed
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r fakeEdgeRepo) InsertEdge(_ context.Context, _ pgx.Tx, personID, managerID uint64, start time.Time) (uint64, error) {
	if personID == managerID {
		return 0, apperrors.ErrValidation
	}
	if len(r.m.openEdges(personID)) > 0 {
		return 0, apperrors.ErrConflict
	}
	id := r.m.id()
	r.m.edges = append(r.m.edges, &entities.ReportsToEdge{ID: id, PersonID: personID, ManagerID: managerID, EffectiveStart: start})
	return id, nil
}

func (r fakeEdgeRepo) History(_ context.Context, personID uint64) ([]entities.ReportsToEdge, error) {
	var out []entities.ReportsToEdge
	for i := len(r.m.edges) - 1; i >= 0; i-- {
		if r.m.edges[i].PersonID == personID {
			out = append(out, r.withName(r.m.edges[i]))
		}
	}
	return out, nil
}

// ---- учётные записи и доступ

type fakeUserRepo struct{ m *memStore }

func (r fakeUserRepo) FindByID(_ context.Context, id uint64) (*entities.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r fakeUserRepo) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, u := range r.m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r fakeUserRepo) Create(_ context.Context, _ pgx.Tx, user entities.User) (uint64, error) {
	user.ID = r.m.id()
	r.m.users[user.ID] = &user
	return user.ID, nil
}

func (r fakeUserRepo) SetActive(_ context.Context, _ pgx.Tx, id uint64, active bool) error {
	u, ok := r.m.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Active = active
	return nil
}

func (r fakeUserRepo) UpdatePasswordHash(_ context.Context, _ pgx.Tx, id uint64, hash string) error {
	u, ok := r.m.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r fakeUserRepo) DisableByPerson(_ context.Context, _ pgx.Tx, personID uint64) ([]uint64, error) {
	var ids []uint64
	for _, u := range r.m.users {
		if u.PersonID.Valid && u.PersonID.Uint64 == personID && u.Active {
			u.Active = false
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r fakeUserRepo) SetRoles(_ context.Context, _ pgx.Tx, userID uint64, roleIDs []uint64) error {
	r.m.userRoles[userID] = roleIDs
	return nil
}

func (r fakeUserRepo) SetDirectRoutes(_ context.Context, _ pgx.Tx, userID uint64, routeIDs []uint64) error {
	r.m.userRoutes[userID] = routeIDs
	return nil
}

type fakeCache struct {
	values map[string]string
	ttl    map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.values[key] = fmt.Sprint(value)
	c.ttl[key] = expiration
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
		delete(c.ttl, k)
	}
	return nil
}

func (c *fakeCache) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	var n int64
	fmt.Sscan(c.values[key], &n)
	n++
	c.values[key] = fmt.Sprint(n)
	if n == 1 {
		c.ttl[key] = ttl
	}
	return n, nil
}

// ---- файлы и отрисовка

type fakeFileStorage struct {
	files map[string][]byte
}

func (f *fakeFileStorage) Save(file io.Reader, fileName, prefix string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	path := prefix + "/" + fileName
	if _, ok := f.files[path]; ok {
		return "", fmt.Errorf("файл %s: %w", path, os.ErrExist)
	}
	f.files[path] = data
	return path, nil
}

func (f *fakeFileStorage) Delete(filePath string) error {
	if _, ok := f.files[filePath]; !ok {
		return fmt.Errorf("файл %s не найден", filePath)
	}
	delete(f.files, filePath)
	return nil
}

type fakeRenderer struct {
	err      error
	rendered *orgchart.Chart
}

func (r *fakeRenderer) Render(chart *orgchart.Chart) ([]byte, error) {
	r.rendered = chart
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png"), nil
}

func (r *fakeRenderer) Placeholder(message string) []byte {
	return bytes.NewBufferString("placeholder:" + message).Bytes()
}

// recorder собирает опубликованные события.
type recorder struct {
	events []eventbus.Event
}

func newRecordingBus(names ...string) (*eventbus.Bus, *recorder) {
	bus := eventbus.New(zap.NewNop())
	rec := &recorder{}
	for _, name := range names {
		bus.Subscribe(name, func(_ context.Context, e eventbus.Event) error {
			rec.events = append(rec.events, e)
			return nil
		})
	}
	return bus, rec
}

// hrFixture - сервисы поверх одной memStore.
type hrFixture struct {
	store       *memStore
	hierarchy   HierarchyServiceInterface
	reorganizer ReorganizerServiceInterface
	persons     *PersonService
	orgChart    OrgChartServiceInterface
	renderer    *fakeRenderer
	recorder    *recorder
}

func newHRFixture(today time.Time) *hrFixture {
	store := newMemStore()
	logger := zap.NewNop()
	hierarchy := NewHierarchyService(fakePersonRepo{store}, fakeEdgeRepo{store}, logger)
	reorganizer := NewReorganizerService(fakeAssignmentRepo{store}, hierarchy, logger)
	bus, rec := newRecordingBus(
		"hierarchy.reorganized",
		"person.terminated",
		"access.permissions.changed",
	)
	persons := NewPersonService(passTx{}, fakePersonRepo{store}, fakePositionRepo{store}, fakeDepartmentRepo{store},
		fakeAssignmentRepo{store}, fakeUserRepo{store}, hierarchy, reorganizer, bus, logger).(*PersonService)
	persons.today = func() time.Time { return today }
	renderer := &fakeRenderer{}
	chart := NewOrgChartService(fakePersonRepo{store}, fakeDepartmentRepo{store}, hierarchy, renderer, logger)

	return &hrFixture{
		store:       store,
		hierarchy:   hierarchy,
		reorganizer: reorganizer,
		persons:     persons,
		orgChart:    chart,
		renderer:    renderer,
		recorder:    rec,
	}
}

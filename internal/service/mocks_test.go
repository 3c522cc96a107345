package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/citywaste/waste-flow-api/internal/model"
)

// Map-backed repository fakes shared by the service tests.

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	return m.sorted(func(*model.User) bool { return true }), nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	return m.sorted(func(u *model.User) bool { return u.Role == role }), nil
}

func (m *mockUserRepo) DeleteByRole(_ context.Context, id int64, role model.Role) (*model.User, error) {
	u, ok := m.users[id]
	if !ok || u.Role != role {
		return nil, nil
	}
	delete(m.users, id)
	return u, nil
}

func (m *mockUserRepo) sorted(keep func(*model.User) bool) []model.User {
	var users []model.User
	for _, u := range m.users {
		if keep(u) {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

type mockCategoryRepo struct {
	categories map[int64]*model.Category
	nextID     int64
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[int64]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, c *model.Category) error {
	m.nextID++
	c.ID = m.nextID
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id int64) (*model.Category, error) {
	return m.categories[id], nil
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var categories []model.Category
	for _, c := range m.categories {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, c *model.Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id int64) error {
	delete(m.categories, id)
	return nil
}

type mockProductRepo struct {
	products map[int64]*model.Product
	nextID   int64
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int64]*model.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *model.Product) error {
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) List(_ context.Context) ([]model.Product, error) {
	var products []model.Product
	for _, p := range m.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *mockProductRepo) Update(_ context.Context, p *model.Product) error {
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id int64) error {
	delete(m.products, id)
	return nil
}

type mockOrderRepo struct {
	orders map[int64]*model.Order
	nextID int64
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[int64]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, o *model.Order) error {
	m.nextID++
	o.ID = m.nextID
	o.CreatedAt = time.Now()
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id int64, status model.OrderStatus) error {
	if o, ok := m.orders[id]; ok {
		o.Status = status
	}
	return nil
}

type mockPaymentRepo struct {
	payments map[int64]*model.Payment
	nextID   int64
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[int64]*model.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, p *model.Payment) error {
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) GetByReference(_ context.Context, reference string) (*model.Payment, error) {
	for _, p := range m.payments {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPaymentRepo) UpdateStatus(_ context.Context, id int64, status model.PaymentStatus) error {
	if p, ok := m.payments[id]; ok {
		p.Status = status
	}
	return nil
}

type mockCollectionRepo struct {
	collections map[int64]*model.WasteCollection
	nextID      int64
}

func newMockCollectionRepo() *mockCollectionRepo {
	return &mockCollectionRepo{collections: make(map[int64]*model.WasteCollection)}
}

func (m *mockCollectionRepo) Create(_ context.Context, c *model.WasteCollection) error {
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	m.collections[c.ID] = c
	return nil
}

func (m *mockCollectionRepo) GetByID(_ context.Context, id int64) (*model.WasteCollection, error) {
	c, ok := m.collections[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *mockCollectionRepo) List(_ context.Context) ([]model.WasteCollection, error) {
	return m.filtered(func(*model.WasteCollection) bool { return true }), nil
}

func (m *mockCollectionRepo) ListByUserID(_ context.Context, userID int64) ([]model.WasteCollection, error) {
	return m.filtered(func(c *model.WasteCollection) bool { return c.UserID == userID }), nil
}

func (m *mockCollectionRepo) ListByCollectorID(_ context.Context, collectorID int64) ([]model.WasteCollection, error) {
	return m.filtered(func(c *model.WasteCollection) bool {
		return c.CollectorID != nil && *c.CollectorID == collectorID
	}), nil
}

func (m *mockCollectionRepo) ListRecent(_ context.Context, limit int) ([]model.WasteCollection, error) {
	collections := m.filtered(func(*model.WasteCollection) bool { return true })
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].CreatedAt.After(collections[j].CreatedAt)
	})
	if len(collections) > limit {
		collections = collections[:limit]
	}
	return collections, nil
}

func (m *mockCollectionRepo) filtered(keep func(*model.WasteCollection) bool) []model.WasteCollection {
	var collections []model.WasteCollection
	for _, c := range m.collections {
		if keep(c) {
			collections = append(collections, *c)
		}
	}
	sort.Slice(collections, func(i, j int) bool { return collections[i].ID < collections[j].ID })
	return collections
}

func (m *mockCollectionRepo) Claim(_ context.Context, id, collectorID int64) (bool, error) {
	c, ok := m.collections[id]
	if !ok || c.Status == model.CollectionStatusCompleted {
		return false, nil
	}
	c.CollectorID = &collectorID
	c.Status = model.CollectionStatusInProgress
	return true, nil
}

func (m *mockCollectionRepo) Complete(_ context.Context, id, collectorID int64) error {
	c, ok := m.collections[id]
	if !ok || c.CollectorID == nil || *c.CollectorID != collectorID ||
		c.Status != model.CollectionStatusInProgress {
		return pgx.ErrNoRows
	}
	c.Status = model.CollectionStatusCompleted
	return nil
}

func (m *mockCollectionRepo) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, c := range m.collections {
		if !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *mockCollectionRepo) CountCompletedByCollector(_ context.Context, collectorID int64) (int, error) {
	n := 0
	for _, c := range m.collections {
		if c.CollectorID != nil && *c.CollectorID == collectorID &&
			c.Status == model.CollectionStatusCompleted {
			n++
		}
	}
	return n, nil
}

type mockComplaintRepo struct {
	complaints map[int64]*model.Complaint
	nextID     int64
}

func newMockComplaintRepo() *mockComplaintRepo {
	return &mockComplaintRepo{complaints: make(map[int64]*model.Complaint)}
}

func (m *mockComplaintRepo) Create(_ context.Context, c *model.Complaint) error {
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	m.complaints[c.ID] = c
	return nil
}

func (m *mockComplaintRepo) List(_ context.Context) ([]model.Complaint, error) {
	var complaints []model.Complaint
	for _, c := range m.complaints {
		complaints = append(complaints, *c)
	}
	sort.Slice(complaints, func(i, j int) bool { return complaints[i].ID < complaints[j].ID })
	return complaints, nil
}

func (m *mockComplaintRepo) ListByUserID(_ context.Context, userID int64) ([]model.Complaint, error) {
	var complaints []model.Complaint
	for _, c := range m.complaints {
		if c.UserID == userID {
			complaints = append(complaints, *c)
		}
	}
	sort.Slice(complaints, func(i, j int) bool { return complaints[i].ID < complaints[j].ID })
	return complaints, nil
}

func (m *mockComplaintRepo) UpdateStatus(_ context.Context, id int64, status model.ComplaintStatus) (*model.Complaint, error) {
	c, ok := m.complaints[id]
	if !ok {
		return nil, nil
	}
	c.Status = status
	return c, nil
}

func (m *mockComplaintRepo) CountUnresolved(_ context.Context) (int, error) {
	n := 0
	for _, c := range m.complaints {
		if c.Status != model.ComplaintStatusResolved {
			n++
		}
	}
	return n, nil
}

type mockLocationRepo struct {
	locations map[int64]*model.Location
	nextID    int64
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[int64]*model.Location)}
}

func (m *mockLocationRepo) Create(_ context.Context, l *model.Location) error {
	m.nextID++
	l.ID = m.nextID
	m.locations[l.ID] = l
	return nil
}

func (m *mockLocationRepo) List(_ context.Context) ([]model.Location, error) {
	var locations []model.Location
	for _, l := range m.locations {
		locations = append(locations, *l)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].ID < locations[j].ID })
	return locations, nil
}

func (m *mockLocationRepo) Update(_ context.Context, l *model.Location) error {
	if _, ok := m.locations[l.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.locations[l.ID] = l
	return nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.locations[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.locations, id)
	return nil
}

type mockStatsRepo struct {
	users *mockUserRepo
}

func (m *mockStatsRepo) CountUsers(_ context.Context) (int, error) {
	return len(m.users.users), nil
}

func (m *mockStatsRepo) CountUsersByRole(_ context.Context, role model.Role) (int, error) {
	n := 0
	for _, u := range m.users.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

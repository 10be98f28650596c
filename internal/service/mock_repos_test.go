package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
)

var idSeq int

func testID(prefix string) string {
	idSeq++
	return fmt.Sprintf("%s-%d", prefix, idSeq)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func dateIn(d time.Time, dates []time.Time) bool {
	for _, t := range dates {
		if sameDate(d, t) {
			return true
		}
	}
	return false
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = testID("user")
	}
	user.IsActive = true
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok && u.IsActive {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role, _ string, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if !u.IsActive {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		result = append(result, *u)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockUserRepo) ListByRoles(_ context.Context, roles []string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if !u.IsActive {
			continue
		}
		for _, r := range roles {
			if u.Role == r {
				result = append(result, *u)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockUserRepo) SoftDelete(_ context.Context, id string) error {
	if u, ok := m.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	projects map[string]*model.Project
	plans    map[string]*model.ProjectPlan
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{
		projects: make(map[string]*model.Project),
		plans:    make(map[string]*model.ProjectPlan),
	}
}

func (m *mockProjectRepo) Create(_ context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = testID("proj")
	}
	p.IsActive = true
	m.projects[p.ID] = p
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	if p, ok := m.projects[id]; ok && p.IsActive {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) Update(_ context.Context, p *model.Project) error {
	m.projects[p.ID] = p
	return nil
}

func (m *mockProjectRepo) List(_ context.Context, status, _ string, offset, limit int) ([]model.Project, int64, error) {
	var result []model.Project
	for _, p := range m.projects {
		if !p.IsActive {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		result = append(result, *p)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockProjectRepo) ListActive(_ context.Context) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.projects {
		if p.IsActive && p.Status == model.ProjectStatusActive {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) ListStartingOn(_ context.Context, dates []time.Time) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.projects {
		if !p.IsActive || p.PMUserID == nil || (p.Status != model.ProjectStatusDraft && p.Status != model.ProjectStatusPlanning && p.Status != model.ProjectStatusActive) {
			continue
		}
		if p.StartDate != nil && dateIn(*p.StartDate, dates) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) ListEndingOn(_ context.Context, dates []time.Time) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.projects {
		if !p.IsActive || p.PMUserID == nil || p.Status != model.ProjectStatusActive {
			continue
		}
		if p.EndDatePlan != nil && dateIn(*p.EndDatePlan, dates) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, p := range m.projects {
		if p.IsActive && p.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockProjectRepo) Count(_ context.Context) (int64, error) {
	var n int64
	for _, p := range m.projects {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *mockProjectRepo) SumBudgets(_ context.Context) (float64, error) {
	var sum float64
	for _, p := range m.projects {
		if p.IsActive {
			sum += p.Budget
		}
	}
	return sum, nil
}

func (m *mockProjectRepo) SoftDelete(_ context.Context, id string) error {
	if p, ok := m.projects[id]; ok {
		p.IsActive = false
	}
	return nil
}

func (m *mockProjectRepo) CreatePlan(_ context.Context, plan *model.ProjectPlan) error {
	if plan.ID == "" {
		plan.ID = testID("plan")
	}
	m.plans[plan.ID] = plan
	return nil
}

func (m *mockProjectRepo) GetPlanByID(_ context.Context, id string) (*model.ProjectPlan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) ListPlans(_ context.Context, projectID string) ([]model.ProjectPlan, error) {
	var result []model.ProjectPlan
	for _, p := range m.plans {
		if p.ProjectID == projectID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) DeletePlan(_ context.Context, id string) error {
	delete(m.plans, id)
	return nil
}

// ── Mock EquipmentRepository ──

type mockEquipmentRepo struct {
	equipment   map[string]*model.Equipment
	assignments []*model.EquipmentAssignment
	documents   []*model.EquipmentDocument
	maintenance []*model.EquipmentMaintenance

	// createAssignmentErr 非空时 CreateAssignment 直接返回该错误，模拟数据库约束冲突
	createAssignmentErr error
}

func newMockEquipmentRepo() *mockEquipmentRepo {
	return &mockEquipmentRepo{equipment: make(map[string]*model.Equipment)}
}

func (m *mockEquipmentRepo) Create(_ context.Context, eq *model.Equipment) error {
	if eq.ID == "" {
		eq.ID = testID("eq")
	}
	eq.IsActive = true
	m.equipment[eq.ID] = eq
	return nil
}

func (m *mockEquipmentRepo) GetByID(_ context.Context, id string) (*model.Equipment, error) {
	if e, ok := m.equipment[id]; ok && e.IsActive {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEquipmentRepo) Update(_ context.Context, eq *model.Equipment) error {
	m.equipment[eq.ID] = eq
	return nil
}

func (m *mockEquipmentRepo) List(_ context.Context, typ, status, _ string, offset, limit int) ([]model.Equipment, int64, error) {
	var result []model.Equipment
	for _, e := range m.equipment {
		if !e.IsActive {
			continue
		}
		if typ != "" && e.Type != typ {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		result = append(result, *e)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockEquipmentRepo) ListAll(_ context.Context) ([]model.Equipment, error) {
	var result []model.Equipment
	for _, e := range m.equipment {
		if e.IsActive {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockEquipmentRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, e := range m.equipment {
		if e.IsActive && e.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockEquipmentRepo) Count(_ context.Context) (int64, error) {
	var n int64
	for _, e := range m.equipment {
		if e.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *mockEquipmentRepo) SoftDelete(_ context.Context, id string) error {
	if e, ok := m.equipment[id]; ok {
		e.IsActive = false
	}
	return nil
}

func (m *mockEquipmentRepo) GetOpenAssignmentForUpdate(_ context.Context, equipmentID string) (*model.EquipmentAssignment, error) {
	for _, a := range m.assignments {
		if a.EquipmentID == equipmentID && a.ToTs == nil {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEquipmentRepo) HasOpenAssignment(_ context.Context, equipmentID string) (bool, error) {
	for _, a := range m.assignments {
		if a.EquipmentID == equipmentID && a.ToTs == nil {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEquipmentRepo) CreateAssignment(_ context.Context, a *model.EquipmentAssignment) error {
	if m.createAssignmentErr != nil {
		return m.createAssignmentErr
	}
	if a.ID == "" {
		a.ID = testID("eqa")
	}
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *mockEquipmentRepo) GetAssignmentByID(_ context.Context, id string) (*model.EquipmentAssignment, error) {
	for _, a := range m.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEquipmentRepo) ListAssignments(_ context.Context, equipmentID string, offset, limit int) ([]model.EquipmentAssignment, int64, error) {
	var result []model.EquipmentAssignment
	for _, a := range m.assignments {
		if a.EquipmentID == equipmentID {
			result = append(result, *a)
		}
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockEquipmentRepo) ListAssignmentsByProject(_ context.Context, projectID string) ([]model.EquipmentAssignment, error) {
	var result []model.EquipmentAssignment
	for _, a := range m.assignments {
		if a.ProjectID != nil && *a.ProjectID == projectID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockEquipmentRepo) ListAssignmentsSince(_ context.Context, since time.Time) ([]model.EquipmentAssignment, error) {
	var result []model.EquipmentAssignment
	for _, a := range m.assignments {
		if a.FromTs.Before(since) && a.ToTs != nil {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FromTs.Before(result[j].FromTs) })
	return result, nil
}

func (m *mockEquipmentRepo) EndAssignment(_ context.Context, id string, toTs time.Time) error {
	for _, a := range m.assignments {
		if a.ID == id && a.ToTs == nil {
			t := toTs
			a.ToTs = &t
			return nil
		}
	}
	return nil
}

func (m *mockEquipmentRepo) CreateDocument(_ context.Context, doc *model.EquipmentDocument) error {
	if doc.ID == "" {
		doc.ID = testID("eqd")
	}
	doc.IsActive = true
	m.documents = append(m.documents, doc)
	return nil
}

func (m *mockEquipmentRepo) ListDocuments(_ context.Context, equipmentID string) ([]model.EquipmentDocument, error) {
	var result []model.EquipmentDocument
	for _, d := range m.documents {
		if d.EquipmentID == equipmentID && d.IsActive {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockEquipmentRepo) ListDocumentsExpiringOn(_ context.Context, dates []time.Time) ([]model.EquipmentDocument, error) {
	var result []model.EquipmentDocument
	for _, d := range m.documents {
		if d.IsActive && d.ExpiryDate != nil && dateIn(*d.ExpiryDate, dates) {
			doc := *d
			doc.Equipment = m.equipment[d.EquipmentID]
			result = append(result, doc)
		}
	}
	return result, nil
}

func (m *mockEquipmentRepo) SoftDeleteDocument(_ context.Context, id string) error {
	for _, d := range m.documents {
		if d.ID == id {
			d.IsActive = false
		}
	}
	return nil
}

func (m *mockEquipmentRepo) CreateMaintenance(_ context.Context, mt *model.EquipmentMaintenance) error {
	if mt.ID == "" {
		mt.ID = testID("eqm")
	}
	m.maintenance = append(m.maintenance, mt)
	return nil
}

func (m *mockEquipmentRepo) GetMaintenanceByID(_ context.Context, id string) (*model.EquipmentMaintenance, error) {
	for _, mt := range m.maintenance {
		if mt.ID == id {
			return mt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEquipmentRepo) UpdateMaintenance(_ context.Context, mt *model.EquipmentMaintenance) error {
	for i, cur := range m.maintenance {
		if cur.ID == mt.ID {
			m.maintenance[i] = mt
		}
	}
	return nil
}

func (m *mockEquipmentRepo) ListMaintenance(_ context.Context, equipmentID string) ([]model.EquipmentMaintenance, error) {
	var result []model.EquipmentMaintenance
	for _, mt := range m.maintenance {
		if mt.EquipmentID == equipmentID {
			result = append(result, *mt)
		}
	}
	return result, nil
}

func (m *mockEquipmentRepo) ListMaintenanceScheduledOn(_ context.Context, dates []time.Time) ([]model.EquipmentMaintenance, error) {
	var result []model.EquipmentMaintenance
	for _, mt := range m.maintenance {
		if mt.Status == "scheduled" && dateIn(mt.ScheduledDate, dates) {
			item := *mt
			item.Equipment = m.equipment[mt.EquipmentID]
			result = append(result, item)
		}
	}
	return result, nil
}

// ── Mock VehicleRepository ──

type mockVehicleRepo struct {
	vehicles    map[string]*model.Vehicle
	assignments []*model.VehicleAssignment
	documents   []*model.VehicleDocument
}

func newMockVehicleRepo() *mockVehicleRepo {
	return &mockVehicleRepo{vehicles: make(map[string]*model.Vehicle)}
}

func (m *mockVehicleRepo) Create(_ context.Context, v *model.Vehicle) error {
	if v.ID == "" {
		v.ID = testID("veh")
	}
	v.IsActive = true
	m.vehicles[v.ID] = v
	return nil
}

func (m *mockVehicleRepo) GetByID(_ context.Context, id string) (*model.Vehicle, error) {
	if v, ok := m.vehicles[id]; ok && v.IsActive {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVehicleRepo) GetByPlate(_ context.Context, plate string) (*model.Vehicle, error) {
	for _, v := range m.vehicles {
		if v.PlateNumber == plate && v.IsActive {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVehicleRepo) Update(_ context.Context, v *model.Vehicle) error {
	m.vehicles[v.ID] = v
	return nil
}

func (m *mockVehicleRepo) List(_ context.Context, typ, status, _ string, offset, limit int) ([]model.Vehicle, int64, error) {
	var result []model.Vehicle
	for _, v := range m.vehicles {
		if !v.IsActive {
			continue
		}
		if typ != "" && v.Type != typ {
			continue
		}
		if status != "" && v.Status != status {
			continue
		}
		result = append(result, *v)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockVehicleRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, v := range m.vehicles {
		if v.IsActive && v.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockVehicleRepo) Count(_ context.Context) (int64, error) {
	var n int64
	for _, v := range m.vehicles {
		if v.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *mockVehicleRepo) SoftDelete(_ context.Context, id string) error {
	if v, ok := m.vehicles[id]; ok {
		v.IsActive = false
	}
	return nil
}

func (m *mockVehicleRepo) GetOpenAssignmentForUpdate(_ context.Context, vehicleID string) (*model.VehicleAssignment, error) {
	for _, a := range m.assignments {
		if a.VehicleID == vehicleID && a.ToTs == nil {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVehicleRepo) HasOpenAssignment(_ context.Context, vehicleID string) (bool, error) {
	for _, a := range m.assignments {
		if a.VehicleID == vehicleID && a.ToTs == nil {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockVehicleRepo) CreateAssignment(_ context.Context, a *model.VehicleAssignment) error {
	if a.ID == "" {
		a.ID = testID("veha")
	}
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *mockVehicleRepo) GetAssignmentByID(_ context.Context, id string) (*model.VehicleAssignment, error) {
	for _, a := range m.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVehicleRepo) ListAssignments(_ context.Context, vehicleID string, offset, limit int) ([]model.VehicleAssignment, int64, error) {
	var result []model.VehicleAssignment
	for _, a := range m.assignments {
		if a.VehicleID == vehicleID {
			result = append(result, *a)
		}
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockVehicleRepo) ListAssignmentsByProject(_ context.Context, projectID string) ([]model.VehicleAssignment, error) {
	var result []model.VehicleAssignment
	for _, a := range m.assignments {
		if a.ProjectID != nil && *a.ProjectID == projectID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockVehicleRepo) EndAssignment(_ context.Context, id string, toTs time.Time) error {
	for _, a := range m.assignments {
		if a.ID == id && a.ToTs == nil {
			t := toTs
			a.ToTs = &t
			return nil
		}
	}
	return nil
}

func (m *mockVehicleRepo) CreateDocument(_ context.Context, doc *model.VehicleDocument) error {
	if doc.ID == "" {
		doc.ID = testID("vehd")
	}
	doc.IsActive = true
	m.documents = append(m.documents, doc)
	return nil
}

func (m *mockVehicleRepo) ListDocuments(_ context.Context, vehicleID string) ([]model.VehicleDocument, error) {
	var result []model.VehicleDocument
	for _, d := range m.documents {
		if d.VehicleID == vehicleID && d.IsActive {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockVehicleRepo) ListDocumentsExpiringOn(_ context.Context, dates []time.Time) ([]model.VehicleDocument, error) {
	var result []model.VehicleDocument
	for _, d := range m.documents {
		if d.IsActive && d.ExpiryDate != nil && dateIn(*d.ExpiryDate, dates) {
			doc := *d
			doc.Vehicle = m.vehicles[d.VehicleID]
			result = append(result, doc)
		}
	}
	return result, nil
}

func (m *mockVehicleRepo) SoftDeleteDocument(_ context.Context, id string) error {
	for _, d := range m.documents {
		if d.ID == id {
			d.IsActive = false
		}
	}
	return nil
}

// ── Mock MaterialRepository ──

type mockMaterialRepo struct {
	materials   map[string]*model.Material
	orders      map[string]*model.MaterialOrder
	allocations map[string]*model.MaterialAllocation
}

func newMockMaterialRepo() *mockMaterialRepo {
	return &mockMaterialRepo{
		materials:   make(map[string]*model.Material),
		orders:      make(map[string]*model.MaterialOrder),
		allocations: make(map[string]*model.MaterialAllocation),
	}
}

func (m *mockMaterialRepo) Create(_ context.Context, mat *model.Material) error {
	if mat.ID == "" {
		mat.ID = testID("mat")
	}
	mat.IsActive = true
	m.materials[mat.ID] = mat
	return nil
}

func (m *mockMaterialRepo) GetByID(_ context.Context, id string) (*model.Material, error) {
	if mat, ok := m.materials[id]; ok && mat.IsActive {
		return mat, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMaterialRepo) Update(_ context.Context, mat *model.Material) error {
	m.materials[mat.ID] = mat
	return nil
}

func (m *mockMaterialRepo) List(_ context.Context, _ string, lowStock bool, offset, limit int) ([]model.Material, int64, error) {
	var result []model.Material
	for _, mat := range m.materials {
		if !mat.IsActive {
			continue
		}
		if lowStock && mat.CurrentStockQty-mat.ReservedQty > mat.MinStockLevel {
			continue
		}
		result = append(result, *mat)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockMaterialRepo) CountLowStock(_ context.Context) (int64, error) {
	var n int64
	for _, mat := range m.materials {
		if mat.IsActive && mat.CurrentStockQty-mat.ReservedQty <= mat.MinStockLevel {
			n++
		}
	}
	return n, nil
}

func (m *mockMaterialRepo) AdjustStock(_ context.Context, id string, delta float64) error {
	mat, ok := m.materials[id]
	if !ok || !mat.IsActive || mat.CurrentStockQty+delta < 0 {
		return gorm.ErrRecordNotFound
	}
	mat.CurrentStockQty += delta
	return nil
}

func (m *mockMaterialRepo) SoftDelete(_ context.Context, id string) error {
	if mat, ok := m.materials[id]; ok {
		mat.IsActive = false
	}
	return nil
}

func (m *mockMaterialRepo) CreateOrder(_ context.Context, o *model.MaterialOrder) error {
	if o.ID == "" {
		o.ID = testID("ord")
	}
	m.orders[o.ID] = o
	return nil
}

func (m *mockMaterialRepo) GetOrderByID(_ context.Context, id string) (*model.MaterialOrder, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMaterialRepo) UpdateOrder(_ context.Context, o *model.MaterialOrder) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockMaterialRepo) ListOrders(_ context.Context, status, projectID string, offset, limit int) ([]model.MaterialOrder, int64, error) {
	var result []model.MaterialOrder
	for _, o := range m.orders {
		if status != "" && o.Status != status {
			continue
		}
		if projectID != "" && (o.ProjectID == nil || *o.ProjectID != projectID) {
			continue
		}
		result = append(result, *o)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockMaterialRepo) CountOrdersByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, o := range m.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockMaterialRepo) ListOrdersDeliveringOn(_ context.Context, dates []time.Time) ([]model.MaterialOrder, error) {
	var result []model.MaterialOrder
	for _, o := range m.orders {
		if o.Status != model.OrderStatusPending && o.Status != model.OrderStatusOrdered {
			continue
		}
		if o.ExpectedDeliveryDate != nil && dateIn(*o.ExpectedDeliveryDate, dates) {
			order := *o
			order.Material = m.materials[o.MaterialID]
			result = append(result, order)
		}
	}
	return result, nil
}

func (m *mockMaterialRepo) CreateAllocation(_ context.Context, a *model.MaterialAllocation) error {
	if a.ID == "" {
		a.ID = testID("alloc")
	}
	m.allocations[a.ID] = a
	return nil
}

func (m *mockMaterialRepo) GetAllocationByID(_ context.Context, id string) (*model.MaterialAllocation, error) {
	if a, ok := m.allocations[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMaterialRepo) UpdateAllocation(_ context.Context, a *model.MaterialAllocation) error {
	m.allocations[a.ID] = a
	return nil
}

func (m *mockMaterialRepo) ListAllocations(_ context.Context, materialID, projectID string, offset, limit int) ([]model.MaterialAllocation, int64, error) {
	var result []model.MaterialAllocation
	for _, a := range m.allocations {
		if materialID != "" && a.MaterialID != materialID {
			continue
		}
		if projectID != "" && (a.ProjectID == nil || *a.ProjectID != projectID) {
			continue
		}
		result = append(result, *a)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockMaterialRepo) SumAllocationCostByProject(_ context.Context, projectID string) (float64, error) {
	var sum float64
	for _, a := range m.allocations {
		if a.ProjectID == nil || *a.ProjectID != projectID {
			continue
		}
		if mat, ok := m.materials[a.MaterialID]; ok {
			sum += a.AllocatedQty * mat.DefaultPriceEUR
		}
	}
	return sum, nil
}

// ── Mock CrewRepository ──

type mockCrewRepo struct {
	crews   map[string]*model.Crew
	members []*model.CrewMember
}

func newMockCrewRepo() *mockCrewRepo {
	return &mockCrewRepo{crews: make(map[string]*model.Crew)}
}

func (m *mockCrewRepo) Create(_ context.Context, c *model.Crew) error {
	if c.ID == "" {
		c.ID = testID("crew")
	}
	c.IsActive = true
	m.crews[c.ID] = c
	return nil
}

func (m *mockCrewRepo) GetByID(_ context.Context, id string) (*model.Crew, error) {
	if c, ok := m.crews[id]; ok && c.IsActive {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCrewRepo) Update(_ context.Context, c *model.Crew) error {
	m.crews[c.ID] = c
	return nil
}

func (m *mockCrewRepo) List(_ context.Context, projectID, status string, offset, limit int) ([]model.Crew, int64, error) {
	var result []model.Crew
	for _, c := range m.crews {
		if !c.IsActive {
			continue
		}
		if projectID != "" && (c.ProjectID == nil || *c.ProjectID != projectID) {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		result = append(result, *c)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockCrewRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, c := range m.crews {
		if c.IsActive && c.Status == "active" {
			n++
		}
	}
	return n, nil
}

func (m *mockCrewRepo) SoftDelete(_ context.Context, id string) error {
	if c, ok := m.crews[id]; ok {
		c.IsActive = false
	}
	return nil
}

func (m *mockCrewRepo) AddMember(_ context.Context, member *model.CrewMember) error {
	if member.ID == "" {
		member.ID = testID("member")
	}
	m.members = append(m.members, member)
	return nil
}

func (m *mockCrewRepo) GetMemberByID(_ context.Context, id string) (*model.CrewMember, error) {
	for _, member := range m.members {
		if member.ID == id {
			return member, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCrewRepo) GetActiveMembership(_ context.Context, userID string) (*model.CrewMember, error) {
	for _, member := range m.members {
		if member.UserID == userID && member.ActiveTo == nil {
			return member, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCrewRepo) ListMembers(_ context.Context, crewID string) ([]model.CrewMember, error) {
	var result []model.CrewMember
	for _, member := range m.members {
		if member.CrewID == crewID {
			result = append(result, *member)
		}
	}
	return result, nil
}

func (m *mockCrewRepo) EndMembership(_ context.Context, id string, activeTo time.Time) error {
	for _, member := range m.members {
		if member.ID == id && member.ActiveTo == nil {
			t := activeTo
			member.ActiveTo = &t
			return nil
		}
	}
	return nil
}

// ── Mock DocumentRepository ──

type mockDocumentRepo struct {
	docs map[string]*model.Document
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[string]*model.Document)}
}

func (m *mockDocumentRepo) Create(_ context.Context, doc *model.Document) error {
	if doc.ID == "" {
		doc.ID = testID("doc")
	}
	doc.IsActive = true
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockDocumentRepo) GetByID(_ context.Context, id string) (*model.Document, error) {
	if d, ok := m.docs[id]; ok && d.IsActive {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDocumentRepo) Update(_ context.Context, doc *model.Document) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockDocumentRepo) List(_ context.Context, projectID, houseID, category string, offset, limit int) ([]model.Document, int64, error) {
	var result []model.Document
	for _, d := range m.docs {
		if !d.IsActive {
			continue
		}
		if projectID != "" && (d.ProjectID == nil || *d.ProjectID != projectID) {
			continue
		}
		if houseID != "" && (d.HouseID == nil || *d.HouseID != houseID) {
			continue
		}
		if category != "" && d.Category != category {
			continue
		}
		result = append(result, *d)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockDocumentRepo) SoftDelete(_ context.Context, id string) error {
	if d, ok := m.docs[id]; ok {
		d.IsActive = false
	}
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = testID("notif")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	for _, n := range m.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) List(_ context.Context, userID string, f repository.NotificationFilter, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		if f.Category != "" && (n.Category == nil || *n.Category != f.Category) {
			continue
		}
		if f.Priority != "" && n.Priority != f.Priority {
			continue
		}
		if f.CreatedAfter != nil && !n.CreatedAt.After(*f.CreatedAfter) {
			continue
		}
		result = append(result, *n)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockNotificationRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, item := range m.notifications {
		if item.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) CountUrgentUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, item := range m.notifications {
		if item.UserID == userID && !item.IsRead && item.Priority == model.NotificationPriorityUrgent {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, item := range m.notifications {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) CountUnreadAll(_ context.Context) (int64, error) {
	var n int64
	for _, item := range m.notifications {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) HasRecent(_ context.Context, userID, title string, since time.Time) (bool, error) {
	for _, n := range m.notifications {
		if n.UserID == userID && n.Title == title && n.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var updated int64
	now := time.Now()
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			updated++
		}
	}
	return updated, nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, id, userID string) error {
	for i, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock FinancialRepository ──

type mockFinancialRepo struct {
	costs        []*model.Cost
	transactions []*model.Transaction
	// 按项目聚合需要项目名和预算
	projects map[string]*model.Project
}

func newMockFinancialRepo() *mockFinancialRepo {
	return &mockFinancialRepo{projects: make(map[string]*model.Project)}
}

func costMatches(c *model.Cost, f repository.FinancialFilter) bool {
	if f.ProjectID != "" && c.ProjectID != f.ProjectID {
		return false
	}
	if f.StartDate != nil && c.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && c.Date.After(*f.EndDate) {
		return false
	}
	return true
}

func txMatches(t *model.Transaction, f repository.FinancialFilter) bool {
	if f.ProjectID != "" && (t.ProjectID == nil || *t.ProjectID != f.ProjectID) {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	return true
}

func (m *mockFinancialRepo) CreateCost(_ context.Context, c *model.Cost) error {
	if c.ID == "" {
		c.ID = testID("cost")
	}
	m.costs = append(m.costs, c)
	return nil
}

func (m *mockFinancialRepo) ListCosts(_ context.Context, f repository.FinancialFilter, offset, limit int) ([]model.Cost, int64, error) {
	var result []model.Cost
	for _, c := range m.costs {
		if costMatches(c, f) {
			result = append(result, *c)
		}
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockFinancialRepo) SumCostsByType(_ context.Context, f repository.FinancialFilter) ([]repository.TypeAmount, error) {
	sums := make(map[string]float64)
	for _, c := range m.costs {
		if costMatches(c, f) {
			sums[c.CostType] += c.AmountEUR
		}
	}
	return toTypeAmounts(sums), nil
}

func (m *mockFinancialRepo) SumCostsByMonth(_ context.Context, f repository.FinancialFilter) ([]repository.MonthAmount, error) {
	sums := make(map[string]float64)
	for _, c := range m.costs {
		if costMatches(c, f) {
			sums[c.Date.Format("2006-01")] += c.AmountEUR
		}
	}
	return toMonthAmounts(sums), nil
}

func (m *mockFinancialRepo) SumCostsByProject(_ context.Context, f repository.FinancialFilter) ([]repository.ProjectAmount, error) {
	sums := make(map[string]float64)
	for _, c := range m.costs {
		if costMatches(c, f) {
			sums[c.ProjectID] += c.AmountEUR
		}
	}
	var result []repository.ProjectAmount
	for pid, amount := range sums {
		pa := repository.ProjectAmount{ProjectID: pid, Amount: amount}
		if p, ok := m.projects[pid]; ok {
			pa.ProjectName = p.Name
			pa.Budget = p.Budget
		}
		result = append(result, pa)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProjectID < result[j].ProjectID })
	return result, nil
}

func (m *mockFinancialRepo) SumCosts(_ context.Context, f repository.FinancialFilter) (float64, error) {
	var sum float64
	for _, c := range m.costs {
		if costMatches(c, f) {
			sum += c.AmountEUR
		}
	}
	return sum, nil
}

func (m *mockFinancialRepo) CreateTransaction(_ context.Context, t *model.Transaction) error {
	if t.ID == "" {
		t.ID = testID("tx")
	}
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *mockFinancialRepo) ListTransactions(_ context.Context, f repository.FinancialFilter, offset, limit int) ([]model.Transaction, int64, error) {
	var result []model.Transaction
	for _, t := range m.transactions {
		if txMatches(t, f) {
			result = append(result, *t)
		}
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockFinancialRepo) SumTransactionsByType(_ context.Context, f repository.FinancialFilter) ([]repository.TypeAmount, error) {
	sums := make(map[string]float64)
	for _, t := range m.transactions {
		if txMatches(t, f) {
			sums[t.Type] += t.AmountEUR
		}
	}
	return toTypeAmounts(sums), nil
}

func (m *mockFinancialRepo) SumTransactionsByMonth(_ context.Context, f repository.FinancialFilter, txType string) ([]repository.MonthAmount, error) {
	sums := make(map[string]float64)
	for _, t := range m.transactions {
		if t.Type == txType && txMatches(t, f) {
			sums[t.Date.Format("2006-01")] += t.AmountEUR
		}
	}
	return toMonthAmounts(sums), nil
}

func toTypeAmounts(sums map[string]float64) []repository.TypeAmount {
	var result []repository.TypeAmount
	for typ, amount := range sums {
		result = append(result, repository.TypeAmount{Type: typ, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}

func toMonthAmounts(sums map[string]float64) []repository.MonthAmount {
	var result []repository.MonthAmount
	for month, amount := range sums {
		result = append(result, repository.MonthAmount{Month: month, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}

// ── Mock FacilityRepository ──

type mockFacilityRepo struct {
	facilities map[string]*model.Facility
	housing    map[string]*model.HousingUnit
}

func newMockFacilityRepo() *mockFacilityRepo {
	return &mockFacilityRepo{
		facilities: make(map[string]*model.Facility),
		housing:    make(map[string]*model.HousingUnit),
	}
}

func (m *mockFacilityRepo) CreateFacility(_ context.Context, f *model.Facility) error {
	if f.ID == "" {
		f.ID = testID("fac")
	}
	m.facilities[f.ID] = f
	return nil
}

func (m *mockFacilityRepo) GetFacilityByID(_ context.Context, id string) (*model.Facility, error) {
	if f, ok := m.facilities[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFacilityRepo) UpdateFacility(_ context.Context, f *model.Facility) error {
	m.facilities[f.ID] = f
	return nil
}

func (m *mockFacilityRepo) ListFacilities(_ context.Context, projectID string) ([]model.Facility, error) {
	var result []model.Facility
	for _, f := range m.facilities {
		if f.ProjectID == projectID {
			result = append(result, *f)
		}
	}
	return result, nil
}

func (m *mockFacilityRepo) DeleteFacility(_ context.Context, id string) error {
	delete(m.facilities, id)
	return nil
}

func (m *mockFacilityRepo) CreateHousing(_ context.Context, h *model.HousingUnit) error {
	if h.ID == "" {
		h.ID = testID("house")
	}
	m.housing[h.ID] = h
	return nil
}

func (m *mockFacilityRepo) GetHousingByID(_ context.Context, id string) (*model.HousingUnit, error) {
	if h, ok := m.housing[id]; ok {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFacilityRepo) UpdateHousing(_ context.Context, h *model.HousingUnit) error {
	m.housing[h.ID] = h
	return nil
}

func (m *mockFacilityRepo) ListHousing(_ context.Context, projectID string) ([]model.HousingUnit, error) {
	var result []model.HousingUnit
	for _, h := range m.housing {
		if h.ProjectID == projectID {
			result = append(result, *h)
		}
	}
	return result, nil
}

func (m *mockFacilityRepo) DeleteHousing(_ context.Context, id string) error {
	delete(m.housing, id)
	return nil
}

// ── Mock WorkEntryRepository ──

type mockWorkEntryRepo struct {
	entries map[string]*model.WorkEntry
}

func newMockWorkEntryRepo() *mockWorkEntryRepo {
	return &mockWorkEntryRepo{entries: make(map[string]*model.WorkEntry)}
}

func (m *mockWorkEntryRepo) Create(_ context.Context, e *model.WorkEntry) error {
	if e.ID == "" {
		e.ID = testID("we")
	}
	m.entries[e.ID] = e
	return nil
}

func (m *mockWorkEntryRepo) GetByID(_ context.Context, id string) (*model.WorkEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkEntryRepo) Update(_ context.Context, e *model.WorkEntry) error {
	m.entries[e.ID] = e
	return nil
}

func (m *mockWorkEntryRepo) List(_ context.Context, projectID, crewID string, offset, limit int) ([]model.WorkEntry, int64, error) {
	var result []model.WorkEntry
	for _, e := range m.entries {
		if e.ProjectID != projectID {
			continue
		}
		if crewID != "" && (e.CrewID == nil || *e.CrewID != crewID) {
			continue
		}
		result = append(result, *e)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockWorkEntryRepo) SumMetersByProject(_ context.Context, projectID string) (float64, error) {
	var sum float64
	for _, e := range m.entries {
		if e.ProjectID == projectID && e.Approved {
			sum += e.MetersDoneM
		}
	}
	return sum, nil
}

func (m *mockWorkEntryRepo) SumLaborCostByProject(_ context.Context, projectID string) (float64, error) {
	var sum float64
	for _, e := range m.entries {
		if e.ProjectID == projectID {
			sum += e.LaborCostEUR
		}
	}
	return sum, nil
}

// ── 测试聚合 ──

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user      *mockUserRepo
	project   *mockProjectRepo
	equipment *mockEquipmentRepo
	vehicle   *mockVehicleRepo
	material  *mockMaterialRepo
	crew      *mockCrewRepo
	document  *mockDocumentRepo
	notif     *mockNotificationRepo
	financial *mockFinancialRepo
	facility  *mockFacilityRepo
	workEntry *mockWorkEntryRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		user:      newMockUserRepo(),
		project:   newMockProjectRepo(),
		equipment: newMockEquipmentRepo(),
		vehicle:   newMockVehicleRepo(),
		material:  newMockMaterialRepo(),
		crew:      newMockCrewRepo(),
		document:  newMockDocumentRepo(),
		notif:     newMockNotificationRepo(),
		financial: newMockFinancialRepo(),
		facility:  newMockFacilityRepo(),
		workEntry: newMockWorkEntryRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:         r.user,
		Project:      r.project,
		Equipment:    r.equipment,
		Vehicle:      r.vehicle,
		Material:     r.material,
		Crew:         r.crew,
		Document:     r.document,
		Notification: r.notif,
		Financial:    r.financial,
		Facility:     r.facility,
		WorkEntry:    r.workEntry,
	}
}

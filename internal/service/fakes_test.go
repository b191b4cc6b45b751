package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

// memDB is an in-memory stand-in for Postgres. WithinTx snapshots the whole
// state and restores it when fn fails, which is enough to observe atomicity.
type memDB struct {
	users         map[uuid.UUID]domain.User
	resets        []domain.PasswordReset
	jobs          map[int64]domain.Job
	connections   map[int64]domain.ConnectionRequest
	notifications []domain.Notification
	nextID        int64

	// failures injected by tests
	findByEmailErr error
	createResetErr error
	updatePwErr    error

	// run just before a connection write, to interleave another transaction
	beforeConnectionWrite func()

	locked    []uuid.UUID
	commits   int
	rollbacks int
}

func newMemDB() *memDB {
	return &memDB{
		users:       make(map[uuid.UUID]domain.User),
		jobs:        make(map[int64]domain.Job),
		connections: make(map[int64]domain.ConnectionRequest),
	}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) addUser(name, email string, role domain.Role) domain.User {
	u := domain.User{ID: uuid.New(), FullName: name, Email: email, Role: role, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.users[u.ID] = u
	return u
}

func (m *memDB) resetsFor(userID uuid.UUID) []domain.PasswordReset {
	out := make([]domain.PasswordReset, 0)
	for _, r := range m.resets {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

type memSnapshot struct {
	users         map[uuid.UUID]domain.User
	resets        []domain.PasswordReset
	jobs          map[int64]domain.Job
	connections   map[int64]domain.ConnectionRequest
	notifications []domain.Notification
}

func (m *memDB) snapshot() memSnapshot {
	s := memSnapshot{
		users:         make(map[uuid.UUID]domain.User, len(m.users)),
		resets:        append([]domain.PasswordReset(nil), m.resets...),
		jobs:          make(map[int64]domain.Job, len(m.jobs)),
		connections:   make(map[int64]domain.ConnectionRequest, len(m.connections)),
		notifications: append([]domain.Notification(nil), m.notifications...),
	}
	for k, v := range m.users {
		s.users[k] = v
	}
	for k, v := range m.jobs {
		s.jobs[k] = v
	}
	for k, v := range m.connections {
		s.connections[k] = v
	}
	return s
}

func (m *memDB) restore(s memSnapshot) {
	m.users = s.users
	m.resets = s.resets
	m.jobs = s.jobs
	m.connections = s.connections
	m.notifications = s.notifications
}

func (m *memDB) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepositories) error) error {
	snap := m.snapshot()
	repos := ports.TxRepositories{
		Users:          memUsers{m},
		PasswordResets: memResets{m},
		Jobs:           memJobs{m},
		Connections:    memConnections{m},
		Notifications:  memNotifications{m},
	}
	if err := fn(ctx, repos); err != nil {
		m.restore(snap)
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type memUsers struct{ m *memDB }

func (r memUsers) CreateEmailUser(_ context.Context, fullName, email string, hash, salt []byte, role domain.Role) (*domain.User, error) {
	for _, u := range r.m.users {
		if u.Email == email {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	u := domain.User{ID: uuid.New(), FullName: fullName, Email: email, PasswordHash: hash, PasswordSalt: salt, Role: role, CreatedAt: time.Now()}
	r.m.users[u.ID] = u
	return &u, nil
}

func (r memUsers) UpsertGoogleUser(_ context.Context, email, fullName string) (*domain.User, error) {
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	u := domain.User{ID: uuid.New(), FullName: fullName, Email: email, Role: domain.RoleCandidate, CreatedAt: time.Now()}
	r.m.users[u.ID] = u
	return &u, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.m.findByEmailErr != nil {
		return nil, r.m.findByEmailErr
	}
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (r memUsers) LockByID(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.users[id]; !ok {
		return sql.ErrNoRows
	}
	r.m.locked = append(r.m.locked, id)
	return nil
}

func (r memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash, salt []byte) error {
	if r.m.updatePwErr != nil {
		return r.m.updatePwErr
	}
	u, ok := r.m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash, u.PasswordSalt = hash, salt
	r.m.users[id] = u
	return nil
}

func (r memUsers) UpdateImage(_ context.Context, id uuid.UUID, imageURL string) (*domain.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u.ImageURL = &imageURL
	r.m.users[id] = u
	return &u, nil
}

func (r memUsers) RequestDeletion(_ context.Context, id uuid.UUID) error {
	u, ok := r.m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	if u.DeletionRequestedAt == nil {
		now := time.Now()
		u.DeletionRequestedAt = &now
	}
	r.m.users[id] = u
	return nil
}

func (r memUsers) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	out := make([]domain.User, 0)
	for _, u := range r.m.users {
		if u.Role != domain.RoleAdmin {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if offset >= len(out) {
		return []domain.User{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.m.users, id)
	return nil
}

type memResets struct{ m *memDB }

func (r memResets) Create(_ context.Context, userID uuid.UUID, tokenHash []byte, expiresAt time.Time) (*domain.PasswordReset, error) {
	if r.m.createResetErr != nil {
		return nil, r.m.createResetErr
	}
	reset := domain.PasswordReset{ID: r.m.id(), UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	r.m.resets = append(r.m.resets, reset)
	return &reset, nil
}

func (r memResets) InvalidateByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for i := range r.m.resets {
		if r.m.resets[i].UserID == userID && !r.m.resets[i].Used {
			r.m.resets[i].Used = true
			n++
		}
	}
	return n, nil
}

func (r memResets) FindConsumable(_ context.Context, tokenHash []byte, now time.Time) (*domain.PasswordReset, error) {
	for _, reset := range r.m.resets {
		if bytes.Equal(reset.TokenHash, tokenHash) && !reset.Used && reset.ExpiresAt.After(now) {
			return &reset, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memResets) LockConsumable(ctx context.Context, tokenHash []byte, now time.Time) (*domain.PasswordReset, error) {
	return r.FindConsumable(ctx, tokenHash, now)
}

func (r memResets) MarkUsed(_ context.Context, id int64) error {
	for i := range r.m.resets {
		if r.m.resets[i].ID == id && !r.m.resets[i].Used {
			r.m.resets[i].Used = true
			return nil
		}
	}
	return sql.ErrNoRows
}

type memJobs struct{ m *memDB }

func (r memJobs) Search(_ context.Context, filter domain.JobFilter) (*domain.JobListResult, error) {
	items := make([]domain.Job, 0)
	for _, j := range r.m.jobs {
		if filter.Search != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, j)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID > items[b].ID })
	total := int64(len(items))
	if filter.Offset >= len(items) {
		items = []domain.Job{}
	} else {
		items = items[filter.Offset:]
	}
	if len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return &domain.JobListResult{Items: items, Total: total}, nil
}

func (r memJobs) FindByID(_ context.Context, id int64) (*domain.Job, error) {
	j, ok := r.m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &j, nil
}

func applyJobInput(j *domain.Job, input domain.JobInput) {
	j.Title, j.Company = input.Title, input.Company
	j.Location, j.EmpType, j.SalaryRange = input.Location, input.EmpType, input.SalaryRange
	j.SalaryMin, j.Description, j.CategoryID = input.SalaryMin, input.Description, input.CategoryID
}

func (r memJobs) Create(_ context.Context, employerID uuid.UUID, input domain.JobInput) (*domain.Job, error) {
	j := domain.Job{ID: r.m.id(), EmployerID: employerID, SkillIDs: []int64{}, CreatedAt: time.Now()}
	applyJobInput(&j, input)
	r.m.jobs[j.ID] = j
	return &j, nil
}

func (r memJobs) Update(_ context.Context, id int64, input domain.JobInput) (*domain.Job, error) {
	j, ok := r.m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	applyJobInput(&j, input)
	r.m.jobs[id] = j
	return &j, nil
}

func (r memJobs) ReplaceSkills(_ context.Context, jobID int64, skillIDs []int64) error {
	j, ok := r.m.jobs[jobID]
	if !ok {
		return sql.ErrNoRows
	}
	for _, id := range skillIDs {
		if id <= 0 {
			return &pgconn.PgError{Code: "23503"}
		}
	}
	j.SkillIDs = append([]int64{}, skillIDs...)
	r.m.jobs[jobID] = j
	return nil
}

func (r memJobs) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.jobs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.m.jobs, id)
	return nil
}

type memConnections struct{ m *memDB }

func (r memConnections) Create(_ context.Context, senderID, receiverID uuid.UUID) (*domain.ConnectionRequest, error) {
	r.interleave()
	for _, open := range r.m.connections {
		if open.Involves(senderID) && open.Involves(receiverID) && open.Status != domain.ConnectionRejected {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	c := domain.ConnectionRequest{ID: r.m.id(), SenderID: senderID, ReceiverID: receiverID, Status: domain.ConnectionPending, CreatedAt: time.Now()}
	r.m.connections[c.ID] = c
	return &c, nil
}

func (r memConnections) FindByID(_ context.Context, id int64) (*domain.ConnectionRequest, error) {
	c, ok := r.m.connections[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (r memConnections) FindOpenBetween(_ context.Context, a, b uuid.UUID) (*domain.ConnectionRequest, error) {
	for _, c := range r.m.connections {
		if c.Involves(a) && c.Involves(b) && c.Status != domain.ConnectionRejected {
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memConnections) UpdateStatus(_ context.Context, id int64, status domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	r.interleave()
	c, ok := r.m.connections[id]
	if !ok || c.Status != domain.ConnectionPending {
		return nil, sql.ErrNoRows
	}
	c.Status = status
	r.m.connections[id] = c
	return &c, nil
}

func (r memConnections) interleave() {
	if hook := r.m.beforeConnectionWrite; hook != nil {
		r.m.beforeConnectionWrite = nil
		hook()
	}
}

func (r memConnections) view(c domain.ConnectionRequest, other uuid.UUID) domain.ConnectionView {
	u := r.m.users[other]
	return domain.ConnectionView{ID: c.ID, Status: c.Status, UserID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role, CreatedAt: c.CreatedAt}
}

func (r memConnections) ListPendingForReceiver(_ context.Context, receiverID uuid.UUID) ([]domain.ConnectionView, error) {
	out := make([]domain.ConnectionView, 0)
	for _, c := range r.m.connections {
		if c.ReceiverID == receiverID && c.Status == domain.ConnectionPending {
			out = append(out, r.view(c, c.SenderID))
		}
	}
	return out, nil
}

func (r memConnections) ListAccepted(_ context.Context, userID uuid.UUID) ([]domain.ConnectionView, error) {
	out := make([]domain.ConnectionView, 0)
	for _, c := range r.m.connections {
		if c.Involves(userID) && c.Status == domain.ConnectionAccepted {
			other := c.SenderID
			if other == userID {
				other = c.ReceiverID
			}
			out = append(out, r.view(c, other))
		}
	}
	return out, nil
}

func (r memConnections) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.connections[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.m.connections, id)
	return nil
}

type memNotifications struct{ m *memDB }

func (r memNotifications) Create(_ context.Context, userID uuid.UUID, kind domain.NotificationType, message string) (*domain.Notification, error) {
	n := domain.Notification{ID: r.m.id(), UserID: userID, Type: kind, Message: message, CreatedAt: time.Now()}
	r.m.notifications = append(r.m.notifications, n)
	return &n, nil
}

func (r memNotifications) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0)
	for i := len(r.m.notifications) - 1; i >= 0; i-- {
		if r.m.notifications[i].UserID == userID {
			out = append(out, r.m.notifications[i])
		}
	}
	if offset >= len(out) {
		return []domain.Notification{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memNotifications) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, note := range r.m.notifications {
		if note.UserID == userID && !note.IsRead {
			n++
		}
	}
	return n, nil
}

func (r memNotifications) MarkRead(_ context.Context, id int64, userID uuid.UUID) error {
	for i := range r.m.notifications {
		if r.m.notifications[i].ID == id && r.m.notifications[i].UserID == userID {
			r.m.notifications[i].IsRead = true
			return nil
		}
	}
	return sql.ErrNoRows
}

type sentReset struct {
	email    string
	name     string
	resetURL string
}

type fakeResetMailer struct {
	sent []sentReset
	err  error
}

func (f *fakeResetMailer) SendPasswordReset(_ context.Context, email, name, resetURL string) error {
	f.sent = append(f.sent, sentReset{email: email, name: name, resetURL: resetURL})
	return f.err
}

type fakeSessionRepo struct {
	created     []domain.Session
	createErr   error
	active      map[string]domain.Session
	deactivated []string
}

func (f *fakeSessionRepo) CreateSession(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s := domain.Session{ID: int64(len(f.created) + 1), UserID: userID, Token: token, ExpiresAt: expiresAt, IsActive: true}
	f.created = append(f.created, s)
	if f.active == nil {
		f.active = make(map[string]domain.Session)
	}
	f.active[token] = s
	return &s, nil
}

func (f *fakeSessionRepo) DeactivateSession(_ context.Context, token string) error {
	f.deactivated = append(f.deactivated, token)
	delete(f.active, token)
	return nil
}

func (f *fakeSessionRepo) FindActiveSession(_ context.Context, token string) (*domain.Session, error) {
	s, ok := f.active[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

type uploadedObject struct {
	bucket      string
	objectName  string
	contentType string
	size        int64
}

type fakeStorage struct {
	uploaded []uploadedObject
	err      error
}

func (f *fakeStorage) Upload(_ context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.Copy(io.Discard, reader)
	f.uploaded = append(f.uploaded, uploadedObject{bucket: bucket, objectName: objectName, contentType: contentType, size: size})
	return "https://storage/" + bucket + "/" + objectName, nil
}

var (
	_ ports.Transactor              = (*memDB)(nil)
	_ ports.UserRepository          = memUsers{}
	_ ports.PasswordResetRepository = memResets{}
	_ ports.JobRepository           = memJobs{}
	_ ports.ConnectionRepository    = memConnections{}
	_ ports.NotificationRepository  = memNotifications{}
	_ ports.SessionRepository       = (*fakeSessionRepo)(nil)
	_ ports.ObjectStorage           = (*fakeStorage)(nil)
)
